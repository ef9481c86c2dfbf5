package render

import "math"

// StarSpec describes an n-pointed chord star.
type StarSpec struct {
	Center     Point
	Radius     float64
	PointCount int
}

// StarChords returns the chords joining consecutive points on the circle of
// spec.Radius: for i in [0, n), from angle 2πi/n to 2π(i+1)/n.
func StarChords(spec StarSpec) []Segment {
	n := spec.PointCount
	if n <= 0 || spec.Radius <= 0 {
		return nil
	}
	step := 2 * math.Pi / float64(n)
	at := func(a float64) Point {
		return Point{X: spec.Center.X + spec.Radius*math.Cos(a), Y: spec.Center.Y + spec.Radius*math.Sin(a)}
	}
	segs := make([]Segment, n)
	for i := range segs {
		a1 := step * float64(i)
		segs[i] = Segment{From: at(a1), To: at(a1 + step)}
	}
	return segs
}

// DrawStar strokes the chords of spec in one pass.
func DrawStar(s *Surface, spec StarSpec, style StrokeStyle) {
	s.StrokeSegments(StarChords(spec), style)
}

// StrokeWidth is the motif stroke width for a canvas whose reference
// dimension is ref: 2% of it, but never under 2px.
func StrokeWidth(ref int) float64 {
	return math.Max(2, float64(ref)*0.02)
}
