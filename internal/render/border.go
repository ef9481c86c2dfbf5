package render

// BorderSpec describes a horizontal row of rosettes across the canvas
// midline.
type BorderSpec struct {
	Count      int
	Radius     float64
	Margin     float64
	PointCount int
}

// BannerBorder returns the border used on a banner of height h:
// ten 8-point rosettes of radius 0.18h, inset 0.08h from each side.
func BannerBorder(h int) BorderSpec {
	return BorderSpec{
		Count:      10,
		Radius:     float64(h) * 0.18,
		Margin:     float64(h) * 0.08,
		PointCount: 8,
	}
}

// BorderCenters spreads spec.Count centres evenly between the margins on the
// vertical midline. A single rosette sits on the left margin.
func BorderCenters(w, h int, spec BorderSpec) []Point {
	if spec.Count <= 0 {
		return nil
	}
	y := float64(h) / 2
	pts := make([]Point, spec.Count)
	if spec.Count == 1 {
		pts[0] = Point{X: spec.Margin, Y: y}
		return pts
	}
	gap := (float64(w) - 2*spec.Margin) / float64(spec.Count-1)
	for i := range pts {
		pts[i] = Point{X: spec.Margin + float64(i)*gap, Y: y}
	}
	return pts
}

// DrawBorder strokes one rosette per centre using the current composite mode.
func DrawBorder(s *Surface, spec BorderSpec, style StrokeStyle) {
	w, h := s.Size()
	for _, c := range BorderCenters(w, h, spec) {
		DrawStar(s, StarSpec{Center: c, Radius: spec.Radius, PointCount: spec.PointCount}, style)
	}
}
