package render

// LatticeSpec describes a square grid centred on Center with Divisions cells
// either side of the centre lines.
type LatticeSpec struct {
	Center     Point
	HalfExtent float64
	Divisions  int
}

// Step is the grid pitch.
func (l LatticeSpec) Step() float64 {
	if l.Divisions <= 0 {
		return 0
	}
	return l.HalfExtent / float64(l.Divisions)
}

// LatticeLines returns 2*Divisions+1 horizontal and as many vertical lines,
// ordered from the negative offset to the positive one.
func LatticeLines(spec LatticeSpec) (horizontal, vertical []Segment) {
	n := spec.Divisions
	if n <= 0 || spec.HalfExtent <= 0 {
		return nil, nil
	}
	step := spec.Step()
	ext := step * float64(n)
	cx, cy := spec.Center.X, spec.Center.Y
	horizontal = make([]Segment, 0, 2*n+1)
	vertical = make([]Segment, 0, 2*n+1)
	for i := -n; i <= n; i++ {
		off := float64(i) * step
		horizontal = append(horizontal, Segment{From: Point{cx - ext, cy + off}, To: Point{cx + ext, cy + off}})
		vertical = append(vertical, Segment{From: Point{cx + off, cy - ext}, To: Point{cx + off, cy + ext}})
	}
	return horizontal, vertical
}

// DrawLattice strokes the grid behind whatever is already on the content
// layer. The previous composite mode is restored before returning.
func DrawLattice(s *Surface, spec LatticeSpec, style StrokeStyle) {
	h, v := LatticeLines(spec)
	defer s.SetCompositeMode(s.SetCompositeMode(DestinationOver))
	s.StrokeSegments(append(h, v...), style)
}
