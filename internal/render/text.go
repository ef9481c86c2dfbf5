package render

import (
	"image/color"
	"slices"

	"golang.org/x/image/font"
	"golang.org/x/text/unicode/bidi"

	"github.com/rook-computer/hubcrest/internal/fonts"
)

// Baseline selects which part of the line box sits on TextSpec.Anchor.Y.
type Baseline int

const (
	// BaselineTop puts the top of the ascent at the anchor.
	BaselineTop Baseline = iota
	// BaselineMiddle puts the middle of the em box at the anchor.
	BaselineMiddle
	// BaselineAlphabetic puts the glyph baseline at the anchor.
	BaselineAlphabetic
)

// TextSpec is one line of text, centred horizontally on Anchor.X.
type TextSpec struct {
	Content  string
	Families []string
	Bold     bool
	Size     float64
	Anchor   Point
	Baseline Baseline
}

// DrawText draws spec in colour c. Families are tried in order; when none is
// registered the generic serif family is used. Right-to-left content is
// shaped and put into visual order first.
func DrawText(s *Surface, book *fonts.Book, spec TextSpec, c color.Color) error {
	if spec.Content == "" || spec.Size <= 0 {
		return nil
	}
	text := VisualOrder(ShapeArabic(spec.Content))

	weight := fonts.Regular
	if spec.Bold {
		weight = fonts.Bold
	}
	face, _, err := book.Face(spec.Families, weight, text, spec.Size)
	if err != nil {
		return err
	}
	defer face.Close()

	width := float64(font.MeasureString(face, text)) / 64
	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64

	y := spec.Anchor.Y
	switch spec.Baseline {
	case BaselineTop:
		y += ascent
	case BaselineMiddle:
		y += (ascent - descent) / 2
	}
	s.DrawString(face, text, spec.Anchor.X-width/2, y, c)
	return nil
}

// VisualOrder reorders a logical-order string for left-to-right drawing.
// The paragraph direction comes from the first strong character.
func VisualOrder(s string) string {
	base := baseDirection(s)
	if base != bidi.RightToLeft && !hasRTL(s) {
		return s
	}

	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(base)); err != nil {
		return fallbackOrder(s, base)
	}
	o, err := p.Order()
	if err != nil {
		return fallbackOrder(s, base)
	}

	runs := make([]string, 0, o.NumRuns())
	for i := 0; i < o.NumRuns(); i++ {
		run := o.Run(i)
		text := run.String()
		if run.Direction() == bidi.RightToLeft {
			text = bidi.ReverseString(text)
		}
		runs = append(runs, text)
	}
	if base == bidi.RightToLeft {
		slices.Reverse(runs)
	}

	out := make([]byte, 0, len(s))
	for _, r := range runs {
		out = append(out, r...)
	}
	return string(out)
}

func fallbackOrder(s string, base bidi.Direction) string {
	if base == bidi.RightToLeft {
		return bidi.ReverseString(s)
	}
	return s
}

func baseDirection(s string) bidi.Direction {
	for _, r := range s {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.L:
			return bidi.LeftToRight
		case bidi.R, bidi.AL:
			return bidi.RightToLeft
		}
	}
	return bidi.LeftToRight
}

func hasRTL(s string) bool {
	for _, r := range s {
		p, _ := bidi.LookupRune(r)
		if c := p.Class(); c == bidi.R || c == bidi.AL {
			return true
		}
	}
	return false
}
