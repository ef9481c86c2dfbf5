package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/rook-computer/hubcrest/internal/errors"
)

// CompositeMode controls where new paint lands relative to existing paint.
type CompositeMode int

const (
	// SourceOver paints on top of existing pixels.
	SourceOver CompositeMode = iota
	// DestinationOver paints behind existing pixels of the active layer.
	DestinationOver
)

func (m CompositeMode) String() string {
	if m == DestinationOver {
		return "destination-over"
	}
	return "source-over"
}

// Layer selects which of the two surface layers drawing goes to.
type Layer int

const (
	// LayerContent holds motifs, overlays and text.
	LayerContent Layer = iota
	// LayerBackground holds the background fill and texture. Content is
	// always composited over it, so DestinationOver on the content layer
	// puts paint under the motifs but still above the background.
	LayerBackground
)

// Point is a position in canvas pixels, origin top-left.
type Point struct{ X, Y float64 }

// Segment is a straight line between two points.
type Segment struct{ From, To Point }

// LineCap is the shape drawn at the open ends of a stroked segment.
type LineCap int

const (
	CapRound LineCap = iota
	CapButt
	CapSquare
)

// StrokeStyle describes how segments are stroked. The zero Cap is round.
// Joins are always round.
type StrokeStyle struct {
	Color color.Color
	Width float64
	Cap   LineCap
}

func (c LineCap) gg() gg.LineCap {
	switch c {
	case CapButt:
		return gg.LineCapButt
	case CapSquare:
		return gg.LineCapSquare
	}
	return gg.LineCapRound
}

// Surface is a fixed-size RGBA canvas. It is not safe for concurrent use.
type Surface struct {
	width, height int

	backdrop *image.RGBA
	content  *image.RGBA
	// scratch is allocated on the first DestinationOver paint.
	scratch  *image.RGBA

	backdropDC *gg.Context
	contentDC  *gg.Context
	scratchDC  *gg.Context

	layer Layer
	mode  CompositeMode
	alpha float64
}

// NewSurface allocates a transparent surface of w x h pixels.
func NewSurface(w, h int) (*Surface, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, w, h)
	s := &Surface{
		width:    w,
		height:   h,
		backdrop: image.NewRGBA(rect),
		content:  image.NewRGBA(rect),
		alpha:    1,
	}
	s.backdropDC = gg.NewContextForRGBA(s.backdrop)
	s.contentDC = gg.NewContextForRGBA(s.content)
	return s, nil
}

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must be positive, got %dx%d", w, h)
	}
	if w > MaxDimension || h > MaxDimension {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size %dx%d exceeds %d pixels per side", w, h, MaxDimension)
	}
	return nil
}

// Size returns the surface dimensions.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// SetCompositeMode sets the compositing mode and returns the previous one.
func (s *Surface) SetCompositeMode(m CompositeMode) CompositeMode {
	prev := s.mode
	s.mode = m
	return prev
}

// CompositeMode returns the current compositing mode.
func (s *Surface) CompositeMode() CompositeMode { return s.mode }

// SetAlpha sets the global opacity applied to every colour, clamped to [0,1],
// and returns the previous value.
func (s *Surface) SetAlpha(a float64) float64 {
	prev := s.alpha
	s.alpha = math.Max(0, math.Min(1, a))
	return prev
}

// Alpha returns the global opacity.
func (s *Surface) Alpha() float64 { return s.alpha }

// UseLayer switches the active layer and returns the previous one.
func (s *Surface) UseLayer(l Layer) Layer {
	prev := s.layer
	s.layer = l
	return prev
}

// FillBackground replaces the whole background layer with c, ignoring alpha
// and composite mode.
func (s *Surface) FillBackground(c color.Color) {
	draw.Draw(s.backdrop, s.backdrop.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// FillRect fills an axis-aligned rectangle.
func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	s.paint(func(dc *gg.Context) {
		dc.DrawRectangle(x, y, w, h)
		dc.SetColor(s.tint(c))
		dc.Fill()
	})
}

// FillCircle fills a circle centred on (x, y).
func (s *Surface) FillCircle(x, y, r float64, c color.Color) {
	if r <= 0 {
		return
	}
	s.paint(func(dc *gg.Context) {
		dc.DrawCircle(x, y, r)
		dc.SetColor(s.tint(c))
		dc.Fill()
	})
}

// StrokeSegments strokes all segments as one path.
func (s *Surface) StrokeSegments(segs []Segment, style StrokeStyle) {
	if len(segs) == 0 || style.Width <= 0 {
		return
	}
	s.paint(func(dc *gg.Context) {
		dc.ClearPath()
		for _, seg := range segs {
			dc.MoveTo(seg.From.X, seg.From.Y)
			dc.LineTo(seg.To.X, seg.To.Y)
		}
		dc.SetColor(s.tint(style.Color))
		dc.SetLineWidth(style.Width)
		dc.SetLineCap(style.Cap.gg())
		dc.SetLineJoinRound()
		dc.Stroke()
	})
}

// DrawString draws text with its left edge at x and its baseline at y.
func (s *Surface) DrawString(face font.Face, text string, x, y float64, c color.Color) {
	if text == "" || face == nil {
		return
	}
	s.paint(func(dc *gg.Context) {
		dc.SetFontFace(face)
		dc.SetColor(s.tint(c))
		dc.DrawString(text, x, y)
	})
}

// DrawImage scales img into r with nearest-neighbour sampling and paints it
// on the active layer. Alpha applies; composite mode does not.
func (s *Surface) DrawImage(img image.Image, r image.Rectangle) {
	if img == nil || r.Empty() {
		return
	}
	dst, _ := s.target()
	var opts *xdraw.Options
	if s.alpha < 1 {
		opts = &xdraw.Options{DstMask: &image.Uniform{C: color.Alpha16{A: uint16(s.alpha * 0xffff)}}}
	}
	xdraw.NearestNeighbor.Scale(dst, r, img, img.Bounds(), xdraw.Over, opts)
}

// Bounds is the surface rectangle.
func (s *Surface) Bounds() image.Rectangle { return s.content.Bounds() }

// Image returns the content layer flattened over the background layer.
func (s *Surface) Image() *image.RGBA {
	out := image.NewRGBA(s.backdrop.Bounds())
	copy(out.Pix, s.backdrop.Pix)
	draw.Draw(out, out.Bounds(), s.content, image.Point{}, draw.Over)
	return out
}

func (s *Surface) target() (*image.RGBA, *gg.Context) {
	if s.layer == LayerBackground {
		return s.backdrop, s.backdropDC
	}
	return s.content, s.contentDC
}

// paint runs fn against the active layer, honouring the composite mode.
// DestinationOver rasterises into scratch and lays the existing layer on top.
func (s *Surface) paint(fn func(dc *gg.Context)) {
	dst, dc := s.target()
	if s.mode == SourceOver {
		fn(dc)
		return
	}
	if s.scratch == nil {
		s.scratch = image.NewRGBA(s.content.Bounds())
		s.scratchDC = gg.NewContextForRGBA(s.scratch)
	} else {
		clear(s.scratch.Pix)
	}
	fn(s.scratchDC)
	draw.Draw(s.scratch, s.scratch.Bounds(), dst, image.Point{}, draw.Over)
	copy(dst.Pix, s.scratch.Pix)
}

func (s *Surface) tint(c color.Color) color.Color {
	if s.alpha >= 1 {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * s.alpha))
	return n
}
