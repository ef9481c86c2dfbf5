package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/rook-computer/hubcrest/internal/errors"
)

var (
	red   = color.NRGBA{R: 0xff, A: 0xff}
	blue  = color.NRGBA{B: 0xff, A: 0xff}
	green = color.NRGBA{G: 0x80, A: 0xff}
)

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func closeTo(got color.RGBA, want color.Color, tol int) bool {
	w := color.RGBAModel.Convert(want).(color.RGBA)
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	return d(got.R, w.R) <= tol && d(got.G, w.G) <= tol && d(got.B, w.B) <= tol && d(got.A, w.A) <= tol
}

func TestNewSurfaceRejectsBadSizes(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -1, 5},
		{"too wide", MaxDimension + 1, 1},
		{"too tall", 1, MaxDimension + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSurface(tt.w, tt.h)
			if s != nil {
				t.Error("expected nil surface")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestSurfaceDestinationOver(t *testing.T) {
	s, err := NewSurface(20, 20)
	if err != nil {
		t.Fatal(err)
	}
	s.FillBackground(green)
	s.FillRect(0, 0, 10, 10, red)

	if prev := s.SetCompositeMode(DestinationOver); prev != SourceOver {
		t.Errorf("previous mode = %v, want source-over", prev)
	}
	s.FillRect(5, 5, 10, 10, blue)
	s.SetCompositeMode(SourceOver)

	img := s.Image()
	tests := []struct {
		name string
		x, y int
		want color.Color
	}{
		{"existing content stays on top", 7, 7, red},
		{"untouched content", 2, 2, red},
		{"new paint above background", 12, 12, blue},
		{"background elsewhere", 18, 2, green},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rgbaAt(img, tt.x, tt.y); !closeTo(got, tt.want, 0) {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSurfaceSourceOverPaintsOnTop(t *testing.T) {
	s, _ := NewSurface(20, 20)
	s.FillRect(0, 0, 10, 10, red)
	s.FillRect(5, 5, 10, 10, blue)
	if got := rgbaAt(s.Image(), 7, 7); !closeTo(got, blue, 0) {
		t.Errorf("overlap pixel = %v, want blue", got)
	}
}

func TestSurfaceAlpha(t *testing.T) {
	s, _ := NewSurface(10, 10)
	s.FillBackground(color.Black)
	if prev := s.SetAlpha(0.5); prev != 1 {
		t.Errorf("previous alpha = %v, want 1", prev)
	}
	s.FillRect(0, 0, 10, 10, color.White)
	got := rgbaAt(s.Image(), 5, 5)
	if !closeTo(got, color.RGBA{R: 128, G: 128, B: 128, A: 255}, 2) {
		t.Errorf("half white over black = %v, want mid grey", got)
	}

	if s.SetAlpha(7); s.Alpha() != 1 {
		t.Errorf("alpha above 1 should clamp, got %v", s.Alpha())
	}
	if s.SetAlpha(-3); s.Alpha() != 0 {
		t.Errorf("alpha below 0 should clamp, got %v", s.Alpha())
	}
}

func TestSurfaceLayers(t *testing.T) {
	s, _ := NewSurface(10, 10)
	s.FillRect(0, 0, 10, 10, red)

	if prev := s.UseLayer(LayerBackground); prev != LayerContent {
		t.Errorf("previous layer = %v, want content", prev)
	}
	s.FillRect(0, 0, 10, 10, blue)
	s.UseLayer(LayerContent)

	if got := rgbaAt(s.Image(), 5, 5); !closeTo(got, red, 0) {
		t.Errorf("content should cover background, got %v", got)
	}
}

func TestSurfaceClipsOutOfRange(t *testing.T) {
	s, _ := NewSurface(16, 16)
	before := bytes.Clone(s.Image().Pix)

	s.FillCircle(-100, -100, 10, red)
	s.FillRect(50, 50, 10, 10, red)
	s.StrokeSegments([]Segment{{From: Point{-50, -50}, To: Point{-20, -80}}}, StrokeStyle{Color: red, Width: 4})

	if !bytes.Equal(before, s.Image().Pix) {
		t.Error("drawing entirely off canvas changed pixels")
	}

	s.FillCircle(0, 0, 4, red)
	if got := rgbaAt(s.Image(), 1, 1); !closeTo(got, red, 0) {
		t.Errorf("partly visible circle not drawn, pixel = %v", got)
	}
}

func TestSurfaceIgnoresEmptyInput(t *testing.T) {
	s, _ := NewSurface(8, 8)
	s.StrokeSegments(nil, StrokeStyle{Color: red, Width: 2})
	s.StrokeSegments([]Segment{{To: Point{8, 8}}}, StrokeStyle{Color: red})
	s.FillCircle(4, 4, 0, red)
	s.DrawString(nil, "x", 0, 0, red)
	for _, v := range s.Image().Pix {
		if v != 0 {
			t.Fatal("empty drawing calls should not paint")
		}
	}
}

func TestStrokeCaps(t *testing.T) {
	tests := []struct {
		cap     LineCap
		pastEnd bool
	}{
		{CapRound, true},
		{CapSquare, true},
		{CapButt, false},
	}
	for _, tt := range tests {
		s, _ := NewSurface(32, 32)
		seg := []Segment{{From: Point{10, 16}, To: Point{20, 16}}}
		s.StrokeSegments(seg, StrokeStyle{Color: red, Width: 6, Cap: tt.cap})

		img := s.Image()
		if got := rgbaAt(img, 15, 16); !closeTo(got, red, 0) {
			t.Errorf("cap %d: segment body = %v, want red", tt.cap, got)
		}
		got := rgbaAt(img, 21, 16)
		if tt.pastEnd && !closeTo(got, red, 0) {
			t.Errorf("cap %d: pixel past the end = %v, want red", tt.cap, got)
		}
		if !tt.pastEnd && got.A != 0 {
			t.Errorf("cap %d: pixel past the end = %v, want transparent", tt.cap, got)
		}
	}
}

func TestScratchAllocatedOnDemand(t *testing.T) {
	s, _ := NewSurface(8, 8)
	s.FillRect(0, 0, 4, 4, red)
	if s.scratch != nil {
		t.Fatal("source-over drawing allocated the scratch layer")
	}
	s.SetCompositeMode(DestinationOver)
	s.FillRect(0, 0, 8, 8, blue)
	if s.scratch == nil {
		t.Fatal("destination-over drawing did not allocate the scratch layer")
	}
	if got := rgbaAt(s.Image(), 1, 1); !closeTo(got, red, 0) {
		t.Errorf("pixel under existing paint = %v, want red", got)
	}
	if got := rgbaAt(s.Image(), 6, 6); !closeTo(got, blue, 0) {
		t.Errorf("pixel outside existing paint = %v, want blue", got)
	}
}
