package layout

import (
	"image"
	"testing"
)

func TestInset(t *testing.T) {
	tests := []struct {
		name string
		in   image.Rectangle
		pad  int
		want image.Rectangle
	}{
		{"no padding", image.Rect(0, 0, 100, 50), 0, image.Rect(0, 0, 100, 50)},
		{"padding", image.Rect(0, 0, 100, 50), 10, image.Rect(10, 10, 90, 40)},
		{"collapses to centre", image.Rect(0, 0, 10, 10), 8, image.Rect(5, 5, 5, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Inset(tt.in, tt.pad); got != tt.want {
				t.Errorf("Inset() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitHorizontalClamps(t *testing.T) {
	rect := image.Rect(0, 0, 40, 100)
	top, bottom := SplitHorizontal(rect, 80)
	if top != image.Rect(0, 0, 40, 80) || bottom != image.Rect(0, 80, 40, 100) {
		t.Errorf("SplitHorizontal(80) = %v, %v", top, bottom)
	}
	top, bottom = SplitHorizontal(rect, 500)
	if top != rect || !bottom.Empty() {
		t.Errorf("SplitHorizontal(500) = %v, %v", top, bottom)
	}
}

func TestCenterSquare(t *testing.T) {
	got := CenterSquare(image.Rect(0, 0, 200, 100))
	if want := image.Rect(50, 0, 150, 100); got != want {
		t.Errorf("CenterSquare() = %v, want %v", got, want)
	}
}

func TestFitAspect(t *testing.T) {
	tests := []struct {
		name       string
		rect       image.Rectangle
		srcW, srcH int
		want       image.Rectangle
	}{
		{"banner into 4:3", image.Rect(0, 0, 800, 600), 1920, 480, image.Rect(0, 200, 800, 400)},
		{"square into wide", image.Rect(0, 0, 800, 600), 512, 512, image.Rect(100, 0, 700, 600)},
		{"degenerate source", image.Rect(0, 0, 800, 600), 0, 10, image.Rect(0, 0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitAspect(tt.rect, tt.srcW, tt.srcH); got != tt.want {
				t.Errorf("FitAspect() = %v, want %v", got, tt.want)
			}
		})
	}
}
