package render

import (
	"bytes"
	"testing"
)

func noisySurface(t *testing.T, seed uint64, spec NoiseSpec) *Surface {
	t.Helper()
	s, err := NewSurface(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	s.FillBackground(DefaultPalette.Background)
	ApplyNoise(s, spec, NewRand(seed))
	return s
}

func TestApplyNoiseIsSeeded(t *testing.T) {
	a := noisySurface(t, 7, DefaultNoise).Image().Pix
	b := noisySurface(t, 7, DefaultNoise).Image().Pix
	c := noisySurface(t, 8, DefaultNoise).Image().Pix

	if !bytes.Equal(a, b) {
		t.Error("same seed produced different textures")
	}
	if bytes.Equal(a, c) {
		t.Error("different seeds produced identical textures")
	}
}

func TestApplyNoiseRestoresState(t *testing.T) {
	s, _ := NewSurface(32, 32)
	s.SetAlpha(0.8)
	s.SetCompositeMode(DestinationOver)

	ApplyNoise(s, DefaultNoise, NewRand(1))

	if s.Alpha() != 0.8 {
		t.Errorf("alpha = %v, want 0.8", s.Alpha())
	}
	if s.CompositeMode() != DestinationOver {
		t.Errorf("mode = %v, want destination-over", s.CompositeMode())
	}
	if l := s.UseLayer(LayerContent); l != LayerContent {
		t.Errorf("layer = %v, want content", l)
	}
	for _, v := range s.content.Pix {
		if v != 0 {
			t.Fatal("noise leaked into the content layer")
		}
	}
}

func TestApplyNoiseStaysSubtle(t *testing.T) {
	// Same dot density as the default texture on a 512px logo.
	spec := DefaultNoise
	spec.Iterations = DefaultNoise.Iterations * 64 * 64 / (512 * 512)
	s := noisySurface(t, 42, spec)
	bg := DefaultPalette.Background
	img := s.Image()

	changed := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			p := img.RGBAAt(x, y)
			if p.A != 0xff {
				t.Fatalf("pixel (%d,%d) lost opacity: %v", x, y, p)
			}
			if p.R > bg.R || p.G > bg.G || p.B > bg.B {
				t.Fatalf("black noise brightened pixel (%d,%d): %v", x, y, p)
			}
			if !closeTo(p, bg, 0) {
				changed++
			}
			if !closeTo(p, bg, 16) {
				t.Errorf("pixel (%d,%d) = %v darkened too far from %v", x, y, p, bg)
			}
		}
	}
	if changed == 0 {
		t.Error("noise did not touch any pixel")
	}
}

func TestApplyNoiseDisabled(t *testing.T) {
	off := DefaultNoise
	off.Iterations = 0
	s := noisySurface(t, 3, off)
	img := s.Image()
	for i := 0; i < len(img.Pix); i += 4 {
		p := img.RGBAAt((i/4)%64, (i/4)/64)
		if !closeTo(p, DefaultPalette.Background, 0) {
			t.Fatalf("pixel %d = %v, want plain background", i/4, p)
		}
	}
}
