package render

import (
	"image/color"
	"math/rand/v2"
)

// NoiseSpec parameterises the speckle texture.
type NoiseSpec struct {
	Iterations int
	MaxRadius  float64
	Opacity    float64
	Color      color.NRGBA
}

// DefaultNoise is 4000 faint black specks of up to 1.5px radius.
var DefaultNoise = NoiseSpec{
	Iterations: 4000,
	MaxRadius:  1.5,
	Opacity:    0.05,
	Color:      color.NRGBA{A: 0xff},
}

// NewRand returns a generator for seed. The same seed yields the same texture.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ApplyNoise scatters spec.Iterations translucent dots over the background
// layer. Each dot consumes three draws from rng: x, y, then radius.
// The surface's alpha, layer and composite mode are restored afterwards.
func ApplyNoise(s *Surface, spec NoiseSpec, rng *rand.Rand) {
	if spec.Iterations <= 0 || spec.MaxRadius <= 0 || spec.Opacity <= 0 {
		return
	}
	defer s.SetAlpha(s.SetAlpha(spec.Opacity))
	defer s.UseLayer(s.UseLayer(LayerBackground))
	defer s.SetCompositeMode(s.SetCompositeMode(SourceOver))

	w, h := s.Size()
	for i := 0; i < spec.Iterations; i++ {
		x := rng.Float64() * float64(w)
		y := rng.Float64() * float64(h)
		r := rng.Float64() * spec.MaxRadius
		s.FillCircle(x, y, r, spec.Color)
	}
}
