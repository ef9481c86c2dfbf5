// Package render draws the hub's logo, banner and invite card from vector
// primitives and encodes them as PNG.
package render

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/rook-computer/hubcrest/internal/errors"
	"github.com/rook-computer/hubcrest/internal/fonts"
)

// Option configures a render call.
type Option func(*options)

type options struct {
	palette Palette
	noise   NoiseSpec
	rng     *rand.Rand
	book    *fonts.Book
	brand   Brand
}

// WithPalette overrides DefaultPalette.
func WithPalette(p Palette) Option {
	return func(o *options) { o.palette = p }
}

// WithNoise overrides DefaultNoise. A zero Iterations disables the texture.
func WithNoise(n NoiseSpec) Option {
	return func(o *options) { o.noise = n }
}

// WithSeed makes the texture reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.rng = NewRand(seed) }
}

// WithRand supplies the random source directly.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithFonts supplies the font registry. The default carries only serif.
func WithFonts(b *fonts.Book) Option {
	return func(o *options) { o.book = b }
}

// WithBrand overrides the text overlay.
func WithBrand(b Brand) Option {
	return func(o *options) { o.brand = b }
}

var defaultBook = sync.OnceValue(fonts.NewBook)

func buildOptions(opts []Option) options {
	o := options{
		palette: DefaultPalette,
		noise:   DefaultNoise,
		brand:   DefaultBrand,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = NewRand(rand.Uint64())
	}
	if o.book == nil {
		o.book = defaultBook()
	}
	return o
}

// RenderLogo draws the square logo: textured background, a double eight-point
// star, a lattice painted behind the star and the two-language title.
func RenderLogo(size int, opts ...Option) (ImageBuffer, error) {
	o := buildOptions(opts)
	if n := len(o.brand.TitleLines); n > MaxTitleLines {
		return ImageBuffer{}, errors.New(errors.ErrCodeInvalidInput, "logo takes at most %d title lines, got %d", MaxTitleLines, n)
	}
	s, err := NewSurface(size, size)
	if err != nil {
		return ImageBuffer{}, err
	}
	if err := drawLogo(s, o); err != nil {
		return ImageBuffer{}, err
	}
	return Encode(s)
}

func drawLogo(s *Surface, o options) error {
	size, _ := s.Size()
	fs := float64(size)

	s.FillBackground(o.palette.Background)
	ApplyNoise(s, o.noise, o.rng)

	center := Point{X: fs / 2, Y: fs / 2.1}
	outer := fs * 0.28
	inner := outer * 0.55
	style := StrokeStyle{Color: o.palette.Accent, Width: StrokeWidth(size)}

	DrawStar(s, StarSpec{Center: center, Radius: outer, PointCount: 8}, style)
	DrawStar(s, StarSpec{Center: center, Radius: inner, PointCount: 8}, style)
	DrawLattice(s, LatticeSpec{Center: center, HalfExtent: inner * 1.3, Divisions: 4}, style)

	titleSize := math.Floor(fs * 0.09)
	for i, line := range o.brand.TitleLines {
		err := DrawText(s, o.book, TextSpec{
			Content:  line,
			Families: o.brand.TitleFamilies,
			Bold:     true,
			Size:     titleSize,
			Anchor:   Point{X: center.X, Y: fs * (0.68 + 0.10*float64(i))},
			Baseline: BaselineTop,
		}, o.palette.Accent)
		if err != nil {
			return err
		}
	}
	return DrawText(s, o.book, TextSpec{
		Content:  o.brand.Subtitle,
		Families: o.brand.SubtitleFamilies,
		Size:     math.Floor(fs * 0.075),
		Anchor:   Point{X: center.X, Y: fs * 0.90},
		Baseline: BaselineTop,
	}, o.palette.Accent)
}

// RenderBanner draws the wide banner: textured background, a row of rosettes
// along the midline and the two-language title over it.
func RenderBanner(width, height int, opts ...Option) (ImageBuffer, error) {
	s, err := NewSurface(width, height)
	if err != nil {
		return ImageBuffer{}, err
	}
	if err := drawBanner(s, buildOptions(opts)); err != nil {
		return ImageBuffer{}, err
	}
	return Encode(s)
}

func drawBanner(s *Surface, o options) error {
	w, h := s.Size()
	fw, fh := float64(w), float64(h)

	s.FillBackground(o.palette.Background)
	ApplyNoise(s, o.noise, o.rng)

	style := StrokeStyle{Color: o.palette.Accent, Width: StrokeWidth(h)}
	DrawBorder(s, BannerBorder(h), style)

	err := DrawText(s, o.book, TextSpec{
		Content:  o.brand.BannerTitle,
		Families: o.brand.TitleFamilies,
		Bold:     true,
		Size:     math.Floor(fh * 0.22),
		Anchor:   Point{X: fw / 2, Y: fh/2 - fh*0.08},
		Baseline: BaselineMiddle,
	}, o.palette.Accent)
	if err != nil {
		return err
	}
	return DrawText(s, o.book, TextSpec{
		Content:  o.brand.Subtitle,
		Families: o.brand.SubtitleFamilies,
		Size:     math.Floor(fh * 0.16),
		Anchor:   Point{X: fw / 2, Y: fh/2 + fh*0.14},
		Baseline: BaselineMiddle,
	}, o.palette.Accent)
}
