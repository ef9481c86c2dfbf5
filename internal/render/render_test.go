package render

import (
	"bytes"
	"image"
	"image/png"
	"runtime"
	"testing"

	"github.com/rook-computer/hubcrest/internal/errors"
)

func decode(t *testing.T, buf ImageBuffer) *image.RGBA {
	t.Helper()
	img, err := png.Decode(buf.Reader())
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds().Dx() != buf.Width() || img.Bounds().Dy() != buf.Height() {
		t.Fatalf("decoded %v, buffer claims %dx%d", img.Bounds(), buf.Width(), buf.Height())
	}
	out := image.NewRGBA(img.Bounds())
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

func noNoise() Option {
	n := DefaultNoise
	n.Iterations = 0
	return WithNoise(n)
}

func TestRenderLogo(t *testing.T) {
	buf, err := RenderLogo(DefaultLogoSize, WithSeed(1))
	if err != nil {
		t.Fatalf("RenderLogo() error = %v", err)
	}
	if buf.MediaType() != "image/png" {
		t.Errorf("MediaType() = %q", buf.MediaType())
	}
	img := decode(t, buf)
	if img.Bounds() != image.Rect(0, 0, 512, 512) {
		t.Fatalf("bounds = %v, want 512x512", img.Bounds())
	}

	if got := img.RGBAAt(5, 5); !closeTo(got, DefaultPalette.Background, 12) {
		t.Errorf("corner = %v, want near background", got)
	}
	// The lattice crosses at the motif centre (256, 243.8).
	if got := img.RGBAAt(256, 243); !closeTo(got, DefaultPalette.Accent, 2) {
		t.Errorf("centre = %v, want accent", got)
	}
}

func TestRenderLogoWithoutNoiseHasExactBackground(t *testing.T) {
	buf, err := RenderLogo(256, noNoise())
	if err != nil {
		t.Fatal(err)
	}
	img := decode(t, buf)
	for _, p := range []image.Point{{2, 2}, {253, 2}, {2, 140}, {253, 140}} {
		if got := img.RGBAAt(p.X, p.Y); !closeTo(got, DefaultPalette.Background, 0) {
			t.Errorf("pixel %v = %v, want background", p, got)
		}
	}
}

func TestRenderBanner(t *testing.T) {
	buf, err := RenderBanner(DefaultBannerWidth, DefaultBannerHeight, WithSeed(1))
	if err != nil {
		t.Fatalf("RenderBanner() error = %v", err)
	}
	img := decode(t, buf)
	if img.Bounds() != image.Rect(0, 0, 1920, 480) {
		t.Fatalf("bounds = %v, want 1920x480", img.Bounds())
	}
	if got := img.RGBAAt(2, 2); !closeTo(got, DefaultPalette.Background, 12) {
		t.Errorf("corner = %v, want near background", got)
	}
	// Top vertex of the first rosette.
	if got := img.RGBAAt(38, 153); !closeTo(got, DefaultPalette.Accent, 2) {
		t.Errorf("first rosette vertex = %v, want accent", got)
	}
}

func TestRenderIsReproducible(t *testing.T) {
	a, err := RenderLogo(128, WithSeed(99))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := RenderLogo(128, WithSeed(99))
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("same seed produced different logos")
	}

	c, _ := RenderLogo(128, WithSeed(100))
	if bytes.Equal(a.Bytes(), c.Bytes()) {
		t.Error("different seeds produced identical textured logos")
	}

	quietA, _ := RenderBanner(480, 120, noNoise(), WithSeed(1))
	quietB, _ := RenderBanner(480, 120, noNoise(), WithSeed(2))
	if !bytes.Equal(quietA.Bytes(), quietB.Bytes()) {
		t.Error("seed should not matter without noise")
	}
}

func TestRenderRejectsBadSizes(t *testing.T) {
	tests := []struct {
		name   string
		render func() (ImageBuffer, error)
	}{
		{"logo zero", func() (ImageBuffer, error) { return RenderLogo(0) }},
		{"logo negative", func() (ImageBuffer, error) { return RenderLogo(-5) }},
		{"logo huge", func() (ImageBuffer, error) { return RenderLogo(MaxDimension + 1) }},
		{"banner zero width", func() (ImageBuffer, error) { return RenderBanner(0, 480) }},
		{"banner negative height", func() (ImageBuffer, error) { return RenderBanner(1920, -1) }},
		{"invite zero", func() (ImageBuffer, error) { return RenderInviteCard("https://discord.gg/x", 0) }},
		{"logo three title lines", func() (ImageBuffer, error) {
			b := DefaultBrand
			b.TitleLines = []string{"MUSLIM", "CREATORS", "HUB"}
			return RenderLogo(64, WithBrand(b))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := tt.render()
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
			if buf.Len() != 0 {
				t.Errorf("got %d bytes alongside an error", buf.Len())
			}
		})
	}
}

func TestRenderHonoursPalette(t *testing.T) {
	p := Palette{Background: blue, Accent: red}
	buf, err := RenderLogo(128, WithPalette(p), noNoise())
	if err != nil {
		t.Fatal(err)
	}
	img := decode(t, buf)
	if got := img.RGBAAt(1, 1); !closeTo(got, blue, 0) {
		t.Errorf("corner = %v, want custom background", got)
	}
}

func TestImageBufferIsImmutable(t *testing.T) {
	buf, err := RenderLogo(32, noNoise())
	if err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	b[0] ^= 0xff
	if bytes.Equal(b, buf.Bytes()) {
		t.Error("mutating Bytes() changed the buffer")
	}
	if !bytes.HasPrefix([]byte(buf.DataURI()), []byte("data:image/png;base64,iVBORw0KGgo")) {
		t.Errorf("DataURI() = %.40q...", buf.DataURI())
	}
}

func TestRenderInviteCard(t *testing.T) {
	buf, err := RenderInviteCard("https://discord.gg/hub", 320, noNoise())
	if err != nil {
		t.Fatalf("RenderInviteCard() error = %v", err)
	}
	img := decode(t, buf)
	if img.Bounds() != image.Rect(0, 0, 320, 320) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(1, 1); !closeTo(got, DefaultPalette.Background, 0) {
		t.Errorf("corner = %v, want background", got)
	}

	var light, dark int
	for y := 40; y < 240; y++ {
		for x := 80; x < 240; x++ {
			switch p := img.RGBAAt(x, y); {
			case closeTo(p, DefaultPalette.Accent, 0):
				light++
			case closeTo(p, DefaultPalette.Background, 0):
				dark++
			}
		}
	}
	if light == 0 || dark == 0 {
		t.Errorf("qr area has %d light and %d dark pixels, want both", light, dark)
	}

	if _, err := RenderInviteCard("", 320); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty url error = %v, want INVALID_INPUT", err)
	}
}

func TestTallBannerAllocationStaysBounded(t *testing.T) {
	if testing.Short() {
		t.Skip("allocation check renders a 4096px tall banner")
	}
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	buf, err := RenderBanner(16, 4096, noNoise(), WithSeed(1))
	if err != nil {
		t.Fatalf("RenderBanner() error = %v", err)
	}
	runtime.ReadMemStats(&after)

	if buf.Height() != 4096 {
		t.Errorf("height = %d, want 4096", buf.Height())
	}
	const limit = 64 << 20
	if grew := after.TotalAlloc - before.TotalAlloc; grew > limit {
		t.Errorf("render allocated %d MiB, want under %d MiB", grew>>20, limit>>20)
	}
}
