// Package preview shows rendered artwork on the Linux framebuffer console.
package preview

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/disintegration/imaging"

	"github.com/rook-computer/hubcrest/internal/errors"
	"github.com/rook-computer/hubcrest/internal/render/layout"
)

const DefaultDevice = "/dev/fb0"

// Device is the subset of a framebuffer the preview writes to.
type Device interface {
	Bounds() image.Rectangle
	Set(x, y int, c color.Color)
	Close()
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type Options struct {
	Device     string
	Background color.Color
	// Duration limits how long the image stays up; zero waits for ctx.
	Duration time.Duration
	// Console switches the active VT into graphics mode while showing and
	// closes the preview on Esc, Q or F4.
	Console bool
	Logger  Logger
}

// Compose scales img to fit screen, keeping its aspect ratio, and centres it
// on a background-filled canvas the size of screen.
func Compose(img image.Image, screen image.Rectangle, bg color.Color) *image.RGBA {
	screen = layout.Normalize(screen)
	canvas := image.NewRGBA(image.Rect(0, 0, screen.Dx(), screen.Dy()))
	if bg == nil {
		bg = color.Black
	}
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	if img == nil || img.Bounds().Empty() || canvas.Bounds().Empty() {
		return canvas
	}
	b := img.Bounds()
	dst := layout.FitAspect(canvas.Bounds(), b.Dx(), b.Dy())
	if dst.Empty() {
		return canvas
	}
	scaled := imaging.Resize(img, dst.Dx(), dst.Dy(), imaging.Lanczos)
	draw.Draw(canvas, dst, scaled, image.Point{}, draw.Over)
	return canvas
}

// Blit copies canvas onto dev, sampling nearest neighbour when the sizes
// differ. Pixels are written opaque.
func Blit(dev Device, canvas *image.RGBA) {
	if dev == nil || canvas == nil {
		return
	}
	bounds := dev.Bounds()
	fbWidth, fbHeight := bounds.Dx(), bounds.Dy()
	cw, ch := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	if fbWidth <= 0 || fbHeight <= 0 || cw <= 0 || ch <= 0 {
		return
	}
	for y := 0; y < fbHeight; y++ {
		sy := (y * ch) / fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := (x * cw) / fbWidth
			p := canvas.RGBAAt(canvas.Rect.Min.X+sx, canvas.Rect.Min.Y+sy)
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 0xFF})
		}
	}
}

// ShowOn draws img on an already open device and blocks until ctx is done
// or the configured duration passes. It does not close dev.
func ShowOn(ctx context.Context, dev Device, img image.Image, opts Options) error {
	if img == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to preview")
	}
	start := time.Now()
	canvas := Compose(img, dev.Bounds(), opts.Background)
	Blit(dev, canvas)
	if opts.Logger != nil {
		b := dev.Bounds()
		opts.Logger.Infof("preview", "drew %dx%d image on %dx%d framebuffer in %s",
			img.Bounds().Dx(), img.Bounds().Dy(), b.Dx(), b.Dy(), time.Since(start).Round(time.Millisecond))
	}

	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}
	<-ctx.Done()
	return nil
}

// Show opens the framebuffer named in opts and displays img on it.
func Show(ctx context.Context, img image.Image, opts Options) error {
	path := opts.Device
	if path == "" {
		path = DefaultDevice
	}
	dev, err := Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnsupported, err, "open framebuffer %s", path)
	}
	defer dev.Close()
	if opts.Logger != nil {
		b := dev.Bounds()
		opts.Logger.Infof("preview", "framebuffer open, bounds=%dx%d", b.Dx(), b.Dy())
	}

	if opts.Console {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		watchDismiss(ctx, opts.Logger, cancel)

		if err := setGraphicsMode(); err != nil {
			if opts.Logger != nil {
				opts.Logger.Errorf("tty", "KD_GRAPHICS failed: %v", err)
			}
		} else {
			defer func() {
				if err := restoreTextMode(); err != nil && opts.Logger != nil {
					opts.Logger.Errorf("tty", "KD_TEXT failed: %v", err)
				}
			}()
		}
	}
	return ShowOn(ctx, dev, img, opts)
}
