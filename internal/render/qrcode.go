package render

import (
	"image"
	"image/color"
	"math"

	"github.com/skip2/go-qrcode"

	"github.com/rook-computer/hubcrest/internal/errors"
	"github.com/rook-computer/hubcrest/internal/render/layout"
)

const defaultQRCodeSizePx = 256

// QRCodeImage returns a QR code for payload with dark modules in fg on bg.
// The quiet zone is kept so the code stays scannable on any backdrop.
func QRCodeImage(payload string, sizePx int, fg, bg color.Color) (image.Image, error) {
	if payload == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "qr payload is empty")
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode qr payload")
	}
	qrCode.ForegroundColor = fg
	qrCode.BackgroundColor = bg

	return qrCode.Image(sizePx), nil
}

// RenderInviteCard draws a square card carrying a QR code of inviteURL and
// the banner title as a caption.
func RenderInviteCard(inviteURL string, size int, opts ...Option) (ImageBuffer, error) {
	s, err := NewSurface(size, size)
	if err != nil {
		return ImageBuffer{}, err
	}
	o := buildOptions(opts)

	s.FillBackground(o.palette.Background)
	ApplyNoise(s, o.noise, o.rng)

	area := layout.Inset(s.Bounds(), int(float64(size)*0.06))
	top, bottom := layout.SplitHorizontal(area, area.Dy()*4/5)
	qrRect := layout.CenterSquare(top)

	qr, err := QRCodeImage(inviteURL, qrRect.Dx(), o.palette.Background, o.palette.Accent)
	if err != nil {
		return ImageBuffer{}, err
	}
	s.DrawImage(qr, qrRect)

	caption := bottom.Min.Y + bottom.Dy()/2
	err = DrawText(s, o.book, TextSpec{
		Content:  o.brand.BannerTitle,
		Families: o.brand.TitleFamilies,
		Bold:     true,
		Size:     math.Floor(float64(bottom.Dy()) * 0.6),
		Anchor:   Point{X: float64(size) / 2, Y: float64(caption)},
		Baseline: BaselineMiddle,
	}, o.palette.Accent)
	if err != nil {
		return ImageBuffer{}, err
	}
	return Encode(s)
}
