package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"

	"github.com/rook-computer/hubcrest/internal/errors"
)

// MediaTypePNG is the media type of every ImageBuffer.
const MediaTypePNG = "image/png"

// ImageBuffer is an encoded image. Its bytes are never exposed for mutation.
type ImageBuffer struct {
	data   []byte
	width  int
	height int
}

// Bytes returns a copy of the encoded bytes.
func (b ImageBuffer) Bytes() []byte { return bytes.Clone(b.data) }

// Len is the encoded size in bytes.
func (b ImageBuffer) Len() int { return len(b.data) }

// Reader streams the encoded bytes.
func (b ImageBuffer) Reader() io.Reader { return bytes.NewReader(b.data) }

// MediaType is always image/png.
func (b ImageBuffer) MediaType() string { return MediaTypePNG }

// Width in pixels.
func (b ImageBuffer) Width() int { return b.width }

// Height in pixels.
func (b ImageBuffer) Height() int { return b.height }

// DataURI renders the buffer as a base64 data URI.
func (b ImageBuffer) DataURI() string {
	return "data:" + MediaTypePNG + ";base64," + base64.StdEncoding.EncodeToString(b.data)
}

// Encode flattens s and encodes it as a lossless PNG. Identical pixels give
// identical bytes.
func Encode(s *Surface) (ImageBuffer, error) {
	return EncodeImage(s.Image())
}

// EncodeImage encodes any image as an ImageBuffer.
func EncodeImage(img image.Image) (ImageBuffer, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return ImageBuffer{}, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	b := img.Bounds()
	return ImageBuffer{data: buf.Bytes(), width: b.Dx(), height: b.Dy()}, nil
}
