package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	xwebp "golang.org/x/image/webp"

	"github.com/mediary/service/internal/media"
)

// ErrDecode is returned when the input bytes cannot be decoded as the
// detected image format.
var ErrDecode = errors.New("could not decode image")

// ErrEncode is returned when the resized image cannot be re-encoded.
var ErrEncode = errors.New("could not encode image")

const webpQuality = 90

// ImageBackend resizes still images in-process and always re-encodes to WEBP.
// It is a pure function of (bytes, variant, format): no external process, no
// filesystem use.
type ImageBackend struct{}

// NewImageBackend creates the image-codec backend.
func NewImageBackend() *ImageBackend {
	return &ImageBackend{}
}

// Generate decodes the input, fits it within the variant's bounding box
// (preserving aspect ratio, never upscaling), and encodes the result as WEBP.
func (b *ImageBackend) Generate(_ context.Context, data []byte, variant media.Variant, format media.Format) ([]byte, media.Format, error) {
	img, err := decode(data, format)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	width, height := variant.Bounds()
	resized := imaging.Fit(img, width, height, imaging.CatmullRom)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return buf.Bytes(), media.FormatWEBP, nil
}

// decode decodes the input with the codec matching the detected format. The
// format was sniffed from content, so a mismatch here means corrupt input.
func decode(data []byte, format media.Format) (image.Image, error) {
	r := bytes.NewReader(data)
	switch format {
	case media.FormatJPEG:
		return jpeg.Decode(r)
	case media.FormatPNG:
		return png.Decode(r)
	case media.FormatWEBP:
		return xwebp.Decode(r)
	default:
		return nil, fmt.Errorf("no image codec for format %q", format)
	}
}
