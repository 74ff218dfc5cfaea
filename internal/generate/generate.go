// Package generate produces derived media variants. Two backends exist: an
// in-process image codec path for stills and an external ffmpeg path for
// animated input. The backend is selected by the detected format.
package generate

import (
	"context"

	"github.com/mediary/service/internal/media"
)

// Generator turns input bytes into the bytes of a derived variant, reporting
// the output format alongside.
type Generator interface {
	Generate(ctx context.Context, data []byte, variant media.Variant, format media.Format) ([]byte, media.Format, error)
}

// Dispatcher routes to the image or video backend by format. The mapping is
// closed and total over media.Format: jpeg, png and webp go to the image
// backend, gif and mp4 to the video backend. Adding a format means extending
// both media.Infer and this dispatch together.
type Dispatcher struct {
	image Generator
	video Generator
}

// NewDispatcher creates a Dispatcher over the two backends.
func NewDispatcher(image, video Generator) *Dispatcher {
	return &Dispatcher{image: image, video: video}
}

// Generate dispatches to the backend responsible for the input format.
func (d *Dispatcher) Generate(ctx context.Context, data []byte, variant media.Variant, format media.Format) ([]byte, media.Format, error) {
	if format.IsVideo() {
		return d.video.Generate(ctx, data, variant, format)
	}
	return d.image.Generate(ctx, data, variant, format)
}
