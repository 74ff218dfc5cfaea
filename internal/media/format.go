// Package media holds the domain types shared by the ingestion pipeline:
// formats, variants, and the asset entities returned to callers.
package media

import (
	"errors"

	"github.com/gabriel-vasile/mimetype"
)

// Format is the media encoding of a byte sequence, detected from content.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWEBP Format = "webp"
	FormatGIF  Format = "gif"
	FormatMP4  Format = "mp4"
)

// ErrFormatIndeterminate is returned when the content sniffer cannot classify
// the input at all.
var ErrFormatIndeterminate = errors.New("could not determine media format")

// ErrFormatUnsupported is returned when the input is a recognized file type
// outside the supported set.
var ErrFormatUnsupported = errors.New("unsupported media format")

// contentTypes maps each format to the content type declared on upload.
var contentTypes = map[Format]string{
	FormatJPEG: "image/jpeg",
	FormatPNG:  "image/png",
	FormatWEBP: "image/webp",
	FormatGIF:  "image/gif",
	FormatMP4:  "video/mp4",
}

// ContentType returns the MIME content type for the format.
func (f Format) ContentType() string {
	return contentTypes[f]
}

// Extension returns the filename extension for the format, without the dot.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// IsVideo reports whether the format is handled by the video backend.
// GIFs are treated as video input: they are transcoded to mp4 rather than
// resized in-process.
func (f Format) IsVideo() bool {
	return f == FormatGIF || f == FormatMP4
}

// Infer detects the format from leading bytes. It never consults filenames,
// extensions, or caller-declared content types.
func Infer(data []byte) (Format, error) {
	detected := mimetype.Detect(data)
	for format, contentType := range contentTypes {
		if detected.Is(contentType) {
			return format, nil
		}
	}
	if detected.Is("application/octet-stream") {
		return "", ErrFormatIndeterminate
	}
	return "", ErrFormatUnsupported
}
