// Package storage defines the object storage gateway for media artifacts.
// The MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"

	"github.com/mediary/service/internal/media"
)

// Object is the metadata returned by an existence probe.
type Object struct {
	URL         string
	ContentType string
}

// Storage is the gateway for persisting and probing media objects. Objects
// are namespaced by variant and addressed by id within that namespace.
type Storage interface {
	// Upload stores data under the given id and variant and returns the
	// public URL. Uploads are idempotent by key: the same id and variant
	// overwrite the previous object.
	Upload(ctx context.Context, id string, variant media.Variant, contentType string, data []byte) (string, error)
	// Stat is a metadata-only existence probe: it returns (nil, nil) when
	// the object does not exist, and an error only for genuine failures
	// (auth, network, malformed metadata). No object bytes are transferred.
	Stat(ctx context.Context, variant media.Variant, id string) (*Object, error)
}
