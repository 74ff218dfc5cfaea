// Package web fetches external resources over HTTP on behalf of the avatar
// resolver: raw image bytes and NFT metadata documents.
package web

import (
	"context"
	"errors"
)

// ErrBodyTooLarge is returned as soon as a response body crosses the size cap.
var ErrBodyTooLarge = errors.New("response body too large")

// ErrMetadataImageMissing is returned when an NFT metadata document carries
// none of the known image fields.
var ErrMetadataImageMissing = errors.New("nft metadata has no image reference")

// Gateway is the outbound fetch capability. Implementations must not follow
// redirects, must enforce a fixed request timeout, and must abort a download
// the moment the accumulated body exceeds the cap.
type Gateway interface {
	// FetchImage downloads the raw bytes at url.
	FetchImage(ctx context.Context, url string) ([]byte, error)
	// ResolveNFTImage fetches NFT metadata JSON from url and returns the
	// image reference it points at.
	ResolveNFTImage(ctx context.Context, url string) (string, error)
}
