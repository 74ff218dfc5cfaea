// Package avatar resolves external avatar URLs into stored media assets,
// deduplicating by the SHA-256 of the source URL.
package avatar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/mediary/service/internal/media"
	"github.com/mediary/service/internal/web"
)

// Ingestor is the slice of the ingest service the resolver needs.
type Ingestor interface {
	Upload(ctx context.Context, id string, data []byte, variant media.Variant) (*media.Asset, error)
	Get(ctx context.Context, id string, variant media.Variant) (*media.Asset, error)
}

// Service hydrates avatars from external URLs. Resolution is idempotent by
// construction: the asset id is derived from the source URL, and an already
// materialized avatar short-circuits before any network fetch. Concurrent
// first-time resolutions of the same URL are not serialized; both may
// hydrate, converging on the same objects.
type Service struct {
	web    web.Gateway
	ingest Ingestor
	log    *slog.Logger
}

// NewService creates an avatar Service.
func NewService(log *slog.Logger, gateway web.Gateway, ingest Ingestor) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		web:    gateway,
		ingest: ingest,
		log:    log.With(slog.String("component", "avatar")),
	}
}

// Resolve returns the stored asset for the given source URL, fetching and
// ingesting it first if needed. When isNFT is set, the URL is treated as an
// NFT metadata document and the actual image reference is extracted from it.
func (s *Service) Resolve(ctx context.Context, sourceURL string, isNFT bool) (*media.Asset, error) {
	id := HashURL(sourceURL)

	existing, err := s.ingest.Get(ctx, id, media.VariantAvatar)
	if err != nil {
		return nil, fmt.Errorf("check avatar existence: %w", err)
	}
	if existing != nil {
		s.log.Info("avatar already exists", slog.String("id", id))
		return existing, nil
	}
	s.log.Info("avatar does not exist, hydrating", slog.String("id", id))

	imageURL := sourceURL
	if isNFT {
		imageURL, err = s.web.ResolveNFTImage(ctx, sourceURL)
		if err != nil {
			return nil, fmt.Errorf("resolve nft image: %w", err)
		}
	}

	data, err := s.web.FetchImage(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}

	return s.ingest.Upload(ctx, id, data, media.VariantAvatar)
}

// HashURL derives the stable asset id for a source URL: its SHA-256 digest,
// hex encoded.
func HashURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
