// Package ingest orchestrates media ingestion: format detection, variant
// generation, and the dual upload of original and derived bytes.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mediary/service/internal/generate"
	"github.com/mediary/service/internal/media"
	"github.com/mediary/service/internal/storage"
)

// Service runs the ingestion pipeline and the asset read path.
type Service struct {
	storage  storage.Storage
	generate generate.Generator
	log      *slog.Logger
}

// NewService creates an ingest Service.
func NewService(log *slog.Logger, store storage.Storage, gen generate.Generator) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		storage:  store,
		generate: gen,
		log:      log.With(slog.String("component", "ingest")),
	}
}

type uploadResult struct {
	url string
	err error
}

// Upload detects the input format, generates the requested variant, and
// stores original and derived bytes concurrently. Both uploads always run to
// completion: a failed sibling is never cancelled, so a failure here can
// leave one object persisted without its counterpart. That inconsistency is
// accepted and logged; read paths treat it as absent.
func (s *Service) Upload(ctx context.Context, id string, data []byte, variant media.Variant) (*media.Asset, error) {
	format, err := media.Infer(data)
	if err != nil {
		return nil, fmt.Errorf("infer format: %w", err)
	}

	derived, outFormat, err := s.generate.Generate(ctx, data, variant, format)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", variant, err)
	}

	originalCh := make(chan uploadResult, 1)
	derivedCh := make(chan uploadResult, 1)
	go func() {
		url, err := s.storage.Upload(ctx, id, media.VariantOriginal, format.ContentType(), data)
		originalCh <- uploadResult{url: url, err: err}
	}()
	go func() {
		url, err := s.storage.Upload(ctx, id, variant, outFormat.ContentType(), derived)
		derivedCh <- uploadResult{url: url, err: err}
	}()

	original, derivedRes := <-originalCh, <-derivedCh

	if original.err != nil {
		if derivedRes.err == nil {
			s.log.Error("original upload failed, derived object left without counterpart",
				slog.String("id", id), slog.String("variant", string(variant)))
		}
		return nil, fmt.Errorf("upload original: %w", original.err)
	}
	if derivedRes.err != nil {
		s.log.Error("derived upload failed, original object left without counterpart",
			slog.String("id", id), slog.String("variant", string(variant)))
		return nil, fmt.Errorf("upload %s: %w", variant, derivedRes.err)
	}

	return media.NewAsset(id, original.url, format.ContentType(), derivedRes.url, outFormat.ContentType()), nil
}

type statResult struct {
	obj *storage.Object
	err error
}

// Get probes both the original and the requested variant concurrently.
// It returns the asset only when both objects exist; a half-written pair is
// logged as an anomaly and reported as absent (nil, nil).
func (s *Service) Get(ctx context.Context, id string, variant media.Variant) (*media.Asset, error) {
	originalCh := make(chan statResult, 1)
	derivedCh := make(chan statResult, 1)
	go func() {
		obj, err := s.storage.Stat(ctx, media.VariantOriginal, id)
		originalCh <- statResult{obj: obj, err: err}
	}()
	go func() {
		obj, err := s.storage.Stat(ctx, variant, id)
		derivedCh <- statResult{obj: obj, err: err}
	}()

	original, derived := <-originalCh, <-derivedCh

	if original.err != nil {
		return nil, fmt.Errorf("check original: %w", original.err)
	}
	if derived.err != nil {
		return nil, fmt.Errorf("check %s: %w", variant, derived.err)
	}

	switch {
	case original.obj != nil && derived.obj != nil:
		return media.NewAsset(id, original.obj.URL, original.obj.ContentType, derived.obj.URL, derived.obj.ContentType), nil
	case original.obj != nil:
		s.log.Warn("original exists but derived does not",
			slog.String("id", id), slog.String("variant", string(variant)))
		return nil, nil
	case derived.obj != nil:
		s.log.Warn("derived exists but original does not",
			slog.String("id", id), slog.String("variant", string(variant)))
		return nil, nil
	default:
		return nil, nil
	}
}
