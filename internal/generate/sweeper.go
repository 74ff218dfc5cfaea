package generate

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner reclaims scratch space older than the given age.
type Cleaner interface {
	Clean(olderThan time.Duration) error
}

// Sweeper periodically reclaims the video backend's scratch directory.
// Transcode scratch files stay on disk after each request; this loop is what
// eventually removes them.
type Sweeper struct {
	cleaner    Cleaner
	staleAfter time.Duration
	log        *slog.Logger
}

// NewSweeper creates a Sweeper that removes files older than staleAfter and
// sleeps the same duration between passes.
func NewSweeper(log *slog.Logger, cleaner Cleaner, staleAfter time.Duration) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{
		cleaner:    cleaner,
		staleAfter: staleAfter,
		log:        log.With(slog.String("component", "sweeper")),
	}
}

// Run loops until ctx is cancelled. A failed pass is logged and the loop
// continues; there is no backoff beyond the fixed sleep interval.
func (s *Sweeper) Run(ctx context.Context) {
	for {
		if err := s.cleaner.Clean(s.staleAfter); err != nil {
			s.log.Error("scratch sweep failed", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopping")
			return
		case <-time.After(s.staleAfter):
		}
	}
}
