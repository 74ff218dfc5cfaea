package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mediary/service/internal/media"
)

// ErrSpawn is returned when the transcoding process could not be started.
var ErrSpawn = errors.New("could not spawn transcode process")

// ExitError is returned when the transcoding process exits with a non-zero
// status.
type ExitError struct {
	Status int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("transcode process exited with status %d", e.Status)
}

// Runner executes an external command to completion. The indirection exists
// so the exact transcode argument sequence can be asserted in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

//--

// VideoBackend normalizes animated input (gif, mp4) by piping it through
// ffmpeg. Output is always mp4, regardless of input format or requested
// variant. Scratch files are named with random UUIDs so concurrent requests
// never collide; they are not removed here, the retention sweeper reclaims
// them later.
type VideoBackend struct {
	dir string
	run Runner
	log *slog.Logger
}

// NewVideoBackend creates the ffmpeg backend writing scratch files under dir.
func NewVideoBackend(log *slog.Logger, dir string) *VideoBackend {
	return newVideoBackend(log, dir, execRunner{})
}

func newVideoBackend(log *slog.Logger, dir string, run Runner) *VideoBackend {
	if log == nil {
		log = slog.Default()
	}
	return &VideoBackend{
		dir: dir,
		run: run,
		log: log.With(slog.String("component", "video")),
	}
}

// Generate writes the input to a scratch file, transcodes it, and reads the
// result back.
func (b *VideoBackend) Generate(ctx context.Context, data []byte, _ media.Variant, format media.Format) ([]byte, media.Format, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create scratch directory: %w", err)
	}

	inputPath := b.scratchPath(uuid.NewString(), format)
	outputPath := b.scratchPath(uuid.NewString(), media.FormatMP4)

	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		return nil, "", fmt.Errorf("write scratch input: %w", err)
	}

	if err := b.run.Run(ctx, "ffmpeg", transcodeArgs(inputPath, outputPath)...); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, "", &ExitError{Status: exitErr.ExitCode()}
		}
		return nil, "", fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, "", fmt.Errorf("read scratch output: %w", err)
	}

	return out, media.FormatMP4, nil
}

// Clean removes scratch files whose modification time is older than
// now - olderThan. Newer files may belong to in-flight transcodes and are
// left untouched.
func (b *VideoBackend) Clean(olderThan time.Duration) error {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read scratch directory: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat scratch entry: %w", err)
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(b.dir, entry.Name())
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("remove scratch file: %w", err)
			}
			b.log.Debug("removed stale scratch file", slog.String("path", path))
		}
	}

	return nil
}

func (b *VideoBackend) scratchPath(name string, format media.Format) string {
	return filepath.Join(b.dir, name+"."+format.Extension())
}

// transcodeArgs is the fixed, non-configurable ffmpeg invocation: strip
// audio, cap at 16 fps, x264 at crf 23 / preset slow, faststart layout, and
// yuv420p (required for Safari and Firefox playback).
func transcodeArgs(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-an",
		"-r", "16",
		"-crf", "23",
		"-preset", "slow",
		"-c:v", "libx264",
		"-movflags", "+faststart",
		"-pix_fmt", "yuv420p",
		outputPath,
	}
}
