package generate

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediary/service/internal/media"
)

// fakeRunner records the invocation and plays the part of ffmpeg by writing
// the output file.
type fakeRunner struct {
	name   string
	args   [][]string
	output []byte
	err    error
	input  []byte
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	f.name = name
	f.args = append(f.args, args)
	if f.err != nil {
		return f.err
	}
	// args[1] is the input path, the final argument the output path.
	f.input, _ = os.ReadFile(args[1])
	return os.WriteFile(args[len(args)-1], f.output, 0o644)
}

func TestVideoBackendTranscodeArgs(t *testing.T) {
	runner := &fakeRunner{output: []byte("mp4 bytes")}
	b := newVideoBackend(nil, t.TempDir(), runner)

	out, format, err := b.Generate(context.Background(), []byte("gif bytes"), media.VariantThumbnail, media.FormatGIF)
	require.NoError(t, err)

	assert.Equal(t, media.FormatMP4, format)
	assert.Equal(t, []byte("mp4 bytes"), out)
	assert.Equal(t, []byte("gif bytes"), runner.input)
	assert.Equal(t, "ffmpeg", runner.name)

	require.Len(t, runner.args, 1)
	args := runner.args[0]
	inputPath := args[1]
	outputPath := args[len(args)-1]
	assert.True(t, strings.HasSuffix(inputPath, ".gif"), "input path %q should carry the input extension", inputPath)
	assert.True(t, strings.HasSuffix(outputPath, ".mp4"), "output path %q should be mp4", outputPath)
	assert.Equal(t, []string{
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
	}, args)
}

func TestVideoBackendUniqueScratchNames(t *testing.T) {
	runner := &fakeRunner{output: []byte("x")}
	b := newVideoBackend(nil, t.TempDir(), runner)

	_, _, err := b.Generate(context.Background(), []byte("a"), media.VariantThumbnail, media.FormatMP4)
	require.NoError(t, err)
	_, _, err = b.Generate(context.Background(), []byte("b"), media.VariantThumbnail, media.FormatMP4)
	require.NoError(t, err)

	require.Len(t, runner.args, 2)
	assert.NotEqual(t, runner.args[0][1], runner.args[1][1], "concurrent requests must never share scratch files")
}

func TestVideoBackendLeavesScratchFiles(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{output: []byte("x")}
	b := newVideoBackend(nil, dir, runner)

	_, _, err := b.Generate(context.Background(), []byte("a"), media.VariantThumbnail, media.FormatGIF)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "input and output scratch files stay until the sweeper runs")
}

func TestVideoBackendSpawnFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("executable file not found")}
	b := newVideoBackend(nil, t.TempDir(), runner)

	_, _, err := b.Generate(context.Background(), []byte("a"), media.VariantThumbnail, media.FormatGIF)
	assert.ErrorIs(t, err, ErrSpawn)
}

func TestVideoBackendProcessFailure(t *testing.T) {
	// A genuine non-zero exit, so the error carries the real exit status.
	exitErr := exec.Command("sh", "-c", "exit 3").Run()
	var realExit *exec.ExitError
	require.ErrorAs(t, exitErr, &realExit)

	runner := &fakeRunner{err: exitErr}
	b := newVideoBackend(nil, t.TempDir(), runner)

	_, _, err := b.Generate(context.Background(), []byte("a"), media.VariantThumbnail, media.FormatGIF)
	var procErr *ExitError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, 3, procErr.Status)
}

func TestCleanRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	b := newVideoBackend(nil, dir, &fakeRunner{})

	stale := filepath.Join(dir, "stale.mp4")
	fresh := filepath.Join(dir, "fresh.mp4")
	require.NoError(t, os.WriteFile(stale, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("b"), 0o644))

	old := time.Now().Add(-10 * time.Minute)
	require.NoError(t, os.Chtimes(stale, old, old))

	require.NoError(t, b.Clean(5*time.Minute))

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestCleanMissingDirectory(t *testing.T) {
	b := newVideoBackend(nil, filepath.Join(t.TempDir(), "does-not-exist"), &fakeRunner{})
	assert.NoError(t, b.Clean(5*time.Minute))
}
