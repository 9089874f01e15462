package playlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipcull/clipcull/internal/pipeline"
)

func TestOpenCreatesFileWithHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playlist.m3u")

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\n", string(contents))
}

func TestOpenRejectsMissingHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.m3u")
	require.NoError(t, os.WriteFile(path, []byte("not a header\na/b.mp4\n"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	var appErr *pipeline.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pipeline.KindFormat, appErr.Kind)
}

func TestAddPositiveWritesRelativeForwardSlashLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playlist.m3u")
	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	target := filepath.Join(dir, "a", "b.mp4")
	require.NoError(t, p.AddPositive(target))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\na/b.mp4\n", string(contents))
}

func TestAddNegativeWritesPrefixedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playlist.m3u")
	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	target := filepath.Join(dir, "c.mp4")
	require.NoError(t, p.AddNegative(target))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\n#NEGATIVE:c.mp4\n", string(contents))
}

func TestReopenYieldsSameEntriesInOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playlist.m3u")
	p, err := Open(path)
	require.NoError(t, err)

	a := filepath.Join(dir, "a.mp4")
	b := filepath.Join(dir, "b.mp4")
	require.NoError(t, p.AddPositive(a))
	require.NoError(t, p.AddNegative(b))
	require.NoError(t, p.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	require.Len(t, reopened.Entries, 2)
	assert.Equal(t, a, reopened.Entries[0].AbsPath)
	assert.Equal(t, pipeline.Positive, reopened.Entries[0].Verdict)
	assert.Equal(t, b, reopened.Entries[1].AbsPath)
	assert.Equal(t, pipeline.Negative, reopened.Entries[1].Verdict)
}

func TestCommentLinesAreIgnoredOnRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playlist.m3u")
	require.NoError(t, os.WriteFile(path, []byte("#EXTM3U\n# a comment\na.mp4\n"), 0o644))

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	require.Len(t, p.Entries, 1)
	assert.Equal(t, filepath.Join(dir, "a.mp4"), p.Entries[0].AbsPath)
}

func TestContainsMatchesLoadedEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playlist.m3u")
	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	target := filepath.Join(dir, "a.mp4")
	require.NoError(t, p.AddPositive(target))
	assert.True(t, p.Contains(target))
	assert.False(t, p.Contains(filepath.Join(dir, "missing.mp4")))
}

func TestMovePreservesOrderAndPolarityUnderNewRoot(t *testing.T) {
	oldDir := t.TempDir()
	oldPath := filepath.Join(oldDir, "playlist.m3u")
	p, err := Open(oldPath)
	require.NoError(t, err)
	require.NoError(t, p.AddPositive(filepath.Join(oldDir, "a.mp4")))
	require.NoError(t, p.AddNegative(filepath.Join(oldDir, "b.mp4")))
	require.NoError(t, p.Close())

	newDir := t.TempDir()
	newPath := filepath.Join(newDir, "playlist.m3u")
	require.NoError(t, Move(oldPath, newPath))

	moved, err := Open(newPath)
	require.NoError(t, err)
	defer moved.Close()

	require.Len(t, moved.Entries, 2)
	assert.Equal(t, pipeline.Positive, moved.Entries[0].Verdict)
	assert.Equal(t, pipeline.Negative, moved.Entries[1].Verdict)
}
