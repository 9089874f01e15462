package walk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionFilter(t *testing.T) {
	f := NewExtensionFilter([]string{".MP4", "mkv"})
	assert.True(t, f.Matches("/a/b/movie.mp4"))
	assert.True(t, f.Matches("/a/b/movie.MKV"))
	assert.False(t, f.Matches("/a/b/notes.txt"))

	empty := NewExtensionFilter(nil)
	assert.True(t, empty.Matches("/a/b/anything.xyz"))
}

func TestDefaultIgnoreMatcher(t *testing.T) {
	m := NewDefaultIgnoreMatcher()
	assert.True(t, m.IsIgnored(".git", true))
	assert.True(t, m.IsIgnored(".DS_Store", false))
	assert.False(t, m.IsIgnored("movies/clip.mp4", false))
}

func TestWalkFindsVideoFilesAndSkipsIgnored(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", ".git", "config"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "clip1.mp4"), []byte("1234"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b", "clip2.mkv"), []byte("12"), 0o644))

	w := NewWalker()
	result, err := w.Walk(context.Background(), Config{
		Roots:     []string{root},
		VideoExts: DefaultVideoExtensions,
	})
	require.NoError(t, err)
	require.Len(t, result, 2)

	var names []string
	for _, c := range result {
		names = append(names, filepath.Base(c.AbsPath))
	}
	assert.ElementsMatch(t, []string{"clip1.mp4", "clip2.mkv"}, names)
}

func TestWalkAppliesExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "raw"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proxies"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "raw", "clip1.mp4"), []byte("1234"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "proxies", "clip1.mp4"), []byte("12"), 0o644))

	w := NewWalker()
	result, err := w.Walk(context.Background(), Config{
		Roots:        []string{root},
		VideoExts:    DefaultVideoExtensions,
		ExcludeGlobs: []string{"proxies/**"},
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, filepath.Join(root, "raw", "clip1.mp4"), result[0].AbsPath)
}

func TestWalkRejectsMissingRoot(t *testing.T) {
	w := NewWalker()
	_, err := w.Walk(context.Background(), Config{Roots: []string{"/nonexistent/clipcull/path"}})
	assert.Error(t, err)
}
