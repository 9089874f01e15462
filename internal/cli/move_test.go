package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipcull/clipcull/internal/pipeline"
	"github.com/clipcull/clipcull/internal/playlist"
)

func TestMoveCommandRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "move" {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestMoveRelocatesEntriesRelativeToNewRoot(t *testing.T) {
	oldDir := t.TempDir()
	newDir := t.TempDir()
	oldPath := filepath.Join(oldDir, "clipcull.m3u")
	newPath := filepath.Join(newDir, "clipcull.m3u")

	keep := filepath.Join(oldDir, "keep.mp4")
	pl, err := playlist.Open(oldPath)
	require.NoError(t, err)
	require.NoError(t, pl.AddPositive(keep))
	require.NoError(t, pl.Close())

	rootCmd.SetArgs([]string{"move", oldPath, newPath})
	defer rootCmd.SetArgs(nil)

	code := Execute()
	assert.Equal(t, int(pipeline.ExitSuccess), code)

	moved, err := playlist.Open(newPath)
	require.NoError(t, err)
	defer moved.Close()
	assert.True(t, moved.Contains(keep))
}

func TestMoveRequiresTwoArgs(t *testing.T) {
	rootCmd.SetArgs([]string{"move", "onlyone.m3u"})
	defer rootCmd.SetArgs(nil)

	code := Execute()
	assert.Equal(t, int(pipeline.ExitError), code)
}
