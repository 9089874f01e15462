package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipcull/clipcull/internal/pipeline"
	"github.com/clipcull/clipcull/internal/playlist"
)

func seedPlaylist(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "clipcull.m3u")

	pl, err := playlist.Open(path)
	require.NoError(t, err)
	require.NoError(t, pl.AddPositive(filepath.Join(dir, "keep.mp4")))
	require.NoError(t, pl.AddNegative(filepath.Join(dir, "drop.mp4")))
	require.NoError(t, pl.Close())

	return path
}

func TestListPositiveCommandRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "list-positive" {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestListNegativeCommandRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "list-negative" {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestListPositivePrintsOnlyPositiveEntries(t *testing.T) {
	path := seedPlaylist(t)

	rootCmd.SetArgs([]string{"list-positive", path})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, int(pipeline.ExitSuccess), code)
	assert.Contains(t, buf.String(), "keep.mp4")
	assert.NotContains(t, buf.String(), "drop.mp4")
}

func TestListNegativePrintsOnlyNegativeEntries(t *testing.T) {
	path := seedPlaylist(t)

	rootCmd.SetArgs([]string{"list-negative", path})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, int(pipeline.ExitSuccess), code)
	assert.Contains(t, buf.String(), "drop.mp4")
	assert.NotContains(t, buf.String(), "keep.mp4")
}

func TestListPositiveRequiresExactlyOneArg(t *testing.T) {
	rootCmd.SetArgs([]string{"list-positive"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetErr(buf)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.Equal(t, int(pipeline.ExitError), code)
}
