package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipcull/clipcull/internal/pipeline"
)

func seedVideoDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("xx"), 0o644))
	return dir
}

func TestBuildCommandRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "build" {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestBuildCommandHasDryRunFlag(t *testing.T) {
	flag := buildCmd.Flags().Lookup("dry-run")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestBuildDryRunTrainsWithoutPrompting(t *testing.T) {
	videoDir := seedVideoDir(t)
	playlistPath := filepath.Join(t.TempDir(), "clipcull.m3u")

	rootCmd.SetArgs([]string{"build", "--dry-run", playlistPath, videoDir})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, int(pipeline.ExitSuccess), code)
}

func TestBuildRequiresAtLeastPlaylistAndOneDir(t *testing.T) {
	rootCmd.SetArgs([]string{"build", "onlyplaylist.m3u"})
	defer rootCmd.SetArgs(nil)

	code := Execute()
	assert.Equal(t, int(pipeline.ExitError), code)
}
