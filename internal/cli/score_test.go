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

func TestScoreCommandRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "score" {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestScoreCommandHasIncludeClassifiedFlag(t *testing.T) {
	flag := scoreCmd.Flags().Lookup("include-classified")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestScoreCommandHasGlobFlags(t *testing.T) {
	require.NotNil(t, scoreCmd.Flags().Lookup("include"))
	require.NotNil(t, scoreCmd.Flags().Lookup("exclude"))
}

func TestScorePrintsRankedCandidates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.mp4"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "large.mp4"), []byte("xxxxxxxxxxxxxxxxxxxxx"), 0o644))
	playlistPath := filepath.Join(t.TempDir(), "clipcull.m3u")

	rootCmd.SetArgs([]string{"score", playlistPath, dir})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, int(pipeline.ExitSuccess), code)

	output := buf.String()
	assert.Contains(t, output, "Total Score")
	assert.Contains(t, output, "small.mp4")
	assert.Contains(t, output, "large.mp4")
}

func TestScoreRequiresAtLeastPlaylistAndOneDir(t *testing.T) {
	rootCmd.SetArgs([]string{"score", "onlyplaylist.m3u"})
	defer rootCmd.SetArgs(nil)

	code := Execute()
	assert.Equal(t, int(pipeline.ExitError), code)
}
