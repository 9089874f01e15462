package cli

import (
	"github.com/spf13/cobra"

	"github.com/clipcull/clipcull/internal/playlist"
)

var moveCmd = &cobra.Command{
	Use:   "move <old-playlist> <new-playlist>",
	Short: "Relocate a playlist file, rewriting every entry relative to its new location",
	Long: `Playlist entries are stored relative to the directory containing the
playlist file itself. move re-adds every entry from <old-playlist> to the
playlist at <new-playlist>, recomputing each relative path against the new
location. <new-playlist> is created if absent; if it already exists, its
entries are kept and the moved ones are appended after them.`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	return playlist.Move(args[0], args[1])
}
