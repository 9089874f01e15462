package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipcull/clipcull/internal/playlist"
)

var listPositiveCmd = &cobra.Command{
	Use:   "list-positive <playlist>",
	Short: "Print every path the playlist has marked positive",
	Args:  cobra.ExactArgs(1),
	RunE:  runListPositive,
}

var listNegativeCmd = &cobra.Command{
	Use:   "list-negative <playlist>",
	Short: "Print every path the playlist has marked negative",
	Args:  cobra.ExactArgs(1),
	RunE:  runListNegative,
}

func init() {
	rootCmd.AddCommand(listPositiveCmd, listNegativeCmd)
}

func runListPositive(cmd *cobra.Command, args []string) error {
	return printPaths(cmd, args[0], func(p *playlist.Playlist) []string { return p.Positives() })
}

func runListNegative(cmd *cobra.Command, args []string) error {
	return printPaths(cmd, args[0], func(p *playlist.Playlist) []string { return p.Negatives() })
}

func printPaths(cmd *cobra.Command, path string, pick func(*playlist.Playlist) []string) error {
	pl, err := playlist.Open(path)
	if err != nil {
		return err
	}
	defer pl.Close()

	for _, p := range pick(pl) {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
