package cli

import (
	"github.com/spf13/cobra"

	"github.com/clipcull/clipcull/internal/app"
	"github.com/clipcull/clipcull/internal/playlist"
)

var includeClassified bool

var scoreCmd = &cobra.Command{
	Use:   "score <playlist> <dir>...",
	Short: "Rank files under one or more directories without asking for verdicts",
	Long: `Walk the given directories, train classifiers from <playlist>'s existing
verdicts, and print every candidate ranked by total score, highest first.
No verdict is solicited and <playlist> is never modified.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runScore,
}

func init() {
	bindCommonFlags(scoreCmd)
	scoreCmd.Flags().BoolVar(&includeClassified, "include-classified", false, "also score files already present in the playlist")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pl, err := playlist.Open(args[0])
	if err != nil {
		return err
	}
	defer pl.Close()

	a := app.New(cfg, pl)
	if err := a.CollectFiles(cmd.Context(), args[1:], includeClassified); err != nil {
		return err
	}

	return a.RunScore(cmd.Context(), cmd.OutOrStdout())
}
