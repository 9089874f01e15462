package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/clipcull/clipcull/internal/app"
	"github.com/clipcull/clipcull/internal/player"
	"github.com/clipcull/clipcull/internal/playlist"
)

var buildCmd = &cobra.Command{
	Use:   "build <playlist> <dir>...",
	Short: "Interactively triage files under one or more directories",
	Long: `Walk the given directories for media files, rank the ones not already
in <playlist> against everything <playlist> has already decided, and play
the top candidates one at a time asking for a keep/drop verdict.

Every verdict is appended to <playlist> immediately, so a later run picks up
exactly where this one left off.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runBuild,
}

func init() {
	bindCommonFlags(buildCmd)
	bindBuildFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
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
	if err := a.CollectFiles(cmd.Context(), args[1:], false); err != nil {
		return err
	}

	playerCfg := player.Config{
		Command:      flags.playerCommand,
		Args:         flags.playerArgs,
		StatusURL:    flags.playerStatusURL,
		Timeout:      time.Duration(cfg.PlayerTimeoutMS) * time.Millisecond,
		PollInterval: time.Duration(cfg.PlayerPollMS) * time.Millisecond,
	}
	return a.RunBuild(cmd.Context(), playerCfg)
}
