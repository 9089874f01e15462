// Package cli implements the Cobra command hierarchy for the clipcull CLI
// tool: the root command wires cross-cutting concerns (logging, config
// resolution) and each subcommand drives internal/app for one playlist
// operation.
package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/clipcull/clipcull/internal/config"
	"github.com/clipcull/clipcull/internal/pipeline"
)

// globalFlags holds the parsed flag values: the root command's persistent
// flags, plus the per-command flags bound by bindCommonFlags and
// bindBuildFlags and read by loadConfig once flags are parsed.
type globalFlags struct {
	configPath string
	verbose    bool
	quiet      bool

	windows        int
	batch          int
	fileSizeBias   float64
	fileSizeOffset int64
	dirSizeBias    float64
	dirSizeOffset  int64
	fileAgeBias    float64
	fileAgeOffset  int64
	dryRun         bool
	videoExts      []string
	includeGlobs   []string
	excludeGlobs   []string

	playerCommand   string
	playerArgs      []string
	playerStatusURL string
	playerTimeoutMS int
	playerPollMS    int
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:   "clipcull",
	Short: "Learn which media files you want to keep, interactively.",
	Long: `Clipcull triages a media library by ranking files with a small
learned model and asking you, one candidate at a time, whether to keep it.

Every decision is recorded in an append-only playlist; each run retrains
from that playlist's full history, so there is no separate model file to
manage or lose.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := config.ResolveLogLevel(flags.verbose, flags.quiet)
		format := config.ResolveLogFormat()
		config.SetupLogging(level, format)
		slog.Debug("logging initialized", "level", level, "format", format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "clipcull.toml", "path to an optional TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "only log errors")
}

// Execute runs the root command and returns a process exit code. If the
// error is a *pipeline.AppError, its Code is used; any other non-nil error
// returns ExitError.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		return extractExitCode(err)
	}
	return int(pipeline.ExitSuccess)
}

func extractExitCode(err error) int {
	if err == nil {
		return int(pipeline.ExitSuccess)
	}
	var appErr *pipeline.AppError
	if errors.As(err, &appErr) {
		return int(appErr.Code)
	}
	return int(pipeline.ExitError)
}

// RootCmd returns the root cobra.Command for use in testing and subcommand
// registration.
func RootCmd() *cobra.Command {
	return rootCmd
}
