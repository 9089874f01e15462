package cli

import (
	"github.com/spf13/cobra"

	"github.com/clipcull/clipcull/internal/config"
)

// bindCommonFlags registers the classifier, extension and glob flags shared
// by build and score. defaults supplies each flag's zero-override value so --help
// shows the resolved default rather than Go's zero value.
func bindCommonFlags(cmd *cobra.Command) {
	defaults := config.Defaults()

	cmd.Flags().IntVar(&flags.windows, "windows", defaults.Windows, "maximum n-gram window length")
	cmd.Flags().Float64Var(&flags.fileSizeBias, "file-size-bias", defaults.FileSizeBias, "log base for the file size classifier; 0 disables it, negative reverses it")
	cmd.Flags().Int64Var(&flags.fileSizeOffset, "file-size-offset", defaults.FileSizeOffset, "offset added to file size before the log transform")
	cmd.Flags().Float64Var(&flags.dirSizeBias, "dir-size-bias", defaults.DirSizeBias, "log base for the directory size classifier; 0 disables it")
	cmd.Flags().Int64Var(&flags.dirSizeOffset, "dir-size-offset", defaults.DirSizeOffset, "offset added to directory size before the log transform")
	cmd.Flags().Float64Var(&flags.fileAgeBias, "file-age-bias", defaults.FileAgeBias, "log base for the file age classifier; 0 disables it")
	cmd.Flags().Int64Var(&flags.fileAgeOffset, "file-age-offset", defaults.FileAgeOffset, "offset added to file age in seconds before the log transform")
	cmd.Flags().StringSliceVar(&flags.videoExts, "video-exts", defaults.VideoExts, "file extensions to consider, without the leading dot")
	cmd.Flags().StringSliceVar(&flags.includeGlobs, "include", defaults.IncludeGlobs, "doublestar glob patterns; only matching paths are considered")
	cmd.Flags().StringSliceVar(&flags.excludeGlobs, "exclude", defaults.ExcludeGlobs, "doublestar glob patterns to exclude, takes precedence over --include")
}

// bindBuildFlags registers the flags only the interactive build command
// needs: batching, dry-run, and the player subprocess.
func bindBuildFlags(cmd *cobra.Command) {
	defaults := config.Defaults()

	cmd.Flags().IntVar(&flags.batch, "batch", defaults.Batch, "number of top candidates to drain per scoring pass")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "train classifiers but skip the interactive loop")
	cmd.Flags().StringVar(&flags.playerCommand, "player-command", "vlc", "media player executable")
	cmd.Flags().StringSliceVar(&flags.playerArgs, "player-args", []string{"--extraintf", "http", "--http-password", "clipcull"}, "extra arguments passed to the player before the target path")
	cmd.Flags().StringVar(&flags.playerStatusURL, "player-status-url", "http://:clipcull@localhost:8080/requests/status.json", "the player's JSON status endpoint")
	cmd.Flags().IntVar(&flags.playerTimeoutMS, "player-timeout-ms", defaults.PlayerTimeoutMS, "milliseconds to wait for the player to confirm playback")
	cmd.Flags().IntVar(&flags.playerPollMS, "player-poll-ms", defaults.PlayerPollMS, "milliseconds between player status polls")
}

// loadConfig resolves the layered configuration for cmd, overriding with
// only the flags the user actually set so env and TOML layers still apply
// to everything else.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := make(map[string]any)
	set := func(name, key string) {
		if cmd.Flags().Changed(name) {
			overrides[key] = flagValue(key)
		}
	}

	set("windows", "windows")
	set("batch", "batch")
	set("file-size-bias", "file_size_bias")
	set("file-size-offset", "file_size_offset")
	set("dir-size-bias", "dir_size_bias")
	set("dir-size-offset", "dir_size_offset")
	set("file-age-bias", "file_age_bias")
	set("file-age-offset", "file_age_offset")
	set("dry-run", "dry_run")
	set("video-exts", "video_exts")
	set("include", "include_globs")
	set("exclude", "exclude_globs")
	set("player-timeout-ms", "player_timeout_ms")
	set("player-poll-ms", "player_poll_ms")

	return config.Load(flags.configPath, overrides)
}

// flagValue reads the already-bound Go value for key out of the flags
// struct, keyed by the same name loadConfig uses for the koanf map.
func flagValue(key string) any {
	switch key {
	case "windows":
		return flags.windows
	case "batch":
		return flags.batch
	case "file_size_bias":
		return flags.fileSizeBias
	case "file_size_offset":
		return flags.fileSizeOffset
	case "dir_size_bias":
		return flags.dirSizeBias
	case "dir_size_offset":
		return flags.dirSizeOffset
	case "file_age_bias":
		return flags.fileAgeBias
	case "file_age_offset":
		return flags.fileAgeOffset
	case "dry_run":
		return flags.dryRun
	case "video_exts":
		return flags.videoExts
	case "include_globs":
		return flags.includeGlobs
	case "exclude_globs":
		return flags.excludeGlobs
	case "player_timeout_ms":
		return flags.playerTimeoutMS
	case "player_poll_ms":
		return flags.playerPollMS
	default:
		return nil
	}
}
