// Package config resolves clipcull's runtime configuration by layering,
// lowest precedence first: built-in defaults, an optional clipcull.toml
// file (parsed with BurntSushi/toml), CLIPCULL_* environment variables, and
// finally explicit Cobra flags. Layers are merged with koanf so later
// layers only override the keys they actually set.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Environment variable names, all CLIPCULL_ prefixed.
const (
	EnvWindows        = "CLIPCULL_WINDOWS"
	EnvBatch          = "CLIPCULL_BATCH"
	EnvFileSizeBias   = "CLIPCULL_FILE_SIZE_BIAS"
	EnvFileSizeOffset = "CLIPCULL_FILE_SIZE_OFFSET"
	EnvDirSizeBias    = "CLIPCULL_DIR_SIZE_BIAS"
	EnvDirSizeOffset  = "CLIPCULL_DIR_SIZE_OFFSET"
	EnvFileAgeBias    = "CLIPCULL_FILE_AGE_BIAS"
	EnvFileAgeOffset  = "CLIPCULL_FILE_AGE_OFFSET"
	EnvDryRun         = "CLIPCULL_DRY_RUN"
	EnvPlayerTimeout  = "CLIPCULL_PLAYER_TIMEOUT_MS"
	EnvPlayerPoll     = "CLIPCULL_PLAYER_POLL_MS"
	EnvVideoExts      = "CLIPCULL_VIDEO_EXTS"
	EnvIncludeGlobs   = "CLIPCULL_INCLUDE_GLOBS"
	EnvExcludeGlobs   = "CLIPCULL_EXCLUDE_GLOBS"
	EnvLogFormat      = "CLIPCULL_LOG_FORMAT"
	EnvDebug          = "CLIPCULL_DEBUG"
)

// Config is clipcull's fully resolved, flattened runtime configuration —
// the merged result of defaults, an optional TOML file, environment
// overrides, and CLI flags.
type Config struct {
	// Windows is the max n-gram window length W.
	Windows int `koanf:"windows"`
	// Batch is how many top candidates to drain per iteration (min 1).
	Batch int `koanf:"batch"`

	// FileSizeBias, DirSizeBias, FileAgeBias: presence (non-zero) enables
	// the matching scalar classifier; sign selects reverse; |value| is the
	// log base and must exceed 1. Zero means the classifier is inactive.
	FileSizeBias float64 `koanf:"file_size_bias"`
	DirSizeBias  float64 `koanf:"dir_size_bias"`
	FileAgeBias  float64 `koanf:"file_age_bias"`

	FileSizeOffset int64 `koanf:"file_size_offset"`
	DirSizeOffset  int64 `koanf:"dir_size_offset"`
	FileAgeOffset  int64 `koanf:"file_age_offset"`

	// DryRun skips the interactive loop after training.
	DryRun bool `koanf:"dry_run"`

	// PlayerTimeoutMS and PlayerPollMS are the verdict controller's
	// startup timeout and polling interval, in milliseconds.
	PlayerTimeoutMS int `koanf:"player_timeout_ms"`
	PlayerPollMS    int `koanf:"player_poll_ms"`

	// VideoExts filters the walker to these extensions (without the dot).
	VideoExts []string `koanf:"video_exts"`

	// IncludeGlobs and ExcludeGlobs are doublestar patterns layered on top of
	// VideoExts; exclude always wins.
	IncludeGlobs []string `koanf:"include_globs"`
	ExcludeGlobs []string `koanf:"exclude_globs"`

	// LogFormat records "json" or "text" (default). Logging setup does not
	// read this field: ResolveLogFormat consults CLIPCULL_LOG_FORMAT directly.
	LogFormat string `koanf:"log_format"`
}

// Defaults returns the built-in configuration, the lowest-precedence layer.
func Defaults() Config {
	return Config{
		Windows:         3,
		Batch:           1,
		FileSizeBias:    2,
		DirSizeBias:     2,
		FileAgeBias:     2,
		PlayerTimeoutMS: 10_000,
		PlayerPollMS:    100,
		VideoExts:       []string{"mp4", "mkv", "avi", "mov", "wmv", "flv", "webm", "m4v", "mpg", "mpeg", "ts"},
		LogFormat:       "text",
	}
}

// Load resolves the full layered configuration. tomlPath is the optional
// clipcull.toml path; an empty string or a missing file is not an error
// (only the defaults and env/flag layers apply). flagOverrides carries
// whatever a Cobra command has already parsed into a flat map of only the
// keys the user explicitly set (koanf keys never present there are left to
// lower layers).
func Load(tomlPath string, flagOverrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(confmap.Provider(structToMap(defaults), "."), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if tomlPath != "" {
		if _, err := os.Stat(tomlPath); err == nil {
			var fileCfg Config
			if _, err := toml.DecodeFile(tomlPath, &fileCfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", tomlPath, err)
			}
			if err := k.Load(confmap.Provider(structToMap(fileCfg), "."), nil); err != nil {
				return nil, fmt.Errorf("merge config file %s: %w", tomlPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config %s: %w", tomlPath, err)
		}
	}

	if err := k.Load(confmap.Provider(buildEnvMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("merge environment overrides: %w", err)
	}

	if len(flagOverrides) > 0 {
		if err := k.Load(confmap.Provider(flagOverrides, "."), nil); err != nil {
			return nil, fmt.Errorf("merge flag overrides: %w", err)
		}
	}

	var out Config
	if err := k.Unmarshal("", &out); err != nil {
		return nil, fmt.Errorf("unmarshal resolved config: %w", err)
	}
	return &out, nil
}

// structToMap flattens a Config into the map shape confmap.Provider needs,
// keyed by the same names as the koanf struct tags.
func structToMap(c Config) map[string]any {
	return map[string]any{
		"windows":           c.Windows,
		"batch":             c.Batch,
		"file_size_bias":    c.FileSizeBias,
		"dir_size_bias":     c.DirSizeBias,
		"file_age_bias":     c.FileAgeBias,
		"file_size_offset":  c.FileSizeOffset,
		"dir_size_offset":   c.DirSizeOffset,
		"file_age_offset":   c.FileAgeOffset,
		"dry_run":           c.DryRun,
		"player_timeout_ms": c.PlayerTimeoutMS,
		"player_poll_ms":    c.PlayerPollMS,
		"video_exts":        c.VideoExts,
		"include_globs":     c.IncludeGlobs,
		"exclude_globs":     c.ExcludeGlobs,
		"log_format":        c.LogFormat,
	}
}

// buildEnvMap reads CLIPCULL_* environment variables into a flat map
// suitable for a koanf confmap provider. Only variables that are set and
// parse successfully are included, so a malformed override never blocks
// resolution of the rest.
func buildEnvMap() map[string]any {
	m := make(map[string]any)

	if v := os.Getenv(EnvWindows); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["windows"] = n
		}
	}
	if v := os.Getenv(EnvBatch); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["batch"] = n
		}
	}
	if v := os.Getenv(EnvFileSizeBias); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			m["file_size_bias"] = f
		}
	}
	if v := os.Getenv(EnvDirSizeBias); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			m["dir_size_bias"] = f
		}
	}
	if v := os.Getenv(EnvFileAgeBias); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			m["file_age_bias"] = f
		}
	}
	if v := os.Getenv(EnvFileSizeOffset); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			m["file_size_offset"] = n
		}
	}
	if v := os.Getenv(EnvDirSizeOffset); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			m["dir_size_offset"] = n
		}
	}
	if v := os.Getenv(EnvFileAgeOffset); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			m["file_age_offset"] = n
		}
	}
	if v := os.Getenv(EnvDryRun); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["dry_run"] = b
		}
	}
	if v := os.Getenv(EnvPlayerTimeout); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["player_timeout_ms"] = n
		}
	}
	if v := os.Getenv(EnvPlayerPoll); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["player_poll_ms"] = n
		}
	}
	if v := os.Getenv(EnvVideoExts); v != "" {
		m["video_exts"] = strings.Split(v, ",")
	}
	if v := os.Getenv(EnvIncludeGlobs); v != "" {
		m["include_globs"] = strings.Split(v, ",")
	}
	if v := os.Getenv(EnvExcludeGlobs); v != "" {
		m["exclude_globs"] = strings.Split(v, ",")
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		m["log_format"] = v
	}

	return m
}
