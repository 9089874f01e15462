package walk

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GlobFilter applies include/exclude doublestar glob patterns on top of the
// extension filter, for callers that want finer control than a flat
// extension list (e.g. "keep everything under **/raw/** except **/proxies/**").
// Exclude always wins; an empty include list passes everything exclude
// didn't already reject.
type GlobFilter struct {
	includes []string
	excludes []string
	logger   *slog.Logger
}

// NewGlobFilter builds a filter from doublestar patterns, matched against
// paths relative to the walk root with forward slashes.
func NewGlobFilter(includes, excludes []string) *GlobFilter {
	return &GlobFilter{
		includes: append([]string(nil), includes...),
		excludes: append([]string(nil), excludes...),
		logger:   slog.Default().With("component", "glob-filter"),
	}
}

// Matches reports whether rel (relative to the walk root, forward-slashed)
// passes the configured include/exclude patterns.
func (f *GlobFilter) Matches(rel string) bool {
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "./")

	for _, pattern := range f.excludes {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			f.logger.Debug("path excluded by glob", "path", rel, "pattern", pattern)
			return false
		}
	}

	if len(f.includes) == 0 {
		return true
	}

	for _, pattern := range f.includes {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}
