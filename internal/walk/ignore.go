// Package walk implements directory discovery for clipcull: it traverses one
// or more root directories, filters out subtrees matched by the built-in
// ignore patterns or a .clipcullignore file, and
// emits Candidate records for every file matching the configured video
// extensions. The walker sits at the explicit external boundary described by
// the learning-to-rank core: it never scores or tokenizes a path, only
// discovers it.
package walk

import (
	"log/slog"
)

// Ignorer evaluates whether a path should be excluded from discovery. Paths
// are relative to the walk root and use forward slashes. isDir indicates
// whether the path names a directory, which matters for directory-only
// patterns.
type Ignorer interface {
	IsIgnored(path string, isDir bool) bool
}

// CompositeIgnorer chains multiple Ignorer implementations. A path is ignored
// if any chained source matches it.
type CompositeIgnorer struct {
	ignorers []Ignorer
	logger   *slog.Logger
}

// NewCompositeIgnorer builds a CompositeIgnorer from the given sources. Nil
// sources are skipped, so callers can pass optional matchers unconditionally.
func NewCompositeIgnorer(ignorers ...Ignorer) *CompositeIgnorer {
	filtered := make([]Ignorer, 0, len(ignorers))
	for _, ig := range ignorers {
		if ig != nil {
			filtered = append(filtered, ig)
		}
	}
	return &CompositeIgnorer{
		ignorers: filtered,
		logger:   slog.Default().With("component", "composite-ignorer"),
	}
}

// IsIgnored reports whether any chained ignorer matches path.
func (c *CompositeIgnorer) IsIgnored(path string, isDir bool) bool {
	for _, ig := range c.ignorers {
		if ig.IsIgnored(path, isDir) {
			return true
		}
	}
	return false
}

var _ Ignorer = (*CompositeIgnorer)(nil)
