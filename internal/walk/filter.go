package walk

import (
	"path/filepath"
	"strings"
)

// ExtensionFilter keeps only files whose extension (case-insensitive, without
// the leading dot) appears in a configured set. An empty filter passes every
// file through, which lets callers opt out of extension filtering entirely.
type ExtensionFilter struct {
	exts map[string]struct{}
}

// NewExtensionFilter builds a filter from a list of extensions such as
// []string{"mp4", ".mkv", "AVI"}; leading dots and casing are normalized.
func NewExtensionFilter(exts []string) *ExtensionFilter {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(e, "."))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return &ExtensionFilter{exts: set}
}

// Matches reports whether path's extension passes the filter.
func (f *ExtensionFilter) Matches(path string) bool {
	if len(f.exts) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	_, ok := f.exts[ext]
	return ok
}

// DefaultVideoExtensions lists the same extensions as the configuration's
// default video_exts. Walk does not fall back to it: an empty
// Config.VideoExts disables extension filtering.
var DefaultVideoExtensions = []string{
	"mp4", "mkv", "avi", "mov", "wmv", "flv", "webm", "m4v", "mpg", "mpeg", "ts",
}
