package walk

import (
	"log/slog"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnorePatterns are the built-in subtrees every walk skips regardless
// of user configuration: version control metadata, OS/editor litter, and the
// directories media players and sync tools commonly leave behind.
var DefaultIgnorePatterns = []string{
	".git/",
	".svn/",
	"@eaDir/",
	"#recycle/",
	"$RECYCLE.BIN/",
	"lost+found/",
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",
	"*.part",
	"*.crdownload",
}

// DefaultIgnoreMatcher compiles DefaultIgnorePatterns using the same
// gitignore-syntax matcher as the user-supplied ignore file, so the two
// behave identically.
type DefaultIgnoreMatcher struct {
	matcher *gitignore.GitIgnore
	logger  *slog.Logger
}

// NewDefaultIgnoreMatcher compiles DefaultIgnorePatterns. It never fails:
// the patterns are compile-time constants known to be valid.
func NewDefaultIgnoreMatcher() *DefaultIgnoreMatcher {
	return &DefaultIgnoreMatcher{
		matcher: gitignore.CompileIgnoreLines(DefaultIgnorePatterns...),
		logger:  slog.Default().With("component", "default-ignore"),
	}
}

// IsIgnored reports whether path matches a default ignore pattern.
func (d *DefaultIgnoreMatcher) IsIgnored(path string, isDir bool) bool {
	normalized := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if normalized == "" || normalized == "." {
		return false
	}
	if isDir && !strings.HasSuffix(normalized, "/") {
		normalized += "/"
	}
	if d.matcher.MatchesPath(normalized) {
		d.logger.Debug("path matched default ignore", "path", normalized)
		return true
	}
	return false
}

var _ Ignorer = (*DefaultIgnoreMatcher)(nil)
