package walk

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileMatcher loads and evaluates .clipcullignore files hierarchically,
// using the same gitignore pattern syntax supported everywhere else in the
// walker. It lets a user exclude tool-specific subtrees (a staging folder, an
// already-sorted archive) without touching version control ignore rules.
type IgnoreFileMatcher struct {
	fileName string
	root     string
	matchers map[string]*gitignore.GitIgnore
	dirs     []string
	logger   *slog.Logger
}

// NewIgnoreFileMatcher walks rootDir looking for fileName (".clipcullignore"
// in normal use) at every directory level and compiles whatever it finds. A
// tree with no such files produces a matcher that never ignores anything.
func NewIgnoreFileMatcher(rootDir, fileName string) (*IgnoreFileMatcher, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root path %s: %w", rootDir, err)
	}

	logger := slog.Default().With("component", "ignore-file", "name", fileName)
	m := &IgnoreFileMatcher{
		fileName: fileName,
		root:     absRoot,
		matchers: make(map[string]*gitignore.GitIgnore),
		logger:   logger,
	}

	if err := m.discover(); err != nil {
		return nil, fmt.Errorf("discovering %s files in %s: %w", fileName, absRoot, err)
	}
	return m, nil
}

func (m *IgnoreFileMatcher) discover() error {
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fs.SkipDir
		}
		if d.IsDir() && d.Name() == ".git" {
			return fs.SkipDir
		}
		if d.IsDir() || d.Name() != m.fileName {
			return nil
		}

		dirPath := filepath.Dir(path)
		relDir, err := filepath.Rel(m.root, dirPath)
		if err != nil {
			return nil
		}
		compiled, err := gitignore.CompileIgnoreFile(path)
		if err != nil {
			m.logger.Debug("skipping unreadable ignore file", "path", path, "error", err)
			return nil
		}
		if relDir == "" {
			relDir = "."
		}
		m.matchers[relDir] = compiled
		return nil
	})
	if err != nil {
		return err
	}

	m.dirs = make([]string, 0, len(m.matchers))
	for dir := range m.matchers {
		m.dirs = append(m.dirs, dir)
	}
	sort.Strings(m.dirs)
	return nil
}

// IsIgnored reports whether path matches any applicable .clipcullignore
// file: the one at the root or one in a directory containing path. Files are
// checked independently, so a negation in a nearer file does not undo a
// match in a farther one.
func (m *IgnoreFileMatcher) IsIgnored(path string, isDir bool) bool {
	normalized := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if normalized == "" || normalized == "." {
		return false
	}
	matchPath := normalized
	if isDir && !strings.HasSuffix(matchPath, "/") {
		matchPath += "/"
	}

	for _, dir := range m.dirs {
		if dir != "." {
			prefix := dir + "/"
			if !strings.HasPrefix(normalized, prefix) {
				continue
			}
		}
		var relPath string
		if dir == "." {
			relPath = matchPath
		} else {
			relPath = strings.TrimPrefix(matchPath, dir+"/")
		}
		if m.matchers[dir].MatchesPath(relPath) {
			return true
		}
	}
	return false
}

var _ Ignorer = (*IgnoreFileMatcher)(nil)
