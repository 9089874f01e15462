package walk

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// symlinkResolver tracks visited real paths to break symlink loops during
// discovery. Safe for concurrent use from fan-out directory workers.
type symlinkResolver struct {
	mu      sync.Mutex
	visited map[string]bool
}

func newSymlinkResolver() *symlinkResolver {
	return &symlinkResolver{visited: make(map[string]bool)}
}

// resolve follows path through any symlinks and reports whether the real
// target has already been visited (a loop) or is dangling.
func (s *symlinkResolver) resolve(path string) (realPath string, isLoop bool, err error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, fmt.Errorf("dangling symlink %s: %w", path, err)
		}
		return "", false, fmt.Errorf("resolving symlink %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visited[resolved] {
		return resolved, true, nil
	}
	s.visited[resolved] = true
	return resolved, false, nil
}
