package walk

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Candidate is one file record produced by a walk: the unfiltered,
// unclassified unit the rest of the pipeline consumes.
type Candidate struct {
	// AbsPath is the absolute filesystem path to the file.
	AbsPath string
	// Size is the file size in bytes.
	Size int64
	// CreatedAt is the file's creation time or its closest proxy: birth time
	// on darwin, status-change time (ctime) on linux, modification time
	// elsewhere.
	CreatedAt time.Time
}

// Config controls one Walk invocation.
type Config struct {
	// Roots are the directory trees to scan.
	Roots []string
	// VideoExts restricts results to files with these extensions (see
	// DefaultVideoExtensions). Empty means no extension filtering.
	VideoExts []string
	// IgnoreFileName is the name of an optional per-directory ignore file
	// (".clipcullignore" in normal use). Empty disables it.
	IgnoreFileName string
	// IncludeGlobs and ExcludeGlobs are doublestar patterns layered on top of
	// VideoExts; both empty disables glob filtering entirely.
	IncludeGlobs []string
	ExcludeGlobs []string
	// Concurrency bounds the number of directories walked in parallel.
	// Defaults to runtime.NumCPU() when <= 0.
	Concurrency int
}

// Walker is the directory discovery engine. It fans out across
// subdirectories with a bounded worker pool, matching the concurrency model
// the rest of the pipeline uses for its own bulk-parallel stages.
type Walker struct {
	logger *slog.Logger
}

// NewWalker creates a Walker.
func NewWalker() *Walker {
	return &Walker{logger: slog.Default().With("component", "walker")}
}

// Walk traverses every root in cfg.Roots and returns the discovered
// Candidates, sorted by absolute path for deterministic downstream ordering.
// A failure to walk one directory subtree is logged and that subtree is
// skipped; Walk only returns an error for a fatal condition (a root that
// cannot be resolved or does not exist).
func (w *Walker) Walk(ctx context.Context, cfg Config) ([]Candidate, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}

	baseMatchers := []Ignorer{NewDefaultIgnoreMatcher()}
	extFilter := NewExtensionFilter(cfg.VideoExts)
	globFilter := NewGlobFilter(cfg.IncludeGlobs, cfg.ExcludeGlobs)

	var (
		mu      sync.Mutex
		results []Candidate
	)
	sym := newSymlinkResolver()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for _, root := range cfg.Roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving root path %s: %w", root, err)
		}
		info, err := os.Stat(absRoot)
		if err != nil {
			return nil, fmt.Errorf("stat root %s: %w", absRoot, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("root %s is not a directory", absRoot)
		}

		matchers := append([]Ignorer(nil), baseMatchers...)
		if cfg.IgnoreFileName != "" {
			fm, err := NewIgnoreFileMatcher(absRoot, cfg.IgnoreFileName)
			if err != nil {
				w.logger.Warn("loading ignore file failed, continuing without it",
					"root", absRoot, "error", err)
			} else {
				matchers = append(matchers, fm)
			}
		}
		composite := NewCompositeIgnorer(matchers...)

		root := absRoot
		var walkDir func(dir string) error
		walkDir = func(dir string) error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				w.logger.Warn("walk: skipping unreadable directory", "dir", dir, "error", err)
				return nil
			}

			var subdirs []string
			for _, entry := range entries {
				name := entry.Name()
				full := filepath.Join(dir, name)
				rel, relErr := filepath.Rel(root, full)
				if relErr != nil {
					continue
				}
				rel = filepath.ToSlash(rel)

				if entry.IsDir() {
					if composite.IsIgnored(rel, true) {
						continue
					}
					subdirs = append(subdirs, full)
					continue
				}

				if entry.Type()&os.ModeSymlink != 0 {
					real, isLoop, err := sym.resolve(full)
					if err != nil {
						w.logger.Debug("walk: symlink error", "path", full, "error", err)
						continue
					}
					if isLoop {
						continue
					}
					full = real
				}

				if composite.IsIgnored(rel, false) {
					continue
				}
				if !extFilter.Matches(full) {
					continue
				}
				if !globFilter.Matches(rel) {
					continue
				}

				fi, err := os.Stat(full)
				if err != nil {
					w.logger.Debug("walk: stat error", "path", full, "error", err)
					continue
				}

				cand := Candidate{
					AbsPath:   full,
					Size:      fi.Size(),
					CreatedAt: creationTime(fi),
				}
				mu.Lock()
				results = append(results, cand)
				mu.Unlock()
			}

			for _, sub := range subdirs {
				sub := sub
				g.Go(func() error {
					return walkDir(sub)
				})
			}
			return nil
		}

		root2 := absRoot
		g.Go(func() error {
			return walkDir(root2)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("walking directories: %w", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].AbsPath < results[j].AbsPath })

	w.logger.Info("walk complete", "candidates", len(results), "roots", len(cfg.Roots))
	return results, nil
}
