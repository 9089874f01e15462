// Package playlist reads and writes the append-only M3U-shaped file that is
// the sole source of truth for every verdict: no classifier state survives
// between runs, so every launch rebuilds its model by replaying this file.
package playlist

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/clipcull/clipcull/internal/pathutil"
	"github.com/clipcull/clipcull/internal/pipeline"
)

const (
	header         = "#EXTM3U"
	negativePrefix = "#NEGATIVE:"
)

// Entry is one loaded verdict: an absolute path and its polarity.
type Entry struct {
	AbsPath string
	Verdict pipeline.Verdict
}

// Playlist is the in-memory mirror of the on-disk file: every write appends
// a line to the file and to Entries, keeping the two in lockstep per the
// playlist invariant.
type Playlist struct {
	path    string
	root    string
	file    *os.File
	Entries []Entry
}

// Open opens or creates the playlist at path. If the file does not exist it
// is created with the M3U header as its first line. If it exists but its
// first line is not the header, Open fails with a KindFormat AppError.
func Open(path string) (*Playlist, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, pipeline.NewIOError("resolve playlist path", err)
	}
	root := filepath.Dir(abs)

	if _, err := os.Stat(abs); os.IsNotExist(err) {
		if err := createWithHeader(abs); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, pipeline.NewIOError("stat playlist", err)
	}

	entries, err := loadEntries(abs, root)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(abs, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, pipeline.NewIOError("open playlist for append", err)
	}

	return &Playlist{path: abs, root: root, file: f, Entries: entries}, nil
}

func createWithHeader(abs string) error {
	f, err := os.Create(abs)
	if err != nil {
		return pipeline.NewIOError("create playlist", err)
	}
	defer f.Close()
	if _, err := f.WriteString(header + "\n"); err != nil {
		return pipeline.NewIOError("write playlist header", err)
	}
	return f.Sync()
}

func loadEntries(abs, root string) ([]Entry, error) {
	f, err := os.Open(abs)
	if err != nil {
		return nil, pipeline.NewIOError("open playlist for read", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, pipeline.NewFormatError("playlist is empty, missing "+header+" header", nil)
	}
	if strings.TrimSpace(scanner.Text()) != header {
		return nil, pipeline.NewFormatError("playlist's first line is not "+header, nil)
	}

	var entries []Entry
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, negativePrefix):
			rel := strings.TrimSpace(strings.TrimPrefix(line, negativePrefix))
			entries = append(entries, Entry{AbsPath: pathutil.CleanRelative(root, rel), Verdict: pipeline.Negative})
		case strings.HasPrefix(line, "#"):
			// comment line, ignored on read and never written
		default:
			rel := strings.TrimSpace(line)
			if rel == "" {
				continue
			}
			entries = append(entries, Entry{AbsPath: pathutil.CleanRelative(root, rel), Verdict: pipeline.Positive})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, pipeline.NewFormatError("read playlist", err)
	}
	return entries, nil
}

// AddPositive appends a positive entry for abs and flushes to disk before
// returning, so a crash immediately after never loses the label.
func (p *Playlist) AddPositive(abs string) error {
	return p.append(abs, pipeline.Positive, pathutil.ToSlashRelative(p.root, abs))
}

// AddNegative appends a negative entry for abs and flushes to disk before
// returning.
func (p *Playlist) AddNegative(abs string) error {
	return p.append(abs, pipeline.Negative, negativePrefix+pathutil.ToSlashRelative(p.root, abs))
}

func (p *Playlist) append(abs string, verdict pipeline.Verdict, line string) error {
	if _, err := p.file.WriteString(line + "\n"); err != nil {
		return pipeline.NewIOError("append playlist entry", err)
	}
	if err := p.file.Sync(); err != nil {
		return pipeline.NewIOError("flush playlist entry", err)
	}
	p.Entries = append(p.Entries, Entry{AbsPath: abs, Verdict: verdict})
	return nil
}

// Contains reports whether abs (already absolute) matches any existing
// playlist entry, used by the path collector to drop already-labelled
// candidates before tokenization.
func (p *Playlist) Contains(abs string) bool {
	for _, e := range p.Entries {
		if e.AbsPath == abs {
			return true
		}
	}
	return false
}

// Positives returns the absolute paths of every positive entry, in order.
func (p *Playlist) Positives() []string {
	return p.pathsFor(pipeline.Positive)
}

// Negatives returns the absolute paths of every negative entry, in order.
func (p *Playlist) Negatives() []string {
	return p.pathsFor(pipeline.Negative)
}

func (p *Playlist) pathsFor(v pipeline.Verdict) []string {
	var out []string
	for _, e := range p.Entries {
		if e.Verdict == v {
			out = append(out, e.AbsPath)
		}
	}
	return out
}

// Root returns the directory playlist entries are resolved relative to.
func (p *Playlist) Root() string { return p.root }

// Close releases the underlying file handle.
func (p *Playlist) Close() error {
	return p.file.Close()
}

// Move rewrites the playlist at oldPath into a fresh file at newPath,
// preserving every entry's order and polarity. Since entries are stored
// relative to the directory containing the playlist file, relocating the
// file itself means every entry's absolute target is recomputed against
// newPath's directory before being re-emitted relative to it.
func Move(oldPath, newPath string) error {
	old, err := Open(oldPath)
	if err != nil {
		return err
	}
	defer old.Close()

	if err := createDestinationIfAbsent(newPath); err != nil {
		return err
	}
	moved, err := Open(newPath)
	if err != nil {
		return err
	}
	defer moved.Close()

	for _, e := range old.Entries {
		switch e.Verdict {
		case pipeline.Positive:
			if err := moved.AddPositive(e.AbsPath); err != nil {
				return err
			}
		case pipeline.Negative:
			if err := moved.AddNegative(e.AbsPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// createDestinationIfAbsent creates newPath with the M3U header only if it does not
// already exist, leaving an existing destination's entries untouched (Open
// will fail fast if that file isn't a valid playlist).
func createDestinationIfAbsent(newPath string) error {
	if _, err := os.Stat(newPath); os.IsNotExist(err) {
		return createWithHeader(newPath)
	} else if err != nil {
		return pipeline.NewIOError("stat destination playlist", err)
	}
	return nil
}
