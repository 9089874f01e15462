package classifier

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/clipcull/clipcull/internal/pipeline"
)

// logTransform implements the shape shared by all three scalar classifiers:
// y = log_b(max(1, x+offset)), optionally negated, coerced to 0 with a
// logged warning if not finite.
func logTransform(name string, x int64, base float64, offset int64, reverse bool) float64 {
	arg := x + offset
	if arg < 1 {
		arg = 1
	}
	y := math.Log(float64(arg)) / math.Log(base)
	if math.IsInf(y, 0) || math.IsNaN(y) {
		slog.Warn("scalar classifier produced non-finite score, coercing to 0", "classifier", name, "x", x)
		return 0
	}
	if reverse {
		return -y
	}
	return y
}

// scalarConfig is shared by the three numeric classifiers: bias encodes both
// the log base (its absolute value, which must exceed 1) and whether to
// reverse (its sign), per the configuration surface's signed-base
// convention.
type scalarConfig struct {
	base    float64
	reverse bool
	offset  int64
}

func newScalarConfig(bias float64, offset int64) scalarConfig {
	return scalarConfig{base: math.Abs(bias), reverse: bias < 0, offset: offset}
}

// FileSize scores a candidate by the logarithm of its file size in bytes.
type FileSize struct{ cfg scalarConfig }

// NewFileSize constructs a FileSize classifier. bias's absolute value is the
// log base (must exceed 1); a negative bias reverses the score.
func NewFileSize(bias float64, offset int64) *FileSize {
	return &FileSize{cfg: newScalarConfig(bias, offset)}
}

func (c *FileSize) Name() string { return "file_size" }

func (c *FileSize) Score(e *pipeline.Entry) float64 {
	return logTransform(c.Name(), e.Size, c.cfg.base, c.cfg.offset, c.cfg.reverse)
}

// FileAge scores a candidate by the logarithm of the number of seconds
// between a run-start timestamp and the file's creation time, clamped at 0.
type FileAge struct {
	cfg      scalarConfig
	runStart time.Time
}

// NewFileAge constructs a FileAge classifier measured relative to runStart.
func NewFileAge(bias float64, offset int64, runStart time.Time) *FileAge {
	return &FileAge{cfg: newScalarConfig(bias, offset), runStart: runStart}
}

func (c *FileAge) Name() string { return "file_age" }

func (c *FileAge) Score(e *pipeline.Entry) float64 {
	age := c.runStart.Sub(e.CreatedAt)
	seconds := int64(age.Seconds())
	if seconds < 0 {
		seconds = 0
	}
	return logTransform(c.Name(), seconds, c.cfg.base, c.cfg.offset, c.cfg.reverse)
}

// DirSize scores a candidate by the logarithm of the live count of
// candidates sharing its directory. Unlike FileSize and FileAge, its input
// is not a field of the Entry but the classifier's own running tally, which
// the driver updates via AddEntry/RemoveEntry as the pool changes.
type DirSize struct {
	cfg scalarConfig

	mu     sync.Mutex
	counts map[string]int64
}

// NewDirSize constructs a DirSize classifier with an empty live-count
// mapping.
func NewDirSize(bias float64, offset int64) *DirSize {
	return &DirSize{cfg: newScalarConfig(bias, offset), counts: make(map[string]int64)}
}

func (c *DirSize) Name() string { return "dir_size" }

func (c *DirSize) Score(e *pipeline.Entry) float64 {
	c.mu.Lock()
	x := c.counts[e.Dir()]
	c.mu.Unlock()
	return logTransform(c.Name(), x, c.cfg.base, c.cfg.offset, c.cfg.reverse)
}

// AddEntry implements Mutable: increments the live count for e's directory.
func (c *DirSize) AddEntry(e *pipeline.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[e.Dir()]++
}

// RemoveEntry implements Mutable: decrements the live count for e's
// directory, erasing the entry once it reaches zero so DirSize consistency
// holds (an empty mapping after balanced add/remove calls).
func (c *DirSize) RemoveEntry(e *pipeline.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dir := e.Dir()
	c.counts[dir]--
	if c.counts[dir] <= 0 {
		delete(c.counts, dir)
	}
}
