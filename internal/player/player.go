// Package player wraps a subprocess media player and polls its HTTP status
// endpoint for playback state, translating it into a Verdict request: the
// core never talks to the player directly, only through Controller's
// Play/Close capability, per the verdict-source boundary.
package player

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/clipcull/clipcull/internal/pipeline"
)

// status mirrors the subset of the player's JSON status response the
// controller needs: the currently playing file's name, and whether playback
// has actually started (nonzero length and position).
type status struct {
	State       string      `json:"state"`
	Position    float64     `json:"position"`
	Length      float64     `json:"length"`
	Information information `json:"information"`
}

type information struct {
	Category category `json:"category"`
}

type category struct {
	Meta meta `json:"meta"`
}

type meta struct {
	Filename string `json:"filename"`
}

func (s status) playing() bool {
	return s.Information.Category.Meta.Filename != "" && s.Length > 0 && s.Position > 0
}

// Config configures the subprocess and its HTTP status endpoint.
type Config struct {
	// Command is the player executable, e.g. "vlc".
	Command string
	// Args are extra arguments prepended before the target path.
	Args []string
	// StatusURL is the player's JSON status endpoint.
	StatusURL string
	// Timeout bounds how long Play waits for the player to report a
	// matching, started playback before giving up.
	Timeout time.Duration
	// PollInterval is the delay between status polls.
	PollInterval time.Duration
}

// Controller owns at most one running subprocess media player at a time and
// exposes the play/poll/verdict cycle the interactive ranker drives. The
// human verdict itself arrives from whatever UI solicits it (the bubbletea
// driver, in practice) through SubmitVerdict, published to Play's caller
// over a single-consumer channel per the concurrency model.
type Controller struct {
	cfg    Config
	client *resty.Client

	mu  sync.Mutex
	cmd *exec.Cmd

	verdicts chan pipeline.Verdict
}

// NewController prepares a controller for the given config without launching
// anything: Start launches the subprocess and Close terminates it.
func NewController(cfg Config) (*Controller, error) {
	client := resty.New().SetTimeout(cfg.Timeout)
	c := &Controller{cfg: cfg, client: client, verdicts: make(chan pipeline.Verdict, 1)}
	return c, nil
}

// SubmitVerdict publishes the human's decision for the candidate currently
// awaited by Play. Called by the UI layer once it reads a keypress; never
// called by this package itself.
func (c *Controller) SubmitVerdict(v pipeline.Verdict) {
	select {
	case c.verdicts <- v:
	default:
		// a stale verdict for an already-resolved Play call; drop it.
	}
}

// Start launches the player subprocess pointed at path, first terminating
// any subprocess an earlier Start left running.
func (c *Controller) Start(ctx context.Context, path string) error {
	args := append(append([]string{}, c.cfg.Args...), path)
	cmd := exec.CommandContext(ctx, c.cfg.Command, args...)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
		_ = c.cmd.Wait()
		c.cmd = nil
	}
	if err := cmd.Start(); err != nil {
		return pipeline.NewTransportError("start player subprocess", err)
	}
	c.cmd = cmd
	return nil
}

// Play requests playback of absPath (expected to report expectedFilename
// back via the status endpoint) and blocks until the player confirms
// playback has started, the startup timeout elapses, or ctx is cancelled.
// A filename mismatch or timeout both resolve to Skipped together with a
// KindMismatch or KindTimeout AppError; a failed status fetch is not returned
// but retried on the next poll until the timeout elapses. Cancellation of ctx
// returns Skipped with ctx.Err().
func (c *Controller) Play(ctx context.Context, absPath, expectedFilename string) (pipeline.Verdict, error) {
	deadline := time.Now().Add(c.cfg.Timeout)
	poll := c.cfg.PollInterval
	if poll <= 0 {
		poll = 250 * time.Millisecond
	}

	for {
		if time.Now().After(deadline) {
			return pipeline.Skipped, pipeline.NewTimeoutError(fmt.Sprintf("player did not report status for %s within timeout", absPath))
		}
		select {
		case <-ctx.Done():
			return pipeline.Skipped, ctx.Err()
		default:
		}

		st, err := c.fetchStatus()
		if err != nil {
			select {
			case <-time.After(poll):
			case <-ctx.Done():
				return pipeline.Skipped, ctx.Err()
			}
			continue
		}

		if !st.playing() {
			select {
			case <-time.After(poll):
			case <-ctx.Done():
				return pipeline.Skipped, ctx.Err()
			}
			continue
		}

		got := filepath.Base(st.Information.Category.Meta.Filename)
		if got != expectedFilename {
			return pipeline.Skipped, pipeline.NewMismatchError(expectedFilename, got)
		}

		select {
		case v := <-c.verdicts:
			return v, nil
		case <-ctx.Done():
			return pipeline.Skipped, ctx.Err()
		}
	}
}

func (c *Controller) fetchStatus() (status, error) {
	var st status
	resp, err := c.client.R().SetResult(&st).Get(c.cfg.StatusURL)
	if err != nil {
		return status{}, pipeline.NewTransportError("fetch player status", err)
	}
	if resp.IsError() {
		return status{}, pipeline.NewTransportError(fmt.Sprintf("player status endpoint returned %s", resp.Status()), nil)
	}
	return st, nil
}

// Close terminates the subprocess if one is running. Safe to call multiple
// times.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cmd == nil || c.cmd.Process == nil {
		return nil
	}
	_ = c.cmd.Process.Kill()
	_ = c.cmd.Wait()
	c.cmd = nil
	return nil
}
