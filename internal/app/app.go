// Package app wires every pipeline stage together: walking candidate
// directories, training the tokenizer and classifiers against a playlist's
// existing verdicts, scoring and ranking the resulting pool, and — for the
// interactive build mode — soliciting and applying one new verdict at a
// time through a media player and a terminal UI.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clipcull/clipcull/internal/aggregator"
	"github.com/clipcull/clipcull/internal/classifier"
	"github.com/clipcull/clipcull/internal/config"
	"github.com/clipcull/clipcull/internal/ngrams"
	"github.com/clipcull/clipcull/internal/normalize"
	"github.com/clipcull/clipcull/internal/pathutil"
	"github.com/clipcull/clipcull/internal/pipeline"
	"github.com/clipcull/clipcull/internal/player"
	"github.com/clipcull/clipcull/internal/playlist"
	"github.com/clipcull/clipcull/internal/tokenizer"
	"github.com/clipcull/clipcull/internal/tokens"
	"github.com/clipcull/clipcull/internal/tui"
	"github.com/clipcull/clipcull/internal/viz"
	"github.com/clipcull/clipcull/internal/walk"
)

// App is the top-level orchestrator for one run of build, score, or a
// related command. Its classifier set is fixed at construction time and
// every Entry's ScoreVector follows the same column order for the life of
// the run.
type App struct {
	cfg      *config.Config
	playlist *playlist.Playlist
	logger   *slog.Logger

	tokenizer      *tokenizer.Tokenizer
	frequentNgrams map[ngrams.Ngram]struct{}

	fileSize *classifier.FileSize
	dirSize  *classifier.DirSize
	fileAge  *classifier.FileAge
	naive    *classifier.NaiveBayes

	pool []*pipeline.Entry
}

// New builds an App from a resolved configuration and an already-open
// playlist. A scalar classifier is constructed only when its bias is
// non-zero; zero means that dimension is inactive for this run.
func New(cfg *config.Config, pl *playlist.Playlist) *App {
	a := &App{
		cfg:      cfg,
		playlist: pl,
		logger:   config.NewLogger("app"),
		naive:    classifier.NewNaiveBayes(false),
	}
	if cfg.FileSizeBias != 0 {
		a.fileSize = classifier.NewFileSize(cfg.FileSizeBias, cfg.FileSizeOffset)
	}
	if cfg.DirSizeBias != 0 {
		a.dirSize = classifier.NewDirSize(cfg.DirSizeBias, cfg.DirSizeOffset)
	}
	if cfg.FileAgeBias != 0 {
		a.fileAge = classifier.NewFileAge(cfg.FileAgeBias, cfg.FileAgeOffset, time.Now())
	}
	return a
}

// classifiers returns the active classifier set in a fixed order: the
// optional scalar classifiers first, naive Bayes always last.
func (a *App) classifiers() []classifier.Classifier {
	var cs []classifier.Classifier
	if a.fileSize != nil {
		cs = append(cs, a.fileSize)
	}
	if a.dirSize != nil {
		cs = append(cs, a.dirSize)
	}
	if a.fileAge != nil {
		cs = append(cs, a.fileAge)
	}
	cs = append(cs, a.naive)
	return cs
}

// normalizedRelative renders abs in the canonical lowercase form the
// tokenizer trains and infers on: the path relative to the playlist's root,
// normalized. Keeping paths relative to the playlist, rather than absolute,
// is what lets a playlist built on one machine stay meaningful when the
// same tree is mounted somewhere else.
func (a *App) normalizedRelative(abs string) string {
	return normalize.Path(pathutil.ToSlashRelative(a.playlist.Root(), abs))
}

// CollectFiles walks dirs for matching files, skipping anything already
// present in the playlist unless includeClassified is set, and seeds the
// candidate pool plus the DirSize classifier's live counts.
func (a *App) CollectFiles(ctx context.Context, dirs []string, includeClassified bool) error {
	w := walk.NewWalker()
	candidates, err := w.Walk(ctx, walk.Config{
		Roots:          dirs,
		VideoExts:      a.cfg.VideoExts,
		IgnoreFileName: ".clipcullignore",
		IncludeGlobs:   a.cfg.IncludeGlobs,
		ExcludeGlobs:   a.cfg.ExcludeGlobs,
	})
	if err != nil {
		return pipeline.NewWalkError("walk candidate directories", err)
	}

	for _, c := range candidates {
		if !includeClassified && a.playlist.Contains(c.AbsPath) {
			continue
		}
		e := &pipeline.Entry{
			AbsPath:   c.AbsPath,
			Size:      c.Size,
			CreatedAt: c.CreatedAt,
		}
		if a.dirSize != nil {
			a.dirSize.AddEntry(e)
		}
		a.pool = append(a.pool, e)
	}

	a.logger.Info("collected candidates", "count", len(a.pool), "include_classified", includeClassified)
	return nil
}

// Train builds the tokenizer over the union of candidate and labelled
// paths, derives the global frequent n-gram set from that same union, fills
// in every candidate Entry's tokens and frequent-filtered n-grams, and
// trains naive Bayes from the playlist's existing verdicts using their
// unfiltered n-grams. This asymmetry between training and scoring n-gram
// sets is intentional: candidates are scored against the vocabulary the
// whole corpus agrees is common, but every labelled example still
// contributes its full signal to training.
func (a *App) Train(ctx context.Context) error {
	corpus := make([]string, 0, len(a.pool)+len(a.playlist.Entries))
	for _, e := range a.pool {
		e.Normalized = a.normalizedRelative(e.AbsPath)
		corpus = append(corpus, e.Normalized)
	}
	playlistNormalized := make([]string, len(a.playlist.Entries))
	for i, pe := range a.playlist.Entries {
		playlistNormalized[i] = a.normalizedRelative(pe.AbsPath)
	}
	corpus = append(corpus, playlistNormalized...)

	tok, sequences, err := tokenizer.Train(ctx, corpus, tokenizer.Options{})
	if err != nil {
		return fmt.Errorf("train tokenizer: %w", err)
	}
	a.tokenizer = tok
	a.logger.Info("tokenizer trained", "vocab_size", tok.Vocab.Len(), "corpus_size", len(corpus))

	poolSeqs := sequences[:len(a.pool)]
	playlistSeqs := sequences[len(a.pool):]

	allSeqs := make([][]tokens.Token, len(sequences))
	for i, s := range sequences {
		allSeqs[i] = s.IDs
	}

	freq, err := ngrams.FrequentSet(ctx, allSeqs, ngrams.Options{Windows: a.cfg.Windows})
	if err != nil {
		return fmt.Errorf("compute frequent ngrams: %w", err)
	}
	a.frequentNgrams = freq
	a.logger.Info("frequent ngrams computed", "count", len(freq))

	for i, e := range a.pool {
		e.TokenIDs = toTokenIDs(poolSeqs[i])
		e.Ngrams = toNgramUint64(ngrams.WindowsFiltered(poolSeqs[i].IDs, a.cfg.Windows, freq))
	}

	for i, pe := range a.playlist.Entries {
		unfiltered := toNgramUint64(ngrams.Windows(playlistSeqs[i].IDs, a.cfg.Windows))
		switch pe.Verdict {
		case pipeline.Positive:
			a.naive.TrainPositive(unfiltered)
		case pipeline.Negative:
			a.naive.TrainNegative(unfiltered)
		}
	}

	return nil
}

// Score runs one aggregation pass: each active classifier scores every
// pooled candidate, each score column is independently min-max normalized,
// and the pool is stably sorted ascending by per-candidate score sum.
func (a *App) Score() {
	aggregator.Run(a.pool, a.classifiers())
}

// RunScore trains, scores once, and prints the ranked pool to w, highest
// total score first. No verdict is solicited; the playlist is left
// untouched.
func (a *App) RunScore(ctx context.Context, w io.Writer) error {
	if err := a.Train(ctx); err != nil {
		return err
	}
	a.Score()

	dc := pathutil.NewDisplayContext(a.playlist.Root())
	fmt.Fprintf(w, "%-60s %10s\n", "File", "Total Score")
	fmt.Fprintln(w, strings.Repeat("-", 71))
	for i := len(a.pool) - 1; i >= 0; i-- {
		e := a.pool[i]
		fmt.Fprintf(w, "%-60s %10.3f\n", dc.Display(e.AbsPath), sum(e.ScoreVector))
	}
	return nil
}

// RunBuild trains, then — unless cfg.DryRun is set — repeatedly re-scores
// the shrinking pool, drains a batch of the top-ranked candidates, and for
// each one plays it through playerCfg's subprocess while a terminal UI
// solicits the human verdict. A verdict's polarity both updates the
// playlist (so it is never lost on a later crash) and trains naive Bayes
// in place, which is why later candidates in the same run can already
// reflect an earlier one's verdict.
func (a *App) RunBuild(ctx context.Context, playerCfg player.Config) error {
	if err := a.Train(ctx); err != nil {
		return err
	}
	if a.cfg.DryRun {
		a.logger.Info("dry run: skipping interactive classification")
		return nil
	}

	ctrl, err := player.NewController(playerCfg)
	if err != nil {
		return fmt.Errorf("start player controller: %w", err)
	}
	defer ctrl.Close()

	dc := pathutil.NewDisplayContext(a.playlist.Root())
	batch := a.cfg.Batch
	if batch < 1 {
		batch = 1
	}

	for len(a.pool) > 0 {
		a.Score()

		n := batch
		if n > len(a.pool) {
			n = len(a.pool)
		}
		drained := append([]*pipeline.Entry(nil), a.pool[len(a.pool)-n:]...)
		a.pool = a.pool[:len(a.pool)-n]

		for _, e := range drained {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			quit, err := a.classifyOne(ctx, ctrl, dc, e)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
	return nil
}

// classifyOne plays one candidate and solicits its verdict. Play's status
// polling and the terminal UI's keypress wait run concurrently: the human
// decides from the UI, and that decision is only applied once Play has
// independently confirmed the player actually started the expected file.
// A transport failure, timeout, or filename mismatch is logged and the
// candidate is left unclassified rather than aborting the whole run.
func (a *App) classifyOne(ctx context.Context, ctrl *player.Controller, dc pathutil.DisplayContext, e *pipeline.Entry) (quit bool, err error) {
	if startErr := ctrl.Start(ctx, e.AbsPath); startErr != nil {
		a.logger.Warn("failed to start player", "path", e.AbsPath, "error", startErr)
		return false, nil
	}

	verdictCh := make(chan pipeline.Verdict, 1)
	playErrCh := make(chan error, 1)
	go func() {
		v, playErr := ctrl.Play(ctx, e.AbsPath, filepath.Base(e.AbsPath))
		if playErr != nil {
			playErrCh <- playErr
			return
		}
		verdictCh <- v
	}()

	diagnostic := viz.TokenBreakdown(e, a.tokenizer.Vocab) + viz.TopNgrams(e, a.naive) + "\n" +
		viz.ScoreDetails(e, a.classifiers()) + "\n\n" + viz.Distributions(a.pool, e, a.classifiers())
	program := tea.NewProgram(tui.NewModel(dc.Display(e.AbsPath), diagnostic), tea.WithContext(ctx))
	tv, tuiQuit, reqErr := tui.RequestVerdict(program)
	if reqErr != nil {
		a.logger.Warn("terminal UI failed", "path", e.AbsPath, "error", reqErr)
		return false, nil
	}
	ctrl.SubmitVerdict(tv)

	select {
	case v := <-verdictCh:
		a.applyVerdict(e, v)
	case playErr := <-playErrCh:
		a.logger.Warn("player did not confirm playback", "path", e.AbsPath, "error", playErr)
	case <-ctx.Done():
		return false, ctx.Err()
	}

	return tuiQuit, nil
}

// applyVerdict records a Positive or Negative verdict to the playlist and
// trains naive Bayes from it. A Skipped verdict changes nothing: the
// candidate's DirSize contribution stays counted, since the file has not
// actually been decided and may be revisited in a later run.
func (a *App) applyVerdict(e *pipeline.Entry, v pipeline.Verdict) {
	switch v {
	case pipeline.Positive:
		if a.dirSize != nil {
			a.dirSize.RemoveEntry(e)
		}
		if err := a.playlist.AddPositive(e.AbsPath); err != nil {
			a.logger.Error("failed to record positive verdict", "path", e.AbsPath, "error", err)
			return
		}
		a.naive.TrainPositive(e.Ngrams)
		a.logger.Info("verdict recorded", "path", e.AbsPath, "verdict", v.String())
	case pipeline.Negative:
		if a.dirSize != nil {
			a.dirSize.RemoveEntry(e)
		}
		if err := a.playlist.AddNegative(e.AbsPath); err != nil {
			a.logger.Error("failed to record negative verdict", "path", e.AbsPath, "error", err)
			return
		}
		a.naive.TrainNegative(e.Ngrams)
		a.logger.Info("verdict recorded", "path", e.AbsPath, "verdict", v.String())
	default:
		a.logger.Info("candidate skipped", "path", e.AbsPath)
	}
}

func sum(scores []float64) float64 {
	var total float64
	for _, s := range scores {
		total += s
	}
	return total
}

func toTokenIDs(t tokens.Tokens) []uint32 {
	out := make([]uint32, len(t.IDs))
	for i, id := range t.IDs {
		out[i] = uint32(id)
	}
	return out
}

func toNgramUint64(ns []ngrams.Ngram) []uint64 {
	out := make([]uint64, len(ns))
	for i, n := range ns {
		out[i] = uint64(n)
	}
	return out
}
