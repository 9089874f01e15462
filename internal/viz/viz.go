// Package viz renders the diagnostic views the interactive ranker shows
// before soliciting a verdict: the candidate's token breakdown, its
// top-scoring n-grams, its per-classifier scores, and an ASCII distribution
// plot of the whole pool with a marker at the candidate's own value.
package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/clipcull/clipcull/internal/classifier"
	"github.com/clipcull/clipcull/internal/ngrams"
	"github.com/clipcull/clipcull/internal/pipeline"
	"github.com/clipcull/clipcull/internal/tokens"
)

// TopNgramCount bounds how many of a candidate's n-grams TopNgrams lists.
const TopNgramCount = 8

var (
	nameStyle   = lipgloss.NewStyle().Bold(true)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// Width and Height bound the ASCII plot's character dimensions.
const (
	Width  = 60
	Height = 12
)

// TokenBreakdown renders the candidate's BPE token sequence as its
// vocabulary strings, pipe-separated in order.
func TokenBreakdown(current *pipeline.Entry, vocab *tokens.TokenMap) string {
	strs := make([]string, len(current.TokenIDs))
	for i, id := range current.TokenIDs {
		strs[i] = vocab.String(tokens.Token(id))
	}
	return fmt.Sprintf("%s: %s\n", nameStyle.Render("tokens"), strings.Join(strs, "|"))
}

// TopNgrams renders the candidate's frequent n-grams ranked by the
// naive-Bayes classifier's absolute per-n-gram discriminative score
// (log_p(g|pos) - log_p(g|neg)), most discriminative first, capped at
// TopNgramCount. An n-gram is identified only by its hash — per the spec,
// the original tokens behind it are not recoverable from the hash alone.
func TopNgrams(current *pipeline.Entry, nb *classifier.NaiveBayes) string {
	type scoredNgram struct {
		g     ngrams.Ngram
		score float64
	}

	scored := make([]scoredNgram, len(current.Ngrams))
	for i, raw := range current.Ngrams {
		g := ngrams.Ngram(raw)
		scored[i] = scoredNgram{g: g, score: nb.NgramScore(g)}
	}
	sort.Slice(scored, func(i, j int) bool {
		return math.Abs(scored[i].score) > math.Abs(scored[j].score)
	})
	if len(scored) > TopNgramCount {
		scored = scored[:TopNgramCount]
	}

	var b strings.Builder
	b.WriteString(nameStyle.Render("top n-grams") + ":\n")
	for _, s := range scored {
		fmt.Fprintf(&b, "  %#x: %.3f\n", uint64(s.g), s.score)
	}
	return b.String()
}

// ScoreDetails renders one line per active classifier's normalized score for
// the current candidate, in column order.
func ScoreDetails(current *pipeline.Entry, classifiers []classifier.Classifier) string {
	var b strings.Builder
	for i, c := range classifiers {
		fmt.Fprintf(&b, "%s: %.3f\n", nameStyle.Render(c.Name()), current.ScoreVector[i])
	}
	return b.String()
}

// Distributions renders one ASCII plot per classifier column across pool,
// with a marker row for current's value in that column.
func Distributions(pool []*pipeline.Entry, current *pipeline.Entry, classifiers []classifier.Classifier) string {
	var b strings.Builder
	for i, c := range classifiers {
		b.WriteString(plotColumn(c.Name(), pool, i, current.ScoreVector[i]))
		b.WriteByte('\n')
	}
	return b.String()
}

// plotColumn renders a horizontal-bar histogram of column col's values
// across pool, bucketed into Height rows spanning [min, max], with the row
// containing currentScore marked distinctly.
func plotColumn(name string, pool []*pipeline.Entry, col int, currentScore float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "score distribution for %s:\n", name)

	if len(pool) == 0 {
		return b.String()
	}

	min, max := pool[0].ScoreVector[col], pool[0].ScoreVector[col]
	for _, e := range pool[1:] {
		v := e.ScoreVector[col]
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	if span <= 0 {
		span = 1
	}

	buckets := make([]int, Height)
	for _, e := range pool {
		idx := bucketIndex(e.ScoreVector[col], min, span)
		buckets[idx]++
	}
	markerIdx := bucketIndex(currentScore, min, span)

	maxCount := 1
	for _, c := range buckets {
		if c > maxCount {
			maxCount = c
		}
	}

	for row := Height - 1; row >= 0; row-- {
		barLen := buckets[row] * Width / maxCount
		bar := strings.Repeat("█", barLen)
		if row == markerIdx {
			fmt.Fprintf(&b, "%s %s\n", markerStyle.Render(">"), markerStyle.Render(bar))
		} else {
			fmt.Fprintf(&b, "  %s\n", barStyle.Render(bar))
		}
	}
	return b.String()
}

func bucketIndex(v, min, span float64) int {
	idx := int((v - min) / span * float64(Height-1))
	if idx < 0 {
		idx = 0
	}
	if idx > Height-1 {
		idx = Height - 1
	}
	return idx
}
