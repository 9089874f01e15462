// Package aggregator combines the active classifiers' raw scores into one
// ranking: each classifier writes its own column, columns are independently
// min-max normalized, and the candidate pool is stably sorted by ascending
// score-vector sum so the most promising candidate ends up at the tail.
package aggregator

import (
	"sort"

	"github.com/clipcull/clipcull/internal/classifier"
	"github.com/clipcull/clipcull/internal/pipeline"
)

// epsilon is the minimum column spread below which normalization is
// skipped; a column with near-constant raw scores is left untouched rather
// than divided by a near-zero range.
const epsilon = 1e-9

// Run scores every entry in pool with each classifier, normalizes each
// classifier's column independently, and sorts pool ascending by the sum of
// each entry's score vector. Sorting is stable, so ties preserve pool's
// incoming relative order.
func Run(pool []*pipeline.Entry, classifiers []classifier.Classifier) {
	for _, e := range pool {
		if len(e.ScoreVector) != len(classifiers) {
			e.ScoreVector = make([]float64, len(classifiers))
		}
	}

	for col, c := range classifiers {
		for _, e := range pool {
			e.ScoreVector[col] = c.Score(e)
		}
		normalizeColumn(pool, col)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return sum(pool[i].ScoreVector) < sum(pool[j].ScoreVector)
	})
}

func normalizeColumn(pool []*pipeline.Entry, col int) {
	if len(pool) == 0 {
		return
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
	if max-min <= epsilon {
		return
	}
	for _, e := range pool {
		e.ScoreVector[col] = (e.ScoreVector[col] - min) / (max - min)
	}
}

func sum(scores []float64) float64 {
	var total float64
	for _, s := range scores {
		total += s
	}
	return total
}
