package classifier

import (
	"fmt"
	"math"
	"sync"

	"github.com/clipcull/clipcull/internal/ngrams"
	"github.com/clipcull/clipcull/internal/pipeline"
)

// NaiveBayes is the multinomial naive-Bayes classifier over n-gram hashes
// with Laplace smoothing. It is trained with unfiltered n-grams of labelled
// paths but scores candidates using their frequent-filtered Ngrams; this
// asymmetry is intentional (training retains rare signal, inference keeps
// candidate sets small) and must not be harmonized away.
type NaiveBayes struct {
	mu sync.Mutex

	positiveCounts map[ngrams.Ngram]uint32
	negativeCounts map[ngrams.Ngram]uint32
	vocab          map[ngrams.Ngram]struct{}

	positiveTotal       int64
	negativeTotal       int64
	positiveTotalNgrams int64
	negativeTotalNgrams int64

	reverse bool
}

// NewNaiveBayes constructs an empty classifier. reverse negates Score's
// output, for configurations where "resembles the negatives" should rank
// higher.
func NewNaiveBayes(reverse bool) *NaiveBayes {
	return &NaiveBayes{
		positiveCounts: make(map[ngrams.Ngram]uint32),
		negativeCounts: make(map[ngrams.Ngram]uint32),
		vocab:          make(map[ngrams.Ngram]struct{}),
		reverse:        reverse,
	}
}

// Name implements Classifier.
func (nb *NaiveBayes) Name() string { return "naive_bayes" }

// TrainPositive records one positive document's n-grams. ngrams must be
// unfiltered (not restricted to the frequent set).
func (nb *NaiveBayes) TrainPositive(ngs []uint64) {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.positiveTotal++
	for _, raw := range ngs {
		g := ngrams.Ngram(raw)
		nb.positiveCounts[g]++
		nb.positiveTotalNgrams++
		nb.vocab[g] = struct{}{}
	}
}

// TrainNegative is the symmetric counterpart of TrainPositive.
func (nb *NaiveBayes) TrainNegative(ngs []uint64) {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.negativeTotal++
	for _, raw := range ngs {
		g := ngrams.Ngram(raw)
		nb.negativeCounts[g]++
		nb.negativeTotalNgrams++
		nb.vocab[g] = struct{}{}
	}
}

func (nb *NaiveBayes) logPrior(total int64) float64 {
	return math.Log(float64(1+total) / float64(2+nb.positiveTotal+nb.negativeTotal))
}

func (nb *NaiveBayes) logProb(g ngrams.Ngram, counts map[ngrams.Ngram]uint32, totalNgrams int64) float64 {
	c := float64(counts[g])
	v := float64(len(nb.vocab))
	return math.Log((1 + c) / (1 + float64(totalNgrams) + v))
}

// NgramScore returns the diagnostic per-n-gram discriminative score:
// log_p(g|pos) - log_p(g|neg). Used to surface the most discriminative
// n-grams for a candidate under review; unrelated to Score's log-priors.
func (nb *NaiveBayes) NgramScore(g ngrams.Ngram) float64 {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	return nb.logProb(g, nb.positiveCounts, nb.positiveTotalNgrams) -
		nb.logProb(g, nb.negativeCounts, nb.negativeTotalNgrams)
}

// Score implements Classifier. It scores e's frequent-filtered Ngrams and
// panics if the result is non-finite, since that indicates a bug upstream
// (an empty vocabulary fed into log, or similar) rather than recoverable
// input.
func (nb *NaiveBayes) Score(e *pipeline.Entry) float64 {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	logPos := nb.logPrior(nb.positiveTotal)
	logNeg := nb.logPrior(nb.negativeTotal)
	for _, raw := range e.Ngrams {
		g := ngrams.Ngram(raw)
		logPos += nb.logProb(g, nb.positiveCounts, nb.positiveTotalNgrams)
		logNeg += nb.logProb(g, nb.negativeCounts, nb.negativeTotalNgrams)
	}

	score := logPos - logNeg
	if !math.IsInf(score, 0) && !math.IsNaN(score) {
		if nb.reverse {
			return -score
		}
		return score
	}
	panic(fmt.Sprintf("naive_bayes: non-finite score %v for %s", score, e.AbsPath))
}
