// Package tokenizer implements the trainable byte-pair-encoding tokenizer:
// a fresh vocabulary and merge log are built once per run over the union of
// candidate and labelled normalized paths, then replayed deterministically
// at inference time. The inner merge loop is accelerated by a 128-bit Bloom
// filter per sequence (internal/bloom) so most sequences are skipped
// without a scan, and the hot pair-count map is sharded so the rewrite pass
// can run across chunks of the corpus concurrently via errgroup.
package tokenizer

import (
	"context"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/clipcull/clipcull/internal/bloom"
	"github.com/clipcull/clipcull/internal/tokens"
)

// DefaultSpecials are the reserved tokens the trainer never merges, beyond
// Unknown: a single space and the forward-slash path separator. Training
// strings come from the path normalizer, which always emits forward slashes
// regardless of platform.
var DefaultSpecials = []string{" ", "/"}

// Merge is one entry of the ordered merge log: the pair that was combined
// and the new token it produced.
type Merge struct {
	Pair   tokens.Pair
	Merged tokens.Token
}

// Tokenizer holds a trained vocabulary and its ordered merge log. The zero
// value is not usable; construct one with Train.
type Tokenizer struct {
	Vocab   *tokens.TokenMap
	Merges  []Merge
	MinFreq int
}

// Options configures a training run.
type Options struct {
	// Specials are the strings reserved as never-merged tokens. Defaults
	// to DefaultSpecials when nil.
	Specials []string
	// Concurrency bounds the number of goroutines used for the parallel
	// rewrite pass. Defaults to runtime.NumCPU() when <= 0.
	Concurrency int
}

// Train builds a Tokenizer from a corpus of normalized path strings and
// returns, alongside it, the final Tokens sequence for every corpus entry in
// input order (so callers need not re-tokenize the training set at
// inference time).
func Train(ctx context.Context, corpus []string, opts Options) (*Tokenizer, []tokens.Tokens, error) {
	specials := opts.Specials
	if specials == nil {
		specials = DefaultSpecials
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	vocab := tokens.NewTokenMap(specials)

	seqs := make([]tokens.Tokens, len(corpus))
	for i, s := range corpus {
		ids := make([]tokens.Token, 0, len(s))
		for _, r := range s {
			ids = append(ids, vocab.Intern(string(r)))
		}
		seqs[i] = tokens.New(ids)
	}

	minFreq := minFrequency(len(corpus))
	counts := newShardedCounts(concurrency)
	for _, seq := range seqs {
		for _, p := range seq.Pairs() {
			if countable(vocab, p) {
				counts.add(p, 1)
			}
		}
	}

	var merges []Merge

	for {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		pair, count, ok := counts.max()
		if !ok || count < int64(minFreq) {
			break
		}

		mergedStr := vocab.String(pair.A) + vocab.String(pair.B)
		merged := vocab.Intern(mergedStr)
		merges = append(merges, Merge{Pair: pair, Merged: merged})

		if err := rewritePass(ctx, vocab, seqs, pair, merged, counts, concurrency); err != nil {
			return nil, nil, err
		}
	}

	return &Tokenizer{Vocab: vocab, Merges: merges, MinFreq: minFreq}, seqs, nil
}

// minFrequency is the crude-stemming threshold: max(2, floor(log2(N+1))).
func minFrequency(n int) int {
	if n < 0 {
		n = 0
	}
	f := math.Log2(float64(n + 1))
	v := int(math.Floor(f))
	if v < 2 {
		return 2
	}
	return v
}

// countable reports whether both members of p are eligible to participate
// in a merge: neither may be a special (including Unknown) token.
func countable(vocab *tokens.TokenMap, p tokens.Pair) bool {
	return !vocab.IsSpecial(p.A) && !vocab.IsSpecial(p.B)
}

// rewritePass applies one merge across every sequence whose Bloom filter
// claims the pair may be present, in parallel chunks, merging each chunk's
// pair-count delta into the shared sharded counter.
func rewritePass(ctx context.Context, vocab *tokens.TokenMap, seqs []tokens.Tokens, pair tokens.Pair, merged tokens.Token, counts *shardedCounts, concurrency int) error {
	mask := bloom.Mask(pair.Hash())

	chunkSize := (len(seqs) + concurrency - 1) / concurrency
	if chunkSize == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(seqs); start += chunkSize {
		end := start + chunkSize
		if end > len(seqs) {
			end = len(seqs)
		}
		start, end := start, end
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			delta := make(map[tokens.Pair]int64)
			for i := start; i < end; i++ {
				seq := &seqs[i]
				if !seq.Bloom.Contains(mask) {
					continue
				}
				newIDs, changed := replacePair(seq.IDs, pair, merged)
				if !changed {
					continue
				}
				applyDelta(vocab, seq.IDs, newIDs, delta)
				seq.IDs = newIDs
				seq.RebuildBloom()
			}
			counts.addDelta(delta)
			return nil
		})
	}
	return g.Wait()
}

// replacePair performs a left-to-right, non-overlapping replacement of pair
// with merged in ids, returning the new sequence and whether any
// replacement occurred.
func replacePair(ids []tokens.Token, pair tokens.Pair, merged tokens.Token) ([]tokens.Token, bool) {
	out := make([]tokens.Token, 0, len(ids))
	changed := false
	for i := 0; i < len(ids); i++ {
		if i+1 < len(ids) && ids[i] == pair.A && ids[i+1] == pair.B {
			out = append(out, merged)
			i++
			changed = true
			continue
		}
		out = append(out, ids[i])
	}
	return out, changed
}

// applyDelta decrements every countable pair of oldIDs and increments every
// countable pair of newIDs into delta.
func applyDelta(vocab *tokens.TokenMap, oldIDs, newIDs []tokens.Token, delta map[tokens.Pair]int64) {
	for i := 0; i+1 < len(oldIDs); i++ {
		p := tokens.Pair{A: oldIDs[i], B: oldIDs[i+1]}
		if countable(vocab, p) {
			delta[p]--
		}
	}
	for i := 0; i+1 < len(newIDs); i++ {
		p := tokens.Pair{A: newIDs[i], B: newIDs[i+1]}
		if countable(vocab, p) {
			delta[p]++
		}
	}
}

// Tokenize splits s into characters and replays the trained merge log in
// order, using the same Bloom-accelerated check as training. Characters
// never seen during training map to tokens.Unknown.
func (t *Tokenizer) Tokenize(s string) tokens.Tokens {
	ids := make([]tokens.Token, 0, len(s))
	for _, r := range s {
		id, ok := t.Vocab.Lookup(string(r))
		if !ok {
			id = tokens.Unknown
		}
		ids = append(ids, id)
	}
	seq := tokens.New(ids)

	for _, m := range t.Merges {
		mask := bloom.Mask(m.Pair.Hash())
		if !seq.Bloom.Contains(mask) {
			continue
		}
		newIDs, changed := replacePair(seq.IDs, m.Pair, m.Merged)
		if !changed {
			continue
		}
		seq.IDs = newIDs
		seq.RebuildBloom()
	}
	return seq
}

// shardedCounts is the hot pair-count map, sharded by hash(pair) mod
// len(shards) with one lock per shard so the parallel rewrite pass scales.
type shardedCounts struct {
	shards []countShard
}

func newShardedCounts(n int) *shardedCounts {
	if n < 1 {
		n = 1
	}
	sc := &shardedCounts{shards: make([]countShard, n)}
	for i := range sc.shards {
		sc.shards[i].counts = make(map[tokens.Pair]int64)
	}
	return sc
}

func (sc *shardedCounts) shardIndex(p tokens.Pair) int {
	return int(p.Hash() % uint64(len(sc.shards)))
}

func (sc *shardedCounts) add(p tokens.Pair, delta int64) {
	s := &sc.shards[sc.shardIndex(p)]
	s.mu.Lock()
	s.counts[p] += delta
	if s.counts[p] == 0 {
		delete(s.counts, p)
	}
	s.mu.Unlock()
}

// addDelta merges a chunk-local delta map into the sharded counter.
func (sc *shardedCounts) addDelta(delta map[tokens.Pair]int64) {
	for p, d := range delta {
		sc.add(p, d)
	}
}

// max finds the pair with the maximum count across all shards. Ties are
// broken deterministically by ascending (A, B) order, since the spec leaves
// cross-run tie-break order unspecified but requires within-run
// reproducibility of the resulting merge log.
func (sc *shardedCounts) max() (tokens.Pair, int64, bool) {
	type candidate struct {
		pair  tokens.Pair
		count int64
		found bool
	}

	partials := make([]candidate, len(sc.shards))
	var g errgroup.Group
	for i := range sc.shards {
		i := i
		g.Go(func() error {
			s := &sc.shards[i]
			s.mu.Lock()
			defer s.mu.Unlock()
			var best candidate
			for p, c := range s.counts {
				if !best.found || betterCandidate(p, c, best.pair, best.count) {
					best = candidate{pair: p, count: c, found: true}
				}
			}
			partials[i] = best
			return nil
		})
	}
	_ = g.Wait()

	var best candidate
	for _, c := range partials {
		if !c.found {
			continue
		}
		if !best.found || betterCandidate(c.pair, c.count, best.pair, best.count) {
			best = c
		}
	}
	return best.pair, best.count, best.found
}

// betterCandidate reports whether (p, count) should replace (bestPair,
// bestCount) as the running maximum: strictly higher count wins; ties break
// by ascending (A, B).
func betterCandidate(p tokens.Pair, count int64, bestPair tokens.Pair, bestCount int64) bool {
	if count != bestCount {
		return count > bestCount
	}
	if p.A != bestPair.A {
		return p.A < bestPair.A
	}
	return p.B < bestPair.B
}

type countShard struct {
	mu     sync.Mutex
	counts map[tokens.Pair]int64
}
