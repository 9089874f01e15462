// Package ngrams derives token n-gram hashes for a path's Tokens sequence
// and runs the global frequency pass that decides which n-grams are
// "frequent" enough to appear in any candidate's final set. An n-gram is
// represented as a single 64-bit hash of its window's ordered token ids;
// distinct windows that collide are accepted as harmless score noise (see
// package tokens for the token id type).
package ngrams

import (
	"context"
	"encoding/binary"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/clipcull/clipcull/internal/tokens"
	"github.com/zeebo/xxh3"
)

// Ngram is the 64-bit hash identifying one token window. Two distinct
// windows may share an Ngram; callers must not expect to recover the
// original tokens from it.
type Ngram uint64

// hashWindow hashes the ordered token-id sequence of one window.
func hashWindow(window []tokens.Token) Ngram {
	buf := make([]byte, 4*len(window))
	for i, t := range window {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(t))
	}
	return Ngram(xxh3.Hash(buf))
}

// Windows emits every contiguous window of length 1..=w over ids as a
// sorted, deduplicated slice of Ngram hashes.
func Windows(ids []tokens.Token, w int) []Ngram {
	return windows(ids, w, nil)
}

// WindowsFiltered emits the same windows as Windows but drops any hash not
// present in allowed before deduplication.
func WindowsFiltered(ids []tokens.Token, w int, allowed map[Ngram]struct{}) []Ngram {
	return windows(ids, w, allowed)
}

func windows(ids []tokens.Token, w int, allowed map[Ngram]struct{}) []Ngram {
	if w < 1 {
		w = 1
	}
	var out []Ngram
	for n := 1; n <= w && n <= len(ids); n++ {
		for start := 0; start+n <= len(ids); start++ {
			g := hashWindow(ids[start : start+n])
			if allowed != nil {
				if _, ok := allowed[g]; !ok {
					continue
				}
			}
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	deduped := out[:1]
	for _, g := range out[1:] {
		if g != deduped[len(deduped)-1] {
			deduped = append(deduped, g)
		}
	}
	return deduped
}

// Options configures the global frequency pass.
type Options struct {
	// Windows is the maximum window length W.
	Windows int
	// Concurrency bounds the goroutines used to scan the training union.
	// Defaults to runtime.NumCPU() when <= 0.
	Concurrency int
}

// FrequentSet computes the set of n-grams occurring in at least 2 distinct
// sequences of the training union (candidate and labelled normalized paths
// alike), scanning in parallel chunks with a sharded, saturating count map.
func FrequentSet(ctx context.Context, sequences [][]tokens.Token, opts Options) (map[Ngram]struct{}, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	w := opts.Windows
	if w < 1 {
		w = 1
	}

	counts := newSaturatingCounts(concurrency)

	chunkSize := (len(sequences) + concurrency - 1) / concurrency
	if chunkSize == 0 {
		return map[Ngram]struct{}{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(sequences); start += chunkSize {
		end := start + chunkSize
		if end > len(sequences) {
			end = len(sequences)
		}
		start, end := start, end
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			local := make(map[Ngram]uint8)
			for i := start; i < end; i++ {
				for _, ng := range Windows(sequences[i], w) {
					if local[ng] < 255 {
						local[ng]++
					}
				}
			}
			counts.merge(local)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return counts.frequent(2), nil
}

// saturatingCounts is a sharded n-gram occurrence counter whose per-key
// value saturates at 255, mirroring the tokenizer's sharded pair counts.
type saturatingCounts struct {
	shards []countShard
}

type countShard struct {
	mu     sync.Mutex
	counts map[Ngram]uint8
}

func newSaturatingCounts(n int) *saturatingCounts {
	if n < 1 {
		n = 1
	}
	sc := &saturatingCounts{shards: make([]countShard, n)}
	for i := range sc.shards {
		sc.shards[i].counts = make(map[Ngram]uint8)
	}
	return sc
}

func (sc *saturatingCounts) shardIndex(g Ngram) int {
	return int(uint64(g) % uint64(len(sc.shards)))
}

// merge folds a chunk-local count map into the shared sharded counter,
// saturating each shared count at 255. Distinct chunks may report
// overlapping keys (a path could in principle repeat across chunks), so the
// merge adds rather than overwrites, still capped at 255.
func (sc *saturatingCounts) merge(local map[Ngram]uint8) {
	byShard := make(map[int]map[Ngram]uint8)
	for g, c := range local {
		idx := sc.shardIndex(g)
		m, ok := byShard[idx]
		if !ok {
			m = make(map[Ngram]uint8)
			byShard[idx] = m
		}
		m[g] = c
	}
	for idx, m := range byShard {
		s := &sc.shards[idx]
		s.mu.Lock()
		for g, c := range m {
			total := int(s.counts[g]) + int(c)
			if total > 255 {
				total = 255
			}
			s.counts[g] = uint8(total)
		}
		s.mu.Unlock()
	}
}

// frequent returns every Ngram whose saturated count is >= min.
func (sc *saturatingCounts) frequent(min uint8) map[Ngram]struct{} {
	out := make(map[Ngram]struct{})
	for i := range sc.shards {
		for g, c := range sc.shards[i].counts {
			if c >= min {
				out[g] = struct{}{}
			}
		}
	}
	return out
}
