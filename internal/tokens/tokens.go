// Package tokens defines the vocabulary and sequence types shared between
// the BPE trainer and its inference path: Token (an opaque vocabulary
// handle), TokenMap (the bijective string<->Token vocabulary), Pair (an
// ordered merge candidate), and Tokens (one path's token sequence plus its
// Bloom summary).
package tokens

import "github.com/clipcull/clipcull/internal/bloom"

// Token is an opaque handle into a TokenMap's vocabulary.
type Token uint32

// Unknown is the reserved token id for characters that were never seen
// during training.
const Unknown Token = 0

// Pair is an ordered tuple of two Tokens: a candidate for merging.
type Pair struct {
	A, B Token
}

// Hash returns the 64-bit hash used both for the pair's Bloom mask and for
// sharding the pair-count map during training.
func (p Pair) Hash() uint64 {
	return bloom.HashPair(uint32(p.A), uint32(p.B))
}

// TokenMap is the bijective mapping between strings and Tokens. Token 0 is
// always Unknown; tokens 1..LastSpecial are the reserved special tokens
// (space, path separator, ...) that the BPE trainer never merges.
type TokenMap struct {
	strings     []string
	byString    map[string]Token
	lastSpecial Token
}

// NewTokenMap creates a TokenMap with Unknown reserved at id 0 and one
// special token reserved per entry of specials, in order.
func NewTokenMap(specials []string) *TokenMap {
	tm := &TokenMap{
		strings:  make([]string, 0, len(specials)+1),
		byString: make(map[string]Token, len(specials)+1),
	}
	tm.strings = append(tm.strings, "�") // placeholder string for Unknown
	tm.byString["�"] = Unknown

	for _, s := range specials {
		tm.intern(s)
	}
	tm.lastSpecial = Token(len(tm.strings) - 1)
	return tm
}

// intern returns the existing Token for s, allocating a new one if s has
// never been seen.
func (tm *TokenMap) intern(s string) Token {
	if t, ok := tm.byString[s]; ok {
		return t
	}
	t := Token(len(tm.strings))
	tm.strings = append(tm.strings, s)
	tm.byString[s] = t
	return t
}

// Intern returns the Token for s, allocating a new vocabulary entry if
// necessary. Used both for characters seen during training and for merged
// strings created by the BPE trainer.
func (tm *TokenMap) Intern(s string) Token {
	return tm.intern(s)
}

// Lookup returns the Token for s and whether it was already known. Unknown
// strings are NOT allocated by Lookup; callers that must always get a token
// (inference) should fall back to Unknown themselves.
func (tm *TokenMap) Lookup(s string) (Token, bool) {
	t, ok := tm.byString[s]
	return t, ok
}

// String returns the vocabulary string for t.
func (tm *TokenMap) String(t Token) string {
	if int(t) >= len(tm.strings) {
		return ""
	}
	return tm.strings[t]
}

// LastSpecial returns the highest Token id reserved as a special (never
// merged) token.
func (tm *TokenMap) LastSpecial() Token {
	return tm.lastSpecial
}

// IsSpecial reports whether t is Unknown or one of the reserved special
// tokens, meaning the BPE trainer must never let it participate in a merge.
func (tm *TokenMap) IsSpecial(t Token) bool {
	return t <= tm.lastSpecial
}

// Len returns the number of entries in the vocabulary, including Unknown
// and the specials.
func (tm *TokenMap) Len() int {
	return len(tm.strings)
}

// Tokens is the token sequence for one path, together with a Bloom summary
// of all of its adjacent Pairs. The summary is maintained incrementally:
// every structural change to IDs must be followed by RebuildBloom.
type Tokens struct {
	IDs   []Token
	Bloom bloom.Filter
}

// New builds a Tokens from an explicit id sequence and computes its Bloom
// summary.
func New(ids []Token) Tokens {
	t := Tokens{IDs: append([]Token(nil), ids...)}
	t.RebuildBloom()
	return t
}

// Pairs returns every adjacent Pair in the sequence, in order.
func (t Tokens) Pairs() []Pair {
	if len(t.IDs) < 2 {
		return nil
	}
	pairs := make([]Pair, 0, len(t.IDs)-1)
	for i := 0; i+1 < len(t.IDs); i++ {
		pairs = append(pairs, Pair{A: t.IDs[i], B: t.IDs[i+1]})
	}
	return pairs
}

// RebuildBloom recomputes Bloom from the current IDs from scratch.
func (t *Tokens) RebuildBloom() {
	t.Bloom.Reset()
	for _, p := range t.Pairs() {
		t.Bloom.Add(bloom.Mask(p.Hash()))
	}
}

// Strings renders each token's vocabulary string, in order.
func (t Tokens) Strings(tm *TokenMap) []string {
	out := make([]string, len(t.IDs))
	for i, id := range t.IDs {
		out[i] = tm.String(id)
	}
	return out
}

// Concat renders the sequence's character-level concatenation, which must
// equal the original training string for any string trained on (losslessness
// of the merge process).
func (t Tokens) Concat(tm *TokenMap) string {
	var out []byte
	for _, id := range t.IDs {
		out = append(out, tm.String(id)...)
	}
	return string(out)
}

// Clone returns a deep copy safe to mutate independently.
func (t Tokens) Clone() Tokens {
	return Tokens{IDs: append([]Token(nil), t.IDs...), Bloom: t.Bloom}
}
