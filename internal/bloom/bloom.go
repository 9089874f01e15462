// Package bloom implements the 128-bit Bloom filter that lets the BPE
// trainer skip most token sequences on every merge iteration: a sequence's
// filter is an over-approximation of the adjacent token Pairs it contains,
// so a merge candidate whose bit is absent can never appear in that
// sequence and needs no scan.
package bloom

import "github.com/zeebo/xxh3"

// Filter is a 128-bit summary, stored as two 64-bit words.
type Filter struct {
	lo, hi uint64
}

// bitMask returns the single-bit Filter for bit index b (0..127).
func bitMask(b uint64) Filter {
	b &= 127
	if b < 64 {
		return Filter{lo: 1 << b}
	}
	return Filter{hi: 1 << (b - 64)}
}

// Mask returns the single-bit Filter for a 64-bit hash, per the mask
// function `1 << (hash(pair) mod 128)`.
func Mask(hash uint64) Filter {
	return bitMask(hash % 128)
}

// HashPair produces the 64-bit hash of an ordered pair of token ids, used
// both as the Bloom mask input and (by the tokenizer) as the sharding key
// for the pair-count map.
func HashPair(a, b uint32) uint64 {
	var buf [8]byte
	buf[0] = byte(a)
	buf[1] = byte(a >> 8)
	buf[2] = byte(a >> 16)
	buf[3] = byte(a >> 24)
	buf[4] = byte(b)
	buf[5] = byte(b >> 8)
	buf[6] = byte(b >> 16)
	buf[7] = byte(b >> 24)
	return xxh3.Hash(buf[:])
}

// Add merges mask's bits into f, growing the over-approximation.
func (f *Filter) Add(mask Filter) {
	f.lo |= mask.lo
	f.hi |= mask.hi
}

// Contains reports whether every bit set in mask is also set in f. A true
// result is not a guarantee the underlying pair is present -- callers must
// still verify -- but a false result is a guarantee it is absent.
func (f Filter) Contains(mask Filter) bool {
	return f.lo&mask.lo == mask.lo && f.hi&mask.hi == mask.hi
}

// Reset clears all bits.
func (f *Filter) Reset() {
	f.lo, f.hi = 0, 0
}
