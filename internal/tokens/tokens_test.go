package tokens

import (
	"testing"

	"github.com/clipcull/clipcull/internal/bloom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenMapReservesUnknownAndSpecials(t *testing.T) {
	tm := NewTokenMap([]string{" ", "/"})
	assert.Equal(t, Unknown, Token(0))
	assert.True(t, tm.IsSpecial(Unknown))

	space, ok := tm.Lookup(" ")
	require.True(t, ok)
	assert.True(t, tm.IsSpecial(space))

	sep, ok := tm.Lookup("/")
	require.True(t, ok)
	assert.True(t, tm.IsSpecial(sep))
	assert.Equal(t, sep, tm.LastSpecial())
}

func TestInternIsStable(t *testing.T) {
	tm := NewTokenMap(nil)
	a := tm.Intern("he")
	b := tm.Intern("he")
	assert.Equal(t, a, b)
	assert.False(t, tm.IsSpecial(a))
}

func TestTokensPairsAndBloom(t *testing.T) {
	tm := NewTokenMap([]string{" "})
	h := tm.Intern("h")
	e := tm.Intern("e")
	l := tm.Intern("l")

	tk := New([]Token{h, e, l, l})
	pairs := tk.Pairs()
	require.Len(t, pairs, 3)
	assert.Equal(t, Pair{A: h, B: e}, pairs[0])

	for _, p := range pairs {
		assert.True(t, tk.Bloom.Contains(bloom.Mask(p.Hash())))
	}
}

func TestConcatRoundTrip(t *testing.T) {
	tm := NewTokenMap([]string{" "})
	ids := []Token{tm.Intern("h"), tm.Intern("i"), tm.Intern(" "), tm.Intern("t"), tm.Intern("h"), tm.Intern("e"), tm.Intern("r"), tm.Intern("e")}
	tk := New(ids)
	assert.Equal(t, "hi there", tk.Concat(tm))
}

func TestCloneIsIndependent(t *testing.T) {
	tm := NewTokenMap(nil)
	ids := []Token{tm.Intern("a"), tm.Intern("b")}
	tk := New(ids)
	clone := tk.Clone()
	clone.IDs[0] = tm.Intern("z")
	assert.NotEqual(t, tk.IDs[0], clone.IDs[0])
}
