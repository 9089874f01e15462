package bloom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskContainsItself(t *testing.T) {
	var f Filter
	m := Mask(HashPair(3, 9))
	f.Add(m)
	assert.True(t, f.Contains(m))
}

func TestFilterIsOverApproximation(t *testing.T) {
	var f Filter
	pairs := [][2]uint32{{1, 2}, {5, 6}, {100, 200}}
	masks := make([]Filter, len(pairs))
	for i, p := range pairs {
		masks[i] = Mask(HashPair(p[0], p[1]))
		f.Add(masks[i])
	}
	for _, m := range masks {
		assert.True(t, f.Contains(m), "filter must contain every pair mask added to it")
	}
}

func TestEmptyFilterContainsNothing(t *testing.T) {
	var f Filter
	m := Mask(HashPair(42, 7))
	assert.False(t, f.Contains(m))
}

func TestReset(t *testing.T) {
	var f Filter
	f.Add(Mask(HashPair(1, 2)))
	f.Reset()
	assert.Equal(t, Filter{}, f)
}
