package reorder

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id      string
	content string
}

func TestMoveFirstToLast(t *testing.T) {
	items := []item{{"c1", "A"}, {"c2", "B"}, {"c3", "C"}}

	got, err := Move(items, 0, 2)
	require.NoError(t, err)

	assert.Equal(t, []item{{"c2", "B"}, {"c3", "C"}, {"c1", "A"}}, got)
	assert.Equal(t, []item{{"c1", "A"}, {"c2", "B"}, {"c3", "C"}}, items, "input must not be mutated")
}

func TestMoveLastToFirst(t *testing.T) {
	got, err := Move([]string{"a", "b", "c", "d"}, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d", "b", "c"}, got)
}

func TestMoveSameIndexIsIdentity(t *testing.T) {
	items := []string{"a", "b", "c"}
	for i := range items {
		got, err := Move(items, i, i)
		require.NoError(t, err)
		assert.Equal(t, items, got)
	}
}

func TestMoveOutOfRange(t *testing.T) {
	items := []string{"a", "b"}
	for _, tc := range [][2]int{{-1, 0}, {0, 2}, {2, 0}, {0, -1}} {
		_, err := Move(items, tc[0], tc[1])
		assert.True(t, errors.Is(err, ErrIndexOutOfRange), "move %v: %v", tc, err)
	}
	_, err := Move([]string{}, 0, 0)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
}

// The moved element lands at to, every other element keeps its relative
// order, and the result is a permutation of the input.
func TestMoveProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 500; round++ {
		n := 1 + rng.Intn(12)
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		from, to := rng.Intn(n), rng.Intn(n)

		got, err := Move(items, from, to)
		require.NoError(t, err)
		require.Len(t, got, n)

		assert.Equal(t, items[from], got[to])
		assert.ElementsMatch(t, items, got)

		rest := make([]int, 0, n-1)
		for i, v := range items {
			if i != from {
				rest = append(rest, v)
			}
		}
		gotRest := make([]int, 0, n-1)
		for i, v := range got {
			if i != to {
				gotRest = append(gotRest, v)
			}
		}
		assert.Equal(t, rest, gotRest, "n=%d from=%d to=%d", n, from, to)
	}
}

func TestAffected(t *testing.T) {
	lo, hi := Affected(4, 1)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 4, hi)
	lo, hi = Affected(0, 2)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 2, hi)
}
