// Package reorder computes new orderings from drag gestures.
package reorder

import (
	"errors"
	"fmt"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Move removes the element at from and inserts it at to in the remaining
// sequence. It is a single-element move, not a swap. The input slice is never
// modified; the result is always a fresh slice of the same length.
func Move[T any](items []T, from, to int) ([]T, error) {
	n := len(items)
	if from < 0 || from >= n {
		return nil, fmt.Errorf("move from %d of %d: %w", from, n, ErrIndexOutOfRange)
	}
	if to < 0 || to >= n {
		return nil, fmt.Errorf("move to %d of %d: %w", to, n, ErrIndexOutOfRange)
	}

	out := make([]T, n)
	copy(out, items)
	if from == to {
		return out, nil
	}

	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out, nil
}

// Affected returns the inclusive index range whose elements change position
// when moving from -> to.
func Affected(from, to int) (lo, hi int) {
	if from < to {
		return from, to
	}
	return to, from
}
