// Package densevec provides a dense, bounds-checked float64 vector used as
// the backing store for a factor's probability table.
//
// It is adapted from lvlath's matrix.Dense: the same row-major flat-slice
// storage, the same sentinel-error discipline on the bounds-checked public
// accessors, and the same Clone-returns-an-independent-copy contract. The
// difference is shape: a factor's table is addressed by a single bitmask
// index rather than a (row, col) pair, and the hot loops inside refine,
// marginalize, and combine run over up to 2^30 entries, so Vector also
// exposes Raw, an escape hatch to the backing slice for code that has
// already validated its own indices and cannot afford a bounds check (and
// an error return) per cell.
package densevec

import (
	"errors"
	"fmt"
)

// ErrInvalidLength indicates a requested vector length is not strictly positive.
var ErrInvalidLength = errors.New("densevec: length must be > 0")

// ErrIndexOutOfBounds indicates an index outside [0, Len()).
var ErrIndexOutOfBounds = errors.New("densevec: index out of bounds")

// vectorErrorf wraps an underlying error with method/index context.
func vectorErrorf(method string, idx int, err error) error {
	return fmt.Errorf("Vector.%s(%d): %w", method, idx, err)
}

// Vector is a flat, row-major float64 buffer of fixed length.
type Vector struct {
	data []float64
}

// New allocates a zeroed Vector of the given length.
// Complexity: O(n) time and space.
func New(length int) (*Vector, error) {
	if length <= 0 {
		return nil, ErrInvalidLength
	}
	return &Vector{data: make([]float64, length)}, nil
}

// NewFrom adopts the given slice verbatim (no copy) as the vector's backing
// storage. The caller must not retain a mutable alias to data afterwards.
func NewFrom(data []float64) (*Vector, error) {
	if len(data) == 0 {
		return nil, ErrInvalidLength
	}
	return &Vector{data: data}, nil
}

// Fill allocates a vector of the given length with every entry set to v.
func Fill(length int, v float64) (*Vector, error) {
	vec, err := New(length)
	if err != nil {
		return nil, err
	}
	for i := range vec.data {
		vec.data[i] = v
	}
	return vec, nil
}

// Len returns the number of entries in the vector.
// Complexity: O(1).
func (v *Vector) Len() int {
	return len(v.data)
}

// At retrieves the entry at idx, bounds-checked.
// Complexity: O(1).
func (v *Vector) At(idx int) (float64, error) {
	if idx < 0 || idx >= len(v.data) {
		return 0, vectorErrorf("At", idx, ErrIndexOutOfBounds)
	}
	return v.data[idx], nil
}

// Set assigns val at idx, bounds-checked.
// Complexity: O(1).
func (v *Vector) Set(idx int, val float64) error {
	if idx < 0 || idx >= len(v.data) {
		return vectorErrorf("Set", idx, ErrIndexOutOfBounds)
	}
	v.data[idx] = val
	return nil
}

// Raw returns the backing slice directly, with no bounds checking. Callers
// in the hot loops of factor.Refine/Marginalize/Combine use this once they
// have already derived a valid index from the bit mapping; it must never be
// used with an index computed from unvalidated caller input.
func (v *Vector) Raw() []float64 {
	return v.data
}

// Clone returns a deep copy, independent of the original.
// Complexity: O(n).
func (v *Vector) Clone() *Vector {
	out := make([]float64, len(v.data))
	copy(out, v.data)
	return &Vector{data: out}
}

// Equal reports whether two vectors have identical length and entries.
func (v *Vector) Equal(other *Vector) bool {
	if other == nil || len(v.data) != len(other.data) {
		return false
	}
	for i, x := range v.data {
		if x != other.data[i] {
			return false
		}
	}
	return true
}
