package factor

import (
	"math"

	"github.com/katalvlaran/beliefnet/internal/densevec"
)

// ArgID identifies a binary-valued argument (proposition).
type ArgID int

// Factor is a dense conditional probability table P(conditioned|conditioning)
// over binary arguments, addressed by a bitmask index: bit k of an index
// encodes the truth value of the argument mapped to bit position k.
//
// A Factor is owned exclusively by whichever Distribution constructed it
// (or, for an intermediate produced mid-query, by the query that produced
// it); it is not safe for concurrent external mutation (see package
// parallel for the internal concurrency this package does use).
type Factor struct {
	conditioned  []ArgID
	conditioning []ArgID
	size         int
	table        *densevec.Vector
	mapping      map[ArgID]int // argument -> bit position
	uniform      bool
}

// New constructs a Factor over the given conditioned and conditioning
// argument lists. If table is nil, the factor is initialized uniform: every
// entry equals 2^-|conditioned|, and Uniform() reports true until the table
// is replaced by Refine, SetProbabilities-equivalent construction, or
// MarginalizeSelf. If table is non-nil its length must equal 2^size; it is
// copied, not aliased, and Uniform() reports false immediately.
func New(conditioned, conditioning []ArgID, table []float64) (*Factor, error) {
	if err := checkDuplicates(conditioned, conditioning); err != nil {
		return nil, factorErrorf("New", err)
	}

	size := len(conditioned) + len(conditioning)
	if size > MaxSize {
		return nil, factorErrorf("New", ErrCapacityExceeded)
	}

	mapping := buildMapping(conditioned, conditioning)
	n := 1 << uint(size)

	f := &Factor{
		conditioned:  append([]ArgID(nil), conditioned...),
		conditioning: append([]ArgID(nil), conditioning...),
		size:         size,
		mapping:      mapping,
	}

	if table == nil {
		value := math.Pow(2, -float64(len(conditioned)))
		vec, err := densevec.Fill(n, value)
		if err != nil {
			return nil, factorErrorf("New", err)
		}
		f.table = vec
		f.uniform = true
		return f, nil
	}

	if len(table) != n {
		return nil, factorErrorf("New", ErrShapeMismatch)
	}
	cp := make([]float64, n)
	copy(cp, table)
	vec, err := densevec.NewFrom(cp)
	if err != nil {
		return nil, factorErrorf("New", err)
	}
	f.table = vec
	f.uniform = false
	return f, nil
}

// checkDuplicates enforces that conditioned and conditioning together hold
// each argument identifier at most once.
func checkDuplicates(conditioned, conditioning []ArgID) error {
	seen := make(map[ArgID]bool, len(conditioned)+len(conditioning))
	for _, a := range conditioned {
		if seen[a] {
			return ErrDuplicateArgument
		}
		seen[a] = true
	}
	for _, a := range conditioning {
		if seen[a] {
			return ErrDuplicateArgument
		}
		seen[a] = true
	}
	return nil
}

// buildMapping assigns bit positions: conditioned args first in order, then
// conditioning args in order.
func buildMapping(conditioned, conditioning []ArgID) map[ArgID]int {
	m := make(map[ArgID]int, len(conditioned)+len(conditioning))
	pos := 0
	for _, a := range conditioned {
		m[a] = pos
		pos++
	}
	for _, a := range conditioning {
		m[a] = pos
		pos++
	}
	return m
}

// Conditioned returns the factor's conditioned argument list, in bit order.
func (f *Factor) Conditioned() []ArgID {
	return append([]ArgID(nil), f.conditioned...)
}

// Conditioning returns the factor's conditioning argument list, in bit order.
func (f *Factor) Conditioning() []ArgID {
	return append([]ArgID(nil), f.conditioning...)
}

// Size returns |conditioned| + |conditioning|.
func (f *Factor) Size() int {
	return f.size
}

// Uniform reports whether the table has never been explicitly set since
// construction.
func (f *Factor) Uniform() bool {
	return f.uniform
}

// Table returns a copy of the factor's probability table, in index order.
func (f *Factor) Table() []float64 {
	out := make([]float64, f.table.Len())
	copy(out, f.table.Raw())
	return out
}

// hasConditioned reports whether arg is in the conditioned set.
func (f *Factor) hasConditioned(arg ArgID) bool {
	for _, a := range f.conditioned {
		if a == arg {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the factor: an independent table and
// mapping, safe to mutate without affecting the original.
func (f *Factor) Clone() *Factor {
	mapping := make(map[ArgID]int, len(f.mapping))
	for k, v := range f.mapping {
		mapping[k] = v
	}
	return &Factor{
		conditioned:  append([]ArgID(nil), f.conditioned...),
		conditioning: append([]ArgID(nil), f.conditioning...),
		size:         f.size,
		table:        f.table.Clone(),
		mapping:      mapping,
		uniform:      f.uniform,
	}
}
