// Package distribution implements a factorized joint probability
// distribution over binary arguments: a collection of factors with
// disjoint conditioned-argument ownership, a singleton-belief cache, and a
// query planner that locates and multiplies the minimal factor set needed
// to answer a belief query.
package distribution

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateConditioned is returned by New when an argument is
	// conditioned by more than one supplied factor. May wrap a
	// *multierror.Error listing every offending factor index.
	ErrDuplicateConditioned = errors.New("distribution: argument conditioned by more than one factor")

	// ErrCacheInvalid is returned by FastRefine when the targeted argument's
	// belief cache entry is not currently valid.
	ErrCacheInvalid = errors.New("distribution: belief cache entry is not valid")

	// ErrShapeMismatch is returned by SetProbabilities when the supplied
	// table's length does not match the target factor's 2^size.
	ErrShapeMismatch = errors.New("distribution: table length does not match factor size")

	// ErrUnknownArgument is returned when an operation names an argument no
	// factor in the distribution owns.
	ErrUnknownArgument = errors.New("distribution: argument not owned by any factor")

	// ErrFactorIndex is returned when an operation names a factor index
	// outside [0, len(factors)).
	ErrFactorIndex = errors.New("distribution: factor index out of range")
)

func distErrorf(op string, err error) error {
	return fmt.Errorf("distribution.%s: %w", op, err)
}
