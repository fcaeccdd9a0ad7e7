// Package factor implements the dense conditional probability table and the
// three primitive operations — refine, marginalize, combine — that act on
// it. See the Factor type in factor.go for the data model.
package factor

import (
	"errors"
	"fmt"
)

// MaxSize is the largest factor size (|conditioned|+|conditioning|) this
// package will construct. It is bits.UintSize-2: two bits are reserved so
// that every bitmask index and every "absent" sentinel used internally
// (splitindex's +1 encoding, see combine.go) fits in a plain int without
// overflow games.
const MaxSize = 62

var (
	// ErrCapacityExceeded is returned when a factor's size (initial or
	// resulting from Combine) would exceed MaxSize bits.
	ErrCapacityExceeded = errors.New("factor: capacity exceeded")

	// ErrArgumentNotConditioned is returned when Refine targets an argument
	// that appears only in the conditioning set.
	ErrArgumentNotConditioned = errors.New("factor: argument is not conditioned")

	// ErrShapeMismatch is returned when a supplied table's length is not
	// 2^size.
	ErrShapeMismatch = errors.New("factor: table length does not match 2^size")

	// ErrDuplicateArgument is returned when an argument identifier appears
	// more than once across a factor's conditioned and conditioning lists.
	ErrDuplicateArgument = errors.New("factor: duplicate argument identifier")
)

func factorErrorf(op string, err error) error {
	return fmt.Errorf("factor.%s: %w", op, err)
}
