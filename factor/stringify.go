package factor

import (
	"strconv"
	"strings"
)

// String renders the factor's table as its entries, in index order,
// space-separated, each formatted with strconv's shortest round-trippable
// representation (no trailing zero padding, no fixed precision).
func (f *Factor) String() string {
	raw := f.table.Raw()
	parts := make([]string, len(raw))
	for i, v := range raw {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// Equal reports whether f and other have the same conditioned and
// conditioning argument lists, in the same order, and tables whose
// entries compare equal with ==. Two factors with the same arguments in a different order are
// not equal even if their tables would match after a bit permutation.
func (f *Factor) Equal(other *Factor) bool {
	if other == nil {
		return false
	}
	if !sameOrder(f.conditioned, other.conditioned) {
		return false
	}
	if !sameOrder(f.conditioning, other.conditioning) {
		return false
	}
	return f.table.Equal(other.table)
}
