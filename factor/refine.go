package factor

import "github.com/katalvlaran/beliefnet/internal/parallel"

// Refine shifts probability mass between the positive and negative worlds
// of arg by fraction c, with parallelism enabled whenever the table is
// large enough to benefit (see RefineParallel for the explicit toggle used
// by package distribution).
//
// arg must be a conditioned argument; conditioning arguments cannot be
// refined directly (their factor doesn't own a marginal over them). c must
// be in [0,1]; c=0 is a no-op, c=1 makes arg certain in the direction of
// positive.
func (f *Factor) Refine(arg ArgID, positive bool, c float64) error {
	return f.RefineParallel(arg, positive, c, true)
}

// RefineParallel is Refine with an explicit parallelism toggle; package
// distribution uses this to honor Distribution.DisableParallelism.
func (f *Factor) RefineParallel(arg ArgID, positive bool, c float64, useParallel bool) error {
	if !f.hasConditioned(arg) {
		return factorErrorf("Refine", ErrArgumentNotConditioned)
	}
	k := f.mapping[arg]

	raw := f.table.Raw()
	parallel.SweepRefine(f.size, k, useParallel, func(i0, i1 int) {
		// i0 has bit k cleared, i1 has bit k set. The operand with bit k
		// equal to `positive` receives mass from the other; per spec this
		// is the only direction of flow for this pair.
		i, j := i0, i1
		if positive {
			i, j = i1, i0
		}
		tj := raw[j]
		raw[i] = raw[i] + c*tj
		raw[j] = tj * (1 - c)
	})

	f.uniform = false
	return nil
}
