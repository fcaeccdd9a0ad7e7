package factor

import (
	"github.com/katalvlaran/beliefnet/internal/densevec"
	"github.com/katalvlaran/beliefnet/internal/parallel"
)

// Marginalize returns a new factor whose conditioned set is keep∩conditioned
// and whose conditioning set is unchanged, summing mass over the dimensions
// keep drops. Arguments in keep that are not present in the receiver are
// silently ignored. Total mass is conserved: sum(result) == sum(self).
func (f *Factor) Marginalize(keep []ArgID) (*Factor, error) {
	return f.MarginalizeParallel(keep, true)
}

// MarginalizeParallel is Marginalize with an explicit parallelism toggle.
func (f *Factor) MarginalizeParallel(keep []ArgID, useParallel bool) (*Factor, error) {
	if sameOrder(keep, f.conditioned) {
		return f.Clone(), nil
	}

	newConditioned := intersectInOrder(keep, f.conditioned)
	newConditioning := append([]ArgID(nil), f.conditioning...)
	newMapping := buildMapping(newConditioned, newConditioning)
	m := len(newConditioned) + len(newConditioning)

	projection := buildProjection(newMapping, f.mapping)
	raw := f.table.Raw()

	result := parallel.SweepMarginalize(f.size, 1<<uint(m), useParallel, func(i int, acc []float64) {
		p := project(i, projection)
		acc[p] += raw[i]
	})

	vec, err := densevec.NewFrom(result)
	if err != nil {
		return nil, factorErrorf("Marginalize", err)
	}

	return &Factor{
		conditioned:  newConditioned,
		conditioning: newConditioning,
		size:         m,
		table:        vec,
		mapping:      newMapping,
		uniform:      false,
	}, nil
}

// MarginalizeSelf overwrites the receiver in place with the result of
// Marginalize(keep); unlike Marginalize, this mutates self and never
// allocates a second live Factor.
func (f *Factor) MarginalizeSelf(keep []ArgID) error {
	return f.MarginalizeSelfParallel(keep, true)
}

// MarginalizeSelfParallel is MarginalizeSelf with an explicit parallelism toggle.
func (f *Factor) MarginalizeSelfParallel(keep []ArgID, useParallel bool) error {
	out, err := f.MarginalizeParallel(keep, useParallel)
	if err != nil {
		return err
	}
	*f = *out
	return nil
}

type bitPair struct {
	src, dst int
}

// buildProjection pairs each argument's new bit position with its old bit
// position, for arguments present in both mappings (always all of them,
// since newMapping is built strictly from arguments oldMapping already owns).
func buildProjection(newMapping, oldMapping map[ArgID]int) []bitPair {
	pairs := make([]bitPair, 0, len(newMapping))
	for arg, dst := range newMapping {
		src, ok := oldMapping[arg]
		if !ok {
			continue
		}
		pairs = append(pairs, bitPair{src: src, dst: dst})
	}
	return pairs
}

// project copies, for each (src,dst) pair, bit src of i into bit dst of the
// result.
func project(i int, pairs []bitPair) int {
	p := 0
	for _, pr := range pairs {
		if i&(1<<uint(pr.src)) != 0 {
			p |= 1 << uint(pr.dst)
		}
	}
	return p
}

func sameOrder(a, b []ArgID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// intersectInOrder returns the elements of keep that are also present in
// conditioned, preserving keep's order.
func intersectInOrder(keep, conditioned []ArgID) []ArgID {
	present := make(map[ArgID]bool, len(conditioned))
	for _, a := range conditioned {
		present[a] = true
	}
	out := make([]ArgID, 0, len(keep))
	for _, a := range keep {
		if present[a] {
			out = append(out, a)
		}
	}
	return out
}
