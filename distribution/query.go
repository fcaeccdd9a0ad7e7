package distribution

import (
	"github.com/google/uuid"
	"github.com/hashicorp/go-set/v3"

	"github.com/katalvlaran/beliefnet/factor"
	"github.com/katalvlaran/beliefnet/internal/argraph"
)

// Refine mutates the factor owning arg via factor.Refine and invalidates
// the belief cache for arg only — the owning factor's other conditioned
// arguments are unaffected because factors are disjoint in their
// conditioned sets, so their own cached beliefs are untouched by this
// table shift.
func (d *Distribution) Refine(arg factor.ArgID, positive bool, c float64) error {
	idx, ok := d.argToFactor[arg]
	if !ok {
		return distErrorf("Refine", ErrUnknownArgument)
	}
	f := d.factors[idx]
	if err := f.RefineParallel(arg, positive, c, d.parallel); err != nil {
		return distErrorf("Refine", err)
	}
	delete(d.cache, arg)
	d.valid[arg] = false
	d.logger.Trace("refined", "arg", arg, "positive", positive, "c", c)
	return nil
}

// FastRefine applies the same convex mass shift as Refine directly to
// arg's cached belief, bypassing a full query-planner recombination. It
// requires the cache entry to currently be valid (ErrCacheInvalid
// otherwise) and keeps arg's owning factor in sync with the same update,
// so a later FastRefine or full Refine on the same argument still sees
// consistent state. Like Refine it leaves the cache entries of the owning
// factor's other conditioned arguments as they are: the pairwise mass
// shift does not change their marginals.
func (d *Distribution) FastRefine(arg factor.ArgID, positive bool, c float64) error {
	if !d.valid[arg] {
		return distErrorf("FastRefine", ErrCacheInvalid)
	}
	idx, ok := d.argToFactor[arg]
	if !ok {
		return distErrorf("FastRefine", ErrUnknownArgument)
	}
	f := d.factors[idx]
	if err := f.RefineParallel(arg, positive, c, d.parallel); err != nil {
		return distErrorf("FastRefine", err)
	}
	b := d.cache[arg]
	if positive {
		b = b + c*(1-b)
	} else {
		b = b * (1 - c)
	}
	d.cache[arg] = b
	d.logger.Trace("fast-refined", "arg", arg, "positive", positive, "c", c)
	return nil
}

// SetProbabilities replaces the table of the factor at factorIdx wholesale
// and invalidates the cache for every argument it conditions.
func (d *Distribution) SetProbabilities(factorIdx int, table []float64) error {
	if factorIdx < 0 || factorIdx >= len(d.factors) {
		return distErrorf("SetProbabilities", ErrFactorIndex)
	}
	old := d.factors[factorIdx]
	nf, err := factor.New(old.Conditioned(), old.Conditioning(), table)
	if err != nil {
		return distErrorf("SetProbabilities", ErrShapeMismatch)
	}
	d.factors[factorIdx] = nf
	for _, a := range nf.Conditioned() {
		delete(d.cache, a)
		d.valid[a] = false
	}
	d.logger.Debug("probabilities set", "factor", factorIdx)
	return nil
}

// Marginalize is a thin pass-through to the named factor's own
// Marginalize, honoring the distribution's parallelism policy. It does
// not mutate the distribution.
func (d *Distribution) Marginalize(factorIdx int, keep []factor.ArgID) (*factor.Factor, error) {
	if factorIdx < 0 || factorIdx >= len(d.factors) {
		return nil, distErrorf("Marginalize", ErrFactorIndex)
	}
	out, err := d.factors[factorIdx].MarginalizeParallel(keep, d.parallel)
	if err != nil {
		return nil, distErrorf("Marginalize", err)
	}
	return out, nil
}

// Beliefs answers P(arg=true) for every argument in args. Cache hits are
// returned directly; cache misses are resolved by building the transitive
// conditioning closure of the miss set, folding the owning factors via
// repeated Combine (shedding conditioned arguments outside the closure
// with an intermediate Marginalize whenever the next Combine could
// overflow factor.MaxSize), and reading each miss's marginal off the one joint
// factor the fold produces — built once per call and reused across every
// miss, not once per argument.
func (d *Distribution) Beliefs(args []factor.ArgID) (map[factor.ArgID]float64, error) {
	queryID := uuid.NewString()
	log := d.logger.With("query", queryID)

	result := make(map[factor.ArgID]float64, len(args))
	var misses []factor.ArgID
	for _, arg := range args {
		if _, ok := d.argToFactor[arg]; !ok {
			return nil, distErrorf("Beliefs", ErrUnknownArgument)
		}
		if d.valid[arg] {
			result[arg] = d.cache[arg]
			continue
		}
		misses = append(misses, arg)
	}
	if len(misses) == 0 {
		return result, nil
	}
	log.Trace("resolving belief misses", "count", len(misses))

	closure := d.conditioningClosure(misses)
	factorIdxs := d.closureFactors(closure)

	joint, err := d.foldFactors(factorIdxs, closure, log)
	if err != nil {
		return nil, distErrorf("Beliefs", err)
	}

	for _, arg := range misses {
		marginal, err := joint.MarginalizeParallel([]factor.ArgID{arg}, d.parallel)
		if err != nil {
			return nil, distErrorf("Beliefs", err)
		}
		b := singletonBelief(marginal, arg)
		d.cache[arg] = b
		d.valid[arg] = true
		result[arg] = b
	}
	log.Trace("belief query resolved", "misses", len(misses))
	return result, nil
}

// conditioningClosure runs a breadth-first fixed point over the "argument
// -> its owning factor's conditioning list" graph, starting from starts,
// returning every argument reached (starts included).
func (d *Distribution) conditioningClosure(starts []factor.ArgID) *set.Set[factor.ArgID] {
	g := argraph.New()
	for _, idx := range sortedFactorIndices(d.factors) {
		f := d.factors[idx]
		for _, c := range f.Conditioned() {
			for _, b := range f.Conditioning() {
				g.AddEdge(int(c), int(b))
			}
		}
	}

	intStarts := make([]int, len(starts))
	for i, s := range starts {
		intStarts[i] = int(s)
	}
	reached := g.ReachableFrom(intStarts)

	out := set.New[factor.ArgID](len(reached))
	for v := range reached {
		out.Insert(factor.ArgID(v))
	}
	return out
}

// closureFactors returns the indices, in deterministic (smallest
// conditioned argument id) order, of every factor that conditions at
// least one argument in closure.
func (d *Distribution) closureFactors(closure *set.Set[factor.ArgID]) []int {
	needed := set.New[int](0)
	for _, arg := range closure.Slice() {
		if idx, ok := d.argToFactor[arg]; ok {
			needed.Insert(idx)
		}
	}
	all := sortedFactorIndices(d.factors)
	out := make([]int, 0, needed.Size())
	for _, idx := range all {
		if needed.Contains(idx) {
			out = append(out, idx)
		}
	}
	return out
}

// foldFactors combines the named factors into a single joint factor, in
// order. Whenever the accumulator's size plus the next factor's size
// exceeds factor.MaxSize, both are first marginalized down to their
// conditioned arguments that are in closure; conditioning arguments are
// kept, since Marginalize never drops them.
func (d *Distribution) foldFactors(factorIdxs []int, closure *set.Set[factor.ArgID], log hclogger) (*factor.Factor, error) {
	var acc *factor.Factor
	for _, idx := range factorIdxs {
		f := d.factors[idx]
		if acc == nil {
			acc = f.Clone()
			continue
		}
		if acc.Size()+f.Size() > factor.MaxSize {
			shedAcc, err := acc.MarginalizeParallel(ownedArgsIn(acc, closure), d.parallel)
			if err != nil {
				return nil, err
			}
			shedF, err := f.MarginalizeParallel(ownedArgsIn(f, closure), d.parallel)
			if err != nil {
				return nil, err
			}
			log.Trace("shedding bits before combine", "accFrom", acc.Size(), "accTo", shedAcc.Size(), "fFrom", f.Size(), "fTo", shedF.Size())
			acc, f = shedAcc, shedF
		}
		combined, err := acc.CombineParallel(f, d.parallel)
		if err != nil {
			return nil, err
		}
		acc = combined
	}
	return acc, nil
}

// ownedArgsIn returns f's conditioned arguments that are also members of
// closure, preserving f's own order — the "keep" list for the
// size-guard's intermediate Marginalize.
func ownedArgsIn(f *factor.Factor, closure *set.Set[factor.ArgID]) []factor.ArgID {
	conditioned := f.Conditioned()
	out := make([]factor.ArgID, 0, len(conditioned))
	for _, a := range conditioned {
		if closure.Contains(a) {
			out = append(out, a)
		}
	}
	return out
}

// singletonBelief reads P(arg=true) off a factor Marginalize has reduced
// to a single conditioned argument: the table entry where that argument's
// bit is set, summed over any conditioning bits left unresolved (the
// ordinary case, a well-formed closure, leaves none).
func singletonBelief(f *factor.Factor, arg factor.ArgID) float64 {
	table := f.Table()
	mapping := f.Conditioned()
	bit := 0
	for i, a := range mapping {
		if a == arg {
			bit = i
			break
		}
	}
	var sum float64
	for i, v := range table {
		if i&(1<<uint(bit)) != 0 {
			sum += v
		}
	}
	return sum
}

// hclogger is the subset of hclog.Logger this package's query planner
// actually calls, so foldFactors can accept either a real logger or the
// result of Logger.With without importing hclog here.
type hclogger interface {
	Trace(msg string, args ...interface{})
}
