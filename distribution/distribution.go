package distribution

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-set/v3"

	"github.com/katalvlaran/beliefnet/factor"
)

// Distribution is a factorized joint probability distribution: a
// collection of factors whose conditioned-argument ownership is disjoint,
// plus a singleton belief cache keyed by argument id.
//
// A Distribution owns every factor passed to it (or built for it by
// NewFromArguments): Refine and SetProbabilities mutate factors in place
// or replace them wholesale; Marginalize returns a fresh factor.Factor
// without touching the distribution's own state.
type Distribution struct {
	factors     []*factor.Factor
	argToFactor map[factor.ArgID]int
	cache       map[factor.ArgID]float64
	valid       map[factor.ArgID]bool
	logger      hclog.Logger
	parallel    bool
}

// Option configures a Distribution at construction time.
type Option func(*Distribution)

// WithLogger injects a structured logger; the default is a null logger
// that discards everything.
func WithLogger(l hclog.Logger) Option {
	return func(d *Distribution) { d.logger = l }
}

// WithParallelism sets the distribution's default parallelism policy,
// threaded down to every sweep in package factor. Default true.
func WithParallelism(p bool) Option {
	return func(d *Distribution) { d.parallel = p }
}

// New constructs a Distribution over factors, which it takes ownership of.
// Every argument conditioned by more than one factor is a construction
// error; all such violations are collected and reported together via
// ErrDuplicateConditioned rather than failing on the first one found.
func New(factors []*factor.Factor, opts ...Option) (*Distribution, error) {
	d := &Distribution{
		factors:     append([]*factor.Factor(nil), factors...),
		argToFactor: make(map[factor.ArgID]int, len(factors)),
		cache:       make(map[factor.ArgID]float64),
		valid:       make(map[factor.ArgID]bool),
		logger:      hclog.NewNullLogger(),
		parallel:    true,
	}
	for _, opt := range opts {
		opt(d)
	}

	claimed := set.New[factor.ArgID](0)
	var merr *multierror.Error
	for i, f := range d.factors {
		for _, arg := range f.Conditioned() {
			if claimed.Contains(arg) {
				merr = multierror.Append(merr, fmt.Errorf("argument %d: factor %d conflicts with %d", arg, i, d.argToFactor[arg]))
				continue
			}
			claimed.Insert(arg)
			d.argToFactor[arg] = i
		}
	}
	if merr != nil {
		return nil, distErrorf("New", fmt.Errorf("%w: %w", ErrDuplicateConditioned, merr))
	}

	for _, f := range d.factors {
		if !f.Uniform() {
			continue
		}
		for _, arg := range f.Conditioned() {
			d.cache[arg] = 0.5
			d.valid[arg] = true
		}
	}

	d.logger.Trace("distribution constructed", "factors", len(d.factors))
	return d, nil
}

// NewFromArguments builds one uniform singleton factor per argument in
// args (conditioned={arg}, conditioning=nil) and constructs a Distribution
// over them.
func NewFromArguments(args []factor.ArgID, opts ...Option) (*Distribution, error) {
	factors := make([]*factor.Factor, 0, len(args))
	for _, arg := range args {
		f, err := factor.New([]factor.ArgID{arg}, nil, nil)
		if err != nil {
			return nil, distErrorf("NewFromArguments", err)
		}
		factors = append(factors, f)
	}
	return New(factors, opts...)
}

// DisableParallelism turns off parallel sweeps for every subsequent
// operation on this distribution (and the factors it owns).
func (d *Distribution) DisableParallelism() {
	d.parallel = false
	d.logger.Debug("parallelism disabled")
}

// EnableParallelism turns parallel sweeps back on.
func (d *Distribution) EnableParallelism() {
	d.parallel = true
	d.logger.Debug("parallelism enabled")
}

// Clone returns a deep copy: independent factors, cache, and validity
// state, safe to mutate without affecting the original.
func (d *Distribution) Clone() *Distribution {
	out := &Distribution{
		factors:     make([]*factor.Factor, len(d.factors)),
		argToFactor: make(map[factor.ArgID]int, len(d.argToFactor)),
		cache:       make(map[factor.ArgID]float64, len(d.cache)),
		valid:       make(map[factor.ArgID]bool, len(d.valid)),
		logger:      d.logger,
		parallel:    d.parallel,
	}
	for i, f := range d.factors {
		out.factors[i] = f.Clone()
	}
	for k, v := range d.argToFactor {
		out.argToFactor[k] = v
	}
	for k, v := range d.cache {
		out.cache[k] = v
	}
	for k, v := range d.valid {
		out.valid[k] = v
	}
	return out
}

// String renders each owned factor's String(), joined by single spaces, in
// factor-index order.
func (d *Distribution) String() string {
	parts := make([]string, len(d.factors))
	for i, f := range d.factors {
		parts[i] = f.String()
	}
	return joinSpace(parts)
}

func joinSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

// sortedFactorIndices returns the indices in factors, ordered by each
// factor's smallest conditioned argument id — the deterministic ordering
// the query planner and Clone-adjacent logging rely on.
func sortedFactorIndices(factors []*factor.Factor) []int {
	idx := make([]int, len(factors))
	for i := range factors {
		idx[i] = i
	}
	minArg := func(i int) factor.ArgID {
		c := factors[i].Conditioned()
		if len(c) == 0 {
			return 0
		}
		m := c[0]
		for _, a := range c[1:] {
			if a < m {
				m = a
			}
		}
		return m
	}
	sort.Slice(idx, func(a, b int) bool {
		return minArg(idx[a]) < minArg(idx[b])
	})
	return idx
}
