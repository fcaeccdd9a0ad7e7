package distribution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/beliefnet/distribution"
	"github.com/katalvlaran/beliefnet/factor"
)

func TestNewFromArguments(t *testing.T) {
	d, err := distribution.NewFromArguments([]factor.ArgID{0, 1, 2})
	require.NoError(t, err)

	beliefs, err := d.Beliefs([]factor.ArgID{0, 1, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, beliefs[0], 1e-12)
	assert.InDelta(t, 0.5, beliefs[1], 1e-12)
	assert.InDelta(t, 0.5, beliefs[2], 1e-12)
}

func TestNewDuplicateConditioned(t *testing.T) {
	f1, err := factor.New([]factor.ArgID{0}, nil, nil)
	require.NoError(t, err)
	f2, err := factor.New([]factor.ArgID{0}, nil, nil)
	require.NoError(t, err)

	_, err = distribution.New([]*factor.Factor{f1, f2})
	require.ErrorIs(t, err, distribution.ErrDuplicateConditioned)
}

// TestBeliefsScenario5 reproduces the chained-conditioning belief-query
// scenario: F1 conditioned [0,1] conditioning [2], F2 conditioned [2,3]
// conditioning [4], F3 a uniform singleton over [4].
func TestBeliefsScenario5(t *testing.T) {
	table := []float64{0.2, 0, 0, 0.8, 0.7, 0, 0.15, 0.15}

	f1, err := factor.New([]factor.ArgID{0, 1}, []factor.ArgID{2}, append([]float64(nil), table...))
	require.NoError(t, err)
	f2, err := factor.New([]factor.ArgID{2, 3}, []factor.ArgID{4}, append([]float64(nil), table...))
	require.NoError(t, err)
	f3, err := factor.New([]factor.ArgID{4}, nil, nil)
	require.NoError(t, err)

	d, err := distribution.New([]*factor.Factor{f1, f2, f3})
	require.NoError(t, err)

	b0, err := d.Beliefs([]factor.ArgID{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.49125, b0[0], 1e-9)

	b3, err := d.Beliefs([]factor.ArgID{3})
	require.NoError(t, err)
	assert.InDelta(t, 0.55, b3[3], 1e-9)

	b2, err := d.Beliefs([]factor.ArgID{2})
	require.NoError(t, err)
	assert.InDelta(t, 0.475, b2[2], 1e-9)

	b4, err := d.Beliefs([]factor.ArgID{4})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, b4[4], 1e-12)
}

// TestFastRefineScenario6 exercises the fast-refine closed form against a
// single 3-argument uniform factor. Expected values are derived from the
// formula in the component design (b <- b + c(1-b) / b <- b(1-c)), not
// from the scenario's literal middle value, which does not reproduce
// under that formula (see DESIGN.md).
func TestFastRefineScenario6(t *testing.T) {
	f, err := factor.New([]factor.ArgID{0, 1, 2}, nil, nil)
	require.NoError(t, err)

	d, err := distribution.New([]*factor.Factor{f})
	require.NoError(t, err)

	initial, err := d.Beliefs([]factor.ArgID{0, 1, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, initial[0], 1e-12)
	assert.InDelta(t, 0.5, initial[1], 1e-12)
	assert.InDelta(t, 0.5, initial[2], 1e-12)

	require.NoError(t, d.FastRefine(2, true, 0.75))
	require.NoError(t, d.FastRefine(1, false, 0.75))
	require.NoError(t, d.FastRefine(0, true, 0.75))

	final, err := d.Beliefs([]factor.ArgID{0, 1, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.875, final[0], 1e-9)
	assert.InDelta(t, 0.125, final[1], 1e-9)
	assert.InDelta(t, 0.875, final[2], 1e-9)
}

func TestFastRefineAgreesWithRefine(t *testing.T) {
	da, err := distribution.NewFromArguments([]factor.ArgID{0})
	require.NoError(t, err)
	db, err := distribution.NewFromArguments([]factor.ArgID{0})
	require.NoError(t, err)

	require.NoError(t, da.FastRefine(0, true, 0.4))
	require.NoError(t, db.Refine(0, true, 0.4))

	ba, err := da.Beliefs([]factor.ArgID{0})
	require.NoError(t, err)
	bb, err := db.Beliefs([]factor.ArgID{0})
	require.NoError(t, err)

	assert.InDelta(t, bb[0], ba[0], 1e-12)
}

func TestFastRefineCacheInvalid(t *testing.T) {
	f1, err := factor.New([]factor.ArgID{0, 1}, nil, []float64{0.1, 0.2, 0.3, 0.4})
	require.NoError(t, err)
	d, err := distribution.New([]*factor.Factor{f1})
	require.NoError(t, err)

	err = d.FastRefine(0, true, 0.5)
	require.ErrorIs(t, err, distribution.ErrCacheInvalid)
}

func TestSetProbabilitiesInvalidatesCache(t *testing.T) {
	d, err := distribution.NewFromArguments([]factor.ArgID{0, 1})
	require.NoError(t, err)

	require.NoError(t, d.SetProbabilities(0, []float64{0.2, 0.8}))

	beliefs, err := d.Beliefs([]factor.ArgID{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, beliefs[0], 1e-12)
}

func TestSetProbabilitiesShapeMismatch(t *testing.T) {
	d, err := distribution.NewFromArguments([]factor.ArgID{0})
	require.NoError(t, err)

	err = d.SetProbabilities(0, []float64{0.2, 0.3, 0.5})
	require.ErrorIs(t, err, distribution.ErrShapeMismatch)
}

func TestDistributionMarginalizePassthrough(t *testing.T) {
	f, err := factor.New([]factor.ArgID{0, 1}, nil, []float64{0.1, 0.2, 0.1, 0.6})
	require.NoError(t, err)
	d, err := distribution.New([]*factor.Factor{f})
	require.NoError(t, err)

	out, err := d.Marginalize(0, []factor.ArgID{1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.3, 0.7}, out.Table(), 1e-9)
}

func TestClone(t *testing.T) {
	d, err := distribution.NewFromArguments([]factor.ArgID{0, 1})
	require.NoError(t, err)

	clone := d.Clone()
	require.NoError(t, clone.Refine(0, true, 1.0))

	original, err := d.Beliefs([]factor.ArgID{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, original[0], 1e-12)

	cloned, err := clone.Beliefs([]factor.ArgID{0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cloned[0], 1e-9)
}

func TestEnableDisableParallelism(t *testing.T) {
	d, err := distribution.NewFromArguments([]factor.ArgID{0, 1, 2})
	require.NoError(t, err)

	d.DisableParallelism()
	require.NoError(t, d.Refine(0, true, 0.5))

	d.EnableParallelism()
	require.NoError(t, d.Refine(1, true, 0.5))

	beliefs, err := d.Beliefs([]factor.ArgID{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, beliefs[0], 1e-9)
	assert.InDelta(t, 0.75, beliefs[1], 1e-9)
}

func TestString(t *testing.T) {
	f, err := factor.New([]factor.ArgID{0}, nil, []float64{0.4, 0.6})
	require.NoError(t, err)
	d, err := distribution.New([]*factor.Factor{f})
	require.NoError(t, err)

	assert.Equal(t, "0.4 0.6", d.String())
}
