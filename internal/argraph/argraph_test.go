package argraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/beliefnet/internal/argraph"
)

func TestReachableFromChain(t *testing.T) {
	g := argraph.New()
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)

	reached := g.ReachableFrom([]int{0})
	for _, v := range []int{0, 1, 2, 3} {
		require.True(t, reached[v])
	}
	require.False(t, reached[4])
}

func TestReachableFromMultipleStarts(t *testing.T) {
	g := argraph.New()
	g.AddEdge(0, 1)
	g.AddEdge(10, 11)

	reached := g.ReachableFrom([]int{0, 10})
	require.True(t, reached[1])
	require.True(t, reached[11])
	require.False(t, reached[2])
}

func TestAddEdgeIdempotent(t *testing.T) {
	g := argraph.New()
	g.AddEdge(0, 1)
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)

	require.Equal(t, []int{1, 2}, g.Neighbors(0))
}

func TestReachableFromNoOutEdges(t *testing.T) {
	g := argraph.New()
	reached := g.ReachableFrom([]int{5})
	require.True(t, reached[5])
	require.Len(t, reached, 1)
}
