// Package parallel splits the index-space sweeps behind factor.Refine,
// factor.Marginalize, and factor.Combine across a fixed worker pool.
//
// It is adapted from gitrdm-gokando's pkg/minikanren parallel executor
// (config struct defaulting MaxWorkers to runtime.NumCPU, a worker pool
// joined with a sync.WaitGroup before the call returns) — trimmed down to
// exactly what a data-parallel, disjoint-write sweep needs: no
// backpressure, no rate limiting, no dynamic scaling, since every sweep
// here runs to completion in one bounded pass.
//
// The three entry points below exist because the three operations have
// different safe partitioning strategies (see the doc comment on each):
// naive contiguous partitioning of [0, 2^size) is safe for Combine, but
// unsafe for Refine (it can split a bit-k pair across workers) and unsafe
// for Marginalize (distinct operand indices can project to the same result
// cell). Using one generic "parallel for i in range" helper for all three
// would silently reintroduce those races, so each gets its own shape.
package parallel

import (
	"runtime"
)

// Threshold is the minimum table size (number of entries) below which a
// sweep always runs single-threaded: the worker-pool dispatch overhead
// dominates for small factors.
const Threshold = 1 << 15

// Workers returns the number of chunks to split a sweep into: the host's
// GOMAXPROCS (at least 1). chunks caps it at the length of the range.
func Workers() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}

// chunks splits [0, n) into at most Workers() contiguous, equal-ish ranges
// and returns their [start, end) bounds. Used directly by Combine (whose
// result range is itself a safe partition) and indirectly, over the
// "outer index" space, by Refine.
func chunks(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	base := n / workers
	rem := n % workers
	out := make([][2]int, 0, workers)
	start := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < rem {
			size++
		}
		end := start + size
		if size > 0 {
			out = append(out, [2]int{start, end})
		}
		start = end
	}
	return out
}
