// Package beliefnet is a small belief-propagation core: a factorized joint
// probability distribution over binary-valued arguments, built from three
// primitives — refine, marginalize, combine — plus a query planner that
// answers belief queries over arbitrary subsets of arguments.
//
// Under the hood, everything lives in a handful of subpackages:
//
//	factor/       — the dense conditional probability table and its three
//	                tensor-like operations, expressed as parallelizable
//	                sweeps over bitmask-indexed worlds.
//	distribution/ — a set of factors with disjoint conditioned arguments, a
//	                singleton-belief cache, and the query planner that
//	                locates and combines the minimal factor set for a query.
//	internal/densevec, internal/argraph, internal/parallel — plumbing shared
//	                by the two packages above.
//
// beliefnet is a library, not an executable: it has no CLI, no persistence,
// and no opinion about where arguments or their conditioning structure come
// from — callers (attack-graph builders, benchmark harnesses, and the like)
// own that decision.
//
//	go get github.com/katalvlaran/beliefnet
package beliefnet
