package factor

import (
	"github.com/katalvlaran/beliefnet/internal/densevec"
	"github.com/katalvlaran/beliefnet/internal/parallel"
)

// Combine forms the product of self and other, reconciling shared
// arguments by bit position (an argument present in both operands drives
// both lookups from the same bit of the result index, which is what
// enforces consistency of shared variables). The result's conditioned set
// is self.conditioned∥other.conditioned; its conditioning set is the union
// of both operands' conditioning sets with any argument removed that the
// other operand conditions on (chain rule: P(A|B)·P(B|C) -> P(A,B|C\{B})).
//
// Returns ErrCapacityExceeded if the result would exceed MaxSize bits.
func (f *Factor) Combine(other *Factor) (*Factor, error) {
	return f.CombineParallel(other, true)
}

// CombineParallel is Combine with an explicit parallelism toggle.
func (f *Factor) CombineParallel(other *Factor, useParallel bool) (*Factor, error) {
	newConditioned := append(append([]ArgID(nil), f.conditioned...), other.conditioned...)
	newConditioning := mergeConditioning(f, other)

	if err := checkDuplicates(newConditioned, newConditioning); err != nil {
		return nil, factorErrorf("Combine", err)
	}

	resultSize := len(newConditioned) + len(newConditioning)
	if resultSize > MaxSize {
		return nil, factorErrorf("Combine", ErrCapacityExceeded)
	}

	newMapping := buildMapping(newConditioned, newConditioning)
	selfBits, otherBits := buildSplitIndex(newMapping, f.mapping, other.mapping)

	selfRaw := f.table.Raw()
	otherRaw := other.table.Raw()

	vec, err := densevec.New(1 << uint(resultSize))
	if err != nil {
		return nil, factorErrorf("Combine", err)
	}
	resultRaw := vec.Raw()

	parallel.SweepCombine(resultSize, useParallel, func(i int) {
		iSelf := projectOperand(i, selfBits)
		iOther := projectOperand(i, otherBits)
		resultRaw[i] = selfRaw[iSelf] * otherRaw[iOther]
	})

	return &Factor{
		conditioned:  newConditioned,
		conditioning: newConditioning,
		size:         resultSize,
		table:        vec,
		mapping:      newMapping,
		uniform:      false,
	}, nil
}

// mergeConditioning computes the union of f's and other's conditioning
// lists, dropping any argument conditioned (i.e. present in the conditioned
// set) by the *other* operand, in deterministic order: f's surviving
// conditioning args first (original order), then other's surviving
// conditioning args not already included (original order).
func mergeConditioning(f, other *Factor) []ArgID {
	otherConditioned := toSet(other.conditioned)
	selfConditioned := toSet(f.conditioned)

	out := make([]ArgID, 0, len(f.conditioning)+len(other.conditioning))
	included := make(map[ArgID]bool, len(out))
	for _, a := range f.conditioning {
		if otherConditioned[a] {
			continue
		}
		if !included[a] {
			out = append(out, a)
			included[a] = true
		}
	}
	for _, a := range other.conditioning {
		if selfConditioned[a] {
			continue
		}
		if !included[a] {
			out = append(out, a)
			included[a] = true
		}
	}
	return out
}

func toSet(args []ArgID) map[ArgID]bool {
	m := make(map[ArgID]bool, len(args))
	for _, a := range args {
		m[a] = true
	}
	return m
}

// splitBit records a (resultBit, operandBit+1) pair; operandBit+1 of 0
// means the argument is absent from that operand — the "+1 encodes
// absent" trick avoids widening to a signed/optional type for something
// checked on every one of 2^resultSize iterations.
type splitBit struct {
	resultBit int
	operand   int // operand bit position + 1, or 0 if absent
}

// buildSplitIndex builds, for every argument of the result mapping, its
// result bit position paired with its self/other bit position (both
// +1-encoded).
func buildSplitIndex(resultMapping, selfMapping, otherMapping map[ArgID]int) (selfBits, otherBits []splitBit) {
	selfBits = make([]splitBit, 0, len(resultMapping))
	otherBits = make([]splitBit, 0, len(resultMapping))
	for arg, resultBit := range resultMapping {
		if b, ok := selfMapping[arg]; ok {
			selfBits = append(selfBits, splitBit{resultBit: resultBit, operand: b + 1})
		}
		if b, ok := otherMapping[arg]; ok {
			otherBits = append(otherBits, splitBit{resultBit: resultBit, operand: b + 1})
		}
	}
	return selfBits, otherBits
}

// projectOperand decodes the operand-local index driven by result index i:
// for each recorded (resultBit, operandBit+1) pair, copy bit resultBit of i
// into bit (operandBit+1-1) of the projected index.
func projectOperand(i int, bits []splitBit) int {
	p := 0
	for _, sb := range bits {
		if sb.operand == 0 {
			continue
		}
		if i&(1<<uint(sb.resultBit)) != 0 {
			p |= 1 << uint(sb.operand-1)
		}
	}
	return p
}
