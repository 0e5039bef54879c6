// Package permutation evaluates a generated Poseidon instance inside a gnark
// circuit whose native field is the Poseidon field.
package permutation

import (
	"math/big"
	"math/bits"

	"github.com/consensys/gnark/frontend"
	"github.com/pkg/errors"

	"github.com/vocdoni/poseidongen/field"
	"github.com/vocdoni/poseidongen/internal/params"
)

// circuitPermutation mirrors the native permutation but emits gnark constraints.
type circuitPermutation struct {
	params *params.Parameters

	arc  []*big.Int
	mds  []*big.Int
	mi   []*big.Int
	v    []*big.Int
	wHat []*big.Int
	m00  *big.Int
}

func newCircuitPermutation(api frontend.API, p *params.Parameters) (*circuitPermutation, error) {
	if err := params.Validate(p); err != nil {
		return nil, err
	}
	if p.FieldKind != field.Prime {
		return nil, errors.New("permutation: circuits need a prime field")
	}
	if native := api.Compiler().Field(); native.Cmp(p.Modulus) != 0 {
		return nil, errors.Errorf("permutation: parameters are over %#x, circuit field is %#x", p.Modulus, native)
	}
	return &circuitPermutation{
		params: p,
		arc:    toBig(p.OptimizedArc),
		mds:    toBig(p.MDS),
		mi:     toBig(p.OptimizedMDS.MI),
		v:      toBig(p.OptimizedMDS.VCollection),
		wHat:   toBig(p.OptimizedMDS.WHatCollection),
		m00:    p.OptimizedMDS.M00.BigInt(),
	}, nil
}

func toBig(es []field.Element) []*big.Int {
	out := make([]*big.Int, len(es))
	for i, e := range es {
		out[i] = e.BigInt()
	}
	return out
}

// Permute applies the optimized permutation to state and returns the new
// state. The circuit field must equal the parameter modulus.
func Permute(api frontend.API, p *params.Parameters, state []frontend.Variable) ([]frontend.Variable, error) {
	gadget, err := newCircuitPermutation(api, p)
	if err != nil {
		return nil, err
	}
	if len(state) != p.StateSize {
		return nil, errors.Errorf("permutation: state has %d cells, want %d", len(state), p.StateSize)
	}
	out := make([]frontend.Variable, len(state))
	copy(out, state)
	return gadget.permute(api, out), nil
}

func (p *circuitPermutation) permute(api frontend.API, state []frontend.Variable) []frontend.Variable {
	t := p.params.StateSize
	rF := p.params.FullRounds / 2

	for r := 0; r < rF; r++ {
		circuitAddArcRow(api, state, p.arc, r, t)
		p.fullSBox(api, state)
		state = circuitMix(api, state, p.mds, t)
	}
	round := rF

	circuitAddArcRow(api, state, p.arc, round, t)
	state = circuitMix(api, state, p.mi, t)

	for r := 0; r < p.params.PartialRounds-1; r++ {
		state[0] = p.sbox(api, state[0])
		round++
		state[0] = api.Add(state[0], p.arc[round*t])
		state = p.sparse(api, state, p.params.PartialRounds-r-1)
	}

	state[0] = p.sbox(api, state[0])
	state = p.sparse(api, state, 0)
	round++

	for r := 0; r < rF; r++ {
		circuitAddArcRow(api, state, p.arc, round, t)
		p.fullSBox(api, state)
		state = circuitMix(api, state, p.mds, t)
		round++
	}

	return state
}

func circuitAddArcRow(api frontend.API, state []frontend.Variable, arc []*big.Int, row, width int) {
	offset := row * width
	for i := 0; i < width; i++ {
		state[i] = api.Add(state[i], arc[offset+i])
	}
}

func circuitMix(api frontend.API, state []frontend.Variable, matrix []*big.Int, width int) []frontend.Variable {
	out := make([]frontend.Variable, width)
	for i := 0; i < width; i++ {
		offset := i * width
		sum := api.Mul(state[0], matrix[offset])
		for j := 1; j < width; j++ {
			sum = api.Add(sum, api.Mul(state[j], matrix[offset+j]))
		}
		out[i] = sum
	}
	return out
}

func (p *circuitPermutation) sparse(api frontend.API, state []frontend.Variable, round int) []frontend.Variable {
	t := p.params.StateSize
	subSize := t - 1
	v := p.v[round*subSize : (round+1)*subSize]
	wHat := p.wHat[round*subSize : (round+1)*subSize]

	out := make([]frontend.Variable, t)
	newZero := api.Mul(state[0], p.m00)
	for i := 0; i < subSize; i++ {
		out[i+1] = api.Add(api.Mul(state[0], v[i]), state[i+1])
		newZero = api.Add(newZero, api.Mul(state[i+1], wHat[i]))
	}
	out[0] = newZero
	return out
}

func (p *circuitPermutation) fullSBox(api frontend.API, state []frontend.Variable) {
	for i := range state {
		state[i] = p.sbox(api, state[i])
	}
}

func (p *circuitPermutation) sbox(api frontend.API, x frontend.Variable) frontend.Variable {
	if p.params.Alpha.Inverse {
		// 0 maps to 0.
		isZero := api.IsZero(x)
		inv := api.Inverse(api.Select(isZero, 1, x))
		return api.Select(isZero, 0, inv)
	}
	return circuitExp(api, x, p.params.Alpha.Exponent)
}

// circuitExp computes x^alpha by left to right square and multiply.
func circuitExp(api frontend.API, x frontend.Variable, alpha uint32) frontend.Variable {
	acc := x
	for i := bits.Len32(alpha) - 2; i >= 0; i-- {
		acc = api.Mul(acc, acc)
		if alpha>>uint(i)&1 == 1 {
			acc = api.Mul(acc, x)
		}
	}
	return acc
}
