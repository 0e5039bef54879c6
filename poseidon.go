package poseidongen

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vocdoni/poseidongen/field"
	"github.com/vocdoni/poseidongen/internal/params"
)

// permutation evaluates the Poseidon permutation for a generated Result.
type permutation struct {
	params *params.Parameters
	alpha  *big.Int
}

func newPermutation(p *Result) (*permutation, error) {
	if p == nil {
		return nil, errors.New("poseidongen: nil parameters")
	}
	if err := params.Validate(p); err != nil {
		return nil, err
	}
	return &permutation{params: p, alpha: new(big.Int).SetUint64(uint64(p.Alpha.Exponent))}, nil
}

// Permute applies the permutation to state in place using the optimized
// partial round schedule. The state must hold StateSize elements of p.Field.
func Permute(p *Result, state []field.Element) error {
	perm, err := newPermutation(p)
	if err != nil {
		return err
	}
	if len(state) != p.StateSize {
		return errors.Errorf("poseidongen: state has %d cells, want %d", len(state), p.StateSize)
	}
	perm.permute(state)
	return nil
}

// PermuteReference applies the permutation round by round with the raw
// constants and the MDS matrix. It is the definition Permute must agree with.
func PermuteReference(p *Result, state []field.Element) error {
	perm, err := newPermutation(p)
	if err != nil {
		return err
	}
	if len(state) != p.StateSize {
		return errors.Errorf("poseidongen: state has %d cells, want %d", len(state), p.StateSize)
	}
	t := p.StateSize
	rF := p.FullRounds / 2
	for r := 0; r < p.Rounds(); r++ {
		addArcRow(state, p.Arc, r, t)
		if r < rF || r >= rF+p.PartialRounds {
			perm.fullSBox(state)
		} else {
			perm.partialSBox(state)
		}
		perm.mixLayerMDS(state)
	}
	return nil
}

// permute mutates the state in place using the optimized schedule.
func (p *permutation) permute(state []field.Element) {
	t := p.params.StateSize
	rF := p.params.FullRounds / 2
	arc := p.params.OptimizedArc

	// First half of full rounds.
	for r := 0; r < rF; r++ {
		addArcRow(state, arc, r, t)
		p.fullSBox(state)
		p.mixLayerMDS(state)
	}
	round := rF

	// First partial round constants + dense mix (M_i).
	addArcRow(state, arc, round, t)
	p.mixLayerMI(state)

	// Middle partial rounds.
	for r := 0; r < p.params.PartialRounds-1; r++ {
		p.partialSBox(state)
		round++
		state[0] = state[0].Add(arc[round*t])
		p.sparseMatMul(state, p.params.PartialRounds-r-1)
	}

	// Final partial round.
	p.partialSBox(state)
	p.sparseMatMul(state, 0)
	round++

	// Second half of full rounds.
	for r := 0; r < rF; r++ {
		addArcRow(state, arc, round, t)
		p.fullSBox(state)
		p.mixLayerMDS(state)
		round++
	}
}

func (p *permutation) mixLayerMDS(state []field.Element) {
	mulDense(state, p.params.MDS, p.params.Field)
}

func (p *permutation) mixLayerMI(state []field.Element) {
	mulDense(state, p.params.OptimizedMDS.MI, p.params.Field)
}

func mulDense(state, m []field.Element, f field.Field) {
	t := len(state)
	newState := make([]field.Element, t)
	for i := 0; i < t; i++ {
		sum := f.Zero()
		rowOffset := i * t
		for j := 0; j < t; j++ {
			sum = sum.Add(m[rowOffset+j].Mul(state[j]))
		}
		newState[i] = sum
	}
	copy(state, newState)
}

// sparseMatMul applies [[M00, w_hat], [v, I]] for the given sparse round.
func (p *permutation) sparseMatMul(state []field.Element, round int) {
	t := p.params.StateSize
	subSize := t - 1
	v := p.params.OptimizedMDS.VCollection[round*subSize : (round+1)*subSize]
	wHat := p.params.OptimizedMDS.WHatCollection[round*subSize : (round+1)*subSize]

	newZero := p.params.OptimizedMDS.M00.Mul(state[0])
	for i := 0; i < subSize; i++ {
		newZero = newZero.Add(wHat[i].Mul(state[i+1]))
		state[i+1] = state[i+1].Add(v[i].Mul(state[0]))
	}
	state[0] = newZero
}

func addArcRow(state, arc []field.Element, row, width int) {
	offset := row * width
	for i := 0; i < width; i++ {
		state[i] = state[i].Add(arc[offset+i])
	}
}

func (p *permutation) sbox(x field.Element) field.Element {
	if p.params.Alpha.Inverse {
		if x.IsZero() {
			return x
		}
		return x.Inv()
	}
	return x.Exp(p.alpha)
}

func (p *permutation) partialSBox(state []field.Element) {
	state[0] = p.sbox(state[0])
}

func (p *permutation) fullSBox(state []field.Element) {
	for i := range state {
		state[i] = p.sbox(state[i])
	}
}
