// Package permutation evaluates a generated Poseidon instance over an
// emulated field, for circuits whose native field differs from the
// Poseidon field.
package permutation

import (
	"math/big"
	"math/bits"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/pkg/errors"

	"github.com/vocdoni/poseidongen/field"
	"github.com/vocdoni/poseidongen/internal/params"
)

// Permute applies the optimized permutation to state over the emulated field
// T and returns the reduced output state. T must describe the parameter
// modulus.
func Permute[T emulated.FieldParams](api frontend.API, p *params.Parameters, state []*emulated.Element[T]) ([]*emulated.Element[T], error) {
	if err := params.Validate(p); err != nil {
		return nil, err
	}
	if p.FieldKind != field.Prime {
		return nil, errors.New("permutation: circuits need a prime field")
	}
	var fp T
	if fp.Modulus().Cmp(p.Modulus) != 0 {
		return nil, errors.Errorf("permutation: parameters are over %#x, emulated field is %#x", p.Modulus, fp.Modulus())
	}
	if len(state) != p.StateSize {
		return nil, errors.Errorf("permutation: state has %d cells, want %d", len(state), p.StateSize)
	}

	f, err := emulated.NewField[T](api)
	if err != nil {
		return nil, err
	}
	out := make([]*emulated.Element[T], len(state))
	copy(out, state)
	out = permute(f, p, out)
	for i := range out {
		out[i] = f.Reduce(out[i])
	}
	return out, nil
}

func permute[T emulated.FieldParams](f *emulated.Field[T], p *params.Parameters, state []*emulated.Element[T]) []*emulated.Element[T] {
	t := p.StateSize
	rF := p.FullRounds / 2
	arc := p.OptimizedArc

	for r := range rF {
		addArcRow(f, state, arc, r, t)
		fullSBox(f, state, p.Alpha)
		state = mix(f, p.MDS, state)
	}
	round := rF

	addArcRow(f, state, arc, round, t)
	state = mix(f, p.OptimizedMDS.MI, state)

	for r := 0; r < p.PartialRounds-1; r++ {
		state[0] = sbox(f, state[0], p.Alpha)
		round++
		state[0] = f.Add(state[0], constElement(f, arc[round*t]))
		state = sparseMatMul(f, p, state, p.PartialRounds-r-1)
	}

	state[0] = sbox(f, state[0], p.Alpha)
	state = sparseMatMul(f, p, state, 0)
	round++

	for range rF {
		addArcRow(f, state, arc, round, t)
		fullSBox(f, state, p.Alpha)
		state = mix(f, p.MDS, state)
		round++
	}
	return state
}

func constElement[T emulated.FieldParams](f *emulated.Field[T], e field.Element) *emulated.Element[T] {
	return f.NewElement(new(big.Int).Set(e.BigInt()))
}

func addArcRow[T emulated.FieldParams](f *emulated.Field[T], state []*emulated.Element[T], arc []field.Element, row, width int) {
	offset := row * width
	for i := range width {
		state[i] = f.Add(state[i], constElement(f, arc[offset+i]))
	}
}

// mix multiplies state by a row-major t×t matrix.
func mix[T emulated.FieldParams](f *emulated.Field[T], matrix []field.Element, state []*emulated.Element[T]) []*emulated.Element[T] {
	t := len(state)
	out := make([]*emulated.Element[T], t)
	for i := range t {
		sum := f.Zero()
		rowOffset := i * t
		for j := range t {
			sum = f.Add(sum, f.Mul(constElement(f, matrix[rowOffset+j]), state[j]))
		}
		out[i] = sum
	}
	return out
}

func sparseMatMul[T emulated.FieldParams](f *emulated.Field[T], p *params.Parameters, state []*emulated.Element[T], round int) []*emulated.Element[T] {
	t := p.StateSize
	subSize := t - 1
	v := p.OptimizedMDS.VCollection[round*subSize : (round+1)*subSize]
	wHat := p.OptimizedMDS.WHatCollection[round*subSize : (round+1)*subSize]

	out := make([]*emulated.Element[T], t)
	newZero := f.Mul(constElement(f, p.OptimizedMDS.M00), state[0])
	for i := range subSize {
		out[i+1] = f.Add(f.Mul(constElement(f, v[i]), state[0]), state[i+1])
		newZero = f.Add(newZero, f.Mul(constElement(f, wHat[i]), state[i+1]))
	}
	out[0] = newZero
	return out
}

func fullSBox[T emulated.FieldParams](f *emulated.Field[T], state []*emulated.Element[T], alpha params.Alpha) {
	for i := range state {
		state[i] = sbox(f, state[i], alpha)
	}
}

func sbox[T emulated.FieldParams](f *emulated.Field[T], x *emulated.Element[T], alpha params.Alpha) *emulated.Element[T] {
	if alpha.Inverse {
		isZero := f.IsZero(x)
		inv := f.Inverse(f.Select(isZero, f.One(), x))
		return f.Select(isZero, f.Zero(), inv)
	}
	acc := x
	for i := bits.Len32(alpha.Exponent) - 2; i >= 0; i-- {
		acc = f.Mul(acc, acc)
		if alpha.Exponent>>uint(i)&1 == 1 {
			acc = f.Mul(acc, x)
		}
	}
	return acc
}
