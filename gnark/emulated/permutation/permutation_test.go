package permutation

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/math/emulated/emparams"
	"github.com/consensys/gnark/test"

	"github.com/vocdoni/poseidongen"
	"github.com/vocdoni/poseidongen/field"
)

type emuCircuit[T emulated.FieldParams] struct {
	In  [3]emulated.Element[T]
	Out [3]emulated.Element[T] `gnark:",public"`

	Params *poseidongen.Result `gnark:"-"`
}

func (c *emuCircuit[T]) Define(api frontend.API) error {
	f, err := emulated.NewField[T](api)
	if err != nil {
		return err
	}
	in := make([]*emulated.Element[T], len(c.In))
	for i := range c.In {
		in[i] = &c.In[i]
	}
	out, err := Permute(api, c.Params, in)
	if err != nil {
		return err
	}
	for i := range out {
		f.AssertIsEqual(out[i], &c.Out[i])
	}
	return nil
}

func goldilocks(alpha poseidongen.Alpha) poseidongen.ParameterSet {
	return poseidongen.ParameterSet{
		FieldKind:     field.Prime,
		FieldBits:     64,
		StateSize:     3,
		FullRounds:    8,
		PartialRounds: 22,
		Alpha:         alpha,
		Modulus:       field.Goldilocks.Modulus(),
	}
}

func witnessFor[T emulated.FieldParams](t *testing.T, res *poseidongen.Result, in ...uint64) *emuCircuit[T] {
	t.Helper()
	w := &emuCircuit[T]{Params: res}
	state := make([]field.Element, len(in))
	for i, v := range in {
		state[i] = res.Field.FromUint64(v)
		w.In[i] = emulated.ValueOf[T](v)
	}
	if err := poseidongen.Permute(res, state); err != nil {
		t.Fatalf("native permute: %v", err)
	}
	for i, e := range state {
		w.Out[i] = emulated.ValueOf[T](e.BigInt())
	}
	return w
}

func TestEmulatedGoldilocksMatchesNative(t *testing.T) {
	res, err := poseidongen.Generate(goldilocks(poseidongen.Alpha{Exponent: 5}))
	if err != nil {
		t.Fatal(err)
	}
	witness := witnessFor[emparams.Goldilocks](t, res, 0, 1, 2)
	if err := test.IsSolved(&emuCircuit[emparams.Goldilocks]{Params: res}, witness, ecc.BN254.ScalarField()); err != nil {
		t.Fatalf("goldilocks over bn254: %v", err)
	}
}

func TestEmulatedInverseSBox(t *testing.T) {
	res, err := poseidongen.Generate(goldilocks(poseidongen.Alpha{Inverse: true}))
	if err != nil {
		t.Fatal(err)
	}
	for _, in := range [][]uint64{{0, 0, 0}, {7, 8, 9}} {
		witness := witnessFor[emparams.Goldilocks](t, res, in...)
		if err := test.IsSolved(&emuCircuit[emparams.Goldilocks]{Params: res}, witness, ecc.BN254.ScalarField()); err != nil {
			t.Fatalf("inverse s-box %v: %v", in, err)
		}
	}
}

func TestEmulatedWrongField(t *testing.T) {
	assert := test.NewAssert(t)
	res, err := poseidongen.Generate(goldilocks(poseidongen.Alpha{Exponent: 5}))
	assert.NoError(err)

	_, err = frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &emuCircuit[emparams.BN254Fr]{Params: res})
	assert.Error(err)
}
