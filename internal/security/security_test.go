package security

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vocdoni/poseidongen/field"
	"github.com/vocdoni/poseidongen/internal/linalg"
)

func mat(f field.Field, rows ...[]uint64) *linalg.Matrix {
	vs := make([]linalg.Vector, len(rows))
	for i, r := range rows {
		vs[i] = make(linalg.Vector, len(r))
		for j, v := range r {
			vs[i][j] = f.FromUint64(v)
		}
	}
	return linalg.FromRows(f, vs)
}

func TestScalarMatrix(t *testing.T) {
	f := field.NewPrimeField(big.NewInt(101))
	m := linalg.Scalar(f, 3, f.FromUint64(2))

	v, err := Algorithm1(m)
	require.NoError(t, err)
	require.Equal(t, Verdict{Algorithm: 1, Reason: ScalarPower, Power: 1}, v)
	require.False(t, Algorithm2(m).Secure)
	require.False(t, Algorithm3(m).Secure)
}

func TestEigenspaceTrail(t *testing.T) {
	f := field.NewPrimeField(big.NewInt(101))
	m := mat(f, []uint64{2, 0, 0}, []uint64{0, 3, 1}, []uint64{0, 1, 4})

	v, err := Algorithm1(m)
	require.NoError(t, err)
	require.Equal(t, Verdict{Algorithm: 1, Reason: EigenspaceTrail, Power: 1}, v)
	// e_0 is an eigenvector, its orbit never grows.
	require.Equal(t, Verdict{Algorithm: 2, Reason: InvariantOrbit, Power: 1}, Algorithm2(m))
	require.False(t, Algorithm3(m).Secure)
}

func TestInvariantTrail(t *testing.T) {
	f := field.NewPrimeField(big.NewInt(11))
	// The first row is 3 e_0, so span(e_1, e_2) is mapped onto itself.
	m := mat(f, []uint64{3, 0, 0}, []uint64{0, 2, 9}, []uint64{7, 5, 0})

	v, err := Algorithm1(m)
	require.NoError(t, err)
	require.Equal(t, Verdict{Algorithm: 1, Reason: InvariantTrail, Power: 1}, v)
	require.True(t, Algorithm2(m).Secure)
}

func TestCyclicPermutation(t *testing.T) {
	f := field.NewPrimeField(big.NewInt(101))
	m := mat(f, []uint64{0, 0, 1}, []uint64{1, 0, 0}, []uint64{0, 1, 0})

	v, err := Algorithm1(m)
	require.NoError(t, err)
	require.True(t, v.Secure)
	require.True(t, Algorithm2(m).Secure)
	// M^3 = I.
	require.Equal(t, Verdict{Algorithm: 3, Reason: InvariantOrbit, Power: 3}, Algorithm3(m))

	v, err = Check(m)
	require.NoError(t, err)
	require.Equal(t, 3, v.Algorithm)
}

func TestCandidatesP101(t *testing.T) {
	f := field.NewPrimeField(big.NewInt(101))

	// First Cauchy candidate drawn for (prime, 7, 3, 8, 10): M^2 has an
	// invariant orbit.
	first := mat(f, []uint64{16, 76, 44}, []uint64{4, 53, 73}, []uint64{18, 54, 27})
	v, err := Algorithm1(first)
	require.NoError(t, err)
	require.True(t, v.Secure)
	require.True(t, Algorithm2(first).Secure)
	v, err = Check(first)
	require.NoError(t, err)
	require.Equal(t, Verdict{Algorithm: 3, Reason: InvariantOrbit, Power: 2}, v)

	second := mat(f, []uint64{35, 100, 55}, []uint64{56, 14, 90}, []uint64{30, 71, 15})
	v, err = Check(second)
	require.NoError(t, err)
	require.True(t, v.Secure)
	require.Equal(t, "secure", v.String())
}

func TestBlockSwap(t *testing.T) {
	f := field.NewPrimeField(big.NewInt(17))
	m := mat(f, []uint64{0, 1, 0, 0}, []uint64{1, 0, 0, 0}, []uint64{0, 0, 0, 1}, []uint64{0, 0, 1, 0})
	v, err := Check(m)
	require.NoError(t, err)
	require.Equal(t, 1, v.Algorithm)
	require.Equal(t, EigenspaceTrail, v.Reason)
}

func TestBinaryField(t *testing.T) {
	f := field.NewBinaryField(8, big.NewInt(0x11b))
	v, err := Check(linalg.Identity(f, 3))
	require.NoError(t, err)
	require.Equal(t, ScalarPower, v.Reason)
	require.False(t, Algorithm2(linalg.Identity(f, 3)).Secure)

	// Accepted GF(2^8) matrix for (binary, 8, 3, 8, 10).
	m := mat(f, []uint64{105, 221, 192}, []uint64{20, 168, 219}, []uint64{147, 174, 110})
	v, err = Check(m)
	require.NoError(t, err)
	require.True(t, v.Secure, v.String())
}

func TestGoldilocksLargeField(t *testing.T) {
	f := field.Goldilocks
	m := linalg.FromRows(f, []linalg.Vector{
		{hex(f, "e420faeb34216c21"), hex(f, "b04850c2d7ffc74b"), hex(f, "534de77d3c3f5f7d")},
		{hex(f, "aca52810e98ebbbf"), hex(f, "f911586d33b7d6ba"), hex(f, "35312ce83e264ecb")},
		{hex(f, "e57d56b753ca36c9"), hex(f, "a11b339e767cb11d"), hex(f, "5b8df8c546a061d0")},
	})
	v, err := Check(m)
	require.NoError(t, err)
	require.True(t, v.Secure, v.String())
}

func hex(f field.Field, s string) field.Element {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic(s)
	}
	return f.FromBigInt(v)
}

func TestSubsets(t *testing.T) {
	require.Equal(t, [][]int{{0}}, subsets(1))
	require.Equal(t, [][]int{{0}, {1}, {0, 1}}, subsets(2))
}
