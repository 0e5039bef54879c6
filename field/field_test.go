package field

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"
)

var p = big.NewInt(101) // small prime field for test consistency

func TestPrimeFieldArithmetic(t *testing.T) {
	f := NewPrimeField(p)
	a := f.FromUint64(3)
	b := f.FromUint64(99)

	require.Equal(t, int64(1), a.Add(b).BigInt().Int64())
	require.Equal(t, int64(5), a.Sub(b).BigInt().Int64())
	require.Equal(t, int64(98), a.Neg().BigInt().Int64())
	require.Equal(t, int64(95), a.Mul(b).BigInt().Int64())
	require.True(t, f.Zero().Neg().IsZero())

	for i := uint64(1); i < 101; i++ {
		x := f.FromUint64(i)
		require.True(t, x.Mul(x.Inv()).Equal(f.One()), "inverse of %d", i)
	}

	// Fermat: a^(p-1) = 1
	require.True(t, a.Exp(big.NewInt(100)).Equal(f.One()))
	require.True(t, a.Exp(big.NewInt(0)).Equal(f.One()))
}

func TestPrimeFieldContains(t *testing.T) {
	f := NewPrimeField(p)
	require.True(t, f.Contains(big.NewInt(0)))
	require.True(t, f.Contains(big.NewInt(100)))
	require.False(t, f.Contains(big.NewInt(101)))
	require.False(t, f.Contains(big.NewInt(-1)))
	require.Panics(t, func() { f.FromBigInt(big.NewInt(101)) })
}

func TestIncompatibleElementsPanic(t *testing.T) {
	a := NewPrimeField(p).One()
	b := NewPrimeField(big.NewInt(103)).One()
	require.Panics(t, func() { a.Add(b) })
	require.False(t, a.Equal(b))

	g := NewBinaryField(8, big.NewInt(0x11b)).One()
	require.Panics(t, func() { a.Mul(g) })
}

func TestBinaryFieldMul(t *testing.T) {
	f := NewBinaryField(8, big.NewInt(0x11b))

	// FIPS-197 section 4.2 example.
	got := f.FromUint64(0x57).Mul(f.FromUint64(0x83))
	require.Equal(t, "0xc1", got.String())

	inv := f.FromUint64(0x53).Inv()
	require.Equal(t, int64(0xca), inv.BigInt().Int64())

	for i := uint64(1); i < 256; i++ {
		x := f.FromUint64(i)
		require.True(t, x.Mul(x.Inv()).Equal(f.One()), "inverse of %#x", i)
		require.True(t, x.Add(x).IsZero())
		require.True(t, x.Neg().Equal(x))
	}

	// x^(2^8 - 1) = 1 for every non-zero x
	require.True(t, f.FromUint64(0x1f).Exp(big.NewInt(255)).Equal(f.One()))
	require.False(t, f.Contains(big.NewInt(256)))
}

func TestIsIrreducible(t *testing.T) {
	cases := []struct {
		poly *big.Int
		want bool
	}{
		{big.NewInt(0x11b), true},
		{big.NewInt(0x11a), false},
		{big.NewInt(0x1002b), true},
		{new(big.Int).SetBit(big.NewInt(0x1b), 64, 1), true},
		{big.NewInt(0x7), true},
		{big.NewInt(0x5), false},
		{big.NewInt(0x13), true},
		{big.NewInt(1), false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, IsIrreducible(tc.poly), "%#x", tc.poly)
	}
}

func TestNew(t *testing.T) {
	f, err := New(Prime, ecc.BN254.ScalarField())
	require.NoError(t, err)
	require.Same(t, BN254, f)

	f, err = New(Prime, p)
	require.NoError(t, err)
	require.IsType(t, &PrimeField{}, f)

	f, err = New(BinaryExtension, big.NewInt(0x11b))
	require.NoError(t, err)
	require.Equal(t, 8, f.Degree())
	require.Equal(t, int64(256), f.Order().Int64())
	require.Equal(t, BinaryExtension, f.Kind())

	_, err = New(BinaryExtension, big.NewInt(1))
	require.Error(t, err)
	_, err = New(Kind(3), p)
	require.Error(t, err)
}

// The Montgomery backends must agree with the math/big implementation
// bit for bit.
func TestMontgomeryMatchesPrime(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, mf := range knownFields {
		generic := NewPrimeField(mf.Modulus())
		random := func() *big.Int {
			return new(big.Int).Rand(rng, mf.Modulus())
		}
		for i := 0; i < 64; i++ {
			x, y := random(), random()
			k := big.NewInt(rng.Int63n(1 << 20))
			ma, mb := mf.FromBigInt(x), mf.FromBigInt(y)
			ga, gb := generic.FromBigInt(x), generic.FromBigInt(y)

			require.Equal(t, ga.Add(gb).String(), ma.Add(mb).String(), "%s add", mf)
			require.Equal(t, ga.Sub(gb).String(), ma.Sub(mb).String(), "%s sub", mf)
			require.Equal(t, ga.Mul(gb).String(), ma.Mul(mb).String(), "%s mul", mf)
			require.Equal(t, ga.Neg().String(), ma.Neg().String(), "%s neg", mf)
			require.Equal(t, ga.Exp(k).String(), ma.Exp(k).String(), "%s exp", mf)
			if !ga.IsZero() {
				require.Equal(t, ga.Inv().String(), ma.Inv().String(), "%s inv", mf)
			}
		}
	}
}

func TestForModulus(t *testing.T) {
	require.Same(t, Goldilocks, ForModulus(new(big.Int).SetUint64(0xffffffff00000001)))
	require.Same(t, BLS12_377, ForModulus(ecc.BLS12_377.ScalarField()))
	require.Equal(t, ecc.BLS12_377, BLS12_377.Curve())
	require.Equal(t, 4, BN254.Limbs())
	require.Nil(t, ForModulus(p))
	require.Nil(t, ForModulus(nil))
}

func TestByName(t *testing.T) {
	require.Same(t, BN254, ByName("bn254"))
	require.Same(t, BW6_761, ByName("bw6-761"))
	require.Same(t, Goldilocks, ByName("goldilocks"))
	require.Nil(t, ByName("secp256k1"))
}
