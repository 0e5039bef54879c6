package poseidongen

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vocdoni/poseidongen/field"
)

func bn254Set() ParameterSet {
	return ParameterSet{
		FieldKind:     field.Prime,
		FieldBits:     254,
		StateSize:     3,
		FullRounds:    8,
		PartialRounds: 57,
		Alpha:         Alpha{Exponent: 5},
		Modulus:       ecc.BN254.ScalarField(),
	}
}

func p101Set() ParameterSet {
	return ParameterSet{
		FieldKind:     field.Prime,
		FieldBits:     7,
		StateSize:     3,
		FullRounds:    8,
		PartialRounds: 10,
		Alpha:         Alpha{Exponent: 5},
		Modulus:       big.NewInt(101),
	}
}

func goldilocksSet() ParameterSet {
	return ParameterSet{
		FieldKind:     field.Prime,
		FieldBits:     64,
		StateSize:     3,
		FullRounds:    8,
		PartialRounds: 22,
		Alpha:         Alpha{Exponent: 5},
		Modulus:       new(big.Int).SetUint64(0xffffffff00000001),
	}
}

func hexes(v []field.Element) []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = e.String()
	}
	return out
}

func uints(v []field.Element) []uint64 {
	out := make([]uint64, len(v))
	for i, e := range v {
		out[i] = e.BigInt().Uint64()
	}
	return out
}

func state(f field.Field, vals ...uint64) []field.Element {
	out := make([]field.Element, len(vals))
	for i, v := range vals {
		out[i] = f.FromUint64(v)
	}
	return out
}

func TestGenerateBN254(t *testing.T) {
	res, err := Generate(bn254Set())
	require.NoError(t, err)
	require.Equal(t, field.BN254, res.Field)
	require.Equal(t, 1, res.Candidates)
	require.Len(t, res.Arc, 195)
	require.Equal(t, "0xee9a592ba9a9518d05986d656f40c2114c4993c11bb29938d21d47304cd8e6e", res.Arc[0].String())
	require.Equal(t, "0x1da55cc900f0d21f4a3e694391918a1b3c23b2ac773c6b3ef88e2e4228325161", res.Arc[194].String())

	require.Equal(t, []string{
		"0x109b7f411ba0e4c9b2b70caf5c36a7b194be7c11ad24378bfedb68592ba8118b",
		"0x2b90bba00fca0589f617e7dcbfe82e0df706ab640ceb247b791a93b74e36736d",
		"0xfc7fda7abc64cb7108e6fa2603fef3044c8bc500b63daa437190d30d063a83e",
		"0x2969f27eed31a480b9c36c764379dbca2cc8fdd1415c3dded62940bcde0bd771",
		"0x101071f0032379b697315876690f053d148d4e109f5fb065c8aacc55a0f89bfa",
		"0x24c805c9c09c02a4a78a26dac8a85b1831d7c811ff60501df52bccadbf5bb376",
		"0x143021ec686a3f330d5f9e654638065ce6cd79e28c5b3753326244ee65a1b1a7",
		"0x19a3fc0a56702bf417ba7fee3802593fa644470307043f7773279cd71d25d5e0",
		"0x2173f422f1a8320b46f4f70fdb2f206f44ae3ccf4906f307813a90ab70348689",
	}, hexes(res.MDS))
	require.Equal(t, res.MDS[0].String(), res.OptimizedMDS.M00.String())
	require.Equal(t, "0x1589d2f1d3159a345a1bda456a84bc13bdef67732cb4b5a2a2011d6066b1a0d2", res.OptimizedArc[180].String())

	want := []string{
		"0x2080a0d35fd4ccd78a3ae4772a39fdc53ed8131f7988b0e142f668d550878695",
		"0x242eabcfff4646b9df58df9e5904073f98ed8eeca20143641675014c3345d6a",
		"0x15cb0f789bdc82e3dce7710d25534728bc6e0734c6f9409589e24cf91d5f631",
	}
	s := state(res.Field, 0, 1, 2)
	require.NoError(t, Permute(res, s))
	require.Equal(t, want, hexes(s))

	s = state(res.Field, 0, 1, 2)
	require.NoError(t, PermuteReference(res, s))
	require.Equal(t, want, hexes(s))
}

// With reduced matrix draws the generator reproduces the circomlib BN254
// instance: permuting [0, 1, 2] gives Poseidon([1, 2]) in state[0].
func TestGenerateBN254Reduce(t *testing.T) {
	res, err := Generate(bn254Set(), WithMatrixSampling(SampleReduce))
	require.NoError(t, err)
	require.Equal(t, []string{
		"0x109b7f411ba0e4c9b2b70caf5c36a7b194be7c11ad24378bfedb68592ba8118b",
		"0x16ed41e13bb9c0c66ae119424fddbcbc9314dc9fdbdeea55d6c64543dc4903e0",
		"0x2b90bba00fca0589f617e7dcbfe82e0df706ab640ceb247b791a93b74e36736d",
	}, hexes(res.MDS[:3]))
	require.Equal(t, []string{
		"0x0",
		"0x75be6d3b7ae2cb49856e0b1aceaa84737fa30d5abcbc51787bea648df15b75c",
		"0x1a81a72b8e5439376d3e1f3ecd5bdbd8415b7680449d451219b117c9095fa111",
	}, hexes(res.OptimizedMDS.MI[3:6]))
	require.Equal(t, []string{
		"0xde20097480e7555471785de07bd9809d57dd859bbe827307c33ae9ed7890597",
		"0x72f2a6287fb984bb810df8c5788eebcfd2825613cb72bb80cde8edd76d2e97d",
	}, hexes(res.OptimizedMDS.WHatCollection[:2]))
	require.Equal(t, "0x199c7d34412cfe7e4a88143ca71cf4ce1444d6b847759f3dc64f2fb13739268b", res.OptimizedArc[15].String())

	s := state(res.Field, 0, 1, 2)
	require.NoError(t, Permute(res, s))
	require.Equal(t, []string{
		"0x115cc0f5e7d690413df64c6b9662e9cf2a3617f2743245519e19607a4417189a",
		"0xfca49b798923ab0239de1c9e7a4a9a2210312b6a2f616d18b5a87f9b628ae29",
		"0xe7ae82e40091e63cbd4f16a6d16310b3729d4b6e138fcf54110e2867045a30c",
	}, hexes(s))
}

func TestGenerateP101(t *testing.T) {
	var logs bytes.Buffer
	res, err := Generate(p101Set(), WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))
	require.NoError(t, err)
	require.Equal(t, 2, res.Candidates)
	require.Equal(t, []uint64{35, 100, 55, 56, 14, 90, 30, 71, 15}, uints(res.MDS))
	require.Equal(t, []uint64{1, 0, 0, 0, 43, 18, 0, 95, 23}, uints(res.OptimizedMDS.MI))
	require.Equal(t, []uint64{56, 30, 50, 83}, uints(res.OptimizedMDS.VCollection[:4]))
	require.Equal(t, []uint64{43, 39}, uints(res.OptimizedMDS.WHatCollection[18:]))
	require.Equal(t, []uint64{78, 31, 50, 11, 0, 0}, uints(res.OptimizedArc[12:18]))

	require.Contains(t, logs.String(), "MDS candidate rejected")
	require.Contains(t, logs.String(), "algorithm 3")
	require.Contains(t, logs.String(), "MDS matrix accepted")

	s := state(res.Field, 1, 2, 3)
	require.NoError(t, Permute(res, s))
	require.Equal(t, []uint64{52, 2, 49}, uints(s))

	require.Equal(t, "dd3556b1a7d88d2c6e03fdfecfe3233392139b60d5944ba3f34d8a40a4e0af68", FingerprintHex(res))
}

func TestGenerateInverseSBox(t *testing.T) {
	set := p101Set()
	set.Alpha = Alpha{Inverse: true}
	res, err := Generate(set)
	require.NoError(t, err)
	require.Equal(t, 1, res.Candidates)
	require.Equal(t, []uint64{2, 74, 94, 90, 55, 4, 85, 19, 51}, uints(res.MDS))
	require.Equal(t, []uint64{59, 58, 63, 25, 74, 10}, uints(res.Arc[:6]))

	s := state(res.Field, 1, 2, 3)
	require.NoError(t, PermuteReference(res, s))
	require.Equal(t, []uint64{5, 80, 76}, uints(s))
	s = state(res.Field, 1, 2, 3)
	require.NoError(t, Permute(res, s))
	require.Equal(t, []uint64{5, 80, 76}, uints(s))
}

func TestGenerateGoldilocks(t *testing.T) {
	res, err := Generate(goldilocksSet())
	require.NoError(t, err)
	require.Equal(t, field.Goldilocks, res.Field)
	require.Equal(t, []string{"0xe420faeb34216c21", "0xb04850c2d7ffc74b", "0x534de77d3c3f5f7d"}, hexes(res.MDS[:3]))
	require.Equal(t, []string{"0xe03040d09c0a3ced", "0x8cc78e763de81162"}, hexes(res.OptimizedMDS.WHatCollection[:2]))
	require.Equal(t, []string{"0x3bdb13a65ae1b844", "0x91d98fc1d6f4c5e3"}, hexes(res.OptimizedMDS.WHatCollection[42:]))
	require.Equal(t, "0x9788c20221ffc826", res.OptimizedArc[75].String())

	s := state(res.Field, 0, 1, 2)
	require.NoError(t, Permute(res, s))
	require.Equal(t, []string{"0x3ffc98235d308dba", "0x156edcb70a682f35", "0x7e41047083885771"}, hexes(s))

	// Same constants with math/big arithmetic.
	generic, err := Generate(goldilocksSet(), WithGenericArithmetic())
	require.NoError(t, err)
	require.IsType(t, &field.PrimeField{}, generic.Field)
	require.Equal(t, hexes(res.Arc), hexes(generic.Arc))
	require.Equal(t, hexes(res.MDS), hexes(generic.MDS))
	require.Equal(t, hexes(res.OptimizedArc), hexes(generic.OptimizedArc))
	require.Equal(t, hexes(res.OptimizedMDS.MI), hexes(generic.OptimizedMDS.MI))
	require.Equal(t, Fingerprint(res), Fingerprint(generic))
}

func TestGenerateBinary(t *testing.T) {
	set := ParameterSet{
		FieldKind:     field.BinaryExtension,
		FieldBits:     8,
		StateSize:     3,
		FullRounds:    8,
		PartialRounds: 10,
		Alpha:         Alpha{Exponent: 3},
		Modulus:       big.NewInt(0x11b),
	}
	res, err := Generate(set)
	require.NoError(t, err)
	require.Equal(t, 1, res.Candidates)
	require.Equal(t, []uint64{105, 221, 192, 20, 168, 219, 147, 174, 110}, uints(res.MDS))

	for _, alpha := range []Alpha{{Exponent: 3}, {Inverse: true}} {
		res.Alpha = alpha
		for seed := uint64(0); seed < 16; seed++ {
			a := state(res.Field, seed, seed*7%256, seed*31%256)
			b := state(res.Field, seed, seed*7%256, seed*31%256)
			require.NoError(t, Permute(res, a))
			require.NoError(t, PermuteReference(res, b))
			require.Equal(t, hexes(b), hexes(a))
		}
	}
}

// The optimized schedule agrees with the plain one on arbitrary states.
func TestRoundTripLaw(t *testing.T) {
	set := ParameterSet{
		FieldKind:     field.Prime,
		FieldBits:     5,
		StateSize:     4,
		FullRounds:    8,
		PartialRounds: 10,
		Alpha:         Alpha{Exponent: 3},
		Modulus:       big.NewInt(17),
	}
	res, err := Generate(set)
	require.NoError(t, err)
	require.Equal(t, 2, res.Candidates)
	require.Equal(t, "0xb", res.OptimizedMDS.M00.String())

	for i := uint64(0); i < 50; i++ {
		a := state(res.Field, i%17, (i*3)%17, (i*5+1)%17, (i*11+7)%17)
		b := state(res.Field, i%17, (i*3)%17, (i*5+1)%17, (i*11+7)%17)
		require.NoError(t, Permute(res, a))
		require.NoError(t, PermuteReference(res, b))
		require.Equal(t, uints(b), uints(a))
	}
}

func TestDeterminism(t *testing.T) {
	a, err := Generate(goldilocksSet())
	require.NoError(t, err)
	b, err := Generate(goldilocksSet())
	require.NoError(t, err)
	require.Equal(t, FingerprintHex(a), FingerprintHex(b))
	require.Equal(t, a.Draws, b.Draws)

	c, err := Generate(p101Set())
	require.NoError(t, err)
	require.NotEqual(t, FingerprintHex(a), FingerprintHex(c))
}

func TestGenerateErrors(t *testing.T) {
	bad := p101Set()
	bad.Modulus = nil
	_, err := Generate(bad)
	require.ErrorIs(t, err, ErrUsage)

	bad = p101Set()
	bad.FullRounds = 7
	_, err = Generate(bad)
	require.ErrorIs(t, err, ErrUsage)

	// The first p101 candidate is rejected.
	_, err = Generate(p101Set(), WithMaxCandidates(1))
	require.ErrorIs(t, err, ErrGenerationExhausted)

	_, err = Generate(p101Set(), WithMaxDraws(10))
	require.ErrorIs(t, err, ErrGenerationExhausted)

	_, err = Generate(p101Set(), WithMaxCandidates(2), WithMaxDraws(1000))
	require.NoError(t, err)
}

func TestPermuteErrors(t *testing.T) {
	res, err := Generate(p101Set())
	require.NoError(t, err)
	require.Error(t, Permute(res, state(res.Field, 1, 2)))
	require.Error(t, PermuteReference(res, state(res.Field, 1, 2, 3, 4)))
	require.Error(t, Permute(nil, nil))
}
