package params

import (
	"math/big"

	"github.com/vocdoni/poseidongen/field"
	"github.com/vocdoni/poseidongen/internal/grain"
)

// SBox kinds as packed into the seed.
const (
	SBoxPower   = 0
	SBoxInverse = 1
)

// Alpha captures the Poseidon S-box exponent.
type Alpha struct {
	Exponent uint32
	Inverse  bool
}

// Kind returns the S-box kind packed into the seed.
func (a Alpha) Kind() uint64 {
	if a.Inverse {
		return SBoxInverse
	}
	return SBoxPower
}

// Set is the public parameter set constants are derived from. Everything
// but the exponent and the modulus value enters the generator seed.
type Set struct {
	FieldKind     field.Kind
	FieldBits     int
	StateSize     int
	FullRounds    int
	PartialRounds int
	Alpha         Alpha

	// Modulus is the prime p for prime fields or the irreducible reduction
	// polynomial for binary fields, with bit i the coefficient of x^i.
	Modulus *big.Int
}

// Seed returns the initial Grain register for the set.
func (s Set) Seed() grain.Seed {
	return grain.PackSeed(uint64(s.FieldKind), s.Alpha.Kind(), uint64(s.FieldBits),
		uint64(s.StateSize), uint64(s.FullRounds), uint64(s.PartialRounds))
}

// Rounds returns R_F + R_P.
func (s Set) Rounds() int { return s.FullRounds + s.PartialRounds }

// NumConstants returns the number of round constants, (R_F + R_P) * t.
func (s Set) NumConstants() int { return s.Rounds() * s.StateSize }

// NewField builds the arithmetic for the set. With generic set, prime fields
// use math/big even when a Montgomery backend exists.
func (s Set) NewField(generic bool) (field.Field, error) {
	if generic && s.FieldKind == field.Prime {
		return field.NewPrimeField(s.Modulus), nil
	}
	return field.New(s.FieldKind, s.Modulus)
}

// Parameters bundles all constants needed by the permutation.
type Parameters struct {
	Set
	Field field.Field

	// Arc holds the raw round constants, row r being round r.
	Arc []field.Element
	// OptimizedArc holds the constants of the partial round schedule: inside
	// the partial rounds only the first entry of each row is non-zero.
	OptimizedArc []field.Element
	// MDS is the t x t matrix, row-major.
	MDS []field.Element

	OptimizedMDS OptimizedMDS

	// Candidates is the number of matrices checked, the accepted one
	// included. Draws is the number of n-bit values read from the generator.
	Candidates int
	Draws      int
}

// OptimizedMDS holds the factorisation of the partial round linear layers
// into one dense matrix and R_P sparse ones.
type OptimizedMDS struct {
	// M00 is MDS[0][0], shared by every sparse matrix.
	M00 field.Element
	// MI is the dense matrix applied once before the partial rounds, stored
	// row-major in the orientation it multiplies the state: s' = MI * s.
	MI []field.Element

	// VCollection and WHatCollection hold R_P rows of t-1 entries each. Row 0
	// belongs to the last partial round, row R_P-1 to the first.
	VCollection    []field.Element
	WHatCollection []field.Element
}

// MDSRow returns row i of the MDS matrix.
func (p *Parameters) MDSRow(i int) []field.Element {
	return p.MDS[i*p.StateSize : (i+1)*p.StateSize]
}

// ArcRow returns the raw constants of round r.
func (p *Parameters) ArcRow(r int) []field.Element {
	return p.Arc[r*p.StateSize : (r+1)*p.StateSize]
}
