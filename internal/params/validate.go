package params

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vocdoni/poseidongen/field"
)

// Limits imposed by the seed layout.
const (
	MaxFieldBits     = 1<<12 - 1
	MaxStateSize     = 1<<12 - 1
	MaxFullRounds    = 1<<10 - 1
	MaxPartialRounds = 1<<10 - 1
)

// Validate checks that the set is well formed and fits the seed layout.
// Every failure wraps ErrUsage.
func (s Set) Validate() error {
	if s.FieldKind != field.Prime && s.FieldKind != field.BinaryExtension {
		return usagef("unknown field kind %d", s.FieldKind)
	}
	if !s.Alpha.Inverse && s.Alpha.Exponent < 3 {
		return usagef("power S-box needs alpha >= 3, got %d", s.Alpha.Exponent)
	}
	if s.FieldBits < 1 || s.FieldBits > MaxFieldBits {
		return usagef("field size n=%d out of range [1, %d]", s.FieldBits, MaxFieldBits)
	}
	if s.StateSize < 2 || s.StateSize > MaxStateSize {
		return usagef("state width t=%d out of range [2, %d]", s.StateSize, MaxStateSize)
	}
	if s.FullRounds%2 != 0 {
		return usagef("full rounds must be even, got %d", s.FullRounds)
	}
	if s.FullRounds < 2 || s.FullRounds > MaxFullRounds {
		return usagef("full rounds R_F=%d out of range [2, %d]", s.FullRounds, MaxFullRounds)
	}
	if s.PartialRounds < 1 || s.PartialRounds > MaxPartialRounds {
		return usagef("partial rounds R_P=%d out of range [1, %d]", s.PartialRounds, MaxPartialRounds)
	}
	if s.Modulus == nil || s.Modulus.Sign() <= 0 {
		return usagef("missing modulus")
	}

	switch s.FieldKind {
	case field.Prime:
		if s.Modulus.Cmp(big.NewInt(2)) <= 0 {
			return usagef("prime modulus must be greater than 2, got %s", s.Modulus)
		}
		if s.Modulus.BitLen() > s.FieldBits {
			return usagef("modulus has %d bits, more than n=%d", s.Modulus.BitLen(), s.FieldBits)
		}
		if !s.Modulus.ProbablyPrime(20) {
			return usagef("modulus %#x is not prime", s.Modulus)
		}
	case field.BinaryExtension:
		if deg := s.Modulus.BitLen() - 1; deg != s.FieldBits {
			return usagef("reduction polynomial has degree %d, want n=%d", deg, s.FieldBits)
		}
		if !field.IsIrreducible(s.Modulus) {
			return usagef("reduction polynomial %#x is reducible", s.Modulus)
		}
	}
	return nil
}

// Validate checks basic shape and sizes of a generated parameter bundle.
func Validate(p *Parameters) error {
	if p.Field == nil {
		return errors.New("poseidongen: missing field")
	}
	if p.FullRounds%2 != 0 {
		return errors.Errorf("poseidongen: full rounds must be even, got %d", p.FullRounds)
	}
	width := p.StateSize
	expectedRounds := p.NumConstants()
	if len(p.OptimizedArc) != expectedRounds {
		return errors.New("poseidongen: optimized arc length mismatch")
	}
	if len(p.Arc) != expectedRounds {
		return errors.New("poseidongen: arc length mismatch")
	}
	if len(p.MDS) != width*width {
		return errors.New("poseidongen: mds length mismatch")
	}
	if len(p.OptimizedMDS.MI) != width*width {
		return errors.New("poseidongen: M_i length mismatch")
	}
	if p.OptimizedMDS.M00 == nil {
		return errors.New("poseidongen: missing M_00")
	}
	expectedSparse := p.PartialRounds * (width - 1)
	if len(p.OptimizedMDS.VCollection) != expectedSparse || len(p.OptimizedMDS.WHatCollection) != expectedSparse {
		return errors.New("poseidongen: sparse collection length mismatch")
	}
	return nil
}
