// Package sample turns the Grain bit stream into field elements: the round
// constant table and Cauchy MDS candidates.
package sample

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vocdoni/poseidongen/field"
	"github.com/vocdoni/poseidongen/internal/linalg"
	"github.com/vocdoni/poseidongen/internal/params"
)

// Source yields big-endian groups of bits. *grain.Generator implements it.
type Source interface {
	ReadBits(k int) *big.Int
}

// Mode selects how an n-bit draw that is not a canonical prime field
// element is handled. Binary field draws are always canonical.
type Mode int

const (
	// Reject redraws until the value is below p.
	Reject Mode = iota
	// Reduce keeps the value modulo p.
	Reduce
)

func (m Mode) String() string {
	switch m {
	case Reject:
		return "reject"
	case Reduce:
		return "reduce"
	default:
		return "unknown"
	}
}

// Sampler draws field elements of n bits each.
type Sampler struct {
	src   Source
	field field.Field
	nBits int

	maxDraws int
	draws    int
	rejected int
}

// New returns a sampler drawing nBits per element. When maxDraws is positive
// the sampler fails with params.ErrGenerationExhausted once that many n-bit
// values have been read.
func New(src Source, f field.Field, nBits, maxDraws int) *Sampler {
	return &Sampler{src: src, field: f, nBits: nBits, maxDraws: maxDraws}
}

// Draws returns the number of n-bit values read so far.
func (s *Sampler) Draws() int { return s.draws }

// Rejected returns the number of draws discarded for being out of range.
func (s *Sampler) Rejected() int { return s.rejected }

func (s *Sampler) read() (*big.Int, error) {
	if s.maxDraws > 0 && s.draws >= s.maxDraws {
		return nil, errors.Wrapf(params.ErrGenerationExhausted, "sample: draw limit %d reached", s.maxDraws)
	}
	s.draws++
	return s.src.ReadBits(s.nBits), nil
}

// Element draws one field element.
func (s *Sampler) Element(mode Mode) (field.Element, error) {
	for {
		v, err := s.read()
		if err != nil {
			return nil, err
		}
		if s.field.Contains(v) {
			return s.field.FromBigInt(v), nil
		}
		if mode == Reduce {
			return s.field.FromBigInt(v.Mod(v, s.field.Order())), nil
		}
		s.rejected++
	}
}

// RoundConstants draws count constants in order. Prime field draws are
// rejected while they are not below p.
func (s *Sampler) RoundConstants(count int) ([]field.Element, error) {
	out := make([]field.Element, count)
	for i := range out {
		e, err := s.Element(Reject)
		if err != nil {
			return nil, errors.Wrapf(err, "round constant %d", i)
		}
		out[i] = e
	}
	return out, nil
}

// Cauchy draws a t x t Cauchy matrix M[i][j] = 1/(x_i + y_j). The 2t values
// are redrawn as a batch until they are pairwise distinct and no x_i + y_j
// vanishes.
func (s *Sampler) Cauchy(t int, mode Mode) (*linalg.Matrix, error) {
	for {
		vals := make([]field.Element, 2*t)
		distinct := false
		for !distinct {
			for i := range vals {
				e, err := s.Element(mode)
				if err != nil {
					return nil, errors.Wrap(err, "cauchy matrix")
				}
				vals[i] = e
			}
			distinct = allDistinct(vals)
		}
		xs, ys := vals[:t], vals[t:]

		m := linalg.New(s.field, t, t)
		ok := true
		for i := 0; i < t && ok; i++ {
			for j := 0; j < t; j++ {
				sum := xs[i].Add(ys[j])
				if sum.IsZero() {
					ok = false
					break
				}
				m.Set(i, j, sum.Inv())
			}
		}
		if ok {
			return m, nil
		}
	}
}

func allDistinct(vals []field.Element) bool {
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		k := v.BigInt().Text(16)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}
