// Package security implements the invariant subspace checks a candidate
// MDS matrix must pass before it is used in a Poseidon permutation.
//
// All checks are run with s = 1, the number of S-boxes per partial round.
package security

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vocdoni/poseidongen/field"
	"github.com/vocdoni/poseidongen/internal/linalg"
)

// sboxes is the number of cells going through an S-box in a partial round.
const sboxes = 1

// Reason explains why a matrix was rejected.
type Reason int

const (
	// Secure means no weakness was found.
	Secure Reason = iota
	// ScalarPower means some power M^i is a scalar matrix.
	ScalarPower
	// EigenspaceTrail means an eigenspace of M^i meets the trail subspace
	// in a non-trivial proper subspace.
	EigenspaceTrail
	// InvariantTrail means the trail subspace is mapped onto itself by a
	// power of M.
	InvariantTrail
	// InvariantOrbit means the orbit of the S-box coordinates stops growing
	// inside a proper subspace.
	InvariantOrbit
)

func (r Reason) String() string {
	switch r {
	case Secure:
		return "secure"
	case ScalarPower:
		return "scalar power"
	case EigenspaceTrail:
		return "eigenspace trail"
	case InvariantTrail:
		return "invariant trail"
	case InvariantOrbit:
		return "invariant orbit"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Verdict is the outcome of a check. Algorithm is the failing check (1, 2
// or 3) and zero on success; Power is the exponent of M at which the
// weakness shows.
type Verdict struct {
	Secure    bool
	Algorithm int
	Reason    Reason
	Power     int
}

var pass = Verdict{Secure: true}

func (v Verdict) String() string {
	if v.Secure {
		return "secure"
	}
	return fmt.Sprintf("algorithm %d: %s at power %d", v.Algorithm, v.Reason, v.Power)
}

// Check runs the three algorithms in order and reports the first failure.
func Check(m *linalg.Matrix) (Verdict, error) {
	v, err := Algorithm1(m)
	if err != nil || !v.Secure {
		return v, err
	}
	if v := Algorithm2(m); !v.Secure {
		return v, nil
	}
	return Algorithm3(m), nil
}

// Algorithm1 looks for infinitely long subspace trails: for i = 1 .. t-1 it
// rejects M when M^i is scalar, when an eigenspace of M^i meets the trail
// subspace S_i non-trivially, or when S_i is invariant under some M^j with
// j <= i.
func Algorithm1(m *linalg.Matrix) (Verdict, error) {
	t := m.Rows()
	f := m.F
	rounds := (t - 1) / sboxes

	powers := make([]*linalg.Matrix, rounds+1)
	powers[0] = linalg.Identity(f, t)
	for i := 1; i <= rounds; i++ {
		powers[i] = powers[i-1].Mul(m)
	}

	for i := 1; i <= rounds; i++ {
		mi := powers[i]
		fail := Verdict{Algorithm: 1, Power: i}
		if mi.IsScalar() {
			fail.Reason = ScalarPower
			return fail, nil
		}

		trail := trailSubspace(f, t, i, powers)

		eigenvalues, err := linalg.Eigenvalues(mi)
		if err != nil {
			return Verdict{}, errors.Wrapf(err, "security: eigenvalues of M^%d", i)
		}
		is := linalg.Span(f, t)
		for _, lambda := range eigenvalues {
			is = is.Sum(trail.Intersect(linalg.Eigenspace(mi, lambda)))
		}
		if is.Dim() >= 1 && is.Dim() < t {
			fail.Reason = EigenspaceTrail
			return fail, nil
		}

		for j := 1; j <= i; j++ {
			if trail.Image(powers[j]).Equal(trail) {
				fail.Reason = InvariantTrail
				fail.Power = j
				return fail, nil
			}
		}
	}
	return pass, nil
}

// trailSubspace returns S_i. S_1 is spanned by e_1 .. e_{t-1}; for i >= 2 it
// holds the vectors with a zero first coordinate whose remaining coordinates
// are orthogonal to row 0 of M^k, without its first entry, for k < i.
func trailSubspace(f field.Field, t, i int, powers []*linalg.Matrix) *linalg.Subspace {
	if i == 1 {
		units := make([]linalg.Vector, 0, t-1)
		for k := 1; k < t; k++ {
			units = append(units, linalg.Unit(f, t, k))
		}
		return linalg.Span(f, t, units...)
	}
	rows := make([]linalg.Vector, 0, i-1)
	for k := 1; k < i; k++ {
		rows = append(rows, powers[k].Row(0)[1:])
	}
	kernel := linalg.Kernel(linalg.FromRows(f, rows))
	basis := make([]linalg.Vector, 0, kernel.Dim())
	for _, b := range kernel.Basis() {
		basis = append(basis, append(linalg.Vector{f.Zero()}, b...))
	}
	return linalg.Span(f, t, basis...)
}

// Algorithm2 grows, for every non-empty subset I of the S-box coordinates,
// the subspace spanned by {e_l : l in I} under repeated multiplication by M.
// A subset is cleared when its orbit reaches the whole space or leaves
// span({e_l : l in I} and e_s .. e_{t-1}). An orbit that stops growing
// before that is an invariant subspace and M is rejected.
func Algorithm2(m *linalg.Matrix) Verdict {
	t := m.Rows()
	f := m.F

	for _, subset := range subsets(sboxes) {
		gens := make([]linalg.Vector, 0, t)
		for _, l := range subset {
			gens = append(gens, linalg.Unit(f, t, l))
		}
		is := linalg.Span(f, t, gens...)
		for k := sboxes; k < t; k++ {
			gens = append(gens, linalg.Unit(f, t, k))
		}
		allowed := linalg.Span(f, t, gens...)

		cleared := false
		for _, l := range subset {
			v := linalg.Unit(f, t, l)
			for {
				delta := is.Dim()
				v = m.MulVec(v)
				is = is.With(v)
				if is.Dim() == t || !is.Intersect(allowed).Equal(is) {
					cleared = true
					break
				}
				if is.Dim() <= delta {
					break
				}
			}
			if cleared {
				break
			}
		}
		if !cleared {
			return Verdict{Algorithm: 2, Reason: InvariantOrbit, Power: 1}
		}
	}
	return pass
}

// Algorithm3 runs Algorithm2 on M^r for r = 2 .. 4t.
func Algorithm3(m *linalg.Matrix) Verdict {
	t := m.Rows()
	mr := m
	for r := 2; r <= 4*t; r++ {
		mr = mr.Mul(m)
		if v := Algorithm2(mr); !v.Secure {
			return Verdict{Algorithm: 3, Reason: InvariantOrbit, Power: r}
		}
	}
	return pass
}

// subsets returns the non-empty subsets of {0, .., s-1}.
func subsets(s int) [][]int {
	var out [][]int
	for mask := 1; mask < 1<<uint(s); mask++ {
		var set []int
		for i := 0; i < s; i++ {
			if mask&(1<<uint(i)) != 0 {
				set = append(set, i)
			}
		}
		out = append(out, set)
	}
	return out
}
