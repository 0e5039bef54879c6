package linalg

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vocdoni/poseidongen/field"
)

// bruteForceOrder bounds the field size for which roots are found by
// evaluating the polynomial at every element.
const bruteForceOrder = 1 << 12

// maxSplitAttempts bounds the equal-degree splitting loop.
const maxSplitAttempts = 1 << 10

// ErrNoSplit is returned when root finding fails to separate the roots.
var ErrNoSplit = errors.New("linalg: could not split polynomial into linear factors")

// CharPoly returns det(xI - m) computed with Berkowitz's division free
// algorithm.
func CharPoly(m *Matrix) Poly {
	if m.Rows() != m.Cols() {
		panic("linalg: characteristic polynomial of a non-square matrix")
	}
	f := m.F
	n := m.Rows()
	if n == 0 {
		return NewPoly(f, f.One())
	}

	// vec holds the coefficients, highest degree first, of the characteristic
	// polynomial of the trailing principal submatrix processed so far.
	a := m.At(n-1, n-1)
	vec := []field.Element{f.One(), a.Neg()}
	for k := n - 2; k >= 0; k-- {
		sub := m.Submatrix(k, k, n-k, n-k)
		vec = toeplitzMul(f, berkowitzColumn(sub), vec)
	}

	coeffs := make([]field.Element, len(vec))
	for i, c := range vec {
		coeffs[len(vec)-1-i] = c
	}
	return NewPoly(f, coeffs...)
}

// berkowitzColumn returns [1, -a, -R C, -R A C, ..., -R A^(r-2) C] for the
// partition m = [[a, R], [C, A]] of an r x r matrix.
func berkowitzColumn(m *Matrix) []field.Element {
	f := m.F
	r := m.Rows()
	a := m.At(0, 0)
	row := m.Submatrix(0, 1, 1, r-1).Row(0)
	col := m.Submatrix(1, 0, r-1, 1).Col(0)
	inner := m.Submatrix(1, 1, r-1, r-1)

	out := []field.Element{f.One(), a.Neg()}
	for i := 0; i < r-1; i++ {
		dot := f.Zero()
		for j := range row {
			dot = dot.Add(row[j].Mul(col[j]))
		}
		out = append(out, dot.Neg())
		col = inner.MulVec(col)
	}
	return out
}

// toeplitzMul multiplies the (len(c)) x (len(c)-1) lower triangular Toeplitz
// matrix with first column c by v.
func toeplitzMul(f field.Field, c, v []field.Element) []field.Element {
	out := make([]field.Element, len(c))
	for i := range out {
		sum := f.Zero()
		for j := 0; j < len(v) && j <= i; j++ {
			sum = sum.Add(c[i-j].Mul(v[j]))
		}
		out[i] = sum
	}
	return out
}

// Roots returns the distinct roots of p lying in F, in ascending order of
// their canonical integers for small fields and in discovery order
// otherwise.
func Roots(p Poly) ([]field.Element, error) {
	if p.IsZero() {
		return nil, errors.New("linalg: roots of the zero polynomial")
	}
	f := p.F
	if p.Degree() < 1 {
		return nil, nil
	}
	q := f.Order()
	if q.Cmp(big.NewInt(bruteForceOrder)) <= 0 {
		var roots []field.Element
		for i := int64(0); i < q.Int64(); i++ {
			x := f.FromBigInt(big.NewInt(i))
			if p.Eval(x).IsZero() {
				roots = append(roots, x)
			}
		}
		return roots, nil
	}

	// g = gcd(p, x^q - x) is the product of (x - r) over the roots r in F.
	x := Monomial(f, f.One(), 1)
	g := GCD(p, x.PowMod(q, p).Sub(x))
	var roots []field.Element
	if err := split(g, &roots); err != nil {
		return nil, err
	}
	return roots, nil
}

// split appends the roots of g, a monic product of distinct linear factors.
func split(g Poly, roots *[]field.Element) error {
	switch g.Degree() {
	case -1, 0:
		return nil
	case 1:
		*roots = append(*roots, g.Coeff(0).Neg())
		return nil
	}
	f := g.F
	for attempt := 0; attempt < maxSplitAttempts; attempt++ {
		h, ok := splitter(g, attempt)
		if !ok {
			break
		}
		d := GCD(g, h)
		if d.Degree() > 0 && d.Degree() < g.Degree() {
			rest, _ := g.DivMod(d)
			if err := split(d, roots); err != nil {
				return err
			}
			return split(rest.Monic(), roots)
		}
	}
	return errors.Wrapf(ErrNoSplit, "degree %d over %s", g.Degree(), f)
}

// splitter returns the attempt-th candidate whose gcd with g may split it.
//
// In odd characteristic this is (x + d)^((q-1)/2) - 1 with d = attempt,
// which separates roots r by whether r + d is a square. In characteristic 2
// it is the trace map Tr(d x) = Σ (d x)^(2^i) with d the attempt-th power
// basis element; since the trace form is non-degenerate some basis element
// separates any two distinct roots.
func splitter(g Poly, attempt int) (Poly, bool) {
	f := g.F
	if f.Characteristic().Cmp(big.NewInt(2)) == 0 {
		n := f.Degree()
		if attempt >= n {
			return Poly{}, false
		}
		d := f.FromBigInt(new(big.Int).Lsh(big.NewInt(1), uint(attempt)))
		term := Monomial(f, d, 1).Mod(g)
		tr := term
		for i := 1; i < n; i++ {
			term = term.Mul(term).Mod(g)
			tr = tr.Add(term)
		}
		return tr, true
	}

	q := f.Order()
	if big.NewInt(int64(attempt)).Cmp(q) >= 0 {
		return Poly{}, false
	}
	half := new(big.Int).Rsh(new(big.Int).Sub(q, big.NewInt(1)), 1)
	lin := NewPoly(f, f.FromUint64(uint64(attempt)), f.One())
	return lin.PowMod(half, g).Sub(NewPoly(f, f.One())), true
}

// Eigenvalues returns the distinct eigenvalues of m that lie in the base
// field.
func Eigenvalues(m *Matrix) ([]field.Element, error) {
	return Roots(CharPoly(m))
}

// Eigenspace returns ker(m - λI).
func Eigenspace(m *Matrix, lambda field.Element) *Subspace {
	return Kernel(m.Sub(Scalar(m.F, m.Rows(), lambda)))
}
