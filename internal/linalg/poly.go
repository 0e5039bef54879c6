package linalg

import (
	"math/big"

	"github.com/vocdoni/poseidongen/field"
)

// Poly is a univariate polynomial over F with c[i] the coefficient of x^i.
// The coefficient slice never carries leading zeros; the zero polynomial has
// none at all.
type Poly struct {
	F field.Field
	c []field.Element
}

// NewPoly builds a polynomial from little-endian coefficients.
func NewPoly(f field.Field, coeffs ...field.Element) Poly {
	c := make([]field.Element, len(coeffs))
	copy(c, coeffs)
	return Poly{F: f, c: trim(c)}
}

// Monomial returns c*x^k.
func Monomial(f field.Field, c field.Element, k int) Poly {
	coeffs := make([]field.Element, k+1)
	for i := range coeffs {
		coeffs[i] = f.Zero()
	}
	coeffs[k] = c
	return NewPoly(f, coeffs...)
}

func trim(c []field.Element) []field.Element {
	for len(c) > 0 && c[len(c)-1].IsZero() {
		c = c[:len(c)-1]
	}
	return c
}

// Degree returns the degree, -1 for the zero polynomial.
func (p Poly) Degree() int { return len(p.c) - 1 }

func (p Poly) IsZero() bool { return len(p.c) == 0 }

func (p Poly) Coeff(i int) field.Element {
	if i < 0 || i >= len(p.c) {
		return p.F.Zero()
	}
	return p.c[i]
}

// Lead returns the leading coefficient. It panics on the zero polynomial.
func (p Poly) Lead() field.Element { return p.c[len(p.c)-1] }

func (p Poly) Add(q Poly) Poly {
	n := max(len(p.c), len(q.c))
	out := make([]field.Element, n)
	for i := range out {
		out[i] = p.Coeff(i).Add(q.Coeff(i))
	}
	return Poly{F: p.F, c: trim(out)}
}

func (p Poly) Sub(q Poly) Poly {
	n := max(len(p.c), len(q.c))
	out := make([]field.Element, n)
	for i := range out {
		out[i] = p.Coeff(i).Sub(q.Coeff(i))
	}
	return Poly{F: p.F, c: trim(out)}
}

func (p Poly) Mul(q Poly) Poly {
	if p.IsZero() || q.IsZero() {
		return Poly{F: p.F}
	}
	out := make([]field.Element, len(p.c)+len(q.c)-1)
	for i := range out {
		out[i] = p.F.Zero()
	}
	for i, a := range p.c {
		if a.IsZero() {
			continue
		}
		for j, b := range q.c {
			out[i+j] = out[i+j].Add(a.Mul(b))
		}
	}
	return Poly{F: p.F, c: trim(out)}
}

// Scale returns c*p.
func (p Poly) Scale(c field.Element) Poly {
	out := make([]field.Element, len(p.c))
	for i, a := range p.c {
		out[i] = a.Mul(c)
	}
	return Poly{F: p.F, c: trim(out)}
}

// DivMod returns q, r with p = q*d + r and deg r < deg d.
func (p Poly) DivMod(d Poly) (Poly, Poly) {
	if d.IsZero() {
		panic("linalg: polynomial division by zero")
	}
	if p.Degree() < d.Degree() {
		return Poly{F: p.F}, p
	}
	r := make([]field.Element, len(p.c))
	copy(r, p.c)
	q := make([]field.Element, len(p.c)-len(d.c)+1)
	inv := d.Lead().Inv()
	dd := d.Degree()
	for k := len(q) - 1; k >= 0; k-- {
		c := r[k+dd].Mul(inv)
		q[k] = c
		if c.IsZero() {
			continue
		}
		for j := 0; j <= dd; j++ {
			r[k+j] = r[k+j].Sub(c.Mul(d.c[j]))
		}
	}
	return Poly{F: p.F, c: trim(q)}, Poly{F: p.F, c: trim(r[:dd])}
}

func (p Poly) Mod(d Poly) Poly {
	_, r := p.DivMod(d)
	return r
}

// Monic scales p to a leading coefficient of one.
func (p Poly) Monic() Poly {
	if p.IsZero() {
		return p
	}
	return p.Scale(p.Lead().Inv())
}

// GCD returns the monic greatest common divisor.
func GCD(a, b Poly) Poly {
	for !b.IsZero() {
		a, b = b, a.Mod(b)
	}
	return a.Monic()
}

// PowMod returns p^e mod m.
func (p Poly) PowMod(e *big.Int, m Poly) Poly {
	acc := NewPoly(p.F, p.F.One()).Mod(m)
	base := p.Mod(m)
	for i := e.BitLen() - 1; i >= 0; i-- {
		acc = acc.Mul(acc).Mod(m)
		if e.Bit(i) == 1 {
			acc = acc.Mul(base).Mod(m)
		}
	}
	return acc
}

// Eval evaluates p at x with Horner's rule.
func (p Poly) Eval(x field.Element) field.Element {
	acc := p.F.Zero()
	for i := len(p.c) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(p.c[i])
	}
	return acc
}
