package field

import (
	"fmt"
	"math/big"
)

// BinaryField represents a binary finite field GF(2^n)
type BinaryField struct {
	n           int      // field extension degree
	irreducible *big.Int // irreducible polynomial, bit i is the coefficient of x^i
}

// NewBinaryField creates a new binary field GF(2^n) with given irreducible polynomial
func NewBinaryField(n int, irreducible *big.Int) *BinaryField {
	return &BinaryField{
		n:           n,
		irreducible: new(big.Int).Set(irreducible),
	}
}

// BinaryFieldElement represents an element in a binary field
type BinaryFieldElement struct {
	value *big.Int     // polynomial representation
	field *BinaryField // reference to parent field
}

func (f *BinaryField) Kind() Kind { return BinaryExtension }

// Zero returns the additive identity element (0)
func (f *BinaryField) Zero() Element {
	return f.wrap(big.NewInt(0))
}

// One returns the multiplicative identity element (1)
func (f *BinaryField) One() Element {
	return f.wrap(big.NewInt(1))
}

func (f *BinaryField) FromBigInt(v *big.Int) Element {
	if !f.Contains(v) {
		panic(fmt.Sprintf("field: %#x does not fit GF(2^%d)", v, f.n))
	}
	return f.wrap(new(big.Int).Set(v))
}

func (f *BinaryField) FromUint64(v uint64) Element {
	return f.FromBigInt(new(big.Int).SetUint64(v))
}

func (f *BinaryField) Contains(v *big.Int) bool {
	return v.Sign() >= 0 && v.BitLen() <= f.n
}

func (f *BinaryField) Order() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(f.n))
}

func (f *BinaryField) Characteristic() *big.Int { return big.NewInt(2) }
func (f *BinaryField) Degree() int              { return f.n }
func (f *BinaryField) Modulus() *big.Int        { return new(big.Int).Set(f.irreducible) }

func (f *BinaryField) String() string {
	return fmt.Sprintf("GF(2^%d)/%#x", f.n, f.irreducible)
}

func (f *BinaryField) wrap(v *big.Int) *BinaryFieldElement {
	return &BinaryFieldElement{value: v, field: f}
}

func (e *BinaryFieldElement) peer(b Element) *BinaryFieldElement {
	other, ok := b.(*BinaryFieldElement)
	if !ok || (other.field != e.field && other.field.irreducible.Cmp(e.field.irreducible) != 0) {
		panic("incompatible field elements")
	}
	return other
}

// Add returns e + b in the field (XOR operation)
func (e *BinaryFieldElement) Add(b Element) Element {
	other := e.peer(b)
	return e.field.wrap(new(big.Int).Xor(e.value, other.value))
}

// Sub returns e - b in the field (same as Add in GF(2^n))
func (e *BinaryFieldElement) Sub(b Element) Element {
	return e.Add(b)
}

// Neg is the identity in characteristic 2
func (e *BinaryFieldElement) Neg() Element {
	return e
}

// Mul returns e * b in the field using polynomial multiplication with reduction
func (e *BinaryFieldElement) Mul(b Element) Element {
	other := e.peer(b)
	return e.field.wrap(e.field.reduce(clmul(e.value, other.value)))
}

// reduce performs polynomial reduction modulo the irreducible polynomial
func (f *BinaryField) reduce(val *big.Int) *big.Int {
	result := new(big.Int).Set(val)
	shifted := new(big.Int)
	for result.BitLen() > f.n {
		shift := result.BitLen() - 1 - f.n
		shifted.Lsh(f.irreducible, uint(shift))
		result.Xor(result, shifted)
	}
	return result
}

// Inv returns the multiplicative inverse of e using extended Euclidean algorithm
func (e *BinaryFieldElement) Inv() Element {
	if e.IsZero() {
		panic("zero element is not invertible")
	}

	oldR := new(big.Int).Set(e.field.irreducible)
	r := new(big.Int).Set(e.value)
	oldS := big.NewInt(0)
	s := big.NewInt(1)

	for r.Sign() > 0 {
		q, remainder := polyDivMod(oldR, r)
		oldR, r = r, remainder
		oldS, s = s, new(big.Int).Xor(oldS, clmul(q, s))
	}
	if oldR.Cmp(big.NewInt(1)) != 0 {
		panic("element is not invertible, reduction polynomial is not irreducible")
	}
	return e.field.wrap(e.field.reduce(oldS))
}

func (e *BinaryFieldElement) Exp(k *big.Int) Element {
	return expBySquaring(e, e.field.One(), k)
}

// IsZero returns true if e equals zero
func (e *BinaryFieldElement) IsZero() bool {
	return e.value.Sign() == 0
}

// Equal returns true if e equals b
func (e *BinaryFieldElement) Equal(b Element) bool {
	other, ok := b.(*BinaryFieldElement)
	if !ok {
		return false
	}
	return e.value.Cmp(other.value) == 0 && e.field.irreducible.Cmp(other.field.irreducible) == 0
}

// BigInt returns the underlying big.Int value
func (e *BinaryFieldElement) BigInt() *big.Int {
	return new(big.Int).Set(e.value)
}

// String returns the string representation of e
func (e *BinaryFieldElement) String() string {
	return fmt.Sprintf("%#x", e.value)
}

// clmul multiplies two polynomials over GF(2).
func clmul(a, b *big.Int) *big.Int {
	result := big.NewInt(0)
	shifted := new(big.Int).Set(a)
	for i := 0; i < b.BitLen(); i++ {
		if b.Bit(i) == 1 {
			result.Xor(result, shifted)
		}
		shifted.Lsh(shifted, 1)
	}
	return result
}

// polyDivMod performs polynomial division in GF(2)
func polyDivMod(a, b *big.Int) (*big.Int, *big.Int) {
	if b.Sign() == 0 {
		panic("division by zero polynomial")
	}

	quotient := big.NewInt(0)
	remainder := new(big.Int).Set(a)
	bDegree := b.BitLen() - 1
	temp := new(big.Int)

	for remainder.BitLen() > bDegree {
		shift := remainder.BitLen() - 1 - bDegree
		quotient.SetBit(quotient, shift, 1)
		temp.Lsh(b, uint(shift))
		remainder.Xor(remainder, temp)
	}
	return quotient, remainder
}

// IsIrreducible reports whether the GF(2) polynomial poly is irreducible,
// using Rabin's test: x^(2^n) = x mod poly and gcd(x^(2^(n/d)) - x, poly) = 1
// for every prime d dividing n.
func IsIrreducible(poly *big.Int) bool {
	n := poly.BitLen() - 1
	if n < 1 {
		return false
	}
	if n == 1 {
		return true
	}
	f := NewBinaryField(n, poly)
	x := big.NewInt(2)
	// x^(2^k) mod poly
	frob := func(k int) *big.Int {
		acc := new(big.Int).Set(x)
		for i := 0; i < k; i++ {
			acc = f.reduce(clmul(acc, acc))
		}
		return acc
	}
	if frob(n).Cmp(x) != 0 {
		return false
	}
	for _, d := range primeFactors(n) {
		h := new(big.Int).Xor(frob(n/d), x)
		if gf2GCD(h, poly).Cmp(big.NewInt(1)) != 0 {
			return false
		}
	}
	return true
}

func gf2GCD(a, b *big.Int) *big.Int {
	a, b = new(big.Int).Set(a), new(big.Int).Set(b)
	for b.Sign() != 0 {
		_, r := polyDivMod(a, b)
		a, b = b, r
	}
	return a
}

func primeFactors(n int) []int {
	var out []int
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			out = append(out, d)
			for n%d == 0 {
				n /= d
			}
		}
	}
	if n > 1 {
		out = append(out, n)
	}
	return out
}
