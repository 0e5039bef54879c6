package field

import (
	"fmt"
	"math/big"
)

// PrimeField represents a prime finite field F_p
type PrimeField struct {
	p *big.Int // the prime modulus
}

// NewPrimeField creates a new prime field
func NewPrimeField(p *big.Int) *PrimeField {
	return &PrimeField{p: new(big.Int).Set(p)}
}

// PrimeFieldElement represents an element in a prime field
type PrimeFieldElement struct {
	value *big.Int    // element value in range [0, p-1]
	field *PrimeField // reference to parent field
}

func (f *PrimeField) Kind() Kind { return Prime }

// Zero returns the additive identity element (0)
func (f *PrimeField) Zero() Element {
	return f.wrap(big.NewInt(0))
}

// One returns the multiplicative identity element (1)
func (f *PrimeField) One() Element {
	return f.wrap(big.NewInt(1))
}

func (f *PrimeField) FromBigInt(v *big.Int) Element {
	if !f.Contains(v) {
		panic(fmt.Sprintf("field: %s is not a residue modulo %s", v, f.p))
	}
	return f.wrap(new(big.Int).Set(v))
}

func (f *PrimeField) FromUint64(v uint64) Element {
	return f.wrap(new(big.Int).Mod(new(big.Int).SetUint64(v), f.p))
}

func (f *PrimeField) Contains(v *big.Int) bool {
	return v.Sign() >= 0 && v.Cmp(f.p) < 0
}

func (f *PrimeField) Order() *big.Int          { return new(big.Int).Set(f.p) }
func (f *PrimeField) Characteristic() *big.Int { return new(big.Int).Set(f.p) }
func (f *PrimeField) Degree() int              { return 1 }
func (f *PrimeField) Modulus() *big.Int        { return new(big.Int).Set(f.p) }

func (f *PrimeField) String() string {
	return fmt.Sprintf("GF(%#x)", f.p)
}

func (f *PrimeField) wrap(v *big.Int) *PrimeFieldElement {
	return &PrimeFieldElement{value: v, field: f}
}

// peer asserts b belongs to the same field as e.
func (e *PrimeFieldElement) peer(b Element) *PrimeFieldElement {
	other, ok := b.(*PrimeFieldElement)
	if !ok || (other.field != e.field && other.field.p.Cmp(e.field.p) != 0) {
		panic("incompatible field elements")
	}
	return other
}

// Add returns e + b mod p
func (e *PrimeFieldElement) Add(b Element) Element {
	other := e.peer(b)
	r := new(big.Int).Add(e.value, other.value)
	if r.Cmp(e.field.p) >= 0 {
		r.Sub(r, e.field.p)
	}
	return e.field.wrap(r)
}

// Sub returns e - b mod p
func (e *PrimeFieldElement) Sub(b Element) Element {
	other := e.peer(b)
	r := new(big.Int).Sub(e.value, other.value)
	if r.Sign() < 0 {
		r.Add(r, e.field.p)
	}
	return e.field.wrap(r)
}

func (e *PrimeFieldElement) Neg() Element {
	if e.value.Sign() == 0 {
		return e.field.Zero()
	}
	return e.field.wrap(new(big.Int).Sub(e.field.p, e.value))
}

// Mul returns e * b mod p
func (e *PrimeFieldElement) Mul(b Element) Element {
	other := e.peer(b)
	r := new(big.Int).Mul(e.value, other.value)
	return e.field.wrap(r.Mod(r, e.field.p))
}

// Inv returns the multiplicative inverse of e
func (e *PrimeFieldElement) Inv() Element {
	if e.IsZero() {
		panic("zero element is not invertible")
	}
	r := new(big.Int).ModInverse(e.value, e.field.p)
	if r == nil {
		panic("element is not invertible, modulus is not prime")
	}
	return e.field.wrap(r)
}

func (e *PrimeFieldElement) Exp(k *big.Int) Element {
	if k.Sign() < 0 {
		panic("field: negative exponent")
	}
	return e.field.wrap(new(big.Int).Exp(e.value, k, e.field.p))
}

// IsZero returns true if e equals zero
func (e *PrimeFieldElement) IsZero() bool {
	return e.value.Sign() == 0
}

// Equal returns true if e equals b
func (e *PrimeFieldElement) Equal(b Element) bool {
	other, ok := b.(*PrimeFieldElement)
	if !ok {
		return false
	}
	return e.value.Cmp(other.value) == 0 && e.field.p.Cmp(other.field.p) == 0
}

// BigInt returns a copy of the underlying residue
func (e *PrimeFieldElement) BigInt() *big.Int {
	return new(big.Int).Set(e.value)
}

// String returns the string representation of e
func (e *PrimeFieldElement) String() string {
	return fmt.Sprintf("%#x", e.value)
}
