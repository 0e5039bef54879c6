package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12377fr "github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	bls12381fr "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	bw6761fr "github.com/consensys/gnark-crypto/ecc/bw6-761/fr"
	"github.com/consensys/gnark-crypto/field/goldilocks"
)

// montgomery is the method set shared by the gnark-crypto generated field
// elements (fr.Element, goldilocks.Element, ...).
type montgomery[T any] interface {
	*T
	Add(x, y *T) *T
	Sub(x, y *T) *T
	Neg(x *T) *T
	Mul(x, y *T) *T
	Inverse(x *T) *T
	Exp(x T, k *big.Int) *T
	Equal(x *T) bool
	IsZero() bool
	SetOne() *T
	SetBigInt(v *big.Int) *T
	BigInt(res *big.Int) *big.Int
}

// MontgomeryField is a prime field backed by gnark-crypto's fixed-modulus
// Montgomery arithmetic. It is interchangeable with a PrimeField over the
// same modulus.
type MontgomeryField[T any, PT montgomery[T]] struct {
	name    string
	pkg     string
	curve   ecc.ID
	limbs   int
	modulus *big.Int
}

type MontgomeryElement[T any, PT montgomery[T]] struct {
	v     T
	field *MontgomeryField[T, PT]
}

var (
	BN254     = newMontgomery[bn254fr.Element]("bn254", "github.com/consensys/gnark-crypto/ecc/bn254/fr", ecc.BN254, bn254fr.Limbs, bn254fr.Modulus())
	BLS12_377 = newMontgomery[bls12377fr.Element]("bls12-377", "github.com/consensys/gnark-crypto/ecc/bls12-377/fr", ecc.BLS12_377, bls12377fr.Limbs, bls12377fr.Modulus())
	BLS12_381 = newMontgomery[bls12381fr.Element]("bls12-381", "github.com/consensys/gnark-crypto/ecc/bls12-381/fr", ecc.BLS12_381, bls12381fr.Limbs, bls12381fr.Modulus())
	BW6_761   = newMontgomery[bw6761fr.Element]("bw6-761", "github.com/consensys/gnark-crypto/ecc/bw6-761/fr", ecc.BW6_761, bw6761fr.Limbs, bw6761fr.Modulus())
	// Goldilocks has no associated curve, Curve returns ecc.UNKNOWN.
	Goldilocks = newMontgomery[goldilocks.Element]("goldilocks", "github.com/consensys/gnark-crypto/field/goldilocks", ecc.UNKNOWN, goldilocks.Limbs, goldilocks.Modulus())
)

var knownFields = []Field{BN254, BLS12_377, BLS12_381, BW6_761, Goldilocks}

func newMontgomery[T any, PT montgomery[T]](name, pkg string, curve ecc.ID, limbs int, modulus *big.Int) *MontgomeryField[T, PT] {
	return &MontgomeryField[T, PT]{name: name, pkg: pkg, curve: curve, limbs: limbs, modulus: modulus}
}

// ForModulus returns the Montgomery backed field for p, or nil when
// gnark-crypto has no backend for it.
func ForModulus(p *big.Int) Field {
	if p == nil {
		return nil
	}
	for _, f := range knownFields {
		if f.Modulus().Cmp(p) == 0 {
			return f
		}
	}
	return nil
}

// ByName looks a gnark-crypto backed field up by its String name, e.g.
// "bn254" or "goldilocks".
func ByName(name string) Field {
	for _, f := range knownFields {
		if f.String() == name {
			return f
		}
	}
	return nil
}

func (f *MontgomeryField[T, PT]) Kind() Kind { return Prime }

func (f *MontgomeryField[T, PT]) Zero() Element {
	return &MontgomeryElement[T, PT]{field: f}
}

func (f *MontgomeryField[T, PT]) One() Element {
	e := &MontgomeryElement[T, PT]{field: f}
	PT(&e.v).SetOne()
	return e
}

func (f *MontgomeryField[T, PT]) FromBigInt(v *big.Int) Element {
	if !f.Contains(v) {
		panic(fmt.Sprintf("field: %s is not a residue modulo %s", v, f.modulus))
	}
	e := &MontgomeryElement[T, PT]{field: f}
	PT(&e.v).SetBigInt(v)
	return e
}

func (f *MontgomeryField[T, PT]) FromUint64(v uint64) Element {
	e := &MontgomeryElement[T, PT]{field: f}
	PT(&e.v).SetBigInt(new(big.Int).SetUint64(v))
	return e
}

func (f *MontgomeryField[T, PT]) Contains(v *big.Int) bool {
	return v.Sign() >= 0 && v.Cmp(f.modulus) < 0
}

func (f *MontgomeryField[T, PT]) Order() *big.Int          { return new(big.Int).Set(f.modulus) }
func (f *MontgomeryField[T, PT]) Characteristic() *big.Int { return new(big.Int).Set(f.modulus) }
func (f *MontgomeryField[T, PT]) Degree() int              { return 1 }
func (f *MontgomeryField[T, PT]) Modulus() *big.Int        { return new(big.Int).Set(f.modulus) }
func (f *MontgomeryField[T, PT]) String() string           { return f.name }

// Package returns the gnark-crypto import path of the element type.
func (f *MontgomeryField[T, PT]) Package() string { return f.pkg }

// Limbs returns the number of 64-bit words of the Montgomery representation.
func (f *MontgomeryField[T, PT]) Limbs() int { return f.limbs }

// Curve returns the curve whose scalar field this is.
func (f *MontgomeryField[T, PT]) Curve() ecc.ID { return f.curve }

// Native exposes the gnark-crypto element. It panics on a foreign element.
func (f *MontgomeryField[T, PT]) Native(e Element) T {
	m, ok := e.(*MontgomeryElement[T, PT])
	if !ok || m.field != f {
		panic("incompatible field elements")
	}
	return m.v
}

func (e *MontgomeryElement[T, PT]) peer(b Element) *MontgomeryElement[T, PT] {
	other, ok := b.(*MontgomeryElement[T, PT])
	if !ok || other.field != e.field {
		panic("incompatible field elements")
	}
	return other
}

func (e *MontgomeryElement[T, PT]) Add(b Element) Element {
	other := e.peer(b)
	r := &MontgomeryElement[T, PT]{field: e.field}
	PT(&r.v).Add(&e.v, &other.v)
	return r
}

func (e *MontgomeryElement[T, PT]) Sub(b Element) Element {
	other := e.peer(b)
	r := &MontgomeryElement[T, PT]{field: e.field}
	PT(&r.v).Sub(&e.v, &other.v)
	return r
}

func (e *MontgomeryElement[T, PT]) Neg() Element {
	r := &MontgomeryElement[T, PT]{field: e.field}
	PT(&r.v).Neg(&e.v)
	return r
}

func (e *MontgomeryElement[T, PT]) Mul(b Element) Element {
	other := e.peer(b)
	r := &MontgomeryElement[T, PT]{field: e.field}
	PT(&r.v).Mul(&e.v, &other.v)
	return r
}

func (e *MontgomeryElement[T, PT]) Inv() Element {
	if e.IsZero() {
		panic("zero element is not invertible")
	}
	r := &MontgomeryElement[T, PT]{field: e.field}
	PT(&r.v).Inverse(&e.v)
	return r
}

func (e *MontgomeryElement[T, PT]) Exp(k *big.Int) Element {
	if k.Sign() < 0 {
		panic("field: negative exponent")
	}
	r := &MontgomeryElement[T, PT]{field: e.field}
	PT(&r.v).Exp(e.v, k)
	return r
}

func (e *MontgomeryElement[T, PT]) IsZero() bool {
	return PT(&e.v).IsZero()
}

func (e *MontgomeryElement[T, PT]) Equal(b Element) bool {
	other, ok := b.(*MontgomeryElement[T, PT])
	if !ok || other.field != e.field {
		return false
	}
	return PT(&e.v).Equal(&other.v)
}

func (e *MontgomeryElement[T, PT]) BigInt() *big.Int {
	return PT(&e.v).BigInt(new(big.Int))
}

func (e *MontgomeryElement[T, PT]) String() string {
	return fmt.Sprintf("%#x", e.BigInt())
}
