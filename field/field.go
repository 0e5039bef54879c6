// Package field provides the finite field arithmetic the generator works
// over: prime fields GF(p) and binary extension fields GF(2^n).
package field

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// Kind identifies a field family. The numeric values are the ones packed
// into the constant generator seed.
type Kind uint8

const (
	BinaryExtension Kind = 0
	Prime           Kind = 1
)

func (k Kind) String() string {
	switch k {
	case BinaryExtension:
		return "binary"
	case Prime:
		return "prime"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Element is an immutable field element. Operations return new elements and
// panic when mixing elements of different fields.
type Element interface {
	// Add returns a + b in the field
	Add(b Element) Element

	// Sub returns a - b in the field
	Sub(b Element) Element

	// Neg returns -a in the field
	Neg() Element

	// Mul returns a * b in the field
	Mul(b Element) Element

	// Inv returns the multiplicative inverse of a. It panics on zero.
	Inv() Element

	// Exp returns a^k for k >= 0
	Exp(k *big.Int) Element

	IsZero() bool
	Equal(b Element) bool

	// BigInt returns the canonical integer representative: the residue in
	// [0, p) for prime fields, the coefficient bit pattern for binary fields.
	BigInt() *big.Int

	String() string
}

// Field is a finite field of order q = Characteristic()^Degree().
type Field interface {
	Kind() Kind

	Zero() Element
	One() Element

	// FromBigInt maps a canonical representative to an element. It panics if
	// Contains(v) is false.
	FromBigInt(v *big.Int) Element
	FromUint64(v uint64) Element

	// Contains reports whether v is a canonical representative.
	Contains(v *big.Int) bool

	// Order returns q.
	Order() *big.Int
	Characteristic() *big.Int
	Degree() int

	// Modulus returns p for prime fields and the reduction polynomial for
	// binary fields.
	Modulus() *big.Int

	String() string
}

// New returns the field described by kind and modulus. Prime moduli that
// match a scalar field with a gnark-crypto backend get Montgomery arithmetic;
// everything else uses the math/big implementations.
func New(kind Kind, modulus *big.Int) (Field, error) {
	switch kind {
	case Prime:
		if f := ForModulus(modulus); f != nil {
			return f, nil
		}
		return NewPrimeField(modulus), nil
	case BinaryExtension:
		n := modulus.BitLen() - 1
		if n < 1 {
			return nil, errors.Errorf("field: reduction polynomial %#x has no positive degree", modulus)
		}
		return NewBinaryField(n, modulus), nil
	default:
		return nil, errors.Errorf("field: unknown kind %d", kind)
	}
}

// Equal reports whether a and b describe the same field.
func Equal(a, b Field) bool {
	return a.Kind() == b.Kind() && a.Modulus().Cmp(b.Modulus()) == 0
}

// expBySquaring is the left-to-right square-and-multiply ladder shared by the
// implementations without a native exponentiation.
func expBySquaring(x, one Element, k *big.Int) Element {
	if k.Sign() < 0 {
		panic("field: negative exponent")
	}
	acc := one
	for i := k.BitLen() - 1; i >= 0; i-- {
		acc = acc.Mul(acc)
		if k.Bit(i) == 1 {
			acc = acc.Mul(x)
		}
	}
	return acc
}
