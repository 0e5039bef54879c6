package poseidongen

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/vocdoni/poseidongen/field"
)

const fingerprintDomain = "poseidongen"

// Fingerprint is a BLAKE2b-256 digest identifying a generated instance. It
// covers the parameter set, the raw round constants and the MDS matrix;
// the optimized representation is derived from those and left out.
//
// Every integer is written as 8 bytes big-endian, the modulus is length
// prefixed and field elements use ceil(n/8) bytes big-endian each.
func Fingerprint(p *Result) [blake2b.Size256]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // only fails for oversized keys
	}
	h.Write([]byte(fingerprintDomain))

	var buf [8]byte
	putUint := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	putUint(uint64(p.FieldKind))
	putUint(p.Alpha.Kind())
	putUint(uint64(p.Alpha.Exponent))
	putUint(uint64(p.FieldBits))
	putUint(uint64(p.StateSize))
	putUint(uint64(p.FullRounds))
	putUint(uint64(p.PartialRounds))

	mod := p.Modulus.Bytes()
	putUint(uint64(len(mod)))
	h.Write(mod)

	elem := make([]byte, (p.FieldBits+7)/8)
	putElems := func(es []field.Element) {
		for _, e := range es {
			e.BigInt().FillBytes(elem)
			h.Write(elem)
		}
	}
	putElems(p.Arc)
	putElems(p.MDS)

	var out [blake2b.Size256]byte
	copy(out[:], h.Sum(nil))
	return out
}

// FingerprintHex returns Fingerprint as lowercase hex.
func FingerprintHex(p *Result) string {
	fp := Fingerprint(p)
	return hex.EncodeToString(fp[:])
}
