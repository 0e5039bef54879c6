// Package grain implements the self-shrinking Grain LFSR used to derive
// Poseidon constants from the public parameters.
package grain

import (
	"math/big"
	"strings"
)

// StateBits is the register size.
const StateBits = 80

// warmup is the number of clocks discarded after seeding.
const warmup = 160

// Seed is the initial register content, index 0 being the oldest bit.
type Seed [StateBits]uint8

func (s Seed) String() string {
	var sb strings.Builder
	sb.Grow(StateBits)
	for _, b := range s {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

// Field widths of the seed layout, most significant bit first.
const (
	FieldKindBits     = 2
	SBoxBits          = 4
	FieldSizeBits     = 12
	StateWidthBits    = 12
	FullRoundsBits    = 10
	PartialRoundsBits = 10
	paddingBits       = StateBits - FieldKindBits - SBoxBits - FieldSizeBits - StateWidthBits - FullRoundsBits - PartialRoundsBits
)

// PackSeed lays out the parameters big-endian in their fixed widths and pads
// with ones. Values are truncated to their width; callers validate first.
func PackSeed(fieldKind, sbox, n, t, fullRounds, partialRounds uint64) Seed {
	var s Seed
	pos := 0
	put := func(v uint64, width int) {
		for i := width - 1; i >= 0; i-- {
			s[pos] = uint8((v >> uint(i)) & 1)
			pos++
		}
	}
	put(fieldKind, FieldKindBits)
	put(sbox, SBoxBits)
	put(n, FieldSizeBits)
	put(t, StateWidthBits)
	put(fullRounds, FullRoundsBits)
	put(partialRounds, PartialRoundsBits)
	for i := 0; i < paddingBits; i++ {
		s[pos] = 1
		pos++
	}
	return s
}

// Generator is a Grain LFSR. The 80-bit register is held in two words: bit i
// of the register is bit i of lo for i < 64 and bit i-64 of hi otherwise.
// A Generator is not safe for concurrent use.
type Generator struct {
	lo uint64
	hi uint64

	clocks uint64
}

// New seeds a generator and discards the warm-up output.
func New(seed Seed) *Generator {
	g := &Generator{}
	for i, b := range seed {
		if b&1 == 0 {
			continue
		}
		if i < 64 {
			g.lo |= 1 << uint(i)
		} else {
			g.hi |= 1 << uint(i-64)
		}
	}
	for i := 0; i < warmup; i++ {
		g.clock()
	}
	g.clocks = 0
	return g
}

// clock computes the feedback of taps {0, 13, 23, 38, 51, 62}, drops the
// oldest bit and appends the feedback as the newest one.
func (g *Generator) clock() uint8 {
	r := (g.lo ^ g.lo>>13 ^ g.lo>>23 ^ g.lo>>38 ^ g.lo>>51 ^ g.lo>>62) & 1
	g.lo = g.lo>>1 | (g.hi&1)<<63
	g.hi = g.hi>>1 | r<<15
	g.clocks++
	return uint8(r)
}

// NextBit returns the next output bit. Bits are produced in pairs: a pair
// whose first bit is 1 emits its second bit, any other pair is dropped.
func (g *Generator) NextBit() uint8 {
	for {
		first := g.clock()
		second := g.clock()
		if first == 1 {
			return second
		}
	}
}

// ReadBits returns the integer whose big-endian binary expansion is the next
// k output bits.
func (g *Generator) ReadBits(k int) *big.Int {
	v := new(big.Int)
	for i := 0; i < k; i++ {
		v.Lsh(v, 1)
		if g.NextBit() == 1 {
			v.SetBit(v, 0, 1)
		}
	}
	return v
}

// Clocks returns the number of register clocks since warm-up.
func (g *Generator) Clocks() uint64 { return g.clocks }
