package emit

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vocdoni/poseidongen"
	"github.com/vocdoni/poseidongen/field"
	"github.com/vocdoni/poseidongen/internal/params"
)

// Document is the JSON representation of a generated instance. Elements are
// 0x-prefixed hex strings, matrices are lists of rows and round constants
// are grouped per round.
type Document struct {
	Field         string `json:"field"`
	SBox          string `json:"sbox"`
	Alpha         uint32 `json:"alpha,omitempty"`
	FieldBits     int    `json:"n"`
	StateSize     int    `json:"t"`
	FullRounds    int    `json:"full_rounds"`
	PartialRounds int    `json:"partial_rounds"`
	Modulus       string `json:"modulus"`
	Seed          string `json:"seed"`
	Fingerprint   string `json:"fingerprint"`

	RoundConstants [][]string `json:"round_constants"`
	MDS            [][]string `json:"mds"`
	Optimized      Optimized  `json:"optimized"`

	Candidates int `json:"candidates"`
	Draws      int `json:"draws"`
}

// Optimized carries the sparse partial round representation. V and WHat
// start with the last partial round.
type Optimized struct {
	RoundConstants [][]string `json:"round_constants"`
	M00            string     `json:"m00"`
	MI             [][]string `json:"mi"`
	V              [][]string `json:"v"`
	WHat           [][]string `json:"w_hat"`
}

// NewDocument converts p to its JSON form.
func NewDocument(p *params.Parameters) (*Document, error) {
	if err := params.Validate(p); err != nil {
		return nil, err
	}
	t := p.StateSize
	doc := &Document{
		Field:          p.FieldKind.String(),
		SBox:           "power",
		FieldBits:      p.FieldBits,
		StateSize:      t,
		FullRounds:     p.FullRounds,
		PartialRounds:  p.PartialRounds,
		Modulus:        fmt.Sprintf("%#x", p.Modulus),
		Seed:           p.Seed().String(),
		Fingerprint:    poseidongen.FingerprintHex(p),
		RoundConstants: hexRows(p.Arc, t),
		MDS:            hexRows(p.MDS, t),
		Optimized: Optimized{
			RoundConstants: hexRows(p.OptimizedArc, t),
			M00:            p.OptimizedMDS.M00.String(),
			MI:             hexRows(p.OptimizedMDS.MI, t),
			V:              hexRows(p.OptimizedMDS.VCollection, t-1),
			WHat:           hexRows(p.OptimizedMDS.WHatCollection, t-1),
		},
		Candidates: p.Candidates,
		Draws:      p.Draws,
	}
	if p.Alpha.Inverse {
		doc.SBox = "inverse"
	} else {
		doc.Alpha = p.Alpha.Exponent
	}
	return doc, nil
}

// JSON writes p as an indented JSON document.
func JSON(w io.Writer, p *params.Parameters) error {
	doc, err := NewDocument(p)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func hexRows(es []field.Element, width int) [][]string {
	rows := make([][]string, 0, len(es)/width)
	for i := 0; i < len(es); i += width {
		end := min(i+width, len(es))
		row := make([]string, 0, end-i)
		for _, e := range es[i:end] {
			row = append(row, fmt.Sprintf("%#x", e.BigInt()))
		}
		rows = append(rows, row)
	}
	return rows
}
