// Package emit writes generated Poseidon parameters as Go source or JSON.
package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"math/big"
	"path"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/vocdoni/poseidongen"
	"github.com/vocdoni/poseidongen/field"
	"github.com/vocdoni/poseidongen/internal/params"
)

// GoOptions controls the generated Go file.
type GoOptions struct {
	// Package is the package clause, "params" when empty.
	Package string
	// Prefix is prepended to every declared identifier so several instances
	// can share a package.
	Prefix string
	// Hex forces hex string constants even when gnark-crypto has a backend
	// for the field.
	Hex bool
}

// montgomeryBackend is implemented by the gnark-crypto backed fields.
type montgomeryBackend interface {
	Package() string
	Limbs() int
}

// Go writes p as a formatted Go source file. Fields with a gnark-crypto
// backend get Element literals in Montgomery form, every other field gets
// 0x-prefixed hex strings.
func Go(w io.Writer, p *params.Parameters, opts GoOptions) error {
	if err := params.Validate(p); err != nil {
		return err
	}
	if opts.Package == "" {
		opts.Package = "params"
	}

	data := goFile{
		Package:     opts.Package,
		Prefix:      opts.Prefix,
		Params:      p,
		Fingerprint: poseidongen.FingerprintHex(p),
		ElemType:    "string",
		elem:        hexLiteral,
	}
	if p.FieldKind == field.Prime && !opts.Hex {
		if b, ok := field.ForModulus(p.Modulus).(montgomeryBackend); ok {
			data.Import = b.Package()
			data.ElemType = path.Base(b.Package()) + ".Element"
			data.elem = func(e field.Element) string {
				return montgomeryLiteral(data.ElemType, e.BigInt(), p.Modulus, b.Limbs())
			}
		}
	}

	var buf bytes.Buffer
	if err := goTemplate.Execute(&buf, &data); err != nil {
		return errors.Wrap(err, "emit: executing template")
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return errors.Wrap(err, "emit: formatting generated source")
	}
	_, err = w.Write(src)
	return err
}

type goFile struct {
	Package     string
	Prefix      string
	Import      string
	ElemType    string
	Fingerprint string
	Params      *params.Parameters

	elem func(field.Element) string
}

func (g *goFile) Elem(e field.Element) string { return g.elem(e) }

// Rows lays a flat slice out width elements per line.
func (g *goFile) Rows(es []field.Element, width int) []string {
	var rows []string
	for i := 0; i < len(es); i += width {
		end := min(i+width, len(es))
		parts := make([]string, 0, end-i)
		for _, e := range es[i:end] {
			parts = append(parts, g.elem(e))
		}
		rows = append(rows, strings.Join(parts, ", ")+",")
	}
	return rows
}

// Sparse is the number of v or ŵ entries per partial round.
func (g *goFile) Sparse() int { return g.Params.StateSize - 1 }

func (g *goFile) SBox() string {
	if g.Params.Alpha.Inverse {
		return "x^-1"
	}
	return fmt.Sprintf("x^%d", g.Params.Alpha.Exponent)
}

func hexLiteral(e field.Element) string {
	return fmt.Sprintf("%q", fmt.Sprintf("%#x", e.BigInt()))
}

// montgomeryLiteral renders v·2^(64·limbs) mod p as little-endian words.
func montgomeryLiteral(typ string, v, p *big.Int, limbs int) string {
	m := new(big.Int).Lsh(v, uint(64*limbs))
	m.Mod(m, p)
	mask := new(big.Int).SetUint64(^uint64(0))
	words := make([]string, limbs)
	for i := range words {
		w := new(big.Int).Rsh(m, uint(64*i))
		words[i] = fmt.Sprintf("0x%016x", w.And(w, mask).Uint64())
	}
	return typ + "{" + strings.Join(words, ", ") + "}"
}

var goTemplate = template.Must(template.New("go").Parse(`// Code generated by poseidongen. DO NOT EDIT.

package {{.Package}}
{{if .Import}}
import "{{.Import}}"
{{end}}
// {{.Prefix}}Fingerprint is the BLAKE2b-256 digest of the parameter set, the
// round constants and the MDS matrix.
const {{.Prefix}}Fingerprint = "{{.Fingerprint}}"

// {{.Params.FieldKind}} field, n = {{.Params.FieldBits}}, t = {{.Params.StateSize}}, S-box {{.SBox}}.
const (
	{{.Prefix}}FieldBits     = {{.Params.FieldBits}}
	{{.Prefix}}StateSize     = {{.Params.StateSize}}
	{{.Prefix}}FullRounds    = {{.Params.FullRounds}}
	{{.Prefix}}PartialRounds = {{.Params.PartialRounds}}
	{{.Prefix}}Alpha         = {{.Params.Alpha.Exponent}}
	{{.Prefix}}InverseAlpha  = {{.Params.Alpha.Inverse}}
	{{.Prefix}}Modulus       = "{{printf "%#x" .Params.Modulus}}"
)

// {{.Prefix}}Arc holds the round constants, StateSize per round.
var {{.Prefix}}Arc = []{{.ElemType}}{
{{- range .Rows .Params.Arc .Params.StateSize}}
	{{.}}
{{- end}}
}

// {{.Prefix}}MDS is the row-major MDS matrix.
var {{.Prefix}}MDS = []{{.ElemType}}{
{{- range .Rows .Params.MDS .Params.StateSize}}
	{{.}}
{{- end}}
}

// {{.Prefix}}OptimizedArc holds the round constants folded for the sparse
// partial round schedule.
var {{.Prefix}}OptimizedArc = []{{.ElemType}}{
{{- range .Rows .Params.OptimizedArc .Params.StateSize}}
	{{.}}
{{- end}}
}

var {{.Prefix}}M00 = {{.Elem .Params.OptimizedMDS.M00}}

// {{.Prefix}}MI is applied once before the partial rounds.
var {{.Prefix}}MI = []{{.ElemType}}{
{{- range .Rows .Params.OptimizedMDS.MI .Params.StateSize}}
	{{.}}
{{- end}}
}

// {{.Prefix}}VCollection and {{.Prefix}}WHatCollection hold StateSize-1
// entries per partial round, starting with the last one.
var {{.Prefix}}VCollection = []{{.ElemType}}{
{{- range .Rows .Params.OptimizedMDS.VCollection .Sparse}}
	{{.}}
{{- end}}
}

var {{.Prefix}}WHatCollection = []{{.ElemType}}{
{{- range .Rows .Params.OptimizedMDS.WHatCollection .Sparse}}
	{{.}}
{{- end}}
}
`))
