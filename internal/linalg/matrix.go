// Package linalg implements the dense linear algebra the generator needs over
// an arbitrary field.Field: matrices, subspaces in reduced row echelon form,
// polynomials and eigenvalues.
package linalg

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/vocdoni/poseidongen/field"
)

// ErrSingular is returned when inverting a matrix without full rank.
var ErrSingular = errors.New("linalg: matrix is singular")

// Vector is a column vector of field elements.
type Vector []field.Element

// Zeros returns the zero vector of length n.
func Zeros(f field.Field, n int) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = f.Zero()
	}
	return v
}

// Unit returns the i-th standard basis vector of length n.
func Unit(f field.Field, n, i int) Vector {
	v := Zeros(f, n)
	v[i] = f.One()
	return v
}

func (v Vector) IsZero() bool {
	for _, e := range v {
		if !e.IsZero() {
			return false
		}
	}
	return true
}

func (v Vector) Add(w Vector) Vector {
	if len(v) != len(w) {
		panic("linalg: dimension mismatch")
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i].Add(w[i])
	}
	return out
}

func (v Vector) Equal(w Vector) bool {
	if len(v) != len(w) {
		return false
	}
	for i := range v {
		if !v[i].Equal(w[i]) {
			return false
		}
	}
	return true
}

// Matrix is a dense rows x cols matrix stored row-major. Matrices are treated
// as values: every operation allocates its result.
type Matrix struct {
	F          field.Field
	rows, cols int
	data       []field.Element
}

// New returns the zero matrix.
func New(f field.Field, rows, cols int) *Matrix {
	m := &Matrix{F: f, rows: rows, cols: cols, data: make([]field.Element, rows*cols)}
	for i := range m.data {
		m.data[i] = f.Zero()
	}
	return m
}

// FromRows builds a matrix from equal length rows.
func FromRows(f field.Field, rows []Vector) *Matrix {
	if len(rows) == 0 {
		return New(f, 0, 0)
	}
	m := &Matrix{F: f, rows: len(rows), cols: len(rows[0]), data: make([]field.Element, 0, len(rows)*len(rows[0]))}
	for _, r := range rows {
		if len(r) != m.cols {
			panic("linalg: ragged rows")
		}
		m.data = append(m.data, r...)
	}
	return m
}

// FromFlat builds a rows x cols matrix from row-major entries.
func FromFlat(f field.Field, rows, cols int, entries []field.Element) *Matrix {
	if len(entries) != rows*cols {
		panic("linalg: entry count mismatch")
	}
	m := &Matrix{F: f, rows: rows, cols: cols, data: make([]field.Element, len(entries))}
	copy(m.data, entries)
	return m
}

// Identity returns the n x n identity matrix.
func Identity(f field.Field, n int) *Matrix {
	m := New(f, n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = f.One()
	}
	return m
}

// Scalar returns c times the n x n identity.
func Scalar(f field.Field, n int, c field.Element) *Matrix {
	m := New(f, n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = c
	}
	return m
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) At(i, j int) field.Element { return m.data[i*m.cols+j] }

// Set overwrites entry (i, j). Only meant for building fresh matrices.
func (m *Matrix) Set(i, j int, e field.Element) { m.data[i*m.cols+j] = e }

// Flat returns a copy of the row-major entries.
func (m *Matrix) Flat() []field.Element {
	out := make([]field.Element, len(m.data))
	copy(out, m.data)
	return out
}

func (m *Matrix) Row(i int) Vector {
	out := make(Vector, m.cols)
	copy(out, m.data[i*m.cols:(i+1)*m.cols])
	return out
}

func (m *Matrix) Col(j int) Vector {
	out := make(Vector, m.rows)
	for i := range out {
		out[i] = m.At(i, j)
	}
	return out
}

// RowVectors returns all rows.
func (m *Matrix) RowVectors() []Vector {
	out := make([]Vector, m.rows)
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// Submatrix returns the block of the given size starting at (i0, j0).
func (m *Matrix) Submatrix(i0, j0, rows, cols int) *Matrix {
	out := New(m.F, rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.data[i*cols+j] = m.At(i0+i, j0+j)
		}
	}
	return out
}

// SetSubmatrix returns a copy of m with block b written at (i0, j0).
func (m *Matrix) SetSubmatrix(i0, j0 int, b *Matrix) *Matrix {
	out := m.Clone()
	for i := 0; i < b.rows; i++ {
		for j := 0; j < b.cols; j++ {
			out.Set(i0+i, j0+j, b.At(i, j))
		}
	}
	return out
}

func (m *Matrix) Clone() *Matrix {
	return FromFlat(m.F, m.rows, m.cols, m.data)
}

func (m *Matrix) Transpose() *Matrix {
	out := New(m.F, m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*m.rows+i] = m.At(i, j)
		}
	}
	return out
}

// Mul returns m * b.
func (m *Matrix) Mul(b *Matrix) *Matrix {
	if m.cols != b.rows {
		panic("linalg: dimension mismatch")
	}
	out := New(m.F, m.rows, b.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < b.cols; j++ {
			sum := m.F.Zero()
			for k := 0; k < m.cols; k++ {
				sum = sum.Add(m.At(i, k).Mul(b.At(k, j)))
			}
			out.data[i*b.cols+j] = sum
		}
	}
	return out
}

// MulVec returns m * v.
func (m *Matrix) MulVec(v Vector) Vector {
	if m.cols != len(v) {
		panic("linalg: dimension mismatch")
	}
	out := make(Vector, m.rows)
	for i := 0; i < m.rows; i++ {
		sum := m.F.Zero()
		for k := 0; k < m.cols; k++ {
			sum = sum.Add(m.At(i, k).Mul(v[k]))
		}
		out[i] = sum
	}
	return out
}

// VecMul returns the row vector v * m.
func (m *Matrix) VecMul(v Vector) Vector {
	if m.rows != len(v) {
		panic("linalg: dimension mismatch")
	}
	out := make(Vector, m.cols)
	for j := 0; j < m.cols; j++ {
		sum := m.F.Zero()
		for k := 0; k < m.rows; k++ {
			sum = sum.Add(v[k].Mul(m.At(k, j)))
		}
		out[j] = sum
	}
	return out
}

func (m *Matrix) Add(b *Matrix) *Matrix {
	if m.rows != b.rows || m.cols != b.cols {
		panic("linalg: dimension mismatch")
	}
	out := New(m.F, m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i].Add(b.data[i])
	}
	return out
}

func (m *Matrix) Sub(b *Matrix) *Matrix {
	if m.rows != b.rows || m.cols != b.cols {
		panic("linalg: dimension mismatch")
	}
	out := New(m.F, m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i].Sub(b.data[i])
	}
	return out
}

// Pow returns m^k for k >= 0.
func (m *Matrix) Pow(k int) *Matrix {
	if m.rows != m.cols {
		panic("linalg: power of a non-square matrix")
	}
	acc := Identity(m.F, m.rows)
	base := m
	for k > 0 {
		if k&1 == 1 {
			acc = acc.Mul(base)
		}
		k >>= 1
		if k > 0 {
			base = base.Mul(base)
		}
	}
	return acc
}

// Inverse computes the inverse of a square matrix using Gauss-Jordan
// elimination.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, errors.Errorf("linalg: cannot invert a %dx%d matrix", m.rows, m.cols)
	}
	n := m.rows
	a := m.Clone()
	inv := Identity(m.F, n)

	for col := 0; col < n; col++ {
		pivot := -1
		for i := col; i < n; i++ {
			if !a.At(i, col).IsZero() {
				pivot = i
				break
			}
		}
		if pivot == -1 {
			return nil, ErrSingular
		}
		a.swapRows(col, pivot)
		inv.swapRows(col, pivot)

		p := a.At(col, col).Inv()
		a.scaleRow(col, p)
		inv.scaleRow(col, p)

		for i := 0; i < n; i++ {
			if i == col || a.At(i, col).IsZero() {
				continue
			}
			factor := a.At(i, col)
			a.subRow(i, col, factor)
			inv.subRow(i, col, factor)
		}
	}
	return inv, nil
}

func (m *Matrix) Equal(b *Matrix) bool {
	if m.rows != b.rows || m.cols != b.cols {
		return false
	}
	for i := range m.data {
		if !m.data[i].Equal(b.data[i]) {
			return false
		}
	}
	return true
}

// IsScalar reports whether m equals c*I for some c.
func (m *Matrix) IsScalar() bool {
	if m.rows != m.cols {
		return false
	}
	c := m.At(0, 0)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if i == j {
				if !m.At(i, j).Equal(c) {
					return false
				}
			} else if !m.At(i, j).IsZero() {
				return false
			}
		}
	}
	return true
}

func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(m.At(i, j).String())
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}

func (m *Matrix) swapRows(i, j int) {
	if i == j {
		return
	}
	for k := 0; k < m.cols; k++ {
		m.data[i*m.cols+k], m.data[j*m.cols+k] = m.data[j*m.cols+k], m.data[i*m.cols+k]
	}
}

func (m *Matrix) scaleRow(i int, c field.Element) {
	for k := 0; k < m.cols; k++ {
		m.data[i*m.cols+k] = m.data[i*m.cols+k].Mul(c)
	}
}

// subRow sets row i to row i - c * row j.
func (m *Matrix) subRow(i, j int, c field.Element) {
	for k := 0; k < m.cols; k++ {
		m.data[i*m.cols+k] = m.data[i*m.cols+k].Sub(c.Mul(m.data[j*m.cols+k]))
	}
}
