package linalg

import "github.com/vocdoni/poseidongen/field"

// Subspace is a linear subspace of F^n held as the non-zero rows of its
// reduced row echelon form. The basis is canonical, so two subspaces are
// equal exactly when their bases are.
type Subspace struct {
	F     field.Field
	n     int
	basis []Vector
	pivot []int
}

// Span returns the subspace of F^n spanned by vecs.
func Span(f field.Field, n int, vecs ...Vector) *Subspace {
	rows := make([]Vector, 0, len(vecs))
	for _, v := range vecs {
		if len(v) != n {
			panic("linalg: vector length mismatch")
		}
		rows = append(rows, append(Vector(nil), v...))
	}
	basis, pivot := rref(f, rows, n)
	return &Subspace{F: f, n: n, basis: basis, pivot: pivot}
}

// Full returns F^n.
func Full(f field.Field, n int) *Subspace {
	return Span(f, n, Identity(f, n).RowVectors()...)
}

// Dim returns the dimension of s.
func (s *Subspace) Dim() int { return len(s.basis) }

// Ambient returns n for a subspace of F^n.
func (s *Subspace) Ambient() int { return s.n }

// Basis returns the echelon basis.
func (s *Subspace) Basis() []Vector {
	out := make([]Vector, len(s.basis))
	for i, b := range s.basis {
		out[i] = append(Vector(nil), b...)
	}
	return out
}

func (s *Subspace) Equal(o *Subspace) bool {
	if s.n != o.n || len(s.basis) != len(o.basis) {
		return false
	}
	for i := range s.basis {
		if s.pivot[i] != o.pivot[i] || !s.basis[i].Equal(o.basis[i]) {
			return false
		}
	}
	return true
}

// Contains reports whether v lies in s.
func (s *Subspace) Contains(v Vector) bool {
	r := append(Vector(nil), v...)
	for i, b := range s.basis {
		c := r[s.pivot[i]]
		if c.IsZero() {
			continue
		}
		for k := range r {
			r[k] = r[k].Sub(c.Mul(b[k]))
		}
	}
	return r.IsZero()
}

// Sum returns s + o.
func (s *Subspace) Sum(o *Subspace) *Subspace {
	return Span(s.F, s.n, append(s.Basis(), o.Basis()...)...)
}

// With returns span(s, v).
func (s *Subspace) With(v Vector) *Subspace {
	return Span(s.F, s.n, append(s.Basis(), v)...)
}

// Intersect returns s ∩ o. Writing a common vector as Σ a_i u_i = Σ b_j w_j,
// the coefficients (a, b) are the kernel of [U^T | -W^T].
func (s *Subspace) Intersect(o *Subspace) *Subspace {
	if s.Dim() == 0 || o.Dim() == 0 {
		return Span(s.F, s.n)
	}
	a, b := s.Dim(), o.Dim()
	sys := New(s.F, s.n, a+b)
	for k := 0; k < s.n; k++ {
		for i := 0; i < a; i++ {
			sys.Set(k, i, s.basis[i][k])
		}
		for j := 0; j < b; j++ {
			sys.Set(k, a+j, o.basis[j][k].Neg())
		}
	}
	var common []Vector
	for _, coeffs := range Kernel(sys).basis {
		v := Zeros(s.F, s.n)
		for i := 0; i < a; i++ {
			if coeffs[i].IsZero() {
				continue
			}
			for k := range v {
				v[k] = v[k].Add(coeffs[i].Mul(s.basis[i][k]))
			}
		}
		common = append(common, v)
	}
	return Span(s.F, s.n, common...)
}

// Image returns m * s.
func (s *Subspace) Image(m *Matrix) *Subspace {
	out := make([]Vector, len(s.basis))
	for i, b := range s.basis {
		out[i] = m.MulVec(b)
	}
	return Span(s.F, m.Rows(), out...)
}

// Kernel returns the right kernel {x : m x = 0}.
func Kernel(m *Matrix) *Subspace {
	f := m.F
	n := m.Cols()
	rows, pivot := rref(f, m.RowVectors(), n)

	isPivot := make([]bool, n)
	for _, p := range pivot {
		isPivot[p] = true
	}
	var vecs []Vector
	for free := 0; free < n; free++ {
		if isPivot[free] {
			continue
		}
		v := Zeros(f, n)
		v[free] = f.One()
		for i, p := range pivot {
			v[p] = rows[i][free].Neg()
		}
		vecs = append(vecs, v)
	}
	return Span(f, n, vecs...)
}

// Rank returns the rank of m.
func Rank(m *Matrix) int {
	rows, _ := rref(m.F, m.RowVectors(), m.Cols())
	return len(rows)
}

// rref reduces rows in place and returns the non-zero rows of the reduced
// row echelon form together with their pivot columns.
func rref(f field.Field, rows []Vector, n int) ([]Vector, []int) {
	var pivots []int
	rank := 0
	for col := 0; col < n && rank < len(rows); col++ {
		p := -1
		for i := rank; i < len(rows); i++ {
			if !rows[i][col].IsZero() {
				p = i
				break
			}
		}
		if p == -1 {
			continue
		}
		rows[rank], rows[p] = rows[p], rows[rank]

		inv := rows[rank][col].Inv()
		for k := col; k < n; k++ {
			rows[rank][k] = rows[rank][k].Mul(inv)
		}
		for i := range rows {
			if i == rank || rows[i][col].IsZero() {
				continue
			}
			c := rows[i][col]
			for k := col; k < n; k++ {
				rows[i][k] = rows[i][k].Sub(c.Mul(rows[rank][k]))
			}
		}
		pivots = append(pivots, col)
		rank++
	}
	return rows[:rank], pivots
}
