// Package optimize rewrites the linear layers and round constants of the
// partial rounds into the cheaper equivalent form used by the optimized
// permutation: one dense matrix before the partial rounds, then one sparse
// matrix per partial round, with a single non-zero constant per round.
package optimize

import (
	"github.com/pkg/errors"

	"github.com/vocdoni/poseidongen/field"
	"github.com/vocdoni/poseidongen/internal/linalg"
)

// ErrNotInvertible is returned when a block that has to be inverted is
// singular. It does not happen for MDS matrices.
var ErrNotInvertible = errors.New("optimize: matrix block is not invertible")

// Matrices is the factorisation of the partial round linear layers.
type Matrices struct {
	// MI is the dense matrix applied once after the first partial round
	// constants, in the orientation state' = MI * state.
	MI *linalg.Matrix
	// V and WHat hold the sparse matrices, index 0 being the last partial
	// round.
	V    []linalg.Vector
	WHat []linalg.Vector
	// M00 is the top left entry of the MDS matrix.
	M00 field.Element
}

// EquivalentMatrices factors the linear layers of partialRounds partial
// rounds. Working on the transpose MT of mds (row vector convention), each
// step splits the running product into its trailing block M_hat, leading
// column w and leading row v, records v and w_hat = M_hat^-1 * w, and rolls
// M_i = diag(1, M_hat) into the next product MT * M_i.
func EquivalentMatrices(mds *linalg.Matrix, partialRounds int) (*Matrices, error) {
	t := mds.Rows()
	if t < 2 || mds.Cols() != t {
		return nil, errors.Errorf("optimize: need a square matrix of width >= 2, got %dx%d", mds.Rows(), mds.Cols())
	}
	f := mds.F
	mt := mds.Transpose()

	out := &Matrices{
		V:    make([]linalg.Vector, 0, partialRounds),
		WHat: make([]linalg.Vector, 0, partialRounds),
		M00:  mt.At(0, 0),
	}
	mul := mt
	mi := linalg.Identity(f, t)
	for i := partialRounds - 1; i >= 0; i-- {
		mHat := mul.Submatrix(1, 1, t-1, t-1)
		w := mul.Col(0)[1:]
		v := mul.Row(0)[1:]

		mHatInv, err := mHat.Inverse()
		if err != nil {
			return nil, errors.Wrapf(ErrNotInvertible, "partial round %d: %v", i, err)
		}
		out.V = append(out.V, v)
		out.WHat = append(out.WHat, mHatInv.MulVec(w))

		mi = linalg.Identity(f, t).SetSubmatrix(1, 1, mHat)
		mul = mt.Mul(mi)
	}
	out.MI = mi.Transpose()
	return out, nil
}

// EquivalentConstants moves the constants of the partial rounds towards the
// first one. For i from the next to last partial round down to the first,
// c_{i+1} * MT^-1 is split: its tail is added to c_i and its head alone stays
// in round i+1. rc is the flat (fullRounds+partialRounds) x t table; a new
// table is returned.
func EquivalentConstants(rc []field.Element, mds *linalg.Matrix, fullRounds, partialRounds int) ([]field.Element, error) {
	t := mds.Rows()
	rounds := fullRounds + partialRounds
	if len(rc) != rounds*t {
		return nil, errors.Errorf("optimize: expected %d round constants, got %d", rounds*t, len(rc))
	}
	f := mds.F
	mtInv, err := mds.Transpose().Inverse()
	if err != nil {
		return nil, errors.Wrap(ErrNotInvertible, err.Error())
	}

	out := make([]field.Element, len(rc))
	copy(out, rc)
	row := func(r int) linalg.Vector { return linalg.Vector(out[r*t : (r+1)*t]) }

	half := fullRounds / 2
	for i := rounds - 2 - half; i >= half; i-- {
		inv := mtInv.VecMul(row(i + 1))
		ci := row(i)
		for k := 1; k < t; k++ {
			ci[k] = ci[k].Add(inv[k])
		}
		next := row(i + 1)
		next[0] = inv[0]
		for k := 1; k < t; k++ {
			next[k] = f.Zero()
		}
	}
	return out, nil
}
