// SPDX-License-Identifier: MIT

// Package varimax implements the orthomax (γ = 1, varimax) rotation of a
// loading matrix.
//
// Purpose:
//   - Rotate Q loading vectors over P variables so that each variable loads
//     strongly on few components, without changing the total explained variance.
//
// Algorithm (Kaiser 1958, SVD formulation):
//
//	x  ← x / h            (optional Kaiser row normalization, h = ‖row‖₂)
//	R  ← I_Q
//	repeat up to MaxIter:
//	    z  = x·R
//	    B  = xᵀ·(z∘z∘z − z·diag(Σᵢ z²)/P)
//	    B  = U·Σ·Vᵀ   (SVD)
//	    R  = U·Vᵀ
//	    d  = Σ σ
//	    stop when d < dOld·(1 + Tol)
//	r  ← (x·R)·h
//
// The stopping rule is a relative-improvement plateau, not a gradient-norm
// test; it may stop after very few iterations.
//
// Rows containing NaN are removed before rotating and reinserted as NaN rows.
package varimax

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvleof/mask"
	"github.com/katalvlaran/lvleof/matrix"
)

const (
	// DefaultTol is the relative plateau tolerance.
	DefaultTol = 1e-10

	// DefaultMaxIter bounds the number of rotation updates.
	DefaultMaxIter = 1000
)

// ErrNoValidRows indicates that every row of the loading matrix contains NaN.
var ErrNoValidRows = errors.New("varimax: no valid rows to rotate")

// Options configures Rotate.
//   - Normalize: Kaiser row normalization; nil means true.
//   - Tol: plateau tolerance; <= 0 means DefaultTol.
//   - MaxIter: iteration cap; <= 0 means DefaultMaxIter.
//   - Logger: receives one Debug record per call; nil means slog.Default().
type Options struct {
	Normalize *bool
	Tol       float64
	MaxIter   int
	Logger    *slog.Logger
}

// DefaultOptions returns Options with every field resolved to its default.
func DefaultOptions() Options {
	norm := true

	return Options{
		Normalize: &norm,
		Tol:       DefaultTol,
		MaxIter:   DefaultMaxIter,
		Logger:    slog.Default(),
	}
}

// Bool is a helper for Options.Normalize.
func Bool(v bool) *bool { return &v }

// resolve fills unset fields of o (which may be nil) with defaults.
func (o *Options) resolve() Options {
	out := DefaultOptions()
	if o == nil {
		return out
	}
	if o.Normalize != nil {
		out.Normalize = Bool(*o.Normalize)
	}
	if o.Tol > 0 {
		out.Tol = o.Tol
	}
	if o.MaxIter > 0 {
		out.MaxIter = o.MaxIter
	}
	if o.Logger != nil {
		out.Logger = o.Logger
	}

	return out
}

// Result holds the rotated loadings and the orthogonal rotation.
//   - Rotated:    P×Q, same shape as the input; NaN rows preserved.
//   - Rotation:   Q×Q orthogonal matrix with Rotated = x·Rotation (before denormalization).
//   - Iterations: number of updates performed.
//   - Criterion:  final d (sum of singular values of B).
type Result struct {
	Rotated    *matrix.Dense
	Rotation   *matrix.Dense
	Iterations int
	Criterion  float64
}

// Rotate applies varimax to the loading matrix x (P variables × Q components).
//
// Implementation:
//   - Stage 1: mask NaN rows (mask.Rows) and select the valid sub-matrix.
//   - Stage 2: optional Kaiser normalization. A zero row has h = 0 and is
//     scaled by 1 instead of divided by h, so it stays a zero row rather than
//     turning into NaN.
//   - Stage 3: iterate the SVD update until the plateau rule fires or MaxIter is hit.
//   - Stage 4: rotate, denormalize (zero rows again scaled by 1), reinsert NaN rows.
//
// On perfectly symmetric input, such as rows that fall into two exactly
// orthogonal directions, the first update can score the same criterion as
// the identity; the plateau rule then stops after two updates with the
// input unrotated.
//
// Errors:
//   - matrix.ErrNilMatrix for nil x.
//   - ErrNoValidRows when every row has a NaN.
//   - matrix.ErrSVDFailed (wrapped) if the inner SVD does not converge.
//
// Complexity:
//   - O(MaxIter · (P·Q² + Q³)).
func Rotate(x *matrix.Dense, opts *Options) (*Result, error) {
	if x == nil {
		return nil, varimaxErrorf(matrix.ErrNilMatrix)
	}
	o := opts.resolve()

	rows, err := mask.Rows(x)
	if err != nil {
		if errors.Is(err, mask.ErrAllMissing) {
			return nil, varimaxErrorf(ErrNoValidRows)
		}
		return nil, varimaxErrorf(err)
	}
	sub, err := rows.Select(x)
	if err != nil {
		return nil, varimaxErrorf(err)
	}
	P, Q := sub.Shape()

	var h []float64
	if *o.Normalize {
		h = rowNorms(sub)
		inv := make([]float64, P)
		for i, v := range h {
			inv[i] = 1
			if v > 0 {
				inv[i] = 1 / v
			}
		}
		if sub, err = matrix.ScaleRows(sub, inv); err != nil {
			return nil, varimaxErrorf(err)
		}
	}

	R, d, it, err := iterate(sub, o.Tol, o.MaxIter)
	if err != nil {
		return nil, varimaxErrorf(err)
	}

	rot, err := matrix.Mul(sub, R)
	if err != nil {
		return nil, varimaxErrorf(err)
	}
	if h != nil {
		scale := make([]float64, P)
		for i, v := range h {
			scale[i] = 1
			if v > 0 {
				scale[i] = v
			}
		}
		if rot, err = matrix.ScaleRows(rot, scale); err != nil {
			return nil, varimaxErrorf(err)
		}
	}
	if rows.Count() != rows.Len() {
		if rot, err = rows.ExpandRows(rot); err != nil {
			return nil, varimaxErrorf(err)
		}
	}

	o.Logger.Debug("varimax rotation",
		slog.Int("variables", P),
		slog.Int("components", Q),
		slog.Int("masked_rows", rows.Len()-rows.Count()),
		slog.Bool("normalize", *o.Normalize),
		slog.Int("iterations", it),
		slog.Float64("criterion", d),
	)

	return &Result{Rotated: rot, Rotation: R, Iterations: it, Criterion: d}, nil
}

// iterate runs the orthomax updates on a NaN-free x and returns the rotation,
// the final criterion and the number of updates.
func iterate(x *matrix.Dense, tol float64, maxIter int) (*matrix.Dense, float64, int, error) {
	P, Q := x.Shape()
	R, err := matrix.Identity(Q)
	if err != nil {
		return nil, 0, 0, err
	}
	xt, err := matrix.Transpose(x)
	if err != nil {
		return nil, 0, 0, err
	}

	var (
		d, dOld float64
		it      int
		z, B    *matrix.Dense
		svd     *matrix.SVDResult
	)
	for it = 1; it <= maxIter; it++ {
		dOld = d
		if z, err = matrix.Mul(x, R); err != nil {
			return nil, 0, 0, err
		}
		if B, err = matrix.Mul(xt, gradient(z, P, Q)); err != nil {
			return nil, 0, 0, err
		}
		if svd, err = matrix.SVD(B); err != nil {
			return nil, 0, 0, err
		}
		if R, err = matrix.Mul(svd.U, svd.Vt); err != nil {
			return nil, 0, 0, err
		}
		d = floats.Sum(svd.S)
		if d < dOld*(1+tol) {
			break
		}
	}

	return R, d, min(it, maxIter), nil
}

// gradient returns z∘z∘z − z·diag(colsum(z∘z))/P.
func gradient(z *matrix.Dense, P, Q int) *matrix.Dense {
	data := z.RawData()
	colSq := make([]float64, Q)
	for i := 0; i < P; i++ {
		for j := 0; j < Q; j++ {
			v := data[i*Q+j]
			colSq[j] += v * v
		}
	}
	floats.Scale(1/float64(P), colSq)
	for i := 0; i < P; i++ {
		for j := 0; j < Q; j++ {
			v := data[i*Q+j]
			data[i*Q+j] = v*v*v - v*colSq[j]
		}
	}
	// Shape and length are taken from z, so construction cannot fail.
	g, _ := matrix.NewDenseFrom(P, Q, data)

	return g
}

// rowNorms returns the Euclidean norm of each row.
func rowNorms(x *matrix.Dense) []float64 {
	P, Q := x.Shape()
	data := x.RawData()
	h := make([]float64, P)
	for i := 0; i < P; i++ {
		h[i] = floats.Norm(data[i*Q:(i+1)*Q], 2)
	}

	return h
}

func varimaxErrorf(err error) error {
	return fmt.Errorf("varimax.Rotate: %w", err)
}
