// SPDX-License-Identifier: MIT

package eof

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvleof/decomp"
	"github.com/katalvlaran/lvleof/field"
	"github.com/katalvlaran/lvleof/mask"
	"github.com/katalvlaran/lvleof/matrix"
	"github.com/katalvlaran/lvleof/varimax"
)

const opDecompose = "Decompose"

// Decomposition is the result of the free-function API. Unlike Solver it
// masks SAMPLES: rows of the input that contain any NaN are left out of the
// analysis and come back as NaN rows of the PCs.
type Decomposition struct {
	eofs  *matrix.Dense // n×C
	pcs   *matrix.Dense // T×n, NaN rows for dropped samples
	L     []float64     // n leading eigenvalues
	total float64       // sum of all eigenvalues
	rows  mask.Mask
}

// Decompose computes the leading neofs EOFs of x, a samples×variables matrix.
// neofs <= 0 keeps every mode.
//
// Implementation:
//   - Stage 1: row mask (mask.Rows); at least 2 complete samples are required.
//   - Stage 2: weights (broadcast to one row), centering, ddof check.
//   - Stage 3: decompose; keep the leading neofs modes; reinsert NaN rows into the PCs.
//
// Errors:
//   - ErrNilDataset, mask.ErrAllMissing, mask.ErrRank, ErrDDOF,
//     field.ErrNotNumeric, field.ErrBroadcast, decomp.ErrDecompositionFailed.
func Decompose(x *matrix.Dense, neofs int, opts ...Option) (*Decomposition, error) {
	if x == nil {
		return nil, eofErrorf(opDecompose, ErrNilDataset)
	}
	o := gatherOptions(opts...)

	rows, err := mask.Rows(x)
	if err != nil {
		return nil, eofErrorf(opDecompose, err)
	}
	X, err := rows.Select(x)
	if err != nil {
		return nil, eofErrorf(opDecompose, err)
	}
	T, C := X.Shape()
	if T < 2 {
		return nil, eofErrorf(opDecompose, fmt.Errorf("complete samples=%d: %w", T, mask.ErrRank))
	}
	if o.ddof < 0 || o.ddof >= T {
		return nil, eofErrorf(opDecompose, fmt.Errorf("ddof=%d T=%d: %w", o.ddof, T, ErrDDOF))
	}

	if o.weights != nil {
		w, err := field.FromValues(o.weights)
		if err != nil {
			return nil, eofErrorf(opDecompose, fmt.Errorf("weights: %w", err))
		}
		bw, err := w.BroadcastTo([]int{C})
		if err != nil {
			return nil, eofErrorf(opDecompose, fmt.Errorf("weights: %w", err))
		}
		if X, err = matrix.ScaleCols(X, bw.Data()); err != nil {
			return nil, eofErrorf(opDecompose, err)
		}
	}
	if o.center {
		if X, _, err = matrix.CenterColumns(X); err != nil {
			return nil, eofErrorf(opDecompose, err)
		}
	}

	res, err := decomp.Decompose(X, o.method)
	if err != nil {
		return nil, eofErrorf(opDecompose, err)
	}
	L := eigenvalues(res.S, T-o.ddof)
	n := clamp(neofs, len(L))

	d := &Decomposition{L: L[:n:n], total: floats.Sum(L), rows: rows}
	if d.eofs, err = res.Vt.Induced(leading(n), nil); err != nil {
		return nil, eofErrorf(opDecompose, err)
	}
	A, err := res.A.Induced(nil, leading(n))
	if err != nil {
		return nil, eofErrorf(opDecompose, err)
	}
	P, err := matrix.ScaleCols(A, res.S[:n])
	if err != nil {
		return nil, eofErrorf(opDecompose, err)
	}
	if d.pcs, err = rows.ExpandRows(P); err != nil {
		return nil, eofErrorf(opDecompose, err)
	}

	o.logger.Debug("eof decomposition complete",
		slog.Int("samples", x.Rows()),
		slog.Int("complete_samples", T),
		slog.Int("variables", C),
		slog.Int("neofs", n),
		slog.String("method", o.method.String()),
	)

	return d, nil
}

// NEOFs returns the number of retained modes.
func (d *Decomposition) NEOFs() int { return len(d.L) }

// EOFs returns the retained EOFs as an n×C matrix.
func (d *Decomposition) EOFs(scaling Scaling) (*matrix.Dense, error) {
	f, err := scaling.factors(d.L)
	if err != nil {
		return nil, eofErrorf("Decomposition.EOFs", err)
	}

	return matrix.ScaleRows(d.eofs, f)
}

// PCs returns the retained PCs as a T×n matrix; dropped samples are NaN rows.
func (d *Decomposition) PCs(scaling Scaling) (*matrix.Dense, error) {
	f, err := scaling.factors(d.L)
	if err != nil {
		return nil, eofErrorf("Decomposition.PCs", err)
	}

	return matrix.ScaleCols(d.pcs, f)
}

// Eigenvalues returns a copy of the retained eigenvalues.
func (d *Decomposition) Eigenvalues() []float64 {
	out := make([]float64, len(d.L))
	copy(out, d.L)

	return out
}

// VarianceFraction returns the retained eigenvalues divided by the sum of all eigenvalues.
func (d *Decomposition) VarianceFraction() []float64 {
	out := d.Eigenvalues()
	floats.Scale(1/d.total, out)

	return out
}

// SampleMask returns a copy of the per-sample validity flags.
func (d *Decomposition) SampleMask() []bool { return d.rows.Valid() }

// Varimax rotates the EOFs (scaled by scaling) and returns them as n×C
// together with the n×n rotation.
func (d *Decomposition) Varimax(scaling Scaling, opts *varimax.Options) (*matrix.Dense, *matrix.Dense, error) {
	E, err := d.EOFs(scaling)
	if err != nil {
		return nil, nil, err
	}
	ef, err := field.FromMatrix(E)
	if err != nil {
		return nil, nil, eofErrorf("Decomposition.Varimax", err)
	}
	rotated, rot, err := rotateEOFs(ef, opts)
	if err != nil {
		return nil, nil, eofErrorf("Decomposition.Varimax", err)
	}
	R, err := rotated.Flatten()
	if err != nil {
		return nil, nil, eofErrorf("Decomposition.Varimax", err)
	}

	return R, rot, nil
}
