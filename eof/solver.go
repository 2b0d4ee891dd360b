// SPDX-License-Identifier: MIT

package eof

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvleof/decomp"
	"github.com/katalvlaran/lvleof/field"
	"github.com/katalvlaran/lvleof/mask"
	"github.com/katalvlaran/lvleof/matrix"
	"github.com/katalvlaran/lvleof/varimax"
)

const (
	opNew         = "New"
	opPCs         = "PCs"
	opEOFs        = "EOFs"
	opEOFsCorr    = "EOFsAsCorrelation"
	opEOFsCov     = "EOFsAsCovariance"
	opVarimax     = "Varimax"
	opReconstruct = "ReconstructedField"
	opProject     = "ProjectField"
)

// Solver holds a completed EOF analysis of one dataset.
//
// A Solver is immutable after New returns; every accessor allocates its
// result, so concurrent callers need no synchronization.
type Solver struct {
	original *field.Field // dataset as given (unweighted, uncentered)
	weights  *field.Field // nil, or weights broadcast to one time slice
	wflat    []float64    // weights flattened to C channels, nil when unweighted
	spatial  []int        // dataset.SliceShape()
	T, C     int
	center   bool
	ddof     int
	method   decomp.Method

	timeMean []float64    // per-channel mean of the weighted data; nil when !center
	mask     mask.Mask    // valid channels
	vt       *matrix.Dense // K×Cvalid right singular vectors
	flatE    *matrix.Dense // K×C, NaN at invalid channels
	pcs      *matrix.Dense // T×K, A·diag(S)
	L        []float64     // K eigenvalues, descending
	total    float64       // ΣL
}

// New runs the EOF analysis of dataset, whose leading axis is time.
//
// Implementation:
//   - Stage 1: validate rank >= 2 and 0 <= ddof < T; copy the dataset.
//   - Stage 2: multiply every time slice by the weights (broadcast).
//   - Stage 3: flatten to (T, C); subtract the channel time-means when centering.
//   - Stage 4: channel mask (uniform missingness), valid sub-matrix.
//   - Stage 5: decompose; L = S²/(T−ddof); EOFs with NaN at invalid channels; PCs = A·S.
//
// Errors:
//   - ErrNilDataset, field.ErrRank (rank < 2), ErrDDOF.
//   - field.ErrNotNumeric (weights of unsupported type), field.ErrBroadcast (weights shape).
//   - mask.ErrPartialMissing, mask.ErrAllMissing.
//   - decomp.ErrDecompositionFailed.
//
// No partially built Solver is ever returned.
//
// Complexity:
//   - O(T·C) preprocessing plus the decomposition (see package decomp).
func New(dataset *field.Field, opts ...Option) (*Solver, error) {
	if dataset == nil {
		return nil, eofErrorf(opNew, ErrNilDataset)
	}
	if dataset.Rank() < 2 {
		return nil, eofErrorf(opNew, fmt.Errorf("rank %d: %w", dataset.Rank(), field.ErrRank))
	}
	o := gatherOptions(opts...)
	shape := dataset.Shape()
	T := shape[0]
	if o.ddof < 0 || o.ddof >= T {
		return nil, eofErrorf(opNew, fmt.Errorf("ddof=%d T=%d: %w", o.ddof, T, ErrDDOF))
	}

	s := &Solver{
		original: dataset.Clone(),
		spatial:  dataset.SliceShape(),
		T:        T,
		center:   o.center,
		ddof:     o.ddof,
		method:   o.method,
	}

	data := s.original
	if o.weights != nil {
		w, err := field.FromValues(o.weights)
		if err != nil {
			return nil, eofErrorf(opNew, fmt.Errorf("weights: %w", err))
		}
		if s.weights, err = w.BroadcastTo(s.spatial); err != nil {
			return nil, eofErrorf(opNew, fmt.Errorf("weights: %w", err))
		}
		s.wflat = s.weights.Data()
		if data, err = data.MultiplySlices(s.weights); err != nil {
			return nil, eofErrorf(opNew, err)
		}
	}

	X, err := data.Flatten()
	if err != nil {
		return nil, eofErrorf(opNew, err)
	}
	s.C = X.Cols()
	if s.center {
		if X, s.timeMean, err = matrix.CenterColumns(X); err != nil {
			return nil, eofErrorf(opNew, err)
		}
	}

	if s.mask, err = mask.Channels(X); err != nil {
		return nil, eofErrorf(opNew, err)
	}
	sub, err := s.mask.Select(X)
	if err != nil {
		return nil, eofErrorf(opNew, err)
	}

	res, err := decomp.Decompose(sub, s.method)
	if err != nil {
		return nil, eofErrorf(opNew, err)
	}
	s.vt = res.Vt
	s.L = eigenvalues(res.S, T-s.ddof)
	s.total = floats.Sum(s.L)
	if s.flatE, err = s.mask.ExpandCols(res.Vt); err != nil {
		return nil, eofErrorf(opNew, err)
	}
	if s.pcs, err = matrix.ScaleCols(res.A, res.S); err != nil {
		return nil, eofErrorf(opNew, err)
	}

	o.logger.Debug("eof analysis complete",
		slog.Any("shape", shape),
		slog.Int("channels", s.C),
		slog.Int("valid_channels", s.mask.Count()),
		slog.Int("neofs", len(s.L)),
		slog.String("method", s.method.String()),
		slog.Bool("center", s.center),
		slog.Bool("weighted", s.weights != nil),
		slog.Int("ddof", s.ddof),
	)

	return s, nil
}

// eigenvalues returns S²/dof.
func eigenvalues(S []float64, dof int) []float64 {
	L := make([]float64, len(S))
	for k, v := range S {
		L[k] = v * v / float64(dof)
	}

	return L
}

// clamp maps n <= 0 or n > available to available.
func clamp(n, available int) int {
	if n <= 0 || n > available {
		return available
	}

	return n
}

// leading returns 0..n-1.
func leading(n int) []int {
	idx := make([]int, n)
	for k := range idx {
		idx[k] = k
	}

	return idx
}

// NEOFs returns the number of computed modes, min(T, valid channels).
func (s *Solver) NEOFs() int { return len(s.L) }

// Weights returns a copy of the weights broadcast to one time slice, or nil.
func (s *Solver) Weights() *field.Field {
	if s.weights == nil {
		return nil
	}

	return s.weights.Clone()
}

// ValidChannels returns a copy of the channel mask.
func (s *Solver) ValidChannels() []bool { return s.mask.Valid() }

// PCs returns the leading npcs principal components as a T×npcs matrix.
// npcs <= 0 or beyond NEOFs returns all of them.
//
// Errors: ErrInvalidScaling.
func (s *Solver) PCs(scaling Scaling, npcs int) (*matrix.Dense, error) {
	n := clamp(npcs, len(s.L))
	f, err := scaling.factors(s.L[:n])
	if err != nil {
		return nil, eofErrorf(opPCs, err)
	}
	P, err := s.pcs.Induced(nil, leading(n))
	if err != nil {
		return nil, eofErrorf(opPCs, err)
	}
	if P, err = matrix.ScaleCols(P, f); err != nil {
		return nil, eofErrorf(opPCs, err)
	}

	return P, nil
}

// EOFs returns the leading neofs EOFs with shape (neofs, spatial...).
// Invalid channels are NaN. neofs <= 0 or beyond NEOFs returns all of them.
//
// Errors: ErrInvalidScaling.
func (s *Solver) EOFs(scaling Scaling, neofs int) (*field.Field, error) {
	E, err := s.flatEOFs(scaling, neofs)
	if err != nil {
		return nil, eofErrorf(opEOFs, err)
	}
	out, err := field.Unflatten(E, s.spatial)
	if err != nil {
		return nil, eofErrorf(opEOFs, err)
	}

	return out, nil
}

func (s *Solver) flatEOFs(scaling Scaling, neofs int) (*matrix.Dense, error) {
	n := clamp(neofs, len(s.L))
	f, err := scaling.factors(s.L[:n])
	if err != nil {
		return nil, err
	}
	E, err := s.flatE.Induced(leading(n), nil)
	if err != nil {
		return nil, err
	}

	return matrix.ScaleRows(E, f)
}

// EOFsAsCorrelation returns the correlation between each of the leading
// neofs unit-variance PCs and every channel of the input dataset, shape
// (neofs, spatial...).
func (s *Solver) EOFsAsCorrelation(neofs int) (*field.Field, error) {
	pcs, err := s.pcField(UnitVariance, neofs)
	if err != nil {
		return nil, eofErrorf(opEOFsCorr, err)
	}
	out, err := CorrelationMap(pcs, s.original)
	if err != nil {
		return nil, eofErrorf(opEOFsCorr, err)
	}

	return out, nil
}

// EOFsAsCovariance returns the covariance between each of the leading neofs
// PCs (scaled by pcscaling) and every channel of the input dataset, shape
// (neofs, spatial...), normalized by T−ddof.
func (s *Solver) EOFsAsCovariance(neofs int, pcscaling Scaling) (*field.Field, error) {
	pcs, err := s.pcField(pcscaling, neofs)
	if err != nil {
		return nil, eofErrorf(opEOFsCov, err)
	}
	out, err := CovarianceMap(pcs, s.original, s.ddof)
	if err != nil {
		return nil, eofErrorf(opEOFsCov, err)
	}

	return out, nil
}

func (s *Solver) pcField(scaling Scaling, n int) (*field.Field, error) {
	P, err := s.PCs(scaling, n)
	if err != nil {
		return nil, err
	}

	return field.FromMatrix(P)
}

// Eigenvalues returns the leading neigs eigenvalues λ = σ²/(T−ddof), descending.
// neigs <= 0 or beyond NEOFs returns all of them.
func (s *Solver) Eigenvalues(neigs int) []float64 {
	n := clamp(neigs, len(s.L))
	out := make([]float64, n)
	copy(out, s.L[:n])

	return out
}

// VarianceFraction returns λ_k / Σ λ for the leading neigs modes. The
// denominator is the sum over ALL modes, not only the requested ones.
func (s *Solver) VarianceFraction(neigs int) []float64 {
	out := s.Eigenvalues(neigs)
	floats.Scale(1/s.total, out)

	return out
}

// TotalAnomalyVariance returns Σ λ over all modes.
func (s *Solver) TotalAnomalyVariance() float64 { return s.total }

// NorthTest returns the typical eigenvalue sampling error λ·√(2/T) of
// North et al. (1982) for the leading neigs modes; with vfscaled it is
// expressed as a fraction of the total variance.
//
// The estimate assumes every time sample is an independent realization.
func (s *Solver) NorthTest(neigs int, vfscaled bool) []float64 {
	out := s.Eigenvalues(neigs)
	f := math.Sqrt(2 / float64(s.T))
	if vfscaled {
		f /= s.total
	}
	floats.Scale(f, out)

	return out
}

// Varimax rotates EOFs of shape (neofs, spatial...), typically obtained from
// EOFs, and returns the rotated EOFs in the same shape together with the
// neofs×neofs rotation matrix. Invalid channels stay NaN.
//
// Errors: field.ErrRank for rank < 2, plus any error of varimax.Rotate.
func (s *Solver) Varimax(eofs *field.Field, opts *varimax.Options) (*field.Field, *matrix.Dense, error) {
	rotated, rot, err := rotateEOFs(eofs, opts)
	if err != nil {
		return nil, nil, eofErrorf(opVarimax, err)
	}

	return rotated, rot, nil
}

// ReconstructedField rebuilds the dataset from the leading neofs modes:
// (P·E + mean) / weights, shape (T, spatial...). Invalid channels are NaN,
// and so are channels whose weight is zero, since their values cannot be
// recovered. With all modes it reproduces the input dataset up to round-off.
func (s *Solver) ReconstructedField(neofs int) (*field.Field, error) {
	n := clamp(neofs, len(s.L))
	P, err := s.PCs(Unscaled, n)
	if err != nil {
		return nil, eofErrorf(opReconstruct, err)
	}
	E, err := s.flatEOFs(Unscaled, n)
	if err != nil {
		return nil, eofErrorf(opReconstruct, err)
	}
	R, err := matrix.Mul(P, E)
	if err != nil {
		return nil, eofErrorf(opReconstruct, err)
	}

	var unweight []float64
	if s.wflat != nil {
		unweight = make([]float64, s.C)
		for c, w := range s.wflat {
			unweight[c] = math.NaN()
			if w != 0 {
				unweight[c] = 1 / w
			}
		}
	}
	data := R.RawData()
	for i := 0; i < s.T; i++ {
		row := data[i*s.C : (i+1)*s.C]
		if s.timeMean != nil {
			floats.Add(row, s.timeMean)
		}
		if unweight != nil {
			floats.Mul(row, unweight)
		}
	}
	out, err := field.New(append([]int{s.T}, s.spatial...), data)
	if err != nil {
		return nil, eofErrorf(opReconstruct, err)
	}

	return out, nil
}

// ProjectField projects fld onto the leading neofs EOFs and returns the
// pseudo-PCs, shape (samples, neofs). fld is either a sequence of samples
// with shape (samples, spatial...) or a single sample with the spatial shape.
// The stored weights and time-mean are applied first, so projecting the
// training dataset reproduces PCs.
//
// Errors:
//   - ErrDimensionMismatch when the spatial shape differs.
//   - ErrMissingMismatch when fld has NaN at a channel that was valid in training.
//   - ErrInvalidScaling.
func (s *Solver) ProjectField(fld *field.Field, neofs int, scaling Scaling) (*matrix.Dense, error) {
	if fld == nil {
		return nil, eofErrorf(opProject, ErrNilDataset)
	}
	n := clamp(neofs, len(s.L))
	f, err := scaling.factors(s.L[:n])
	if err != nil {
		return nil, eofErrorf(opProject, err)
	}

	X, err := s.projectionMatrix(fld)
	if err != nil {
		return nil, eofErrorf(opProject, err)
	}
	sub, err := s.mask.Select(X)
	if err != nil {
		return nil, eofErrorf(opProject, err)
	}
	if matrix.HasNaN(sub) {
		return nil, eofErrorf(opProject, ErrMissingMismatch)
	}

	Vn, err := s.vt.Induced(leading(n), nil)
	if err != nil {
		return nil, eofErrorf(opProject, err)
	}
	V, err := matrix.Transpose(Vn)
	if err != nil {
		return nil, eofErrorf(opProject, err)
	}
	P, err := matrix.Mul(sub, V)
	if err != nil {
		return nil, eofErrorf(opProject, err)
	}
	if P, err = matrix.ScaleCols(P, f); err != nil {
		return nil, eofErrorf(opProject, err)
	}

	return P, nil
}

// projectionMatrix turns fld into a weighted, mean-removed (samples, C) matrix.
func (s *Solver) projectionMatrix(fld *field.Field) (*matrix.Dense, error) {
	shape := fld.Shape()
	var samples int
	switch {
	case slices.Equal(shape, s.spatial):
		samples = 1
	case len(shape) == len(s.spatial)+1 && slices.Equal(shape[1:], s.spatial):
		samples = shape[0]
	default:
		return nil, fmt.Errorf("shape %v vs spatial %v: %w", shape, s.spatial, ErrDimensionMismatch)
	}

	data := fld.Data()
	for i := 0; i < samples; i++ {
		row := data[i*s.C : (i+1)*s.C]
		if s.wflat != nil {
			floats.Mul(row, s.wflat)
		}
		if s.timeMean != nil {
			floats.Sub(row, s.timeMean)
		}
	}

	return matrix.NewDenseFrom(samples, s.C, data)
}
