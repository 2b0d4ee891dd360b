// SPDX-License-Identifier: MIT

package eof

import (
	"fmt"

	"github.com/katalvlaran/lvleof/field"
	"github.com/katalvlaran/lvleof/matrix"
)

const (
	opCorrelationMap = "CorrelationMap"
	opCovarianceMap  = "CovarianceMap"
)

// CorrelationMap returns the Pearson correlation between each PC and every
// channel of fld. Both are centered along time first.
//
// pcs is either one series of shape (T) or a set of shape (T, n); fld has
// shape (T, spatial...). The result has shape (spatial...) for a single
// series and (n, spatial...) otherwise. Channels that are missing, or that
// have zero variance, yield NaN.
//
// Errors:
//   - ErrPCRank when pcs is not rank 1 or 2.
//   - ErrDimensionMismatch when the leading dimensions differ.
//
// Complexity: O(T·n·C).
func CorrelationMap(pcs, fld *field.Field) (*field.Field, error) {
	P, F, shape, err := mapOperands(pcs, fld)
	if err != nil {
		return nil, eofErrorf(opCorrelationMap, err)
	}
	T := P.Rows()
	if T < 2 {
		return nil, eofErrorf(opCorrelationMap, fmt.Errorf("T=%d: %w", T, ErrDDOF))
	}
	C, err := matrix.CrossCorrelation(P, F)
	if err != nil {
		return nil, eofErrorf(opCorrelationMap, err)
	}
	out, err := field.New(shape, C.RawData())
	if err != nil {
		return nil, eofErrorf(opCorrelationMap, err)
	}

	return out, nil
}

// CovarianceMap returns the covariance between each PC and every channel of
// fld, normalized by T−ddof. Shapes and errors follow CorrelationMap;
// additionally ErrDDOF when ddof is outside [0, T).
func CovarianceMap(pcs, fld *field.Field, ddof int) (*field.Field, error) {
	P, F, shape, err := mapOperands(pcs, fld)
	if err != nil {
		return nil, eofErrorf(opCovarianceMap, err)
	}
	T := P.Rows()
	if ddof < 0 || ddof >= T {
		return nil, eofErrorf(opCovarianceMap, fmt.Errorf("ddof=%d T=%d: %w", ddof, T, ErrDDOF))
	}
	C, err := matrix.CrossCovariance(P, F, ddof)
	if err != nil {
		return nil, eofErrorf(opCovarianceMap, err)
	}
	out, err := field.New(shape, C.RawData())
	if err != nil {
		return nil, eofErrorf(opCovarianceMap, err)
	}

	return out, nil
}

// mapOperands validates and flattens the inputs of the map functions and
// returns the output shape.
func mapOperands(pcs, fld *field.Field) (*matrix.Dense, *matrix.Dense, []int, error) {
	if pcs == nil || fld == nil {
		return nil, nil, nil, ErrNilDataset
	}
	if r := pcs.Rank(); r != 1 && r != 2 {
		return nil, nil, nil, fmt.Errorf("rank %d: %w", r, ErrPCRank)
	}
	if fld.Rank() < 1 {
		return nil, nil, nil, fmt.Errorf("field rank 0: %w", ErrDimensionMismatch)
	}
	if tp, tf := pcs.Shape()[0], fld.Shape()[0]; tp != tf {
		return nil, nil, nil, fmt.Errorf("pcs T=%d field T=%d: %w", tp, tf, ErrDimensionMismatch)
	}
	P, err := pcs.Flatten()
	if err != nil {
		return nil, nil, nil, err
	}
	F, err := fld.Flatten()
	if err != nil {
		return nil, nil, nil, err
	}
	shape := fld.SliceShape()
	if pcs.Rank() == 2 {
		shape = append([]int{P.Cols()}, shape...)
	}

	return P, F, shape, nil
}
