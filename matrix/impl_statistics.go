// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the column statistics the decomposition pipeline needs
//     (means, centering, standard deviations, covariance, correlation) as
//     deterministic compositions over canonical kernels.
//
// Exposed API:
//   - ColumnMeans(X)           -> means            // NaN in a column yields a NaN mean
//   - CenterColumns(X)         -> (Xc, means)      // subtract per-column mean
//   - ColumnStdDev(X, ddof)    -> stds             // sqrt(Σ(x-mean)²/(r-ddof))
//   - ZScoreColumns(X)         -> (Z, means, stds) // (x-mean)/std, ddof=1
//   - Covariance(X, ddof)      -> (Cov, means)     // (Xcᵀ Xc)/(r-ddof)
//   - Correlation(X)           -> (Corr, means, stds)
//   - CrossCovariance(A, B, ddof), CrossCorrelation(A, B) -> (Aᵀ B)-shaped maps
//
// Missing-value policy:
//   - Means are NOT NaN-skipping. A column that is missing anywhere becomes
//     missing everywhere after centering. mask.Channels relies on this to
//     detect partial missingness.

package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	opColumnMeans   = "ColumnMeans"
	opCenterColumns = "CenterColumns"
	opColumnStdDev  = "ColumnStdDev"
	opZScoreColumns = "ZScoreColumns"
	opCovariance    = "Covariance"
	opCorrelation   = "Correlation"
	opCrossCov      = "CrossCovariance"
	opCrossCorr     = "CrossCorrelation"
)

// ColumnMeans returns the arithmetic mean of every column.
// Uses gonum stat.Mean per column; NaN propagates.
// Complexity: O(r*c).
func ColumnMeans(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opColumnMeans, err)
	}
	Xt, err := Transpose(X)
	if err != nil {
		return nil, matrixErrorf(opColumnMeans, err)
	}
	r, c := X.Rows(), X.Cols()
	means := make([]float64, c)
	if r == 0 {
		return means, nil
	}
	for j := 0; j < c; j++ {
		means[j] = stat.Mean(Xt.data[j*r:(j+1)*r], nil)
	}

	return means, nil
}

// CenterColumns returns a centered copy Xc = X − mean(X, by columns) and the means.
//
// Implementation:
//   - Stage 1: ColumnMeans (NaN-propagating).
//   - Stage 2: ewBroadcastSubCols.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) (+ O(c) means).
//
// AI-Hints:
//   - Keep the means: ReconstructedField and ProjectField add/subtract them later.
func CenterColumns(X Matrix) (*Dense, []float64, error) {
	means, err := ColumnMeans(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	Xc, err := ewBroadcastSubCols(X, means)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	return Xc, means, nil
}

// ColumnStdDev returns sqrt(Σ_i (X[i,j]-mean_j)² / (r-ddof)) per column.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch when r-ddof <= 0.
//
// Complexity: O(r*c).
func ColumnStdDev(X Matrix, ddof int) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opColumnStdDev, err)
	}
	r, c := X.Rows(), X.Cols()
	if r-ddof <= 0 || ddof < 0 {
		return nil, matrixErrorf(opColumnStdDev, ErrDimensionMismatch)
	}
	Xc, _, err := CenterColumns(X)
	if err != nil {
		return nil, matrixErrorf(opColumnStdDev, err)
	}
	Xt, err := Transpose(Xc)
	if err != nil {
		return nil, matrixErrorf(opColumnStdDev, err)
	}
	stds := make([]float64, c)
	inv := 1.0 / float64(r-ddof)
	for j := 0; j < c; j++ {
		col := Xt.data[j*r : (j+1)*r]
		stds[j] = math.Sqrt(floats.Dot(col, col) * inv)
	}

	return stds, nil
}

// ZScoreColumns centers every column and divides it by its sample standard
// deviation (ddof=1). Columns with zero or NaN deviation come out as NaN.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch when r < 2.
//
// Complexity: O(r*c).
func ZScoreColumns(X Matrix) (*Dense, []float64, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, nil, matrixErrorf(opZScoreColumns, err)
	}
	if X.Rows() < 2 {
		return nil, nil, nil, matrixErrorf(opZScoreColumns, ErrDimensionMismatch)
	}
	Xc, means, err := CenterColumns(X)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opZScoreColumns, err)
	}
	stds, err := ColumnStdDev(X, 1)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opZScoreColumns, err)
	}
	invStd := make([]float64, len(stds))
	for j, sd := range stds {
		invStd[j] = math.NaN()
		if sd > 0 {
			invStd[j] = 1.0 / sd
		}
	}
	Z, err := ewScaleCols(Xc, invStd)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opZScoreColumns, err)
	}

	return Z, means, stds, nil
}

// crossScaled returns (Aᵀ B)/dof for row-aligned A and B.
func crossScaled(A, B Matrix, dof int) (*Dense, error) {
	At, err := Transpose(A)
	if err != nil {
		return nil, err
	}
	C, err := Mul(At, B)
	if err != nil {
		return nil, err
	}

	return Scale(C, 1.0/float64(dof))
}

// Covariance computes the covariance of columns: Cov = (Xcᵀ Xc)/(r-ddof).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (r-ddof <= 0).
//
// Complexity:
//   - Time O(r*c + r*c^2), Space O(c^2).
//
// AI-Hints:
//   - With ddof=1 this equals the classical sample covariance.
func Covariance(X Matrix, ddof int) (*Dense, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	r := X.Rows()
	if r-ddof <= 0 || ddof < 0 {
		return nil, nil, matrixErrorf(opCovariance, ErrDimensionMismatch)
	}
	Xc, means, err := CenterColumns(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	Cov, err := crossScaled(Xc, Xc, r-ddof)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}

	return Cov, means, nil
}

// Correlation computes the Pearson correlation of columns via z-scoring:
// Corr = (Zᵀ Z)/(r-1), Z = ZScoreColumns(X). A constant column yields NaN,
// as gonum stat.Correlation does.
//
// Returns Corr, means, stds (ddof=1).
// Complexity: O(r*c + r*c^2).
func Correlation(X Matrix) (*Dense, []float64, []float64, error) {
	Z, means, stds, err := ZScoreColumns(X)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opCorrelation, err)
	}
	Corr, err := crossScaled(Z, Z, X.Rows()-1)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opCorrelation, err)
	}

	return Corr, means, stds, nil
}

// CrossCovariance returns the covariance between every column of A and every
// column of B, shape (A.Cols × B.Cols), normalized by r-ddof. Both operands
// are centered first; NaN propagates per column.
//
// Errors:
//   - ErrNilMatrix.
//   - ErrDimensionMismatch when the row counts differ or r-ddof <= 0.
//
// Complexity: O(r*(a+b) + r*a*b).
func CrossCovariance(A, B Matrix, ddof int) (*Dense, error) {
	if err := ValidateNotNil(A); err != nil {
		return nil, matrixErrorf(opCrossCov, err)
	}
	if err := ValidateNotNil(B); err != nil {
		return nil, matrixErrorf(opCrossCov, err)
	}
	r := A.Rows()
	if B.Rows() != r || r-ddof <= 0 || ddof < 0 {
		return nil, matrixErrorf(opCrossCov, ErrDimensionMismatch)
	}
	Ac, _, err := CenterColumns(A)
	if err != nil {
		return nil, matrixErrorf(opCrossCov, err)
	}
	Bc, _, err := CenterColumns(B)
	if err != nil {
		return nil, matrixErrorf(opCrossCov, err)
	}
	C, err := crossScaled(Ac, Bc, r-ddof)
	if err != nil {
		return nil, matrixErrorf(opCrossCov, err)
	}

	return C, nil
}

// CrossCorrelation returns the Pearson correlation between every column of A
// and every column of B, shape (A.Cols × B.Cols). Constant or NaN-bearing
// columns yield NaN.
//
// Errors:
//   - ErrNilMatrix.
//   - ErrDimensionMismatch when the row counts differ or r < 2.
func CrossCorrelation(A, B Matrix) (*Dense, error) {
	if err := ValidateNotNil(A); err != nil {
		return nil, matrixErrorf(opCrossCorr, err)
	}
	if err := ValidateNotNil(B); err != nil {
		return nil, matrixErrorf(opCrossCorr, err)
	}
	if A.Rows() != B.Rows() {
		return nil, matrixErrorf(opCrossCorr, ErrDimensionMismatch)
	}
	Za, _, _, err := ZScoreColumns(A)
	if err != nil {
		return nil, matrixErrorf(opCrossCorr, err)
	}
	Zb, _, _, err := ZScoreColumns(B)
	if err != nil {
		return nil, matrixErrorf(opCrossCorr, err)
	}
	C, err := crossScaled(Za, Zb, A.Rows()-1)
	if err != nil {
		return nil, matrixErrorf(opCrossCorr, err)
	}

	return C, nil
}

// Gram returns Xᵀ X (c×c) through the canonical Transpose/Mul kernels.
// Complexity: O(r*c^2).
func Gram(X Matrix) (*Dense, error) {
	Xt, err := Transpose(X)
	if err != nil {
		return nil, err
	}

	return Mul(Xt, X)
}

// HasNaN reports whether any element of m is NaN (gonum floats scan on Dense).
// Complexity: O(r*c).
func HasNaN(m *Dense) bool {
	if m == nil {
		return false
	}

	return floats.HasNaN(m.data)
}
