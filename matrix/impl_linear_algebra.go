// SPDX-License-Identifier: MIT
// Package matrix provides the linear-algebra kernels used by the decomposition
// engine: matrix product, transpose, scalar and broadcast scaling, identity,
// and the Jacobi eigen solver for symmetric matrices.
//
// All functions perform strict fail-fast validation, never mutate their
// inputs, and return clear errors on dimension mismatches.
//
// Notes:
//   - NaN propagates through every kernel exactly as in IEEE arithmetic;
//     Mul deliberately has no zero-skip so 0*NaN stays NaN.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// ZeroSum is the initial accumulator value.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opScaleCols = "ScaleCols"
	opScaleRows = "ScaleRows"
	opIdentity  = "Identity"
	opEigen     = "Eigen"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
//
// AI-Hints:
//   - Always gate calls with `if err != nil { return nil, matrixErrorf(tag, err) }`.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul returns the matrix product C = A×B.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b). Allocate result Dense(a.Rows, b.Cols).
//   - Stage 2: Fast-path if both are *Dense (i→k→j, cache-friendly on B rows).
//     Otherwise fall back to At with fixed i→j→k order.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := newDenseZeroOK(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k int
		av, bv  float64
	)
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			var rowA, rowB, rowR int
			for i = 0; i < aRows; i++ {
				rowA = i * aCols
				rowR = i * bCols
				for k = 0; k < aCols; k++ {
					av = da.data[rowA+k]
					rowB = k * bCols
					for j = 0; j < bCols; j++ {
						res.data[rowR+j] += av * db.data[rowB+j]
					}
				}
			}
			return res, nil
		}
	}

	var current float64
	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				current += av * bv
			}
			res.data[i*bCols+j] = current
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Complexity: O(r*c) time and space.
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := newDenseZeroOK(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if dm, ok := m.(*Dense); ok {
		var base int
		for i = 0; i < rows; i++ {
			base = i * cols
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = dm.data[base+j]
			}
		}
		return res, nil
	}

	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, err)
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// Scale returns a new matrix whose elements are alpha * m[i,j].
// Complexity: O(r*c).
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	out, err := denseCopyOf(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for k := range out.data {
		out.data[k] *= alpha
	}

	return out, nil
}

// ScaleCols returns out[i,j] = m[i,j] * s[j].
// Complexity: O(r*c).
//
// AI-Hints: PC scaling by 1/√λ or √λ is exactly this kernel.
func ScaleCols(m Matrix, s []float64) (*Dense, error) {
	out, err := ewScaleCols(m, s)
	if err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}

	return out, nil
}

// ScaleRows returns out[i,j] = m[i,j] * s[i].
// Complexity: O(r*c).
func ScaleRows(m Matrix, s []float64) (*Dense, error) {
	out, err := ewScaleRows(m, s)
	if err != nil {
		return nil, matrixErrorf(opScaleRows, err)
	}

	return out, nil
}

// Identity returns I_n.
// Complexity: O(n^2) zeroing + O(n) diagonal writes.
func Identity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opIdentity, err)
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// denseCopyOf materializes any Matrix as a fresh *Dense (same shape).
func denseCopyOf(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d.clone(), nil
	}
	r, c := m.Rows(), m.Cols()
	out, err := newDenseZeroOK(r, c)
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			out.data[i*c+j] = v
		}
	}

	return out, nil
}

// Eigen computes all eigenvalues and eigenvectors of a real symmetric matrix
// with cyclic-by-largest-pivot Jacobi rotations (pure Go, no LAPACK).
//
// Implementation:
//   - Stage 1: ValidateSymmetric(m, tol) and ValidateFinite(m).
//   - Stage 2: A := copy(m), Q := I. Repeat up to maxIter rotations:
//     pick (p,q) = argmax |A[p,q]| over the strict upper triangle; stop when < tol;
//     zero it with a Givens rotation; accumulate the rotation into Q.
//   - Stage 3: sort eigenpairs by DESCENDING eigenvalue (stable, index tie-break).
//
// Returns:
//   - []float64: eigenvalues, descending.
//   - *Dense   : eigenvectors as COLUMNS, in the same order.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry, ErrNaNInf, ErrEigenFailed.
//
// Complexity:
//   - O(n) per pivot search row, O(maxIter·n²) worst case; Memory O(n²).
//
// AI-Hints:
//   - maxIter counts single rotations, not sweeps; n² · 50 is ample for well-conditioned input.
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	if err := ValidateFinite(m); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := m.Rows()
	A, err := denseCopyOf(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	Q, err := Identity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	var (
		iter, i, j, p, q int
		maxOff, off      float64
		app, aqq, apq    float64
		aip, aiq         float64
		newIP, newIQ     float64
		theta, t, c, s   float64
		converged        bool
	)
	for iter = 0; iter < maxIter; iter++ {
		// J.1: pivot search.
		maxOff = 0
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				off = math.Abs(A.data[i*n+j])
				if off > maxOff {
					maxOff, p, q = off, i, j
				}
			}
		}
		// J.2: convergence.
		if maxOff < tol {
			converged = true
			break
		}

		// J.3: rotation parameters.
		app = A.data[p*n+p]
		aqq = A.data[q*n+q]
		apq = A.data[p*n+q]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		// J.4: apply to A (symmetric update of rows/cols p and q).
		for i = 0; i < n; i++ {
			if i == p || i == q {
				continue
			}
			aip = A.data[i*n+p]
			aiq = A.data[i*n+q]
			newIP = c*aip - s*aiq
			newIQ = s*aip + c*aiq
			A.data[i*n+p], A.data[p*n+i] = newIP, newIP
			A.data[i*n+q], A.data[q*n+i] = newIQ, newIQ
		}
		A.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		A.data[q*n+q] = s*s*app + 2*c*s*apq + c*c*aqq
		A.data[p*n+q], A.data[q*n+p] = 0, 0

		// J.5: accumulate into Q.
		for i = 0; i < n; i++ {
			aip = Q.data[i*n+p]
			aiq = Q.data[i*n+q]
			Q.data[i*n+p] = c*aip - s*aiq
			Q.data[i*n+q] = s*aip + c*aiq
		}
	}
	if !converged {
		return nil, nil, matrixErrorf(opEigen, ErrEigenFailed)
	}

	vals := make([]float64, n)
	for i = 0; i < n; i++ {
		vals[i] = A.data[i*n+i]
	}

	return sortEigenDescending(vals, Q)
}

// sortEigenDescending reorders eigenvalues (and the matching eigenvector
// columns of vecs) from largest to smallest. Ties keep index order.
func sortEigenDescending(vals []float64, vecs *Dense) ([]float64, *Dense, error) {
	n := len(vals)
	order := seq(n)
	sort.SliceStable(order, func(a, b int) bool { return vals[order[a]] > vals[order[b]] })

	sorted := make([]float64, n)
	for k, idx := range order {
		sorted[k] = vals[idx]
	}
	out, err := vecs.Induced(nil, order)
	if err != nil {
		return nil, nil, err
	}

	return sorted, out, nil
}
