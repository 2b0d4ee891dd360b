// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Bridge Dense to gonum's LAPACK-backed factorizations (thin SVD, symmetric eigen).
//   - Keep gonum types out of the public surface: inputs and outputs are *Dense/[]float64.
//
// Determinism:
//   - gonum's native LAPACK is deterministic for a given input.
//   - Eigenpairs are returned in DESCENDING order to match singular-value order.
//
// AI-Hints:
//   - Validate with ValidateFinite first; a NaN input makes Gesvd fail or spread NaN.

package matrix

import (
	"gonum.org/v1/gonum/mat"
)

const (
	opSVD      = "SVD"
	opEigenSym = "EigenSym"
)

// SVDResult holds a thin singular value decomposition A = U·diag(S)·Vt.
//   - U : r×k with orthonormal columns, k = min(r,c)
//   - S : k singular values, descending, non-negative
//   - Vt: k×c with orthonormal rows
type SVDResult struct {
	U  *Dense
	S  []float64
	Vt *Dense
}

// toGonum copies a Dense into a gonum *mat.Dense.
func toGonum(m *Dense) *mat.Dense {
	return mat.NewDense(m.r, m.c, m.RawData())
}

// fromGonum copies any gonum matrix into a fresh Dense.
func fromGonum(g mat.Matrix) *Dense {
	r, c := g.Dims()
	out := &Dense{r: r, c: c, data: make([]float64, r*c), validateNaNInf: DefaultValidateNaNInf}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.data[i*c+j] = g.At(i, j)
		}
	}

	return out
}

// SVD computes the thin SVD of m through gonum mat.SVD (mat.SVDThin).
//
// Implementation:
//   - Stage 1: ValidateFinite(m).
//   - Stage 2: Factorize; a false return maps to ErrSVDFailed.
//   - Stage 3: copy U, S, Vᵀ out of gonum storage.
//
// Errors:
//   - ErrNilMatrix, ErrNaNInf, ErrSVDFailed.
//
// Complexity:
//   - O(r*c*min(r,c)).
func SVD(m *Dense) (*SVDResult, error) {
	if err := ValidateFinite(m); err != nil {
		return nil, matrixErrorf(opSVD, err)
	}

	var svd mat.SVD
	if ok := svd.Factorize(toGonum(m), mat.SVDThin); !ok {
		return nil, matrixErrorf(opSVD, ErrSVDFailed)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	return &SVDResult{
		U:  fromGonum(&u),
		S:  svd.Values(nil),
		Vt: fromGonum(v.T()),
	}, nil
}

// EigenSym computes eigenpairs of a symmetric matrix via gonum mat.EigenSym.
//
// Returns:
//   - []float64: eigenvalues, DESCENDING.
//   - *Dense   : eigenvectors as columns, same order.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry, ErrNaNInf, ErrEigenFailed.
//
// Complexity: O(n^3).
func EigenSym(m *Dense, tol float64) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	if err := ValidateFinite(m); err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}
	n := m.r
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, m.data[i*n+j])
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, nil, matrixErrorf(opEigenSym, ErrEigenFailed)
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// gonum returns ascending order.
	vals, out, err := sortEigenDescending(es.Values(nil), fromGonum(&vecs))
	if err != nil {
		return nil, nil, matrixErrorf(opEigenSym, err)
	}

	return vals, out, nil
}
