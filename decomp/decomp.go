// SPDX-License-Identifier: MIT

// Package decomp is the decomposition engine behind the EOF solver.
//
// Given a NaN-free design matrix X (T×C) it returns the thin factorization
//
//	X = A · diag(S) · Vt,   A:(T×K), S:(K), Vt:(K×C),   K = min(T, C)
//
// with singular values in descending order. Three interchangeable backends
// are provided:
//
//   - SVD: LAPACK Gesvd through gonum (default, most accurate).
//   - CovarianceEigen: gonum EigenSym of XᵀX; V from eigenvectors,
//     S = √λ, A = X·V·diag(1/S). Cheaper when T ≫ C.
//   - Jacobi: the same covariance route with the pure-Go Jacobi solver from
//     package matrix; no LAPACK involved. Intended for small C.
//
// All backends are deterministic; singular vectors are unique only up to sign.
package decomp

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvleof/matrix"
)

// ErrDecompositionFailed indicates a factorization failure or a NaN/Inf in its output.
var ErrDecompositionFailed = errors.New(
	"decomp: decomposition failed; the most likely cause is missing values " +
		"that are not in the same places at every time")

// ErrUnknownMethod indicates an unrecognized Method value or name.
var ErrUnknownMethod = errors.New("decomp: unknown method")

// Method selects the decomposition backend.
type Method int

const (
	// SVD factorizes X directly (gonum mat.SVD, thin).
	SVD Method = iota

	// CovarianceEigen factorizes XᵀX with gonum mat.EigenSym.
	CovarianceEigen

	// Jacobi factorizes XᵀX with the pure-Go Jacobi rotations of package matrix.
	Jacobi
)

// jacobiSweeps bounds Jacobi rotations at jacobiSweeps·C².
const jacobiSweeps = 100

// relTol is the relative tolerance for the eigen backends (symmetry, convergence, rank).
const relTol = 1e-12

var methodNames = map[Method]string{
	SVD:             "svd",
	CovarianceEigen: "eigen",
	Jacobi:          "jacobi",
}

// String implements fmt.Stringer.
func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}

	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps "svd", "eigen" or "jacobi" (case-insensitive) to a Method.
// An empty string selects SVD.
func ParseMethod(s string) (Method, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SVD, nil
	}
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}

	return SVD, fmt.Errorf("decomp.ParseMethod %q: %w", s, ErrUnknownMethod)
}

// Result is the thin factorization X = A·diag(S)·Vt.
type Result struct {
	A  *matrix.Dense // T×K, orthonormal columns (zero for null singular values on eigen backends)
	S  []float64     // K, descending, non-negative
	Vt *matrix.Dense // K×C, orthonormal rows
}

// K returns the number of components.
func (r *Result) K() int { return len(r.S) }

// Decompose factorizes X with the given backend.
//
// Errors:
//   - matrix.ErrNilMatrix for nil X.
//   - ErrUnknownMethod for an invalid backend.
//   - ErrDecompositionFailed (wrapping the backend cause) for NaN/Inf input,
//     non-convergence, or NaN in the output.
//
// Complexity:
//   - SVD: O(T·C·min(T,C)); eigen backends: O(T·C² + C³).
func Decompose(X *matrix.Dense, method Method) (*Result, error) {
	if X == nil {
		return nil, fmt.Errorf("decomp.Decompose: %w", matrix.ErrNilMatrix)
	}
	if err := matrix.ValidateFinite(X); err != nil {
		return nil, fmt.Errorf("decomp.Decompose: %w: %w", ErrDecompositionFailed, err)
	}

	var (
		res *Result
		err error
	)
	switch method {
	case SVD:
		res, err = viaSVD(X)
	case CovarianceEigen, Jacobi:
		res, err = viaEigen(X, method)
	default:
		return nil, fmt.Errorf("decomp.Decompose: %v: %w", method, ErrUnknownMethod)
	}
	if err != nil {
		return nil, fmt.Errorf("decomp.Decompose(%v): %w: %w", method, ErrDecompositionFailed, err)
	}
	if floats.HasNaN(res.S) || matrix.HasNaN(res.A) || matrix.HasNaN(res.Vt) {
		return nil, fmt.Errorf("decomp.Decompose(%v): %w", method, ErrDecompositionFailed)
	}

	return res, nil
}

func viaSVD(X *matrix.Dense) (*Result, error) {
	svd, err := matrix.SVD(X)
	if err != nil {
		return nil, err
	}

	return &Result{A: svd.U, S: svd.S, Vt: svd.Vt}, nil
}

// viaEigen derives the thin SVD from the eigenpairs of G = XᵀX.
func viaEigen(X *matrix.Dense, method Method) (*Result, error) {
	T, C := X.Shape()
	K := min(T, C)

	G, err := matrix.Gram(X)
	if err != nil {
		return nil, err
	}
	tol := math.Max(relTol*floats.Norm(G.RawData(), 2), math.SmallestNonzeroFloat64)

	var (
		vals []float64
		vecs *matrix.Dense
	)
	if method == Jacobi {
		vals, vecs, err = matrix.Eigen(G, tol, jacobiSweeps*C*C)
	} else {
		vals, vecs, err = matrix.EigenSym(G, tol)
	}
	if err != nil {
		return nil, err
	}

	// Keep the leading K eigenpairs; clamp round-off negatives to zero.
	keep := make([]int, K)
	S := make([]float64, K)
	for k := 0; k < K; k++ {
		keep[k] = k
		S[k] = math.Sqrt(math.Max(vals[k], 0))
	}
	V, err := vecs.Induced(nil, keep) // C×K
	if err != nil {
		return nil, err
	}
	Vt, err := matrix.Transpose(V)
	if err != nil {
		return nil, err
	}

	// A = X·V·diag(1/S); columns of null singular values stay zero.
	XV, err := matrix.Mul(X, V)
	if err != nil {
		return nil, err
	}
	inv := make([]float64, K)
	cut := relTol * S[0]
	for k := range S {
		if S[k] > cut {
			inv[k] = 1 / S[k]
		}
	}
	A, err := matrix.ScaleCols(XV, inv)
	if err != nil {
		return nil, err
	}

	return &Result{A: A, S: S, Vt: Vt}, nil
}
