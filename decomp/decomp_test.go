// SPDX-License-Identifier: MIT
package decomp_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvleof/decomp"
	"github.com/katalvlaran/lvleof/matrix"
)

var methods = []decomp.Method{decomp.SVD, decomp.CovarianceEigen, decomp.Jacobi}

func randDense(t *testing.T, seed int64, r, c int) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, r*c)
	for k := range data {
		data[k] = rng.NormFloat64()
	}
	m, err := matrix.NewDenseFrom(r, c, data)
	require.NoError(t, err)

	return m
}

func TestDecompose_Reconstruction(t *testing.T) {
	for _, m := range methods {
		for _, shape := range [][2]int{{40, 6}, {12, 12}} {
			t.Run(m.String(), func(t *testing.T) {
				X := randDense(t, 42, shape[0], shape[1])
				res, err := decomp.Decompose(X, m)
				require.NoError(t, err)
				require.Equal(t, min(shape[0], shape[1]), res.K())

				for k := 1; k < res.K(); k++ {
					assert.GreaterOrEqual(t, res.S[k-1], res.S[k], "singular values descending")
				}
				for _, s := range res.S {
					assert.GreaterOrEqual(t, s, 0.0)
				}

				AS, err := matrix.ScaleCols(res.A, res.S)
				require.NoError(t, err)
				back, err := matrix.Mul(AS, res.Vt)
				require.NoError(t, err)
				ok, err := matrix.AllClose(back, X, 0, 1e-8)
				require.NoError(t, err)
				assert.True(t, ok, "A·diag(S)·Vt must reproduce X")

				// Rows of Vt are orthonormal.
				V, err := matrix.Transpose(res.Vt)
				require.NoError(t, err)
				VtV, err := matrix.Mul(res.Vt, V)
				require.NoError(t, err)
				I, err := matrix.Identity(res.K())
				require.NoError(t, err)
				ok, err = matrix.AllClose(VtV, I, 0, 1e-8)
				require.NoError(t, err)
				assert.True(t, ok, "Vt rows must be orthonormal")
			})
		}
	}
}

func TestDecompose_MethodParity(t *testing.T) {
	X := randDense(t, 7, 50, 5)
	ref, err := decomp.Decompose(X, decomp.SVD)
	require.NoError(t, err)

	for _, m := range methods[1:] {
		res, err := decomp.Decompose(X, m)
		require.NoError(t, err)
		assert.True(t, floats.EqualApprox(ref.S, res.S, 1e-8), "%v singular values", m)
		for k := 0; k < ref.K(); k++ {
			a, _ := ref.Vt.Row(k)
			b, _ := res.Vt.Row(k)
			assert.InDelta(t, 1, math.Abs(floats.Dot(a, b)), 1e-8, "%v mode %d equal up to sign", m, k)
		}
	}
}

func TestDecompose_WideMatrix(t *testing.T) {
	// T < C: only T modes exist.
	X := randDense(t, 3, 4, 9)
	for _, m := range methods {
		res, err := decomp.Decompose(X, m)
		require.NoError(t, err, "%v", m)
		assert.Equal(t, 4, res.K())
		r, c := res.A.Shape()
		assert.Equal(t, 4, r)
		assert.Equal(t, 4, c)
		r, c = res.Vt.Shape()
		assert.Equal(t, 4, r)
		assert.Equal(t, 9, c)
	}
}

func TestDecompose_Errors(t *testing.T) {
	_, err := decomp.Decompose(nil, decomp.SVD)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	X, err := matrix.NewDenseFrom(2, 2, []float64{1, math.NaN(), 3, 4})
	require.NoError(t, err)
	for _, m := range methods {
		_, err = decomp.Decompose(X, m)
		require.ErrorIs(t, err, decomp.ErrDecompositionFailed, "%v", m)
		require.ErrorIs(t, err, matrix.ErrNaNInf)
		assert.Contains(t, err.Error(), "missing values")
	}

	_, err = decomp.Decompose(randDense(t, 1, 3, 2), decomp.Method(42))
	require.ErrorIs(t, err, decomp.ErrUnknownMethod)
}

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]decomp.Method{
		"":        decomp.SVD,
		"svd":     decomp.SVD,
		" Eigen ": decomp.CovarianceEigen,
		"JACOBI":  decomp.Jacobi,
	} {
		got, err := decomp.ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := decomp.ParseMethod("qr")
	require.ErrorIs(t, err, decomp.ErrUnknownMethod)

	assert.Equal(t, "jacobi", decomp.Jacobi.String())
	assert.Equal(t, "Method(7)", decomp.Method(7).String())
}
