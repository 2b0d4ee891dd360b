// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvleof/matrix"
)

func TestValidateSameShape(t *testing.T) {
	require.NoError(t, matrix.ValidateSameShape(MustDense(t, 2, 3), MustDense(t, 2, 3)))
	require.ErrorIs(t, matrix.ValidateSameShape(MustDense(t, 2, 3), MustDense(t, 3, 3)), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, matrix.ValidateSameShape(MustDense(t, 2, 3), MustDense(t, 2, 2)), matrix.ErrDimensionMismatch)
}

func TestValidateSquare(t *testing.T) {
	require.NoError(t, matrix.ValidateSquare(MustDense(t, 3, 3)))
	require.ErrorIs(t, matrix.ValidateSquare(MustDense(t, 3, 2)), matrix.ErrDimensionMismatch)
}

func TestValidateNotNil(t *testing.T) {
	var typed *matrix.Dense
	require.ErrorIs(t, matrix.ValidateNotNil(nil), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateNotNil(typed), matrix.ErrNilMatrix)
	require.NoError(t, matrix.ValidateNotNil(MustDense(t, 1, 1)))
}

func TestValidateVecLen(t *testing.T) {
	require.NoError(t, matrix.ValidateVecLen([]float64{1, 2}, 2))
	require.ErrorIs(t, matrix.ValidateVecLen(nil, 2), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateVecLen([]float64{1}, 2), matrix.ErrDimensionMismatch)
}

func TestValidateFinite(t *testing.T) {
	ok := MustFrom(t, 1, 2, 1, 2)
	require.NoError(t, matrix.ValidateFinite(ok))
	require.NoError(t, matrix.ValidateFinite(hide{ok}))

	bad := MustFrom(t, 1, 2, 1, math.Inf(1))
	require.ErrorIs(t, matrix.ValidateFinite(bad), matrix.ErrNaNInf)
	require.ErrorIs(t, matrix.ValidateFinite(hide{bad}), matrix.ErrNaNInf)
}

func TestValidateSymmetric(t *testing.T) {
	m := MustFrom(t, 2, 2,
		1, 2,
		2+1e-12, 1)
	require.NoError(t, matrix.ValidateSymmetric(m, 1e-9))
	require.ErrorIs(t, matrix.ValidateSymmetric(m, 0), matrix.ErrAsymmetry)
	require.ErrorIs(t, matrix.ValidateSymmetric(m, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, matrix.ValidateSymmetric(MustDense(t, 2, 3), 1e-9), matrix.ErrDimensionMismatch)
}

func TestAllCloseNaN(t *testing.T) {
	a := MustFrom(t, 1, 3, 1, math.NaN(), 3)
	b := MustFrom(t, 1, 3, 1+1e-12, math.NaN(), 3)

	ok, err := matrix.AllClose(a, b, 0, 1e-9)
	require.NoError(t, err)
	require.False(t, ok, "NaN never equals NaN in AllClose")

	ok, err = matrix.AllCloseNaN(a, b, 0, 1e-9)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = matrix.AllClose(a, MustDense(t, 1, 2), 0, 1)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.AllClose(a, b, math.NaN(), 0)
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}
