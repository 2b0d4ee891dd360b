// SPDX-License-Identifier: MIT
package eof_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvleof/eof"
	"github.com/katalvlaran/lvleof/field"
	"github.com/katalvlaran/lvleof/mask"
	"github.com/katalvlaran/lvleof/matrix"
)

// samples returns an r×c matrix of N(0,1) draws with NaN at the given rows (column 1).
func samples(t *testing.T, seed int64, r, c int, nanRows ...int) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, r*c)
	for k := range data {
		data[k] = rng.NormFloat64()
	}
	for _, i := range nanRows {
		data[i*c+1] = math.NaN()
	}
	m, err := matrix.NewDenseFrom(r, c, data)
	require.NoError(t, err)

	return m
}

func TestDecompose_DropsIncompleteSamples(t *testing.T) {
	x := samples(t, 21, 50, 4, 3, 10)
	d, err := eof.Decompose(x, 0)
	require.NoError(t, err)
	require.Equal(t, 4, d.NEOFs())

	valid := d.SampleMask()
	require.Len(t, valid, 50)
	require.False(t, valid[3])
	require.False(t, valid[10])
	require.True(t, valid[0])

	P, err := d.PCs(eof.Unscaled)
	require.NoError(t, err)
	require.Equal(t, 50, P.Rows())
	require.Equal(t, 4, P.Cols())
	for i := 0; i < 50; i++ {
		row, err := P.Row(i)
		require.NoError(t, err)
		require.Equal(t, !valid[i], floats.HasNaN(row), "row %d", i)
	}
	require.InDelta(t, 1.0, floats.Sum(d.VarianceFraction()), tol)

	// Same spectrum as a Solver on the complete samples.
	rows, err := mask.Rows(x)
	require.NoError(t, err)
	clean, err := rows.Select(x)
	require.NoError(t, err)
	cf, err := field.FromMatrix(clean)
	require.NoError(t, err)
	s, err := eof.New(cf)
	require.NoError(t, err)
	require.True(t, floats.EqualApprox(s.Eigenvalues(0), d.Eigenvalues(), 1e-10))
}

func TestDecompose_Truncation(t *testing.T) {
	x := samples(t, 22, 30, 5)
	d, err := eof.Decompose(x, 2)
	require.NoError(t, err)
	require.Equal(t, 2, d.NEOFs())
	require.Len(t, d.Eigenvalues(), 2)
	require.Less(t, floats.Sum(d.VarianceFraction()), 1.0)

	E, err := d.EOFs(eof.Unscaled)
	require.NoError(t, err)
	require.Equal(t, 2, E.Rows())
	require.Equal(t, 5, E.Cols())
	Et, err := matrix.Transpose(E)
	require.NoError(t, err)
	EEt, err := matrix.Mul(E, Et)
	require.NoError(t, err)
	I, err := matrix.Identity(2)
	require.NoError(t, err)
	requireClose(t, EEt, I, tol)

	P1, err := d.PCs(eof.UnitVariance)
	require.NoError(t, err)
	std, err := matrix.ColumnStdDev(P1, 1)
	require.NoError(t, err)
	require.InDelta(t, 1.0, std[0], tol)
	require.InDelta(t, 1.0, std[1], tol)

	R, rot, err := d.Varimax(eof.EigenvalueWeighted, nil)
	require.NoError(t, err)
	require.Equal(t, 2, R.Rows())
	require.Equal(t, 5, R.Cols())
	require.Equal(t, 2, rot.Rows())

	_, err = d.EOFs(eof.Scaling(7))
	require.ErrorIs(t, err, eof.ErrInvalidScaling)
	_, err = d.PCs(eof.Scaling(7))
	require.ErrorIs(t, err, eof.ErrInvalidScaling)
	_, _, err = d.Varimax(eof.Scaling(7), nil)
	require.ErrorIs(t, err, eof.ErrInvalidScaling)
}

func TestDecompose_Weights(t *testing.T) {
	x := samples(t, 23, 40, 4)
	w := []float64{1, 2, 3, 4}
	weighted, err := eof.Decompose(x, 0, eof.WithWeights(w))
	require.NoError(t, err)

	xw, err := matrix.ScaleCols(x, w)
	require.NoError(t, err)
	plain, err := eof.Decompose(xw, 0)
	require.NoError(t, err)
	require.True(t, floats.EqualApprox(plain.Eigenvalues(), weighted.Eigenvalues(), 1e-10))

	// A scalar weight broadcasts to every variable.
	scaled, err := eof.Decompose(x, 0, eof.WithWeights(2.0))
	require.NoError(t, err)
	base, err := eof.Decompose(x, 0)
	require.NoError(t, err)
	require.InDelta(t, 4*base.Eigenvalues()[0], scaled.Eigenvalues()[0], 1e-9)

	_, err = eof.Decompose(x, 0, eof.WithWeights([]float64{1, 2}))
	require.ErrorIs(t, err, field.ErrBroadcast)
}

func TestDecompose_Errors(t *testing.T) {
	_, err := eof.Decompose(nil, 1)
	require.ErrorIs(t, err, eof.ErrNilDataset)

	_, err = eof.Decompose(samples(t, 24, 3, 2, 0, 1), 1)
	require.ErrorIs(t, err, mask.ErrRank)

	_, err = eof.Decompose(samples(t, 24, 3, 2, 0, 1, 2), 1)
	require.ErrorIs(t, err, mask.ErrAllMissing)

	_, err = eof.Decompose(samples(t, 24, 10, 2, 0), 1, eof.WithDDOF(9))
	require.ErrorIs(t, err, eof.ErrDDOF)
}
