// SPDX-License-Identifier: MIT
package mask_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvleof/mask"
	"github.com/katalvlaran/lvleof/matrix"
)

var nan = math.NaN()

func mustFrom(t *testing.T, r, c int, data ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(r, c, data)
	require.NoError(t, err)

	return m
}

func TestChannels_UniformMissing(t *testing.T) {
	X := mustFrom(t, 3, 3,
		1, nan, 3,
		4, nan, 6,
		7, nan, 9)
	m, err := mask.Channels(X)
	require.NoError(t, err)
	assert.Equal(t, mask.ByChannel, m.Policy())
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 2, m.Count())
	assert.Equal(t, []bool{true, false, true}, m.Valid())
	assert.Equal(t, []int{0, 2}, m.Index())
	assert.True(t, m.IsValid(2))
	assert.False(t, m.IsValid(1))
	assert.False(t, m.IsValid(5))

	sub, err := m.Select(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 4, 6, 7, 9}, sub.RawData())

	back, err := m.ExpandCols(sub)
	require.NoError(t, err)
	ok, err := matrix.AllCloseNaN(back, X, 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChannels_Errors(t *testing.T) {
	partial := mustFrom(t, 2, 2,
		1, nan,
		2, 3)
	_, err := mask.Channels(partial)
	require.ErrorIs(t, err, mask.ErrPartialMissing)

	allMissing := mustFrom(t, 2, 1, nan, nan)
	_, err = mask.Channels(allMissing)
	require.ErrorIs(t, err, mask.ErrAllMissing)

	_, err = mask.Channels(mustFrom(t, 1, 3, 1, 2, 3))
	require.ErrorIs(t, err, mask.ErrRank)

	_, err = mask.Channels(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestRows(t *testing.T) {
	X := mustFrom(t, 4, 2,
		1, 2,
		nan, 3,
		4, 5,
		6, nan)
	m, err := mask.Apply(mask.ByRow, X)
	require.NoError(t, err)
	assert.Equal(t, mask.ByRow, m.Policy())
	assert.Equal(t, []int{0, 2}, m.Index())

	sub, err := m.Select(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 4, 5}, sub.RawData())

	back, err := m.ExpandRows(sub)
	require.NoError(t, err)
	r, c := back.Shape()
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, c)
	row1, err := back.Row(1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(row1[0]) && math.IsNaN(row1[1]))

	_, err = mask.Rows(mustFrom(t, 1, 2, nan, 1))
	require.ErrorIs(t, err, mask.ErrAllMissing)
}

func TestMask_ShapeChecks(t *testing.T) {
	X := mustFrom(t, 2, 2, 1, 2, 3, 4)
	m, err := mask.Apply(mask.ByChannel, X)
	require.NoError(t, err)

	_, err = m.Select(mustFrom(t, 2, 3, 1, 2, 3, 4, 5, 6))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = m.ExpandCols(mustFrom(t, 1, 3, 1, 2, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = m.ExpandRows(mustFrom(t, 3, 1, 1, 2, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = mask.Apply(mask.Policy(9), X)
	require.ErrorIs(t, err, mask.ErrPolicy)
	assert.Equal(t, "Policy(9)", mask.Policy(9).String())
	assert.Equal(t, "channel", mask.ByChannel.String())
}
