// SPDX-License-Identifier: MIT
package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvleof/field"
	"github.com/katalvlaran/lvleof/matrix"
)

func TestNew_CopiesAndValidates(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	f, err := field.New([]int{2, 3}, data)
	require.NoError(t, err)
	data[0] = 99
	v, err := f.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, []int{2, 3}, f.Shape())
	assert.Equal(t, 2, f.Rank())
	assert.Equal(t, 6, f.Len())

	_, err = field.New([]int{2, 2}, data)
	require.ErrorIs(t, err, field.ErrShape)
	_, err = field.New([]int{0, 6}, nil)
	require.ErrorIs(t, err, field.ErrShape)
}

func TestScalarField(t *testing.T) {
	f, err := field.New(nil, []float64{7})
	require.NoError(t, err)
	assert.Zero(t, f.Rank())
	assert.Nil(t, f.SliceShape())
	v, err := f.At()
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	_, err = f.Flatten()
	require.ErrorIs(t, err, field.ErrRank)
}

func TestAt_Errors(t *testing.T) {
	f, err := field.Zeros(2, 3, 4)
	require.NoError(t, err)
	_, err = f.At(1, 2)
	require.ErrorIs(t, err, field.ErrRank)
	_, err = f.At(1, 3, 0)
	require.ErrorIs(t, err, field.ErrOutOfRange)
}

func TestFlattenUnflatten_RoundTrip(t *testing.T) {
	data := make([]float64, 2*3*4)
	for k := range data {
		data[k] = float64(k)
	}
	f, err := field.New([]int{2, 3, 4}, data)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, f.SliceShape())

	m, err := f.Flatten()
	require.NoError(t, err)
	r, c := m.Shape()
	assert.Equal(t, 2, r)
	assert.Equal(t, 12, c)
	v, err := m.At(1, 5) // (t=1, y=1, x=1)
	require.NoError(t, err)
	assert.Equal(t, 17.0, v)

	back, err := field.Unflatten(m, []int{3, 4})
	require.NoError(t, err)
	assert.Equal(t, f.Shape(), back.Shape())
	assert.Equal(t, f.Data(), back.Data())

	_, err = field.Unflatten(m, []int{5})
	require.ErrorIs(t, err, field.ErrShape)
}

func TestReshape(t *testing.T) {
	f, err := field.Zeros(4, 3)
	require.NoError(t, err)
	g, err := f.Reshape(2, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 6}, g.Shape())
	_, err = f.Reshape(5, 2)
	require.ErrorIs(t, err, field.ErrShape)
}

func TestFromMatrix(t *testing.T) {
	m, err := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	f, err := field.FromMatrix(m)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, f.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4}, f.Data())

	_, err = field.FromMatrix(nil)
	require.ErrorIs(t, err, field.ErrNilField)
}
