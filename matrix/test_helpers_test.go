// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures and utilities for kernels.
//   - Keep random data seeded so every run sees the same matrices.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvleof/matrix"
)

// hide WRAPS any Matrix to hide its concrete type from type assertions,
// forcing kernels onto their interface (At/Set) fallback path.
type hide struct{ matrix.Matrix }

// MustDense ALLOCATES an r×c zero *Dense or fails the test.
func MustDense(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)

	return m
}

// MustFrom builds an r×c *Dense from row-major data or fails the test.
func MustFrom(t *testing.T, r, c int, data ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(r, c, data)
	require.NoError(t, err)

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// RandDense returns an r×c matrix of N(0,1) draws from a fixed seed.
func RandDense(t *testing.T, seed int64, r, c int) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, r*c)
	for k := range data {
		data[k] = rng.NormFloat64()
	}

	return MustFrom(t, r, c, data...)
}

// RequireClose fails unless a and b agree element-wise within tol.
func RequireClose(t *testing.T, a, b matrix.Matrix, tol float64) {
	t.Helper()
	ok, err := matrix.AllClose(a, b, 0, tol)
	require.NoError(t, err)
	require.True(t, ok, "matrices differ:\n%v\n%v", a, b)
}
