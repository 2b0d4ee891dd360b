// SPDX-License-Identifier: MIT
package eof_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvleof/decomp"
	"github.com/katalvlaran/lvleof/eof"
	"github.com/katalvlaran/lvleof/field"
)

func TestLoadConfig(t *testing.T) {
	const doc = `
center: true
ddof: 0
method: jacobi
weights:
  shape: [3, 1]
  values: [0.5, 1, 2]
`
	cfg, err := eof.LoadConfig(strings.NewReader(doc))
	require.NoError(t, err)
	require.NotNil(t, cfg.Center)
	require.True(t, *cfg.Center)
	require.Equal(t, 0, *cfg.DDOF)
	require.Equal(t, "jacobi", cfg.Method)
	require.Equal(t, []int{3, 1}, cfg.Weights.Shape)

	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Len(t, opts, 4)

	data := randomField(t, 31, 40, 3, 4)
	fromCfg, err := eof.New(data, opts...)
	require.NoError(t, err)
	direct, err := eof.New(data,
		eof.WithDDOF(0),
		eof.WithMethod(decomp.Jacobi),
		eof.WithWeights([][]float64{{0.5}, {1}, {2}}),
	)
	require.NoError(t, err)
	require.True(t, floats.EqualApprox(direct.Eigenvalues(0), fromCfg.Eigenvalues(0), 1e-12))
	require.Equal(t, direct.Weights().Data(), fromCfg.Weights().Data())
}

func TestLoadConfig_EmptyAndDefaults(t *testing.T) {
	cfg, err := eof.LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, eof.Config{}, cfg)
	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Empty(t, opts)

	cfg, err = eof.LoadConfig(strings.NewReader("weights:\n  values: [1, 2, 3]\n"))
	require.NoError(t, err)
	opts, err = cfg.Options()
	require.NoError(t, err)
	s, err := eof.New(randomField(t, 32, 10, 3), opts...)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, s.Weights().Data())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := eof.LoadConfig(strings.NewReader("centre: true\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "centre")

	_, err = eof.LoadConfig(strings.NewReader("ddof: [1]\n"))
	require.Error(t, err)

	cfg, err := eof.LoadConfig(strings.NewReader("method: qr\n"))
	require.NoError(t, err)
	_, err = cfg.Options()
	require.ErrorIs(t, err, decomp.ErrUnknownMethod)

	cfg, err = eof.LoadConfig(strings.NewReader("weights:\n  shape: [2, 2]\n  values: [1, 2, 3]\n"))
	require.NoError(t, err)
	_, err = cfg.Options()
	require.ErrorIs(t, err, field.ErrShape)
}
