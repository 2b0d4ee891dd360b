// SPDX-License-Identifier: MIT

package eof

import (
	"fmt"

	"github.com/katalvlaran/lvleof/field"
	"github.com/katalvlaran/lvleof/matrix"
	"github.com/katalvlaran/lvleof/varimax"
)

// rotateEOFs reshapes eofs (n, spatial...) to a channels×n loading matrix,
// rotates it and restores the original layout.
func rotateEOFs(eofs *field.Field, opts *varimax.Options) (*field.Field, *matrix.Dense, error) {
	if eofs == nil {
		return nil, nil, ErrNilDataset
	}
	if eofs.Rank() < 2 {
		return nil, nil, fmt.Errorf("eofs rank %d: %w", eofs.Rank(), field.ErrRank)
	}
	E, err := eofs.Flatten()
	if err != nil {
		return nil, nil, err
	}
	loadings, err := matrix.Transpose(E)
	if err != nil {
		return nil, nil, err
	}
	res, err := varimax.Rotate(loadings, opts)
	if err != nil {
		return nil, nil, err
	}
	R, err := matrix.Transpose(res.Rotated)
	if err != nil {
		return nil, nil, err
	}
	out, err := field.Unflatten(R, eofs.SliceShape())
	if err != nil {
		return nil, nil, err
	}

	return out, res.Rotation, nil
}
