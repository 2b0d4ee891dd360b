// SPDX-License-Identifier: MIT

package field

import (
	"fmt"

	"github.com/katalvlaran/lvleof/matrix"
)

const opFromValues = "FromValues"

// FromValues interprets a Go value as a numeric Field.
//
// Accepted:
//   - float64, float32, int           -> rank 0
//   - []float64, []float32, []int     -> rank 1
//   - [][]float64                     -> rank 2 (must be rectangular)
//   - [][][]float64                   -> rank 3 (must be rectangular)
//   - *Field, *matrix.Dense           -> copy
//
// Errors:
//   - ErrNotNumeric for any other type (strings, bools, nil, maps, ...).
//   - ErrShape for ragged or empty nested slices.
func FromValues(v any) (*Field, error) {
	switch x := v.(type) {
	case float64:
		return New(nil, []float64{x})
	case float32:
		return New(nil, []float64{float64(x)})
	case int:
		return New(nil, []float64{float64(x)})
	case []float64:
		return New([]int{len(x)}, x)
	case []float32:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return New([]int{len(x)}, out)
	case []int:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return New([]int{len(x)}, out)
	case [][]float64:
		return fromNested2(x)
	case [][][]float64:
		return fromNested3(x)
	case *Field:
		if x == nil {
			return nil, fieldErrorf(opFromValues, ErrNilField)
		}
		return x.Clone(), nil
	case *matrix.Dense:
		return FromMatrix(x)
	default:
		return nil, fieldErrorf(opFromValues, fmt.Errorf("%T: %w", v, ErrNotNumeric))
	}
}

func fromNested2(x [][]float64) (*Field, error) {
	if len(x) == 0 || len(x[0]) == 0 {
		return nil, fieldErrorf(opFromValues, ErrShape)
	}
	cols := len(x[0])
	data := make([]float64, 0, len(x)*cols)
	for _, row := range x {
		if len(row) != cols {
			return nil, fieldErrorf(opFromValues, fmt.Errorf("ragged rows: %w", ErrShape))
		}
		data = append(data, row...)
	}

	return New([]int{len(x), cols}, data)
}

func fromNested3(x [][][]float64) (*Field, error) {
	if len(x) == 0 {
		return nil, fieldErrorf(opFromValues, ErrShape)
	}
	var data []float64
	var inner []int
	for _, plane := range x {
		f, err := fromNested2(plane)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			inner = f.shape
		} else if inner[0] != f.shape[0] || inner[1] != f.shape[1] {
			return nil, fieldErrorf(opFromValues, fmt.Errorf("ragged planes: %w", ErrShape))
		}
		data = append(data, f.data...)
	}

	return New([]int{len(x), inner[0], inner[1]}, data)
}
