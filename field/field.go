// SPDX-License-Identifier: MIT

// Package field - n-dimensional, row-major float64 arrays.
//
// Purpose:
//   - Carry a dataset with its full shape (T, s1, s2, ...) through the EOF
//     pipeline, while kernels operate on the flattened (T, C) matrix.
//   - Every constructor and transform COPIES; a Field never aliases caller memory.
//
// Complexity quicksheet:
//   - New/Clone/Reshape/Data: O(n); Shape/Rank/Len: O(rank); At: O(rank).
package field

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lvleof/matrix"
)

const (
	opNew       = "New"
	opAt        = "At"
	opReshape   = "Reshape"
	opFlatten   = "Flatten"
	opUnflatten = "Unflatten"
	opMatrix    = "FromMatrix"
)

// Field is an n-dimensional array stored row-major (last index fastest).
// A rank-0 Field (empty shape) is a scalar with exactly one element.
type Field struct {
	shape []int
	data  []float64
}

// New creates a Field with the given shape holding a COPY of data.
// Errors: ErrShape when any dimension is <= 0 or len(data) != Π shape.
func New(shape []int, data []float64) (*Field, error) {
	n, err := size(shape)
	if err != nil {
		return nil, fieldErrorf(opNew, err)
	}
	if len(data) != n {
		return nil, fieldErrorf(opNew, fmt.Errorf("len=%d want %d: %w", len(data), n, ErrShape))
	}
	buf := make([]float64, n)
	copy(buf, data)

	return &Field{shape: cloneInts(shape), data: buf}, nil
}

// Zeros creates a zero-filled Field.
func Zeros(shape ...int) (*Field, error) {
	n, err := size(shape)
	if err != nil {
		return nil, fieldErrorf(opNew, err)
	}

	return &Field{shape: cloneInts(shape), data: make([]float64, n)}, nil
}

// FromMatrix wraps a copy of m as a rank-2 Field of shape (rows, cols).
func FromMatrix(m *matrix.Dense) (*Field, error) {
	if m == nil {
		return nil, fieldErrorf(opMatrix, ErrNilField)
	}
	r, c := m.Shape()

	return New([]int{r, c}, m.RawData())
}

// size returns Π shape, validating every dimension is positive.
func size(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return 0, ErrShape
		}
		n *= d
	}

	return n, nil
}

func cloneInts(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)

	return out
}

// Shape returns a copy of the dimensions.
func (f *Field) Shape() []int { return cloneInts(f.shape) }

// Rank returns the number of dimensions.
func (f *Field) Rank() int { return len(f.shape) }

// Len returns the total number of elements.
func (f *Field) Len() int { return len(f.data) }

// Data returns a copy of the row-major buffer.
func (f *Field) Data() []float64 {
	out := make([]float64, len(f.data))
	copy(out, f.data)

	return out
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	return &Field{shape: cloneInts(f.shape), data: f.Data()}
}

// SliceShape returns the shape of one leading-axis slice (shape[1:]).
// For a dataset this is the spatial shape of one time sample.
func (f *Field) SliceShape() []int {
	if len(f.shape) == 0 {
		return nil
	}

	return cloneInts(f.shape[1:])
}

// At returns the element at the given multi-index.
func (f *Field) At(idx ...int) (float64, error) {
	if len(idx) != len(f.shape) {
		return 0, fieldErrorf(opAt, ErrRank)
	}
	off := 0
	for k, i := range idx {
		if i < 0 || i >= f.shape[k] {
			return 0, fieldErrorf(opAt, fmt.Errorf("axis %d index %d: %w", k, i, ErrOutOfRange))
		}
		off = off*f.shape[k] + i
	}

	return f.data[off], nil
}

// Reshape returns a copy with a new shape of the same total size.
func (f *Field) Reshape(shape ...int) (*Field, error) {
	n, err := size(shape)
	if err != nil {
		return nil, fieldErrorf(opReshape, err)
	}
	if n != len(f.data) {
		return nil, fieldErrorf(opReshape, ErrShape)
	}

	return &Field{shape: cloneInts(shape), data: f.Data()}, nil
}

// Flatten returns the (shape[0], Π shape[1:]) matrix view of the Field as a copy.
// A rank-1 Field becomes a single column.
// Errors: ErrRank for a rank-0 Field.
func (f *Field) Flatten() (*matrix.Dense, error) {
	if len(f.shape) == 0 {
		return nil, fieldErrorf(opFlatten, ErrRank)
	}
	rows := f.shape[0]

	return matrix.NewDenseFrom(rows, len(f.data)/rows, f.data)
}

// Unflatten reshapes a (rows, Π spatial) matrix back to (rows, spatial...).
func Unflatten(m *matrix.Dense, spatial []int) (*Field, error) {
	if m == nil {
		return nil, fieldErrorf(opUnflatten, ErrNilField)
	}
	r, c := m.Shape()
	n, err := size(spatial)
	if err != nil {
		return nil, fieldErrorf(opUnflatten, err)
	}
	if n != c {
		return nil, fieldErrorf(opUnflatten, fmt.Errorf("cols=%d want %d: %w", c, n, ErrShape))
	}

	return New(append([]int{r}, spatial...), m.RawData())
}

// String renders shape and data for debugging.
func (f *Field) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Field%v", f.shape)
	fmt.Fprintf(&sb, "%v", f.data)

	return sb.String()
}
