// SPDX-License-Identifier: MIT

package field

import (
	"errors"
	"fmt"
)

var (
	// ErrShape indicates a non-positive dimension or a data length that does
	// not match the product of the shape.
	ErrShape = errors.New("field: invalid shape")

	// ErrRank indicates the array has the wrong number of dimensions for the operation
	// (e.g. Flatten on a rank-0 scalar, or a dataset with fewer than 2 dimensions).
	ErrRank = errors.New("field: invalid rank")

	// ErrBroadcast indicates that two shapes are not broadcast-compatible.
	ErrBroadcast = errors.New("field: shapes are not broadcastable")

	// ErrNotNumeric indicates a Go value that cannot be interpreted as a numeric array.
	ErrNotNumeric = errors.New("field: value is not numeric")

	// ErrOutOfRange indicates an index outside the array bounds.
	ErrOutOfRange = errors.New("field: index out of range")

	// ErrNilField indicates a nil *Field argument.
	ErrNilField = errors.New("field: nil field")
)

// fieldErrorf wraps err with an operation tag, preserving the sentinel via %w.
func fieldErrorf(op string, err error) error {
	return fmt.Errorf("field.%s: %w", op, err)
}
