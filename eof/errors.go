// SPDX-License-Identifier: MIT

package eof

import (
	"errors"
	"fmt"
)

var (
	// ErrNilDataset indicates a nil dataset passed to New or Decompose.
	ErrNilDataset = errors.New("eof: nil dataset")

	// ErrDDOF indicates ddof outside [0, T).
	ErrDDOF = errors.New("eof: ddof must satisfy 0 <= ddof < number of samples")

	// ErrInvalidScaling indicates a Scaling value outside the defined set.
	ErrInvalidScaling = errors.New("eof: invalid scaling")

	// ErrDimensionMismatch indicates a field whose leading (time) dimension
	// differs from that of the PCs, or whose spatial shape differs from the solver's.
	ErrDimensionMismatch = errors.New("eof: dimension mismatch")

	// ErrPCRank indicates PCs that are neither rank 1 nor rank 2.
	ErrPCRank = errors.New("eof: PCs must be rank 1 or 2")

	// ErrMissingMismatch indicates a field projected onto the EOFs whose
	// missing values do not coincide with the training missing values.
	ErrMissingMismatch = errors.New("eof: missing values do not match the EOFs")
)

// eofErrorf wraps err with an operation tag, preserving the sentinel via %w.
func eofErrorf(op string, err error) error {
	return fmt.Errorf("eof.%s: %w", op, err)
}
