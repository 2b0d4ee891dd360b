// SPDX-License-Identifier: MIT

// Package mask derives and applies missing-value masks for a (T, C)
// design matrix, where T is the time (sample) axis and C the channel axis.
//
// Two presets exist, with distinct semantics:
//
//   - ByChannel: a channel (column) is valid when it has no NaN at any time.
//     Missingness must be uniform across time: a channel that is NaN at some
//     times but not others is rejected with ErrPartialMissing, because an SVD
//     over a NaN-containing matrix silently spreads NaN into every output.
//   - ByRow: a time sample (row) is valid when it has no NaN in any channel.
//     Partially missing rows are simply dropped. Used by eof.Decompose.
//
// Masks are immutable value objects; Select and Expand* always allocate.
package mask

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lvleof/matrix"
)

var (
	// ErrPartialMissing indicates a channel that is missing at some but not all times.
	ErrPartialMissing = errors.New("mask: missing values must occur at the same locations at every time")

	// ErrAllMissing indicates that no valid channel (or row) remains.
	ErrAllMissing = errors.New("mask: all input data is missing")

	// ErrRank indicates a design matrix with fewer than 2 time samples.
	ErrRank = errors.New("mask: design matrix needs at least 2 rows")

	// ErrPolicy indicates an unknown Policy value.
	ErrPolicy = errors.New("mask: unknown policy")
)

// Policy selects the axis along which missing values are masked.
type Policy int

const (
	// ByChannel masks columns and enforces uniform missingness across time.
	ByChannel Policy = iota

	// ByRow masks rows containing any NaN.
	ByRow
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case ByChannel:
		return "channel"
	case ByRow:
		return "row"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Mask records which positions along one axis are valid.
type Mask struct {
	policy Policy
	valid  []bool
	index  []int
}

// Policy reports the axis the mask applies to.
func (m Mask) Policy() Policy { return m.policy }

// Len returns the length of the masked axis (C for ByChannel, T for ByRow).
func (m Mask) Len() int { return len(m.valid) }

// Count returns the number of valid positions.
func (m Mask) Count() int { return len(m.index) }

// Valid returns a copy of the validity flags.
func (m Mask) Valid() []bool {
	out := make([]bool, len(m.valid))
	copy(out, m.valid)

	return out
}

// Index returns a copy of the valid positions in ascending order.
func (m Mask) Index() []int {
	out := make([]int, len(m.index))
	copy(out, m.index)

	return out
}

// IsValid reports whether position i is valid.
func (m Mask) IsValid(i int) bool { return i >= 0 && i < len(m.valid) && m.valid[i] }

// Apply builds the mask for X under the given policy.
func Apply(p Policy, X *matrix.Dense) (Mask, error) {
	switch p {
	case ByChannel:
		return Channels(X)
	case ByRow:
		return Rows(X)
	default:
		return Mask{}, fmt.Errorf("mask.Apply: %v: %w", p, ErrPolicy)
	}
}

// Channels derives the channel mask of a (T, C) matrix.
//
// Implementation:
//   - Stage 1: require T >= 2.
//   - Stage 2: per column count NaN; 0 → valid, T → missing, otherwise ErrPartialMissing.
//   - Stage 3: require at least one valid column.
//
// Complexity: O(T*C).
func Channels(X *matrix.Dense) (Mask, error) {
	if X == nil {
		return Mask{}, fmt.Errorf("mask.Channels: %w", matrix.ErrNilMatrix)
	}
	T, C := X.Shape()
	if T < 2 {
		return Mask{}, fmt.Errorf("mask.Channels: rows=%d: %w", T, ErrRank)
	}

	m := Mask{policy: ByChannel, valid: make([]bool, C)}
	for j := 0; j < C; j++ {
		col, err := X.Col(j)
		if err != nil {
			return Mask{}, fmt.Errorf("mask.Channels: %w", err)
		}
		nan := countNaN(col)
		switch nan {
		case 0:
			m.valid[j] = true
			m.index = append(m.index, j)
		case T:
			// uniformly missing channel
		default:
			return Mask{}, fmt.Errorf("mask.Channels: channel %d missing at %d of %d times: %w", j, nan, T, ErrPartialMissing)
		}
	}
	if len(m.index) == 0 {
		return Mask{}, fmt.Errorf("mask.Channels: %w", ErrAllMissing)
	}

	return m, nil
}

// Rows derives the row mask of a (T, C) matrix: rows with any NaN are invalid.
// Complexity: O(T*C).
func Rows(X *matrix.Dense) (Mask, error) {
	if X == nil {
		return Mask{}, fmt.Errorf("mask.Rows: %w", matrix.ErrNilMatrix)
	}
	T, _ := X.Shape()
	m := Mask{policy: ByRow, valid: make([]bool, T)}
	for i := 0; i < T; i++ {
		row, err := X.Row(i)
		if err != nil {
			return Mask{}, fmt.Errorf("mask.Rows: %w", err)
		}
		if countNaN(row) == 0 {
			m.valid[i] = true
			m.index = append(m.index, i)
		}
	}
	if len(m.index) == 0 {
		return Mask{}, fmt.Errorf("mask.Rows: %w", ErrAllMissing)
	}

	return m, nil
}

func countNaN(s []float64) int {
	n := 0
	for _, v := range s {
		if math.IsNaN(v) {
			n++
		}
	}

	return n
}

// Select extracts the valid sub-matrix of X (columns for ByChannel, rows for ByRow).
func (m Mask) Select(X *matrix.Dense) (*matrix.Dense, error) {
	if X == nil {
		return nil, fmt.Errorf("mask.Select: %w", matrix.ErrNilMatrix)
	}
	if m.policy == ByChannel {
		if X.Cols() != len(m.valid) {
			return nil, fmt.Errorf("mask.Select: %w", matrix.ErrDimensionMismatch)
		}
		return X.Induced(nil, m.index)
	}
	if X.Rows() != len(m.valid) {
		return nil, fmt.Errorf("mask.Select: %w", matrix.ErrDimensionMismatch)
	}

	return X.Induced(m.index, nil)
}

// ExpandCols scatters the columns of sub (r × Count) into an r × Len matrix,
// filling invalid columns with NaN. Only meaningful for ByChannel masks, but
// any mask whose Count matches sub.Cols() is accepted.
func (m Mask) ExpandCols(sub *matrix.Dense) (*matrix.Dense, error) {
	if sub == nil {
		return nil, fmt.Errorf("mask.ExpandCols: %w", matrix.ErrNilMatrix)
	}
	r, c := sub.Shape()
	if c != len(m.index) {
		return nil, fmt.Errorf("mask.ExpandCols: cols=%d want %d: %w", c, len(m.index), matrix.ErrDimensionMismatch)
	}
	out := make([]float64, r*len(m.valid))
	for k := range out {
		out[k] = math.NaN()
	}
	src := sub.RawData()
	for i := 0; i < r; i++ {
		for k, j := range m.index {
			out[i*len(m.valid)+j] = src[i*c+k]
		}
	}

	return matrix.NewDenseFrom(r, len(m.valid), out)
}

// ExpandRows scatters the rows of sub (Count × c) into a Len × c matrix,
// filling invalid rows with NaN.
func (m Mask) ExpandRows(sub *matrix.Dense) (*matrix.Dense, error) {
	if sub == nil {
		return nil, fmt.Errorf("mask.ExpandRows: %w", matrix.ErrNilMatrix)
	}
	r, c := sub.Shape()
	if r != len(m.index) {
		return nil, fmt.Errorf("mask.ExpandRows: rows=%d want %d: %w", r, len(m.index), matrix.ErrDimensionMismatch)
	}
	out := make([]float64, len(m.valid)*c)
	for k := range out {
		out[k] = math.NaN()
	}
	src := sub.RawData()
	for k, i := range m.index {
		copy(out[i*c:(i+1)*c], src[k*c:(k+1)*c])
	}

	return matrix.NewDenseFrom(len(m.valid), c, out)
}
