// SPDX-License-Identifier: MIT

package field

import "fmt"

const (
	opBroadcast = "BroadcastTo"
	opMultiply  = "MultiplySlices"
)

// BroadcastTo expands f to target using right-aligned broadcasting rules:
// dimensions are compared from the trailing end; each source dimension must
// equal the target dimension or be 1. Extra LEADING source dimensions are
// allowed only when they are 1.
//
// Complexity: O(Π target · rank).
func (f *Field) BroadcastTo(target []int) (*Field, error) {
	n, err := size(target)
	if err != nil {
		return nil, fieldErrorf(opBroadcast, err)
	}
	src := f.shape
	// Drop leading unit dimensions that exceed the target rank.
	for len(src) > len(target) {
		if src[0] != 1 {
			return nil, fieldErrorf(opBroadcast, fmt.Errorf("%v -> %v: %w", f.shape, target, ErrBroadcast))
		}
		src = src[1:]
	}
	// Right-align and check compatibility.
	offset := len(target) - len(src)
	for k, d := range src {
		if d != 1 && d != target[offset+k] {
			return nil, fieldErrorf(opBroadcast, fmt.Errorf("%v -> %v: %w", f.shape, target, ErrBroadcast))
		}
	}

	// Source strides (0 for broadcast axes), in target coordinates.
	strides := make([]int, len(target))
	stride := 1
	for k := len(src) - 1; k >= 0; k-- {
		if src[k] != 1 {
			strides[offset+k] = stride
		}
		stride *= src[k]
	}

	out := make([]float64, n)
	idx := make([]int, len(target))
	for flat := 0; flat < n; flat++ {
		off := 0
		for k := range idx {
			off += idx[k] * strides[k]
		}
		out[flat] = f.data[off]
		// Advance the multi-index (last axis fastest).
		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < target[k] {
				break
			}
			idx[k] = 0
		}
	}

	return &Field{shape: cloneInts(target), data: out}, nil
}

// MultiplySlices multiplies every leading-axis slice of f by w, where w is
// broadcast to f.SliceShape(). Returns a new Field; f is not modified.
//
// AI-Hints:
//   - This is how the EOF solver applies spatial weights (e.g. √cos(latitude)).
func (f *Field) MultiplySlices(w *Field) (*Field, error) {
	if w == nil {
		return nil, fieldErrorf(opMultiply, ErrNilField)
	}
	if len(f.shape) == 0 {
		return nil, fieldErrorf(opMultiply, ErrRank)
	}
	bw, err := w.BroadcastTo(f.SliceShape())
	if err != nil {
		return nil, fieldErrorf(opMultiply, err)
	}
	out := f.Clone()
	per := len(bw.data)
	for t := 0; t < f.shape[0]; t++ {
		row := out.data[t*per : (t+1)*per]
		for k := range row {
			row[k] *= bw.data[k]
		}
	}

	return out, nil
}
