// SPDX-License-Identifier: MIT

package eof

import (
	"fmt"
	"math"
	"strings"
)

// Scaling selects how PCs or EOFs are normalized on output.
type Scaling int

const (
	// Unscaled returns components as stored: PCs = A·Σ, EOFs orthonormal.
	Unscaled Scaling = iota

	// UnitVariance divides each component by √λ.
	UnitVariance

	// EigenvalueWeighted multiplies each component by √λ.
	EigenvalueWeighted
)

var scalingNames = [...]string{"none", "unit", "eigenvalue"}

// String implements fmt.Stringer.
func (s Scaling) String() string {
	if s.valid() {
		return scalingNames[s]
	}

	return fmt.Sprintf("Scaling(%d)", int(s))
}

func (s Scaling) valid() bool { return s >= Unscaled && s <= EigenvalueWeighted }

// ParseScaling maps "none", "unit" or "eigenvalue" (case-insensitive) to a Scaling.
func ParseScaling(name string) (Scaling, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range scalingNames {
		if n == name {
			return Scaling(k), nil
		}
	}

	return Unscaled, eofErrorf("ParseScaling", fmt.Errorf("%q: %w", name, ErrInvalidScaling))
}

// factors returns the per-component multiplier for s given eigenvalues L.
func (s Scaling) factors(L []float64) ([]float64, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%v: %w", s, ErrInvalidScaling)
	}
	out := make([]float64, len(L))
	for k, l := range L {
		switch s {
		case Unscaled:
			out[k] = 1
		case UnitVariance:
			out[k] = 1 / math.Sqrt(l)
		case EigenvalueWeighted:
			out[k] = math.Sqrt(l)
		}
	}

	return out, nil
}
