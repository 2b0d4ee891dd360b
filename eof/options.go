// SPDX-License-Identifier: MIT

package eof

import (
	"log/slog"

	"github.com/katalvlaran/lvleof/decomp"
)

const (
	// DefaultCenter removes the time-mean of every channel before decomposing.
	DefaultCenter = true

	// DefaultDDOF is the delta degrees of freedom used to normalize eigenvalues.
	DefaultDDOF = 1

	// DefaultMethod is the decomposition backend.
	DefaultMethod = decomp.SVD
)

// Option configures New and Decompose.
type Option func(*Options)

// Options holds the effective solver configuration. Fields are unexported;
// public entry points accept `...Option`.
type Options struct {
	weights any // nil, *field.Field, or any value accepted by field.FromValues
	center  bool
	ddof    int
	method  decomp.Method
	logger  *slog.Logger
}

// WithWeights multiplies every time slice by w before centering. w must be
// broadcastable to one time slice of the dataset; it may be a *field.Field,
// a *matrix.Dense, a scalar, or a (nested) numeric slice.
//
// AI-Hints:
//   - Area weighting on a latitude grid is usually √cos(lat), shape (nlat, 1).
func WithWeights(w any) Option {
	return func(o *Options) { o.weights = w }
}

// WithCenter toggles removal of the time-mean (default true).
func WithCenter(center bool) Option {
	return func(o *Options) { o.center = center }
}

// WithDDOF sets the delta degrees of freedom (default 1). Validated by New
// against the number of samples.
func WithDDOF(ddof int) Option {
	return func(o *Options) { o.ddof = ddof }
}

// WithMethod selects the decomposition backend (default decomp.SVD).
func WithMethod(m decomp.Method) Option {
	return func(o *Options) { o.method = m }
}

// WithLogger routes Debug records to l. A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

func defaultOptions() Options {
	return Options{
		center: DefaultCenter,
		ddof:   DefaultDDOF,
		method: DefaultMethod,
		logger: slog.Default(),
	}
}

// gatherOptions applies opts in order over the defaults. Nil options are skipped.
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
