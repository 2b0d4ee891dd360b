// SPDX-License-Identifier: MIT

// Package eof - Empirical Orthogonal Function analysis of space–time fields.
//
// Purpose:
//   - Decompose a dataset of shape (T, spatial...) into spatial modes (EOFs)
//     and their time coefficients (PCs), ordered by explained variance.
//   - Offer the usual scaled views and diagnostics on top of one immutable Solver.
//
// Pipeline (New):
//
//	copy → weights → center (time-mean) → flatten (T, C) → channel mask
//	     → valid sub-matrix → decomp.Decompose → L = S²/(T−ddof)
//	     → EOFs (NaN at missing channels), PCs = A·S
//
// Missing values:
//   - A channel must be missing at every time or at none. Centering turns a
//     partially missing channel into a fully missing one (the mean is NaN);
//     without centering partial missingness is rejected with mask.ErrPartialMissing.
//   - Decompose (free function) masks samples instead of channels.
//
// Scaling:
//   - Unscaled, UnitVariance (÷√λ), EigenvalueWeighted (×√λ) for PCs and EOFs.
//
// Concurrency:
//   - A Solver is read-only after New. Accessors allocate fresh results.
//
// Configuration:
//   - Functional options (WithWeights, WithCenter, WithDDOF, WithMethod, WithLogger),
//     or a YAML document through LoadConfig and Config.Options.
package eof
