// Package lvleof is your in-memory toolkit for Empirical Orthogonal Function
// (EOF) analysis, a.k.a. principal component analysis of space–time fields.
//
// 🚀 What is lvleof?
//
//	A small, deterministic library that brings together:
//		• Field handling: n-D arrays, broadcasting weights, flatten/unflatten
//		• Missing values: channel masks with a uniform-missingness check, row masks
//		• Decomposition: thin SVD (gonum LAPACK), covariance eigen, pure-Go Jacobi
//		• EOF solver: PCs, EOFs, eigenvalues, variance fractions, North test
//		• Diagnostics: EOFs as correlation / covariance maps, reconstruction, projection
//		• Rotation: varimax (orthomax, γ = 1) with Kaiser normalization
//
// ✨ Why choose lvleof?
//
//   - Fail-fast – every invalid input is a sentinel error, matched with errors.Is
//   - Immutable results – a Solver never changes after New; accessors always copy
//   - Pluggable numerics – choose the backend per analysis (svd | eigen | jacobi)
//   - Quiet by default – Debug-level log/slog records only
//
// Under the hood, everything is organized under these subpackages:
//
//	matrix/  — dense row-major matrices, statistics, SVD / eigen bridges to gonum
//	field/   — n-dimensional arrays with shape, broadcasting and flattening
//	mask/    — missing-value masks (ByChannel, ByRow)
//	decomp/  — the decomposition engine (X = A·diag(S)·Vt)
//	eof/     — the EOF solver, correlation/covariance maps, free-function API, YAML config
//	varimax/ — orthogonal varimax rotation of loadings
//	examples/ — runnable scenarios (weighted SST analysis, questionnaire rotation)
//
// Quick example:
//
//	sst, _ := field.New([]int{nt, nlat, nlon}, data)
//	solver, _ := eof.New(sst, eof.WithWeights(wlat))
//	pcs, _ := solver.PCs(eof.UnitVariance, 3)
//	eofs, _ := solver.EOFs(eof.Unscaled, 3)
//
//	go get github.com/katalvlaran/lvleof
package lvleof
