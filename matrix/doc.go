// Package matrix provides the dense linear-algebra substrate of lvleof.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with safe accessors and NaN as a
//     legal "missing" marker (strict finite policy is opt-in).
//   - Kernels: Mul, Transpose, Scale, ScaleCols, ScaleRows, Identity, Gram.
//   - Column statistics: ColumnMeans, CenterColumns, ColumnStdDev,
//     Covariance, Correlation.
//   - Factorizations: thin SVD and symmetric eigen through gonum's LAPACK
//     port, plus a pure-Go Jacobi eigen solver.
//
// Every kernel allocates a fresh result and never mutates its inputs, which
// is what lets the EOF solver hand out independent views to concurrent readers.
package matrix
