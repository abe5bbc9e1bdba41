// Package algebra implements the dense matrix operations used by the
// normal-equations solver: transpose, multiplication, and Gauss-Jordan
// inversion with partial pivoting.
//
// The matrices here are tiny (at most a few hundred rows by four columns), so
// the operations work directly on [][]float64 without an external numeric
// library. All functions fail fast on shape mismatches.
package algebra

import (
	"math"

	"github.com/AbhayKTS/sales-prediction/pkg/errors"
)

// pivotEpsilon is the smallest pivot magnitude accepted during elimination.
// Anything below it is treated as a singular matrix.
const pivotEpsilon = 1e-12

// shape validates that a is non-empty and rectangular and returns its
// dimensions.
func shape(op string, a [][]float64) (rows, cols int, err error) {
	if len(a) == 0 || len(a[0]) == 0 {
		return 0, 0, errors.NewModelError(op, "empty matrix", errors.ErrEmptyData)
	}
	rows, cols = len(a), len(a[0])
	for i := 1; i < rows; i++ {
		if len(a[i]) != cols {
			return 0, 0, errors.NewDimensionError(op, cols, len(a[i]), 1)
		}
	}
	return rows, cols, nil
}

// Transpose returns the matrix whose (i,j) entry equals a[j][i].
func Transpose(a [][]float64) ([][]float64, error) {
	rows, cols, err := shape("algebra.Transpose", a)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, cols)
	for i := 0; i < cols; i++ {
		out[i] = make([]float64, rows)
		for j := 0; j < rows; j++ {
			out[i][j] = a[j][i]
		}
	}
	return out, nil
}

// MatMul returns the standard m×n by n×p matrix product.
func MatMul(a, b [][]float64) ([][]float64, error) {
	ar, ac, err := shape("algebra.MatMul", a)
	if err != nil {
		return nil, err
	}
	br, bc, err := shape("algebra.MatMul", b)
	if err != nil {
		return nil, err
	}
	if ac != br {
		return nil, errors.NewDimensionError("algebra.MatMul", ac, br, 0)
	}

	out := make([][]float64, ar)
	for i := 0; i < ar; i++ {
		out[i] = make([]float64, bc)
		for j := 0; j < bc; j++ {
			var sum float64
			for k := 0; k < ac; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out, nil
}

// Invert returns the inverse of the square matrix a using Gauss-Jordan
// elimination with partial pivoting. The pivot row is chosen as the remaining
// row with the largest absolute value in the pivot column, which bounds the
// numerical error of the reduction. A pivot magnitude below 1e-12 yields a
// singular-matrix error.
func Invert(a [][]float64) ([][]float64, error) {
	n, cols, err := shape("algebra.Invert", a)
	if err != nil {
		return nil, err
	}
	if n != cols {
		return nil, errors.NewDimensionError("algebra.Invert", n, cols, 1)
	}

	// Augment [A | I].
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], a[i])
		aug[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		pivotRow := col
		for r := col + 1; r < n; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivotRow][col]) {
				pivotRow = r
			}
		}
		pivot := aug[pivotRow][col]
		if math.Abs(pivot) < pivotEpsilon {
			return nil, errors.NewModelError("algebra.Invert", "singular matrix", errors.ErrSingularMatrix)
		}
		aug[col], aug[pivotRow] = aug[pivotRow], aug[col]

		inv := 1 / pivot
		for j := 0; j < 2*n; j++ {
			aug[col][j] *= inv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for j := 0; j < 2*n; j++ {
				aug[r][j] -= factor * aug[col][j]
			}
		}
	}

	// The right half of the reduced augmented matrix is A⁻¹.
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		copy(out[i], aug[i][n:])
	}
	return out, nil
}
