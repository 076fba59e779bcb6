// SPDX-License-Identifier: MIT

// Package matrix: Sparse is a square, row-compressed operator. Each row
// keeps its column indices sorted ascending, so iteration order is
// deterministic and At/Set are O(log nnz(row)). Structural entries are
// kept even when their value is zero; the sparsity pattern is part of
// the data (a transfer moment may declare an explicit zero).
package matrix

import (
	"fmt"
	"math"
	"sort"
)

const opSparse = "Sparse"

// sparseErrorf wraps an underlying error with Sparse method context.
func sparseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Sparse.%s(%d,%d): %w", method, row, col, err)
}

// Sparse is an n×n row-compressed matrix.
type Sparse struct {
	n    int         // dimension
	cols [][]int     // cols[i] sorted column indices of row i
	vals [][]float64 // vals[i][k] value at (i, cols[i][k])
}

// NewSparse allocates an empty n×n operator.
// Errors: ErrInvalidDimensions when n ≤ 0.
func NewSparse(n int) (*Sparse, error) {
	if n <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Sparse{n: n, cols: make([][]int, n), vals: make([][]float64, n)}, nil
}

// Rows returns the dimension n.
func (s *Sparse) Rows() int { return s.n }

// Cols returns the dimension n.
func (s *Sparse) Cols() int { return s.n }

// Dim returns the dimension n.
func (s *Sparse) Dim() int { return s.n }

// NNZ returns the number of structural entries.
func (s *Sparse) NNZ() int {
	total := 0
	for i := range s.cols {
		total += len(s.cols[i])
	}

	return total
}

// locate returns the position of col within row and whether it exists.
func (s *Sparse) locate(row, col int) (int, bool) {
	cols := s.cols[row]
	k := sort.SearchInts(cols, col)

	return k, k < len(cols) && cols[k] == col
}

func (s *Sparse) check(method string, row, col int, v float64) error {
	if row < 0 || row >= s.n || col < 0 || col >= s.n {
		return sparseErrorf(method, row, col, ErrOutOfRange)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sparseErrorf(method, row, col, ErrNaNInf)
	}

	return nil
}

// At returns the value at (row, col); absent entries read as 0.
func (s *Sparse) At(row, col int) (float64, error) {
	if err := s.check("At", row, col, 0); err != nil {
		return 0, err
	}
	if k, ok := s.locate(row, col); ok {
		return s.vals[row][k], nil
	}

	return 0, nil
}

// Set inserts or overwrites the entry at (row, col).
func (s *Sparse) Set(row, col int, v float64) error {
	return s.Insert(row, col, v)
}

// Insert inserts or overwrites the entry at (row, col).
// Complexity: O(nnz(row)) in the worst case (slice shift).
func (s *Sparse) Insert(row, col int, v float64) error {
	if err := s.check("Insert", row, col, v); err != nil {
		return err
	}
	k, ok := s.locate(row, col)
	if ok {
		s.vals[row][k] = v
		return nil
	}
	s.cols[row] = append(s.cols[row], 0)
	s.vals[row] = append(s.vals[row], 0)
	copy(s.cols[row][k+1:], s.cols[row][k:])
	copy(s.vals[row][k+1:], s.vals[row][k:])
	s.cols[row][k] = col
	s.vals[row][k] = v

	return nil
}

// Accumulate adds v to the entry at (row, col), creating it when absent.
func (s *Sparse) Accumulate(row, col int, v float64) error {
	if err := s.check("Accumulate", row, col, v); err != nil {
		return err
	}
	if k, ok := s.locate(row, col); ok {
		s.vals[row][k] += v
		return nil
	}

	return s.Insert(row, col, v)
}

// Row returns the column indices and values of row i. The slices alias
// internal storage and must not be modified.
func (s *Sparse) Row(i int) ([]int, []float64) {
	if i < 0 || i >= s.n {
		return nil, nil
	}

	return s.cols[i], s.vals[i]
}

// Each calls fn for every structural entry in row-major, column-ascending order.
func (s *Sparse) Each(fn func(row, col int, v float64)) {
	var i, k int
	for i = 0; i < s.n; i++ {
		for k = range s.cols[i] {
			fn(i, s.cols[i][k], s.vals[i][k])
		}
	}
}

// ColSums returns Σ_i s[i][j] for every column j.
func (s *Sparse) ColSums() []float64 {
	sums := make([]float64, s.n)
	s.Each(func(_, col int, v float64) { sums[col] += v })

	return sums
}

// AddScaled accumulates alpha·other into s, entry by entry, following the
// sparsity pattern of other (a sparse accumulate, not a dense add).
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func (s *Sparse) AddScaled(other *Sparse, alpha float64) error {
	if other == nil {
		return matrixErrorf(opSparse, ErrNilMatrix)
	}
	if other.n != s.n {
		return matrixErrorf(opSparse, ErrDimensionMismatch)
	}
	var (
		i, k int
		err  error
	)
	for i = 0; i < other.n; i++ {
		for k = range other.cols[i] {
			if err = s.Accumulate(i, other.cols[i][k], alpha*other.vals[i][k]); err != nil {
				return err
			}
		}
	}

	return nil
}

// Scale multiplies every stored value by alpha in place.
func (s *Sparse) Scale(alpha float64) {
	var i, k int
	for i = range s.vals {
		for k = range s.vals[i] {
			s.vals[i][k] *= alpha
		}
	}
}

// Copy returns a deep copy with the same sparsity pattern.
func (s *Sparse) Copy() *Sparse {
	out := &Sparse{n: s.n, cols: make([][]int, s.n), vals: make([][]float64, s.n)}
	for i := 0; i < s.n; i++ {
		out.cols[i] = append([]int(nil), s.cols[i]...)
		out.vals[i] = append([]float64(nil), s.vals[i]...)
	}

	return out
}

// Clone implements Matrix.
func (s *Sparse) Clone() Matrix { return s.Copy() }

// Transpose returns sᵀ with the transposed sparsity pattern.
func (s *Sparse) Transpose() *Sparse {
	out := &Sparse{n: s.n, cols: make([][]int, s.n), vals: make([][]float64, s.n)}
	// Rows of s are visited in ascending order, so appending keeps every
	// output row sorted without a search.
	s.Each(func(row, col int, v float64) {
		out.cols[col] = append(out.cols[col], row)
		out.vals[col] = append(out.vals[col], v)
	})

	return out
}

// Dense materializes the operator.
func (s *Sparse) Dense() *Dense {
	d := &Dense{r: s.n, c: s.n, data: make([]float64, s.n*s.n)}
	s.Each(func(row, col int, v float64) { d.data[row*s.n+col] = v })

	return d
}

// mulVecInto writes s·x into y (len(y)==len(x)==n, checked by callers).
func (s *Sparse) mulVecInto(y, x []float64) {
	var (
		i, k int
		sum  float64
	)
	for i = 0; i < s.n; i++ {
		sum = ZeroSum
		for k = range s.cols[i] {
			sum += s.vals[i][k] * x[s.cols[i][k]]
		}
		y[i] = sum
	}
}
