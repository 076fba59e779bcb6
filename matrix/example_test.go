// SPDX-License-Identifier: MIT

package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/mgxs/matrix"
)

// ExamplePowerIteration collapses a two-group Gauss–Seidel operator.
func ExamplePowerIteration() {
	// A = diag(σt) − lower scattering, B = upper scattering.
	a, _ := matrix.NewDenseFromRows([][]float64{{1, 0}, {-0.3, 1}})
	b, _ := matrix.NewDenseFromRows([][]float64{{0, 0.05}, {0, 0}})

	inv, _ := matrix.Inverse(a)
	c, _ := matrix.Mul(inv, b)
	res, _ := matrix.PowerIteration(c, nil)

	fmt.Printf("λ=%.3f converged=%v\n", res.Value, res.Converged)
	// Output: λ=0.015 converged=true
}

// ExampleSparse shows row-compressed insertion and column sums.
func ExampleSparse() {
	s, _ := matrix.NewSparse(3)
	_ = s.Insert(1, 0, 0.25) // scatter 0 → 1
	_ = s.Insert(0, 0, 0.5)  // self-scatter in group 0
	_ = s.Accumulate(1, 0, 0.25)

	fmt.Println(s.NNZ(), s.ColSums())
	// Output: 2 [1 0 0]
}
