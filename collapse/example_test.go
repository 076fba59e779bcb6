// SPDX-License-Identifier: MIT

package collapse_test

import (
	"fmt"

	"github.com/katalvlaran/mgxs/collapse"
	"github.com/katalvlaran/mgxs/matrix"
	"github.com/katalvlaran/mgxs/xs"
)

// ExampleCollapse collapses two groups with down- and up-scatter.
func ExampleCollapse() {
	s, _ := matrix.NewSparse(2)
	_ = s.Insert(1, 0, 0.3)
	_ = s.Insert(0, 1, 0.05)
	rec, _ := xs.New(xs.Input{NumGroups: 2, SigmaT: []float64{1, 1}, Transfer: []*matrix.Sparse{s}})

	res, err := collapse.Collapse(rec, collapse.Gauss, collapse.Full)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("λ=%.3f φ=%.4f σa=%.4f\n", res.Eigenvalue, res.Spectrum, res.SigmaAbsorption)
	// Output: λ=0.015 φ=[0.7692 0.2308] σa=0.7577
}
