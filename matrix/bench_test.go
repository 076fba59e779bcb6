// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/mgxs/matrix"
)

// BenchmarkPowerIteration_Sparse64 measures power iteration on a banded
// 64-group down-scatter operator.
func BenchmarkPowerIteration_Sparse64(b *testing.B) {
	const n = 64
	s, _ := matrix.NewSparse(n)
	for g := 0; g < n; g++ {
		_ = s.Insert(g, g, 0.5)
		if g > 0 {
			_ = s.Insert(g, g-1, 0.3)
		}
		if g+1 < n {
			_ = s.Insert(g, g+1, 0.01)
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = matrix.PowerIteration(s, nil)
	}
}

// BenchmarkInverse32 measures dense LU-based inversion.
func BenchmarkInverse32(b *testing.B) {
	const n = 32
	d, _ := matrix.NewDense(n, n)
	for i := 0; i < n; i++ {
		_ = d.Set(i, i, 2)
		if i > 0 {
			_ = d.Set(i, i-1, -0.5)
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = matrix.Inverse(d)
	}
}
