// SPDX-License-Identifier: MIT
// Package matrix_test contains small deterministic fixtures shared by the
// kernel tests.

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/mgxs/matrix"
	"github.com/stretchr/testify/require"
)

// hide wraps any Matrix to hide its concrete type, forcing kernels onto the
// interface (non-*Dense) path.
type hide struct{ matrix.Matrix }

// MustDense builds a *Dense from literal rows or fails the test.
func MustDense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDenseFromRows(rows)
	require.NoError(t, err)

	return d
}

// MustSparse builds an n×n *Sparse from (row, col, value) triples.
func MustSparse(t *testing.T, n int, entries ...[3]float64) *matrix.Sparse {
	t.Helper()
	s, err := matrix.NewSparse(n)
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, s.Insert(int(e[0]), int(e[1]), e[2]))
	}

	return s
}

// requireMatrixInDelta compares every element of got against want.
func requireMatrixInDelta(t *testing.T, want [][]float64, got matrix.Matrix, delta float64) {
	t.Helper()
	require.Equal(t, len(want), got.Rows())
	for i := range want {
		require.Equal(t, len(want[i]), got.Cols())
		for j := range want[i] {
			v, err := got.At(i, j)
			require.NoError(t, err)
			require.InDeltaf(t, want[i][j], v, delta, "element (%d,%d)", i, j)
		}
	}
}
