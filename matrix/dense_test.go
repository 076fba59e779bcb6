// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/mgxs/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewDense_InvalidDimensions verifies that non-positive shapes are rejected.
func TestNewDense_InvalidDimensions(t *testing.T) {
	for _, shape := range [][2]int{{0, 1}, {1, 0}, {-1, 3}} {
		_, err := matrix.NewDense(shape[0], shape[1])
		require.ErrorIs(t, err, matrix.ErrInvalidDimensions, "shape %v", shape)
	}
}

// TestDense_AtSetBounds checks bounds and NaN/Inf rejection on Set.
func TestDense_AtSetBounds(t *testing.T) {
	d, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	require.NoError(t, d.Set(1, 2, 4.5))
	v, err := d.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	_, err = d.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, d.Set(0, -1, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, d.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, d.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)
}

// TestDense_CloneIsDeep ensures Clone does not share storage.
func TestDense_CloneIsDeep(t *testing.T) {
	d := MustDense(t, [][]float64{{1, 2}, {3, 4}})
	c := d.Clone()
	require.NoError(t, c.Set(0, 0, 99))

	v, _ := d.At(0, 0)
	assert.Equal(t, 1.0, v, "original must be untouched")
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, d.RowsCopy())
}

// TestNewDenseFromRows_Ragged rejects rows of different length.
func TestNewDenseFromRows_Ragged(t *testing.T) {
	_, err := matrix.NewDenseFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseFromRows(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestDense_String renders one bracketed line per row.
func TestDense_String(t *testing.T) {
	d := MustDense(t, [][]float64{{1, 0.5}, {-2, 3}})
	assert.Equal(t, "[1, 0.5]\n[-2, 3]\n", d.String())
}
