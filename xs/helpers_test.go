// SPDX-License-Identifier: MIT

package xs_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/katalvlaran/mgxs/matrix"
	"github.com/katalvlaran/mgxs/xs"
	"github.com/stretchr/testify/require"
)

// captureLogger returns a logger writing text records into the buffer.
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer

	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

// sparse builds an n×n transfer moment from (g, g', value) triples.
func sparse(t *testing.T, n int, entries ...[3]float64) *matrix.Sparse {
	t.Helper()
	s, err := matrix.NewSparse(n)
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, s.Insert(int(e[0]), int(e[1]), e[2]))
	}

	return s
}

// delayedInput is a two-group, two-precursor fissile material.
func delayedInput(t *testing.T) xs.Input {
	t.Helper()

	return xs.Input{
		NumGroups:        2,
		ScatteringOrder:  0,
		NumPrecursors:    2,
		SigmaT:           []float64{1, 2},
		SigmaF:           []float64{0.1, 0.2},
		NuPrompt:         []float64{2.4, 2.5},
		NuDelayed:        []float64{0.01, 0.02},
		ChiPrompt:        []float64{3, 1},
		ChiDelayed:       [][]float64{{1, 1}, {0, 2}},
		DecayConstants:   []float64{0.1, 1.0},
		FractionalYields: []float64{0.25, 0.75},
		Transfer:         []*matrix.Sparse{sparse(t, 2, [3]float64{0, 0, 0.5}, [3]float64{1, 0, 0.2}, [3]float64{1, 1, 1.5})},
	}
}

// totalInput is a two-group fissile material without precursors.
func totalInput() xs.Input {
	return xs.Input{
		NumGroups: 2,
		SigmaT:    []float64{1, 2},
		SigmaA:    []float64{0.3, 0.9},
		SigmaF:    []float64{0.1, 0.2},
		Nu:        []float64{2.5, 2.5},
		Chi:       []float64{1, 0},
	}
}

// colSums returns Σ_g m[g][g'] for every column g'.
func colSums(m [][]float64) []float64 {
	out := make([]float64, len(m))
	for _, row := range m {
		for gp, v := range row {
			out[gp] += v
		}
	}

	return out
}
