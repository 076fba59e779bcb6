// SPDX-License-Identifier: MIT

package angular

import (
	"fmt"
	"math"
)

// PowerMoments converts Legendre moments σ_ℓ = ∫P_ℓ(μ)σ(μ)dμ, ℓ = 0..L,
// into normalized power moments m_k = ∫μ^k σ(μ)dμ / σ_0, k = 0..L.
//
// μ^k is carried as its Legendre coefficient vector c, so that
// ∫μ^k σ dμ = Σ_ℓ c_ℓ σ_ℓ; each step multiplies c by μ using the
// three-term recurrence.
//
// Errors: ErrNoMoments, ErrNaNMoment.
// Complexity: O(L²).
func PowerMoments(legendre []float64) ([]float64, error) {
	if len(legendre) == 0 || !(legendre[0] > 0) {
		return nil, ErrNoMoments
	}
	for l, v := range legendre {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("moment %d: %w", l, ErrNaNMoment)
		}
	}

	L := len(legendre) - 1
	m := make([]float64, L+1)
	c := []float64{1}
	var (
		k, l int
		sum  float64
	)
	for k = 0; k <= L; k++ {
		sum = 0
		for l = 0; l < len(c) && l <= L; l++ {
			sum += c[l] * legendre[l]
		}
		m[k] = sum / legendre[0]
		c = timesMu(c)
	}

	return m, nil
}

// timesMu returns the Legendre coefficients of μ·Σ c_ℓ P_ℓ.
func timesMu(c []float64) []float64 {
	out := make([]float64, len(c)+1)
	for l, v := range c {
		fl := float64(l)
		out[l+1] += v * (fl + 1) / (2*fl + 1)
		if l > 0 {
			out[l-1] += v * fl / (2*fl + 1)
		}
	}

	return out
}
