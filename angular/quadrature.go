// SPDX-License-Identifier: MIT

package angular

import (
	"math"
	"sort"

	"github.com/katalvlaran/mgxs/matrix"
	"gonum.org/v1/gonum/floats"
)

const (
	// realizableFloor is the smallest β_k accepted as positive, relative to m_0.
	realizableFloor = 1e-14

	// supportSlack tolerates round-off when checking nodes against [−1,1].
	supportSlack = 1e-10

	eigenTolerance = 1e-14
	eigenMaxIter   = 10000
)

// Node is one discrete scattering direction.
type Node struct {
	Cosine float64 // μ ∈ [−1,1]
	Weight float64 // probability; weights of a rule sum to 1
}

// Result is a reconstructed discrete distribution.
type Result struct {
	Nodes     []Node // sorted by ascending cosine
	Requested int    // number of points the moments allowed
	Used      int    // number of points actually produced
}

// Reduced reports whether fewer points than requested were produced.
func (r Result) Reduced() bool { return r.Used < r.Requested }

// Reconstruct builds the discrete angular distribution matching the given
// Legendre moments σ_0..σ_L (see package doc). L = 0 yields no nodes: an
// isotropic kernel has no preferred directions and callers sample it
// uniformly.
//
// Errors: ErrNoMoments, ErrNaNMoment, matrix errors from Eigen.
// Complexity: O(L²) for the moments plus O(n³) per Eigen attempt.
func Reconstruct(legendre []float64) (Result, error) {
	m, err := PowerMoments(legendre)
	if err != nil {
		return Result{}, err
	}
	res := Result{Requested: len(m) / 2}
	if res.Requested == 0 {
		return res, nil
	}

	alpha, beta := chebyshev(m, res.Requested)
	for n := len(alpha); n >= 1; n-- {
		nodes, err := golubWelsch(alpha[:n], beta[:n])
		if err != nil {
			return Result{}, err
		}
		if n == 1 || inSupport(nodes) {
			res.Nodes, res.Used = nodes, n
			break
		}
	}

	return res, nil
}

// Quadrature returns the n-point rule for the first 2n power moments
// m_0..m_{2n−1}, without the realizability reduction of Reconstruct.
func Quadrature(moments []float64) ([]Node, error) {
	if len(moments) < 2 || !(moments[0] > 0) {
		return nil, ErrNoMoments
	}
	alpha, beta := chebyshev(moments, len(moments)/2)

	return golubWelsch(alpha, beta)
}

// chebyshev runs the Chebyshev algorithm on ordinary moments m_0..m_{2n−1}
// and returns α_0..α_{k−1}, β_0..β_{k−1} for the largest k ≤ n whose β are
// all positive.
//
//	σ_{−1,l} = 0, σ_{0,l} = m_l
//	σ_{k,l}  = σ_{k−1,l+1} − α_{k−1}σ_{k−1,l} − β_{k−1}σ_{k−2,l}
//	α_k = σ_{k,k+1}/σ_{k,k} − σ_{k−1,k}/σ_{k−1,k−1},  β_k = σ_{k,k}/σ_{k−1,k−1}
func chebyshev(m []float64, n int) (alpha, beta []float64) {
	alpha = make([]float64, 1, n)
	beta = make([]float64, 1, n)
	alpha[0], beta[0] = m[1]/m[0], m[0]

	prev := make([]float64, 2*n)
	cur := append([]float64(nil), m[:2*n]...)
	var k, l int
	for k = 1; k < n; k++ {
		next := make([]float64, 2*n)
		for l = k; l <= 2*n-k-1; l++ {
			next[l] = cur[l+1] - alpha[k-1]*cur[l] - beta[k-1]*prev[l]
		}
		if next[k] <= realizableFloor*m[0] || math.IsNaN(next[k]) {
			break
		}
		alpha = append(alpha, next[k+1]/next[k]-cur[k]/cur[k-1])
		beta = append(beta, next[k]/cur[k-1])
		prev, cur = cur, next
	}

	return alpha, beta
}

// golubWelsch turns recurrence coefficients into nodes and weights.
func golubWelsch(alpha, beta []float64) ([]Node, error) {
	n := len(alpha)
	if n == 1 {
		return []Node{{Cosine: clamp(alpha[0]), Weight: 1}}, nil
	}
	j, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for k := 0; k < n; k++ {
		_ = j.Set(k, k, alpha[k])
		if k+1 < n {
			off := math.Sqrt(beta[k+1])
			_ = j.Set(k, k+1, off)
			_ = j.Set(k+1, k, off)
		}
	}
	values, vectors, err := matrix.Eigen(j, eigenTolerance, eigenMaxIter)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, n)
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		v0, _ := vectors.At(0, i)
		weights[i] = beta[0] * v0 * v0
		nodes[i].Cosine = values[i]
	}
	floats.Scale(1/floats.Sum(weights), weights)
	for i := range nodes {
		nodes[i].Weight = weights[i]
	}
	sort.Slice(nodes, func(a, b int) bool { return nodes[a].Cosine < nodes[b].Cosine })

	return nodes, nil
}

// inSupport reports whether every node lies in [−1,1] (with round-off
// slack) and clamps the ones that sit on the slack.
func inSupport(nodes []Node) bool {
	for i := range nodes {
		if math.Abs(nodes[i].Cosine) > 1+supportSlack {
			return false
		}
		nodes[i].Cosine = clamp(nodes[i].Cosine)
	}

	return true
}

func clamp(mu float64) float64 {
	return math.Max(-1, math.Min(1, mu))
}
