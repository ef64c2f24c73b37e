package services

import (
	"math"
	"supply-chain-optimizer/internal/domain"
)

const (
	oneTreeIters = 100
	oneTreeAlpha = 0.9
)

// oneTreeBound is the Held-Karp lower bound on the length of any closed
// tour through dm, from subgradient ascent over minimum 1-trees rooted at
// the depot. Both directions of an arc are priced at the cheaper one, so
// the bound also holds for asymmetric matrices. upper is the length of a
// known tour and sets the step size.
func oneTreeBound(dm domain.DistanceMatrix, upper float64) float64 {
	n := dm.Len()
	if n < 3 {
		return 0
	}

	w := make([][]float64, n)
	for i := range w {
		w[i] = make([]float64, n)
		for j := range w[i] {
			w[i][j] = math.Min(dm.At(i, j), dm.At(j, i))
		}
	}

	pi := make([]float64, n)
	deg := make([]int, n)
	best := math.Inf(-1)
	for it := 0; it < oneTreeIters; it++ {
		cost := minOneTree(w, pi, deg)
		var sumPi float64
		for _, p := range pi {
			sumPi += p
		}
		bound := cost - 2*sumPi
		best = max(best, bound)

		var norm2 float64
		for _, d := range deg {
			norm2 += float64((d - 2) * (d - 2))
		}
		// Every degree is 2: the 1-tree is a tour and the bound is tight.
		if norm2 == 0 {
			break
		}
		step := oneTreeAlpha * (upper - bound) / norm2
		if step <= 0 {
			break
		}
		for i := range pi {
			pi[i] += step * float64(deg[i]-2)
		}
	}
	return max(0, best)
}

// minOneTree builds a minimum spanning tree over locations 1..n-1 plus the
// two cheapest depot edges, on costs w[i][j] + pi[i] + pi[j]. It fills deg
// and returns the tree's reduced cost.
func minOneTree(w [][]float64, pi []float64, deg []int) float64 {
	n := len(w)
	reduced := func(i, j int) float64 { return w[i][j] + pi[i] + pi[j] }
	for i := range deg {
		deg[i] = 0
	}

	// Prim over 1..n-1.
	inTree := make([]bool, n)
	key := make([]float64, n)
	parent := make([]int, n)
	for v := range key {
		key[v], parent[v] = math.Inf(1), -1
	}
	key[1] = 0

	var total float64
	for range n - 1 {
		u := -1
		for v := 1; v < n; v++ {
			if !inTree[v] && (u < 0 || key[v] < key[u]) {
				u = v
			}
		}
		inTree[u] = true
		if parent[u] >= 0 {
			total += reduced(u, parent[u])
			deg[u]++
			deg[parent[u]]++
		}
		for v := 1; v < n; v++ {
			if c := reduced(u, v); !inTree[v] && c < key[v] {
				key[v], parent[v] = c, u
			}
		}
	}

	first, second := -1, -1
	for v := 1; v < n; v++ {
		switch c := reduced(0, v); {
		case first < 0 || c < reduced(0, first):
			first, second = v, first
		case second < 0 || c < reduced(0, second):
			second = v
		}
	}
	total += reduced(0, first) + reduced(0, second)
	deg[0] = 2
	deg[first]++
	deg[second]++
	return total
}
