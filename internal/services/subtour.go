package services

import (
	"math"
	"slices"
)

const (
	// supportTol is the smallest arc weight treated as an edge of the
	// support graph.
	supportTol = 1e-6
	// cutSlack is the least DFJ violation worth a cut.
	cutSlack = 1e-4
)

// components returns the connected components of the graph whose edges are
// the entries of the symmetric matrix w above tol, each sorted ascending.
func components(w [][]float64, tol float64) [][]int {
	n := len(w)
	seen := make([]bool, n)
	var out [][]int
	for start := 0; start < n; start++ {
		if seen[start] {
			continue
		}
		seen[start] = true
		comp := []int{start}
		for k := 0; k < len(comp); k++ {
			u := comp[k]
			for v := 0; v < n; v++ {
				if !seen[v] && w[u][v] > tol {
					seen[v] = true
					comp = append(comp, v)
				}
			}
		}
		out = append(out, sortedInts(comp))
	}
	return out
}

// minCut is Stoer-Wagner over the symmetric weights w. It returns the value
// of a global minimum cut and the vertices on one side of it.
func minCut(w [][]float64) (float64, []int) {
	n := len(w)
	g := make([][]float64, n)
	groups := make([][]int, n)
	active := make([]int, n)
	for i := range g {
		g[i] = append([]float64(nil), w[i]...)
		groups[i] = []int{i}
		active[i] = i
	}

	best := math.Inf(1)
	var side []int
	added := make([]bool, n)
	conn := make([]float64, n)

	for len(active) > 1 {
		for _, v := range active {
			added[v], conn[v] = false, 0
		}
		prev, last := -1, -1
		for range active {
			sel := -1
			for _, v := range active {
				if !added[v] && (sel < 0 || conn[v] > conn[sel]) {
					sel = v
				}
			}
			added[sel] = true
			prev, last = last, sel
			for _, v := range active {
				if !added[v] {
					conn[v] += g[sel][v]
				}
			}
		}

		if conn[last] < best {
			best = conn[last]
			side = append([]int(nil), groups[last]...)
		}

		groups[prev] = append(groups[prev], groups[last]...)
		for _, v := range active {
			if v != prev && v != last {
				g[prev][v] += g[last][v]
				g[v][prev] = g[prev][v]
			}
		}
		for k, v := range active {
			if v == last {
				active = append(active[:k], active[k+1:]...)
				break
			}
		}
	}
	return best, sortedInts(side)
}

func complement(set []int, n int) []int {
	in := make([]bool, n)
	for _, v := range set {
		in[v] = true
	}
	out := make([]int, 0, n-len(set))
	for v := 0; v < n; v++ {
		if !in[v] {
			out = append(out, v)
		}
	}
	return out
}

func sortedInts(s []int) []int {
	slices.Sort(s)
	return s
}
