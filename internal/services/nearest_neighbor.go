package services

import (
	"math"
	"supply-chain-optimizer/internal/domain"
)

// NearestNeighborTour builds a closed tour from start using a greedy
// nearest-neighbour rule.
//
// At each step the closest unvisited location is chosen; ties go to the
// lowest index so the tour is deterministic. The result is a warm start,
// not an optimised route.
func NearestNeighborTour(dm domain.DistanceMatrix, start int) []int {
	n := dm.Len()
	tour := make([]int, 0, n+1)
	tour = append(tour, start)
	if n <= 1 {
		return append(tour, start)
	}

	visited := make([]bool, n)
	visited[start] = true
	current := start

	for len(tour) < n {
		best := -1
		bestDist := math.Inf(1)
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if d := dm.At(current, j); d < bestDist {
				best, bestDist = j, d
			}
		}

		visited[best] = true
		tour = append(tour, best)
		current = best
	}

	return append(tour, start)
}

// ImproveTwoOpt applies first-improvement 2-opt moves to a closed tour until
// no segment reversal shortens it. Candidate tours are re-measured in full,
// so the move is also correct for asymmetric matrices.
func ImproveTwoOpt(dm domain.DistanceMatrix, tour []int) []int {
	best := append([]int(nil), tour...)
	bestLen := dm.TourLength(best)
	last := len(best) - 1

	for improved := true; improved; {
		improved = false
		for i := 1; i < last-1; i++ {
			for k := i + 1; k < last; k++ {
				cand := reverseSegment(best, i, k)
				if l := dm.TourLength(cand); l < bestLen-1e-12 {
					best, bestLen, improved = cand, l, true
				}
			}
		}
	}
	return best
}

func reverseSegment(tour []int, i, k int) []int {
	out := append([]int(nil), tour...)
	for i < k {
		out[i], out[k] = out[k], out[i]
		i++
		k--
	}
	return out
}
