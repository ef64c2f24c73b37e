package services

import (
	"math"
	"supply-chain-optimizer/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestNeighborTour(t *testing.T) {
	dm, err := domain.NewDistanceMatrix([][]float64{
		{0, 1000, 2000, 1500},
		{1000, 0, 800, 700},
		{2000, 800, 0, 900},
		{1500, 700, 900, 0},
	})
	require.NoError(t, err)

	tour := NearestNeighborTour(dm, 0)
	assert.Equal(t, []int{0, 1, 3, 2, 0}, tour)
	assert.InDelta(t, 1000+700+900+2000, dm.TourLength(tour), 1e-9)
}

func TestNearestNeighborTourSingleLocation(t *testing.T) {
	dm, err := domain.NewDistanceMatrix([][]float64{{0}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, NearestNeighborTour(dm, 0))
}

func TestImproveTwoOptUncrossesTour(t *testing.T) {
	// Unit square visited corner-to-corner: 0(0,0) 1(1,1) 2(1,0) 3(0,1).
	coords := [][2]float64{{0, 0}, {1, 1}, {1, 0}, {0, 1}}
	rows := make([][]float64, len(coords))
	for i, a := range coords {
		rows[i] = make([]float64, len(coords))
		for j, b := range coords {
			rows[i][j] = math.Hypot(a[0]-b[0], a[1]-b[1])
		}
	}
	dm, err := domain.NewDistanceMatrix(rows)
	require.NoError(t, err)

	crossed := []int{0, 1, 2, 3, 0}
	better := ImproveTwoOpt(dm, crossed)

	assert.InDelta(t, 4, dm.TourLength(better), 1e-9)
	assert.True(t, isClosedTour(better, 4))
	assert.Equal(t, []int{0, 1, 2, 3, 0}, crossed, "input must not be modified")
}
