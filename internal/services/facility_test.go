package services

import (
	"errors"
	"math"
	"supply-chain-optimizer/internal/domain"
	"supply-chain-optimizer/internal/geo"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeFacilityLocationEqualDemands(t *testing.T) {
	locs := []domain.Location{
		domain.NewLocation(0, 0),
		domain.NewLocation(4, 0),
		domain.NewLocation(2, 6),
	}

	p, err := OptimizeFacilityLocation(locs, []float64{3, 3, 3}, geo.Euclidean)
	require.NoError(t, err)
	assert.InDelta(t, 2, p.OptimalLocation.Lat, 1e-12)
	assert.InDelta(t, 2, p.OptimalLocation.Lon, 1e-12)
	assert.InDelta(t, 9, p.TotalDemand, 1e-12)

	want := 3 * (math.Hypot(2, 2) + math.Hypot(2, 2) + 4)
	assert.InDelta(t, want, p.TotalWeightedDistance, 1e-9)
}

func TestOptimizeFacilityLocationWeighted(t *testing.T) {
	locs := []domain.Location{domain.NewLocation(0, 0), domain.NewLocation(10, 0)}

	p, err := OptimizeFacilityLocation(locs, []float64{1, 3}, geo.Euclidean)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, p.OptimalLocation.Lat, 1e-12)
	assert.InDelta(t, 0, p.OptimalLocation.Lon, 1e-12)
	assert.InDelta(t, 1*7.5+3*2.5, p.TotalWeightedDistance, 1e-9)
}

func TestOptimizeFacilityLocationZeroDemandPointIgnored(t *testing.T) {
	locs := []domain.Location{domain.NewLocation(1, 1), domain.NewLocation(50, 50)}

	p, err := OptimizeFacilityLocation(locs, []float64{2, 0}, geo.Euclidean)
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinate{Lat: 1, Lon: 1}, p.OptimalLocation)
	assert.Zero(t, p.TotalWeightedDistance)
}

func TestOptimizeFacilityLocationHaversine(t *testing.T) {
	locs := []domain.Location{domain.NewLocation(0, -1), domain.NewLocation(0, 1)}

	p, err := OptimizeFacilityLocation(locs, []float64{1, 1}, geo.Haversine)
	require.NoError(t, err)
	// One degree of longitude on the equator is about 111.19 km.
	assert.InDelta(t, 2*111.19, p.TotalWeightedDistance, 0.1)
}

func TestOptimizeFacilityLocationInvalidInput(t *testing.T) {
	one := []domain.Location{domain.NewLocation(0, 0)}

	tests := []struct {
		name    string
		locs    []domain.Location
		demands []float64
	}{
		{name: "empty", locs: nil, demands: nil},
		{name: "length mismatch", locs: one, demands: []float64{1, 2}},
		{name: "negative demand", locs: one, demands: []float64{-1}},
		{name: "zero total demand", locs: one, demands: []float64{0}},
		{name: "non-finite coordinate", locs: []domain.Location{domain.NewLocation(math.NaN(), 0)}, demands: []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OptimizeFacilityLocation(tt.locs, tt.demands, geo.Euclidean)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidParameter), "err = %v", err)
		})
	}
}
