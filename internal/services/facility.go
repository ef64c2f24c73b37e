package services

import (
	"fmt"
	"supply-chain-optimizer/internal/domain"
	"supply-chain-optimizer/internal/geo"
)

// OptimizeFacilityLocation places a single facility at the demand-weighted
// centre of gravity of the locations:
//
//	center = Σ(demand_i * location_i) / Σ demand_i
//
// and reports Σ demand_i * distance(location_i, center) under metric.
//
// The centre of gravity is a heuristic. It minimises weighted squared
// distance, not weighted distance, so it is not guaranteed to be the min-sum
// (Weber) optimum. Callers that need that optimum must refine the result
// themselves, e.g. with Weiszfeld iterations.
func OptimizeFacilityLocation(
	locations []domain.Location,
	demands []float64,
	metric geo.Metric,
) (*domain.FacilityPlacement, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("optimize facility location: locations must not be empty: %w", domain.ErrInvalidParameter)
	}
	if len(locations) != len(demands) {
		return nil, fmt.Errorf(
			"optimize facility location: %d locations but %d demands: %w",
			len(locations), len(demands), domain.ErrInvalidParameter,
		)
	}
	for i, l := range locations {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("optimize facility location: location %d: %w", i, err)
		}
	}
	if err := domain.ValidateQuantities("demand", demands); err != nil {
		return nil, fmt.Errorf("optimize facility location: %w", err)
	}

	total := domain.Sum(demands)
	if total <= 0 {
		return nil, fmt.Errorf("optimize facility location: total demand must be > 0: %w", domain.ErrInvalidParameter)
	}

	var lat, lon float64
	for i, l := range locations {
		lat += demands[i] * l.Lat
		lon += demands[i] * l.Lon
	}
	center := domain.Coordinate{Lat: lat / total, Lon: lon / total}

	var weighted float64
	for i, l := range locations {
		weighted += demands[i] * metric.Distance(l.Coordinate, center)
	}

	return &domain.FacilityPlacement{
		OptimalLocation:       center,
		TotalWeightedDistance: weighted,
		TotalDemand:           total,
	}, nil
}
