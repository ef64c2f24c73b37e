package domain

// FacilityPlacement is the output of the centre-of-gravity heuristic.
type FacilityPlacement struct {
	OptimalLocation       Coordinate `json:"optimal_location"`
	TotalWeightedDistance float64    `json:"total_weighted_distance"`
	TotalDemand           float64    `json:"total_demand"`
}
