package domain

// RoutingSolution is a closed single-vehicle tour over location indices.
// Route starts and ends at the depot (index 0). It is empty when the status
// carries no usable tour.
type RoutingSolution struct {
	Route         []int   `json:"route"`
	TotalDistance float64 `json:"total_distance"`
	TotalLoad     float64 `json:"total_load"`
	// Loads[k] is the cumulative demand delivered once Route[k] is served.
	Loads  []float64   `json:"loads,omitempty"`
	Status SolveStatus `json:"status"`
	// Nodes is the number of branch-and-bound nodes explored.
	Nodes int `json:"nodes"`
}

// HasRoute reports whether the solution carries a tour.
func (r *RoutingSolution) HasRoute() bool { return r != nil && len(r.Route) > 0 }
