package domain

// FlowSolution is the result of a transportation problem.
// Flows[i][j] is the quantity shipped from origin i to destination j; it is
// nil when the status carries no feasible flow.
type FlowSolution struct {
	Flows     [][]float64 `json:"flows"`
	TotalCost float64     `json:"total_cost"`
	Status    SolveStatus `json:"status"`
}

// ShippedFrom returns the total outgoing flow of origin i.
func (f *FlowSolution) ShippedFrom(i int) float64 {
	if f == nil || i >= len(f.Flows) {
		return 0
	}
	return Sum(f.Flows[i])
}

// ReceivedAt returns the total incoming flow of destination j.
func (f *FlowSolution) ReceivedAt(j int) float64 {
	if f == nil {
		return 0
	}
	var s float64
	for _, row := range f.Flows {
		if j < len(row) {
			s += row[j]
		}
	}
	return s
}

// CleanQuantity snaps solver noise around zero to exactly zero.
func CleanQuantity(v float64) float64 {
	if approxZero(v) {
		return 0
	}
	return v
}
