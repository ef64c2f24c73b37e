package services

import (
	"context"
	"fmt"
	"supply-chain-optimizer/internal/domain"
	"supply-chain-optimizer/internal/geo"
	"supply-chain-optimizer/internal/solver"
)

// TransportationProblem is the input of OptimizeTransportation.
// When Costs is nil the per-unit cost of a lane is the distance between its
// origin and destination under Metric.
type TransportationProblem struct {
	Origins      []domain.Location
	Destinations []domain.Location
	Supplies     []float64
	Demands      []float64
	Costs        domain.CostMatrix
	Metric       geo.Metric
}

// OptimizeTransportation solves the classical transportation LP:
//
//	minimise   Σ cost[i][j] * flow[i][j]
//	subject to Σ_j flow[i][j] <= supply[i]   for every origin
//	           Σ_i flow[i][j] >= demand[j]   for every destination
//	           flow >= 0
//
// A shortfall of total supply is reported as StatusInfeasible; flows are
// never truncated to make an instance fit.
func OptimizeTransportation(ctx context.Context, p TransportationProblem) (*domain.FlowSolution, error) {
	costs, err := p.validate()
	if err != nil {
		return nil, fmt.Errorf("optimize transportation: %w", err)
	}

	supply, demand := domain.Sum(p.Supplies), domain.Sum(p.Demands)
	if supply < demand-1e-9*max(1, demand) {
		return &domain.FlowSolution{Status: domain.StatusInfeasible}, nil
	}

	m := solver.NewModel()
	nO, nD := len(p.Supplies), len(p.Demands)
	lane := make([][]int, nO)
	for i := range lane {
		lane[i] = make([]int, nD)
		for j := range lane[i] {
			lane[i][j] = m.AddVar(costs[i][j])
		}
	}

	for i := 0; i < nO; i++ {
		c := solver.Constraint{Sense: solver.LessEqual, RHS: p.Supplies[i]}
		for j := 0; j < nD; j++ {
			c.Vars = append(c.Vars, lane[i][j])
			c.Coefs = append(c.Coefs, 1)
		}
		if err := m.AddConstraint(c); err != nil {
			return nil, fmt.Errorf("optimize transportation: supply row %d: %w", i, err)
		}
	}
	for j := 0; j < nD; j++ {
		c := solver.Constraint{Sense: solver.GreaterEqual, RHS: p.Demands[j]}
		for i := 0; i < nO; i++ {
			c.Vars = append(c.Vars, lane[i][j])
			c.Coefs = append(c.Coefs, 1)
		}
		if err := m.AddConstraint(c); err != nil {
			return nil, fmt.Errorf("optimize transportation: demand row %d: %w", j, err)
		}
	}

	res, err := solver.SolveLP(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("optimize transportation: %w: %w", domain.ErrSolver, err)
	}

	sol := &domain.FlowSolution{Status: statusOf(res.Status)}
	if res.Status != solver.Optimal {
		return sol, nil
	}

	sol.Flows = make([][]float64, nO)
	for i := range sol.Flows {
		sol.Flows[i] = make([]float64, nD)
		for j := range sol.Flows[i] {
			f := domain.CleanQuantity(res.X[lane[i][j]])
			sol.Flows[i][j] = f
			sol.TotalCost += f * costs[i][j]
		}
	}
	return sol, nil
}

func (p TransportationProblem) validate() (domain.CostMatrix, error) {
	nO, nD := len(p.Supplies), len(p.Demands)
	if nO == 0 || nD == 0 {
		return nil, fmt.Errorf("need at least one origin and one destination: %w", domain.ErrInvalidParameter)
	}
	if err := domain.ValidateQuantities("supply", p.Supplies); err != nil {
		return nil, err
	}
	if err := domain.ValidateQuantities("demand", p.Demands); err != nil {
		return nil, err
	}

	// With explicit costs the sites are optional, but sites that are given
	// must line up with supplies and demands.
	withCosts := p.Costs != nil
	if len(p.Origins) != nO && (!withCosts || len(p.Origins) > 0) {
		return nil, fmt.Errorf("%d origins but %d supplies: %w", len(p.Origins), nO, domain.ErrInvalidParameter)
	}
	if len(p.Destinations) != nD && (!withCosts || len(p.Destinations) > 0) {
		return nil, fmt.Errorf("%d destinations but %d demands: %w", len(p.Destinations), nD, domain.ErrInvalidParameter)
	}
	if withCosts {
		if err := p.Costs.Validate(nO, nD); err != nil {
			return nil, err
		}
		return p.Costs, nil
	}

	costs := make(domain.CostMatrix, nO)
	for i, o := range p.Origins {
		if err := o.Coordinate.Validate(); err != nil {
			return nil, fmt.Errorf("origin %d: %w", i, err)
		}
		costs[i] = make([]float64, nD)
		for j, d := range p.Destinations {
			if err := d.Coordinate.Validate(); err != nil {
				return nil, fmt.Errorf("destination %d: %w", j, err)
			}
			costs[i][j] = p.Metric.Distance(o.Coordinate, d.Coordinate)
		}
	}
	return costs, nil
}
