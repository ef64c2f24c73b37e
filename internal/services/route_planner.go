package services

import (
	"context"
	"errors"
	"fmt"
	"supply-chain-optimizer/internal/domain"
	"supply-chain-optimizer/internal/geo"
	"supply-chain-optimizer/internal/solver"
)

// RoutingOptions tunes OptimizeRoutes.
type RoutingOptions struct {
	// Metric measures arc lengths between locations.
	Metric geo.Metric
	// MaxLocations rejects larger instances up front; 0 disables the check.
	MaxLocations int
}

// OptimizeRoutes plans a single-vehicle tour that starts and ends at the
// depot (locations[0]) and visits every other location once.
//
// With one vehicle every delivery rides on the same tour, so capacity holds
// exactly when the total non-depot demand fits in vehicleCapacity; the
// returned Loads trace the cumulative load delivered along the tour. The
// depot's own demand is not loaded onto the vehicle.
//
// The tour comes from a MILP over binary arcs x(i,j) with in/out degree 1
// and Dantzig-Fulkerson-Johnson subtour cuts separated lazily, both from
// disconnected LP solutions and from fractional ones whose minimum cut is
// below 2. A nearest-neighbour tour improved by 2-opt seeds the search and
// is returned as optimal straight away when it meets the Held-Karp bound.
//
// The search is bounded by ctx. When ctx's deadline passes the best tour
// found so far is returned with StatusTimeout; cancellation returns
// StatusCancelled the same way.
func OptimizeRoutes(
	ctx context.Context,
	locations []domain.Location,
	demands []float64,
	vehicleCapacity float64,
	opts RoutingOptions,
) (*domain.RoutingSolution, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("optimize routes: locations must include the depot: %w", domain.ErrInvalidParameter)
	}
	if opts.MaxLocations > 0 && len(locations) > opts.MaxLocations {
		return nil, fmt.Errorf(
			"optimize routes: %d locations exceed the limit of %d: %w",
			len(locations), opts.MaxLocations, domain.ErrInvalidParameter,
		)
	}
	for i, l := range locations {
		if err := l.Coordinate.Validate(); err != nil {
			return nil, fmt.Errorf("optimize routes: location %d: %w", i, err)
		}
	}

	dm, err := geo.Matrix(opts.Metric, domain.Coordinates(locations))
	if err != nil {
		return nil, fmt.Errorf("optimize routes: %w", err)
	}

	sol, err := OptimizeRoutesMatrix(ctx, dm, demands, vehicleCapacity)
	if err != nil {
		return nil, fmt.Errorf("optimize routes: %w", err)
	}
	return sol, nil
}

// OptimizeRoutesMatrix is OptimizeRoutes over a caller-supplied distance
// matrix, which may be asymmetric (e.g. road distances).
func OptimizeRoutesMatrix(
	ctx context.Context,
	dm domain.DistanceMatrix,
	demands []float64,
	vehicleCapacity float64,
) (*domain.RoutingSolution, error) {
	n := dm.Len()
	if n == 0 {
		return nil, fmt.Errorf("route matrix: depot is required: %w", domain.ErrInvalidParameter)
	}
	if len(demands) != n {
		return nil, fmt.Errorf("route matrix: %d demands for %d locations: %w", len(demands), n, domain.ErrInvalidParameter)
	}
	if err := domain.ValidateQuantities("demand", demands); err != nil {
		return nil, fmt.Errorf("route matrix: %w", err)
	}
	if !positiveFinite(vehicleCapacity) {
		return nil, fmt.Errorf("route matrix: vehicle capacity %v must be > 0: %w", vehicleCapacity, domain.ErrInvalidParameter)
	}

	load := domain.Sum(demands[1:])
	if n == 1 {
		return &domain.RoutingSolution{Route: []int{0, 0}, Status: domain.StatusOptimal}, nil
	}

	// A single vehicle carries every delivery, so the instance is feasible
	// exactly when the whole load fits.
	if load > vehicleCapacity*(1+1e-12) {
		return &domain.RoutingSolution{Status: domain.StatusInfeasible, TotalLoad: load}, nil
	}

	warm := ImproveTwoOpt(dm, NearestNeighborTour(dm, 0))
	sol := &domain.RoutingSolution{
		Route:         warm,
		TotalDistance: dm.TourLength(warm),
		TotalLoad:     load,
		Loads:         loadProfile(warm, demands),
	}
	if err := ctx.Err(); err != nil {
		sol.Status = statusOf(statusFromContext(err))
		return sol, nil
	}
	if lb := oneTreeBound(dm, sol.TotalDistance); sol.TotalDistance <= lb+1e-9*max(1, lb) {
		sol.Status = domain.StatusOptimal
		return sol, nil
	}

	f, err := newRouteFormulation(dm)
	if err != nil {
		return nil, fmt.Errorf("route matrix: build model: %w", err)
	}
	res, err := solver.SolveMILP(ctx, f.model, solver.MILPOptions{
		Integer:   f.arcVars,
		Incumbent: f.encode(warm),
		Separate:  f.subtourCuts,
	})
	if err != nil {
		return nil, fmt.Errorf("route matrix: %w: %w", domain.ErrSolver, err)
	}

	sol.Status = statusOf(res.Status)
	sol.Nodes = res.Nodes
	if res.X == nil {
		if sol.Status == domain.StatusTimeout {
			sol.Status = domain.StatusInfeasible
		}
		sol.Route, sol.TotalDistance, sol.Loads = nil, 0, nil
		return sol, nil
	}

	route, err := f.decode(res.X)
	if err != nil {
		return nil, fmt.Errorf("route matrix: %w: %w", domain.ErrSolver, err)
	}
	sol.Route = route
	sol.TotalDistance = dm.TourLength(route)
	sol.Loads = loadProfile(route, demands)
	return sol, nil
}

// loadProfile returns the cumulative demand delivered once each stop of
// route has been served. Depot stops add nothing.
func loadProfile(route []int, demands []float64) []float64 {
	loads := make([]float64, len(route))
	var carried float64
	for k, v := range route {
		if v != 0 {
			carried += demands[v]
		}
		loads[k] = carried
	}
	return loads
}

func statusFromContext(err error) solver.Status {
	if errors.Is(err, context.DeadlineExceeded) {
		return solver.TimeLimit
	}
	return solver.Cancelled
}

func statusOf(s solver.Status) domain.SolveStatus {
	switch s {
	case solver.Optimal:
		return domain.StatusOptimal
	case solver.Infeasible:
		return domain.StatusInfeasible
	case solver.Unbounded:
		return domain.StatusUnbounded
	case solver.Cancelled:
		return domain.StatusCancelled
	default:
		return domain.StatusTimeout
	}
}

// routeFormulation owns the MILP of one routing call.
type routeFormulation struct {
	n       int
	model   *solver.Model
	arc     [][]int // arc[i][j] is the variable of arc i->j, -1 on the diagonal
	arcVars []int
}

func newRouteFormulation(dm domain.DistanceMatrix) (*routeFormulation, error) {
	n := dm.Len()
	f := &routeFormulation{
		n:     n,
		model: solver.NewModel(),
		arc:   make([][]int, n),
	}

	for i := 0; i < n; i++ {
		f.arc[i] = make([]int, n)
		for j := 0; j < n; j++ {
			if i == j {
				f.arc[i][j] = -1
				continue
			}
			v := f.model.AddVar(dm.At(i, j))
			f.arc[i][j] = v
			f.arcVars = append(f.arcVars, v)
		}
	}

	// Degree: one arc out of and one arc into every location. The depot's
	// in-degree row is implied by the others and left out.
	for i := 0; i < n; i++ {
		out := solver.Constraint{Sense: solver.Equal, RHS: 1}
		in := solver.Constraint{Sense: solver.Equal, RHS: 1}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			out.Vars = append(out.Vars, f.arc[i][j])
			out.Coefs = append(out.Coefs, 1)
			in.Vars = append(in.Vars, f.arc[j][i])
			in.Coefs = append(in.Coefs, 1)
		}
		if err := f.model.AddConstraint(out); err != nil {
			return nil, err
		}
		if i == 0 {
			continue
		}
		if err := f.model.AddConstraint(in); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// encode turns a closed tour into a solution vector of the formulation.
func (f *routeFormulation) encode(tour []int) []float64 {
	x := make([]float64, f.model.NumVars())
	for k := 1; k < len(tour); k++ {
		x[f.arc[tour[k-1]][tour[k]]] = 1
	}
	return x
}

// decode follows selected arcs from the depot back to the depot.
func (f *routeFormulation) decode(x []float64) ([]int, error) {
	succ := f.successors(x)
	route := []int{0}
	for cur := 0; len(route) <= f.n; {
		next := succ[cur]
		if next < 0 {
			return nil, fmt.Errorf("decode tour: location %d has no outgoing arc", cur)
		}
		route = append(route, next)
		if next == 0 {
			break
		}
		cur = next
	}
	if !isClosedTour(route, f.n) {
		return nil, fmt.Errorf("decode tour: selected arcs do not form a single tour: %v", route)
	}
	return route, nil
}

func (f *routeFormulation) successors(x []float64) []int {
	succ := make([]int, f.n)
	for i := range succ {
		succ[i] = -1
		for j := 0; j < f.n; j++ {
			if i != j && x[f.arc[i][j]] > 0.5 {
				succ[i] = j
				break
			}
		}
	}
	return succ
}

// subtourCuts returns DFJ cuts Σ_{i,j∈S} x_ij <= |S|-1 violated by x. A
// disconnected support graph yields one cut per component; otherwise the
// global minimum cut of x_ij + x_ji is cut when it is below 2.
func (f *routeFormulation) subtourCuts(x []float64) []solver.Constraint {
	if f.n < 3 {
		return nil
	}

	w := make([][]float64, f.n)
	for i := range w {
		w[i] = make([]float64, f.n)
		for j := 0; j < f.n; j++ {
			if i != j {
				w[i][j] = x[f.arc[i][j]] + x[f.arc[j][i]]
			}
		}
	}

	if comps := components(w, supportTol); len(comps) > 1 {
		var cuts []solver.Constraint
		for _, c := range comps {
			if len(c) >= 2 {
				cuts = append(cuts, f.dfjCut(c))
			}
		}
		return cuts
	}

	value, side := minCut(w)
	if value >= 2-2*cutSlack {
		return nil
	}
	if len(side) > f.n/2 || len(side) < 2 {
		side = complement(side, f.n)
	}
	return []solver.Constraint{f.dfjCut(side)}
}

func (f *routeFormulation) dfjCut(set []int) solver.Constraint {
	cut := solver.Constraint{Sense: solver.LessEqual, RHS: float64(len(set) - 1)}
	for _, i := range set {
		for _, j := range set {
			if i != j {
				cut.Vars = append(cut.Vars, f.arc[i][j])
				cut.Coefs = append(cut.Coefs, 1)
			}
		}
	}
	return cut
}

// isClosedTour reports whether tour starts and ends at the depot and visits
// each of n locations exactly once.
func isClosedTour(tour []int, n int) bool {
	if len(tour) != n+1 || tour[0] != 0 || tour[n] != 0 {
		return false
	}
	seen := make([]bool, n)
	for _, v := range tour[:n] {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
