package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Separator inspects an LP solution, integral or fractional, and returns
// constraints it violates. Returned constraints are added to every
// subsequent node, so they must be valid for the whole problem. Returning
// nothing accepts an integral x.
type Separator func(x []float64) []Constraint

// MILPOptions configures SolveMILP.
type MILPOptions struct {
	// Integer lists the variables that must take integral values.
	Integer []int
	// Incumbent is an optional known feasible solution used for pruning and
	// returned if nothing better is found.
	Incumbent []float64
	// Separate supplies lazy constraints.
	Separate Separator
	// MaxNodes caps the search; 0 means no cap. Hitting the cap reports
	// TimeLimit with the best solution found.
	MaxNodes int
}

// MILPResult is the outcome of a branch-and-bound search. X holds the best
// integral solution when one is known, including on TimeLimit and Cancelled.
type MILPResult struct {
	Status    Status
	Objective float64
	X         []float64
	Nodes     int
	Cuts      int
	// Skipped counts nodes dropped because their LP failed numerically.
	Skipped int
}

const (
	integralityTol = 1e-6
	cutTol         = 1e-6
	// maxCutRounds bounds how often one fractional node is re-solved after
	// separation before it is branched on instead.
	maxCutRounds = 20
)

type bbNode struct {
	bounds []Constraint
	rounds int
}

// solveNode solves one node relaxation; tests replace it.
var solveNode = SolveLP

// SolveMILP runs depth-first branch-and-bound over LP relaxations of m.
// Lazy constraints from opts.Separate are collected in a global pool that
// every later node inherits. The search stops early when ctx ends.
//
// A node whose LP fails numerically is skipped rather than failing the
// search. Optimality is then unproven, so the result reports TimeLimit with
// the best solution found.
func SolveMILP(ctx context.Context, m *Model, opts MILPOptions) (MILPResult, error) {
	if m.NumVars() == 0 {
		return MILPResult{}, ErrEmptyModel
	}
	for _, v := range opts.Integer {
		if v < 0 || v >= m.NumVars() {
			return MILPResult{}, fmt.Errorf("solve milp: integer variable %d out of range: %w", v, ErrBadConstraint)
		}
	}

	res := MILPResult{Objective: math.Inf(1)}
	if opts.Incumbent != nil {
		if len(opts.Incumbent) != m.NumVars() {
			return MILPResult{}, fmt.Errorf("solve milp: incumbent has %d values, model has %d variables: %w",
				len(opts.Incumbent), m.NumVars(), ErrBadConstraint)
		}
		res.X = append([]float64(nil), opts.Incumbent...)
		res.Objective = m.Objective(res.X)
	}

	var pool []Constraint
	stack := []bbNode{{}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			res.Status = statusFromContext(err)
			return finish(res), nil
		}
		if opts.MaxNodes > 0 && res.Nodes >= opts.MaxNodes {
			res.Status = TimeLimit
			return finish(res), nil
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		res.Nodes++

		lpRes, err := solveNode(ctx, m.with(pool, nd.bounds))
		if errors.Is(err, ErrNumerical) {
			res.Skipped++
			continue
		}
		if err != nil {
			return MILPResult{}, fmt.Errorf("solve milp: node %d: %w", res.Nodes, err)
		}

		switch lpRes.Status {
		case TimeLimit, Cancelled:
			res.Status = lpRes.Status
			return finish(res), nil
		case Unbounded:
			res.Status = Unbounded
			res.X = nil
			res.Objective = 0
			return res, nil
		case Infeasible:
			continue
		}

		if lpRes.Objective >= res.Objective-pruneTol(res.Objective) {
			continue
		}

		v, frac := mostFractional(lpRes.X, opts.Integer)
		if v < 0 {
			x := roundIntegers(lpRes.X, opts.Integer)
			if cuts := violatedCuts(opts.Separate, x); len(cuts) > 0 {
				pool = append(pool, cuts...)
				res.Cuts += len(cuts)
				stack = append(stack, nd)
				continue
			}
			res.X = x
			res.Objective = m.Objective(x)
			continue
		}

		if nd.rounds < maxCutRounds {
			if cuts := violatedCuts(opts.Separate, lpRes.X); len(cuts) > 0 {
				pool = append(pool, cuts...)
				res.Cuts += len(cuts)
				nd.rounds++
				stack = append(stack, nd)
				continue
			}
		}

		down := bbNode{bounds: appendBound(nd.bounds, v, LessEqual, math.Floor(lpRes.X[v]))}
		up := bbNode{bounds: appendBound(nd.bounds, v, GreaterEqual, math.Ceil(lpRes.X[v]))}
		// The child on the nearer side is explored first.
		if frac >= 0.5 {
			stack = append(stack, down, up)
		} else {
			stack = append(stack, up, down)
		}
	}

	switch {
	case res.Skipped > 0:
		res.Status = TimeLimit
		return finish(res), nil
	case res.X == nil:
		res.Status = Infeasible
		res.Objective = 0
		return res, nil
	}
	res.Status = Optimal
	return res, nil
}

func finish(res MILPResult) MILPResult {
	if res.X == nil {
		res.Objective = 0
	}
	return res
}

func pruneTol(best float64) float64 {
	if math.IsInf(best, 1) {
		return 0
	}
	return 1e-9 * max(1, math.Abs(best))
}

// mostFractional returns the integer variable whose value is furthest from
// an integer, or -1 when all are integral. Ties go to the lowest index.
func mostFractional(x []float64, integer []int) (int, float64) {
	best, bestDist, bestFrac := -1, integralityTol, 0.0
	for _, v := range integer {
		frac := x[v] - math.Floor(x[v])
		dist := math.Min(frac, 1-frac)
		if dist > bestDist {
			best, bestDist, bestFrac = v, dist, frac
		}
	}
	return best, bestFrac
}

func roundIntegers(x []float64, integer []int) []float64 {
	out := append([]float64(nil), x...)
	for _, v := range integer {
		out[v] = math.Round(out[v])
	}
	return out
}

func violatedCuts(sep Separator, x []float64) []Constraint {
	if sep == nil {
		return nil
	}
	var out []Constraint
	for _, c := range sep(x) {
		if c.Violation(x) > cutTol {
			out = append(out, c)
		}
	}
	return out
}

func appendBound(bounds []Constraint, v int, sense Sense, rhs float64) []Constraint {
	out := make([]Constraint, len(bounds), len(bounds)+1)
	copy(out, bounds)
	return append(out, Constraint{Vars: []int{v}, Coefs: []float64{1}, Sense: sense, RHS: rhs})
}
