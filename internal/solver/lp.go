package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Status is the outcome of a solve.
type Status int

const (
	Optimal Status = iota
	Infeasible
	Unbounded
	TimeLimit
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	case TimeLimit:
		return "time_limit"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the answer of an LP solve. X is set only when Status is Optimal.
type Result struct {
	Status    Status
	Objective float64
	X         []float64
}

// ErrNumerical wraps simplex failures that say nothing about the instance
// (singular bases, Bland's rule breakdown).
var ErrNumerical = errors.New("solver: numerical failure")

const simplexTol = 1e-10

// SolveLP solves the LP relaxation of m. The simplex runs on the calling
// goroutine and cannot be interrupted, so ctx is only checked before it
// starts; a solve that begins before the deadline runs to completion.
func SolveLP(ctx context.Context, m *Model) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Status: statusFromContext(err)}, nil
	}
	return solveLP(m)
}

func statusFromContext(err error) Status {
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeLimit
	}
	return Cancelled
}

func solveLP(m *Model) (Result, error) {
	if m.NumVars() == 0 {
		return Result{}, ErrEmptyModel
	}

	sf := newStandardForm(m)
	switch {
	case sf.infeasible:
		return Result{Status: Infeasible}, nil
	case sf.unbounded:
		return Result{Status: Unbounded}, nil
	}

	z, err := sf.simplex(false)
	if err != nil && !errors.Is(err, lp.ErrInfeasible) && !errors.Is(err, lp.ErrUnbounded) {
		// Another column order starts from another basis, which usually
		// steps around a singular pivot.
		z, err = sf.simplex(true)
	}
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return Result{Status: Infeasible}, nil
	case errors.Is(err, lp.ErrUnbounded):
		return Result{Status: Unbounded}, nil
	case err != nil:
		return Result{}, fmt.Errorf("simplex: %w: %w", ErrNumerical, err)
	}

	x := sf.expand(z)
	return Result{Status: Optimal, Objective: m.Objective(x), X: x}, nil
}

// standardForm is min cᵀz s.t. Az = b, z >= 0, b >= 0, built from a
// presolved Model. Structural columns are shifted by their lower bound,
// inequality rows own a slack column and equality rows have none.
type standardForm struct {
	rows, cols int
	a          []float64
	b          []float64
	c          []float64
	// structural maps the leading columns to model variables.
	structural []int
	// base holds every variable's value when all columns are zero.
	base       []float64
	infeasible bool
	unbounded  bool
}

type denseRow struct {
	a     []float64
	sense Sense
	rhs   float64
}

func newStandardForm(m *Model) standardForm {
	p := presolve(m)
	sf := standardForm{base: p.lo, infeasible: p.infeasible}
	if sf.infeasible {
		return sf
	}

	used := make([]bool, m.NumVars())
	for _, r := range p.rows {
		for _, t := range r.terms {
			if !p.fixed(t.v) {
				used[t.v] = true
			}
		}
	}
	col := make([]int, m.NumVars())
	for v := range used {
		col[v] = -1
		switch {
		case used[v]:
			col[v] = len(sf.structural)
			sf.structural = append(sf.structural, v)
		case p.fixed(v) || m.cost[v] >= 0:
		case math.IsInf(p.hi[v], 1):
			sf.unbounded = true
			return sf
		default:
			sf.base[v] = p.hi[v]
		}
	}

	nStruct := len(sf.structural)
	var eq, ineq []denseRow
	for _, r := range p.rows {
		d := denseRow{a: make([]float64, nStruct), sense: r.sense, rhs: r.rhs}
		for _, t := range r.terms {
			d.rhs -= t.a * p.lo[t.v]
			if col[t.v] >= 0 {
				d.a[col[t.v]] += t.a
			}
		}
		if d.sense == Equal {
			eq = append(eq, d)
		} else {
			ineq = append(ineq, d)
		}
	}
	for k, v := range sf.structural {
		if span := p.hi[v] - p.lo[v]; !math.IsInf(span, 1) {
			d := denseRow{a: make([]float64, nStruct), sense: LessEqual, rhs: span}
			d.a[k] = 1
			ineq = append(ineq, d)
		}
	}

	eq, ok := independentRows(eq)
	if !ok {
		sf.infeasible = true
		return sf
	}

	sf.rows = len(eq) + len(ineq)
	sf.cols = nStruct + len(ineq)
	sf.a = make([]float64, sf.rows*sf.cols)
	sf.b = make([]float64, sf.rows)
	sf.c = make([]float64, sf.cols)
	for k, v := range sf.structural {
		sf.c[k] = m.cost[v]
	}

	for r, d := range append(eq, ineq...) {
		sign := 1.0
		if d.rhs < 0 {
			sign = -1
		}
		base := r * sf.cols
		for k, a := range d.a {
			sf.a[base+k] = sign * a
		}
		if d.sense != Equal {
			slack := 1.0
			if d.sense == GreaterEqual {
				slack = -1
			}
			sf.a[base+nStruct+r-len(eq)] = sign * slack
		}
		sf.b[r] = sign * d.rhs
	}
	return sf
}

// simplex solves the standard form and returns z. With reversed set the
// structural columns are handed to gonum in reverse order.
func (sf standardForm) simplex(reversed bool) ([]float64, error) {
	z := make([]float64, sf.cols)
	if sf.rows == 0 {
		return z, nil
	}

	perm := make([]int, sf.cols)
	for j := range perm {
		perm[j] = j
	}
	if reversed {
		nStruct := len(sf.structural)
		for j := 0; j < nStruct; j++ {
			perm[j] = nStruct - 1 - j
		}
	}

	a := mat.NewDense(sf.rows, sf.cols, nil)
	c := make([]float64, sf.cols)
	for j, old := range perm {
		c[j] = sf.c[old]
		for r := 0; r < sf.rows; r++ {
			a.Set(r, j, sf.a[r*sf.cols+old])
		}
	}

	_, opt, err := lp.Simplex(c, a, sf.b, simplexTol, nil)
	if err != nil {
		return nil, err
	}
	for j, old := range perm {
		z[old] = opt[j]
	}
	return z, nil
}

// expand maps a standard-form solution back to model variables.
func (sf standardForm) expand(z []float64) []float64 {
	x := append([]float64(nil), sf.base...)
	for k, v := range sf.structural {
		x[v] += max(0, z[k])
	}
	return x
}
