package solver

import (
	"math"
)

const boundTol = 1e-9

type term struct {
	v int
	a float64
}

type presolvedRow struct {
	terms []term
	sense Sense
	rhs   float64
}

// presolved is a Model after single-variable rows were turned into bounds
// and rows that force their variables were eliminated. Rows left over have
// at least two variables that are not fixed.
type presolved struct {
	lo, hi     []float64
	rows       []presolvedRow
	infeasible bool
}

func presolve(m *Model) presolved {
	p := presolved{
		lo: make([]float64, m.NumVars()),
		hi: make([]float64, m.NumVars()),
	}
	for v := range p.hi {
		p.hi[v] = math.Inf(1)
	}

	pending := make([]presolvedRow, 0, len(m.constraints))
	for _, c := range m.constraints {
		pending = append(pending, presolvedRow{terms: mergeTerms(c), sense: c.Sense, rhs: c.RHS})
	}

	// Every pass that changes anything drops a row, so this terminates.
	for changed := true; changed; {
		changed = false
		kept := pending[:0]
		for _, r := range pending {
			keep, feasible := p.reduce(r)
			if !feasible {
				p.infeasible = true
				return p
			}
			if keep {
				kept = append(kept, r)
			} else {
				changed = true
			}
		}
		pending = kept
	}
	p.rows = pending
	return p
}

func (p *presolved) fixed(v int) bool {
	return p.hi[v]-p.lo[v] <= boundTol
}

// reduce folds fixed variables into r and reports whether r must stay in
// the problem and whether it can still be satisfied.
func (p *presolved) reduce(r presolvedRow) (keep, feasible bool) {
	rhs := r.rhs
	var free []term
	for _, t := range r.terms {
		if p.fixed(t.v) {
			rhs -= t.a * p.lo[t.v]
			continue
		}
		free = append(free, t)
	}

	switch len(free) {
	case 0:
		return false, satisfied(0, r.sense, rhs)
	case 1:
		return false, p.tighten(free[0].v, free[0].a, r.sense, rhs)
	}

	// Over x' = x - lo >= 0 a row whose coefficients share a sign can only
	// be met with every x' at zero once its right-hand side reaches zero.
	sign := math.Copysign(1, free[0].a)
	for _, t := range free {
		rhs -= t.a * p.lo[t.v]
		if math.Copysign(1, t.a) != sign {
			return true, true
		}
	}
	sense := r.sense
	if sign < 0 {
		sense, rhs = flip(sense), -rhs
	}
	tol := boundTol * max(1, math.Abs(r.rhs))
	switch {
	case sense == GreaterEqual && rhs <= 0:
		return false, true
	case sense == GreaterEqual:
		return true, true
	case rhs < -tol:
		return false, false
	case rhs <= tol:
		for _, t := range free {
			p.hi[t.v] = p.lo[t.v]
		}
		return false, true
	}
	return true, true
}

// tighten applies a*x[v] (sense) rhs to the bounds of v.
func (p *presolved) tighten(v int, a float64, sense Sense, rhs float64) bool {
	bound := rhs / a
	if a < 0 {
		sense = flip(sense)
	}
	switch sense {
	case LessEqual:
		p.hi[v] = min(p.hi[v], bound)
	case GreaterEqual:
		p.lo[v] = max(p.lo[v], bound)
	default:
		p.lo[v] = max(p.lo[v], bound)
		p.hi[v] = min(p.hi[v], bound)
	}
	if p.hi[v] < p.lo[v] {
		if p.lo[v]-p.hi[v] > boundTol*max(1, math.Abs(p.lo[v])) {
			return false
		}
		p.hi[v] = p.lo[v]
	}
	return true
}

func satisfied(lhs float64, sense Sense, rhs float64) bool {
	tol := boundTol * max(1, math.Abs(rhs))
	switch sense {
	case LessEqual:
		return lhs <= rhs+tol
	case GreaterEqual:
		return lhs >= rhs-tol
	default:
		return math.Abs(lhs-rhs) <= tol
	}
}

func flip(s Sense) Sense {
	switch s {
	case LessEqual:
		return GreaterEqual
	case GreaterEqual:
		return LessEqual
	default:
		return s
	}
}

// mergeTerms sums repeated variables of c and drops zero coefficients.
func mergeTerms(c Constraint) []term {
	out := make([]term, 0, len(c.Vars))
	pos := make(map[int]int, len(c.Vars))
	for k, v := range c.Vars {
		if i, ok := pos[v]; ok {
			out[i].a += c.Coefs[k]
			continue
		}
		pos[v] = len(out)
		out = append(out, term{v: v, a: c.Coefs[k]})
	}
	kept := out[:0]
	for _, t := range out {
		if t.a != 0 {
			kept = append(kept, t)
		}
	}
	return kept
}

// independentRows drops equality rows that are linear combinations of
// earlier ones. It reports false when a dropped row contradicts the others.
func independentRows(rows []denseRow) ([]denseRow, bool) {
	type pivotRow struct {
		a     []float64
		rhs   float64
		pivot int
	}
	var basis []pivotRow
	kept := rows[:0]

	for _, r := range rows {
		a := append([]float64(nil), r.a...)
		rhs := r.rhs
		scale := 1.0
		for _, v := range a {
			scale = max(scale, math.Abs(v))
		}
		for _, b := range basis {
			f := a[b.pivot]
			if f == 0 {
				continue
			}
			for k := range a {
				a[k] -= f * b.a[k]
			}
			rhs -= f * b.rhs
		}

		pivot, best := -1, 1e-9*scale
		for k, v := range a {
			if math.Abs(v) > best {
				pivot, best = k, math.Abs(v)
			}
		}
		if pivot < 0 {
			if math.Abs(rhs) > 1e-7*max(scale, math.Abs(r.rhs)) {
				return nil, false
			}
			continue
		}

		inv := 1 / a[pivot]
		for k := range a {
			a[k] *= inv
		}
		basis = append(basis, pivotRow{a: a, rhs: rhs * inv, pivot: pivot})
		kept = append(kept, r)
	}
	return kept, true
}
