// Package solver is a small linear and mixed-integer programming toolkit.
//
// Models are described as a minimisation objective plus linear constraints
// over non-negative variables. LP relaxations are solved with gonum's dense
// simplex; integrality is enforced by depth-first branch-and-bound with
// optional lazily separated constraints (cuts).
//
// Every Solve call builds its own standard-form problem, so a Model can be
// shared read-only between goroutines and nothing is retained between calls.
package solver

import (
	"errors"
	"fmt"
)

// Sense is the relation of a constraint's left-hand side to its right-hand side.
type Sense int

const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "=="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// Constraint is the linear relation Σ Coefs[k]*x[Vars[k]] (Sense) RHS.
type Constraint struct {
	Vars  []int
	Coefs []float64
	Sense Sense
	RHS   float64
}

// Activity evaluates the left-hand side at x.
func (c Constraint) Activity(x []float64) float64 {
	var lhs float64
	for k, v := range c.Vars {
		lhs += c.Coefs[k] * x[v]
	}
	return lhs
}

// Violation returns how far x is from satisfying c (0 when satisfied).
func (c Constraint) Violation(x []float64) float64 {
	lhs := c.Activity(x)
	switch c.Sense {
	case LessEqual:
		return max(0, lhs-c.RHS)
	case GreaterEqual:
		return max(0, c.RHS-lhs)
	default:
		if lhs > c.RHS {
			return lhs - c.RHS
		}
		return c.RHS - lhs
	}
}

var (
	ErrBadConstraint = errors.New("solver: malformed constraint")
	ErrEmptyModel    = errors.New("solver: model has no variables")
)

// Model is a minimisation problem over variables x >= 0.
type Model struct {
	cost        []float64
	constraints []Constraint
}

func NewModel() *Model {
	return &Model{}
}

// AddVar appends a non-negative variable with the given objective
// coefficient and returns its index.
func (m *Model) AddVar(cost float64) int {
	m.cost = append(m.cost, cost)
	return len(m.cost) - 1
}

// AddConstraint appends c after checking it only references known variables.
func (m *Model) AddConstraint(c Constraint) error {
	if len(c.Vars) != len(c.Coefs) {
		return fmt.Errorf("add constraint: %d vars but %d coefficients: %w", len(c.Vars), len(c.Coefs), ErrBadConstraint)
	}
	for _, v := range c.Vars {
		if v < 0 || v >= len(m.cost) {
			return fmt.Errorf("add constraint: variable %d out of range [0,%d): %w", v, len(m.cost), ErrBadConstraint)
		}
	}
	m.constraints = append(m.constraints, c)
	return nil
}

func (m *Model) NumVars() int { return len(m.cost) }

// Objective evaluates the objective at x.
func (m *Model) Objective(x []float64) float64 {
	var f float64
	for i, c := range m.cost {
		f += c * x[i]
	}
	return f
}

// Feasible reports whether x satisfies every constraint and the sign
// restrictions within tol.
func (m *Model) Feasible(x []float64, tol float64) bool {
	if len(x) != len(m.cost) {
		return false
	}
	for _, v := range x {
		if v < -tol {
			return false
		}
	}
	for _, c := range m.constraints {
		if c.Violation(x) > tol {
			return false
		}
	}
	return true
}

// with returns a copy of m extended by extra constraints. Constraint values
// are never mutated, so the backing data can be shared.
func (m *Model) with(extra ...[]Constraint) *Model {
	total := len(m.constraints)
	for _, e := range extra {
		total += len(e)
	}
	cs := make([]Constraint, 0, total)
	cs = append(cs, m.constraints...)
	for _, e := range extra {
		cs = append(cs, e...)
	}
	return &Model{cost: m.cost, constraints: cs}
}
