package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAdd(t *testing.T, m *Model, c Constraint) {
	t.Helper()
	require.NoError(t, m.AddConstraint(c))
}

func TestSolveLPOptimal(t *testing.T) {
	// max x + y  s.t.  x + 2y <= 4,  3x + y <= 6
	m := NewModel()
	x := m.AddVar(-1)
	y := m.AddVar(-1)
	mustAdd(t, m, Constraint{Vars: []int{x, y}, Coefs: []float64{1, 2}, Sense: LessEqual, RHS: 4})
	mustAdd(t, m, Constraint{Vars: []int{x, y}, Coefs: []float64{3, 1}, Sense: LessEqual, RHS: 6})

	res, err := SolveLP(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	assert.InDelta(t, -2.8, res.Objective, 1e-7)
	assert.InDelta(t, 1.6, res.X[x], 1e-7)
	assert.InDelta(t, 1.2, res.X[y], 1e-7)
	assert.True(t, m.Feasible(res.X, 1e-7))
}

func TestSolveLPEqualityAndGreaterEqual(t *testing.T) {
	// min 2x + 3y  s.t.  x + y == 10,  x >= 2,  y >= 3
	m := NewModel()
	x := m.AddVar(2)
	y := m.AddVar(3)
	mustAdd(t, m, Constraint{Vars: []int{x, y}, Coefs: []float64{1, 1}, Sense: Equal, RHS: 10})
	mustAdd(t, m, Constraint{Vars: []int{x}, Coefs: []float64{1}, Sense: GreaterEqual, RHS: 2})
	mustAdd(t, m, Constraint{Vars: []int{y}, Coefs: []float64{1}, Sense: GreaterEqual, RHS: 3})

	res, err := SolveLP(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	assert.InDelta(t, 7, res.X[x], 1e-7)
	assert.InDelta(t, 3, res.X[y], 1e-7)
	assert.InDelta(t, 23, res.Objective, 1e-7)
}

func TestSolveLPInfeasible(t *testing.T) {
	m := NewModel()
	x := m.AddVar(1)
	mustAdd(t, m, Constraint{Vars: []int{x}, Coefs: []float64{1}, Sense: GreaterEqual, RHS: 5})
	mustAdd(t, m, Constraint{Vars: []int{x}, Coefs: []float64{1}, Sense: LessEqual, RHS: 2})

	res, err := SolveLP(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, Infeasible, res.Status)
	assert.Nil(t, res.X)
}

func TestSolveLPUnbounded(t *testing.T) {
	m := NewModel()
	x := m.AddVar(-1)
	y := m.AddVar(0)
	mustAdd(t, m, Constraint{Vars: []int{x, y}, Coefs: []float64{1, -1}, Sense: LessEqual, RHS: 1})

	res, err := SolveLP(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, Unbounded, res.Status)
}

func TestSolveLPUnconstrainedVariables(t *testing.T) {
	m := NewModel()
	m.AddVar(3)
	res, err := SolveLP(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	assert.Equal(t, []float64{0}, res.X)

	m.AddVar(-1)
	res, err = SolveLP(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, Unbounded, res.Status)
}

func TestSolveLPContextDone(t *testing.T) {
	m := NewModel()
	m.AddVar(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := SolveLP(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, Cancelled, res.Status)
}

func TestSolveLPDeadlinePassed(t *testing.T) {
	m := NewModel()
	m.AddVar(1)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	res, err := SolveLP(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, TimeLimit, res.Status)
}

func TestStandardFormEqualitiesHaveNoSlack(t *testing.T) {
	// x + y == 1,  y + z == 1,  x + 2y + z == 2 (the sum of the first two)
	m := NewModel()
	x := m.AddVar(1)
	y := m.AddVar(3)
	z := m.AddVar(1)
	mustAdd(t, m, Constraint{Vars: []int{x, y}, Coefs: []float64{1, 1}, Sense: Equal, RHS: 1})
	mustAdd(t, m, Constraint{Vars: []int{y, z}, Coefs: []float64{1, 1}, Sense: Equal, RHS: 1})
	mustAdd(t, m, Constraint{Vars: []int{x, y, z}, Coefs: []float64{1, 2, 1}, Sense: Equal, RHS: 2})

	sf := newStandardForm(m)
	assert.Equal(t, 2, sf.rows)
	assert.Equal(t, 3, sf.cols)

	res, err := SolveLP(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	assert.InDelta(t, 2, res.Objective, 1e-7)
	assert.True(t, m.Feasible(res.X, 1e-7))
}

func TestSolveLPContradictoryEqualities(t *testing.T) {
	m := NewModel()
	x := m.AddVar(1)
	y := m.AddVar(1)
	mustAdd(t, m, Constraint{Vars: []int{x, y}, Coefs: []float64{1, 1}, Sense: Equal, RHS: 1})
	mustAdd(t, m, Constraint{Vars: []int{x, y}, Coefs: []float64{2, 2}, Sense: Equal, RHS: 3})

	res, err := SolveLP(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, Infeasible, res.Status)
}

func TestSolveLPAssignmentWithAllDegreeRows(t *testing.T) {
	// Every row and column of a 4x4 assignment sums to 1. The 8 rows have
	// rank 7, which the simplex only accepts once one is dropped.
	costs := [][]float64{
		{4, 1, 3, 9},
		{2, 0, 5, 8},
		{3, 2, 2, 7},
		{6, 4, 3, 1},
	}
	m := NewModel()
	vars := make([][]int, 4)
	for i := range vars {
		vars[i] = make([]int, 4)
		for j := range vars[i] {
			vars[i][j] = m.AddVar(costs[i][j])
		}
	}
	for i := 0; i < 4; i++ {
		row := Constraint{Sense: Equal, RHS: 1}
		col := Constraint{Sense: Equal, RHS: 1}
		for j := 0; j < 4; j++ {
			row.Vars, row.Coefs = append(row.Vars, vars[i][j]), append(row.Coefs, 1)
			col.Vars, col.Coefs = append(col.Vars, vars[j][i]), append(col.Coefs, 1)
		}
		mustAdd(t, m, row)
		mustAdd(t, m, col)
	}

	res, err := SolveLP(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	// 0->1, 1->0, 2->2, 3->3
	assert.InDelta(t, 1+2+2+1, res.Objective, 1e-7)
	assert.True(t, m.Feasible(res.X, 1e-7))
}

func TestPresolveFixesForcedVariables(t *testing.T) {
	// x + y + z <= 0 forces all three to zero; w >= 2 and w <= 2 fix w.
	m := NewModel()
	x := m.AddVar(-1)
	y := m.AddVar(-1)
	z := m.AddVar(-1)
	w := m.AddVar(1)
	mustAdd(t, m, Constraint{Vars: []int{x, y, z}, Coefs: []float64{1, 1, 1}, Sense: LessEqual, RHS: 0})
	mustAdd(t, m, Constraint{Vars: []int{w}, Coefs: []float64{1}, Sense: GreaterEqual, RHS: 2})
	mustAdd(t, m, Constraint{Vars: []int{w}, Coefs: []float64{1}, Sense: LessEqual, RHS: 2})

	sf := newStandardForm(m)
	assert.Zero(t, sf.rows)

	res, err := SolveLP(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	assert.Equal(t, []float64{0, 0, 0, 2}, res.X)
	assert.InDelta(t, 2, res.Objective, 1e-12)
}

func TestSolveLPBoundsFromNegativeCoefficients(t *testing.T) {
	// -x >= -3 is x <= 3; maximise x.
	m := NewModel()
	x := m.AddVar(-1)
	y := m.AddVar(1)
	mustAdd(t, m, Constraint{Vars: []int{x}, Coefs: []float64{-1}, Sense: GreaterEqual, RHS: -3})
	mustAdd(t, m, Constraint{Vars: []int{x, y}, Coefs: []float64{1, 1}, Sense: GreaterEqual, RHS: 4})

	res, err := SolveLP(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	assert.InDelta(t, 3, res.X[x], 1e-7)
	assert.InDelta(t, 1, res.X[y], 1e-7)
}

func TestAddConstraintRejectsUnknownVariable(t *testing.T) {
	m := NewModel()
	m.AddVar(1)
	err := m.AddConstraint(Constraint{Vars: []int{3}, Coefs: []float64{1}, Sense: LessEqual, RHS: 1})
	require.ErrorIs(t, err, ErrBadConstraint)

	err = m.AddConstraint(Constraint{Vars: []int{0}, Coefs: []float64{1, 2}})
	require.ErrorIs(t, err, ErrBadConstraint)
}

func TestSolveLPEmptyModel(t *testing.T) {
	_, err := SolveLP(context.Background(), NewModel())
	require.ErrorIs(t, err, ErrEmptyModel)
}
