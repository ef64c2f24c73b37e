package services

import (
	"context"
	"errors"
	"math"
	"supply-chain-optimizer/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeTransportationSinglePair(t *testing.T) {
	sol, err := OptimizeTransportation(context.Background(), TransportationProblem{
		Supplies: []float64{10},
		Demands:  []float64{7},
		Costs:    domain.CostMatrix{{3}},
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusOptimal, sol.Status)
	assert.InDelta(t, 7, sol.Flows[0][0], 1e-9)
	assert.InDelta(t, 21, sol.TotalCost, 1e-9)
}

func TestOptimizeTransportationBalanced(t *testing.T) {
	sol, err := OptimizeTransportation(context.Background(), TransportationProblem{
		Supplies: []float64{20, 30},
		Demands:  []float64{10, 25, 15},
		Costs: domain.CostMatrix{
			{8, 6, 10},
			{9, 12, 13},
		},
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusOptimal, sol.Status)
	assert.InDelta(t, 465, sol.TotalCost, 1e-6)

	for i, s := range []float64{20, 30} {
		assert.LessOrEqual(t, sol.ShippedFrom(i), s+1e-9)
	}
	for j, d := range []float64{10, 25, 15} {
		assert.GreaterOrEqual(t, sol.ReceivedAt(j), d-1e-9)
	}
	for _, row := range sol.Flows {
		for _, f := range row {
			assert.GreaterOrEqual(t, f, 0.0)
		}
	}
}

func TestOptimizeTransportationPrefersCheapLanes(t *testing.T) {
	sol, err := OptimizeTransportation(context.Background(), TransportationProblem{
		Supplies: []float64{5, 5},
		Demands:  []float64{5, 5},
		Costs: domain.CostMatrix{
			{1, 100},
			{100, 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusOptimal, sol.Status)
	assert.InDelta(t, 10, sol.TotalCost, 1e-9)
	assert.InDelta(t, 5, sol.Flows[0][0], 1e-9)
	assert.InDelta(t, 5, sol.Flows[1][1], 1e-9)
}

func TestOptimizeTransportationDistanceCosts(t *testing.T) {
	sol, err := OptimizeTransportation(context.Background(), TransportationProblem{
		Origins:      []domain.Location{domain.NewLocation(0, 0)},
		Destinations: []domain.Location{domain.NewLocation(3, 4), domain.NewLocation(0, 1)},
		Supplies:     []float64{10},
		Demands:      []float64{2, 3},
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusOptimal, sol.Status)
	assert.InDelta(t, 2*5+3*1, sol.TotalCost, 1e-9)
}

func TestOptimizeTransportationShortSupply(t *testing.T) {
	sol, err := OptimizeTransportation(context.Background(), TransportationProblem{
		Supplies: []float64{5},
		Demands:  []float64{3, 4},
		Costs:    domain.CostMatrix{{1, 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInfeasible, sol.Status)
	assert.Nil(t, sol.Flows)
}

func TestOptimizeTransportationInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		p    TransportationProblem
	}{
		{name: "no origins", p: TransportationProblem{Demands: []float64{1}}},
		{name: "cost rows", p: TransportationProblem{Supplies: []float64{1, 1}, Demands: []float64{1}, Costs: domain.CostMatrix{{1}}}},
		{name: "cost columns", p: TransportationProblem{Supplies: []float64{1}, Demands: []float64{1, 1}, Costs: domain.CostMatrix{{1}}}},
		{name: "negative supply", p: TransportationProblem{Supplies: []float64{-1}, Demands: []float64{0}, Costs: domain.CostMatrix{{1}}}},
		{name: "nan demand", p: TransportationProblem{Supplies: []float64{1}, Demands: []float64{math.NaN()}, Costs: domain.CostMatrix{{1}}}},
		{name: "negative cost", p: TransportationProblem{Supplies: []float64{1}, Demands: []float64{1}, Costs: domain.CostMatrix{{-2}}}},
		{name: "origins without costs", p: TransportationProblem{Supplies: []float64{1}, Demands: []float64{1}}},
		{name: "origins mismatch with costs", p: TransportationProblem{
			Origins:  []domain.Location{domain.NewLocation(0, 0), domain.NewLocation(1, 1)},
			Supplies: []float64{1}, Demands: []float64{1}, Costs: domain.CostMatrix{{1}},
		}},
		{name: "destinations mismatch with costs", p: TransportationProblem{
			Destinations: []domain.Location{domain.NewLocation(0, 0)},
			Supplies:     []float64{1}, Demands: []float64{1, 1}, Costs: domain.CostMatrix{{1, 1}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OptimizeTransportation(context.Background(), tt.p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidParameter), "err = %v", err)
		})
	}
}
