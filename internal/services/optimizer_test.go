package services

import (
	"context"
	"errors"
	"math"
	"supply-chain-optimizer/internal/domain"
	"supply-chain-optimizer/internal/platform/obs"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memJournal struct {
	mu   sync.Mutex
	recs []domain.RunRecord
	err  error
}

func (j *memJournal) Record(_ context.Context, rec domain.RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.recs = append(j.recs, rec)
	return nil
}

func (j *memJournal) ListRecent(_ context.Context, limit int) ([]domain.RunRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := []domain.RunRecord{}
	for i := len(j.recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.recs[i])
	}
	return out, nil
}

func TestOptimizerDefaults(t *testing.T) {
	o := NewOptimizer(Options{}, nil, nil, nil)
	opts := o.Options()
	assert.Equal(t, DefaultSolveTimeout, opts.SolveTimeout)
	assert.Equal(t, DefaultMaxRoutingNodes, opts.MaxRoutingNodes)
	assert.Equal(t, "euclidean", string(opts.Metric))
}

func TestOptimizerJournalsEveryCall(t *testing.T) {
	ctx := context.Background()
	j := &memJournal{}
	o := NewOptimizer(Options{}, nil, j, obs.NewMetrics())

	policy, err := o.Inventory(ctx, InventoryRequest{Demand: []float64{10, 10, 10, 10}, HoldingCost: 2, OrderingCost: 50, LeadTime: 2})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(500), policy.EOQ, 1e-9)

	routes, err := o.Routes(ctx, RoutesRequest{
		Locations: []domain.Location{
			domain.NewLocation(0, 0).WithDemand(0),
			domain.NewLocation(1, 0).WithDemand(5),
			domain.NewLocation(0, 1).WithDemand(5),
		},
		VehicleCapacity: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOptimal, routes.Status)
	assert.Equal(t, 10.0, routes.TotalLoad)

	_, err = o.Clusters(ctx, ClustersRequest{Locations: twoBlobs(), K: 0})
	require.ErrorIs(t, err, domain.ErrInvalidParameter)

	runs, err := o.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	assert.Equal(t, "clusters", runs[0].Operation)
	assert.Equal(t, domain.RunStatusError, runs[0].Status)
	assert.Contains(t, runs[0].Error, "invalid parameter")

	assert.Equal(t, "routes", runs[1].Operation)
	assert.Equal(t, domain.StatusOptimal, runs[1].Status)
	assert.InDelta(t, 2+math.Sqrt2, runs[1].Objective, 1e-9)

	assert.Equal(t, "inventory", runs[2].Operation)
	assert.InDelta(t, math.Sqrt(500), runs[2].Objective, 1e-9)
}

func TestOptimizerJournalFailureIsLoggedOnly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	j := &memJournal{err: errors.New("db down")}
	o := NewOptimizer(Options{}, zap.New(core), j, nil)

	_, err := o.Inventory(context.Background(), InventoryRequest{Demand: []float64{1}, HoldingCost: 1, OrderingCost: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("journal record failed").Len())
}

func TestOptimizerFacilityDefaultsDemandToOne(t *testing.T) {
	o := NewOptimizer(Options{}, nil, nil, nil)

	res, err := o.FacilityLocation(context.Background(), FacilityRequest{
		Locations: []domain.Location{
			domain.NewLocation(0, 0),
			domain.NewLocation(4, 0).WithDemand(3),
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 3, res.OptimalLocation.Lat, 1e-12)
	assert.InDelta(t, 4, res.TotalDemand, 1e-12)
}

func TestOptimizerRoutingNodeLimit(t *testing.T) {
	o := NewOptimizer(Options{MaxRoutingNodes: 2}, nil, nil, nil)

	_, err := o.Routes(context.Background(), RoutesRequest{
		Locations:       twoBlobs()[:3],
		VehicleCapacity: 1,
	})
	require.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestOptimizerHonoursCallerDeadline(t *testing.T) {
	o := NewOptimizer(Options{}, nil, nil, nil)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	sol, err := o.Transportation(ctx, TransportationProblem{
		Supplies: []float64{10},
		Demands:  []float64{5},
		Costs:    domain.CostMatrix{{1}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTimeout, sol.Status)
	assert.Nil(t, sol.Flows)
}

func TestOptimizerListRunsWithoutJournal(t *testing.T) {
	o := NewOptimizer(Options{}, nil, nil, nil)
	runs, err := o.ListRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
