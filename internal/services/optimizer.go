package services

import (
	"context"
	"fmt"
	"supply-chain-optimizer/internal/domain"
	"supply-chain-optimizer/internal/geo"
	"supply-chain-optimizer/internal/platform/obs"
	"supply-chain-optimizer/internal/ports"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultSolveTimeout    = 30 * time.Second
	DefaultMaxRoutingNodes = 12

	journalTimeout = 2 * time.Second
)

// Options configures an Optimizer. Zero values select the defaults.
type Options struct {
	// SolveTimeout bounds every call on top of the caller's context.
	SolveTimeout time.Duration
	Cluster      ClusterOptions
	// MaxRoutingNodes rejects larger routing instances, depot included.
	MaxRoutingNodes int
	// Metric is used wherever locations become distances.
	Metric geo.Metric
}

func (o Options) withDefaults() Options {
	if o.SolveTimeout <= 0 {
		o.SolveTimeout = DefaultSolveTimeout
	}
	if o.MaxRoutingNodes <= 0 {
		o.MaxRoutingNodes = DefaultMaxRoutingNodes
	}
	if o.Metric == "" {
		o.Metric = geo.Euclidean
	}
	return o
}

// Optimizer is the single entry point for every optimisation operation.
// It validates and dispatches requests, applies the solve timeout, and logs,
// times and journals each call. It holds no per-call state and is safe for
// concurrent use.
type Optimizer struct {
	opts    Options
	logger  *zap.Logger
	journal ports.RunJournal
	metrics *obs.Metrics
}

// NewOptimizer builds an Optimizer. logger, journal and metrics may be nil.
func NewOptimizer(opts Options, logger *zap.Logger, journal ports.RunJournal, metrics *obs.Metrics) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{
		opts:    opts.withDefaults(),
		logger:  logger,
		journal: journal,
		metrics: metrics,
	}
}

// Options returns the effective options.
func (o *Optimizer) Options() Options { return o.opts }

type InventoryRequest struct {
	Demand       []float64
	HoldingCost  float64
	OrderingCost float64
	LeadTime     int
}

func (o *Optimizer) Inventory(ctx context.Context, req InventoryRequest) (policy *domain.InventoryPolicy, err error) {
	done := o.track(ctx, "inventory")
	defer func() {
		if policy != nil {
			done(domain.StatusOptimal, policy.EOQ, &err)
			return
		}
		done("", 0, &err)
	}()

	return ComputeInventoryPolicy(req.Demand, req.HoldingCost, req.OrderingCost, req.LeadTime)
}

// RoutesRequest asks for a single-vehicle tour. Locations[0] is the depot.
// When Demands is nil each location's own demand is used, missing ones
// counting as 0.
type RoutesRequest struct {
	Locations       []domain.Location
	Demands         []float64
	VehicleCapacity float64
}

func (o *Optimizer) Routes(ctx context.Context, req RoutesRequest) (sol *domain.RoutingSolution, err error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.SolveTimeout)
	defer cancel()

	done := o.track(ctx, "routes")
	defer func() {
		if sol != nil {
			done(sol.Status, sol.TotalDistance, &err)
			return
		}
		done("", 0, &err)
	}()

	demands := req.Demands
	if demands == nil {
		demands = locationDemands(req.Locations, 0)
	}

	return OptimizeRoutes(ctx, req.Locations, demands, req.VehicleCapacity, RoutingOptions{
		Metric:       o.opts.Metric,
		MaxLocations: o.opts.MaxRoutingNodes,
	})
}

// Transportation solves p. An empty p.Metric selects the optimizer's metric.
func (o *Optimizer) Transportation(ctx context.Context, p TransportationProblem) (sol *domain.FlowSolution, err error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.SolveTimeout)
	defer cancel()

	done := o.track(ctx, "transportation")
	defer func() {
		if sol != nil {
			done(sol.Status, sol.TotalCost, &err)
			return
		}
		done("", 0, &err)
	}()

	if p.Metric == "" {
		p.Metric = o.opts.Metric
	}
	return OptimizeTransportation(ctx, p)
}

type ClustersRequest struct {
	Locations []domain.Location
	K         int
}

func (o *Optimizer) Clusters(ctx context.Context, req ClustersRequest) (res *domain.ClusterAssignment, err error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.SolveTimeout)
	defer cancel()

	done := o.track(ctx, "clusters")
	defer func() {
		if res != nil {
			done(domain.StatusOptimal, res.Inertia, &err)
			return
		}
		done("", 0, &err)
	}()

	return ClusterLocations(ctx, req.Locations, req.K, o.opts.Cluster)
}

// FacilityRequest places one facility. When Demands is nil each location's
// own demand is used, missing ones counting as 1.
type FacilityRequest struct {
	Locations []domain.Location
	Demands   []float64
}

func (o *Optimizer) FacilityLocation(ctx context.Context, req FacilityRequest) (res *domain.FacilityPlacement, err error) {
	done := o.track(ctx, "facility_location")
	defer func() {
		if res != nil {
			done(domain.StatusOptimal, res.TotalWeightedDistance, &err)
			return
		}
		done("", 0, &err)
	}()

	demands := req.Demands
	if demands == nil {
		demands = locationDemands(req.Locations, 1)
	}
	return OptimizeFacilityLocation(req.Locations, demands, o.opts.Metric)
}

// ListRuns returns the newest journal entries, or none without a journal.
func (o *Optimizer) ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if o.journal == nil {
		return []domain.RunRecord{}, nil
	}
	if limit <= 0 {
		return nil, fmt.Errorf("list runs: limit %d must be > 0: %w", limit, domain.ErrInvalidParameter)
	}
	runs, err := o.journal.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func locationDemands(locs []domain.Location, fallback float64) []float64 {
	out := make([]float64, len(locs))
	for i, l := range locs {
		out[i] = l.DemandOr(fallback)
	}
	return out
}

// track starts timing op. The returned func logs the outcome, feeds the
// metrics and appends a journal entry. Journal failures are logged only.
func (o *Optimizer) track(ctx context.Context, op string) func(status domain.SolveStatus, objective float64, errp *error) {
	stop := obs.Time(ctx, o.logger, op)

	return func(status domain.SolveStatus, objective float64, errp *error) {
		dur := stop(errp)

		rec := domain.RunRecord{
			Operation:  op,
			Status:     status,
			Objective:  objective,
			DurationMS: dur.Milliseconds(),
		}
		if errp != nil && *errp != nil {
			rec.Status = domain.RunStatusError
			rec.Error = (*errp).Error()
		}
		o.metrics.ObserveSolve(op, string(rec.Status), dur)

		if o.journal == nil {
			return
		}
		jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
		defer cancel()
		if err := o.journal.Record(jctx, rec); err != nil {
			o.logger.Warn("journal record failed",
				zap.String("req_id", obs.RequestID(ctx)),
				zap.String("op", op),
				zap.Error(err),
			)
		}
	}
}
