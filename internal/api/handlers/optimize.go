package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"supply-chain-optimizer/internal/adapters/cache"
	"supply-chain-optimizer/internal/api/dto"
	"supply-chain-optimizer/internal/domain"
	"supply-chain-optimizer/internal/platform/obs"
	"supply-chain-optimizer/internal/ports"
	"supply-chain-optimizer/internal/services"

	"go.uber.org/zap"
)

// OptimizeHandler exposes the optimizer operations over HTTP. Results of
// completed solves are cached when Cache is set.
type OptimizeHandler struct {
	Optimizer *services.Optimizer
	Cache     ports.ResultCache
	Metrics   *obs.Metrics
	Logger    *zap.Logger
}

// serve is the shared request pipeline: method check, decode and validate,
// cache lookup, solve, cache store and response. solve returns the response
// body and the solver status.
func serve[Req any](
	h *OptimizeHandler,
	w http.ResponseWriter,
	r *http.Request,
	op, message string,
	solve func(ctx context.Context, req *Req) (any, domain.SolveStatus, error),
) {
	if !allowMethod(w, r, h.Logger, http.MethodPost) {
		return
	}

	var req Req
	if msg, ok := decodeBody(r, &req); !ok {
		writeError(w, r, h.Logger, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	key := h.cacheKey(op, &req)
	if cached, ok := h.lookup(ctx, op, key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, r, h.Logger, http.StatusOK, dto.Envelope{Message: message, Result: cached})
		return
	}

	result, status, err := solve(ctx, &req)
	if err != nil {
		code := statusForError(err)
		if code == http.StatusBadRequest {
			writeError(w, r, h.Logger, code, err.Error())
			return
		}
		h.Logger.Error("optimization failed",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.String("op", op),
			zap.Error(err),
		)
		writeError(w, r, h.Logger, code, http.StatusText(code))
		return
	}

	if status.Final() {
		h.store(ctx, op, key, result)
	}
	writeJSON(w, r, h.Logger, http.StatusOK, dto.Envelope{Message: message, Result: result})
}

func (h *OptimizeHandler) cacheKey(op string, req any) string {
	if h.Cache == nil {
		return ""
	}
	// Re-encoding the decoded request normalises whitespace and field order.
	payload, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	return cache.Key(op, payload)
}

func (h *OptimizeHandler) lookup(ctx context.Context, op, key string) (json.RawMessage, bool) {
	if key == "" {
		return nil, false
	}
	b, ok, err := h.Cache.Get(ctx, key)
	if err != nil {
		h.Metrics.ObserveCache(op, "error")
		h.Logger.Warn("result cache get failed", zap.String("op", op), zap.Error(err))
		return nil, false
	}
	if !ok {
		h.Metrics.ObserveCache(op, "miss")
		return nil, false
	}
	h.Metrics.ObserveCache(op, "hit")
	return json.RawMessage(b), true
}

func (h *OptimizeHandler) store(ctx context.Context, op, key string, result any) {
	if key == "" {
		return
	}
	b, err := json.Marshal(result)
	if err != nil {
		h.Logger.Warn("result cache encode failed", zap.String("op", op), zap.Error(err))
		return
	}
	if err := h.Cache.Put(ctx, key, b); err != nil {
		h.Logger.Warn("result cache put failed", zap.String("op", op), zap.Error(err))
	}
}

func (h *OptimizeHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "inventory", "Inventory optimization successful",
		func(ctx context.Context, req *dto.InventoryRequest) (any, domain.SolveStatus, error) {
			p, err := h.Optimizer.Inventory(ctx, services.InventoryRequest{
				Demand:       req.DemandData,
				HoldingCost:  req.HoldingCost,
				OrderingCost: req.OrderingCost,
				LeadTime:     req.LeadTime,
			})
			if err != nil {
				return nil, "", err
			}
			return p, domain.StatusOptimal, nil
		})
}

func (h *OptimizeHandler) Routes(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "routes", "Route optimization successful",
		func(ctx context.Context, req *dto.RouteRequest) (any, domain.SolveStatus, error) {
			sol, err := h.Optimizer.Routes(ctx, services.RoutesRequest{
				Locations:       dto.ToDomainLocations(req.Locations),
				VehicleCapacity: req.VehicleCapacity,
			})
			if err != nil {
				return nil, "", err
			}
			return dto.NewRouteResponse(sol), sol.Status, nil
		})
}

func (h *OptimizeHandler) Transportation(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "transportation", "Transportation optimization successful",
		func(ctx context.Context, req *dto.TransportationRequest) (any, domain.SolveStatus, error) {
			sol, err := h.Optimizer.Transportation(ctx, services.TransportationProblem{
				Origins:      dto.ToDomainLocations(req.Origins),
				Destinations: dto.ToDomainLocations(req.Destinations),
				Supplies:     req.Supplies,
				Demands:      req.Demands,
				Costs:        req.Costs,
			})
			if err != nil {
				return nil, "", err
			}
			return dto.NewTransportationResponse(sol), sol.Status, nil
		})
}

func (h *OptimizeHandler) Clusters(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "clusters", "Cluster analysis successful",
		func(ctx context.Context, req *dto.ClusterRequest) (any, domain.SolveStatus, error) {
			locs := dto.ToDomainLocations(req.Locations)
			res, err := h.Optimizer.Clusters(ctx, services.ClustersRequest{Locations: locs, K: req.NumClusters})
			if err != nil {
				return nil, "", err
			}
			return dto.NewClusterResponse(res, locs), domain.StatusOptimal, nil
		})
}

func (h *OptimizeHandler) WarehouseLocation(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "facility_location", "Warehouse location optimization successful",
		func(ctx context.Context, req *dto.WarehouseRequest) (any, domain.SolveStatus, error) {
			res, err := h.Optimizer.FacilityLocation(ctx, services.FacilityRequest{
				Locations: dto.ToDomainLocations(req.Locations),
			})
			if err != nil {
				return nil, "", err
			}
			return dto.NewWarehouseResponse(res), domain.StatusOptimal, nil
		})
}
