package api

import (
	"net/http"
	"supply-chain-optimizer/internal/api/handlers"
	"supply-chain-optimizer/internal/platform/obs"
	"supply-chain-optimizer/internal/ports"
	"supply-chain-optimizer/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// resultCache, metrics and logger may be nil.
func NewRouter(
	optimizer *services.Optimizer,
	resultCache ports.ResultCache,
	metrics *obs.Metrics,
	logger *zap.Logger,
) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	optHandler := &handlers.OptimizeHandler{
		Optimizer: optimizer,
		Cache:     resultCache,
		Metrics:   metrics,
		Logger:    logger,
	}
	runsHandler := &handlers.RunsHandler{Optimizer: optimizer, Logger: logger}

	mux.HandleFunc("/health", handlers.Health(logger))
	mux.HandleFunc("/optimize/inventory", optHandler.Inventory)
	mux.HandleFunc("/optimize/routes", optHandler.Routes)
	mux.HandleFunc("/optimize/transportation", optHandler.Transportation)
	mux.HandleFunc("/analyze/clusters", optHandler.Clusters)
	mux.HandleFunc("/optimize/warehouse-location", optHandler.WarehouseLocation)
	mux.HandleFunc("/runs", runsHandler.List)
	if metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}

	return loggingMiddleware(mux, logger, metrics)
}
