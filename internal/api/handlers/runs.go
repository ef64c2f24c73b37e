package handlers

import (
	"net/http"
	"strconv"
	"supply-chain-optimizer/internal/api/dto"
	"supply-chain-optimizer/internal/services"

	"go.uber.org/zap"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 500
)

// RunsHandler exposes the run journal read-only.
type RunsHandler struct {
	Optimizer *services.Optimizer
	Logger    *zap.Logger
}

func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, h.Logger, http.MethodGet) {
		return
	}

	limit := defaultRunsLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxRunsLimit {
			writeError(w, r, h.Logger, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	runs, err := h.Optimizer.ListRuns(r.Context(), limit)
	if err != nil {
		h.Logger.Error("list runs failed", zap.Error(err))
		writeError(w, r, h.Logger, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, h.Logger, http.StatusOK, dto.NewListRunsResponse(runs))
}
