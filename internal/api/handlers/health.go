package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Health provides a minimal liveness check endpoint.
func Health(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, logger, http.MethodGet) {
			return
		}

		res := map[string]any{"status": "healthy", "timestamp": time.Now().UTC()}
		writeJSON(w, r, logger, http.StatusOK, res)
	}
}
