package dto

import (
	"supply-chain-optimizer/internal/domain"
	"time"
)

type RunResponse struct {
	ID         int64     `json:"id"`
	Operation  string    `json:"operation"`
	Status     string    `json:"status"`
	Objective  float64   `json:"objective"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListRunsResponse struct {
	Runs []RunResponse `json:"runs"`
}

func NewListRunsResponse(runs []domain.RunRecord) ListRunsResponse {
	res := ListRunsResponse{Runs: make([]RunResponse, 0, len(runs))}
	for _, r := range runs {
		res.Runs = append(res.Runs, RunResponse{
			ID:         r.ID,
			Operation:  r.Operation,
			Status:     string(r.Status),
			Objective:  r.Objective,
			DurationMS: r.DurationMS,
			Error:      r.Error,
			CreatedAt:  r.CreatedAt,
		})
	}
	return res
}
