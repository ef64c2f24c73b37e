package dto

import (
	"supply-chain-optimizer/internal/domain"
)

const noFeasibleSolution = "No feasible solution found"

type InventoryRequest struct {
	DemandData   []float64 `json:"demand_data" validate:"required,min=1,dive,gte=0"`
	HoldingCost  float64   `json:"holding_cost" validate:"gt=0"`
	OrderingCost float64   `json:"ordering_cost" validate:"gt=0"`
	LeadTime     int       `json:"lead_time" validate:"gte=0"`
}

type RouteRequest struct {
	Locations       []Location `json:"locations" validate:"required,min=1,dive"`
	VehicleCapacity float64    `json:"vehicle_capacity" validate:"gt=0"`
}

type RouteResponse struct {
	Route         []int              `json:"route,omitempty"`
	TotalDistance float64            `json:"total_distance"`
	TotalLoad     float64            `json:"total_load"`
	Loads         []float64          `json:"loads,omitempty"`
	Status        domain.SolveStatus `json:"status"`
	Message       string             `json:"message,omitempty"`
}

func NewRouteResponse(s *domain.RoutingSolution) RouteResponse {
	res := RouteResponse{
		Route:         s.Route,
		TotalDistance: s.TotalDistance,
		TotalLoad:     s.TotalLoad,
		Loads:         s.Loads,
		Status:        s.Status,
	}
	if !s.HasRoute() {
		res.Message = noFeasibleSolution
	}
	return res
}

// TransportationRequest carries optional costs; without them lane costs are
// the distances between origins and destinations.
type TransportationRequest struct {
	Origins      []Location  `json:"origins" validate:"dive"`
	Destinations []Location  `json:"destinations" validate:"dive"`
	Supplies     []float64   `json:"supplies" validate:"required,min=1,dive,gte=0"`
	Demands      []float64   `json:"demands" validate:"required,min=1,dive,gte=0"`
	Costs        [][]float64 `json:"costs,omitempty"`
}

type TransportationResponse struct {
	Solution  [][]float64        `json:"solution,omitempty"`
	TotalCost float64            `json:"total_cost"`
	Status    domain.SolveStatus `json:"status"`
	Message   string             `json:"message,omitempty"`
}

func NewTransportationResponse(s *domain.FlowSolution) TransportationResponse {
	res := TransportationResponse{
		Solution:  s.Flows,
		TotalCost: s.TotalCost,
		Status:    s.Status,
	}
	if s.Flows == nil {
		res.Message = noFeasibleSolution
	}
	return res
}

type ClusterRequest struct {
	Locations   []Location `json:"locations" validate:"required,min=1,dive"`
	NumClusters int        `json:"num_clusters" validate:"gte=1"`
}

type ClusterStat struct {
	Center Point   `json:"center"`
	Size   int     `json:"size"`
	Points []Point `json:"points"`
}

type ClusterResponse struct {
	Clusters   []int         `json:"clusters"`
	Centers    []Point       `json:"centers"`
	Stats      []ClusterStat `json:"stats"`
	Inertia    float64       `json:"inertia"`
	Iterations int           `json:"iterations"`
}

func NewClusterResponse(a *domain.ClusterAssignment, locs []domain.Location) ClusterResponse {
	res := ClusterResponse{
		Clusters:   a.Labels,
		Centers:    make([]Point, len(a.Centroids)),
		Stats:      make([]ClusterStat, len(a.Centroids)),
		Inertia:    a.Inertia,
		Iterations: a.Iterations,
	}
	for j, c := range a.Centroids {
		res.Centers[j] = NewPoint(c)
		stat := ClusterStat{Center: NewPoint(c), Size: a.Sizes[j], Points: make([]Point, 0, len(a.Members[j]))}
		for _, i := range a.Members[j] {
			stat.Points = append(stat.Points, NewPoint(locs[i].Coordinate))
		}
		res.Stats[j] = stat
	}
	return res
}

type WarehouseRequest struct {
	Locations []Location `json:"locations" validate:"required,min=1,dive"`
}

type WarehouseResponse struct {
	OptimalLocation       Point   `json:"optimal_location"`
	TotalWeightedDistance float64 `json:"total_weighted_distance"`
	TotalDemand           float64 `json:"total_demand"`
}

func NewWarehouseResponse(p *domain.FacilityPlacement) WarehouseResponse {
	return WarehouseResponse{
		OptimalLocation:       NewPoint(p.OptimalLocation),
		TotalWeightedDistance: p.TotalWeightedDistance,
		TotalDemand:           p.TotalDemand,
	}
}
