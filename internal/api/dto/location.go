package dto

import "supply-chain-optimizer/internal/domain"

type Location struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Demand    *float64 `json:"demand,omitempty" validate:"omitempty,gte=0"`
}

func (l Location) ToDomain() domain.Location {
	return domain.Location{
		Coordinate: domain.Coordinate{Lat: l.Latitude, Lon: l.Longitude},
		Demand:     l.Demand,
	}
}

func ToDomainLocations(locs []Location) []domain.Location {
	out := make([]domain.Location, len(locs))
	for i, l := range locs {
		out[i] = l.ToDomain()
	}
	return out
}

// Point renders a coordinate as [latitude, longitude].
type Point [2]float64

func NewPoint(c domain.Coordinate) Point { return Point{c.Lat, c.Lon} }

// Envelope wraps every successful response.
type Envelope struct {
	Message string `json:"message"`
	Result  any    `json:"result"`
}
