package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinate (latitude, longitude).
// Units are whatever the caller chose; no conversion happens in the core.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports whether both components are finite.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return fmt.Errorf("coordinate (%v, %v) must be finite: %w", c.Lat, c.Lon, ErrInvalidParameter)
	}
	return nil
}

// A Location is a coordinate with an optional non-negative demand.
type Location struct {
	Coordinate
	Demand *float64 `json:"demand,omitempty"`
}

// NewLocation builds a Location without demand.
func NewLocation(lat, lon float64) Location {
	return Location{Coordinate: Coordinate{Lat: lat, Lon: lon}}
}

// WithDemand returns a copy of the location carrying demand d.
func (l Location) WithDemand(d float64) Location {
	l.Demand = &d
	return l
}

// DemandOr returns the location demand, or fallback when none was given.
func (l Location) DemandOr(fallback float64) float64 {
	if l.Demand == nil {
		return fallback
	}
	return *l.Demand
}

func (l Location) Validate() error {
	if err := l.Coordinate.Validate(); err != nil {
		return err
	}
	if l.Demand != nil && !isNonNegative(*l.Demand) {
		return fmt.Errorf("location demand %v must be finite and >= 0: %w", *l.Demand, ErrInvalidParameter)
	}
	return nil
}

// Coordinates projects locations onto their coordinates.
func Coordinates(locs []Location) []Coordinate {
	out := make([]Coordinate, len(locs))
	for i, l := range locs {
		out[i] = l.Coordinate
	}
	return out
}

func isNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
