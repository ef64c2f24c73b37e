// Package geo computes distances between coordinates and builds distance
// matrices shared by the routing, clustering and facility components.
package geo

import (
	"fmt"
	"math"
	"strings"
	"supply-chain-optimizer/internal/domain"
)

const earthRadiusKm = 6371.0

// Metric selects how the distance between two coordinates is measured.
type Metric string

const (
	// Euclidean treats (lat, lon) as planar coordinates. This is the default
	// and matches the closed-form formulas of the optimizers.
	Euclidean Metric = "euclidean"
	// Haversine returns great-circle distance in kilometres.
	Haversine Metric = "haversine"
)

// ParseMetric maps a configuration string to a Metric. Empty means Euclidean.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Euclidean):
		return Euclidean, nil
	case string(Haversine):
		return Haversine, nil
	default:
		return "", fmt.Errorf("parse metric %q: %w", s, domain.ErrInvalidParameter)
	}
}

// Distance returns the distance between a and b under metric m.
func (m Metric) Distance(a, b domain.Coordinate) float64 {
	if m == Haversine {
		return HaversineKm(a, b)
	}
	return EuclideanDistance(a, b)
}

// EuclideanDistance is the straight-line distance in coordinate space.
func EuclideanDistance(a, b domain.Coordinate) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
}

// SquaredEuclidean avoids the square root for nearest-centre comparisons.
func SquaredEuclidean(a, b domain.Coordinate) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return dLat*dLat + dLon*dLon
}

// HaversineKm computes great-circle distance in kilometres, with coordinates
// in degrees.
func HaversineKm(a, b domain.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// Matrix builds the full pairwise distance matrix of coords under metric m.
func Matrix(m Metric, coords []domain.Coordinate) (domain.DistanceMatrix, error) {
	n := len(coords)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := m.Distance(coords[i], coords[j])
			rows[i][j] = d
			rows[j][i] = d
		}
	}

	dm, err := domain.NewDistanceMatrix(rows)
	if err != nil {
		return domain.DistanceMatrix{}, fmt.Errorf("build distance matrix: %w", err)
	}
	return dm, nil
}
