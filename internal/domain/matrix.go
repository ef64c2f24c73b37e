package domain

import (
	"fmt"
	"math"
)

// DistanceMatrix is a square, immutable matrix of non-negative distances.
// It is not assumed to be symmetric.
type DistanceMatrix struct {
	n    int
	data []float64
}

// NewDistanceMatrix copies rows into a DistanceMatrix after validating shape
// and values.
func NewDistanceMatrix(rows [][]float64) (DistanceMatrix, error) {
	n := len(rows)
	data := make([]float64, n*n)
	for i, row := range rows {
		if len(row) != n {
			return DistanceMatrix{}, fmt.Errorf("distance matrix: row %d has %d columns, want %d: %w", i, len(row), n, ErrInvalidParameter)
		}
		for j, v := range row {
			if !isNonNegative(v) {
				return DistanceMatrix{}, fmt.Errorf("distance matrix: entry (%d,%d)=%v must be finite and >= 0: %w", i, j, v, ErrInvalidParameter)
			}
			data[i*n+j] = v
		}
	}
	return DistanceMatrix{n: n, data: data}, nil
}

// Len returns the number of locations covered by the matrix.
func (m DistanceMatrix) Len() int { return m.n }

// At returns the distance from i to j.
func (m DistanceMatrix) At(i, j int) float64 { return m.data[i*m.n+j] }

// Rows returns a fresh copy of the matrix as nested slices.
func (m DistanceMatrix) Rows() [][]float64 {
	out := make([][]float64, m.n)
	for i := range out {
		out[i] = append([]float64(nil), m.data[i*m.n:(i+1)*m.n]...)
	}
	return out
}

// TourLength sums the distances along consecutive stops of tour.
func (m DistanceMatrix) TourLength(tour []int) float64 {
	var total float64
	for i := 1; i < len(tour); i++ {
		total += m.At(tour[i-1], tour[i])
	}
	return total
}

// CostMatrix holds per-unit transportation costs: rows are origins,
// columns are destinations.
type CostMatrix [][]float64

// Validate checks the matrix is rows x cols with finite, non-negative cells.
func (c CostMatrix) Validate(rows, cols int) error {
	if len(c) != rows {
		return fmt.Errorf("cost matrix has %d rows, want %d origins: %w", len(c), rows, ErrInvalidParameter)
	}
	for i, row := range c {
		if len(row) != cols {
			return fmt.Errorf("cost matrix row %d has %d columns, want %d destinations: %w", i, len(row), cols, ErrInvalidParameter)
		}
		for j, v := range row {
			if !isNonNegative(v) {
				return fmt.Errorf("cost (%d,%d)=%v must be finite and >= 0: %w", i, j, v, ErrInvalidParameter)
			}
		}
	}
	return nil
}

// ValidateQuantities checks that every entry of a supply or demand vector is
// finite and non-negative.
func ValidateQuantities(name string, v []float64) error {
	for i, q := range v {
		if !isNonNegative(q) {
			return fmt.Errorf("%s[%d]=%v must be finite and >= 0: %w", name, i, q, ErrInvalidParameter)
		}
	}
	return nil
}

// Sum returns the sum of v.
func Sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

// approxZero is used to clean solver noise out of reported quantities.
func approxZero(v float64) bool { return math.Abs(v) < 1e-9 }
