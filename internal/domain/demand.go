package domain

import (
	"fmt"
	"math"
)

// DemandSeries is an ordered sequence of non-negative demand observations.
type DemandSeries []float64

func (d DemandSeries) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("demand series must not be empty: %w", ErrInvalidParameter)
	}
	return ValidateQuantities("demand", d)
}

// Mean returns the arithmetic mean, or 0 for an empty series.
func (d DemandSeries) Mean() float64 {
	if len(d) == 0 {
		return 0
	}
	return Sum(d) / float64(len(d))
}

// StdDev returns the sample standard deviation (n-1 denominator).
// Series with fewer than two observations have no spread and return 0.
func (d DemandSeries) StdDev() float64 {
	if len(d) < 2 {
		return 0
	}
	mean := d.Mean()
	var ss float64
	for _, v := range d {
		diff := v - mean
		ss += diff * diff
	}
	return math.Sqrt(ss / float64(len(d)-1))
}
