package services

import (
	"fmt"
	"math"
	"supply-chain-optimizer/internal/domain"
)

// serviceLevelZ is the z-score of a 95% cycle service level.
const serviceLevelZ = 1.96

// ComputeInventoryPolicy derives an EOQ replenishment policy.
//
//	EOQ          = sqrt(2 * mean * orderingCost / holdingCost)
//	reorderPoint = mean * leadTime
//	safetyStock  = 1.96 * stdDev * sqrt(leadTime)
//	maxInventory = EOQ + safetyStock
//
// stdDev is the sample standard deviation of the series. The result is a
// pure function of the inputs.
func ComputeInventoryPolicy(
	demand domain.DemandSeries,
	holdingCost float64,
	orderingCost float64,
	leadTime int,
) (*domain.InventoryPolicy, error) {
	if err := demand.Validate(); err != nil {
		return nil, fmt.Errorf("compute inventory policy: %w", err)
	}
	if !positiveFinite(holdingCost) {
		return nil, fmt.Errorf("compute inventory policy: holding cost %v must be > 0: %w", holdingCost, domain.ErrInvalidParameter)
	}
	if !positiveFinite(orderingCost) {
		return nil, fmt.Errorf("compute inventory policy: ordering cost %v must be > 0: %w", orderingCost, domain.ErrInvalidParameter)
	}
	if leadTime < 0 {
		return nil, fmt.Errorf("compute inventory policy: lead time %d must be >= 0: %w", leadTime, domain.ErrInvalidParameter)
	}

	mean := demand.Mean()
	std := demand.StdDev()
	lt := float64(leadTime)

	eoq := math.Sqrt(2 * mean * orderingCost / holdingCost)
	safety := serviceLevelZ * std * math.Sqrt(lt)

	return &domain.InventoryPolicy{
		EOQ:          eoq,
		ReorderPoint: mean * lt,
		SafetyStock:  safety,
		MaxInventory: eoq + safety,
		MeanDemand:   mean,
		StdDevDemand: std,
	}, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
