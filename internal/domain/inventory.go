package domain

// InventoryPolicy is the derived replenishment policy for one item.
type InventoryPolicy struct {
	EOQ          float64 `json:"eoq"`
	ReorderPoint float64 `json:"reorder_point"`
	SafetyStock  float64 `json:"safety_stock"`
	MaxInventory float64 `json:"max_inventory"`
	MeanDemand   float64 `json:"mean_demand"`
	StdDevDemand float64 `json:"std_dev_demand"`
}
