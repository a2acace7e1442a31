package model

import "math"

// Category is an ABC bucket.
type Category string

const (
	CategoryA Category = "A"
	CategoryB Category = "B"
	CategoryC Category = "C"
)

// Categories lists all buckets in rank order.
func Categories() []Category {
	return []Category{CategoryA, CategoryB, CategoryC}
}

// ZeroProfitPolicy decides what happens when a warehouse's total profit is zero
// and the per-product share cannot be computed.
type ZeroProfitPolicy string

const (
	ZeroProfitAsZero  ZeroProfitPolicy = "zero"  // share is 0 for every product
	ZeroProfitAsError ZeroProfitPolicy = "error" // abort with DivisionUndefinedError
)

// Valid reports whether p is a known policy.
func (p ZeroProfitPolicy) Valid() bool {
	return p == ZeroProfitAsZero || p == ZeroProfitAsError
}

// Tariff is the shipping cost of a single order's warehouse.
type Tariff struct {
	WarehouseName string  `json:"warehouse_name"`
	HighwayCost   float64 `json:"highway_cost"`
}

// ProductSummary aggregates every line item sharing a product name.
// Price is the sum of unit prices, not an average.
type ProductSummary struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Expenses float64 `json:"expenses"`
	Income   float64 `json:"income"`
	Profit   float64 `json:"profit"`
}

// OrderSummary aggregates the line items of one order.
type OrderSummary struct {
	OrderID     OrderID `json:"order_id"`
	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	OrderProfit float64 `json:"order_profit"`
}

// WarehouseProductRow aggregates line items by (warehouse, product) and carries
// the product's share of its warehouse's profit.
type WarehouseProductRow struct {
	WarehouseName string  `json:"warehouse_name"`
	Product       string  `json:"product"`
	Quantity      int     `json:"quantity"`
	Expenses      float64 `json:"expenses"`
	Income        float64 `json:"income"`
	Profit        float64 `json:"profit"`
	TotalProfit   float64 `json:"total_profit"`
	PercentProfit float64 `json:"percent_profit_product_of_warehouse"`
}

// ClassifiedRow is a WarehouseProductRow with its running share and bucket.
type ClassifiedRow struct {
	WarehouseProductRow
	AccumulatedPercent float64  `json:"accumulated_percent_profit_product_of_warehouse"`
	Category           Category `json:"category"`
}

// NetProfit subtracts the magnitude of expenses from income. Expenses may be
// stored with either sign.
func NetProfit(income, expenses float64) float64 {
	return income - math.Abs(expenses)
}
