// Package analysis implements the warehouse order pipeline: tariff extraction,
// product, order and warehouse aggregation, and ABC classification.
package analysis

import (
	"math"
	"strings"

	"github.com/sells-group/warehouse-cli/internal/model"
)

// ExtractTariffs projects one (warehouse, highway cost) pair per order, in
// input order. Warehouses repeat once per order.
func ExtractTariffs(orders []model.Order) ([]model.Tariff, error) {
	tariffs := make([]model.Tariff, 0, len(orders))
	for i, o := range orders {
		if err := validateOrder(i, o); err != nil {
			return nil, err
		}
		tariffs = append(tariffs, model.Tariff{
			WarehouseName: o.WarehouseName,
			HighwayCost:   o.HighwayCost,
		})
	}
	return tariffs, nil
}

// Flatten emits one row per line item, carrying the parent order's id,
// warehouse and highway cost. Expenses is the line quantity times the order's
// highway cost, so the cost keeps its sign.
func Flatten(orders []model.Order) ([]model.LineItemRow, error) {
	n := 0
	for _, o := range orders {
		n += len(o.Products)
	}

	rows := make([]model.LineItemRow, 0, n)
	for i, o := range orders {
		if err := validateOrder(i, o); err != nil {
			return nil, err
		}
		for j, item := range o.Products {
			if err := validateItem(i, j, item); err != nil {
				return nil, err
			}
			rows = append(rows, model.LineItemRow{
				OrderID:       o.OrderID,
				WarehouseName: o.WarehouseName,
				HighwayCost:   o.HighwayCost,
				Product:       item.Product,
				Quantity:      item.Quantity,
				Price:         item.Price,
				Expenses:      float64(item.Quantity) * o.HighwayCost,
			})
		}
	}
	return rows, nil
}

func validateOrder(idx int, o model.Order) error {
	switch {
	case strings.TrimSpace(string(o.OrderID)) == "":
		return model.NewMalformedOrder(idx, "order_id", "required")
	case strings.TrimSpace(o.WarehouseName) == "":
		return model.NewMalformedOrder(idx, "warehouse_name", "required")
	case !finite(o.HighwayCost):
		return model.NewMalformedOrder(idx, "highway_cost", "must be a finite number")
	}
	return nil
}

func validateItem(orderIdx, itemIdx int, item model.LineItem) error {
	switch {
	case strings.TrimSpace(item.Product) == "":
		return model.NewMalformedItem(orderIdx, itemIdx, "product", "required")
	case item.Quantity < 0:
		return model.NewMalformedItem(orderIdx, itemIdx, "quantity", "must be >= 0")
	case !finite(item.Price):
		return model.NewMalformedItem(orderIdx, itemIdx, "price", "must be a finite number")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
