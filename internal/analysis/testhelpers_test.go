package analysis

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/warehouse-cli/internal/model"
)

// singleOrder is the one-order, two-product dataset: X contributes -10 profit,
// Y contributes +10, so W1 nets to zero.
func singleOrder() []model.Order {
	return []model.Order{
		{
			OrderID:       "1",
			WarehouseName: "W1",
			HighwayCost:   -10,
			Products: []model.LineItem{
				{Product: "X", Quantity: 2, Price: 5},
				{Product: "Y", Quantity: 1, Price: 20},
			},
		},
	}
}

// eightyTwenty has one warehouse whose two products earn 80 and 20.
func eightyTwenty() []model.Order {
	return []model.Order{
		{
			OrderID:       "1",
			WarehouseName: "W1",
			HighwayCost:   0,
			Products: []model.LineItem{
				{Product: "small", Quantity: 1, Price: 20},
				{Product: "big", Quantity: 1, Price: 80},
			},
		},
	}
}

// randomOrders builds a deterministic dataset where every (warehouse,
// product) pair earns positive profit.
func randomOrders(t *testing.T, seed int64, n int) []model.Order {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	warehouses := []string{"north", "south", "east"}
	products := []string{"bolt", "nut", "screw", "washer", "gear", "spring"}

	orders := make([]model.Order, 0, n)
	for i := 0; i < n; i++ {
		o := model.Order{
			OrderID:       model.OrderID(fmt.Sprint(i + 1)),
			WarehouseName: warehouses[rng.Intn(len(warehouses))],
			HighwayCost:   -rng.Float64(),
		}
		items := 1 + rng.Intn(4)
		for j := 0; j < items; j++ {
			o.Products = append(o.Products, model.LineItem{
				Product:  products[rng.Intn(len(products))],
				Quantity: 1 + rng.Intn(10),
				Price:    20 + rng.Float64()*30,
			})
		}
		orders = append(orders, o)
	}
	require.Len(t, orders, n)
	return orders
}

func mustFlatten(t *testing.T, orders []model.Order) []model.LineItemRow {
	t.Helper()
	rows, err := Flatten(orders)
	require.NoError(t, err)
	return rows
}
