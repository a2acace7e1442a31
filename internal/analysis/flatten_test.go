package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/warehouse-cli/internal/model"
)

func TestExtractTariffs_OnePerOrderNoDedup(t *testing.T) {
	orders := []model.Order{
		{OrderID: "1", WarehouseName: "W2", HighwayCost: -3},
		{OrderID: "2", WarehouseName: "W1", HighwayCost: -5},
		{OrderID: "3", WarehouseName: "W2", HighwayCost: -3},
	}

	tariffs, err := ExtractTariffs(orders)
	require.NoError(t, err)
	assert.Equal(t, []model.Tariff{
		{WarehouseName: "W2", HighwayCost: -3},
		{WarehouseName: "W1", HighwayCost: -5},
		{WarehouseName: "W2", HighwayCost: -3},
	}, tariffs)
}

func TestExtractTariffs_MissingWarehouse(t *testing.T) {
	_, err := ExtractTariffs([]model.Order{{OrderID: "1", WarehouseName: " "}})
	require.Error(t, err)
	assert.True(t, model.IsMalformedInput(err))
	assert.Contains(t, err.Error(), "warehouse_name")
}

func TestFlatten_BroadcastsOrderFields(t *testing.T) {
	rows := mustFlatten(t, singleOrder())
	require.Len(t, rows, 2)

	x, y := rows[0], rows[1]
	assert.Equal(t, model.OrderID("1"), x.OrderID)
	assert.Equal(t, "W1", x.WarehouseName)
	assert.Equal(t, -10.0, x.HighwayCost)
	assert.Equal(t, "X", x.Product)
	assert.InDelta(t, -20, x.Expenses, 1e-9)
	assert.InDelta(t, 10, x.Income(), 1e-9)

	assert.Equal(t, "Y", y.Product)
	assert.InDelta(t, -10, y.Expenses, 1e-9)
	assert.InDelta(t, 20, y.Income(), 1e-9)
}

func TestFlatten_OrderWithoutProducts(t *testing.T) {
	rows, err := Flatten([]model.Order{{OrderID: "1", WarehouseName: "W1"}})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFlatten_DoesNotModifyInput(t *testing.T) {
	orders := singleOrder()
	before := singleOrder()
	_ = mustFlatten(t, orders)
	assert.Equal(t, before, orders)
}

func TestFlatten_MalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		order model.Order
		field string
	}{
		{
			name:  "missing order id",
			order: model.Order{WarehouseName: "W1"},
			field: "order_id",
		},
		{
			name:  "missing warehouse",
			order: model.Order{OrderID: "1"},
			field: "warehouse_name",
		},
		{
			name:  "nan highway cost",
			order: model.Order{OrderID: "1", WarehouseName: "W1", HighwayCost: math.NaN()},
			field: "highway_cost",
		},
		{
			name: "blank product",
			order: model.Order{OrderID: "1", WarehouseName: "W1", Products: []model.LineItem{
				{Product: "  ", Quantity: 1, Price: 1},
			}},
			field: "product",
		},
		{
			name: "empty product",
			order: model.Order{OrderID: "1", WarehouseName: "W1", Products: []model.LineItem{
				{Product: "", Quantity: 1, Price: 1},
			}},
			field: "product",
		},
		{
			name: "negative quantity",
			order: model.Order{OrderID: "1", WarehouseName: "W1", Products: []model.LineItem{
				{Product: "X", Quantity: -1, Price: 1},
			}},
			field: "quantity",
		},
		{
			name: "infinite price",
			order: model.Order{OrderID: "1", WarehouseName: "W1", Products: []model.LineItem{
				{Product: "X", Quantity: 1, Price: math.Inf(1)},
			}},
			field: "price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Flatten([]model.Order{tt.order})
			require.Error(t, err)

			var me *model.MalformedInputError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tt.field, me.Field)
			assert.Equal(t, 0, me.OrderIndex)
		})
	}
}
