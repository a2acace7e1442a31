package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTables_NamesAndFiles(t *testing.T) {
	tables := sampleTables(t)
	require.Len(t, tables, 5)

	var names, files []string
	for _, tbl := range tables {
		names = append(names, tbl.Name)
		files = append(files, tbl.File)
	}
	assert.Equal(t, []string{"tariffs", "products_summary", "orders_summary", "warehouse_result", "accumulated_percent"}, names)
	assert.Equal(t, []string{"1-tariffs", "2-products_summary", "3-orders_summary", "4-warehouse_result", "5-accumulated_percent"}, files)
}

func TestTables_Columns(t *testing.T) {
	tables := sampleTables(t)

	assert.Equal(t, []string{"warehouse_name", "highway_cost"}, findTable(t, tables, "tariffs").ColumnNames())
	assert.Equal(t, []string{"product", "quantity", "price", "expenses", "income", "profit"},
		findTable(t, tables, "products_summary").ColumnNames())
	assert.Equal(t, []string{"order_id", "order_profit"}, findTable(t, tables, "orders_summary").ColumnNames())
	assert.Equal(t, []string{"warehouse_name", "product", "quantity", "total_profit", "percent_profit_product_of_warehouse"},
		findTable(t, tables, "warehouse_result").ColumnNames())
	assert.Equal(t, []string{
		"warehouse_name", "product", "quantity", "total_profit", "percent_profit_product_of_warehouse",
		"accumulated_percent_profit_product_of_warehouse", "category",
	}, findTable(t, tables, "accumulated_percent").ColumnNames())
}

func TestTables_RowsMatchColumns(t *testing.T) {
	for _, tbl := range sampleTables(t) {
		for i, row := range tbl.Rows {
			assert.Len(t, row, len(tbl.Columns), "%s row %d", tbl.Name, i)
		}
	}
}

func TestTables_Values(t *testing.T) {
	tables := sampleTables(t)

	tariffs := findTable(t, tables, "tariffs")
	assert.Equal(t, [][]any{{"W1", -1.0}, {"W2", -2.0}}, tariffs.Rows)

	orders := findTable(t, tables, "orders_summary")
	require.Len(t, orders.Rows, 2)
	assert.Equal(t, []any{"2", 27.0}, orders.Rows[0])
	assert.Equal(t, []any{"ord-7", 6.0}, orders.Rows[1])

	acc := findTable(t, tables, "accumulated_percent")
	require.Len(t, acc.Rows, 3)
	// W1 sorted by share descending: Y (19/27) first.
	assert.Equal(t, "W1", acc.Rows[0][0])
	assert.Equal(t, "Y", acc.Rows[0][1])
	assert.Equal(t, "B", acc.Rows[0][6]) // 70.37 is past the A cutoff
	assert.Equal(t, "X", acc.Rows[1][1])
	assert.Equal(t, "C", acc.Rows[1][6])
	assert.InDelta(t, 100.0, acc.Rows[1][5], 1e-9)
	assert.Equal(t, []any{"W2", "X", 3, 6.0, 100.0, 100.0, "C"}, acc.Rows[2])
}

func TestNewRun(t *testing.T) {
	a := NewRun("orders.json")
	b := NewRun("orders.json")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "orders.json", a.Source)
	assert.False(t, a.CreatedAt.IsZero())
}
