// Package export writes the pipeline's report tables to spreadsheets, CSV
// files and databases.
package export

import (
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/warehouse-cli/internal/analysis"
	"github.com/sells-group/warehouse-cli/internal/model"
)

// ColumnType drives cell formatting and database column types.
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnInteger
	ColumnReal
	ColumnIdentifier // text that is written as a number when it is an integer
)

// Column is one named, typed column.
type Column struct {
	Name string
	Type ColumnType
}

// Table is one report table ready for export.
type Table struct {
	Name    string // database table name
	File    string // file stem, numbered in pipeline order
	Columns []Column
	Rows    [][]any
}

// ColumnNames returns the column names in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Run identifies one export of one report.
type Run struct {
	ID        string
	Source    string
	CreatedAt time.Time
}

// NewRun assigns a fresh run id.
func NewRun(source string) Run {
	return Run{
		ID:        uuid.New().String(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
}

var (
	tariffColumns = []Column{
		{"warehouse_name", ColumnText},
		{"highway_cost", ColumnReal},
	}
	productColumns = []Column{
		{"product", ColumnText},
		{"quantity", ColumnInteger},
		{"price", ColumnReal},
		{"expenses", ColumnReal},
		{"income", ColumnReal},
		{"profit", ColumnReal},
	}
	orderColumns = []Column{
		{"order_id", ColumnIdentifier},
		{"order_profit", ColumnReal},
	}
	warehouseColumns = []Column{
		{"warehouse_name", ColumnText},
		{"product", ColumnText},
		{"quantity", ColumnInteger},
		{"total_profit", ColumnReal},
		{"percent_profit_product_of_warehouse", ColumnReal},
	}
	accumulatedColumns = append(append([]Column{}, warehouseColumns...),
		Column{"accumulated_percent_profit_product_of_warehouse", ColumnReal},
		Column{"category", ColumnText},
	)
)

// Tables projects a report onto the five exported tables, in pipeline order.
func Tables(r *analysis.Report) []Table {
	tariffs := Table{Name: "tariffs", File: "1-tariffs", Columns: tariffColumns}
	for _, t := range r.Tariffs {
		tariffs.Rows = append(tariffs.Rows, []any{t.WarehouseName, t.HighwayCost})
	}

	products := Table{Name: "products_summary", File: "2-products_summary", Columns: productColumns}
	for _, p := range r.Products {
		products.Rows = append(products.Rows, []any{p.Product, p.Quantity, p.Price, p.Expenses, p.Income, p.Profit})
	}

	orders := Table{Name: "orders_summary", File: "3-orders_summary", Columns: orderColumns}
	for _, o := range r.Orders {
		orders.Rows = append(orders.Rows, []any{string(o.OrderID), o.OrderProfit})
	}

	warehouses := Table{Name: "warehouse_result", File: "4-warehouse_result", Columns: warehouseColumns}
	for _, w := range r.Warehouses {
		warehouses.Rows = append(warehouses.Rows, warehouseRow(w))
	}

	accumulated := Table{Name: "accumulated_percent", File: "5-accumulated_percent", Columns: accumulatedColumns}
	for _, c := range r.Classified {
		accumulated.Rows = append(accumulated.Rows, append(warehouseRow(c.WarehouseProductRow), c.AccumulatedPercent, string(c.Category)))
	}

	return []Table{tariffs, products, orders, warehouses, accumulated}
}

func warehouseRow(w model.WarehouseProductRow) []any {
	return []any{w.WarehouseName, w.Product, w.Quantity, w.TotalProfit, w.PercentProfit}
}
