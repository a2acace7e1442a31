package export

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/warehouse-cli/internal/analysis"
	"github.com/sells-group/warehouse-cli/internal/model"
)

// twoWarehouses yields:
//
//	W1: X profit 8, Y profit 19 (total 27)
//	W2: X profit 6 (total 6)
func twoWarehouses() []model.Order {
	return []model.Order{
		{
			OrderID:       "2",
			WarehouseName: "W1",
			HighwayCost:   -1,
			Products: []model.LineItem{
				{Product: "X", Quantity: 2, Price: 5},
				{Product: "Y", Quantity: 1, Price: 20},
			},
		},
		{
			OrderID:       "ord-7",
			WarehouseName: "W2",
			HighwayCost:   -2,
			Products: []model.LineItem{
				{Product: "X", Quantity: 3, Price: 4},
			},
		},
	}
}

func sampleReport(t *testing.T) *analysis.Report {
	t.Helper()
	r, err := analysis.Run(twoWarehouses(), analysis.DefaultOptions())
	require.NoError(t, err)
	return r
}

func sampleTables(t *testing.T) []Table {
	t.Helper()
	return Tables(sampleReport(t))
}

func findTable(t *testing.T, tables []Table, name string) Table {
	t.Helper()
	for _, tbl := range tables {
		if tbl.Name == name {
			return tbl
		}
	}
	require.Failf(t, "table not found", "no table %q", name)
	return Table{}
}
