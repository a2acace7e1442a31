package analysis

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/warehouse-cli/internal/model"
)

// zeroProfitTolerance is the relative size below which a warehouse total is
// rounding noise. It is scaled by the sum of absolute product profits.
const zeroProfitTolerance = 1e-9

type warehouseProductKey struct {
	warehouse string
	product   string
}

// AggregateWarehouses groups line items by (warehouse, product), joins each
// warehouse's total profit onto its rows and computes the product's percent
// of that total. Rows are ordered by warehouse, then product.
//
// When a warehouse's total profit is zero, or so close to zero relative to
// its product profits that it is only rounding residue, the share is undefined; policy
// decides whether the share becomes 0 or the call fails with a
// DivisionUndefinedError.
func AggregateWarehouses(rows []model.LineItemRow, policy model.ZeroProfitPolicy) ([]model.WarehouseProductRow, error) {
	if !policy.Valid() {
		return nil, eris.Errorf("analysis: unknown zero profit policy %q", policy)
	}

	groups := make(map[warehouseProductKey]*model.WarehouseProductRow)
	for _, r := range rows {
		k := warehouseProductKey{warehouse: r.WarehouseName, product: r.Product}
		g, ok := groups[k]
		if !ok {
			g = &model.WarehouseProductRow{WarehouseName: r.WarehouseName, Product: r.Product}
			groups[k] = g
		}
		g.Quantity += r.Quantity
		g.Expenses += r.Expenses
		g.Income += r.Income()
	}

	out := make([]model.WarehouseProductRow, 0, len(groups))
	for _, g := range groups {
		g.Profit = model.NetProfit(g.Income, g.Expenses)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WarehouseName != out[j].WarehouseName {
			return out[i].WarehouseName < out[j].WarehouseName
		}
		return out[i].Product < out[j].Product
	})

	totals := WarehouseTotals(out)
	scales := make(map[string]float64, len(totals))
	for _, r := range out {
		scales[r.WarehouseName] += math.Abs(r.Profit)
	}

	warned := make(map[string]bool)
	for i := range out {
		total, ok := totals[out[i].WarehouseName]
		if !ok {
			return nil, eris.Errorf("analysis: no total profit for warehouse %q", out[i].WarehouseName)
		}
		if isZeroProfit(total, scales[out[i].WarehouseName]) {
			total = 0
		}
		out[i].TotalProfit = total

		if total == 0 {
			if policy == model.ZeroProfitAsError {
				return nil, eris.Wrap(&model.DivisionUndefinedError{WarehouseName: out[i].WarehouseName}, "analysis: percent of warehouse profit")
			}
			if !warned[out[i].WarehouseName] {
				zap.L().Warn("analysis: warehouse total profit is zero, shares set to 0",
					zap.String("warehouse", out[i].WarehouseName),
				)
				warned[out[i].WarehouseName] = true
			}
			out[i].PercentProfit = 0
			continue
		}
		out[i].PercentProfit = 100 * out[i].Profit / total
	}

	return out, nil
}

// isZeroProfit reports whether total is indistinguishable from zero given
// scale, the sum of the absolute profits that produced it.
func isZeroProfit(total, scale float64) bool {
	return math.Abs(total) <= zeroProfitTolerance*math.Max(1, scale)
}

// WarehouseTotals sums profit per warehouse.
func WarehouseTotals(rows []model.WarehouseProductRow) map[string]float64 {
	totals := make(map[string]float64)
	for _, r := range rows {
		totals[r.WarehouseName] += r.Profit
	}
	return totals
}
