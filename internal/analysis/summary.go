package analysis

import (
	"sort"

	"github.com/sells-group/warehouse-cli/internal/model"
)

// SummarizeProducts groups line items by exact product name. Quantity, price
// and expenses are summed; income is summed quantity times summed price.
// Rows are ordered by product name.
func SummarizeProducts(rows []model.LineItemRow) []model.ProductSummary {
	byProduct := make(map[string]*model.ProductSummary)
	for _, r := range rows {
		s, ok := byProduct[r.Product]
		if !ok {
			s = &model.ProductSummary{Product: r.Product}
			byProduct[r.Product] = s
		}
		s.Quantity += r.Quantity
		s.Price += r.Price
		s.Expenses += r.Expenses
	}

	out := make([]model.ProductSummary, 0, len(byProduct))
	for _, s := range byProduct {
		s.Income = float64(s.Quantity) * s.Price
		s.Profit = model.NetProfit(s.Income, s.Expenses)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	return out
}

// SummarizeOrders groups line items by order and nets summed income against
// summed expenses. Rows are ordered by order id.
func SummarizeOrders(rows []model.LineItemRow) []model.OrderSummary {
	byOrder := make(map[model.OrderID]*model.OrderSummary)
	for _, r := range rows {
		s, ok := byOrder[r.OrderID]
		if !ok {
			s = &model.OrderSummary{OrderID: r.OrderID}
			byOrder[r.OrderID] = s
		}
		s.Income += r.Income()
		s.Expenses += r.Expenses
	}

	out := make([]model.OrderSummary, 0, len(byOrder))
	for _, s := range byOrder {
		s.OrderProfit = model.NetProfit(s.Income, s.Expenses)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID.Less(out[j].OrderID) })
	return out
}
