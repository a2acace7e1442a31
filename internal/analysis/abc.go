package analysis

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/warehouse-cli/internal/model"
)

// Thresholds are the inclusive upper bounds of the accumulated percent for
// categories A and B. Anything above B is C.
type Thresholds struct {
	A float64 `yaml:"a" mapstructure:"a"`
	B float64 `yaml:"b" mapstructure:"b"`
}

// DefaultThresholds returns the classic 70/90 split.
func DefaultThresholds() Thresholds {
	return Thresholds{A: 70, B: 90}
}

// Validate checks 0 < A <= B.
func (t Thresholds) Validate() error {
	if t.A <= 0 {
		return eris.Errorf("analysis: threshold A must be positive, got %v", t.A)
	}
	if t.B < t.A {
		return eris.Errorf("analysis: threshold B (%v) must not be below threshold A (%v)", t.B, t.A)
	}
	return nil
}

// Category buckets an accumulated percent. Bounds are inclusive on the lower
// category: 70 is A and 90 is B under the defaults.
func (t Thresholds) Category(accumulated float64) model.Category {
	if accumulated <= t.A {
		return model.CategoryA
	}
	if accumulated <= t.B {
		return model.CategoryB
	}
	return model.CategoryC
}

// SortForClassification returns a copy of rows ordered by warehouse ascending
// and percent descending. Ties keep their input order.
func SortForClassification(rows []model.WarehouseProductRow) []model.WarehouseProductRow {
	sorted := make([]model.WarehouseProductRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].WarehouseName != sorted[j].WarehouseName {
			return sorted[i].WarehouseName < sorted[j].WarehouseName
		}
		return sorted[i].PercentProfit > sorted[j].PercentProfit
	})
	return sorted
}

// AccumulatePercent is a per-warehouse prefix sum of percent over rows whose
// warehouses are contiguous. The running total resets whenever the warehouse
// changes.
func AccumulatePercent(rows []model.WarehouseProductRow) []float64 {
	type state struct {
		warehouse string
		total     float64
		started   bool
	}

	acc := make([]float64, len(rows))
	var s state
	for i, r := range rows {
		if !s.started || s.warehouse != r.WarehouseName {
			s = state{warehouse: r.WarehouseName, started: true}
		}
		s.total += r.PercentProfit
		acc[i] = s.total
	}
	return acc
}

// Classify sorts rows for ABC analysis, accumulates each warehouse's percent
// and assigns a category per row.
func Classify(rows []model.WarehouseProductRow, t Thresholds) []model.ClassifiedRow {
	sorted := SortForClassification(rows)
	acc := AccumulatePercent(sorted)

	out := make([]model.ClassifiedRow, len(sorted))
	for i, r := range sorted {
		out[i] = model.ClassifiedRow{
			WarehouseProductRow: r,
			AccumulatedPercent:  acc[i],
			Category:            t.Category(acc[i]),
		}
	}
	return out
}
