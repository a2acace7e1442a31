package analysis

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/warehouse-cli/internal/model"
)

// Options configures a pipeline run.
type Options struct {
	Thresholds       Thresholds
	ZeroProfitPolicy model.ZeroProfitPolicy
}

// DefaultOptions returns 70/90 thresholds with the zero-share fallback.
func DefaultOptions() Options {
	return Options{
		Thresholds:       DefaultThresholds(),
		ZeroProfitPolicy: model.ZeroProfitAsZero,
	}
}

// Report holds every table produced by one run. Each stage fills its field
// from the fields before it; nothing is modified once set.
type Report struct {
	Tariffs    []model.Tariff
	LineItems  []model.LineItemRow
	Products   []model.ProductSummary
	Orders     []model.OrderSummary
	Warehouses []model.WarehouseProductRow
	Classified []model.ClassifiedRow
}

// Run executes all five stages over orders. Any error aborts the run and no
// partial report is returned.
func Run(orders []model.Order, opts Options) (*Report, error) {
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.Int("orders", len(orders)))
	var r Report
	var err error

	r.Tariffs, err = ExtractTariffs(orders)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: extract tariffs")
	}
	log.Debug("analysis: tariffs extracted", zap.Int("rows", len(r.Tariffs)))

	r.LineItems, err = Flatten(orders)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: flatten line items")
	}
	r.Products = SummarizeProducts(r.LineItems)
	log.Debug("analysis: products summarized",
		zap.Int("line_items", len(r.LineItems)),
		zap.Int("rows", len(r.Products)),
	)

	r.Orders = SummarizeOrders(r.LineItems)
	log.Debug("analysis: orders summarized", zap.Int("rows", len(r.Orders)))

	r.Warehouses, err = AggregateWarehouses(r.LineItems, opts.ZeroProfitPolicy)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: aggregate warehouses")
	}
	log.Debug("analysis: warehouses aggregated", zap.Int("rows", len(r.Warehouses)))

	r.Classified = Classify(r.Warehouses, opts.Thresholds)
	log.Debug("analysis: abc classified", zap.Int("rows", len(r.Classified)))

	return &r, nil
}

// CategoryCount is the number of products per ABC bucket in one warehouse.
type CategoryCount struct {
	WarehouseName string `json:"warehouse_name" yaml:"warehouse_name"`
	A             int    `json:"a" yaml:"a"`
	B             int    `json:"b" yaml:"b"`
	C             int    `json:"c" yaml:"c"`
}

// CategoryCounts tallies classified rows per warehouse, ordered by warehouse.
func (r *Report) CategoryCounts() []CategoryCount {
	byWarehouse := make(map[string]*CategoryCount)
	var names []string
	for _, row := range r.Classified {
		c, ok := byWarehouse[row.WarehouseName]
		if !ok {
			c = &CategoryCount{WarehouseName: row.WarehouseName}
			byWarehouse[row.WarehouseName] = c
			names = append(names, row.WarehouseName)
		}
		switch row.Category {
		case model.CategoryA:
			c.A++
		case model.CategoryB:
			c.B++
		case model.CategoryC:
			c.C++
		}
	}

	sort.Strings(names)
	out := make([]CategoryCount, 0, len(names))
	for _, n := range names {
		out = append(out, *byWarehouse[n])
	}
	return out
}
