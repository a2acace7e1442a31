package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/warehouse-cli/internal/analysis"
	"github.com/sells-group/warehouse-cli/internal/export"
	"github.com/sells-group/warehouse-cli/internal/loader"
)

var (
	analyzeInputs      []string
	analyzeOutputDir   string
	analyzeFormats     []string
	analyzeDryRun      bool
	analyzeConcurrency int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the profit and ABC pipeline on order files",
	Long: `Loads one or more JSON order files, runs the five-stage pipeline on each
and writes the report tables in the configured formats.

Each input is analyzed independently. With more than one input, each dataset's
files go to <output-dir>/<input-basename>/, numbered when base names repeat.

Examples:
  # Single file, spreadsheets into the current directory
  warehouse-cli analyze --input orders.json

  # Validate only
  warehouse-cli analyze --input orders.json --dry-run

  # Two datasets, CSV and SQLite
  warehouse-cli analyze --input north.json --input south.json --format csv,sqlite --output-dir reports`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		applyAnalyzeFlags(cmd)

		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		var env *exportEnv
		if !analyzeDryRun {
			var err error
			env, err = initExportEnv(ctx, cfg.Output.Formats)
			if err != nil {
				return eris.Wrap(err, "analyze: init exporters")
			}
			defer env.Close()
		}

		opts := cfg.Analysis.Options()
		out := cmd.OutOrStdout()

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrentInputs)

		var mu sync.Mutex
		var failures []string
		results := make([]*datasetResult, len(analyzeInputs))
		dirs := datasetDirs(cfg.Output.Dir, analyzeInputs)

		for i, input := range analyzeInputs {
			g.Go(func() error {
				res, err := analyzeDataset(gCtx, env, input, dirs[i], opts)
				if err != nil {
					zap.L().Error("analyze: dataset failed",
						zap.String("input", input),
						zap.Error(err),
					)
					mu.Lock()
					failures = append(failures, fmt.Sprintf("%s: %v", input, err))
					mu.Unlock()
					return nil // other datasets still run
				}
				results[i] = res
				return nil
			})
		}
		_ = g.Wait()

		for _, res := range results {
			if res != nil {
				printSummary(out, res)
			}
		}

		if len(failures) > 0 {
			return eris.Errorf("analyze: %d of %d datasets failed:\n  %s",
				len(failures), len(analyzeInputs), strings.Join(failures, "\n  "))
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringArrayVar(&analyzeInputs, "input", nil, "path to a JSON order file (repeatable, required)")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "", "directory for file outputs (default: output.dir)")
	analyzeCmd.Flags().StringSliceVar(&analyzeFormats, "format", nil, "output formats: xlsx, csv, sqlite, postgres (default: output.formats)")
	analyzeCmd.Flags().BoolVar(&analyzeDryRun, "dry-run", false, "load and validate inputs, skip analysis and export")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 0, "max datasets analyzed at once (default: batch.max_concurrent_inputs)")
	_ = analyzeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(analyzeCmd)
}

// applyAnalyzeFlags overlays explicitly set flags onto the loaded config.
func applyAnalyzeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Output.Dir = analyzeOutputDir
	}
	if flags.Changed("format") {
		cfg.Output.Formats = analyzeFormats
	}
	if flags.Changed("concurrency") {
		cfg.Batch.MaxConcurrentInputs = analyzeConcurrency
	}
}

// datasetDirs keeps a single dataset in root and gives each of several
// datasets its own subdirectory named after the input. Inputs sharing a base
// name get numbered suffixes (orders, orders-2, ...) so no two datasets write
// to the same place.
func datasetDirs(root string, inputs []string) []string {
	if len(inputs) <= 1 {
		return []string{root}
	}

	taken := make(map[string]bool, len(inputs))
	dirs := make([]string, len(inputs))
	for i, input := range inputs {
		base := filepath.Base(input)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		if name == "" {
			name = "dataset"
		}
		candidate := name
		for n := 2; taken[candidate]; n++ {
			candidate = fmt.Sprintf("%s-%d", name, n)
		}
		taken[candidate] = true
		dirs[i] = filepath.Join(root, candidate)
	}
	return dirs
}

// datasetResult is what one dataset run reports back for the summary.
type datasetResult struct {
	Input   string
	Orders  int
	Report  *analysis.Report
	Outputs []string
}

// analyzeDataset loads, analyzes and exports a single input. With a nil env
// it stops after loading.
func analyzeDataset(ctx context.Context, env *exportEnv, input, dir string, opts analysis.Options) (*datasetResult, error) {
	log := zap.L().With(zap.String("input", input))

	orders, err := loader.LoadOrders(ctx, input)
	if err != nil {
		return nil, err
	}
	log.Info("analyze: orders loaded", zap.Int("orders", len(orders)))

	res := &datasetResult{Input: input, Orders: len(orders)}
	if env == nil {
		return res, nil
	}

	report, err := analysis.Run(orders, opts)
	if err != nil {
		return nil, err
	}
	res.Report = report

	exporters, err := env.exporters(dir)
	if err != nil {
		return nil, eris.Wrap(err, "analyze: build exporters")
	}

	run := export.NewRun(input)
	tables := export.Tables(report)
	outputs, err := export.ExportAll(ctx, exporters, run, tables)
	if err != nil {
		return nil, eris.Wrap(err, "analyze: export")
	}

	manifest, err := export.WriteManifest(dir, export.NewManifest(run, report, opts, outputs))
	if err != nil {
		export.DiscardAll(ctx, exporters, run, tables)
		return nil, eris.Wrap(err, "analyze: write manifest")
	}
	res.Outputs = append(outputs, manifest)

	log.Info("analyze: dataset complete",
		zap.String("run_id", run.ID),
		zap.Int("warehouses", len(report.CategoryCounts())),
		zap.Int("outputs", len(res.Outputs)),
	)
	return res, nil
}

// printSummary writes the per-warehouse ABC counts for one dataset.
func printSummary(w io.Writer, res *datasetResult) {
	p := message.NewPrinter(language.English)

	if res.Report == nil {
		p.Fprintf(w, "%s: %d orders valid\n", res.Input, res.Orders)
		return
	}

	p.Fprintf(w, "%s: %d orders, %d line items\n", res.Input, res.Orders, len(res.Report.LineItems))
	totals := analysis.WarehouseTotals(res.Report.Warehouses)
	for _, c := range res.Report.CategoryCounts() {
		p.Fprintf(w, "  %-20s profit %12.2f  A %d  B %d  C %d\n",
			c.WarehouseName, totals[c.WarehouseName], c.A, c.B, c.C)
	}
	for _, o := range res.Outputs {
		p.Fprintf(w, "  wrote %s\n", o)
	}
}
