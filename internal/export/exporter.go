package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/warehouse-cli/internal/db"
)

// Supported formats.
const (
	FormatXLSX     = "xlsx"
	FormatCSV      = "csv"
	FormatSQLite   = "sqlite"
	FormatPostgres = "postgres"
)

// Formats lists every supported export format.
func Formats() []string {
	return []string{FormatXLSX, FormatCSV, FormatSQLite, FormatPostgres}
}

// IsFormat reports whether f is a supported format.
func IsFormat(f string) bool {
	for _, known := range Formats() {
		if f == known {
			return true
		}
	}
	return false
}

// Exporter writes report tables to one destination and returns the locations
// it wrote.
type Exporter interface {
	Export(ctx context.Context, run Run, tables []Table) ([]string, error)
}

// Discarder is implemented by exporters that can remove what an earlier
// Export of the same run and tables wrote.
type Discarder interface {
	Discard(ctx context.Context, run Run, tables []Table) error
}

// Options configures the exporters built by New.
type Options struct {
	Dir        string  // xlsx and csv output directory
	SQLitePath string  // sqlite database file
	Schema     string  // postgres schema
	Pool       db.Pool // postgres connection; required for FormatPostgres
}

// New builds the exporter for format.
func New(format string, opts Options) (Exporter, error) {
	switch format {
	case FormatXLSX:
		return &XLSXExporter{Dir: opts.Dir}, nil
	case FormatCSV:
		return &CSVExporter{Dir: opts.Dir}, nil
	case FormatSQLite:
		if opts.SQLitePath == "" {
			return nil, eris.New("export: sqlite path is required")
		}
		return &SQLiteExporter{Path: opts.SQLitePath}, nil
	case FormatPostgres:
		if opts.Pool == nil {
			return nil, eris.New("export: postgres pool is required")
		}
		return NewPostgresExporter(opts.Pool, opts.Schema), nil
	default:
		return nil, eris.Errorf("export: unknown format %q", format)
	}
}

// ExportAll runs every exporter in order and stops at the first failure. On
// failure the outputs already written for the run are discarded, so a dataset
// is exported in every format or in none.
func ExportAll(ctx context.Context, exporters []Exporter, run Run, tables []Table) ([]string, error) {
	var written []string
	for i, e := range exporters {
		locs, err := e.Export(ctx, run, tables)
		if err != nil {
			done := exporters[:i]
			if len(locs) > 0 {
				done = exporters[:i+1]
			}
			DiscardAll(ctx, done, run, tables)
			return nil, err
		}
		written = append(written, locs...)
	}
	zap.L().Debug("export: complete",
		zap.String("run_id", run.ID),
		zap.Strings("outputs", written),
	)
	return written, nil
}

// DiscardAll undoes the exports of run in reverse order. Exporters that are
// not Discarders are skipped. Discard failures are logged, not returned, so
// the error that triggered the cleanup is the one callers see.
func DiscardAll(ctx context.Context, exporters []Exporter, run Run, tables []Table) {
	// The caller's ctx may be the reason the export failed.
	ctx = context.WithoutCancel(ctx)
	for i := len(exporters) - 1; i >= 0; i-- {
		d, ok := exporters[i].(Discarder)
		if !ok {
			continue
		}
		if err := d.Discard(ctx, run, tables); err != nil {
			zap.L().Warn("export: discard failed",
				zap.String("run_id", run.ID),
				zap.String("exporter", fmt.Sprintf("%T", exporters[i])),
				zap.Error(err),
			)
		}
	}
}

// removeTableFiles deletes <dir>/<table file><ext> for every table. Missing
// files are fine.
func removeTableFiles(dir, ext string, tables []Table) error {
	var errs []error
	for _, t := range tables {
		path := filepath.Join(dir, t.File+ext)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, eris.Wrapf(err, "export: remove %s", path))
		}
	}
	return errors.Join(errs...)
}

// formatValue renders a cell for text outputs.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
