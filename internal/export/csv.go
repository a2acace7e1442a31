package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// CSVExporter writes one CSV file per table into Dir.
type CSVExporter struct {
	Dir string
}

// Export writes <Dir>/<table file>.csv for every table, header row first.
func (e *CSVExporter) Export(ctx context.Context, _ Run, tables []Table) ([]string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "csv export: create dir %s", e.Dir)
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		if ctx.Err() != nil {
			return paths, eris.Wrap(ctx.Err(), "csv export: context cancelled")
		}

		path := filepath.Join(e.Dir, t.File+".csv")
		if err := writeCSV(path, t); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Discard removes the files Export writes for tables.
func (e *CSVExporter) Discard(_ context.Context, _ Run, tables []Table) error {
	return removeTableFiles(e.Dir, ".csv", tables)
}

func writeCSV(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "csv export: create file")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)

	if err := w.Write(t.ColumnNames()); err != nil {
		return eris.Wrapf(err, "csv export: write header for %s", t.Name)
	}

	record := make([]string, len(t.Columns))
	for _, values := range t.Rows {
		for i, v := range values {
			record[i] = formatValue(v)
		}
		if err := w.Write(record); err != nil {
			return eris.Wrapf(err, "csv export: write row for %s", t.Name)
		}
	}

	w.Flush()
	return eris.Wrapf(w.Error(), "csv export: flush %s", path)
}
