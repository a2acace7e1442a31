package export

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// sheetName is the worksheet every table is written to.
const sheetName = "Sheet1"

// XLSXExporter writes one workbook per table into Dir.
type XLSXExporter struct {
	Dir string
}

// Export writes <Dir>/<table file>.xlsx for every table, header row first.
func (e *XLSXExporter) Export(ctx context.Context, _ Run, tables []Table) ([]string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "xlsx export: create dir %s", e.Dir)
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		if ctx.Err() != nil {
			return paths, eris.Wrap(ctx.Err(), "xlsx export: context cancelled")
		}

		path := filepath.Join(e.Dir, t.File+".xlsx")
		if err := writeWorkbook(path, t); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Discard removes the files Export writes for tables.
func (e *XLSXExporter) Discard(_ context.Context, _ Run, tables []Table) error {
	return removeTableFiles(e.Dir, ".xlsx", tables)
}

func writeWorkbook(path string, t Table) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "xlsx export: add sheet for %s", t.Name)
	}

	header := sheet.AddRow()
	for _, c := range t.Columns {
		header.AddCell().SetString(c.Name)
	}

	for _, values := range t.Rows {
		row := sheet.AddRow()
		for i, v := range values {
			setCell(row.AddCell(), t.Columns[i], v)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx export: save %s", path)
	}
	return nil
}

func setCell(cell *xlsx.Cell, col Column, v any) {
	switch x := v.(type) {
	case int:
		cell.SetInt(x)
	case int64:
		cell.SetInt64(x)
	case float64:
		cell.SetFloat(x)
	case string:
		if col.Type == ColumnIdentifier {
			if n, err := strconv.ParseInt(x, 10, 64); err == nil {
				cell.SetInt64(n)
				return
			}
		}
		cell.SetString(x)
	default:
		cell.SetString(formatValue(v))
	}
}
