package export

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFormat(t *testing.T) {
	for _, f := range Formats() {
		assert.True(t, IsFormat(f), f)
	}
	assert.False(t, IsFormat("parquet"))
	assert.False(t, IsFormat(""))
}

func TestNew(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	opts := Options{Dir: "out", SQLitePath: "w.db", Schema: "warehouse", Pool: mock}

	e, err := New(FormatXLSX, opts)
	require.NoError(t, err)
	assert.Equal(t, &XLSXExporter{Dir: "out"}, e)

	e, err = New(FormatCSV, opts)
	require.NoError(t, err)
	assert.Equal(t, &CSVExporter{Dir: "out"}, e)

	e, err = New(FormatSQLite, opts)
	require.NoError(t, err)
	assert.Equal(t, &SQLiteExporter{Path: "w.db"}, e)

	e, err = New(FormatPostgres, opts)
	require.NoError(t, err)
	assert.IsType(t, &PostgresExporter{}, e)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(FormatSQLite, Options{})
	assert.ErrorContains(t, err, "sqlite path is required")

	_, err = New(FormatPostgres, Options{})
	assert.ErrorContains(t, err, "postgres pool is required")

	_, err = New("parquet", Options{})
	assert.ErrorContains(t, err, `unknown format "parquet"`)
}

type stubExporter struct {
	locs     []string
	err      error
	runs     int
	discards int
	order    *[]string
}

func (s *stubExporter) Export(context.Context, Run, []Table) ([]string, error) {
	s.runs++
	return s.locs, s.err
}

func (s *stubExporter) Discard(context.Context, Run, []Table) error {
	s.discards++
	if s.order != nil {
		*s.order = append(*s.order, s.locs...)
	}
	return nil
}

// exportOnly has no Discard method.
type exportOnly struct{ err error }

func (e exportOnly) Export(context.Context, Run, []Table) ([]string, error) {
	return []string{"plain"}, e.err
}

func TestExportAll(t *testing.T) {
	a := &stubExporter{locs: []string{"a1", "a2"}}
	b := &stubExporter{locs: []string{"b1"}}

	written, err := ExportAll(context.Background(), []Exporter{a, b}, NewRun("x"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "b1"}, written)
}

func TestExportAll_StopsAtFirstError(t *testing.T) {
	a := &stubExporter{locs: []string{"a1"}}
	b := &stubExporter{err: errors.New("boom")}
	c := &stubExporter{locs: []string{"c1"}}

	written, err := ExportAll(context.Background(), []Exporter{a, b, c}, NewRun("x"), nil)
	require.Error(t, err)
	assert.Empty(t, written)
	assert.Equal(t, 0, c.runs)
	assert.Equal(t, 1, a.discards)
	assert.Equal(t, 0, b.discards, "failed without partial output")
	assert.Equal(t, 0, c.discards)
}

func TestExportAll_DiscardsInReverseOrder(t *testing.T) {
	var order []string
	a := &stubExporter{locs: []string{"a"}, order: &order}
	b := &stubExporter{locs: []string{"b"}, order: &order}
	partial := &stubExporter{locs: []string{"partial"}, err: errors.New("disk full"), order: &order}

	_, err := ExportAll(context.Background(), []Exporter{a, exportOnly{}, b, partial}, NewRun("x"), nil)
	require.EqualError(t, err, "disk full")
	assert.Equal(t, []string{"partial", "b", "a"}, order)
}

func TestExportAll_FailureLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	tables := sampleTables(t)
	csvOut := &CSVExporter{Dir: dir}
	failing := &stubExporter{err: errors.New("postgres down")}

	_, err := ExportAll(context.Background(), []Exporter{csvOut, failing}, NewRun("orders.json"), tables)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiscardAll_IgnoresCancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.db")
	tables := sampleTables(t)
	run := NewRun("orders.json")
	e := &SQLiteExporter{Path: path}
	_, err := e.Export(context.Background(), run, tables)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	DiscardAll(ctx, []Exporter{e}, run, tables)

	conn, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer conn.Close() //nolint:errcheck
	assert.Equal(t, 0, countRows(t, conn, "SELECT COUNT(*) FROM analysis_runs"))
}
