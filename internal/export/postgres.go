package export

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/warehouse-cli/internal/db"
)

// runsTable records every export so table rows can be traced to a run.
const runsTable = "analysis_runs"

// PostgresExporter loads tables into schema-qualified PostgreSQL tables with
// COPY, all in one transaction.
type PostgresExporter struct {
	pool   db.Pool
	schema string
}

// NewPostgresExporter creates a PostgresExporter.
func NewPostgresExporter(pool db.Pool, schema string) *PostgresExporter {
	return &PostgresExporter{pool: pool, schema: schema}
}

// Export creates missing tables and copies every table's rows, tagged with
// the run id. Nothing is committed unless every table loads.
func (e *PostgresExporter) Export(ctx context.Context, run Run, tables []Table) ([]string, error) {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres export: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := db.CreateSchema(ctx, tx, e.schema); err != nil {
		return nil, eris.Wrap(err, "postgres export")
	}
	if err := db.CreateTable(ctx, tx, e.schema, runsTable, []db.ColumnDef{
		{Name: "id", Type: "TEXT PRIMARY KEY"},
		{Name: "source", Type: "TEXT NOT NULL"},
		{Name: "created_at", Type: "TIMESTAMPTZ NOT NULL"},
	}); err != nil {
		return nil, eris.Wrap(err, "postgres export")
	}
	for _, t := range tables {
		if err := db.CreateTable(ctx, tx, e.schema, t.Name, pgColumns(t)); err != nil {
			return nil, eris.Wrap(err, "postgres export")
		}
	}

	insertRun := "INSERT INTO " + db.Identifier(e.schema, runsTable).Sanitize() + " (id, source, created_at) VALUES ($1, $2, $3)"
	if _, err := tx.Exec(ctx, insertRun, run.ID, run.Source, run.CreatedAt); err != nil {
		return nil, eris.Wrap(err, "postgres export: insert run")
	}

	locations := make([]string, 0, len(tables))
	for _, t := range tables {
		columns := append([]string{"run_id"}, t.ColumnNames()...)
		rows := make([][]any, len(t.Rows))
		for i, r := range t.Rows {
			rows[i] = append([]any{run.ID}, r...)
		}

		n, err := db.CopyFrom(ctx, tx, e.schema, t.Name, columns, rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres export")
		}
		zap.L().Debug("postgres export: table loaded",
			zap.String("table", t.Name),
			zap.Int64("rows", n),
		)
		locations = append(locations, "postgres:"+strings.Join(db.Identifier(e.schema, t.Name), "."))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres export: commit")
	}
	return locations, nil
}

// Discard deletes the run's rows from every table and its analysis_runs
// record in one transaction.
func (e *PostgresExporter) Discard(ctx context.Context, run Run, tables []Table) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres discard: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, t := range tables {
		del := "DELETE FROM " + db.Identifier(e.schema, t.Name).Sanitize() + " WHERE run_id = $1"
		if _, err := tx.Exec(ctx, del, run.ID); err != nil {
			return eris.Wrapf(err, "postgres discard: delete from %s", t.Name)
		}
	}
	delRun := "DELETE FROM " + db.Identifier(e.schema, runsTable).Sanitize() + " WHERE id = $1"
	if _, err := tx.Exec(ctx, delRun, run.ID); err != nil {
		return eris.Wrap(err, "postgres discard: delete run")
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres discard: commit")
	}
	return nil
}

func pgColumns(t Table) []db.ColumnDef {
	defs := []db.ColumnDef{{Name: "run_id", Type: "TEXT NOT NULL"}}
	for _, c := range t.Columns {
		defs = append(defs, db.ColumnDef{Name: c.Name, Type: pgType(c.Type)})
	}
	return defs
}

func pgType(t ColumnType) string {
	switch t {
	case ColumnInteger:
		return "BIGINT"
	case ColumnReal:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}
