package export

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteExporter writes every table into a single SQLite database file. Runs
// accumulate in the same file; rows carry their run id.
type SQLiteExporter struct {
	Path string
}

const sqliteRunsDDL = `CREATE TABLE IF NOT EXISTS analysis_runs (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	created_at DATETIME NOT NULL
)`

// Export writes all tables in one transaction.
func (e *SQLiteExporter) Export(ctx context.Context, run Run, tables []Table) ([]string, error) {
	conn, err := openSQLite(e.Path)
	if err != nil {
		return nil, err
	}
	defer conn.Close() //nolint:errcheck

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite export: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, sqliteRunsDDL); err != nil {
		return nil, eris.Wrap(err, "sqlite export: create analysis_runs")
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO analysis_runs (id, source, created_at) VALUES (?, ?, ?)`,
		run.ID, run.Source, run.CreatedAt,
	); err != nil {
		return nil, eris.Wrap(err, "sqlite export: insert run")
	}

	for _, t := range tables {
		if err := insertSQLiteTable(ctx, tx, run.ID, t); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite export: commit")
	}
	return []string{e.Path}, nil
}

// Discard deletes the run's rows from every table and its analysis_runs
// record.
func (e *SQLiteExporter) Discard(ctx context.Context, run Run, tables []Table) error {
	conn, err := openSQLite(e.Path)
	if err != nil {
		return err
	}
	defer conn.Close() //nolint:errcheck

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite discard: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.Name+" WHERE run_id = ?", run.ID); err != nil {
			return eris.Wrapf(err, "sqlite discard: delete from %s", t.Name)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM analysis_runs WHERE id = ?", run.ID); err != nil {
		return eris.Wrap(err, "sqlite discard: delete run")
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite discard: commit")
	}
	return nil
}

func openSQLite(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite export: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite export: exec %s", pragma)
		}
	}
	return conn, nil
}

func insertSQLiteTable(ctx context.Context, tx *sql.Tx, runID string, t Table) error {
	defs := []string{"run_id TEXT NOT NULL"}
	for _, c := range t.Columns {
		defs = append(defs, c.Name+" "+sqliteType(c.Type))
	}
	ddl := "CREATE TABLE IF NOT EXISTS " + t.Name + " (" + strings.Join(defs, ", ") + ")"
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return eris.Wrapf(err, "sqlite export: create %s", t.Name)
	}

	columns := append([]string{"run_id"}, t.ColumnNames()...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO "+t.Name+" ("+strings.Join(columns, ", ")+") VALUES ("+placeholders+")",
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite export: prepare insert %s", t.Name)
	}
	defer stmt.Close() //nolint:errcheck

	args := make([]any, len(columns))
	args[0] = runID
	for _, row := range t.Rows {
		copy(args[1:], row)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return eris.Wrapf(err, "sqlite export: insert %s", t.Name)
		}
	}
	return nil
}

func sqliteType(t ColumnType) string {
	switch t {
	case ColumnInteger:
		return "INTEGER"
	case ColumnReal:
		return "REAL"
	default:
		return "TEXT"
	}
}
