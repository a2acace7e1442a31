// Package db provides shared PostgreSQL helpers for schema setup and bulk copy.
package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"
)

// Pool is the subset of *pgxpool.Pool used by this package. pgxmock pools
// satisfy it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Execer runs a statement. Both Pool and pgx.Tx satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Copier bulk-loads rows. Both Pool and pgx.Tx satisfy it.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// CopyFrom bulk-inserts rows into schema.table using the PostgreSQL COPY
// protocol. An empty schema targets the search path.
func CopyFrom(ctx context.Context, c Copier, schema, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	ident := Identifier(schema, table)
	n, err := c.CopyFrom(ctx, ident, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "db: COPY INTO %s", strings.Join(ident, "."))
	}

	return n, nil
}

// ColumnDef is a column name and its SQL type.
type ColumnDef struct {
	Name string
	Type string
}

// CreateTable issues CREATE TABLE IF NOT EXISTS for schema.table.
func CreateTable(ctx context.Context, e Execer, schema, table string, columns []ColumnDef) error {
	if len(columns) == 0 {
		return eris.Errorf("db: create table %s: no columns", table)
	}

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c.Name}.Sanitize() + " " + c.Type
	}

	sql := "CREATE TABLE IF NOT EXISTS " + Identifier(schema, table).Sanitize() + " (" + strings.Join(defs, ", ") + ")"
	if _, err := e.Exec(ctx, sql); err != nil {
		return eris.Wrapf(err, "db: create table %s", table)
	}
	return nil
}

// CreateSchema issues CREATE SCHEMA IF NOT EXISTS.
func CreateSchema(ctx context.Context, e Execer, schema string) error {
	if schema == "" {
		return nil
	}
	if _, err := e.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize()); err != nil {
		return eris.Wrapf(err, "db: create schema %s", schema)
	}
	return nil
}

// Identifier builds a possibly schema-qualified identifier.
func Identifier(schema, table string) pgx.Identifier {
	if schema == "" {
		return pgx.Identifier{table}
	}
	return pgx.Identifier{schema, table}
}
