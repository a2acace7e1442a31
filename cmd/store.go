package main

import (
	"context"
	"slices"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/warehouse-cli/internal/db"
	"github.com/sells-group/warehouse-cli/internal/export"
)

// warehousePool creates a pgxpool.Pool for the postgres exporter.
// Uses cfg.Store.DatabaseURL.
func warehousePool(ctx context.Context) (*pgxpool.Pool, error) {
	dsn := cfg.Store.DatabaseURL
	if dsn == "" {
		return nil, eris.New("store: no database_url configured (set store.database_url)")
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, eris.Wrap(err, "store: parse connection string")
	}
	poolCfg.MaxConns = 4
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "store: create connection pool")
	}

	if err := db.Retry(ctx, db.DefaultRetryConfig(), "ping", pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "store: ping database")
	}

	zap.L().Info("store: connected to database", zap.String("schema", cfg.Store.Schema))
	return pool, nil
}

// exportEnv holds shared export resources for one command invocation.
type exportEnv struct {
	formats []string
	pool    *pgxpool.Pool
}

// initExportEnv opens the connections the selected formats need.
func initExportEnv(ctx context.Context, formats []string) (*exportEnv, error) {
	env := &exportEnv{formats: formats}
	if slices.Contains(formats, export.FormatPostgres) {
		pool, err := warehousePool(ctx)
		if err != nil {
			return nil, err
		}
		env.pool = pool
	}
	return env, nil
}

// Close releases the postgres pool, if any.
func (e *exportEnv) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

// exporters builds one exporter per selected format, writing files into dir.
func (e *exportEnv) exporters(dir string) ([]export.Exporter, error) {
	opts := export.Options{
		Dir:        dir,
		SQLitePath: cfg.Store.SQLitePath,
		Schema:     cfg.Store.Schema,
	}
	if e.pool != nil {
		opts.Pool = e.pool
	}

	out := make([]export.Exporter, 0, len(e.formats))
	for _, f := range e.formats {
		ex, err := export.New(f, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, nil
}
