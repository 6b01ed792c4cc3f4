package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type PgxTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ PgxTX = (*pgxpool.Pool)(nil)
	_ PgxTX = (pgx.Tx)(nil)
)

// OpenPostgres connects to dsn, checks the connection and ensures the schema.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// EnsureSchema creates the board tables if they don't exist.
func EnsureSchema(ctx context.Context, conn PgxTX) error {
	for _, stmt := range postgresSchema {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure board schema: %w", err)
		}
	}
	return nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS phases (
    id         BIGSERIAL PRIMARY KEY,
    name       TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS categories (
    id         BIGSERIAL PRIMARY KEY,
    name       TEXT NOT NULL,
    phase_id   BIGINT NOT NULL REFERENCES phases(id) ON DELETE CASCADE,
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS tasks (
    id           BIGSERIAL PRIMARY KEY,
    phase        TEXT NOT NULL,
    category     TEXT NOT NULL DEFAULT '',
    category_id  BIGINT REFERENCES categories(id) ON DELETE SET NULL,
    name         TEXT NOT NULL,
    owner        TEXT NOT NULL,
    status       TEXT NOT NULL,
    priority     TEXT NOT NULL,
    effort       TEXT,
    note         TEXT,
    start_date   DATE,
    end_date     DATE,
    indent_level INTEGER NOT NULL DEFAULT 0 CHECK (indent_level BETWEEN 0 AND 3),
    sort_order   DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_phase ON categories (phase_id, sort_order)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_bucket ON tasks (phase, category, sort_order)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_start ON tasks (start_date)`,
}
