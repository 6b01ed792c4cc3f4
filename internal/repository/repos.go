package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexanderramin/wbs/internal/db"
)

// NewSQLiteRepos binds the three SQLite repositories to dbtx.
func NewSQLiteRepos(dbtx db.DBTX) Repos {
	return Repos{
		Phases:     NewSQLitePhaseRepo(dbtx),
		Categories: NewSQLiteCategoryRepo(dbtx),
		Tasks:      NewSQLiteTaskRepo(dbtx),
	}
}

// Transactor runs fn with repositories bound to a single transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

// SQLiteTransactor adapts a db.UnitOfWork.
type SQLiteTransactor struct {
	uow db.UnitOfWork
}

func NewSQLiteTransactor(database *sql.DB) *SQLiteTransactor {
	return &SQLiteTransactor{uow: db.NewSQLiteUnitOfWork(database)}
}

// NewUnitOfWorkTransactor binds SQLite repositories to any unit of work.
func NewUnitOfWorkTransactor(uow db.UnitOfWork) *SQLiteTransactor {
	return &SQLiteTransactor{uow: uow}
}

func (t *SQLiteTransactor) InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return t.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, NewSQLiteRepos(tx))
	})
}

// PostgresTransactor runs fn inside a pgx transaction.
type PostgresTransactor struct {
	pool *pgxpool.Pool
}

func NewPostgresTransactor(pool *pgxpool.Pool) *PostgresTransactor {
	return &PostgresTransactor{pool: pool}
}

func (t *PostgresTransactor) InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return pgx.BeginFunc(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewPostgresRepos(tx))
	})
}

// DirectTransactor runs fn against r without a transaction, for backends
// that have none.
type DirectTransactor struct {
	Repos Repos
}

func (t DirectTransactor) InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return fn(ctx, t.Repos)
}
