package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/wbs/internal/db"
)

// FailOnNthWriteUoW is a test UoW that injects an error on the Nth write
// within a transaction. This enables rollback integration tests by
// simulating failures at precise points in multi-write operations.
//
// Writes are counted starting at 1: every ExecContext call, and QueryRowContext
// calls whose statement is an INSERT, UPDATE or DELETE (RETURNING clauses).
// Plain reads pass through. A *sql.Row cannot carry Err, so a failed
// RETURNING write surfaces context.Canceled instead.
type FailOnNthWriteUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthWrite{DBTX: tx, failOn: u.FailOn, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthWrite struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthWrite) hit() bool {
	return f.count.Add(1) == f.failOn
}

func (f *failOnNthWrite) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.hit() {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

func (f *failOnNthWrite) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	if isWrite(query) && f.hit() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		return f.DBTX.QueryRowContext(cctx, "SELECT 1")
	}
	return f.DBTX.QueryRowContext(ctx, query, args...)
}

func isWrite(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	return strings.HasPrefix(q, "INSERT") || strings.HasPrefix(q, "UPDATE") || strings.HasPrefix(q, "DELETE")
}
