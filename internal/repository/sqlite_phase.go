package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
)

const phaseColumns = `id, name, sort_order, created_at`

// SQLitePhaseRepo implements PhaseRepo using a SQLite database.
type SQLitePhaseRepo struct {
	db db.DBTX
}

func NewSQLitePhaseRepo(db db.DBTX) *SQLitePhaseRepo {
	return &SQLitePhaseRepo{db: db}
}

func (r *SQLitePhaseRepo) List(ctx context.Context) ([]domain.Phase, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+phaseColumns+` FROM phases ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	defer rows.Close()

	var phases []domain.Phase
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

func (r *SQLitePhaseRepo) Create(ctx context.Context, p domain.Phase) (domain.Phase, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO phases (name, sort_order, created_at) VALUES (?, ?, ?)
		 RETURNING `+phaseColumns,
		p.Name, p.SortOrder, nowUTC())
	created, err := scanPhase(row)
	if err != nil {
		return domain.Phase{}, fmt.Errorf("inserting phase: %w", err)
	}
	return created, nil
}

func (r *SQLitePhaseRepo) Update(ctx context.Context, id int64, patch domain.PhasePatch) error {
	set := sqliteDialect.phaseAssignments(patch)
	if len(set) == 0 {
		return nil
	}
	query, args := sqliteDialect.updateSQL("phases", set, id)
	return execOne(ctx, r.db, "updating phase", id, query, args...)
}

func (r *SQLitePhaseRepo) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, "deleting phase", id, `DELETE FROM phases WHERE id = ?`, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPhase(s scanner) (domain.Phase, error) {
	var (
		p         domain.Phase
		createdAt string
	)
	if err := s.Scan(&p.ID, &p.Name, &p.SortOrder, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Phase{}, ErrNotFound
		}
		return domain.Phase{}, fmt.Errorf("scanning phase: %w", err)
	}
	var err error
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return domain.Phase{}, err
	}
	return p, nil
}

// execOne runs a single-row write and maps zero affected rows to ErrNotFound.
func execOne(ctx context.Context, dbtx db.DBTX, what string, id int64, query string, args ...any) error {
	res, err := dbtx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %d: %w", what, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", what, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
