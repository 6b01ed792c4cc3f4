package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
)

const categoryColumns = `id, name, phase_id, sort_order, created_at, updated_at`

// SQLiteCategoryRepo implements CategoryRepo using a SQLite database.
type SQLiteCategoryRepo struct {
	db db.DBTX
}

func NewSQLiteCategoryRepo(db db.DBTX) *SQLiteCategoryRepo {
	return &SQLiteCategoryRepo{db: db}
}

func (r *SQLiteCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteCategoryRepo) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	now := nowUTC()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, phase_id, sort_order, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 RETURNING `+categoryColumns,
		c.Name, c.PhaseID, c.SortOrder, now, now)
	created, err := scanCategory(row)
	if err != nil {
		return domain.Category{}, fmt.Errorf("inserting category: %w", err)
	}
	return created, nil
}

func (r *SQLiteCategoryRepo) Update(ctx context.Context, id int64, patch domain.CategoryPatch) error {
	set := sqliteDialect.categoryAssignments(patch)
	if len(set) == 0 {
		return nil
	}
	query, args := sqliteDialect.updateSQL("categories", set, id)
	return execOne(ctx, r.db, "updating category", id, query, args...)
}

func (r *SQLiteCategoryRepo) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, "deleting category", id, `DELETE FROM categories WHERE id = ?`, id)
}

func scanCategory(s scanner) (domain.Category, error) {
	var (
		c                    domain.Category
		createdAt, updatedAt string
	)
	if err := s.Scan(&c.ID, &c.Name, &c.PhaseID, &c.SortOrder, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, ErrNotFound
		}
		return domain.Category{}, fmt.Errorf("scanning category: %w", err)
	}
	var err error
	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return domain.Category{}, err
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}
