package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
)

const taskColumns = `id, phase, category, category_id, name, owner, status, priority, effort, note,
	start_date, end_date, indent_level, sort_order, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

// List returns tasks by start date with unscheduled tasks last.
func (r *SQLiteTaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY start_date IS NULL, start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	now := nowUTC()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (phase, category, category_id, name, owner, status, priority, effort, note,
			start_date, end_date, indent_level, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+taskColumns,
		t.Phase,
		t.Category,
		nullableID(t.CategoryID),
		t.Name,
		string(t.Owner),
		string(t.Status),
		string(t.Priority),
		nullableString(t.Effort),
		nullableString(t.Note),
		nullableDate(t.StartDate),
		nullableDate(t.EndDate),
		t.IndentLevel,
		t.SortOrder,
		now,
		now,
	)
	created, err := scanTask(row)
	if err != nil {
		return domain.Task{}, fmt.Errorf("inserting task: %w", err)
	}
	return created, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, id int64, patch domain.TaskPatch) error {
	set := sqliteDialect.taskAssignments(patch)
	if len(set) == 0 {
		return nil
	}
	query, args := sqliteDialect.updateSQL("tasks", set, id)
	return execOne(ctx, r.db, "updating task", id, query, args...)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, "deleting task", id, `DELETE FROM tasks WHERE id = ?`, id)
}

func scanTask(s scanner) (domain.Task, error) {
	var (
		t                    domain.Task
		owner, status, prio  string
		categoryID           sql.NullInt64
		effort, note         sql.NullString
		start, end           sql.NullString
		createdAt, updatedAt string
	)
	err := s.Scan(&t.ID, &t.Phase, &t.Category, &categoryID, &t.Name, &owner, &status, &prio,
		&effort, &note, &start, &end, &t.IndentLevel, &t.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, fmt.Errorf("scanning task: %w", err)
	}
	t.Owner = domain.Owner(owner)
	t.Status = domain.Status(status)
	t.Priority = domain.Priority(prio)
	t.CategoryID = categoryID.Int64
	t.Effort = effort.String
	t.Note = note.String

	if t.StartDate, err = parseNullableDate(start); err != nil {
		return domain.Task{}, fmt.Errorf("task %d start_date: %w", t.ID, err)
	}
	if t.EndDate, err = parseNullableDate(end); err != nil {
		return domain.Task{}, fmt.Errorf("task %d end_date: %w", t.ID, err)
	}
	if t.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return domain.Task{}, err
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}
