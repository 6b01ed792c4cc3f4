package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/domain"
)

var postgresDialect = dialect{
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	date: func(d domain.Date) any {
		if d.IsZero() {
			return nil
		}
		return d.Time()
	},
	now: func() any { return time.Now().UTC() },
}

// NewPostgresRepos binds the three Postgres repositories to conn, which is a
// pool or a transaction.
func NewPostgresRepos(conn db.PgxTX) Repos {
	return Repos{
		Phases:     &PostgresPhaseRepo{conn: conn},
		Categories: &PostgresCategoryRepo{conn: conn},
		Tasks:      &PostgresTaskRepo{conn: conn},
	}
}

// pgExecOne runs a single-row write and maps zero affected rows to ErrNotFound.
func pgExecOne(ctx context.Context, conn db.PgxTX, what string, id int64, query string, args ...any) error {
	tag, err := conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %d: %w", what, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}

// --- Phases ---

type PostgresPhaseRepo struct {
	conn db.PgxTX
}

func (r *PostgresPhaseRepo) List(ctx context.Context) ([]domain.Phase, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+phaseColumns+` FROM phases ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	defer rows.Close()

	var phases []domain.Phase
	for rows.Next() {
		p, err := scanPgPhase(rows)
		if err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

func (r *PostgresPhaseRepo) Create(ctx context.Context, p domain.Phase) (domain.Phase, error) {
	row := r.conn.QueryRow(ctx,
		`INSERT INTO phases (name, sort_order) VALUES ($1, $2) RETURNING `+phaseColumns,
		p.Name, p.SortOrder)
	created, err := scanPgPhase(row)
	if err != nil {
		return domain.Phase{}, fmt.Errorf("inserting phase: %w", err)
	}
	return created, nil
}

func (r *PostgresPhaseRepo) Update(ctx context.Context, id int64, patch domain.PhasePatch) error {
	set := postgresDialect.phaseAssignments(patch)
	if len(set) == 0 {
		return nil
	}
	query, args := postgresDialect.updateSQL("phases", set, id)
	return pgExecOne(ctx, r.conn, "updating phase", id, query, args...)
}

func (r *PostgresPhaseRepo) Delete(ctx context.Context, id int64) error {
	return pgExecOne(ctx, r.conn, "deleting phase", id, `DELETE FROM phases WHERE id = $1`, id)
}

func scanPgPhase(row scanner) (domain.Phase, error) {
	var p domain.Phase
	if err := row.Scan(&p.ID, &p.Name, &p.SortOrder, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Phase{}, ErrNotFound
		}
		return domain.Phase{}, fmt.Errorf("scanning phase: %w", err)
	}
	return p, nil
}

// --- Categories ---

type PostgresCategoryRepo struct {
	conn db.PgxTX
}

func (r *PostgresCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, err := scanPgCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresCategoryRepo) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	row := r.conn.QueryRow(ctx,
		`INSERT INTO categories (name, phase_id, sort_order) VALUES ($1, $2, $3) RETURNING `+categoryColumns,
		c.Name, c.PhaseID, c.SortOrder)
	created, err := scanPgCategory(row)
	if err != nil {
		return domain.Category{}, fmt.Errorf("inserting category: %w", err)
	}
	return created, nil
}

func (r *PostgresCategoryRepo) Update(ctx context.Context, id int64, patch domain.CategoryPatch) error {
	set := postgresDialect.categoryAssignments(patch)
	if len(set) == 0 {
		return nil
	}
	query, args := postgresDialect.updateSQL("categories", set, id)
	return pgExecOne(ctx, r.conn, "updating category", id, query, args...)
}

func (r *PostgresCategoryRepo) Delete(ctx context.Context, id int64) error {
	return pgExecOne(ctx, r.conn, "deleting category", id, `DELETE FROM categories WHERE id = $1`, id)
}

func scanPgCategory(row scanner) (domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.PhaseID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, ErrNotFound
		}
		return domain.Category{}, fmt.Errorf("scanning category: %w", err)
	}
	return c, nil
}

// --- Tasks ---

type PostgresTaskRepo struct {
	conn db.PgxTX
}

func (r *PostgresTaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY start_date NULLS LAST, id`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanPgTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PostgresTaskRepo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	row := r.conn.QueryRow(ctx,
		`INSERT INTO tasks (phase, category, category_id, name, owner, status, priority, effort, note,
			start_date, end_date, indent_level, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
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
		postgresDialect.date(t.StartDate),
		postgresDialect.date(t.EndDate),
		t.IndentLevel,
		t.SortOrder,
	)
	created, err := scanPgTask(row)
	if err != nil {
		return domain.Task{}, fmt.Errorf("inserting task: %w", err)
	}
	return created, nil
}

func (r *PostgresTaskRepo) Update(ctx context.Context, id int64, patch domain.TaskPatch) error {
	set := postgresDialect.taskAssignments(patch)
	if len(set) == 0 {
		return nil
	}
	query, args := postgresDialect.updateSQL("tasks", set, id)
	return pgExecOne(ctx, r.conn, "updating task", id, query, args...)
}

func (r *PostgresTaskRepo) Delete(ctx context.Context, id int64) error {
	return pgExecOne(ctx, r.conn, "deleting task", id, `DELETE FROM tasks WHERE id = $1`, id)
}

func scanPgTask(row scanner) (domain.Task, error) {
	var (
		t                   domain.Task
		owner, status, prio string
		categoryID          *int64
		effort, note        *string
		start, end          *time.Time
	)
	err := row.Scan(&t.ID, &t.Phase, &t.Category, &categoryID, &t.Name, &owner, &status, &prio,
		&effort, &note, &start, &end, &t.IndentLevel, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, fmt.Errorf("scanning task: %w", err)
	}
	t.Owner = domain.Owner(owner)
	t.Status = domain.Status(status)
	t.Priority = domain.Priority(prio)
	if categoryID != nil {
		t.CategoryID = *categoryID
	}
	if effort != nil {
		t.Effort = *effort
	}
	if note != nil {
		t.Note = *note
	}
	if start != nil {
		t.StartDate = domain.DateOf(*start)
	}
	if end != nil {
		t.EndDate = domain.DateOf(*end)
	}
	return t, nil
}
