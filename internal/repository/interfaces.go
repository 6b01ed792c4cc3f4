package repository

import (
	"context"

	"github.com/alexanderramin/wbs/internal/domain"
)

// Every table is reached through the same four operations: select all rows
// in a stable order, insert returning the stored row, update columns by id,
// and delete by id. Implementations exist for SQLite, Postgres and the
// REST rows service.

type PhaseRepo interface {
	List(ctx context.Context) ([]domain.Phase, error)
	Create(ctx context.Context, p domain.Phase) (domain.Phase, error)
	Update(ctx context.Context, id int64, patch domain.PhasePatch) error
	Delete(ctx context.Context, id int64) error
}

type CategoryRepo interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c domain.Category) (domain.Category, error)
	Update(ctx context.Context, id int64, patch domain.CategoryPatch) error
	Delete(ctx context.Context, id int64) error
}

type TaskRepo interface {
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	Update(ctx context.Context, id int64, patch domain.TaskPatch) error
	Delete(ctx context.Context, id int64) error
}

// Repos bundles one backend's repositories.
type Repos struct {
	Phases     PhaseRepo
	Categories CategoryRepo
	Tasks      TaskRepo
}
