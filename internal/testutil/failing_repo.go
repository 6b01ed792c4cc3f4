package testutil

import (
	"context"
	"sync/atomic"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
)

// FailingTaskRepo wraps a TaskRepo and returns Err from writes while Fail is set.
// Reads always pass through so refetch-based rollback can be observed.
type FailingTaskRepo struct {
	repository.TaskRepo
	Fail  atomic.Bool
	Err   error
	Lists atomic.Int32
}

func (f *FailingTaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	f.Lists.Add(1)
	return f.TaskRepo.List(ctx)
}

func (f *FailingTaskRepo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	if f.Fail.Load() {
		return domain.Task{}, f.Err
	}
	return f.TaskRepo.Create(ctx, t)
}

func (f *FailingTaskRepo) Update(ctx context.Context, id int64, patch domain.TaskPatch) error {
	if f.Fail.Load() {
		return f.Err
	}
	return f.TaskRepo.Update(ctx, id, patch)
}

func (f *FailingTaskRepo) Delete(ctx context.Context, id int64) error {
	if f.Fail.Load() {
		return f.Err
	}
	return f.TaskRepo.Delete(ctx, id)
}

// FailingPhaseRepo is FailingTaskRepo for phases.
type FailingPhaseRepo struct {
	repository.PhaseRepo
	Fail atomic.Bool
	Err  error
}

func (f *FailingPhaseRepo) Create(ctx context.Context, p domain.Phase) (domain.Phase, error) {
	if f.Fail.Load() {
		return domain.Phase{}, f.Err
	}
	return f.PhaseRepo.Create(ctx, p)
}

func (f *FailingPhaseRepo) Update(ctx context.Context, id int64, patch domain.PhasePatch) error {
	if f.Fail.Load() {
		return f.Err
	}
	return f.PhaseRepo.Update(ctx, id, patch)
}

func (f *FailingPhaseRepo) Delete(ctx context.Context, id int64) error {
	if f.Fail.Load() {
		return f.Err
	}
	return f.PhaseRepo.Delete(ctx, id)
}
