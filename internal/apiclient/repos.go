package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexanderramin/wbs/internal/api"
	"github.com/alexanderramin/wbs/internal/domain"
)

type PhaseRepo struct{ c *Client }

func (r *PhaseRepo) List(ctx context.Context) ([]domain.Phase, error) {
	var rows []api.Phase
	if err := r.c.do(ctx, http.MethodGet, "phases", nil, &rows); err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	out := make([]domain.Phase, 0, len(rows))
	for _, p := range rows {
		out = append(out, p.Domain())
	}
	return out, nil
}

func (r *PhaseRepo) Create(ctx context.Context, p domain.Phase) (domain.Phase, error) {
	var created api.Phase
	req := api.CreatePhaseRequest{Name: p.Name, SortOrder: p.SortOrder}
	if err := r.c.do(ctx, http.MethodPost, "phases", req, &created); err != nil {
		return domain.Phase{}, fmt.Errorf("creating phase: %w", err)
	}
	return created.Domain(), nil
}

func (r *PhaseRepo) Update(ctx context.Context, id int64, patch domain.PhasePatch) error {
	if patch.IsEmpty() {
		return nil
	}
	if err := r.c.do(ctx, http.MethodPatch, fmt.Sprintf("phases/%d", id), api.UpdatePhaseRequestFrom(patch), nil); err != nil {
		return fmt.Errorf("updating phase %d: %w", id, err)
	}
	return nil
}

func (r *PhaseRepo) Delete(ctx context.Context, id int64) error {
	if err := r.c.do(ctx, http.MethodDelete, fmt.Sprintf("phases/%d", id), nil, nil); err != nil {
		return fmt.Errorf("deleting phase %d: %w", id, err)
	}
	return nil
}

type CategoryRepo struct{ c *Client }

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var rows []api.Category
	if err := r.c.do(ctx, http.MethodGet, "categories", nil, &rows); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	out := make([]domain.Category, 0, len(rows))
	for _, c := range rows {
		out = append(out, c.Domain())
	}
	return out, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	var created api.Category
	req := api.CreateCategoryRequest{Name: c.Name, PhaseID: c.PhaseID, SortOrder: c.SortOrder}
	if err := r.c.do(ctx, http.MethodPost, "categories", req, &created); err != nil {
		return domain.Category{}, fmt.Errorf("creating category: %w", err)
	}
	return created.Domain(), nil
}

func (r *CategoryRepo) Update(ctx context.Context, id int64, patch domain.CategoryPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	if err := r.c.do(ctx, http.MethodPatch, fmt.Sprintf("categories/%d", id), api.UpdateCategoryRequestFrom(patch), nil); err != nil {
		return fmt.Errorf("updating category %d: %w", id, err)
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	if err := r.c.do(ctx, http.MethodDelete, fmt.Sprintf("categories/%d", id), nil, nil); err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	return nil
}

type TaskRepo struct{ c *Client }

func (r *TaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	var rows []api.Task
	if err := r.c.do(ctx, http.MethodGet, "tasks", nil, &rows); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	out := make([]domain.Task, 0, len(rows))
	for _, t := range rows {
		task, err := t.Domain()
		if err != nil {
			return nil, fmt.Errorf("listing tasks: %w", err)
		}
		out = append(out, task)
	}
	return out, nil
}

func (r *TaskRepo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	var created api.Task
	if err := r.c.do(ctx, http.MethodPost, "tasks", api.CreateTaskRequestFrom(t), &created); err != nil {
		return domain.Task{}, fmt.Errorf("creating task: %w", err)
	}
	return created.Domain()
}

func (r *TaskRepo) Update(ctx context.Context, id int64, patch domain.TaskPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	if err := r.c.do(ctx, http.MethodPatch, fmt.Sprintf("tasks/%d", id), api.UpdateTaskRequestFrom(patch), nil); err != nil {
		return fmt.Errorf("updating task %d: %w", id, err)
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	if err := r.c.do(ctx, http.MethodDelete, fmt.Sprintf("tasks/%d", id), nil, nil); err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return nil
}
