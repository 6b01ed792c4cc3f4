package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/alexanderramin/wbs/internal/repository"
)

func registerTasks(api huma.API, repo repository.TaskRepo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks by start date, unscheduled last",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []Task `json:"body"`
	}, error) {
		rows, err := repo.List(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]Task, 0, len(rows))
		for _, t := range rows {
			out = append(out, TaskFromDomain(t))
		}
		return &struct {
			Body []Task `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Insert a task and return the stored row",
		DefaultStatus: http.StatusCreated,
		Errors:        writeErrors,
	}, func(ctx context.Context, input *struct {
		Body CreateTaskRequest `json:"body"`
	}) (*struct {
		Body Task `json:"body"`
	}, error) {
		task, err := input.Body.Domain()
		if err != nil {
			return nil, badRequest(err)
		}
		created, err := repo.Create(ctx, task)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body Task `json:"body"`
		}{Body: TaskFromDomain(created)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "update-task",
		Method:        http.MethodPatch,
		Path:          "/tasks/{id}",
		Summary:       "Update task columns",
		DefaultStatus: http.StatusNoContent,
		Errors:        writeErrors,
	}, func(ctx context.Context, input *struct {
		idPath
		Body UpdateTaskRequest `json:"body"`
	}) (*struct{}, error) {
		patch, err := input.Body.Domain()
		if err != nil {
			return nil, badRequest(err)
		}
		if err := repo.Update(ctx, input.ID, patch); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-task",
		Method:        http.MethodDelete,
		Path:          "/tasks/{id}",
		Summary:       "Delete a task",
		DefaultStatus: http.StatusNoContent,
		Errors:        writeErrors,
	}, func(ctx context.Context, input *idPath) (*struct{}, error) {
		if err := repo.Delete(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})
}
