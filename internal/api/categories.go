package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
)

func registerCategories(api huma.API, repo repository.CategoryRepo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/categories",
		Summary:     "List categories by sort order",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []Category `json:"body"`
	}, error) {
		rows, err := repo.List(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]Category, 0, len(rows))
		for _, c := range rows {
			out = append(out, CategoryFromDomain(c))
		}
		return &struct {
			Body []Category `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-category",
		Method:        http.MethodPost,
		Path:          "/categories",
		Summary:       "Insert a category and return the stored row",
		DefaultStatus: http.StatusCreated,
		Errors:        writeErrors,
	}, func(ctx context.Context, input *struct {
		Body CreateCategoryRequest `json:"body"`
	}) (*struct {
		Body Category `json:"body"`
	}, error) {
		created, err := repo.Create(ctx, domain.Category{
			Name:      input.Body.Name,
			PhaseID:   input.Body.PhaseID,
			SortOrder: input.Body.SortOrder,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body Category `json:"body"`
		}{Body: CategoryFromDomain(created)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "update-category",
		Method:        http.MethodPatch,
		Path:          "/categories/{id}",
		Summary:       "Update category columns",
		DefaultStatus: http.StatusNoContent,
		Errors:        writeErrors,
	}, func(ctx context.Context, input *struct {
		idPath
		Body UpdateCategoryRequest `json:"body"`
	}) (*struct{}, error) {
		if err := repo.Update(ctx, input.ID, input.Body.Domain()); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-category",
		Method:        http.MethodDelete,
		Path:          "/categories/{id}",
		Summary:       "Delete a category",
		DefaultStatus: http.StatusNoContent,
		Errors:        writeErrors,
	}, func(ctx context.Context, input *idPath) (*struct{}, error) {
		if err := repo.Delete(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})
}
