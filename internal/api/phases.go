package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
)

func registerPhases(api huma.API, repo repository.PhaseRepo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-phases",
		Method:      http.MethodGet,
		Path:        "/phases",
		Summary:     "List phases by sort order",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []Phase `json:"body"`
	}, error) {
		rows, err := repo.List(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]Phase, 0, len(rows))
		for _, p := range rows {
			out = append(out, PhaseFromDomain(p))
		}
		return &struct {
			Body []Phase `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-phase",
		Method:        http.MethodPost,
		Path:          "/phases",
		Summary:       "Insert a phase and return the stored row",
		DefaultStatus: http.StatusCreated,
		Errors:        writeErrors,
	}, func(ctx context.Context, input *struct {
		Body CreatePhaseRequest `json:"body"`
	}) (*struct {
		Body Phase `json:"body"`
	}, error) {
		created, err := repo.Create(ctx, domain.Phase{Name: input.Body.Name, SortOrder: input.Body.SortOrder})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body Phase `json:"body"`
		}{Body: PhaseFromDomain(created)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "update-phase",
		Method:        http.MethodPatch,
		Path:          "/phases/{id}",
		Summary:       "Update phase columns",
		DefaultStatus: http.StatusNoContent,
		Errors:        writeErrors,
	}, func(ctx context.Context, input *struct {
		idPath
		Body UpdatePhaseRequest `json:"body"`
	}) (*struct{}, error) {
		if err := repo.Update(ctx, input.ID, input.Body.Domain()); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-phase",
		Method:        http.MethodDelete,
		Path:          "/phases/{id}",
		Summary:       "Delete a phase",
		DefaultStatus: http.StatusNoContent,
		Errors:        writeErrors,
	}, func(ctx context.Context, input *idPath) (*struct{}, error) {
		if err := repo.Delete(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})
}
