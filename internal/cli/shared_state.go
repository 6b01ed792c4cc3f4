package cli

import (
	"context"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/store"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App   *App
	Ctx   context.Context
	Store *store.Store
	Today domain.Date

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}

// ctx is the context store writes run under.
func (s *SharedState) ctx() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}
