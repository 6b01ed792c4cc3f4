package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/wbs/internal/domain"
)

// runDashboard runs the full-screen dashboard until the user quits.
func runDashboard(ctx context.Context, app *App) error {
	m := newAppModel(app, domain.Today())
	m.state.Ctx = ctx
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
