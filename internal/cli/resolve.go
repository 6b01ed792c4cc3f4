package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/store"
)

// resolvePhase accepts a phase id or an exact, case-insensitive name.
func resolvePhase(s *store.Store, input string) (domain.Phase, error) {
	if id, err := strconv.ParseInt(input, 10, 64); err == nil {
		if p, ok := s.Phase(id); ok {
			return p, nil
		}
	}
	for _, p := range s.Phases() {
		if strings.EqualFold(p.Name, input) {
			return p, nil
		}
	}
	return domain.Phase{}, fmt.Errorf("phase %q: %w", input, store.ErrUnknownPhase)
}

// resolveCategory accepts a category id, or a name looked up inside phase.
func resolveCategory(s *store.Store, input string, phase domain.Phase) (domain.Category, error) {
	if id, err := strconv.ParseInt(input, 10, 64); err == nil {
		if c, ok := s.Category(id); ok {
			return c, nil
		}
	}
	for _, c := range s.CategoriesOf(phase.ID) {
		if strings.EqualFold(c.Name, input) {
			return c, nil
		}
	}
	if phase.ID == 0 {
		return domain.Category{}, fmt.Errorf("category %q not found (use --phase to look up by name)", input)
	}
	return domain.Category{}, fmt.Errorf("category %q not found in phase %q", input, phase.Name)
}

func resolveTask(s *store.Store, input string) (domain.Task, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(input, "#"), 10, 64)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task id %q is not a number", input)
	}
	t, ok := s.Task(id)
	if !ok {
		return domain.Task{}, fmt.Errorf("task #%d not found", id)
	}
	return t, nil
}

// confirmer answers destructive prompts: --yes skips the question, a
// terminal gets a huh confirm, and anything else is refused.
func confirmer(app *App, yes bool) store.Confirmer {
	if yes {
		return store.Yes
	}
	return store.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		if !app.interactive() {
			return false, errors.New("refusing to delete without confirmation (pass --yes)")
		}
		var ok bool
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		)).WithTheme(wbsHuhTheme()).RunWithContext(ctx)
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return ok, err
	})
}
