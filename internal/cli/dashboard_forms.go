package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/hierarchy"
)

// addTaskForm opens the task form for a new task in b, prefilled with the
// given dates (zero for none).
func (d *dashboardView) addTaskForm(b domain.Bucket, start, end domain.Date) tea.Cmd {
	phases := hierarchy.PhaseNames(d.state.Store.Phases())
	if b.Phase == "" {
		b.Phase = phases[0]
	}
	v := taskFormFrom(domain.Task{Phase: b.Phase, Category: b.Category, StartDate: start, EndDate: end})
	form := newTaskForm(v, phases)
	s := d.state.Store
	return startFormCmd(d.state, "New task", form, func() tea.Cmd {
		var t domain.Task
		if err := v.apply(&t); err != nil {
			return flashError(err)
		}
		return d.saveCreated(func(ctx context.Context) (int64, error) {
			created, err := s.AddTask(ctx, t)
			return created.ID, err
		})
	})
}

// saveCreated is save for inserts, following the new task's id.
func (d *dashboardView) saveCreated(fn func(ctx context.Context) (int64, error)) tea.Cmd {
	d.inflight++
	ctx := d.state.ctx()
	return tea.Batch(
		func() tea.Msg {
			id, err := fn(ctx)
			return savedMsg{err: err, done: "Task added.", follow: id}
		},
		d.spinner.Tick,
	)
}

// edit opens the form for the row under the cursor: the task form, or a
// rename form for headers.
func (d *dashboardView) edit() tea.Cmd {
	r, ok := d.current()
	if !ok {
		return nil
	}
	switch r.kind {
	case rowTask:
		return d.editTaskForm(r.task.ID)
	case rowPhase:
		if r.phaseID == 0 {
			return flash("Phase has no row to rename; add it with p.")
		}
		return d.renameForm("Rename phase", r.phase, func(ctx context.Context, name string) error {
			return d.state.Store.RenamePhase(ctx, r.phaseID, name)
		})
	case rowCategory:
		if r.categoryID == 0 {
			return flash("Category has no row to rename; add it with c.")
		}
		return d.renameForm("Rename category", r.category, func(ctx context.Context, name string) error {
			return d.state.Store.RenameCategory(ctx, r.categoryID, name)
		})
	}
	return nil
}

func (d *dashboardView) editTaskForm(id int64) tea.Cmd {
	t, ok := d.state.Store.Task(id)
	if !ok {
		return nil
	}
	v := taskFormFrom(t)
	form := newTaskForm(v, hierarchy.PhaseNames(d.state.Store.Phases()))
	return startFormCmd(d.state, fmt.Sprintf("Edit #%d", id), form, func() tea.Cmd {
		if err := v.apply(&t); err != nil {
			return flashError(err)
		}
		return d.save("Task saved.", id, func(ctx context.Context) error { return d.state.Store.SaveTask(ctx, t) })
	})
}

func (d *dashboardView) renameForm(title, current string, rename func(ctx context.Context, name string) error) tea.Cmd {
	name := current
	return startFormCmd(d.state, title, newNameForm("Name", &name), func() tea.Cmd {
		if name == current {
			return nil
		}
		return d.save("Renamed.", 0, func(ctx context.Context) error { return rename(ctx, name) })
	})
}

func (d *dashboardView) addPhaseForm() tea.Cmd {
	var name string
	return startFormCmd(d.state, "New phase", newNameForm("Phase", &name), func() tea.Cmd {
		return d.save("Phase added.", 0, func(ctx context.Context) error {
			_, err := d.state.Store.AddPhase(ctx, name)
			return err
		})
	})
}

// addCategoryForm asks for a category in the cursor's phase by default.
func (d *dashboardView) addCategoryForm() tea.Cmd {
	phases := d.state.Store.Phases()
	if len(phases) == 0 {
		return flash("Add a phase first (p).")
	}
	phaseID := phases[0].ID
	if r, ok := d.current(); ok && r.phaseID != 0 {
		phaseID = r.phaseID
	}
	var name string
	return startFormCmd(d.state, "New category", newCategoryForm(phases, &name, &phaseID), func() tea.Cmd {
		return d.save("Category added.", 0, func(ctx context.Context) error {
			_, err := d.state.Store.AddCategory(ctx, name, phaseID)
			return err
		})
	})
}

func (d *dashboardView) gotoForm() tea.Cmd {
	value := d.window.CurrentView().String()
	return startFormCmd(d.state, "Go to date", newGotoForm(&value), func() tea.Cmd {
		date, err := domain.ParseDate(value)
		if err != nil {
			return flashError(err)
		}
		d.window.ScrollToDate(date)
		return d.scrolled()
	})
}
