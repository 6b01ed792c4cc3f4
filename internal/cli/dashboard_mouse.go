package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/gantt"
	"github.com/alexanderramin/wbs/internal/hierarchy"
)

// rowAt maps a screen line to a row index, or -1.
func (d *dashboardView) rowAt(y int) int {
	if y < bodyY || y >= bodyY+d.bodyHeight() {
		return -1
	}
	i := d.listTop.ScrollTop() + y - bodyY
	if i >= len(d.rows) {
		return -1
	}
	return i
}

func (d *dashboardView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if d.confirm != nil {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		dir := 1
		if msg.Button == tea.MouseButtonWheelUp {
			dir = -1
		}
		if msg.Shift {
			d.window.ScrollBy(dir * stepDays * d.window.DayWidth())
			return d.scrolled()
		}
		// Either pane scrolls both.
		if msg.X >= ganttX {
			d.ganttTop.ScrollBy(dir * wheelRows)
		} else {
			d.listTop.ScrollBy(dir * wheelRows)
		}
		return nil
	case tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		dir := 1
		if msg.Button == tea.MouseButtonWheelLeft {
			dir = -1
		}
		d.window.ScrollBy(dir * stepDays * d.window.DayWidth())
		return d.scrolled()
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if msg.X < listWidth {
			return d.pressList(msg)
		}
		if msg.X >= ganttX {
			return d.pressGantt(msg)
		}
	case tea.MouseActionMotion:
		switch {
		case d.engine.Active():
			d.dragTo(msg.X - ganttX)
		case d.reorder.Dragging() != 0:
			d.hoverList(msg)
		}
	case tea.MouseActionRelease:
		switch {
		case d.engine.Active():
			return d.releaseGantt(msg.X - ganttX)
		case d.reorder.Dragging() != 0:
			return d.dropList(msg)
		}
	}
	return nil
}

// ── outline pane: collapse and reorder ───────────────────────────────────────

func (d *dashboardView) pressList(msg tea.MouseMsg) tea.Cmd {
	i := d.rowAt(msg.Y)
	if i < 0 {
		return nil
	}
	d.cursor = i
	r := d.rows[i]
	if r.kind != rowTask {
		d.toggle(i)
		return nil
	}
	if err := d.reorder.Begin(r.task.ID); err != nil {
		return flashError(err)
	}
	return nil
}

// hoverList tracks the drop target. Rows below the dragged one drop after
// the target, rows above drop before it.
func (d *dashboardView) hoverList(msg tea.MouseMsg) {
	i := d.rowAt(msg.Y)
	if i < 0 || msg.X >= listWidth {
		d.reorder.Leave()
		return
	}
	r := d.rows[i]
	switch r.kind {
	case rowPhase:
		d.reorder.OverHeader(domain.Bucket{Phase: r.phase}, 0)
	case rowCategory:
		d.reorder.OverHeader(r.bucket(), r.categoryID)
	default:
		pos := hierarchy.DropBefore
		if i > indexOfTask(d.rows, d.reorder.Dragging()) {
			pos = hierarchy.DropAfter
		}
		d.reorder.Over(r.task, pos)
	}
}

func (d *dashboardView) dropList(msg tea.MouseMsg) tea.Cmd {
	d.hoverList(msg)
	id, patch, ok := d.reorder.Drop(d.state.Store.Tasks())
	if !ok {
		return nil
	}
	return d.save("", id, func(ctx context.Context) error { return d.state.Store.UpdateTask(ctx, id, patch) })
}

// ── timeline pane: move, resize and create ───────────────────────────────────

func (d *dashboardView) pressGantt(msg tea.MouseMsg) tea.Cmd {
	i := d.rowAt(msg.Y)
	if i < 0 {
		return nil
	}
	d.cursor = i
	r := d.rows[i]
	x := msg.X - ganttX

	var err error
	switch {
	case r.kind == rowTask && r.task.HasDates():
		mode := d.engine.HitTask(r.task, x)
		if mode == gantt.Idle {
			return nil
		}
		err = d.engine.Begin(r.task, mode, x)
	case r.kind == rowTask:
		err = d.engine.BeginCreate(r.task.Bucket(), r.task.ID, x)
	default:
		err = d.engine.BeginCreate(r.bucket(), 0, x)
	}
	if err != nil {
		return flashError(err)
	}
	d.dragRow = i
	return nil
}

// dragTo updates the gesture and, for move and resize, previews the new
// dates locally.
func (d *dashboardView) dragTo(x int) {
	if !d.engine.Drag(x) {
		return
	}
	st := d.engine.State()
	if st.Mode != gantt.Create {
		d.state.Store.PreviewTask(st.TaskID, domain.DatesPatch(st.Start, st.End))
		d.rebuild()
	}
}

func (d *dashboardView) releaseGantt(x int) tea.Cmd {
	// The preview must match what Release decides.
	d.dragTo(x)
	out := d.engine.Release(x)
	d.dragRow = -1

	s := d.state.Store
	switch out.Kind {
	case gantt.OutcomeCommitDates, gantt.OutcomeSetDates:
		id, start, end := out.TaskID, out.Start, out.End
		return d.save("", id, func(ctx context.Context) error { return s.CommitDates(ctx, id, start, end) })
	case gantt.OutcomeClick:
		return d.editTaskForm(out.TaskID)
	case gantt.OutcomeCreateTask:
		return d.addTaskForm(out.Bucket, out.Start, out.End)
	}
	return nil
}
