package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/gantt"
	"github.com/alexanderramin/wbs/internal/hierarchy"
	"github.com/alexanderramin/wbs/internal/store"
	"github.com/alexanderramin/wbs/internal/timeline"
)

// Dashboard geometry, in terminal cells.
const (
	listWidth = 40            // outline pane
	ganttX    = listWidth + 1 // first timeline column, after the divider
	bodyY     = 4             // app header (2) + timeline header (2)

	defaultDayCells = 3
	stepDays        = 7 // days moved by h/l and shift+wheel
	wheelRows       = 3
)

type dashboardKeys struct {
	Up, Down, Toggle, Indent, Outdent, MoveDown, MoveUp key.Binding
	Add, Edit, Delete, Status, AddPhase, AddCategory    key.Binding
	Left, Right, Today, YearStart, PrevYear, NextYear   key.Binding
	Goto                                                key.Binding
	PhaseFilter, OwnerFilter, Refresh, Help, Quit       key.Binding
}

func newDashboardKeys() dashboardKeys {
	b := func(help string, desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
	}
	return dashboardKeys{
		Up:          b("k/↑", "up", "k", "up"),
		Down:        b("j/↓", "down", "j", "down"),
		Toggle:      b("tab", "collapse/expand", "tab", "enter"),
		Indent:      b(">", "indent", ">"),
		Outdent:     b("<", "outdent", "<"),
		MoveDown:    b("J", "move down", "J"),
		MoveUp:      b("K", "move up", "K"),
		Add:         b("a", "add task", "a"),
		Edit:        b("e", "edit", "e"),
		Delete:      b("x", "delete", "x"),
		Status:      b("s", "cycle status", "s"),
		AddPhase:    b("p", "add phase", "p"),
		AddCategory: b("c", "add category", "c"),
		Left:        b("h/←", "earlier", "h", "left"),
		Right:       b("l/→", "later", "l", "right"),
		Today:       b("t", "today", "t"),
		YearStart:   b("y", "start of year", "y"),
		PrevYear:    b("[", "previous year", "["),
		NextYear:    b("]", "next year", "]"),
		Goto:        b("g", "go to date", "g"),
		PhaseFilter: b("f", "phase filter", "f"),
		OwnerFilter: b("o", "owner filter", "o"),
		Refresh:     b("r", "refresh", "r"),
		Help:        b("?", "help", "?"),
		Quit:        b("q", "quit", "q"),
	}
}

// savedMsg reports the end of one store write.
type savedMsg struct {
	err    error
	done   string
	follow int64 // task to keep the cursor on
}

// labelTickMsg settles the current-view label after scrolling.
type labelTickMsg struct{}

func isDashboardMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case savedMsg, labelTickMsg, spinner.TickMsg:
		return true
	}
	return false
}

// confirmPrompt is an inline y/n question shown above the timeline.
type confirmPrompt struct {
	prompt string
	run    func() tea.Cmd
}

// dashboardView is the outline and Gantt timeline side by side.
type dashboardView struct {
	state *SharedState
	keys  dashboardKeys

	filter    hierarchy.Filter
	collapsed hierarchy.Collapsed
	sections  map[string]bool
	rows      []row
	cursor    int

	listTop  *timeline.Offset
	ganttTop *timeline.Offset
	window   *timeline.Window
	engine   *gantt.Engine
	reorder  gantt.Reorder
	dragRow  int
	placed   bool

	spinner  spinner.Model
	inflight int
	confirm  *confirmPrompt
}

func newDashboardView(state *SharedState) *dashboardView {
	cfg := state.App.Config
	dayWidth := cfg.DayWidth
	if dayWidth <= 0 {
		dayWidth = defaultDayCells
	}
	var opts []timeline.WindowOption
	if cfg.Overscan > 0 {
		opts = append(opts, timeline.WithOverscan(cfg.Overscan))
	}
	if cfg.ScrollThrottle > 0 {
		opts = append(opts, timeline.WithLabelThrottle(cfg.ScrollThrottle))
	}
	window := timeline.NewWindow(timeline.NewCalendar(state.Today), dayWidth, opts...)
	listTop, ganttTop := timeline.NewLinkedOffsets()

	d := &dashboardView{
		state:     state,
		keys:      newDashboardKeys(),
		filter:    hierarchy.Filter{Phase: hierarchy.All, Owner: hierarchy.All},
		collapsed: hierarchy.Collapsed{},
		sections:  map[string]bool{},
		listTop:   listTop,
		ganttTop:  ganttTop,
		window:    window,
		engine:    gantt.NewEngine(window, gantt.WithHandleWidth(1), gantt.WithClickSlop(0)),
		dragRow:   -1,
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(formatter.StyleYellow)),
	}
	d.rebuild()
	return d
}

func (d *dashboardView) Init() tea.Cmd { return nil }

func (d *dashboardView) ID() ViewID    { return ViewDashboard }
func (d *dashboardView) Title() string { return "" }

func (d *dashboardView) ShortHelp() []key.Binding {
	if d.confirm != nil {
		return []key.Binding{
			key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
			key.NewBinding(key.WithKeys("n"), key.WithHelp("any key", "cancel")),
		}
	}
	k := d.keys
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Status, k.Today, k.Help, k.Quit}
}

// bodyHeight is the number of rows that fit under the timeline header.
func (d *dashboardView) bodyHeight() int {
	return max(d.state.ContentHeight()-2, 1)
}

// rebuild recomputes the rows from the store, keeping the cursor on the
// same entity when it is still visible.
func (d *dashboardView) rebuild() {
	d.rebuildFollowing(0)
}

func (d *dashboardView) rebuildFollowing(taskID int64) {
	var prev string
	if d.cursor >= 0 && d.cursor < len(d.rows) {
		prev = d.rows[d.cursor].key()
	}
	s := d.state.Store
	d.rows = buildRows(s.Tasks(), s.Phases(), s.Categories(), d.filter, d.collapsed, d.sections)

	switch {
	case taskID != 0 && indexOfTask(d.rows, taskID) >= 0:
		d.cursor = indexOfTask(d.rows, taskID)
	case prev != "":
		for i, r := range d.rows {
			if r.key() == prev {
				d.cursor = i
				break
			}
		}
	}
	d.cursor = min(max(d.cursor, 0), max(len(d.rows)-1, 0))

	limit := len(d.rows) - d.bodyHeight()
	d.listTop.SetMax(limit)
	d.ganttTop.SetMax(limit)
	d.keepCursorVisible()
}

func (d *dashboardView) keepCursorVisible() {
	top := d.listTop.ScrollTop()
	switch {
	case d.cursor < top:
		d.listTop.SetScrollTop(d.cursor)
	case d.cursor >= top+d.bodyHeight():
		d.listTop.SetScrollTop(d.cursor - d.bodyHeight() + 1)
	}
}

func (d *dashboardView) current() (row, bool) {
	if d.cursor < 0 || d.cursor >= len(d.rows) {
		return row{}, false
	}
	return d.rows[d.cursor], true
}

// saving is the header indicator while writes are in flight.
func (d *dashboardView) saving() string {
	if d.inflight == 0 && !d.state.Store.Saving() {
		return ""
	}
	return d.spinner.View() + formatter.Dim(" saving…")
}

// save runs fn as a command and reports its outcome with a savedMsg.
func (d *dashboardView) save(done string, follow int64, fn func(ctx context.Context) error) tea.Cmd {
	d.inflight++
	ctx := d.state.ctx()
	return tea.Batch(
		func() tea.Msg { return savedMsg{err: fn(ctx), done: done, follow: follow} },
		d.spinner.Tick,
	)
}

// ── update ───────────────────────────────────────────────────────────────────

func (d *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.window.SetViewportWidth(max(msg.Width-ganttX, 0))
		if !d.placed {
			d.placed = true
			d.window.ScrollToToday()
			d.window.SettleLabel()
		}
		d.rebuild()
		return d, nil

	case tea.KeyMsg:
		return d, d.handleKey(msg)

	case tea.MouseMsg:
		return d, d.handleMouse(msg)

	case savedMsg:
		d.inflight = max(d.inflight-1, 0)
		d.rebuildFollowing(msg.follow)
		switch {
		case errors.Is(msg.err, store.ErrCancelled):
			return d, flash("Cancelled.")
		case msg.err != nil:
			return d, flashError(msg.err)
		case msg.done != "":
			return d, flash(msg.done)
		}
		return d, nil

	case boardChangedMsg:
		d.rebuild()
		return d, nil

	case labelTickMsg:
		d.window.SettleLabel()
		return d, nil

	case spinner.TickMsg:
		if d.inflight == 0 && !d.state.Store.Saving() {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	}
	return d, nil
}

// scrolled schedules a label refresh if none is pending.
func (d *dashboardView) scrolled() tea.Cmd {
	if !d.window.TakeLabelTick() {
		return nil
	}
	return tea.Tick(d.window.LabelThrottle(), func(time.Time) tea.Msg { return labelTickMsg{} })
}

func (d *dashboardView) moveCursor(delta int) {
	if len(d.rows) == 0 {
		return
	}
	d.cursor = min(max(d.cursor+delta, 0), len(d.rows)-1)
	d.keepCursorVisible()
}

func (d *dashboardView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if d.confirm != nil {
		c := d.confirm
		d.confirm = nil
		if msg.String() == "y" || msg.String() == "Y" {
			return c.run()
		}
		return flash("Cancelled.")
	}
	if d.engine.Active() || d.reorder.Dragging() != 0 {
		if msg.Type == tea.KeyEsc {
			d.cancelDrags()
		}
		return nil
	}

	k := d.keys
	switch {
	case key.Matches(msg, k.Up):
		d.moveCursor(-1)
	case key.Matches(msg, k.Down):
		d.moveCursor(1)
	case key.Matches(msg, k.Toggle):
		d.toggle(d.cursor)
	case key.Matches(msg, k.Indent):
		return d.indent(1)
	case key.Matches(msg, k.Outdent):
		return d.indent(-1)
	case key.Matches(msg, k.MoveDown):
		return d.shift(1)
	case key.Matches(msg, k.MoveUp):
		return d.shift(-1)
	case key.Matches(msg, k.Add):
		r, _ := d.current()
		return d.addTaskForm(r.bucket(), domain.Date{}, domain.Date{})
	case key.Matches(msg, k.Edit):
		return d.edit()
	case key.Matches(msg, k.Delete):
		return d.askDelete()
	case key.Matches(msg, k.Status):
		if r, ok := d.current(); ok && r.kind == rowTask {
			id := r.task.ID
			return d.save("", id, func(ctx context.Context) error { return d.state.Store.CycleStatus(ctx, id) })
		}
	case key.Matches(msg, k.AddPhase):
		return d.addPhaseForm()
	case key.Matches(msg, k.AddCategory):
		return d.addCategoryForm()
	case key.Matches(msg, k.Left):
		d.window.ScrollBy(-stepDays * d.window.DayWidth())
		return d.scrolled()
	case key.Matches(msg, k.Right):
		d.window.ScrollBy(stepDays * d.window.DayWidth())
		return d.scrolled()
	case key.Matches(msg, k.Today):
		d.window.ScrollToToday()
		return d.scrolled()
	case key.Matches(msg, k.YearStart):
		d.window.ScrollToYear(d.window.Calendar().DateAt(d.window.CenterIndex()).Year)
		return d.scrolled()
	case key.Matches(msg, k.PrevYear):
		d.window.ScrollByYears(-1)
		return d.scrolled()
	case key.Matches(msg, k.NextYear):
		d.window.ScrollByYears(1)
		return d.scrolled()
	case key.Matches(msg, k.Goto):
		return d.gotoForm()
	case key.Matches(msg, k.PhaseFilter):
		d.filter.Phase = cycle(append([]string{hierarchy.All}, hierarchy.PhaseNames(d.state.Store.Phases())...), d.filter.Phase)
		d.rebuild()
	case key.Matches(msg, k.OwnerFilter):
		owners := []string{hierarchy.All}
		for _, o := range domain.Owners {
			owners = append(owners, string(o))
		}
		d.filter.Owner = cycle(owners, d.filter.Owner)
		d.rebuild()
	case key.Matches(msg, k.Refresh):
		return d.save("Refreshed.", 0, d.state.Store.FetchAll)
	case key.Matches(msg, k.Help):
		return pushView(newHelpView(d.state, d.keys))
	}
	return nil
}

// cycle returns the value after cur in values, wrapping around.
func cycle(values []string, cur string) string {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

// toggle collapses or expands the header or parent task at row i.
func (d *dashboardView) toggle(i int) {
	if i < 0 || i >= len(d.rows) {
		return
	}
	r := d.rows[i]
	switch {
	case r.kind == rowTask && r.parent:
		d.collapsed.Toggle(r.task.ID)
	case r.kind == rowTask:
		return
	default:
		if d.sections[r.key()] {
			delete(d.sections, r.key())
		} else {
			d.sections[r.key()] = true
		}
	}
	d.rebuild()
}

func (d *dashboardView) indent(delta int) tea.Cmd {
	r, ok := d.current()
	if !ok || r.kind != rowTask {
		return nil
	}
	id := r.task.ID
	return d.save("", id, func(ctx context.Context) error {
		_, err := d.state.Store.ChangeIndent(ctx, id, delta)
		return err
	})
}

func (d *dashboardView) shift(delta int) tea.Cmd {
	r, ok := d.current()
	if !ok || r.kind != rowTask {
		return nil
	}
	id := r.task.ID
	return d.save("", id, func(ctx context.Context) error {
		_, err := d.state.Store.ShiftTask(ctx, id, delta)
		return err
	})
}

// askDelete arms the inline confirmation for the row under the cursor.
// Headers with nothing under them are deleted at once.
func (d *dashboardView) askDelete() tea.Cmd {
	r, ok := d.current()
	if !ok {
		return nil
	}
	s := d.state.Store
	var prompt, done string
	var del func(ctx context.Context) error
	switch r.kind {
	case rowTask:
		id := r.task.ID
		prompt, done = fmt.Sprintf("Delete task %q?", r.task.Name), "Task deleted."
		del = func(ctx context.Context) error { return s.DeleteTask(ctx, id, store.Yes) }
	case rowPhase:
		if r.phaseID == 0 {
			return nil
		}
		id := r.phaseID
		prompt, done = s.PhaseDeletePrompt(id), "Phase deleted."
		del = func(ctx context.Context) error { return s.DeletePhase(ctx, id, store.Yes) }
	case rowCategory:
		if r.categoryID == 0 {
			return nil
		}
		id := r.categoryID
		prompt, done = s.CategoryDeletePrompt(id), "Category deleted."
		del = func(ctx context.Context) error { return s.DeleteCategory(ctx, id, store.Yes) }
	}
	if prompt == "" {
		return d.save(done, 0, del)
	}
	d.confirm = &confirmPrompt{
		prompt: prompt,
		run:    func() tea.Cmd { return d.save(done, 0, del) },
	}
	return nil
}

func (d *dashboardView) cancelDrags() {
	if d.engine.Active() {
		st := d.engine.State()
		d.engine.Cancel()
		if st.Mode != gantt.Create {
			d.state.Store.PreviewTask(st.TaskID, domain.DatesPatch(st.OriginalStart, st.OriginalEnd))
		}
	}
	d.reorder.Cancel()
	d.dragRow = -1
	d.rebuild()
}
