package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/alexanderramin/wbs/internal/testutil"
)

// seedBuild creates phase "Build" with two dated tasks, A then B.
func seedBuild(t *testing.T) func(repos repository.Repos) {
	return func(repos repository.Repos) {
		testutil.SeedPhase(t, repos, "Build", 0)
		testutil.SeedTask(t, repos, testutil.NewTestTask("Build", "Alpha",
			testutil.WithSortOrder(1), testutil.WithDates("2026-02-02", "2026-02-06")))
		testutil.SeedTask(t, repos, testutil.NewTestTask("Build", "Bravo",
			testutil.WithSortOrder(2), testutil.WithDates("2026-02-09", "2026-02-10")))
	}
}

func listTasks(t *testing.T, repos repository.Repos) map[string]domain.Task {
	t.Helper()
	tasks, err := repos.Tasks.List(context.Background())
	require.NoError(t, err)
	out := map[string]domain.Task{}
	for _, task := range tasks {
		out[task.Name] = task
	}
	return out
}

func TestTUI_EmptyBoard(t *testing.T) {
	d, _ := NewTestDriver(t, nil)

	assert.Equal(t, ViewDashboard, d.ActiveViewID())
	assert.Equal(t, 1, d.ViewStackLen())
	assert.Contains(t, d.View(), "No tasks. Press a to add one.")
}

func TestTUI_DashboardShowsTasks(t *testing.T) {
	d, _ := NewTestDriver(t, seedBuild(t))

	view := d.View()
	assert.Contains(t, view, "Build (2)")
	assert.Contains(t, view, "Alpha")
	assert.Contains(t, view, "Bravo")
	assert.Contains(t, view, "Feb 2026")
	assert.Len(t, d.Dashboard().rows, 3)
}

func TestTUI_QuitWithQ(t *testing.T) {
	d, _ := NewTestDriver(t, nil)
	d.PressKey('q')
	assert.True(t, d.IsQuitting())
}

func TestTUI_QuitWithCtrlC(t *testing.T) {
	d, _ := NewTestDriver(t, nil)
	d.PressCtrlC()
	assert.True(t, d.IsQuitting())
}

func TestTUI_CursorAndCollapse(t *testing.T) {
	d, _ := NewTestDriver(t, seedBuild(t))
	dash := d.Dashboard()

	d.PressKey('j')
	assert.Equal(t, 1, dash.cursor)
	d.PressKey('k')
	d.PressKey('k')
	assert.Equal(t, 0, dash.cursor)

	d.PressTab()
	assert.Len(t, dash.rows, 1)
	assert.Contains(t, d.View(), "▸ Build (2)")

	d.PressTab()
	assert.Len(t, dash.rows, 3)
}

func TestTUI_EditFormOpensAndCancels(t *testing.T) {
	d, _ := NewTestDriver(t, seedBuild(t))

	d.PressKey('j')
	d.PressKey('e')
	assert.Equal(t, ViewForm, d.ActiveViewID())
	assert.Equal(t, 2, d.ViewStackLen())

	d.PressEsc()
	assert.Equal(t, ViewDashboard, d.ActiveViewID())
	assert.Equal(t, "Cancelled.", d.Flash())
}

func TestTUI_HelpToggles(t *testing.T) {
	d, _ := NewTestDriver(t, nil)

	d.PressKey('?')
	assert.Equal(t, ViewHelp, d.ActiveViewID())
	view := d.View()
	assert.Contains(t, view, "TIMELINE")
	assert.Contains(t, view, "start of year")
	assert.Contains(t, view, "MOUSE")
	assert.Contains(t, view, "shift+wheel scrolls days", "help fits without scrolling")

	d.PressKey('?')
	assert.Equal(t, ViewDashboard, d.ActiveViewID())
}

func TestTUI_DeleteConfirmed(t *testing.T) {
	d, repos := NewTestDriver(t, seedBuild(t))

	d.PressKey('j')
	d.PressKey('x')
	assert.Contains(t, d.View(), `Delete task "Alpha"?`)

	d.PressKey('y')
	assert.Equal(t, "Task deleted.", d.Flash())
	tasks := listTasks(t, repos)
	assert.NotContains(t, tasks, "Alpha")
	assert.Contains(t, tasks, "Bravo")
	assert.Len(t, d.Dashboard().rows, 2)
}

func TestTUI_DeleteDeclined(t *testing.T) {
	d, repos := NewTestDriver(t, seedBuild(t))

	d.PressKey('j')
	d.PressKey('x')
	// q answers the prompt instead of quitting.
	d.PressKey('q')
	assert.False(t, d.IsQuitting())
	assert.Equal(t, "Cancelled.", d.Flash())
	assert.Len(t, listTasks(t, repos), 2)
}

func TestTUI_DeleteEmptyPhaseNeedsNoConfirmation(t *testing.T) {
	d, repos := NewTestDriver(t, func(repos repository.Repos) {
		testutil.SeedPhase(t, repos, "Empty", 0)
	})

	d.PressKey('x')
	assert.Nil(t, d.Dashboard().confirm)
	assert.Equal(t, "Phase deleted.", d.Flash())
	phases, err := repos.Phases.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, phases)
}

func TestTUI_DeletePhaseWithTasksCascades(t *testing.T) {
	d, repos := NewTestDriver(t, seedBuild(t))

	d.PressKey('x')
	require.NotNil(t, d.Dashboard().confirm)
	d.PressKey('y')

	assert.Empty(t, listTasks(t, repos))
	assert.Contains(t, d.View(), "No tasks. Press a to add one.")
}

func TestTUI_CycleStatus(t *testing.T) {
	d, repos := NewTestDriver(t, seedBuild(t))

	d.PressKey('j')
	d.PressKey('s')

	assert.Equal(t, domain.StatusInProgress, listTasks(t, repos)["Alpha"].Status)
}

func TestTUI_IndentMakesParent(t *testing.T) {
	d, repos := NewTestDriver(t, seedBuild(t))
	dash := d.Dashboard()

	d.PressKey('j')
	d.PressKey('j')
	d.PressKey('>')
	assert.Equal(t, 1, listTasks(t, repos)["Bravo"].IndentLevel)
	require.Len(t, dash.rows, 3)
	assert.True(t, dash.rows[1].parent)

	// Collapsing Alpha hides Bravo.
	d.PressKey('k')
	d.PressTab()
	assert.Len(t, dash.rows, 2)
}

func TestTUI_MoveKeys(t *testing.T) {
	d, repos := NewTestDriver(t, seedBuild(t))

	d.PressKey('j')
	d.PressKey('J')

	tasks := listTasks(t, repos)
	assert.Greater(t, tasks["Alpha"].SortOrder, tasks["Bravo"].SortOrder)
	// The cursor follows the moved task.
	dash := d.Dashboard()
	assert.Equal(t, "Alpha", dash.rows[dash.cursor].task.Name)
}

func TestTUI_PhaseFilter(t *testing.T) {
	d, _ := NewTestDriver(t, func(repos repository.Repos) {
		seedBuild(t)(repos)
		testutil.SeedPhase(t, repos, "Ship", 1)
		testutil.SeedTask(t, repos, testutil.NewTestTask("Ship", "Launch"))
	})

	assert.Contains(t, d.View(), "Launch")
	d.PressKey('f')
	view := d.View()
	assert.Contains(t, view, "phase: Build")
	assert.NotContains(t, view, "Launch")

	d.PressKey('f')
	d.PressKey('f')
	assert.Contains(t, d.View(), "all tasks")
}

func TestTUI_TimelineScrolls(t *testing.T) {
	d, _ := NewTestDriver(t, nil)
	dash := d.Dashboard()
	start := dash.window.ScrollLeft()

	d.PressKey('l')
	assert.Equal(t, start+stepDays*defaultDayCells, dash.window.ScrollLeft())

	d.PressKey('[')
	assert.Equal(t, 2025, dash.window.CurrentView().Year)

	d.PressKey('t')
	assert.Equal(t, start, dash.window.ScrollLeft())
}

func TestTUI_TodayAlignsLeftEdge(t *testing.T) {
	d, _ := NewTestDriver(t, nil)
	w := d.Dashboard().window
	cal := w.Calendar()
	assert.Equal(t, cal.TodayIndex(), w.LeftIndex(), "opens on today")

	d.PressKey(']')
	require.NotEqual(t, cal.TodayIndex(), w.LeftIndex())
	d.PressKey('t')
	assert.Equal(t, cal.TodayIndex(), w.LeftIndex())
	assert.Equal(t, testToday, cal.DateAt(w.LeftIndex()))
}

func TestTUI_YearStart(t *testing.T) {
	d, _ := NewTestDriver(t, nil)
	w := d.Dashboard().window
	cal := w.Calendar()

	d.PressKey('y')
	assert.Equal(t, cal.YearStartIndex(2026), w.LeftIndex())
	assert.Equal(t, domain.MustParseDate("2026-01-01"), cal.DateAt(w.LeftIndex()))

	d.PressKey('[')
	d.PressKey('l')
	d.PressKey('y')
	assert.Equal(t, domain.MustParseDate("2025-01-01"), cal.DateAt(w.LeftIndex()))
}

// ── mouse ────────────────────────────────────────────────────────────────────

func TestTUI_DragBarMovesDates(t *testing.T) {
	d, repos := NewTestDriver(t, seedBuild(t))

	x := dateX("2026-02-03") + 1
	d.Drag(x, rowY(1), x+6, rowY(1))

	alpha := listTasks(t, repos)["Alpha"]
	assert.Equal(t, domain.MustParseDate("2026-02-04"), alpha.StartDate)
	assert.Equal(t, domain.MustParseDate("2026-02-08"), alpha.EndDate)
	assert.False(t, d.Dashboard().engine.Active())
}

func TestTUI_DragRightEdgeResizes(t *testing.T) {
	d, repos := NewTestDriver(t, seedBuild(t))

	x := dateX("2026-02-06") + defaultDayCells - 1
	d.Drag(x, rowY(1), x+3, rowY(1))

	alpha := listTasks(t, repos)["Alpha"]
	assert.Equal(t, domain.MustParseDate("2026-02-02"), alpha.StartDate)
	assert.Equal(t, domain.MustParseDate("2026-02-07"), alpha.EndDate)
}

func TestTUI_EscCancelsDrag(t *testing.T) {
	d, repos := NewTestDriver(t, seedBuild(t))

	x := dateX("2026-02-03") + 1
	d.MouseDown(x, rowY(1))
	d.MouseMove(x+9, rowY(1))
	assert.NotEqual(t, domain.MustParseDate("2026-02-02"), d.StoreTask(1).StartDate)

	d.PressEsc()
	assert.Equal(t, domain.MustParseDate("2026-02-02"), d.StoreTask(1).StartDate)
	assert.Equal(t, domain.MustParseDate("2026-02-02"), listTasks(t, repos)["Alpha"].StartDate)
}

func TestTUI_ClickBarOpensEditor(t *testing.T) {
	d, _ := NewTestDriver(t, seedBuild(t))

	d.Click(dateX("2026-02-03")+1, rowY(1))
	assert.Equal(t, ViewForm, d.ActiveViewID())
}

func TestTUI_DragOnHeaderStartsNewTask(t *testing.T) {
	d, _ := NewTestDriver(t, seedBuild(t))

	x := dateX("2026-02-16")
	d.Drag(x, rowY(0), x+3*defaultDayCells, rowY(0))
	assert.Equal(t, ViewForm, d.ActiveViewID())
}

func TestTUI_ClickHeaderCollapses(t *testing.T) {
	d, _ := NewTestDriver(t, seedBuild(t))

	d.Click(5, rowY(0))
	assert.Len(t, d.Dashboard().rows, 1)
}

func TestTUI_ReorderInList(t *testing.T) {
	d, repos := NewTestDriver(t, seedBuild(t))

	d.Drag(10, rowY(1), 10, rowY(2))

	tasks := listTasks(t, repos)
	assert.Greater(t, tasks["Alpha"].SortOrder, tasks["Bravo"].SortOrder)
	assert.Equal(t, int64(0), d.Dashboard().reorder.Dragging())
}

func TestTUI_WheelScrollsRows(t *testing.T) {
	d, _ := NewTestDriver(t, func(repos repository.Repos) {
		testutil.SeedPhase(t, repos, "Build", 0)
		for i := range 40 {
			testutil.SeedTask(t, repos, testutil.NewTestTask("Build", "Task",
				testutil.WithSortOrder(float64(i))))
		}
	})
	dash := d.Dashboard()

	d.Wheel(10, rowY(0), 2)
	assert.Equal(t, 2*wheelRows, dash.listTop.ScrollTop())
	assert.Equal(t, 2*wheelRows, dash.ganttTop.ScrollTop())

	d.Wheel(ganttX+5, rowY(0), -1)
	assert.Equal(t, wheelRows, dash.listTop.ScrollTop())
}

func TestTUI_ShiftWheelScrollsDays(t *testing.T) {
	d, _ := NewTestDriver(t, nil)
	dash := d.Dashboard()
	start := dash.window.ScrollLeft()

	d.Send(tea.MouseMsg{X: ganttX + 5, Y: rowY(0), Shift: true,
		Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, start+stepDays*defaultDayCells, dash.window.ScrollLeft())
}
