package gantt

import (
	"testing"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/hierarchy"
	"github.com/alexanderramin/wbs/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, timeline.Calendar) {
	t.Helper()
	cal := timeline.NewCalendar(domain.MustParseDate("2026-06-15"))
	w := timeline.NewWindow(cal, 32)
	w.SetViewportWidth(640)
	return NewEngine(w), cal
}

func barTask() domain.Task {
	return domain.Task{
		ID:        7,
		Phase:     "Phase 1",
		StartDate: domain.MustParseDate("2026-02-10"),
		EndDate:   domain.MustParseDate("2026-02-12"),
	}
}

func TestEngine_MoveTwoDaysKeepsSpan(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Begin(barTask(), Move, 100))
	assert.Equal(t, Move, e.State().Mode)

	assert.True(t, e.Drag(164))
	st := e.State()
	assert.Equal(t, domain.MustParseDate("2026-02-12"), st.Start)
	assert.Equal(t, domain.MustParseDate("2026-02-14"), st.End)

	out := e.Release(164)
	assert.Equal(t, OutcomeCommitDates, out.Kind)
	assert.Equal(t, int64(7), out.TaskID)
	assert.Equal(t, domain.MustParseDate("2026-02-12"), out.Start)
	assert.Equal(t, domain.MustParseDate("2026-02-14"), out.End)
	assert.Equal(t, 3, domain.Task{StartDate: out.Start, EndDate: out.End}.DurationDays())
	assert.False(t, e.Active())
}

func TestEngine_ZeroDeltaDoesNotCommit(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Begin(barTask(), Move, 100))
	assert.False(t, e.Drag(110), "10px is under half a day")

	out := e.Release(110)
	assert.Equal(t, OutcomeNone, out.Kind, "travel beyond click slop is not a click")
}

func TestEngine_ClickWithinSlop(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Begin(barTask(), Move, 100))
	out := e.Release(102)
	assert.Equal(t, OutcomeClick, out.Kind)
	assert.Equal(t, int64(7), out.TaskID)
}

func TestEngine_DragBackToAnchorDoesNotCommit(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Begin(barTask(), Move, 100))
	require.True(t, e.Drag(164))
	require.True(t, e.Drag(100))
	assert.Equal(t, barTask().StartDate, e.State().Start)

	out := e.Release(100)
	assert.Equal(t, OutcomeNone, out.Kind)
}

func TestEngine_ResizeStartNeverCrossesEnd(t *testing.T) {
	e, _ := newTestEngine(t)
	task := barTask()
	require.NoError(t, e.Begin(task, ResizeStart, 0))

	assert.False(t, e.Drag(96), "start would land after end")
	assert.Equal(t, task.StartDate, e.State().Start)
	assert.False(t, e.Drag(64), "start would equal end")

	assert.True(t, e.Drag(32))
	assert.Equal(t, domain.MustParseDate("2026-02-11"), e.State().Start)
	assert.Equal(t, task.EndDate, e.State().End)

	out := e.Release(200)
	assert.Equal(t, OutcomeCommitDates, out.Kind)
	assert.Equal(t, domain.MustParseDate("2026-02-11"), out.Start, "release over a rejected position keeps the last valid value")
	assert.True(t, out.Start.Before(out.End))
}

func TestEngine_ResizeEndNeverCrossesStart(t *testing.T) {
	e, _ := newTestEngine(t)
	task := barTask()
	require.NoError(t, e.Begin(task, ResizeEnd, 200))

	assert.False(t, e.Drag(200-96))
	assert.True(t, e.Drag(200-32))
	assert.Equal(t, domain.MustParseDate("2026-02-11"), e.State().End)

	assert.True(t, e.Drag(200+64))
	assert.Equal(t, domain.MustParseDate("2026-02-14"), e.State().End)
	assert.Equal(t, task.StartDate, e.State().Start)
}

func TestEngine_MoveOffAxisKeepsLastValid(t *testing.T) {
	e, cal := newTestEngine(t)
	task := domain.Task{ID: 3, StartDate: cal.DateAt(2), EndDate: cal.DateAt(4)}
	require.NoError(t, e.Begin(task, Move, 500))

	require.True(t, e.Drag(500-64))
	assert.Equal(t, cal.DateAt(0), e.State().Start)

	assert.False(t, e.Drag(500-160))
	out := e.Release(500 - 160)
	assert.Equal(t, OutcomeCommitDates, out.Kind)
	assert.Equal(t, cal.DateAt(0), out.Start)
	assert.Equal(t, cal.DateAt(2), out.End)
}

func TestEngine_BeginErrors(t *testing.T) {
	e, _ := newTestEngine(t)
	err := e.Begin(domain.Task{ID: 1}, Move, 0)
	assert.ErrorIs(t, err, ErrNotDraggable)

	err = e.Begin(barTask(), Create, 0)
	assert.ErrorIs(t, err, ErrNotDraggable)

	require.NoError(t, e.Begin(barTask(), Move, 0))
	assert.ErrorIs(t, e.Begin(barTask(), ResizeEnd, 0), ErrBusy)
	assert.ErrorIs(t, e.BeginCreate(domain.Bucket{}, 0, 0), ErrBusy)

	e.Cancel()
	assert.False(t, e.Active())
	assert.Equal(t, Outcome{}, e.Release(10))
}

func TestEngine_CreateOnBlankRow(t *testing.T) {
	e, cal := newTestEngine(t)
	bucket := domain.Bucket{Phase: "Phase 1", Category: "UI"}
	require.NoError(t, e.BeginCreate(bucket, 0, 40))
	assert.Equal(t, 1, e.State().StartIndex)

	assert.True(t, e.Drag(200))
	p, ok := e.CreatePreview()
	require.True(t, ok)
	assert.Equal(t, 32, p.Left)
	assert.Equal(t, 6*32, p.Width)
	assert.Equal(t, cal.DateAt(1), p.Start)
	assert.Equal(t, cal.DateAt(6), p.End)

	out := e.Release(200)
	assert.Equal(t, OutcomeCreateTask, out.Kind)
	assert.Equal(t, bucket, out.Bucket)
	assert.Equal(t, cal.DateAt(1), out.Start)
	assert.Equal(t, cal.DateAt(6), out.End)
}

func TestEngine_CreateBackwardsNormalizes(t *testing.T) {
	e, cal := newTestEngine(t)
	require.NoError(t, e.BeginCreate(domain.Bucket{Phase: "Phase 1"}, 0, 200))
	out := e.Release(40)
	assert.Equal(t, OutcomeCreateTask, out.Kind)
	assert.Equal(t, cal.DateAt(1), out.Start)
	assert.Equal(t, cal.DateAt(6), out.End)
}

func TestEngine_CreateOnDatelessTaskSetsDates(t *testing.T) {
	e, cal := newTestEngine(t)
	require.NoError(t, e.BeginCreate(domain.Bucket{Phase: "Phase 1"}, 42, 0))
	out := e.Release(96)
	assert.Equal(t, OutcomeSetDates, out.Kind)
	assert.Equal(t, int64(42), out.TaskID)
	assert.Equal(t, cal.DateAt(0), out.Start)
	assert.Equal(t, cal.DateAt(3), out.End)
}

func TestEngine_CreateSameIndex(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.BeginCreate(domain.Bucket{Phase: "Phase 1"}, 0, 40))
	assert.Equal(t, OutcomeNone, e.Release(50).Kind)

	require.NoError(t, e.BeginCreate(domain.Bucket{Phase: "Phase 1"}, 42, 40))
	out := e.Release(41)
	assert.Equal(t, OutcomeClick, out.Kind, "click on a dateless row opens it")
	assert.Equal(t, int64(42), out.TaskID)
}

func TestEngine_CreateClampsToAxis(t *testing.T) {
	e, cal := newTestEngine(t)
	require.NoError(t, e.BeginCreate(domain.Bucket{Phase: "Phase 1"}, 0, 64))
	out := e.Release(-500)
	assert.Equal(t, cal.DateAt(0), out.Start)
	assert.Equal(t, cal.DateAt(2), out.End)
}

func TestEngine_HitTest(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Equal(t, ResizeStart, e.HitTest(0, 96, 2))
	assert.Equal(t, Move, e.HitTest(0, 96, 50))
	assert.Equal(t, ResizeEnd, e.HitTest(0, 96, 90))
	assert.Equal(t, Idle, e.HitTest(0, 96, 96))
	assert.Equal(t, Idle, e.HitTest(10, 96, 5))
}

func TestEngine_HitTask(t *testing.T) {
	e, cal := newTestEngine(t)
	task := domain.Task{ID: 1, StartDate: cal.DateAt(2), EndDate: cal.DateAt(4)}
	assert.Equal(t, ResizeStart, e.HitTask(task, 64))
	assert.Equal(t, Move, e.HitTask(task, 100))
	assert.Equal(t, ResizeEnd, e.HitTask(task, 159))
	assert.Equal(t, Idle, e.HitTask(domain.Task{ID: 2}, 100))
}

func TestEngine_DeltaDaysRounds(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Begin(barTask(), Move, 0))
	assert.Equal(t, 0, e.DeltaDays(15))
	assert.Equal(t, 1, e.DeltaDays(16), "half a day rounds away from zero")
	assert.Equal(t, 2, e.DeltaDays(64))
	assert.Equal(t, -1, e.DeltaDays(-16), "symmetric with +16")
	assert.Equal(t, 0, e.DeltaDays(-15))
}

func TestReorder_DropBetween(t *testing.T) {
	a := domain.Task{ID: 1, Phase: "P", Category: "C", SortOrder: 1}
	b := domain.Task{ID: 2, Phase: "P", Category: "C", SortOrder: 2}
	c := domain.Task{ID: 3, Phase: "P", Category: "C", SortOrder: 3}
	tasks := []domain.Task{a, b, c}

	var r Reorder
	require.NoError(t, r.Begin(a.ID))
	assert.ErrorIs(t, r.Begin(b.ID), ErrBusy)

	r.Over(a, hierarchy.DropAfter)
	_, ok := r.Target()
	assert.False(t, ok, "hovering the dragged row is not a target")

	r.Over(c, hierarchy.DropBefore)
	id, patch, ok := r.Drop(tasks)
	require.True(t, ok)
	assert.Equal(t, a.ID, id)
	assert.Equal(t, 2.5, *patch.SortOrder)
	assert.Equal(t, int64(0), r.Dragging())
}

func TestReorder_DropOnHeader(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Phase: "P", Category: "C", SortOrder: 4, IndentLevel: 2},
		{ID: 2, Phase: "Q", Category: "", SortOrder: 3},
	}
	var r Reorder
	require.NoError(t, r.Begin(1))
	r.OverHeader(domain.Bucket{Phase: "Q"}, 0)
	id, patch, ok := r.Drop(tasks)
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "Q", *patch.Phase)
	assert.Equal(t, "", *patch.Category)
	assert.Equal(t, 2.0, *patch.SortOrder)
	assert.Equal(t, 0, *patch.IndentLevel)
}

func TestReorder_DropWithoutTargetIsNoop(t *testing.T) {
	var r Reorder
	require.NoError(t, r.Begin(1))
	r.Over(domain.Task{ID: 2}, hierarchy.DropAfter)
	r.Leave()
	_, _, ok := r.Drop(nil)
	assert.False(t, ok)

	_, _, ok = r.Drop(nil)
	assert.False(t, ok, "drop without begin")
}
