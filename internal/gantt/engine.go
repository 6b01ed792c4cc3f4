// Package gantt turns pointer gestures on the timeline into date changes.
//
// The Engine owns a single DragState value. Pointer-down begins a gesture,
// pointer-move updates a preview, and pointer-up ends it with an Outcome the
// caller acts on. Previews are local only; the caller persists at most once
// per gesture, from the Outcome.
package gantt

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/timeline"
)

var (
	// ErrBusy is returned when a gesture is already in progress.
	ErrBusy = errors.New("drag already in progress")
	// ErrNotDraggable is returned for bars that cannot be moved or resized.
	ErrNotDraggable = errors.New("task is not draggable")
)

// Mode tags the DragState.
type Mode int

const (
	Idle Mode = iota
	Move
	ResizeStart
	ResizeEnd
	Create
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Move:
		return "move"
	case ResizeStart:
		return "resize-start"
	case ResizeEnd:
		return "resize-end"
	case Create:
		return "create"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// DragState is the whole state of a gesture. The zero value is Idle.
type DragState struct {
	Mode    Mode
	TaskID  int64 // 0 for a create gesture on a blank row
	AnchorX int

	OriginalStart domain.Date
	OriginalEnd   domain.Date

	// Preview of a move or resize.
	Start domain.Date
	End   domain.Date

	// Create gesture, as day indices.
	StartIndex   int
	CurrentIndex int
	Bucket       domain.Bucket

	// Farthest the pointer strayed from AnchorX.
	Travel int
}

// OutcomeKind says what the caller should do after a release.
type OutcomeKind int

const (
	// Nothing changed; the gesture is dropped silently.
	OutcomeNone OutcomeKind = iota
	// The pointer never left the click slop; treat as a click on the task.
	OutcomeClick
	// Persist Start and End on TaskID in one update.
	OutcomeCommitDates
	// Ask the task editor to create a task in Bucket with Start..End.
	OutcomeCreateTask
	// Set Start..End on the existing dateless TaskID.
	OutcomeSetDates
)

// Outcome is the result of a finished gesture.
type Outcome struct {
	Kind   OutcomeKind
	TaskID int64
	Start  domain.Date
	End    domain.Date
	Bucket domain.Bucket
}

// Preview is the ghost span drawn while a create gesture is in progress.
type Preview struct {
	Left  int // content-relative
	Width int
	Start domain.Date
	End   domain.Date
}

const (
	// DefaultHandleWidth is the resize hit zone at each end of a bar, in pixels.
	DefaultHandleWidth = 8
	// DefaultClickSlop is how far the pointer may travel and still count as a click.
	DefaultClickSlop = 4
)

// Engine is the drag controller for one timeline.
type Engine struct {
	window    *timeline.Window
	state     DragState
	handle    int
	clickSlop int
}

// Option configures an Engine.
type Option func(*Engine)

// WithHandleWidth sets the width of the resize hit zones.
func WithHandleWidth(w int) Option {
	return func(e *Engine) {
		if w > 0 {
			e.handle = w
		}
	}
}

// WithClickSlop sets the click travel threshold.
func WithClickSlop(px int) Option {
	return func(e *Engine) {
		if px >= 0 {
			e.clickSlop = px
		}
	}
}

func NewEngine(w *timeline.Window, opts ...Option) *Engine {
	e := &Engine{
		window:    w,
		handle:    DefaultHandleWidth,
		clickSlop: DefaultClickSlop,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the current drag record.
func (e *Engine) State() DragState {
	return e.state
}

func (e *Engine) Active() bool {
	return e.state.Mode != Idle
}

// Cancel drops any gesture without an outcome.
func (e *Engine) Cancel() {
	e.state = DragState{}
}

// HitTest classifies content-relative x against a bar occupying
// [left, left+width). The edge zones win over the body.
func (e *Engine) HitTest(left, width, x int) Mode {
	if x < left || x >= left+width {
		return Idle
	}
	h := e.handle
	if 2*h >= width {
		h = width / 3
	}
	switch {
	case h > 0 && x < left+h:
		return ResizeStart
	case h > 0 && x >= left+width-h:
		return ResizeEnd
	default:
		return Move
	}
}

// HitTask hit-tests a task's bar at viewport-relative x.
func (e *Engine) HitTask(task domain.Task, x int) Mode {
	left, width, ok := e.window.BarRect(task.StartDate, task.EndDate, 0)
	if !ok {
		return Idle
	}
	return e.HitTest(left, width, x+e.window.ScrollLeft())
}

// Begin starts a move or resize of task with the pointer at viewport x.
func (e *Engine) Begin(task domain.Task, mode Mode, x int) error {
	if e.Active() {
		return ErrBusy
	}
	if mode != Move && mode != ResizeStart && mode != ResizeEnd {
		return fmt.Errorf("beginning %s drag: %w", mode, ErrNotDraggable)
	}
	if !task.HasDates() {
		return fmt.Errorf("beginning drag on task %d: %w", task.ID, ErrNotDraggable)
	}
	e.state = DragState{
		Mode:          mode,
		TaskID:        task.ID,
		AnchorX:       x,
		OriginalStart: task.StartDate,
		OriginalEnd:   task.EndDate,
		Start:         task.StartDate,
		End:           task.EndDate,
	}
	return nil
}

// BeginCreate starts a date-range gesture at viewport x. taskID is the
// dateless task the gesture started on, or 0 for a blank row in bucket.
func (e *Engine) BeginCreate(bucket domain.Bucket, taskID int64, x int) error {
	if e.Active() {
		return ErrBusy
	}
	i := e.window.Calendar().Clamp(e.window.IndexAt(x))
	e.state = DragState{
		Mode:         Create,
		TaskID:       taskID,
		AnchorX:      x,
		StartIndex:   i,
		CurrentIndex: i,
		Bucket:       bucket,
	}
	return nil
}

// DeltaDays converts pointer travel into whole days, rounding half away from
// zero. A drag left by exactly half a day moves one day left, the mirror of
// the same drag to the right.
func (e *Engine) DeltaDays(x int) int {
	dx := x - e.state.AnchorX
	w := e.window.DayWidth()
	if dx >= 0 {
		return (2*dx + w) / (2 * w)
	}
	return -((-2*dx + w) / (2 * w))
}

// Drag updates the preview for the pointer at viewport x and reports whether
// it changed. For move and resize, the new dates are in State().Start/End.
func (e *Engine) Drag(x int) bool {
	if !e.Active() {
		return false
	}
	if d := abs(x - e.state.AnchorX); d > e.state.Travel {
		e.state.Travel = d
	}
	if e.state.Mode == Create {
		i := e.window.Calendar().Clamp(e.window.IndexAt(x))
		if i == e.state.CurrentIndex {
			return false
		}
		e.state.CurrentIndex = i
		return true
	}

	delta := e.DeltaDays(x)
	start, end := e.state.OriginalStart, e.state.OriginalEnd
	switch e.state.Mode {
	case Move:
		start, end = start.AddDays(delta), end.AddDays(delta)
	case ResizeStart:
		if s := start.AddDays(delta); s.Before(end) {
			start = s
		} else {
			return false
		}
	case ResizeEnd:
		if en := end.AddDays(delta); en.After(start) {
			end = en
		} else {
			return false
		}
	}
	// Off-axis positions keep the last valid preview.
	if !e.window.Calendar().InRange(e.window.Calendar().Index(start)) {
		return false
	}
	if start == e.state.Start && end == e.state.End {
		return false
	}
	e.state.Start, e.state.End = start, end
	return true
}

// Release ends the gesture with the pointer at viewport x.
func (e *Engine) Release(x int) Outcome {
	if !e.Active() {
		return Outcome{}
	}
	e.Drag(x)
	st := e.state
	e.state = DragState{}

	if st.Mode == Create {
		if st.StartIndex == st.CurrentIndex {
			if st.Travel <= e.clickSlop && st.TaskID != 0 {
				return Outcome{Kind: OutcomeClick, TaskID: st.TaskID}
			}
			return Outcome{}
		}
		p := e.preview(st)
		if st.TaskID != 0 {
			return Outcome{Kind: OutcomeSetDates, TaskID: st.TaskID, Start: p.Start, End: p.End, Bucket: st.Bucket}
		}
		return Outcome{Kind: OutcomeCreateTask, Start: p.Start, End: p.End, Bucket: st.Bucket}
	}

	if st.Start == st.OriginalStart && st.End == st.OriginalEnd {
		if st.Travel <= e.clickSlop {
			return Outcome{Kind: OutcomeClick, TaskID: st.TaskID}
		}
		return Outcome{}
	}
	return Outcome{Kind: OutcomeCommitDates, TaskID: st.TaskID, Start: st.Start, End: st.End}
}

// CreatePreview returns the ghost span of an in-progress create gesture.
func (e *Engine) CreatePreview() (Preview, bool) {
	if e.state.Mode != Create {
		return Preview{}, false
	}
	return e.preview(e.state), true
}

func (e *Engine) preview(st DragState) Preview {
	lo, hi := st.StartIndex, st.CurrentIndex
	if hi < lo {
		lo, hi = hi, lo
	}
	w := e.window.DayWidth()
	cal := e.window.Calendar()
	return Preview{
		Left:  lo * w,
		Width: (hi - lo + 1) * w,
		Start: cal.DateAt(lo),
		End:   cal.DateAt(hi),
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
