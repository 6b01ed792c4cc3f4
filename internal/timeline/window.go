package timeline

import (
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
)

const (
	// DefaultDayWidth is the width of one day column in pixels.
	DefaultDayWidth = 32
	// DefaultOverscan is the number of off-screen days rendered on each side.
	DefaultOverscan = 14
	// DefaultLabelThrottle bounds how often the current-view label is recomputed.
	DefaultLabelThrottle = 100 * time.Millisecond
	// BarInset is the gap subtracted from a pixel bar so neighbours don't touch.
	BarInset = 4
)

// Window is the horizontally virtualized view over a Calendar. Positions are
// in the same unit as the day width (pixels in a browser, cells in a terminal).
type Window struct {
	cal        Calendar
	dayWidth   int
	viewport   int
	scrollLeft int
	overscan   int

	throttle     time.Duration
	scrolled     bool
	tickInFlight bool
	label        domain.Date
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithOverscan overrides the number of extra days rendered beyond the viewport.
func WithOverscan(days int) WindowOption {
	return func(w *Window) {
		if days >= 0 {
			w.overscan = days
		}
	}
}

// WithLabelThrottle overrides the label recompute interval.
func WithLabelThrottle(d time.Duration) WindowOption {
	return func(w *Window) {
		if d > 0 {
			w.throttle = d
		}
	}
}

// NewWindow creates a window scrolled to the origin.
func NewWindow(cal Calendar, dayWidth int, opts ...WindowOption) *Window {
	if dayWidth <= 0 {
		dayWidth = DefaultDayWidth
	}
	w := &Window{
		cal:      cal,
		dayWidth: dayWidth,
		overscan: DefaultOverscan,
		throttle: DefaultLabelThrottle,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.label = w.cal.DateAt(w.CenterIndex())
	return w
}

func (w *Window) Calendar() Calendar           { return w.cal }
func (w *Window) DayWidth() int                { return w.dayWidth }
func (w *Window) ViewportWidth() int           { return w.viewport }
func (w *Window) ScrollLeft() int              { return w.scrollLeft }
func (w *Window) LabelThrottle() time.Duration { return w.throttle }

// ContentWidth is the full scrollable width of the axis.
func (w *Window) ContentWidth() int {
	return w.cal.Total() * w.dayWidth
}

// SetViewportWidth resizes the visible area and re-clamps the scroll offset.
func (w *Window) SetViewportWidth(width int) {
	if width < 0 {
		width = 0
	}
	w.viewport = width
	w.SetScrollLeft(w.scrollLeft)
}

func (w *Window) maxScroll() int {
	m := w.ContentWidth() - w.viewport
	if m < 0 {
		return 0
	}
	return m
}

// SetScrollLeft moves the viewport, clamped to the content.
func (w *Window) SetScrollLeft(x int) {
	if x < 0 {
		x = 0
	}
	if m := w.maxScroll(); x > m {
		x = m
	}
	if x != w.scrollLeft {
		w.scrollLeft = x
		w.scrolled = true
	}
}

func (w *Window) ScrollBy(dx int) {
	w.SetScrollLeft(w.scrollLeft + dx)
}

// LeftIndex is the day whose column contains the viewport's left edge.
func (w *Window) LeftIndex() int {
	return w.cal.Clamp(w.scrollLeft / w.dayWidth)
}

// CenterIndex is the day under the middle of the viewport.
func (w *Window) CenterIndex() int {
	return w.cal.Clamp((w.scrollLeft + w.viewport/2) / w.dayWidth)
}

// VisibleRange returns the half-open index range [first, last) that should be
// rendered: everything intersecting the viewport plus the overscan margin.
func (w *Window) VisibleRange() (first, last int) {
	first = w.scrollLeft/w.dayWidth - w.overscan
	last = (w.scrollLeft+w.viewport+w.dayWidth-1)/w.dayWidth + w.overscan
	if first < 0 {
		first = 0
	}
	if last > w.cal.Total() {
		last = w.cal.Total()
	}
	return first, last
}

// IndexAt converts a viewport-relative position to a day index (floor).
func (w *Window) IndexAt(x int) int {
	abs := x + w.scrollLeft
	if abs < 0 {
		return -1 - (-abs-1)/w.dayWidth
	}
	return abs / w.dayWidth
}

// OffsetOf converts a day index to a viewport-relative position.
func (w *Window) OffsetOf(i int) int {
	return i*w.dayWidth - w.scrollLeft
}

// BarRect returns the content-relative left edge and width of a task bar.
// Width never drops below one day column.
func (w *Window) BarRect(start, end domain.Date, inset int) (left, width int, ok bool) {
	first, days, ok := w.cal.Span(start, end)
	if !ok {
		return 0, 0, false
	}
	width = days*w.dayWidth - inset
	if width < w.dayWidth {
		width = w.dayWidth
	}
	return first * w.dayWidth, width, true
}

// ScrollToIndex aligns day i with the viewport's left edge.
func (w *Window) ScrollToIndex(i int) {
	w.SetScrollLeft(w.cal.Clamp(i) * w.dayWidth)
}

func (w *Window) ScrollToDate(d domain.Date) {
	w.ScrollToIndex(w.cal.Index(d))
}

func (w *Window) ScrollToToday() {
	w.ScrollToDate(w.cal.Today())
}

// ScrollToYear jumps to January 1 of year.
func (w *Window) ScrollToYear(year int) {
	w.ScrollToIndex(w.cal.YearStartIndex(year))
}

// ScrollByYears jumps delta years from the date at the left edge, so that
// repeated jumps compose.
func (w *Window) ScrollByYears(delta int) {
	w.ScrollToDate(w.cal.DateAt(w.LeftIndex()).AddYears(delta))
}

// TakeLabelTick reports whether the caller should schedule a SettleLabel
// after LabelThrottle. It returns true at most once per throttle window.
func (w *Window) TakeLabelTick() bool {
	if !w.scrolled || w.tickInFlight {
		return false
	}
	w.tickInFlight = true
	return true
}

// SettleLabel recomputes the current-view label from the viewport centre and
// reopens the throttle window.
func (w *Window) SettleLabel() domain.Date {
	w.tickInFlight = false
	w.scrolled = false
	w.label = w.cal.DateAt(w.CenterIndex())
	return w.label
}

// CurrentView is the last settled label date.
func (w *Window) CurrentView() domain.Date {
	return w.label
}
