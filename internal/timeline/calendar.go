// Package timeline maps calendar dates onto the fixed day axis of the Gantt
// pane and keeps track of which slice of that axis is on screen.
package timeline

import (
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
)

const (
	// DaysBefore is how far the axis reaches back from January 1 of the current year.
	DaysBefore = 365
	// DaysAfter is how far the axis reaches forward from January 1.
	DaysAfter = 365
	// TotalDays is the addressable length of the axis.
	TotalDays = DaysBefore + DaysAfter
)

// Calendar converts between dates and day indices on a fixed axis.
// Index 0 is the origin; valid indices are [0, Total()).
type Calendar struct {
	origin domain.Date
	today  domain.Date
	total  int
}

// NewCalendar anchors the axis 365 days before January 1 of today's year.
func NewCalendar(today domain.Date) Calendar {
	jan1 := domain.NewDate(today.Year, time.January, 1)
	return Calendar{
		origin: jan1.AddDays(-DaysBefore),
		today:  today,
		total:  TotalDays,
	}
}

func (c Calendar) Origin() domain.Date { return c.origin }
func (c Calendar) Today() domain.Date  { return c.today }
func (c Calendar) Total() int          { return c.total }

// Index returns the day offset of d from the origin. It may fall outside the axis.
func (c Calendar) Index(d domain.Date) int {
	return d.DaysSince(c.origin)
}

// DateAt is the inverse of Index.
func (c Calendar) DateAt(i int) domain.Date {
	return c.origin.AddDays(i)
}

func (c Calendar) InRange(i int) bool {
	return i >= 0 && i < c.total
}

// Clamp pins an index to the axis.
func (c Calendar) Clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > c.total-1 {
		return c.total - 1
	}
	return i
}

func (c Calendar) TodayIndex() int {
	return c.Index(c.today)
}

// YearStartIndex is the index of January 1 of year.
func (c Calendar) YearStartIndex(year int) int {
	return c.Index(domain.NewDate(year, time.January, 1))
}

func (c Calendar) IsToday(d domain.Date) bool {
	return d == c.today
}

// Span returns the first index and the drawable day count of an inclusive
// range. Bars whose start falls off the axis are not drawn; bars that run
// past the end are cut at the axis end.
func (c Calendar) Span(start, end domain.Date) (first, days int, ok bool) {
	if start.IsZero() || end.IsZero() {
		return 0, 0, false
	}
	first = c.Index(start)
	if !c.InRange(first) {
		return 0, 0, false
	}
	days = end.DaysSince(start) + 1
	if rest := c.total - first; days > rest {
		days = rest
	}
	if days < 1 {
		days = 1
	}
	return first, days, true
}

func IsWeekend(d domain.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func IsFirstOfMonth(d domain.Date) bool {
	return d.Day == 1
}

// IsMonday marks the columns that carry a week label.
func IsMonday(d domain.Date) bool {
	return d.Weekday() == time.Monday
}
