package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/wbs/internal/domain"
)

// Truncate shortens plain text to at most w cells, ending in "…" when cut.
func Truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= w {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > w {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// PadRight pads s with spaces to w visible cells. Styled text is measured
// without its escape sequences.
func PadRight(s string, w int) string {
	if pad := w - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// DateRange renders an inclusive range as "MM/DD – MM/DD", or "unscheduled".
func DateRange(start, end domain.Date) string {
	switch {
	case start.IsZero() && end.IsZero():
		return "unscheduled"
	case end.IsZero():
		return start.Short() + " –"
	case start.IsZero():
		return "– " + end.Short()
	}
	return start.Short() + " – " + end.Short()
}

// HumanDate renders a date as "Feb 10, 2026", or "--" when absent.
func HumanDate(d domain.Date) string {
	if d.IsZero() {
		return "--"
	}
	return d.Time().Format("Jan 2, 2006")
}

// MonthLabel is the current-view label shown above the timeline.
func MonthLabel(d domain.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format("January 2006")
}

// Days renders a day count such as "3 days".
func Days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// ShortMonth is the three-letter month name used on first-of-month columns.
func ShortMonth(m time.Month) string {
	return m.String()[:3]
}
