package cli

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/alexanderramin/wbs/internal/gantt"
	"github.com/alexanderramin/wbs/internal/hierarchy"
	"github.com/alexanderramin/wbs/internal/timeline"
)

const divider = "│"

func (d *dashboardView) View() string {
	gw := d.window.ViewportWidth()
	lines := make([]string, 0, d.bodyHeight()+2)

	months, days := d.axisTracks(gw)
	left := formatter.Bold("TASK")
	if label := formatter.MonthLabel(d.window.CurrentView()); label != "" {
		left += strings.Repeat(" ", max(listWidth-4-len(label), 1)) + formatter.Dim(label)
	}
	lines = append(lines, formatter.PadRight(left, listWidth)+divider+months.Render(formatter.StyleFg))
	lines = append(lines, formatter.PadRight(d.subheader(), listWidth)+divider+days.Render(formatter.StyleFg))

	top := d.listTop.ScrollTop()
	for i := top; i < top+d.bodyHeight(); i++ {
		if i >= len(d.rows) {
			lines = append(lines, strings.Repeat(" ", listWidth)+divider)
			continue
		}
		lines = append(lines, d.renderOutline(i)+divider+d.renderTimeline(i, gw))
	}
	if len(d.rows) == 0 {
		lines[2] = formatter.PadRight(formatter.Dim("  No tasks. Press a to add one."), listWidth) + divider
	}
	return strings.Join(lines, "\n")
}

// subheader is the filter summary, or the pending delete question.
func (d *dashboardView) subheader() string {
	if d.confirm != nil {
		return formatter.StyleRed.Render(formatter.Truncate(d.confirm.prompt+" (y/n)", listWidth))
	}
	var parts []string
	if d.filter.Phase != hierarchy.All {
		parts = append(parts, "phase: "+d.filter.Phase)
	}
	if d.filter.Owner != hierarchy.All {
		parts = append(parts, "owner: "+d.filter.Owner)
	}
	if len(parts) == 0 {
		return formatter.Dim("all tasks")
	}
	return formatter.StyleYellow.Render(formatter.Truncate(strings.Join(parts, " · "), listWidth))
}

// axisTracks labels months on their first day and weeks on Mondays.
func (d *dashboardView) axisTracks(gw int) (months, days *formatter.Track) {
	months, days = formatter.NewTrack(gw), formatter.NewTrack(gw)
	cal := d.window.Calendar()
	first, last := d.window.VisibleRange()
	for i := first; i < last; i++ {
		x := d.window.OffsetOf(i)
		date := cal.DateAt(i)
		if timeline.IsFirstOfMonth(date) {
			months.Write(x, formatter.ShortMonth(date.Month)+" "+strconv.Itoa(date.Year), formatter.CellLabel)
		}
		switch {
		case cal.IsToday(date):
			days.Write(x, strconv.Itoa(date.Day), formatter.CellToday)
		case timeline.IsMonday(date):
			days.Write(x, strconv.Itoa(date.Day), formatter.CellWeekend)
		}
	}
	return months, days
}

func (d *dashboardView) renderOutline(i int) string {
	r := d.rows[i]
	marker := "▾ "
	if !r.expanded {
		marker = "▸ "
	}

	var text string
	switch r.kind {
	case rowPhase:
		text = marker + r.phase + " (" + strconv.Itoa(r.count) + ")"
	case rowCategory:
		text = "  " + marker + r.category + " (" + strconv.Itoa(r.count) + ")"
	default:
		indent := "  " + strings.Repeat("  ", r.task.IndentLevel)
		if r.category != "" {
			indent += "  "
		}
		if !r.parent {
			marker = "  "
		}
		text = indent + marker + formatter.StatusGlyph(r.task.Status) + " " + r.task.Name
	}

	cursor := " "
	if i == d.cursor {
		cursor = "›"
	}
	width := listWidth - 1
	if r.kind == rowTask {
		width -= 4
	}
	text = formatter.PadRight(formatter.Truncate(text, width), width)

	target, hasTarget := d.reorder.Target()
	switch {
	case d.reorder.Dragging() != 0 && r.kind == rowTask && r.task.ID == d.reorder.Dragging():
		text = formatter.Dim(text)
	case hasTarget && target.TaskID != 0 && r.kind == rowTask && r.task.ID == target.TaskID,
		hasTarget && target.TaskID == 0 && r.kind != rowTask && target.Bucket == r.bucket():
		text = formatter.StyleGreen.Render(text)
	case i == d.cursor:
		text = formatter.StyleCursor.Render(text)
	case r.kind == rowPhase:
		text = formatter.StyleHeader.Render(text)
	case r.kind == rowCategory:
		text = formatter.StyleBold.Render(text)
	}

	if r.kind == rowTask {
		text += " " + formatter.OwnerBadge(r.task.Owner)
	}
	return cursor + text
}

// renderTimeline draws weekends, the today marker and the row's bar.
func (d *dashboardView) renderTimeline(i, gw int) string {
	r := d.rows[i]
	track := formatter.NewTrack(gw)
	cal := d.window.Calendar()
	dw := d.window.DayWidth()

	first, last := d.window.VisibleRange()
	for idx := first; idx < last; idx++ {
		x := d.window.OffsetOf(idx)
		date := cal.DateAt(idx)
		if timeline.IsWeekend(date) {
			track.Fill(x, x+dw, formatter.RuneWeekend, formatter.CellWeekend)
		}
		if cal.IsToday(date) {
			track.Set(x, formatter.RuneToday, formatter.CellToday)
		}
	}

	bar := formatter.StyleFg
	if r.kind == rowTask {
		bar = formatter.StatusStyle(r.task.Status)
		if left, width, ok := d.window.BarRect(r.task.StartDate, r.task.EndDate, 0); ok {
			x := left - d.window.ScrollLeft()
			track.Fill(x, x+width, formatter.RuneBar, formatter.CellBar)
			st := d.engine.State()
			if d.engine.Active() && st.Mode != gantt.Create && st.TaskID == r.task.ID {
				track.Write(x+width+1, r.task.StartDate.Short()+"–"+r.task.EndDate.Short(), formatter.CellLabel)
			}
		}
	}

	if p, ok := d.engine.CreatePreview(); ok && i == d.dragRow {
		x := p.Left - d.window.ScrollLeft()
		track.Fill(x, x+p.Width, formatter.RuneGhost, formatter.CellGhost)
		track.Write(x+p.Width+1, p.Start.Short()+"–"+p.End.Short(), formatter.CellLabel)
	}
	return track.Render(bar)
}
