package cli

import (
	"strconv"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/hierarchy"
)

type rowKind int

const (
	rowPhase rowKind = iota
	rowCategory
	rowTask
)

// row is one line of the outline, mirrored by one line of the timeline.
type row struct {
	kind       rowKind
	phase      string
	phaseID    int64
	category   string
	categoryID int64
	task       domain.Task
	count      int  // tasks under a header
	expanded   bool // header or parent task is open
	parent     bool // task has children
}

func (r row) bucket() domain.Bucket {
	if r.kind == rowTask {
		return r.task.Bucket()
	}
	return domain.Bucket{Phase: r.phase, Category: r.category}
}

// key identifies the row's entity across rebuilds.
func (r row) key() string {
	switch r.kind {
	case rowPhase:
		return "p\x00" + r.phase
	case rowCategory:
		return "c\x00" + r.phase + "\x00" + r.category
	}
	return "t\x00" + strconv.FormatInt(r.task.ID, 10)
}

// buildRows flattens the grouped board into display rows. Collapsed phase
// and category headers hide their tasks; collapsed parent tasks hide their
// subtrees. The uncategorized section has no header of its own.
func buildRows(tasks []domain.Task, phases []domain.Phase, categories []domain.Category,
	filter hierarchy.Filter, collapsed hierarchy.Collapsed, sections map[string]bool) []row {

	var rows []row
	for _, g := range hierarchy.GroupByPhase(hierarchy.FilterTasks(tasks, filter), phases, categories) {
		if filter.Phase != "" && filter.Phase != hierarchy.All && g.Phase != filter.Phase {
			continue
		}
		header := row{kind: rowPhase, phase: g.Phase, phaseID: g.PhaseID}
		for _, sec := range g.Sections {
			header.count += len(sec.Tasks)
		}
		header.expanded = !sections[header.key()]
		rows = append(rows, header)
		if !header.expanded {
			continue
		}

		for _, sec := range g.Sections {
			if sec.Category != "" {
				cat := row{
					kind:       rowCategory,
					phase:      g.Phase,
					phaseID:    g.PhaseID,
					category:   sec.Category,
					categoryID: sec.CategoryID,
					count:      len(sec.Tasks),
				}
				cat.expanded = !sections[cat.key()]
				rows = append(rows, cat)
				if !cat.expanded {
					continue
				}
			}
			for i, t := range sec.Tasks {
				if !hierarchy.IsVisible(t, sec.Tasks, collapsed) {
					continue
				}
				rows = append(rows, row{
					kind:       rowTask,
					phase:      g.Phase,
					phaseID:    g.PhaseID,
					category:   sec.Category,
					categoryID: sec.CategoryID,
					task:       t,
					parent:     hierarchy.HasChildren(sec.Tasks, i),
					expanded:   !collapsed[t.ID],
				})
			}
		}
	}
	return rows
}

// indexOfTask returns the row showing task id, or -1.
func indexOfTask(rows []row, id int64) int {
	for i, r := range rows {
		if r.kind == rowTask && r.task.ID == id {
			return i
		}
	}
	return -1
}
