package hierarchy

import (
	"sort"

	"github.com/alexanderramin/wbs/internal/domain"
)

// All disables a filter dimension.
const All = "all"

// unknownCategoryOrder places categories without a row after all known ones.
const unknownCategoryOrder = 9999

// Filter narrows the task list by phase name and owner.
type Filter struct {
	Phase string
	Owner string
}

func (f Filter) Match(t domain.Task) bool {
	if f.Phase != "" && f.Phase != All && t.Phase != f.Phase {
		return false
	}
	if f.Owner != "" && f.Owner != All && string(t.Owner) != f.Owner {
		return false
	}
	return true
}

func FilterTasks(tasks []domain.Task, f Filter) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Section is one category bucket inside a phase, tasks in sort order.
type Section struct {
	Category   string
	CategoryID int64
	Tasks      []domain.Task
}

// Group is one phase with its category sections in display order.
type Group struct {
	Phase    string
	PhaseID  int64
	Sections []Section
}

// GroupByPhase arranges tasks for rendering. Phases follow the phase rows'
// order; with no phase rows, the distinct task phases in first-seen order.
// Phases only referenced by tasks come last. Within a phase, sections follow
// category sort order, with the uncategorized bucket and unknown categories
// after the known ones. Category rows without tasks still get an empty
// section so they can be targeted.
func GroupByPhase(tasks []domain.Task, phases []domain.Phase, categories []domain.Category) []Group {
	var names []string
	phaseIDs := map[string]int64{}
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	sortedPhases := append([]domain.Phase(nil), phases...)
	sort.SliceStable(sortedPhases, func(i, j int) bool { return sortedPhases[i].SortOrder < sortedPhases[j].SortOrder })
	for _, p := range sortedPhases {
		phaseIDs[p.Name] = p.ID
		add(p.Name)
	}
	for _, t := range tasks {
		add(t.Phase)
	}

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		groups = append(groups, groupPhase(name, phaseIDs[name], tasks, categories))
	}
	return groups
}

func groupPhase(name string, phaseID int64, tasks []domain.Task, categories []domain.Category) Group {
	type entry struct {
		section Section
		order   int
		seq     int
	}
	entries := map[string]*entry{}
	var seq int
	get := func(category string) *entry {
		if e, ok := entries[category]; ok {
			return e
		}
		e := &entry{section: Section{Category: category}, order: unknownCategoryOrder, seq: seq}
		seq++
		entries[category] = e
		return e
	}

	if phaseID != 0 {
		for _, c := range categories {
			if c.PhaseID == phaseID {
				e := get(c.Name)
				e.order = c.SortOrder
				e.section.CategoryID = c.ID
			}
		}
	}
	for _, t := range tasks {
		if t.Phase == name {
			e := get(t.Category)
			e.section.Tasks = append(e.section.Tasks, t)
		}
	}

	list := make([]*entry, 0, len(entries))
	for _, e := range entries {
		SortBucket(e.section.Tasks)
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].order != list[j].order {
			return list[i].order < list[j].order
		}
		return list[i].seq < list[j].seq
	})

	g := Group{Phase: name, PhaseID: phaseID}
	for _, e := range list {
		g.Sections = append(g.Sections, e.section)
	}
	return g
}

// PhaseNames lists phase names in display order, falling back to the
// default names when no phase rows exist.
func PhaseNames(phases []domain.Phase) []string {
	if len(phases) == 0 {
		return append([]string(nil), domain.DefaultPhaseNames...)
	}
	sorted := append([]domain.Phase(nil), phases...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SortOrder < sorted[j].SortOrder })
	names := make([]string, len(sorted))
	for i, p := range sorted {
		names[i] = p.Name
	}
	return names
}
