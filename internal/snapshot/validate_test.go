package snapshot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSnapshot() *Snapshot {
	return &Snapshot{
		Version: Version,
		Phases: []PhaseRow{
			{ID: 1, Name: "Plan", SortOrder: 1},
			{ID: 2, Name: "Build", SortOrder: 2},
		},
		Categories: []CategoryRow{
			{ID: 10, Name: "UI", PhaseID: 1, SortOrder: 1},
		},
		Tasks: []TaskRow{
			{Phase: "Plan", Category: "UI", Name: "Wireframes", Owner: "designer", Status: "in_progress", Priority: "required", StartDate: "2026-02-10", EndDate: "2026-02-12", SortOrder: 1},
			{Phase: "Plan", Category: "UI", Name: "Review", IndentLevel: 1, SortOrder: 2},
			{Phase: "Build", Name: "Deploy", SortOrder: 1},
		},
	}
}

func joined(errs []error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, Validate(validSnapshot()))
}

func TestValidate_TasksOnlyIsValid(t *testing.T) {
	s := &Snapshot{Version: Version, Tasks: []TaskRow{{Phase: "Phase 1", Name: "Loose"}}}
	assert.Empty(t, Validate(s), "phase names are free-form when no phase rows are given")
}

func TestValidate_Version(t *testing.T) {
	s := validSnapshot()
	s.Version = 7
	assert.Contains(t, joined(Validate(s)), "unsupported 7")
}

func TestValidate_DuplicatePhase(t *testing.T) {
	s := validSnapshot()
	s.Phases = append(s.Phases, PhaseRow{ID: 2, Name: "Plan"})
	msg := joined(Validate(s))
	assert.Contains(t, msg, "phases[2].id: duplicate 2")
	assert.Contains(t, msg, `phases[2].name: duplicate "Plan"`)
}

func TestValidate_UnknownReferences(t *testing.T) {
	s := validSnapshot()
	s.Categories = append(s.Categories, CategoryRow{ID: 11, Name: "API", PhaseID: 9})
	s.Tasks = append(s.Tasks,
		TaskRow{Phase: "Ship", Name: "Launch"},
		TaskRow{Phase: "Build", Category: "UI", Name: "Wrong bucket"},
	)
	msg := joined(Validate(s))
	assert.Contains(t, msg, "categories[1].phase_id: unknown phase 9")
	assert.Contains(t, msg, `tasks[3].phase: unknown phase "Ship"`)
	assert.Contains(t, msg, `tasks[4].category: "UI" is not a category of "Build"`)
}

func TestValidate_InvalidFields(t *testing.T) {
	s := validSnapshot()
	s.Tasks = []TaskRow{
		{Phase: "Plan", Name: "", Owner: "robot", Status: "paused", Priority: "urgent", IndentLevel: 4},
		{Phase: "Plan", Name: "Dates", StartDate: "2026-02-30", EndDate: "tomorrow"},
		{Phase: "Plan", Name: "Backwards", StartDate: "2026-02-12", EndDate: "2026-02-10"},
	}
	errs := Validate(s)
	msg := joined(errs)
	assert.Contains(t, msg, "tasks[0].name is required")
	assert.Contains(t, msg, `tasks[0].owner: invalid value "robot"`)
	assert.Contains(t, msg, `tasks[0].status: invalid value "paused"`)
	assert.Contains(t, msg, `tasks[0].priority: invalid value "urgent"`)
	assert.Contains(t, msg, "tasks[0].indent_level: 4 out of range 0..3")
	assert.Contains(t, msg, "tasks[1].start_date")
	assert.Contains(t, msg, "tasks[1].end_date")
	assert.Contains(t, msg, "tasks[2].end_date")
	assert.Len(t, errs, 8)
}
