package snapshot

import (
	"fmt"

	"github.com/alexanderramin/wbs/internal/domain"
)

// Validate checks the snapshot before anything is written.
// Returns a slice of all validation errors found.
func Validate(s *Snapshot) []error {
	var errs []error

	if s.Version != Version {
		errs = append(errs, fmt.Errorf("version: unsupported %d (want %d)", s.Version, Version))
	}

	phaseIDs := make(map[int64]string)
	phaseNames := make(map[string]bool)
	errs = append(errs, validatePhases(s.Phases, phaseIDs, phaseNames)...)

	categoryNames := make(map[domain.Bucket]bool)
	errs = append(errs, validateCategories(s.Categories, phaseIDs, categoryNames)...)

	errs = append(errs, validateTasks(s.Tasks, phaseNames, categoryNames)...)
	return errs
}

func validatePhases(phases []PhaseRow, ids map[int64]string, names map[string]bool) []error {
	var errs []error
	for i, p := range phases {
		prefix := fmt.Sprintf("phases[%d]", i)
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if p.ID == 0 {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if _, dup := ids[p.ID]; dup {
			errs = append(errs, fmt.Errorf("%s.id: duplicate %d", prefix, p.ID))
		}
		if names[p.Name] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate %q", prefix, p.Name))
		}
		ids[p.ID] = p.Name
		names[p.Name] = true
	}
	return errs
}

func validateCategories(categories []CategoryRow, phaseIDs map[int64]string, names map[domain.Bucket]bool) []error {
	var errs []error
	seen := make(map[int64]bool)
	for i, c := range categories {
		prefix := fmt.Sprintf("categories[%d]", i)
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if c.ID == 0 {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if seen[c.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate %d", prefix, c.ID))
		}
		seen[c.ID] = true
		phase, ok := phaseIDs[c.PhaseID]
		if !ok {
			errs = append(errs, fmt.Errorf("%s.phase_id: unknown phase %d", prefix, c.PhaseID))
			continue
		}
		names[domain.Bucket{Phase: phase, Category: c.Name}] = true
	}
	return errs
}

func validateTasks(tasks []TaskRow, phaseNames map[string]bool, categories map[domain.Bucket]bool) []error {
	var errs []error
	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if t.Phase == "" {
			errs = append(errs, fmt.Errorf("%s.phase is required", prefix))
		} else if len(phaseNames) > 0 && !phaseNames[t.Phase] {
			errs = append(errs, fmt.Errorf("%s.phase: unknown phase %q", prefix, t.Phase))
		}
		if t.Category != "" && len(categories) > 0 && !categories[domain.Bucket{Phase: t.Phase, Category: t.Category}] {
			errs = append(errs, fmt.Errorf("%s.category: %q is not a category of %q", prefix, t.Category, t.Phase))
		}
		if t.Owner != "" && !domain.Owner(t.Owner).Valid() {
			errs = append(errs, fmt.Errorf("%s.owner: invalid value %q", prefix, t.Owner))
		}
		if t.Status != "" && !domain.Status(t.Status).Valid() {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
		}
		if t.Priority != "" && !domain.Priority(t.Priority).Valid() {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, t.Priority))
		}
		if t.IndentLevel < 0 || t.IndentLevel > domain.MaxIndent {
			errs = append(errs, fmt.Errorf("%s.indent_level: %d out of range 0..%d", prefix, t.IndentLevel, domain.MaxIndent))
		}
		start, startErr := domain.ParseDate(t.StartDate)
		if startErr != nil {
			errs = append(errs, fmt.Errorf("%s.start_date: %w", prefix, startErr))
		}
		end, endErr := domain.ParseDate(t.EndDate)
		if endErr != nil {
			errs = append(errs, fmt.Errorf("%s.end_date: %w", prefix, endErr))
		}
		if startErr == nil && endErr == nil && !start.IsZero() && !end.IsZero() && end.Before(start) {
			errs = append(errs, fmt.Errorf("%s.end_date %q must not be before start_date %q", prefix, t.EndDate, t.StartDate))
		}
	}
	return errs
}
