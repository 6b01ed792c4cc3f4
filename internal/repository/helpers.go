package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
)

// parseNullableDate parses a nullable YYYY-MM-DD column. NULL and "" give the zero Date.
func parseNullableDate(s sql.NullString) (domain.Date, error) {
	if !s.Valid {
		return domain.Date{}, nil
	}
	return domain.ParseDate(s.String)
}

// nullableDate converts a Date for SQLite storage: NULL for the zero Date.
func nullableDate(d domain.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

// nullableString stores "" as NULL, matching rows written by other clients.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullableID stores 0 as NULL.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// parseTimestamp accepts RFC3339 and tolerates empty values from hand-made rows.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// assignment is one "column = value" pair of a partial UPDATE.
type assignment struct {
	column string
	value  any
}

// dialect captures what differs between the SQL backends.
type dialect struct {
	placeholder func(n int) string
	date        func(domain.Date) any
	now         func() any
}

var sqliteDialect = dialect{
	placeholder: func(int) string { return "?" },
	date:        nullableDate,
	now:         func() any { return nowUTC() },
}

// updateSQL builds "UPDATE table SET a = ?, b = ? WHERE id = ?" and its args.
func (d dialect) updateSQL(table string, set []assignment, id int64) (string, []any) {
	parts := make([]string, 0, len(set))
	args := make([]any, 0, len(set)+1)
	for i, a := range set {
		parts = append(parts, a.column+" = "+d.placeholder(i+1))
		args = append(args, a.value)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s", table, strings.Join(parts, ", "), d.placeholder(len(set)+1))
	return query, args
}

func (d dialect) taskAssignments(p domain.TaskPatch) []assignment {
	var set []assignment
	add := func(col string, v any) { set = append(set, assignment{col, v}) }
	if p.Phase != nil {
		add("phase", *p.Phase)
	}
	if p.Category != nil {
		add("category", *p.Category)
	}
	if p.CategoryID != nil {
		add("category_id", nullableID(*p.CategoryID))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Owner != nil {
		add("owner", string(*p.Owner))
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.Priority != nil {
		add("priority", string(*p.Priority))
	}
	if p.Effort != nil {
		add("effort", nullableString(*p.Effort))
	}
	if p.Note != nil {
		add("note", nullableString(*p.Note))
	}
	if p.StartDate != nil {
		add("start_date", d.date(*p.StartDate))
	}
	if p.EndDate != nil {
		add("end_date", d.date(*p.EndDate))
	}
	if p.IndentLevel != nil {
		add("indent_level", *p.IndentLevel)
	}
	if p.SortOrder != nil {
		add("sort_order", *p.SortOrder)
	}
	if len(set) > 0 {
		add("updated_at", d.now())
	}
	return set
}

func (d dialect) phaseAssignments(p domain.PhasePatch) []assignment {
	var set []assignment
	if p.Name != nil {
		set = append(set, assignment{"name", *p.Name})
	}
	if p.SortOrder != nil {
		set = append(set, assignment{"sort_order", *p.SortOrder})
	}
	return set
}

func (d dialect) categoryAssignments(p domain.CategoryPatch) []assignment {
	var set []assignment
	if p.Name != nil {
		set = append(set, assignment{"name", *p.Name})
	}
	if p.PhaseID != nil {
		set = append(set, assignment{"phase_id", *p.PhaseID})
	}
	if p.SortOrder != nil {
		set = append(set, assignment{"sort_order", *p.SortOrder})
	}
	if len(set) > 0 {
		set = append(set, assignment{"updated_at", d.now()})
	}
	return set
}
