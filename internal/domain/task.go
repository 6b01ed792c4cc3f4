package domain

import "time"

// Task is one row of the work breakdown. Its bucket is the {Phase, Category}
// pair; parenthood is inferred from IndentLevel and position within the
// bucket, never stored.
type Task struct {
	ID         int64
	Phase      string
	Category   string
	CategoryID int64 // 0 when the task has no category row
	Name       string
	Owner      Owner
	Status     Status
	Priority   Priority
	Effort     string
	Note       string

	// Inclusive range. Either may be zero for an unscheduled task.
	StartDate Date
	EndDate   Date

	IndentLevel int
	SortOrder   float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bucket identifies the sibling set a task is ordered within.
type Bucket struct {
	Phase    string
	Category string
}

func (t Task) Bucket() Bucket {
	return Bucket{Phase: t.Phase, Category: t.Category}
}

// HasDates reports whether the task can be drawn as a bar.
func (t Task) HasDates() bool {
	return !t.StartDate.IsZero() && !t.EndDate.IsZero()
}

// DurationDays is the inclusive day count of the task's range.
func (t Task) DurationDays() int {
	if !t.HasDates() {
		return 0
	}
	return t.EndDate.DaysSince(t.StartDate) + 1
}

// TaskPatch is a partial update. Nil fields are left untouched; a zero Date
// or a zero CategoryID clears the column.
type TaskPatch struct {
	Phase       *string
	Category    *string
	CategoryID  *int64
	Name        *string
	Owner       *Owner
	Status      *Status
	Priority    *Priority
	Effort      *string
	Note        *string
	StartDate   *Date
	EndDate     *Date
	IndentLevel *int
	SortOrder   *float64
}

func (p TaskPatch) IsEmpty() bool {
	return p == TaskPatch{}
}

// Apply copies every set field of p onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Phase != nil {
		t.Phase = *p.Phase
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Owner != nil {
		t.Owner = *p.Owner
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Effort != nil {
		t.Effort = *p.Effort
	}
	if p.Note != nil {
		t.Note = *p.Note
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.IndentLevel != nil {
		t.IndentLevel = *p.IndentLevel
	}
	if p.SortOrder != nil {
		t.SortOrder = *p.SortOrder
	}
}

// DatesPatch sets both ends of the range in one update.
func DatesPatch(start, end Date) TaskPatch {
	return TaskPatch{StartDate: &start, EndDate: &end}
}

// Phase is a top-level project stage.
type Phase struct {
	ID        int64
	Name      string
	SortOrder int
	CreatedAt time.Time
}

type PhasePatch struct {
	Name      *string
	SortOrder *int
}

func (p PhasePatch) IsEmpty() bool {
	return p == PhasePatch{}
}

func (p PhasePatch) Apply(ph *Phase) {
	if p.Name != nil {
		ph.Name = *p.Name
	}
	if p.SortOrder != nil {
		ph.SortOrder = *p.SortOrder
	}
}

// Category groups tasks inside one phase.
type Category struct {
	ID        int64
	Name      string
	PhaseID   int64
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CategoryPatch struct {
	Name      *string
	PhaseID   *int64
	SortOrder *int
}

func (p CategoryPatch) IsEmpty() bool {
	return p == CategoryPatch{}
}

func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.PhaseID != nil {
		c.PhaseID = *p.PhaseID
	}
	if p.SortOrder != nil {
		c.SortOrder = *p.SortOrder
	}
}
