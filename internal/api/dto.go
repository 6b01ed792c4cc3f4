package api

import (
	"fmt"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
)

// Rows as they travel over the wire. Dates are YYYY-MM-DD strings and an
// absent date is omitted.

type Phase struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	PhaseID   int64     `json:"phase_id"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Task struct {
	ID          int64     `json:"id"`
	Phase       string    `json:"phase"`
	Category    string    `json:"category"`
	CategoryID  int64     `json:"category_id,omitempty"`
	Name        string    `json:"name"`
	Owner       string    `json:"owner"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Effort      string    `json:"effort,omitempty"`
	Note        string    `json:"note,omitempty"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	IndentLevel int       `json:"indent_level"`
	SortOrder   float64   `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreatePhaseRequest struct {
	Name      string `json:"name" minLength:"1"`
	SortOrder int    `json:"sort_order,omitempty"`
}

type UpdatePhaseRequest struct {
	Name      *string `json:"name,omitempty" minLength:"1"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

type CreateCategoryRequest struct {
	Name      string `json:"name" minLength:"1"`
	PhaseID   int64  `json:"phase_id" minimum:"1"`
	SortOrder int    `json:"sort_order,omitempty"`
}

type UpdateCategoryRequest struct {
	Name      *string `json:"name,omitempty" minLength:"1"`
	PhaseID   *int64  `json:"phase_id,omitempty" minimum:"1"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

type CreateTaskRequest struct {
	Phase       string  `json:"phase" minLength:"1"`
	Category    string  `json:"category,omitempty"`
	CategoryID  int64   `json:"category_id,omitempty"`
	Name        string  `json:"name" minLength:"1"`
	Owner       string  `json:"owner" enum:"engineer,designer,shared"`
	Status      string  `json:"status" enum:"not_started,in_progress,done,on_hold"`
	Priority    string  `json:"priority" enum:"required,recommended,optional"`
	Effort      string  `json:"effort,omitempty"`
	Note        string  `json:"note,omitempty"`
	StartDate   string  `json:"start_date,omitempty" doc:"YYYY-MM-DD"`
	EndDate     string  `json:"end_date,omitempty" doc:"YYYY-MM-DD"`
	IndentLevel int     `json:"indent_level,omitempty" minimum:"0" maximum:"3"`
	SortOrder   float64 `json:"sort_order,omitempty"`
}

// UpdateTaskRequest carries only the columns to change. An empty date,
// effort or note clears the column, as does category_id 0.
type UpdateTaskRequest struct {
	Phase       *string  `json:"phase,omitempty" minLength:"1"`
	Category    *string  `json:"category,omitempty"`
	CategoryID  *int64   `json:"category_id,omitempty"`
	Name        *string  `json:"name,omitempty" minLength:"1"`
	Owner       *string  `json:"owner,omitempty" enum:"engineer,designer,shared"`
	Status      *string  `json:"status,omitempty" enum:"not_started,in_progress,done,on_hold"`
	Priority    *string  `json:"priority,omitempty" enum:"required,recommended,optional"`
	Effort      *string  `json:"effort,omitempty"`
	Note        *string  `json:"note,omitempty"`
	StartDate   *string  `json:"start_date,omitempty" doc:"YYYY-MM-DD, empty to clear"`
	EndDate     *string  `json:"end_date,omitempty" doc:"YYYY-MM-DD, empty to clear"`
	IndentLevel *int     `json:"indent_level,omitempty" minimum:"0" maximum:"3"`
	SortOrder   *float64 `json:"sort_order,omitempty"`
}

func PhaseFromDomain(p domain.Phase) Phase {
	return Phase{ID: p.ID, Name: p.Name, SortOrder: p.SortOrder, CreatedAt: p.CreatedAt}
}

func (p Phase) Domain() domain.Phase {
	return domain.Phase{ID: p.ID, Name: p.Name, SortOrder: p.SortOrder, CreatedAt: p.CreatedAt}
}

func CategoryFromDomain(c domain.Category) Category {
	return Category{ID: c.ID, Name: c.Name, PhaseID: c.PhaseID, SortOrder: c.SortOrder, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func (c Category) Domain() domain.Category {
	return domain.Category{ID: c.ID, Name: c.Name, PhaseID: c.PhaseID, SortOrder: c.SortOrder, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func TaskFromDomain(t domain.Task) Task {
	return Task{
		ID:          t.ID,
		Phase:       t.Phase,
		Category:    t.Category,
		CategoryID:  t.CategoryID,
		Name:        t.Name,
		Owner:       string(t.Owner),
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Effort:      t.Effort,
		Note:        t.Note,
		StartDate:   t.StartDate.String(),
		EndDate:     t.EndDate.String(),
		IndentLevel: t.IndentLevel,
		SortOrder:   t.SortOrder,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (t Task) Domain() (domain.Task, error) {
	start, err := domain.ParseDate(t.StartDate)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %d start_date: %w", t.ID, err)
	}
	end, err := domain.ParseDate(t.EndDate)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %d end_date: %w", t.ID, err)
	}
	return domain.Task{
		ID:          t.ID,
		Phase:       t.Phase,
		Category:    t.Category,
		CategoryID:  t.CategoryID,
		Name:        t.Name,
		Owner:       domain.Owner(t.Owner),
		Status:      domain.Status(t.Status),
		Priority:    domain.Priority(t.Priority),
		Effort:      t.Effort,
		Note:        t.Note,
		StartDate:   start,
		EndDate:     end,
		IndentLevel: t.IndentLevel,
		SortOrder:   t.SortOrder,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}, nil
}

func CreateTaskRequestFrom(t domain.Task) CreateTaskRequest {
	return CreateTaskRequest{
		Phase:       t.Phase,
		Category:    t.Category,
		CategoryID:  t.CategoryID,
		Name:        t.Name,
		Owner:       string(t.Owner),
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Effort:      t.Effort,
		Note:        t.Note,
		StartDate:   t.StartDate.String(),
		EndDate:     t.EndDate.String(),
		IndentLevel: t.IndentLevel,
		SortOrder:   t.SortOrder,
	}
}

func (r CreateTaskRequest) Domain() (domain.Task, error) {
	return Task{
		Phase:       r.Phase,
		Category:    r.Category,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Owner:       r.Owner,
		Status:      r.Status,
		Priority:    r.Priority,
		Effort:      r.Effort,
		Note:        r.Note,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		IndentLevel: r.IndentLevel,
		SortOrder:   r.SortOrder,
	}.Domain()
}

func UpdateTaskRequestFrom(p domain.TaskPatch) UpdateTaskRequest {
	r := UpdateTaskRequest{
		Phase:       p.Phase,
		Category:    p.Category,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Effort:      p.Effort,
		Note:        p.Note,
		IndentLevel: p.IndentLevel,
		SortOrder:   p.SortOrder,
	}
	if p.Owner != nil {
		r.Owner = ptr(string(*p.Owner))
	}
	if p.Status != nil {
		r.Status = ptr(string(*p.Status))
	}
	if p.Priority != nil {
		r.Priority = ptr(string(*p.Priority))
	}
	if p.StartDate != nil {
		r.StartDate = ptr(p.StartDate.String())
	}
	if p.EndDate != nil {
		r.EndDate = ptr(p.EndDate.String())
	}
	return r
}

func (r UpdateTaskRequest) Domain() (domain.TaskPatch, error) {
	p := domain.TaskPatch{
		Phase:       r.Phase,
		Category:    r.Category,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Effort:      r.Effort,
		Note:        r.Note,
		IndentLevel: r.IndentLevel,
		SortOrder:   r.SortOrder,
	}
	if r.Owner != nil {
		p.Owner = ptr(domain.Owner(*r.Owner))
	}
	if r.Status != nil {
		p.Status = ptr(domain.Status(*r.Status))
	}
	if r.Priority != nil {
		p.Priority = ptr(domain.Priority(*r.Priority))
	}
	if r.StartDate != nil {
		d, err := domain.ParseDate(*r.StartDate)
		if err != nil {
			return domain.TaskPatch{}, fmt.Errorf("invalid start_date: %w", err)
		}
		p.StartDate = &d
	}
	if r.EndDate != nil {
		d, err := domain.ParseDate(*r.EndDate)
		if err != nil {
			return domain.TaskPatch{}, fmt.Errorf("invalid end_date: %w", err)
		}
		p.EndDate = &d
	}
	return p, nil
}

func UpdatePhaseRequestFrom(p domain.PhasePatch) UpdatePhaseRequest {
	return UpdatePhaseRequest{Name: p.Name, SortOrder: p.SortOrder}
}

func (r UpdatePhaseRequest) Domain() domain.PhasePatch {
	return domain.PhasePatch{Name: r.Name, SortOrder: r.SortOrder}
}

func UpdateCategoryRequestFrom(p domain.CategoryPatch) UpdateCategoryRequest {
	return UpdateCategoryRequest{Name: p.Name, PhaseID: p.PhaseID, SortOrder: p.SortOrder}
}

func (r UpdateCategoryRequest) Domain() domain.CategoryPatch {
	return domain.CategoryPatch{Name: r.Name, PhaseID: r.PhaseID, SortOrder: r.SortOrder}
}

func ptr[T any](v T) *T { return &v }
