package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/hierarchy"
)

// AddTask validates t, appends it to the end of its bucket and inserts it.
// The local collection grows only after the backend returned the row.
func (s *Store) AddTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	if err := s.prepareTask(&t); err != nil {
		return domain.Task{}, err
	}
	s.mu.RLock()
	t.SortOrder = hierarchy.NextSortOrder(s.tasks, t.Bucket())
	s.mu.RUnlock()

	done := s.begin()
	defer done()
	start := time.Now()
	created, err := s.repos.Tasks.Create(ctx, t)
	s.observe(ctx, "task", "insert", created.ID, start, err)
	if err != nil {
		return domain.Task{}, err
	}
	s.mu.Lock()
	s.tasks = append(s.tasks, created)
	s.mu.Unlock()
	return created, nil
}

// SaveTask writes every editable field of t in one update. Like the edit
// form it backs, it is not optimistic: local state changes after success.
func (s *Store) SaveTask(ctx context.Context, t domain.Task) error {
	if err := s.prepareTask(&t); err != nil {
		return err
	}
	patch := domain.TaskPatch{
		Phase:       &t.Phase,
		Category:    &t.Category,
		CategoryID:  &t.CategoryID,
		Name:        &t.Name,
		Owner:       &t.Owner,
		Status:      &t.Status,
		Priority:    &t.Priority,
		Effort:      &t.Effort,
		Note:        &t.Note,
		StartDate:   &t.StartDate,
		EndDate:     &t.EndDate,
		IndentLevel: &t.IndentLevel,
	}

	done := s.begin()
	defer done()
	start := time.Now()
	err := s.repos.Tasks.Update(ctx, t.ID, patch)
	s.observe(ctx, "task", "update", t.ID, start, err)
	if err != nil {
		return err
	}
	s.applyLocal(t.ID, patch)
	return nil
}

// prepareTask trims and validates the editable fields of t, fills enum
// defaults and resolves its category id from the phase and category names.
func (s *Store) prepareTask(t *domain.Task) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Phase = strings.TrimSpace(t.Phase)
	t.Category = strings.TrimSpace(t.Category)
	t.Effort = strings.TrimSpace(t.Effort)
	t.Note = strings.TrimSpace(t.Note)
	if t.Name == "" {
		return ErrNameRequired
	}
	if t.Phase == "" {
		return fmt.Errorf("task %q: %w", t.Name, ErrUnknownPhase)
	}
	if t.Owner == "" {
		t.Owner = domain.OwnerEngineer
	}
	if t.Status == "" {
		t.Status = domain.StatusNotStarted
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityRequired
	}
	if !t.Owner.Valid() || !t.Status.Valid() || !t.Priority.Valid() {
		return fmt.Errorf("task %q: invalid owner, status or priority", t.Name)
	}
	if !t.StartDate.IsZero() && !t.EndDate.IsZero() && t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("task %q: %w", t.Name, ErrInvalidRange)
	}
	t.IndentLevel = hierarchy.ClampIndent(t.IndentLevel)
	t.CategoryID = s.ResolveCategoryID(t.Phase, t.Category)
	return nil
}

// ResolveCategoryID finds the category row named category inside the phase
// named phase. It returns 0 when either is missing.
func (s *Store) ResolveCategoryID(phase, category string) int64 {
	if category == "" {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var phaseID int64
	for _, p := range s.phases {
		if p.Name == phase {
			phaseID = p.ID
			break
		}
	}
	if phaseID == 0 {
		return 0
	}
	for _, c := range s.categories {
		if c.PhaseID == phaseID && c.Name == category {
			return c.ID
		}
	}
	return 0
}

// UpdateTask applies patch to the local copy at once, then persists it. On
// failure the error is logged and every task is refetched, discarding the
// optimistic change.
func (s *Store) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	done := s.begin()
	defer done()

	s.applyLocal(id, patch)
	start := time.Now()
	err := s.repos.Tasks.Update(ctx, id, patch)
	s.observe(ctx, "task", "update", id, start, err)
	if err != nil {
		_ = s.FetchTasks(ctx)
		return err
	}
	return nil
}

// PreviewTask changes the local copy only. Drag gestures use it for every
// intermediate position and persist once on release.
func (s *Store) PreviewTask(id int64, patch domain.TaskPatch) bool {
	return s.applyLocal(id, patch)
}

// CommitDates persists both ends of a task's range in one update.
func (s *Store) CommitDates(ctx context.Context, id int64, start, end domain.Date) error {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("task %d: %w", id, ErrInvalidRange)
	}
	return s.UpdateTask(ctx, id, domain.DatesPatch(start, end))
}

// ChangeIndent shifts a task's indent by delta, clamped to the allowed
// range. Nothing is persisted when the level would not change.
func (s *Store) ChangeIndent(ctx context.Context, id int64, delta int) (bool, error) {
	t, ok := s.Task(id)
	if !ok {
		return false, fmt.Errorf("changing indent of task %d: not loaded", id)
	}
	next, changed := hierarchy.ChangeIndent(t.IndentLevel, delta)
	if !changed {
		return false, nil
	}
	return true, s.UpdateTask(ctx, id, domain.TaskPatch{IndentLevel: &next})
}

// CycleStatus advances a task to the next status.
func (s *Store) CycleStatus(ctx context.Context, id int64) error {
	t, ok := s.Task(id)
	if !ok {
		return fmt.Errorf("cycling status of task %d: not loaded", id)
	}
	next := t.Status.Next()
	return s.UpdateTask(ctx, id, domain.TaskPatch{Status: &next})
}

// ShiftTask moves a task delta rows within its bucket.
func (s *Store) ShiftTask(ctx context.Context, id int64, delta int) (bool, error) {
	patch, ok := hierarchy.PlanShift(s.Tasks(), id, delta)
	if !ok {
		return false, nil
	}
	return true, s.UpdateTask(ctx, id, patch)
}

// DeleteTask asks c, then deletes the task.
func (s *Store) DeleteTask(ctx context.Context, id int64, c Confirmer) error {
	t, ok := s.Task(id)
	if !ok {
		return fmt.Errorf("deleting task %d: not loaded", id)
	}
	if err := confirm(ctx, c, fmt.Sprintf("Delete task %q?", t.Name)); err != nil {
		return err
	}
	return s.deleteTask(ctx, id)
}

func (s *Store) deleteTask(ctx context.Context, id int64) error {
	done := s.begin()
	defer done()
	start := time.Now()
	err := s.repos.Tasks.Delete(ctx, id)
	s.observe(ctx, "task", "delete", id, start, err)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tasks = removeTask(s.tasks, id)
	s.mu.Unlock()
	return nil
}

func (s *Store) applyLocal(id int64, patch domain.TaskPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			patch.Apply(&s.tasks[i])
			return true
		}
	}
	return false
}

func removeTask(tasks []domain.Task, id int64) []domain.Task {
	out := tasks[:0:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
