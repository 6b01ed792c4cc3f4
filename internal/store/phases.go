package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
)

// AddPhase appends a phase after the current last one.
func (s *Store) AddPhase(ctx context.Context, name string) (domain.Phase, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Phase{}, ErrNameRequired
	}
	s.mu.RLock()
	next := 1
	for _, p := range s.phases {
		if p.SortOrder >= next {
			next = p.SortOrder + 1
		}
	}
	s.mu.RUnlock()

	done := s.begin()
	defer done()
	start := time.Now()
	created, err := s.repos.Phases.Create(ctx, domain.Phase{Name: name, SortOrder: next})
	s.observe(ctx, "phase", "insert", created.ID, start, err)
	if err != nil {
		return domain.Phase{}, err
	}
	s.mu.Lock()
	s.phases = append(s.phases, created)
	s.mu.Unlock()
	return created, nil
}

// RenamePhase renames a phase and every task that refers to it by name.
func (s *Store) RenamePhase(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	old, ok := s.Phase(id)
	if !ok {
		return fmt.Errorf("renaming phase %d: %w", id, ErrUnknownPhase)
	}

	done := s.begin()
	defer done()
	start := time.Now()
	err := s.repos.Phases.Update(ctx, id, domain.PhasePatch{Name: &name})
	s.observe(ctx, "phase", "update", id, start, err)
	if err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.phases {
		if s.phases[i].ID == id {
			s.phases[i].Name = name
		}
	}
	s.mu.Unlock()

	if old.Name == name {
		return nil
	}
	patch := domain.TaskPatch{Phase: &name}
	for _, t := range s.Tasks() {
		if t.Phase != old.Name {
			continue
		}
		start := time.Now()
		err := s.repos.Tasks.Update(ctx, t.ID, patch)
		s.observe(ctx, "task", "update", t.ID, start, err)
		if err != nil {
			_ = s.FetchTasks(ctx)
			return err
		}
	}
	return s.FetchTasks(ctx)
}

// PhaseDeletePrompt returns the confirmation question for deleting a phase,
// or "" when the phase has no tasks and needs none.
func (s *Store) PhaseDeletePrompt(id int64) string {
	p, ok := s.Phase(id)
	if !ok {
		return ""
	}
	n := 0
	for _, t := range s.Tasks() {
		if t.Phase == p.Name {
			n++
		}
	}
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("Phase %q has %d task(s). Deleting the phase deletes them too. Continue?", p.Name, n)
}

// DeletePhase deletes a phase. When tasks refer to it, c is asked first and
// the tasks are deleted before the phase. Declining returns ErrCancelled
// and changes nothing.
func (s *Store) DeletePhase(ctx context.Context, id int64, c Confirmer) error {
	p, ok := s.Phase(id)
	if !ok {
		return fmt.Errorf("deleting phase %d: %w", id, ErrUnknownPhase)
	}
	if prompt := s.PhaseDeletePrompt(id); prompt != "" {
		if err := confirm(ctx, c, prompt); err != nil {
			return err
		}
	}

	done := s.begin()
	defer done()
	for _, t := range s.Tasks() {
		if t.Phase != p.Name {
			continue
		}
		start := time.Now()
		err := s.repos.Tasks.Delete(ctx, t.ID)
		s.observe(ctx, "task", "delete", t.ID, start, err)
		if err != nil {
			_ = s.FetchTasks(ctx)
			return err
		}
	}

	start := time.Now()
	err := s.repos.Phases.Delete(ctx, id)
	s.observe(ctx, "phase", "delete", id, start, err)
	if err != nil {
		_ = s.FetchTasks(ctx)
		return err
	}
	s.mu.Lock()
	s.phases = slices.DeleteFunc(s.phases, func(x domain.Phase) bool { return x.ID == id })
	s.categories = slices.DeleteFunc(s.categories, func(c domain.Category) bool { return c.PhaseID == id })
	s.mu.Unlock()
	return s.FetchTasks(ctx)
}

// ReorderPhases renumbers the phases in ids to 1..n, optimistically. A
// failed write refetches the phases.
func (s *Store) ReorderPhases(ctx context.Context, ids []int64) error {
	done := s.begin()
	defer done()

	s.mu.Lock()
	for i := range s.phases {
		if k := slices.Index(ids, s.phases[i].ID); k >= 0 {
			s.phases[i].SortOrder = k + 1
		}
	}
	slices.SortStableFunc(s.phases, func(a, b domain.Phase) int { return a.SortOrder - b.SortOrder })
	s.mu.Unlock()

	for k, id := range ids {
		order := k + 1
		start := time.Now()
		err := s.repos.Phases.Update(ctx, id, domain.PhasePatch{SortOrder: &order})
		s.observe(ctx, "phase", "update", id, start, err)
		if err != nil {
			_ = s.FetchPhases(ctx)
			return err
		}
	}
	return nil
}

// PhaseByName finds a phase row by its name.
func (s *Store) PhaseByName(name string) (domain.Phase, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.phases {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Phase{}, false
}
