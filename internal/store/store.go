// Package store keeps the in-memory phases, categories and tasks in step
// with the persistence backend.
//
// Task updates are optimistic: the local copy changes first and a failed
// write is undone by refetching the whole collection, which also discards
// any other optimistic edit still in flight. Inserts and deletes touch local
// state only after the backend accepted them. Writes are not serialized;
// two overlapping updates of one row may reach the backend in either order.
package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
)

var (
	// ErrNameRequired is returned when a name is blank.
	ErrNameRequired = errors.New("name is required")
	// ErrUnknownPhase is returned when a phase reference does not resolve.
	ErrUnknownPhase = errors.New("unknown phase")
	// ErrInvalidRange is returned when an end date precedes its start date.
	ErrInvalidRange = errors.New("end date is before start date")
)

// Store is safe for concurrent use. Bubbletea runs commands on their own
// goroutines, so reads and the optimistic writes may race.
type Store struct {
	repos    repository.Repos
	observer Observer

	mu         sync.RWMutex
	phases     []domain.Phase
	categories []domain.Category
	tasks      []domain.Task
	saving     int
}

// Option configures a Store.
type Option func(*Store)

func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

func New(repos repository.Repos, opts ...Option) *Store {
	s := &Store{repos: repos, observer: NoopObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Saving reports whether any write is in flight.
func (s *Store) Saving() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saving > 0
}

func (s *Store) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

func (s *Store) Phases() []domain.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.phases)
}

func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

func (s *Store) Task(id int64) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

func (s *Store) Phase(id int64) (domain.Phase, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.phases {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Phase{}, false
}

func (s *Store) Category(id int64) (domain.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

// FetchAll replaces every collection with the backend's rows.
func (s *Store) FetchAll(ctx context.Context) error {
	if err := s.FetchPhases(ctx); err != nil {
		return err
	}
	if err := s.FetchCategories(ctx); err != nil {
		return err
	}
	return s.FetchTasks(ctx)
}

func (s *Store) FetchTasks(ctx context.Context) error {
	start := time.Now()
	tasks, err := s.repos.Tasks.List(ctx)
	s.observe(ctx, "task", "refetch", 0, start, err)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

func (s *Store) FetchPhases(ctx context.Context) error {
	start := time.Now()
	phases, err := s.repos.Phases.List(ctx)
	s.observe(ctx, "phase", "refetch", 0, start, err)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.phases = phases
	s.mu.Unlock()
	return nil
}

func (s *Store) FetchCategories(ctx context.Context) error {
	start := time.Now()
	categories, err := s.repos.Categories.List(ctx)
	s.observe(ctx, "category", "refetch", 0, start, err)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return nil
}

// begin marks a write in flight; the returned func ends it.
func (s *Store) begin() func() {
	s.mu.Lock()
	s.saving++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.saving--
		s.mu.Unlock()
	}
}

func (s *Store) observe(ctx context.Context, entity, op string, id int64, start time.Time, err error) {
	s.observer.ObserveWrite(ctx, WriteEvent{
		Entity:   entity,
		Op:       op,
		ID:       id,
		Duration: time.Since(start),
		Success:  err == nil,
		Err:      err,
	})
}
