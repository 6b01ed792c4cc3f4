package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
)

// AddCategory appends a category to the end of phaseID's categories.
func (s *Store) AddCategory(ctx context.Context, name string, phaseID int64) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, ErrNameRequired
	}
	if _, ok := s.Phase(phaseID); !ok {
		return domain.Category{}, fmt.Errorf("adding category %q: %w", name, ErrUnknownPhase)
	}
	s.mu.RLock()
	next := 1
	for _, c := range s.categories {
		if c.PhaseID == phaseID && c.SortOrder >= next {
			next = c.SortOrder + 1
		}
	}
	s.mu.RUnlock()

	done := s.begin()
	defer done()
	start := time.Now()
	created, err := s.repos.Categories.Create(ctx, domain.Category{Name: name, PhaseID: phaseID, SortOrder: next})
	s.observe(ctx, "category", "insert", created.ID, start, err)
	if err != nil {
		return domain.Category{}, err
	}
	s.mu.Lock()
	s.categories = append(s.categories, created)
	s.mu.Unlock()
	return created, nil
}

// tasksInCategory lists the tasks filed under c by phase and category name.
func (s *Store) tasksInCategory(c domain.Category) []domain.Task {
	p, ok := s.Phase(c.PhaseID)
	if !ok {
		return nil
	}
	var out []domain.Task
	for _, t := range s.Tasks() {
		if t.Phase == p.Name && t.Category == c.Name {
			out = append(out, t)
		}
	}
	return out
}

// RenameCategory renames a category and the tasks filed under it.
func (s *Store) RenameCategory(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	old, ok := s.Category(id)
	if !ok {
		return fmt.Errorf("renaming category %d: not loaded", id)
	}
	affected := s.tasksInCategory(old)

	done := s.begin()
	defer done()
	start := time.Now()
	err := s.repos.Categories.Update(ctx, id, domain.CategoryPatch{Name: &name})
	s.observe(ctx, "category", "update", id, start, err)
	if err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Name = name
		}
	}
	s.mu.Unlock()

	if old.Name == name || len(affected) == 0 {
		return nil
	}
	patch := domain.TaskPatch{Category: &name}
	for _, t := range affected {
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

// CategoryDeletePrompt returns the confirmation question for deleting a
// category, or "" when no task is filed under it.
func (s *Store) CategoryDeletePrompt(id int64) string {
	c, ok := s.Category(id)
	if !ok {
		return ""
	}
	n := len(s.tasksInCategory(c))
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("Category %q has %d task(s). Deleting it leaves them uncategorized. Continue?", c.Name, n)
}

// DeleteCategory deletes a category. Tasks filed under it are asked about
// through c and then left without a category.
func (s *Store) DeleteCategory(ctx context.Context, id int64, c Confirmer) error {
	cat, ok := s.Category(id)
	if !ok {
		return fmt.Errorf("deleting category %d: not loaded", id)
	}
	affected := s.tasksInCategory(cat)
	if len(affected) > 0 {
		if err := confirm(ctx, c, s.CategoryDeletePrompt(id)); err != nil {
			return err
		}
	}

	done := s.begin()
	defer done()
	empty, none := "", int64(0)
	uncategorize := domain.TaskPatch{Category: &empty, CategoryID: &none}
	for _, t := range affected {
		start := time.Now()
		err := s.repos.Tasks.Update(ctx, t.ID, uncategorize)
		s.observe(ctx, "task", "update", t.ID, start, err)
		if err != nil {
			_ = s.FetchTasks(ctx)
			return err
		}
	}

	start := time.Now()
	err := s.repos.Categories.Delete(ctx, id)
	s.observe(ctx, "category", "delete", id, start, err)
	if err != nil {
		_ = s.FetchTasks(ctx)
		return err
	}
	s.mu.Lock()
	s.categories = slices.DeleteFunc(s.categories, func(c domain.Category) bool { return c.ID == id })
	s.mu.Unlock()
	return s.FetchTasks(ctx)
}

// Direction is a one-step category move.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// MoveCategory swaps a category's sort key with its neighbour in dir,
// optimistically. It reports false when there is no neighbour.
func (s *Store) MoveCategory(ctx context.Context, id int64, dir Direction) (bool, error) {
	cat, ok := s.Category(id)
	if !ok {
		return false, fmt.Errorf("moving category %d: not loaded", id)
	}
	siblings := s.CategoriesOf(cat.PhaseID)
	i := slices.IndexFunc(siblings, func(c domain.Category) bool { return c.ID == id })
	j := i + int(dir)
	if i < 0 || j < 0 || j >= len(siblings) {
		return false, nil
	}
	other := siblings[j]
	a, b := other.SortOrder, cat.SortOrder

	done := s.begin()
	defer done()
	s.mu.Lock()
	for k := range s.categories {
		switch s.categories[k].ID {
		case cat.ID:
			s.categories[k].SortOrder = a
		case other.ID:
			s.categories[k].SortOrder = b
		}
	}
	s.mu.Unlock()

	for _, w := range []struct {
		id    int64
		order int
	}{{cat.ID, a}, {other.ID, b}} {
		start := time.Now()
		err := s.repos.Categories.Update(ctx, w.id, domain.CategoryPatch{SortOrder: &w.order})
		s.observe(ctx, "category", "update", w.id, start, err)
		if err != nil {
			_ = s.FetchCategories(ctx)
			return false, err
		}
	}
	return true, nil
}

// ReorderCategories renumbers the categories in ids to 1..n, optimistically.
func (s *Store) ReorderCategories(ctx context.Context, ids []int64) error {
	done := s.begin()
	defer done()

	s.mu.Lock()
	for i := range s.categories {
		if k := slices.Index(ids, s.categories[i].ID); k >= 0 {
			s.categories[i].SortOrder = k + 1
		}
	}
	s.mu.Unlock()

	for k, id := range ids {
		order := k + 1
		start := time.Now()
		err := s.repos.Categories.Update(ctx, id, domain.CategoryPatch{SortOrder: &order})
		s.observe(ctx, "category", "update", id, start, err)
		if err != nil {
			_ = s.FetchCategories(ctx)
			return err
		}
	}
	return nil
}

// CategoriesOf returns phaseID's categories by sort key, then id.
func (s *Store) CategoriesOf(phaseID int64) []domain.Category {
	var out []domain.Category
	for _, c := range s.Categories() {
		if c.PhaseID == phaseID {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Category) int {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder - b.SortOrder
		}
		return int(a.ID - b.ID)
	})
	return out
}
