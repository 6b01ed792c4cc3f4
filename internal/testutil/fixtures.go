package testutil

import (
	"context"
	"testing"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
)

// Task options
type TaskOption func(*domain.Task)

func WithCategory(name string, id int64) TaskOption {
	return func(t *domain.Task) {
		t.Category = name
		t.CategoryID = id
	}
}

func WithDates(start, end string) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = domain.MustParseDate(start)
		t.EndDate = domain.MustParseDate(end)
	}
}

func WithIndent(level int) TaskOption {
	return func(t *domain.Task) {
		t.IndentLevel = level
	}
}

func WithSortOrder(s float64) TaskOption {
	return func(t *domain.Task) {
		t.SortOrder = s
	}
}

func WithOwner(o domain.Owner) TaskOption {
	return func(t *domain.Task) {
		t.Owner = o
	}
}

func WithStatus(s domain.Status) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func NewTestTask(phase, name string, opts ...TaskOption) domain.Task {
	t := domain.Task{
		Phase:    phase,
		Name:     name,
		Owner:    domain.OwnerShared,
		Status:   domain.StatusNotStarted,
		Priority: domain.PriorityRequired,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// SeedPhase inserts a phase and fails the test on error.
func SeedPhase(t *testing.T, repos repository.Repos, name string, sort int) domain.Phase {
	t.Helper()
	p, err := repos.Phases.Create(context.Background(), domain.Phase{Name: name, SortOrder: sort})
	if err != nil {
		t.Fatalf("seeding phase %q: %v", name, err)
	}
	return p
}

// SeedCategory inserts a category under phaseID.
func SeedCategory(t *testing.T, repos repository.Repos, name string, phaseID int64, sort int) domain.Category {
	t.Helper()
	c, err := repos.Categories.Create(context.Background(), domain.Category{Name: name, PhaseID: phaseID, SortOrder: sort})
	if err != nil {
		t.Fatalf("seeding category %q: %v", name, err)
	}
	return c
}

// SeedTask inserts task.
func SeedTask(t *testing.T, repos repository.Repos, task domain.Task) domain.Task {
	t.Helper()
	created, err := repos.Tasks.Create(context.Background(), task)
	if err != nil {
		t.Fatalf("seeding task %q: %v", task.Name, err)
	}
	return created
}
