package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
)

// Build reads every row through repos.
func Build(ctx context.Context, repos repository.Repos) (*Snapshot, error) {
	phases, err := repos.Phases.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting phases: %w", err)
	}
	categories, err := repos.Categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting categories: %w", err)
	}
	tasks, err := repos.Tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting tasks: %w", err)
	}

	s := &Snapshot{Version: Version, ExportedAt: time.Now().UTC().Truncate(time.Second)}
	for _, p := range phases {
		s.Phases = append(s.Phases, PhaseRow{ID: p.ID, Name: p.Name, SortOrder: p.SortOrder})
	}
	for _, c := range categories {
		s.Categories = append(s.Categories, CategoryRow{ID: c.ID, Name: c.Name, PhaseID: c.PhaseID, SortOrder: c.SortOrder})
	}
	for _, t := range tasks {
		s.Tasks = append(s.Tasks, TaskRow{
			Phase:       t.Phase,
			Category:    t.Category,
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
		})
	}
	return s, nil
}

// Write encodes s as YAML and replaces path atomically.
func Write(path string, s *Snapshot) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// Export builds a snapshot from repos and writes it to path.
func Export(ctx context.Context, repos repository.Repos, path string) (*Snapshot, error) {
	s, err := Build(ctx, repos)
	if err != nil {
		return nil, err
	}
	return s, Write(path, s)
}

// Result counts the rows an import created.
type Result struct {
	Phases     int
	Categories int
	Tasks      int
}

// Import validates s and inserts it in one transaction. Phases and
// categories that already exist by name are reused; tasks are always added.
func Import(ctx context.Context, tx repository.Transactor, s *Snapshot) (Result, error) {
	if errs := Validate(s); len(errs) > 0 {
		return Result{}, fmt.Errorf("invalid snapshot: %w", errors.Join(errs...))
	}
	var res Result
	err := tx.InTx(ctx, func(ctx context.Context, r repository.Repos) error {
		res = Result{}
		phaseIDs, err := importPhases(ctx, r, s.Phases, &res)
		if err != nil {
			return err
		}
		buckets, err := importCategories(ctx, r, s, phaseIDs, &res)
		if err != nil {
			return err
		}
		for i, row := range s.Tasks {
			task, err := taskFromRow(row)
			if err != nil {
				return fmt.Errorf("tasks[%d]: %w", i, err)
			}
			task.CategoryID = buckets[task.Bucket()]
			if _, err := r.Tasks.Create(ctx, task); err != nil {
				return fmt.Errorf("importing task %q: %w", row.Name, err)
			}
			res.Tasks++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// importPhases maps file phase ids to stored ids.
func importPhases(ctx context.Context, r repository.Repos, rows []PhaseRow, res *Result) (map[int64]int64, error) {
	existing, err := r.Phases.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	byName := make(map[string]int64, len(existing))
	for _, p := range existing {
		byName[p.Name] = p.ID
	}
	ids := make(map[int64]int64, len(rows))
	for _, row := range rows {
		if id, ok := byName[row.Name]; ok {
			ids[row.ID] = id
			continue
		}
		created, err := r.Phases.Create(ctx, domain.Phase{Name: row.Name, SortOrder: row.SortOrder})
		if err != nil {
			return nil, fmt.Errorf("importing phase %q: %w", row.Name, err)
		}
		ids[row.ID] = created.ID
		byName[row.Name] = created.ID
		res.Phases++
	}
	return ids, nil
}

// importCategories returns the stored category id of every bucket the file
// names.
func importCategories(ctx context.Context, r repository.Repos, s *Snapshot, phaseIDs map[int64]int64, res *Result) (map[domain.Bucket]int64, error) {
	existing, err := r.Categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	type key struct {
		phaseID int64
		name    string
	}
	stored := make(map[key]int64, len(existing))
	for _, c := range existing {
		stored[key{c.PhaseID, c.Name}] = c.ID
	}
	phaseNames := make(map[int64]string, len(s.Phases))
	for _, p := range s.Phases {
		phaseNames[p.ID] = p.Name
	}

	buckets := make(map[domain.Bucket]int64, len(s.Categories))
	for _, row := range s.Categories {
		phaseID := phaseIDs[row.PhaseID]
		id, ok := stored[key{phaseID, row.Name}]
		if !ok {
			created, err := r.Categories.Create(ctx, domain.Category{Name: row.Name, PhaseID: phaseID, SortOrder: row.SortOrder})
			if err != nil {
				return nil, fmt.Errorf("importing category %q: %w", row.Name, err)
			}
			id = created.ID
			stored[key{phaseID, row.Name}] = id
			res.Categories++
		}
		buckets[domain.Bucket{Phase: phaseNames[row.PhaseID], Category: row.Name}] = id
	}
	return buckets, nil
}

func taskFromRow(row TaskRow) (domain.Task, error) {
	start, err := domain.ParseDate(row.StartDate)
	if err != nil {
		return domain.Task{}, err
	}
	end, err := domain.ParseDate(row.EndDate)
	if err != nil {
		return domain.Task{}, err
	}
	t := domain.Task{
		Phase:       row.Phase,
		Category:    row.Category,
		Name:        row.Name,
		Owner:       domain.Owner(row.Owner),
		Status:      domain.Status(row.Status),
		Priority:    domain.Priority(row.Priority),
		Effort:      row.Effort,
		Note:        row.Note,
		StartDate:   start,
		EndDate:     end,
		IndentLevel: row.IndentLevel,
		SortOrder:   row.SortOrder,
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
	return t, nil
}
