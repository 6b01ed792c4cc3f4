package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/alexanderramin/wbs/internal/testutil"
)

func seedBoard(t *testing.T, repos repository.Repos) {
	t.Helper()
	plan := testutil.SeedPhase(t, repos, "Plan", 1)
	testutil.SeedPhase(t, repos, "Build", 2)
	ui := testutil.SeedCategory(t, repos, "UI", plan.ID, 1)
	testutil.SeedTask(t, repos, testutil.NewTestTask("Plan", "Wireframes",
		testutil.WithCategory("UI", ui.ID),
		testutil.WithDates("2026-02-10", "2026-02-12"),
		testutil.WithSortOrder(1),
	))
	testutil.SeedTask(t, repos, testutil.NewTestTask("Plan", "Review",
		testutil.WithCategory("UI", ui.ID),
		testutil.WithIndent(1),
		testutil.WithSortOrder(2),
	))
	testutil.SeedTask(t, repos, testutil.NewTestTask("Build", "Deploy", testutil.WithSortOrder(1)))
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := testutil.NewTestRepos(t)
	seedBoard(t, src)

	path := filepath.Join(t.TempDir(), "board.yaml")
	_, err := Export(ctx, src, path)
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Version, loaded.Version)
	assert.Len(t, loaded.Tasks, 3)

	dst, dstDB := testutil.NewTestRepos(t)
	res, err := Import(ctx, repository.NewSQLiteTransactor(dstDB), loaded)
	require.NoError(t, err)
	assert.Equal(t, Result{Phases: 2, Categories: 1, Tasks: 3}, res)

	cats, err := dst.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)

	tasks, err := dst.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Wireframes", tasks[0].Name, "dated task sorts first")
	assert.Equal(t, domain.MustParseDate("2026-02-12"), tasks[0].EndDate)
	assert.Equal(t, cats[0].ID, tasks[0].CategoryID, "category id remapped")
	for _, tk := range tasks {
		if tk.Name == "Review" {
			assert.Equal(t, 1, tk.IndentLevel)
			assert.Equal(t, cats[0].ID, tk.CategoryID)
		}
		if tk.Name == "Deploy" {
			assert.Zero(t, tk.CategoryID)
		}
	}
}

func TestImport_ReusesExistingPhases(t *testing.T) {
	ctx := context.Background()
	dst, dstDB := testutil.NewTestRepos(t)
	testutil.SeedPhase(t, dst, "Plan", 5)

	res, err := Import(ctx, repository.NewSQLiteTransactor(dstDB), validSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Phases, "only Build is new")

	phases, err := dst.Phases.List(ctx)
	require.NoError(t, err)
	assert.Len(t, phases, 2)
}

func TestImport_InvalidWritesNothing(t *testing.T) {
	ctx := context.Background()
	dst, dstDB := testutil.NewTestRepos(t)
	s := validSnapshot()
	s.Tasks[0].Owner = "robot"

	_, err := Import(ctx, repository.NewSQLiteTransactor(dstDB), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid snapshot")

	phases, err := dst.Phases.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, phases)
}

func TestImport_RollsBackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	dst, dstDB := testutil.NewTestRepos(t)
	uow := &testutil.FailOnNthWriteUoW{DB: dstDB, FailOn: 4, Err: assert.AnError}

	_, err := Import(ctx, repository.NewUnitOfWorkTransactor(uow), validSnapshot())
	require.Error(t, err)

	phases, err := dst.Phases.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, phases, "phases written before the failure are rolled back")
	tasks, err := dst.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("version: 1\nphases: []\ntasks: []\nprojects: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing snapshot")
}

func TestWrite_ReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, Write(path, validSnapshot()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Plan")
	assert.NotContains(t, string(data), "stale")
}
