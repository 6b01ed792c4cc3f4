package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/wbs/internal/config"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/alexanderramin/wbs/internal/store"
	"github.com/alexanderramin/wbs/internal/testutil"
)

// testApp wires an App whose backend is an in-memory SQLite database. Every
// command run against it sees the same rows.
func testApp(t *testing.T) (*App, repository.Repos) {
	t.Helper()
	repos, database := testutil.NewTestRepos(t)
	app := &App{
		Open: func(ctx context.Context, cfg config.Config) (*Backend, error) {
			return &Backend{Repos: repos, Tx: repository.NewSQLiteTransactor(database)}, nil
		},
	}
	return app, repos
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append(args, "--log-level=error"))
	err := root.Execute()
	return buf.String(), err
}

func mustExec(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

// --- Root ---

func TestRootCmd_NonInteractivePrintsHelp(t *testing.T) {
	app, _ := testApp(t)
	out := mustExec(t, app)
	assert.Contains(t, out, "Usage")
	assert.Contains(t, out, "phase")
}

func TestRootCmd_UnknownBackend(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "phase", "list", "--backend", "mongo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

// --- Phases ---

func TestPhaseCmd_AddAndList(t *testing.T) {
	app, repos := testApp(t)

	out := mustExec(t, app, "phase", "add", "Discovery")
	assert.Contains(t, out, "Added phase")
	assert.Contains(t, out, "Discovery")
	mustExec(t, app, "phase", "add", "Build")

	phases, err := repos.Phases.List(context.Background())
	require.NoError(t, err)
	require.Len(t, phases, 2)
	assert.Less(t, phases[0].SortOrder, phases[1].SortOrder)

	out = mustExec(t, app, "phase", "list")
	assert.Contains(t, out, "Discovery")
	assert.Contains(t, out, "Build")
}

func TestPhaseCmd_ListEmpty(t *testing.T) {
	app, _ := testApp(t)
	out := mustExec(t, app, "phase", "list")
	assert.Contains(t, out, "No phases.")
}

func TestPhaseCmd_AddBlankName(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "phase", "add", "  ")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNameRequired)
}

func TestPhaseCmd_RenameCarriesTasks(t *testing.T) {
	app, repos := testApp(t)
	testutil.SeedPhase(t, repos, "Phase 1", 0)
	testutil.SeedTask(t, repos, testutil.NewTestTask("Phase 1", "Sketch"))

	out := mustExec(t, app, "phase", "rename", "phase 1", "Research")
	assert.Contains(t, out, "Renamed Phase 1 to")

	tasks, err := repos.Tasks.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Research", tasks[0].Phase)
}

func TestPhaseCmd_Reorder(t *testing.T) {
	app, repos := testApp(t)
	testutil.SeedPhase(t, repos, "A", 0)
	testutil.SeedPhase(t, repos, "B", 1)
	testutil.SeedPhase(t, repos, "C", 2)

	out := mustExec(t, app, "phase", "reorder", "C", "A")
	assert.Contains(t, out, "1. C\n2. A\n3. B")
}

func TestPhaseCmd_ReorderUnknown(t *testing.T) {
	app, repos := testApp(t)
	testutil.SeedPhase(t, repos, "A", 0)

	_, err := executeCmd(t, app, "phase", "reorder", "Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnknownPhase)
}

func TestPhaseCmd_RmRequiresYes(t *testing.T) {
	app, repos := testApp(t)
	testutil.SeedPhase(t, repos, "A", 0)

	_, err := executeCmd(t, app, "phase", "rm", "A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out := mustExec(t, app, "phase", "rm", "A", "--yes")
	assert.Contains(t, out, "Deleted phase A")
	phases, err := repos.Phases.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, phases)
}

// --- Categories ---

func TestCategoryCmd_AddListAndMove(t *testing.T) {
	app, repos := testApp(t)
	p := testutil.SeedPhase(t, repos, "Build", 0)

	mustExec(t, app, "category", "add", "Backend", "--phase", "Build")
	mustExec(t, app, "category", "add", "Frontend", "-p", "Build")

	out := mustExec(t, app, "category", "list")
	assert.Contains(t, out, "Backend")
	assert.Contains(t, out, "Frontend")

	out = mustExec(t, app, "category", "up", "Frontend", "-p", "Build")
	assert.Contains(t, out, "Moved Frontend up")

	out = mustExec(t, app, "category", "up", "Frontend", "-p", "Build")
	assert.Contains(t, out, "already at the top")

	cats, err := repos.Categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	byName := map[string]domain.Category{}
	for _, c := range cats {
		assert.Equal(t, p.ID, c.PhaseID)
		byName[c.Name] = c
	}
	assert.Less(t, byName["Frontend"].SortOrder, byName["Backend"].SortOrder)
}

func TestCategoryCmd_AddNeedsPhase(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "category", "add", "Backend")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phase")
}

// --- Tasks ---

func TestTaskCmd_AddListShow(t *testing.T) {
	app, repos := testApp(t)
	testutil.SeedPhase(t, repos, "Build", 0)

	out := mustExec(t, app, "task", "add", "Wire API",
		"--phase", "build", "--owner", "designer", "--start", "2026-03-02", "--end", "2026-03-06")
	assert.Contains(t, out, "Added task #")

	tasks, err := repos.Tasks.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.Equal(t, "Build", task.Phase)
	assert.Equal(t, domain.OwnerDesigner, task.Owner)
	assert.Equal(t, domain.MustParseDate("2026-03-02"), task.StartDate)

	out = mustExec(t, app, "task", "list")
	assert.Contains(t, out, "Wire API")
	assert.Contains(t, out, "Designer")

	out = mustExec(t, app, "task", "show", "#1")
	assert.Contains(t, out, "#1 Wire API")
	assert.Contains(t, out, "Build")
}

func TestTaskCmd_AddDefaultsToFirstPhase(t *testing.T) {
	app, repos := testApp(t)

	mustExec(t, app, "task", "add", "Kickoff")

	tasks, err := repos.Tasks.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.DefaultPhaseNames[0], tasks[0].Phase)
	assert.Equal(t, domain.StatusNotStarted, tasks[0].Status)
}

func TestTaskCmd_AddInvalidOwner(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "task", "add", "Kickoff", "--owner", "robot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid owner")
}

func TestTaskCmd_ListEmpty(t *testing.T) {
	app, _ := testApp(t)
	out := mustExec(t, app, "task", "list")
	assert.Contains(t, out, "No tasks.")
}

func TestTaskCmd_Set(t *testing.T) {
	app, repos := testApp(t)
	task := testutil.SeedTask(t, repos, testutil.NewTestTask("Phase 1", "Draft"))

	out := mustExec(t, app, "task", "set", "1", "--name", "Final", "--status", "done")
	assert.Contains(t, out, "Updated task #1")

	tasks, err := repos.Tasks.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.Equal(t, "Final", tasks[0].Name)
	assert.Equal(t, domain.StatusDone, tasks[0].Status)
}

func TestTaskCmd_SetNothing(t *testing.T) {
	app, repos := testApp(t)
	testutil.SeedTask(t, repos, testutil.NewTestTask("Phase 1", "Draft"))

	// executeCmd always passes --log-level, which must not count as a change.
	out, err := executeCmd(t, app, "task", "set", "1", "--config", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
	assert.NotContains(t, out, "Updated task")
}

func TestTaskCmd_SetNameOnly(t *testing.T) {
	app, repos := testApp(t)
	testutil.SeedTask(t, repos, testutil.NewTestTask("Phase 1", "Draft"))

	out := mustExec(t, app, "task", "set", "1", "--name", "Final")
	assert.Contains(t, out, "Updated task #1")
	assert.Equal(t, "Final", listTasks(t, repos)["Final"].Name)
}

func TestTaskCmd_Dates(t *testing.T) {
	app, repos := testApp(t)
	testutil.SeedTask(t, repos, testutil.NewTestTask("Phase 1", "Draft"))

	mustExec(t, app, "task", "dates", "1", "2026-04-01", "2026-04-03")
	tasks, err := repos.Tasks.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.MustParseDate("2026-04-01"), tasks[0].StartDate)
	assert.Equal(t, domain.MustParseDate("2026-04-03"), tasks[0].EndDate)

	mustExec(t, app, "task", "dates", "1", "-", "-")
	tasks, err = repos.Tasks.List(context.Background())
	require.NoError(t, err)
	assert.False(t, tasks[0].HasDates())
}

func TestTaskCmd_DatesInvalidRange(t *testing.T) {
	app, repos := testApp(t)
	testutil.SeedTask(t, repos, testutil.NewTestTask("Phase 1", "Draft"))

	_, err := executeCmd(t, app, "task", "dates", "1", "2026-04-03", "2026-04-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrInvalidRange)
}

func TestTaskCmd_IndentClamps(t *testing.T) {
	app, repos := testApp(t)
	testutil.SeedTask(t, repos, testutil.NewTestTask("Phase 1", "Draft"))

	out := mustExec(t, app, "task", "indent", "1", "--out")
	assert.Contains(t, out, "already at level 0")

	out = mustExec(t, app, "task", "indent", "1")
	assert.Contains(t, out, "now at level 1")
}

func TestTaskCmd_Move(t *testing.T) {
	app, repos := testApp(t)
	testutil.SeedTask(t, repos, testutil.NewTestTask("Phase 1", "First", testutil.WithSortOrder(1)))
	testutil.SeedTask(t, repos, testutil.NewTestTask("Phase 1", "Second", testutil.WithSortOrder(2)))

	out := mustExec(t, app, "task", "move", "1")
	assert.Contains(t, out, "Moved #1")

	out = mustExec(t, app, "task", "move", "1")
	assert.Contains(t, out, "cannot move")

	tasks, err := repos.Tasks.List(context.Background())
	require.NoError(t, err)
	byName := map[string]domain.Task{}
	for _, task := range tasks {
		byName[task.Name] = task
	}
	assert.Greater(t, byName["First"].SortOrder, byName["Second"].SortOrder)
}

func TestTaskCmd_RmRequiresYes(t *testing.T) {
	app, repos := testApp(t)
	testutil.SeedTask(t, repos, testutil.NewTestTask("Phase 1", "Draft"))

	_, err := executeCmd(t, app, "task", "rm", "1")
	require.Error(t, err)

	out := mustExec(t, app, "task", "rm", "#1", "-y")
	assert.Contains(t, out, "Deleted task #1")

	tasks, err := repos.Tasks.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskCmd_UnknownID(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "task", "show", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// --- Snapshots ---

func TestExportImport_RoundTrip(t *testing.T) {
	src, repos := testApp(t)
	p := testutil.SeedPhase(t, repos, "Build", 0)
	c := testutil.SeedCategory(t, repos, "Backend", p.ID, 0)
	testutil.SeedTask(t, repos, testutil.NewTestTask("Build", "Schema",
		testutil.WithCategory(c.Name, c.ID), testutil.WithDates("2026-03-02", "2026-03-04")))
	testutil.SeedTask(t, repos, testutil.NewTestTask("Build", "Loose"))

	path := filepath.Join(t.TempDir(), "board.yaml")
	out := mustExec(t, src, "export", path)
	assert.Contains(t, out, "Exported 1 phases, 1 categories, 2 tasks")

	dst, dstRepos := testApp(t)
	out = mustExec(t, dst, "import", path)
	assert.Contains(t, out, "Imported 1 phases, 1 categories, 2 tasks")

	tasks, err := dstRepos.Tasks.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	cats, err := dstRepos.Categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	for _, task := range tasks {
		if task.Name == "Schema" {
			assert.Equal(t, cats[0].ID, task.CategoryID)
			assert.Equal(t, domain.MustParseDate("2026-03-04"), task.EndDate)
		}
	}
}

func TestImport_MissingFile(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "import", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

// --- Serve ---

func TestServeCmd_RefusesHTTPBackend(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "serve", "--backend", "http", "--api-url", "http://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database backend")
}
