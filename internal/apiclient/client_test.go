package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/wbs/internal/api"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/alexanderramin/wbs/internal/store"
	"github.com/alexanderramin/wbs/internal/testutil"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	repos, _ := testutil.NewTestRepos(t)
	srv := httptest.NewServer(api.New(api.Config{Repos: repos}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second)
}

func TestClient_Health(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.Health(context.Background()))
}

func TestClient_TaskRoundTrip(t *testing.T) {
	ctx := context.Background()
	repos := newClient(t).Repos()

	phase, err := repos.Phases.Create(ctx, domain.Phase{Name: "Plan", SortOrder: 1})
	require.NoError(t, err)
	cat, err := repos.Categories.Create(ctx, domain.Category{Name: "UI", PhaseID: phase.ID, SortOrder: 1})
	require.NoError(t, err)

	in := testutil.NewTestTask("Plan", "Wireframes",
		testutil.WithCategory("UI", cat.ID),
		testutil.WithDates("2026-02-10", "2026-02-12"),
		testutil.WithIndent(1),
	)
	created, err := repos.Tasks.Create(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, cat.ID, created.CategoryID)
	assert.Equal(t, domain.MustParseDate("2026-02-10"), created.StartDate)
	assert.Equal(t, 1, created.IndentLevel)

	require.NoError(t, repos.Tasks.Update(ctx, created.ID, domain.TaskPatch{
		StartDate: ptr(domain.MustParseDate("2026-03-01")),
		EndDate:   ptr(domain.MustParseDate("2026-03-02")),
		Status:    ptr(domain.StatusDone),
	}))

	tasks, err := repos.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.MustParseDate("2026-03-01"), tasks[0].StartDate)
	assert.Equal(t, domain.StatusDone, tasks[0].Status)

	require.NoError(t, repos.Tasks.Delete(ctx, created.ID))
	tasks, err = repos.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestClient_NotFoundMapsToSentinel(t *testing.T) {
	ctx := context.Background()
	repos := newClient(t).Repos()

	err := repos.Tasks.Update(ctx, 99, domain.TaskPatch{Name: ptr("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.RequestID)

	assert.ErrorIs(t, repos.Phases.Delete(ctx, 99), repository.ErrNotFound)
}

func TestClient_EmptyPatchSkipsRequest(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	assert.NoError(t, c.Repos().Tasks.Update(context.Background(), 1, domain.TaskPatch{}))
}

func TestClient_DrivesStore(t *testing.T) {
	ctx := context.Background()
	repos := newClient(t).Repos()
	s := store.New(repos)

	_, err := s.AddPhase(ctx, "Plan")
	require.NoError(t, err)
	task, err := s.AddTask(ctx, testutil.NewTestTask("Plan", "Wireframes", testutil.WithDates("2026-02-10", "2026-02-12")))
	require.NoError(t, err)

	require.NoError(t, s.CommitDates(ctx, task.ID, domain.MustParseDate("2026-02-11"), domain.MustParseDate("2026-02-13")))

	fresh := store.New(repos)
	require.NoError(t, fresh.FetchAll(ctx))
	got, ok := fresh.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, domain.MustParseDate("2026-02-13"), got.EndDate)
}

func ptr[T any](v T) *T { return &v }
