package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/wbs/internal/config"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/alexanderramin/wbs/internal/store"
	"github.com/alexanderramin/wbs/internal/teatest"
	"github.com/alexanderramin/wbs/internal/testutil"
)

// Fixed geometry for dashboard tests. With a 120-column terminal and three
// cells per day, the timeline opens with testToday at its left edge, so date
// d sits at screen column ganttX + 3*(d - 2026-02-01).
const (
	testWidth  = 120
	testHeight = 30
)

var (
	testToday    = domain.MustParseDate("2026-02-01")
	testLeftDate = testToday
)

// dateX returns the screen column of the first cell of date.
func dateX(date string) int {
	return ganttX + domain.MustParseDate(date).DaysSince(testLeftDate)*defaultDayCells
}

// rowY returns the screen line of body row i.
func rowY(i int) int {
	return bodyY + i
}

// TestDriver wraps teatest.Driver with access to appModel internals
// (view stack, dashboard rows) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// loadedApp returns an App with a loaded store over repos, as setup would
// leave it for the dashboard.
func loadedApp(t *testing.T, repos repository.Repos) *App {
	t.Helper()
	s := store.New(repos)
	require.NoError(t, s.FetchAll(context.Background()))
	return &App{
		Config: config.Config{
			DayWidth:       defaultDayCells,
			Overscan:       14,
			ScrollThrottle: time.Millisecond,
		},
		Store: s,
	}
}

// NewTestDriver creates a TestDriver over a fresh in-memory board. seed runs
// against the repositories before the store loads.
func NewTestDriver(t *testing.T, seed func(repos repository.Repos)) (*TestDriver, repository.Repos) {
	t.Helper()
	repos, _ := testutil.NewTestRepos(t)
	if seed != nil {
		seed(repos)
	}
	m := newAppModel(loadedApp(t, repos), testToday)
	d := teatest.New(t, m, teatest.WithSize(testWidth, testHeight))
	d.DrainInit()
	return &TestDriver{Driver: d}, repos
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// IsQuitting checks both the model's flag and a tea.QuitMsg seen by the driver.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// Dashboard returns the view at the bottom of the stack.
func (d *TestDriver) Dashboard() *dashboardView {
	return d.appModel().viewStack[0].(*dashboardView)
}

// Flash returns the status-bar message.
func (d *TestDriver) Flash() string {
	return d.appModel().flash
}

// StoreTask returns the store's copy of task id.
func (d *TestDriver) StoreTask(id int64) domain.Task {
	d.T.Helper()
	t, ok := d.appModel().state.Store.Task(id)
	require.True(d.T, ok, "task %d not loaded", id)
	return t
}
