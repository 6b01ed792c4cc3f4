package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/wbs/internal/testutil"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repos, _ := testutil.NewTestRepos(t)
	srv := httptest.NewServer(New(Config{Repos: repos}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, data
}

func decodeError(t *testing.T, data []byte) apiErrorBody {
	t.Helper()
	var env struct {
		Error apiErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &env), string(data))
	return env.Error
}

func TestHealth_EchoesRequestID(t *testing.T) {
	srv := newTestServer(t)

	res, data := doJSON(t, http.MethodGet, srv.URL+"/health", nil, map[string]string{RequestIDHeader: "req-1"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "req-1", res.Header.Get(RequestIDHeader))
	assert.Contains(t, string(data), `"ok"`)

	res, _ = doJSON(t, http.MethodGet, srv.URL+"/health", nil, nil)
	assert.NotEmpty(t, res.Header.Get(RequestIDHeader))
}

func TestPhases_CreateListUpdateDelete(t *testing.T) {
	srv := newTestServer(t)

	res, data := doJSON(t, http.MethodPost, srv.URL+"/phases", CreatePhaseRequest{Name: "Build", SortOrder: 2}, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, string(data))
	var build Phase
	require.NoError(t, json.Unmarshal(data, &build))
	assert.NotZero(t, build.ID)
	assert.Equal(t, "Build", build.Name)

	res, data = doJSON(t, http.MethodPost, srv.URL+"/phases", CreatePhaseRequest{Name: "Plan", SortOrder: 1}, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, string(data))

	res, data = doJSON(t, http.MethodGet, srv.URL+"/phases", nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var phases []Phase
	require.NoError(t, json.Unmarshal(data, &phases))
	require.Len(t, phases, 2)
	assert.Equal(t, "Plan", phases[0].Name)
	assert.Equal(t, "Build", phases[1].Name)

	res, data = doJSON(t, http.MethodPatch, srv.URL+"/phases/"+itoa(build.ID), UpdatePhaseRequest{Name: ptr("Ship")}, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode, string(data))

	res, _ = doJSON(t, http.MethodDelete, srv.URL+"/phases/"+itoa(build.ID), nil, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, data = doJSON(t, http.MethodDelete, srv.URL+"/phases/"+itoa(build.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "not_found", decodeError(t, data).Code)
}

func TestTasks_PatchDates(t *testing.T) {
	srv := newTestServer(t)

	req := CreateTaskRequest{
		Phase:     "Plan",
		Name:      "Wireframes",
		Owner:     "engineer",
		Status:    "not_started",
		Priority:  "required",
		StartDate: "2026-02-10",
		EndDate:   "2026-02-12",
		SortOrder: 1,
	}
	res, data := doJSON(t, http.MethodPost, srv.URL+"/tasks", req, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, string(data))
	var created Task
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, "2026-02-10", created.StartDate)

	patch := UpdateTaskRequest{StartDate: ptr("2026-03-01"), EndDate: ptr("2026-03-04")}
	res, data = doJSON(t, http.MethodPatch, srv.URL+"/tasks/"+itoa(created.ID), patch, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode, string(data))

	res, data = doJSON(t, http.MethodGet, srv.URL+"/tasks", nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var tasks []Task
	require.NoError(t, json.Unmarshal(data, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "2026-03-01", tasks[0].StartDate)
	assert.Equal(t, "2026-03-04", tasks[0].EndDate)

	patch = UpdateTaskRequest{StartDate: ptr(""), EndDate: ptr("")}
	res, data = doJSON(t, http.MethodPatch, srv.URL+"/tasks/"+itoa(created.ID), patch, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode, string(data))

	_, data = doJSON(t, http.MethodGet, srv.URL+"/tasks", nil, nil)
	require.NoError(t, json.Unmarshal(data, &tasks))
	assert.Empty(t, tasks[0].StartDate, "empty string clears the date")
}

func TestTasks_Errors(t *testing.T) {
	srv := newTestServer(t)

	res, data := doJSON(t, http.MethodPatch, srv.URL+"/tasks/999", UpdateTaskRequest{Name: ptr("x")}, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "not_found", decodeError(t, data).Code)

	bad := CreateTaskRequest{Phase: "Plan", Name: "Wireframes", Owner: "robot", Status: "not_started", Priority: "required"}
	res, data = doJSON(t, http.MethodPost, srv.URL+"/tasks", bad, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, string(data))
	assert.Equal(t, "bad_request", decodeError(t, data).Code)

	badDate := CreateTaskRequest{Phase: "Plan", Name: "Wireframes", Owner: "shared", Status: "done", Priority: "optional", StartDate: "2026-13-01"}
	res, data = doJSON(t, http.MethodPost, srv.URL+"/tasks", badDate, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, string(data))
	assert.Contains(t, decodeError(t, data).Message, "2026-13-01")
}

func TestCategories_CreateRequiresPhase(t *testing.T) {
	srv := newTestServer(t)

	res, data := doJSON(t, http.MethodPost, srv.URL+"/phases", CreatePhaseRequest{Name: "Plan", SortOrder: 1}, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var plan Phase
	require.NoError(t, json.Unmarshal(data, &plan))

	res, data = doJSON(t, http.MethodPost, srv.URL+"/categories", CreateCategoryRequest{Name: "UI", PhaseID: plan.ID, SortOrder: 1}, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, string(data))
	var ui Category
	require.NoError(t, json.Unmarshal(data, &ui))
	assert.Equal(t, plan.ID, ui.PhaseID)

	res, data = doJSON(t, http.MethodPost, srv.URL+"/categories", CreateCategoryRequest{Name: "Orphan", PhaseID: 4242}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, string(data))
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
