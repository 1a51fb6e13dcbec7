package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/scatterbrainlabs/scatterbrain/engine"
	"github.com/scatterbrainlabs/scatterbrain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *engine.Registry) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := engine.NewRegistry(logger)
	return New(0, []string{"http://localhost:5173"}, registry, logger), registry
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func createPlan(t *testing.T, h http.Handler, prompt string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/plans", types.CreatePlanRequest{Prompt: prompt})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp types.CreatePlanResponse
	decodeInto(t, rec, &resp)
	return resp.ID
}

func TestPlanLifecycle(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	id := createPlan(t, h, "ship it")
	assert.Equal(t, "0", id)

	rec := doJSON(t, h, http.MethodGet, "/api/plans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list types.ListPlansResponse
	decodeInto(t, rec, &list)
	assert.Equal(t, []string{"0"}, list.Plans)

	rec = doJSON(t, h, http.MethodGet, "/api/plans/0/plan", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plan types.PlanResponse[types.PlanView]
	decodeInto(t, rec, &plan)
	assert.Equal(t, "ship it", plan.Result.Prompt)
	assert.Equal(t, "", plan.Result.Cursor)
	require.NotNil(t, plan.DistilledContext)
	assert.NotEmpty(t, plan.DistilledContext.UsageSummary)

	rec = doJSON(t, h, http.MethodDelete, "/api/plans/0", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/plans/0/plan", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskFlow(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	createPlan(t, h, "flow")

	rec := doJSON(t, h, http.MethodPost, "/api/plans/0/task",
		types.AddTaskRequest{Description: "first", Level: 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var added types.PlanResponse[types.AddTaskResult]
	decodeInto(t, rec, &added)
	assert.Equal(t, "0", added.Result.Index)

	rec = doJSON(t, h, http.MethodPost, "/api/plans/0/move", types.MoveRequest{Index: "0"})
	require.Equal(t, http.StatusOK, rec.Code)
	var moved types.PlanResponse[*string]
	decodeInto(t, rec, &moved)
	require.NotNil(t, moved.Result)
	assert.Equal(t, "first", *moved.Result)

	rec = doJSON(t, h, http.MethodGet, "/api/plans/0/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current types.PlanResponse[*types.CurrentSummary]
	decodeInto(t, rec, &current)
	require.NotNil(t, current.Result)
	assert.Equal(t, "0", current.Result.Index)

	rec = doJSON(t, h, http.MethodPost, "/api/plans/0/level",
		types.ChangeLevelRequest{Index: "0", Level: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/plans/0/lease", types.MoveRequest{Index: "0"})
	require.Equal(t, http.StatusOK, rec.Code)
	var lease types.PlanResponse[types.LeaseGrant]
	decodeInto(t, rec, &lease)
	token := lease.Result.Token

	summary := "all done"
	rec = doJSON(t, h, http.MethodPost, "/api/plans/0/complete",
		types.CompleteRequest{Index: "0", Lease: &token, Summary: &summary})
	require.Equal(t, http.StatusOK, rec.Code)
	var completed types.PlanResponse[bool]
	decodeInto(t, rec, &completed)
	assert.True(t, completed.Result)

	rec = doJSON(t, h, http.MethodPost, "/api/plans/0/uncomplete",
		types.UncompleteRequest{Index: "0"})
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled types.PlanResponse[types.ToggleResult]
	decodeInto(t, rec, &toggled)
	assert.True(t, toggled.Result.Changed)

	rec = doJSON(t, h, http.MethodDelete, "/api/plans/0/tasks/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var removed types.PlanResponse[types.RemoveTaskResult]
	decodeInto(t, rec, &removed)
	assert.Equal(t, "first", removed.Result.Removed.Description)
}

func TestBlockedCompletionIsNotAnError(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	createPlan(t, h, "blocked")
	doJSON(t, h, http.MethodPost, "/api/plans/0/task",
		types.AddTaskRequest{Description: "guarded", Level: 0})

	// Missing summary blocks with 200 and an inner false, not a 4xx.
	rec := doJSON(t, h, http.MethodPost, "/api/plans/0/complete",
		types.CompleteRequest{Index: "0"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.PlanResponse[bool]
	decodeInto(t, rec, &resp)
	assert.False(t, resp.Result)
	assert.NotEmpty(t, resp.Reminder)
}

func TestNotesEndpoints(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	createPlan(t, h, "notes")
	doJSON(t, h, http.MethodPost, "/api/plans/0/task",
		types.AddTaskRequest{Description: "annotated", Level: 0})

	rec := doJSON(t, h, http.MethodGet, "/api/plans/0/tasks/0/notes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view types.NotesView
	decodeInto(t, rec, &view)
	assert.Nil(t, view.Notes)

	rec = doJSON(t, h, http.MethodPut, "/api/plans/0/tasks/0/notes",
		types.SetNotesRequest{Notes: "watch the timeout"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/plans/0/tasks/0/notes", nil)
	decodeInto(t, rec, &view)
	require.NotNil(t, view.Notes)
	assert.Equal(t, "watch the timeout", *view.Notes)

	rec = doJSON(t, h, http.MethodDelete, "/api/plans/0/tasks/0/notes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/plans/0/tasks/0/notes", nil)
	decodeInto(t, rec, &view)
	assert.Nil(t, view.Notes)
}

func TestErrorStatusMapping(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	createPlan(t, h, "errors")

	tests := []struct {
		name     string
		method   string
		path     string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing plan is 404",
			method:   http.MethodGet,
			path:     "/api/plans/42/plan",
			wantCode: http.StatusNotFound,
			wantErr:  types.CodePlanNotFound,
		},
		{
			name:     "bad plan id is 400",
			method:   http.MethodGet,
			path:     "/api/plans/999/plan",
			wantCode: http.StatusBadRequest,
			wantErr:  types.CodeInvalidInput,
		},
		{
			name:     "missing index is 400",
			method:   http.MethodPost,
			path:     "/api/plans/0/move",
			body:     types.MoveRequest{Index: "9"},
			wantCode: http.StatusBadRequest,
			wantErr:  types.CodeIndexOutOfRange,
		},
		{
			name:     "bad level is 400",
			method:   http.MethodPost,
			path:     "/api/plans/0/task",
			body:     types.AddTaskRequest{Description: "x", Level: 9},
			wantCode: http.StatusBadRequest,
			wantErr:  types.CodeLevelOutOfRange,
		},
		{
			name:     "empty prompt is 400",
			method:   http.MethodPost,
			path:     "/api/plans",
			body:     types.CreatePlanRequest{Prompt: "  "},
			wantCode: http.StatusBadRequest,
			wantErr:  types.CodeInvalidInput,
		},
		{
			name:     "unparseable index is 400",
			method:   http.MethodDelete,
			path:     "/api/plans/0/tasks/abc",
			wantCode: http.StatusBadRequest,
			wantErr:  types.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			var ee types.EngineError
			decodeInto(t, rec, &ee)
			assert.Equal(t, tt.wantErr, ee.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/plans", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEventsStream(t *testing.T) {
	s, registry := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	id := createPlan(t, s.Handler(), "streamed")
	require.Equal(t, "0", id)

	resp, err := http.Get(srv.URL + "/ui/events/0")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Give the handler a moment to subscribe before mutating.
	time.Sleep(50 * time.Millisecond)
	_, err = registry.AddTask(0, "observed", 0, nil)
	require.NoError(t, err)

	lines := make(chan string, 8)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case line, open := <-lines:
			require.True(t, open, "stream closed before the update arrived")
			if strings.HasPrefix(line, "event: update") {
				return
			}
		case <-deadline:
			t.Fatal("no update event within the deadline")
		}
	}
}

func TestEventsStream_BadPlanID(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/ui/events/999", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
