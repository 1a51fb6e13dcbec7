package mcp

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/scatterbrainlabs/scatterbrain/engine"
	"github.com/scatterbrainlabs/scatterbrain/types"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *engine.Registry {
	return engine.NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func resultText(t *testing.T, res *mcpsdk.CallToolResultFor[any]) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func callCreatePlan(t *testing.T, registry *engine.Registry, prompt string) *mcpsdk.CallToolResultFor[any] {
	t.Helper()
	res, err := createPlanHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.CreatePlanParams]{
			Arguments: types.CreatePlanParams{Prompt: prompt},
		})
	require.NoError(t, err)
	return res
}

func TestCreatePlanTool(t *testing.T) {
	registry := newTestEngine()

	res := callCreatePlan(t, registry, "ship the feature")
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Created plan 0")
	structured, ok := res.StructuredContent.(types.CreatePlanResponse)
	require.True(t, ok)
	assert.Equal(t, "0", structured.ID)

	res = callCreatePlan(t, registry, "   ")
	assert.True(t, res.IsError, "a blank prompt is a validation error")
}

func TestListPlansTool(t *testing.T) {
	registry := newTestEngine()
	handler := listPlansHandler(registry)

	res, err := handler(context.Background(), nil, &mcpsdk.CallToolParamsFor[struct{}]{})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "No live plans")

	callCreatePlan(t, registry, "a")
	callCreatePlan(t, registry, "b")
	res, err = handler(context.Background(), nil, &mcpsdk.CallToolParamsFor[struct{}]{})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "0, 1")
}

func TestAddTaskTool(t *testing.T) {
	registry := newTestEngine()
	callCreatePlan(t, registry, "x")

	res, err := addTaskHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.AddTaskParams]{
			Arguments: types.AddTaskParams{Plan: "0", Description: "first step", Level: 0},
		})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "index 0")
	assert.Contains(t, text, "Next:", "follow-up suggestions are rendered")

	// Engine errors surface as IsError results, not protocol errors.
	res, err = addTaskHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.AddTaskParams]{
			Arguments: types.AddTaskParams{Plan: "0", Description: "bad level", Level: 9},
		})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), types.CodeLevelOutOfRange)
}

func TestMoveToTool(t *testing.T) {
	registry := newTestEngine()
	callCreatePlan(t, registry, "x")
	_, err := registry.AddTask(0, "target", 0, nil)
	require.NoError(t, err)

	res, err := moveToHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.IndexParams]{
			Arguments: types.IndexParams{Plan: "0", Index: "0"},
		})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Moved to [0]: target")
	assert.Contains(t, text, "Current task: [0] target")

	res, err = moveToHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.IndexParams]{
			Arguments: types.IndexParams{Plan: "0", Index: "5"},
		})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), types.CodeIndexOutOfRange)
}

func TestCompleteTaskTool(t *testing.T) {
	registry := newTestEngine()
	callCreatePlan(t, registry, "x")
	_, err := registry.AddTask(0, "guarded", 0, nil)
	require.NoError(t, err)
	grant, err := registry.GenerateLease(0, []int{0})
	require.NoError(t, err)
	token := int(grant.Result.Token)

	// Blocked completion is a successful tool call with a reminder.
	res, err := completeTaskHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.CompleteTaskParams]{
			Arguments: types.CompleteTaskParams{Plan: "0", Index: "0", Summary: "done"},
		})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "was not completed")
	assert.Contains(t, text, "Reminder:")

	res, err = completeTaskHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.CompleteTaskParams]{
			Arguments: types.CompleteTaskParams{Plan: "0", Index: "0", Lease: &token, Summary: "done"},
		})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Completed [0]")

	bad := 999
	res, err = completeTaskHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.CompleteTaskParams]{
			Arguments: types.CompleteTaskParams{Plan: "0", Index: "0", Lease: &bad},
		})
	require.NoError(t, err)
	assert.True(t, res.IsError, "out-of-range lease tokens are rejected before the engine sees them")
}

func TestNotesTools(t *testing.T) {
	registry := newTestEngine()
	callCreatePlan(t, registry, "x")
	_, err := registry.AddTask(0, "annotated", 0, nil)
	require.NoError(t, err)

	res, err := getNotesHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.IndexParams]{
			Arguments: types.IndexParams{Plan: "0", Index: "0"},
		})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "No notes")

	res, err = setNotesHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.SetNotesParams]{
			Arguments: types.SetNotesParams{Plan: "0", Index: "0", Notes: "careful here"},
		})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = getNotesHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.IndexParams]{
			Arguments: types.IndexParams{Plan: "0", Index: "0"},
		})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "careful here")

	res, err = deleteNotesHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.IndexParams]{
			Arguments: types.IndexParams{Plan: "0", Index: "0"},
		})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}

func TestPlanArgValidation(t *testing.T) {
	registry := newTestEngine()

	for _, bad := range []string{"", "abc", "256", "-1"} {
		res, err := getPlanHandler(registry)(context.Background(), nil,
			&mcpsdk.CallToolParamsFor[types.PlanParams]{
				Arguments: types.PlanParams{Plan: bad},
			})
		require.NoError(t, err)
		assert.True(t, res.IsError, "plan %q should be rejected", bad)
	}

	res, err := getPlanHandler(registry)(context.Background(), nil,
		&mcpsdk.CallToolParamsFor[types.PlanParams]{
			Arguments: types.PlanParams{Plan: "7"},
		})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), types.CodePlanNotFound)
}

func TestRegisterInstallsTools(t *testing.T) {
	registry := newTestEngine()
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "test", Version: "0.0.0"}, nil)

	// Registration must not panic; tool schemas derive from the param
	// structs at add time.
	Register(server, registry)
}
