// Package client is the HTTP client the CLI commands use to talk to a
// running scatterbrain server.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scatterbrainlabs/scatterbrain/types"
)

type Client struct {
	base string
	http *http.Client
}

// New returns a client for the server at base, e.g. "http://localhost:3000".
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= 400 {
		raw, _ := io.ReadAll(res.Body)
		var ee types.EngineError
		if jerr := json.Unmarshal(raw, &ee); jerr == nil && ee.Code != "" {
			return &ee
		}
		return fmt.Errorf("server returned %s: %s", res.Status, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) CreatePlan(ctx context.Context, prompt string, notes *string) (string, error) {
	var out types.CreatePlanResponse
	err := c.do(ctx, http.MethodPost, "/api/plans", types.CreatePlanRequest{Prompt: prompt, Notes: notes}, &out)
	return out.ID, err
}

func (c *Client) DeletePlan(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/plans/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListPlans(ctx context.Context) ([]string, error) {
	var out types.ListPlansResponse
	err := c.do(ctx, http.MethodGet, "/api/plans", nil, &out)
	return out.Plans, err
}

func (c *Client) GetPlan(ctx context.Context, id string) (*types.PlanResponse[types.PlanView], error) {
	var out types.PlanResponse[types.PlanView]
	err := c.do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(id)+"/plan", nil, &out)
	return &out, err
}

func (c *Client) Current(ctx context.Context, id string) (*types.PlanResponse[*types.CurrentSummary], error) {
	var out types.PlanResponse[*types.CurrentSummary]
	err := c.do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(id)+"/current", nil, &out)
	return &out, err
}

func (c *Client) Context(ctx context.Context, id string) (*types.PlanResponse[struct{}], error) {
	var out types.PlanResponse[struct{}]
	err := c.do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(id)+"/context", nil, &out)
	return &out, err
}

func (c *Client) AddTask(ctx context.Context, id, description string, level int, notes *string) (*types.PlanResponse[types.AddTaskResult], error) {
	var out types.PlanResponse[types.AddTaskResult]
	err := c.do(ctx, http.MethodPost, "/api/plans/"+url.PathEscape(id)+"/task",
		types.AddTaskRequest{Description: description, Level: level, Notes: notes}, &out)
	return &out, err
}

func (c *Client) Move(ctx context.Context, id, index string) (*types.PlanResponse[*string], error) {
	var out types.PlanResponse[*string]
	err := c.do(ctx, http.MethodPost, "/api/plans/"+url.PathEscape(id)+"/move",
		types.MoveRequest{Index: index}, &out)
	return &out, err
}

func (c *Client) ChangeLevel(ctx context.Context, id, index string, level int) (*types.PlanResponse[types.OpResult], error) {
	var out types.PlanResponse[types.OpResult]
	err := c.do(ctx, http.MethodPost, "/api/plans/"+url.PathEscape(id)+"/level",
		types.ChangeLevelRequest{Index: index, Level: level}, &out)
	return &out, err
}

func (c *Client) Complete(ctx context.Context, id, index string, lease *uint8, force bool, summary *string) (*types.PlanResponse[bool], error) {
	var out types.PlanResponse[bool]
	err := c.do(ctx, http.MethodPost, "/api/plans/"+url.PathEscape(id)+"/complete",
		types.CompleteRequest{Index: index, Lease: lease, Force: force, Summary: summary}, &out)
	return &out, err
}

func (c *Client) Uncomplete(ctx context.Context, id, index string) (*types.PlanResponse[types.ToggleResult], error) {
	var out types.PlanResponse[types.ToggleResult]
	err := c.do(ctx, http.MethodPost, "/api/plans/"+url.PathEscape(id)+"/uncomplete",
		types.UncompleteRequest{Index: index}, &out)
	return &out, err
}

func (c *Client) RemoveTask(ctx context.Context, id, index string) (*types.PlanResponse[types.RemoveTaskResult], error) {
	var out types.PlanResponse[types.RemoveTaskResult]
	err := c.do(ctx, http.MethodDelete,
		"/api/plans/"+url.PathEscape(id)+"/tasks/"+url.PathEscape(index), nil, &out)
	return &out, err
}

func (c *Client) GenerateLease(ctx context.Context, id, index string) (*types.PlanResponse[types.LeaseGrant], error) {
	var out types.PlanResponse[types.LeaseGrant]
	err := c.do(ctx, http.MethodPost, "/api/plans/"+url.PathEscape(id)+"/lease",
		types.MoveRequest{Index: index}, &out)
	return &out, err
}

func (c *Client) GetNotes(ctx context.Context, id, index string) (*types.NotesView, error) {
	var out types.NotesView
	err := c.do(ctx, http.MethodGet,
		"/api/plans/"+url.PathEscape(id)+"/tasks/"+url.PathEscape(index)+"/notes", nil, &out)
	return &out, err
}

func (c *Client) SetNotes(ctx context.Context, id, index, notes string) (*types.PlanResponse[types.OpResult], error) {
	var out types.PlanResponse[types.OpResult]
	err := c.do(ctx, http.MethodPut,
		"/api/plans/"+url.PathEscape(id)+"/tasks/"+url.PathEscape(index)+"/notes",
		types.SetNotesRequest{Notes: notes}, &out)
	return &out, err
}

func (c *Client) DeleteNotes(ctx context.Context, id, index string) (*types.PlanResponse[types.OpResult], error) {
	var out types.PlanResponse[types.OpResult]
	err := c.do(ctx, http.MethodDelete,
		"/api/plans/"+url.PathEscape(id)+"/tasks/"+url.PathEscape(index)+"/notes", nil, &out)
	return &out, err
}

// Watch follows the SSE feed for a plan, invoking fn once per update record
// until ctx is cancelled or the stream ends.
func (c *Client) Watch(ctx context.Context, id string, fn func()) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.base+"/ui/events/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	// No timeout: the stream is long-lived.
	res, err := (&http.Client{}).Do(req)
	if err != nil {
		return fmt.Errorf("open event stream: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream returned %s", res.Status)
	}

	scanner := bufio.NewScanner(res.Body)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "event: update") {
			fn()
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read event stream: %w", err)
	}
	return nil
}
