package mcp

import (
	"fmt"
	"strings"

	"github.com/scatterbrainlabs/scatterbrain/models"
	"github.com/scatterbrainlabs/scatterbrain/types"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// toolResult wraps a structured payload and its text rendering in an MCP
// tool result.
func toolResult(structured interface{}, text string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content:           []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
		StructuredContent: structured,
	}, nil
}

// errorResult wraps an engine error in a tool result with IsError set, so
// the model can see the failure and self-correct instead of receiving a
// protocol error.
func errorResult(err error) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: fmt.Sprintf("Error: %v", err)}},
		IsError: true,
	}, nil
}

// validationError reports a bad tool argument with IsError set.
func validationError(field, message string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{
			Text: fmt.Sprintf("Invalid %s: %s", field, message),
		}},
		IsError: true,
	}, nil
}

func parsePlanArg(raw string) (models.PlanID, *mcpsdk.CallToolResultFor[any]) {
	id, err := models.ParsePlanID(strings.TrimSpace(raw))
	if err != nil {
		res, _ := validationError("plan", err.Error())
		return 0, res
	}
	return id, nil
}

func parseIndexArg(raw string) (models.Index, *mcpsdk.CallToolResultFor[any]) {
	idx, err := models.ParseIndex(raw)
	if err != nil {
		res, _ := validationError("index", err.Error())
		return nil, res
	}
	return idx, nil
}

// renderEnvelope produces the text half of a tool result: the headline, the
// reminder when present, and the follow-up suggestions.
func renderEnvelope[T any](headline string, resp *types.PlanResponse[T]) string {
	var b strings.Builder
	b.WriteString(headline)
	if resp.Reminder != "" {
		fmt.Fprintf(&b, "\nReminder: %s", resp.Reminder)
	}
	if resp.DistilledContext != nil && resp.DistilledContext.CurrentTask != nil {
		cur := resp.DistilledContext.CurrentTask
		fmt.Fprintf(&b, "\nCurrent task: [%s] %s", cur.Index, cur.Description)
	}
	for _, followup := range resp.SuggestedFollowups {
		fmt.Fprintf(&b, "\nNext: %s", followup)
	}
	return b.String()
}

func optionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
