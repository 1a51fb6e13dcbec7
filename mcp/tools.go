// Package mcp exposes the engine as Model Context Protocol tools over the
// stdio transport.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/scatterbrainlabs/scatterbrain/engine"
	"github.com/scatterbrainlabs/scatterbrain/models"
	"github.com/scatterbrainlabs/scatterbrain/types"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register installs every scatterbrain tool on the MCP server.
func Register(server *mcpsdk.Server, registry *engine.Registry) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "create_plan",
		Description: "Create a new task plan for a goal. Returns the plan ID. The prompt is required and non-empty.",
	}, createPlanHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "delete_plan",
		Description: "Delete a plan and invalidate its outstanding leases.",
	}, deletePlanHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_plans",
		Description: "List the IDs of all live plans, ascending.",
	}, listPlansHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_plan",
		Description: "Get the full plan snapshot: prompt, level catalog, task tree, cursor, and history.",
	}, getPlanHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "current",
		Description: "Get the task at the cursor with its effective abstraction level and ancestor chain.",
	}, currentHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "distilled_context",
		Description: "Get the distilled context: the tree snapshot, current position, level ladder, and history.",
	}, contextHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "add_task",
		Description: "Add a task under the current cursor position at the given abstraction level. Returns the assigned index.",
	}, addTaskHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "move_to",
		Description: "Move the cursor to the task at the given index.",
	}, moveToHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "change_level",
		Description: "Pin a task to an explicit abstraction level.",
	}, changeLevelHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "complete_task",
		Description: "Complete a task. Requires the outstanding lease token and a summary unless force is set. Completion cascades to the subtree.",
	}, completeTaskHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "uncomplete_task",
		Description: "Clear a task's completed flag and summary. Children keep their state.",
	}, uncompleteTaskHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "remove_task",
		Description: "Remove a task and its entire subtree. The root cannot be removed.",
	}, removeTaskHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "generate_lease",
		Description: "Generate the single-use lease token that must accompany completion of the task, plus verification suggestions.",
	}, generateLeaseHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_task_notes",
		Description: "Read the free-form notes stored on a task.",
	}, getNotesHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "set_task_notes",
		Description: "Store free-form notes on a task, replacing any existing notes.",
	}, setNotesHandler(registry))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "delete_task_notes",
		Description: "Delete the notes stored on a task. Deleting absent notes is a no-op.",
	}, deleteNotesHandler(registry))
}

func createPlanHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.CreatePlanParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.CreatePlanParams]) (*mcpsdk.CallToolResultFor[any], error) {
		args := params.Arguments
		if strings.TrimSpace(args.Prompt) == "" {
			return validationError("prompt", "a non-empty prompt is required")
		}
		id, err := registry.CreatePlan(args.Prompt, optionalString(args.Notes))
		if err != nil {
			return errorResult(err)
		}
		return toolResult(types.CreatePlanResponse{ID: id.String()},
			fmt.Sprintf("Created plan %s for %q. Add the first task with add_task.", id, args.Prompt))
	}
}

func deletePlanHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.PlanParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.PlanParams]) (*mcpsdk.CallToolResultFor[any], error) {
		id, bad := parsePlanArg(params.Arguments.Plan)
		if bad != nil {
			return bad, nil
		}
		if err := registry.DeletePlan(id); err != nil {
			return errorResult(err)
		}
		return toolResult(nil, fmt.Sprintf("Deleted plan %s.", id))
	}
}

func listPlansHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[struct{}, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[struct{}]) (*mcpsdk.CallToolResultFor[any], error) {
		ids := registry.ListPlans()
		plans := make([]string, len(ids))
		for i, id := range ids {
			plans[i] = id.String()
		}
		text := "No live plans. Create one with create_plan."
		if len(plans) > 0 {
			text = "Live plans: " + strings.Join(plans, ", ")
		}
		return toolResult(types.ListPlansResponse{Plans: plans}, text)
	}
}

func getPlanHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.PlanParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.PlanParams]) (*mcpsdk.CallToolResultFor[any], error) {
		id, bad := parsePlanArg(params.Arguments.Plan)
		if bad != nil {
			return bad, nil
		}
		resp, err := registry.GetPlan(id)
		if err != nil {
			return errorResult(err)
		}
		return toolResult(resp, renderEnvelope(fmt.Sprintf("Plan %s: %q", id, resp.Result.Prompt), resp))
	}
}

func currentHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.PlanParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.PlanParams]) (*mcpsdk.CallToolResultFor[any], error) {
		id, bad := parsePlanArg(params.Arguments.Plan)
		if bad != nil {
			return bad, nil
		}
		resp, err := registry.Current(id)
		if err != nil {
			return errorResult(err)
		}
		headline := "The cursor is at the root; no task is selected."
		if resp.Result != nil {
			headline = fmt.Sprintf("Current task [%s]: %s", resp.Result.Index, resp.Result.Description)
			if resp.Result.LevelName != "" {
				headline += fmt.Sprintf(" (level: %s)", resp.Result.LevelName)
			}
		}
		return toolResult(resp, renderEnvelope(headline, resp))
	}
}

func contextHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.PlanParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.PlanParams]) (*mcpsdk.CallToolResultFor[any], error) {
		id, bad := parsePlanArg(params.Arguments.Plan)
		if bad != nil {
			return bad, nil
		}
		resp, err := registry.DistilledContext(id)
		if err != nil {
			return errorResult(err)
		}
		return toolResult(resp, renderEnvelope(fmt.Sprintf("Distilled context for plan %s.", id), resp))
	}
}

func addTaskHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.AddTaskParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.AddTaskParams]) (*mcpsdk.CallToolResultFor[any], error) {
		args := params.Arguments
		id, bad := parsePlanArg(args.Plan)
		if bad != nil {
			return bad, nil
		}
		if strings.TrimSpace(args.Description) == "" {
			return validationError("description", "a non-empty description is required")
		}
		resp, err := registry.AddTask(id, args.Description, args.Level, optionalString(args.Notes))
		if err != nil {
			return errorResult(err)
		}
		return toolResult(resp, renderEnvelope(
			fmt.Sprintf("Added task %q at index %s.", args.Description, resp.Result.Index), resp))
	}
}

func moveToHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.IndexParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.IndexParams]) (*mcpsdk.CallToolResultFor[any], error) {
		id, bad := parsePlanArg(params.Arguments.Plan)
		if bad != nil {
			return bad, nil
		}
		idx, badIdx := parseIndexArg(params.Arguments.Index)
		if badIdx != nil {
			return badIdx, nil
		}
		resp, err := registry.MoveTo(id, idx)
		if err != nil {
			return errorResult(err)
		}
		headline := fmt.Sprintf("Moved to [%s].", idx)
		if resp.Result != nil {
			headline = fmt.Sprintf("Moved to [%s]: %s", idx, *resp.Result)
		}
		return toolResult(resp, renderEnvelope(headline, resp))
	}
}

func changeLevelHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.ChangeLevelParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.ChangeLevelParams]) (*mcpsdk.CallToolResultFor[any], error) {
		args := params.Arguments
		id, bad := parsePlanArg(args.Plan)
		if bad != nil {
			return bad, nil
		}
		idx, badIdx := parseIndexArg(args.Index)
		if badIdx != nil {
			return badIdx, nil
		}
		resp, err := registry.ChangeLevel(id, idx, args.Level)
		if err != nil {
			return errorResult(err)
		}
		return toolResult(resp, renderEnvelope(
			fmt.Sprintf("Pinned [%s] to level %d.", idx, args.Level), resp))
	}
}

func completeTaskHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.CompleteTaskParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.CompleteTaskParams]) (*mcpsdk.CallToolResultFor[any], error) {
		args := params.Arguments
		id, bad := parsePlanArg(args.Plan)
		if bad != nil {
			return bad, nil
		}
		idx, badIdx := parseIndexArg(args.Index)
		if badIdx != nil {
			return badIdx, nil
		}
		var lease *models.LeaseToken
		if args.Lease != nil {
			if *args.Lease < 0 || *args.Lease > 255 {
				return validationError("lease", "lease tokens are 0-255")
			}
			tok := models.LeaseToken(*args.Lease)
			lease = &tok
		}
		resp, err := registry.CompleteTask(id, idx, lease, args.Force, optionalString(args.Summary))
		if err != nil {
			return errorResult(err)
		}
		headline := fmt.Sprintf("Completed [%s] and its subtree.", idx)
		if !resp.Result {
			headline = fmt.Sprintf("Task [%s] was not completed.", idx)
		}
		return toolResult(resp, renderEnvelope(headline, resp))
	}
}

func uncompleteTaskHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.IndexParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.IndexParams]) (*mcpsdk.CallToolResultFor[any], error) {
		id, bad := parsePlanArg(params.Arguments.Plan)
		if bad != nil {
			return bad, nil
		}
		idx, badIdx := parseIndexArg(params.Arguments.Index)
		if badIdx != nil {
			return badIdx, nil
		}
		resp, err := registry.UncompleteTask(id, idx)
		if err != nil {
			return errorResult(err)
		}
		headline := fmt.Sprintf("Re-opened [%s].", idx)
		if !resp.Result.Changed {
			headline = fmt.Sprintf("Task [%s] was not completed; nothing changed.", idx)
		}
		return toolResult(resp, renderEnvelope(headline, resp))
	}
}

func removeTaskHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.IndexParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.IndexParams]) (*mcpsdk.CallToolResultFor[any], error) {
		id, bad := parsePlanArg(params.Arguments.Plan)
		if bad != nil {
			return bad, nil
		}
		idx, badIdx := parseIndexArg(params.Arguments.Index)
		if badIdx != nil {
			return badIdx, nil
		}
		resp, err := registry.RemoveTask(id, idx)
		if err != nil {
			return errorResult(err)
		}
		return toolResult(resp, renderEnvelope(
			fmt.Sprintf("Removed [%s] (%q) and its subtree.", idx, resp.Result.Removed.Description), resp))
	}
}

func generateLeaseHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.IndexParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.IndexParams]) (*mcpsdk.CallToolResultFor[any], error) {
		id, bad := parsePlanArg(params.Arguments.Plan)
		if bad != nil {
			return bad, nil
		}
		idx, badIdx := parseIndexArg(params.Arguments.Index)
		if badIdx != nil {
			return badIdx, nil
		}
		resp, err := registry.GenerateLease(id, idx)
		if err != nil {
			return errorResult(err)
		}
		return toolResult(resp, renderEnvelope(
			fmt.Sprintf("Lease %d granted for [%s]. Present it to complete_task with a summary.",
				resp.Result.Token, idx), resp))
	}
}

func getNotesHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.IndexParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.IndexParams]) (*mcpsdk.CallToolResultFor[any], error) {
		id, bad := parsePlanArg(params.Arguments.Plan)
		if bad != nil {
			return bad, nil
		}
		idx, badIdx := parseIndexArg(params.Arguments.Index)
		if badIdx != nil {
			return badIdx, nil
		}
		notes, err := registry.GetTaskNotes(id, idx)
		if err != nil {
			return errorResult(err)
		}
		text := fmt.Sprintf("No notes on [%s].", idx)
		if notes != nil {
			text = fmt.Sprintf("Notes on [%s]: %s", idx, *notes)
		}
		return toolResult(types.NotesView{Index: idx.String(), Notes: notes}, text)
	}
}

func setNotesHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.SetNotesParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.SetNotesParams]) (*mcpsdk.CallToolResultFor[any], error) {
		args := params.Arguments
		id, bad := parsePlanArg(args.Plan)
		if bad != nil {
			return bad, nil
		}
		idx, badIdx := parseIndexArg(args.Index)
		if badIdx != nil {
			return badIdx, nil
		}
		resp, err := registry.SetTaskNotes(id, idx, args.Notes)
		if err != nil {
			return errorResult(err)
		}
		return toolResult(resp, renderEnvelope(fmt.Sprintf("Stored notes on [%s].", idx), resp))
	}
}

func deleteNotesHandler(registry *engine.Registry) mcpsdk.ToolHandlerFor[types.IndexParams, any] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.IndexParams]) (*mcpsdk.CallToolResultFor[any], error) {
		id, bad := parsePlanArg(params.Arguments.Plan)
		if bad != nil {
			return bad, nil
		}
		idx, badIdx := parseIndexArg(params.Arguments.Index)
		if badIdx != nil {
			return badIdx, nil
		}
		resp, err := registry.DeleteTaskNotes(id, idx)
		if err != nil {
			return errorResult(err)
		}
		return toolResult(resp, renderEnvelope(fmt.Sprintf("Cleared notes on [%s].", idx), resp))
	}
}
