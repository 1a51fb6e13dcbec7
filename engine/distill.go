package engine

import (
	"fmt"
	"strings"

	"github.com/scatterbrainlabs/scatterbrain/models"
	"github.com/scatterbrainlabs/scatterbrain/types"
)

// Operation outcomes keying the follow-up suggestion table.
const (
	outcomeCreatePlan       = "create_plan"
	outcomeGetPlan          = "get_plan"
	outcomeCurrent          = "current"
	outcomeContext          = "distilled_context"
	outcomeAddTask          = "add_task"
	outcomeMoveTo           = "move_to"
	outcomeChangeLevel      = "change_level"
	outcomeCompleteOK       = "complete_task"
	outcomeCompleteBlocked  = "complete_task_blocked"
	outcomeUncompleteTask   = "uncomplete_task"
	outcomeRemoveTask       = "remove_task"
	outcomeGenerateLease    = "generate_lease"
	outcomeNotesChanged     = "task_notes"
)

// followupTable is static; entries containing %s are filled with the
// operation's argument (typically an index).
var followupTable = map[string][]string{
	outcomeCreatePlan: {
		"Add the first task with add_task at the planning level",
		"Read the level ladder before decomposing the goal",
	},
	outcomeGetPlan: {
		"Select a task with move_to",
		"Add the next piece of work with add_task",
	},
	outcomeCurrent: {
		"Add subtasks under the current task with add_task",
		"Generate a lease with generate_lease when the work here is done",
	},
	outcomeContext: {
		"Select a task with move_to",
		"Complete finished work with generate_lease then complete_task",
	},
	outcomeAddTask: {
		"Move to the new task with move_to %s",
		"Break %s down further with add_task at a lower level",
	},
	outcomeMoveTo: {
		"Add subtasks under %s with add_task",
		"Generate a lease with generate_lease once %s is done",
	},
	outcomeChangeLevel: {
		"Review the level's questions with current",
		"Continue decomposing with add_task",
	},
	outcomeCompleteOK: {
		"Move up to the parent with move_to",
		"Select the next sibling and continue",
	},
	outcomeCompleteBlocked: {
		"Generate a lease with generate_lease before completing",
		"Pass a non-empty summary of what was done",
	},
	outcomeUncompleteTask: {
		"Re-complete %s with a lease and a fresh summary when ready",
	},
	outcomeRemoveTask: {
		"Check the surviving tree with get_plan",
		"Re-add replacement work with add_task",
	},
	outcomeGenerateLease: {
		"Complete %s with complete_task, the token, and a summary",
	},
	outcomeNotesChanged: {
		"Read the task back with current or get_plan",
	},
}

// followupsFor resolves the static suggestion templates for an outcome.
func followupsFor(outcome, arg string) []string {
	templates := followupTable[outcome]
	out := make([]string, len(templates))
	for i, tmpl := range templates {
		if strings.Contains(tmpl, "%s") {
			out[i] = fmt.Sprintf(strings.ReplaceAll(tmpl, "%s", "%[1]s"), arg)
		} else {
			out[i] = tmpl
		}
	}
	return out
}

// Distill assembles the orientation payload from the post-operation plan.
func Distill(p *models.Plan) *types.DistilledContext {
	ctx := &types.DistilledContext{
		UsageSummary:      types.UsageSummary,
		TaskTree:          treeNodes(p.Root, nil, p.Cursor),
		Levels:            levelSummaries(p.Levels),
		TransitionHistory: transitionViews(p.History),
	}
	if !p.Cursor.IsRoot() {
		if task, ok := p.TaskAt(p.Cursor); ok {
			ctx.CurrentTask = &types.CurrentTaskSummary{
				Index:         p.Cursor.String(),
				Description:   task.Description,
				Completed:     task.Completed,
				ExplicitLevel: task.ExplicitLevel,
			}
		}
	}
	return ctx
}

// treeNodes renders the children of t as snapshot nodes, pre-order.
func treeNodes(t *models.Task, at models.Index, cursor models.Index) []types.TreeNode {
	nodes := make([]types.TreeNode, 0, len(t.Children))
	for pos, child := range t.Children {
		idx := at.Child(pos)
		nodes = append(nodes, types.TreeNode{
			Index:       idx.String(),
			Description: child.Description,
			Completed:   child.Completed,
			IsCurrent:   idx.Equal(cursor),
			Children:    treeNodes(child, idx, cursor),
		})
	}
	return nodes
}

func levelSummaries(levels []models.Level) []types.LevelSummary {
	out := make([]types.LevelSummary, len(levels))
	for i, l := range levels {
		out[i] = types.LevelSummary{
			Name:      l.Name(),
			Focus:     l.AbstractionFocus,
			Questions: append([]string(nil), l.Questions...),
		}
	}
	return out
}

func transitionViews(history []models.Transition) []types.TransitionView {
	out := make([]types.TransitionView, len(history))
	for i, tr := range history {
		view := types.TransitionView{Timestamp: tr.Timestamp, Action: tr.Action}
		if tr.Details != nil {
			view.Details = *tr.Details
		}
		out[i] = view
	}
	return out
}

// respond wraps an inner result in the universal envelope, building the
// distilled context from the plan's current (post-operation) state.
func respond[T any](p *models.Plan, result T, followups []string, reminder string) *types.PlanResponse[T] {
	return &types.PlanResponse[T]{
		Result:             result,
		DistilledContext:   Distill(p),
		SuggestedFollowups: followups,
		Reminder:           reminder,
	}
}
