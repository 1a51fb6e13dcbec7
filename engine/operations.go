package engine

import (
	"fmt"
	"strings"

	"github.com/scatterbrainlabs/scatterbrain/models"
	"github.com/scatterbrainlabs/scatterbrain/types"
)

// GetPlan returns the full plan snapshot wrapped in the envelope.
func (r *Registry) GetPlan(id models.PlanID) (*types.PlanResponse[types.PlanView], error) {
	var resp *types.PlanResponse[types.PlanView]
	err := r.withPlan(id, func(p *models.Plan) error {
		resp = respond(p, planView(id, p), followupsFor(outcomeGetPlan, ""), "")
		return nil
	})
	return resp, err
}

// Current returns the task at the cursor, or nil when the cursor sits at
// the root.
func (r *Registry) Current(id models.PlanID) (*types.PlanResponse[*types.CurrentSummary], error) {
	var resp *types.PlanResponse[*types.CurrentSummary]
	err := r.withPlan(id, func(p *models.Plan) error {
		resp = respond(p, currentSummary(p), followupsFor(outcomeCurrent, ""), "")
		return nil
	})
	return resp, err
}

// DistilledContext returns an envelope whose only payload is the context
// itself.
func (r *Registry) DistilledContext(id models.PlanID) (*types.PlanResponse[struct{}], error) {
	var resp *types.PlanResponse[struct{}]
	err := r.withPlan(id, func(p *models.Plan) error {
		resp = respond(p, struct{}{}, followupsFor(outcomeContext, ""), "")
		return nil
	})
	return resp, err
}

// AddTask appends a new task under the current cursor position at the next
// free child position. Adding work un-completes every ancestor on the path.
func (r *Registry) AddTask(id models.PlanID, description string, level int, notes *string) (*types.PlanResponse[types.AddTaskResult], error) {
	var resp *types.PlanResponse[types.AddTaskResult]
	err := r.mutate(id, func(p *models.Plan) (bool, error) {
		if strings.TrimSpace(description) == "" {
			return false, types.NewInvalidInput("task description must not be empty")
		}
		if level < 0 || level >= len(p.Levels) {
			return false, types.NewLevelOutOfRange(level, len(p.Levels))
		}
		parentIdx := p.Cursor.Clone()
		parent, ok := p.TaskAt(parentIdx)
		if !ok {
			return false, types.NewInternal("cursor points at a missing task")
		}

		lvl := level
		task := models.NewTask(description, &lvl, notes)
		newIdx := parentIdx.Child(len(parent.Children))
		parent.Children = append(parent.Children, task)
		clearCompletedAlong(p, parentIdx)

		detail := fmt.Sprintf("%q at %s", description, newIdx)
		p.Record("add_task", &detail)

		resp = respond(p, types.AddTaskResult{
			Task:  taskView(task),
			Index: newIdx.String(),
		}, followupsFor(outcomeAddTask, newIdx.String()), "")
		return true, nil
	})
	return resp, err
}

// clearCompletedAlong clears the completed flag on every task from the root
// down to idx inclusive. Completion summaries are left as they were.
func clearCompletedAlong(p *models.Plan, idx models.Index) {
	cur := p.Root
	cur.Completed = false
	for _, pos := range idx {
		if pos >= len(cur.Children) {
			return
		}
		cur = cur.Children[pos]
		cur.Completed = false
	}
}

// MoveTo points the cursor at the task at idx and returns its description.
// The cursor is left unchanged when the target does not exist.
func (r *Registry) MoveTo(id models.PlanID, idx models.Index) (*types.PlanResponse[*string], error) {
	var resp *types.PlanResponse[*string]
	err := r.mutate(id, func(p *models.Plan) (bool, error) {
		task, ok := p.TaskAt(idx)
		if !ok {
			return false, types.NewIndexOutOfRange(idx.String())
		}
		p.Cursor = idx.Clone()
		formatted := idx.String()
		p.Record("move", &formatted)

		desc := task.Description
		resp = respond(p, &desc, followupsFor(outcomeMoveTo, idx.String()), "")
		return true, nil
	})
	return resp, err
}

// ChangeLevel pins the task at idx to an explicit catalog level. Children
// may sit at any level relative to their ancestors.
func (r *Registry) ChangeLevel(id models.PlanID, idx models.Index, level int) (*types.PlanResponse[types.OpResult], error) {
	var resp *types.PlanResponse[types.OpResult]
	err := r.mutate(id, func(p *models.Plan) (bool, error) {
		if level < 0 || level >= len(p.Levels) {
			return false, types.NewLevelOutOfRange(level, len(p.Levels))
		}
		if idx.IsRoot() {
			return false, types.NewInvalidInput("the root task has no level")
		}
		task, ok := p.TaskAt(idx)
		if !ok {
			return false, types.NewIndexOutOfRange(idx.String())
		}

		lvl := level
		task.ExplicitLevel = &lvl
		detail := fmt.Sprintf("%s -> level %d (%s)", idx, level, p.Levels[level].Name())
		p.Record("change_level", &detail)

		resp = respond(p, types.OpResult{Succeeded: true}, followupsFor(outcomeChangeLevel, ""), "")
		return true, nil
	})
	return resp, err
}

// CompleteTask applies the completion rules: already-completed, missing
// summary, and lease mismatch are not errors but inner false with a
// reminder. Success cascades completion down the subtree and consumes the
// lease.
func (r *Registry) CompleteTask(id models.PlanID, idx models.Index, lease *models.LeaseToken, force bool, summary *string) (*types.PlanResponse[bool], error) {
	var resp *types.PlanResponse[bool]
	err := r.mutate(id, func(p *models.Plan) (bool, error) {
		task, ok := p.TaskAt(idx)
		if !ok {
			return false, types.NewIndexOutOfRange(idx.String())
		}
		if idx.IsRoot() {
			resp = blockedCompletion(p, "the root task cannot be completed directly")
			return false, nil
		}
		if task.Completed {
			resp = blockedCompletion(p, fmt.Sprintf("task %s is already completed", idx))
			return false, nil
		}
		if !force && (summary == nil || strings.TrimSpace(*summary) == "") {
			resp = blockedCompletion(p, "a completion summary is required; pass one or use force")
			return false, nil
		}
		if !force {
			if held, outstanding := p.LeaseAt(idx); outstanding {
				if lease == nil || *lease != held {
					resp = blockedCompletion(p, fmt.Sprintf("lease mismatch: task %s has an outstanding lease", idx))
					return false, nil
				}
			}
		}
		delete(p.Leases, idx.String())

		task.CompleteSubtree()
		if summary != nil && strings.TrimSpace(*summary) != "" {
			task.CompletionSummary = summary
		}
		p.ClearLeasesUnder(idx)

		detail := fmt.Sprintf("%s (force=%v)", idx, force)
		p.Record("complete", &detail)

		resp = respond(p, true, followupsFor(outcomeCompleteOK, ""), "")
		return true, nil
	})
	return resp, err
}

func blockedCompletion(p *models.Plan, reminder string) *types.PlanResponse[bool] {
	return respond(p, false, followupsFor(outcomeCompleteBlocked, ""), reminder)
}

// UncompleteTask clears the completed flag and the completion summary. It
// does not cascade; children keep their state.
func (r *Registry) UncompleteTask(id models.PlanID, idx models.Index) (*types.PlanResponse[types.ToggleResult], error) {
	var resp *types.PlanResponse[types.ToggleResult]
	err := r.mutate(id, func(p *models.Plan) (bool, error) {
		task, ok := p.TaskAt(idx)
		if !ok {
			return false, types.NewIndexOutOfRange(idx.String())
		}
		if !task.Completed {
			resp = respond(p, types.ToggleResult{Changed: false},
				followupsFor(outcomeUncompleteTask, idx.String()),
				fmt.Sprintf("task %s is not completed", idx))
			return false, nil
		}

		task.Completed = false
		task.CompletionSummary = nil
		formatted := idx.String()
		p.Record("uncomplete", &formatted)

		resp = respond(p, types.ToggleResult{Changed: true}, followupsFor(outcomeUncompleteTask, idx.String()), "")
		return true, nil
	})
	return resp, err
}

// RemoveTask detaches the subtree at idx. Sibling positions stay dense, so
// leases and the cursor are re-pointed where the shift moved them.
func (r *Registry) RemoveTask(id models.PlanID, idx models.Index) (*types.PlanResponse[types.RemoveTaskResult], error) {
	var resp *types.PlanResponse[types.RemoveTaskResult]
	err := r.mutate(id, func(p *models.Plan) (bool, error) {
		if idx.IsRoot() {
			return false, types.NewInvalidInput("cannot remove the root task")
		}
		parent, ok := p.TaskAt(idx.Parent())
		if !ok {
			return false, types.NewIndexOutOfRange(idx.String())
		}
		pos := idx[len(idx)-1]
		if pos >= len(parent.Children) {
			return false, types.NewIndexOutOfRange(idx.String())
		}

		removed := parent.Children[pos]
		parent.Children = append(parent.Children[:pos], parent.Children[pos+1:]...)
		p.ClearLeasesUnder(idx)
		shiftAfterRemoval(p, idx)

		formatted := idx.String()
		p.Record("remove_task", &formatted)

		resp = respond(p, types.RemoveTaskResult{Removed: taskView(removed)},
			followupsFor(outcomeRemoveTask, ""), "")
		return true, nil
	})
	return resp, err
}

// shiftAfterRemoval re-points the cursor and any lease keys that referred
// to siblings after the removed position, and resets a cursor that pointed
// into the removed subtree to the removed task's parent.
func shiftAfterRemoval(p *models.Plan, removed models.Index) {
	if p.Cursor.HasPrefix(removed) {
		p.Cursor = removed.Parent()
	} else if shifted, ok := shiftIndex(p.Cursor, removed); ok {
		p.Cursor = shifted
	}

	rekeyed := map[string]models.LeaseToken{}
	for key, tok := range p.Leases {
		held, err := models.ParseIndex(key)
		if err != nil {
			continue
		}
		if shifted, ok := shiftIndex(held, removed); ok {
			rekeyed[shifted.String()] = tok
		} else {
			rekeyed[key] = tok
		}
	}
	p.Leases = rekeyed
}

// shiftIndex decrements the position idx holds at the removed task's depth
// when idx lives under the same parent and sat after the removed position.
func shiftIndex(idx models.Index, removed models.Index) (models.Index, bool) {
	depth := len(removed) - 1
	if len(idx) <= depth || !idx.HasPrefix(removed.Parent()) {
		return nil, false
	}
	if idx[depth] <= removed[depth] {
		return nil, false
	}
	shifted := idx.Clone()
	shifted[depth]--
	return shifted, true
}

// GetTaskNotes returns the notes for the task at idx, nil when unset. Per
// the contract this read does not carry the envelope.
func (r *Registry) GetTaskNotes(id models.PlanID, idx models.Index) (*string, error) {
	var notes *string
	err := r.withPlan(id, func(p *models.Plan) error {
		task, ok := p.TaskAt(idx)
		if !ok {
			return types.NewIndexOutOfRange(idx.String())
		}
		notes = task.Notes
		return nil
	})
	return notes, err
}

// SetTaskNotes stores free-form notes on the task at idx.
func (r *Registry) SetTaskNotes(id models.PlanID, idx models.Index, notes string) (*types.PlanResponse[types.OpResult], error) {
	var resp *types.PlanResponse[types.OpResult]
	err := r.mutate(id, func(p *models.Plan) (bool, error) {
		task, ok := p.TaskAt(idx)
		if !ok {
			return false, types.NewIndexOutOfRange(idx.String())
		}
		task.Notes = &notes
		formatted := idx.String()
		p.Record("set_notes", &formatted)

		resp = respond(p, types.OpResult{Succeeded: true}, followupsFor(outcomeNotesChanged, ""), "")
		return true, nil
	})
	return resp, err
}

// DeleteTaskNotes clears the notes on the task at idx. Deleting absent
// notes is a no-op.
func (r *Registry) DeleteTaskNotes(id models.PlanID, idx models.Index) (*types.PlanResponse[types.OpResult], error) {
	var resp *types.PlanResponse[types.OpResult]
	err := r.mutate(id, func(p *models.Plan) (bool, error) {
		task, ok := p.TaskAt(idx)
		if !ok {
			return false, types.NewIndexOutOfRange(idx.String())
		}
		if task.Notes == nil {
			resp = respond(p, types.OpResult{Succeeded: true}, followupsFor(outcomeNotesChanged, ""), "")
			return false, nil
		}

		task.Notes = nil
		formatted := idx.String()
		p.Record("delete_notes", &formatted)

		resp = respond(p, types.OpResult{Succeeded: true}, followupsFor(outcomeNotesChanged, ""), "")
		return true, nil
	})
	return resp, err
}
