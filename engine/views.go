package engine

import (
	"github.com/scatterbrainlabs/scatterbrain/models"
	"github.com/scatterbrainlabs/scatterbrain/types"
)

// taskView converts a task subtree to its wire form.
func taskView(t *models.Task) types.TaskView {
	children := make([]types.TaskView, len(t.Children))
	for i, child := range t.Children {
		children[i] = taskView(child)
	}
	return types.TaskView{
		Description:       t.Description,
		Completed:         t.Completed,
		CompletionSummary: t.CompletionSummary,
		Notes:             t.Notes,
		ExplicitLevel:     t.ExplicitLevel,
		Children:          children,
	}
}

// planView converts a plan to the snapshot returned by get_plan.
func planView(id models.PlanID, p *models.Plan) types.PlanView {
	return types.PlanView{
		ID:         id.String(),
		Prompt:     p.Prompt,
		Notes:      p.Notes,
		Levels:     levelSummaries(p.Levels),
		Root:       taskView(p.Root),
		Cursor:     p.Cursor.String(),
		LeaseCount: len(p.Leases),
		History:    transitionViews(p.History),
	}
}

// currentSummary builds the current-cursor view: the task at the cursor,
// its effective level, and the ancestor description chain. Returns nil when
// the cursor sits at the root.
func currentSummary(p *models.Plan) *types.CurrentSummary {
	if p.Cursor.IsRoot() {
		return nil
	}
	task, ok := p.TaskAt(p.Cursor)
	if !ok {
		return nil
	}
	summary := &types.CurrentSummary{
		Index:       p.Cursor.String(),
		Description: task.Description,
		Completed:   task.Completed,
		History:     ancestorChain(p, p.Cursor),
	}
	if level, has := p.EffectiveLevel(p.Cursor); has {
		summary.Level = &level
		summary.LevelName = p.Levels[level].Name()
	}
	return summary
}

// ancestorChain lists the descriptions from the root down to, but not
// including, the task at idx.
func ancestorChain(p *models.Plan, idx models.Index) []string {
	chain := []string{p.Root.Description}
	cur := p.Root
	for _, pos := range idx[:len(idx)-1] {
		if pos >= len(cur.Children) {
			break
		}
		cur = cur.Children[pos]
		chain = append(chain, cur.Description)
	}
	return chain
}
