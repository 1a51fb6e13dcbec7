package engine

import (
	"fmt"

	"github.com/scatterbrainlabs/scatterbrain/models"
	"github.com/scatterbrainlabs/scatterbrain/types"
)

// GenerateLease assigns a fresh single-use token to the task at idx and
// returns it with the verification suggestions the task's level declares.
// A task holds at most one outstanding lease; regenerating replaces it.
func (r *Registry) GenerateLease(id models.PlanID, idx models.Index) (*types.PlanResponse[types.LeaseGrant], error) {
	var resp *types.PlanResponse[types.LeaseGrant]
	err := r.mutate(id, func(p *models.Plan) (bool, error) {
		if idx.IsRoot() {
			return false, types.NewInvalidInput("the root task cannot be leased")
		}
		task, ok := p.TaskAt(idx)
		if !ok {
			return false, types.NewIndexOutOfRange(idx.String())
		}
		if task.Completed {
			return false, types.NewInvalidInput(fmt.Sprintf("task %s is already completed", idx))
		}

		// Regeneration frees the previous token before allocation so the
		// slot can be reused.
		delete(p.Leases, idx.String())
		token, ok := lowestFreeToken(p.Leases)
		if !ok {
			return false, types.NewLeaseExhausted()
		}
		p.Leases[idx.String()] = token

		detail := idx.String()
		p.Record("generate_lease", &detail)

		grant := types.LeaseGrant{
			Token:       uint8(token),
			Suggestions: verificationSuggestions(p, idx),
		}
		resp = respond(p, grant, followupsFor(outcomeGenerateLease, idx.String()), "")
		return true, nil
	})
	return resp, err
}

// lowestFreeToken scans the 8-bit token space for the lowest value not held
// by any task in the plan. Freed tokens are reused.
func lowestFreeToken(leases map[string]models.LeaseToken) (models.LeaseToken, bool) {
	var held [256]bool
	for _, tok := range leases {
		held[tok] = true
	}
	for n := 0; n <= 255; n++ {
		if !held[n] {
			return models.LeaseToken(n), true
		}
	}
	return 0, false
}

// verificationSuggestions returns the questions of the task's effective
// level, which double as a pre-completion checklist.
func verificationSuggestions(p *models.Plan, idx models.Index) []string {
	level, ok := p.EffectiveLevel(idx)
	if !ok {
		return nil
	}
	return append([]string(nil), p.Levels[level].Questions...)
}
