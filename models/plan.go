package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// PlanID identifies a plan in the registry. The ID space is 8-bit by
// contract; at most 256 plans exist at once.
type PlanID uint8

// ParsePlanID parses the decimal wire form of a plan ID.
func ParsePlanID(s string) (PlanID, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid plan id %q: %w", s, err)
	}
	return PlanID(n), nil
}

// String renders the ID as a decimal.
func (id PlanID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Transition is one entry in a plan's append-only history log.
type Transition struct {
	ID        string    `json:"id" validate:"required,uuid4"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
	Action    string    `json:"action" validate:"required,min=1"`
	Details   *string   `json:"details,omitempty"`
}

// LeaseToken is a single-use 8-bit token serializing completion of one task.
type LeaseToken uint8

// Plan is one hierarchical task plan: a prompt, a fixed level catalog, a
// synthetic root task, a cursor, the outstanding leases, and the history log.
type Plan struct {
	Prompt  string                `json:"prompt" validate:"required,min=1"`
	Notes   *string               `json:"notes,omitempty"`
	Levels  []Level               `json:"levels" validate:"required,min=1,dive"`
	Root    *Task                 `json:"root" validate:"required"`
	Cursor  Index                 `json:"cursor"`
	Leases  map[string]LeaseToken `json:"leases"`
	History []Transition          `json:"history"`
}

// NewPlan returns a plan with the default level catalog, an empty root, an
// empty cursor, and a "create" history entry carrying the prompt.
func NewPlan(prompt string, notes *string) *Plan {
	p := &Plan{
		Prompt: prompt,
		Notes:  notes,
		Levels: DefaultLevels(),
		Root:   NewTask("root", nil, nil),
		Cursor: nil,
		Leases: map[string]LeaseToken{},
	}
	p.Record("create", &prompt)
	return p
}

// TaskAt walks the plan's tree by index. The empty index yields the root.
func (p *Plan) TaskAt(idx Index) (*Task, bool) {
	return p.Root.At(idx)
}

// Record appends a history entry with the current UTC time.
func (p *Plan) Record(action string, details *string) {
	p.History = append(p.History, Transition{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		Details:   details,
	})
}

// EffectiveLevel resolves the level of the task at idx: the task's explicit
// level when set, otherwise its depth, clamped to the catalog. The root has
// no level; ok is false for it.
func (p *Plan) EffectiveLevel(idx Index) (int, bool) {
	if idx.IsRoot() {
		return 0, false
	}
	task, found := p.TaskAt(idx)
	if !found {
		return 0, false
	}
	if task.ExplicitLevel != nil && *task.ExplicitLevel < len(p.Levels) {
		return *task.ExplicitLevel, true
	}
	level := len(idx) - 1
	if level >= len(p.Levels) {
		level = len(p.Levels) - 1
	}
	return level, true
}

// LeaseAt returns the outstanding lease for the task at idx, if any.
func (p *Plan) LeaseAt(idx Index) (LeaseToken, bool) {
	tok, ok := p.Leases[idx.String()]
	return tok, ok
}

// ClearLeasesUnder removes lease entries for idx and every task beneath it.
func (p *Plan) ClearLeasesUnder(idx Index) {
	for key := range p.Leases {
		held, err := ParseIndex(key)
		if err != nil {
			delete(p.Leases, key)
			continue
		}
		if held.HasPrefix(idx) {
			delete(p.Leases, key)
		}
	}
}
