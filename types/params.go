package types

// MCP tool parameter types.

// CreatePlanParams for creating a new plan.
type CreatePlanParams struct {
	Prompt string `json:"prompt" mcp:"Goal the plan decomposes (required, non-empty)"`
	Notes  string `json:"notes,omitempty" mcp:"Free-form notes attached to the plan"`
}

// PlanParams for operations addressing a whole plan.
type PlanParams struct {
	Plan string `json:"plan" mcp:"Plan ID, decimal 0-255 (required)"`
}

// IndexParams for operations addressing one task within a plan.
type IndexParams struct {
	Plan  string `json:"plan" mcp:"Plan ID, decimal 0-255 (required)"`
	Index string `json:"index" mcp:"Task index as comma-separated positions, e.g. \"0,1,2\" (required)"`
}

// AddTaskParams for creating a task under the current cursor position.
type AddTaskParams struct {
	Plan        string `json:"plan" mcp:"Plan ID, decimal 0-255 (required)"`
	Description string `json:"description" mcp:"Task description (required, non-empty)"`
	Level       int    `json:"level" mcp:"Abstraction level index into the plan's catalog (required)"`
	Notes       string `json:"notes,omitempty" mcp:"Free-form notes attached to the task"`
}

// ChangeLevelParams for pinning a task to an explicit level.
type ChangeLevelParams struct {
	Plan  string `json:"plan" mcp:"Plan ID, decimal 0-255 (required)"`
	Index string `json:"index" mcp:"Task index, e.g. \"0,1\" (required)"`
	Level int    `json:"level" mcp:"New level index into the plan's catalog (required)"`
}

// CompleteTaskParams for completing a task.
type CompleteTaskParams struct {
	Plan    string `json:"plan" mcp:"Plan ID, decimal 0-255 (required)"`
	Index   string `json:"index" mcp:"Task index, e.g. \"0,1\" (required)"`
	Lease   *int   `json:"lease,omitempty" mcp:"Lease token from generate_lease; required when a lease is outstanding"`
	Force   bool   `json:"force,omitempty" mcp:"Skip lease and summary checks"`
	Summary string `json:"summary,omitempty" mcp:"Completion summary; required unless force is set"`
}

// SetNotesParams for writing a task's notes.
type SetNotesParams struct {
	Plan  string `json:"plan" mcp:"Plan ID, decimal 0-255 (required)"`
	Index string `json:"index" mcp:"Task index, e.g. \"0,1\" (required)"`
	Notes string `json:"notes" mcp:"Notes text to store (required)"`
}
