package types

// HTTP API request and response payloads, shared by the server and the CLI
// client.

// CreatePlanRequest is the payload for POST /api/plans.
type CreatePlanRequest struct {
	Prompt string  `json:"prompt"`
	Notes  *string `json:"notes,omitempty"`
}

// CreatePlanResponse carries the allocated plan ID.
type CreatePlanResponse struct {
	ID string `json:"id"`
}

// ListPlansResponse carries the live plan IDs, ascending.
type ListPlansResponse struct {
	Plans []string `json:"plans"`
}

// AddTaskRequest is the payload for POST /api/plans/{id}/task.
type AddTaskRequest struct {
	Description string  `json:"description"`
	Level       int     `json:"level"`
	Notes       *string `json:"notes,omitempty"`
}

// MoveRequest is the payload for POST /api/plans/{id}/move.
type MoveRequest struct {
	Index string `json:"index"`
}

// ChangeLevelRequest is the payload for POST /api/plans/{id}/level.
type ChangeLevelRequest struct {
	Index string `json:"index"`
	Level int    `json:"level"`
}

// CompleteRequest is the payload for POST /api/plans/{id}/complete.
type CompleteRequest struct {
	Index   string  `json:"index"`
	Lease   *uint8  `json:"lease,omitempty"`
	Force   bool    `json:"force,omitempty"`
	Summary *string `json:"summary,omitempty"`
}

// UncompleteRequest is the payload for POST /api/plans/{id}/uncomplete.
type UncompleteRequest struct {
	Index string `json:"index"`
}

// SetNotesRequest is the payload for PUT /api/plans/{id}/tasks/{index}/notes.
type SetNotesRequest struct {
	Notes string `json:"notes"`
}
