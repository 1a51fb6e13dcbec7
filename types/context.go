package types

import "time"

// UsageSummary is the fixed orientation string attached to every distilled
// context.
const UsageSummary = "You are working inside a hierarchical task plan. " +
	"taskTree is the full plan with your current position flagged isCurrent; " +
	"currentTask is where the cursor sits; levels is the abstraction ladder " +
	"(lower index = higher abstraction); transitionHistory lists what has " +
	"happened so far, oldest first. Move the cursor, add subtasks, and " +
	"complete tasks with a lease and a summary."

// TreeNode is one task in the distilled-context tree snapshot.
type TreeNode struct {
	Index       string     `json:"index"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	IsCurrent   bool       `json:"isCurrent"`
	Children    []TreeNode `json:"children,omitempty"`
}

// CurrentTaskSummary is the cursor position as carried in the distilled
// context.
type CurrentTaskSummary struct {
	Index         string `json:"index"`
	Description   string `json:"description"`
	Completed     bool   `json:"completed"`
	ExplicitLevel *int   `json:"explicitLevel,omitempty"`
}

// CurrentSummary is the richer cursor view returned by the current
// operation: the effective level and the ancestor description chain.
type CurrentSummary struct {
	Index       string   `json:"index"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	Level       *int     `json:"level,omitempty"`
	LevelName   string   `json:"levelName,omitempty"`
	History     []string `json:"history"`
}

// LevelSummary abbreviates a catalog entry to name, focus, and questions.
type LevelSummary struct {
	Name      string   `json:"name"`
	Focus     string   `json:"focus"`
	Questions []string `json:"questions"`
}

// TransitionView is one history entry as carried in the distilled context,
// chronological order. Consumers may render the list reversed.
type TransitionView struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
}

// DistilledContext is the orientation payload attached to every engine
// response. It is built from the post-operation plan state.
type DistilledContext struct {
	UsageSummary      string              `json:"usageSummary"`
	TaskTree          []TreeNode          `json:"taskTree"`
	CurrentTask       *CurrentTaskSummary `json:"currentTask,omitempty"`
	Levels            []LevelSummary      `json:"levels"`
	TransitionHistory []TransitionView    `json:"transitionHistory"`
}

// PlanResponse is the universal success envelope: the operation's inner
// result plus the freshly built distilled context, advisory follow-ups, and
// an optional reminder. It is only produced on success; failures travel as
// EngineError.
type PlanResponse[T any] struct {
	Result             T                 `json:"result"`
	DistilledContext   *DistilledContext `json:"distilledContext"`
	SuggestedFollowups []string          `json:"suggestedFollowups"`
	Reminder           string            `json:"reminder,omitempty"`
}

// TaskView is the wire form of a task subtree.
type TaskView struct {
	Description       string     `json:"description"`
	Completed         bool       `json:"completed"`
	CompletionSummary *string    `json:"completionSummary,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	ExplicitLevel     *int       `json:"explicitLevel,omitempty"`
	Children          []TaskView `json:"children"`
}

// PlanView is the full plan snapshot returned by get_plan.
type PlanView struct {
	ID         string           `json:"id"`
	Prompt     string           `json:"prompt"`
	Notes      *string          `json:"notes,omitempty"`
	Levels     []LevelSummary   `json:"levels"`
	Root       TaskView         `json:"root"`
	Cursor     string           `json:"cursor"`
	LeaseCount int              `json:"leaseCount"`
	History    []TransitionView `json:"history"`
}

// AddTaskResult carries the created task and its assigned index.
type AddTaskResult struct {
	Task  TaskView `json:"task"`
	Index string   `json:"index"`
}

// RemoveTaskResult carries the detached subtree.
type RemoveTaskResult struct {
	Removed TaskView `json:"removed"`
}

// LeaseGrant carries a freshly generated lease token together with the
// verification suggestions the task's level declares.
type LeaseGrant struct {
	Token       uint8    `json:"token"`
	Suggestions []string `json:"suggestions"`
}

// OpResult reports whether an operation took effect, with a reason when it
// did not.
type OpResult struct {
	Succeeded bool   `json:"succeeded"`
	Reason    string `json:"reason,omitempty"`
}

// ToggleResult reports whether a flag actually changed.
type ToggleResult struct {
	Changed bool `json:"changed"`
}

// NotesView carries a task's notes; Notes is nil when none are set.
type NotesView struct {
	Index string  `json:"index"`
	Notes *string `json:"notes"`
}
