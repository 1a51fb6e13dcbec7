package models

import (
	"github.com/go-playground/validator/v10"
)

// Task is a node in a plan's task tree.
//
// The effective level of a task is ExplicitLevel when set, otherwise its
// depth in the tree (clamped to the plan's catalog). Child positions are
// dense starting at 0; a task's Index is the path of positions from the
// synthetic root.
type Task struct {
	Description       string  `json:"description" validate:"required,min=1"`
	Completed         bool    `json:"completed"`
	CompletionSummary *string `json:"completionSummary,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	ExplicitLevel     *int    `json:"explicitLevel,omitempty" validate:"omitempty,gte=0"`
	Children          []*Task `json:"children"`
}

// validate is a single instance; it caches struct info.
var validate = validator.New()

// ValidateStruct validates any model struct against its validate tags.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// NewTask returns a task with the given description, optional explicit
// level, and optional notes.
func NewTask(description string, explicitLevel *int, notes *string) *Task {
	return &Task{
		Description:   description,
		ExplicitLevel: explicitLevel,
		Notes:         notes,
		Children:      []*Task{},
	}
}

// At walks the subtree rooted at t by the given index and returns the task
// at that path. The empty index returns t itself.
func (t *Task) At(idx Index) (*Task, bool) {
	cur := t
	for _, pos := range idx {
		if pos < 0 || pos >= len(cur.Children) {
			return nil, false
		}
		cur = cur.Children[pos]
	}
	return cur, true
}

// Walk visits every task in the subtree in pre-order, passing each task and
// its index relative to t. Returning false from fn stops the walk early.
func (t *Task) Walk(fn func(idx Index, task *Task) bool) {
	t.walk(nil, fn)
}

func (t *Task) walk(at Index, fn func(idx Index, task *Task) bool) bool {
	if !fn(at.Clone(), t) {
		return false
	}
	for pos, child := range t.Children {
		if !child.walk(at.Child(pos), fn) {
			return false
		}
	}
	return true
}

// CompleteSubtree marks t and every descendant completed. Existing
// completion summaries are left untouched.
func (t *Task) CompleteSubtree() {
	t.Completed = true
	for _, child := range t.Children {
		child.CompleteSubtree()
	}
}
