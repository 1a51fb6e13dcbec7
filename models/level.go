package models

import (
	"fmt"
	"strings"
)

// Level is one rung of a plan's abstraction ladder. A lower position in the
// catalog means a higher level of abstraction. The catalog is fixed at plan
// creation.
type Level struct {
	Description      string   `json:"description" validate:"required,min=1"`
	AbstractionFocus string   `json:"abstractionFocus" validate:"required,min=1"`
	Questions        []string `json:"questions"`
}

// Name derives the short level name from the description's leading phrase,
// e.g. "Planning: sketch the overall approach" -> "planning".
func (l Level) Name() string {
	head := l.Description
	if i := strings.IndexAny(head, ":.—"); i >= 0 {
		head = head[:i]
	}
	return strings.ToLower(strings.TrimSpace(head))
}

// Guidance formats the level into a single human-readable orientation string.
func (l Level) Guidance() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nFocus: %s", l.Description, l.AbstractionFocus)
	if len(l.Questions) > 0 {
		b.WriteString("\nQuestions to ask:")
		for _, q := range l.Questions {
			fmt.Fprintf(&b, "\n  - %s", q)
		}
	}
	return b.String()
}

// DefaultLevels returns the built-in four-entry catalog:
// planning, isolation, ordering, implementation.
func DefaultLevels() []Level {
	return []Level{
		{
			Description:      "Planning: sketch the overall approach before committing to details",
			AbstractionFocus: "the shape of the whole solution and its major pieces",
			Questions: []string{
				"What are the major components of this goal?",
				"Which unknowns carry the most risk?",
				"What can be deferred or cut entirely?",
			},
		},
		{
			Description:      "Isolation: carve out a piece that can be worked on independently",
			AbstractionFocus: "boundaries, inputs, and outputs of a single piece of work",
			Questions: []string{
				"Can this piece be finished without touching the rest?",
				"What does it consume and what does it produce?",
				"What would prove the piece is done?",
			},
		},
		{
			Description:      "Ordering: sequence the isolated pieces",
			AbstractionFocus: "dependencies and the order work must happen in",
			Questions: []string{
				"What must happen before this can start?",
				"What does this unblock once finished?",
				"Is anything here parallelizable?",
			},
		},
		{
			Description:      "Implementation: do the concrete work",
			AbstractionFocus: "the exact change being made and how it is verified",
			Questions: []string{
				"What exactly is being changed?",
				"How will the change be verified?",
				"What could this break?",
			},
		},
	}
}
