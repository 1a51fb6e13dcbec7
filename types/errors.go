package types

import (
	"errors"
	"fmt"
)

// Engine error codes.
const (
	CodePlanNotFound      = "PLAN_NOT_FOUND"
	CodeIndexOutOfRange   = "INDEX_OUT_OF_RANGE"
	CodeLevelOutOfRange   = "LEVEL_OUT_OF_RANGE"
	CodeLeaseExhausted    = "LEASE_EXHAUSTED"
	CodeCapacityExhausted = "CAPACITY_EXHAUSTED"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInternal          = "INTERNAL"
)

// EngineError provides structured error information for engine failures.
// Frontends map the code to a transport-appropriate status.
type EngineError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewEngineError creates a new structured engine error.
func NewEngineError(code string, message string, details map[string]interface{}) *EngineError {
	return &EngineError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewPlanNotFound reports that a plan ID has no entry.
func NewPlanNotFound(id string) *EngineError {
	return NewEngineError(CodePlanNotFound, fmt.Sprintf("plan %s not found", id), map[string]interface{}{
		"plan": id,
	})
}

// NewIndexOutOfRange reports that a task path walks off the tree.
func NewIndexOutOfRange(index string) *EngineError {
	return NewEngineError(CodeIndexOutOfRange, fmt.Sprintf("no task at index %q", index), map[string]interface{}{
		"index": index,
	})
}

// NewLevelOutOfRange reports a level index outside the plan's catalog.
func NewLevelOutOfRange(level, catalogSize int) *EngineError {
	return NewEngineError(CodeLevelOutOfRange, fmt.Sprintf("level %d is outside the catalog (0..%d)", level, catalogSize-1), map[string]interface{}{
		"level":       level,
		"catalogSize": catalogSize,
	})
}

// NewLeaseExhausted reports that no free lease token remains for a plan.
func NewLeaseExhausted() *EngineError {
	return NewEngineError(CodeLeaseExhausted, "all 256 lease tokens are outstanding", nil)
}

// NewCapacityExhausted reports that no free plan ID remains.
func NewCapacityExhausted() *EngineError {
	return NewEngineError(CodeCapacityExhausted, "all 256 plan ids are in use", nil)
}

// NewInvalidInput reports malformed or missing caller input.
func NewInvalidInput(message string) *EngineError {
	return NewEngineError(CodeInvalidInput, message, nil)
}

// NewInternal reports an unexpected internal failure.
func NewInternal(message string) *EngineError {
	return NewEngineError(CodeInternal, message, nil)
}

// ErrorCode extracts the engine error code from err, or "" if err is not an
// EngineError.
func ErrorCode(err error) string {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsCode reports whether err is an EngineError with the given code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}
