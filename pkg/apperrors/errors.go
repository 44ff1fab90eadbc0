package apperrors

import "fmt"

// Denial reasons carried by PolicyDeniedError.
const (
	ReasonExpired             = "access_expired"
	ReasonPreviewLimit        = "preview_limit"
	ReasonEarlyCompletionLock = "early_completion_lock"
)

// ValidationError means the caller passed malformed input (e.g. an unknown
// question type). It is a contract violation and must be surfaced.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
	}
	return "validation: " + e.Message
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StateError means the operation is invalid for the current state, e.g.
// reopening a completed session.
type StateError struct {
	Op      string
	Current string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid state: cannot %s while %s", e.Op, e.Current)
}

func NewState(op, current string) *StateError {
	return &StateError{Op: op, Current: current}
}

// PolicyDeniedError is an expected business outcome: access was denied by an
// access policy. Reason is one of the Reason* constants.
type PolicyDeniedError struct {
	Reason string
}

func (e *PolicyDeniedError) Error() string {
	return "access denied: " + e.Reason
}

func NewPolicyDenied(reason string) *PolicyDeniedError {
	return &PolicyDeniedError{Reason: reason}
}

// PersistenceError wraps a storage failure. Timer flushes may retry it
// transparently; completeSession and submitAttempt must surface it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// AttemptsExhaustedError is returned when a user has no attempts left for an
// assessment. Nothing is written when it is returned.
type AttemptsExhaustedError struct {
	Used int
	Max  int
}

func (e *AttemptsExhaustedError) Error() string {
	return fmt.Sprintf("attempts exhausted: %d of %d used", e.Used, e.Max)
}

func NewAttemptsExhausted(used, max int) *AttemptsExhaustedError {
	return &AttemptsExhaustedError{Used: used, Max: max}
}
