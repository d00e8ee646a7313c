package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation ErrorCategory = "validation" // Invalid input or configuration
	ErrCatBackend    ErrorCategory = "backend"    // Generation backend failure
	ErrCatResponse   ErrorCategory = "response"   // Backend response unusable
	ErrCatState      ErrorCategory = "state"      // Persistence failure
	ErrCatInternal   ErrorCategory = "internal"   // Unexpected internal error
)

// Error codes used across the debate pipeline.
const (
	CodeUnknownAgent       = "UNKNOWN_AGENT"
	CodeMalformedResponse  = "MALFORMED_RESPONSE"
	CodeBackendCall        = "BACKEND_CALL"
	CodeInsufficientAgents = "INSUFFICIENT_AGENTS"
	CodeNoPersonas         = "NO_PERSONAS"
	CodeProblemNotFound    = "PROBLEM_NOT_FOUND"
	CodeStateCorrupt       = "STATE_CORRUPT"
)

// DomainError represents a structured error from the domain layer.
type DomainError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// ErrUnknownAgent indicates a persona lookup failed with no override given.
// Fatal to the call; never retried.
func ErrUnknownAgent(agentID string) *DomainError {
	return &DomainError{
		Category:  ErrCatValidation,
		Code:      CodeUnknownAgent,
		Message:   fmt.Sprintf("no persona registered for agent %q and no instruction override supplied", agentID),
		Retryable: false,
	}
}

// ErrMalformedResponse indicates the backend returned output that does not
// conform to the expected schema. Retryable at the gateway.
func ErrMalformedResponse(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatResponse,
		Code:      CodeMalformedResponse,
		Message:   message,
		Retryable: true,
	}
}

// ErrBackendCall indicates a transport or backend-side failure. Retryable.
func ErrBackendCall(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatBackend,
		Code:      CodeBackendCall,
		Message:   message,
		Retryable: true,
	}
}

// ErrInsufficientAgents indicates the agent set is too small for the debate
// protocol (need one judge plus at least two solvers for peer review).
func ErrInsufficientAgents(have, need int) *DomainError {
	return &DomainError{
		Category:  ErrCatValidation,
		Code:      CodeInsufficientAgents,
		Message:   fmt.Sprintf("debate requires at least %d agents, have %d", need, have),
		Retryable: false,
	}
}

// ErrValidation creates a generic validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatValidation,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrState creates a persistence error.
func ErrState(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatState,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// IsRetryable reports whether an error should be retried by the gateway.
// Context cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Retryable
	}
	// Unclassified errors (raw transport failures) are treated as retryable.
	return true
}
