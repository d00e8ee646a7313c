package core

import (
	"context"
)

// =============================================================================
// Backend Port
// =============================================================================

// CompletionRequest asks the generation backend for one structured response.
type CompletionRequest struct {
	// AgentID identifies the calling agent, for logging and tracing only.
	AgentID string
	// Instruction is the effective system instruction (persona or override).
	Instruction string
	// Prompt is the user-level prompt for this call.
	Prompt string
	// Schema names the structured-output shape the response must conform to.
	Schema ResultKind
}

// Backend is the external text-generation service. Implementations must
// return the raw response body, expected to be a JSON document conforming to
// the requested schema. Transport failures should surface as errors; schema
// validation happens in the gateway.
type Backend interface {
	// Name returns the backend identifier (e.g. "gemini").
	Name() string

	// Model returns the target model name, for logging.
	Model() string

	// Complete performs one generation call.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// =============================================================================
// Storage Ports
// =============================================================================

// ProblemSource loads the problem set.
type ProblemSource interface {
	// Load returns all problems. IDs must be unique.
	Load(ctx context.Context) ([]Problem, error)
}

// ResultStore persists debate outcomes. Save rewrites the complete result
// list after each problem (incremental snapshotting); a single problem's
// entry is never persisted partially.
type ResultStore interface {
	// Save atomically replaces the stored result list.
	Save(ctx context.Context, results []RunResult) error

	// Load returns the stored result list, or nil if none exists.
	Load(ctx context.Context) ([]RunResult, error)
}
