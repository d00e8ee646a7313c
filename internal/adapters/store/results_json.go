package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
)

// JSONResultStore persists the result list as a flat JSON array, fully
// rewritten on every save. The write is atomic so an interrupt never leaves
// a partially written file behind.
type JSONResultStore struct {
	path string
}

// NewJSONResultStore creates a JSON result store at the given path.
func NewJSONResultStore(path string) *JSONResultStore {
	return &JSONResultStore{path: path}
}

// Save atomically replaces the stored result list.
func (s *JSONResultStore) Save(_ context.Context, results []core.RunResult) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	if results == nil {
		results = []core.RunResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}

	if err := atomicWriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing results file: %w", err)
	}
	return nil
}

// Load returns the stored result list, or nil if no file exists yet.
func (s *JSONResultStore) Load(_ context.Context) ([]core.RunResult, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading results file: %w", err)
	}

	var results []core.RunResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, core.ErrState(core.CodeStateCorrupt, "results file is not a valid result list").WithCause(err)
	}
	return results, nil
}
