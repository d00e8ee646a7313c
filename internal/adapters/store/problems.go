package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
)

// FileProblemSource loads problems from a JSON or YAML file, selected by
// extension.
type FileProblemSource struct {
	path string
}

// NewFileProblemSource creates a problem source over the given file.
func NewFileProblemSource(path string) *FileProblemSource {
	return &FileProblemSource{path: path}
}

// Load reads and validates the problem set.
func (s *FileProblemSource) Load(_ context.Context) ([]core.Problem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading problem file: %w", err)
	}

	var problems []core.Problem
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &problems); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", s.path, err)
		}
	default:
		if err := json.Unmarshal(data, &problems); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", s.path, err)
		}
	}

	if err := validateProblems(problems); err != nil {
		return nil, err
	}
	return problems, nil
}

func validateProblems(problems []core.Problem) error {
	if len(problems) == 0 {
		return core.ErrValidation(core.CodeProblemNotFound, "problem file contains no problems")
	}

	seen := make(map[int]bool, len(problems))
	for _, p := range problems {
		if seen[p.ID] {
			return core.ErrValidation(core.CodeStateCorrupt,
				fmt.Sprintf("duplicate problem id %d", p.ID))
		}
		seen[p.ID] = true

		if strings.TrimSpace(p.Question) == "" {
			return core.ErrValidation(core.CodeStateCorrupt,
				fmt.Sprintf("problem %d has an empty question", p.ID))
		}
		if strings.TrimSpace(p.GroundTruth) == "" {
			return core.ErrValidation(core.CodeStateCorrupt,
				fmt.Sprintf("problem %d has an empty ground truth", p.ID))
		}
	}
	return nil
}
