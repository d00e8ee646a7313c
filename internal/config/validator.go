package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for coherence at process start.
func Validate(cfg *Config) error {
	if len(cfg.Debate.Personas) < 3 {
		return fmt.Errorf("debate.personas: need at least 3 personas (one judge, two solvers), have %d", len(cfg.Debate.Personas))
	}
	for id, instruction := range cfg.Debate.Personas {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("debate.personas: empty agent id")
		}
		if strings.TrimSpace(instruction) == "" {
			return fmt.Errorf("debate.personas: persona %q has an empty instruction", id)
		}
	}
	if cfg.Debate.GraderAgent == "" {
		return fmt.Errorf("debate.grader_agent is required")
	}
	if _, ok := cfg.Debate.Personas[cfg.Debate.GraderAgent]; !ok {
		return fmt.Errorf("debate.grader_agent %q is not a registered persona", cfg.Debate.GraderAgent)
	}
	if cfg.Debate.MaxConcurrent < 1 {
		return fmt.Errorf("debate.max_concurrent must be >= 1, got %d", cfg.Debate.MaxConcurrent)
	}

	if cfg.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be >= 1, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.Multiplier < 1.0 {
		return fmt.Errorf("retry.multiplier must be >= 1.0, got %g", cfg.Retry.Multiplier)
	}
	if cfg.Retry.JitterFactor < 0 || cfg.Retry.JitterFactor > 1 {
		return fmt.Errorf("retry.jitter_factor must be in [0,1], got %g", cfg.Retry.JitterFactor)
	}

	switch cfg.Results.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("results.backend must be json or sqlite, got %q", cfg.Results.Backend)
	}

	return nil
}
