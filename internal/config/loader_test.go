package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Defaults(t *testing.T) {
	// Run from an empty directory so no project config is picked up.
	t.Chdir(t.TempDir())

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "gemini", cfg.Backend.Provider)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 10*time.Second, cfg.Retry.MaxDelay)
	assert.Equal(t, 2.0, cfg.Retry.Multiplier)
	assert.Equal(t, "json", cfg.Results.Backend)
	assert.Equal(t, "D", cfg.Debate.GraderAgent)
	assert.Equal(t, 1, cfg.Debate.MaxConcurrent)
	assert.Len(t, cfg.Debate.Personas, 4)
	for id, instruction := range cfg.Debate.Personas {
		assert.NotEmpty(t, id)
		assert.NotEmpty(t, instruction)
	}
}

func TestLoader_ConfigFileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agora.yaml")
	content := []byte(`
log:
  level: debug
debate:
  max_concurrent: 4
results:
  backend: sqlite
  path: out/results.db
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := NewLoader().WithConfigFile(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Debate.MaxConcurrent)
	assert.Equal(t, "sqlite", cfg.Results.Backend)
	// Untouched keys keep defaults.
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestValidate_Rejections(t *testing.T) {
	base := func() *Config {
		return &Config{
			Debate: DebateConfig{
				Personas:      DefaultPersonas(),
				GraderAgent:   "D",
				MaxConcurrent: 1,
			},
			Retry:   RetryConfig{MaxAttempts: 3, Multiplier: 2.0, JitterFactor: 0.2},
			Results: ResultsConfig{Backend: "json"},
		}
	}

	tooFew := base()
	tooFew.Debate.Personas = map[string]string{"A": "x", "B": "y"}
	assert.Error(t, Validate(tooFew))

	emptyInstruction := base()
	emptyInstruction.Debate.Personas["E"] = "   "
	assert.Error(t, Validate(emptyInstruction))

	badGrader := base()
	badGrader.Debate.GraderAgent = "Z"
	assert.Error(t, Validate(badGrader))

	badStore := base()
	badStore.Results.Backend = "mongodb"
	assert.Error(t, Validate(badStore))

	ok := base()
	assert.NoError(t, Validate(ok))
}
