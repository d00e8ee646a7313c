package config

import "time"

// Config holds all application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Debate   DebateConfig   `mapstructure:"debate"`
	Problems ProblemsConfig `mapstructure:"problems"`
	Results  ResultsConfig  `mapstructure:"results"`
	Server   ServerConfig   `mapstructure:"server"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BackendConfig configures the generation backend.
type BackendConfig struct {
	// Provider selects the backend adapter. Currently "gemini".
	Provider string `mapstructure:"provider"`
	// Model is the target model name.
	Model string `mapstructure:"model"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `mapstructure:"api_key_env"`
	// Timeout bounds a single generation call.
	Timeout time.Duration `mapstructure:"timeout"`
	// Temperature for generation calls.
	Temperature float64 `mapstructure:"temperature"`
}

// RetryConfig configures the gateway retry policy.
type RetryConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	BaseDelay    time.Duration `mapstructure:"base_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	Multiplier   float64       `mapstructure:"multiplier"`
	JitterFactor float64       `mapstructure:"jitter_factor"`
}

// DebateConfig configures the debate protocol.
type DebateConfig struct {
	// Personas maps agent ids to system instructions. At least three
	// entries are required: one judge plus two solvers.
	Personas map[string]string `mapstructure:"personas"`
	// GraderAgent is the persona id used for the grading call.
	GraderAgent string `mapstructure:"grader_agent"`
	// MaxConcurrent bounds in-flight backend calls within a stage.
	// 1 reproduces strictly sequential execution.
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

// ProblemsConfig configures the problem source.
type ProblemsConfig struct {
	// Path to the problem file (.json or .yaml).
	Path string `mapstructure:"path"`
}

// ResultsConfig configures result persistence.
type ResultsConfig struct {
	// Backend selects the store: "json" or "sqlite".
	Backend string `mapstructure:"backend"`
	// Path to the results file or database.
	Path string `mapstructure:"path"`
}

// ServerConfig configures the read-only results API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}
