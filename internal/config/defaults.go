package config

// DefaultPersonas returns the stock four-persona roster. Distinct reasoning
// styles keep the debate from collapsing into a single mode of thought.
func DefaultPersonas() map[string]string {
	return map[string]string{
		"A": "You are a rigid logician and scientist. You prioritize formal proofs, " +
			"step-by-step derivation, and edge cases. You are skeptical of intuition " +
			"and require verification for every claim.",
		"B": "You are a lateral thinker. You look for alternative interpretations, " +
			"trick wording, or creative solutions that standard logic might miss. " +
			"You value outside-the-box reasoning.",
		"C": "You are a pragmatic engineer. You focus on probability, heuristics, " +
			"and real-world constraints. You check if the answer 'makes sense' " +
			"intuitively before diving into math.",
		"D": "You are a balanced synthesizer. You strive for clarity and consensus. " +
			"You try to bridge the gap between abstract logic and practical application.",
	}
}

// setDefaults configures default values on the loader's viper instance.
func (l *Loader) setDefaults() {
	v := l.v

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")

	v.SetDefault("backend.provider", "gemini")
	v.SetDefault("backend.model", "gemini-2.5-flash")
	v.SetDefault("backend.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("backend.timeout", "120s")
	v.SetDefault("backend.temperature", 0.7)

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay", "2s")
	v.SetDefault("retry.max_delay", "10s")
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.jitter_factor", 0.2)

	v.SetDefault("debate.personas", DefaultPersonas())
	v.SetDefault("debate.grader_agent", "D")
	v.SetDefault("debate.max_concurrent", 1)

	v.SetDefault("problems.path", "data/problems.json")

	v.SetDefault("results.backend", "json")
	v.SetDefault("results.path", "data/results_log.json")

	v.SetDefault("server.addr", "127.0.0.1:8321")
}
