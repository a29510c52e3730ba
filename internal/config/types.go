package config

// Config is the top-level configuration structure parsed from YAML.
// It is constructed once at process start and passed into constructors;
// there is no ambient global settings state.
type Config struct {
	Workspace Workspace `yaml:"workspace"`
	LLM       LLM       `yaml:"llm"`
	Models    Models    `yaml:"models"`
	Pipeline  Pipeline  `yaml:"pipeline"`
	Build     Build     `yaml:"build"`
	Events    Events    `yaml:"events"`
}

// Workspace configures where generated projects live.
type Workspace struct {
	Root string `yaml:"root"`
}

// LLM configures the OpenAI-compatible completion endpoint.
type LLM struct {
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`
	// BaseURL points at an OpenAI-compatible endpoint (OpenRouter by default).
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`
}

// Models routes each stage to a model (cost-aware routing).
type Models struct {
	SpecInterpreter string `yaml:"spec_interpreter"`
	ProjectPlanner  string `yaml:"project_planner"`
	CodeGenerator   string `yaml:"code_generator"`
	Debugger        string `yaml:"debugger"`
}

// Pipeline bounds the repair loop.
type Pipeline struct {
	MaxRetries int `yaml:"max_retries"`
}

// Build configures toolchain invocations.
type Build struct {
	Timeout string `yaml:"timeout"`
}

// Events configures the optional Postgres run-event log. An empty DSN
// disables it.
type Events struct {
	DSN string `yaml:"dsn"`
}
