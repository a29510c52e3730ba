package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a configuration from the given YAML file path, then
// applies defaults for anything unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches standard locations and loads the first config found.
// Search order: ./anchorforge.yaml, ~/.anchorforge/config.yaml. A fully
// defaulted config is returned when no file exists.
func LoadDefault() (*Config, error) {
	candidates := []string{"anchorforge.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".anchorforge", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := &Config{}
	applyDefaults(cfg)
	return cfg, nil
}

// BuildTimeout returns the parsed build timeout.
func (c *Config) BuildTimeout() time.Duration {
	d, err := time.ParseDuration(c.Build.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

func applyDefaults(cfg *Config) {
	if cfg.Workspace.Root == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Workspace.Root = filepath.Join(home, ".anchorforge", "projects")
		} else {
			cfg.Workspace.Root = "anchorforge-projects"
		}
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OPENROUTER_API_KEY"
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.LLM.Temperature <= 0 {
		cfg.LLM.Temperature = 0.1
	}
	if cfg.Models.SpecInterpreter == "" {
		cfg.Models.SpecInterpreter = "google/gemini-2.5-pro"
	}
	if cfg.Models.ProjectPlanner == "" {
		cfg.Models.ProjectPlanner = "google/gemini-2.5-pro"
	}
	if cfg.Models.CodeGenerator == "" {
		cfg.Models.CodeGenerator = "anthropic/claude-sonnet-4-20250514"
	}
	if cfg.Models.Debugger == "" {
		cfg.Models.Debugger = "anthropic/claude-opus-4-20250514"
	}
	if cfg.Pipeline.MaxRetries <= 0 {
		cfg.Pipeline.MaxRetries = 1
	}
	if cfg.Build.Timeout == "" {
		cfg.Build.Timeout = "5m"
	}
}
