package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anchorforge.yaml")
	if err := os.WriteFile(path, []byte("workspace:\n  root: /tmp/projects\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workspace.Root != "/tmp/projects" {
		t.Errorf("Workspace.Root = %q", cfg.Workspace.Root)
	}
	if cfg.LLM.APIKeyEnv != "OPENROUTER_API_KEY" {
		t.Errorf("LLM.APIKeyEnv = %q", cfg.LLM.APIKeyEnv)
	}
	if cfg.LLM.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("LLM.BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.Pipeline.MaxRetries != 1 {
		t.Errorf("Pipeline.MaxRetries = %d, want 1", cfg.Pipeline.MaxRetries)
	}
	if cfg.Models.SpecInterpreter == "" || cfg.Models.Debugger == "" {
		t.Errorf("stage models not defaulted: %+v", cfg.Models)
	}
	if cfg.Build.Timeout != "5m" {
		t.Errorf("Build.Timeout = %q", cfg.Build.Timeout)
	}
	if cfg.Events.DSN != "" {
		t.Errorf("Events.DSN = %q, want empty (disabled)", cfg.Events.DSN)
	}
}

func TestLoadFullConfig(t *testing.T) {
	yaml := `
workspace:
  root: /srv/forge
llm:
  api_key_env: MY_KEY
  base_url: http://localhost:8080/v1
  temperature: 0.7
models:
  spec_interpreter: model-a
  project_planner: model-b
  code_generator: model-c
  debugger: model-d
pipeline:
  max_retries: 3
build:
  timeout: 90s
events:
  dsn: postgres://localhost/forge
`
	path := filepath.Join(t.TempDir(), "anchorforge.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKeyEnv != "MY_KEY" || cfg.LLM.Temperature != 0.7 {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Models.CodeGenerator != "model-c" {
		t.Errorf("Models = %+v", cfg.Models)
	}
	if cfg.Pipeline.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d", cfg.Pipeline.MaxRetries)
	}
	if got := cfg.BuildTimeout(); got != 90*time.Second {
		t.Errorf("BuildTimeout = %s, want 90s", got)
	}
	if cfg.Events.DSN != "postgres://localhost/forge" {
		t.Errorf("Events.DSN = %q", cfg.Events.DSN)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("workspace: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestBuildTimeoutFallback(t *testing.T) {
	cfg := &Config{}
	cfg.Build.Timeout = "not-a-duration"
	if got := cfg.BuildTimeout(); got != 5*time.Minute {
		t.Errorf("BuildTimeout = %s, want 5m fallback", got)
	}
}
