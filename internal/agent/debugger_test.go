package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/anchorforge/anchorforge/internal/pipeline"
)

func brokenState() *pipeline.State {
	st := pipeline.NewState("spec")
	st.Files = map[string]string{
		"Cargo.toml": "[package]",
		"lib.rs":     "fn x() {",
	}
	st.CurrentStep = pipeline.StepRepair
	st.ValidationErrors = []string{"lib.rs: Mismatched braces"}
	st.ValidationPassed = false
	return st
}

func TestDebuggerAppliesPatches(t *testing.T) {
	llm := &scriptedLLM{response: "```json\n" + `{
  "patches": [
    {"path": "lib.rs", "content": "use anchor_lang::prelude::*;\nfn x() {}\n", "reason": "close brace"}
  ],
  "analysis": "missing closing brace"
}` + "\n```"}

	st := brokenState()
	st.ErrorMessage = "previous failure"
	next, err := NewDebugger(llm, "m").Run(context.Background(), st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if next.CurrentStep != pipeline.StepValidate {
		t.Errorf("CurrentStep = %s, want %s", next.CurrentStep, pipeline.StepValidate)
	}
	if !strings.Contains(next.Files["lib.rs"], "fn x() {}") {
		t.Errorf("lib.rs not patched: %q", next.Files["lib.rs"])
	}
	if next.Files["Cargo.toml"] != "[package]" {
		t.Errorf("untouched file changed: %q", next.Files["Cargo.toml"])
	}
	if next.ErrorMessage != "" {
		t.Errorf("ErrorMessage = %q, want cleared", next.ErrorMessage)
	}
	if st.Files["lib.rs"] != "fn x() {" {
		t.Error("input state mutated")
	}
}

func TestDebuggerNoPatchesIsTerminal(t *testing.T) {
	llm := &scriptedLLM{response: `{"patches": [], "analysis": "cannot repair"}`}
	next, err := NewDebugger(llm, "m").Run(context.Background(), brokenState())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if next.CurrentStep != pipeline.StepFailed {
		t.Errorf("CurrentStep = %s, want %s", next.CurrentStep, pipeline.StepFailed)
	}
	if next.ErrorMessage != "repair produced no usable patches" {
		t.Errorf("ErrorMessage = %q", next.ErrorMessage)
	}
}

func TestDebuggerMalformedResponseIsError(t *testing.T) {
	llm := &scriptedLLM{response: "no json here"}
	if _, err := NewDebugger(llm, "m").Run(context.Background(), brokenState()); err == nil {
		t.Fatal("expected error for malformed response")
	}
}

func TestDebuggerPromptCarriesErrors(t *testing.T) {
	llm := &scriptedLLM{response: `{"patches": [{"path": "lib.rs", "content": "x"}]}`}
	st := brokenState()
	st.BuildLog = "error[E0433]: failed to resolve"
	if _, err := NewDebugger(llm, "m").Run(context.Background(), st); err != nil {
		t.Fatalf("Run: %v", err)
	}

	user := llm.users[0]
	if !strings.Contains(user, "lib.rs: Mismatched braces") {
		t.Errorf("prompt missing validation errors:\n%s", user)
	}
	if !strings.Contains(user, "error[E0433]") {
		t.Errorf("prompt missing build log:\n%s", user)
	}
	if !strings.Contains(user, "- lib.rs") {
		t.Errorf("prompt missing file list:\n%s", user)
	}
}

func TestFormatErrorsFallback(t *testing.T) {
	st := pipeline.NewState("spec")
	if got := formatErrors(st); got != "Unknown error - no error information available" {
		t.Errorf("formatErrors = %q", got)
	}
}
