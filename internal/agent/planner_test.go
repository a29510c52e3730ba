package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/anchorforge/anchorforge/internal/pipeline"
)

func interpretedState() *pipeline.State {
	st := pipeline.NewState("spec")
	st.Spec = &pipeline.TokenSpec{
		Name:     "Galaxy Token",
		Symbol:   "GLX",
		Decimals: 9,
		Features: []string{pipeline.FeatureMintable},
	}
	st.ProjectName = "galaxy_token"
	st.CurrentStep = pipeline.StepPlan
	return st
}

func TestPlannerProducesScaffold(t *testing.T) {
	llm := &scriptedLLM{response: "```json\n" + `{
  "files": {
    "Cargo.toml": "[workspace]",
    "Anchor.toml": "[provider]",
    "programs/galaxy_token/src/lib.rs": "use anchor_lang::prelude::*;"
  }
}` + "\n```"}

	next, err := NewProjectPlanner(llm, "m").Run(context.Background(), interpretedState())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if next.CurrentStep != pipeline.StepGenerate {
		t.Errorf("CurrentStep = %s, want %s", next.CurrentStep, pipeline.StepGenerate)
	}
	if len(next.Files) != 3 {
		t.Errorf("Files = %v", next.Files)
	}
	if !strings.Contains(llm.users[0], `"symbol": "GLX"`) {
		t.Errorf("prompt missing spec JSON:\n%s", llm.users[0])
	}
}

func TestPlannerRequiresSpec(t *testing.T) {
	llm := &scriptedLLM{}
	if _, err := NewProjectPlanner(llm, "m").Run(context.Background(), pipeline.NewState("spec")); err == nil {
		t.Fatal("expected error when no interpreted spec is present")
	}
}

func TestGeneratorMergesOverScaffold(t *testing.T) {
	llm := &scriptedLLM{response: "```json\n" + `{
  "files": {
    "programs/galaxy_token/src/lib.rs": "use anchor_lang::prelude::*;\n\n#[program]\npub mod galaxy_token {}\n"
  }
}` + "\n```"}

	st := interpretedState()
	st.Files = map[string]string{
		"Cargo.toml":                       "[workspace]",
		"programs/galaxy_token/src/lib.rs": "use anchor_lang::prelude::*;",
	}
	st.CurrentStep = pipeline.StepGenerate

	next, err := NewCodeGenerator(llm, "m").Run(context.Background(), st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if next.CurrentStep != pipeline.StepValidate {
		t.Errorf("CurrentStep = %s, want %s", next.CurrentStep, pipeline.StepValidate)
	}
	if next.Files["Cargo.toml"] != "[workspace]" {
		t.Error("scaffold file dropped by merge")
	}
	if !strings.Contains(next.Files["programs/galaxy_token/src/lib.rs"], "#[program]") {
		t.Error("generated content not merged")
	}
	if !strings.Contains(llm.users[0], "mintable") {
		t.Errorf("prompt missing features:\n%s", llm.users[0])
	}
}

func TestFileList(t *testing.T) {
	if got := FileList(nil); got != "(none)" {
		t.Errorf("FileList(nil) = %q", got)
	}
	got := FileList(map[string]string{"b.rs": "", "a.rs": ""})
	if got != "- a.rs\n- b.rs" {
		t.Errorf("FileList = %q", got)
	}
}
