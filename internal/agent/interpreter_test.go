package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/anchorforge/anchorforge/internal/pipeline"
)

// scriptedLLM returns canned responses and records the requests it saw.
type scriptedLLM struct {
	response string
	err      error
	models   []string
	systems  []string
	users    []string
}

func (s *scriptedLLM) Complete(ctx context.Context, model, system, user string) (string, error) {
	s.models = append(s.models, model)
	s.systems = append(s.systems, system)
	s.users = append(s.users, user)
	return s.response, s.err
}

func TestInterpreterRun(t *testing.T) {
	llm := &scriptedLLM{response: "```json\n" + `{
  "name": "Galaxy Token",
  "symbol": "GLX",
  "description": "a community token",
  "decimals": 6,
  "features": ["mintable", "burnable"],
  "initial_supply": 1000000
}` + "\n```"}

	st := pipeline.NewState("a mintable, burnable community token called Galaxy")
	next, err := NewSpecInterpreter(llm, "test-model").Run(context.Background(), st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if next.Spec == nil {
		t.Fatal("Spec not set")
	}
	if next.Spec.Name != "Galaxy Token" || next.Spec.Symbol != "GLX" {
		t.Errorf("Spec = %+v", next.Spec)
	}
	if next.Spec.Decimals != 6 {
		t.Errorf("Decimals = %d, want 6", next.Spec.Decimals)
	}
	if len(next.Spec.Features) != 2 {
		t.Errorf("Features = %v", next.Spec.Features)
	}
	if next.ProjectName != "galaxy_token" {
		t.Errorf("ProjectName = %q, want galaxy_token", next.ProjectName)
	}
	if next.CurrentStep != pipeline.StepPlan {
		t.Errorf("CurrentStep = %s, want %s", next.CurrentStep, pipeline.StepPlan)
	}
	if llm.models[0] != "test-model" {
		t.Errorf("model = %q", llm.models[0])
	}
	if st.Spec != nil {
		t.Error("input state mutated")
	}
}

func TestInterpreterEmptySpecification(t *testing.T) {
	llm := &scriptedLLM{}
	_, err := NewSpecInterpreter(llm, "m").Run(context.Background(), pipeline.NewState("   "))
	if err == nil {
		t.Fatal("expected error for empty specification")
	}
	if len(llm.models) != 0 {
		t.Error("LLM invoked for empty specification")
	}
}

func TestInterpreterMissingNameOrSymbol(t *testing.T) {
	llm := &scriptedLLM{response: `{"name": "", "symbol": "GLX"}`}
	if _, err := NewSpecInterpreter(llm, "m").Run(context.Background(), pipeline.NewState("spec")); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestInterpreterMalformedResponse(t *testing.T) {
	llm := &scriptedLLM{response: "sorry, I cannot help with that"}
	_, err := NewSpecInterpreter(llm, "m").Run(context.Background(), pipeline.NewState("spec"))
	if !errors.Is(err, ErrNoStructuredOutput) {
		t.Errorf("err = %v, want ErrNoStructuredOutput", err)
	}
}

func TestInterpreterClampsDecimals(t *testing.T) {
	llm := &scriptedLLM{response: `{"name": "X", "symbol": "X", "decimals": 18}`}
	next, err := NewSpecInterpreter(llm, "m").Run(context.Background(), pipeline.NewState("spec"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if next.Spec.Decimals != 9 {
		t.Errorf("Decimals = %d, want clamped to 9", next.Spec.Decimals)
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Galaxy Token", "galaxy_token"},
		{"  My $uper Coin!  ", "my_uper_coin"},
		{"UPPER", "upper"},
		{"***", "solana_contract"},
		{"", "solana_contract"},
		{"a-very-long-token-name-that-goes-on-and-on-forever", "a_very_long_token_name_that_goes"},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
