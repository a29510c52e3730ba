package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/anchorforge/anchorforge/internal/pipeline"
	"github.com/anchorforge/anchorforge/internal/prompt"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// SpecInterpreter converts the raw natural-language specification into a
// structured TokenSpec and derives the project name.
type SpecInterpreter struct {
	llm   LLM
	model string
}

// NewSpecInterpreter creates the interpreter stage.
func NewSpecInterpreter(llm LLM, model string) *SpecInterpreter {
	return &SpecInterpreter{llm: llm, model: model}
}

func (a *SpecInterpreter) Name() string { return "spec_interpreter" }

func (a *SpecInterpreter) Run(ctx context.Context, st *pipeline.State) (*pipeline.State, error) {
	if strings.TrimSpace(st.Specification) == "" {
		return nil, fmt.Errorf("no specification provided")
	}

	system, err := prompt.Builtin("interpreter-system.md")
	if err != nil {
		return nil, err
	}
	user, err := prompt.RenderBuiltin("interpreter-user.md", prompt.Vars{
		"specification": st.Specification,
	})
	if err != nil {
		return nil, err
	}

	out, err := a.llm.Complete(ctx, a.model, system, user)
	if err != nil {
		return nil, fmt.Errorf("interpret specification: %w", err)
	}

	raw, err := JSONBlock(out)
	if err != nil {
		return nil, fmt.Errorf("interpret specification: %w", err)
	}

	var spec pipeline.TokenSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("interpret specification: %w", ErrNoStructuredOutput)
	}
	if spec.Name == "" || spec.Symbol == "" {
		return nil, fmt.Errorf("interpret specification: spec missing name or symbol")
	}
	if spec.Decimals < 0 || spec.Decimals > 9 {
		spec.Decimals = 9
	}

	next := st.Clone()
	next.Spec = &spec
	next.ProjectName = Slug(spec.Name)
	next.CurrentStep = pipeline.StepPlan
	return next, nil
}

// Slug derives a filesystem- and anchor-init-safe project name from a token
// name, capped at 32 characters.
func Slug(name string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(name), "_")
	s = strings.Trim(s, "_")
	if len(s) > 32 {
		s = s[:32]
	}
	if s == "" {
		return "solana_contract"
	}
	return s
}
