package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anchorforge/anchorforge/internal/pipeline"
	"github.com/anchorforge/anchorforge/internal/prompt"
)

// ProjectPlanner generates the Anchor project scaffold from the interpreted
// spec: manifest, configuration, and module layout.
type ProjectPlanner struct {
	llm   LLM
	model string
}

// NewProjectPlanner creates the planner stage.
func NewProjectPlanner(llm LLM, model string) *ProjectPlanner {
	return &ProjectPlanner{llm: llm, model: model}
}

func (a *ProjectPlanner) Name() string { return "project_planner" }

func (a *ProjectPlanner) Run(ctx context.Context, st *pipeline.State) (*pipeline.State, error) {
	if st.Spec == nil {
		return nil, fmt.Errorf("plan project: no interpreted spec in state")
	}

	specJSON, err := json.MarshalIndent(st.Spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("plan project: %w", err)
	}

	system, err := prompt.Builtin("planner-system.md")
	if err != nil {
		return nil, err
	}
	user, err := prompt.RenderBuiltin("planner-user.md", prompt.Vars{
		"token_spec": string(specJSON),
	})
	if err != nil {
		return nil, err
	}

	out, err := a.llm.Complete(ctx, a.model, system, user)
	if err != nil {
		return nil, fmt.Errorf("plan project: %w", err)
	}

	files, err := ExtractFiles(out)
	if err != nil {
		return nil, fmt.Errorf("plan project: %w", err)
	}

	next := st.Clone()
	next.Files = files
	next.CurrentStep = pipeline.StepGenerate
	return next, nil
}
