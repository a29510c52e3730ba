package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/anchorforge/anchorforge/internal/pipeline"
	"github.com/anchorforge/anchorforge/internal/prompt"
)

// CodeGenerator writes the Rust instruction handlers, merging its output
// over the planner's scaffold.
type CodeGenerator struct {
	llm   LLM
	model string
}

// NewCodeGenerator creates the generator stage.
func NewCodeGenerator(llm LLM, model string) *CodeGenerator {
	return &CodeGenerator{llm: llm, model: model}
}

func (a *CodeGenerator) Name() string { return "code_generator" }

func (a *CodeGenerator) Run(ctx context.Context, st *pipeline.State) (*pipeline.State, error) {
	if st.Spec == nil {
		return nil, fmt.Errorf("generate code: no interpreted spec in state")
	}

	system, err := prompt.Builtin("generator-system.md")
	if err != nil {
		return nil, err
	}
	user, err := prompt.RenderBuiltin("generator-user.md", prompt.Vars{
		"token_name":   st.Spec.Name,
		"token_symbol": st.Spec.Symbol,
		"features":     strings.Join(st.Spec.Features, ", "),
		"file_list":    FileList(st.Files),
	})
	if err != nil {
		return nil, err
	}

	out, err := a.llm.Complete(ctx, a.model, system, user)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	files, err := ExtractFiles(out)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	next := st.Clone()
	for path, content := range files {
		next.Files[path] = content
	}
	next.CurrentStep = pipeline.StepValidate
	return next, nil
}

// FileList formats a files map as a deterministic bulleted path list for
// prompt context.
func FileList(files map[string]string) string {
	if len(files) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, path := range sortedPaths(files) {
		fmt.Fprintf(&b, "- %s\n", path)
	}
	return strings.TrimRight(b.String(), "\n")
}
