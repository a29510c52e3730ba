package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/anchorforge/anchorforge/internal/pipeline"
	"github.com/anchorforge/anchorforge/internal/prompt"
)

// Debugger is the repair stage: it turns validation errors into full-content
// patches. A response with no usable patches routes the run straight to
// terminal failure; repair failures are not themselves retried.
type Debugger struct {
	llm   LLM
	model string
}

// NewDebugger creates the repair stage.
func NewDebugger(llm LLM, model string) *Debugger {
	return &Debugger{llm: llm, model: model}
}

func (a *Debugger) Name() string { return "debugger" }

func (a *Debugger) Run(ctx context.Context, st *pipeline.State) (*pipeline.State, error) {
	system, err := prompt.Builtin("debugger-system.md")
	if err != nil {
		return nil, err
	}
	user, err := prompt.RenderBuiltin("debugger-user.md", prompt.Vars{
		"errors":    formatErrors(st),
		"build_log": st.BuildLog,
		"file_list": FileList(st.Files),
	})
	if err != nil {
		return nil, err
	}

	out, err := a.llm.Complete(ctx, a.model, system, user)
	if err != nil {
		return nil, fmt.Errorf("repair: %w", err)
	}

	patches, err := ExtractPatches(out)
	if err != nil {
		return nil, fmt.Errorf("repair: %w", err)
	}

	next := st.Clone()
	if len(patches) == 0 {
		next.CurrentStep = pipeline.StepFailed
		next.ErrorMessage = "repair produced no usable patches"
		return next, nil
	}

	for _, p := range patches {
		next.Files[p.Path] = p.Content
	}
	next.ErrorMessage = ""
	next.CurrentStep = pipeline.StepValidate
	return next, nil
}

func formatErrors(st *pipeline.State) string {
	var parts []string
	if len(st.ValidationErrors) > 0 {
		parts = append(parts, "Validation errors:\n"+strings.Join(st.ValidationErrors, "\n"))
	}
	if st.ErrorMessage != "" {
		parts = append(parts, "Error: "+st.ErrorMessage)
	}
	if len(parts) == 0 {
		return "Unknown error - no error information available"
	}
	return strings.Join(parts, "\n\n")
}

func sortedPaths(files map[string]string) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
