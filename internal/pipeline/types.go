package pipeline

// Step identifies which part of the generation pipeline runs next.
type Step string

const (
	StepInterpret Step = "spec_interpreter"
	StepPlan      Step = "project_planner"
	StepGenerate  Step = "code_generator"
	StepValidate  Step = "static_validator"
	StepRepair    Step = "debugger"
	StepBuild     Step = "build"
	StepComplete  Step = "complete"
	StepFailed    Step = "failed"
)

// Terminal reports whether the step is a sink state. No step is reachable
// from a terminal step.
func (s Step) Terminal() bool {
	return s == StepComplete || s == StepFailed
}

// Supported contract features.
const (
	FeatureMintable      = "mintable"
	FeatureBurnable      = "burnable"
	FeatureTransferable  = "transferable"
	FeatureFreezable     = "freezable"
	FeatureRevokable     = "revokable"
	FeaturePausable      = "pausable"
	FeatureCapped        = "capped"
	FeatureOwnable       = "ownable"
	FeatureAccessControl = "access_control"
	FeatureInitialSupply = "initial_supply"
)

// TokenSpec is the structured contract specification produced by the
// interpreter stage from the raw natural-language input.
type TokenSpec struct {
	Name          string   `json:"name"`
	Symbol        string   `json:"symbol"`
	Description   string   `json:"description,omitempty"`
	Decimals      int      `json:"decimals"`
	Features      []string `json:"features"`
	InitialSupply *uint64  `json:"initial_supply"`
}

// State is the single record threaded through every stage of a generation
// run. It is created once per run, owned exclusively by the engine, and
// discarded after a terminal step is reached.
type State struct {
	// Specification is the raw input text. Immutable after creation.
	Specification string `json:"specification"`

	// ProjectName is the slugged human-readable name, set once by the
	// interpreter stage.
	ProjectName string `json:"project_name,omitempty"`

	// Spec is the structured interpretation of the specification.
	Spec *TokenSpec `json:"spec,omitempty"`

	// Files maps relative paths to full textual content. The single source
	// of truth for what the current attempt produced.
	Files map[string]string `json:"files,omitempty"`

	// CurrentStep drives routing.
	CurrentStep Step `json:"current_step"`

	// Results of the most recent validation/build attempt. Overwritten each
	// attempt, never accumulated.
	ValidationPassed bool     `json:"validation_passed"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
	BuildSucceeded   bool     `json:"build_succeeded"`
	BuildLog         string   `json:"build_log,omitempty"`
	ArtifactPath     string   `json:"artifact_path,omitempty"`

	// RepairAttempted is set the first time the repair stage runs.
	RepairAttempted bool `json:"repair_attempted"`

	// RetryCount is incremented only on entry to the repair stage and is
	// bounded by the engine's retry budget.
	RetryCount int `json:"retry_count"`

	// ErrorMessage is the last fatal error description. Cleared by a
	// successful repair.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewState creates a fresh run state positioned at the first stage.
func NewState(specification string) *State {
	return &State{
		Specification: specification,
		Files:         make(map[string]string),
		CurrentStep:   StepInterpret,
	}
}

// Clone returns a copy safe for mutation by the next stage. Files and
// ValidationErrors are deep-copied; the spec record is shared (stages treat
// it as immutable once set).
func (s *State) Clone() *State {
	next := *s
	next.Files = make(map[string]string, len(s.Files))
	for k, v := range s.Files {
		next.Files[k] = v
	}
	if s.ValidationErrors != nil {
		next.ValidationErrors = append([]string(nil), s.ValidationErrors...)
	}
	return &next
}
