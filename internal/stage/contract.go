package stage

import (
	"context"

	"github.com/anchorforge/anchorforge/internal/checks"
	"github.com/anchorforge/anchorforge/internal/pipeline"
	"github.com/anchorforge/anchorforge/internal/toolchain"
)

// Stage is the contract every pipeline stage implements: consume the run
// state, produce an updated state. A returned error is a stage failure and
// is always fatal; soft routing decisions are expressed through the returned
// state's CurrentStep.
type Stage interface {
	Name() string
	Run(ctx context.Context, st *pipeline.State) (*pipeline.State, error)
}

// Validator is the slice of the static validator the engine needs.
// Implemented by *checks.Validator.
type Validator interface {
	Validate(ctx context.Context, files map[string]string) checks.Result
}

// Builder is the slice of the build runner the engine needs.
// Implemented by *toolchain.Runner.
type Builder interface {
	Fmt(ctx context.Context) toolchain.Result
	VerifyBuild(ctx context.Context) (succeeded bool, log string, artifact string)
}

// FileStore is the slice of the workspace store the engine needs.
// Implemented by *workspace.Store.
type FileStore interface {
	Root() string
	WriteAll(files map[string]string) error
	ApplyPatch(patches map[string]string) error
}

// EventFunc receives fire-and-forget lifecycle notifications as string tags
// ("stage:<name>:start", "validation:failed", "build:success",
// "file:written:<path>", ...). Delivery is best-effort: the engine swallows
// panics and never branches on the sink.
type EventFunc func(tag string)
