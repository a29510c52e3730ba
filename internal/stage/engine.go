package stage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/anchorforge/anchorforge/internal/pipeline"
)

// Engine drives the generation pipeline: it routes the run state through the
// registered stages, persists and validates produced files, enforces the
// retry bound on the repair loop, and determines the terminal outcome.
type Engine struct {
	stages     map[pipeline.Step]Stage
	store      FileStore
	validator  Validator
	builder    Builder
	events     EventFunc
	maxRetries int
	log        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvents installs a lifecycle sink.
func WithEvents(fn EventFunc) Option {
	return func(e *Engine) { e.events = fn }
}

// WithMaxRetries sets the repair-loop budget. Defaults to 1.
func WithMaxRetries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRetries = n
		}
	}
}

// WithLogger sets the engine's logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates an engine over the given collaborators. stages maps each
// non-terminal routing step to its implementation; validation and build are
// driven by the engine itself.
func NewEngine(store FileStore, validator Validator, builder Builder, stages map[pipeline.Step]Stage, opts ...Option) *Engine {
	e := &Engine{
		stages:     stages,
		store:      store,
		validator:  validator,
		builder:    builder,
		maxRetries: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// Run executes one generation attempt end to end and returns the terminal
// state. The returned state always carries either an artifact reference or a
// non-empty error/validation trail.
func (e *Engine) Run(ctx context.Context, specification string) *pipeline.State {
	st := pipeline.NewState(specification)

	for !st.CurrentStep.Terminal() {
		if err := ctx.Err(); err != nil {
			st = e.fail(st, fmt.Sprintf("run cancelled: %v", err))
			break
		}

		switch st.CurrentStep {
		case pipeline.StepValidate:
			st = e.runValidation(ctx, st)
		case pipeline.StepBuild:
			st = e.runBuild(ctx, st)
		default:
			st = e.runStage(ctx, st)
		}
	}

	e.log.Info("pipeline finished",
		"step", st.CurrentStep, "project", st.ProjectName,
		"retries", st.RetryCount, "artifact", st.ArtifactPath)
	return st
}

// runStage invokes the registered stage for the current step and applies the
// engine-side routing rules around it.
func (e *Engine) runStage(ctx context.Context, st *pipeline.State) *pipeline.State {
	step := st.CurrentStep
	stg, ok := e.stages[step]
	if !ok {
		return e.fail(st, fmt.Sprintf("no stage registered for step %q", step))
	}

	// The retry counter increments only on entry to the repair stage.
	if step == pipeline.StepRepair {
		st = st.Clone()
		st.RetryCount++
		st.RepairAttempted = true
	}

	e.emit("stage:" + stg.Name() + ":start")
	e.log.Debug("running stage", "stage", stg.Name())
	next, err := stg.Run(ctx, st)
	e.emit("stage:" + stg.Name() + ":end")

	if err != nil {
		// Stage-level failures are fatal; only validation and build
		// failures are repairable.
		e.log.Error("stage failed", "stage", stg.Name(), "error", err)
		return e.fail(st, err.Error())
	}

	if next.ErrorMessage != "" && step != pipeline.StepRepair {
		return e.fail(next, next.ErrorMessage)
	}

	switch step {
	case pipeline.StepGenerate:
		if len(next.Files) == 0 {
			return e.fail(next, "code generation produced no files")
		}
	case pipeline.StepRepair:
		// Repair never self-validates.
		if !next.CurrentStep.Terminal() {
			next = next.Clone()
			next.CurrentStep = pipeline.StepValidate
		}
	}
	return next
}

// runValidation persists the current files and runs the static validator,
// then branches to build, repair, or terminal failure.
func (e *Engine) runValidation(ctx context.Context, st *pipeline.State) *pipeline.State {
	e.emit("validation:start")
	st = st.Clone()

	persist := e.store.WriteAll
	if st.RepairAttempted {
		persist = e.store.ApplyPatch
	}
	if err := persist(st.Files); err != nil {
		e.emit("validation:failed")
		return e.fail(st, fmt.Sprintf("persist files: %v", err))
	}
	for _, path := range sortedFilePaths(st.Files) {
		e.emit("file:written:" + path)
	}

	res := e.validator.Validate(ctx, st.Files)
	st.ValidationPassed = res.Passed
	st.ValidationErrors = res.Errors
	st.BuildLog = res.Log

	if res.Passed {
		e.emit("validation:success")
		st.CurrentStep = pipeline.StepBuild
		return st
	}

	e.emit("validation:failed")
	e.log.Debug("validation failed", "errors", len(res.Errors), "retries", st.RetryCount)
	if st.RetryCount < e.maxRetries {
		st.CurrentStep = pipeline.StepRepair
		return st
	}
	return e.fail(st, fmt.Sprintf("validation failed after %d repair attempt(s)", st.RetryCount))
}

// runBuild runs the full toolchain build and settles the terminal outcome.
// Build failures are terminal; they are never routed back to repair.
func (e *Engine) runBuild(ctx context.Context, st *pipeline.State) *pipeline.State {
	e.emit("build:start")
	st = st.Clone()

	if res := e.builder.Fmt(ctx); !res.Succeeded {
		// Formatting is cosmetic; a failure never blocks the build.
		e.log.Debug("cargo fmt failed", "output", res.Output())
	}

	ok, buildLog, artifact := e.builder.VerifyBuild(ctx)
	st.BuildSucceeded = ok
	st.BuildLog = buildLog
	st.ArtifactPath = artifact

	if ok {
		e.emit("build:success")
		st.CurrentStep = pipeline.StepComplete
		return st
	}
	e.emit("build:failed")
	return e.fail(st, "build failed")
}

func (e *Engine) fail(st *pipeline.State, msg string) *pipeline.State {
	next := st.Clone()
	next.CurrentStep = pipeline.StepFailed
	if msg != "" {
		next.ErrorMessage = msg
	}
	return next
}

// emit delivers a lifecycle tag to the sink. Delivery is best-effort: a
// panicking sink never fails the run.
func (e *Engine) emit(tag string) {
	if e.events == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Debug("event sink panicked", "tag", tag, "panic", r)
		}
	}()
	e.events(tag)
}

func sortedFilePaths(files map[string]string) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
