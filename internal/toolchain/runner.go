package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"
)

// SBFTarget is the compile target used for check passes.
const SBFTarget = "sbf-solana-solana"

// Compiled programs land under target/deploy as shared objects.
const (
	deployDir   = "target/deploy"
	artifactExt = ".so"
)

// Result classifies a single toolchain invocation. A missing executable or a
// timeout is a failed Result with a synthetic message, never a process fault.
type Result struct {
	Succeeded bool
	Stdout    string
	Stderr    string
}

// Output returns the combined captured output.
func (r Result) Output() string {
	return r.Stdout + r.Stderr
}

// CommandRunner abstracts subprocess execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, dir string, argv []string, timeout time.Duration) Result
}

// ExecRunner implements CommandRunner by executing the command directly.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, argv []string, timeout time.Duration) Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	switch {
	case err == nil:
		res.Succeeded = true
	case ctx.Err() == context.DeadlineExceeded:
		res.Stderr = fmt.Sprintf("command timed out after %s", timeout)
	case errors.Is(err, exec.ErrNotFound):
		res.Stderr = fmt.Sprintf("command not found: %s", argv[0])
	}
	return res
}

// Runner wraps the external build toolchain for a single project directory.
// All invocations run with the project directory as working directory.
type Runner struct {
	cmd        CommandRunner
	projectDir string
	timeout    time.Duration
	log        *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithCommandRunner substitutes the subprocess executor (for testing).
func WithCommandRunner(cmd CommandRunner) Option {
	return func(r *Runner) { r.cmd = cmd }
}

// WithTimeout overrides the per-invocation timeout. Defaults to 5 minutes.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithLogger sets the runner's logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// NewRunner creates a Runner for the given project directory.
func NewRunner(projectDir string, opts ...Option) *Runner {
	r := &Runner{
		cmd:        ExecRunner{},
		projectDir: projectDir,
		timeout:    5 * time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	return r
}

func (r *Runner) run(ctx context.Context, argv ...string) Result {
	start := time.Now()
	res := r.cmd.Run(ctx, r.projectDir, argv, r.timeout)
	r.log.Debug("toolchain invocation",
		"argv", argv, "succeeded", res.Succeeded, "duration", time.Since(start).Round(time.Millisecond))
	return res
}

// Check runs a compile-without-link pass against the SBF target.
func (r *Runner) Check(ctx context.Context) Result {
	return r.run(ctx, "cargo", "check", "--target", SBFTarget)
}

// Fmt formats the project's source files.
func (r *Runner) Fmt(ctx context.Context) Result {
	return r.run(ctx, "cargo", "fmt")
}

// Build runs the full anchor build.
func (r *Runner) Build(ctx context.Context) Result {
	return r.run(ctx, "anchor", "build")
}

// Init scaffolds a fresh Anchor project structure.
func (r *Runner) Init(ctx context.Context, name string) Result {
	return r.run(ctx, "anchor", "init", name, "--no-git")
}

// Artifact returns the first compiled program under target/deploy, if any.
func (r *Runner) Artifact() (string, bool) {
	matches, err := filepath.Glob(filepath.Join(r.projectDir, deployDir, "*"+artifactExt))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// VerifyBuild runs the full build and locates the artifact. The tool's exit
// code is authoritative: a successful build with no discoverable artifact is
// still a success, with an "artifact location unknown" qualifier.
func (r *Runner) VerifyBuild(ctx context.Context) (succeeded bool, log string, artifact string) {
	res := r.Build(ctx)
	if !res.Succeeded {
		return false, res.Output(), ""
	}
	if path, ok := r.Artifact(); ok {
		return true, fmt.Sprintf("Build successful: %s", path), path
	}
	return true, "Build successful (artifact location unknown)", ""
}

// MissingPrerequisites probes for the required build tools and returns the
// names of any that are not installed.
func (r *Runner) MissingPrerequisites() []string {
	var missing []string
	for _, tool := range []string{"cargo", "rustc", "anchor"} {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	return missing
}
