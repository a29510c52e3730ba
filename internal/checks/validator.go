package checks

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/anchorforge/anchorforge/internal/toolchain"
)

// Result is the outcome of a validation pass. Errors always belong to the
// first failing layer only; Log carries raw toolchain output only when the
// toolchain layer actually ran.
type Result struct {
	Passed bool
	Errors []string
	Log    string
}

// ToolRunner is the slice of the build runner the validator needs.
// Implemented by *toolchain.Runner.
type ToolRunner interface {
	Check(ctx context.Context) toolchain.Result
}

// Validator runs three ordered layers of static checks over an in-memory
// file map: syntax heuristics, structural checks, then a toolchain
// type-check. Each layer short-circuits the ones after it.
type Validator struct {
	tool ToolRunner
	log  *slog.Logger
}

// NewValidator creates a Validator backed by the given toolchain runner.
func NewValidator(tool ToolRunner, log *slog.Logger) *Validator {
	if log == nil {
		log = slog.Default()
	}
	return &Validator{tool: tool, log: log}
}

// Validate runs all layers and returns the first failure.
func (v *Validator) Validate(ctx context.Context, files map[string]string) Result {
	if len(files) == 0 {
		return Result{Errors: []string{"No files to validate"}}
	}

	if errs := checkSyntax(files); len(errs) > 0 {
		v.log.Debug("syntax layer failed", "errors", len(errs))
		return Result{Errors: errs}
	}

	if errs := checkStructure(files); len(errs) > 0 {
		v.log.Debug("structure layer failed", "errors", len(errs))
		return Result{Errors: errs}
	}

	res := v.tool.Check(ctx)
	output := res.Output()
	if !res.Succeeded {
		errs := ParseDiagnostics(output)
		if len(errs) == 0 {
			errs = []string{"cargo check failed with no recognizable diagnostics"}
		}
		v.log.Debug("toolchain layer failed", "errors", len(errs))
		return Result{Errors: errs, Log: output}
	}

	return Result{Passed: true, Log: output}
}

// checkSyntax runs cheap, compiler-free heuristics over each Rust source
// file: independent counters for the three bracket kinds, and the presence of
// a framework import marker. It is line/char-count based, not a real parse,
// so brackets inside string literals can produce false mismatches. A file
// with delimiter errors reports only those; the import check applies to
// files whose delimiters balance. Files that are pure comments are exempt.
func checkSyntax(files map[string]string) []string {
	var errs []string
	for _, path := range sortedKeys(files) {
		if !strings.HasSuffix(path, ".rs") {
			continue
		}
		content := files[path]

		var delimErrs []string
		if strings.Count(content, "{") != strings.Count(content, "}") {
			delimErrs = append(delimErrs, fmt.Sprintf("%s: Mismatched braces", path))
		}
		if strings.Count(content, "(") != strings.Count(content, ")") {
			delimErrs = append(delimErrs, fmt.Sprintf("%s: Mismatched parentheses", path))
		}
		if strings.Count(content, "[") != strings.Count(content, "]") {
			delimErrs = append(delimErrs, fmt.Sprintf("%s: Mismatched brackets", path))
		}
		if len(delimErrs) > 0 {
			errs = append(errs, delimErrs...)
			continue
		}

		if !strings.Contains(content, "use anchor_lang") &&
			!strings.Contains(content, "use solana_program") &&
			!commentOnly(content) {
			errs = append(errs, fmt.Sprintf("%s: Missing anchor_lang or solana_program import", path))
		}
	}
	return errs
}

// checkStructure verifies the required top-level artifacts are present, one
// named error per absence.
func checkStructure(files map[string]string) []string {
	var errs []string
	if !hasFile(files, "Cargo.toml") {
		errs = append(errs, "Missing Cargo.toml manifest")
	}
	if !hasFile(files, "lib.rs") {
		errs = append(errs, "Missing lib.rs entry module")
	}
	if !hasFile(files, "Anchor.toml") {
		errs = append(errs, "Missing Anchor.toml configuration")
	}
	return errs
}

// commentOnly reports whether every non-blank line is a line comment.
func commentOnly(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "//") {
			return false
		}
	}
	return true
}

func hasFile(files map[string]string, name string) bool {
	for path := range files {
		if path == name || strings.HasSuffix(path, "/"+name) {
			return true
		}
	}
	return false
}

func sortedKeys(files map[string]string) []string {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
