package checks

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseDiagnosticsShapes(t *testing.T) {
	output := `   Compiling demo v0.1.0
error[E0433]: failed to resolve: use of undeclared crate or module ` + "`anchor_spl`" + `
  --> programs/demo/src/lib.rs:3:5
error: aborting due to 1 previous error
warning: unused import: ` + "`std::mem`" + `
For more information about this error, try ` + "`rustc --explain E0433`" + `.
`
	got := ParseDiagnostics(output)
	want := []string{
		"error[E0433]: failed to resolve: use of undeclared crate or module `anchor_spl`",
		"--> programs/demo/src/lib.rs:3:5",
		"error: aborting due to 1 previous error",
	}
	if len(got) != len(want) {
		t.Fatalf("ParseDiagnostics = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseDiagnosticsTrimsLines(t *testing.T) {
	got := ParseDiagnostics("    error[E0433]: failed to resolve   \n")
	if len(got) != 1 {
		t.Fatalf("ParseDiagnostics = %v, want 1 entry", got)
	}
	if got[0] != "error[E0433]: failed to resolve" {
		t.Errorf("entry = %q, want trimmed line", got[0])
	}
}

func TestParseDiagnosticsCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, "error: problem number %d\n", i)
	}
	got := ParseDiagnostics(sb.String())
	if len(got) != maxDiagnostics {
		t.Errorf("len = %d, want %d", len(got), maxDiagnostics)
	}
	if got[0] != "error: problem number 0" {
		t.Errorf("first entry = %q", got[0])
	}
}

func TestParseDiagnosticsNoMatches(t *testing.T) {
	got := ParseDiagnostics("   Compiling demo v0.1.0\n    Finished dev profile\n")
	if len(got) != 0 {
		t.Errorf("ParseDiagnostics = %v, want none", got)
	}
}
