package db

import (
	"os"
	"testing"

	"github.com/anchorforge/anchorforge/internal/pipeline"
)

// testDB connects to the Postgres instance named by ANCHORFORGE_TEST_DSN.
// Tests are skipped when it is unset.
func testDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("ANCHORFORGE_TEST_DSN")
	if dsn == "" {
		t.Skip("ANCHORFORGE_TEST_DSN not set")
	}
	d, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := d.Migrate(); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestMigrateIdempotent(t *testing.T) {
	d := testDB(t)
	if err := d.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestLogRunAndEvents(t *testing.T) {
	d := testDB(t)

	runID := "test-run-20260831"
	st := pipeline.NewState("a token")
	st.ProjectName = "demo_token"
	st.CurrentStep = pipeline.StepComplete
	st.RetryCount = 1
	st.ArtifactPath = "/tmp/demo.so"

	if err := d.LogRun(runID, st); err != nil {
		t.Fatalf("LogRun: %v", err)
	}
	for _, tag := range []string{"validation:start", "validation:success", "build:success"} {
		if err := d.LogEvent(runID, tag); err != nil {
			t.Fatalf("LogEvent(%s): %v", tag, err)
		}
	}

	runs, err := d.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	found := false
	for _, r := range runs {
		if r.RunID == runID {
			found = true
			if r.Status != "completed" || r.RetryCount != 1 {
				t.Errorf("run = %+v", r)
			}
		}
	}
	if !found {
		t.Errorf("run %s not in RecentRuns", runID)
	}

	events, err := d.RunEvents(runID)
	if err != nil {
		t.Fatalf("RunEvents: %v", err)
	}
	if len(events) < 3 {
		t.Errorf("RunEvents returned %d events, want at least 3", len(events))
	}

	// Re-logging the same run updates in place.
	st.CurrentStep = pipeline.StepFailed
	st.ErrorMessage = "build failed"
	if err := d.LogRun(runID, st); err != nil {
		t.Fatalf("LogRun upsert: %v", err)
	}
}
