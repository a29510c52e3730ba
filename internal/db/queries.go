package db

import (
	"fmt"
	"time"

	"github.com/anchorforge/anchorforge/internal/pipeline"
)

// Run is one recorded pipeline run.
type Run struct {
	RunID      string
	Project    string
	Status     string
	RetryCount int
	Artifact   string
	Error      string
	CreatedAt  time.Time
}

// Event is one recorded lifecycle notification.
type Event struct {
	RunID     string
	Tag       string
	CreatedAt time.Time
}

// LogEvent records a single lifecycle tag for a run.
func (d *DB) LogEvent(runID, tag string) error {
	_, err := d.conn.Exec(
		`INSERT INTO pipeline_events (run_id, tag) VALUES ($1, $2)`, runID, tag)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}

// LogRun records the terminal outcome of a run.
func (d *DB) LogRun(runID string, st *pipeline.State) error {
	status := "failed"
	if st.CurrentStep == pipeline.StepComplete {
		status = "completed"
	}
	_, err := d.conn.Exec(`
		INSERT INTO pipeline_runs (run_id, project, status, retry_count, artifact, error)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id) DO UPDATE SET
			status = EXCLUDED.status,
			retry_count = EXCLUDED.retry_count,
			artifact = EXCLUDED.artifact,
			error = EXCLUDED.error`,
		runID, st.ProjectName, status, st.RetryCount, st.ArtifactPath, st.ErrorMessage)
	if err != nil {
		return fmt.Errorf("log run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (d *DB) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(`
		SELECT run_id, COALESCE(project, ''), status, retry_count,
		       COALESCE(artifact, ''), COALESCE(error, ''), created_at
		FROM pipeline_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Project, &r.Status, &r.RetryCount,
			&r.Artifact, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunEvents returns the lifecycle trail of a single run in emission order.
func (d *DB) RunEvents(runID string) ([]Event, error) {
	rows, err := d.conn.Query(`
		SELECT run_id, tag, created_at
		FROM pipeline_events WHERE run_id = $1 ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.RunID, &e.Tag, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
