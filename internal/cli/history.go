package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anchorforge/anchorforge/internal/db"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recent pipeline runs from the event log",
	Long: `Lists recent runs recorded in the Postgres event log, or the lifecycle
events of a single run when a run id is given. Requires events.dsn in the
config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Events.DSN == "" {
		return fmt.Errorf("no event log configured: set events.dsn in the config")
	}

	database, err := db.Open(cfg.Events.DSN)
	if err != nil {
		return fmt.Errorf("opening event log: %w", err)
	}
	defer database.Close()
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("migrating event log: %w", err)
	}

	out := cmd.OutOrStdout()

	if len(args) == 1 {
		events, err := database.RunEvents(args[0])
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintf(out, "no events for run %s\n", args[0])
			return nil
		}
		for _, ev := range events {
			fmt.Fprintf(out, "%s  %s\n", ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.Tag)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := database.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}
	for _, r := range runs {
		line := fmt.Sprintf("%s  %-24s %-10s retries=%d",
			r.CreatedAt.Format("2006-01-02 15:04"), r.RunID, r.Status, r.RetryCount)
		if r.Project != "" {
			line += "  " + r.Project
		}
		if r.Error != "" {
			line += "  (" + r.Error + ")"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
