package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anchorforge/anchorforge/internal/checks"
	"github.com/anchorforge/anchorforge/internal/toolchain"
	"github.com/anchorforge/anchorforge/internal/workspace"
)

var checkCmd = &cobra.Command{
	Use:   "check <dir>",
	Short: "Validate an existing project directory",
	Long: `Runs the layered validator against a project directory: syntax heuristics,
required-file checks, then cargo check against the SBF target.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd)

	store, err := workspace.NewStore(args[0])
	if err != nil {
		return err
	}
	files, err := store.ReadAll()
	if err != nil {
		return fmt.Errorf("reading project files: %w", err)
	}

	tool := toolchain.NewRunner(store.Root(),
		toolchain.WithTimeout(cfg.BuildTimeout()),
		toolchain.WithLogger(log))
	res := checks.NewValidator(tool, log).Validate(cmd.Context(), files)

	out := cmd.OutOrStdout()
	if res.Passed {
		fmt.Fprintf(out, "OK: %d file(s) validated\n", len(files))
		return nil
	}
	for _, e := range res.Errors {
		fmt.Fprintf(out, "  - %s\n", e)
	}
	return fmt.Errorf("validation failed with %d error(s)", len(res.Errors))
}
