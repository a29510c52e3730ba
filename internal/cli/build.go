package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anchorforge/anchorforge/internal/toolchain"
)

var buildCmd = &cobra.Command{
	Use:   "build <dir>",
	Short: "Build an existing project directory with anchor",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd)

	tool := toolchain.NewRunner(args[0],
		toolchain.WithTimeout(cfg.BuildTimeout()),
		toolchain.WithLogger(log))
	if missing := tool.MissingPrerequisites(); len(missing) > 0 {
		for _, m := range missing {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s not found in PATH\n", m)
		}
	}

	succeeded, buildLog, artifact := tool.VerifyBuild(cmd.Context())
	if !succeeded {
		fmt.Fprintln(cmd.OutOrStdout(), buildLog)
		return fmt.Errorf("build failed")
	}
	if artifact != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Artifact: %s\n", artifact)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Build succeeded (artifact location unknown)")
	}
	return nil
}
