package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anchorforge/anchorforge/internal/workspace"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <run-id>",
	Short: "Remove a generated project from the workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runCleanup,
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dir := filepath.Join(cfg.Workspace.Root, args[0])
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "nothing to remove: %s\n", dir)
		return nil
	}

	store, err := workspace.NewStore(dir)
	if err != nil {
		return err
	}
	if err := store.Cleanup(); err != nil {
		return fmt.Errorf("removing %s: %w", dir, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", dir)
	return nil
}
