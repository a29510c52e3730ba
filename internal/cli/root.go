package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/anchorforge/anchorforge/internal/config"
	"github.com/anchorforge/anchorforge/internal/logging"
)

var version = "dev"

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "anchorforge",
	Short: "anchorforge — generate Anchor programs from natural-language specs",
	Long: `anchorforge turns a natural-language token specification into a buildable
Solana/Anchor program through an iterative generate → validate → repair
pipeline backed by LLM stages and the cargo/anchor toolchain.

Generated projects live under the configured workspace root
(~/.anchorforge/projects by default).`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config YAML (default: ./anchorforge.yaml, ~/.anchorforge/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the configuration for a command invocation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// newLogger builds the command logger honoring --verbose.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return logging.New(level)
}
