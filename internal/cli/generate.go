package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anchorforge/anchorforge/internal/agent"
	"github.com/anchorforge/anchorforge/internal/checks"
	"github.com/anchorforge/anchorforge/internal/db"
	"github.com/anchorforge/anchorforge/internal/pipeline"
	"github.com/anchorforge/anchorforge/internal/stage"
	"github.com/anchorforge/anchorforge/internal/toolchain"
	"github.com/anchorforge/anchorforge/internal/workspace"
)

var generateCmd = &cobra.Command{
	Use:   "generate [specification]",
	Short: "Generate an Anchor program from a natural-language specification",
	Long: `Runs the full pipeline: interpret the specification, plan the project
layout, generate the Rust sources, validate them, and build with anchor.
Validation failures are routed through the LLM debugger up to the configured
retry limit.

The specification is taken from the arguments, or from --file.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("file", "", "Read the specification from a file instead of arguments")
	generateCmd.Flags().Bool("json", false, "Print the final pipeline state as JSON")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	specText, err := specFromArgs(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd)

	llm, err := agent.NewOpenAIClient(cfg.LLM, log)
	if err != nil {
		return err
	}

	runID := fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
	store, err := workspace.NewStore(filepath.Join(cfg.Workspace.Root, runID))
	if err != nil {
		return fmt.Errorf("creating workspace: %w", err)
	}

	tool := toolchain.NewRunner(store.Root(),
		toolchain.WithTimeout(cfg.BuildTimeout()),
		toolchain.WithLogger(log))
	if missing := tool.MissingPrerequisites(); len(missing) > 0 {
		log.Warn("toolchain prerequisites missing", "tools", strings.Join(missing, ", "))
	}

	var database *db.DB
	if cfg.Events.DSN != "" {
		database, err = db.Open(cfg.Events.DSN)
		if err != nil {
			return fmt.Errorf("opening event log: %w", err)
		}
		defer database.Close()
		if err := database.Migrate(); err != nil {
			return fmt.Errorf("migrating event log: %w", err)
		}
	}

	sink := func(tag string) {
		log.Debug("pipeline event", "tag", tag)
		if database != nil {
			if err := database.LogEvent(runID, tag); err != nil {
				log.Debug("event log write failed", "err", err)
			}
		}
	}

	engine := stage.NewEngine(store, checks.NewValidator(tool, log), tool,
		agent.Stages(llm, cfg.Models),
		stage.WithEvents(sink),
		stage.WithMaxRetries(cfg.Pipeline.MaxRetries),
		stage.WithLogger(log))

	st := engine.Run(cmd.Context(), specText)

	if database != nil {
		if err := database.LogRun(runID, st); err != nil {
			log.Warn("run log write failed", "err", err)
		}
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(st); err != nil {
			return err
		}
	} else {
		printOutcome(cmd, runID, store.Root(), st)
	}

	if st.CurrentStep != pipeline.StepComplete {
		return fmt.Errorf("pipeline failed: %s", st.ErrorMessage)
	}
	return nil
}

func specFromArgs(cmd *cobra.Command, args []string) (string, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading specification: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	specText := strings.TrimSpace(strings.Join(args, " "))
	if specText == "" {
		return "", fmt.Errorf("no specification given: pass it as arguments or via --file")
	}
	return specText, nil
}

func printOutcome(cmd *cobra.Command, runID, dir string, st *pipeline.State) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:      %s\n", runID)
	fmt.Fprintf(out, "Project:  %s\n", st.ProjectName)
	fmt.Fprintf(out, "Files:    %d\n", len(st.Files))
	fmt.Fprintf(out, "Dir:      %s\n", dir)
	if st.CurrentStep == pipeline.StepComplete {
		fmt.Fprintf(out, "Status:   completed (retries: %d)\n", st.RetryCount)
		if st.ArtifactPath != "" {
			fmt.Fprintf(out, "Artifact: %s\n", st.ArtifactPath)
		}
		return
	}
	fmt.Fprintf(out, "Status:   failed (retries: %d)\n", st.RetryCount)
	for _, e := range st.ValidationErrors {
		fmt.Fprintf(out, "  - %s\n", e)
	}
}
