package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"parsesmith/internal/agent"
	"parsesmith/internal/codegen"
	"parsesmith/internal/config"
	"parsesmith/internal/fixtures"
	"parsesmith/internal/llm"
	"parsesmith/internal/logging"
	"parsesmith/internal/regression"
	"parsesmith/internal/sandbox"
	"parsesmith/internal/table"
)

// generateCmd runs the full attempt loop for one target.
var generateCmd = &cobra.Command{
	Use:   "generate [target]",
	Short: "Generate and verify a parser module for a target bank",
	Long: `Runs the generate-execute-verify-retry loop for a target:
  1. Resolve the fixture pair under data/<target>/
  2. Ask the LLM for a parser module satisfying the expected columns
  3. Load the candidate in a fresh interpreter and run it on the sample
  4. Compare the produced table with the expected one, cell for cell
  5. On mismatch, retry with the diagnostic as feedback (3 attempts max)

On success the regression battery is executed and its exit codes are
reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	target := strings.ToLower(strings.TrimSpace(args[0]))
	if target == "" {
		return fmt.Errorf("target must not be empty")
	}

	workspace, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(workspace)
	if err != nil {
		return err
	}
	// Credential check comes first: fatal before any fixture lookup.
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogPath, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	fixture, err := fixtures.Locate(cfg.DataDir, target)
	if err != nil {
		return err
	}

	columns, err := table.ReadHeader(fixture.TablePath)
	if err != nil {
		return fmt.Errorf("failed to read expected schema from %s: %w", fixture.TablePath, err)
	}

	fmt.Printf("Starting agent for target: %s\n", target)
	fmt.Printf("Expected columns: %v\n", columns)

	client := llm.NewGroqClient(llm.GroqConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout(),
	}, logger)
	gen := codegen.NewGenerator(client, cfg.ParsersDir, logger)
	loop := agent.New(gen, sandbox.NewLoader(), fixture, columns, cfg.MaxAttempts, logger)

	outcome := loop.Run(cmd.Context())
	for _, att := range outcome.Attempts {
		fmt.Printf("\nAttempt %d/%d\n%s\n", att.Number, cfg.MaxAttempts, att.Diagnostic)
	}

	if outcome.State != agent.StateSuccess {
		// Exhausted is a clean exit, distinguishable from fatal aborts.
		fmt.Printf("\nFailed after %d attempts. Check %s for details.\n", len(outcome.Attempts), cfg.LogPath)
		return nil
	}

	fmt.Printf("\nSuccess! Parser generated: %s\n", outcome.ModulePath)
	runRegression(cmd.Context(), cfg, workspace)
	return nil
}

// runRegression executes the post-success battery. Its results are
// reported but do not alter the already-determined loop outcome.
func runRegression(ctx context.Context, cfg config.Config, workspace string) {
	battery := regression.DefaultBattery()
	if cfg.BatteryPath != "" {
		b, err := regression.LoadBattery(cfg.BatteryPath)
		if err != nil {
			fmt.Printf("Could not load battery %s: %v (using default)\n", cfg.BatteryPath, err)
		} else {
			battery = b
		}
	}

	fmt.Println("Running regression battery...")
	for _, res := range regression.Run(ctx, battery, workspace) {
		status := "ok"
		if !res.Success {
			status = "failed"
		}
		fmt.Printf("  %s: %s (exit %d, %dms)\n", res.TaskID, status, res.ExitCode, res.DurationMs)
	}
}
