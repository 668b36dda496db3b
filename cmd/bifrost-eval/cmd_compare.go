package main

import (
	"context"
	"fmt"

	"github.com/bifrostlabs/bifrost-eval/internal/execution"
	"github.com/bifrostlabs/bifrost-eval/internal/orchestration"
	"github.com/bifrostlabs/bifrost-eval/internal/reporting"
	"github.com/spf13/cobra"
)

var (
	compareExecutorType   string
	compareModels         []string
	compareBaseURL        string
	compareMaxConcurrency int
	compareOutputPath     string
	compareFormat         string
)

func newCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <suite.yaml>",
		Short: "Compare pipeline variants on the same suite",
		Long: `Compare two or more pipeline variants by running the same suite
against each of them and ranking them by mean weighted score.

Ties are broken by pass rate, then total cost. Each --model flag names one
variant; with --executor mock the names label independent mock executors.`,
		Args: cobra.ExactArgs(1),
		RunE: compareCommandE,
	}

	cmd.Flags().StringVar(&compareExecutorType, "executor", "openai", "Executor type: mock, openai")
	cmd.Flags().StringArrayVar(&compareModels, "model", nil, "Variant to compare (repeat for each variant)")
	cmd.Flags().StringVar(&compareBaseURL, "base-url", "", "Override the openai API base URL")
	cmd.Flags().IntVar(&compareMaxConcurrency, "max-concurrency", 0, "Max scenarios in flight per variant (default: all)")
	cmd.Flags().StringVarP(&compareOutputPath, "output", "o", "", "Output JSON file for results (.gz for compressed)")
	cmd.Flags().StringVar(&compareFormat, "format", "text", "Output format: text, json")

	return cmd
}

func compareCommandE(cmd *cobra.Command, args []string) error {
	if len(compareModels) < 2 {
		return fmt.Errorf("compare requires at least two --model flags, got %d", len(compareModels))
	}

	loaded, err := loadSuiteFile(args[0])
	if err != nil {
		return err
	}

	executors := make(map[string]execution.PipelineExecutor, len(compareModels))
	for _, model := range compareModels {
		if _, ok := executors[model]; ok {
			return fmt.Errorf("duplicate --model %q", model)
		}
		executor, err := buildExecutor(compareExecutorType, model, compareBaseURL)
		if err != nil {
			return err
		}
		executors[model] = executor
	}

	runner := orchestration.NewComparisonRunner(loaded.Metrics,
		orchestration.WithComparisonScorer(loaded.Scorer),
		orchestration.WithRunConcurrency(compareMaxConcurrency),
	)

	result, err := runner.Compare(context.Background(), loaded.Suite, executors)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	switch compareFormat {
	case "text":
		reporting.WriteComparisonReport(cmd.OutOrStdout(), result)
	case "json":
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format: %s (supported: text, json)", compareFormat)
	}

	if compareOutputPath != "" {
		if err := reporting.WriteResultFile(result, compareOutputPath); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to: %s\n", compareOutputPath)
	}

	if len(result.Failed) == len(executors) {
		return fmt.Errorf("no executor completed its run")
	}

	return nil
}
