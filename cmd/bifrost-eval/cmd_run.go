package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bifrostlabs/bifrost-eval/internal/execution"
	"github.com/bifrostlabs/bifrost-eval/internal/orchestration"
	"github.com/bifrostlabs/bifrost-eval/internal/reporting"
	"github.com/bifrostlabs/bifrost-eval/internal/suite"
	"github.com/spf13/cobra"
)

var (
	runExecutorType   string
	runModel          string
	runBaseURL        string
	runMaxConcurrency int
	runOutputPath     string
	runJUnitPath      string
	runFormat         string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <suite.yaml>",
		Short: "Run an evaluation suite",
		Long: `Run an evaluation suite from a suite file.

The suite file defines scenarios, the metrics to score them with, and the
grading strategy. Scenarios run concurrently up to --max-concurrency.`,
		Args: cobra.ExactArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().StringVar(&runExecutorType, "executor", "mock", "Executor type: mock, openai")
	cmd.Flags().StringVar(&runModel, "model", "gpt-4o-mini", "Model for the openai executor")
	cmd.Flags().StringVar(&runBaseURL, "base-url", "", "Override the openai API base URL")
	cmd.Flags().IntVar(&runMaxConcurrency, "max-concurrency", 0, "Max scenarios in flight (default: all)")
	cmd.Flags().StringVarP(&runOutputPath, "output", "o", "", "Output JSON file for results (.gz for compressed)")
	cmd.Flags().StringVar(&runJUnitPath, "junit", "", "Output JUnit XML file for CI systems")
	cmd.Flags().StringVar(&runFormat, "format", "text", "Output format: text, json")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	loaded, err := loadSuiteFile(args[0])
	if err != nil {
		return err
	}

	executor, err := buildExecutor(runExecutorType, runModel, runBaseURL)
	if err != nil {
		return err
	}

	runner := orchestration.NewEvalRunner(executor, loaded.Metrics,
		orchestration.WithMaxConcurrency(runMaxConcurrency),
		orchestration.WithScorer(loaded.Scorer),
	)

	result, err := runner.RunSuite(context.Background(), loaded.Suite)
	if err != nil {
		return fmt.Errorf("suite run failed: %w", err)
	}

	switch runFormat {
	case "text":
		reporting.WriteSuiteReport(cmd.OutOrStdout(), result)
	case "json":
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format: %s (supported: text, json)", runFormat)
	}

	if runOutputPath != "" {
		if err := reporting.WriteResultFile(result, runOutputPath); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to: %s\n", runOutputPath)
	}

	if runJUnitPath != "" {
		if err := reporting.WriteJUnitXML(result, runJUnitPath); err != nil {
			return fmt.Errorf("failed to save JUnit report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "JUnit report saved to: %s\n", runJUnitPath)
	}

	if failed := result.FailedCount(); failed > 0 {
		return &ScenarioFailureError{
			Message: fmt.Sprintf("suite completed with %d of %d scenario(s) failed",
				failed, len(result.ScenarioResults)),
		}
	}

	return nil
}

// buildExecutor constructs the pipeline executor named by executorType.
// The openai executor reads its key from the OPENAI_API_KEY environment
// variable so credentials never appear on the command line.
func buildExecutor(executorType, model, baseURL string) (execution.PipelineExecutor, error) {
	switch executorType {
	case "mock":
		return execution.NewMockExecutor(), nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		var opts []execution.OpenAIOption
		if baseURL != "" {
			opts = append(opts, execution.WithBaseURL(baseURL))
		}
		return execution.NewOpenAIExecutor(apiKey, model, opts...), nil
	default:
		return nil, fmt.Errorf("unknown executor type: %s (supported: mock, openai)", executorType)
	}
}

func loadSuiteFile(path string) (*suite.LoadResult, error) {
	loaded, err := suite.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load suite: %w", err)
	}
	return loaded, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
