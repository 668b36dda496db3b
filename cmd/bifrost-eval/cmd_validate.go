package main

import (
	"fmt"
	"os"

	"github.com/bifrostlabs/bifrost-eval/internal/suite"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <suite.yaml>",
		Short: "Validate a suite file without running it",
		Long: `Validate a suite file against the suite schema and construction
rules, reporting every problem found rather than stopping at the first.`,
		Args: cobra.ExactArgs(1),
		RunE: validateCommandE,
	}
}

func validateCommandE(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading suite file: %w", err)
	}

	if errs := suite.ValidateBytes(data); len(errs) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d problem(s) found\n", path, len(errs))
		for _, e := range errs {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", e)
		}
		return fmt.Errorf("suite file is invalid")
	}

	// Schema-valid documents can still fail construction, for example over
	// duplicate scenario names or bad metric parameters.
	if _, err := suite.LoadBytes(data); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", path)
	return nil
}
