package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bifrostlabs/bifrost-eval/internal/suite"
	"github.com/bifrostlabs/bifrost-eval/internal/wizard"
	"github.com/spf13/cobra"
)

func newNewCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new suite file interactively",
		Long: `Create a new evaluation suite through a guided wizard.

The wizard collects the suite name, a first scenario, and a grading
strategy, then writes a ready-to-run suite YAML file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return newCommandE(cmd, name, outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Path for the suite file (default: <name>.yaml)")

	return cmd
}

func newCommandE(cmd *cobra.Command, initialName, outPath string) error {
	spec, err := wizard.RunSuiteWizard(cmd.InOrStdin(), cmd.OutOrStdout(), initialName)
	if err != nil {
		return err
	}

	content, err := wizard.GenerateSuiteYAML(spec)
	if err != nil {
		return fmt.Errorf("failed to generate suite file: %w", err)
	}

	// The wizard should only ever emit loadable suites.
	if _, err := suite.LoadBytes([]byte(content)); err != nil {
		return fmt.Errorf("generated suite is invalid: %w", err)
	}

	if outPath == "" {
		outPath = spec.Name + ".yaml"
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write suite file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", outPath)
	return nil
}
