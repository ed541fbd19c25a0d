package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"floe/internal/diag"
	"floe/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path...]",
	Short: "Index Python sources and report name-binding diagnostics",
	Long:  `Check parses and indexes the given files or directories and reports undefined, possibly unbound, and unbound local names.`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("no-warnings", false, "suppress warnings")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
}

func runCheck(cmd *cobra.Command, args []string) error {
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}

	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	fileSet, results, err := driver.IndexPaths(cmd.Context(), args, opts)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	exit := 0
	colored := useColor(cmd)
	for _, r := range results {
		for _, d := range r.Bag.Items() {
			switch {
			case d.Severity >= diag.SevError:
				exit = 1
			case d.Severity == diag.SevWarning:
				if noWarnings {
					continue
				}
				if warningsAsErrors {
					exit = 1
				}
			}
			writeDiagnostic(os.Stdout, fileSet, r.Path, d, colored)
		}
	}

	if exit != 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // diagnostics already printed
	}
	return nil
}
