package main

import (
	"os"

	"github.com/spf13/cobra"

	"srcsh/internal/lint"
)

func newLintCmd() *cobra.Command {
	var rulePacks []string
	var format string
	cmd := &cobra.Command{
		Use:   "lint <script.sh>",
		Short: "Report rule-table findings against an already-rendered shell script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range rulePacks {
				if err := loadAndRegisterPack(p); err != nil {
					return codedError{exitUsage, err}
				}
			}
			script, err := os.ReadFile(args[0])
			if err != nil {
				return codedError{exitUsage, err}
			}
			fm, err := parseFormat(format)
			if err != nil {
				return codedError{exitUsage, err}
			}
			diags := lint.Lint(script)
			renderDiagnostics(os.Stderr, args[0], string(script), diags, fm)
			lastExitCode = exitCodeFor(diags)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&rulePacks, "rule-pack", nil, "path to a YAML rule pack to load before linting")
	cmd.Flags().StringVar(&format, "format", "text", "diagnostic output format: text|json|sarif")
	return cmd
}
