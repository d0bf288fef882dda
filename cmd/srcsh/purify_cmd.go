package main

import (
	"os"

	"github.com/spf13/cobra"

	"srcsh/internal/config"
	"srcsh/internal/diag"
	"srcsh/internal/lint"
)

func newPurifyCmd() *cobra.Command {
	var rulePacks []string
	var unsafeFixes []string
	var maxFixIterations int
	var outPath string
	var format string

	cmd := &cobra.Command{
		Use:   "purify <script.sh>",
		Short: "Rewrite a shell script to a rule-table fixpoint, bounded and reported",
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

			cfg := config.Default()
			cfg.MaxFixIterations = maxFixIterations
			cfg.UnsafeFixes = unsafeFixes

			fixed, diags, err := lint.Purify(script, cfg)
			renderDiagnostics(os.Stderr, args[0], string(script), diags, fm)
			if err != nil {
				code := exitErrors
				for _, d := range diags {
					if d.Code == diag.CodePurifyOverflow {
						code = exitBug
					}
				}
				return codedError{code, err}
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return codedError{exitUsage, err}
				}
				defer f.Close()
				out = f
			}
			if _, err := out.Write(fixed); err != nil {
				return codedError{exitBug, err}
			}
			lastExitCode = exitCodeFor(diags)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&rulePacks, "rule-pack", nil, "path to a YAML rule pack to load before purifying")
	cmd.Flags().StringSliceVar(&unsafeFixes, "unsafe-fix", nil, "lint rule codes the purifier may auto-fix even though they can change semantics")
	cmd.Flags().IntVar(&maxFixIterations, "max-fix-iterations", config.Default().MaxFixIterations, "purifier fixpoint bound")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the purified script here instead of stdout")
	cmd.Flags().StringVar(&format, "format", "text", "diagnostic output format: text|json|sarif")
	return cmd
}
