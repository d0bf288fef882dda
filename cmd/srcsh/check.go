package main

import (
	"os"

	"github.com/spf13/cobra"

	"srcsh/internal/pipeline"
)

func newCheckCmd() *cobra.Command {
	var f configFlags
	cmd := &cobra.Command{
		Use:   "check <file.src>",
		Short: "Parse, validate, and lower a SrcLang program without verifying or emitting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve()
			if err != nil {
				return codedError{exitUsage, err}
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return codedError{exitUsage, err}
			}
			format, err := parseFormat(f.format)
			if err != nil {
				return codedError{exitUsage, err}
			}
			r := pipeline.Compile(args[0], string(src), cfg)
			renderDiagnostics(os.Stderr, args[0], string(src), r.Diags, format)
			lastExitCode = exitCodeFor(r.Diags)
			return nil
		},
	}
	addConfigFlags(cmd, &f)
	return cmd
}
