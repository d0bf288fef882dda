package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"srcsh/internal/ir"
	"srcsh/internal/pipeline"
)

func newInspectCmd() *cobra.Command {
	var f configFlags
	var showAST bool

	cmd := &cobra.Command{
		Use:   "inspect <file.src>",
		Short: "Print the lowered IR (or, with --ast, the restricted AST) for a program",
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
			if r.Diags.HasErrors() {
				renderDiagnostics(os.Stderr, args[0], string(src), r.Diags, format)
				lastExitCode = exitErrors
				return nil
			}
			if showAST {
				fmt.Printf("%+v\n", r.AST)
			} else if r.Program != nil {
				fmt.Println(ir.Print(r.Program))
			}
			renderDiagnostics(os.Stderr, args[0], string(src), r.Diags, format)
			lastExitCode = exitCodeFor(r.Diags)
			return nil
		},
	}
	addConfigFlags(cmd, &f)
	cmd.Flags().BoolVar(&showAST, "ast", false, "print the restricted AST instead of the lowered IR")
	return cmd
}
