package main

import (
	"os"

	"github.com/spf13/cobra"

	"srcsh/repl"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive read-eval-print loop over the transpile pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repl.Start(os.Stdin, os.Stdout)
			return nil
		},
	}
}
