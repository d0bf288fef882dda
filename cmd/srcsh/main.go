// SPDX-License-Identifier: Apache-2.0

// Command srcsh is the transpiler's CLI surface (spec.md §6): build,
// check, verify, lint, purify, inspect, and repl subcommands sharing one
// exit-code contract (0 success, 1 warnings, 2 errors, 3 internal bug, 64
// usage error).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes, spec.md §6.
const (
	exitOK       = 0
	exitWarnings = 1
	exitErrors   = 2
	exitBug      = 3
	exitUsage    = 64
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if ec, ok := err.(exitCoder); ok {
			return ec.ExitCode()
		}
		return exitUsage
	}
	return lastExitCode
}

// exitCoder lets a subcommand's RunE signal a specific exit code through
// the ordinary Go error return, instead of calling os.Exit directly
// (which would skip cobra's own usage/error printing).
type exitCoder interface {
	error
	ExitCode() int
}

type codedError struct {
	code int
	err  error
}

func (c codedError) Error() string { return c.err.Error() }
func (c codedError) ExitCode() int { return c.code }
func (c codedError) Unwrap() error { return c.err }

// lastExitCode is set by a subcommand on success paths that still need a
// non-zero code (warnings present but no hard error), since cobra only
// gives us a clean way to signal failure via error, not "succeeded with
// code N".
var lastExitCode int

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "srcsh",
		Short:         "Transpile SrcLang to provably injection-safe POSIX shell",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newBuildCmd(),
		newCheckCmd(),
		newVerifyCmd(),
		newLintCmd(),
		newPurifyCmd(),
		newInspectCmd(),
		newReplCmd(),
	)
	return root
}
