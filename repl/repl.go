// Package repl SPDX-License-Identifier: Apache-2.0

// Package repl is an interactive read-eval-print loop over the transpile
// pipeline: each input is a complete SrcLang program (not a single
// expression, since SrcLang has no top-level expression statements
// outside a function body), compiled, verified, and emitted on the spot.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"srcsh/internal/config"
	"srcsh/internal/pipeline"
)

const PROMPT = ">> "

// Start reads whole programs from in, one per blank-line-terminated
// block, and prints either the emitted script or the diagnostics that
// stopped it from being produced.
func Start(in io.Reader, out io.Writer) {
	cfg := config.Default()
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		block, ok := readBlock(scanner)
		if !ok {
			return
		}
		if block == "" {
			continue
		}

		r := pipeline.Compile("<repl>", block, cfg)
		r.Verify(cfg)
		if err := r.Emit(cfg); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		} else {
			fmt.Fprint(out, string(r.Script))
		}
		for _, d := range r.Diags {
			fmt.Fprintln(out, d.String())
		}
	}
}

// readBlock accumulates lines until a blank line or EOF, the REPL's
// program-boundary convention. The bool result is false only once the
// scanner is exhausted with no further input at all.
func readBlock(scanner *bufio.Scanner) (string, bool) {
	var lines []string
	sawAny := false
	for scanner.Scan() {
		sawAny = true
		line := scanner.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	if !sawAny {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}
