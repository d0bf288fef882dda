package main

import (
	"os"

	"srcsh/internal/diag"
)

// renderDiagnostics delegates to diag.Renderer so every subcommand shares
// the one place that knows how to paint text, JSON, and SARIF output
// (spec.md:276's "same diagnostics are serialized verbatim with a stable
// field layout" in JSON/SARIF modes). filename and source give the text
// renderer a line to quote; callers that only have a diagnostic list for
// an already-rendered script (lint, purify) pass the script bytes as
// source.
func renderDiagnostics(w *os.File, filename, source string, diags diag.List, format diag.Format) {
	r := diag.NewRenderer(w, format)
	// The renderer only fails on a broken writer, which is already the
	// caller's problem; nothing useful to do with the error here.
	_ = r.Render(filename, source, diags)
}

// exitCodeFor maps an accumulated diagnostic list to the CLI's contract:
// errors outrank warnings, which outrank a clean pass.
func exitCodeFor(diags diag.List) int {
	errs, warns, _ := diags.Counts()
	switch {
	case errs > 0:
		return exitErrors
	case warns > 0:
		return exitWarnings
	default:
		return exitOK
	}
}
