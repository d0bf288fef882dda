// Package pipeline wires the per-phase packages (frontend, rast, lower,
// optimize, verify, emit) into the single front-to-back path every
// caller — the CLI, the REPL, the LSP server — drives the same way. It
// exists so those three surfaces don't each reimplement "parse, validate,
// lower, optionally optimize, verify, emit" slightly differently.
package pipeline

import (
	"fmt"

	"srcsh/internal/config"
	"srcsh/internal/diag"
	"srcsh/internal/emit"
	"srcsh/internal/frontend"
	"srcsh/internal/ir"
	"srcsh/internal/lower"
	"srcsh/internal/optimize"
	"srcsh/internal/rast"
	"srcsh/internal/verify"
)

// Result carries every stage's output far enough for a caller to inspect
// any of them: the restricted AST (for an LSP's structural needs), the
// lowered/optimized IR, and the accumulated diagnostics. Script is nil
// until Emit is called.
type Result struct {
	AST     *rast.Program
	Program *ir.Program
	Script  []byte
	Diags   diag.List
}

// Compile runs parse, validate, lower, and (if cfg.Optimize) optimize.
// It stops as soon as any stage reports an Error-severity diagnostic,
// matching the propagation policy every phase in this tree follows.
func Compile(filename, src string, cfg config.Config) Result {
	var r Result

	ast, err := frontend.Parse(filename, src)
	if err != nil {
		r.Diags.Errorf(diag.CodeUnsupportedConstruct, diag.Span{File: filename}, "parse: %v", err)
		return r
	}
	r.AST = ast

	r.Diags = append(r.Diags, rast.Validate(ast)...)
	if r.Diags.HasErrors() {
		return r
	}

	prog, lowerDiags := lower.Lower(ast, cfg)
	r.Diags = append(r.Diags, lowerDiags...)
	if r.Diags.HasErrors() {
		return r
	}
	if cfg.Optimize {
		prog = optimize.Optimize(prog, cfg)
	}
	r.Program = prog
	return r
}

// Verify runs the verifier over r.Program and appends its diagnostics.
// A no-op if an earlier stage already failed.
func (r *Result) Verify(cfg config.Config) {
	if r.Program == nil {
		return
	}
	r.Diags = append(r.Diags, verify.Verify(r.Program, cfg)...)
}

// Emit renders r.Program to POSIX shell text, storing it on r.Script. A
// no-op returning an error if an earlier stage already failed.
func (r *Result) Emit(cfg config.Config) error {
	if r.Program == nil || r.Diags.HasErrors() {
		return fmt.Errorf("pipeline: cannot emit, an earlier stage reported an error")
	}
	script, emitDiags, err := emit.Emit(r.Program, cfg)
	r.Diags = append(r.Diags, emitDiags...)
	if err != nil {
		return err
	}
	r.Script = script
	return nil
}
