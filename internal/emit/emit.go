// Package emit renders a lowered, optimized IR program into a byte-for-byte
// deterministic POSIX shell script (spec.md §4.6). It is grounded on the
// teacher's internal/ir printer shape (walk the tree once, write directly
// to a strings.Builder) generalized from an EVM-bytecode pretty-printer to
// a POSIX-text code generator, with quoting delegated entirely to
// internal/escape so the emitter itself never hand-rolls shell escaping.
package emit

import (
	"fmt"
	"strings"

	"srcsh/internal/classify"
	"srcsh/internal/config"
	"srcsh/internal/diag"
	"srcsh/internal/escape"
	"srcsh/internal/ir"
)

// emitter carries the per-emission state: the command whitelist (user
// functions plus the fixed POSIX utility set) and a counter for the
// synthetic iteration-guard variables bounded while loops need. Diagnostics
// accumulate here and are returned by Emit once rendering finishes.
type emitter struct {
	whitelist    *classify.Whitelist
	diags        diag.List
	whileCounter int
}

// Emit renders p as a complete POSIX script. A non-nil error means the
// post-emission self-check rejected the output: a BUG-class failure
// (diag.CodeEmitterSelfCheck, exit code 3 at the CLI boundary) that aborts
// the pipeline rather than shipping unsafe text.
func Emit(p *ir.Program, cfg config.Config) ([]byte, diag.List, error) {
	e := &emitter{whitelist: classify.NewWhitelist(functionNames(p))}

	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString("set -euf\n")
	sb.WriteString("IFS='")
	sb.WriteByte(' ')
	sb.WriteByte('\t')
	sb.WriteByte('\n')
	sb.WriteString("'\n")
	sb.WriteString("export LC_ALL=C\n\n")

	for _, fn := range p.Functions {
		if p.Entry != nil && fn.Name == p.Entry.Name {
			continue
		}
		e.emitFunction(&sb, fn, fn.Name)
	}
	if p.Entry != nil {
		e.emitFunction(&sb, p.Entry, "main")
	}
	sb.WriteString(`main "$@"` + "\n")

	script := []byte(sb.String())
	if err := selfCheck(script); err != nil {
		e.diags.Errorf(diag.CodeEmitterSelfCheck, diag.Span{}, "%v", err)
		e.diags.Sort()
		return nil, e.diags, err
	}
	e.diags.Sort()
	return script, e.diags, nil
}

func (e *emitter) emitFunction(sb *strings.Builder, fn *ir.Function, renderName string) {
	name, err := escape.Escape([]byte(renderName), escape.IdentifierName)
	if err != nil {
		e.diags.Errorf(diag.CodeEmitBadIdentifier, diag.Span{}, "function name %q: %v", renderName, err)
		name = renderName
	}
	fmt.Fprintf(sb, "%s() {\n", name)
	// No `local`: POSIX has no block-scoped locals, so parameters bind as
	// ordinary global assignments from the positional parameters.
	for i, param := range fn.Params {
		pname, perr := escape.Escape([]byte(param), escape.IdentifierName)
		if perr != nil {
			e.diags.Errorf(diag.CodeEmitBadIdentifier, diag.Span{}, "parameter name %q: %v", param, perr)
			pname = param
		}
		fmt.Fprintf(sb, "  %s=\"$%d\"\n", pname, i+1)
	}
	e.node(sb, fn.Body, 1)
	sb.WriteString("}\n\n")
}

func functionNames(p *ir.Program) []string {
	names := make([]string, len(p.Functions))
	for i, fn := range p.Functions {
		names[i] = fn.Name
	}
	return names
}
