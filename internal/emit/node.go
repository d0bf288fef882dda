package emit

import (
	"fmt"
	"strings"

	"srcsh/internal/diag"
	"srcsh/internal/ir"
)

func indentPad(depth int) string {
	return strings.Repeat("  ", depth)
}

func (e *emitter) node(sb *strings.Builder, n ir.Node, depth int) {
	pad := indentPad(depth)
	switch v := n.(type) {
	case ir.Sequence:
		for _, c := range v.Nodes {
			e.node(sb, c, depth)
		}
	case ir.Noop:
		// nothing to emit
	case ir.Let:
		name := e.identifier(v.Name)
		if isTestShaped(v.Value) {
			fmt.Fprintf(sb, "%sif %s; then\n", pad, e.test(v.Value))
			fmt.Fprintf(sb, "%s  %s=true\n", pad, name)
			fmt.Fprintf(sb, "%selse\n", pad)
			fmt.Fprintf(sb, "%s  %s=false\n", pad, name)
			fmt.Fprintf(sb, "%sfi\n", pad)
			return
		}
		fmt.Fprintf(sb, "%s%s=%s\n", pad, name, e.word(v.Value))
	case ir.Exec:
		fmt.Fprintf(sb, "%s%s\n", pad, e.commandText(v.Cmd))
	case ir.If:
		fmt.Fprintf(sb, "%sif %s; then\n", pad, e.test(v.Test))
		e.node(sb, v.Then, depth+1)
		if v.Else != nil {
			fmt.Fprintf(sb, "%selse\n", pad)
			e.node(sb, v.Else, depth+1)
		}
		fmt.Fprintf(sb, "%sfi\n", pad)
	case ir.While:
		e.emitWhile(sb, v, depth)
	case ir.For:
		e.emitFor(sb, v, depth)
	case ir.Case:
		e.emitCase(sb, v, depth)
	case ir.Return:
		if v.Value != nil {
			fmt.Fprintf(sb, "%sprintf '%%s\\n' %s\n", pad, e.word(v.Value))
		}
		fmt.Fprintf(sb, "%sreturn\n", pad)
	case ir.Break:
		fmt.Fprintf(sb, "%sbreak\n", pad)
	case ir.Continue:
		fmt.Fprintf(sb, "%scontinue\n", pad)
	case ir.Exit:
		fmt.Fprintf(sb, "%sexit %s\n", pad, e.word(v.Code))
	default:
		e.diags.Errorf(diag.CodeEmitBadIdentifier, diag.Span{}, "unsupported IR node %T reached emission", n)
	}
}

func (e *emitter) emitWhile(sb *strings.Builder, v ir.While, depth int) {
	pad := indentPad(depth)
	if v.MaxIterations == 0 {
		fmt.Fprintf(sb, "%swhile %s; do\n", pad, e.test(v.Test))
		e.node(sb, v.Body, depth+1)
		fmt.Fprintf(sb, "%sdone\n", pad)
		return
	}
	e.whileCounter++
	counter := fmt.Sprintf("__iter%d", e.whileCounter)
	fmt.Fprintf(sb, "%s%s=0\n", pad, counter)
	fmt.Fprintf(sb, "%swhile %s; do\n", pad, e.test(v.Test))
	inner := indentPad(depth + 1)
	fmt.Fprintf(sb, "%s%s=$((%s + 1))\n", inner, counter, counter)
	fmt.Fprintf(sb, "%sif [ \"${%s}\" -gt %d ]; then\n", inner, counter, v.MaxIterations)
	fmt.Fprintf(sb, "%s  break\n", inner)
	fmt.Fprintf(sb, "%sfi\n", inner)
	e.node(sb, v.Body, depth+1)
	fmt.Fprintf(sb, "%sdone\n", pad)
}

func (e *emitter) emitFor(sb *strings.Builder, v ir.For, depth int) {
	pad := indentPad(depth)
	high := v.High
	if !v.Inclusive {
		high = adjustExclusiveHigh(v.High)
	}
	name := e.identifier(v.Var)
	fmt.Fprintf(sb, "%sfor %s in $(seq %s %s); do\n", pad, name, e.word(v.Low), e.word(high))
	e.node(sb, v.Body, depth+1)
	fmt.Fprintf(sb, "%sdone\n", pad)
}

func (e *emitter) emitCase(sb *strings.Builder, v ir.Case, depth int) {
	pad := indentPad(depth)
	fmt.Fprintf(sb, "%scase %s in\n", pad, e.word(v.Scrutinee))
	armPad := indentPad(depth + 1)
	bodyPad := indentPad(depth + 2)
	for _, a := range v.Arms {
		fmt.Fprintf(sb, "%s%s)\n", armPad, a.Pattern)
		e.node(sb, a.Body, depth+2)
		fmt.Fprintf(sb, "%s;;\n", bodyPad)
	}
	if v.Default != nil {
		fmt.Fprintf(sb, "%s*)\n", armPad)
		e.node(sb, v.Default, depth+2)
		fmt.Fprintf(sb, "%s;;\n", bodyPad)
	}
	fmt.Fprintf(sb, "%sesac\n", pad)
}
