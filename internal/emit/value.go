package emit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"srcsh/internal/diag"
	"srcsh/internal/escape"
	"srcsh/internal/ir"
)

// word renders v as a standalone shell word: fully self-quoting, safe to
// drop straight into a command argument list or the right-hand side of an
// assignment. A plain StringLit goes through the WordInCommand escape and
// an Arith holding a bare integer literal is written as its decimal text;
// every other shape is wrapped in double quotes around its inline() text,
// matching spec.md §4.6's "variable expansion in a word position always
// emits \"${name}\"" rule.
func (e *emitter) word(v ir.ShellValue) string {
	if lit, ok := v.(ir.StringLit); ok {
		s, err := escape.Escape(lit.Bytes, escape.WordInCommand)
		if err != nil {
			e.diags.Errorf(diag.CodeEmitBadIdentifier, diag.Span{}, "%v", err)
			return "''"
		}
		return s
	}
	if a, ok := v.(ir.Arith); ok {
		if lit, ok := a.Expr.(ir.IntLit); ok {
			return strconv.FormatInt(lit.Value, 10)
		}
	}
	return "\"" + e.inline(v) + "\""
}

// inline renders v for embedding inside an already-open double-quoted
// string (a Concat part, an EnvVar default, a test operand's body).
func (e *emitter) inline(v ir.ShellValue) string {
	switch x := v.(type) {
	case ir.StringLit:
		s, err := escape.Escape(x.Bytes, escape.InsideDoubleQuotes)
		if err != nil {
			e.diags.Errorf(diag.CodeEmitBadIdentifier, diag.Span{}, "%v", err)
			return ""
		}
		return s
	case ir.Var:
		return "${" + e.identifier(x.Name) + "}"
	case ir.Arg:
		return fmt.Sprintf("${%d}", x.Position)
	case ir.ArgCount:
		return "${#}"
	case ir.ArgsAll:
		return "$*"
	case ir.ExitCode:
		return "${?}"
	case ir.EnvVar:
		name := e.identifier(x.Name)
		if x.Default == nil {
			return "${" + name + "}"
		}
		return "${" + name + ":-" + e.inline(x.Default) + "}"
	case ir.Concat:
		var sb strings.Builder
		for _, p := range x.Parts {
			sb.WriteString(e.inline(p))
		}
		return sb.String()
	case ir.Arith:
		return "$((" + e.arithText(x.Expr) + "))"
	case ir.CmdSub:
		return "$(" + e.commandText(x.Command) + ")"
	case ir.Pipe:
		return "$(" + e.pipeText(x.Commands) + ")"
	case ir.BoolLit:
		if x.Value {
			return "true"
		}
		return "false"
	default:
		e.diags.Errorf(diag.CodeEmitBadIdentifier, diag.Span{}, "value shape %T cannot be rendered inline", v)
		return ""
	}
}

func (e *emitter) identifier(name string) string {
	s, err := escape.Escape([]byte(name), escape.IdentifierName)
	if err != nil {
		e.diags.Errorf(diag.CodeEmitBadIdentifier, diag.Span{}, "%v", err)
		return name
	}
	return s
}

func (e *emitter) arithText(expr ir.ArithExpr) string {
	switch x := expr.(type) {
	case ir.IntLit:
		return strconv.FormatInt(x.Value, 10)
	case ir.VarRef:
		return e.identifier(x.Name)
	case ir.Neg:
		return "(-" + e.arithText(x.Operand) + ")"
	case ir.BinArith:
		return "(" + e.arithText(x.LHS) + " " + arithOpText(x.Op) + " " + e.arithText(x.RHS) + ")"
	case ir.ValueRef:
		return e.inline(x.Value)
	default:
		e.diags.Errorf(diag.CodeEmitBadIdentifier, diag.Span{}, "arithmetic shape %T cannot be rendered", expr)
		return "0"
	}
}

func arithOpText(op ir.ArithOp) string {
	switch op {
	case ir.Add:
		return "+"
	case ir.Sub:
		return "-"
	case ir.Mul:
		return "*"
	case ir.Div:
		return "/"
	case ir.Mod:
		return "%"
	default:
		return "+"
	}
}

// adjustExclusiveHigh lowers an exclusive range's high bound into the
// inclusive bound seq needs (spec.md §4.6: "0..3 emits seq 0 2").
func adjustExclusiveHigh(v ir.ShellValue) ir.ShellValue {
	if arith, ok := v.(ir.Arith); ok {
		if lit, ok := arith.Expr.(ir.IntLit); ok && lit.Value != math.MinInt64 {
			return ir.Arith{Expr: ir.IntLit{Value: lit.Value - 1}}
		}
		return ir.Arith{Expr: ir.BinArith{Op: ir.Sub, LHS: arith.Expr, RHS: ir.IntLit{Value: 1}}}
	}
	return ir.Arith{Expr: ir.BinArith{Op: ir.Sub, LHS: ir.ValueRef{Value: v}, RHS: ir.IntLit{Value: 1}}}
}
