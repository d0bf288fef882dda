package emit

import "srcsh/internal/ir"

// test renders v as a POSIX conditional (the expression between `if`/
// `while` and `; then`/`; do`), per spec.md §4.6's per-node rules for
// Comparison, LogicalAnd/Or, LogicalNot, and the bare-boolean fallback.
func (e *emitter) test(v ir.ShellValue) string {
	switch x := v.(type) {
	case ir.Comparison:
		return "[ " + e.quoted(x.LHS) + " " + compareOpText(x.Op) + " " + e.quoted(x.RHS) + " ]"
	case ir.LogicalAnd:
		return e.test(x.LHS) + " && " + e.test(x.RHS)
	case ir.LogicalOr:
		return e.test(x.LHS) + " || " + e.test(x.RHS)
	case ir.LogicalNot:
		return "! " + e.test(x.Operand)
	case ir.UnaryTest:
		return "[ " + x.Flag + " " + e.quoted(x.Operand) + " ]"
	case ir.BoolLit:
		if x.Value {
			return "true"
		}
		return "false"
	default:
		// A bare boolean value: equality-test against the literal "true"
		// rather than a word expansion used directly as the condition.
		return "[ " + e.quoted(v) + " = \"true\" ]"
	}
}

func (e *emitter) quoted(v ir.ShellValue) string {
	return "\"" + e.inline(v) + "\""
}

// isTestShaped reports whether v can only be rendered as a conditional,
// never as a plain assignable word — these values need the if/else
// true/false capture form when they appear as a Let's right-hand side.
func isTestShaped(v ir.ShellValue) bool {
	switch v.(type) {
	case ir.Comparison, ir.LogicalAnd, ir.LogicalOr, ir.LogicalNot, ir.UnaryTest:
		return true
	default:
		return false
	}
}

func compareOpText(op ir.CompareOp) string {
	switch op {
	case ir.StrEq:
		return "="
	case ir.StrNe:
		return "!="
	case ir.NumEq:
		return "-eq"
	case ir.NumNe:
		return "-ne"
	case ir.NumLt:
		return "-lt"
	case ir.NumLe:
		return "-le"
	case ir.NumGt:
		return "-gt"
	case ir.NumGe:
		return "-ge"
	default:
		return "="
	}
}
