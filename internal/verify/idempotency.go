package verify

import (
	"strings"

	"srcsh/internal/classify"
	"srcsh/internal/diag"
	"srcsh/internal/ir"
)

// checkIdempotency implements the idempotency property: every command
// that carries WriteFile must either use its idempotent canonical form
// (classify.IdempotentFlags: mkdir -p, rm -f, ln -sf) or sit inside a
// branch whose condition is an existence test, guarding the command from
// ever re-running against existing state.
func checkIdempotency(p *ir.Program, diags *diag.List) {
	for _, fn := range p.Functions {
		walkIdempotency(fn.Body, false, diags)
	}
}

func walkIdempotency(n ir.Node, guarded bool, diags *diag.List) {
	switch v := n.(type) {
	case ir.Sequence:
		for _, c := range v.Nodes {
			walkIdempotency(c, guarded, diags)
		}
	case ir.Exec:
		checkCommandIdempotent(v.Cmd, guarded, diags)
	case ir.If:
		walkIdempotency(v.Then, guarded || testsExistence(v.Test), diags)
		walkIdempotency(v.Else, guarded, diags)
	case ir.While:
		walkIdempotency(v.Body, guarded, diags)
	case ir.For:
		walkIdempotency(v.Body, guarded, diags)
	case ir.Case:
		for _, a := range v.Arms {
			walkIdempotency(a.Body, guarded, diags)
		}
		walkIdempotency(v.Default, guarded, diags)
	}
}

// testsExistence reports whether a branch condition is (or is built out
// of) a path_exists-shaped UnaryTest, the "explicit existence check" the
// idempotency property accepts as an alternative to a canonical command
// form.
func testsExistence(v ir.ShellValue) bool {
	switch x := v.(type) {
	case ir.UnaryTest:
		return x.Flag == "-e"
	case ir.LogicalNot:
		return testsExistence(x.Operand)
	case ir.LogicalAnd:
		return testsExistence(x.LHS) || testsExistence(x.RHS)
	case ir.LogicalOr:
		return testsExistence(x.LHS) || testsExistence(x.RHS)
	default:
		return false
	}
}

func checkCommandIdempotent(c ir.Command, guarded bool, diags *diag.List) {
	if !c.Effects.Has(ir.WriteFile) || guarded {
		return
	}
	if classify.Classify(c.Name).Idempotent {
		// e.g. touch: idempotent by nature, no canonical flag needed.
		return
	}
	required := classify.IdempotentFlags(c.Name)
	if required == nil {
		diags.Errorf(diag.CodeNonIdempotent, diag.Span{}, "%q has no known idempotent form and is not guarded by an existence check", c.Name)
		return
	}
	if !hasAllFlags(c.Args, required) {
		diags.Errorf(diag.CodeNonIdempotent, diag.Span{}, "%q is missing idempotent flag(s) %s", c.Name, strings.Join(required, " "))
	}
}

func hasAllFlags(args []ir.ShellValue, flags []string) bool {
	present := make(map[string]bool, len(args))
	for _, a := range args {
		if lit, ok := a.(ir.StringLit); ok {
			present[string(lit.Bytes)] = true
		}
	}
	for _, f := range flags {
		if !present[f] {
			return false
		}
	}
	return true
}
