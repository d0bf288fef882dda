package optimize

import "srcsh/internal/ir"

// foldProgram applies constant folding to every function (spec.md §4.4
// "fold arithmetic on literal operands; collapse Concat of adjacent
// literals").
func foldProgram(p *ir.Program) *ir.Program {
	return mapFunctions(p, foldNode)
}

func foldNode(n ir.Node) ir.Node {
	switch v := n.(type) {
	case ir.Sequence:
		nodes := make([]ir.Node, len(v.Nodes))
		for i, c := range v.Nodes {
			nodes[i] = foldNode(c)
		}
		return ir.Sequence{Nodes: nodes}
	case ir.Let:
		return ir.Let{Name: v.Name, Value: foldValue(v.Value)}
	case ir.Exec:
		return ir.Exec{Cmd: foldCommand(v.Cmd), Effects: v.Effects}
	case ir.If:
		out := ir.If{Test: foldValue(v.Test), Then: foldNode(v.Then)}
		if v.Else != nil {
			out.Else = foldNode(v.Else)
		}
		return out
	case ir.While:
		return ir.While{Test: foldValue(v.Test), Body: foldNode(v.Body), MaxIterations: v.MaxIterations}
	case ir.For:
		return ir.For{Var: v.Var, Low: foldValue(v.Low), High: foldValue(v.High), Inclusive: v.Inclusive, Body: foldNode(v.Body)}
	case ir.Case:
		arms := make([]ir.CaseArm, len(v.Arms))
		for i, a := range v.Arms {
			arms[i] = ir.CaseArm{Pattern: a.Pattern, Body: foldNode(a.Body)}
		}
		out := ir.Case{Scrutinee: foldValue(v.Scrutinee), Arms: arms}
		if v.Default != nil {
			out.Default = foldNode(v.Default)
		}
		return out
	case ir.Return:
		if v.Value == nil {
			return v
		}
		return ir.Return{Value: foldValue(v.Value)}
	case ir.Exit:
		return ir.Exit{Code: foldValue(v.Code)}
	default:
		return n
	}
}

func foldCommand(c ir.Command) ir.Command {
	args := make([]ir.ShellValue, len(c.Args))
	for i, a := range c.Args {
		args[i] = foldValue(a)
	}
	out := ir.Command{Name: c.Name, Args: args, Effects: c.Effects, Redirect: c.Redirect}
	if c.Redirect.Target != nil {
		out.Redirect.Target = foldValue(c.Redirect.Target)
	}
	return out
}

// foldValue recursively folds every ShellValue shape, collapsing Arith
// sub-trees to a single IntLit when every leaf is constant and merging
// adjacent StringLit parts inside Concat.
func foldValue(v ir.ShellValue) ir.ShellValue {
	switch x := v.(type) {
	case ir.StringLit, ir.Var, ir.Arg, ir.ArgCount, ir.ArgsAll, ir.ExitCode, ir.BoolLit:
		return v
	case ir.EnvVar:
		if x.Default == nil {
			return v
		}
		return ir.EnvVar{Name: x.Name, Default: foldValue(x.Default)}
	case ir.Concat:
		return ir.Concat{Parts: foldConcatParts(x.Parts)}
	case ir.CmdSub:
		return ir.CmdSub{Command: foldCommand(x.Command)}
	case ir.Arith:
		return ir.Arith{Expr: foldArith(x.Expr)}
	case ir.Comparison:
		return ir.Comparison{Op: x.Op, LHS: foldValue(x.LHS), RHS: foldValue(x.RHS)}
	case ir.LogicalAnd:
		return ir.LogicalAnd{LHS: foldValue(x.LHS), RHS: foldValue(x.RHS)}
	case ir.LogicalOr:
		return ir.LogicalOr{LHS: foldValue(x.LHS), RHS: foldValue(x.RHS)}
	case ir.LogicalNot:
		return ir.LogicalNot{Operand: foldValue(x.Operand)}
	case ir.RangeSeq:
		return ir.RangeSeq{Low: foldValue(x.Low), High: foldValue(x.High), Inclusive: x.Inclusive}
	case ir.UnaryTest:
		return ir.UnaryTest{Flag: x.Flag, Operand: foldValue(x.Operand)}
	case ir.Pipe:
		cmds := make([]ir.Command, len(x.Commands))
		for i, c := range x.Commands {
			cmds[i] = foldCommand(c)
		}
		return ir.Pipe{Commands: cmds}
	default:
		return v
	}
}

// foldConcatParts folds each part and then merges runs of adjacent
// StringLit parts into one, matching spec.md §4.4's "collapse Concat of
// adjacent literals" exactly (adjacency, not full re-ordering: Concat's
// operand order is always preserved).
func foldConcatParts(parts []ir.ShellValue) []ir.ShellValue {
	folded := make([]ir.ShellValue, len(parts))
	for i, p := range parts {
		folded[i] = foldValue(p)
	}
	out := make([]ir.ShellValue, 0, len(folded))
	for _, p := range folded {
		lit, isLit := p.(ir.StringLit)
		if isLit && len(out) > 0 {
			if prev, ok := out[len(out)-1].(ir.StringLit); ok {
				out[len(out)-1] = ir.StringLit{Bytes: append(append([]byte{}, prev.Bytes...), lit.Bytes...)}
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// foldArith folds the small arithmetic sub-language to a single IntLit
// whenever every leaf reached is itself constant. Division and modulo by a
// literal zero are never folded: evalBinArith refuses them, and they are
// preserved as BinArith so the runtime
// `$(( … ))` still raises the same divide-by-zero behavior the
// unoptimized script would have, keeping semantics-preservation (spec.md
// §8 property 4) intact rather than pre-computing a result the shell
// itself would never reach.
func foldArith(e ir.ArithExpr) ir.ArithExpr {
	switch x := e.(type) {
	case ir.IntLit, ir.VarRef:
		return e
	case ir.Neg:
		inner := foldArith(x.Operand)
		if lit, ok := inner.(ir.IntLit); ok {
			return ir.IntLit{Value: -lit.Value}
		}
		return ir.Neg{Operand: inner}
	case ir.ValueRef:
		return ir.ValueRef{Value: foldValue(x.Value)}
	case ir.BinArith:
		lhs := foldArith(x.LHS)
		rhs := foldArith(x.RHS)
		lhsLit, lhsOK := lhs.(ir.IntLit)
		rhsLit, rhsOK := rhs.(ir.IntLit)
		if lhsOK && rhsOK {
			if result, ok := evalBinArith(x.Op, lhsLit.Value, rhsLit.Value); ok {
				return ir.IntLit{Value: result}
			}
		}
		return ir.BinArith{Op: x.Op, LHS: lhs, RHS: rhs}
	default:
		return e
	}
}

func evalBinArith(op ir.ArithOp, lhs, rhs int64) (int64, bool) {
	switch op {
	case ir.Add:
		return lhs + rhs, true
	case ir.Sub:
		return lhs - rhs, true
	case ir.Mul:
		return lhs * rhs, true
	case ir.Div:
		if rhs == 0 {
			return 0, false
		}
		return lhs / rhs, true
	case ir.Mod:
		if rhs == 0 {
			return 0, false
		}
		return lhs % rhs, true
	default:
		return 0, false
	}
}
