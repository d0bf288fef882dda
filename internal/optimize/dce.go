package optimize

import "srcsh/internal/ir"

// dceProgram drops unreachable branches left behind by constant folding
// and unreferenced pure Let bindings (spec.md §4.4 "Dead-code
// elimination").
func dceProgram(p *ir.Program) *ir.Program {
	return mapFunctions(p, func(body ir.Node) ir.Node {
		used := collectUsedVars(body)
		return dceNode(body, used)
	})
}

func dceNode(n ir.Node, used map[string]bool) ir.Node {
	switch v := n.(type) {
	case ir.Sequence:
		nodes := make([]ir.Node, 0, len(v.Nodes))
		for _, c := range v.Nodes {
			rewritten := dceNode(c, used)
			if let, ok := rewritten.(ir.Let); ok && !used[let.Name] && isPureValue(let.Value) {
				continue
			}
			if _, isNoop := rewritten.(ir.Noop); isNoop {
				continue
			}
			nodes = append(nodes, rewritten)
		}
		if len(nodes) == 0 {
			return ir.Noop{}
		}
		return ir.Sequence{Nodes: nodes}
	case ir.If:
		// spec.md §4.4: "drop unreachable branches after
		// constant-folded conditionals" — fold already turned a
		// statically-decidable test into a BoolLit by the time DCE runs.
		if lit, ok := v.Test.(ir.BoolLit); ok {
			if lit.Value {
				return dceNode(v.Then, used)
			}
			if v.Else != nil {
				return dceNode(v.Else, used)
			}
			return ir.Noop{}
		}
		out := ir.If{Test: v.Test, Then: dceNode(v.Then, used)}
		if v.Else != nil {
			out.Else = dceNode(v.Else, used)
		}
		return out
	case ir.While:
		return ir.While{Test: v.Test, Body: dceNode(v.Body, used), MaxIterations: v.MaxIterations}
	case ir.For:
		return ir.For{Var: v.Var, Low: v.Low, High: v.High, Inclusive: v.Inclusive, Body: dceNode(v.Body, used)}
	case ir.Case:
		arms := make([]ir.CaseArm, len(v.Arms))
		for i, a := range v.Arms {
			arms[i] = ir.CaseArm{Pattern: a.Pattern, Body: dceNode(a.Body, used)}
		}
		out := ir.Case{Scrutinee: v.Scrutinee, Arms: arms}
		if v.Default != nil {
			out.Default = dceNode(v.Default, used)
		}
		return out
	default:
		return n
	}
}

// collectUsedVars walks an entire function body collecting every
// referenced variable name, conservatively: a name used anywhere (even
// inside a branch DCE will later prune) is never treated as unused,
// since the fold->DCE->fold cycle re-runs collection each iteration as
// branches actually disappear.
func collectUsedVars(n ir.Node) map[string]bool {
	out := map[string]bool{}
	var walk func(ir.Node)
	walk = func(n ir.Node) {
		if n == nil {
			return
		}
		switch v := n.(type) {
		case ir.Sequence:
			for _, c := range v.Nodes {
				walk(c)
			}
		case ir.Let:
			collectVarsInValue(v.Value, out)
		case ir.Exec:
			collectVarsInCommand(v.Cmd, out)
		case ir.If:
			collectVarsInValue(v.Test, out)
			walk(v.Then)
			walk(v.Else)
		case ir.While:
			collectVarsInValue(v.Test, out)
			walk(v.Body)
		case ir.For:
			collectVarsInValue(v.Low, out)
			collectVarsInValue(v.High, out)
			walk(v.Body)
		case ir.Case:
			collectVarsInValue(v.Scrutinee, out)
			for _, a := range v.Arms {
				walk(a.Body)
			}
			walk(v.Default)
		case ir.Return:
			if v.Value != nil {
				collectVarsInValue(v.Value, out)
			}
		case ir.Exit:
			collectVarsInValue(v.Code, out)
		}
	}
	walk(n)
	return out
}

func collectVarsInValue(v ir.ShellValue, out map[string]bool) {
	switch x := v.(type) {
	case ir.Var:
		out[x.Name] = true
	case ir.EnvVar:
		if x.Default != nil {
			collectVarsInValue(x.Default, out)
		}
	case ir.Concat:
		for _, p := range x.Parts {
			collectVarsInValue(p, out)
		}
	case ir.CmdSub:
		collectVarsInCommand(x.Command, out)
	case ir.Arith:
		collectVarsInArith(x.Expr, out)
	case ir.Comparison:
		collectVarsInValue(x.LHS, out)
		collectVarsInValue(x.RHS, out)
	case ir.LogicalAnd:
		collectVarsInValue(x.LHS, out)
		collectVarsInValue(x.RHS, out)
	case ir.LogicalOr:
		collectVarsInValue(x.LHS, out)
		collectVarsInValue(x.RHS, out)
	case ir.LogicalNot:
		collectVarsInValue(x.Operand, out)
	case ir.RangeSeq:
		collectVarsInValue(x.Low, out)
		collectVarsInValue(x.High, out)
	case ir.UnaryTest:
		collectVarsInValue(x.Operand, out)
	case ir.Pipe:
		for _, c := range x.Commands {
			collectVarsInCommand(c, out)
		}
	}
}

func collectVarsInCommand(c ir.Command, out map[string]bool) {
	for _, a := range c.Args {
		collectVarsInValue(a, out)
	}
	if c.Redirect.Target != nil {
		collectVarsInValue(c.Redirect.Target, out)
	}
}

func collectVarsInArith(e ir.ArithExpr, out map[string]bool) {
	switch x := e.(type) {
	case ir.VarRef:
		out[x.Name] = true
	case ir.Neg:
		collectVarsInArith(x.Operand, out)
	case ir.BinArith:
		collectVarsInArith(x.LHS, out)
		collectVarsInArith(x.RHS, out)
	case ir.ValueRef:
		collectVarsInValue(x.Value, out)
	}
}

// isPureValue reports whether v can be dropped without an observable
// difference: no write/network/spawn/non-deterministic effect reaches it
// transitively. A ReadEnv-only or no-subprocess value is safe to drop
// when unused — a read nobody consumes has no externally visible effect.
func isPureValue(v ir.ShellValue) bool {
	switch x := v.(type) {
	case ir.StringLit, ir.Var, ir.Arg, ir.ArgCount, ir.ArgsAll, ir.ExitCode, ir.BoolLit:
		return true
	case ir.EnvVar:
		return x.Default == nil || isPureValue(x.Default)
	case ir.Concat:
		for _, p := range x.Parts {
			if !isPureValue(p) {
				return false
			}
		}
		return true
	case ir.CmdSub:
		return commandIsPure(x.Command)
	case ir.Arith:
		return true
	case ir.Comparison:
		return isPureValue(x.LHS) && isPureValue(x.RHS)
	case ir.LogicalAnd:
		return isPureValue(x.LHS) && isPureValue(x.RHS)
	case ir.LogicalOr:
		return isPureValue(x.LHS) && isPureValue(x.RHS)
	case ir.LogicalNot:
		return isPureValue(x.Operand)
	case ir.RangeSeq:
		return isPureValue(x.Low) && isPureValue(x.High)
	case ir.UnaryTest:
		return isPureValue(x.Operand)
	case ir.Pipe:
		for _, c := range x.Commands {
			if !commandIsPure(c) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func commandIsPure(c ir.Command) bool {
	for _, k := range []ir.EffectKind{ir.WriteFile, ir.WriteEnv, ir.NetworkAccess, ir.ProcessSpawn, ir.NonDeterministic} {
		if c.Effects.Has(k) {
			return false
		}
	}
	for _, a := range c.Args {
		if !isPureValue(a) {
			return false
		}
	}
	return true
}
