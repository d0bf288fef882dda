package verify

import "srcsh/internal/ir"

// walkProgramCommands visits every Command reachable from any function
// body, whether it sits in statement position (Exec) or value position
// (CmdSub, Pipe), and whether it is top-level or nested inside another
// command's arguments. Each distinct Command is visited exactly once,
// matching the IR's single-owner, no-aliasing tree shape.
func walkProgramCommands(p *ir.Program, f func(ir.Command)) {
	for _, fn := range p.Functions {
		walkNodeCommands(fn.Body, f)
	}
}

func walkNodeCommands(n ir.Node, f func(ir.Command)) {
	switch v := n.(type) {
	case ir.Sequence:
		for _, c := range v.Nodes {
			walkNodeCommands(c, f)
		}
	case ir.Let:
		walkValueCommands(v.Value, f)
	case ir.Exec:
		f(v.Cmd)
		walkCommandArgCommands(v.Cmd, f)
	case ir.If:
		walkValueCommands(v.Test, f)
		walkNodeCommands(v.Then, f)
		walkNodeCommands(v.Else, f)
	case ir.While:
		walkValueCommands(v.Test, f)
		walkNodeCommands(v.Body, f)
	case ir.For:
		walkValueCommands(v.Low, f)
		walkValueCommands(v.High, f)
		walkNodeCommands(v.Body, f)
	case ir.Case:
		walkValueCommands(v.Scrutinee, f)
		for _, a := range v.Arms {
			walkNodeCommands(a.Body, f)
		}
		walkNodeCommands(v.Default, f)
	case ir.Return:
		if v.Value != nil {
			walkValueCommands(v.Value, f)
		}
	case ir.Exit:
		walkValueCommands(v.Code, f)
	}
}

func walkValueCommands(v ir.ShellValue, f func(ir.Command)) {
	switch x := v.(type) {
	case ir.EnvVar:
		if x.Default != nil {
			walkValueCommands(x.Default, f)
		}
	case ir.Concat:
		for _, p := range x.Parts {
			walkValueCommands(p, f)
		}
	case ir.CmdSub:
		f(x.Command)
		walkCommandArgCommands(x.Command, f)
	case ir.Arith:
		walkArithCommands(x.Expr, f)
	case ir.Comparison:
		walkValueCommands(x.LHS, f)
		walkValueCommands(x.RHS, f)
	case ir.LogicalAnd:
		walkValueCommands(x.LHS, f)
		walkValueCommands(x.RHS, f)
	case ir.LogicalOr:
		walkValueCommands(x.LHS, f)
		walkValueCommands(x.RHS, f)
	case ir.LogicalNot:
		walkValueCommands(x.Operand, f)
	case ir.RangeSeq:
		walkValueCommands(x.Low, f)
		walkValueCommands(x.High, f)
	case ir.UnaryTest:
		walkValueCommands(x.Operand, f)
	case ir.Pipe:
		for _, c := range x.Commands {
			f(c)
			walkCommandArgCommands(c, f)
		}
	}
}

func walkCommandArgCommands(c ir.Command, f func(ir.Command)) {
	for _, a := range c.Args {
		walkValueCommands(a, f)
	}
	if c.Redirect.Target != nil {
		walkValueCommands(c.Redirect.Target, f)
	}
}

func walkArithCommands(e ir.ArithExpr, f func(ir.Command)) {
	switch x := e.(type) {
	case ir.Neg:
		walkArithCommands(x.Operand, f)
	case ir.BinArith:
		walkArithCommands(x.LHS, f)
		walkArithCommands(x.RHS, f)
	case ir.ValueRef:
		walkValueCommands(x.Value, f)
	}
}

// walkProgramShellValues visits every ShellValue reachable from any
// function body — not just the Command nodes walkProgramCommands tracks —
// so checks that key off a value's own shape (e.g. an EnvVar's name) see
// it even when it never sits inside a command argument.
func walkProgramShellValues(p *ir.Program, f func(ir.ShellValue)) {
	for _, fn := range p.Functions {
		walkNodeShellValues(fn.Body, f)
	}
}

func walkNodeShellValues(n ir.Node, f func(ir.ShellValue)) {
	switch v := n.(type) {
	case ir.Sequence:
		for _, c := range v.Nodes {
			walkNodeShellValues(c, f)
		}
	case ir.Let:
		walkValueTree(v.Value, f)
	case ir.Exec:
		for _, a := range v.Cmd.Args {
			walkValueTree(a, f)
		}
		if v.Cmd.Redirect.Target != nil {
			walkValueTree(v.Cmd.Redirect.Target, f)
		}
	case ir.If:
		walkValueTree(v.Test, f)
		walkNodeShellValues(v.Then, f)
		walkNodeShellValues(v.Else, f)
	case ir.While:
		walkValueTree(v.Test, f)
		walkNodeShellValues(v.Body, f)
	case ir.For:
		walkValueTree(v.Low, f)
		walkValueTree(v.High, f)
		walkNodeShellValues(v.Body, f)
	case ir.Case:
		walkValueTree(v.Scrutinee, f)
		for _, a := range v.Arms {
			walkNodeShellValues(a.Body, f)
		}
		walkNodeShellValues(v.Default, f)
	case ir.Return:
		if v.Value != nil {
			walkValueTree(v.Value, f)
		}
	case ir.Exit:
		walkValueTree(v.Code, f)
	}
}

// walkValueTree visits v itself, then recurses into its operands, covering
// every ShellValue variant including ones nested inside a CmdSub/Pipe
// command's own arguments.
func walkValueTree(v ir.ShellValue, f func(ir.ShellValue)) {
	if v == nil {
		return
	}
	f(v)
	switch x := v.(type) {
	case ir.EnvVar:
		if x.Default != nil {
			walkValueTree(x.Default, f)
		}
	case ir.Concat:
		for _, p := range x.Parts {
			walkValueTree(p, f)
		}
	case ir.CmdSub:
		for _, a := range x.Command.Args {
			walkValueTree(a, f)
		}
	case ir.Arith:
		walkArithValueTree(x.Expr, f)
	case ir.Comparison:
		walkValueTree(x.LHS, f)
		walkValueTree(x.RHS, f)
	case ir.LogicalAnd:
		walkValueTree(x.LHS, f)
		walkValueTree(x.RHS, f)
	case ir.LogicalOr:
		walkValueTree(x.LHS, f)
		walkValueTree(x.RHS, f)
	case ir.LogicalNot:
		walkValueTree(x.Operand, f)
	case ir.RangeSeq:
		walkValueTree(x.Low, f)
		walkValueTree(x.High, f)
	case ir.UnaryTest:
		walkValueTree(x.Operand, f)
	case ir.Pipe:
		for _, c := range x.Commands {
			for _, a := range c.Args {
				walkValueTree(a, f)
			}
		}
	}
}

func walkArithValueTree(e ir.ArithExpr, f func(ir.ShellValue)) {
	switch x := e.(type) {
	case ir.Neg:
		walkArithValueTree(x.Operand, f)
	case ir.BinArith:
		walkArithValueTree(x.LHS, f)
		walkArithValueTree(x.RHS, f)
	case ir.ValueRef:
		walkValueTree(x.Value, f)
	}
}
