// Package lower turns a validated restricted AST into the shell IR
// (spec.md §4.3). It is grounded on internal/ir/ir.go's BuildProgram entry
// point for the overall "walk the validated tree once, building IR nodes
// bottom-up" shape, and on internal/semantic/analyzer_expression.go's type
// classification pass for the numeric-vs-string comparison rule this
// package generalizes (spec.md §4.3.1).
package lower

import (
	"strconv"

	"srcsh/internal/classify"
	"srcsh/internal/config"
	"srcsh/internal/diag"
	"srcsh/internal/ir"
	"srcsh/internal/rast"
)

// stdlibReturnKind records, for classification purposes only, whether a
// stdlib call's result should be treated as string- or numeric-typed when
// it appears as a comparison operand (spec.md §4.3.1). Calls not listed
// here are "unknown" and fall back to the conservative string form.
var stdlibReturnKind = map[string]typeKind{
	"env":          kindString,
	"env_var_or":   kindString,
	"arg":          kindString,
	"read_file":    kindString,
	"string_split": kindString,
	"array_join":   kindString,
	"arg_count":    kindNumeric,
	"exit_code":    kindNumeric,
}

type typeKind int

const (
	kindUnknown typeKind = iota
	kindString
	kindNumeric
)

// lowerer carries the per-invocation state lowering needs: the diagnostic
// accumulator, the configuration record, and the whitelist used to
// classify command names (spec.md §4.1 CommandName context).
type lowerer struct {
	cfg       config.Config
	diags     *diag.List
	whitelist *classify.Whitelist
	// effects accumulates each user function's transitive effect set as
	// the fixpoint over the call graph converges (spec.md §4.3.5).
	effects map[string]ir.Effects
	funcs   map[string]*rast.Function
}

// Lower is the package's sole entry point (SPEC_FULL.md §13).
func Lower(p *rast.Program, cfg config.Config) (*ir.Program, diag.List) {
	names := make([]string, 0, len(p.Functions))
	funcs := make(map[string]*rast.Function, len(p.Functions))
	for _, f := range p.Functions {
		names = append(names, f.Name)
		funcs[f.Name] = f
	}

	lw := &lowerer{
		cfg:       cfg,
		diags:     &diag.List{},
		whitelist: classify.NewWhitelist(names),
		effects:   make(map[string]ir.Effects, len(names)),
		funcs:     funcs,
	}

	for _, name := range names {
		lw.effects[name] = ir.Effects{}
	}
	lw.computeEffectsFixpoint()

	out := &ir.Program{}
	lowered := make(map[string]*ir.Function, len(names))
	for _, f := range p.Functions {
		fn := lw.lowerFunction(f)
		lowered[f.Name] = fn
		out.Functions = append(out.Functions, fn)
	}
	out.Entry = lowered[p.Entry]

	return out, *lw.diags
}

// computeEffectsFixpoint resolves each user function's transitive effect
// set over the call graph (spec.md §4.3.5). Bounded by the number of
// functions: that many passes suffices for any DAG (rast.Validate already
// rejects call-graph cycles), so this never needs the general fixpoint
// iteration cap the optimizer and purifier use.
func (lw *lowerer) computeEffectsFixpoint() {
	for i := 0; i < len(lw.funcs)+1; i++ {
		changed := false
		for name, fn := range lw.funcs {
			before := lw.effects[name]
			after := lw.functionEffects(fn)
			if !effectsEqual(before, after) {
				lw.effects[name] = after
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func effectsEqual(a, b ir.Effects) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// functionEffects computes the union of every command's classified
// effects and every callee's currently-known effects, reached anywhere in
// fn's body. It is re-run once per fixpoint pass; early passes may
// under-approximate a callee's effects, which is why computeEffectsFixpoint
// iterates until stable.
func (lw *lowerer) functionEffects(fn *rast.Function) ir.Effects {
	acc := ir.Effects{}
	var walkStmts func([]rast.Stmt)
	var walkExpr func(rast.Expr)
	walkExpr = func(e rast.Expr) {
		switch x := e.(type) {
		case *rast.BinaryExpr:
			walkExpr(x.LHS)
			walkExpr(x.RHS)
		case *rast.UnaryExpr:
			walkExpr(x.Operand)
		case *rast.RangeExpr:
			walkExpr(x.Low)
			walkExpr(x.High)
		case *rast.MatchExpr:
			walkExpr(x.Scrutinee)
			for _, a := range x.Arms {
				walkExpr(a.Value)
			}
		case *rast.CallExpr:
			for _, a := range x.Args {
				walkExpr(a)
			}
			if rast.IsStdlibName(x.Callee) {
				acc = ir.Union(acc, classify.Classify(stdlibCommandName(x.Callee)).Effects)
			} else if e, ok := lw.effects[x.Callee]; ok {
				acc = ir.Union(acc, e)
			}
		}
	}
	walkStmts = func(stmts []rast.Stmt) {
		for _, s := range stmts {
			switch x := s.(type) {
			case *rast.LetStmt:
				walkExpr(x.Value)
			case *rast.ExprStmt:
				walkExpr(x.Value)
			case *rast.AssignStmt:
				walkExpr(x.Value)
			case *rast.IfStmt:
				walkExpr(x.Cond)
				walkStmts(x.Then)
				walkStmts(x.Else)
			case *rast.WhileStmt:
				walkExpr(x.Cond)
				walkStmts(x.Body)
			case *rast.ForInRangeStmt:
				walkExpr(x.Range.Low)
				walkExpr(x.Range.High)
				walkStmts(x.Body)
			case *rast.MatchStmt:
				walkExpr(x.Scrutinee)
				for _, a := range x.Arms {
					if a.Guard != nil {
						walkExpr(a.Guard)
					}
					walkStmts(a.Body)
				}
			case *rast.ReturnStmt:
				if x.Value != nil {
					walkExpr(x.Value)
				}
			case *rast.ExitStmt:
				walkExpr(x.Code)
			}
		}
	}
	walkStmts(fn.Body)
	return acc
}

func (lw *lowerer) lowerFunction(f *rast.Function) *ir.Function {
	locals := make(map[string]rast.Type, len(f.Params))
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		locals[p.Name] = p.Type
		params = append(params, p.Name)
	}
	body := lw.lowerBlock(f.Body, locals)
	return &ir.Function{Name: f.Name, Params: params, Body: body}
}

func (lw *lowerer) lowerBlock(stmts []rast.Stmt, locals map[string]rast.Type) ir.Node {
	nodes := make([]ir.Node, 0, len(stmts))
	for _, s := range stmts {
		nodes = append(nodes, lw.lowerStmt(s, locals))
	}
	return ir.Sequence{Nodes: nodes}
}

func (lw *lowerer) lowerStmt(s rast.Stmt, locals map[string]rast.Type) ir.Node {
	switch x := s.(type) {
	case *rast.LetStmt:
		locals[x.Name] = lw.inferType(x.Value, locals)
		return ir.Let{Name: x.Name, Value: lw.lowerExpr(x.Value, locals)}
	case *rast.AssignStmt:
		locals[x.Name] = lw.inferType(x.Value, locals)
		return ir.Let{Name: x.Name, Value: lw.lowerExpr(x.Value, locals)}
	case *rast.ExprStmt:
		return lw.lowerExprStmt(x.Value, locals)
	case *rast.IfStmt:
		var elseNode ir.Node
		if x.Else != nil {
			elseNode = lw.lowerBlock(x.Else, locals)
		}
		return ir.If{
			Test: lw.lowerExpr(x.Cond, locals),
			Then: lw.lowerBlock(x.Then, locals),
			Else: elseNode,
		}
	case *rast.WhileStmt:
		maxIter := lw.cfg.MaxIterations
		if lit, ok := x.Cond.(*rast.BoolLit); ok && !lit.Value {
			maxIter = 0
		}
		return ir.While{
			Test:          lw.lowerExpr(x.Cond, locals),
			Body:          lw.lowerBlock(x.Body, locals),
			MaxIterations: maxIter,
		}
	case *rast.ForInRangeStmt:
		child := cloneLocals(locals)
		child[x.Var] = rast.Type{Kind: rast.Int64}
		return ir.For{
			Var:       x.Var,
			Low:       lw.lowerExpr(x.Range.Low, locals),
			High:      lw.lowerExpr(x.Range.High, locals),
			Inclusive: x.Range.Inclusive,
			Body:      lw.lowerBlock(x.Body, child),
		}
	case *rast.MatchStmt:
		return lw.lowerMatch(x, locals)
	case *rast.ReturnStmt:
		if x.Value == nil {
			return ir.Return{}
		}
		return ir.Return{Value: lw.lowerExpr(x.Value, locals)}
	case *rast.BreakStmt:
		return ir.Break{}
	case *rast.ContinueStmt:
		return ir.Continue{}
	case *rast.ExitStmt:
		return ir.Exit{Code: lw.lowerExpr(x.Code, locals)}
	default:
		lw.diags.Errorf(diag.CodeUnsupportedConstruct, diag.Span{}, "unsupported statement reached lowering")
		return ir.Noop{}
	}
}

// lowerExprStmt lowers a bare expression statement, special-casing stdlib
// and user calls used for effect rather than value (spec.md §4.3.4: "…or
// `Exec{…}` when used as a statement").
func (lw *lowerer) lowerExprStmt(e rast.Expr, locals map[string]rast.Type) ir.Node {
	call, ok := e.(*rast.CallExpr)
	if !ok {
		// A bare non-call expression statement has no side effect; it is
		// kept as a Noop rather than dropped here so the optimizer's DCE
		// pass (not lowering) owns removing it.
		_ = lw.lowerExpr(e, locals)
		return ir.Noop{}
	}
	if cmd, isExec := lw.lowerExecCommand(call, locals); isExec {
		return ir.Exec{Cmd: cmd, Effects: cmd.Effects}
	}
	if rast.IsStdlibName(call.Callee) {
		// A stdlib call with no Exec-shaped lowering is evaluated and kept
		// as a Noop, like a bare non-call expression above.
		_ = lw.lowerExpr(e, locals)
		return ir.Noop{}
	}
	// A user-function call used as a statement still runs for effect.
	return ir.Exec{Cmd: lw.lowerUserCallCommand(call, locals), Effects: lw.effects[call.Callee]}
}

func (lw *lowerer) lowerMatch(s *rast.MatchStmt, locals map[string]rast.Type) ir.Node {
	scrutinee := lw.lowerExpr(s.Scrutinee, locals)
	arms := make([]ir.CaseArm, 0, len(s.Arms))
	var defaultNode ir.Node
	sawWildcard := false
	for _, a := range s.Arms {
		body := lw.lowerBlock(a.Body, locals)
		if a.Guard != nil {
			body = ir.Sequence{Nodes: []ir.Node{ir.If{Test: lw.lowerExpr(a.Guard, locals), Then: body}}}
		}
		if _, isWildcard := a.Pattern.(*rast.Wildcard); isWildcard {
			sawWildcard = true
			defaultNode = body
			continue
		}
		arms = append(arms, ir.CaseArm{Pattern: lw.matchPattern(a.Pattern), Body: body})
	}
	if !sawWildcard {
		// No exhaustiveness check is made, for bounded types or any
		// other: every match without a wildcard arm gets a synthesized
		// default arm that exits 1 rather than falling through silently.
		defaultNode = ir.Exit{Code: ir.Arith{Expr: ir.IntLit{Value: 1}}}
	}
	return ir.Case{Scrutinee: scrutinee, Arms: arms, Default: defaultNode}
}

func (lw *lowerer) matchPattern(p rast.Expr) string {
	switch x := p.(type) {
	case *rast.StringLit:
		return x.Value
	case *rast.IntLit:
		return strconv.FormatInt(x.Value, 10)
	case *rast.BoolLit:
		if x.Value {
			return "true"
		}
		return "false"
	default:
		lw.diags.Errorf(diag.CodeUnsupportedConstruct, diag.Span{}, "unsupported match pattern shape")
		return "*"
	}
}

func cloneLocals(locals map[string]rast.Type) map[string]rast.Type {
	out := make(map[string]rast.Type, len(locals)+1)
	for k, v := range locals {
		out[k] = v
	}
	return out
}
