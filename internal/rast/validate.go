package rast

import (
	"fmt"

	"srcsh/internal/diag"
	"srcsh/internal/escape"
)

// Validate checks every invariant spec.md §3/§4.2 requires before lowering:
// entry-function existence and reachability, call-graph acyclicity, name
// resolution, type-set closure, break/continue/return context, integer
// range, and UTF-8 validity. Diagnostics accumulate rather than stopping at
// the first failure; only Error-severity diagnostics halt the pipeline
// (spec.md §7 propagation policy), mirroring the teacher's
// Analyzer.Analyze two-pass accumulation.
func Validate(p *Program) diag.List {
	var d diag.List
	v := &validator{program: p, diags: &d, functions: make(map[string]*Function)}

	for _, fn := range p.Functions {
		if _, dup := v.functions[fn.Name]; dup {
			d.Errorf(diag.CodeFunctionRedef, pos(fn.Pos), "function %q is defined more than once", fn.Name)
			continue
		}
		v.functions[fn.Name] = fn
	}

	if p.Entry == "" {
		d.Errorf(diag.CodeMissingEntry, diag.Span{}, "program has no designated entry function")
	} else if _, ok := v.functions[p.Entry]; !ok {
		d.Errorf(diag.CodeMissingEntry, diag.Span{}, "entry function %q is not defined", p.Entry)
	}

	v.checkCallGraph()
	v.checkReachability()

	for _, fn := range p.Functions {
		v.validateFunction(fn)
	}

	d.Sort()
	return d
}

type validator struct {
	program   *Program
	diags     *diag.List
	functions map[string]*Function
}

func pos(p Position) diag.Span {
	return diag.Span{Line: p.Line, Column: p.Column, Length: 1}
}

// checkCallGraph builds the directed call graph and rejects any cycle,
// including self-recursion, as spec.md §3 requires (no direct or indirect
// recursion; call graph is a DAG rooted at entry).
func (v *validator) checkCallGraph() {
	graph := make(map[string][]string, len(v.functions))
	for name, fn := range v.functions {
		graph[name] = callees(fn)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(graph))
	var cyclePath []string
	var visit func(name string) bool
	visit = func(name string) bool {
		if color[name] == black {
			return false
		}
		if color[name] == gray {
			cyclePath = append(cyclePath, name)
			return true
		}
		color[name] = gray
		cyclePath = append(cyclePath, name)
		for _, callee := range graph[name] {
			if _, ok := graph[callee]; !ok {
				continue // not a user function (stdlib call); no edge
			}
			if visit(callee) {
				return true
			}
		}
		cyclePath = cyclePath[:len(cyclePath)-1]
		color[name] = black
		return false
	}

	seen := make(map[string]bool)
	for name := range graph {
		if color[name] != white {
			continue
		}
		cyclePath = nil
		if visit(name) {
			fn := v.functions[name]
			if !seen[name] {
				seen[name] = true
				v.diags.Errorf(diag.CodeRecursiveCallGraph, pos(fn.Pos),
					"call graph contains a cycle involving %q", name)
			}
		}
	}
}

func callees(fn *Function) []string {
	var out []string
	var walkExpr func(e Expr)
	walkExpr = func(e Expr) {
		switch x := e.(type) {
		case *CallExpr:
			out = append(out, x.Callee)
			for _, a := range x.Args {
				walkExpr(a)
			}
		case *BinaryExpr:
			walkExpr(x.LHS)
			walkExpr(x.RHS)
		case *UnaryExpr:
			walkExpr(x.Operand)
		case *RangeExpr:
			walkExpr(x.Low)
			walkExpr(x.High)
		case *MatchExpr:
			walkExpr(x.Scrutinee)
			for _, arm := range x.Arms {
				walkExpr(arm.Pattern)
				if arm.Guard != nil {
					walkExpr(arm.Guard)
				}
				walkExpr(arm.Value)
			}
		}
	}
	var walkStmts func(stmts []Stmt)
	walkStmts = func(stmts []Stmt) {
		for _, s := range stmts {
			switch x := s.(type) {
			case *LetStmt:
				walkExpr(x.Value)
			case *ExprStmt:
				walkExpr(x.Value)
			case *AssignStmt:
				walkExpr(x.Value)
			case *IfStmt:
				walkExpr(x.Cond)
				walkStmts(x.Then)
				walkStmts(x.Else)
			case *WhileStmt:
				walkExpr(x.Cond)
				walkStmts(x.Body)
			case *ForInRangeStmt:
				walkExpr(x.Range.Low)
				walkExpr(x.Range.High)
				walkStmts(x.Body)
			case *MatchStmt:
				walkExpr(x.Scrutinee)
				for _, arm := range x.Arms {
					walkExpr(arm.Pattern)
					if arm.Guard != nil {
						walkExpr(arm.Guard)
					}
					walkStmts(arm.Body)
				}
			case *ReturnStmt:
				if x.Value != nil {
					walkExpr(x.Value)
				}
			case *ExitStmt:
				walkExpr(x.Code)
			}
		}
	}
	walkStmts(fn.Body)
	return out
}

// checkReachability emits a Warn diagnostic for any function that is never
// called, directly or transitively, from the entry function.
func (v *validator) checkReachability() {
	if v.program.Entry == "" {
		return
	}
	reachable := map[string]bool{v.program.Entry: true}
	queue := []string{v.program.Entry}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		fn, ok := v.functions[name]
		if !ok {
			continue
		}
		for _, callee := range callees(fn) {
			if _, isUser := v.functions[callee]; isUser && !reachable[callee] {
				reachable[callee] = true
				queue = append(queue, callee)
			}
		}
	}
	for _, fn := range v.program.Functions {
		if !reachable[fn.Name] {
			v.diags.Warnf(diag.CodeUnreachableFunction, pos(fn.Pos), "function %q is never called", fn.Name)
		}
	}
}

func (v *validator) validateFunction(fn *Function) {
	scope := NewSymbolTable(nil)
	for _, p := range fn.Params {
		if !escape.IsValidIdentifier(p.Name) {
			v.diags.Errorf(diag.CodeInvalidIdentifier, pos(p.Pos), "parameter name %q is not a valid identifier", p.Name)
		}
		if !v.checkType(p.Type, p.Pos) {
			continue
		}
		scope.Define(&Symbol{Name: p.Name, Kind: SymbolParameter, Type: p.Type, Pos: p.Pos})
	}
	v.checkType(fn.ReturnType, fn.Pos)

	v.validateStmts(fn.Body, scope, false)

	for _, sym := range scope.Locals() {
		if sym.Kind == SymbolParameter && !sym.Used {
			v.diags.Infof(diag.CodeUnusedParameter, pos(sym.Pos), "parameter %q is never used", sym.Name)
		}
	}
}

func (v *validator) checkType(t Type, p Position) bool {
	switch t.Kind {
	case Unit, Bool, Int64, String:
		return true
	case ResultType:
		if t.Result == nil {
			v.diags.Errorf(diag.CodeTypeNotAllowed, pos(p), "result<T> is missing its inner type")
			return false
		}
		return v.checkType(*t.Result, p)
	default:
		v.diags.Errorf(diag.CodeTypeNotAllowed, pos(p), "type is outside the closed restricted-subset type set")
		return false
	}
}

// validateStmts walks one statement sequence in scope, tracking whether we
// are inside a loop for break/continue checks (spec.md: break/continue only
// inside a loop; return only inside a function — the latter is trivially
// true for every statement reachable from validateFunction).
func (v *validator) validateStmts(stmts []Stmt, scope *SymbolTable, inLoop bool) {
	for _, s := range stmts {
		switch x := s.(type) {
		case *LetStmt:
			v.validateExpr(x.Value, scope)
			if !escape.IsValidIdentifier(x.Name) {
				v.diags.Errorf(diag.CodeInvalidIdentifier, pos(x.Pos), "binding name %q is not a valid identifier", x.Name)
			}
			if scope.LookupLocal(x.Name) != nil {
				v.diags.Errorf(diag.CodeUnknownIdentifier, pos(x.Pos), "%q shadows an existing binding in the same block", x.Name)
			}
			scope.Define(&Symbol{Name: x.Name, Kind: SymbolVariable, Pos: x.Pos})
		case *ExprStmt:
			v.validateExpr(x.Value, scope)
		case *AssignStmt:
			v.validateExpr(x.Value, scope)
			if scope.Lookup(x.Name) == nil {
				v.diags.Errorf(diag.CodeUnknownIdentifier, pos(x.Pos), "assignment to undeclared name %q", x.Name)
			}
		case *IfStmt:
			v.validateExpr(x.Cond, scope)
			v.validateStmts(x.Then, scope.Child(), inLoop)
			if x.Else != nil {
				v.validateStmts(x.Else, scope.Child(), inLoop)
			}
		case *WhileStmt:
			v.validateExpr(x.Cond, scope)
			v.validateStmts(x.Body, scope.Child(), true)
		case *ForInRangeStmt:
			v.validateExpr(x.Range.Low, scope)
			v.validateExpr(x.Range.High, scope)
			inner := scope.Child()
			inner.Define(&Symbol{Name: x.Var, Kind: SymbolVariable, Type: Type{Kind: Int64}, Pos: x.Pos})
			v.validateStmts(x.Body, inner, true)
		case *MatchStmt:
			v.validateExpr(x.Scrutinee, scope)
			hasWildcard := false
			for _, arm := range x.Arms {
				v.validateExpr(arm.Pattern, scope)
				if _, ok := arm.Pattern.(*Wildcard); ok {
					hasWildcard = true
				}
				if arm.Guard != nil {
					v.validateExpr(arm.Guard, scope)
				}
				v.validateStmts(arm.Body, scope.Child(), inLoop)
			}
			if !hasWildcard {
				v.diags.Infof(diag.CodeUnknownIdentifier, pos(x.Pos),
					"match is not wildcard-terminated; a default arm returning an error will be synthesized")
			}
		case *ReturnStmt:
			if x.Value != nil {
				v.validateExpr(x.Value, scope)
			}
		case *BreakStmt:
			if !inLoop {
				v.diags.Errorf(diag.CodeBreakOutsideLoop, pos(x.Pos), "break outside a loop")
			}
		case *ContinueStmt:
			if !inLoop {
				v.diags.Errorf(diag.CodeBreakOutsideLoop, pos(x.Pos), "continue outside a loop")
			}
		case *ExitStmt:
			v.validateExpr(x.Code, scope)
		default:
			v.diags.Errorf(diag.CodeUnsupportedConstruct, diag.Span{}, "unsupported statement kind %T", s)
		}
	}
}

func (v *validator) validateExpr(e Expr, scope *SymbolTable) {
	switch x := e.(type) {
	case *BoolLit, *Wildcard:
		// no-op
	case *IntLit:
		if x.Value < minInt64Literal() || x.Value > maxInt64Literal() {
			v.diags.Errorf(diag.CodeIntegerOutOfRange, pos(x.Pos), "integer literal %d does not fit in signed 64 bits", x.Value)
		}
	case *StringLit:
		if !escape.ValidUTF8([]byte(x.Value)) {
			v.diags.Errorf(diag.CodeTypeNotAllowed, pos(x.Pos), "string literal is not valid UTF-8")
		}
	case *Ident:
		if sym := scope.Lookup(x.Name); sym == nil {
			v.diags.Errorf(diag.CodeUnknownIdentifier, pos(x.Pos), "undefined name %q", x.Name)
		} else {
			scope.MarkUsed(x.Name)
		}
	case *BinaryExpr:
		v.validateExpr(x.LHS, scope)
		v.validateExpr(x.RHS, scope)
	case *UnaryExpr:
		v.validateExpr(x.Operand, scope)
	case *RangeExpr:
		v.validateExpr(x.Low, scope)
		v.validateExpr(x.High, scope)
	case *CallExpr:
		_, isUser := v.functions[x.Callee]
		isStdlib := IsStdlibName(x.Callee)
		if !isUser && !isStdlib {
			v.diags.Errorf(diag.CodeUnknownFunction, pos(x.Pos), "call to undefined function %q", x.Callee)
		}
		if isStdlib {
			sig := StdlibFunctions[x.Callee]
			if len(x.Args) < sig.MinArgs || (sig.MaxArgs >= 0 && len(x.Args) > sig.MaxArgs) {
				v.diags.Errorf(diag.CodeArityMismatch, pos(x.Pos),
					"%s expects between %d and %d arguments, got %d", x.Callee, sig.MinArgs, sig.MaxArgs, len(x.Args))
			}
		}
		for _, a := range x.Args {
			v.validateExpr(a, scope)
		}
	case *MatchExpr:
		v.validateExpr(x.Scrutinee, scope)
		for _, arm := range x.Arms {
			v.validateExpr(arm.Pattern, scope)
			if arm.Guard != nil {
				v.validateExpr(arm.Guard, scope)
			}
			v.validateExpr(arm.Value, scope)
		}
	default:
		v.diags.Errorf(diag.CodeUnsupportedConstruct, diag.Span{}, "unsupported expression kind %T", e)
	}
}

func minInt64Literal() int64 { return -9223372036854775808 }
func maxInt64Literal() int64 { return 9223372036854775807 }

// FormatType is a small helper used by diagnostics and the emitter's debug
// output to render a Type consistently.
func FormatType(t Type) string {
	if t.Kind == ResultType && t.Result != nil {
		return fmt.Sprintf("result<%s>", FormatType(*t.Result))
	}
	return t.Kind.String()
}
