package frontend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"srcsh/internal/rast"
)

// binaryPrecedence mirrors internal/parser's hand-written Pratt table
// (internal/parser/parser_pratt.go's binaryPrecedence map) exactly, since
// SrcLang keeps the same operator precedence as the teacher's language.
var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

var binOpKind = map[string]rast.BinOp{
	"+":  rast.OpAdd,
	"-":  rast.OpSub,
	"*":  rast.OpMul,
	"/":  rast.OpDiv,
	"%":  rast.OpMod,
	"==": rast.OpEq,
	"!=": rast.OpNe,
	"<":  rast.OpLt,
	"<=": rast.OpLe,
	">":  rast.OpGt,
	">=": rast.OpGe,
	"&&": rast.OpAnd,
	"||": rast.OpOr,
}

func toPos(p lexer.Position) rast.Position {
	return rast.Position{Line: p.Line, Column: p.Column}
}

// ToRAST converts the flat grammar tree produced by the participle parser
// into the nested restricted AST. Binary expressions are re-parsed here
// with precedence climbing over the grammar's flat Ops list, the same
// division of responsibility the teacher keeps between its grammar (flat
// list) and its hand-rolled Pratt parser (nesting).
func ToRAST(prog *Program) (*rast.Program, error) {
	out := &rast.Program{}
	var entry string
	for _, f := range prog.Functions {
		fn, err := convertFunction(f)
		if err != nil {
			return nil, err
		}
		out.Functions = append(out.Functions, fn)
		if f.EntryAttr {
			if entry != "" {
				return nil, fmt.Errorf("multiple #[entry] functions: %s and %s", entry, fn.Name)
			}
			entry = fn.Name
		}
	}
	if entry == "" && len(out.Functions) > 0 {
		entry = out.Functions[0].Name
	}
	out.Entry = entry
	return out, nil
}

func convertFunction(f *Function) (*rast.Function, error) {
	params := make([]rast.Param, 0, len(f.Params))
	for _, p := range f.Params {
		t, err := convertType(p.Type)
		if err != nil {
			return nil, err
		}
		params = append(params, rast.Param{Name: p.Name, Type: t})
	}
	ret := rast.Type{Kind: rast.Unit}
	if f.Return != nil {
		t, err := convertType(f.Return)
		if err != nil {
			return nil, err
		}
		ret = t
	}
	body, err := convertBlock(f.Body)
	if err != nil {
		return nil, err
	}
	return &rast.Function{Name: f.Name, Params: params, ReturnType: ret, Body: body}, nil
}

func convertType(t *Type) (rast.Type, error) {
	switch t.Name {
	case "unit":
		return rast.Type{Kind: rast.Unit}, nil
	case "bool":
		return rast.Type{Kind: rast.Bool}, nil
	case "int64":
		return rast.Type{Kind: rast.Int64}, nil
	case "string":
		return rast.Type{Kind: rast.String}, nil
	case "result":
		if t.Generic == nil {
			return rast.Type{}, fmt.Errorf("result<T> requires a type argument")
		}
		inner, err := convertType(t.Generic)
		if err != nil {
			return rast.Type{}, err
		}
		return rast.Type{Kind: rast.ResultType, Result: &inner}, nil
	default:
		return rast.Type{}, fmt.Errorf("unknown type %q", t.Name)
	}
}

func convertBlock(b *Block) ([]rast.Stmt, error) {
	out := make([]rast.Stmt, 0, len(b.Statements))
	for _, s := range b.Statements {
		if s.Comment != nil {
			continue
		}
		st, err := convertStmt(s)
		if err != nil {
			return nil, err
		}
		if st != nil {
			out = append(out, st)
		}
	}
	return out, nil
}

func convertStmt(s *Statement) (rast.Stmt, error) {
	switch {
	case s.LetStmt != nil:
		v, err := convertExpr(s.LetStmt.Value)
		if err != nil {
			return nil, err
		}
		return &rast.LetStmt{Name: s.LetStmt.Name, Value: v}, nil
	case s.AssignStmt != nil:
		v, err := convertExpr(s.AssignStmt.Value)
		if err != nil {
			return nil, err
		}
		return &rast.AssignStmt{Name: s.AssignStmt.Target, Value: v}, nil
	case s.IfStmt != nil:
		return convertIf(s.IfStmt)
	case s.WhileStmt != nil:
		cond, err := convertExpr(&s.WhileStmt.Cond)
		if err != nil {
			return nil, err
		}
		body, err := convertBlock(s.WhileStmt.Body)
		if err != nil {
			return nil, err
		}
		return &rast.WhileStmt{Cond: cond, Body: body}, nil
	case s.ForStmt != nil:
		return convertFor(s.ForStmt)
	case s.MatchStmt != nil:
		return convertMatch(s.MatchStmt)
	case s.ReturnStmt != nil:
		if s.ReturnStmt.Value == nil {
			return &rast.ReturnStmt{}, nil
		}
		v, err := convertExpr(s.ReturnStmt.Value)
		if err != nil {
			return nil, err
		}
		return &rast.ReturnStmt{Value: v}, nil
	case s.BreakStmt != nil:
		return &rast.BreakStmt{}, nil
	case s.ContinueStmt != nil:
		return &rast.ContinueStmt{}, nil
	case s.ExitStmt != nil:
		v, err := convertExpr(&s.ExitStmt.Code)
		if err != nil {
			return nil, err
		}
		return &rast.ExitStmt{Code: v}, nil
	case s.ExprStmt != nil:
		v, err := convertExpr(s.ExprStmt.Value)
		if err != nil {
			return nil, err
		}
		return &rast.ExprStmt{Value: v}, nil
	default:
		return nil, fmt.Errorf("empty statement")
	}
}

func convertIf(s *IfStmt) (rast.Stmt, error) {
	cond, err := convertExpr(&s.Cond)
	if err != nil {
		return nil, err
	}
	then, err := convertBlock(s.Then)
	if err != nil {
		return nil, err
	}
	out := &rast.IfStmt{Cond: cond, Then: then}
	if s.Else != nil {
		switch {
		case s.Else.If != nil:
			elseStmt, err := convertIf(s.Else.If)
			if err != nil {
				return nil, err
			}
			out.Else = []rast.Stmt{elseStmt}
		case s.Else.Block != nil:
			elseBody, err := convertBlock(s.Else.Block)
			if err != nil {
				return nil, err
			}
			out.Else = elseBody
		}
	}
	return out, nil
}

func convertFor(s *ForStmt) (rast.Stmt, error) {
	low, err := convertExpr(&s.Low)
	if err != nil {
		return nil, err
	}
	high, err := convertExpr(&s.High)
	if err != nil {
		return nil, err
	}
	body, err := convertBlock(s.Body)
	if err != nil {
		return nil, err
	}
	rng := rast.RangeExpr{Low: low, High: high, Inclusive: s.RangeOp == "..="}
	return &rast.ForInRangeStmt{Var: s.Var, Range: rng, Body: body}, nil
}

func convertMatch(s *MatchStmt) (rast.Stmt, error) {
	scrutinee, err := convertExpr(&s.Scrutinee)
	if err != nil {
		return nil, err
	}
	arms := make([]rast.MatchArm, 0, len(s.Arms))
	for _, a := range s.Arms {
		var pattern rast.Expr = &rast.Wildcard{}
		if !a.Wildcard && a.Pattern != nil {
			pattern, err = convertExpr(a.Pattern)
			if err != nil {
				return nil, err
			}
		}
		var guard rast.Expr
		if a.Guard != nil {
			guard, err = convertExpr(a.Guard)
			if err != nil {
				return nil, err
			}
		}
		body, err := convertBlock(a.Body)
		if err != nil {
			return nil, err
		}
		arms = append(arms, rast.MatchArm{Pattern: pattern, Guard: guard, Body: body})
	}
	return &rast.MatchStmt{Scrutinee: scrutinee, Arms: arms}, nil
}

// convertExpr re-parses the grammar's flat Left/Ops chain with precedence
// climbing, exactly as internal/parser's parsePrattExpr does over its own
// token stream. idx is threaded through a single shared cursor so nested
// calls consume from the same Ops slice as their caller.
func convertExpr(e *Expr) (rast.Expr, error) {
	left, err := convertUnary(e.Left)
	if err != nil {
		return nil, err
	}
	idx := 0
	return climb(left, e.Ops, &idx, 0)
}

// climb folds e.Ops[*idx:] into left, left to right, only admitting an
// operator whose precedence is at least minPrec; a lower-precedence
// operator is left unconsumed for the caller one level up to handle.
func climb(left rast.Expr, ops []*BinOp, idx *int, minPrec int) (rast.Expr, error) {
	for *idx < len(ops) {
		op := ops[*idx]
		prec, ok := binaryPrecedence[op.Operator]
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", op.Operator)
		}
		if prec < minPrec {
			return left, nil
		}
		*idx++
		right, err := convertUnary(op.Right)
		if err != nil {
			return nil, err
		}
		for *idx < len(ops) {
			nextPrec, ok := binaryPrecedence[ops[*idx].Operator]
			if !ok || nextPrec <= prec {
				break
			}
			right, err = climb(right, ops, idx, prec+1)
			if err != nil {
				return nil, err
			}
		}
		kind, ok := binOpKind[op.Operator]
		if !ok {
			return nil, fmt.Errorf("unsupported operator %q", op.Operator)
		}
		left = &rast.BinaryExpr{Op: kind, LHS: left, RHS: right}
	}
	return left, nil
}

func convertUnary(u *UnaryExpr) (rast.Expr, error) {
	operand, err := convertPrimary(u.Operand)
	if err != nil {
		return nil, err
	}
	if u.Operator == nil {
		return operand, nil
	}
	switch *u.Operator {
	case "-":
		return &rast.UnaryExpr{Op: rast.OpNeg, Operand: operand}, nil
	case "!":
		return &rast.UnaryExpr{Op: rast.OpNot, Operand: operand}, nil
	default:
		return nil, fmt.Errorf("unknown unary operator %q", *u.Operator)
	}
}

func convertPrimary(p *PrimaryExpr) (rast.Expr, error) {
	switch {
	case p.Call != nil:
		args := make([]rast.Expr, 0, len(p.Call.Args))
		for _, a := range p.Call.Args {
			ae, err := convertExpr(a)
			if err != nil {
				return nil, err
			}
			args = append(args, ae)
		}
		return &rast.CallExpr{Callee: p.Call.Callee, Args: args}, nil
	case p.Bool != nil:
		return &rast.BoolLit{Value: *p.Bool == "true"}, nil
	case p.Number != nil:
		n, err := strconv.ParseInt(*p.Number, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q: %w", *p.Number, err)
		}
		return &rast.IntLit{Value: n}, nil
	case p.Str != nil:
		return &rast.StringLit{Value: unquote(*p.Str)}, nil
	case p.Wildcard:
		return &rast.Wildcard{}, nil
	case p.Ident != nil:
		return &rast.Ident{Name: *p.Ident}, nil
	case p.Parens != nil:
		return convertExpr(p.Parens)
	default:
		return nil, fmt.Errorf("empty primary expression")
	}
}

// unquote strips the surrounding double quotes and resolves the small
// backslash-escape set the lexer's String rule admits (\\, \", \n, \t).
func unquote(lit string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(lit, `"`), `"`)
	var sb strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteByte(inner[i])
			}
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
