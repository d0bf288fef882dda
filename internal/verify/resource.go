package verify

import (
	"srcsh/internal/config"
	"srcsh/internal/diag"
	"srcsh/internal/ir"
)

// checkResourceBounds implements the resource-bounded property: every
// While carries either a statically bounded test or a positive
// MaxIterations guard (or is a statically-false test, which never runs
// at all), and every For ranges over a statically known length within
// cfg.MaxRangeLength.
func checkResourceBounds(p *ir.Program, cfg config.Config, diags *diag.List) {
	for _, fn := range p.Functions {
		walkResourceBounds(fn.Body, cfg, diags)
	}
}

func walkResourceBounds(n ir.Node, cfg config.Config, diags *diag.List) {
	switch v := n.(type) {
	case ir.Sequence:
		for _, c := range v.Nodes {
			walkResourceBounds(c, cfg, diags)
		}
	case ir.If:
		walkResourceBounds(v.Then, cfg, diags)
		walkResourceBounds(v.Else, cfg, diags)
	case ir.While:
		bounded := v.MaxIterations > 0 || isLiteralBoundedTest(v.Test) || isStaticallyFalse(v.Test)
		if !bounded {
			diags.Errorf(diag.CodeUnboundedLoop, diag.Span{}, "while loop has no literal bound and no max_iterations guard")
		}
		walkResourceBounds(v.Body, cfg, diags)
	case ir.For:
		length, ok := staticRangeLength(v.Low, v.High, v.Inclusive)
		if !ok || length > cfg.MaxRangeLength {
			diags.Errorf(diag.CodeUnboundedRange, diag.Span{}, "for-range is not statically bounded within max_range_length=%d", cfg.MaxRangeLength)
		}
		walkResourceBounds(v.Body, cfg, diags)
	case ir.Case:
		for _, a := range v.Arms {
			walkResourceBounds(a.Body, cfg, diags)
		}
		walkResourceBounds(v.Default, cfg, diags)
	}
}

func isStaticallyFalse(v ir.ShellValue) bool {
	lit, ok := v.(ir.BoolLit)
	return ok && !lit.Value
}

// isLiteralBoundedTest treats a numeric comparison against a constant as
// statically bounded: a conservative structural check, not a dataflow
// proof that the compared variable actually converges, matching the same
// and-conjunction style of approximation classify's comparison
// classification already uses.
func isLiteralBoundedTest(v ir.ShellValue) bool {
	cmp, ok := v.(ir.Comparison)
	if !ok {
		return false
	}
	switch cmp.Op {
	case ir.NumLt, ir.NumLe, ir.NumGt, ir.NumGe:
		return isArithLiteralOperand(cmp.LHS) || isArithLiteralOperand(cmp.RHS)
	default:
		return false
	}
}

func isArithLiteralOperand(v ir.ShellValue) bool {
	arith, ok := v.(ir.Arith)
	if !ok {
		return false
	}
	return containsIntLit(arith.Expr)
}

func containsIntLit(e ir.ArithExpr) bool {
	switch x := e.(type) {
	case ir.IntLit:
		return true
	case ir.Neg:
		return containsIntLit(x.Operand)
	case ir.BinArith:
		return containsIntLit(x.LHS) || containsIntLit(x.RHS)
	default:
		return false
	}
}

func staticRangeLength(low, high ir.ShellValue, inclusive bool) (uint64, bool) {
	l, lok := literalArithValue(low)
	h, hok := literalArithValue(high)
	if !lok || !hok || h < l {
		return 0, false
	}
	length := h - l
	if inclusive {
		length++
	}
	return uint64(length), true
}

func literalArithValue(v ir.ShellValue) (int64, bool) {
	arith, ok := v.(ir.Arith)
	if !ok {
		return 0, false
	}
	return evalConstArith(arith.Expr)
}

func evalConstArith(e ir.ArithExpr) (int64, bool) {
	switch x := e.(type) {
	case ir.IntLit:
		return x.Value, true
	case ir.Neg:
		v, ok := evalConstArith(x.Operand)
		return -v, ok
	case ir.BinArith:
		l, lok := evalConstArith(x.LHS)
		r, rok := evalConstArith(x.RHS)
		if !lok || !rok {
			return 0, false
		}
		switch x.Op {
		case ir.Add:
			return l + r, true
		case ir.Sub:
			return l - r, true
		case ir.Mul:
			return l * r, true
		case ir.Div:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case ir.Mod:
			if r == 0 {
				return 0, false
			}
			return l % r, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}
