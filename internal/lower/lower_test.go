package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcsh/internal/config"
	"srcsh/internal/ir"
	"srcsh/internal/rast"
)

func lowerMain(t *testing.T, body []rast.Stmt) *ir.Program {
	t.Helper()
	p := &rast.Program{
		Entry:     "main",
		Functions: []*rast.Function{{Name: "main", Body: body}},
	}
	out, diags := Lower(p, config.Default())
	require.False(t, diags.HasErrors(), "unexpected lowering diagnostics: %v", diags)
	return out
}

func TestLower_Hello(t *testing.T) {
	prog := lowerMain(t, []rast.Stmt{
		&rast.ExprStmt{Value: &rast.CallExpr{Callee: "echo", Args: []rast.Expr{&rast.StringLit{Value: "Hello"}}}},
	})
	seq, ok := prog.Entry.Body.(ir.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Nodes, 1)
	exec, ok := seq.Nodes[0].(ir.Exec)
	require.True(t, ok)
	assert.Equal(t, "echo", exec.Cmd.Name)
	lit, ok := exec.Cmd.Args[0].(ir.StringLit)
	require.True(t, ok)
	assert.Equal(t, "Hello", string(lit.Bytes))
	assert.True(t, exec.Effects.IsPure())
}

func TestLower_EnvVarOrDefault(t *testing.T) {
	prog := lowerMain(t, []rast.Stmt{
		&rast.LetStmt{Name: "p", Value: &rast.CallExpr{Callee: "env_var_or", Args: []rast.Expr{
			&rast.StringLit{Value: "PREFIX"}, &rast.StringLit{Value: "/usr/local"},
		}}},
	})
	seq := prog.Entry.Body.(ir.Sequence)
	let := seq.Nodes[0].(ir.Let)
	assert.Equal(t, "p", let.Name)
	ev, ok := let.Value.(ir.EnvVar)
	require.True(t, ok)
	assert.Equal(t, "PREFIX", ev.Name)
	require.NotNil(t, ev.Default)
}

func TestLower_ComparisonStringLiteralRHS(t *testing.T) {
	// S5: x is typed string (a function parameter); comparing it against
	// "123.5" must still classify as StrEq, never NumEq.
	p := &rast.Program{
		Entry: "main",
		Functions: []*rast.Function{{
			Name:   "main",
			Params: []rast.Param{{Name: "x", Type: rast.Type{Kind: rast.String}}},
			Body: []rast.Stmt{
				&rast.IfStmt{
					Cond: &rast.BinaryExpr{Op: rast.OpEq, LHS: &rast.Ident{Name: "x"}, RHS: &rast.StringLit{Value: "123.5"}},
					Then: []rast.Stmt{&rast.ExprStmt{Value: &rast.CallExpr{Callee: "echo", Args: []rast.Expr{&rast.StringLit{Value: "yes"}}}}},
				},
			},
		}},
	}
	out, diags := Lower(p, config.Default())
	require.False(t, diags.HasErrors())
	seq := out.Entry.Body.(ir.Sequence)
	ifNode := seq.Nodes[0].(ir.If)
	cmp, ok := ifNode.Test.(ir.Comparison)
	require.True(t, ok)
	assert.Equal(t, ir.StrEq, cmp.Op, "mutating the and-conjunction to or would mis-type this as NumEq")
}

func TestLower_ComparisonBothNumericLiterals(t *testing.T) {
	prog := lowerMain(t, []rast.Stmt{
		&rast.IfStmt{
			Cond: &rast.BinaryExpr{Op: rast.OpEq, LHS: &rast.IntLit{Value: 1}, RHS: &rast.IntLit{Value: 1}},
			Then: []rast.Stmt{&rast.ExitStmt{Code: &rast.IntLit{Value: 0}}},
		},
	})
	seq := prog.Entry.Body.(ir.Sequence)
	ifNode := seq.Nodes[0].(ir.If)
	cmp := ifNode.Test.(ir.Comparison)
	assert.Equal(t, ir.NumEq, cmp.Op)
}

func TestLower_NegativeIntLiteralUsesArithNeg(t *testing.T) {
	prog := lowerMain(t, []rast.Stmt{
		&rast.LetStmt{Name: "n", Value: &rast.UnaryExpr{Op: rast.OpNeg, Operand: &rast.IntLit{Value: 5}}},
	})
	seq := prog.Entry.Body.(ir.Sequence)
	let := seq.Nodes[0].(ir.Let)
	arith, ok := let.Value.(ir.Arith)
	require.True(t, ok)
	neg, ok := arith.Expr.(ir.Neg)
	require.True(t, ok)
	inner, ok := neg.Operand.(ir.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(5), inner.Value)
}

func TestLower_ForRangeExclusiveAndInclusive(t *testing.T) {
	prog := lowerMain(t, []rast.Stmt{
		&rast.ForInRangeStmt{Var: "i", Range: rast.RangeExpr{Low: &rast.IntLit{Value: 0}, High: &rast.IntLit{Value: 3}}, Body: nil},
		&rast.ForInRangeStmt{Var: "j", Range: rast.RangeExpr{Low: &rast.IntLit{Value: 0}, High: &rast.IntLit{Value: 3}, Inclusive: true}, Body: nil},
	})
	seq := prog.Entry.Body.(ir.Sequence)
	f1 := seq.Nodes[0].(ir.For)
	assert.False(t, f1.Inclusive)
	f2 := seq.Nodes[1].(ir.For)
	assert.True(t, f2.Inclusive)
}

func TestLower_WhileLiteralFalseNeedsNoGuard(t *testing.T) {
	prog := lowerMain(t, []rast.Stmt{
		&rast.WhileStmt{Cond: &rast.BoolLit{Value: false}, Body: nil},
	})
	seq := prog.Entry.Body.(ir.Sequence)
	w := seq.Nodes[0].(ir.While)
	assert.Equal(t, uint32(0), w.MaxIterations)
}

func TestLower_WhileNonLiteralGetsConfiguredGuard(t *testing.T) {
	p := &rast.Program{
		Entry: "main",
		Functions: []*rast.Function{{
			Name:   "main",
			Params: []rast.Param{{Name: "done", Type: rast.Type{Kind: rast.Bool}}},
			Body: []rast.Stmt{
				&rast.WhileStmt{Cond: &rast.UnaryExpr{Op: rast.OpNot, Operand: &rast.Ident{Name: "done"}}, Body: nil},
			},
		}},
	}
	cfg := config.Default()
	out, diags := Lower(p, cfg)
	require.False(t, diags.HasErrors())
	seq := out.Entry.Body.(ir.Sequence)
	w := seq.Nodes[0].(ir.While)
	assert.Equal(t, cfg.MaxIterations, w.MaxIterations)
}

func TestLower_MatchWithoutWildcardSynthesizesErrorDefault(t *testing.T) {
	prog := lowerMain(t, []rast.Stmt{
		&rast.MatchStmt{
			Scrutinee: &rast.StringLit{Value: "a"},
			Arms: []rast.MatchArm{
				{Pattern: &rast.StringLit{Value: "a"}, Body: []rast.Stmt{&rast.ExitStmt{Code: &rast.IntLit{Value: 0}}}},
			},
		},
	})
	seq := prog.Entry.Body.(ir.Sequence)
	c := seq.Nodes[0].(ir.Case)
	require.NotNil(t, c.Default)
	require.Len(t, c.Arms, 1)
	assert.Equal(t, "a", c.Arms[0].Pattern)
}

func TestLower_MatchWildcardBecomesDefault(t *testing.T) {
	prog := lowerMain(t, []rast.Stmt{
		&rast.MatchStmt{
			Scrutinee: &rast.StringLit{Value: "a"},
			Arms: []rast.MatchArm{
				{Pattern: &rast.StringLit{Value: "a"}, Body: []rast.Stmt{&rast.ExitStmt{Code: &rast.IntLit{Value: 0}}}},
				{Pattern: &rast.Wildcard{}, Body: []rast.Stmt{&rast.ExitStmt{Code: &rast.IntLit{Value: 1}}}},
			},
		},
	})
	seq := prog.Entry.Body.(ir.Sequence)
	c := seq.Nodes[0].(ir.Case)
	require.Len(t, c.Arms, 1)
	require.NotNil(t, c.Default)
}

func TestLower_UserFunctionCallAsValueBecomesCmdSub(t *testing.T) {
	p := &rast.Program{
		Entry: "main",
		Functions: []*rast.Function{
			{Name: "main", Body: []rast.Stmt{
				&rast.LetStmt{Name: "r", Value: &rast.CallExpr{Callee: "helper"}},
			}},
			{Name: "helper", Body: []rast.Stmt{&rast.ReturnStmt{Value: &rast.StringLit{Value: "ok"}}}},
		},
	}
	out, diags := Lower(p, config.Default())
	require.False(t, diags.HasErrors())
	seq := out.Entry.Body.(ir.Sequence)
	let := seq.Nodes[0].(ir.Let)
	cmdSub, ok := let.Value.(ir.CmdSub)
	require.True(t, ok)
	assert.Equal(t, "helper", cmdSub.Command.Name)
}

func TestLower_TransitiveEffectsPropagateThroughCallGraph(t *testing.T) {
	p := &rast.Program{
		Entry: "main",
		Functions: []*rast.Function{
			{Name: "main", Body: []rast.Stmt{
				&rast.ExprStmt{Value: &rast.CallExpr{Callee: "writer"}},
			}},
			{Name: "writer", Body: []rast.Stmt{
				&rast.ExprStmt{Value: &rast.CallExpr{Callee: "mkdir_p", Args: []rast.Expr{&rast.StringLit{Value: "/tmp/app"}}}},
			}},
		},
	}
	out, diags := Lower(p, config.Default())
	require.False(t, diags.HasErrors())
	seq := out.Entry.Body.(ir.Sequence)
	exec := seq.Nodes[0].(ir.Exec)
	assert.True(t, exec.Effects.Has(ir.WriteFile), "main's call to writer must carry writer's transitive WriteFile effect")
}

func TestLower_ExecOfUnwhitelistedCommandReportsUnsafeCommand(t *testing.T) {
	prog := &rast.Program{
		Entry: "main",
		Functions: []*rast.Function{{Name: "main", Body: []rast.Stmt{
			&rast.ExprStmt{Value: &rast.CallExpr{Callee: "exec", Args: []rast.Expr{&rast.StringLit{Value: "some_arbitrary_binary --flag"}}}},
		}}},
	}
	_, diags := Lower(prog, config.Default())
	require.True(t, diags.HasErrors())
}

func TestLower_ArgNegativePositionRejected(t *testing.T) {
	prog := &rast.Program{
		Entry: "main",
		Functions: []*rast.Function{{Name: "main", Body: []rast.Stmt{
			&rast.LetStmt{Name: "a", Value: &rast.CallExpr{Callee: "arg", Args: []rast.Expr{&rast.IntLit{Value: 0}}}},
		}}},
	}
	_, diags := Lower(prog, config.Default())
	require.True(t, diags.HasErrors())
}
