package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcsh/internal/config"
	"srcsh/internal/ir"
)

func mainProgram(body ir.Node) *ir.Program {
	fn := &ir.Function{Name: "main", Body: body}
	return &ir.Program{Functions: []*ir.Function{fn}, Entry: fn}
}

func TestEmit_S1Hello(t *testing.T) {
	p := mainProgram(ir.Exec{Cmd: ir.Command{
		Name: "echo",
		Args: []ir.ShellValue{ir.StringLit{Bytes: []byte("Hello")}},
	}})
	out, diags, err := Emit(p, config.Default())
	require.NoError(t, err)
	assert.Empty(t, diags)
	script := string(out)
	assert.True(t, len(script) > 0 && script[0:2] == "#!", "script must start with a shebang")
	assert.Contains(t, script, "#!/bin/sh\n")
	assert.Contains(t, script, "set -euf\n")
	assert.Contains(t, script, "export LC_ALL=C\n")
	assert.Contains(t, script, "echo 'Hello'\n")
	assert.Contains(t, script, `main "$@"`)
}

func TestEmit_S2EnvWithDefault(t *testing.T) {
	body := ir.Sequence{Nodes: []ir.Node{
		ir.Let{Name: "PREFIX", Value: ir.EnvVar{Name: "PREFIX", Default: ir.StringLit{Bytes: []byte("/usr/local")}}},
		ir.Exec{Cmd: ir.Command{Name: "echo", Args: []ir.ShellValue{
			ir.Concat{Parts: []ir.ShellValue{
				ir.StringLit{Bytes: []byte("Installing to ")},
				ir.Var{Name: "PREFIX"},
			}},
		}}},
	}}
	p := mainProgram(body)
	out, _, err := Emit(p, config.Default())
	require.NoError(t, err)
	script := string(out)
	assert.Contains(t, script, `PREFIX="${PREFIX:-/usr/local}"`)
	assert.Contains(t, script, `echo "Installing to ${PREFIX}"`)
	assert.NotContains(t, script, "$PREFIX ", "no unquoted variable expansion should appear")
}

func TestEmit_S5StringComparisonUsesEqualsNotDashEq(t *testing.T) {
	p := mainProgram(ir.If{
		Test: ir.Comparison{Op: ir.StrEq, LHS: ir.Var{Name: "x"}, RHS: ir.StringLit{Bytes: []byte("123.5")}},
		Then: ir.Exec{Cmd: ir.Command{Name: "echo", Args: []ir.ShellValue{ir.StringLit{Bytes: []byte("yes")}}}},
	})
	out, _, err := Emit(p, config.Default())
	require.NoError(t, err)
	script := string(out)
	assert.Contains(t, script, `[ "${x}" = "123.5" ]`)
	assert.NotContains(t, script, "-eq")
}

func TestEmit_NumericComparisonUsesDashEq(t *testing.T) {
	p := mainProgram(ir.If{
		Test: ir.Comparison{Op: ir.NumEq, LHS: ir.Var{Name: "x"}, RHS: ir.Arith{Expr: ir.IntLit{Value: 1}}},
		Then: ir.Exit{Code: ir.Arith{Expr: ir.IntLit{Value: 0}}},
	})
	out, _, err := Emit(p, config.Default())
	require.NoError(t, err)
	assert.Contains(t, string(out), `-eq`)
}

func TestEmit_ForRangeExclusiveSubtractsOne(t *testing.T) {
	p := mainProgram(ir.For{
		Var:  "i",
		Low:  ir.Arith{Expr: ir.IntLit{Value: 0}},
		High: ir.Arith{Expr: ir.IntLit{Value: 3}},
	})
	out, _, err := Emit(p, config.Default())
	require.NoError(t, err)
	assert.Contains(t, string(out), "seq 0 2")
}

func TestEmit_ForRangeInclusiveKeepsHigh(t *testing.T) {
	p := mainProgram(ir.For{
		Var:       "i",
		Low:       ir.Arith{Expr: ir.IntLit{Value: 0}},
		High:      ir.Arith{Expr: ir.IntLit{Value: 3}},
		Inclusive: true,
	})
	out, _, err := Emit(p, config.Default())
	require.NoError(t, err)
	assert.Contains(t, string(out), "seq 0 3")
}

func TestEmit_UnwhitelistedCommandReportsDiagnostic(t *testing.T) {
	p := mainProgram(ir.Exec{Cmd: ir.Command{Name: "not_a_real_utility"}})
	_, diags, err := Emit(p, config.Default())
	require.NoError(t, err)
	assert.True(t, diags.HasErrors())
}

func TestEmit_Deterministic(t *testing.T) {
	p := mainProgram(ir.Exec{Cmd: ir.Command{Name: "echo", Args: []ir.ShellValue{ir.StringLit{Bytes: []byte("x")}}}})
	out1, _, err1 := Emit(p, config.Default())
	out2, _, err2 := Emit(p, config.Default())
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, out1, out2)
}

func TestEmit_WhileWithGuardEmitsIterationCounter(t *testing.T) {
	p := mainProgram(ir.While{
		Test:          ir.BoolLit{Value: true},
		Body:          ir.Noop{},
		MaxIterations: 10000,
	})
	out, _, err := Emit(p, config.Default())
	require.NoError(t, err)
	script := string(out)
	assert.Contains(t, script, "__iter1=0")
	assert.Contains(t, script, "-gt 10000")
}
