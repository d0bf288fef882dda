package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcsh/internal/config"
	"srcsh/internal/ir"
)

func programWith(body ir.Node) *ir.Program {
	fn := &ir.Function{Name: "main", Body: body}
	return &ir.Program{Functions: []*ir.Function{fn}, Entry: fn}
}

func TestOptimize_NoopWhenDisabled(t *testing.T) {
	p := programWith(ir.Exec{Cmd: ir.Command{Name: "mkdir", Args: []ir.ShellValue{ir.StringLit{Bytes: []byte("/tmp/app")}}}})
	cfg := config.Default()
	cfg.Optimize = false
	out := Optimize(p, cfg)
	assert.Same(t, p, out)
}

func TestOptimize_S4IdempotentMkdir(t *testing.T) {
	p := programWith(ir.Exec{Cmd: ir.Command{Name: "mkdir", Args: []ir.ShellValue{ir.StringLit{Bytes: []byte("/tmp/app")}}}})
	cfg := config.Default()
	cfg.Optimize = true
	out := Optimize(p, cfg)
	exec := out.Entry.Body.(ir.Exec)
	require.Len(t, exec.Cmd.Args, 2)
	flag := exec.Cmd.Args[0].(ir.StringLit)
	assert.Equal(t, "-p", string(flag.Bytes))
}

func TestOptimize_RmPreservesExplicitInteractiveFlag(t *testing.T) {
	p := programWith(ir.Exec{Cmd: ir.Command{Name: "rm", Args: []ir.ShellValue{
		ir.StringLit{Bytes: []byte("-i")}, ir.StringLit{Bytes: []byte("/tmp/x")},
	}}})
	cfg := config.Default()
	cfg.Optimize = true
	out := Optimize(p, cfg)
	exec := out.Entry.Body.(ir.Exec)
	flag := exec.Cmd.Args[0].(ir.StringLit)
	assert.Equal(t, "-i", string(flag.Bytes), "rm -i must never be rewritten to rm -f")
}

func TestOptimize_LnOnlyRewrittenWhenSymbolicFlagPresent(t *testing.T) {
	p := programWith(ir.Exec{Cmd: ir.Command{Name: "ln", Args: []ir.ShellValue{
		ir.StringLit{Bytes: []byte("/a")}, ir.StringLit{Bytes: []byte("/b")},
	}}})
	cfg := config.Default()
	cfg.Optimize = true
	out := Optimize(p, cfg)
	exec := out.Entry.Body.(ir.Exec)
	assert.Len(t, exec.Cmd.Args, 2, "ln without -s is a hardlink and must not gain -f")
}

func TestFold_ConstantArithmetic(t *testing.T) {
	e := ir.Arith{Expr: ir.BinArith{Op: ir.Add, LHS: ir.IntLit{Value: 2}, RHS: ir.IntLit{Value: 3}}}
	got := foldValue(e)
	arith := got.(ir.Arith)
	lit := arith.Expr.(ir.IntLit)
	assert.Equal(t, int64(5), lit.Value)
}

func TestFold_DivByZeroNotFolded(t *testing.T) {
	e := ir.Arith{Expr: ir.BinArith{Op: ir.Div, LHS: ir.IntLit{Value: 1}, RHS: ir.IntLit{Value: 0}}}
	got := foldValue(e).(ir.Arith)
	_, stillBin := got.Expr.(ir.BinArith)
	assert.True(t, stillBin, "division by a literal zero must be left for the shell to raise at runtime")
}

func TestFold_ConcatAdjacentLiteralsCollapse(t *testing.T) {
	c := ir.Concat{Parts: []ir.ShellValue{
		ir.StringLit{Bytes: []byte("foo")},
		ir.StringLit{Bytes: []byte("bar")},
		ir.Var{Name: "x"},
	}}
	got := foldValue(c).(ir.Concat)
	require.Len(t, got.Parts, 2)
	lit := got.Parts[0].(ir.StringLit)
	assert.Equal(t, "foobar", string(lit.Bytes))
}

func TestDCE_UnreferencedPureLetDropped(t *testing.T) {
	body := ir.Sequence{Nodes: []ir.Node{
		ir.Let{Name: "unused", Value: ir.StringLit{Bytes: []byte("x")}},
		ir.Exec{Cmd: ir.Command{Name: "echo", Args: []ir.ShellValue{ir.StringLit{Bytes: []byte("hi")}}}},
	}}
	p := programWith(body)
	cfg := config.Default()
	cfg.Optimize = true
	out := Optimize(p, cfg)
	seq := out.Entry.Body.(ir.Sequence)
	for _, n := range seq.Nodes {
		if let, ok := n.(ir.Let); ok {
			assert.Fail(t, "unused pure let should have been dropped", let)
		}
	}
}

func TestDCE_ReferencedLetKept(t *testing.T) {
	body := ir.Sequence{Nodes: []ir.Node{
		ir.Let{Name: "msg", Value: ir.StringLit{Bytes: []byte("x")}},
		ir.Exec{Cmd: ir.Command{Name: "echo", Args: []ir.ShellValue{ir.Var{Name: "msg"}}}},
	}}
	p := programWith(body)
	cfg := config.Default()
	cfg.Optimize = true
	out := Optimize(p, cfg)
	seq := out.Entry.Body.(ir.Sequence)
	found := false
	for _, n := range seq.Nodes {
		if let, ok := n.(ir.Let); ok && let.Name == "msg" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDCE_UnreachableElseBranchDroppedAfterFold(t *testing.T) {
	body := ir.Sequence{Nodes: []ir.Node{
		ir.If{
			Test: ir.BoolLit{Value: true},
			Then: ir.Exec{Cmd: ir.Command{Name: "echo", Args: []ir.ShellValue{ir.StringLit{Bytes: []byte("then")}}}},
			Else: ir.Exec{Cmd: ir.Command{Name: "echo", Args: []ir.ShellValue{ir.StringLit{Bytes: []byte("else")}}}},
		},
	}}
	p := programWith(body)
	cfg := config.Default()
	cfg.Optimize = true
	out := Optimize(p, cfg)
	seq := out.Entry.Body.(ir.Sequence)
	exec := seq.Nodes[0].(ir.Exec)
	lit := exec.Cmd.Args[0].(ir.StringLit)
	assert.Equal(t, "then", string(lit.Bytes))
}

func TestOptimize_FixpointTerminates(t *testing.T) {
	body := ir.Sequence{Nodes: []ir.Node{
		ir.Exec{Cmd: ir.Command{Name: "mkdir", Args: []ir.ShellValue{ir.StringLit{Bytes: []byte("/a")}}}},
		ir.Exec{Cmd: ir.Command{Name: "rm", Args: []ir.ShellValue{ir.StringLit{Bytes: []byte("/a")}}}},
	}}
	p := programWith(body)
	cfg := config.Default()
	cfg.Optimize = true
	// Running twice must be idempotent — a second Optimize call over an
	// already-stable program changes nothing further.
	once := Optimize(p, cfg)
	twice := Optimize(once, cfg)
	assert.Equal(t, ir.Print(once), ir.Print(twice))
}
