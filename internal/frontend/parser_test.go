package frontend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"srcsh/internal/rast"
)

const sampleSource = `
#[entry]
fn main() -> int64 {
	let name = arg(1);
	if name == "" {
		eprint("missing name");
		exit(1);
	}
	let count = 0;
	for i in 0..3 {
		echo(name);
		count = count + 1;
	}
	return 0;
}
`

func TestParse_SampleProgram(t *testing.T) {
	prog, err := Parse("sample.src", sampleSource)
	require.NoError(t, err)
	require.Equal(t, "main", prog.Entry)
	require.Len(t, prog.Functions, 1)

	fn := prog.Functions[0]
	require.Equal(t, rast.Int64, fn.ReturnType.Kind)
	require.Len(t, fn.Body, 5)

	forStmt, ok := fn.Body[3].(*rast.ForInRangeStmt)
	require.True(t, ok)
	require.Equal(t, "i", forStmt.Var)
	require.False(t, forStmt.Range.Inclusive)
}

func TestParse_PrecedenceClimbing(t *testing.T) {
	src := `
fn main() -> int64 {
	let x = 1 + 2 * 3 == 7 && true;
	return 0;
}
`
	prog, err := Parse("prec.src", src)
	require.NoError(t, err)
	let := prog.Functions[0].Body[0].(*rast.LetStmt)

	and, ok := let.Value.(*rast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, rast.OpAnd, and.Op)

	eq, ok := and.LHS.(*rast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, rast.OpEq, eq.Op)

	add, ok := eq.LHS.(*rast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, rast.OpAdd, add.Op)

	mul, ok := add.RHS.(*rast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, rast.OpMul, mul.Op)
}

func TestParse_IfElseIfElse(t *testing.T) {
	src := `
fn main() -> int64 {
	if 1 == 1 {
		echo("one");
	} else if 2 == 2 {
		echo("two");
	} else {
		echo("other");
	}
	return 0;
}
`
	prog, err := Parse("ifelse.src", src)
	require.NoError(t, err)
	ifStmt := prog.Functions[0].Body[0].(*rast.IfStmt)
	require.Len(t, ifStmt.Else, 1)
	_, ok := ifStmt.Else[0].(*rast.IfStmt)
	require.True(t, ok)
}

func TestParse_RejectsEmptyProgram(t *testing.T) {
	_, err := Parse("empty.src", "")
	require.Error(t, err)
}
