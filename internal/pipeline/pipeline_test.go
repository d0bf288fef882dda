package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"srcsh/internal/config"
)

const safeProgram = `
#[entry]
fn main() -> int64 {
	let name = arg(1);
	if name == "" {
		eprint("missing name");
		exit(1);
	}
	echo(name);
	return 0;
}
`

const dynamicExecProgram = `
#[entry]
fn main() -> int64 {
	let cmd = arg(1);
	exec(cmd);
	return 0;
}
`

func TestCompile_SafeProgramEmitsCleanScript(t *testing.T) {
	cfg := config.Default().WithLevel(config.LevelStrict)
	r := Compile("main.src", safeProgram, cfg)
	require.NotNil(t, r.Program)
	require.False(t, r.Diags.HasErrors())

	r.Verify(cfg)
	require.False(t, r.Diags.HasErrors())

	require.NoError(t, r.Emit(cfg))
	require.NotEmpty(t, r.Script)
}

func TestCompile_ParseErrorStopsBeforeLowering(t *testing.T) {
	cfg := config.Default()
	r := Compile("broken.src", "fn main( -> int64 {", cfg)
	require.Nil(t, r.Program)
	require.True(t, r.Diags.HasErrors())
}

func TestCompile_DynamicExecIsRejectedAtLowering(t *testing.T) {
	cfg := config.Default().WithLevel(config.LevelBasic)
	r := Compile("exec.src", dynamicExecProgram, cfg)
	require.Nil(t, r.Program, "exec() requires a literal command, never a runtime-supplied argument")
	require.True(t, r.Diags.HasErrors())
}

func TestResult_EmitFailsWhenAnEarlierStageReportedAnError(t *testing.T) {
	cfg := config.Default().WithLevel(config.LevelBasic)
	r := Compile("exec.src", dynamicExecProgram, cfg)
	r.Verify(cfg)
	require.Error(t, r.Emit(cfg))
	require.Empty(t, r.Script)
}

func TestResult_VerifyIsNoOpWithoutProgram(t *testing.T) {
	cfg := config.Default()
	r := Compile("broken.src", "fn main( -> int64 {", cfg)
	before := len(r.Diags)
	r.Verify(cfg)
	require.Len(t, r.Diags, before)
}
