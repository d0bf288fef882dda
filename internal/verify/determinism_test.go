package verify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"srcsh/internal/config"
	"srcsh/internal/diag"
)

func TestVerify_S3StrictCatchesEnvRandom(t *testing.T) {
	cfg := config.Default().WithLevel(config.LevelStrict)
	src := `
#[entry]
fn main() -> int64 {
	let id = env("RANDOM");
	echo(id);
	return 0;
}
`
	prog := compile(t, src, cfg)
	diags := Verify(prog, cfg)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Code == diag.CodeNonDeterminism {
			found = true
		}
	}
	require.True(t, found, "env(\"RANDOM\") must raise DET-### at verify=strict")
}

func TestVerify_S3BasicEmitsWithoutDiagnostic(t *testing.T) {
	cfg := config.Default().WithLevel(config.LevelBasic)
	src := `
#[entry]
fn main() -> int64 {
	let id = env("RANDOM");
	echo(id);
	return 0;
}
`
	prog := compile(t, src, cfg)
	diags := Verify(prog, cfg)
	require.Empty(t, diags)
}

func TestVerify_OrdinaryEnvVarNotFlagged(t *testing.T) {
	cfg := config.Default().WithLevel(config.LevelStrict)
	src := `
#[entry]
fn main() -> int64 {
	let home = env("HOME");
	echo(home);
	return 0;
}
`
	prog := compile(t, src, cfg)
	diags := Verify(prog, cfg)
	for _, d := range diags {
		require.NotEqual(t, diag.CodeNonDeterminism, d.Code, "a deterministic env var must not be flagged")
	}
}
