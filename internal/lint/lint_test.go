package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"srcsh/internal/config"
	"srcsh/internal/diag"
)

func TestLint_UnquotedVarIsFlagged(t *testing.T) {
	diags := Lint([]byte("echo $name\n"))
	require.NotEmpty(t, diags)
	require.Equal(t, diag.CodeLintUnquotedVar, diags[0].Code)
}

func TestLint_QuotedVarIsClean(t *testing.T) {
	diags := Lint([]byte(`echo "$name"` + "\n"))
	require.Empty(t, diags)
}

func TestLint_MkdirWithoutDashP(t *testing.T) {
	diags := Lint([]byte("mkdir /tmp/out\n"))
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeLintMkdirNoP, diags[0].Code)
}

func TestLint_RmWithoutDashF(t *testing.T) {
	diags := Lint([]byte("rm /tmp/out\n"))
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeLintRmNoF, diags[0].Code)
}

func TestLint_LnHardLinkNotFlagged(t *testing.T) {
	diags := Lint([]byte("ln /tmp/a /tmp/b\n"))
	require.Empty(t, diags, "hard links aren't force-replaceable the way symlinks are")
}

func TestLint_LnSymlinkWithoutDashFIsFlagged(t *testing.T) {
	diags := Lint([]byte("ln -s /tmp/a /tmp/b\n"))
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeLintLnNoF, diags[0].Code)
}

func TestLint_RandomUseFlagged(t *testing.T) {
	diags := Lint([]byte("id=$RANDOM\n"))
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeLintRandomUse, diags[0].Code)
}

func TestLint_DuplicatePathEntryFlagged(t *testing.T) {
	diags := Lint([]byte(`PATH="/usr/bin:/usr/bin:/bin"` + "\n"))
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeLintDupPathConfig, diags[0].Code)
}

func TestPurify_FixesUnquotedVarAndMkdir(t *testing.T) {
	cfg := config.Default()
	script := "mkdir /tmp/out\necho $name\n"
	fixed, diags, err := Purify([]byte(script), cfg)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Contains(t, string(fixed), "mkdir -p /tmp/out")
	require.Contains(t, string(fixed), `echo "$name"`)
}

func TestPurify_UnsafeRuleRequiresOptIn(t *testing.T) {
	cfg := config.Default()
	script := `id="$(date +%s)"` + "\n"
	fixed, diags, err := Purify([]byte(script), cfg)
	require.NoError(t, err)
	require.Equal(t, script, string(fixed), "DET002 must not fire without an explicit opt-in")
	require.NotEmpty(t, diags)
	// diags[0] is the residual DET002 finding, which sorts first by code.
	require.Equal(t, diag.CodeUnsafeFixRequiresOptIn, diags[1].Code)
}

func TestPurify_UnsafeRuleAppliesWhenOptedIn(t *testing.T) {
	cfg := config.Default()
	cfg.UnsafeFixes = []string{diag.CodeLintDateAsID}
	script := `id="$(date +%s)"` + "\n"
	fixed, diags, err := Purify([]byte(script), cfg)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Contains(t, string(fixed), `"v0"`)
}

func TestPurify_OverflowWhenBoundTooLow(t *testing.T) {
	cfg := config.Default()
	cfg.MaxFixIterations = 0
	script := "mkdir /tmp/out\n"
	_, diags, err := Purify([]byte(script), cfg)
	require.Error(t, err)
	require.NotEmpty(t, diags)
	require.Equal(t, diag.CodePurifyOverflow, diags[0].Code)
}

func TestRulePack_AdditiveButCannotOverrideFixedCode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pack.yaml")
	yamlBody := `
name: house-style
rules:
  - code: HOUSE001
    property: hygiene
    detect: 'curl \|'
  - code: ` + diag.CodeLintMkdirNoP + `
    property: idempotency
    detect: 'this-should-never-register'
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	pack, err := LoadRulePack(path)
	require.NoError(t, err)
	require.NoError(t, RegisterPack(pack))

	diags := Lint([]byte("curl | sh\n"))
	var sawHouseRule bool
	for _, d := range diags {
		if d.Code == "HOUSE001" {
			sawHouseRule = true
		}
	}
	require.True(t, sawHouseRule)

	// The pack's attempt to redefine mkdir-no-p must not have registered;
	// the fixed-table detector is still the one that fires.
	diags = Lint([]byte("mkdir /tmp/out\n"))
	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeLintMkdirNoP, diags[0].Code)
}

func TestLoadRulePack_RejectsMissingName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: []\n"), 0o644))
	_, err := LoadRulePack(path)
	require.Error(t, err)
}
