package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"srcsh/internal/ir"
)

func TestClassify_KnownCommands(t *testing.T) {
	cases := []struct {
		name string
		want ir.EffectKind
	}{
		{"echo", ir.Pure},
		{"printf", ir.Pure},
		{"mkdir", ir.WriteFile},
		{"rm", ir.WriteFile},
		{"curl", ir.NetworkAccess},
		{"wget", ir.NetworkAccess},
		{"date", ir.NonDeterministic},
		{"cat", ir.ReadFile},
	}
	for _, c := range cases {
		got := Classify(c.name)
		assert.True(t, got.Effects[c.want], "%s should carry %v", c.name, c.want)
	}
}

func TestClassify_UnknownDefaultsToProcessSpawn(t *testing.T) {
	got := Classify("some-unknown-binary")
	assert.True(t, got.Effects[ir.ProcessSpawn])
	assert.False(t, got.Effects[ir.Pure])
}

func TestClassify_TouchIsIdempotent(t *testing.T) {
	got := Classify("touch")
	assert.True(t, got.Idempotent)
}

func TestIdempotentFlags(t *testing.T) {
	assert.Equal(t, []string{"-p"}, IdempotentFlags("mkdir"))
	assert.Equal(t, []string{"-f"}, IdempotentFlags("rm"))
	assert.Nil(t, IdempotentFlags("curl"))
}

func TestWhitelist_AllowsPosixUtilitiesAndUserFunctions(t *testing.T) {
	w := NewWhitelist([]string{"my_helper"})
	assert.True(t, w.Allowed("echo"))
	assert.True(t, w.Allowed("mkdir"))
	assert.True(t, w.Allowed("my_helper"))
	assert.False(t, w.Allowed("rm_rf_everything"))
}

func TestWhitelist_CaseSensitive(t *testing.T) {
	w := NewWhitelist(nil)
	assert.True(t, w.Allowed("echo"))
	assert.False(t, w.Allowed("Echo"))
	assert.False(t, w.Allowed("ECHO"))
}

func TestIsKnownUtility(t *testing.T) {
	assert.True(t, IsKnownUtility("seq"))
	assert.False(t, IsKnownUtility("custom_fn"))
}
