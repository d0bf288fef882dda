package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_Values(t *testing.T) {
	c := Default()
	require.Equal(t, uint32(10000), c.MaxIterations)
	require.Equal(t, 16, c.MaxFixIterations)
	require.NoError(t, c.Validate())
}

func TestWithLevel_OptimizeDefaults(t *testing.T) {
	require.False(t, Default().WithLevel(LevelNone).Optimize)
	require.False(t, Default().WithLevel(LevelBasic).Optimize)
	require.True(t, Default().WithLevel(LevelStrict).Optimize)
	require.True(t, Default().WithLevel(LevelParanoid).Optimize)
}

func TestFromMap_RejectsUnknownOption(t *testing.T) {
	_, err := FromMap(map[string]any{"bogus": true})
	require.ErrorIs(t, err, ErrUnknownOption)
}

func TestFromMap_AppliesOverrides(t *testing.T) {
	c, err := FromMap(map[string]any{
		"verify_level":    "paranoid",
		"max_iterations":  500,
		"unsafe_fixes":    []string{"DET002"},
	})
	require.NoError(t, err)
	require.Equal(t, LevelParanoid, c.VerifyLevel)
	require.True(t, c.Optimize)
	require.Equal(t, uint32(500), c.MaxIterations)
}

func TestIsUnsafeFix_DET002AlwaysUnsafe(t *testing.T) {
	c := Default()
	require.True(t, c.IsUnsafeFix("DET002"))
	require.False(t, c.IsUnsafeFix("IDP001"))
}

func TestParseDialect_AcceptsAllFourTargets(t *testing.T) {
	for _, s := range []string{"posix", "bash", "dash", "ash"} {
		d, err := ParseDialect(s)
		require.NoError(t, err)
		require.Equal(t, Dialect(s), d)
	}
	_, err := ParseDialect("zsh")
	require.ErrorIs(t, err, ErrUnknownOption)
}

func TestFromMap_AcceptsNonPOSIXTarget(t *testing.T) {
	c, err := FromMap(map[string]any{"target": "bash"})
	require.NoError(t, err)
	require.Equal(t, DialectBash, c.Target)
	require.NoError(t, c.Validate())
}
