package proof

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"srcsh/internal/verify"
)

func allPassResults() verify.Results {
	return verify.Results{
		Invariants: []verify.Invariant{
			{Name: "no-injection", Passed: true, Witnesses: []string{"main"}},
			{Name: "deterministic", Passed: true, Witnesses: []string{"main"}},
			{Name: "idempotent", Passed: true, Witnesses: []string{"main"}},
			{Name: "resource-bounded", Passed: true, Witnesses: []string{"main"}},
		},
	}
}

func TestBuild_StampsVersionAndRunID(t *testing.T) {
	a := Build(allPassResults(), "11111111-1111-1111-1111-111111111111")
	require.Equal(t, 1, a.Version)
	require.Equal(t, "11111111-1111-1111-1111-111111111111", a.RunID)
	require.Len(t, a.Invariants, 4)
}

func TestArtifact_PassedTrueWhenEveryInvariantHolds(t *testing.T) {
	a := Build(allPassResults(), "run-1")
	require.True(t, a.Passed())
}

func TestArtifact_PassedFalseWhenAnyInvariantFails(t *testing.T) {
	results := allPassResults()
	results.Invariants[0] = verify.Invariant{Name: "no-injection", Passed: false, Witnesses: []string{"1:1"}}
	a := Build(results, "run-2")
	require.False(t, a.Passed())
}

func TestArtifact_MarshalRoundTrips(t *testing.T) {
	a := Build(allPassResults(), "run-3")
	data, err := a.Marshal()
	require.NoError(t, err)

	var decoded Artifact
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, a, decoded)
}

func TestBuild_IsPureGivenSameInputs(t *testing.T) {
	results := allPassResults()
	a1 := Build(results, "same-id")
	a2 := Build(results, "same-id")
	require.Equal(t, a1, a2)
}
