// Package proof serializes a verifier run into the stable, versioned
// artifact spec.md §7 requires ("format-stability... version field is
// bumped on any schema change"). It supplements the core schema with a
// run_id envelope field (SPEC_FULL.md §12), generated once at the CLI
// boundary and threaded in rather than produced inside this package, so
// Build itself stays a pure function of its inputs.
package proof

import (
	"encoding/json"

	"srcsh/internal/verify"
)

// schemaVersion is bumped whenever Artifact's shape changes, independent
// of the transpiler's own release version.
const schemaVersion = 1

// Artifact is the proof document: which invariants held, and what
// witnessed each one.
type Artifact struct {
	Version    int         `json:"version"`
	RunID      string      `json:"run_id"`
	Invariants []Invariant `json:"invariants"`
}

// Invariant mirrors verify.Invariant in the artifact's public JSON shape,
// kept as a distinct type so a change to verify's internal Results
// representation doesn't silently reshape the serialized schema.
type Invariant struct {
	Name      string   `json:"name"`
	Passed    bool     `json:"passed"`
	Witnesses []string `json:"witnesses"`
}

// Build converts a verifier Results into a proof Artifact stamped with
// runID.
func Build(results verify.Results, runID string) Artifact {
	invariants := make([]Invariant, len(results.Invariants))
	for i, inv := range results.Invariants {
		invariants[i] = Invariant{Name: inv.Name, Passed: inv.Passed, Witnesses: inv.Witnesses}
	}
	return Artifact{Version: schemaVersion, RunID: runID, Invariants: invariants}
}

// Marshal renders the artifact as indented JSON, the `--emit-proof`
// output format.
func (a Artifact) Marshal() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// Passed reports whether every invariant in the artifact held.
func (a Artifact) Passed() bool {
	for _, inv := range a.Invariants {
		if !inv.Passed {
			return false
		}
	}
	return true
}
