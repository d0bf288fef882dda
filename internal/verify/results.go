package verify

import (
	"srcsh/internal/diag"
	"srcsh/internal/ir"
)

// Invariant is one named verifier property's pass/fail outcome plus its
// witnesses: function names when the property holds, or the diagnostic
// spans that broke it when it doesn't (spec.md §7's proof artifact
// schema: "invariants:[{name, passed, witnesses}]").
type Invariant struct {
	Name      string
	Passed    bool
	Witnesses []string
}

// Results is the verifier's structured outcome: the diagnostic list
// Verify itself returns, restated as named invariants for internal/proof
// to serialize. Computing Results is a reporting step, never an
// enforcement one — it never changes what diagnostics Verify emitted.
type Results struct {
	Diagnostics diag.List
	Invariants  []Invariant
}

// Summarize builds a Results from a program and the diagnostics Verify
// produced for it. Call it with the same (p, diags) pair Verify returned
// so the invariant witnesses line up with what was actually checked.
func Summarize(p *ir.Program, diags diag.List) Results {
	return Results{
		Diagnostics: diags,
		Invariants: []Invariant{
			invariantFor("no-injection", p, diags, diag.CodeInjection, diag.CodeUnsafeCommand),
			invariantFor("deterministic", p, diags, diag.CodeNonDeterminism),
			invariantFor("idempotent", p, diags, diag.CodeNonIdempotent),
			invariantFor("resource-bounded", p, diags, diag.CodeUnboundedLoop, diag.CodeUnboundedRange),
		},
	}
}

func invariantFor(name string, p *ir.Program, diags diag.List, codes ...string) Invariant {
	var witnesses []string
	failed := false
	for _, d := range diags {
		if codeIn(d.Code, codes) {
			failed = true
			witnesses = append(witnesses, d.Span.String())
		}
	}
	if !failed {
		witnesses = functionNames(p)
	}
	return Invariant{Name: name, Passed: !failed, Witnesses: witnesses}
}

func codeIn(code string, codes []string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
