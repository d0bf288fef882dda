// Package optimize implements the three semantics-preserving IR passes
// spec.md §4.4 describes — constant folding, dead-code elimination, and
// idempotent command rewrites — run to a bounded fixpoint. It is grounded
// on the teacher's internal/ir "optimization pass" shape (a small ordered
// list of structural rewrites applied until nothing changes), repurposed
// from EVM gas optimizations to shell-safety rewrites.
package optimize

import (
	"hash/fnv"

	"srcsh/internal/config"
	"srcsh/internal/ir"
)

// maxFixpointIterations bounds the fold->DCE->idempotency->fold cycle
// (spec.md §4.4 "bounded to N<=5 iterations").
const maxFixpointIterations = 5

// Optimize runs the optimizer over p and returns a possibly-rewritten
// program. It is a no-op (returns p unchanged) when cfg.Optimize is false
// — spec.md §4.4: "off by default at none/basic, on at strict/paranoid" —
// so callers can unconditionally call Optimize and let the configuration
// record decide.
func Optimize(p *ir.Program, cfg config.Config) *ir.Program {
	if !cfg.Optimize {
		return p
	}
	current := p
	prevFingerprint := fingerprint(current)
	for i := 0; i < maxFixpointIterations; i++ {
		current = foldProgram(current)
		current = dceProgram(current)
		current = idempotentProgram(current)
		current = foldProgram(current)

		next := fingerprint(current)
		if next == prevFingerprint {
			return current
		}
		prevFingerprint = next
	}
	return current
}

// fingerprint hashes the program's deterministic debug-print form (the
// same ir.Print a change to program structure always changes) to detect
// fixpoint stability without comparing trees field-by-field, matching
// spec.md §9's "compare a structural fingerprint… to detect stability".
func fingerprint(p *ir.Program) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(ir.Print(p)))
	return h.Sum64()
}

// mapFunctions applies f to every function body in p, returning a new
// Program (functions are cloned only here, where a rewrite actually
// requires a new tree, per spec.md §3's cloning note).
func mapFunctions(p *ir.Program, f func(ir.Node) ir.Node) *ir.Program {
	out := &ir.Program{Functions: make([]*ir.Function, len(p.Functions))}
	byName := make(map[string]*ir.Function, len(p.Functions))
	for i, fn := range p.Functions {
		nf := &ir.Function{Name: fn.Name, Params: fn.Params, Body: f(fn.Body)}
		out.Functions[i] = nf
		byName[fn.Name] = nf
	}
	if p.Entry != nil {
		out.Entry = byName[p.Entry.Name]
	}
	return out
}
