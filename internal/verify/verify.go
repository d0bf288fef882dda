// Package verify checks the four independently-failable IR properties a
// transpile must hold before emission: no command injection, determinism,
// idempotency, and resource-boundedness. Which properties run is gated by
// config.VerifyLevel. It is grounded on agentshield's internal/analyzer
// rule-family registry shape (a fixed set of named checks, each producing
// its own diagnostic family), repurposed from runtime agent-policy
// enforcement to static shell-safety verification.
package verify

import (
	"srcsh/internal/classify"
	"srcsh/internal/config"
	"srcsh/internal/diag"
	"srcsh/internal/ir"
)

// Verify runs every property gated in at cfg.VerifyLevel and returns the
// accumulated, sorted diagnostic list. Diagnostics are the sole output:
// Verify never mutates p.
func Verify(p *ir.Program, cfg config.Config) diag.List {
	var diags diag.List
	if cfg.VerifyLevel == config.LevelNone {
		return diags
	}

	whitelist := classify.NewWhitelist(functionNames(p))
	checkInjection(p, whitelist, &diags)
	if cfg.VerifyLevel == config.LevelBasic {
		diags.Sort()
		return diags
	}

	checkDeterminism(p, &diags)
	checkIdempotency(p, &diags)
	if cfg.VerifyLevel == config.LevelParanoid {
		checkResourceBounds(p, cfg, &diags)
	}
	diags.Sort()
	return diags
}

func functionNames(p *ir.Program) []string {
	names := make([]string, len(p.Functions))
	for i, fn := range p.Functions {
		names[i] = fn.Name
	}
	return names
}
