// Package lint implements the rule engine spec.md §4.8 describes: a fixed
// table of named checks over emitted or ingested shell text, each with a
// stable code and an optional fix, plus a bounded purify-to-fixpoint
// driver. It deliberately tokenizes shell text itself (scan.go) rather
// than depending on a full shell parser/printer stack — see DESIGN.md for
// why mvdan.cc/sh/v3 doesn't fit this layer. Grounded on agentshield's
// internal/policy rule-family shape and mr-director-ObfusPS's staged
// pipeline state machine for the purifier loop.
package lint

import (
	"fmt"
	"slices"
	"sort"

	"srcsh/internal/config"
	"srcsh/internal/diag"
)

// Rule is one named check: detect reports every match in the script text,
// apply (nil for lint-only rules) rewrites the text to fix every match it
// can in one pass.
type Rule struct {
	Code     string
	Property string
	Unsafe   bool
	detect   func(script string) []diag.Diagnostic
	apply    func(script string) (string, bool)
}

// builtinRules is the fixed table from spec.md §4.8, always loaded first
// and never overridden by a rule pack entry sharing a code.
var builtinRules = []Rule{
	{Code: diag.CodeLintUnquotedVar, Property: "injection", detect: detectUnquotedVar, apply: fixUnquotedVar},
	{Code: diag.CodeLintUnquotedCmd, Property: "injection", detect: detectUnquotedCmdSub, apply: fixUnquotedCmdSub},
	{Code: diag.CodeLintRandomUse, Property: "determinism", detect: detectRandomUse, apply: fixRandomUse},
	{Code: diag.CodeLintDateAsID, Property: "determinism", Unsafe: true, detect: detectDateAsID, apply: fixDateAsID},
	{Code: diag.CodeLintMkdirNoP, Property: "idempotency", detect: detectMkdirNoP, apply: fixMkdirNoP},
	{Code: diag.CodeLintRmNoF, Property: "idempotency", detect: detectRmNoF, apply: fixRmNoF},
	{Code: diag.CodeLintLnNoF, Property: "idempotency", detect: detectLnNoF, apply: fixLnNoF},
	{Code: diag.CodeLintDupPathConfig, Property: "hygiene", detect: detectDupPath, apply: fixDupPath},
}

// extraRules accumulates rule-pack rules registered via RegisterPack; it
// is a process-global extension list, the same discipline
// internal/classify's fixed table follows (built once, read many times).
var extraRules []Rule

// RegisterPack adds pack's rules to the process-global rule set consulted
// by Lint and Purify. A pack rule whose code already names a fixed-table
// rule is dropped silently (spec.md §4.8 supplement: "additive... cannot
// be overridden").
func RegisterPack(pack *RulePack) error {
	rules, err := pack.toRules()
	if err != nil {
		return err
	}
	fixed := make(map[string]bool, len(builtinRules))
	for _, r := range builtinRules {
		fixed[r.Code] = true
	}
	for _, r := range rules {
		if fixed[r.Code] {
			continue
		}
		extraRules = append(extraRules, r)
	}
	return nil
}

func allRules() []Rule {
	out := make([]Rule, 0, len(builtinRules)+len(extraRules))
	out = append(out, builtinRules...)
	out = append(out, extraRules...)
	return out
}

func sortedRules() []Rule {
	out := allRules()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Lint reports every rule match in script without modifying it.
func Lint(script []byte) diag.List {
	var diags diag.List
	text := string(script)
	for _, r := range sortedRules() {
		diags = append(diags, r.detect(text)...)
	}
	diags.Sort()
	return diags
}

// Purify applies fixes to a fixpoint, lex-sorted by rule code each pass
// (spec.md §4.8's purifier state machine), bounded to cfg.MaxFixIterations.
// An unsafe rule's fix is skipped (with a PURIFY-UNSAFE-OPTIN diagnostic)
// unless cfg explicitly opts it in. Exceeding the bound without
// stabilizing returns CodePurifyOverflow as both a diagnostic and an
// error, matching the Abort terminal state.
func Purify(script []byte, cfg config.Config) ([]byte, diag.List, error) {
	text := string(script)
	rules := sortedRules()
	var diags diag.List

	for i := 0; i < cfg.MaxFixIterations; i++ {
		findings := lintPass(text, rules)
		if len(findings) == 0 {
			diags.Sort()
			return []byte(text), diags, nil
		}
		changedAny := false
		for _, r := range rules {
			ruleFindings := r.detect(text)
			if len(ruleFindings) == 0 {
				continue
			}
			if r.Unsafe && !slices.Contains(cfg.UnsafeFixes, r.Code) {
				for _, f := range ruleFindings {
					diags.Errorf(diag.CodeUnsafeFixRequiresOptIn, f.Span, "rule %s requires an explicit unsafe-fix opt-in", r.Code)
				}
				continue
			}
			if r.apply == nil {
				continue
			}
			next, ok := r.apply(text)
			if ok && next != text {
				text = next
				changedAny = true
			}
		}
		if !changedAny {
			diags = append(diags, lintPass(text, rules)...)
			diags.Sort()
			return []byte(text), diags, nil
		}
	}
	diags.Errorf(diag.CodePurifyOverflow, diag.Span{}, "purifier did not stabilize within %d iterations", cfg.MaxFixIterations)
	diags.Sort()
	return []byte(text), diags, fmt.Errorf("lint: %s", diag.CodePurifyOverflow)
}

func lintPass(text string, rules []Rule) diag.List {
	var diags diag.List
	for _, r := range rules {
		diags = append(diags, r.detect(text)...)
	}
	return diags
}
