// Package classify holds the fixed, read-only command-classification table
// (spec.md §3 "Effect lattice") and the command-name whitelist the escape
// algebra's CommandName context and the verifier's injection check both
// depend on. It is a process-global initialized once and never mutated, per
// spec.md §5's shared-resources note.
//
// Grounded on agentshield's internal/taxonomy (compliance-tagged rule
// categories) and the Anthony-Bible command_whitelist.go pattern of
// regex-free, exact-match, case-sensitive lookups (spec.md Open Question
// #3 resolves the case-sensitivity ambiguity in favor of exact POSIX
// case-sensitive matching).
package classify

import "srcsh/internal/ir"

// Classification is the fixed effect set and idempotency shape a command
// name maps to.
type Classification struct {
	Effects    ir.Effects
	Idempotent bool // true if the bare command is idempotent as written, needing no canonical flags
}

// table is the fixed command -> effects mapping from spec.md §3. It is
// intentionally small and explicit rather than derived from any pattern
// language: every entry here is a deliberate safety decision, not a
// heuristic.
var table = map[string]Classification{
	"echo":   {Effects: ir.Effects{ir.Pure: true}},
	"printf": {Effects: ir.Effects{ir.Pure: true}},
	"true":   {Effects: ir.Effects{ir.Pure: true}},
	"false":  {Effects: ir.Effects{ir.Pure: true}},
	"test":   {Effects: ir.Effects{ir.Pure: true}},
	"pwd":    {Effects: ir.Effects{ir.Pure: true}},
	"cat":    {Effects: ir.Effects{ir.ReadFile: true}},
	"head":   {Effects: ir.Effects{ir.ReadFile: true}},
	"tail":   {Effects: ir.Effects{ir.ReadFile: true}},
	"wc":     {Effects: ir.Effects{ir.ReadFile: true}},
	"grep":   {Effects: ir.Effects{ir.ReadFile: true}},
	"sort":   {Effects: ir.Effects{ir.Pure: true}},
	"uniq":   {Effects: ir.Effects{ir.Pure: true}},
	"cut":    {Effects: ir.Effects{ir.Pure: true}},
	"tr":     {Effects: ir.Effects{ir.Pure: true}},
	"sed":    {Effects: ir.Effects{ir.Pure: true}},
	"seq":    {Effects: ir.Effects{ir.Pure: true}},
	"find":   {Effects: ir.Effects{ir.ReadFile: true}},

	"mkdir": {Effects: ir.Effects{ir.WriteFile: true}},
	"rm":    {Effects: ir.Effects{ir.WriteFile: true}},
	"ln":    {Effects: ir.Effects{ir.WriteFile: true}},
	"cp":    {Effects: ir.Effects{ir.WriteFile: true}},
	"mv":    {Effects: ir.Effects{ir.WriteFile: true}},
	"touch": {Effects: ir.Effects{ir.WriteFile: true}, Idempotent: true},
	"chmod": {Effects: ir.Effects{ir.WriteFile: true}},

	"curl": {Effects: ir.Effects{ir.NetworkAccess: true}},
	"wget": {Effects: ir.Effects{ir.NetworkAccess: true}},
	"nc":   {Effects: ir.Effects{ir.NetworkAccess: true}},
	"ssh":  {Effects: ir.Effects{ir.NetworkAccess: true}},
	"scp":  {Effects: ir.Effects{ir.NetworkAccess: true, ir.WriteFile: true}},

	"date":    {Effects: ir.Effects{ir.NonDeterministic: true}},
	"uuidgen": {Effects: ir.Effects{ir.NonDeterministic: true}},
}

// idempotentForms lists the canonical shapes considered safe to execute
// more than once, keyed by command name, matching spec.md §4.4 exactly
// ("mkdir -p", "rm -f", "ln -sf").
var idempotentForms = map[string][]string{
	"mkdir": {"-p"},
	"rm":    {"-f"},
	"ln":    {"-s", "-f"}, // ln -sf: both flags must be present together
}

// Classify returns the fixed classification for a command name. Unknown
// names are classified as ProcessSpawn (the conservative default: anything
// not explicitly known might do anything), matching the spec's instruction
// that the table is fixed, not inferred.
func Classify(name string) Classification {
	if c, ok := table[name]; ok {
		return c
	}
	return Classification{Effects: ir.Effects{ir.ProcessSpawn: true}}
}

// IdempotentFlags returns the flag set that makes name's invocation
// idempotent, or nil if name has no known idempotent canonical form.
func IdempotentFlags(name string) []string {
	return idempotentForms[name]
}

// posixUtilities is the CommandName escape context's accepted POSIX utility
// set, matching the keys of table plus the "[" test builtin, which is never
// a "command" in the Exec sense but appears as a CommandName check from the
// linter's shell-ingest path.
var posixUtilities = map[string]bool{
	"echo": true, "printf": true, "true": true, "false": true, "test": true,
	"pwd": true, "cat": true, "head": true, "tail": true, "wc": true,
	"grep": true, "sort": true, "uniq": true, "cut": true, "tr": true,
	"sed": true, "seq": true, "find": true, "mkdir": true, "rm": true,
	"ln": true, "cp": true, "mv": true, "touch": true, "chmod": true,
	"curl": true, "wget": true, "nc": true, "ssh": true, "scp": true,
	"date": true, "uuidgen": true, "[": true,
}

// Whitelist is a escape.CommandNameChecker backed by the fixed POSIX
// utility table plus a caller-supplied set of user-defined function names
// from the current program (spec.md §4.1 CommandName contract).
type Whitelist struct {
	userFunctions map[string]bool
}

// NewWhitelist builds a checker scoped to one program's user-defined
// function names; matching is case-sensitive throughout (Open Question #3).
func NewWhitelist(userFunctionNames []string) *Whitelist {
	w := &Whitelist{userFunctions: make(map[string]bool, len(userFunctionNames))}
	for _, n := range userFunctionNames {
		w.userFunctions[n] = true
	}
	return w
}

func (w *Whitelist) Allowed(name string) bool {
	if posixUtilities[name] {
		return true
	}
	return w.userFunctions[name]
}

// IsKnownUtility reports whether name is one of the fixed POSIX utilities
// (independent of any particular program's user-defined functions), used by
// the linter's shell-ingest path when no program context is available.
func IsKnownUtility(name string) bool {
	return posixUtilities[name]
}
