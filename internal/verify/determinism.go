package verify

import (
	"srcsh/internal/diag"
	"srcsh/internal/ir"
)

// nonDeterministicEnvVars names the shell-special environment variables
// whose value changes on every read rather than being fixed for the life
// of the process. env("RANDOM") lowers to a bare ir.EnvVar (lower/stdlib.go)
// and carries no Effects of its own, so checkDeterminism must recognize
// these by name rather than by relying on the effect lattice.
var nonDeterministicEnvVars = map[string]bool{
	"RANDOM":  true,
	"SECONDS": true,
	"SRANDOM": true,
}

// checkDeterminism implements the determinism property: no command
// reachable from the program may carry NonDeterministic in its effect set
// (classify.Classify tags date/uuidgen this way; a user function inherits
// it transitively through the call-graph fixpoint lowering already ran),
// and no ShellValue may read one of the shell's own non-deterministic
// environment variables directly.
func checkDeterminism(p *ir.Program, diags *diag.List) {
	walkProgramCommands(p, func(c ir.Command) {
		if c.Effects.Has(ir.NonDeterministic) {
			diags.Errorf(diag.CodeNonDeterminism, diag.Span{}, "%q depends on a non-deterministic source", c.Name)
		}
	})
	walkProgramShellValues(p, func(v ir.ShellValue) {
		if ev, ok := v.(ir.EnvVar); ok && nonDeterministicEnvVars[ev.Name] {
			diags.Errorf(diag.CodeNonDeterminism, diag.Span{}, "%q is a non-deterministic environment variable", ev.Name)
		}
	})
}
