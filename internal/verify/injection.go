package verify

import (
	"strings"

	"srcsh/internal/classify"
	"srcsh/internal/diag"
	"srcsh/internal/ir"
)

// shellMetachars are the bytes that change meaning in an unquoted shell
// word; a literal carrying one of these fails the no-injection check
// outright rather than being trusted to the emitter's escaping.
const shellMetachars = ";|&`$<>()*?[]{}~!#'\"\\\n\t "

func containsShellMetachar(b []byte) bool {
	for _, c := range b {
		if strings.IndexByte(shellMetachars, c) >= 0 {
			return true
		}
	}
	return false
}

// checkInjection implements the no-command-injection property: every
// command name must be whitelisted, and every argument and redirect target
// reaching a command position must be injection-safe.
func checkInjection(p *ir.Program, whitelist *classify.Whitelist, diags *diag.List) {
	walkProgramCommands(p, func(c ir.Command) {
		if !whitelist.Allowed(c.Name) {
			diags.Errorf(diag.CodeUnsafeCommand, diag.Span{}, "command %q is not in the whitelist", c.Name)
		}
		for _, a := range c.Args {
			if !isInjectionSafe(a) {
				diags.Errorf(diag.CodeInjection, diag.Span{}, "an argument to %q is not provably injection-safe", c.Name)
			}
		}
		if c.Redirect.Target != nil && !isInjectionSafe(c.Redirect.Target) {
			diags.Errorf(diag.CodeInjection, diag.Span{}, "the redirect target for %q is not provably injection-safe", c.Name)
		}
	})
}

// isInjectionSafe implements the rule literally: a literal with no
// metacharacters, a Var/Arg/EnvVar/ArgCount/ArgsAll/ExitCode reference (the
// emitter always escapes these), or a Concat/CmdSub whose children all
// recursively satisfy the rule. Anything else (a raw Comparison, Arith,
// etc. reaching an argument position) is rejected; the restricted
// language never needs those shapes as bare command arguments.
func isInjectionSafe(v ir.ShellValue) bool {
	switch x := v.(type) {
	case ir.StringLit:
		return !containsShellMetachar(x.Bytes)
	case ir.Var, ir.Arg, ir.ArgCount, ir.ArgsAll, ir.ExitCode:
		return true
	case ir.EnvVar:
		if x.Default == nil {
			return true
		}
		return isInjectionSafe(x.Default)
	case ir.Concat:
		for _, p := range x.Parts {
			if !isInjectionSafe(p) {
				return false
			}
		}
		return true
	case ir.CmdSub:
		return commandArgsInjectionSafe(x.Command)
	default:
		return false
	}
}

func commandArgsInjectionSafe(c ir.Command) bool {
	for _, a := range c.Args {
		if !isInjectionSafe(a) {
			return false
		}
	}
	if c.Redirect.Target != nil && !isInjectionSafe(c.Redirect.Target) {
		return false
	}
	return true
}
