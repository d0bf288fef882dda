package emit

import (
	"strings"

	"srcsh/internal/diag"
	"srcsh/internal/ir"
)

// commandText renders a single command invocation (name plus escaped
// arguments) with its redirect suffix, used both for Exec statements and
// for embedding inside "$( … )" command substitution.
func (e *emitter) commandText(c ir.Command) string {
	if !e.whitelist.Allowed(c.Name) {
		e.diags.Errorf(diag.CodeEmitUnsafeCommand, diag.Span{}, "command %q is not in the whitelist", c.Name)
	}
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		parts = append(parts, e.word(a))
	}
	text := strings.Join(parts, " ")
	switch c.Redirect.Kind {
	case ir.RedirectStderr:
		text += " >&2"
	case ir.RedirectOverwriteFile:
		text += " > " + e.word(c.Redirect.Target)
	}
	return text
}

// pipeText renders a Pipe's commands joined by POSIX pipeline bars, used
// only inside "$( … )" command substitution (string_split/array_len/
// array_join's tr/wc/printf chains).
func (e *emitter) pipeText(cmds []ir.Command) string {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = e.commandText(c)
	}
	return strings.Join(parts, " | ")
}
