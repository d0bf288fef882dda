package lint

import "srcsh/internal/diag"

// detectUnquotedVar and detectUnquotedCmdSub implement the linter's own
// take on shellcheck's SC2086/SC2046: these are necessarily weaker than
// the verifier's escape-algebra proof (internal/verify/injection.go),
// since they run over text the emitter already proved safe or raw
// ingested script this package has no IR for — but they still catch the
// common "forgot to quote it" shape when purifying hand-written or
// third-party shell.

func detectUnquotedVar(script string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, off := range findUnquotedDollar(script, false) {
		out = append(out, diag.Diagnostic{
			Code:     diag.CodeLintUnquotedVar,
			Severity: diag.Warn,
			Span:     diag.Span{Line: lineOf(script, off)},
			Message:  "unquoted variable expansion may be subject to word splitting and glob expansion",
		})
	}
	return out
}

func fixUnquotedVar(script string) (string, bool) {
	changed := false
	for {
		offsets := findUnquotedDollar(script, false)
		if len(offsets) == 0 {
			break
		}
		next, ok := wrapAt(script, offsets[0])
		if !ok {
			break
		}
		script = next
		changed = true
	}
	return script, changed
}

func detectUnquotedCmdSub(script string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, off := range findUnquotedDollar(script, true) {
		out = append(out, diag.Diagnostic{
			Code:     diag.CodeLintUnquotedCmd,
			Severity: diag.Warn,
			Span:     diag.Span{Line: lineOf(script, off)},
			Message:  "unquoted command substitution may be subject to word splitting and glob expansion",
		})
	}
	return out
}

func fixUnquotedCmdSub(script string) (string, bool) {
	changed := false
	for {
		offsets := findUnquotedDollar(script, true)
		if len(offsets) == 0 {
			break
		}
		next, ok := wrapAt(script, offsets[0])
		if !ok {
			break
		}
		script = next
		changed = true
	}
	return script, changed
}
