package lint

import (
	"strings"

	"srcsh/internal/diag"
)

func detectRandomUse(script string) []diag.Diagnostic {
	var out []diag.Diagnostic
	idx := 0
	for {
		i := strings.Index(script[idx:], "$RANDOM")
		if i < 0 {
			break
		}
		pos := idx + i
		out = append(out, diag.Diagnostic{
			Code:     diag.CodeLintRandomUse,
			Severity: diag.Warn,
			Span:     diag.Span{Line: lineOf(script, pos)},
			Message:  "$RANDOM is a non-deterministic source",
		})
		idx = pos + len("$RANDOM")
	}
	return out
}

// fixRandomUse replaces every $RANDOM read with a fixed placeholder. This
// changes the literal value produced but not the determinism property
// the rule exists to restore, so it doesn't require the unsafe opt-in
// DET002 does.
func fixRandomUse(script string) (string, bool) {
	if !strings.Contains(script, "$RANDOM") {
		return script, false
	}
	return strings.ReplaceAll(script, "$RANDOM", "0"), true
}

func detectDateAsID(script string) []diag.Diagnostic {
	var out []diag.Diagnostic
	idx := 0
	for {
		i := strings.Index(script[idx:], "$(date")
		if i < 0 {
			break
		}
		pos := idx + i
		out = append(out, diag.Diagnostic{
			Code:     diag.CodeLintDateAsID,
			Severity: diag.Warn,
			Span:     diag.Span{Line: lineOf(script, pos)},
			Message:  "$(date ...) used as an identifier is non-deterministic across runs",
		})
		idx = pos + len("$(date")
	}
	return out
}

// fixDateAsID replaces a `$(date ...)` capture with a pinned placeholder
// string. Unlike fixRandomUse, this can change a script's observable
// identifier scheme (e.g. a log filename), so the rule is registered
// Unsafe and only runs when cfg.UnsafeFixes lists its code.
func fixDateAsID(script string) (string, bool) {
	changed := false
	for {
		i := strings.Index(script, "$(date")
		if i < 0 {
			break
		}
		end := strings.IndexByte(script[i:], ')')
		if end < 0 {
			break
		}
		end += i + 1
		script = script[:i] + `"v0"` + script[end:]
		changed = true
	}
	return script, changed
}
