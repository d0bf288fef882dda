package lint

import (
	"strings"

	"srcsh/internal/diag"
)

// detectDupPath and fixDupPath implement CONFIG-001: a PATH assignment
// (typically in a generated profile/rc fragment) listing the same
// directory more than once. Harmless but a sign the emitter or a prior
// purify pass concatenated PATH with itself.

func pathAssignment(line string) (prefix, value string, ok bool) {
	idx := strings.Index(line, "PATH=")
	if idx < 0 {
		return "", "", false
	}
	prefix = line[:idx+len("PATH=")]
	value = strings.Trim(line[idx+len("PATH="):], `"'`)
	return prefix, value, true
}

func detectDupPath(script string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i, line := range strings.Split(script, "\n") {
		_, value, ok := pathAssignment(line)
		if !ok {
			continue
		}
		seen := map[string]bool{}
		for _, p := range strings.Split(value, ":") {
			if p == "" {
				continue
			}
			if seen[p] {
				out = append(out, diag.Diagnostic{
					Code:     diag.CodeLintDupPathConfig,
					Severity: diag.Warn,
					Span:     diag.Span{Line: i + 1},
					Message:  "duplicate PATH entry " + p,
				})
				break
			}
			seen[p] = true
		}
	}
	return out
}

func fixDupPath(script string) (string, bool) {
	lines := strings.Split(script, "\n")
	changed := false
	for i, line := range lines {
		prefix, value, ok := pathAssignment(line)
		if !ok {
			continue
		}
		seen := map[string]bool{}
		var deduped []string
		for _, p := range strings.Split(value, ":") {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			deduped = append(deduped, p)
		}
		newValue := strings.Join(deduped, ":")
		if newValue != value {
			lines[i] = prefix + `"` + newValue + `"`
			changed = true
		}
	}
	return strings.Join(lines, "\n"), changed
}
