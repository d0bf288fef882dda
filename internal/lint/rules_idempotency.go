package lint

import (
	"strings"

	"srcsh/internal/diag"
)

// lineHasCommandWord reports whether line contains cmd as a standalone
// word (not a substring of some other word) and, if so, the byte offset
// of its first character.
func lineHasCommandWord(line, cmd string) (int, bool) {
	idx := 0
	for {
		i := strings.Index(line[idx:], cmd)
		if i < 0 {
			return 0, false
		}
		pos := idx + i
		before := pos == 0 || isWordBoundary(line[pos-1])
		after := pos+len(cmd) >= len(line) || isWordBoundary(line[pos+len(cmd)])
		if before && after {
			return pos, true
		}
		idx = pos + len(cmd)
	}
}

func isWordBoundary(c byte) bool {
	return c == ' ' || c == '\t' || c == ';' || c == '|' || c == '&'
}

func lineHasFlag(line, flag string) bool {
	for _, tok := range strings.Fields(line) {
		if tok == flag {
			return true
		}
	}
	return false
}

func insertFlagAfterCommand(line, cmd, flag string) string {
	pos, ok := lineHasCommandWord(line, cmd)
	if !ok {
		return line
	}
	insertAt := pos + len(cmd)
	return line[:insertAt] + " " + flag + line[insertAt:]
}

func detectMissingFlag(script, cmd, flag, code string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i, line := range strings.Split(script, "\n") {
		if _, ok := lineHasCommandWord(line, cmd); ok && !lineHasFlag(line, flag) {
			out = append(out, diag.Diagnostic{
				Code:     code,
				Severity: diag.Warn,
				Span:     diag.Span{Line: i + 1},
				Message:  cmd + " without " + flag + " is not idempotent",
			})
		}
	}
	return out
}

func fixMissingFlag(script, cmd, flag string) (string, bool) {
	lines := strings.Split(script, "\n")
	changed := false
	for i, line := range lines {
		if _, ok := lineHasCommandWord(line, cmd); ok && !lineHasFlag(line, flag) {
			lines[i] = insertFlagAfterCommand(line, cmd, flag)
			changed = true
		}
	}
	return strings.Join(lines, "\n"), changed
}

func detectMkdirNoP(script string) []diag.Diagnostic {
	return detectMissingFlag(script, "mkdir", "-p", diag.CodeLintMkdirNoP)
}

func fixMkdirNoP(script string) (string, bool) {
	return fixMissingFlag(script, "mkdir", "-p")
}

func detectRmNoF(script string) []diag.Diagnostic {
	return detectMissingFlag(script, "rm", "-f", diag.CodeLintRmNoF)
}

func fixRmNoF(script string) (string, bool) {
	return fixMissingFlag(script, "rm", "-f")
}

// detectLnNoF and fixLnNoF only fire for symbolic links (`ln -s`); a hard
// link's target can't be silently replaced the way `ln -s -f` replaces an
// existing symlink, so a bare `ln a b` isn't flagged.
func detectLnNoF(script string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i, line := range strings.Split(script, "\n") {
		if _, ok := lineHasCommandWord(line, "ln"); ok && lineHasFlag(line, "-s") && !lineHasFlag(line, "-f") {
			out = append(out, diag.Diagnostic{
				Code:     diag.CodeLintLnNoF,
				Severity: diag.Warn,
				Span:     diag.Span{Line: i + 1},
				Message:  "ln -s without -f is not idempotent",
			})
		}
	}
	return out
}

func fixLnNoF(script string) (string, bool) {
	lines := strings.Split(script, "\n")
	changed := false
	for i, line := range lines {
		if _, ok := lineHasCommandWord(line, "ln"); ok && lineHasFlag(line, "-s") && !lineHasFlag(line, "-f") {
			lines[i] = insertFlagAfterCommand(line, "ln", "-f")
			changed = true
		}
	}
	return strings.Join(lines, "\n"), changed
}
