package lint

// This file implements the shell text "scanner" DESIGN.md describes in
// place of a full mvdan.cc/sh/v3 parse-and-print round trip: enough
// quote-state tracking to answer "is this $ outside any quoting" without
// building a real AST, mirroring the emitter's own selfCheck lexer
// (internal/emit/selfcheck.go).

// findUnquotedDollar returns the byte offset of every '$' that starts a
// variable expansion (wantSubshell false) or a command substitution
// (wantSubshell true) while outside single or double quotes.
func findUnquotedDollar(script string, wantSubshell bool) []int {
	var offsets []int
	singleOpen := false
	doubleOpen := false
	escaped := false

	for i := 0; i < len(script); i++ {
		c := script[i]
		switch {
		case singleOpen:
			if c == '\'' {
				singleOpen = false
			}
		case escaped:
			escaped = false
		case doubleOpen:
			switch c {
			case '\\':
				escaped = true
			case '"':
				doubleOpen = false
			}
		default:
			switch c {
			case '\'':
				singleOpen = true
			case '"':
				doubleOpen = true
			case '\\':
				escaped = true
			case '$':
				if wantSubshell {
					if i+1 < len(script) && script[i+1] == '(' {
						offsets = append(offsets, i)
					}
				} else if i+1 < len(script) && (isIdentStart(script[i+1]) || script[i+1] == '{') {
					offsets = append(offsets, i)
				}
			}
		}
	}
	return offsets
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func lineOf(script string, offset int) int {
	line := 1
	for i := 0; i < offset && i < len(script); i++ {
		if script[i] == '\n' {
			line++
		}
	}
	return line
}

// wrapAt wraps the shell word starting at offset (a '$' found by
// findUnquotedDollar) in double quotes, stopping at the first unquoted
// whitespace or control operator. Parens inside a "$(...)" are balanced
// so the whole substitution is captured rather than truncated at its
// first nested ')'.
func wrapAt(script string, offset int) (string, bool) {
	end := offset
	depth := 0
	for end < len(script) {
		c := script[end]
		switch c {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				goto done
			}
			depth--
		case ' ', '\t', '\n', ';', '|', '&', '<', '>':
			if depth == 0 {
				goto done
			}
		}
		end++
	}
done:
	if end <= offset {
		return script, false
	}
	word := script[offset:end]
	return script[:offset] + "\"" + word + "\"" + script[end:], true
}
