package emit

import "fmt"

// selfCheck is the internal lightweight POSIX lexer that runs over the
// fully rendered script once, after every other emission step, looking
// for the two ways a generated script could escape the quoting this
// package is supposed to guarantee: an unescaped backtick (legacy command
// substitution, which this emitter never intentionally produces) and
// unbalanced quoting (a sign some value's text broke out of the quotes
// wrapped around it). Either is a BUG, not an ordinary diagnostic: the
// pipeline aborts rather than ship text that hasn't been proven safe.
func selfCheck(script []byte) error {
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
			case '`':
				return fmt.Errorf("emitter self-check: unescaped backtick inside double quotes at byte %d", i)
			}
		default:
			switch c {
			case '\'':
				singleOpen = true
			case '"':
				doubleOpen = true
			case '\\':
				escaped = true
			case '`':
				return fmt.Errorf("emitter self-check: unquoted backtick at byte %d", i)
			}
		}
	}
	if singleOpen || doubleOpen {
		return fmt.Errorf("emitter self-check: unbalanced quoting in generated script")
	}
	return nil
}
