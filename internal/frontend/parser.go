package frontend

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"srcsh/internal/rast"
)

var grammarParser = participle.MustBuild[Program](
	participle.Lexer(SrcLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(4),
)

// Parse is the reference front-end's source-text entry point (spec.md §13;
// ToRAST is also exported, for an already-parsed grammar tree): it turns
// SrcLang source text into a validated-shape restricted AST. It
// does not run internal/rast.Validate itself — callers own when semantic
// validation happens, same as grammar.ParseFile leaves analysis to the
// caller in the teacher.
func Parse(filename, src string) (*rast.Program, error) {
	prog, err := grammarParser.ParseString(filename, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	out, err := ToRAST(prog)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if len(out.Functions) == 0 {
		return nil, fmt.Errorf("%s: program has no functions", filename)
	}
	return out, nil
}
