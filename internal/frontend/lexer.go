package frontend

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// SrcLexer tokenizes SrcLang source text. It follows the teacher's stateful
// lexer shape (grammar/lexer.go's KansoLexer) with one addition the original
// grammar never needed: a String rule, since the restricted subset's string
// type (spec.md §3) has no equivalent in the teacher's EVM-contract DSL.
var SrcLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"DocComment", `///[^\n]*`, nil},
		{"Comment", `//[^\n]*`, nil},

		{"String", `"(\\.|[^"\\])*"`, nil},

		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		{"Integer", `[0-9]+`, nil},

		{"RangeOp", `\.\.=|\.\.`, nil},
		{"Arrow", `->`, nil},
		{"Operator", `(\|\||&&|==|!=|<=|>=|[-+*/%<>=!])`, nil},

		{"Punctuation", `[{}()\[\],:;#]`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
