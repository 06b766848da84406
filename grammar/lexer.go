package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var BfLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Anything that is not a command is a comment
		{"Comment", `[^\[\]<>+\-.,]+`, nil},

		// Cell, pointer and I/O commands
		{"Op", `[<>+\-.,]`, nil},

		// Loop delimiters
		{"Bracket", `[\[\]]`, nil},
	},
})
