package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type Program struct {
	Pos      lexer.Position
	Commands []*Command `@@*`
}

type Command struct {
	Pos  lexer.Position
	Op   string `  @Op`
	Loop *Loop  `| @@`
}

type Loop struct {
	Pos   lexer.Position
	Body  []*Command    `"[" @@*`
	Close *CloseBracket `@@`
}

type CloseBracket struct {
	Pos     lexer.Position
	Bracket string `@"]"`
}
