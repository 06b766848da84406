package grammar

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"

	"brainf/internal/ast"
	"brainf/internal/errors"
	"brainf/token"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(BfLexer),
	participle.Elide("Comment"),
)

// SyntaxError is any rejection by the grammar other than bracket balance
type SyntaxError struct {
	Message string
	Pos     ast.Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *SyntaxError) Diagnostic() errors.CompilerError {
	return errors.SyntaxError(e.Message, e.Pos)
}

// ParseFile reads and parses a program, printing a caret-style report on failure
func ParseFile(path string) (*ast.Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	program, err := ParseString(path, string(source))
	if err != nil {
		reportParseError(string(source), err)
		return nil, err
	}
	return program, nil
}

// ParseString parses source into an instruction tree. Unbalanced brackets
// are rejected here, so every tree this returns is well formed.
func ParseString(filename, source string) (*ast.Program, error) {
	if errs := MatchBrackets(filename, source); len(errs) > 0 {
		return nil, errs[0]
	}

	program, err := parser.ParseString(filename, source)
	if err != nil {
		var pe participle.Error
		if stderrors.As(err, &pe) {
			return nil, &SyntaxError{Message: pe.Message(), Pos: position(pe.Position())}
		}
		return nil, err
	}

	return &ast.Program{
		Pos:  ast.Position{Filename: filename, Line: 1, Column: 1},
		Body: convertCommands(program.Commands),
	}, nil
}

func convertCommands(commands []*Command) []ast.Instr {
	body := make([]ast.Instr, 0, len(commands))
	for _, cmd := range commands {
		body = append(body, convertCommand(cmd))
	}
	return body
}

func convertCommand(cmd *Command) ast.Instr {
	pos := position(cmd.Pos)
	if cmd.Loop != nil {
		return &ast.Loop{
			Pos:    pos,
			EndPos: position(cmd.Loop.Close.Pos),
			Body:   convertCommands(cmd.Loop.Body),
		}
	}

	switch token.LookupCommand([]rune(cmd.Op)[0]) {
	case token.INC:
		return &ast.Inc{Pos: pos}
	case token.DEC:
		return &ast.Dec{Pos: pos}
	case token.LSHIFT:
		return &ast.MoveLeft{Pos: pos}
	case token.RSHIFT:
		return &ast.MoveRight{Pos: pos}
	case token.IN:
		return &ast.In{Pos: pos}
	default:
		return &ast.Out{Pos: pos}
	}
}

func position(pos lexer.Position) ast.Position {
	return ast.Position{
		Filename: pos.Filename,
		Offset:   pos.Offset,
		Line:     pos.Line,
		Column:   pos.Column,
	}
}

// reportParseError prints a friendly caret-style parse error message.
func reportParseError(src string, err error) {
	var pos ast.Position
	var message string

	var be *BracketError
	var se *SyntaxError
	switch {
	case stderrors.As(err, &be):
		pos, message = be.Pos, fmt.Sprintf("mis-matched '%s'", be.Bracket)
	case stderrors.As(err, &se):
		pos, message = se.Pos, se.Message
	default:
		color.Red("Unexpected error: %s", err)
		return
	}

	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("Syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Fprintln(os.Stderr, line)
	color.HiRed(caret)
	fmt.Fprintf(os.Stderr, "→ %s\n", message)
}
