package grammar

import (
	"fmt"

	"brainf/internal/ast"
	"brainf/internal/errors"
	"brainf/token"
)

// BracketError is an unbalanced loop delimiter
type BracketError struct {
	Bracket string
	Pos     ast.Position
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("%s: mis-matched '%s'", e.Pos, e.Bracket)
}

func (e *BracketError) Diagnostic() errors.CompilerError {
	return errors.MismatchedBracket(e.Bracket, e.Pos)
}

// MatchBrackets reports every unbalanced bracket in source: each "]" without
// an opener, then each "[" left open at the end, innermost last.
func MatchBrackets(filename, source string) []*BracketError {
	var errs []*BracketError
	var open []ast.Position

	line, column := 1, 1
	for offset, ch := range source {
		pos := ast.Position{Filename: filename, Offset: offset, Line: line, Column: column}

		switch token.LookupCommand(ch) {
		case token.LBRACKET:
			open = append(open, pos)
		case token.RBRACKET:
			if len(open) == 0 {
				errs = append(errs, &BracketError{Bracket: token.RBRACKET, Pos: pos})
			} else {
				open = open[:len(open)-1]
			}
		}

		if ch == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}

	for _, pos := range open {
		errs = append(errs, &BracketError{Bracket: token.LBRACKET, Pos: pos})
	}
	return errs
}
