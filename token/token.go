// Package token SPDX-License-Identifier: Apache-2.0
package token

type TokenType string

type Token struct {
	Type    TokenType
	Literal string
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Cell operators
	INC = "+"
	DEC = "-"

	// Pointer operators
	LSHIFT = "<"
	RSHIFT = ">"

	// I/O
	IN  = ","
	OUT = "."

	// Delimiters
	LBRACKET = "["
	RBRACKET = "]"

	// Everything else is commentary
	COMMENT = "COMMENT"
)

var commands = map[rune]TokenType{
	'+': INC,
	'-': DEC,
	'<': LSHIFT,
	'>': RSHIFT,
	',': IN,
	'.': OUT,
	'[': LBRACKET,
	']': RBRACKET,
}

// LookupCommand returns the token type of a source character
func LookupCommand(ch rune) TokenType {
	if tok, ok := commands[ch]; ok {
		return tok
	}
	return COMMENT
}

// IsCommand reports whether ch is one of the eight command characters
func IsCommand(ch rune) bool {
	_, ok := commands[ch]
	return ok
}
