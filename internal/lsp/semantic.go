package lsp

import (
	"unicode/utf16"

	"brainf/token"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the semanticTokenTypes array
// TokenModifiers is a bitmask based on semanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into semanticTokenTypes
	TokenModifiers int // bitmask
}

// tokenClass maps a source character onto a semantic token type
func tokenClass(ch rune) string {
	switch token.LookupCommand(ch) {
	case token.INC, token.DEC:
		return "operator"
	case token.LSHIFT, token.RSHIFT:
		return "variable"
	case token.IN, token.OUT:
		return "function"
	case token.LBRACKET, token.RBRACKET:
		return "keyword"
	default:
		return "comment"
	}
}

// collectSemanticTokens scans source and emits one token per run of
// characters sharing a class. Brackets are never merged so each one can be
// matched by the editor. Tokens never span lines and whitespace is not
// highlighted.
func collectSemanticTokens(source string) []SemanticToken {
	var tokens []SemanticToken

	var line, column uint32
	var current *SemanticToken
	currentClass := ""

	flush := func() {
		if current != nil {
			tokens = append(tokens, *current)
			current = nil
			currentClass = ""
		}
	}

	for _, ch := range source {
		width := uint32(1)
		if n := len(utf16.Encode([]rune{ch})); n > 0 {
			width = uint32(n)
		}

		switch {
		case ch == '\n':
			flush()
			line++
			column = 0
			continue
		case ch == ' ' || ch == '\t' || ch == '\r':
			flush()
			column += width
			continue
		}

		class := tokenClass(ch)
		if current == nil || class != currentClass || class == "keyword" {
			flush()
			current = &SemanticToken{
				Line:      line,
				StartChar: column,
				TokenType: indexOf(class, SemanticTokenTypes),
			}
			currentClass = class
		}
		current.Length += width
		column += width
	}
	flush()

	return tokens
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0 // Default to first token type if not found
}
