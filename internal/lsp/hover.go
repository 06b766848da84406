package lsp

import (
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"brainf/internal/ast"
)

var instrDocs = map[ast.NodeType]string{
	ast.INC:        "add one to the current cell",
	ast.DEC:        "subtract one from the current cell",
	ast.MOVE_LEFT:  "move the pointer one cell left",
	ast.MOVE_RIGHT: "move the pointer one cell right",
	ast.IN:         "read one byte of input into the current cell",
	ast.OUT:        "write the current cell as one byte of output",
	ast.LOOP:       "repeat the body while the current cell is non-zero",
}

// TextDocumentHover describes the instruction under the cursor
func (h *BfHandler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	_, tree, err := h.getOrUpdateTree(ctx, path, rawURI)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	column := int(params.Position.Character) + 1

	instr, depth := findInstr(tree, line, column)
	if instr == nil {
		return nil, nil
	}

	value := fmt.Sprintf("`%s` %s", ast.OpName(instr), instrDocs[instr.NodeType()])
	if loop, ok := instr.(*ast.Loop); ok {
		value += fmt.Sprintf("\n\nnesting depth %d, %d instructions in body, closes at %d:%d",
			depth+1, len(loop.Body), loop.EndPos.Line, loop.EndPos.Column)
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: value,
		},
		Range: &protocol.Range{
			Start: params.Position,
			End:   protocol.Position{Line: params.Position.Line, Character: params.Position.Character + 1},
		},
	}, nil
}

// findInstr returns the instruction whose opening or closing character sits
// at line:column, with its loop nesting depth
func findInstr(program *ast.Program, line, column int) (ast.Instr, int) {
	var found ast.Instr
	foundDepth := 0

	ast.Walk(program, func(instr ast.Instr, depth int) bool {
		if found != nil {
			return false
		}
		pos := instr.NodePos()
		if pos.Line == line && pos.Column == column {
			found, foundDepth = instr, depth
			return false
		}
		if loop, ok := instr.(*ast.Loop); ok && loop.EndPos.Line == line && loop.EndPos.Column == column {
			found, foundDepth = instr, depth
			return false
		}
		return true
	})

	return found, foundDepth
}
