// SPDX-License-Identifier: Apache-2.0
package grammar_test

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainf/grammar"
	"brainf/internal/ast"
	"brainf/internal/errors"
)

func TestParseDoubling(t *testing.T) {
	program, err := grammar.ParseString("double.bf", "read a byte\n,[>++<-]>. print twice it")
	require.NoError(t, err)

	assert.Equal(t, ",[>++<-]>.", ast.Source(program))
	require.Len(t, program.Body, 4)

	in, ok := program.Body[0].(*ast.In)
	require.True(t, ok)
	assert.Equal(t, ast.Position{Filename: "double.bf", Offset: 12, Line: 2, Column: 1}, in.Pos)

	loop, ok := program.Body[1].(*ast.Loop)
	require.True(t, ok)
	assert.Equal(t, 2, loop.Pos.Column)
	assert.Equal(t, 8, loop.EndPos.Column)
	require.Len(t, loop.Body, 5)
	assert.IsType(t, &ast.MoveRight{}, loop.Body[0])
	assert.IsType(t, &ast.Inc{}, loop.Body[1])
	assert.IsType(t, &ast.MoveLeft{}, loop.Body[3])
	assert.IsType(t, &ast.Dec{}, loop.Body[4])

	assert.IsType(t, &ast.MoveRight{}, program.Body[2])
	assert.IsType(t, &ast.Out{}, program.Body[3])
}

func TestParseEmpty(t *testing.T) {
	for _, src := range []string{"", "only commentary here\n"} {
		program, err := grammar.ParseString("empty.bf", src)
		require.NoError(t, err)
		assert.Empty(t, program.Body)
	}
}

func TestParseNested(t *testing.T) {
	program, err := grammar.ParseString("nested.bf", "[-[-][-]]")
	require.NoError(t, err)

	stats := ast.CollectStats(program)
	assert.Equal(t, 3, stats.Counts[ast.LOOP])
	assert.Equal(t, 3, stats.Counts[ast.DEC])
	assert.Equal(t, 2, stats.MaxDepth)
}

func TestParseMismatchedBrackets(t *testing.T) {
	tests := []struct {
		src     string
		bracket string
		line    int
		column  int
	}{
		{"+]", "]", 1, 2},
		{"[[-]", "[", 1, 1},
		{"+\n+[", "[", 2, 2},
		{"][", "]", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := grammar.ParseString("bad.bf", tt.src)
			require.Error(t, err)

			var be *grammar.BracketError
			require.True(t, stderrors.As(err, &be))
			assert.Equal(t, tt.bracket, be.Bracket)
			assert.Equal(t, tt.line, be.Pos.Line)
			assert.Equal(t, tt.column, be.Pos.Column)
			assert.Equal(t, errors.ErrorMismatchedBracket, be.Diagnostic().Code)
		})
	}
}

func TestMatchBracketsReportsAll(t *testing.T) {
	errs := grammar.MatchBrackets("x.bf", "]][[")

	require.Len(t, errs, 4)
	assert.Equal(t, "]", errs[0].Bracket)
	assert.Equal(t, "]", errs[1].Bracket)
	assert.Equal(t, "[", errs[2].Bracket)
	assert.Equal(t, 3, errs[2].Pos.Column)
	assert.Equal(t, 4, errs[3].Pos.Column)
	assert.Equal(t, "x.bf:1:1: mis-matched ']'", errs[0].Error())
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echo.bf")
	require.NoError(t, os.WriteFile(path, []byte(",.\n"), 0o644))

	program, err := grammar.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, ",.", ast.Source(program))
	assert.Equal(t, path, program.Body[0].NodePos().Filename)

	_, err = grammar.ParseFile(filepath.Join(t.TempDir(), "missing.bf"))
	assert.Error(t, err)
}
