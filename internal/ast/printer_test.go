package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func doublingProgram() *Program {
	return NewProgram(
		&In{},
		NewLoop(&MoveRight{}, &Inc{}, &Inc{}, &MoveLeft{}, &Dec{}),
		&MoveRight{},
		&Out{},
	)
}

func TestSource(t *testing.T) {
	assert.Equal(t, ",[>++<-]>.", Source(doublingProgram()))
	assert.Equal(t, "", Source(NewProgram()))
	assert.Equal(t, "[[]]", NewProgram(NewLoop(NewLoop())).String())
}

func TestPrint(t *testing.T) {
	expected := `bf.program {
  bf.in
  bf.loop {
    bf.rshft
    bf.inc
    bf.inc
    bf.lshft
    bf.dec
  }
  bf.rshft
  bf.out
}
`
	assert.Equal(t, expected, Print(doublingProgram()))
}

func TestPrintEmptyLoop(t *testing.T) {
	expected := "bf.program {\n  bf.loop {\n  }\n}\n"
	assert.Equal(t, expected, Print(NewProgram(NewLoop())))
}

func TestNodeTypes(t *testing.T) {
	tests := []struct {
		instr    Instr
		expected NodeType
		name     string
	}{
		{&Inc{}, INC, "bf.inc"},
		{&Dec{}, DEC, "bf.dec"},
		{&MoveLeft{}, MOVE_LEFT, "bf.lshft"},
		{&MoveRight{}, MOVE_RIGHT, "bf.rshft"},
		{NewLoop(), LOOP, "bf.loop"},
		{&In{}, IN, "bf.in"},
		{&Out{}, OUT, "bf.out"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.instr.NodeType())
		assert.Equal(t, tt.name, OpName(tt.instr))
	}
	assert.Equal(t, "MOVE_LEFT", MOVE_LEFT.String())
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "-", Position{}.String())
	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
	assert.Equal(t, "a.b:1:2", Position{Filename: "a.b", Line: 1, Column: 2}.String())
}
