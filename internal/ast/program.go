package ast

import "fmt"

// Program is the parsed program: a sequence of instructions, loops nested
// inside it. It is built once and never mutated by later passes.
// Example: ",[>++<-]>." parses to In, Loop{MoveRight, Inc, Inc, MoveLeft, Dec}, MoveRight, Out
type Program struct {
	Pos  Position
	Body []Instr
}

// Position tracks location information for error reporting and tooling
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// IsValid reports whether the position came from real source text
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	switch {
	case !p.IsValid():
		return "-"
	case p.Filename != "":
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	default:
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
}

// Inc adds one to the cell under the pointer ("+")
type Inc struct {
	Pos Position
}

// Dec subtracts one from the cell under the pointer ("-")
type Dec struct {
	Pos Position
}

// MoveLeft moves the pointer one cell to the left ("<")
type MoveLeft struct {
	Pos Position
}

// MoveRight moves the pointer one cell to the right (">")
type MoveRight struct {
	Pos Position
}

// Loop repeats Body while the cell under the pointer is non-zero ("[" ... "]").
// The guard is evaluated before every iteration, including the first.
type Loop struct {
	Pos    Position
	EndPos Position
	Body   []Instr
}

// In reads one byte of input into the cell under the pointer (",")
type In struct {
	Pos Position
}

// Out writes the cell under the pointer to the output (".")
type Out struct {
	Pos Position
}

// NewProgram builds a program from a sequence of instructions
func NewProgram(body ...Instr) *Program {
	return &Program{Body: body}
}

// NewLoop builds a loop around the given body
func NewLoop(body ...Instr) *Loop {
	return &Loop{Body: body}
}
