package ast

import (
	"fmt"
	"strings"
)

func (*Inc) String() string       { return "+" }
func (*Dec) String() string       { return "-" }
func (*MoveLeft) String() string  { return "<" }
func (*MoveRight) String() string { return ">" }
func (*In) String() string        { return "," }
func (*Out) String() string       { return "." }

func (l *Loop) String() string {
	var b strings.Builder
	b.WriteString("[")
	writeSource(&b, l.Body)
	b.WriteString("]")
	return b.String()
}

func (p *Program) String() string {
	return Source(p)
}

// Source renders the program back to command characters, comments dropped
func Source(p *Program) string {
	var b strings.Builder
	writeSource(&b, p.Body)
	return b.String()
}

func writeSource(b *strings.Builder, body []Instr) {
	for _, instr := range body {
		b.WriteString(instr.String())
	}
}

// OpName returns the operator name used by the textual IR rendering
func OpName(instr Instr) string {
	switch instr.(type) {
	case *Inc:
		return "bf.inc"
	case *Dec:
		return "bf.dec"
	case *MoveLeft:
		return "bf.lshft"
	case *MoveRight:
		return "bf.rshft"
	case *Loop:
		return "bf.loop"
	case *In:
		return "bf.in"
	case *Out:
		return "bf.out"
	default:
		panic(fmt.Sprintf("ast: unexpected instruction %T", instr))
	}
}

// Print returns the indented textual rendering of the tree used in golden tests.
//
//	bf.program {
//	  bf.in
//	  bf.loop {
//	    bf.dec
//	  }
//	}
func Print(p *Program) string {
	var b strings.Builder
	b.WriteString("bf.program {\n")
	printBody(&b, p.Body, 1)
	b.WriteString("}\n")
	return b.String()
}

func printBody(b *strings.Builder, body []Instr, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, instr := range body {
		b.WriteString(indent)
		b.WriteString(OpName(instr))
		if loop, ok := instr.(*Loop); ok {
			b.WriteString(" {\n")
			printBody(b, loop.Body, depth+1)
			b.WriteString(indent)
			b.WriteString("}")
		}
		b.WriteString("\n")
	}
}
