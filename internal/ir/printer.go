package ir

import (
	"fmt"
	"strings"
)

// Printer provides pretty-printing for IR.
// Pointer and cell values are renumbered in order of definition, so the
// rendering only depends on program structure and not on arena layout.
type Printer struct {
	indent   int
	output   strings.Builder
	pointers map[PointerRef]int
	values   map[ValueRef]int
}

// NewPrinter creates a new IR printer
func NewPrinter() *Printer {
	return &Printer{
		indent:   0,
		pointers: make(map[PointerRef]int),
		values:   make(map[ValueRef]int),
	}
}

// Print returns the string representation of an IR program
func Print(program *Program) string {
	p := NewPrinter()
	p.printProgram(program)
	return p.output.String()
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) definePointer(ref PointerRef) string {
	if _, ok := p.pointers[ref]; !ok {
		p.pointers[ref] = len(p.pointers)
	}
	return p.pointerString(ref)
}

func (p *Printer) pointerString(ref PointerRef) string {
	if n, ok := p.pointers[ref]; ok {
		return fmt.Sprintf("%%p%d", n)
	}
	return fmt.Sprintf("%%p?%d", ref)
}

func (p *Printer) defineValue(ref ValueRef) string {
	if _, ok := p.values[ref]; !ok {
		p.values[ref] = len(p.values)
	}
	return p.valueString(ref)
}

func (p *Printer) valueString(ref ValueRef) string {
	if n, ok := p.values[ref]; ok {
		return fmt.Sprintf("%%v%d", n)
	}
	return fmt.Sprintf("%%v?%d", ref)
}

// printProgram prints the entire IR program
func (p *Printer) printProgram(program *Program) {
	p.writeLine("bfe.program {")
	p.indent++
	p.writeLine("%s = bfe.entry", p.definePointer(program.Entry))
	p.printBody(program, program.Body)
	p.writeLine("bfe.exit %s", p.pointerString(program.Exit))
	p.indent--
	p.writeLine("}")
}

func (p *Printer) printBody(program *Program, body []NodeID) {
	for _, id := range body {
		p.printNode(program, program.Node(id))
	}
}

func (p *Printer) printNode(program *Program, n Node) {
	switch node := n.(type) {
	case *MemBlock:
		in := p.pointerString(node.In)
		out := p.definePointer(node.Out)
		if len(node.Ops) == 0 {
			p.writeLine("%s = bfe.mem %s move %d", out, in, node.Move)
			return
		}
		p.writeLine("%s = bfe.mem %s move %d {", out, in, node.Move)
		p.indent++
		for _, op := range node.Ops {
			p.printOp(op)
		}
		p.indent--
		p.writeLine("}")

	case *WhileBlock:
		in := p.pointerString(node.In)
		out := p.definePointer(node.Out)
		iter := p.definePointer(node.Iter)
		p.writeLine("%s = bfe.while %s iter %s {", out, in, iter)
		p.indent++
		p.printBody(program, node.Body)
		p.indent--
		p.writeLine("}")

	case *Continue:
		p.writeLine("bfe.continue %s", p.pointerString(node.Value))

	default:
		p.writeLine("; unknown node %T", n)
	}
}

func (p *Printer) printOp(op CellOp) {
	switch o := op.(type) {
	case Load:
		p.writeLine("%s = bfe.load [%d]", p.defineValue(o.Dst), o.Offset)
	case Store:
		p.writeLine("bfe.store %s [%d]", p.valueString(o.Src), o.Offset)
	case AddConst:
		src := p.valueString(o.Src)
		p.writeLine("%s = bfe.addi %s, %d", p.defineValue(o.Dst), src, o.Delta)
	case Input:
		p.writeLine("%s = bfe.in", p.defineValue(o.Dst))
	case Output:
		p.writeLine("bfe.out %s", p.valueString(o.Src))
	case Bounds:
		p.writeLine("bfe.bounds %s", formatPath(o.Path))
	default:
		p.writeLine("; unknown op %T", op)
	}
}

// FormatOp renders a single cell op with raw value numbers, for diagnostics
func FormatOp(op CellOp) string {
	switch o := op.(type) {
	case Load:
		return fmt.Sprintf("bfe.load [%d]", o.Offset)
	case Store:
		return fmt.Sprintf("bfe.store [%d]", o.Offset)
	case AddConst:
		return fmt.Sprintf("bfe.addi %d", o.Delta)
	case Input:
		return "bfe.in"
	case Output:
		return "bfe.out"
	case Bounds:
		return "bfe.bounds " + formatPath(o.Path)
	default:
		return fmt.Sprintf("%T", op)
	}
}

func formatPath(path []int) string {
	parts := make([]string, len(path))
	for i, d := range path {
		parts[i] = fmt.Sprintf("[%d]", d)
	}
	return strings.Join(parts, ", ")
}
