package target

import (
	"fmt"
	"strings"
)

// Printer provides pretty-printing for target programs
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new target printer
func NewPrinter() *Printer {
	return &Printer{}
}

// Print returns the string representation of a target program
func Print(program *Program) string {
	p := NewPrinter()
	p.printProgram(program)
	return p.output.String()
}

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

func (p *Printer) printProgram(program *Program) {
	p.writeLine("tgt.program tape %d {", program.TapeSize)
	p.indent++
	p.printSection("setup", program.Setup)
	p.printSection("body", program.Body)
	p.printSection("teardown", program.Teardown)
	p.indent--
	p.writeLine("}")
}

func (p *Printer) printSection(name string, stmts []Stmt) {
	p.writeLine("%s:", name)
	p.indent++
	for _, stmt := range stmts {
		p.printStmt(stmt)
	}
	p.indent--
}

func (p *Printer) printStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *AllocTape:
		p.writeLine("tgt.alloc %d", s.Size)
	case *SetPointer:
		p.writeLine("ptr = %d", s.Value)
	case *FreeTape:
		p.writeLine("tgt.free")
	case *Load:
		p.writeLine("%s = tgt.load %s", s.Dst, address(s.Offset))
	case *Store:
		p.writeLine("tgt.store %s, %s", address(s.Offset), s.Src)
	case *AddConst:
		p.writeLine("%s = tgt.addi %s, %d", s.Dst, s.Src, s.Delta)
	case *MovePointer:
		p.writeLine("ptr = ptr %+d", s.Delta)
	case *CheckBounds:
		addrs := make([]string, len(s.Path))
		for i, d := range s.Path {
			addrs[i] = address(d)
		}
		p.writeLine("tgt.bounds %s", strings.Join(addrs, ", "))
	case *CondLoop:
		p.writeLine("tgt.while %s {", address(s.Guard))
		p.indent++
		for _, inner := range s.Body {
			p.printStmt(inner)
		}
		p.indent--
		p.writeLine("}")
	case *CallIn:
		p.writeLine("%s = tgt.call getchar()", s.Dst)
	case *CallOut:
		p.writeLine("tgt.call putchar(%s)", s.Src)
	case *Label:
		p.writeLine("%s:", s.Name)
	case *JumpIfZero:
		p.writeLine("tgt.jz %s, %s", address(s.Guard), s.Target)
	case *JumpIfNonZero:
		p.writeLine("tgt.jnz %s, %s", address(s.Guard), s.Target)
	default:
		p.writeLine("; unknown statement %T", stmt)
	}
}

func address(offset int) string {
	return fmt.Sprintf("[ptr%+d]", offset)
}
