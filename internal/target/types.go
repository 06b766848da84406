package target

import "fmt"

// Target IR: a fixed-size tape, a pointer variable and primitive statements.
// Cell addresses are always relative to the pointer variable. The machine
// executing it checks every address; CheckBounds carries the pointer walks
// that merged blocks no longer perform one step at a time.

// DefaultTapeSize is the classic tape length
const DefaultTapeSize = 30000

// Temp names a scratch slot holding one cell value
type Temp int

// Program is a lowered program. Setup and Teardown bracket the body.
type Program struct {
	TapeSize int
	NumTemps int
	Setup    []Stmt
	Body     []Stmt
	Teardown []Stmt
}

// Stmt is a target statement. The set of statement kinds is closed.
type Stmt interface {
	isStmt()
}

// AllocTape allocates a zeroed tape of Size cells
type AllocTape struct {
	Size int
}

// SetPointer assigns the pointer variable
type SetPointer struct {
	Value int
}

// FreeTape releases the tape
type FreeTape struct{}

// Load reads tape[ptr+Offset] into Dst
type Load struct {
	Dst    Temp
	Offset int
}

// Store writes Src to tape[ptr+Offset]
type Store struct {
	Offset int
	Src    Temp
}

// AddConst computes Dst = Src + Delta with 8-bit wraparound
type AddConst struct {
	Dst   Temp
	Src   Temp
	Delta int
}

// MovePointer adds Delta to the pointer variable
type MovePointer struct {
	Delta int
}

// CheckBounds fails unless ptr+d lies on the tape for every d of Path,
// checked in order
type CheckBounds struct {
	Path []int
}

// CondLoop repeats Body while tape[ptr+Guard] is non-zero
type CondLoop struct {
	Guard int
	Body  []Stmt
}

// CallIn reads one byte from the input primitive
type CallIn struct {
	Dst Temp
}

// CallOut writes one byte to the output primitive
type CallOut struct {
	Src Temp
}

// Label marks a jump target in flattened code
type Label struct {
	Name string
}

// JumpIfZero branches to Target when tape[ptr+Guard] is zero
type JumpIfZero struct {
	Guard  int
	Target string
}

// JumpIfNonZero branches to Target when tape[ptr+Guard] is non-zero
type JumpIfNonZero struct {
	Guard  int
	Target string
}

func (*AllocTape) isStmt()     {}
func (*SetPointer) isStmt()    {}
func (*FreeTape) isStmt()      {}
func (*Load) isStmt()          {}
func (*Store) isStmt()         {}
func (*AddConst) isStmt()      {}
func (*MovePointer) isStmt()   {}
func (*CheckBounds) isStmt()   {}
func (*CondLoop) isStmt()      {}
func (*CallIn) isStmt()        {}
func (*CallOut) isStmt()       {}
func (*Label) isStmt()         {}
func (*JumpIfZero) isStmt()    {}
func (*JumpIfNonZero) isStmt() {}

// NewProgram creates a program with the standard setup and teardown
func NewProgram(tapeSize int) *Program {
	if tapeSize <= 0 {
		tapeSize = DefaultTapeSize
	}
	return &Program{
		TapeSize: tapeSize,
		Setup: []Stmt{
			&AllocTape{Size: tapeSize},
			&SetPointer{Value: 0},
		},
		Teardown: []Stmt{
			&FreeTape{},
		},
	}
}

func (p *Program) newTemp() Temp {
	t := Temp(p.NumTemps)
	p.NumTemps++
	return t
}

// IsFlat reports whether the body contains no structured loops
func (p *Program) IsFlat() bool {
	for _, stmt := range p.Body {
		if _, ok := stmt.(*CondLoop); ok {
			return false
		}
	}
	return true
}

func (t Temp) String() string {
	return fmt.Sprintf("%%t%d", int(t))
}
