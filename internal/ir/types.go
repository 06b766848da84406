package ir

import (
	"fmt"
)

// IR types for the block-oriented representation.
// Every block consumes one symbolic pointer value and produces another, so the
// pointer travels through the program as a single-assignment chain. Cell
// accesses inside a block are addressed relative to the block's input pointer,
// which keeps alias reasoning local to the block.

// NodeID addresses a node in the program arena
type NodeID int

// PointerRef is a handle into the program's pointer table
type PointerRef int

// ValueRef names a cell value produced inside a memory block
type ValueRef int

const (
	NoNode    NodeID     = -1
	NoPointer PointerRef = -1
)

// Program represents a whole program in block form.
// Nodes is an arena: passes append replacement nodes and rewrite the single
// owning reference (an entry of some Body slice) instead of editing nodes
// that something else may still point at.
type Program struct {
	Nodes     []Node
	Pointers  []PointerDef
	NumValues int
	Entry     PointerRef // address 0 at program start
	Body      []NodeID
	Exit      PointerRef // pointer value after the last node
}

// PointerKind categorizes where a pointer value comes from
type PointerKind string

const (
	PointerEntry  PointerKind = "entry"  // the initial pointer, address 0
	PointerResult PointerKind = "result" // output of a MemBlock or WhileBlock
	PointerIter   PointerKind = "iter"   // pointer seen by one loop iteration
)

// PointerDef records the producer of a pointer value
type PointerDef struct {
	Kind     PointerKind
	Producer NodeID // NoNode for the entry pointer
}

// Node is a block of the program. The set of node kinds is closed.
type Node interface {
	isNode()
	// Input returns the pointer value the node consumes
	Input() PointerRef
	String() string
}

// MemBlock is a straight-line run of cell accesses relative to In, followed by
// a static pointer displacement: Out = In + Move.
type MemBlock struct {
	In   PointerRef
	Out  PointerRef
	Move int
	Ops  []CellOp
}

// WhileBlock repeats Body while the cell at the current iteration pointer is
// non-zero. Iter is In on the first test and the Continue value of the
// previous iteration afterwards; Out is the iteration pointer at exit.
type WhileBlock struct {
	In   PointerRef
	Iter PointerRef
	Out  PointerRef
	Body []NodeID // always ends with a *Continue
}

// Continue terminates a loop body and hands the pointer to the next guard test
type Continue struct {
	Value PointerRef
}

func (*MemBlock) isNode()   {}
func (*WhileBlock) isNode() {}
func (*Continue) isNode()   {}

func (b *MemBlock) Input() PointerRef   { return b.In }
func (w *WhileBlock) Input() PointerRef { return w.In }
func (c *Continue) Input() PointerRef   { return c.Value }

func (b *MemBlock) String() string {
	return fmt.Sprintf("bfe.mem(in=%d, out=%d, move=%d, ops=%d)", b.In, b.Out, b.Move, len(b.Ops))
}

func (w *WhileBlock) String() string {
	return fmt.Sprintf("bfe.while(in=%d, iter=%d, out=%d, nodes=%d)", w.In, w.Iter, w.Out, len(w.Body))
}

func (c *Continue) String() string {
	return fmt.Sprintf("bfe.continue(%d)", c.Value)
}

// Produces returns the pointer value a node produces, if any
func Produces(n Node) (PointerRef, bool) {
	switch node := n.(type) {
	case *MemBlock:
		return node.Out, true
	case *WhileBlock:
		return node.Out, true
	case *Continue:
		return NoPointer, false
	default:
		panic(fmt.Sprintf("ir: unexpected node %T", n))
	}
}

// CellOp is one access inside a MemBlock. Offsets are relative to the block's
// input pointer. The set of op kinds is closed.
type CellOp interface {
	isCellOp()
	// Def returns the value the op defines, if any
	Def() (ValueRef, bool)
	// Uses returns the values the op reads
	Uses() []ValueRef
}

// Load reads the cell at In+Offset
type Load struct {
	Dst    ValueRef
	Offset int
}

// Store writes Src to the cell at In+Offset
type Store struct {
	Src    ValueRef
	Offset int
}

// AddConst computes Src+Delta with 8-bit wraparound
type AddConst struct {
	Dst   ValueRef
	Src   ValueRef
	Delta int
}

// Input reads one byte from the input stream
type Input struct {
	Dst ValueRef
}

// Output writes one byte to the output stream
type Output struct {
	Src ValueRef
}

// Bounds fails unless In+d lies on the tape for every d of Path, checked in
// order. It keeps pointer moves that touch no cell observable once blocks
// are merged. Each entry extends the range already checked in the block.
type Bounds struct {
	Path []int
}

func (Load) isCellOp()     {}
func (Store) isCellOp()    {}
func (AddConst) isCellOp() {}
func (Input) isCellOp()    {}
func (Output) isCellOp()   {}
func (Bounds) isCellOp()   {}

func (o Load) Def() (ValueRef, bool)     { return o.Dst, true }
func (o Store) Def() (ValueRef, bool)    { return 0, false }
func (o AddConst) Def() (ValueRef, bool) { return o.Dst, true }
func (o Input) Def() (ValueRef, bool)    { return o.Dst, true }
func (o Output) Def() (ValueRef, bool)   { return 0, false }
func (o Bounds) Def() (ValueRef, bool)   { return 0, false }

func (o Load) Uses() []ValueRef     { return nil }
func (o Store) Uses() []ValueRef    { return []ValueRef{o.Src} }
func (o AddConst) Uses() []ValueRef { return []ValueRef{o.Src} }
func (o Input) Uses() []ValueRef    { return nil }
func (o Output) Uses() []ValueRef   { return []ValueRef{o.Src} }
func (o Bounds) Uses() []ValueRef   { return nil }

// NewProgram creates an empty program with its entry pointer
func NewProgram() *Program {
	p := &Program{}
	p.Entry = p.newPointer(PointerEntry, NoNode)
	p.Exit = p.Entry
	return p
}

// Node returns the node stored at id
func (p *Program) Node(id NodeID) Node {
	return p.Nodes[id]
}

// Pointer returns the definition of a pointer value
func (p *Program) Pointer(ref PointerRef) PointerDef {
	return p.Pointers[ref]
}

func (p *Program) newPointer(kind PointerKind, producer NodeID) PointerRef {
	p.Pointers = append(p.Pointers, PointerDef{Kind: kind, Producer: producer})
	return PointerRef(len(p.Pointers) - 1)
}

func (p *Program) newValue() ValueRef {
	v := ValueRef(p.NumValues)
	p.NumValues++
	return v
}

func (p *Program) add(n Node) NodeID {
	p.Nodes = append(p.Nodes, n)
	return NodeID(len(p.Nodes) - 1)
}

// Walk visits every node reachable from the program body, loop bodies
// included, in program order.
func (p *Program) Walk(visit func(id NodeID, n Node, depth int)) {
	p.walkBody(p.Body, 0, visit)
}

func (p *Program) walkBody(body []NodeID, depth int, visit func(id NodeID, n Node, depth int)) {
	for _, id := range body {
		n := p.Nodes[id]
		visit(id, n, depth)
		if loop, ok := n.(*WhileBlock); ok {
			p.walkBody(loop.Body, depth+1, visit)
		}
	}
}

// Live returns the number of nodes reachable from the body
func (p *Program) Live() int {
	count := 0
	p.Walk(func(NodeID, Node, int) { count++ })
	return count
}
