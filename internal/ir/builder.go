package ir

import (
	"fmt"

	"brainf/internal/ast"
	"brainf/internal/errors"
)

// Builder lowers the structured instruction tree to block form
type Builder struct {
	program *Program
	scopes  []*scope
}

// scope is one lexical level of the pointer thread: the program body or the
// body of one loop
type scope struct {
	pointer PointerRef // latest pointer value produced in this scope
	body    *[]NodeID  // where new nodes are appended
	open    *MemBlock  // block still accepting cell ops, nil once closed
	loop    *WhileBlock
	loopID  NodeID
	instr   *ast.Loop
}

// NewBuilder creates a new block IR builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build converts a structured program to block form
func (b *Builder) Build(program *ast.Program) (*Program, error) {
	b.program = NewProgram()
	b.scopes = []*scope{{
		pointer: b.program.Entry,
		body:    &b.program.Body,
		loopID:  NoNode,
	}}

	if err := b.lowerBody(program.Body); err != nil {
		return nil, err
	}

	if len(b.scopes) != 1 {
		return nil, errors.Lowering("bf.program", b.depth(), program.Pos,
			"%d loop scopes still open at end of program", len(b.scopes)-1)
	}

	b.program.Exit = b.current().pointer
	log.Debugf("lowered program: %d nodes, %d pointer values, %d cell values",
		len(b.program.Nodes), len(b.program.Pointers), b.program.NumValues)
	return b.program, nil
}

func (b *Builder) lowerBody(body []ast.Instr) error {
	for _, instr := range body {
		if err := b.lowerInstr(instr); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) lowerInstr(instr ast.Instr) error {
	switch node := instr.(type) {
	case *ast.Inc:
		b.emitAdd(1)
	case *ast.Dec:
		b.emitAdd(-1)
	case *ast.In:
		blk := b.openBlock()
		v := b.program.newValue()
		blk.Ops = append(blk.Ops, Input{Dst: v}, Store{Src: v, Offset: 0})
	case *ast.Out:
		blk := b.openBlock()
		v := b.program.newValue()
		blk.Ops = append(blk.Ops, Load{Dst: v, Offset: 0}, Output{Src: v})
	case *ast.MoveLeft:
		b.emitMove(-1)
	case *ast.MoveRight:
		b.emitMove(1)
	case *ast.Loop:
		b.enterLoop(node)
		if err := b.lowerBody(node.Body); err != nil {
			return err
		}
		return b.exitLoop(node)
	default:
		return errors.Lowering(fmt.Sprintf("%T", instr), b.depth(), instr.NodePos(),
			"unknown instruction kind")
	}
	return nil
}

// emitAdd appends load / add / store at offset 0 of the open block
func (b *Builder) emitAdd(delta int) {
	blk := b.openBlock()
	loaded := b.program.newValue()
	sum := b.program.newValue()
	blk.Ops = append(blk.Ops,
		Load{Dst: loaded, Offset: 0},
		AddConst{Dst: sum, Src: loaded, Delta: delta},
		Store{Src: sum, Offset: 0},
	)
}

// emitMove closes the open block and emits a block that only moves the pointer
func (b *Builder) emitMove(delta int) {
	s := b.current()
	s.open = nil
	blk := &MemBlock{In: s.pointer, Move: delta}
	id := b.program.add(blk)
	blk.Out = b.program.newPointer(PointerResult, id)
	*s.body = append(*s.body, id)
	s.pointer = blk.Out
}

// openBlock returns the block accepting cell ops in the current scope,
// starting one if the previous block was closed by a move or a loop
func (b *Builder) openBlock() *MemBlock {
	s := b.current()
	if s.open != nil {
		return s.open
	}
	blk := &MemBlock{In: s.pointer}
	id := b.program.add(blk)
	blk.Out = b.program.newPointer(PointerResult, id)
	*s.body = append(*s.body, id)
	s.pointer = blk.Out
	s.open = blk
	return blk
}

func (b *Builder) enterLoop(instr *ast.Loop) {
	s := b.current()
	s.open = nil

	loop := &WhileBlock{In: s.pointer}
	id := b.program.add(loop)
	loop.Iter = b.program.newPointer(PointerIter, id)
	*s.body = append(*s.body, id)

	b.scopes = append(b.scopes, &scope{
		pointer: loop.Iter,
		body:    &loop.Body,
		loop:    loop,
		loopID:  id,
		instr:   instr,
	})
}

func (b *Builder) exitLoop(instr *ast.Loop) error {
	if len(b.scopes) < 2 {
		return errors.Lowering(ast.OpName(instr), b.depth(), instr.EndPos,
			"scope stack underflow at loop exit")
	}

	inner := b.current()
	if inner.instr != instr {
		return errors.Lowering(ast.OpName(instr), b.depth(), instr.EndPos,
			"loop exit does not match the innermost open loop")
	}
	if inner.pointer < 0 || int(inner.pointer) >= len(b.program.Pointers) {
		return errors.Lowering(ast.OpName(instr), b.depth(), instr.EndPos,
			"dangling pointer value %d at loop exit", inner.pointer)
	}

	cont := b.program.add(&Continue{Value: inner.pointer})
	*inner.body = append(*inner.body, cont)
	b.scopes = b.scopes[:len(b.scopes)-1]

	inner.loop.Out = b.program.newPointer(PointerResult, inner.loopID)
	outer := b.current()
	outer.pointer = inner.loop.Out
	outer.open = nil
	return nil
}

func (b *Builder) current() *scope {
	return b.scopes[len(b.scopes)-1]
}

func (b *Builder) depth() int {
	return len(b.scopes) - 1
}
