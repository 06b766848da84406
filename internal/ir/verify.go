package ir

import (
	"brainf/internal/errors"
)

// Verify checks the structural invariants of a block program:
// every pointer value is defined exactly once and consumed by the node that
// follows its producer, loop bodies end in exactly one Continue, and cell
// values are defined before use within their block.
func Verify(p *Program) error {
	v := &verifier{
		program:  p,
		pointers: make(map[PointerRef]bool),
		values:   make(map[ValueRef]bool),
	}
	return v.verifyProgram()
}

type verifier struct {
	program  *Program
	pointers map[PointerRef]bool
	values   map[ValueRef]bool
}

func (v *verifier) verifyProgram() error {
	p := v.program
	if err := v.definePointer(p.Entry, PointerEntry, NoNode, "bfe.entry", 0); err != nil {
		return err
	}

	last, err := v.verifyBody(p.Body, p.Entry, 0, false)
	if err != nil {
		return err
	}
	if p.Exit != last {
		return errors.Malformed("bfe.exit", 0, "exit pointer %d is not the last pointer value %d", p.Exit, last)
	}
	return nil
}

// verifyBody checks a body whose first node must consume start and returns
// the pointer value after the body
func (v *verifier) verifyBody(body []NodeID, start PointerRef, depth int, inLoop bool) (PointerRef, error) {
	current := start

	for i, id := range body {
		if id < 0 || int(id) >= len(v.program.Nodes) {
			return NoPointer, errors.Malformed("bfe.body", depth, "node id %d out of range", id)
		}
		n := v.program.Node(id)
		if n.Input() != current {
			return NoPointer, errors.Malformed(n.String(), depth,
				"node consumes pointer %d but the current pointer is %d", n.Input(), current)
		}

		switch node := n.(type) {
		case *MemBlock:
			if err := v.verifyOps(node, depth); err != nil {
				return NoPointer, err
			}
			if err := v.definePointer(node.Out, PointerResult, id, node.String(), depth); err != nil {
				return NoPointer, err
			}
			current = node.Out

		case *WhileBlock:
			if err := v.definePointer(node.Iter, PointerIter, id, node.String(), depth); err != nil {
				return NoPointer, err
			}
			if len(node.Body) == 0 {
				return NoPointer, errors.Malformed(node.String(), depth, "loop body has no continue")
			}
			if _, ok := v.program.Node(node.Body[len(node.Body)-1]).(*Continue); !ok {
				return NoPointer, errors.Malformed(node.String(), depth, "loop body does not end with a continue")
			}
			if _, err := v.verifyBody(node.Body, node.Iter, depth+1, true); err != nil {
				return NoPointer, err
			}
			if err := v.definePointer(node.Out, PointerResult, id, node.String(), depth); err != nil {
				return NoPointer, err
			}
			current = node.Out

		case *Continue:
			if !inLoop {
				return NoPointer, errors.Malformed(node.String(), depth, "continue outside of a loop body")
			}
			if i != len(body)-1 {
				return NoPointer, errors.Malformed(node.String(), depth, "continue is not the last node of its body")
			}

		default:
			return NoPointer, errors.Malformed(n.String(), depth, "unknown node kind %T", n)
		}
	}

	return current, nil
}

func (v *verifier) definePointer(ref PointerRef, kind PointerKind, producer NodeID, where string, depth int) error {
	if ref < 0 || int(ref) >= len(v.program.Pointers) {
		return errors.Malformed(where, depth, "pointer %d out of range", ref)
	}
	if v.pointers[ref] {
		return errors.Malformed(where, depth, "pointer %d defined more than once", ref)
	}
	def := v.program.Pointer(ref)
	if def.Kind != kind {
		return errors.Malformed(where, depth, "pointer %d has kind %s, expected %s", ref, def.Kind, kind)
	}
	if def.Producer != producer {
		return errors.Malformed(where, depth, "pointer %d records producer %d, expected %d", ref, def.Producer, producer)
	}
	v.pointers[ref] = true
	return nil
}

func (v *verifier) verifyOps(blk *MemBlock, depth int) error {
	local := make(map[ValueRef]bool, len(blk.Ops))
	for _, op := range blk.Ops {
		if b, ok := op.(Bounds); ok && len(b.Path) == 0 {
			return errors.Malformed(FormatOp(op), depth, "bounds check with an empty path")
		}
		for _, use := range op.Uses() {
			if !local[use] {
				return errors.Malformed(FormatOp(op), depth, "value %d used before definition in its block", use)
			}
		}
		if def, ok := op.Def(); ok {
			if def < 0 || int(def) >= v.program.NumValues {
				return errors.Malformed(FormatOp(op), depth, "value %d out of range", def)
			}
			if v.values[def] {
				return errors.Malformed(FormatOp(op), depth, "value %d defined more than once", def)
			}
			v.values[def] = true
			local[def] = true
		}
	}
	return nil
}
