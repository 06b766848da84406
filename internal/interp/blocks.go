package interp

import (
	"brainf/internal/ast"
	"brainf/internal/errors"
	"brainf/internal/ir"
)

// RunBlocks executes a block program. Pointer values are bound to concrete
// addresses as they are produced; the entry pointer is bound to the
// machine's current pointer.
//
// Addresses are checked when a cell is accessed, when a Bounds op runs and
// when a block leaves the pointer somewhere.
func (m *Machine) RunBlocks(program *ir.Program) error {
	run := &blockRun{
		machine: m,
		program: program,
		env:     make(map[ir.PointerRef]int, len(program.Pointers)),
		values:  make([]byte, program.NumValues),
	}
	run.env[program.Entry] = m.Pointer

	log.Debugf("running block program, %d live nodes", program.Live())
	if _, err := run.runBody(program.Body, 0); err != nil {
		return err
	}

	exit, err := run.lookup(program.Exit, "bfe.exit", 0)
	if err != nil {
		return err
	}
	m.Pointer = exit
	log.Debugf("block program finished after %d steps at pointer %d", m.Steps, m.Pointer)
	return nil
}

type blockRun struct {
	machine *Machine
	program *ir.Program
	env     map[ir.PointerRef]int
	values  []byte
}

// runBody executes a body and returns the address carried by its Continue,
// or -1 for the top-level body
func (r *blockRun) runBody(body []ir.NodeID, depth int) (int, error) {
	for _, id := range body {
		switch node := r.program.Node(id).(type) {
		case *ir.MemBlock:
			if err := r.runBlock(node, depth); err != nil {
				return 0, err
			}

		case *ir.WhileBlock:
			if err := r.runLoop(node, depth); err != nil {
				return 0, err
			}

		case *ir.Continue:
			return r.lookup(node.Value, node.String(), depth)

		default:
			return 0, r.machine.unknown(node)
		}
	}
	return -1, nil
}

func (r *blockRun) runBlock(blk *ir.MemBlock, depth int) error {
	m := r.machine
	base, err := r.lookup(blk.In, blk.String(), depth)
	if err != nil {
		return err
	}
	m.Pointer = base

	for _, op := range blk.Ops {
		if err := m.tick(); err != nil {
			return err
		}

		switch o := op.(type) {
		case ir.Load:
			addr, err := m.address(base, o.Offset, "bfe.load", ast.Position{})
			if err != nil {
				return err
			}
			r.values[o.Dst] = m.Tape[addr]
		case ir.Store:
			addr, err := m.address(base, o.Offset, "bfe.store", ast.Position{})
			if err != nil {
				return err
			}
			m.Tape[addr] = r.values[o.Src]
		case ir.AddConst:
			r.values[o.Dst] = r.values[o.Src] + byte(o.Delta)
		case ir.Input:
			b, err := m.readByte("bfe.in", ast.Position{})
			if err != nil {
				return err
			}
			r.values[o.Dst] = b
		case ir.Output:
			if err := m.writeByte(r.values[o.Src], "bfe.out"); err != nil {
				return err
			}
		case ir.Bounds:
			if err := m.checkPath(base, o.Path, "bfe.bounds"); err != nil {
				return err
			}
		default:
			return m.unknown(op)
		}
	}

	if blk.Move != 0 {
		if err := m.tick(); err != nil {
			return err
		}
	}
	if err := m.moveTo(base+blk.Move, "bfe.mem", ast.Position{}); err != nil {
		return err
	}
	r.env[blk.Out] = m.Pointer
	return nil
}

func (r *blockRun) runLoop(loop *ir.WhileBlock, depth int) error {
	m := r.machine
	current, err := r.lookup(loop.In, loop.String(), depth)
	if err != nil {
		return err
	}

	for {
		r.env[loop.Iter] = current
		m.Pointer = current
		addr, err := m.address(current, 0, "bfe.while", ast.Position{})
		if err != nil {
			return err
		}
		if m.Tape[addr] == 0 {
			break
		}

		next, err := r.runBody(loop.Body, depth+1)
		if err != nil {
			return err
		}
		if next < 0 {
			return errors.Malformed(loop.String(), depth, "loop body ended without a continue")
		}
		if err := m.tick(); err != nil {
			return err
		}
		current = next
	}

	r.env[loop.Out] = current
	return nil
}

func (r *blockRun) lookup(ref ir.PointerRef, where string, depth int) (int, error) {
	addr, ok := r.env[ref]
	if !ok {
		return 0, errors.Malformed(where, depth, "pointer %d read before it was produced", ref)
	}
	return addr, nil
}
