package interp

import (
	"brainf/internal/ast"
)

// RunTree walks an instruction tree
func (m *Machine) RunTree(program *ast.Program) error {
	log.Debugf("running tree program, %d top-level instructions", len(program.Body))
	if err := m.runTree(program.Body); err != nil {
		return err
	}
	log.Debugf("tree program finished after %d steps at pointer %d", m.Steps, m.Pointer)
	return nil
}

func (m *Machine) runTree(body []ast.Instr) error {
	for _, instr := range body {
		if err := m.tick(); err != nil {
			return err
		}

		switch node := instr.(type) {
		case *ast.Inc:
			m.Tape[m.Pointer]++
		case *ast.Dec:
			m.Tape[m.Pointer]--
		case *ast.MoveLeft:
			if err := m.moveTo(m.Pointer-1, ast.OpName(node), node.Pos); err != nil {
				return err
			}
		case *ast.MoveRight:
			if err := m.moveTo(m.Pointer+1, ast.OpName(node), node.Pos); err != nil {
				return err
			}
		case *ast.In:
			b, err := m.readByte(ast.OpName(node), node.Pos)
			if err != nil {
				return err
			}
			m.Tape[m.Pointer] = b
		case *ast.Out:
			if err := m.writeByte(m.Tape[m.Pointer], ast.OpName(node)); err != nil {
				return err
			}
		case *ast.Loop:
			for m.Tape[m.Pointer] != 0 {
				if err := m.runTree(node.Body); err != nil {
					return err
				}
				if err := m.tick(); err != nil {
					return err
				}
			}
		default:
			return m.unknown(instr)
		}
	}
	return nil
}
