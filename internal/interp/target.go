package interp

import (
	"fmt"

	"brainf/internal/ast"
	"brainf/internal/target"
)

// RunTarget executes a target program, structured or flattened. Setup
// allocates a fresh tape of the program's size and resets the pointer.
// Teardown is a no-op so the final tape stays inspectable.
func (m *Machine) RunTarget(program *target.Program) error {
	temps := make([]byte, program.NumTemps)

	log.Debugf("running target program, %d statements, flat=%t", len(program.Body), program.IsFlat())
	if err := m.runStmts(program.Setup, temps); err != nil {
		return err
	}

	var err error
	if program.IsFlat() {
		err = m.runFlat(program.Body, temps)
	} else {
		err = m.runStmts(program.Body, temps)
	}
	if err != nil {
		return err
	}

	if err := m.runStmts(program.Teardown, temps); err != nil {
		return err
	}
	log.Debugf("target program finished after %d steps at pointer %d", m.Steps, m.Pointer)
	return nil
}

func (m *Machine) runStmts(stmts []target.Stmt, temps []byte) error {
	for _, stmt := range stmts {
		if loop, ok := stmt.(*target.CondLoop); ok {
			if err := m.runCondLoop(loop, temps); err != nil {
				return err
			}
			continue
		}
		jump, err := m.step(stmt, temps)
		if err != nil {
			return err
		}
		if jump != "" {
			return fmt.Errorf("tgt: jump to %q inside structured code", jump)
		}
	}
	return nil
}

func (m *Machine) runCondLoop(loop *target.CondLoop, temps []byte) error {
	for {
		if err := m.tick(); err != nil {
			return err
		}
		guard, err := m.cellAt(loop.Guard, "tgt.while")
		if err != nil {
			return err
		}
		if guard == 0 {
			return nil
		}
		if err := m.runStmts(loop.Body, temps); err != nil {
			return err
		}
	}
}

// runFlat executes labels and jumps with a program counter
func (m *Machine) runFlat(stmts []target.Stmt, temps []byte) error {
	labels := make(map[string]int)
	for i, stmt := range stmts {
		if label, ok := stmt.(*target.Label); ok {
			labels[label.Name] = i
		}
	}
	resolve := func(name string) (int, error) {
		pc, ok := labels[name]
		if !ok {
			return 0, fmt.Errorf("tgt: jump to undefined label %q", name)
		}
		return pc, nil
	}

	for pc := 0; pc < len(stmts); pc++ {
		jump, err := m.step(stmts[pc], temps)
		if err != nil {
			return err
		}
		if jump != "" {
			if pc, err = resolve(jump); err != nil {
				return err
			}
		}
	}
	return nil
}

// step executes one non-loop statement and returns the label to jump to,
// if the statement is a taken branch
func (m *Machine) step(stmt target.Stmt, temps []byte) (string, error) {
	if err := m.tick(); err != nil {
		return "", err
	}

	switch s := stmt.(type) {
	case *target.AllocTape:
		m.Tape = make([]byte, s.Size)
	case *target.SetPointer:
		if err := m.moveTo(s.Value, "tgt.setptr", ast.Position{}); err != nil {
			return "", err
		}
	case *target.FreeTape:
	case *target.Load:
		v, err := m.cellAt(s.Offset, "tgt.load")
		if err != nil {
			return "", err
		}
		temps[s.Dst] = v
	case *target.Store:
		addr, err := m.address(m.Pointer, s.Offset, "tgt.store", ast.Position{})
		if err != nil {
			return "", err
		}
		m.Tape[addr] = temps[s.Src]
	case *target.AddConst:
		temps[s.Dst] = temps[s.Src] + byte(s.Delta)
	case *target.MovePointer:
		if err := m.moveTo(m.Pointer+s.Delta, "tgt.move", ast.Position{}); err != nil {
			return "", err
		}
	case *target.CheckBounds:
		if err := m.checkPath(m.Pointer, s.Path, "tgt.bounds"); err != nil {
			return "", err
		}
	case *target.CallIn:
		b, err := m.readByte("tgt.getchar", ast.Position{})
		if err != nil {
			return "", err
		}
		temps[s.Dst] = b
	case *target.CallOut:
		if err := m.writeByte(temps[s.Src], "tgt.putchar"); err != nil {
			return "", err
		}
	case *target.Label:
	case *target.JumpIfZero:
		v, err := m.cellAt(s.Guard, "tgt.jz")
		if err != nil {
			return "", err
		}
		if v == 0 {
			return s.Target, nil
		}
	case *target.JumpIfNonZero:
		v, err := m.cellAt(s.Guard, "tgt.jnz")
		if err != nil {
			return "", err
		}
		if v != 0 {
			return s.Target, nil
		}
	default:
		return "", m.unknown(stmt)
	}
	return "", nil
}

func (m *Machine) cellAt(offset int, op string) (byte, error) {
	addr, err := m.address(m.Pointer, offset, op, ast.Position{})
	if err != nil {
		return 0, err
	}
	return m.Tape[addr], nil
}
