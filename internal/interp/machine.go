package interp

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/tliron/commonlog"

	"brainf/internal/ast"
	"brainf/internal/ir"
	"brainf/internal/target"
)

var log = commonlog.GetLogger("brainf.interp")

// Machine is the mutable state a program runs against. One machine belongs
// to one caller; it may run several programs in sequence, which then share
// the tape and pointer.
type Machine struct {
	Pointer int
	Tape    []byte
	Steps   uint64

	config Config
	input  io.ByteReader
	output io.Writer
}

// New creates a machine with a zeroed tape
func New(config Config) *Machine {
	if config.TapeSize <= 0 {
		config.TapeSize = target.DefaultTapeSize
	}
	m := &Machine{
		Tape:   make([]byte, config.TapeSize),
		config: config,
		output: config.Output,
	}
	if config.Input != nil {
		if br, ok := config.Input.(io.ByteReader); ok {
			m.input = br
		} else {
			m.input = bufio.NewReader(config.Input)
		}
	}
	if m.output == nil {
		m.output = io.Discard
	}
	return m
}

// Run executes program on a fresh machine and returns the final state
func Run(program any, config Config) (*Machine, error) {
	m := New(config)
	err := m.Execute(program)
	return m, err
}

// Config returns the configuration the machine was created with
func (m *Machine) Config() Config {
	return m.config
}

// Reset zeroes the tape, the pointer and the step counter
func (m *Machine) Reset() {
	clear(m.Tape)
	m.Pointer = 0
	m.Steps = 0
}

// Cell returns the value under the pointer
func (m *Machine) Cell() byte {
	return m.Tape[m.Pointer]
}

// Execute runs any of the three program forms
func (m *Machine) Execute(program any) error {
	switch p := program.(type) {
	case *ast.Program:
		return m.RunTree(p)
	case *ir.Program:
		return m.RunBlocks(p)
	case *target.Program:
		return m.RunTarget(p)
	default:
		return m.unknown(program)
	}
}

// tick charges one step against the budget
func (m *Machine) tick() error {
	m.Steps++
	if m.config.MaxSteps > 0 && m.Steps > m.config.MaxSteps {
		return &StepLimitError{Limit: m.config.MaxSteps, Pointer: m.Pointer}
	}
	return nil
}

// address checks that base+offset lies on the tape
func (m *Machine) address(base, offset int, op string, pos ast.Position) (int, error) {
	addr := base + offset
	if addr < 0 || addr >= len(m.Tape) {
		return 0, &PointerOutOfBoundsError{Pointer: addr, TapeSize: len(m.Tape), Op: op, Pos: pos}
	}
	return addr, nil
}

// checkPath fails at the first base+d of path that is off the tape. Paths
// come from unit moves, so the pointer leaves the tape at -1 or at the tape
// size and that is the address reported.
func (m *Machine) checkPath(base int, path []int, op string) error {
	for _, d := range path {
		switch addr := base + d; {
		case addr < 0:
			return &PointerOutOfBoundsError{Pointer: -1, TapeSize: len(m.Tape), Op: op}
		case addr >= len(m.Tape):
			return &PointerOutOfBoundsError{Pointer: len(m.Tape), TapeSize: len(m.Tape), Op: op}
		}
	}
	return nil
}

// moveTo sets the pointer, failing if the new value is off the tape
func (m *Machine) moveTo(pointer int, op string, pos ast.Position) error {
	if _, err := m.address(pointer, 0, op, pos); err != nil {
		return err
	}
	m.Pointer = pointer
	return nil
}

// readByte reads one input byte, applying the EOF policy
func (m *Machine) readByte(op string, pos ast.Position) (byte, error) {
	if m.input != nil {
		b, err := m.input.ReadByte()
		if err == nil {
			return b, nil
		}
		if !stderrors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%s: reading input: %w", op, err)
		}
	}

	switch m.config.EOF {
	case EOFMax:
		return 255, nil
	case EOFError:
		return 0, &InputExhaustedError{Pointer: m.Pointer, Op: op, Pos: pos}
	default:
		return 0, nil
	}
}

func (m *Machine) writeByte(b byte, op string) error {
	if _, err := m.output.Write([]byte{b}); err != nil {
		return fmt.Errorf("%s: writing output: %w", op, err)
	}
	return nil
}
