package interp

import (
	stderrors "errors"
	"fmt"

	"brainf/internal/ast"
	"brainf/internal/errors"
)

var (
	// ErrInputExhausted is matched by reads past the end of input under EOFError
	ErrInputExhausted = stderrors.New("input exhausted")

	// ErrStepLimit is matched when Config.MaxSteps runs out
	ErrStepLimit = stderrors.New("step limit exceeded")
)

// PointerOutOfBoundsError reports the pointer, or a cell address derived
// from it, leaving the tape. Execution halts with the machine unchanged by
// the failing operation.
type PointerOutOfBoundsError struct {
	Pointer  int
	TapeSize int
	Op       string
	Pos      ast.Position
}

func (e *PointerOutOfBoundsError) Error() string {
	msg := fmt.Sprintf("pointer out of bounds: %d not in [0, %d) after %s", e.Pointer, e.TapeSize, e.Op)
	if e.Pos.IsValid() {
		msg += " at " + e.Pos.String()
	}
	return msg
}

func (e *PointerOutOfBoundsError) Diagnostic() errors.CompilerError {
	return errors.PointerOutOfBounds(e.Pointer, e.TapeSize, e.Op, e.Pos)
}

// InputExhaustedError wraps ErrInputExhausted with the machine state
type InputExhaustedError struct {
	Pointer int
	Op      string
	Pos     ast.Position
}

func (e *InputExhaustedError) Error() string {
	return fmt.Sprintf("%s: %s with pointer %d", e.Op, ErrInputExhausted, e.Pointer)
}

func (e *InputExhaustedError) Unwrap() error {
	return ErrInputExhausted
}

func (e *InputExhaustedError) Diagnostic() errors.CompilerError {
	return errors.InputExhausted(e.Pointer, e.Pos)
}

// StepLimitError wraps ErrStepLimit with the machine state
type StepLimitError struct {
	Limit   uint64
	Pointer int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("%s: %d steps, pointer %d", ErrStepLimit, e.Limit, e.Pointer)
}

func (e *StepLimitError) Unwrap() error {
	return ErrStepLimit
}

func (e *StepLimitError) Diagnostic() errors.CompilerError {
	return errors.StepLimitExceeded(e.Limit, e.Pointer)
}

// UnknownInstructionError reports an IR node the interpreter cannot execute
type UnknownInstructionError struct {
	Kind    string
	Pointer int
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("unknown instruction %s with pointer %d", e.Kind, e.Pointer)
}

func (e *UnknownInstructionError) Diagnostic() errors.CompilerError {
	return errors.UnknownInstruction(e.Kind, e.Pointer)
}

func (m *Machine) unknown(v any) error {
	return &UnknownInstructionError{Kind: fmt.Sprintf("%T", v), Pointer: m.Pointer}
}
