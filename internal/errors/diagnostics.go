package errors

import (
	"fmt"

	"brainf/internal/ast"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics with suggestions
type DiagnosticBuilder struct {
	err CompilerError
}

// NewDiagnostic creates a new error diagnostic builder
func NewDiagnostic(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning diagnostic builder
func NewWarning(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote adds a note to the error
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// MismatchedBracket reports an unbalanced loop delimiter
func MismatchedBracket(bracket string, pos ast.Position) CompilerError {
	builder := NewDiagnostic(ErrorMismatchedBracket, fmt.Sprintf("mis-matched '%s'", bracket), pos)
	if bracket == "[" {
		return builder.WithSuggestion("add a closing ']' for this loop").Build()
	}
	return builder.WithSuggestion("remove the ']' or add an opening '[' before it").Build()
}

// SyntaxError wraps any other front-end rejection
func SyntaxError(message string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorSyntax, message, pos).Build()
}

// PointerOutOfBounds reports the pointer leaving the tape
func PointerOutOfBounds(pointer, tapeSize int, op string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorPointerOutOfBounds,
		fmt.Sprintf("pointer value %d is outside the tape [0, %d)", pointer, tapeSize), pos).
		WithNote(fmt.Sprintf("last operation: %s", op)).
		Build()
}

// InputExhausted reports a read past the end of the input stream
func InputExhausted(pointer int, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorInputExhausted, "input exhausted", pos).
		WithNote(fmt.Sprintf("pointer was %d", pointer)).
		WithHelp("set BF_EOF=zero or BF_EOF=max to read past the end of input").
		Build()
}

// UnknownInstruction reports an IR node the interpreter cannot execute
func UnknownInstruction(kind string, pointer int) CompilerError {
	return NewDiagnostic(ErrorUnknownInstruction, fmt.Sprintf("unsupported instruction %s", kind), ast.Position{}).
		WithNote(fmt.Sprintf("pointer was %d", pointer)).
		WithNote("the IR is corrupted or was produced by a newer pass").
		Build()
}

// StepLimitExceeded reports the caller-imposed step budget running out
func StepLimitExceeded(limit uint64, pointer int) CompilerError {
	return NewDiagnostic(ErrorStepLimit, fmt.Sprintf("step limit of %d exceeded", limit), ast.Position{}).
		WithNote(fmt.Sprintf("pointer was %d", pointer)).
		WithHelp("raise BF_MAX_STEPS or set it to 0 for no limit").
		Build()
}

// DeadLoop warns about a loop whose guard cell is known to be zero when it
// is reached. afterLoop distinguishes a loop directly following another from
// a loop at the start of the program.
func DeadLoop(pos ast.Position, afterLoop bool) CompilerError {
	note := "the tape starts zeroed, so a leading loop is skipped"
	if afterLoop {
		note = "the previous loop only exits on a zero cell, so this one is skipped"
	}
	return NewWarning(WarningDeadLoop, "loop is never entered", pos).
		WithNote(note).
		Build()
}

// EmptyLoop warns about "[]", which never terminates once its cell is non-zero
func EmptyLoop(pos ast.Position) CompilerError {
	return NewWarning(WarningEmptyLoop, "empty loop never terminates if entered", pos).
		WithLength(2).
		WithNote("nothing in the body can change the guard cell").
		Build()
}

// CancellingOps warns about two adjacent instructions that undo each other
func CancellingOps(first, second string, pos ast.Position) CompilerError {
	return NewWarning(WarningCancellingOps, fmt.Sprintf("'%s%s' has no effect", first, second), pos).
		WithLength(2).
		WithSuggestion("remove both instructions").
		Build()
}
