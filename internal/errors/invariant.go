package errors

import (
	"fmt"

	"brainf/internal/ast"
)

// InvariantError is a broken internal contract inside a pass: scope stack
// underflow, a dangling pointer value, an illegal merge. It always signals
// a bug in the toolchain and is never recovered from.
type InvariantError struct {
	Code    string
	Pass    string // "lower", "optimize", "verify", ...
	Node    string // rendering of the offending node
	Depth   int    // scope depth at the point of failure
	Pos     ast.Position
	Message string
}

func (e *InvariantError) Error() string {
	msg := fmt.Sprintf("%s: internal invariant violated: %s", e.Pass, e.Message)
	if e.Node != "" {
		msg += fmt.Sprintf(" (node %s, depth %d)", e.Node, e.Depth)
	}
	return msg
}

// Diagnostic describes the violation for the reporter
func (e *InvariantError) Diagnostic() CompilerError {
	return NewDiagnostic(e.Code, e.Error(), e.Pos).
		WithNote("this is a bug in the compiler, not in the program").
		Build()
}

// Lowering creates a lowering invariant violation
func Lowering(node string, depth int, pos ast.Position, format string, args ...any) *InvariantError {
	return &InvariantError{
		Code:    ErrorLoweringInvariant,
		Pass:    "lower",
		Node:    node,
		Depth:   depth,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// Optimizer creates an optimizer invariant violation
func Optimizer(node string, format string, args ...any) *InvariantError {
	return &InvariantError{
		Code:    ErrorOptimizerInvariant,
		Pass:    "optimize",
		Node:    node,
		Message: fmt.Sprintf(format, args...),
	}
}

// Malformed creates a verifier failure
func Malformed(node string, depth int, format string, args ...any) *InvariantError {
	return &InvariantError{
		Code:    ErrorMalformedIR,
		Pass:    "verify",
		Node:    node,
		Depth:   depth,
		Message: fmt.Sprintf(format, args...),
	}
}
