package errors

// Error codes for the brainf toolchain
// These codes are used in diagnostics and documentation
// to provide consistent error identification across the pipeline.
//
// Error code ranges:
// E0100-E0199: Front end (parse) errors
// E0200-E0299: Lowering invariant violations
// E0300-E0399: Optimizer invariant violations
// E0400-E0499: Runtime errors
// E0800-E0899: Warning codes

const (
	// E0100: Unbalanced "[" or "]"
	ErrorMismatchedBracket = "E0100"

	// E0101: Anything else the grammar rejects
	ErrorSyntax = "E0101"

	// E0200: Scope stack underflow or dangling pointer value while lowering
	ErrorLoweringInvariant = "E0200"

	// E0201: Verifier found a malformed pointer thread or value chain
	ErrorMalformedIR = "E0201"

	// E0300: Optimizer was asked to do something only a bug would ask for
	ErrorOptimizerInvariant = "E0300"

	// E0400: Pointer left the tape
	ErrorPointerOutOfBounds = "E0400"

	// E0401: Input stream ran dry under the "error" EOF policy
	ErrorInputExhausted = "E0401"

	// E0402: Interpreter met a node kind it does not know
	ErrorUnknownInstruction = "E0402"

	// E0403: Caller-imposed step budget ran out
	ErrorStepLimit = "E0403"

	// E0800: Loop that can never be entered (at program start or right after another loop)
	WarningDeadLoop = "E0800"

	// E0801: Loop with an empty body, which spins forever once entered
	WarningEmptyLoop = "E0801"

	// E0802: Adjacent instructions that undo each other
	WarningCancellingOps = "E0802"
)
