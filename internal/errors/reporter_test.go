package errors

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"brainf/internal/ast"
)

func init() {
	color.NoColor = true
}

func TestErrorReporter(t *testing.T) {
	source := `++[>+
<-
]]`

	reporter := NewErrorReporter("test.b", source)

	err := MismatchedBracket("]", ast.Position{Line: 3, Column: 2})
	formatted := reporter.FormatError(err)

	// Should contain error level and code
	assert.Contains(t, formatted, "error["+ErrorMismatchedBracket+"]")
	assert.Contains(t, formatted, "mis-matched ']'")

	// Should contain location and the offending line
	assert.Contains(t, formatted, "test.b:3:2")
	assert.Contains(t, formatted, "]]")

	// Should contain suggestions
	assert.Contains(t, formatted, "help")
	assert.Contains(t, formatted, "opening '['")
}

func TestFormatWithoutPosition(t *testing.T) {
	reporter := NewErrorReporter("test.b", "+")

	formatted := reporter.FormatError(UnknownInstruction("*ir.Bogus", 7))
	assert.Contains(t, formatted, "error["+ErrorUnknownInstruction+"]")
	assert.Contains(t, formatted, "*ir.Bogus")
	assert.Contains(t, formatted, "pointer was 7")
	assert.NotContains(t, formatted, "-->")
	assert.Contains(t, formatted, "note:")
}

func TestPointerOutOfBoundsDiagnostic(t *testing.T) {
	err := PointerOutOfBounds(-1, 30000, "bf.lshft", ast.Position{Line: 1, Column: 1})
	assert.Equal(t, ErrorPointerOutOfBounds, err.Code)
	assert.Contains(t, err.Message, "-1")
	assert.Contains(t, err.Message, "30000")
	assert.Len(t, err.Notes, 1)
	assert.Contains(t, err.Notes[0], "bf.lshft")
}

func TestFormatPlainError(t *testing.T) {
	reporter := NewErrorReporter("test.b", "")
	formatted := reporter.Format(stderrors.New("boom"))
	assert.Equal(t, "error: boom\n", formatted)
}

func TestFormatDiagnosable(t *testing.T) {
	reporter := NewErrorReporter("test.b", "")
	inv := Lowering("bf.loop", 3, ast.Position{}, "scope stack underflow")

	formatted := reporter.Format(inv)
	assert.Contains(t, formatted, "error["+ErrorLoweringInvariant+"]")
	assert.Contains(t, formatted, "scope stack underflow")
	assert.Contains(t, formatted, "depth 3")
	assert.Contains(t, formatted, "bug in the compiler")
}

func TestInvariantErrorMessage(t *testing.T) {
	err := Optimizer("%p3", "blocks are not adjacent")
	assert.Equal(t, "optimize: internal invariant violated: blocks are not adjacent (node %p3, depth 0)", err.Error())

	var target *InvariantError
	assert.True(t, stderrors.As(error(err), &target))
	assert.Equal(t, ErrorOptimizerInvariant, target.Code)
}

func TestWarningFormatting(t *testing.T) {
	reporter := NewErrorReporter("test.b", "[comment]+")

	formatted := reporter.FormatError(DeadLoop(ast.Position{Line: 1, Column: 1}, false))
	assert.True(t, strings.HasPrefix(formatted, "warning["+WarningDeadLoop+"]"))
	assert.Contains(t, formatted, "never entered")
}

func TestErrorMarkerCreation(t *testing.T) {
	reporter := NewErrorReporter("test.b", "")

	marker := reporter.createMarker(5, 3, Error)
	assert.Equal(t, "    ^^^", marker)

	marker = reporter.createMarker(1, 0, Warning)
	assert.Equal(t, "^", marker)
}

func TestErrorLevels(t *testing.T) {
	levels := []ErrorLevel{Error, Warning, Note, Help}
	for _, level := range levels {
		err := CompilerError{Level: level, Message: "test"}
		assert.Equal(t, level, err.Level)
	}
}
