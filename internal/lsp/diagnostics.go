package lsp

import (
	stderrors "errors"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"brainf/grammar"
	"brainf/internal/errors"
	"brainf/internal/semantic"
)

// CollectDiagnostics parses source and reports every problem an editor should
// show: all unbalanced brackets, any other syntax error, and the analyzer's
// warnings.
func CollectDiagnostics(filename, source string) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	if bracketErrs := grammar.MatchBrackets(filename, source); len(bracketErrs) > 0 {
		for _, be := range bracketErrs {
			diagnostics = append(diagnostics, ConvertCompilerError(be.Diagnostic(), "brainf-parser"))
		}
		return diagnostics
	}

	program, err := grammar.ParseString(filename, source)
	if err != nil {
		var d errors.Diagnosable
		if stderrors.As(err, &d) {
			diagnostics = append(diagnostics, ConvertCompilerError(d.Diagnostic(), "brainf-parser"))
		}
		return diagnostics
	}

	for _, warning := range semantic.NewAnalyzer().Analyze(program) {
		diagnostics = append(diagnostics, ConvertCompilerError(warning, "brainf-lint"))
	}
	return diagnostics
}

// ConvertCompilerError transforms a structured diagnostic into its LSP form.
// Positions are converted to 0-based indexing.
func ConvertCompilerError(err errors.CompilerError, source string) protocol.Diagnostic {
	length := err.Length
	if length <= 0 {
		length = 1
	}

	line := uint32(max(err.Position.Line-1, 0))
	start := uint32(max(err.Position.Column-1, 0))

	message := err.Message
	if len(err.Notes) > 0 {
		message += "\n" + strings.Join(err.Notes, "\n")
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: start},
			End:   protocol.Position{Line: line, Character: start + uint32(length)},
		},
		Severity: ptrSeverity(severity(err.Level)),
		Code:     &protocol.IntegerOrString{Value: err.Code},
		Source:   ptrString(source),
		Message:  message,
	}
}

func severity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	case errors.Help:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
