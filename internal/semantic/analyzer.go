package semantic

import (
	"brainf/internal/ast"
	"brainf/internal/errors"
)

// inverses pairs every instruction kind with the kind that undoes it
var inverses = map[ast.NodeType]ast.NodeType{
	ast.INC:        ast.DEC,
	ast.DEC:        ast.INC,
	ast.MOVE_LEFT:  ast.MOVE_RIGHT,
	ast.MOVE_RIGHT: ast.MOVE_LEFT,
}

// Analyzer looks for instructions that are legal but almost certainly not
// what the author meant. Everything it reports is a warning; a program with
// findings still runs.
type Analyzer struct {
	program *ast.Program
	errors  []errors.CompilerError
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		errors: make([]errors.CompilerError, 0),
	}
}

// Analyze checks program and returns its findings in source order of the
// walk: dead loops, empty loops, then cancelling pairs, body by body
func (a *Analyzer) Analyze(program *ast.Program) []errors.CompilerError {
	a.program = program
	a.errors = make([]errors.CompilerError, 0)

	if program == nil {
		return a.errors
	}

	if len(program.Body) > 0 {
		if loop, ok := program.Body[0].(*ast.Loop); ok {
			a.errors = append(a.errors, errors.DeadLoop(loop.Pos, false))
		}
	}
	a.analyzeBody(program.Body)

	return a.errors
}

// GetErrors returns the findings of the last Analyze call
func (a *Analyzer) GetErrors() []errors.CompilerError {
	return a.errors
}

func (a *Analyzer) analyzeBody(body []ast.Instr) {
	for i := 0; i < len(body); i++ {
		instr := body[i]

		if loop, ok := instr.(*ast.Loop); ok {
			a.analyzeLoop(loop, i > 0 && isLoop(body[i-1]))
			continue
		}

		inverse, ok := inverses[instr.NodeType()]
		if ok && i+1 < len(body) && body[i+1].NodeType() == inverse {
			a.errors = append(a.errors, errors.CancellingOps(source(instr), source(body[i+1]), instr.NodePos()))
			i++
		}
	}
}

func (a *Analyzer) analyzeLoop(loop *ast.Loop, afterLoop bool) {
	// A loop right after another starts on the cell that ended the first
	if afterLoop {
		a.errors = append(a.errors, errors.DeadLoop(loop.Pos, true))
	}
	if len(loop.Body) == 0 {
		a.errors = append(a.errors, errors.EmptyLoop(loop.Pos))
		return
	}
	a.analyzeBody(loop.Body)
}

func isLoop(instr ast.Instr) bool {
	_, ok := instr.(*ast.Loop)
	return ok
}

func source(instr ast.Instr) string {
	return ast.Source(ast.NewProgram(instr))
}
