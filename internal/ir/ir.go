package ir

// This file provides the main entry points for the block IR

import (
	"github.com/tliron/commonlog"

	"brainf/internal/ast"
)

var log = commonlog.GetLogger("brainf.ir")

// BuildProgram is the main entry point for converting the instruction tree to block form
func BuildProgram(program *ast.Program) (*Program, error) {
	return NewBuilder().Build(program)
}

// Optimize runs the default optimization pipeline to a fixed point
func Optimize(program *Program) error {
	return NewOptimizationPipeline().Run(program)
}

// PrintProgram returns a pretty-printed representation of the IR
func PrintProgram(program *Program) string {
	return Print(program)
}
