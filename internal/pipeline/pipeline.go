package pipeline

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"brainf/internal/ast"
	"brainf/internal/ir"
	"brainf/internal/target"
)

var log = commonlog.GetLogger("brainf.pipeline")

// Form names one of the program representations the pipeline can stop at
type Form string

const (
	FormTree   Form = "tree"
	FormBlock  Form = "block"
	FormTarget Form = "target"
	FormFlat   Form = "flat"
)

// Forms lists every form in pipeline order
var Forms = []Form{FormTree, FormBlock, FormTarget, FormFlat}

// ParseForm resolves a form name as typed on a command line
func ParseForm(name string) (Form, error) {
	for _, f := range Forms {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown form %q (want tree, block, target or flat)", name)
}

// Options control the stages between the tree and the requested form
type Options struct {
	Optimize bool
	TapeSize int
}

// Compile lowers tree as far as form. Without optimisation the target forms
// are lowered straight from the tree, one statement group per instruction.
// Otherwise they go through the block form, which is verified after
// building and again after optimisation. The result is one of
// *ast.Program, *ir.Program or *target.Program.
func Compile(tree *ast.Program, form Form, opts Options) (any, error) {
	switch {
	case form == FormTree:
		return tree, nil
	case form != FormBlock && !opts.Optimize:
		lowered, err := target.FromTree(tree, opts.TapeSize)
		if err != nil {
			return nil, err
		}
		return finishTarget(lowered, form)
	}

	blocks, err := ir.BuildProgram(tree)
	if err != nil {
		return nil, err
	}
	if err := ir.Verify(blocks); err != nil {
		return nil, err
	}
	if opts.Optimize {
		if err := ir.Optimize(blocks); err != nil {
			return nil, err
		}
		if err := ir.Verify(blocks); err != nil {
			return nil, err
		}
	}
	if form == FormBlock {
		return blocks, nil
	}

	lowered, err := target.FromBlocks(blocks, opts.TapeSize)
	if err != nil {
		return nil, err
	}
	return finishTarget(lowered, form)
}

func finishTarget(lowered *target.Program, form Form) (any, error) {
	log.Debugf("compiled %s form, %d statements", form, len(lowered.Body))
	switch form {
	case FormTarget:
		return lowered, nil
	case FormFlat:
		return target.Flatten(lowered), nil
	default:
		return nil, fmt.Errorf("unknown form %q", form)
	}
}

// Render prints any compiled form in its textual syntax
func Render(program any) string {
	switch p := program.(type) {
	case *ast.Program:
		return ast.Print(p)
	case *ir.Program:
		return ir.PrintProgram(p)
	case *target.Program:
		return target.Print(p)
	default:
		log.Warningf("cannot render %T", program)
		return ""
	}
}
