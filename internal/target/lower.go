package target

import (
	"fmt"
	"slices"

	"github.com/tliron/commonlog"

	"brainf/internal/ast"
	"brainf/internal/errors"
	"brainf/internal/ir"
)

var log = commonlog.GetLogger("brainf.target")

// FromTree lowers an instruction tree. Every instruction becomes its own
// short statement sequence; no folding happens at this level.
func FromTree(program *ast.Program, tapeSize int) (*Program, error) {
	out := NewProgram(tapeSize)
	body, err := lowerTree(out, program.Body, 0)
	if err != nil {
		return nil, err
	}
	out.Body = body
	log.Debugf("lowered tree to %d target statements, %d temps", len(out.Body), out.NumTemps)
	return out, nil
}

func lowerTree(out *Program, body []ast.Instr, depth int) ([]Stmt, error) {
	var stmts []Stmt
	for _, instr := range body {
		switch node := instr.(type) {
		case *ast.Inc:
			stmts = append(stmts, addAt(out, 1)...)
		case *ast.Dec:
			stmts = append(stmts, addAt(out, -1)...)
		case *ast.MoveLeft:
			stmts = append(stmts, &MovePointer{Delta: -1})
		case *ast.MoveRight:
			stmts = append(stmts, &MovePointer{Delta: 1})
		case *ast.In:
			t := out.newTemp()
			stmts = append(stmts, &CallIn{Dst: t}, &Store{Offset: 0, Src: t})
		case *ast.Out:
			t := out.newTemp()
			stmts = append(stmts, &Load{Dst: t, Offset: 0}, &CallOut{Src: t})
		case *ast.Loop:
			loopBody, err := lowerTree(out, node.Body, depth+1)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, &CondLoop{Guard: 0, Body: loopBody})
		default:
			return nil, errors.Lowering(fmt.Sprintf("%T", instr), depth, instr.NodePos(),
				"unknown instruction kind")
		}
	}
	return stmts, nil
}

func addAt(out *Program, delta int) []Stmt {
	loaded, sum := out.newTemp(), out.newTemp()
	return []Stmt{
		&Load{Dst: loaded, Offset: 0},
		&AddConst{Dst: sum, Src: loaded, Delta: delta},
		&Store{Offset: 0, Src: sum},
	}
}

// FromBlocks lowers a block program. The pointer variable is materialized
// at every block boundary: each MemBlock ends with a MovePointer of its
// static displacement, so block offsets become ptr+offset addresses.
func FromBlocks(program *ir.Program, tapeSize int) (*Program, error) {
	l := &blockLowering{
		source: program,
		out:    NewProgram(tapeSize),
		temps:  make(map[ir.ValueRef]Temp),
	}
	body, err := l.lowerBody(program.Body, 0)
	if err != nil {
		return nil, err
	}
	l.out.Body = body
	log.Debugf("lowered blocks to %d target statements, %d temps", len(l.out.Body), l.out.NumTemps)
	return l.out, nil
}

type blockLowering struct {
	source *ir.Program
	out    *Program
	temps  map[ir.ValueRef]Temp
}

func (l *blockLowering) lowerBody(body []ir.NodeID, depth int) ([]Stmt, error) {
	var stmts []Stmt
	for _, id := range body {
		switch node := l.source.Node(id).(type) {
		case *ir.MemBlock:
			blockStmts, err := l.lowerBlock(node, depth)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, blockStmts...)
		case *ir.WhileBlock:
			loopBody, err := l.lowerBody(node.Body, depth+1)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, &CondLoop{Guard: 0, Body: loopBody})
		case *ir.Continue:
			// The pointer variable already holds the continue value
		default:
			return nil, errors.Lowering(fmt.Sprintf("%T", node), depth, ast.Position{},
				"unknown block kind")
		}
	}
	return stmts, nil
}

func (l *blockLowering) lowerBlock(blk *ir.MemBlock, depth int) ([]Stmt, error) {
	stmts := make([]Stmt, 0, len(blk.Ops)+1)
	for _, op := range blk.Ops {
		switch o := op.(type) {
		case ir.Load:
			stmts = append(stmts, &Load{Dst: l.define(o.Dst), Offset: o.Offset})
		case ir.Store:
			src, err := l.use(o.Src, op, depth)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, &Store{Offset: o.Offset, Src: src})
		case ir.AddConst:
			src, err := l.use(o.Src, op, depth)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, &AddConst{Dst: l.define(o.Dst), Src: src, Delta: o.Delta})
		case ir.Input:
			stmts = append(stmts, &CallIn{Dst: l.define(o.Dst)})
		case ir.Output:
			src, err := l.use(o.Src, op, depth)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, &CallOut{Src: src})
		case ir.Bounds:
			stmts = append(stmts, &CheckBounds{Path: slices.Clone(o.Path)})
		default:
			return nil, errors.Lowering(fmt.Sprintf("%T", op), depth, ast.Position{},
				"unknown cell op")
		}
	}
	if blk.Move != 0 {
		stmts = append(stmts, &MovePointer{Delta: blk.Move})
	}
	return stmts, nil
}

func (l *blockLowering) define(v ir.ValueRef) Temp {
	t := l.out.newTemp()
	l.temps[v] = t
	return t
}

func (l *blockLowering) use(v ir.ValueRef, op ir.CellOp, depth int) (Temp, error) {
	t, ok := l.temps[v]
	if !ok {
		return 0, errors.Lowering(ir.FormatOp(op), depth, ast.Position{},
			"value %d used before definition", v)
	}
	return t, nil
}
