package ir

// This file contains the block IR optimization passes.
// All passes are local: they rewrite the ops of a single MemBlock or merge
// neighbouring MemBlocks of one body, and never look across a WhileBlock.
// Loop bodies are optimized independently, the same way as the top level.

import (
	"slices"

	"brainf/internal/errors"
)

// OptimizationPass represents a single optimization transformation
type OptimizationPass interface {
	Name() string
	Description() string
	Apply(program *Program) (bool, error) // Returns true if changes were made
}

// OptimizationPipeline manages the sequence of optimization passes
type OptimizationPipeline struct {
	passes    []OptimizationPass
	maxRounds int
}

// defaultMaxRounds bounds the fixed-point iteration. Every round that
// reports a change removes ops or nodes, so real programs settle in a few.
const defaultMaxRounds = 1000

// NewOptimizationPipeline creates a new optimization pipeline with default passes
func NewOptimizationPipeline() *OptimizationPipeline {
	pipeline := &OptimizationPipeline{maxRounds: defaultMaxRounds}

	// Add optimization passes in order of execution
	pipeline.AddPass(&BlockMerging{})
	pipeline.AddPass(&StoreForwarding{})
	pipeline.AddPass(&ConstantFolding{})
	pipeline.AddPass(&DeadCodeElimination{}) // Must run after folding and forwarding
	pipeline.AddPass(&EmptyBlockElimination{})

	return pipeline
}

// AddPass adds an optimization pass to the pipeline
func (p *OptimizationPipeline) AddPass(pass OptimizationPass) {
	p.passes = append(p.passes, pass)
}

// Passes returns the passes in execution order
func (p *OptimizationPipeline) Passes() []OptimizationPass {
	return p.passes
}

// Run executes the passes repeatedly until a whole round changes nothing,
// so that running the pipeline again on its output is a no-op.
func (p *OptimizationPipeline) Run(program *Program) error {
	log.Debugf("running %d optimization passes", len(p.passes))

	for round := 1; round <= p.maxRounds; round++ {
		changed := false
		for _, pass := range p.passes {
			applied, err := pass.Apply(program)
			if err != nil {
				return err
			}
			if applied {
				log.Debugf("round %d: %s applied", round, pass.Name())
				changed = true
			}
		}
		if !changed {
			log.Infof("optimization reached a fixed point after %d rounds, %d live nodes", round, program.Live())
			return nil
		}
	}

	return errors.Optimizer("bfe.program", "no fixed point after %d rounds", p.maxRounds)
}

// BlockMerging merges lexically adjacent MemBlocks and forwards stores of
// the first block to loads of the second
type BlockMerging struct{}

func (bm *BlockMerging) Name() string {
	return "Block Merging"
}

func (bm *BlockMerging) Description() string {
	return "Merges adjacent memory blocks, forwarding stored values to later loads"
}

func (bm *BlockMerging) Apply(program *Program) (bool, error) {
	changed := false
	err := forEachBody(program, func(body *[]NodeID) error {
		merged, did, err := mergeRuns(program, *body)
		if err != nil {
			return err
		}
		if did {
			*body = merged
			changed = true
		}
		return nil
	})
	return changed, err
}

// mergeRuns folds every run of consecutive MemBlocks in body into one block
func mergeRuns(program *Program, body []NodeID) ([]NodeID, bool, error) {
	out := make([]NodeID, 0, len(body))
	changed := false

	for _, id := range body {
		next, ok := program.Node(id).(*MemBlock)
		if ok && len(out) > 0 {
			if prev, ok := program.Node(out[len(out)-1]).(*MemBlock); ok {
				merged, err := mergePair(prev, next)
				if err != nil {
					return nil, false, err
				}
				mergedID := program.add(merged)
				program.Pointers[merged.Out].Producer = mergedID
				out[len(out)-1] = mergedID
				changed = true
				continue
			}
		}
		out = append(out, id)
	}

	return out, changed, nil
}

// mergePair builds the block equivalent to running first then second.
// second's offsets are rebased by first.Move because second.In is first.Out.
// The pointer position between the two blocks is no longer materialized, so
// it becomes an explicit bounds check.
func mergePair(first, second *MemBlock) (*MemBlock, error) {
	if first.Out != second.In {
		return nil, errors.Optimizer(second.String(),
			"cannot merge blocks that are not adjacent on the pointer thread (%d -> %d)", first.Out, second.In)
	}

	merged := &MemBlock{
		In:   first.In,
		Out:  second.Out,
		Move: first.Move + second.Move,
	}

	window := newForwardingWindow()
	for _, op := range first.Ops {
		if err := window.add(op); err != nil {
			return nil, err
		}
	}
	if first.Move != 0 {
		window.addBounds([]int{first.Move})
	}
	for _, op := range second.Ops {
		if err := window.add(rebase(op, first.Move)); err != nil {
			return nil, err
		}
	}
	merged.Ops = window.ops()

	return merged, nil
}

// forwardingWindow accumulates the ops of a merged block, tracking per
// offset the last store that has not been overwritten and the range of
// displacements already bounds checked
type forwardingWindow struct {
	out    []CellOp
	dead   map[int]bool
	stores map[int]int // offset -> index of the tracked Store in out
	subst  map[ValueRef]ValueRef

	low, high int
	bounds    int // index of the Bounds op later checks may join, or -1
}

func newForwardingWindow() *forwardingWindow {
	return &forwardingWindow{
		dead:   make(map[int]bool),
		stores: make(map[int]int),
		subst:  make(map[ValueRef]ValueRef),
		bounds: -1,
	}
}

func (w *forwardingWindow) add(op CellOp) error {
	op = renameUses(op, w.subst)

	switch o := op.(type) {
	case Load:
		if _, ok := w.stores[o.Offset]; ok {
			return w.forward(o)
		}
	case Store:
		if idx, ok := w.stores[o.Offset]; ok {
			w.dead[idx] = true
		}
		w.stores[o.Offset] = len(w.out)
	case Input, Output:
		w.bounds = -1
	case Bounds:
		w.addBounds(o.Path)
		return nil
	}

	w.out = append(w.out, op)
	return nil
}

// addBounds records the displacements of path that reach past the range
// already checked. They join the previous Bounds op unless input or output
// happened since, so a check never moves across observable I/O.
func (w *forwardingWindow) addBounds(path []int) {
	var fresh []int
	for _, d := range path {
		switch {
		case d < w.low:
			w.low = d
			fresh = append(fresh, d)
		case d > w.high:
			w.high = d
			fresh = append(fresh, d)
		}
	}
	if len(fresh) == 0 {
		return
	}

	if w.bounds >= 0 {
		prev := w.out[w.bounds].(Bounds)
		w.out[w.bounds] = Bounds{Path: append(slices.Clone(prev.Path), fresh...)}
		return
	}
	w.bounds = len(w.out)
	w.out = append(w.out, Bounds{Path: fresh})
}

// forward drops a load and rewires its users to the tracked store's value
func (w *forwardingWindow) forward(load Load) error {
	idx, ok := w.stores[load.Offset]
	if !ok {
		return errors.Optimizer(FormatOp(load), "no tracked store at offset %d to forward", load.Offset)
	}
	store, ok := w.out[idx].(Store)
	if !ok {
		return errors.Optimizer(FormatOp(load), "tracked op at offset %d is not a store", load.Offset)
	}
	w.subst[load.Dst] = store.Src
	return nil
}

func (w *forwardingWindow) ops() []CellOp {
	ops := make([]CellOp, 0, len(w.out))
	for i, op := range w.out {
		if !w.dead[i] {
			ops = append(ops, op)
		}
	}
	return ops
}

// StoreForwarding removes redundant loads and stores inside a block: loads
// of a cell whose value is already known, stores of the value a cell already
// holds, and stores overwritten before anything reads them
type StoreForwarding struct{}

func (sf *StoreForwarding) Name() string {
	return "Store Forwarding"
}

func (sf *StoreForwarding) Description() string {
	return "Replaces loads of known cell values and removes dead or redundant stores"
}

func (sf *StoreForwarding) Apply(program *Program) (bool, error) {
	return rewriteBlocks(program, forwardStores), nil
}

func forwardStores(ops []CellOp) []CellOp {
	known := make(map[int]ValueRef) // value currently held by each offset
	lastStore := make(map[int]int)
	dead := make(map[int]bool)
	subst := make(map[ValueRef]ValueRef)
	out := make([]CellOp, 0, len(ops))

	for _, op := range ops {
		op = renameUses(op, subst)

		switch o := op.(type) {
		case Load:
			if v, ok := known[o.Offset]; ok {
				subst[o.Dst] = v
				continue
			}
			known[o.Offset] = o.Dst
		case Store:
			if v, ok := known[o.Offset]; ok && v == o.Src {
				continue
			}
			if idx, ok := lastStore[o.Offset]; ok {
				dead[idx] = true
			}
			known[o.Offset] = o.Src
			lastStore[o.Offset] = len(out)
		}

		out = append(out, op)
	}

	result := make([]CellOp, 0, len(out))
	for i, op := range out {
		if !dead[i] {
			result = append(result, op)
		}
	}
	return result
}

// ConstantFolding collapses chains of constant additions
type ConstantFolding struct{}

func (cf *ConstantFolding) Name() string {
	return "Constant Folding"
}

func (cf *ConstantFolding) Description() string {
	return "Combines chained constant additions and removes additions of zero"
}

func (cf *ConstantFolding) Apply(program *Program) (bool, error) {
	return rewriteBlocks(program, foldConstants), nil
}

func foldConstants(ops []CellOp) []CellOp {
	sums := make(map[ValueRef]AddConst)
	subst := make(map[ValueRef]ValueRef)
	out := make([]CellOp, 0, len(ops))

	for _, op := range ops {
		op = renameUses(op, subst)

		if add, ok := op.(AddConst); ok {
			src, delta := add.Src, add.Delta
			if prev, ok := sums[src]; ok {
				src = prev.Src
				delta += prev.Delta
			}
			delta = WrapDelta(delta)
			if delta == 0 {
				subst[add.Dst] = src
				continue
			}
			add = AddConst{Dst: add.Dst, Src: src, Delta: delta}
			sums[add.Dst] = add
			op = add
		}

		out = append(out, op)
	}
	return out
}

// WrapDelta normalizes an 8-bit addend to [-128, 127]
func WrapDelta(delta int) int {
	d := ((delta % 256) + 256) % 256
	if d >= 128 {
		d -= 256
	}
	return d
}

// DeadCodeElimination removes ops whose results are never used
type DeadCodeElimination struct{}

func (dce *DeadCodeElimination) Name() string {
	return "Dead Code Elimination"
}

func (dce *DeadCodeElimination) Description() string {
	return "Removes loads and arithmetic whose results are never used"
}

func (dce *DeadCodeElimination) Apply(program *Program) (bool, error) {
	return rewriteBlocks(program, eliminateDeadValues), nil
}

func eliminateDeadValues(ops []CellOp) []CellOp {
	used := make(map[ValueRef]bool)
	keep := make([]bool, len(ops))

	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		if def, ok := op.Def(); ok && !used[def] && GetEffect(op).Removable() {
			continue
		}
		keep[i] = true
		for _, u := range op.Uses() {
			used[u] = true
		}
	}

	out := make([]CellOp, 0, len(ops))
	for i, op := range ops {
		if keep[i] {
			out = append(out, op)
		}
	}
	return out
}

// EmptyBlockElimination removes MemBlocks that neither access memory nor
// move the pointer, rewiring their users to the block's input pointer.
// A block left holding only a Bounds op is not empty.
type EmptyBlockElimination struct{}

func (ebe *EmptyBlockElimination) Name() string {
	return "Empty Block Elimination"
}

func (ebe *EmptyBlockElimination) Description() string {
	return "Removes memory blocks with no ops and no pointer movement"
}

func (ebe *EmptyBlockElimination) Apply(program *Program) (bool, error) {
	replacements := make(map[PointerRef]PointerRef)

	err := forEachBody(program, func(body *[]NodeID) error {
		kept := make([]NodeID, 0, len(*body))
		for _, id := range *body {
			if blk, ok := program.Node(id).(*MemBlock); ok && len(blk.Ops) == 0 && blk.Move == 0 {
				replacements[blk.Out] = blk.In
				continue
			}
			kept = append(kept, id)
		}
		if len(kept) != len(*body) {
			*body = kept
		}
		return nil
	})
	if err != nil || len(replacements) == 0 {
		return false, err
	}

	program.rewritePointerUses(replacements)
	return true, nil
}

// Helper functions shared by the passes

// forEachBody calls fn for the program body and every loop body
func forEachBody(program *Program, fn func(body *[]NodeID) error) error {
	var visit func(body *[]NodeID) error
	visit = func(body *[]NodeID) error {
		if err := fn(body); err != nil {
			return err
		}
		for _, id := range *body {
			if loop, ok := program.Node(id).(*WhileBlock); ok {
				if err := visit(&loop.Body); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return visit(&program.Body)
}

// rewriteBlocks replaces every MemBlock whose ops change under rewrite with
// a new arena node carrying the rewritten ops
func rewriteBlocks(program *Program, rewrite func([]CellOp) []CellOp) bool {
	changed := false
	_ = forEachBody(program, func(body *[]NodeID) error {
		for i, id := range *body {
			blk, ok := program.Node(id).(*MemBlock)
			if !ok {
				continue
			}
			ops := rewrite(blk.Ops)
			if sameOps(ops, blk.Ops) {
				continue
			}
			replacement := &MemBlock{In: blk.In, Out: blk.Out, Move: blk.Move, Ops: ops}
			newID := program.add(replacement)
			program.Pointers[replacement.Out].Producer = newID
			(*body)[i] = newID
			changed = true
		}
		return nil
	})
	return changed
}

// rewritePointerUses substitutes pointer uses according to replacements,
// following chains so that a -> b -> c resolves to c
func (p *Program) rewritePointerUses(replacements map[PointerRef]PointerRef) {
	resolve := func(ref PointerRef) PointerRef {
		for {
			next, ok := replacements[ref]
			if !ok {
				return ref
			}
			ref = next
		}
	}

	_ = forEachBody(p, func(body *[]NodeID) error {
		for i, id := range *body {
			var replacement Node
			switch node := p.Node(id).(type) {
			case *MemBlock:
				if in := resolve(node.In); in != node.In {
					replacement = &MemBlock{In: in, Out: node.Out, Move: node.Move, Ops: node.Ops}
				}
			case *WhileBlock:
				if in := resolve(node.In); in != node.In {
					replacement = &WhileBlock{In: in, Iter: node.Iter, Out: node.Out, Body: node.Body}
				}
			case *Continue:
				if v := resolve(node.Value); v != node.Value {
					replacement = &Continue{Value: v}
				}
			}
			if replacement == nil {
				continue
			}
			newID := p.add(replacement)
			if out, ok := Produces(replacement); ok {
				p.Pointers[out].Producer = newID
			}
			if loop, ok := replacement.(*WhileBlock); ok {
				p.Pointers[loop.Iter].Producer = newID
			}
			(*body)[i] = newID
		}
		return nil
	})
	p.Exit = resolve(p.Exit)
}

func renameUses(op CellOp, subst map[ValueRef]ValueRef) CellOp {
	if len(subst) == 0 {
		return op
	}
	rename := func(v ValueRef) ValueRef {
		if r, ok := subst[v]; ok {
			return r
		}
		return v
	}
	switch o := op.(type) {
	case Store:
		o.Src = rename(o.Src)
		return o
	case AddConst:
		o.Src = rename(o.Src)
		return o
	case Output:
		o.Src = rename(o.Src)
		return o
	default:
		return op
	}
}

func rebase(op CellOp, by int) CellOp {
	switch o := op.(type) {
	case Load:
		o.Offset += by
		return o
	case Store:
		o.Offset += by
		return o
	case Bounds:
		path := make([]int, len(o.Path))
		for i, d := range o.Path {
			path[i] = d + by
		}
		return Bounds{Path: path}
	default:
		return op
	}
}

func sameOps(a, b []CellOp) bool {
	return slices.EqualFunc(a, b, sameOp)
}

func sameOp(a, b CellOp) bool {
	if x, ok := a.(Bounds); ok {
		y, ok := b.(Bounds)
		return ok && slices.Equal(x.Path, y.Path)
	}
	return a == b
}
