package ir

import "fmt"

// This file describes the side effects of cell ops.
// The optimizer uses them to decide which ops may be dropped and which
// accesses can alias.

// EffectType categorizes what an op does besides computing a value
type EffectType string

const (
	EffectPure   EffectType = "pure"   // arithmetic only
	EffectRead   EffectType = "read"   // reads a tape cell
	EffectWrite  EffectType = "write"  // writes a tape cell
	EffectInput  EffectType = "input"  // consumes a byte of input
	EffectOutput EffectType = "output" // emits a byte of output
	EffectBounds EffectType = "bounds" // may stop the program off the tape
)

// Effect is the side effect of a single cell op
type Effect struct {
	Type   EffectType
	Offset int // meaningful for EffectRead and EffectWrite
}

// GetEffect returns the effect of a cell op
func GetEffect(op CellOp) Effect {
	switch o := op.(type) {
	case Load:
		return Effect{Type: EffectRead, Offset: o.Offset}
	case Store:
		return Effect{Type: EffectWrite, Offset: o.Offset}
	case AddConst:
		return Effect{Type: EffectPure}
	case Input:
		return Effect{Type: EffectInput}
	case Output:
		return Effect{Type: EffectOutput}
	case Bounds:
		return Effect{Type: EffectBounds}
	default:
		panic(fmt.Sprintf("ir: unexpected cell op %T", op))
	}
}

// Removable reports whether an op with this effect can be deleted once its
// result is unused. Reads of the tape are unobservable; input is not, since
// it advances the stream.
func (e Effect) Removable() bool {
	return e.Type == EffectPure || e.Type == EffectRead
}

// Aliases reports whether two memory effects touch the same cell.
// Offsets share the block's input pointer, so equal offsets are the same cell
// and different offsets never are.
func (e Effect) Aliases(other Effect) bool {
	if !e.touchesTape() || !other.touchesTape() {
		return false
	}
	return e.Offset == other.Offset
}

func (e Effect) touchesTape() bool {
	return e.Type == EffectRead || e.Type == EffectWrite
}
