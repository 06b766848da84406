package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEffect(t *testing.T) {
	tests := []struct {
		name      string
		op        CellOp
		effect    Effect
		removable bool
	}{
		{"load", Load{Dst: 0, Offset: 2}, Effect{Type: EffectRead, Offset: 2}, true},
		{"store", Store{Src: 0, Offset: -1}, Effect{Type: EffectWrite, Offset: -1}, false},
		{"addi", AddConst{Dst: 1, Src: 0, Delta: 3}, Effect{Type: EffectPure}, true},
		{"in", Input{Dst: 0}, Effect{Type: EffectInput}, false},
		{"out", Output{Src: 0}, Effect{Type: EffectOutput}, false},
		{"bounds", Bounds{Path: []int{-1}}, Effect{Type: EffectBounds}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effect := GetEffect(tt.op)
			assert.Equal(t, tt.effect, effect)
			assert.Equal(t, tt.removable, effect.Removable())
		})
	}
}

func TestEffectAliases(t *testing.T) {
	read := GetEffect(Load{Offset: 1})
	write := GetEffect(Store{Offset: 1})
	other := GetEffect(Store{Offset: 2})
	io := GetEffect(Output{})

	assert.True(t, read.Aliases(write))
	assert.False(t, read.Aliases(other))
	assert.False(t, io.Aliases(read))
	assert.False(t, GetEffect(AddConst{}).Aliases(write))
}
