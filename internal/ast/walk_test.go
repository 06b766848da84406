package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectStats(t *testing.T) {
	// [-[-][-]]
	p := NewProgram(NewLoop(&Dec{}, NewLoop(&Dec{}), NewLoop(&Dec{})))

	stats := CollectStats(p)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 3, stats.Counts[LOOP])
	assert.Equal(t, 3, stats.Counts[DEC])
	assert.Equal(t, 2, stats.MaxDepth)
}

func TestWalkSkipsChildren(t *testing.T) {
	p := NewProgram(&Inc{}, NewLoop(&Inc{}, &Inc{}), &Out{})

	var seen []NodeType
	Walk(p, func(instr Instr, depth int) bool {
		seen = append(seen, instr.NodeType())
		return instr.NodeType() != LOOP
	})

	assert.Equal(t, []NodeType{INC, LOOP, OUT}, seen)
}

func TestCollectStatsEmpty(t *testing.T) {
	stats := CollectStats(NewProgram())
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.MaxDepth)
}
