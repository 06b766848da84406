package ir

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainf/internal/errors"
)

func requireMalformed(t *testing.T, err error, contains string) {
	t.Helper()
	require.Error(t, err)

	var invariant *errors.InvariantError
	require.True(t, stderrors.As(err, &invariant))
	assert.Equal(t, errors.ErrorMalformedIR, invariant.Code)
	assert.Equal(t, "verify", invariant.Pass)
	assert.Contains(t, invariant.Message, contains)
}

func TestVerifyBuiltPrograms(t *testing.T) {
	for _, src := range []string{"", "+", "[]", ",[>++<-]>.", "[-[-][-]]", "+[>[<-]<]"} {
		program := buildSource(t, src)
		assert.NoError(t, Verify(program), src)
	}
}

func TestVerifyWrongInput(t *testing.T) {
	program := buildSource(t, "+>+")
	second := program.Node(program.Body[1]).(*MemBlock)
	second.In = program.Entry

	requireMalformed(t, Verify(program), "current pointer")
}

func TestVerifyWrongExit(t *testing.T) {
	program := buildSource(t, "+>")
	program.Exit = program.Entry

	requireMalformed(t, Verify(program), "exit pointer")
}

func TestVerifyContinueOutsideLoop(t *testing.T) {
	program := NewProgram()
	program.Body = append(program.Body, program.add(&Continue{Value: program.Entry}))

	requireMalformed(t, Verify(program), "outside of a loop")
}

func TestVerifyLoopWithoutContinue(t *testing.T) {
	program := buildSource(t, "[-]")
	loop := program.Node(program.Body[0]).(*WhileBlock)
	loop.Body = loop.Body[:len(loop.Body)-1]

	requireMalformed(t, Verify(program), "does not end with a continue")
}

func TestVerifyUseBeforeDefinition(t *testing.T) {
	program := buildSource(t, ".")
	blk := program.Node(program.Body[0]).(*MemBlock)
	blk.Ops = []CellOp{blk.Ops[1], blk.Ops[0]}

	requireMalformed(t, Verify(program), "used before definition")
}

func TestVerifyCrossBlockValue(t *testing.T) {
	program := buildSource(t, ",>.")
	first := program.Node(program.Body[0]).(*MemBlock)
	last := program.Node(program.Body[2]).(*MemBlock)
	last.Ops = []CellOp{Output{Src: first.Ops[0].(Input).Dst}}

	requireMalformed(t, Verify(program), "used before definition")
}

func TestVerifyDuplicatePointer(t *testing.T) {
	program := buildSource(t, "+>")
	first := program.Node(program.Body[0]).(*MemBlock)
	second := program.Node(program.Body[1]).(*MemBlock)
	second.Out = first.Out

	requireMalformed(t, Verify(program), "defined more than once")
}

func TestVerifyProducerMismatch(t *testing.T) {
	program := buildSource(t, "+")
	blk := program.Node(program.Body[0]).(*MemBlock)
	program.Pointers[blk.Out].Producer = NoNode

	requireMalformed(t, Verify(program), "records producer")
}

func TestVerifyEmptyBounds(t *testing.T) {
	program := buildSource(t, "+")
	blk := program.Node(program.Body[0]).(*MemBlock)
	blk.Ops = append(blk.Ops, Bounds{})

	requireMalformed(t, Verify(program), "empty path")
}
