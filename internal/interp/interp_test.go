package interp

import (
	"bytes"
	stderrors "errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainf/grammar"
	"brainf/internal/ast"
	"brainf/internal/errors"
	"brainf/internal/ir"
	"brainf/internal/target"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

// stage turns an instruction tree into one executable form
type stage struct {
	name  string
	build func(t *testing.T, tree *ast.Program, tapeSize int) any
}

func blocks(t *testing.T, tree *ast.Program, optimize bool) *ir.Program {
	t.Helper()
	program, err := ir.BuildProgram(tree)
	require.NoError(t, err)
	if optimize {
		require.NoError(t, ir.Optimize(program))
	}
	return program
}

var stages = []stage{
	{"tree", func(t *testing.T, tree *ast.Program, _ int) any {
		return tree
	}},
	{"blocks", func(t *testing.T, tree *ast.Program, _ int) any {
		return blocks(t, tree, false)
	}},
	{"optimized", func(t *testing.T, tree *ast.Program, _ int) any {
		return blocks(t, tree, true)
	}},
	{"target-tree", func(t *testing.T, tree *ast.Program, size int) any {
		program, err := target.FromTree(tree, size)
		require.NoError(t, err)
		return program
	}},
	{"target-blocks", func(t *testing.T, tree *ast.Program, size int) any {
		program, err := target.FromBlocks(blocks(t, tree, true), size)
		require.NoError(t, err)
		return program
	}},
	{"target-flat", func(t *testing.T, tree *ast.Program, size int) any {
		program, err := target.FromBlocks(blocks(t, tree, true), size)
		require.NoError(t, err)
		return target.Flatten(program)
	}},
}

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tree, err := grammar.ParseString("test.bf", src)
	require.NoError(t, err)
	return tree
}

func runForm(t *testing.T, program any, input string, config Config) (*Machine, string, error) {
	t.Helper()
	var out bytes.Buffer
	config.Input = strings.NewReader(input)
	config.Output = &out
	m, err := Run(program, config)
	return m, out.String(), err
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name   string
		source string
		input  string
		output string
	}{
		{"doubling", ",[>++<-]>.", "\x05", "\x0a"},
		{"echo", ",.", "a", "a"},
		{"nested zero loops", "[-[-][-]]", "", ""},
		{"hello world", helloWorld, "", "Hello World!\n"},
		{"wraparound", "-.+.", "", "\xff\x00"},
		{"eof yields zero", ",.,.", "z", "z\x00"},
		{"cat until eof", ",[.,]", "brainf", "brainf"},
		{"move and clear", "+++[>+<-]>[-]>+<.", "", "\x00"},
	}

	for _, tt := range tests {
		tree := parse(t, tt.source)
		for _, st := range stages {
			t.Run(tt.name+"/"+st.name, func(t *testing.T) {
				config := DefaultConfig()
				m, out, err := runForm(t, st.build(t, tree, config.TapeSize), tt.input, config)
				require.NoError(t, err)
				assert.Equal(t, tt.output, out)
				assert.Len(t, m.Tape, config.TapeSize)
			})
		}
	}
}

func TestNestedZeroLoopsLeaveTapeUntouched(t *testing.T) {
	tree := parse(t, "[-[-][-]]")
	for _, st := range stages {
		t.Run(st.name, func(t *testing.T) {
			config := DefaultConfig()
			m, _, err := runForm(t, st.build(t, tree, config.TapeSize), "", config)
			require.NoError(t, err)
			assert.Equal(t, 0, m.Pointer)
			assert.Equal(t, make([]byte, config.TapeSize), m.Tape)
		})
	}
}

func TestZeroIterationLoopKeepsState(t *testing.T) {
	tree := parse(t, "+>>[<<-]<")
	for _, st := range stages {
		t.Run(st.name, func(t *testing.T) {
			config := Config{TapeSize: 8}
			m, _, err := runForm(t, st.build(t, tree, config.TapeSize), "", config)
			require.NoError(t, err)
			assert.Equal(t, 1, m.Pointer)
			assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, m.Tape)
		})
	}
}

func TestPointerOutOfBounds(t *testing.T) {
	tests := []struct {
		source   string
		tapeSize int
		pointer  int
		output   string
	}{
		{"<", target.DefaultTapeSize, -1, ""},
		{"<<", 8, -1, ""},
		{"<>", 8, -1, ""},
		{"<<+>>", 8, -1, ""},
		{">>>>>>>>><<<<<<<<<", 8, 8, ""},
		{">>>>>>><<<<<<<<", 8, -1, ""},
		{"+.<", 8, -1, "\x01"},
		{">.<<.", 8, -1, "\x00"},
	}

	for _, tt := range tests {
		tree := parse(t, tt.source)
		for _, st := range stages {
			t.Run(tt.source+"/"+st.name, func(t *testing.T) {
				config := Config{TapeSize: tt.tapeSize}
				_, out, err := runForm(t, st.build(t, tree, config.TapeSize), "", config)
				require.Error(t, err)

				var oob *PointerOutOfBoundsError
				require.True(t, stderrors.As(err, &oob), "%v", err)
				assert.Equal(t, tt.pointer, oob.Pointer)
				assert.Equal(t, tt.tapeSize, oob.TapeSize)
				assert.Equal(t, tt.output, out, "output written before the fault")
			})
		}
	}
}

func TestPointerOutOfBoundsRight(t *testing.T) {
	tree := parse(t, "+[>+]")
	for _, st := range stages {
		t.Run(st.name, func(t *testing.T) {
			config := Config{TapeSize: 16}
			m, _, err := runForm(t, st.build(t, tree, config.TapeSize), "", config)

			var oob *PointerOutOfBoundsError
			require.True(t, stderrors.As(err, &oob))
			assert.Equal(t, 16, oob.Pointer)
			assert.Equal(t, 15, m.Pointer, "the failing move does not change the pointer")
		})
	}
}

func TestPointerOutOfBoundsPosition(t *testing.T) {
	config := DefaultConfig()
	_, _, err := runForm(t, parse(t, "+\n <"), "", config)

	var oob *PointerOutOfBoundsError
	require.True(t, stderrors.As(err, &oob))
	assert.Equal(t, "bf.lshft", oob.Op)
	assert.Equal(t, 2, oob.Pos.Line)
	assert.Equal(t, 2, oob.Pos.Column)
	assert.Contains(t, oob.Error(), "test.bf:2:2")

	diag := oob.Diagnostic()
	assert.Equal(t, errors.ErrorPointerOutOfBounds, diag.Code)
}

func TestEOFPolicies(t *testing.T) {
	tree := parse(t, ",.,.")

	tests := []struct {
		policy EOFPolicy
		output string
		err    error
	}{
		{EOFZero, "q\x00", nil},
		{EOFMax, "q\xff", nil},
		{EOFError, "q", ErrInputExhausted},
	}

	for _, tt := range tests {
		for _, st := range stages {
			t.Run(tt.policy.String()+"/"+st.name, func(t *testing.T) {
				config := DefaultConfig()
				config.EOF = tt.policy
				_, out, err := runForm(t, st.build(t, tree, config.TapeSize), "q", config)
				if tt.err != nil {
					require.ErrorIs(t, err, tt.err)
				} else {
					require.NoError(t, err)
				}
				assert.Equal(t, tt.output, out)
			})
		}
	}
}

func TestNilStreams(t *testing.T) {
	m, err := Run(parse(t, ",+."), Config{})

	require.NoError(t, err)
	assert.Equal(t, byte(1), m.Cell())
	assert.Len(t, m.Tape, target.DefaultTapeSize)
}

func TestStepLimit(t *testing.T) {
	tree := parse(t, "+[]")
	for _, st := range stages {
		t.Run(st.name, func(t *testing.T) {
			config := Config{TapeSize: 4, MaxSteps: 100}
			m, _, err := runForm(t, st.build(t, tree, config.TapeSize), "", config)
			require.ErrorIs(t, err, ErrStepLimit)
			assert.Equal(t, uint64(101), m.Steps)
		})
	}
}

func TestUnknownInstruction(t *testing.T) {
	m := New(DefaultConfig())

	err := m.Execute("+-")
	var unknownErr *UnknownInstructionError
	require.True(t, stderrors.As(err, &unknownErr))
	assert.Equal(t, "string", unknownErr.Kind)
	assert.Equal(t, 0, unknownErr.Pointer)

	program := &target.Program{Body: []target.Stmt{&target.MovePointer{Delta: 3}, nil}}
	err = m.RunTarget(program)
	require.True(t, stderrors.As(err, &unknownErr))
	assert.Equal(t, "<nil>", unknownErr.Kind)
	assert.Equal(t, 3, unknownErr.Pointer)
	assert.Contains(t, unknownErr.Error(), "with pointer 3")

	diag := unknownErr.Diagnostic()
	assert.Equal(t, errors.ErrorUnknownInstruction, diag.Code)
	assert.Contains(t, diag.Notes, "pointer was 3")
}

func TestFlatUndefinedLabel(t *testing.T) {
	program := &target.Program{
		TapeSize: 4,
		Body:     []target.Stmt{&target.JumpIfZero{Guard: 0, Target: "nowhere"}},
	}

	err := New(Config{TapeSize: 4}).RunTarget(program)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undefined label "nowhere"`)
}

func TestMachinePersistsAcrossRuns(t *testing.T) {
	var out bytes.Buffer
	m := New(Config{TapeSize: 10, Output: &out})

	require.NoError(t, m.Execute(parse(t, "+++>")))
	require.NoError(t, m.Execute(blocks(t, parse(t, "++<."), true)))

	assert.Equal(t, 0, m.Pointer)
	assert.Equal(t, []byte{3, 2}, m.Tape[:2])
	assert.Equal(t, "\x03", out.String())

	m.Reset()
	assert.Equal(t, 0, m.Pointer)
	assert.Equal(t, uint64(0), m.Steps)
	assert.Equal(t, make([]byte, 10), m.Tape)
}

func TestParseEOFPolicy(t *testing.T) {
	for name, expected := range map[string]EOFPolicy{
		"":      EOFZero,
		"zero":  EOFZero,
		"MAX":   EOFMax,
		"255":   EOFMax,
		"error": EOFError,
	} {
		policy, err := ParseEOFPolicy(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, policy, name)
	}

	_, err := ParseEOFPolicy("unchanged")
	assert.Error(t, err)
}

// randomTree builds a well-formed instruction tree using the ast constructors
func randomTree(r *rand.Rand, size, depth int) []ast.Instr {
	var body []ast.Instr
	for i := 0; i < size; i++ {
		switch k := r.Intn(9); {
		case k <= 1:
			body = append(body, &ast.Inc{})
		case k == 2:
			body = append(body, &ast.Dec{})
		case k == 3:
			body = append(body, &ast.MoveLeft{})
		case k == 4:
			body = append(body, &ast.MoveRight{})
		case k == 5:
			body = append(body, &ast.In{})
		case k == 6:
			body = append(body, &ast.Out{})
		default:
			if depth > 0 {
				body = append(body, ast.NewLoop(randomTree(r, r.Intn(size+1), depth-1)...))
			}
		}
	}
	return body
}

func TestRandomProgramsAgreeAcrossStages(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	checked := 0

	for i := 0; i < 400; i++ {
		// Start in the middle of the tape so short programs rarely fall off
		tree := ast.NewProgram(append([]ast.Instr{&ast.MoveRight{}, &ast.MoveRight{}, &ast.MoveRight{}},
			randomTree(r, 10, 3)...)...)
		input := string([]byte{byte(r.Intn(256)), byte(r.Intn(256)), 3})

		reference := Config{TapeSize: 64, MaxSteps: 5000}
		refMachine, refOut, refErr := runForm(t, tree, input, reference)
		if stderrors.Is(refErr, ErrStepLimit) {
			continue
		}

		for _, st := range stages[1:] {
			var oob *PointerOutOfBoundsError
			config := Config{TapeSize: 64, MaxSteps: 1_000_000}
			m, out, err := runForm(t, st.build(t, tree, config.TapeSize), input, config)
			if refErr != nil {
				require.Error(t, err, "%s on %q", st.name, ast.Source(tree))
				if stderrors.As(refErr, &oob) {
					var got *PointerOutOfBoundsError
					require.True(t, stderrors.As(err, &got), "%s on %q: %v", st.name, ast.Source(tree), err)
					assert.Equal(t, oob.Pointer, got.Pointer, "%s on %q", st.name, ast.Source(tree))
				}
				continue
			}

			require.NoError(t, err, "%s on %q", st.name, ast.Source(tree))
			assert.Equal(t, refOut, out, "%s on %q", st.name, ast.Source(tree))
			assert.Equal(t, refMachine.Tape, m.Tape, "%s on %q", st.name, ast.Source(tree))
			assert.Equal(t, refMachine.Pointer, m.Pointer, "%s on %q", st.name, ast.Source(tree))
		}
		checked++
	}

	assert.Greater(t, checked, 100)
}
