package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainf/internal/config"
)

func session(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cfg := config.Default()
	cfg.TapeSize = 32
	return NewSession(cfg, &out), &out
}

func TestStartRunsLinesOnOneTape(t *testing.T) {
	var out bytes.Buffer
	script := ":input A\n,+.\n>+++\n<.\n:quit\n+.\n"

	Start(strings.NewReader(script), &out, config.Default())

	output := out.String()
	assert.Contains(t, output, "B")
	assert.Equal(t, 2, strings.Count(output, "B"), "second print reads the same cell")
	assert.NotContains(t, output, "C", "lines after :quit are not run")
}

func TestStartContinuesOpenLoops(t *testing.T) {
	var out bytes.Buffer
	script := "++++++++[\n>++++++++<-\n]>+.\n"

	Start(strings.NewReader(script), &out, config.Default())

	output := out.String()
	assert.Equal(t, 2, strings.Count(output, CONTINUATION))
	assert.Contains(t, output, "A")
}

func TestEvalKeepsPointer(t *testing.T) {
	s, _ := session(t)

	s.Eval(">>+")
	s.Eval("+<")

	m := s.Machine()
	assert.Equal(t, 1, m.Pointer)
	assert.Equal(t, byte(2), m.Tape[2])
}

func TestEvalReportsErrors(t *testing.T) {
	s, out := session(t)

	s.Eval("+]")
	assert.Contains(t, out.String(), "mis-matched ']'")

	out.Reset()
	s.Eval("<")
	assert.Contains(t, out.String(), "outside the tape")
}

func TestTapeAndReset(t *testing.T) {
	s, out := session(t)

	s.Eval("+++>+++++")
	require.True(t, s.Command(":tape"))
	assert.Contains(t, out.String(), "ptr=1")
	assert.Contains(t, out.String(), "[5]")

	out.Reset()
	require.True(t, s.Command(":reset"))
	assert.Contains(t, out.String(), "tape cleared")
	assert.Equal(t, 0, s.Machine().Pointer)
	assert.Equal(t, byte(0), s.Machine().Tape[0])
}

func TestPrintingCommands(t *testing.T) {
	s, out := session(t)

	s.Eval(",[-].")

	tests := []struct {
		command string
		want    string
	}{
		{":tree", "bf.loop {"},
		{":block", "bfe.while"},
		{":opt +>.", "bfe.program"},
		{":target", "tgt.while"},
		{":flat", "tgt.jz"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			out.Reset()
			require.True(t, s.Command(tt.command))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	s, out := session(t)

	assert.True(t, s.Command(":frobnicate"))
	assert.Contains(t, out.String(), "unknown command :frobnicate")
	assert.False(t, s.Command(":quit"))
}

func TestUnclosed(t *testing.T) {
	assert.True(t, unclosed("+[\n"))
	assert.True(t, unclosed("[[-]"))
	assert.False(t, unclosed("[-]"))
	assert.False(t, unclosed("]["))
}
