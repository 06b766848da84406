// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"brainf/grammar"
	"brainf/internal/config"
	"brainf/internal/errors"
	"brainf/internal/interp"
	"brainf/internal/pipeline"
)

const (
	PROMPT       = ">> "
	CONTINUATION = ".. "
)

// tapeWindow is how many cells :tape shows on each side of the pointer
const tapeWindow = 8

const help = `Enter commands to run them on the tape. Unclosed loops continue on the next line.
  :tree [src]    print the instruction tree
  :block [src]   print the block IR before optimization
  :opt [src]     print the optimized block IR
  :target [src]  print the target IR
  :flat [src]    print the flattened target IR
  :input text    queue text (plus a newline) for ',' to read
  :tape          show the cells around the pointer
  :reset         zero the tape and the pointer
  :help          show this message
  :quit          leave
Without [src] the printing commands use the last program entered.`

// Session is one interactive run: a machine whose tape and pointer survive
// from line to line, and the input queued for it
type Session struct {
	cfg     *config.Config
	machine *interp.Machine
	input   bytes.Buffer
	out     io.Writer
	last    string
	lineNo  int
}

// NewSession creates a session writing program output and responses to out
func NewSession(cfg *config.Config, out io.Writer) *Session {
	s := &Session{cfg: cfg, out: out}
	s.machine = interp.New(cfg.Machine(&s.input, out))
	return s
}

// Machine exposes the session's machine
func (s *Session) Machine() *interp.Machine {
	return s.machine
}

// Start reads lines from in until it runs dry or :quit is entered
func Start(in io.Reader, out io.Writer, cfg *config.Config) {
	s := NewSession(cfg, out)
	scanner := bufio.NewScanner(in)

	var pending strings.Builder
	for {
		if pending.Len() == 0 {
			fmt.Fprint(out, PROMPT)
		} else {
			fmt.Fprint(out, CONTINUATION)
		}
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		line := scanner.Text()
		if pending.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			if !s.Command(strings.TrimSpace(line)) {
				return
			}
			continue
		}

		pending.WriteString(line)
		pending.WriteString("\n")
		if unclosed(pending.String()) {
			continue
		}

		s.Eval(pending.String())
		pending.Reset()
	}
}

// unclosed reports whether source only fails the bracket check because of
// loops still waiting for their "]"
func unclosed(source string) bool {
	errs := grammar.MatchBrackets("", source)
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		if e.Bracket != "[" {
			return false
		}
	}
	return true
}

// Eval parses source and runs it on the session's machine
func (s *Session) Eval(source string) {
	s.lineNo++
	filename := fmt.Sprintf("<repl:%d>", s.lineNo)

	tree, err := grammar.ParseString(filename, source)
	if err != nil {
		s.report(filename, source, err)
		return
	}
	if len(tree.Body) == 0 {
		return
	}
	s.last = source

	program, err := pipeline.Compile(tree, pipeline.FormBlock, pipeline.Options{Optimize: s.cfg.Optimize})
	if err != nil {
		s.report(filename, source, err)
		return
	}

	if err := s.machine.Execute(program); err != nil {
		s.report(filename, source, err)
	}
}

// Command handles a ":" line. It returns false when the session should end.
func (s *Session) Command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprintln(s.out, help)
	case ":reset":
		s.machine.Reset()
		s.input.Reset()
		fmt.Fprintln(s.out, "tape cleared")
	case ":tape":
		fmt.Fprintln(s.out, s.tape())
	case ":input":
		s.input.WriteString(arg)
		s.input.WriteString("\n")
	case ":tree":
		s.show(arg, pipeline.FormTree, false)
	case ":block":
		s.show(arg, pipeline.FormBlock, false)
	case ":opt":
		s.show(arg, pipeline.FormBlock, true)
	case ":target":
		s.show(arg, pipeline.FormTarget, s.cfg.Optimize)
	case ":flat":
		s.show(arg, pipeline.FormFlat, s.cfg.Optimize)
	default:
		color.New(color.FgRed).Fprintf(s.out, "unknown command %s, try :help\n", name)
	}
	return true
}

func (s *Session) show(source string, form pipeline.Form, optimize bool) {
	if source == "" {
		source = s.last
	}

	tree, err := grammar.ParseString("<repl>", source)
	if err != nil {
		s.report("<repl>", source, err)
		return
	}

	program, err := pipeline.Compile(tree, form, pipeline.Options{Optimize: optimize, TapeSize: s.cfg.TapeSize})
	if err != nil {
		s.report("<repl>", source, err)
		return
	}
	fmt.Fprint(s.out, pipeline.Render(program))
}

// tape renders the cells around the pointer, the current one highlighted
func (s *Session) tape() string {
	m := s.machine
	from := max(m.Pointer-tapeWindow, 0)
	to := min(m.Pointer+tapeWindow+1, len(m.Tape))

	highlight := color.New(color.FgGreen, color.Bold).SprintFunc()

	var b strings.Builder
	fmt.Fprintf(&b, "ptr=%d steps=%d |", m.Pointer, m.Steps)
	for i := from; i < to; i++ {
		cell := fmt.Sprintf("%3d", m.Tape[i])
		if i == m.Pointer {
			cell = highlight("[" + strings.TrimSpace(cell) + "]")
		}
		b.WriteString(" ")
		b.WriteString(cell)
	}
	b.WriteString(" |")
	return b.String()
}

func (s *Session) report(filename, source string, err error) {
	reporter := errors.NewErrorReporter(filename, source)
	fmt.Fprint(s.out, reporter.Format(err))
}
