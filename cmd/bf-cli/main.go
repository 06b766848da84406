// SPDX-License-Identifier: Apache-2.0
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"brainf/grammar"
	"brainf/internal/config"
	"brainf/internal/errors"
	"brainf/internal/interp"
	"brainf/internal/pipeline"
	"brainf/internal/semantic"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		color.Red("Invalid configuration: %s", err)
		os.Exit(2)
	}

	emit := flag.String("emit", "", "print the program as tree, block, target or flat")
	optimize := flag.Bool("O", cfg.Optimize, "run the block optimizer")
	run := flag.Bool("run", false, "execute the program (default when -emit is not given)")
	form := flag.String("form", string(pipeline.FormTarget), "form to execute: tree, block, target or flat")
	tapeSize := flag.Int("tape", cfg.TapeSize, "number of cells on the tape")
	eof := flag.String("eof", cfg.EOF.String(), "end of input policy: zero, max or error")
	maxSteps := flag.Uint64("max-steps", cfg.MaxSteps, "step budget, 0 for no limit")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bf-cli [-emit tree|block|target|flat] [-O] [-run] <file.bf>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	commonlog.Configure(cfg.Verbosity, cfg.LogPath())

	policy, err := interp.ParseEOFPolicy(*eof)
	if err != nil {
		color.Red("Invalid -eof: %s", err)
		os.Exit(2)
	}
	cfg.TapeSize, cfg.EOF, cfg.MaxSteps, cfg.Optimize = *tapeSize, policy, *maxSteps, *optimize

	startTime := time.Now()
	path := flag.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		os.Exit(1)
	}

	// Create error reporter
	errorReporter := errors.NewErrorReporter(path, string(source))
	fail := func(err error) {
		fmt.Fprint(os.Stderr, errorReporter.Format(err))
		color.New(color.FgRed).Fprintf(os.Stderr, "Failed after %s\n", formatDuration(time.Since(startTime)))
		os.Exit(1)
	}

	tree, err := grammar.ParseString(path, string(source))
	if err != nil {
		fail(err)
	}

	// Warnings never stop the pipeline
	analyzer := semantic.NewAnalyzer()
	for _, warning := range analyzer.Analyze(tree) {
		fmt.Fprint(os.Stderr, errorReporter.FormatError(warning))
	}

	opts := pipeline.Options{Optimize: cfg.Optimize, TapeSize: cfg.TapeSize}

	if *emit != "" {
		emitForm, err := pipeline.ParseForm(*emit)
		if err != nil {
			fail(err)
		}
		program, err := pipeline.Compile(tree, emitForm, opts)
		if err != nil {
			fail(err)
		}
		fmt.Print(pipeline.Render(program))
	}

	if *run || *emit == "" {
		runForm, err := pipeline.ParseForm(*form)
		if err != nil {
			fail(err)
		}
		program, err := pipeline.Compile(tree, runForm, opts)
		if err != nil {
			fail(err)
		}

		out := bufio.NewWriter(os.Stdout)
		machine, err := interp.Run(program, cfg.Machine(os.Stdin, out))
		if flushErr := out.Flush(); err == nil {
			err = flushErr
		}
		if err != nil {
			fail(err)
		}

		color.New(color.FgGreen).Fprintf(os.Stderr, "Ran %s in %s (%d steps, pointer %d)\n",
			path, formatDuration(time.Since(startTime)), machine.Steps, machine.Pointer)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
