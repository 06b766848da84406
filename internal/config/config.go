package config

import (
	"fmt"
	"io"

	"github.com/xyproto/env/v2"

	"brainf/internal/interp"
	"brainf/internal/target"
)

// Environment variables read by Load
const (
	EnvTapeSize  = "BF_TAPE_SIZE"
	EnvEOF       = "BF_EOF"
	EnvMaxSteps  = "BF_MAX_STEPS"
	EnvOptimize  = "BF_OPTIMIZE"
	EnvVerbosity = "BF_VERBOSITY"
	EnvLogFile   = "BF_LOG"
)

// Config holds the settings shared by the CLI, the REPL and the language server
type Config struct {
	TapeSize  int
	EOF       interp.EOFPolicy
	MaxSteps  uint64
	Optimize  bool
	Verbosity int
	LogFile   string
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		TapeSize: target.DefaultTapeSize,
		EOF:      interp.EOFZero,
		Optimize: true,
	}
}

// Load reads the configuration from the environment. Unset variables keep
// their defaults; BF_OPTIMIZE must be explicitly false to disable the
// optimizer.
func Load() (*Config, error) {
	cfg := Default()

	cfg.TapeSize = env.Int(EnvTapeSize, cfg.TapeSize)
	if cfg.TapeSize <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", EnvTapeSize, cfg.TapeSize)
	}

	policy, err := interp.ParseEOFPolicy(env.Str(EnvEOF, cfg.EOF.String()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvEOF, err)
	}
	cfg.EOF = policy

	maxSteps := env.Int(EnvMaxSteps, 0)
	if maxSteps < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %d", EnvMaxSteps, maxSteps)
	}
	cfg.MaxSteps = uint64(maxSteps)

	if env.Has(EnvOptimize) {
		cfg.Optimize = env.Bool(EnvOptimize)
	}
	cfg.Verbosity = env.Int(EnvVerbosity, cfg.Verbosity)
	cfg.LogFile = env.Str(EnvLogFile)

	return cfg, nil
}

// Machine builds the interpreter configuration for the given streams
func (c *Config) Machine(input io.Reader, output io.Writer) interp.Config {
	return interp.Config{
		TapeSize: c.TapeSize,
		Input:    input,
		Output:   output,
		EOF:      c.EOF,
		MaxSteps: c.MaxSteps,
	}
}

// LogPath returns the log destination for commonlog.Configure, nil meaning stderr
func (c *Config) LogPath() *string {
	if c.LogFile == "" {
		return nil
	}
	path := c.LogFile
	return &path
}
