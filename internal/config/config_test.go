package config

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyproto/env/v2"

	"brainf/internal/interp"
)

// setenv sets variables for the duration of the test and refreshes the
// cached environment
func setenv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, name := range []string{EnvTapeSize, EnvEOF, EnvMaxSteps, EnvOptimize, EnvVerbosity, EnvLogFile} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	for name, value := range vars {
		t.Setenv(name, value)
	}
	env.Load()
	t.Cleanup(func() { env.Load() })
}

func TestLoadDefaults(t *testing.T) {
	setenv(t, nil)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Nil(t, cfg.LogPath())
}

func TestLoadFromEnvironment(t *testing.T) {
	setenv(t, map[string]string{
		EnvTapeSize:  "128",
		EnvEOF:       "max",
		EnvMaxSteps:  "5000",
		EnvOptimize:  "false",
		EnvVerbosity: "2",
		EnvLogFile:   "/tmp/brainf.log",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.TapeSize)
	assert.Equal(t, interp.EOFMax, cfg.EOF)
	assert.Equal(t, uint64(5000), cfg.MaxSteps)
	assert.False(t, cfg.Optimize)
	assert.Equal(t, 2, cfg.Verbosity)
	require.NotNil(t, cfg.LogPath())
	assert.Equal(t, "/tmp/brainf.log", *cfg.LogPath())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]map[string]string{
		"tape size": {EnvTapeSize: "-4"},
		"eof":       {EnvEOF: "sometimes"},
		"max steps": {EnvMaxSteps: "-1"},
	}

	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			setenv(t, vars)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestMachineConfig(t *testing.T) {
	cfg := Default()
	cfg.TapeSize = 16
	cfg.EOF = interp.EOFError
	cfg.MaxSteps = 10

	in := strings.NewReader("x")
	var out bytes.Buffer
	machine := cfg.Machine(in, &out)

	assert.Equal(t, 16, machine.TapeSize)
	assert.Equal(t, interp.EOFError, machine.EOF)
	assert.Equal(t, uint64(10), machine.MaxSteps)
	assert.Same(t, in, machine.Input)
	assert.Same(t, &out, machine.Output)
}
