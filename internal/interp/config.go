package interp

import (
	"fmt"
	"io"
	"strings"

	"brainf/internal/target"
)

// EOFPolicy decides what a read past the end of input yields
type EOFPolicy int

const (
	EOFZero  EOFPolicy = iota // the read yields 0
	EOFMax                    // the read yields 255
	EOFError                  // the read fails with ErrInputExhausted
)

func (p EOFPolicy) String() string {
	switch p {
	case EOFZero:
		return "zero"
	case EOFMax:
		return "max"
	case EOFError:
		return "error"
	default:
		return fmt.Sprintf("EOFPolicy(%d)", int(p))
	}
}

// ParseEOFPolicy parses the textual name of a policy
func ParseEOFPolicy(name string) (EOFPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "zero", "0":
		return EOFZero, nil
	case "max", "255", "-1":
		return EOFMax, nil
	case "error":
		return EOFError, nil
	default:
		return EOFZero, fmt.Errorf("unknown EOF policy %q (want zero, max or error)", name)
	}
}

// Config is the machine-state configuration handed to the interpreter.
// Streams are passed explicitly; a nil Input behaves as an empty stream and
// a nil Output discards everything.
type Config struct {
	TapeSize int
	Input    io.Reader
	Output   io.Writer
	EOF      EOFPolicy
	MaxSteps uint64 // 0 means no limit
}

// DefaultConfig returns the classic 30000-cell machine with no streams
func DefaultConfig() Config {
	return Config{
		TapeSize: target.DefaultTapeSize,
		EOF:      EOFZero,
	}
}
