// Package lisnconfig holds the tunable resource limits (indent-stack depth,
// recording-buffer sizing). The lexer obeys the indent-stack depth; the
// recording-buffer size is loaded but not read by any package. All limits have
// sane defaults taken from spec.md §5; loading a config file is optional and
// only needed to change them.
package lisnconfig

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Limits holds the bounded-resource knobs described in spec.md §5.
type Limits struct {
	// MaxIndentDepth is the hard cap on the indentation stack. Exceeding it
	// is reported as lisnerr.LexIndentStackOverflow rather than panicking.
	MaxIndentDepth int `toml:"max_indent_depth"`

	// InitialRecordingBufferSize is a starting capacity, in bytes, for the
	// per-token recording buffer that captures a token's source text. No
	// package reads it: stream.Stream always starts that buffer at 16 bytes
	// and grows it as needed.
	InitialRecordingBufferSize int `toml:"initial_recording_buffer_size"`
}

// DefaultLimits returns the limits spec.md specifies when no config file is
// supplied: a 1024-level indent stack and a 16-byte initial recording
// buffer.
func DefaultLimits() Limits {
	return Limits{
		MaxIndentDepth:             1024,
		InitialRecordingBufferSize: 16,
	}
}

// Load reads limits from a TOML file at path, starting from DefaultLimits so
// that a file which only overrides one field leaves the other at its
// default.
func Load(path string) (Limits, error) {
	limits := DefaultLimits()

	data, err := os.ReadFile(path)
	if err != nil {
		return limits, err
	}

	if err := toml.Unmarshal(data, &limits); err != nil {
		return limits, err
	}

	return limits, nil
}
