package config

import (
	"errors"
	"fmt"
)

var (
	ErrFilesystem    = errors.New("filesystem error")
	ErrSerialization = errors.New("serialization error")
	ErrParse         = errors.New("parse error")
)

// Op names the step of Load that failed.
type Op string

const (
	OpCreateDir Op = "create directory"
	OpSerialize Op = "serialize"
	OpWrite     Op = "write"
	OpRead      Op = "read"
	OpParse     Op = "parse"
)

// kind maps a step to the sentinel callers match with errors.Is.
func (op Op) kind() error {
	switch op {
	case OpSerialize:
		return ErrSerialization
	case OpParse:
		return ErrParse
	default:
		return ErrFilesystem
	}
}

const parseHint = `Please check the syntax of your configuration file. Common issues include:
  - Missing or extra commas
  - Unquoted string values
  - Missing closing brackets or braces`

// Error reports a failed step while loading or creating a configuration
// file.
type Error struct {
	Op   Op
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Op {
	case OpCreateDir:
		return fmt.Sprintf("failed to create directory for configuration file %s: %v", e.Path, e.Err)
	case OpSerialize:
		return fmt.Sprintf("failed to serialize default configuration: %v", e.Err)
	case OpWrite:
		return fmt.Sprintf("failed to write default configuration file %s: %v", e.Path, e.Err)
	case OpRead:
		return fmt.Sprintf("failed to read configuration file %s: %v", e.Path, e.Err)
	case OpParse:
		return fmt.Sprintf("configuration file %s contains invalid JSON: %v\n%s", e.Path, e.Err, parseHint)
	}
	return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's step.
func (e *Error) Is(target error) bool {
	return target == e.Op.kind()
}
