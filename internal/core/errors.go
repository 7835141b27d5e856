package core

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfRange is returned by Chain.Get for an index outside the chain.
	ErrOutOfRange = errors.New("block index out of range")
	// ErrLoad matches any *LoadError via errors.Is.
	ErrLoad = errors.New("program load failed")
	// ErrExec matches any *ExecError via errors.Is.
	ErrExec = errors.New("program execution failed")
)

// Load stages reported by LoadError.
const (
	StageRead        = "read"
	StageCompile     = "compile"
	StageEnvironment = "environment"
	StageInstantiate = "instantiate"
)

// LoadError reports why a program could not be attached to a new block.
type LoadError struct {
	Identifier string
	Stage      string
	Err        error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load program %q: %s: %v", e.Identifier, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// ExecError wraps a failure raised while running a block's program.
type ExecError struct {
	Payload string
	Err     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("execute program %q: %v", e.Payload, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

func (e *ExecError) Is(target error) bool { return target == ErrExec }

func outOfRange(index, length int) error {
	return errors.Wrapf(ErrOutOfRange, "index %d, chain length %d", index, length)
}
