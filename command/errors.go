package command

import (
	"fmt"

	"github.com/moffa90/go-colorhug/protocol"
)

// codeError attaches a device error code to a collaborator failure.
type codeError struct {
	code protocol.ChError
	err  error
}

func (e *codeError) Error() string {
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *codeError) Unwrap() error {
	return e.err
}

func (e *codeError) ErrorCode() protocol.ChError {
	return e.code
}

func withCode(code protocol.ChError, err error) error {
	return &codeError{code: code, err: err}
}

// ChunkError reports the chunk at which a scratch backup or restore stopped.
type ChunkError struct {
	Op     string
	Offset uint32
	Err    error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("%s aborted at offset 0x%04X: %v", e.Op, e.Offset, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
