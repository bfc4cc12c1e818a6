package bootloader

import (
	"fmt"
)

// BlockError indicates that a block could not be downloaded.
type BlockError struct {
	Addr     uint16
	Attempts int
	Err      error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block 0x%04X failed after %d attempt(s): %v", e.Addr, e.Attempts, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// VerificationError indicates that data read back differs from what was sent.
type VerificationError struct {
	Addr     uint16
	Expected byte
	Actual   byte
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("firmware verification failed at 0x%04X: expected 0x%02X, got 0x%02X",
		e.Addr, e.Expected, e.Actual)
}
