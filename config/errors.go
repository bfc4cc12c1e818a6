package config

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-colorhug/protocol"
)

// ErrWrongUnlockCode is returned when a signing key is already provisioned.
var ErrWrongUnlockCode = fmt.Errorf("signing key already set: %w", protocol.ErrWrongUnlockCode)

// ErrCorruptRecord is returned when the stored record fails its checksum or
// does not read back as written.
var ErrCorruptRecord = fmt.Errorf("configuration record corrupt: %w", protocol.ErrSelfTestEEPROM)

// ChecksumError indicates that the stored record checksum did not match.
type ChecksumError struct {
	Expected uint16
	Actual   uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("record checksum mismatch: stored 0x%04X, computed 0x%04X", e.Expected, e.Actual)
}

// Unwrap lets errors.Is match ErrCorruptRecord.
func (e *ChecksumError) Unwrap() error {
	return ErrCorruptRecord
}

// IsCorrupt reports whether err means the stored record cannot be trusted.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptRecord)
}
