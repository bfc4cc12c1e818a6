package dfu

import (
	"errors"
	"fmt"
)

// ErrInvalidAltSetting is returned for an alternate setting that addresses no
// storage. It carries no DFU status.
var ErrInvalidAltSetting = errors.New("dfu: invalid alternate setting")

// Error is a failed block transfer and the DFU status reported for it.
type Error struct {
	Op     string
	Addr   uint16
	Status Status
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dfu %s at 0x%04X: %s: %v", e.Op, e.Addr, e.Status, e.Err)
	}
	return fmt.Sprintf("dfu %s at 0x%04X: %s", e.Op, e.Addr, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusOf returns the DFU status carried by err, or StatusErrUnknown.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Status
	}
	return StatusErrUnknown
}
