package protocol

import (
	"errors"
	"fmt"
)

// ProtocolError represents a command that the device rejected.
// Contains the command code and the code written to the error latch.
type ProtocolError struct {
	// Cmd is the command that failed
	Cmd Cmd

	// Status is the latched error code
	Status ChError
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s failed: %s (0x%02X)", e.Cmd, getStatusName(e.Status), uint8(e.Status))
}

// ErrorCode returns the latched error code.
func (e *ProtocolError) ErrorCode() ChError {
	return e.Status
}

// IsProtocolError returns true if the error is a ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// Error lets a bare code be returned as an error by collaborators such as
// sensor drivers.
func (e ChError) Error() string {
	return getStatusName(e)
}

// ErrorCode returns e itself.
func (e ChError) ErrorCode() ChError {
	return e
}

// CodedError is implemented by errors that carry a device error code.
type CodedError interface {
	error
	ErrorCode() ChError
}

// CodeOf maps err to the code the device latches for it. Errors that carry no
// code map to ErrUnknown; nil maps to ErrNone.
func CodeOf(err error) ChError {
	if err == nil {
		return ErrNone
	}
	var ce CodedError
	if errors.As(err, &ce) {
		return ce.ErrorCode()
	}
	return ErrUnknown
}

// getStatusName returns a human-readable name for an error code.
func getStatusName(code ChError) string {
	switch code {
	case ErrNone:
		return "success"
	case ErrUnknownCmd:
		return "unknown command"
	case ErrWrongUnlockCode:
		return "wrong unlock code"
	case ErrFlashWrite:
		return "flash write failed"
	case ErrFlashErase:
		return "flash erase failed"
	case ErrInvalidLength:
		return "invalid length"
	case ErrInvalidValue:
		return "invalid value"
	case ErrFlashRead:
		return "flash read failed"
	case ErrInvalidAddress:
		return "invalid address"
	case ErrNotImplemented:
		return "not implemented"
	case ErrNoFirmware:
		return "no firmware"
	case ErrSensorTimeout:
		return "sensor timeout"
	case ErrSensorOverflow:
		return "sensor overflow"
	case ErrSRAM:
		return "scratch memory failed"
	case ErrUnknown:
		return "unknown error"
	case ErrDeviceDeactivated:
		return "device deactivated"
	case ErrSelfTestSRAM:
		return "scratch memory self test failed"
	case ErrSelfTestEEPROM:
		return "eeprom self test failed"
	case ErrSelfTestSensor:
		return "sensor self test failed"
	default:
		return fmt.Sprintf("unknown status code 0x%02X", uint8(code))
	}
}
