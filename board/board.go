// Package board describes the hardware capabilities the device core drives.
//
// Every machine-specific action (jumping into the application, clearing the
// watchdog, lighting LEDs, parking the CPU) sits behind a small interface so
// the boot, transfer and command logic never encodes it directly. Sim
// implements all of them in memory for tests and the simulator.
package board

//go:generate mockgen -destination=mocks/mock_board.go -package=mocks github.com/moffa90/go-colorhug/board Target,Watchdog,Indicator,Halter,UnlockPin,ResetSource

import "github.com/moffa90/go-colorhug/protocol"

// LED is a bitmask of status LEDs.
type LED uint8

const (
	LEDOff   LED = 0
	LEDGreen LED = 1 << 0
	LEDRed   LED = 1 << 1
	LEDBoth      = LEDGreen | LEDRed
)

// Swapped returns l with the red and green bits exchanged, for boards whose
// LED wiring is reversed.
func (l LED) Swapped() LED {
	var out LED
	if l&LEDGreen != 0 {
		out |= LEDRed
	}
	if l&LEDRed != 0 {
		out |= LEDGreen
	}
	return out
}

// ResetCause holds the hardware reset-cause flags latched at power-up.
type ResetCause struct {
	// WatchdogTimeout is set when the watchdog expired
	WatchdogTimeout bool

	// ExternalReset is set after a software or external reset
	ExternalReset bool
}

// Target transfers control between the update agent and the application.
type Target interface {
	// Enter jumps to the application at base. On hardware it does not return.
	Enter(base uint32) error

	// Reset restarts the device into the update agent.
	Reset()
}

// Watchdog is the hardware liveness timer.
type Watchdog interface {
	Clear()
}

// Indicator drives the status LEDs.
type Indicator interface {
	SetLEDs(leds LED)
	LEDs() LED
}

// Halter parks the device after a fatal error. On hardware Halt never
// returns; simulated boards record the call and return, so callers must stop
// after it.
type Halter interface {
	Halt(code protocol.ChError)
}

// UnlockPin reports whether the key-wipe jumper is fitted.
type UnlockPin interface {
	Asserted() bool
}

// ResetSource reports why the device last reset.
type ResetSource interface {
	ResetCause() ResetCause
}
