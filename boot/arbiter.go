// Package boot decides at every reset whether to run the installed
// application or stay resident as the firmware update agent.
//
// State machine between the update agent and the application:
//
//	[Bootloader] -> [FirmwareActive]
//	    ^------------------/
//
// Rules for the update agent:
//   - run the application if neither the watchdog nor a reset instruction
//     caused the reset and the image was confirmed (flash_success)
//   - on USB bus reset, run the application if an image was read or written
//   - the first firmware block written clears flash_success (see package dfu)
//
// Rules for the application (see Application):
//   - on USB bus reset in appDETACH, reset back into the update agent
//   - when DFU GetStatus is serviced, set flash_success
package boot

import (
	"encoding/binary"
	"fmt"

	"github.com/moffa90/go-colorhug/board"
	"github.com/moffa90/go-colorhug/diag"
	"github.com/moffa90/go-colorhug/flash"
	"github.com/moffa90/go-colorhug/layout"
	"github.com/moffa90/go-colorhug/protocol"
)

// State is the boot state. It is not persisted.
type State uint8

const (
	StateBootloader State = iota
	StateFirmwareActive
	StatePendingReset
)

func (s State) String() string {
	switch s {
	case StateBootloader:
		return "bootloader"
	case StateFirmwareActive:
		return "firmware-active"
	case StatePendingReset:
		return "pending-reset"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// FatalError is a condition the device cannot recover from without a power
// cycle. The device halts showing Code.
type FatalError struct {
	Code protocol.ChError
	Err  error
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fatal: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("fatal: %s", e.Code)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code shown while halted.
func (e *FatalError) ErrorCode() protocol.ChError {
	return e.Code
}

// TransferSession reports whether image data crossed the link this power cycle.
type TransferSession interface {
	DidTransfer() bool
}

// ShouldBoot is the boot decision table: the application runs only after a
// clean power-on with a confirmed image.
func ShouldBoot(cause board.ResetCause, flashSuccess bool) bool {
	return !cause.WatchdogTimeout && !cause.ExternalReset && flashSuccess
}

type options struct {
	indicator board.Indicator
	log       diag.Logger
}

// Option configures an Arbiter or Application.
type Option func(*options)

// WithIndicator lights both LEDs before control passes to the application.
func WithIndicator(ind board.Indicator) Option {
	return func(o *options) {
		o.indicator = ind
	}
}

// WithLogger sets a logger for boot decisions.
func WithLogger(logger diag.Logger) Option {
	return func(o *options) {
		o.log = logger
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.log = diag.OrNop(o.log)
	return o
}

// Arbiter owns the boot state of the update agent.
type Arbiter struct {
	flash   flash.Device
	layout  *layout.Layout
	target  board.Target
	session TransferSession
	opts    options

	state State
}

// NewArbiter creates an arbiter in the Bootloader state.
func NewArbiter(dev flash.Device, l *layout.Layout, target board.Target, session TransferSession, opts ...Option) *Arbiter {
	return &Arbiter{
		flash:   dev,
		layout:  l,
		target:  target,
		session: session,
		opts:    buildOptions(opts),
		state:   StateBootloader,
	}
}

// State returns the current boot state.
func (a *Arbiter) State() State {
	return a.state
}

// Decide runs once after power-on, before the USB stack starts. It enters the
// application when ShouldBoot allows it and otherwise stays resident. A
// missing application is returned as a *FatalError.
func (a *Arbiter) Decide(cause board.ResetCause, flashSuccess bool) error {
	a.opts.log.Debug("boot decision", "watchdog", cause.WatchdogTimeout, "reset", cause.ExternalReset, "flash_success", flashSuccess)
	if !ShouldBoot(cause, flashSuccess) {
		a.state = StateBootloader
		a.opts.log.Info("staying resident as update agent")
		return nil
	}
	return a.enterFirmware()
}

// RequestDeferredReset asks for a return to the application at the next
// Poll. It must not act immediately: it is called from USB event handlers
// and jumping there would cut an in-flight transaction.
func (a *Arbiter) RequestDeferredReset() {
	if a.state == StateBootloader {
		a.state = StatePendingReset
	}
}

// OnBusReset handles a USB bus reset. Once an image was read or written the
// reset returns the device to the application.
func (a *Arbiter) OnBusReset() {
	if a.session.DidTransfer() {
		a.opts.log.Info("bus reset after transfer, returning to firmware")
		a.RequestDeferredReset()
	}
}

// Poll applies a pending reset. It is called once per main-loop iteration.
// flash_success is not re-checked.
func (a *Arbiter) Poll() error {
	if a.state != StatePendingReset {
		return nil
	}
	return a.enterFirmware()
}

// enterFirmware checks the run-code marker and jumps to the application.
func (a *Arbiter) enterFirmware() error {
	base := a.layout.Flash.FirmwareBase

	runCode := make([]byte, 2)
	if err := a.flash.Read(base, runCode); err != nil {
		return &FatalError{Code: protocol.ErrFlashRead, Err: err}
	}
	if binary.LittleEndian.Uint16(runCode) == a.layout.Flash.RunCodeBlank {
		a.opts.log.Error("no firmware installed", "base", base)
		return &FatalError{Code: protocol.ErrNoFirmware}
	}

	if a.opts.indicator != nil {
		a.opts.indicator.SetLEDs(board.LEDBoth)
	}
	a.opts.log.Info("entering firmware", "base", base)
	if err := a.target.Enter(base); err != nil {
		return &FatalError{Code: protocol.ErrNotImplemented, Err: err}
	}
	a.state = StateFirmwareActive
	return nil
}
