package device

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-colorhug/board"
	"github.com/moffa90/go-colorhug/boot"
	"github.com/moffa90/go-colorhug/command"
	"github.com/moffa90/go-colorhug/config"
	"github.com/moffa90/go-colorhug/dfu"
	"github.com/moffa90/go-colorhug/diag"
	"github.com/moffa90/go-colorhug/flash"
	"github.com/moffa90/go-colorhug/layout"
	"github.com/moffa90/go-colorhug/protocol"
	"github.com/moffa90/go-colorhug/sram"
)

var (
	// ErrHalted is returned by Step once the device has halted.
	ErrHalted = errors.New("device halted")

	// ErrUnlocked is returned by Start when the unlock jumper wiped the
	// signing key. The device must be power-cycled.
	ErrUnlocked = errors.New("signing key wiped by unlock jumper")
)

// Hardware is the set of board capabilities the device uses.
type Hardware struct {
	Target    board.Target
	Watchdog  board.Watchdog
	Indicator board.Indicator
	Halter    board.Halter
	Unlock    board.UnlockPin
	Reset     board.ResetSource
}

// Board is a single value providing every capability, such as *board.Sim.
type Board interface {
	board.Target
	board.Watchdog
	board.Indicator
	board.Halter
	board.UnlockPin
	board.ResetSource
}

// HardwareOf takes every capability from b.
func HardwareOf(b Board) Hardware {
	return Hardware{Target: b, Watchdog: b, Indicator: b, Halter: b, Unlock: b, Reset: b}
}

// Device is the firmware process context.
type Device struct {
	hw      Hardware
	layout  *layout.Layout
	scratch sram.Memory
	config  Config
	log     diag.Logger

	store    *config.Store
	session  *dfu.Session
	engine   *dfu.Engine
	dispatch *command.Dispatcher
	arbiter  *boot.Arbiter
	app      *boot.Application
	blinker  *diag.Blinker

	halted bool
	steps  int
	blink  board.LED
}

// New wires the components of a device. dev is the program flash, eeprom
// holds the configuration record at the layout's config offset, and link
// carries command data stages.
func New(hw Hardware, l *layout.Layout, dev flash.Device, eeprom config.Storage, scratch sram.Memory, link command.Link, opts ...Option) *Device {
	cfg := Config{BlinkInterval: DefaultBlinkInterval}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Device{
		hw:      hw,
		layout:  l,
		scratch: scratch,
		config:  cfg,
		log:     diag.OrNop(cfg.Logger),
		session: &dfu.Session{},
		blink:   board.LEDGreen,
	}
	ind := leds{d: d}

	d.store = config.NewStore(eeprom,
		config.WithOffset(l.EEPROM.ConfigOffset),
		config.WithLogger(d.log),
	)
	d.engine = dfu.NewEngine(dev, d.store, l,
		dfu.WithScratch(scratch),
		dfu.WithSession(d.session),
		dfu.WithLogger(d.log),
	)
	d.dispatch = command.New(d.store, link, dev, scratch, l,
		command.WithLogger(d.log),
		command.WithSensor(cfg.Sensor),
		command.WithWatchdog(hw.Watchdog),
		command.WithChunkSize(cfg.ChunkSize),
	)
	d.arbiter = boot.NewArbiter(dev, l, hw.Target, d.session,
		boot.WithIndicator(ind),
		boot.WithLogger(d.log),
	)
	d.app = boot.NewApplication(d.store, hw.Target, boot.WithLogger(d.log))
	d.blinker = &diag.Blinker{
		Indicator: ind,
		Watchdog:  hw.Watchdog,
		Sleep:     cfg.Sleep,
	}

	return d
}

// Start runs the startup sequence. A non-nil error means the device halted.
//
// A record that fails its checksum does not halt the device: the salvaged
// record has flash_success cleared, so the device stays resident and the
// record is rewritten once the unlock jumper has been checked.
func (d *Device) Start() error {
	loadErr := d.store.Load()
	if loadErr != nil && !config.IsCorrupt(loadErr) {
		return d.fatal(&boot.FatalError{Code: protocol.ErrSelfTestEEPROM, Err: loadErr})
	}

	ind := leds{d: d}
	ind.SetLEDs(board.LEDGreen)

	fitted, err := d.store.UnlockCheck(d.hw.Unlock, ind, d.hw.Halter)
	if fitted {
		d.halted = true
		if err != nil {
			return fmt.Errorf("unlock: %w", err)
		}
		return ErrUnlocked
	}

	if loadErr != nil {
		d.log.Error("config record corrupt, staying resident", "error", loadErr)
		if err := d.store.Repair(); err != nil {
			return d.fatal(&boot.FatalError{Code: protocol.ErrSelfTestEEPROM, Err: err})
		}
	}

	if err := sram.Wipe(d.scratch, d.hw.Watchdog, 0, d.scratch.Size()); err != nil {
		return d.fatal(&boot.FatalError{Code: protocol.ErrSRAM, Err: err})
	}

	cfg := d.store.Config()
	if err := d.arbiter.Decide(d.hw.Reset.ResetCause(), cfg.FlashSuccess); err != nil {
		return d.fatal(err)
	}

	if d.config.SelfTest && d.arbiter.State() == boot.StateBootloader {
		if err := d.store.SelfTest(); err != nil {
			return d.fatal(&boot.FatalError{Code: protocol.ErrSelfTestEEPROM, Err: err})
		}
		if err := sram.SelfTest(d.scratch); err != nil {
			return d.fatal(&boot.FatalError{Code: protocol.ErrSelfTestSRAM, Err: err})
		}
		d.log.Debug("self tests passed")
	}
	return nil
}

// Step runs one main-loop iteration: it clears the watchdog, services
// completed command transfers, applies a deferred reset and blinks the LEDs
// while resident.
func (d *Device) Step() error {
	if d.halted {
		return ErrHalted
	}

	d.hw.Watchdog.Clear()
	d.dispatch.Service()

	if err := d.arbiter.Poll(); err != nil {
		return d.fatal(err)
	}

	if d.arbiter.State() == boot.StateBootloader {
		d.steps++
		if d.steps%d.config.BlinkInterval == 0 {
			d.blink = d.blink.Swapped()
			leds{d: d}.SetLEDs(d.blink)
		}
	}
	return nil
}

// OnSetup handles a class request on the command interface.
func (d *Device) OnSetup(packet []byte) error {
	cmd, err := protocol.ParseSetup(packet)
	if err != nil {
		return err
	}
	return d.dispatch.Handle(cmd)
}

// OnTransferComplete records the outcome of a command data stage.
func (d *Device) OnTransferComplete(handle command.TransferHandle, outcome command.Outcome) {
	d.dispatch.OnTransferComplete(handle, outcome)
}

// OnBusReset handles a USB bus reset in either mode.
func (d *Device) OnBusReset() {
	if d.arbiter.State() == boot.StateFirmwareActive {
		d.app.OnBusReset()
		return
	}
	d.arbiter.OnBusReset()
}

// fatal shows code on the LEDs and halts.
func (d *Device) fatal(err error) error {
	code := protocol.CodeOf(err)
	d.log.Error("fatal error", "code", code, "error", err)
	d.halted = true
	d.blinker.Show(code)
	d.hw.Halter.Halt(code)
	return err
}

// Halted reports whether the device has halted.
func (d *Device) Halted() bool {
	return d.halted
}

// State returns the boot state.
func (d *Device) State() boot.State {
	return d.arbiter.State()
}

// Store returns the configuration store.
func (d *Device) Store() *config.Store {
	return d.store
}

// DFU returns the firmware transfer engine serving the update agent.
func (d *Device) DFU() *dfu.Engine {
	return d.engine
}

// Application returns the DFU runtime hooks of the installed application.
func (d *Device) Application() *boot.Application {
	return d.app
}

// Dispatcher returns the command dispatcher.
func (d *Device) Dispatcher() *command.Dispatcher {
	return d.dispatch
}

// Session returns the transfer session.
func (d *Device) Session() *dfu.Session {
	return d.session
}
