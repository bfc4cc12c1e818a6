package dfu

import (
	"encoding/binary"
	"fmt"

	"github.com/moffa90/go-colorhug/config"
	"github.com/moffa90/go-colorhug/diag"
	"github.com/moffa90/go-colorhug/flash"
	"github.com/moffa90/go-colorhug/imagecipher"
	"github.com/moffa90/go-colorhug/layout"
	"github.com/moffa90/go-colorhug/sram"
)

// AltSetting selects the storage a transfer addresses.
type AltSetting uint8

const (
	// AltFirmware addresses the firmware partition
	AltFirmware AltSetting = 0

	// AltScratch addresses the scratch memory
	AltScratch AltSetting = 1
)

// ConfigStore is the part of config.Store the engine needs.
type ConfigStore interface {
	Config() config.DeviceConfig
	Update(fn func(*config.DeviceConfig)) error
}

// Engine services DFU block transfers.
type Engine struct {
	flash   flash.Device
	store   ConfigStore
	layout  *layout.Layout
	scratch sram.Memory
	session *Session
	log     diag.Logger

	alt    AltSetting
	status Status
	state  State
}

// Option configures an Engine.
type Option func(*Engine)

// WithScratch enables alternate setting 1 over mem.
func WithScratch(mem sram.Memory) Option {
	return func(e *Engine) {
		e.scratch = mem
	}
}

// WithSession shares a transfer session, typically with the boot arbiter.
func WithSession(s *Session) Option {
	return func(e *Engine) {
		e.session = s
	}
}

// WithLogger sets a logger for block transfers.
func WithLogger(logger diag.Logger) Option {
	return func(e *Engine) {
		e.log = logger
	}
}

// NewEngine creates an engine in the dfuIDLE state addressing the firmware
// partition described by l.
func NewEngine(dev flash.Device, store ConfigStore, l *layout.Layout, opts ...Option) *Engine {
	e := &Engine{
		flash:  dev,
		store:  store,
		layout: l,
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.session == nil {
		e.session = &Session{}
	}
	e.log = diag.OrNop(e.log)
	return e
}

// Session returns the transfer session.
func (e *Engine) Session() *Session {
	return e.session
}

// SetAltSetting selects the storage for following transfers.
func (e *Engine) SetAltSetting(alt uint8) error {
	switch AltSetting(alt) {
	case AltFirmware:
	case AltScratch:
		if e.scratch == nil {
			return ErrInvalidAltSetting
		}
	default:
		return ErrInvalidAltSetting
	}
	e.alt = AltSetting(alt)
	e.log.Debug("alt setting selected", "alt", alt)
	return nil
}

// fail records status and moves to dfuERROR.
func (e *Engine) fail(op string, addr uint16, status Status, err error) error {
	e.status = status
	e.state = StateError
	de := &Error{Op: op, Addr: addr, Status: status, Err: err}
	e.log.Error("block transfer failed", "op", op, "addr", addr, "status", status, "error", err)
	return de
}

func (e *Engine) inPartition(addr uint16, length int) bool {
	return uint64(addr)+uint64(length) <= uint64(e.layout.Flash.FirmwareSize)
}

// WriteBlock programs one downloaded block at addr.
func (e *Engine) WriteBlock(addr uint16, data []byte) error {
	switch e.alt {
	case AltFirmware:
		return e.writeFirmware(addr, data)
	case AltScratch:
		e.session.Mark()
		if err := e.scratch.Write(uint32(addr), data); err != nil {
			return e.fail("write", addr, StatusErrWrite, err)
		}
		e.state = StateDnloadIdle
		return nil
	}
	return ErrInvalidAltSetting
}

func (e *Engine) writeFirmware(addr uint16, data []byte) error {
	e.session.Mark()

	if !e.inPartition(addr, len(data)) {
		return e.fail("write", addr, StatusErrAddress, nil)
	}

	cfg := e.store.Config()
	block := append([]byte(nil), data...)
	if cfg.HasSigningKey() {
		imagecipher.Decode(cfg.SigningKey, block)
	}

	if addr == 0 {
		if err := e.checkVectors(block); err != nil {
			return e.fail("write", addr, StatusErrFile, err)
		}
	}

	// an interrupted update must never look confirmed
	if cfg.FlashSuccess {
		if err := e.store.Update(func(c *config.DeviceConfig) { c.FlashSuccess = false }); err != nil {
			return e.fail("write", addr, StatusErrWrite, err)
		}
		e.log.Info("firmware update started, auto-boot disabled")
	}

	base := e.layout.Flash.FirmwareBase
	blockSize := e.layout.Flash.EraseBlock
	if uint32(addr)%blockSize == 0 {
		if err := e.flash.Erase(base+uint32(addr), blockSize); err != nil {
			return e.fail("erase", addr, StatusErrErase, err)
		}
	}

	if err := e.flash.Program(base+uint32(addr), block); err != nil {
		return e.fail("write", addr, StatusErrWrite, err)
	}

	e.state = StateDnloadIdle
	e.log.Debug("block written", "addr", addr, "len", len(block))
	return nil
}

// checkVectors requires every vector word in block 0 to hold an accepted value.
func (e *Engine) checkVectors(block []byte) error {
	v := e.layout.Vectors
	end := int(v.Offset) + v.Count*2
	if len(block) < end {
		return fmt.Errorf("first block too short for vector table: %d bytes", len(block))
	}
	for i := 0; i < v.Count; i++ {
		word := binary.LittleEndian.Uint16(block[int(v.Offset)+i*2:])
		if !e.layout.AcceptsVector(word) {
			return fmt.Errorf("vector %d holds 0x%04X", i, word)
		}
	}
	return nil
}

// ReadBlock returns length bytes uploaded from addr.
func (e *Engine) ReadBlock(addr uint16, length int) ([]byte, error) {
	data := make([]byte, length)

	switch e.alt {
	case AltFirmware:
		e.session.Mark()
		if !e.inPartition(addr, length) {
			return nil, e.fail("read", addr, StatusErrAddress, nil)
		}
		if err := e.flash.Read(e.layout.Flash.FirmwareBase+uint32(addr), data); err != nil {
			return nil, fmt.Errorf("dfu read at 0x%04X: %w", addr, err)
		}
		cfg := e.store.Config()
		if cfg.HasSigningKey() {
			imagecipher.Encode(cfg.SigningKey, data)
		}
	case AltScratch:
		e.session.Mark()
		if err := e.scratch.Read(uint32(addr), data); err != nil {
			return nil, fmt.Errorf("dfu scratch read at 0x%04X: %w", addr, err)
		}
	default:
		return nil, ErrInvalidAltSetting
	}

	e.state = StateUploadIdle
	return data, nil
}

// GetStatus returns the DFU_GETSTATUS report.
func (e *Engine) GetStatus() StatusReport {
	return StatusReport{Status: e.status, State: e.state}
}

// State returns the current interface state.
func (e *Engine) State() State {
	return e.state
}

// ClearStatus handles DFU_CLRSTATUS: the status is reset and the interface
// returns to dfuIDLE.
func (e *Engine) ClearStatus() {
	e.status = StatusOK
	e.state = StateIdle
}

// Abort handles DFU_ABORT.
func (e *Engine) Abort() {
	if e.state != StateError {
		e.state = StateIdle
	}
}
