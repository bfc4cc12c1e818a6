package command

import (
	"fmt"

	"github.com/moffa90/go-colorhug/board"
	"github.com/moffa90/go-colorhug/config"
	"github.com/moffa90/go-colorhug/diag"
	"github.com/moffa90/go-colorhug/flash"
	"github.com/moffa90/go-colorhug/imagecipher"
	"github.com/moffa90/go-colorhug/layout"
	"github.com/moffa90/go-colorhug/protocol"
	"github.com/moffa90/go-colorhug/sram"
)

// DefaultIntegrationTime is the sensor integration time in ms after power-up.
const DefaultIntegrationTime = 100

// ConfigStore is the part of config.Store the dispatcher mutates.
type ConfigStore interface {
	Config() config.DeviceConfig
	Update(fn func(*config.DeviceConfig)) error
	SetKey(key imagecipher.Key) error
}

// Config holds the dispatcher configuration.
type Config struct {
	// Logger is used for logging commands (optional)
	Logger diag.Logger

	// Sensor takes readings (optional; reading commands fail with
	// ErrNotImplemented without one)
	Sensor Sensor

	// Watchdog is cleared inside every chunked copy loop (optional)
	Watchdog board.Watchdog

	// ChunkSize is the SAVE_SRAM / LOAD_SRAM copy granularity
	// Default is the layout's scratch.save_chunk
	ChunkSize uint32

	// IntegrationTime is the initial integration time in ms
	IntegrationTime uint16
}

// Option is a functional option for configuring the Dispatcher.
type Option func(*Config)

// WithLogger sets a logger for command handling.
func WithLogger(logger diag.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithSensor sets the measurement collaborator.
func WithSensor(s Sensor) Option {
	return func(c *Config) {
		c.Sensor = s
	}
}

// WithWatchdog sets the watchdog cleared during long copies.
func WithWatchdog(wd board.Watchdog) Option {
	return func(c *Config) {
		c.Watchdog = wd
	}
}

// WithChunkSize sets the scratch backup copy granularity. Sizes that do not
// divide the scratch region are ignored when the dispatcher is built.
//
// Example:
//
//	d := command.New(store, link, dev, scratch, l, command.WithChunkSize(512))
func WithChunkSize(size uint32) Option {
	return func(c *Config) {
		if size > 0 {
			c.ChunkSize = size
		}
	}
}

// WithIntegrationTime sets the initial integration time in ms.
func WithIntegrationTime(ms uint16) Option {
	return func(c *Config) {
		if ms > 0 {
			c.IntegrationTime = ms
		}
	}
}

// Dispatcher maps command codes to their handlers and owns the error latch.
type Dispatcher struct {
	store   ConfigStore
	link    Link
	flash   flash.Device
	scratch sram.Memory
	layout  *layout.Layout
	config  Config
	log     diag.Logger

	latch       ErrorLatch
	integration uint16
	pending     map[TransferHandle]protocol.Command
	queue       []event
}

// New creates a Dispatcher. dev and scratch back the SAVE_SRAM and LOAD_SRAM
// commands; the backup region is taken from l.
func New(store ConfigStore, link Link, dev flash.Device, scratch sram.Memory, l *layout.Layout, opts ...Option) *Dispatcher {
	cfg := Config{
		ChunkSize:       l.Scratch.SaveChunk,
		IntegrationTime: DefaultIntegrationTime,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ChunkSize == 0 || l.Scratch.Size%cfg.ChunkSize != 0 {
		cfg.ChunkSize = l.Scratch.SaveChunk
	}

	return &Dispatcher{
		store:       store,
		link:        link,
		flash:       dev,
		scratch:     scratch,
		layout:      l,
		config:      cfg,
		log:         diag.OrNop(cfg.Logger),
		integration: cfg.IntegrationTime,
		pending:     make(map[TransferHandle]protocol.Command),
	}
}

// Latch returns the error latch.
func (d *Dispatcher) Latch() *ErrorLatch {
	return &d.latch
}

// IntegrationTime returns the current integration time in ms.
func (d *Dispatcher) IntegrationTime() uint16 {
	return d.integration
}

// reject latches the failure and stalls the request.
func (d *Dispatcher) reject(cmd protocol.Cmd, err error) error {
	code := protocol.CodeOf(err)
	d.latch.Set(cmd, code)
	d.link.Stall()
	d.log.Error("command failed", "cmd", cmd, "code", code, "error", err)
	return &protocol.ProtocolError{Cmd: cmd, Status: code}
}

// Handle dispatches one decoded setup request. A returned error has already
// been latched and the request stalled.
func (d *Dispatcher) Handle(cmd protocol.Command) error {
	info, ok := protocol.Lookup(cmd.Code)
	h, hasHandler := handlers[cmd.Code]
	if !ok || !hasHandler || cmd.Direction != info.Direction {
		return d.reject(cmd.Code, protocol.ErrUnknownCmd)
	}
	if int(cmd.Length) != info.Size {
		return d.reject(cmd.Code, fmt.Errorf("wLength %d, expected %d: %w", cmd.Length, info.Size, protocol.ErrInvalidLength))
	}

	d.log.Debug("command", "cmd", cmd.Code, "value", cmd.Value)

	switch {
	case info.Direction == protocol.DeviceToHost:
		payload, err := h.read(d, cmd)
		if err != nil {
			return d.reject(cmd.Code, err)
		}
		handle := d.link.BeginSend(payload)
		d.pending[handle] = cmd
		return nil

	case info.Size > 0 && cmd.Payload == nil:
		handle := d.link.BeginReceive(info.Size)
		d.pending[handle] = cmd
		return nil

	default:
		if err := d.complete(h, cmd); err != nil {
			return err
		}
		d.link.Ack()
		return nil
	}
}

// complete runs a host-to-device handler on a received payload.
func (d *Dispatcher) complete(h handler, cmd protocol.Command) error {
	info, _ := protocol.Lookup(cmd.Code)
	if len(cmd.Payload) != info.Size {
		return d.reject(cmd.Code, fmt.Errorf("payload %d bytes, expected %d: %w", len(cmd.Payload), info.Size, protocol.ErrInvalidLength))
	}
	if err := h.write(d, cmd); err != nil {
		return d.reject(cmd.Code, err)
	}
	return nil
}

// OnTransferComplete queues the outcome of a data stage. It is safe to call
// from the USB event path; the outcome is acted on by Service.
func (d *Dispatcher) OnTransferComplete(handle TransferHandle, outcome Outcome) {
	d.queue = append(d.queue, event{handle: handle, outcome: outcome})
}

// Pending returns the number of data stages not yet serviced.
func (d *Dispatcher) Pending() int {
	return len(d.pending)
}

// Service acts on every queued transfer outcome, in order.
func (d *Dispatcher) Service() {
	queue := d.queue
	d.queue = nil

	for _, ev := range queue {
		cmd, ok := d.pending[ev.handle]
		if !ok {
			d.log.Error("completion for unknown transfer", "handle", ev.handle)
			continue
		}
		delete(d.pending, ev.handle)

		if !ev.outcome.OK {
			d.log.Info("data stage aborted", "cmd", cmd.Code)
			continue
		}
		if cmd.Direction == protocol.DeviceToHost {
			continue
		}

		cmd.Payload = ev.outcome.Data
		if err := d.complete(handlers[cmd.Code], cmd); err != nil {
			continue
		}
		d.link.Ack()
	}
}
