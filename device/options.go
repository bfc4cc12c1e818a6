package device

import (
	"time"

	"github.com/moffa90/go-colorhug/command"
	"github.com/moffa90/go-colorhug/diag"
)

// DefaultBlinkInterval is the number of main-loop iterations between LED
// toggles while resident.
const DefaultBlinkInterval = 2000

// Config holds the device configuration.
type Config struct {
	// Logger is used for logging (optional)
	Logger diag.Logger

	// Sensor takes readings (optional)
	Sensor command.Sensor

	// ChunkSize is the SAVE_SRAM / LOAD_SRAM copy granularity (optional)
	ChunkSize uint32

	// BlinkInterval is the number of Step calls between LED toggles
	BlinkInterval int

	// SelfTest enables the startup self tests
	SelfTest bool

	// Sleep waits between fault display pulses (time.Sleep if nil)
	Sleep func(time.Duration)
}

// Option is a functional option for configuring the Device.
type Option func(*Config)

// WithLogger sets a logger for every component.
func WithLogger(logger diag.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithSensor sets the measurement collaborator.
func WithSensor(s command.Sensor) Option {
	return func(c *Config) {
		c.Sensor = s
	}
}

// WithChunkSize sets the scratch backup copy granularity.
func WithChunkSize(size uint32) Option {
	return func(c *Config) {
		c.ChunkSize = size
	}
}

// WithBlinkInterval sets the number of main-loop iterations between LED
// toggles.
//
// Example:
//
//	d := device.New(hw, l, dev, eeprom, scratch, link, device.WithBlinkInterval(500))
func WithBlinkInterval(steps int) Option {
	return func(c *Config) {
		if steps > 0 {
			c.BlinkInterval = steps
		}
	}
}

// WithSelfTest enables or disables the startup self tests.
func WithSelfTest(enabled bool) Option {
	return func(c *Config) {
		c.SelfTest = enabled
	}
}

// WithSleep replaces the wait used by the fault display.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Config) {
		c.Sleep = sleep
	}
}
