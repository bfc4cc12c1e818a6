package bootloader

import (
	"github.com/moffa90/go-colorhug/diag"
	"github.com/moffa90/go-colorhug/imagecipher"
)

// Config holds the programmer configuration.
type Config struct {
	// ProgressCallback is called during programming to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger diag.Logger

	// Key encrypts the image for a device with a provisioned signing key
	// (optional; nil sends the image in the clear)
	Key *imagecipher.Key

	// BlockSize is the download block size
	// Default is the layout's transfer size
	BlockSize int

	// Retries is the number of retry attempts for a failed block
	Retries int

	// VerifyAfterProgram enables reading the partition back after download
	VerifyAfterProgram bool
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Retries:            2,
		VerifyAfterProgram: true,
	}
}

// Option is a functional option for configuring the Programmer.
type Option func(*Config)

// WithProgressCallback sets a callback function to track programming progress.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the programmer operations.
func WithLogger(logger diag.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithKey encrypts images for a device provisioned with key.
//
// Example:
//
//	prog := bootloader.New(engine, l, bootloader.WithKey(key))
func WithKey(key imagecipher.Key) Option {
	return func(c *Config) {
		c.Key = &key
	}
}

// WithBlockSize sets the download block size. Sizes outside 1..65535 are
// ignored.
//
// Example:
//
//	prog := bootloader.New(engine, l, bootloader.WithBlockSize(32))
func WithBlockSize(size int) Option {
	return func(c *Config) {
		if size > 0 && size <= 0xFFFF {
			c.BlockSize = size
		}
	}
}

// WithRetries sets the number of retry attempts for a failed block.
func WithRetries(retries int) Option {
	return func(c *Config) {
		if retries >= 0 {
			c.Retries = retries
		}
	}
}

// WithVerifyAfterProgram enables or disables reading the image back.
// Default is true.
func WithVerifyAfterProgram(verify bool) Option {
	return func(c *Config) {
		c.VerifyAfterProgram = verify
	}
}
