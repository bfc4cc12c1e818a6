// Package config holds the persistent device configuration and the signing
// key provisioning rules.
//
// The record is read once at startup into a working copy. Every mutation goes
// through Update, which persists the new record before the working copy is
// replaced, so the stored and in-memory copies never diverge across a reset.
package config

import (
	"bytes"
	"fmt"
	"io"

	"github.com/moffa90/go-colorhug/diag"
)

// Storage is the non-volatile byte store backing the record.
type Storage interface {
	io.ReaderAt
	io.WriterAt
}

// Store owns the working copy of the device configuration.
type Store struct {
	storage Storage
	offset  int64
	log     diag.Logger
	cfg     DeviceConfig

	// stale is set when the stored record no longer matches cfg
	stale bool
}

// Option configures a Store.
type Option func(*Store)

// WithOffset sets the record offset within storage. Default is 0.
func WithOffset(offset int64) Option {
	return func(s *Store) {
		s.offset = offset
	}
}

// WithLogger sets a logger for record reads and writes.
func WithLogger(logger diag.Logger) Option {
	return func(s *Store) {
		s.log = logger
	}
}

// NewStore creates a Store over storage. Call Load before use.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{storage: storage}
	for _, opt := range opts {
		opt(s)
	}
	s.log = diag.OrNop(s.log)
	return s
}

func (s *Store) read() ([]byte, error) {
	buf := make([]byte, RecordSize)
	if _, err := s.storage.ReadAt(buf, s.offset); err != nil {
		return nil, fmt.Errorf("read config record: %w", err)
	}
	return buf, nil
}

// Load reads the stored record into the working copy. An erased record
// loads as factory defaults.
//
// A record failing its checksum is still loaded, with FlashSuccess forced
// off, and Load returns the *ChecksumError. The next Update or Repair
// rewrites a valid record.
func (s *Store) Load() error {
	buf, err := s.read()
	if err != nil {
		return err
	}
	cfg, err := unmarshal(buf)
	if err != nil {
		cfg.FlashSuccess = false
		s.cfg = cfg
		s.stale = true
		s.log.Error("config record rejected, salvaging fields", "error", err)
		return err
	}
	s.cfg = cfg
	s.stale = false
	s.log.Debug("config loaded", "serial", cfg.SerialNumber, "flash_success", cfg.FlashSuccess, "keyed", cfg.HasSigningKey())
	return nil
}

// Config returns a copy of the working configuration.
func (s *Store) Config() DeviceConfig {
	return s.cfg
}

// Update applies fn to a copy of the configuration, persists the result and
// only then makes it the working copy. When fn changes nothing and the
// stored record is valid no write is made. On a persist failure the working
// copy is left unchanged.
func (s *Store) Update(fn func(*DeviceConfig)) error {
	next := s.cfg
	fn(&next)
	if next == s.cfg && !s.stale {
		return nil
	}
	if err := s.persist(&next); err != nil {
		return err
	}
	s.cfg = next
	s.stale = false
	return nil
}

// Repair rewrites the stored record from the working copy after Load
// rejected it. It does nothing when the stored record is valid.
func (s *Store) Repair() error {
	if !s.stale {
		return nil
	}
	if err := s.persist(&s.cfg); err != nil {
		return err
	}
	s.stale = false
	s.log.Info("config record repaired")
	return nil
}

func (s *Store) persist(cfg *DeviceConfig) error {
	buf := cfg.marshal()
	if _, err := s.storage.WriteAt(buf, s.offset); err != nil {
		s.log.Error("config write failed", "error", err)
		return fmt.Errorf("write config record: %w", err)
	}
	s.log.Debug("config persisted", "serial", cfg.SerialNumber, "flash_success", cfg.FlashSuccess)
	return nil
}

// SelfTest persists the working copy and checks that it reads back intact.
func (s *Store) SelfTest() error {
	want := s.cfg.marshal()
	if _, err := s.storage.WriteAt(want, s.offset); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	got, err := s.read()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: record did not read back as written", ErrCorruptRecord)
	}
	s.stale = false
	return nil
}
