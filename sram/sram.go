// Package sram models the external scratch memory (a 23K640 SPI SRAM on the
// reference board) used to hold spectra and to stage firmware-adjacent data.
package sram

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/moffa90/go-colorhug/board"
)

// DefaultSize is the scratch capacity of the reference board.
const DefaultSize = 8 * 1024

// wipeStride is the number of bytes written per wipe step.
const wipeStride = 8

// Memory is a random-access scratch memory.
type Memory interface {
	Read(addr uint32, data []byte) error
	Write(addr uint32, data []byte) error
	Size() uint32
}

// ErrSelfTest is returned when the scratch memory does not read back what
// was written to it.
var ErrSelfTest = errors.New("scratch memory self test failed")

// Buffer is an in-memory Memory.
type Buffer struct {
	data []byte
}

// NewBuffer returns a zeroed scratch memory of size bytes.
func NewBuffer(size uint32) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

func (b *Buffer) check(addr uint32, n int) error {
	if uint64(addr)+uint64(n) > uint64(len(b.data)) {
		return fmt.Errorf("scratch access at 0x%04X+%d outside %d bytes", addr, n, len(b.data))
	}
	return nil
}

func (b *Buffer) Read(addr uint32, data []byte) error {
	if err := b.check(addr, len(data)); err != nil {
		return err
	}
	copy(data, b.data[addr:])
	return nil
}

func (b *Buffer) Write(addr uint32, data []byte) error {
	if err := b.check(addr, len(data)); err != nil {
		return err
	}
	copy(b.data[addr:], data)
	return nil
}

func (b *Buffer) Size() uint32 {
	return uint32(len(b.data))
}

// Wipe fills length bytes at addr with 0xFF, eight bytes at a time, clearing
// the watchdog before every step. A trailing partial stride is not written.
func Wipe(mem Memory, wd board.Watchdog, addr, length uint32) error {
	fill := bytes.Repeat([]byte{0xFF}, wipeStride)
	for i := uint32(0); i < length/wipeStride; i++ {
		if wd != nil {
			wd.Clear()
		}
		if err := mem.Write(addr+i*wipeStride, fill); err != nil {
			return fmt.Errorf("wipe at 0x%04X: %w", addr+i*wipeStride, err)
		}
	}
	return nil
}

// SelfTest writes a known pattern byte by byte at address 0, then as one
// block at 0x10, and checks both read back.
func SelfTest(mem Memory) error {
	pattern := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	for i, b := range pattern {
		if err := mem.Write(uint32(i), []byte{b}); err != nil {
			return fmt.Errorf("%w: %v", ErrSelfTest, err)
		}
	}
	for i, want := range pattern {
		got := make([]byte, 1)
		if err := mem.Read(uint32(i), got); err != nil {
			return fmt.Errorf("%w: %v", ErrSelfTest, err)
		}
		if got[0] != want {
			return fmt.Errorf("%w: byte %d read 0x%02X, wrote 0x%02X", ErrSelfTest, i, got[0], want)
		}
	}

	if err := mem.Write(0x10, pattern); err != nil {
		return fmt.Errorf("%w: %v", ErrSelfTest, err)
	}
	got := make([]byte, len(pattern))
	if err := mem.Read(0x10, got); err != nil {
		return fmt.Errorf("%w: %v", ErrSelfTest, err)
	}
	if !bytes.Equal(got, pattern) {
		return fmt.Errorf("%w: block read % X, wrote % X", ErrSelfTest, got, pattern)
	}
	return nil
}
