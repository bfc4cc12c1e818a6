// Package flash models the non-volatile memories the device core writes.
//
// Device is program flash with block-erase granularity: erased bytes read as
// 0xFF and programming can only clear bits. Memory implements it in RAM.
// EEPROM is byte-addressable storage for the configuration record.
package flash

import (
	"fmt"
)

// Erased is the value of an erased byte.
const Erased = 0xFF

// Device is the flash-access primitive consumed by the transfer engine and
// the scratch backup commands.
type Device interface {
	// Erase erases length bytes at addr. Both must be multiples of the erase
	// block size.
	Erase(addr, length uint32) error

	// Program writes data at addr. The range must be erased beforehand.
	Program(addr uint32, data []byte) error

	// Read fills data from addr.
	Read(addr uint32, data []byte) error
}

// RangeError indicates an access outside the device.
type RangeError struct {
	Op     string
	Addr   uint32
	Length int
	Size   uint32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("flash %s at 0x%04X+%d outside device of %d bytes", e.Op, e.Addr, e.Length, e.Size)
}

// AlignmentError indicates an erase that does not start or end on a block boundary.
type AlignmentError struct {
	Addr      uint32
	Length    uint32
	BlockSize uint32
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("erase at 0x%04X+%d not aligned to %d-byte blocks", e.Addr, e.Length, e.BlockSize)
}

// Memory is an in-memory Device.
type Memory struct {
	data      []byte
	blockSize uint32

	// Erases lists the address of every erased block, in order
	Erases []uint32
}

// NewMemory returns size bytes of erased flash with the given erase block size.
func NewMemory(size, blockSize uint32) *Memory {
	m := &Memory{
		data:      make([]byte, size),
		blockSize: blockSize,
	}
	for i := range m.data {
		m.data[i] = Erased
	}
	return m
}

// Size returns the device size in bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.data))
}

// BlockSize returns the erase block size.
func (m *Memory) BlockSize() uint32 {
	return m.blockSize
}

func (m *Memory) check(op string, addr uint32, length int) error {
	if uint64(addr)+uint64(length) > uint64(len(m.data)) {
		return &RangeError{Op: op, Addr: addr, Length: length, Size: m.Size()}
	}
	return nil
}

func (m *Memory) Erase(addr, length uint32) error {
	if addr%m.blockSize != 0 || length%m.blockSize != 0 {
		return &AlignmentError{Addr: addr, Length: length, BlockSize: m.blockSize}
	}
	if err := m.check("erase", addr, int(length)); err != nil {
		return err
	}
	for blk := addr; blk < addr+length; blk += m.blockSize {
		for i := blk; i < blk+m.blockSize; i++ {
			m.data[i] = Erased
		}
		m.Erases = append(m.Erases, blk)
	}
	return nil
}

// Program ANDs data into the device, as real flash cells can only be cleared.
func (m *Memory) Program(addr uint32, data []byte) error {
	if err := m.check("program", addr, len(data)); err != nil {
		return err
	}
	for i, b := range data {
		m.data[addr+uint32(i)] &= b
	}
	return nil
}

func (m *Memory) Read(addr uint32, data []byte) error {
	if err := m.check("read", addr, len(data)); err != nil {
		return err
	}
	copy(data, m.data[addr:])
	return nil
}

// Load copies data into the device at addr without erase or program
// semantics, for preparing fixtures.
func (m *Memory) Load(addr uint32, data []byte) error {
	if err := m.check("load", addr, len(data)); err != nil {
		return err
	}
	copy(m.data[addr:], data)
	return nil
}
