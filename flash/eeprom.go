package flash

import (
	"io"
)

// EEPROM is byte-addressable non-volatile storage. It implements io.ReaderAt
// and io.WriterAt so it can back the configuration store.
type EEPROM struct {
	data []byte

	// Writes counts WriteAt calls
	Writes int
}

// NewEEPROM returns size bytes of erased EEPROM.
func NewEEPROM(size int) *EEPROM {
	e := &EEPROM{data: make([]byte, size)}
	for i := range e.data {
		e.data[i] = Erased
	}
	return e
}

func (e *EEPROM) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(e.data)) {
		return 0, io.EOF
	}
	n := copy(p, e.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (e *EEPROM) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(e.data)) {
		return 0, &RangeError{Op: "eeprom write", Addr: uint32(off), Length: len(p), Size: uint32(len(e.data))}
	}
	e.Writes++
	return copy(e.data[off:], p), nil
}

// Bytes returns the backing array. Mutating it simulates corruption.
func (e *EEPROM) Bytes() []byte {
	return e.data
}
