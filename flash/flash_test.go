package flash

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestMemoryErase(t *testing.T) {
	tests := []struct {
		name    string
		addr    uint32
		length  uint32
		wantErr bool
	}{
		{name: "single block", addr: 0x400, length: 0x400},
		{name: "two blocks", addr: 0, length: 0x800},
		{name: "unaligned address", addr: 0x10, length: 0x400, wantErr: true},
		{name: "unaligned length", addr: 0, length: 0x10, wantErr: true},
		{name: "past end", addr: 0xC00, length: 0x800, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(0x1000, 0x400)
			err := m.Erase(tt.addr, tt.length)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Erase error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(m.Erases) != int(tt.length/0x400) {
				t.Errorf("Erases = %v", m.Erases)
			}
		})
	}
}

func TestMemoryProgramClearsBitsOnly(t *testing.T) {
	m := NewMemory(0x400, 0x400)

	if err := m.Program(0, []byte{0xF0, 0x0F}); err != nil {
		t.Fatalf("Program: %v", err)
	}
	if err := m.Program(0, []byte{0x3C, 0xFF}); err != nil {
		t.Fatalf("Program: %v", err)
	}

	got := make([]byte, 3)
	if err := m.Read(0, got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if want := []byte{0x30, 0x0F, 0xFF}; !bytes.Equal(got, want) {
		t.Errorf("Read = % X, want % X", got, want)
	}

	if err := m.Erase(0, 0x400); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	m.Read(0, got)
	if want := []byte{0xFF, 0xFF, 0xFF}; !bytes.Equal(got, want) {
		t.Errorf("after erase Read = % X, want % X", got, want)
	}
}

func TestMemoryRange(t *testing.T) {
	m := NewMemory(0x400, 0x400)

	err := m.Read(0x3F0, make([]byte, 0x20))
	var re *RangeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RangeError, got %v", err)
	}
	if re.Op != "read" {
		t.Errorf("Op = %q", re.Op)
	}
}

func TestEEPROM(t *testing.T) {
	e := NewEEPROM(64)

	buf := make([]byte, 4)
	if _, err := e.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(buf, []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("fresh EEPROM = % X", buf)
	}

	if _, err := e.WriteAt([]byte{1, 2}, 62); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if _, err := e.WriteAt([]byte{1, 2, 3}, 62); err == nil {
		t.Error("expected error writing past end")
	}

	n, err := e.ReadAt(buf, 62)
	if n != 2 || err != io.EOF {
		t.Errorf("short ReadAt = %d, %v", n, err)
	}
	if e.Writes != 1 {
		t.Errorf("Writes = %d", e.Writes)
	}
}
