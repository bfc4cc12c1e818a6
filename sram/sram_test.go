package sram

import (
	"bytes"
	"errors"
	"testing"

	"github.com/moffa90/go-colorhug/board"
)

// stuckMemory drops every write to one address.
type stuckMemory struct {
	*Buffer
	stuck uint32
}

func (m *stuckMemory) Write(addr uint32, data []byte) error {
	buf := append([]byte(nil), data...)
	if m.stuck >= addr && m.stuck < addr+uint32(len(buf)) {
		old := make([]byte, 1)
		m.Buffer.Read(m.stuck, old)
		buf[m.stuck-addr] = old[0]
	}
	return m.Buffer.Write(addr, buf)
}

func TestWipe(t *testing.T) {
	buf := NewBuffer(64)
	sim := board.NewSim()

	if err := Wipe(buf, sim, 8, 20); err != nil {
		t.Fatalf("Wipe: %v", err)
	}

	got := make([]byte, 64)
	buf.Read(0, got)
	want := make([]byte, 64)
	for i := 8; i < 24; i++ {
		want[i] = 0xFF
	}
	if !bytes.Equal(got, want) {
		t.Errorf("after wipe = % X", got)
	}
	if sim.WatchdogClears != 2 {
		t.Errorf("WatchdogClears = %d, want 2", sim.WatchdogClears)
	}
}

func TestWipeOutOfRange(t *testing.T) {
	if err := Wipe(NewBuffer(16), nil, 8, 16); err == nil {
		t.Error("expected error wiping past end")
	}
}

func TestSelfTest(t *testing.T) {
	tests := []struct {
		name    string
		mem     Memory
		wantErr bool
	}{
		{name: "healthy", mem: NewBuffer(DefaultSize)},
		{name: "stuck byte", mem: &stuckMemory{Buffer: NewBuffer(DefaultSize), stuck: 1}, wantErr: true},
		{name: "stuck block", mem: &stuckMemory{Buffer: NewBuffer(DefaultSize), stuck: 0x12}, wantErr: true},
		{name: "too small", mem: NewBuffer(8), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SelfTest(tt.mem)
			if tt.wantErr {
				if !errors.Is(err, ErrSelfTest) {
					t.Errorf("SelfTest = %v, want ErrSelfTest", err)
				}
				return
			}
			if err != nil {
				t.Errorf("SelfTest: %v", err)
			}
		})
	}
}
