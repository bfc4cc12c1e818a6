package device

import (
	"github.com/moffa90/go-colorhug/board"
	"github.com/moffa90/go-colorhug/protocol"
)

// leds swaps red and green on boards with PCBErrataSwappedLEDs.
type leds struct {
	d *Device
}

func (l leds) swapped() bool {
	return l.d.store.Config().PCBErrata.Has(protocol.PCBErrataSwappedLEDs)
}

func (l leds) SetLEDs(v board.LED) {
	if l.swapped() {
		v = v.Swapped()
	}
	l.d.hw.Indicator.SetLEDs(v)
}

func (l leds) LEDs() board.LED {
	v := l.d.hw.Indicator.LEDs()
	if l.swapped() {
		v = v.Swapped()
	}
	return v
}
