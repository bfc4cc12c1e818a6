package diag

import (
	"time"

	"github.com/moffa90/go-colorhug/board"
	"github.com/moffa90/go-colorhug/protocol"
)

// DefaultPulse is the on and off time of one blink.
const DefaultPulse = 250 * time.Millisecond

// Blinker reports an error code on the status LEDs.
type Blinker struct {
	Indicator board.Indicator
	Watchdog  board.Watchdog

	// Pulse is the on and off time of one blink (DefaultPulse if zero)
	Pulse time.Duration

	// Sleep waits between LED changes (time.Sleep if nil)
	Sleep func(time.Duration)
}

// Show blinks code once on the red LED with the green LED off: code pulses
// followed by a pause of four pulses. The watchdog is cleared on every LED
// change, so a halted device stays in the display loop instead of resetting.
func (b *Blinker) Show(code protocol.ChError) {
	pulse := b.Pulse
	if pulse == 0 {
		pulse = DefaultPulse
	}
	sleep := b.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for i := 0; i < int(code); i++ {
		b.set(board.LEDRed)
		sleep(pulse)
		b.set(board.LEDOff)
		sleep(pulse)
	}
	b.set(board.LEDOff)
	sleep(4 * pulse)
}

func (b *Blinker) set(leds board.LED) {
	if b.Watchdog != nil {
		b.Watchdog.Clear()
	}
	b.Indicator.SetLEDs(leds)
}
