package board

import (
	"fmt"

	"github.com/moffa90/go-colorhug/protocol"
)

// Sim is an in-memory board. It records every capability call so tests and
// the simulator can observe what the core did.
type Sim struct {
	// Cause is returned by ResetCause
	Cause ResetCause

	// Unlock is returned by Asserted
	Unlock bool

	// EnterErr, when set, is returned by Enter
	EnterErr error

	// Entered lists every address passed to Enter
	Entered []uint32

	// Resets counts calls to Reset
	Resets int

	// WatchdogClears counts calls to Clear
	WatchdogClears int

	// Halted is set once Halt is called; HaltCode holds its argument
	Halted   bool
	HaltCode protocol.ChError

	// History lists every LED pattern set, in order
	History []LED

	leds LED
}

// NewSim returns a board with no reset cause and the jumper removed.
func NewSim() *Sim {
	return &Sim{}
}

func (s *Sim) Enter(base uint32) error {
	if s.EnterErr != nil {
		return s.EnterErr
	}
	s.Entered = append(s.Entered, base)
	return nil
}

func (s *Sim) Reset() {
	s.Resets++
}

func (s *Sim) Clear() {
	s.WatchdogClears++
}

func (s *Sim) SetLEDs(leds LED) {
	s.leds = leds
	s.History = append(s.History, leds)
}

func (s *Sim) LEDs() LED {
	return s.leds
}

func (s *Sim) Halt(code protocol.ChError) {
	s.Halted = true
	s.HaltCode = code
}

func (s *Sim) Asserted() bool {
	return s.Unlock
}

func (s *Sim) ResetCause() ResetCause {
	return s.Cause
}

func (s *Sim) String() string {
	return fmt.Sprintf("board{leds=%02b entered=%v halted=%v code=%s}", s.leds, s.Entered, s.Halted, s.HaltCode)
}
