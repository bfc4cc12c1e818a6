package command

import "github.com/moffa90/go-colorhug/protocol"

// ErrorLatch holds the last failed command and its error code. Exactly one
// error is retained; a later failure overwrites it.
type ErrorLatch struct {
	cmd    protocol.Cmd
	status protocol.ChError
}

// Set records a failure.
func (l *ErrorLatch) Set(cmd protocol.Cmd, status protocol.ChError) {
	l.cmd = cmd
	l.status = status
}

// Clear resets the latch to (0, ErrNone).
func (l *ErrorLatch) Clear() {
	l.cmd = 0
	l.status = protocol.ErrNone
}

// Get returns the latched command and error code.
func (l *ErrorLatch) Get() (protocol.Cmd, protocol.ChError) {
	return l.cmd, l.status
}

// Err returns the latch as a *protocol.ProtocolError, or nil when clear.
func (l *ErrorLatch) Err() error {
	if l.status == protocol.ErrNone {
		return nil
	}
	return &protocol.ProtocolError{Cmd: l.cmd, Status: l.status}
}
