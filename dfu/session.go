package dfu

// Session records whether any image byte was uploaded or downloaded since
// power-up. A USB bus reset after a transfer returns the device to firmware.
type Session struct {
	transferred bool
}

// Mark records a transfer.
func (s *Session) Mark() {
	s.transferred = true
}

// DidTransfer reports whether a transfer happened this power cycle.
func (s *Session) DidTransfer() bool {
	return s.transferred
}
