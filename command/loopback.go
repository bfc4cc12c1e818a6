package command

import (
	"errors"

	"github.com/moffa90/go-colorhug/protocol"
)

// Loopback is an in-memory Link. Together with Host it stands in for the USB
// control endpoint in tests and the simulator.
type Loopback struct {
	next     TransferHandle
	sends    map[TransferHandle][]byte
	receives map[TransferHandle]int

	stalled bool
	acked   bool
	last    TransferHandle
}

// NewLoopback returns an idle link.
func NewLoopback() *Loopback {
	return &Loopback{
		sends:    make(map[TransferHandle][]byte),
		receives: make(map[TransferHandle]int),
	}
}

func (l *Loopback) BeginSend(payload []byte) TransferHandle {
	l.next++
	l.sends[l.next] = payload
	l.last = l.next
	return l.next
}

func (l *Loopback) BeginReceive(length int) TransferHandle {
	l.next++
	l.receives[l.next] = length
	l.last = l.next
	return l.next
}

func (l *Loopback) Ack() {
	l.acked = true
}

func (l *Loopback) Stall() {
	l.stalled = true
}

// Stalled reports whether the last request was stalled.
func (l *Loopback) Stalled() bool {
	return l.stalled
}

func (l *Loopback) begin() {
	l.stalled = false
	l.acked = false
	l.last = 0
}

// Host drives a Dispatcher the way the host driver does: it sends a setup
// packet, completes the data stage, and on a stall reads GET_ERROR to report
// the precise cause.
type Host struct {
	d    *Dispatcher
	link *Loopback
}

// NewHost connects a host to d over link. d must have been built with link.
func NewHost(d *Dispatcher, link *Loopback) *Host {
	return &Host{d: d, link: link}
}

// Call issues cmd with value and, for host-to-device commands, payload. It
// returns the device-to-host payload.
func (h *Host) Call(cmd protocol.Cmd, value uint16, payload []byte) ([]byte, error) {
	packet, err := protocol.BuildSetup(cmd, value)
	if err != nil {
		return nil, err
	}
	return h.Do(packet, payload)
}

// Do issues a raw setup packet. Failed requests are reported as a
// *protocol.ProtocolError read back from the error latch.
func (h *Host) Do(packet []byte, payload []byte) ([]byte, error) {
	data, err := h.transfer(packet, payload)
	if err != nil {
		return nil, err
	}
	if h.link.stalled {
		return nil, h.checkStatus()
	}
	return data, nil
}

func (h *Host) transfer(packet []byte, payload []byte) ([]byte, error) {
	cmd, err := protocol.ParseSetup(packet)
	if err != nil {
		return nil, err
	}

	h.link.begin()
	if h.d.Handle(cmd) != nil {
		return nil, nil
	}

	handle := h.link.last
	if data, ok := h.link.sends[handle]; ok {
		delete(h.link.sends, handle)
		h.d.OnTransferComplete(handle, Outcome{OK: true})
		h.d.Service()
		return data, nil
	}
	if _, ok := h.link.receives[handle]; ok {
		delete(h.link.receives, handle)
		h.d.OnTransferComplete(handle, Outcome{OK: true, Data: payload})
		h.d.Service()
	}
	return nil, nil
}

// checkStatus reads the error latch after a stalled request.
func (h *Host) checkStatus() error {
	packet, err := protocol.BuildSetup(protocol.CmdGetError, 0)
	if err != nil {
		return err
	}
	data, err := h.transfer(packet, nil)
	if err != nil {
		return err
	}
	if h.link.stalled {
		return errors.New("device stalled GET_ERROR")
	}
	cmd, status, err := protocol.ParseErrorLatch(data)
	if err != nil {
		return err
	}
	return &protocol.ProtocolError{Cmd: cmd, Status: status}
}
