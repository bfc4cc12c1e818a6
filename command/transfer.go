package command

// TransferHandle identifies a data stage begun on the link.
type TransferHandle uint32

// Outcome is the result of a data stage.
type Outcome struct {
	// OK is false when the host aborted or the stage failed
	OK bool

	// Data holds the received bytes of a host-to-device stage
	Data []byte
}

// Link is the control endpoint as seen by the dispatcher.
type Link interface {
	// BeginSend queues payload as the device-to-host data stage.
	BeginSend(payload []byte) TransferHandle

	// BeginReceive arms a host-to-device data stage of length bytes.
	BeginReceive(length int) TransferHandle

	// Ack completes a request that has no data stage.
	Ack()

	// Stall rejects the current request.
	Stall()
}

// event is a completed data stage waiting to be serviced.
type event struct {
	handle  TransferHandle
	outcome Outcome
}
