// Package command dispatches device protocol commands.
//
// The USB layer hands every class request on the command interface to
// Dispatcher.Handle. Commands are dispatched through a table keyed by the
// stable numeric command code:
//
//   - device-to-host commands build their payload and begin a send
//   - host-to-device commands with a data stage begin a receive and act once
//     the transfer completes
//   - commands without a data stage act immediately
//
// Data stages are two-phase: Link.BeginSend and Link.BeginReceive return a
// TransferHandle, and the link later reports the outcome with
// OnTransferComplete. Outcomes are queued and acted on by Service from the
// main loop, never from the USB event itself.
//
// Every failure writes (command, error code) to the ErrorLatch and stalls the
// request. Hosts read the latch with GET_ERROR to recover the precise cause.
package command
