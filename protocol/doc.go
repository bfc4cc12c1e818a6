// Package protocol implements the ColorHug+ device command protocol vocabulary.
//
// Commands travel as USB class control transfers on interface 0. The command
// code is carried in bRequest, a 16-bit argument in wValue, and an optional
// fixed-size data stage follows in the direction given by bit 7 of
// bmRequestType:
//
//	Setup: [bmRequestType][CMD][VALUE_L][VALUE_H][0x00][0x00][LEN_L][LEN_H]
//	Data:  [PAYLOAD...]  (0 to 64 bytes, size fixed per command)
//
// # Command Builders
//
// Use BuildSetup to create setup packets and NewCommand to build complete
// requests with their data stage:
//
//	packet, err := protocol.BuildSetup(protocol.CmdGetSerialNumber, 0)
//	cmd, err := protocol.NewCommand(protocol.CmdSetCryptoKey, 0, protocol.EncodeCryptoKey(key))
//
// # Payload Parsers
//
// Use the Parse* functions to decode device-to-host payloads:
//
//	serial, err := protocol.ParseUint16(data)
//	cal, err := protocol.ParseCalibration(data)
//	cmd, status, err := protocol.ParseErrorLatch(data)
//
// # Error Handling
//
// A failed command stalls the transfer and leaves (command, status) in the
// device error latch. Hosts read it back with CmdGetError; the pair is
// represented as a ProtocolError:
//
//	err := &protocol.ProtocolError{Cmd: cmd, Status: status}
//	// err.Error() returns: "set crypto key failed: wrong unlock code (0x02)"
//
// ChError values implement error themselves, so collaborators such as sensor
// drivers can return a code directly and CodeOf recovers it.
package protocol
