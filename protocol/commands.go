package protocol

import (
	"encoding/binary"
	"fmt"
)

// BuildSetup constructs the 8-byte setup packet for a command.
// The direction is taken from the command table so callers cannot send a
// read command as a write.
//
// Packet structure:
//
//	[bmRequestType][bRequest][wValue_L][wValue_H][wIndex_L][wIndex_H][wLength_L][wLength_H]
//
// Returns the packet, or an error for unknown commands.
func BuildSetup(cmd Cmd, value uint16) ([]byte, error) {
	info, ok := Lookup(cmd)
	if !ok {
		return nil, fmt.Errorf("unknown command 0x%02X", uint8(cmd))
	}

	packet := make([]byte, SetupPacketSize)
	packet[0] = RequestTypeClass | RequestTypeInterface
	if info.Direction == DeviceToHost {
		packet[0] |= RequestTypeDirIn
	}
	packet[1] = byte(cmd)
	binary.LittleEndian.PutUint16(packet[2:4], value)
	binary.LittleEndian.PutUint16(packet[4:6], Interface)
	binary.LittleEndian.PutUint16(packet[6:8], uint16(info.Size))

	return packet, nil
}

// ParseSetup decodes a setup packet into a Command. Only class requests to
// the command interface are accepted; the command code itself is not
// checked, so unknown codes reach the dispatcher and are latched there.
func ParseSetup(packet []byte) (Command, error) {
	if len(packet) != SetupPacketSize {
		return Command{}, fmt.Errorf("invalid setup packet length: got %d bytes, expected %d", len(packet), SetupPacketSize)
	}

	requestType := packet[0]
	if requestType&requestTypeMask != RequestTypeClass|RequestTypeInterface {
		return Command{}, fmt.Errorf("unsupported request type 0x%02X", requestType)
	}

	index := binary.LittleEndian.Uint16(packet[4:6])
	if index != Interface {
		return Command{}, fmt.Errorf("request addressed to interface %d, expected %d", index, Interface)
	}

	cmd := Command{
		Code:      Cmd(packet[1]),
		Direction: HostToDevice,
		Value:     binary.LittleEndian.Uint16(packet[2:4]),
		Length:    binary.LittleEndian.Uint16(packet[6:8]),
	}
	if requestType&RequestTypeDirIn != 0 {
		cmd.Direction = DeviceToHost
	}

	return cmd, nil
}

// NewCommand builds a well-formed Command for cmd with the given wValue and
// data stage. Intended for host drivers and tests.
func NewCommand(cmd Cmd, value uint16, payload []byte) (Command, error) {
	info, ok := Lookup(cmd)
	if !ok {
		return Command{}, fmt.Errorf("unknown command 0x%02X", uint8(cmd))
	}
	if info.Direction == HostToDevice && len(payload) != info.Size {
		return Command{}, fmt.Errorf("%s: payload must be exactly %d bytes, got %d", info.Name, info.Size, len(payload))
	}

	return Command{
		Code:      cmd,
		Direction: info.Direction,
		Value:     value,
		Length:    uint16(info.Size),
		Payload:   payload,
	}, nil
}

// EncodeCalibration serializes calibration coefficients as four little-endian int32 words.
func EncodeCalibration(cal Calibration) []byte {
	data := make([]byte, CalibrationSize)
	for i, v := range cal {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(v))
	}
	return data
}

// EncodeCryptoKey serializes a key as four little-endian uint32 words.
func EncodeCryptoKey(key [4]uint32) []byte {
	data := make([]byte, CryptoKeySize)
	for i, v := range key {
		binary.LittleEndian.PutUint32(data[i*4:], v)
	}
	return data
}

// EncodeUint16 serializes a 16-bit value in little-endian order.
func EncodeUint16(v uint16) []byte {
	data := make([]byte, 2)
	binary.LittleEndian.PutUint16(data, v)
	return data
}

// EncodeTemperature serializes a temperature reading.
func EncodeTemperature(t OffsetFloat) []byte {
	data := make([]byte, TemperatureSize)
	binary.LittleEndian.PutUint32(data, uint32(t))
	return data
}

// EncodeXYZ serializes a tristimulus reading.
func EncodeXYZ(xyz XYZ) []byte {
	data := make([]byte, XYZSize)
	for i, v := range xyz {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(v))
	}
	return data
}

// EncodeErrorLatch serializes the latch in the GET_ERROR order: status first.
func EncodeErrorLatch(cmd Cmd, status ChError) []byte {
	return []byte{byte(status), byte(cmd)}
}
