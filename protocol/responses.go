package protocol

import (
	"encoding/binary"
	"fmt"
)

// ParseUint16 parses a 2-byte little-endian payload such as the serial
// number or the integration time.
func ParseUint16(data []byte) (uint16, error) {
	if len(data) != 2 {
		return 0, fmt.Errorf("invalid data length for 16-bit value: got %d bytes, expected 2", len(data))
	}
	return binary.LittleEndian.Uint16(data), nil
}

// ParseCalibration parses the GET_CCD_CALIBRATION payload.
//
// Data format (CalibrationSize bytes):
//
//	[START_NM(4)][C0(4)][C1*1000(4)][C2*1000(4)]
func ParseCalibration(data []byte) (Calibration, error) {
	var cal Calibration
	if len(data) != CalibrationSize {
		return cal, fmt.Errorf("invalid data length for calibration: got %d bytes, expected %d", len(data), CalibrationSize)
	}
	for i := range cal {
		cal[i] = OffsetFloat(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return cal, nil
}

// ParseCryptoKey parses the SET_CRYPTO_KEY payload into key words.
func ParseCryptoKey(data []byte) ([4]uint32, error) {
	var key [4]uint32
	if len(data) != CryptoKeySize {
		return key, fmt.Errorf("invalid data length for crypto key: got %d bytes, expected %d", len(data), CryptoKeySize)
	}
	for i := range key {
		key[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return key, nil
}

// ParseTemperature parses the GET_TEMPERATURE payload.
func ParseTemperature(data []byte) (OffsetFloat, error) {
	if len(data) != TemperatureSize {
		return 0, fmt.Errorf("invalid data length for temperature: got %d bytes, expected %d", len(data), TemperatureSize)
	}
	return OffsetFloat(binary.LittleEndian.Uint32(data)), nil
}

// ParseXYZ parses the TAKE_READING_XYZ payload.
func ParseXYZ(data []byte) (XYZ, error) {
	var xyz XYZ
	if len(data) != XYZSize {
		return xyz, fmt.Errorf("invalid data length for XYZ reading: got %d bytes, expected %d", len(data), XYZSize)
	}
	for i := range xyz {
		xyz[i] = OffsetFloat(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return xyz, nil
}

// ParseErrorLatch parses the GET_ERROR payload.
//
// Data format (2 bytes):
//
//	[STATUS(1)][CMD(1)]
func ParseErrorLatch(data []byte) (Cmd, ChError, error) {
	if len(data) != ErrorLatchSize {
		return 0, 0, fmt.Errorf("invalid data length for error latch: got %d bytes, expected %d", len(data), ErrorLatchSize)
	}
	return Cmd(data[1]), ChError(data[0]), nil
}
