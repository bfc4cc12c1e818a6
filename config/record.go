package config

import (
	"encoding/binary"

	"github.com/moffa90/go-colorhug/imagecipher"
	"github.com/moffa90/go-colorhug/protocol"
)

// Record layout, all fields little-endian.
//
//	[SERIAL(2)][ERRATA(1)][FLASH_SUCCESS(1)][KEY(16)][CAL(16)][CRC16(2)]
const (
	offSerial       = 0
	offErrata       = 2
	offFlashSuccess = 3
	offKey          = 4
	offCalibration  = 20
	offCRC          = 36

	// RecordSize is the size of the stored record in bytes
	RecordSize = 38
)

// DeviceConfig is the persistent device configuration.
type DeviceConfig struct {
	// SerialNumber is a free-form identifier
	SerialNumber uint16

	// PCBErrata holds hardware-revision workaround flags
	PCBErrata protocol.PCBErrata

	// FlashSuccess is true only when the installed application was
	// confirmed working by the host
	FlashSuccess bool

	// SigningKey is the firmware image key; the zero key means unset
	SigningKey imagecipher.Key

	// Calibration holds the CCD wavelength calibration
	Calibration protocol.Calibration
}

// HasSigningKey reports whether a signing key is provisioned.
func (c DeviceConfig) HasSigningKey() bool {
	return !c.SigningKey.IsZero()
}

// marshal encodes c with its checksum.
func (c *DeviceConfig) marshal() []byte {
	buf := make([]byte, RecordSize)
	binary.LittleEndian.PutUint16(buf[offSerial:], c.SerialNumber)
	buf[offErrata] = byte(c.PCBErrata)
	if c.FlashSuccess {
		buf[offFlashSuccess] = 1
	}
	for i, w := range c.SigningKey {
		binary.LittleEndian.PutUint32(buf[offKey+i*4:], w)
	}
	for i, v := range c.Calibration {
		binary.LittleEndian.PutUint32(buf[offCalibration+i*4:], uint32(v))
	}
	binary.LittleEndian.PutUint16(buf[offCRC:], calculateCRC16(buf[:offCRC]))
	return buf
}

// unmarshal decodes a stored record. An erased record yields the factory
// defaults. On a checksum mismatch the decoded fields are still returned
// together with a *ChecksumError so callers can salvage them.
func unmarshal(buf []byte) (DeviceConfig, error) {
	var c DeviceConfig
	if isErased(buf) {
		return c, nil
	}

	c.SerialNumber = binary.LittleEndian.Uint16(buf[offSerial:])
	c.PCBErrata = protocol.PCBErrata(buf[offErrata])
	c.FlashSuccess = buf[offFlashSuccess] == 1
	for i := range c.SigningKey {
		c.SigningKey[i] = binary.LittleEndian.Uint32(buf[offKey+i*4:])
	}
	for i := range c.Calibration {
		c.Calibration[i] = protocol.OffsetFloat(binary.LittleEndian.Uint32(buf[offCalibration+i*4:]))
	}

	want := binary.LittleEndian.Uint16(buf[offCRC:])
	if got := calculateCRC16(buf[:offCRC]); got != want {
		return c, &ChecksumError{Expected: want, Actual: got}
	}
	return c, nil
}

func isErased(buf []byte) bool {
	for _, b := range buf {
		if b != 0xFF {
			return false
		}
	}
	return true
}
