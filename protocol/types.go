package protocol

import (
	"fmt"
	"math"
)

// Cmd is a device protocol command code, carried in bRequest.
type Cmd uint8

// ChError is an error code latched by the device and reported through GET_ERROR.
type ChError uint8

// SpectrumKind selects what TAKE_READING_SPECTRAL stores into scratch memory.
type SpectrumKind uint8

// PCBErrata is a bitmask of known hardware-revision quirks.
type PCBErrata uint8

// Has reports whether all bits of flag are set.
func (e PCBErrata) Has(flag PCBErrata) bool {
	return e&flag == flag
}

// Direction is the data-stage direction of a control transfer.
type Direction uint8

const (
	// HostToDevice carries data (or only wValue) from the host
	HostToDevice Direction = iota

	// DeviceToHost returns a payload to the host
	DeviceToHost
)

func (d Direction) String() string {
	if d == DeviceToHost {
		return "device-to-host"
	}
	return "host-to-device"
}

// Command is one decoded control request addressed to the command interface.
type Command struct {
	// Code is the command code (bRequest)
	Code Cmd

	// Direction is the data-stage direction (bit 7 of bmRequestType)
	Direction Direction

	// Value is the 16-bit request argument (wValue)
	Value uint16

	// Length is the requested data-stage length (wLength)
	Length uint16

	// Payload is the host-to-device data stage, when already received
	Payload []byte
}

// Info describes the fixed shape of a command.
type Info struct {
	// Name is the human-readable command name
	Name string

	// Direction is the only direction the command accepts
	Direction Direction

	// Size is the exact data-stage length the command requires
	Size int
}

var commands = map[Cmd]Info{
	CmdGetSerialNumber:     {"get serial number", DeviceToHost, SerialNumberSize},
	CmdGetPCBErrata:        {"get pcb errata", DeviceToHost, PCBErrataSize},
	CmdGetIntegrationTime:  {"get integration time", DeviceToHost, IntegrationTimeSize},
	CmdReadSRAM:            {"read sram", DeviceToHost, SRAMChunkSize},
	CmdGetCCDCalibration:   {"get ccd calibration", DeviceToHost, CalibrationSize},
	CmdGetError:            {"get error", DeviceToHost, ErrorLatchSize},
	CmdSetSerialNumber:     {"set serial number", HostToDevice, 0},
	CmdSetPCBErrata:        {"set pcb errata", HostToDevice, 0},
	CmdSetIntegrationTime:  {"set integration time", HostToDevice, 0},
	CmdWriteSRAM:           {"write sram", HostToDevice, SRAMChunkSize},
	CmdSetCCDCalibration:   {"set ccd calibration", HostToDevice, CalibrationSize},
	CmdSetCryptoKey:        {"set crypto key", HostToDevice, CryptoKeySize},
	CmdGetTemperature:      {"get temperature", DeviceToHost, TemperatureSize},
	CmdTakeReadingSpectral: {"take reading spectral", HostToDevice, 0},
	CmdTakeReadingXYZ:      {"take reading xyz", DeviceToHost, XYZSize},
	CmdClearError:          {"clear error", HostToDevice, 0},
	CmdSaveSRAM:            {"save sram", HostToDevice, 0},
	CmdLoadSRAM:            {"load sram", HostToDevice, 0},
}

// Lookup returns the shape of a known command.
func Lookup(cmd Cmd) (Info, bool) {
	info, ok := commands[cmd]
	return info, ok
}

func (c Cmd) String() string {
	if info, ok := commands[c]; ok {
		return info.Name
	}
	return fmt.Sprintf("unknown command 0x%02X", uint8(c))
}

func (e ChError) String() string {
	return getStatusName(e)
}

// OffsetFloat is a signed fixed-point number scaled by OffsetFloatScale.
type OffsetFloat int32

// Float64 converts the fixed-point value to a float.
func (o OffsetFloat) Float64() float64 {
	return float64(o) / float64(OffsetFloatScale)
}

// OffsetFloatFrom converts a float to fixed point, truncating toward zero.
func OffsetFloatFrom(v float64) OffsetFloat {
	scaled := v * float64(OffsetFloatScale)
	if scaled > math.MaxInt32 {
		return math.MaxInt32
	}
	if scaled < math.MinInt32 {
		return math.MinInt32
	}
	return OffsetFloat(scaled)
}

// Calibration holds the CCD wavelength calibration in its stored form.
// The wavelength of pixel p is StartNM + C0*p + C1*p^2 + C2*p^3 once the raw
// words are converted with Coefficients.
type Calibration [4]OffsetFloat

// Coefficients returns the calibration as floats (start nm, c0, c1, c2).
func (c Calibration) Coefficients() (startNM, c0, c1, c2 float64) {
	return c[0].Float64(),
		c[1].Float64(),
		c[2].Float64() / CalibrationCoefficientScale,
		c[3].Float64() / CalibrationCoefficientScale
}

// NewCalibration builds the stored form from float coefficients.
func NewCalibration(startNM, c0, c1, c2 float64) Calibration {
	return Calibration{
		OffsetFloatFrom(startNM),
		OffsetFloatFrom(c0),
		OffsetFloatFrom(c1 * CalibrationCoefficientScale),
		OffsetFloatFrom(c2 * CalibrationCoefficientScale),
	}
}

// XYZ is a tristimulus reading in offset-float form.
type XYZ [3]OffsetFloat
