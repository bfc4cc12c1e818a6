package protocol

// ProtocolVersion is the device command protocol version implemented by this library.
const ProtocolVersion = "1.3"

// USB control transfer constants.
const (
	// Interface is the USB interface number that carries the command protocol
	Interface = 0x00

	// SetupPacketSize is the size of a USB setup packet in bytes
	SetupPacketSize = 8

	// TransferSize is the endpoint 0 transfer size; data stages never exceed it
	TransferSize = 64
)

// bmRequestType bits used by the command protocol.
const (
	// RequestTypeDirIn marks a device-to-host transfer
	RequestTypeDirIn = 0x80

	// RequestTypeClass selects the class request type
	RequestTypeClass = 0x20

	// RequestTypeInterface selects the interface recipient
	RequestTypeInterface = 0x01

	// requestTypeMask covers the type and recipient bits
	requestTypeMask = 0x7f
)

// Read commands (device to host).
const (
	// CmdGetSerialNumber returns the 16-bit serial number
	CmdGetSerialNumber Cmd = 0x00

	// CmdGetPCBErrata returns the PCB errata bitmask
	CmdGetPCBErrata Cmd = 0x01

	// CmdGetIntegrationTime returns the sensor integration time in ms
	CmdGetIntegrationTime Cmd = 0x02

	// CmdReadSRAM returns one 64-byte chunk of scratch memory, chunk index in wValue
	CmdReadSRAM Cmd = 0x03

	// CmdGetCCDCalibration returns the wavelength calibration coefficients
	CmdGetCCDCalibration Cmd = 0x04

	// CmdGetError returns the error latch as [status, command]
	CmdGetError Cmd = 0x05
)

// Write commands (host to device).
const (
	// CmdSetSerialNumber stores the serial number passed in wValue
	CmdSetSerialNumber Cmd = 0x10

	// CmdSetPCBErrata stores the errata bitmask passed in wValue
	CmdSetPCBErrata Cmd = 0x11

	// CmdSetIntegrationTime sets the integration time passed in wValue
	CmdSetIntegrationTime Cmd = 0x12

	// CmdWriteSRAM writes one 64-byte chunk of scratch memory, chunk index in wValue
	CmdWriteSRAM Cmd = 0x13

	// CmdSetCCDCalibration stores the wavelength calibration coefficients
	CmdSetCCDCalibration Cmd = 0x14

	// CmdSetCryptoKey provisions the firmware signing key (write once)
	CmdSetCryptoKey Cmd = 0x15
)

// Read-only sensor commands.
const (
	// CmdGetTemperature returns the PCB temperature as an offset float
	CmdGetTemperature Cmd = 0x20
)

// Action commands.
const (
	// CmdTakeReadingSpectral samples the CCD into scratch memory, kind in wValue
	CmdTakeReadingSpectral Cmd = 0x30

	// CmdTakeReadingXYZ samples the sensor and returns three offset floats
	CmdTakeReadingXYZ Cmd = 0x31

	// CmdClearError resets the error latch
	CmdClearError Cmd = 0x32

	// CmdSaveSRAM copies scratch memory to its flash backup region
	CmdSaveSRAM Cmd = 0x33

	// CmdLoadSRAM restores scratch memory from its flash backup region
	CmdLoadSRAM Cmd = 0x34
)

// Error codes latched by the device. Some values are shared with the DFU
// status codes so a single byte can be reported on either interface.
const (
	ErrNone              ChError = 0x00
	ErrUnknownCmd        ChError = 0x01
	ErrWrongUnlockCode   ChError = 0x02
	ErrFlashWrite        ChError = 0x03
	ErrFlashErase        ChError = 0x04
	ErrInvalidLength     ChError = 0x05
	ErrInvalidValue      ChError = 0x06
	ErrFlashRead         ChError = 0x07
	ErrInvalidAddress    ChError = 0x08
	ErrNotImplemented    ChError = 0x09
	ErrNoFirmware        ChError = 0x0A
	ErrSensorTimeout     ChError = 0x0B
	ErrSensorOverflow    ChError = 0x0C
	ErrSRAM              ChError = 0x0D
	ErrUnknown           ChError = 0x0E
	ErrDeviceDeactivated ChError = 0x0F
	ErrSelfTestSRAM      ChError = 0x10
	ErrSelfTestEEPROM    ChError = 0x11
	ErrSelfTestSensor    ChError = 0x12
)

// Spectrum kinds accepted by CmdTakeReadingSpectral.
const (
	SpectrumKindRaw     SpectrumKind = 0x00
	SpectrumKindDarkCal SpectrumKind = 0x01
	SpectrumKindTempCal SpectrumKind = 0x02
)

// PCB errata flags.
const (
	PCBErrataNone        PCBErrata = 0
	PCBErrataSwappedLEDs PCBErrata = 1 << 0
)

// Payload sizes per command, in bytes.
const (
	// SerialNumberSize is the GET_SERIAL_NUMBER payload size
	SerialNumberSize = 2

	// PCBErrataSize is the GET_PCB_ERRATA payload size
	PCBErrataSize = 1

	// IntegrationTimeSize is the GET_INTEGRATION_TIME payload size
	IntegrationTimeSize = 2

	// CalibrationSize is the GET/SET_CCD_CALIBRATION payload size
	CalibrationSize = 16

	// ErrorLatchSize is the GET_ERROR payload size
	ErrorLatchSize = 2

	// CryptoKeySize is the SET_CRYPTO_KEY payload size
	CryptoKeySize = 16

	// TemperatureSize is the GET_TEMPERATURE payload size
	TemperatureSize = 4

	// XYZSize is the TAKE_READING_XYZ payload size
	XYZSize = 12

	// SRAMChunkSize is the READ_SRAM / WRITE_SRAM payload size
	SRAMChunkSize = TransferSize
)

// OffsetFloatScale is the fixed-point scale of an offset float: value = raw / 0xffff.
const OffsetFloatScale = 0xffff

// CalibrationCoefficientScale is the extra scale applied to the c1 and c2
// calibration coefficients before they are encoded as offset floats.
const CalibrationCoefficientScale = 1000
