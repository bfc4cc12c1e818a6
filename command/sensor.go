package command

import (
	"github.com/moffa90/go-colorhug/protocol"
	"github.com/moffa90/go-colorhug/sram"
)

// Sensor is the measurement collaborator. Implementations may return a bare
// protocol.ChError (for example protocol.ErrSensorTimeout) so the precise
// cause reaches the error latch.
type Sensor interface {
	// Temperature returns the PCB temperature in degrees Celsius.
	Temperature() (protocol.OffsetFloat, error)

	// TakeReadingSpectral samples the CCD for integrationMS and stores the
	// spectrum of the given kind in scratch.
	TakeReadingSpectral(kind protocol.SpectrumKind, integrationMS uint16, scratch sram.Memory) error

	// TakeReadingXYZ samples the sensor for integrationMS and returns the
	// tristimulus value.
	TakeReadingXYZ(integrationMS uint16) (protocol.XYZ, error)
}
