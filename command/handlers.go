package command

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-colorhug/config"
	"github.com/moffa90/go-colorhug/imagecipher"
	"github.com/moffa90/go-colorhug/protocol"
)

// handler is one dispatch table entry. Device-to-host commands set read,
// host-to-device commands set write.
type handler struct {
	read  func(d *Dispatcher, cmd protocol.Command) ([]byte, error)
	write func(d *Dispatcher, cmd protocol.Command) error
}

// handlers is the dispatch table. Codes are part of the wire protocol and must
// not change.
var handlers = map[protocol.Cmd]handler{
	protocol.CmdGetSerialNumber:     {read: getSerialNumber},
	protocol.CmdGetPCBErrata:        {read: getPCBErrata},
	protocol.CmdGetIntegrationTime:  {read: getIntegrationTime},
	protocol.CmdReadSRAM:            {read: readSRAM},
	protocol.CmdGetCCDCalibration:   {read: getCCDCalibration},
	protocol.CmdGetError:            {read: getError},
	protocol.CmdSetSerialNumber:     {write: setSerialNumber},
	protocol.CmdSetPCBErrata:        {write: setPCBErrata},
	protocol.CmdSetIntegrationTime:  {write: setIntegrationTime},
	protocol.CmdWriteSRAM:           {write: writeSRAM},
	protocol.CmdSetCCDCalibration:   {write: setCCDCalibration},
	protocol.CmdSetCryptoKey:        {write: setCryptoKey},
	protocol.CmdGetTemperature:      {read: getTemperature},
	protocol.CmdTakeReadingSpectral: {write: takeReadingSpectral},
	protocol.CmdTakeReadingXYZ:      {read: takeReadingXYZ},
	protocol.CmdClearError:          {write: clearError},
	protocol.CmdSaveSRAM:            {write: saveSRAM},
	protocol.CmdLoadSRAM:            {write: loadSRAM},
}

// ---- CONFIG ----

func getSerialNumber(d *Dispatcher, _ protocol.Command) ([]byte, error) {
	return protocol.EncodeUint16(d.store.Config().SerialNumber), nil
}

func setSerialNumber(d *Dispatcher, cmd protocol.Command) error {
	return d.update(func(c *config.DeviceConfig) { c.SerialNumber = cmd.Value })
}

func getPCBErrata(d *Dispatcher, _ protocol.Command) ([]byte, error) {
	return []byte{byte(d.store.Config().PCBErrata)}, nil
}

func setPCBErrata(d *Dispatcher, cmd protocol.Command) error {
	if cmd.Value > 0xFF {
		return fmt.Errorf("errata 0x%04X does not fit in 8 bits: %w", cmd.Value, protocol.ErrInvalidValue)
	}
	return d.update(func(c *config.DeviceConfig) { c.PCBErrata = protocol.PCBErrata(cmd.Value) })
}

func getCCDCalibration(d *Dispatcher, _ protocol.Command) ([]byte, error) {
	return protocol.EncodeCalibration(d.store.Config().Calibration), nil
}

func setCCDCalibration(d *Dispatcher, cmd protocol.Command) error {
	cal, err := protocol.ParseCalibration(cmd.Payload)
	if err != nil {
		return withCode(protocol.ErrInvalidLength, err)
	}
	return d.update(func(c *config.DeviceConfig) { c.Calibration = cal })
}

func setCryptoKey(d *Dispatcher, cmd protocol.Command) error {
	key, err := imagecipher.KeyFromBytes(cmd.Payload)
	if err != nil {
		return withCode(protocol.ErrInvalidLength, err)
	}
	err = d.store.SetKey(key)
	if err != nil && !errors.Is(err, config.ErrWrongUnlockCode) {
		return withCode(protocol.ErrFlashWrite, err)
	}
	return err
}

// update persists a configuration change, mapping storage failures to
// ErrFlashWrite.
func (d *Dispatcher) update(fn func(*config.DeviceConfig)) error {
	if err := d.store.Update(fn); err != nil {
		return withCode(protocol.ErrFlashWrite, err)
	}
	return nil
}

// ---- SENSOR ----

func getIntegrationTime(d *Dispatcher, _ protocol.Command) ([]byte, error) {
	return protocol.EncodeUint16(d.integration), nil
}

func setIntegrationTime(d *Dispatcher, cmd protocol.Command) error {
	if cmd.Value == 0 {
		return fmt.Errorf("integration time must be non-zero: %w", protocol.ErrInvalidValue)
	}
	d.integration = cmd.Value
	return nil
}

func (d *Dispatcher) sensor() (Sensor, error) {
	if d.config.Sensor == nil {
		return nil, fmt.Errorf("no sensor attached: %w", protocol.ErrNotImplemented)
	}
	return d.config.Sensor, nil
}

func getTemperature(d *Dispatcher, _ protocol.Command) ([]byte, error) {
	s, err := d.sensor()
	if err != nil {
		return nil, err
	}
	temp, err := s.Temperature()
	if err != nil {
		return nil, err
	}
	return protocol.EncodeTemperature(temp), nil
}

func takeReadingSpectral(d *Dispatcher, cmd protocol.Command) error {
	kind := protocol.SpectrumKind(cmd.Value)
	if cmd.Value > uint16(protocol.SpectrumKindTempCal) {
		return fmt.Errorf("spectrum kind %d: %w", cmd.Value, protocol.ErrInvalidValue)
	}
	s, err := d.sensor()
	if err != nil {
		return err
	}
	return s.TakeReadingSpectral(kind, d.integration, d.scratch)
}

func takeReadingXYZ(d *Dispatcher, _ protocol.Command) ([]byte, error) {
	s, err := d.sensor()
	if err != nil {
		return nil, err
	}
	xyz, err := s.TakeReadingXYZ(d.integration)
	if err != nil {
		return nil, err
	}
	return protocol.EncodeXYZ(xyz), nil
}

// ---- ERROR LATCH ----

func getError(d *Dispatcher, _ protocol.Command) ([]byte, error) {
	cmd, status := d.latch.Get()
	return protocol.EncodeErrorLatch(cmd, status), nil
}

func clearError(d *Dispatcher, _ protocol.Command) error {
	d.latch.Clear()
	return nil
}
