package config

import (
	"github.com/moffa90/go-colorhug/board"
	"github.com/moffa90/go-colorhug/imagecipher"
	"github.com/moffa90/go-colorhug/protocol"
)

// SetKey provisions the signing key. It succeeds only while no key is set;
// otherwise it returns ErrWrongUnlockCode and storage is not touched.
func (s *Store) SetKey(key imagecipher.Key) error {
	if s.cfg.HasSigningKey() {
		s.log.Info("signing key already provisioned, rejecting")
		return ErrWrongUnlockCode
	}
	if err := s.Update(func(c *DeviceConfig) { c.SigningKey = key }); err != nil {
		return err
	}
	s.log.Info("signing key provisioned")
	return nil
}

// WipeKey resets the signing key to the unset sentinel. It bypasses the
// write-once rule and is only reached through the hardware unlock jumper.
func (s *Store) WipeKey() error {
	return s.Update(func(c *DeviceConfig) { c.SigningKey = imagecipher.Key{} })
}

// UnlockCheck wipes the signing key when the unlock jumper is fitted, lights
// both LEDs and halts so the device must be power-cycled. It reports whether
// the jumper was fitted; the caller must not continue booting when it was.
func (s *Store) UnlockCheck(pin board.UnlockPin, ind board.Indicator, halter board.Halter) (bool, error) {
	if !pin.Asserted() {
		return false, nil
	}

	s.log.Info("unlock jumper fitted, wiping signing key")
	err := s.WipeKey()
	ind.SetLEDs(board.LEDBoth)
	if err != nil {
		halter.Halt(protocol.CodeOf(err))
		return true, err
	}
	halter.Halt(protocol.ErrNone)
	return true, nil
}
