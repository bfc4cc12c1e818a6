package layout

import "github.com/moffa90/go-colorhug/protocol"

// Defaults applied by Normalize to fields left at zero.
const (
	DefaultVectorCount  = 2
	DefaultRunCodeBlank = 0xFFFF
	DefaultSaveChunk    = 1024
	DefaultEEPROMSize   = 256
)

// Normalize fills optional fields with their defaults.
// It MUST be called only after Validate().
func Normalize(l *Layout) {
	if l == nil {
		return
	}

	if l.TransferSize == 0 {
		l.TransferSize = protocol.TransferSize
	}
	if l.Vectors.Count == 0 {
		l.Vectors.Count = DefaultVectorCount
	}
	if l.Flash.RunCodeBlank == 0 {
		l.Flash.RunCodeBlank = DefaultRunCodeBlank
	}
	if l.Scratch.SaveChunk == 0 {
		l.Scratch.SaveChunk = DefaultSaveChunk
	}
	if l.EEPROM.Size == 0 {
		l.EEPROM.Size = DefaultEEPROMSize
	}
}
