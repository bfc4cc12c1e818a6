package layout

import (
	"fmt"

	"github.com/moffa90/go-colorhug/config"
	"github.com/moffa90/go-colorhug/protocol"
)

// ValidationError reports the first invalid field of a layout.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("layout: %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks layout correctness.
// It performs declarative validation only.
// It MUST NOT mutate the layout. Optional fields left at zero are checked
// with the value Normalize will give them.
func Validate(l *Layout) error {
	f := l.Flash

	// ------------------------------------------------------------
	// FLASH
	// ------------------------------------------------------------

	if f.Size == 0 {
		return invalid("flash.size", "must be set")
	}
	if f.EraseBlock == 0 || f.Size%f.EraseBlock != 0 {
		return invalid("flash.erase_block", "must be non-zero and divide flash.size")
	}
	if f.FirmwareBase%f.EraseBlock != 0 {
		return invalid("flash.firmware_base", "0x%X is not aligned to %d-byte erase blocks", f.FirmwareBase, f.EraseBlock)
	}
	if f.FirmwareSize == 0 || f.FirmwareSize%f.EraseBlock != 0 {
		return invalid("flash.firmware_size", "must be a non-zero multiple of the erase block")
	}
	if uint64(f.FirmwareBase)+uint64(f.FirmwareSize) > uint64(f.Size) {
		return invalid("flash.firmware_size", "partition ends past flash.size")
	}
	// DFU addresses are 16-bit
	if f.FirmwareSize > 0x10000 {
		return invalid("flash.firmware_size", "must not exceed 64 KiB")
	}

	// ------------------------------------------------------------
	// SCRATCH + BACKUP REGION
	// ------------------------------------------------------------

	s := l.Scratch
	if s.Size == 0 {
		return invalid("scratch.size", "must be set")
	}
	chunk := s.SaveChunk
	if chunk == 0 {
		chunk = DefaultSaveChunk
	}
	if s.Size%chunk != 0 {
		return invalid("scratch.save_chunk", "%d does not divide scratch.size %d", chunk, s.Size)
	}
	if s.Size%protocol.SRAMChunkSize != 0 {
		return invalid("scratch.size", "must be a multiple of %d", protocol.SRAMChunkSize)
	}
	if s.Size%f.EraseBlock != 0 {
		return invalid("scratch.size", "must be a multiple of the %d-byte erase block", f.EraseBlock)
	}
	if f.BackupBase%f.EraseBlock != 0 {
		return invalid("flash.backup_base", "0x%X is not aligned to %d-byte erase blocks", f.BackupBase, f.EraseBlock)
	}
	backupEnd := uint64(f.BackupBase) + uint64(s.Size)
	if backupEnd > uint64(f.Size) {
		return invalid("flash.backup_base", "backup region ends past flash.size")
	}
	if uint64(f.BackupBase) < uint64(f.FirmwareBase)+uint64(f.FirmwareSize) && backupEnd > uint64(f.FirmwareBase) {
		return invalid("flash.backup_base", "backup region overlaps the firmware partition")
	}
	if f.BackupBase < f.FirmwareBase {
		return invalid("flash.backup_base", "backup region overlaps the bootloader below 0x%X", f.FirmwareBase)
	}

	// ------------------------------------------------------------
	// VECTORS
	// ------------------------------------------------------------

	if len(l.Vectors.Accept) == 0 {
		return invalid("vectors.accept", "at least one accepted value is required")
	}
	if l.Vectors.Count < 0 {
		return invalid("vectors.count", "must not be negative")
	}
	count := l.Vectors.Count
	if count == 0 {
		count = DefaultVectorCount
	}
	transfer := uint32(l.TransferSize)
	if transfer == 0 {
		transfer = protocol.TransferSize
	}
	if transfer > protocol.TransferSize {
		return invalid("transfer_size", "must not exceed %d", protocol.TransferSize)
	}
	if f.EraseBlock%transfer != 0 {
		return invalid("transfer_size", "%d does not divide the erase block", transfer)
	}
	if l.Vectors.Offset+uint32(count)*2 > transfer {
		return invalid("vectors.offset", "vector words extend past the first %d-byte block", transfer)
	}

	// ------------------------------------------------------------
	// EEPROM
	// ------------------------------------------------------------

	size := l.EEPROM.Size
	if size == 0 {
		size = DefaultEEPROMSize
	}
	if l.EEPROM.ConfigOffset < 0 || l.EEPROM.ConfigOffset+config.RecordSize > int64(size) {
		return invalid("eeprom.config_offset", "record does not fit in %d bytes", size)
	}

	return nil
}
