package command

import (
	"fmt"

	"github.com/moffa90/go-colorhug/protocol"
)

// chunkAddr maps a READ_SRAM / WRITE_SRAM chunk index to a scratch address.
func (d *Dispatcher) chunkAddr(chunk uint16) (uint32, error) {
	addr := uint32(chunk) * protocol.SRAMChunkSize
	if addr+protocol.SRAMChunkSize > d.scratch.Size() {
		return 0, fmt.Errorf("chunk %d outside scratch memory: %w", chunk, protocol.ErrInvalidValue)
	}
	return addr, nil
}

func readSRAM(d *Dispatcher, cmd protocol.Command) ([]byte, error) {
	addr, err := d.chunkAddr(cmd.Value)
	if err != nil {
		return nil, err
	}
	data := make([]byte, protocol.SRAMChunkSize)
	if err := d.scratch.Read(addr, data); err != nil {
		return nil, withCode(protocol.ErrSRAM, err)
	}
	return data, nil
}

func writeSRAM(d *Dispatcher, cmd protocol.Command) error {
	addr, err := d.chunkAddr(cmd.Value)
	if err != nil {
		return err
	}
	if err := d.scratch.Write(addr, cmd.Payload); err != nil {
		return withCode(protocol.ErrSRAM, err)
	}
	return nil
}

func (d *Dispatcher) clearWatchdog() {
	if d.config.Watchdog != nil {
		d.config.Watchdog.Clear()
	}
}

// saveSRAM copies the scratch memory to its flash backup region. The whole
// region is erased first; any chunk failure aborts the copy.
func saveSRAM(d *Dispatcher, _ protocol.Command) error {
	base := d.layout.Flash.BackupBase
	size := d.layout.Scratch.Size
	eraseBlock := d.layout.Flash.EraseBlock

	for off := uint32(0); off < size; off += eraseBlock {
		d.clearWatchdog()
		if err := d.flash.Erase(base+off, eraseBlock); err != nil {
			return &ChunkError{Op: "save", Offset: off, Err: withCode(protocol.ErrFlashErase, err)}
		}
	}

	buf := make([]byte, d.config.ChunkSize)
	for off := uint32(0); off < size; off += d.config.ChunkSize {
		d.clearWatchdog()
		if err := d.scratch.Read(off, buf); err != nil {
			return &ChunkError{Op: "save", Offset: off, Err: withCode(protocol.ErrSRAM, err)}
		}
		if err := d.flash.Program(base+off, buf); err != nil {
			return &ChunkError{Op: "save", Offset: off, Err: withCode(protocol.ErrFlashWrite, err)}
		}
	}

	d.log.Info("scratch saved", "bytes", size, "base", base)
	return nil
}

// loadSRAM restores the scratch memory from its flash backup region.
func loadSRAM(d *Dispatcher, _ protocol.Command) error {
	base := d.layout.Flash.BackupBase
	size := d.layout.Scratch.Size

	buf := make([]byte, d.config.ChunkSize)
	for off := uint32(0); off < size; off += d.config.ChunkSize {
		d.clearWatchdog()
		if err := d.flash.Read(base+off, buf); err != nil {
			return &ChunkError{Op: "load", Offset: off, Err: withCode(protocol.ErrFlashRead, err)}
		}
		if err := d.scratch.Write(off, buf); err != nil {
			return &ChunkError{Op: "load", Offset: off, Err: withCode(protocol.ErrSRAM, err)}
		}
	}

	d.log.Info("scratch loaded", "bytes", size, "base", base)
	return nil
}
