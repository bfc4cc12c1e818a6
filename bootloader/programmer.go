package bootloader

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-colorhug/dfu"
	"github.com/moffa90/go-colorhug/diag"
	"github.com/moffa90/go-colorhug/image"
	"github.com/moffa90/go-colorhug/layout"
)

// Target is the device side of a DFU interface. *dfu.Engine implements it.
type Target interface {
	SetAltSetting(alt uint8) error
	WriteBlock(addr uint16, data []byte) error
	ReadBlock(addr uint16, length int) ([]byte, error)
	GetStatus() dfu.StatusReport
	ClearStatus()
}

// Programmer orchestrates firmware downloads into a device's firmware
// partition.
type Programmer struct {
	target Target
	layout *layout.Layout
	config Config
	log    diag.Logger
}

// New creates a new Programmer for target with the given options.
//
// Example:
//
//	prog := bootloader.New(engine, layout.Default(),
//	    bootloader.WithProgressCallback(progressFunc),
//	)
func New(target Target, l *layout.Layout, opts ...Option) *Programmer {
	if target == nil {
		panic("target cannot be nil")
	}

	cfg := defaultConfig()
	cfg.BlockSize = int(l.TransferSize)
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Programmer{
		target: target,
		layout: l,
		config: cfg,
		log:    diag.OrNop(cfg.Logger),
	}
}

// Program performs the complete download sequence:
//  1. Map the image onto the firmware partition (and encrypt it if a key is set)
//  2. Select the firmware alternate setting, clearing a stale error state
//  3. Download every block, retrying transient failures
//  4. Read the partition back and compare (when enabled)
//
// Block 0 is sent first; a device rejects the whole image there if its
// vector table does not match. The operation can be cancelled via context.
func (p *Programmer) Program(ctx context.Context, fw *image.Firmware) error {
	if fw == nil {
		return fmt.Errorf("firmware cannot be nil")
	}

	data, err := fw.Partition(p.layout)
	if err != nil {
		return err
	}
	if p.config.Key != nil {
		data = image.Encrypt(*p.config.Key, data)
	}

	if err := p.prepare(); err != nil {
		return err
	}

	startTime := time.Now()
	blocks := image.Blocks(data, p.config.BlockSize)

	p.reportProgress(Progress{
		Phase:       PhaseDownloading,
		TotalBlocks: len(blocks),
	})

	bytesWritten := 0
	for i, blk := range blocks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		if err := p.writeBlock(blk); err != nil {
			return err
		}
		bytesWritten += len(blk.Data)

		// 0% to 90%
		p.reportProgress(Progress{
			Phase:        PhaseDownloading,
			CurrentBlock: i + 1,
			TotalBlocks:  len(blocks),
			Percentage:   float64(i+1) / float64(len(blocks)) * 90,
			BytesWritten: bytesWritten,
			ElapsedTime:  time.Since(startTime),
		})
	}

	if p.config.VerifyAfterProgram {
		for i, blk := range blocks {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("cancelled: %w", err)
			}
			if err := p.verifyBlock(blk); err != nil {
				return err
			}

			// 90% to 100%
			p.reportProgress(Progress{
				Phase:        PhaseVerifying,
				CurrentBlock: i + 1,
				TotalBlocks:  len(blocks),
				Percentage:   90 + float64(i+1)/float64(len(blocks))*10,
				BytesWritten: bytesWritten,
				ElapsedTime:  time.Since(startTime),
			})
		}
	}

	p.reportProgress(Progress{
		Phase:        PhaseComplete,
		CurrentBlock: len(blocks),
		TotalBlocks:  len(blocks),
		Percentage:   100,
		BytesWritten: bytesWritten,
		ElapsedTime:  time.Since(startTime),
	})

	p.log.Info("programming complete",
		"blocks", len(blocks),
		"bytes", bytesWritten,
		"elapsed", time.Since(startTime).String(),
	)

	return nil
}

// ReadBack uploads length bytes of the firmware partition and returns them as
// an image, decrypted when a key is set.
func (p *Programmer) ReadBack(ctx context.Context, length int) (*image.Firmware, error) {
	if err := p.prepare(); err != nil {
		return nil, err
	}

	data := make([]byte, 0, length)
	for off := 0; off < length; off += p.config.BlockSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("cancelled: %w", err)
		}
		n := p.config.BlockSize
		if off+n > length {
			n = length - off
		}
		chunk, err := p.target.ReadBlock(uint16(off), n)
		if err != nil {
			return nil, fmt.Errorf("read block 0x%04X: %w", off, err)
		}
		data = append(data, chunk...)
	}

	if p.config.Key != nil {
		data = image.Decrypt(*p.config.Key, data)
	}
	return image.FromPartition(p.layout, data), nil
}

// prepare selects the firmware partition and leaves any earlier error state.
func (p *Programmer) prepare() error {
	if p.target.GetStatus().State == dfu.StateError {
		p.log.Debug("clearing stale dfu error", "status", p.target.GetStatus().Status)
		p.target.ClearStatus()
	}
	if err := p.target.SetAltSetting(uint8(dfu.AltFirmware)); err != nil {
		return fmt.Errorf("select firmware partition: %w", err)
	}
	return nil
}

// writeBlock downloads one block. Failures caused by the image itself are
// not retried.
func (p *Programmer) writeBlock(blk image.Block) error {
	var err error
	attempts := 0
	for attempts <= p.config.Retries {
		attempts++
		if err = p.target.WriteBlock(blk.Addr, blk.Data); err == nil {
			return nil
		}

		status := dfu.StatusOf(err)
		p.log.Error("block download failed", "addr", blk.Addr, "attempt", attempts, "status", status)
		p.target.ClearStatus()
		if !retryable(status) {
			break
		}
	}
	return &BlockError{Addr: blk.Addr, Attempts: attempts, Err: err}
}

// verifyBlock reads a block back and compares it with what was sent.
func (p *Programmer) verifyBlock(blk image.Block) error {
	got, err := p.target.ReadBlock(blk.Addr, len(blk.Data))
	if err != nil {
		return fmt.Errorf("read block 0x%04X: %w", blk.Addr, err)
	}
	for i := range blk.Data {
		if got[i] != blk.Data[i] {
			return &VerificationError{
				Addr:     blk.Addr + uint16(i),
				Expected: blk.Data[i],
				Actual:   got[i],
			}
		}
	}
	return nil
}

func retryable(status dfu.Status) bool {
	switch status {
	case dfu.StatusErrFile, dfu.StatusErrAddress, dfu.StatusErrTarget:
		return false
	}
	return true
}

// reportProgress calls the progress callback if configured.
func (p *Programmer) reportProgress(progress Progress) {
	if p.config.ProgressCallback != nil {
		p.config.ProgressCallback(progress)
	}
}
