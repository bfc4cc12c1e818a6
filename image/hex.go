package image

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/marcinbor85/gohex"

	"github.com/moffa90/go-colorhug/flash"
)

// HexLineLength is the number of data bytes per record written by WriteHex.
const HexLineLength = 16

// LoadHex parses an Intel HEX file from the given path.
//
// Example:
//
//	fw, err := image.LoadHex("firmware.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("image at 0x%05X, %d bytes\n", fw.Base, len(fw.Data))
func LoadHex(path string) (*Firmware, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadHex(f)
}

// ReadHex parses Intel HEX from any io.Reader and merges its data segments
// into one flat image.
func ReadHex(r io.Reader) (*Firmware, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, fmt.Errorf("failed to parse hex: %w", err)
	}

	segments := mem.GetDataSegments()
	if len(segments) == 0 {
		return nil, fmt.Errorf("no data records found in file")
	}
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Address < segments[j].Address
	})

	first := segments[0]
	last := segments[len(segments)-1]
	fw := &Firmware{
		Base: first.Address,
		Data: make([]byte, last.Address+uint32(len(last.Data))-first.Address),
	}
	for i := range fw.Data {
		fw.Data[i] = flash.Erased
	}
	for _, s := range segments {
		copy(fw.Data[s.Address-fw.Base:], s.Data)
	}

	return fw, nil
}

// WriteHex writes the image as Intel HEX.
func (f *Firmware) WriteHex(w io.Writer) error {
	mem := gohex.NewMemory()
	if err := mem.AddBinary(f.Base, f.Data); err != nil {
		return fmt.Errorf("failed to add image data: %w", err)
	}
	if err := mem.DumpIntelHex(w, HexLineLength); err != nil {
		return fmt.Errorf("failed to write hex: %w", err)
	}
	return nil
}

// SaveHex writes the image to path as Intel HEX.
func (f *Firmware) SaveHex(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := f.WriteHex(out); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
