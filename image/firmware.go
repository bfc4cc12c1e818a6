package image

import (
	"fmt"

	"github.com/moffa90/go-colorhug/flash"
	"github.com/moffa90/go-colorhug/imagecipher"
	"github.com/moffa90/go-colorhug/layout"
)

// Firmware is a flat firmware image.
type Firmware struct {
	// Base is the flash address of Data[0]
	Base uint32

	// Data is the image contents
	Data []byte
}

// End returns the flash address one past the last image byte.
func (f *Firmware) End() uint32 {
	return f.Base + uint32(len(f.Data))
}

// Block is one DFU transfer block.
type Block struct {
	// Addr is the byte offset from the firmware partition base
	Addr uint16

	// Data is the block payload
	Data []byte
}

// RangeError reports an image that does not fit the firmware partition.
type RangeError struct {
	Base, End         uint32
	PartBase, PartEnd uint32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("image 0x%05X-0x%05X outside firmware partition 0x%05X-0x%05X",
		e.Base, e.End, e.PartBase, e.PartEnd)
}

// Partition returns the image as partition-relative bytes starting at the
// partition base. Any space between the base and the first image byte is
// filled with 0xFF.
func (f *Firmware) Partition(l *layout.Layout) ([]byte, error) {
	base, end := l.Flash.FirmwareBase, l.FirmwareEnd()
	if len(f.Data) == 0 || f.Base < base || f.End() > end {
		return nil, &RangeError{Base: f.Base, End: f.End(), PartBase: base, PartEnd: end}
	}

	data := make([]byte, f.End()-base)
	lead := f.Base - base
	for i := uint32(0); i < lead; i++ {
		data[i] = flash.Erased
	}
	copy(data[lead:], f.Data)
	return data, nil
}

// FromPartition builds an image from partition-relative bytes.
func FromPartition(l *layout.Layout, data []byte) *Firmware {
	return &Firmware{
		Base: l.Flash.FirmwareBase,
		Data: append([]byte(nil), data...),
	}
}

// Blocks splits data into transfer blocks of at most size bytes. The blocks
// share data's backing array.
func Blocks(data []byte, size int) []Block {
	if size <= 0 {
		return nil
	}

	blocks := make([]Block, 0, (len(data)+size-1)/size)
	for off := 0; off < len(data); off += size {
		end := off + size
		if end > len(data) {
			end = len(data)
		}
		blocks = append(blocks, Block{Addr: uint16(off), Data: data[off:end]})
	}
	return blocks
}

// Encrypt returns a copy of data encrypted for transfer to a device holding
// key. Trailing bytes that do not fill a cipher block are left as they are,
// exactly as the device leaves them.
func Encrypt(key imagecipher.Key, data []byte) []byte {
	out := append([]byte(nil), data...)
	imagecipher.Encode(key, out)
	return out
}

// Decrypt returns a decrypted copy of data read back from a device holding key.
func Decrypt(key imagecipher.Key, data []byte) []byte {
	out := append([]byte(nil), data...)
	imagecipher.Decode(key, out)
	return out
}
