// Package layout describes the memory map and image-sanity parameters of a
// hardware target. Layouts are loaded from YAML so board variants can be
// described without code changes.
package layout

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Layout struct {
	Board        string        `yaml:"board"`
	Flash        FlashLayout   `yaml:"flash"`
	Vectors      VectorLayout  `yaml:"vectors"`
	Scratch      ScratchLayout `yaml:"scratch"`
	EEPROM       EEPROMLayout  `yaml:"eeprom"`
	TransferSize uint16        `yaml:"transfer_size"`
}

// ---- FLASH ----

type FlashLayout struct {
	Size         uint32 `yaml:"size"`
	EraseBlock   uint32 `yaml:"erase_block"`
	FirmwareBase uint32 `yaml:"firmware_base"`
	FirmwareSize uint32 `yaml:"firmware_size"`

	// RunCodeBlank is the value of the first firmware word when no
	// application is installed
	RunCodeBlank uint16 `yaml:"run_code_blank"`

	// BackupBase is where SAVE_SRAM stores the scratch memory
	BackupBase uint32 `yaml:"backup_base"`
}

// ---- IMAGE SANITY ----

type VectorLayout struct {
	// Offset is the byte offset of the first vector word in block 0
	Offset uint32 `yaml:"offset"`

	// Count is the number of 16-bit vector words checked
	Count int `yaml:"count"`

	// Accept lists the values a vector word may hold
	Accept []uint16 `yaml:"accept"`
}

// ---- SCRATCH ----

type ScratchLayout struct {
	Size uint32 `yaml:"size"`

	// SaveChunk is the copy granularity of SAVE_SRAM and LOAD_SRAM
	SaveChunk uint32 `yaml:"save_chunk"`
}

// ---- CONFIG RECORD ----

type EEPROMLayout struct {
	Size         int   `yaml:"size"`
	ConfigOffset int64 `yaml:"config_offset"`
}

// Default returns the ColorHug+ layout.
func Default() *Layout {
	l := &Layout{
		Board: "colorhug-plus",
		Flash: FlashLayout{
			Size:         0x10000,
			EraseBlock:   1024,
			FirmwareBase: 0x4000,
			FirmwareSize: 0xA000,
			BackupBase:   0xE000,
		},
		Vectors: VectorLayout{
			Offset: 4,
			Accept: []uint16{0x0000, 0x1200},
		},
		Scratch: ScratchLayout{
			Size: 8 * 1024,
		},
	}
	Normalize(l)
	return l
}

// Load reads, validates and normalizes a layout file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return Parse(data)
}

// Parse decodes, validates and normalizes a YAML layout. Unknown keys are
// rejected.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if err := Validate(&l); err != nil {
		return nil, err
	}
	Normalize(&l)
	return &l, nil
}

// FirmwareEnd returns the first address past the firmware partition.
func (l *Layout) FirmwareEnd() uint32 {
	return l.Flash.FirmwareBase + l.Flash.FirmwareSize
}

// AcceptsVector reports whether v is an allowed vector word.
func (l *Layout) AcceptsVector(v uint16) bool {
	for _, a := range l.Vectors.Accept {
		if v == a {
			return true
		}
	}
	return false
}
