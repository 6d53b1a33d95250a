// Package cartridge parses the ROM header and constructs the appropriate
// memory bank controller, grounded on the header-driven construction
// style of the teacher's region/mapper CRC32 lookups (emu/region.go,
// emu/mem.go's detectMapper) generalized from CRC32 identification to
// the Game Boy's explicit cartridge-type header byte.
package cartridge

import (
	"github.com/user-none/gbcore/internal/gberr"
	"github.com/user-none/gbcore/internal/mbc"
)

const (
	headerTitleStart = 0x134
	headerTitleEnd   = 0x143
	headerCartType   = 0x147
	headerROMSize    = 0x148
	headerRAMSize    = 0x149
	minHeaderSize    = 0x150
)

// Cartridge owns the immutable ROM image and the constructed mapper.
type Cartridge struct {
	Title  string
	Type   uint8
	Mapper mbc.Mapper
	rom    []uint8
}

// Load parses the header at 0x100-0x14F and constructs the mapper it
// names. A ROM shorter than the minimum header size is MalformedRom.
func Load(rom []uint8) (*Cartridge, error) {
	if len(rom) < minHeaderSize {
		return nil, &gberr.MalformedRom{Reason: "file shorter than the cartridge header"}
	}

	title := parseTitle(rom)
	cartType := rom[headerCartType]
	ramSize := mbc.RAMSizeFor(rom[headerRAMSize])

	m, err := mbc.New(cartType, rom, ramSize)
	if err != nil {
		return nil, err
	}

	return &Cartridge{
		Title:  title,
		Type:   cartType,
		Mapper: m,
		rom:    rom,
	}, nil
}

func parseTitle(rom []uint8) string {
	raw := rom[headerTitleStart : headerTitleEnd+1]
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return string(raw[:end])
}

// ROMSizeBytes decodes header byte 0x148 (32KB << value).
func ROMSizeBytes(headerByte uint8) int {
	return 32 * 1024 << headerByte
}

// ROM returns the raw ROM image, used by save-state's ROM-identity check.
func (c *Cartridge) ROM() []uint8 { return c.rom }
