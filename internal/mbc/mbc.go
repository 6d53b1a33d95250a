// Package mbc implements the cartridge mapper family: MBC-none, MBC1,
// MBC2, and stubs for MBC3/MBC5. Grounded on the dispatch-by-type shape
// of the teacher's emu.Memory (one Get/Set pair per mapper, selected at
// construction), generalized from the teacher's two Sega-family mappers
// to the Game Boy's MBC family.
package mbc

import "github.com/user-none/gbcore/internal/gberr"

// Mapper translates CPU addresses in the cartridge ROM window
// (0000-7FFF) and the cartridge RAM window (A000-BFFF), and interprets
// writes to the ROM window as control-register writes.
type Mapper interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	// RAM exposes the battery-backed RAM for save-state and battery-save
	// round-tripping; nil if the cartridge has none.
	RAM() []uint8
}

// ramSizeTable maps header byte 0x149 to RAM size in bytes, per the
// standard table named in the ROM header spec.
var ramSizeTable = [...]int{0, 2 * 1024, 8 * 1024, 32 * 1024, 128 * 1024, 64 * 1024}

// RAMSizeFor returns the RAM size in bytes for header byte 0x149.
func RAMSizeFor(headerByte uint8) int {
	if int(headerByte) >= len(ramSizeTable) {
		return 0
	}
	return ramSizeTable[headerByte]
}

// New constructs the mapper named by the cartridge-type header byte
// (0x147). Unknown types are a fatal UnimplementedMapper error at
// construction, per the core's error handling design.
func New(cartType uint8, rom []uint8, ramSize int) (Mapper, error) {
	switch cartType {
	case 0x00:
		return newNone(rom, nil), nil
	case 0x08, 0x09:
		return newNone(rom, make([]uint8, ramSize)), nil
	case 0x01, 0x02, 0x03:
		return newMBC1(rom, ramSize), nil
	case 0x05, 0x06:
		return newMBC2(rom), nil
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return newMBC3Stub(rom, ramSize), nil
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return newMBC5Stub(rom, ramSize), nil
	default:
		return nil, &gberr.UnimplementedMapper{CartridgeType: cartType}
	}
}

func romBankMask(rom []uint8) uint8 {
	banks := (len(rom) + 0x3FFF) / 0x4000
	if banks < 1 {
		banks = 1
	}
	pow2 := 1
	for pow2 < banks {
		pow2 <<= 1
	}
	return uint8(pow2 - 1)
}

func readROM(rom []uint8, addr uint32) uint8 {
	if int(addr) < len(rom) {
		return rom[addr]
	}
	return 0xFF
}
