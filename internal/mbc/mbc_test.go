package mbc

import "testing"

func makeROM(banks int) []uint8 {
	rom := make([]uint8, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = uint8(b)
	}
	return rom
}

func TestMBC1BankSwitch(t *testing.T) {
	rom := makeROM(8)
	m := newMBC1(rom, 0)
	m.Write(0x2000, 0x05)
	if got := m.Read(0x4000); got != 5 {
		t.Fatalf("ROM bank 5 byte0 = %d, want 5", got)
	}
}

func TestMBC1BankZeroPromotedToOne(t *testing.T) {
	rom := makeROM(4)
	m := newMBC1(rom, 0)
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 1 {
		t.Fatalf("ROM bank after writing 0 = %d, want 1 (promoted)", got)
	}
}

func TestMBC1RAMDisabledReadsFF(t *testing.T) {
	m := newMBC1(makeROM(2), 0x2000)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("disabled RAM read = %#x, want 0xFF", got)
	}
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x42)
	if got := m.Read(0xA000); got != 0x42 {
		t.Fatalf("enabled RAM read = %#x, want 0x42", got)
	}
}

func TestMBC2RAMUpperNibbleReadsAsF(t *testing.T) {
	m := newMBC2(makeROM(4))
	m.Write(0x0000, 0x0A) // enable
	m.Write(0xA000, 0xF3)
	got := m.Read(0xA000)
	if got&0xF0 != 0xF0 {
		t.Fatalf("MBC2 RAM high nibble = %#x, want 0xF_", got)
	}
	if got&0x0F != 0x03 {
		t.Fatalf("MBC2 RAM low nibble = %#x, want 0x3", got&0x0F)
	}
}

func TestMBC2ROMBankAddressBit8Split(t *testing.T) {
	m := newMBC2(makeROM(4))
	m.Write(0x0000, 0x02) // bit 8 clear: RAM-enable path, not a bank write
	if m.romBank != 1 {
		t.Fatalf("romBank = %d, want unchanged 1", m.romBank)
	}
	m.Write(0x0100, 0x02) // bit 8 set: ROM-bank write
	if m.romBank != 2 {
		t.Fatalf("romBank = %d, want 2", m.romBank)
	}
}

func TestNoMapperDirectROM(t *testing.T) {
	rom := makeROM(2)
	m := newNone(rom, nil)
	if got := m.Read(0x0000); got != rom[0] {
		t.Fatalf("ROM-none read mismatch")
	}
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("no-RAM read = %#x, want 0xFF", got)
	}
}

func TestUnimplementedMapperErrors(t *testing.T) {
	if _, err := New(0xFF, makeROM(2), 0); err == nil {
		t.Fatal("expected an UnimplementedMapper error for an unknown cartridge type")
	}
}
