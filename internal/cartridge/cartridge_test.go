package cartridge

import "testing"

func makeROM(cartType uint8, ramSizeByte uint8, title string) []uint8 {
	rom := make([]uint8, 0x8000)
	copy(rom[headerTitleStart:headerTitleEnd+1], title)
	rom[headerCartType] = cartType
	rom[headerRAMSize] = ramSizeByte
	return rom
}

func TestLoadParsesTitleAndType(t *testing.T) {
	rom := makeROM(0x01, 0x02, "TESTGAME")
	c, err := Load(rom)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Title != "TESTGAME" {
		t.Fatalf("Title = %q, want TESTGAME", c.Title)
	}
	if c.Type != 0x01 {
		t.Fatalf("Type = %#x, want 0x01", c.Type)
	}
}

func TestLoadRejectsShortHeader(t *testing.T) {
	if _, err := Load(make([]uint8, 0x10)); err == nil {
		t.Fatal("expected MalformedRom for a short ROM")
	}
}

func TestLoadRejectsUnknownMapper(t *testing.T) {
	rom := makeROM(0xFE, 0x00, "X")
	if _, err := Load(rom); err == nil {
		t.Fatal("expected UnimplementedMapper for an unknown cartridge type")
	}
}
