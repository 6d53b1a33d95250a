package bus

import (
	"testing"

	"github.com/user-none/gbcore/internal/apu"
	"github.com/user-none/gbcore/internal/cartridge"
	"github.com/user-none/gbcore/internal/joypad"
	"github.com/user-none/gbcore/internal/ppu"
	"github.com/user-none/gbcore/internal/timer"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	rom := make([]uint8, 0x8000)
	rom[0x147] = 0x00 // MBC-none
	rom[0x148] = 0x01 // 64KB
	cart, err := cartridge.Load(rom)
	if err != nil {
		t.Fatalf("cartridge.Load: %v", err)
	}
	return New(cart, ppu.New(), timer.New(), joypad.New(), apu.New())
}

func TestIEIFFastPath(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFFFF, 0x1F)
	if b.IE() != 0x1F {
		t.Fatalf("IE() = %#x, want 0x1F", b.IE())
	}
	b.SetIF(0x05)
	if got := b.Read(0xFF0F); got != 0xE5 {
		t.Fatalf("IF read = %#x, want 0xE5 (top bits always set)", got)
	}
}

func TestEchoRAMMirrorsWRAM(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC010, 0x42)
	if got := b.Read(0xE010); got != 0x42 {
		t.Fatalf("echo read = %#x, want 0x42", got)
	}
}

func TestOAMDMACopiesAndBlocksWRAM(t *testing.T) {
	b := newTestBus(t)
	for i := 0; i < dmaLength; i++ {
		b.wram[i] = uint8(i)
	}
	b.Write(0xFF46, 0xC0) // source bank 0xC000, the WRAM window


	if got := b.PPU.ReadOAM(0xFE00); got != 0x00 {
		t.Fatalf("OAM[0] after DMA from 0xC000 = %#x, want 0x00", got)
	}
	if got := b.PPU.ReadOAM(0xFE01); got != 0x01 {
		t.Fatalf("OAM[1] after DMA = %#x, want 0x01", got)
	}

	if got := b.Read(0xC000); got != 0xFF {
		t.Fatalf("WRAM read during DMA = %#x, want 0xFF", got)
	}

	b.Step(dmaLength)
	if b.dmaActive {
		t.Fatal("DMA should have completed")
	}
	if got := b.Read(0xC000); got == 0xFF {
		t.Fatal("WRAM read after DMA completes should no longer be blocked")
	}
}

func TestUnmappedReadReturnsFF(t *testing.T) {
	b := newTestBus(t)
	if got := b.Read(0xFEA0); got != 0xFF {
		t.Fatalf("unmapped read = %#x, want 0xFF", got)
	}
}
