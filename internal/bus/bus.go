// Package bus implements the memory-mapped dispatch that wires the
// cartridge, VRAM/OAM-backed PPU, WRAM, timer, joypad, sound register
// file, and HRAM into the single 16-bit address space the CPU sees.
// Grounded on the teacher's emu/mem.go Memory.Get/Set dispatch-by-range
// shape, generalized from a single fixed-layout device to an ordered
// range-check switch over the Game Boy's device map; IE and IF are kept
// as direct struct fields for the fast path spec.md calls out.
package bus

import (
	"log"

	"github.com/user-none/gbcore/internal/apu"
	"github.com/user-none/gbcore/internal/cartridge"
	"github.com/user-none/gbcore/internal/joypad"
	"github.com/user-none/gbcore/internal/ppu"
	"github.com/user-none/gbcore/internal/timer"
)

const dmaLength = 160

// Bus owns every memory-mapped device and implements cpu.Bus and
// cpu.InterruptSource.
type Bus struct {
	Cart  *cartridge.Cartridge
	PPU   *ppu.PPU
	Timer *timer.Timer
	Pad   *joypad.Joypad
	APU   *apu.APU

	wram [0x2000]uint8 // C000-DFFF, two 4KB banks on DMG (no CGB bank switch)
	hram [0x7F]uint8   // FF80-FFFE
	sb   uint8         // FF01 serial data, stored but not transmitted
	sc   uint8         // FF02 serial control

	ie uint8 // FFFF
	ifr uint8 // FF0F, only bits 0-4 meaningful

	dmaActive   bool
	dmaSrc      uint16
	dmaCyclesLeft int
}

func New(cart *cartridge.Cartridge, p *ppu.PPU, t *timer.Timer, pad *joypad.Joypad, a *apu.APU) *Bus {
	return &Bus{Cart: cart, PPU: p, Timer: t, Pad: pad, APU: a, ifr: 0xE0}
}

// IE/IF/SetIF satisfy cpu.InterruptSource.
func (b *Bus) IE() uint8      { return b.ie }
func (b *Bus) IF() uint8      { return b.ifr | 0xE0 }
func (b *Bus) SetIF(v uint8)  { b.ifr = v & 0x1F }

// RequestInterrupt ORs a single IF bit, used by devices (PPU, timer,
// joypad) the System polls each step.
func (b *Bus) RequestInterrupt(bit uint8) { b.ifr |= 1 << bit }

// Read dispatches a CPU-visible address to its owning device. Unmapped
// addresses and disabled-device reads return 0xFF, per spec.
func (b *Bus) Read(addr uint16) uint8 {
	if b.dmaActive && dmaBlocksAddr(addr) {
		return 0xFF
	}
	switch {
	case addr <= 0x7FFF:
		return b.Cart.Mapper.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.PPU.ReadVRAM(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.Cart.Mapper.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0xE000] // echo RAM
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return b.PPU.ReadOAM(addr)
	case addr == 0xFF00:
		return b.Pad.Read()
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return b.sc | 0x7E
	case addr >= 0xFF04 && addr <= 0xFF07:
		return b.readTimer(addr)
	case addr == 0xFF0F:
		return b.IF()
	case addr >= 0xFF10 && addr <= 0xFF26, addr >= 0xFF30 && addr <= 0xFF3F:
		return b.APU.Read(addr)
	case addr == 0xFF46:
		return 0xFF // DMA register is write-only in practice
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return b.PPU.ReadReg(addr)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.ie
	default:
		return 0xFF
	}
}

func (b *Bus) Write(addr uint16, v uint8) {
	switch {
	case addr <= 0x7FFF:
		b.Cart.Mapper.Write(addr, v)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.PPU.WriteVRAM(addr, v)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.Cart.Mapper.Write(addr, v)
	case addr >= 0xC000 && addr <= 0xDFFF:
		if !(b.dmaActive && dmaBlocksAddr(addr)) {
			b.wram[addr-0xC000] = v
		}
	case addr >= 0xE000 && addr <= 0xFDFF:
		if !(b.dmaActive && dmaBlocksAddr(addr)) {
			b.wram[addr-0xE000] = v
		}
	case addr >= 0xFE00 && addr <= 0xFE9F:
		b.PPU.WriteOAM(addr, v)
	case addr == 0xFF00:
		b.Pad.Write(v)
	case addr == 0xFF01:
		b.sb = v
	case addr == 0xFF02:
		b.sc = v
	case addr >= 0xFF04 && addr <= 0xFF07:
		b.writeTimer(addr, v)
	case addr == 0xFF0F:
		b.SetIF(v)
	case addr >= 0xFF10 && addr <= 0xFF26, addr >= 0xFF30 && addr <= 0xFF3F:
		b.APU.Write(addr, v)
	case addr == 0xFF46:
		b.startDMA(v)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.PPU.WriteReg(addr, v)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = v
	case addr == 0xFFFF:
		b.ie = v
	default:
		log.Printf("bus: write to unmapped address %#04x (value %#02x)", addr, v)
	}
}

func (b *Bus) readTimer(addr uint16) uint8 {
	switch addr {
	case 0xFF04:
		return b.Timer.ReadDIV()
	case 0xFF05:
		return b.Timer.ReadTIMA()
	case 0xFF06:
		return b.Timer.ReadTMA()
	case 0xFF07:
		return b.Timer.ReadTAC()
	default:
		return 0xFF
	}
}

func (b *Bus) writeTimer(addr uint16, v uint8) {
	switch addr {
	case 0xFF04:
		b.Timer.WriteDIV(v)
	case 0xFF05:
		b.Timer.WriteTIMA(v)
	case 0xFF06:
		b.Timer.WriteTMA(v)
	case 0xFF07:
		b.Timer.WriteTAC(v)
	}
}

// dmaBlocksAddr reports whether addr is one of the ranges that reads as
// 0xFF while OAM DMA is in flight: cartridge RAM and WRAM (and its echo).
func dmaBlocksAddr(addr uint16) bool {
	return (addr >= 0xA000 && addr <= 0xBFFF) ||
		(addr >= 0xC000 && addr <= 0xFDFF)
}

func (b *Bus) startDMA(v uint8) {
	b.dmaActive = true
	b.dmaSrc = uint16(v) << 8
	b.dmaCyclesLeft = dmaLength
	// The transfer itself happens immediately; dmaCyclesLeft only gates
	// how long the rest of the bus is blocked, matching the "160 machine
	// cycles" the OAM DMA section describes as a duration rather than a
	// byte-at-a-time schedule observable from the CPU side.
	for i := 0; i < dmaLength; i++ {
		b.PPU.WriteOAMRaw(i, b.dmaSourceRead(b.dmaSrc+uint16(i)))
	}
}

// dmaSourceRead bypasses PPU/mapper access gating, per spec.
func (b *Bus) dmaSourceRead(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		return b.Cart.Mapper.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.PPU.ReadVRAMRaw(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.Cart.Mapper.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0xE000]
	default:
		return 0xFF
	}
}

// Step advances the OAM DMA cycle counter by cycles; System calls it once
// per step with that step's elapsed cycle count.
func (b *Bus) Step(cycles int) {
	if !b.dmaActive {
		return
	}
	b.dmaCyclesLeft -= cycles
	if b.dmaCyclesLeft <= 0 {
		b.dmaActive = false
	}
}

// State is the serializable snapshot of bus-owned storage: WRAM, HRAM,
// serial registers, IE/IF, and in-flight DMA bookkeeping. Cartridge
// mapper state is snapshotted separately by the caller, since the
// mapper variant is chosen at cartridge load, not at bus construction.
type State struct {
	WRAM [0x2000]uint8
	HRAM [0x7F]uint8
	SB, SC uint8
	IE, IF uint8

	DMAActive     bool
	DMASrc        uint16
	DMACyclesLeft int32
}

func (b *Bus) Snapshot() State {
	return State{
		WRAM: b.wram, HRAM: b.hram, SB: b.sb, SC: b.sc,
		IE: b.ie, IF: b.ifr,
		DMAActive: b.dmaActive, DMASrc: b.dmaSrc, DMACyclesLeft: int32(b.dmaCyclesLeft),
	}
}

func (b *Bus) Restore(s State) {
	b.wram = s.WRAM
	b.hram = s.HRAM
	b.sb, b.sc = s.SB, s.SC
	b.ie, b.ifr = s.IE, s.IF
	b.dmaActive = s.DMAActive
	b.dmaSrc = s.DMASrc
	b.dmaCyclesLeft = int(s.DMACyclesLeft)
}
