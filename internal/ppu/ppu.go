// Package ppu implements the tile/sprite rasterizer and its scanline mode
// state machine: OAM scan, pixel transfer, H-blank, V-blank, access
// gating, and edge-triggered STAT/V-blank interrupts. Grounded on the
// teacher's emu/vdp.go scanline-timing and per-scanline-latching shape
// (SetVCounter/UpdateLineCounter/RenderScanline), generalized from the
// SMS VDP's 4bpp planar tiles and always-composited sprites to the
// Game Boy's 2bpp tiles, two 32x32 maps, OAM-driven sprites, and an
// explicit background/window/sprite composite order.
package ppu

const (
	dotsPerScanline = 456
	oamDots         = 80
	transferDots    = 172
	visibleLines    = 144
	totalLines      = 154

	ScreenWidth  = 160
	ScreenHeight = 144
)

// Mode values match STAT bits 0-1.
const (
	ModeHBlank = 0
	ModeVBlank = 1
	ModeOAM    = 2
	ModeXfer   = 3
)

// LCDC bits.
const (
	lcdcBGEnable     = 1 << 0
	lcdcObjEnable    = 1 << 1
	lcdcObjSize      = 1 << 2
	lcdcBGMap        = 1 << 3
	lcdcTileData     = 1 << 4
	lcdcWindowEnable = 1 << 5
	lcdcWindowMap    = 1 << 6
	lcdcDisplayOn    = 1 << 7
)

// STAT bits.
const (
	statLYCEqualLY  = 1 << 2
	statIRQMode0    = 1 << 3
	statIRQMode1    = 1 << 4
	statIRQMode2    = 1 << 5
	statIRQLYC      = 1 << 6
)

// PPU holds VRAM, OAM, the register file, the scanline phase clock, and
// the rendered framebuffer.
type PPU struct {
	vram [0x2000]uint8 // 8000-9FFF: tile data + both background maps
	oam  [160]uint8

	lcdc, stat          uint8
	scy, scx            uint8
	ly, lyc             uint8
	bgp, obp0, obp1     uint8
	wy, wx              uint8

	dot  int
	mode uint8

	statLine   bool // previous combined STAT-interrupt condition, for edges
	vblankLine bool

	frameReady   bool
	framebuffer  [ScreenHeight][ScreenWidth]uint8
	windowLine   int // internal window line counter, reset on V-blank entry and display restart
}

func New() *PPU {
	return &PPU{mode: ModeOAM}
}

// ReadVRAM/WriteVRAM back 8000-9FFF.
func (p *PPU) ReadVRAM(addr uint16) uint8 {
	if !p.vramAccessible() {
		return 0xFF
	}
	return p.vram[addr-0x8000]
}

func (p *PPU) WriteVRAM(addr uint16, v uint8) {
	if p.vramAccessible() {
		p.vram[addr-0x8000] = v
	}
}

func (p *PPU) ReadOAM(addr uint16) uint8 {
	if !p.oamAccessible() {
		return 0xFF
	}
	return p.oam[addr-0xFE00]
}

func (p *PPU) WriteOAM(addr uint16, v uint8) {
	if p.oamAccessible() {
		p.oam[addr-0xFE00] = v
	}
}

// WriteOAMRaw bypasses gating; used by the bus for OAM DMA, whose source
// read/destination write is not subject to the mode-gating table.
func (p *PPU) WriteOAMRaw(i int, v uint8) { p.oam[i] = v }

// ReadVRAMRaw bypasses gating; used by the bus for OAM DMA's source read,
// which the spec says bypasses any gating (DMA from VRAM is unusual but
// not forbidden).
func (p *PPU) ReadVRAMRaw(addr uint16) uint8 { return p.vram[addr-0x8000] }

func (p *PPU) vramAccessible() bool {
	if p.lcdc&lcdcDisplayOn == 0 {
		return true
	}
	return p.mode != ModeXfer
}

func (p *PPU) oamAccessible() bool {
	if p.lcdc&lcdcDisplayOn == 0 {
		return true
	}
	return p.mode != ModeOAM && p.mode != ModeXfer
}

// ReadReg/WriteReg back FF40-FF45 and FF47-FF4B (FF46, DMA start, is
// handled by the bus since it drives a bus-level transfer).
func (p *PPU) ReadReg(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return p.stat | 0x80
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

func (p *PPU) WriteReg(addr uint16, v uint8) {
	switch addr {
	case 0xFF40:
		wasOn := p.lcdc&lcdcDisplayOn != 0
		p.lcdc = v
		if wasOn && v&lcdcDisplayOn == 0 {
			p.disableDisplay()
		} else if !wasOn && v&lcdcDisplayOn != 0 {
			p.restartDisplay()
		}
	case 0xFF41:
		p.stat = (p.stat & 0x07) | (v &^ 0x07)
	case 0xFF42:
		p.scy = v
	case 0xFF43:
		p.scx = v
	case 0xFF44:
		// LY is read-only on real hardware.
	case 0xFF45:
		p.lyc = v
	case 0xFF47:
		p.bgp = v
	case 0xFF48:
		p.obp0 = v
	case 0xFF49:
		p.obp1 = v
	case 0xFF4A:
		p.wy = v
	case 0xFF4B:
		p.wx = v
	}
}

func (p *PPU) disableDisplay() {
	p.mode = ModeHBlank
	p.ly = 0
	p.dot = 0
	p.statLine = false
	p.vblankLine = false
}

func (p *PPU) restartDisplay() {
	p.mode = ModeOAM
	p.ly = 0
	p.dot = 0
	p.windowLine = 0
}

// FrameReady reports whether a full frame has completed since the last
// call, per the frame_ready() -> bool contract; it clears the flag.
func (p *PPU) FrameReady() bool {
	r := p.frameReady
	p.frameReady = false
	return r
}

// Framebuffer returns the last rendered frame as 2-bit shade indices.
func (p *PPU) Framebuffer() *[ScreenHeight][ScreenWidth]uint8 {
	return &p.framebuffer
}

// Step advances the PPU by dots (equal in count to the CPU cycles just
// executed) and reports which interrupt lines newly asserted.
func (p *PPU) Step(dots int) (vblank, stat bool) {
	if p.lcdc&lcdcDisplayOn == 0 {
		return false, false
	}
	for i := 0; i < dots; i++ {
		if v, s := p.tick(); v || s {
			vblank = vblank || v
			stat = stat || s
		}
	}
	return vblank, stat
}

func (p *PPU) tick() (vblank, stat bool) {
	p.dot++

	switch {
	case p.ly < visibleLines && p.dot == oamDots:
		p.mode = ModeXfer
	case p.ly < visibleLines && p.dot == oamDots+transferDots:
		p.mode = ModeHBlank
	case p.dot >= dotsPerScanline:
		p.dot = 0
		p.ly++
		if p.ly == visibleLines {
			p.mode = ModeVBlank
			p.renderFrame()
			p.frameReady = true
			p.windowLine = 0
		} else if p.ly >= totalLines {
			p.ly = 0
			p.mode = ModeOAM
		} else if p.ly < visibleLines {
			p.mode = ModeOAM
		}
	}

	vblankNow := p.mode == ModeVBlank
	if vblankNow && !p.vblankLine {
		vblank = true
	}
	p.vblankLine = vblankNow

	p.stat = (p.stat &^ 0x07) | p.mode
	lycHit := p.ly == p.lyc
	if lycHit {
		p.stat |= statLYCEqualLY
	} else {
		p.stat &^= statLYCEqualLY
	}

	statNow := (lycHit && p.stat&statIRQLYC != 0) ||
		(p.mode == ModeHBlank && p.stat&statIRQMode0 != 0) ||
		(p.mode == ModeOAM && p.stat&statIRQMode2 != 0) ||
		(p.mode == ModeVBlank && p.stat&statIRQMode1 != 0)
	if statNow && !p.statLine {
		stat = true
	}
	p.statLine = statNow

	return vblank, stat
}
