package ppu

// State is the serializable snapshot of PPU state; the framebuffer is
// intentionally excluded, per the save-state contract (§6: "PPU
// framebuffer need not be persisted").
type State struct {
	VRAM [0x2000]uint8
	OAM  [160]uint8

	LCDC, STAT uint8
	SCY, SCX   uint8
	LY, LYC    uint8
	BGP, OBP0, OBP1 uint8
	WY, WX     uint8

	Dot  int32
	Mode uint8

	StatLine, VBlankLine bool
	WindowLine           int32
}

func (p *PPU) Snapshot() State {
	return State{
		VRAM: p.vram, OAM: p.oam,
		LCDC: p.lcdc, STAT: p.stat,
		SCY: p.scy, SCX: p.scx,
		LY: p.ly, LYC: p.lyc,
		BGP: p.bgp, OBP0: p.obp0, OBP1: p.obp1,
		WY: p.wy, WX: p.wx,
		Dot: int32(p.dot), Mode: p.mode,
		StatLine: p.statLine, VBlankLine: p.vblankLine,
		WindowLine: int32(p.windowLine),
	}
}

func (p *PPU) Restore(s State) {
	p.vram = s.VRAM
	p.oam = s.OAM
	p.lcdc, p.stat = s.LCDC, s.STAT
	p.scy, p.scx = s.SCY, s.SCX
	p.ly, p.lyc = s.LY, s.LYC
	p.bgp, p.obp0, p.obp1 = s.BGP, s.OBP0, s.OBP1
	p.wy, p.wx = s.WY, s.WX
	p.dot = int(s.Dot)
	p.mode = s.Mode
	p.statLine, p.vblankLine = s.StatLine, s.VBlankLine
	p.windowLine = int(s.WindowLine)
}
