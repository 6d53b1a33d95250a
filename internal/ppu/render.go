package ppu

import "sort"

type spriteEntry struct {
	y, x     int
	tile     uint8
	attr     uint8
	oamIndex int
}

func applyPalette(palette uint8, colorIndex uint8) uint8 {
	return (palette >> (colorIndex * 2)) & 0x03
}

// renderFrame composites the whole screen in the order the core
// requires: clear to backdrop, background, low-priority sprites, window,
// high-priority sprites. It samples registers once, at V-blank entry,
// rather than per scanline (an allowed simplification).
func (p *PPU) renderFrame() {
	backdrop := applyPalette(p.bgp, 0)
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			p.framebuffer[y][x] = backdrop
		}
	}

	if p.lcdc&lcdcBGEnable != 0 {
		p.renderBackground()
	}

	sprites := p.visibleSprites()
	low := make([]spriteEntry, 0, len(sprites))
	high := make([]spriteEntry, 0, len(sprites))
	for _, s := range sprites {
		if s.attr&0x80 != 0 {
			high = append(high, s)
		} else {
			low = append(low, s)
		}
	}

	if p.lcdc&lcdcObjEnable != 0 {
		p.drawSprites(low)
	}

	if p.lcdc&lcdcBGEnable != 0 && p.lcdc&lcdcWindowEnable != 0 {
		p.renderWindow()
	}

	if p.lcdc&lcdcObjEnable != 0 {
		p.drawSprites(high)
	}
}

func (p *PPU) renderBackground() {
	mapBase := uint16(0x9800)
	if p.lcdc&lcdcBGMap != 0 {
		mapBase = 0x9C00
	}

	for y := 0; y < ScreenHeight; y++ {
		bgY := (y + int(p.scy)) & 0xFF
		tileRow := bgY / 8
		rowInTile := bgY % 8
		for x := 0; x < ScreenWidth; x++ {
			bgX := (x + int(p.scx)) & 0xFF
			tileCol := bgX / 8
			colInTile := bgX % 8

			mapAddr := mapBase + uint16(tileRow*32+tileCol)
			tileIndex := p.vram[mapAddr-0x8000]
			tileAddr := p.tileDataAddr(tileIndex)

			colorIndex := p.tilePixel(tileAddr, rowInTile, colInTile)
			p.framebuffer[y][x] = applyPalette(p.bgp, colorIndex)
		}
	}
}

// renderWindow draws the window layer using p.windowLine, the window's
// own internal row counter, rather than the screen's y-p.wy offset: on
// real hardware the window's line counter only advances on scanlines
// where the window actually drew, so it can lag behind y-p.wy once WY
// has been changed mid-frame. p.windowLine is reset on display
// (re)start and on entering V-blank.
func (p *PPU) renderWindow() {
	mapBase := uint16(0x9800)
	if p.lcdc&lcdcWindowMap != 0 {
		mapBase = 0x9C00
	}
	wx := int(p.wx) - 7

	for y := 0; y < ScreenHeight; y++ {
		if y < int(p.wy) || p.wx > 166 {
			continue
		}
		tileRow := p.windowLine / 8
		rowInTile := p.windowLine % 8
		drew := false
		for x := 0; x < ScreenWidth; x++ {
			if x < wx {
				continue
			}
			winX := x - wx
			tileCol := winX / 8
			colInTile := winX % 8

			mapAddr := mapBase + uint16(tileRow*32+tileCol)
			tileIndex := p.vram[mapAddr-0x8000]
			tileAddr := p.tileDataAddr(tileIndex)

			colorIndex := p.tilePixel(tileAddr, rowInTile, colInTile)
			p.framebuffer[y][x] = applyPalette(p.bgp, colorIndex)
			drew = true
		}
		if drew {
			p.windowLine++
		}
	}
}

// tileDataAddr resolves LCDC.4's two addressing modes: unsigned indices
// from 0x8000, or signed indices from 0x9000.
func (p *PPU) tileDataAddr(tileIndex uint8) uint16 {
	if p.lcdc&lcdcTileData != 0 {
		return 0x8000 + uint16(tileIndex)*16
	}
	return uint16(int32(0x9000) + int32(int8(tileIndex))*16)
}

func (p *PPU) tilePixel(tileAddr uint16, row, col int) uint8 {
	lo := p.vram[tileAddr-0x8000+uint16(row*2)]
	hi := p.vram[tileAddr-0x8000+uint16(row*2)+1]
	bit := uint(7 - col)
	b0 := (lo >> bit) & 1
	b1 := (hi >> bit) & 1
	return b1<<1 | b0
}

// visibleSprites collects all 40 OAM entries whose Y places them on
// screen; the core does not cap this at 8 sprites per scanline, since
// frame-at-a-time rendering has no single scanline to cap against.
func (p *PPU) visibleSprites() []spriteEntry {
	height := 8
	if p.lcdc&lcdcObjSize != 0 {
		height = 16
	}
	var out []spriteEntry
	for i := 0; i < 40; i++ {
		base := i * 4
		y := int(p.oam[base]) - 16
		x := int(p.oam[base+1]) - 8
		tile := p.oam[base+2]
		attr := p.oam[base+3]
		if y <= -height || y >= ScreenHeight || x <= -8 || x >= ScreenWidth {
			continue
		}
		out = append(out, spriteEntry{y: y, x: x, tile: tile, attr: attr, oamIndex: i})
	}
	// Sort descending by (x, index) so the draw loop below, which simply
	// overwrites, leaves the lowest x and lowest index on top, per the
	// sprite-priority rule.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].x != out[j].x {
			return out[i].x > out[j].x
		}
		return out[i].oamIndex > out[j].oamIndex
	})
	return out
}

func (p *PPU) drawSprites(sprites []spriteEntry) {
	height := 8
	if p.lcdc&lcdcObjSize != 0 {
		height = 16
	}

	for _, s := range sprites {
		palette := p.obp0
		if s.attr&0x10 != 0 {
			palette = p.obp1
		}
		vflip := s.attr&0x40 != 0
		hflip := s.attr&0x20 != 0

		tile := s.tile
		if height == 16 {
			tile &^= 0x01
		}

		for row := 0; row < height; row++ {
			py := s.y + row
			if py < 0 || py >= ScreenHeight {
				continue
			}
			srcRow := row
			if vflip {
				srcRow = height - 1 - row
			}
			t := tile
			rowInTile := srcRow
			if height == 16 && srcRow >= 8 {
				t = tile | 0x01
				rowInTile = srcRow - 8
			}
			tileAddr := 0x8000 + uint16(t)*16

			for col := 0; col < 8; col++ {
				px := s.x + col
				if px < 0 || px >= ScreenWidth {
					continue
				}
				srcCol := col
				if hflip {
					srcCol = 7 - col
				}
				colorIndex := p.tilePixel(tileAddr, rowInTile, srcCol)
				if colorIndex == 0 {
					continue // transparent
				}
				p.framebuffer[py][px] = applyPalette(palette, colorIndex)
			}
		}
	}
}
