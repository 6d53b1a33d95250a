package ppu

import "testing"

func TestModeSequenceOverOneScanline(t *testing.T) {
	p := New()
	p.WriteReg(0xFF40, lcdcDisplayOn)
	if p.mode != ModeOAM {
		t.Fatalf("initial mode = %d, want OAM", p.mode)
	}
	p.Step(oamDots - 1)
	if p.mode != ModeOAM {
		t.Fatalf("mode before OAM scan ends = %d, want OAM", p.mode)
	}
	p.Step(1)
	if p.mode != ModeXfer {
		t.Fatalf("mode after OAM scan = %d, want Xfer", p.mode)
	}
	p.Step(transferDots)
	if p.mode != ModeHBlank {
		t.Fatalf("mode after transfer = %d, want HBlank", p.mode)
	}
}

func TestVBlankInterruptFiresOnceEnteringLine144(t *testing.T) {
	p := New()
	p.WriteReg(0xFF40, lcdcDisplayOn)
	p.WriteReg(0xFF41, statIRQMode1)

	// Advance through scanlines 0..142 (143 full scanlines), landing at
	// the start of line 143, the last visible line.
	for line := 0; line < visibleLines-1; line++ {
		vb, _ := p.Step(dotsPerScanline)
		if vb {
			t.Fatalf("unexpected V-blank interrupt at line %d", line)
		}
	}
	if p.ly != visibleLines-1 {
		t.Fatalf("ly = %d, want %d", p.ly, visibleLines-1)
	}

	// Finish line 143 except for its last dot.
	if vb, _ := p.Step(dotsPerScanline - 1); vb {
		t.Fatal("unexpected V-blank interrupt before line 143 completes")
	}

	vb, _ := p.Step(1)
	if !vb {
		t.Fatal("expected V-blank interrupt on entering line 144")
	}
	if !p.FrameReady() {
		t.Fatal("expected a completed frame at V-blank entry")
	}
}

func TestOAMGatedDuringOAMScanAndTransfer(t *testing.T) {
	p := New()
	p.WriteReg(0xFF40, lcdcDisplayOn)
	p.WriteOAM(0xFE00, 0x11) // mode is OAM at reset; gated, write dropped
	if got := p.ReadOAM(0xFE00); got == 0x11 {
		t.Fatal("OAM write during mode 2 should have been dropped")
	}
	p.Step(oamDots) // now in pixel transfer
	p.WriteOAM(0xFE00, 0x33)
	if got := p.ReadOAM(0xFE00); got == 0x33 {
		t.Fatal("OAM write during mode 3 should have been dropped")
	}
	p.Step(transferDots + 1) // now in H-blank
	p.WriteOAM(0xFE00, 0x22)
	if got := p.ReadOAM(0xFE00); got != 0x22 {
		t.Fatalf("OAM write during H-blank should succeed, got %#x", got)
	}
}

func TestWindowLineTracksDrawnScanlinesAndResetsPerFrame(t *testing.T) {
	p := New()
	p.WriteReg(0xFF40, lcdcDisplayOn|lcdcBGEnable|lcdcWindowEnable)
	p.WriteReg(0xFF4A, 100) // WY: window starts at screen line 100
	p.WriteReg(0xFF4B, 7)   // WX=7 -> window's own column 0 sits at screen x=0

	p.renderFrame()
	wantLines := int32(ScreenHeight - 100)
	if got := p.Snapshot().WindowLine; got != wantLines {
		t.Fatalf("windowLine after first frame = %d, want %d", got, wantLines)
	}

	// restartDisplay resets the counter (as V-blank entry also does), so
	// the next frame's window starts back at its own row 0 instead of
	// continuing to climb.
	p.restartDisplay()
	p.renderFrame()
	if got := p.Snapshot().WindowLine; got != wantLines {
		t.Fatalf("windowLine after second frame = %d, want %d (counter should restart from 0 each frame)", got, wantLines)
	}
}

func TestSpritePriorityLowerIndexWins(t *testing.T) {
	p := New()
	p.WriteReg(0xFF40, lcdcDisplayOn|lcdcObjEnable)
	p.WriteReg(0xFF48, 0xE4) // OBP0 identity-ish palette (attr 0 selects OBP0)

	// Two overlapping sprites at the same position: index 3 and index 7.
	writeSprite := func(i int, tile uint8) {
		base := i * 4
		p.oam[base] = 32     // y+16 offset -> screen y=16
		p.oam[base+1] = 16   // x+8 offset -> screen x=8
		p.oam[base+2] = tile
		p.oam[base+3] = 0x00
	}
	// tile 1 has a distinct top-left pixel pattern (color index 1).
	p.vram[0x10] = 0x80
	p.vram[0x11] = 0x00
	// tile 2 has color index 2 at top-left.
	p.vram[0x20] = 0x00
	p.vram[0x21] = 0x80

	writeSprite(3, 1)
	writeSprite(7, 2)

	p.renderFrame()
	if got := p.framebuffer[16][8]; got != applyPalette(p.obp0, 1) {
		t.Fatalf("pixel = %d, want sprite index 3's color (lower index wins)", got)
	}
}
