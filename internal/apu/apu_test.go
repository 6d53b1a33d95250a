package apu

import "testing"

func TestReadWriteRegisterFile(t *testing.T) {
	a := New()
	a.Write(0xFF10, 0x80)
	a.Write(0xFF26, 0xF1)
	if got := a.Read(0xFF10); got != 0x80 {
		t.Errorf("Read(0xFF10) = %#02x, want 0x80", got)
	}
	if got := a.Read(0xFF26); got != 0xF1 {
		t.Errorf("Read(0xFF26) = %#02x, want 0xF1", got)
	}
}

func TestReadWriteWaveRAM(t *testing.T) {
	a := New()
	a.Write(0xFF30, 0x12)
	a.Write(0xFF3F, 0x34)
	if got := a.Read(0xFF30); got != 0x12 {
		t.Errorf("Read(0xFF30) = %#02x, want 0x12", got)
	}
	if got := a.Read(0xFF3F); got != 0x34 {
		t.Errorf("Read(0xFF3F) = %#02x, want 0x34", got)
	}
}

func TestReadOutsideRangeReturnsFF(t *testing.T) {
	a := New()
	if got := a.Read(0xFF27); got != 0xFF {
		t.Errorf("Read(0xFF27) = %#02x, want 0xFF", got)
	}
}

func TestWriteOutsideRangeIsIgnored(t *testing.T) {
	a := New()
	a.Write(0xFF27, 0x55)
	if got := a.Read(0xFF27); got != 0xFF {
		t.Errorf("Read(0xFF27) = %#02x after out-of-range write, want 0xFF", got)
	}
}

func TestRegistersAndWaveRAMRoundTrip(t *testing.T) {
	a := New()
	a.Write(0xFF11, 0x3F)
	a.Write(0xFF31, 0xAB)

	regs := a.Registers()
	wave := a.WaveRAM()

	b := New()
	b.RestoreRegisters(regs)
	b.RestoreWaveRAM(wave)

	if got := b.Read(0xFF11); got != 0x3F {
		t.Errorf("restored Read(0xFF11) = %#02x, want 0x3F", got)
	}
	if got := b.Read(0xFF31); got != 0xAB {
		t.Errorf("restored Read(0xFF31) = %#02x, want 0xAB", got)
	}
}

func TestFillSilence(t *testing.T) {
	out := []int16{1, 2, 3, 4}
	FillSilence(out)
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %d, want 0", i, v)
		}
	}
}
