package timer

import "testing"

func TestTimerOverflowReloadsAndSignalsInterrupt(t *testing.T) {
	tm := New()
	tm.WriteTAC(0x05) // enabled, period 16
	tm.WriteTMA(0xAB)
	tm.WriteTIMA(0xFF)

	interrupted := false
	for i := 0; i < 32; i++ {
		if tm.Step(1) {
			interrupted = true
		}
	}

	if !interrupted {
		t.Fatal("expected a TIMA overflow interrupt within 32 dots")
	}
	if got := tm.ReadTIMA(); got != 0xAB {
		t.Fatalf("TIMA = %#x, want 0xAB", got)
	}
}

func TestDivWriteResetsFullCounter(t *testing.T) {
	tm := New()
	tm.Step(1000)
	if tm.ReadDIV() == 0 {
		t.Fatal("DIV should have advanced")
	}
	tm.WriteDIV(0x42) // value is ignored; any write resets to 0
	if tm.ReadDIV() != 0 {
		t.Fatalf("DIV after write = %#x, want 0", tm.ReadDIV())
	}
}

func TestTIMAReadsZeroDuringReloadWindow(t *testing.T) {
	tm := New()
	tm.WriteTAC(0x05)
	tm.WriteTIMA(0xFF)
	for i := 0; i < 16; i++ {
		tm.Step(1)
	}
	if got := tm.ReadTIMA(); got != 0 {
		t.Fatalf("TIMA during reload window = %#x, want 0", got)
	}
}
