package joypad

import "testing"

func TestSelectNibbleOring(t *testing.T) {
	j := New()
	j.SetButtons(Buttons{Right: true, A: true})
	j.Write(0x00) // select both nibbles
	got := j.Read() & 0x0F
	// Right (bit0) and A (bit0) are both pressed, so bit0 clears; the
	// rest stay set.
	if got != 0x0E {
		t.Fatalf("exposed nibble = %#04b, want 0x0E", got)
	}
}

func TestDirectionsOnlySelected(t *testing.T) {
	j := New()
	j.SetButtons(Buttons{Right: true, A: true})
	j.Write(0x20) // select directions only (bit 4 clear)
	got := j.Read() & 0x0F
	if got != 0x0E {
		t.Fatalf("direction nibble = %#04b, want 0x0E (right pressed)", got)
	}
}

func TestTransitionSetsInterrupt(t *testing.T) {
	j := New()
	j.Write(0x00)
	if interrupt := j.SetButtons(Buttons{}); interrupt {
		t.Fatal("no transition expected on first no-op update")
	}
	if interrupt := j.SetButtons(Buttons{Start: true}); !interrupt {
		t.Fatal("expected interrupt on press transition")
	}
	if interrupt := j.SetButtons(Buttons{Start: true}); interrupt {
		t.Fatal("no interrupt expected when state is unchanged")
	}
	if interrupt := j.SetButtons(Buttons{}); !interrupt {
		t.Fatal("expected interrupt on release transition")
	}
}
