// Package joypad implements the button matrix at FF00, grounded on the
// teacher's Input/SMSIO split (emu/io.go): raw button state lives here as
// plain fields, and the bus-visible byte is synthesized on read from that
// state plus the select latch, the way readPortDD synthesizes a port byte
// from Input plus ioControl.
package joypad

// Buttons is the frontend-facing, active-high snapshot of button state
// for one poll_input() call.
type Buttons struct {
	Right, Left, Up, Down   bool
	A, B, Select, Start bool
}

// Joypad holds the active-low direction/button nibbles and the FF00
// select latch.
type Joypad struct {
	directions uint8 // active-low: bit0 right, bit1 left, bit2 up, bit3 down
	buttons    uint8 // active-low: bit0 A, bit1 B, bit2 select, bit3 start

	selectDirections bool
	selectButtons    bool

	lastExposed uint8
}

func New() *Joypad {
	return &Joypad{directions: 0x0F, buttons: 0x0F, lastExposed: 0x0F}
}

// SetButtons applies a full button snapshot and reports whether any bit
// transitioned (pressed<->released), which sets IF bit 4 regardless of
// which nibble is currently selected.
func (j *Joypad) SetButtons(b Buttons) (interrupt bool) {
	newDirections := packActiveLow(b.Right, b.Left, b.Up, b.Down)
	newButtons := packActiveLow(b.A, b.B, b.Select, b.Start)

	interrupt = newDirections != j.directions || newButtons != j.buttons
	j.directions = newDirections
	j.buttons = newButtons
	j.lastExposed = j.exposed()
	return interrupt
}

func packActiveLow(bit0, bit1, bit2, bit3 bool) uint8 {
	v := uint8(0x0F)
	if bit0 {
		v &^= 0x01
	}
	if bit1 {
		v &^= 0x02
	}
	if bit2 {
		v &^= 0x04
	}
	if bit3 {
		v &^= 0x08
	}
	return v
}

// exposed computes the nibble FF00 currently shows: both groups may be
// selected simultaneously, in which case the results OR (active-low AND
// hardware-wise, which is an OR of the inverted bits — equivalently the
// bitwise AND of the two active-low nibbles).
func (j *Joypad) exposed() uint8 {
	v := uint8(0x0F)
	if j.selectDirections {
		v &= j.directions
	}
	if j.selectButtons {
		v &= j.buttons
	}
	return v
}

// Read returns the FF00 register value: select bits in 5-4 as last
// written (0 = that group selected) and the exposed nibble in bits 3-0.
func (j *Joypad) Read() uint8 {
	v := uint8(0xC0) // bits 6-7 unused, always read high
	if !j.selectDirections {
		v |= 0x10
	}
	if !j.selectButtons {
		v |= 0x20
	}
	v |= j.exposed()
	return v
}

// Write applies the select nibble from a write to FF00.
func (j *Joypad) Write(v uint8) {
	j.selectDirections = v&0x10 == 0
	j.selectButtons = v&0x20 == 0
}

// State is the serializable snapshot of the button matrix.
type State struct {
	Directions, Buttons                   uint8
	SelectDirections, SelectButtons       bool
	LastExposed                           uint8
}

func (j *Joypad) Snapshot() State {
	return State{
		Directions: j.directions, Buttons: j.buttons,
		SelectDirections: j.selectDirections, SelectButtons: j.selectButtons,
		LastExposed: j.lastExposed,
	}
}

func (j *Joypad) Restore(s State) {
	j.directions, j.buttons = s.Directions, s.Buttons
	j.selectDirections, j.selectButtons = s.SelectDirections, s.SelectButtons
	j.lastExposed = s.LastExposed
}
