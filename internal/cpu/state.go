package cpu

// State is the serializable snapshot of CPU architectural state.
type State struct {
	A, F       uint8
	B, C       uint8
	D, E       uint8
	H, L       uint8
	SP, PC     uint16
	IME        bool
	Halted     bool
	Stopped    bool
	PendingEI  uint8
}

func (c *CPU) Snapshot() State {
	return State{
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		SP: c.SP, PC: c.PC,
		IME: c.IME, Halted: c.Halted, Stopped: c.Stopped,
		PendingEI: c.pendingEI,
	}
}

func (c *CPU) Restore(s State) {
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L
	c.SP, c.PC = s.SP, s.PC
	c.IME, c.Halted, c.Stopped = s.IME, s.Halted, s.Stopped
	c.pendingEI = s.PendingEI
}
