// Package cpu implements the Sharp LR35902 instruction decoder and
// executor: register file, opcode dispatch, flag semantics, and the
// interrupt service routine. Opcodes decode once into a precomputed table
// of enum variants (decode.go); execute (execute.go) is the single
// exhaustive switch over that table and returns each instruction's cycle
// cost directly, matching the teacher's own Step()-returns-cycles shape
// in spirit while replacing its wrapped external Z80 core with
// LR35902-native semantics.
package cpu

import (
	"github.com/user-none/gbcore/internal/gberr"
	"github.com/user-none/gbcore/internal/register"
)

// CPU holds the full architectural state described by the data model:
// eight 8-bit registers, the SP/PC pair, IME, halted/stopped, and the
// one-instruction EI delay counter.
type CPU struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8
	SP, PC uint16

	IME     bool
	Halted  bool
	Stopped bool

	// pendingEI counts down to 0 after EI executes; IME becomes true the
	// instant it reaches 0, i.e. before the instruction following EI runs.
	pendingEI uint8
}

// New returns a CPU in the post-bootrom register state (bootstrap ROM
// emulation is out of scope; programs start as if the bootrom already ran).
func New() *CPU {
	return &CPU{
		A: 0x01, F: 0xB0,
		B: 0x00, C: 0x13,
		D: 0x00, E: 0xD8,
		H: 0x01, L: 0x4D,
		SP: 0xFFFE,
		PC: 0x0100,
	}
}

func (c *CPU) bc() register.Pair { return register.Pair{Hi: &c.B, Lo: &c.C} }
func (c *CPU) de() register.Pair { return register.Pair{Hi: &c.D, Lo: &c.E} }
func (c *CPU) hl() register.Pair { return register.Pair{Hi: &c.H, Lo: &c.L} }
func (c *CPU) af() register.MaskedPair {
	return register.MaskedPair{Hi: &c.A, Lo: &c.F, Mask: 0xF0}
}

// getRegPairSP resolves p in {BC,DE,HL,SP}, used by LD rr,nn / INC rr / DEC rr
// / ADD HL,rr.
func (c *CPU) getRegPairSP(p uint8) uint16 {
	switch p {
	case 0:
		return c.bc().Get()
	case 1:
		return c.de().Get()
	case 2:
		return c.hl().Get()
	default:
		return c.SP
	}
}

func (c *CPU) setRegPairSP(p uint8, v uint16) {
	switch p {
	case 0:
		c.bc().Set(v)
	case 1:
		c.de().Set(v)
	case 2:
		c.hl().Set(v)
	default:
		c.SP = v
	}
}

// getRegPairAF resolves p in {BC,DE,HL,AF}, used by PUSH/POP.
func (c *CPU) getRegPairAF(p uint8) uint16 {
	if p == 3 {
		return c.af().Get()
	}
	return c.getRegPairSP(p)
}

func (c *CPU) setRegPairAF(p uint8, v uint16) {
	if p == 3 {
		c.af().Set(v)
		return
	}
	c.setRegPairSP(p, v)
}

// reg8 resolves the r[z] sequence B,C,D,E,H,L,(HL),A. Index 6, (HL), goes
// through the bus and costs +4 cycles in the caller's cost table.
func (c *CPU) reg8Get(bus Bus, idx uint8) uint8 {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return bus.Read(c.hl().Get())
	default:
		return c.A
	}
}

func (c *CPU) reg8Set(bus Bus, idx uint8, v uint8) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		bus.Write(c.hl().Get(), v)
	default:
		c.A = v
	}
}

func (c *CPU) fetch8(bus Bus) uint8 {
	v := bus.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16(bus Bus) uint16 {
	lo := c.fetch8(bus)
	hi := c.fetch8(bus)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(bus Bus, v uint16) {
	c.SP--
	bus.Write(c.SP, uint8(v>>8))
	c.SP--
	bus.Write(c.SP, uint8(v))
}

func (c *CPU) pop16(bus Bus) uint16 {
	lo := bus.Read(c.SP)
	c.SP++
	hi := bus.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

func checkCond(f uint8, cc uint8) bool {
	switch cc {
	case condNZ:
		return !flagSet(f, register.FlagZ)
	case condZ:
		return flagSet(f, register.FlagZ)
	case condNC:
		return !flagSet(f, register.FlagC)
	default:
		return flagSet(f, register.FlagC)
	}
}

// Step executes one instruction, or idles 4 cycles while halted, and
// returns the elapsed machine cycles. ie/iflags are the interrupt lines
// as they stood at the end of the previous step; a halted CPU watches
// them to know when to wake, independent of IME.
func (c *CPU) Step(bus Bus, ie, iflags uint8) (int, error) {
	if c.pendingEI > 0 {
		c.pendingEI--
		if c.pendingEI == 0 {
			c.IME = true
		}
	}

	if c.Halted {
		if ie&iflags&0x1F != 0 {
			c.Halted = false
		}
		return 4, nil
	}

	opcode := c.fetch8(bus)
	instr := baseTable[opcode]

	if instr.Kind == kindCB {
		cbOp := c.fetch8(bus)
		cbInstr := cbTable[cbOp]
		cycles := c.executeCB(bus, cbInstr)
		return cycles, nil
	}

	if instr.Kind == kindInvalid {
		return 0, c.invalidOpcodeError(opcode, false)
	}

	return c.execute(bus, instr, opcode, ie, iflags)
}

// ServiceInterrupt implements §4.1's interrupt service algorithm. The
// caller (System) owns IE/IF storage and clears the serviced bit itself
// when bit >= 0, matching the "narrow interrupt sink" design preference
// over a CPU-held bus back-pointer.
func (c *CPU) ServiceInterrupt(bus Bus, ie, iflags uint8) (bit int, cycles int) {
	pending := ie & iflags & 0x1F
	if pending == 0 {
		return -1, 0
	}
	// halted must always clear on a pending interrupt, serviced or not.
	c.Halted = false
	if !c.IME {
		return -1, 0
	}

	for i := 0; i < 5; i++ {
		if pending&(1<<uint(i)) != 0 {
			c.IME = false
			c.push16(bus, c.PC)
			c.PC = 0x0040 + 8*uint16(i)
			return i, 20
		}
	}
	return -1, 0
}

func (c *CPU) invalidOpcodeError(opcode uint8, prefix bool) error {
	return &gberr.InvalidOpcode{
		Opcode: opcode, Prefix: prefix, PC: c.PC - 1,
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L, SP: c.SP,
	}
}
