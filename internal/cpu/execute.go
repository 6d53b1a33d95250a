package cpu

import "github.com/user-none/gbcore/internal/register"

// execute dispatches a decoded base-page instruction. opcode is passed
// through only for the invalid-opcode error report.
func (c *CPU) execute(bus Bus, instr Instruction, opcode uint8, ie, iflags uint8) (int, error) {
	switch instr.Kind {
	case kindNOP:
		return 4, nil

	case kindLD_R_R:
		v := c.reg8Get(bus, instr.Z)
		c.reg8Set(bus, instr.Y, v)
		if instr.Y == 6 || instr.Z == 6 {
			return 8, nil
		}
		return 4, nil

	case kindLD_R_N:
		n := c.fetch8(bus)
		c.reg8Set(bus, instr.Y, n)
		if instr.Y == 6 {
			return 12, nil
		}
		return 8, nil

	case kindHALT:
		// §4.1: IME=1 halts normally. IME=0 with a pending interrupt already
		// latched (IE&IF nonzero) triggers the HALT bug, approximated here
		// as skipping the byte after HALT instead of actually halting.
		// IME=0 with nothing pending halts normally.
		switch {
		case c.IME:
			c.Halted = true
		case ie&iflags&0x1F != 0:
			c.PC++
		default:
			c.Halted = true
		}
		return 4, nil

	case kindRLCA:
		carry := c.A&0x80 != 0
		c.A = c.A<<1 | b2u8(carry)
		setZNHC(&c.F, false, false, false, carry)
		return 4, nil

	case kindRRCA:
		carry := c.A&0x01 != 0
		c.A = c.A>>1 | b2u8(carry)<<7
		setZNHC(&c.F, false, false, false, carry)
		return 4, nil

	case kindRLA:
		carry := c.A&0x80 != 0
		oldCarry := flagSet(c.F, register.FlagC)
		c.A = c.A<<1 | b2u8(oldCarry)
		setZNHC(&c.F, false, false, false, carry)
		return 4, nil

	case kindRRA:
		carry := c.A&0x01 != 0
		oldCarry := flagSet(c.F, register.FlagC)
		c.A = c.A>>1 | b2u8(oldCarry)<<7
		setZNHC(&c.F, false, false, false, carry)
		return 4, nil

	case kindDAA:
		c.execDAA()
		return 4, nil

	case kindCPL:
		c.A = ^c.A
		register.SetFlags(&c.F, flagSet(c.F, register.FlagZ), true, true, flagSet(c.F, register.FlagC))
		return 4, nil

	case kindSCF:
		register.SetFlags(&c.F, flagSet(c.F, register.FlagZ), false, false, true)
		return 4, nil

	case kindCCF:
		register.SetFlags(&c.F, flagSet(c.F, register.FlagZ), false, false, !flagSet(c.F, register.FlagC))
		return 4, nil

	case kindJR:
		disp := int8(c.fetch8(bus))
		c.PC = uint16(int32(c.PC) + int32(disp))
		return 12, nil

	case kindJR_CC:
		disp := int8(c.fetch8(bus))
		if checkCond(c.F, instr.Y) {
			c.PC = uint16(int32(c.PC) + int32(disp))
			return 12, nil
		}
		return 8, nil

	case kindLD_RR_NN:
		c.setRegPairSP(instr.P, c.fetch16(bus))
		return 12, nil

	case kindADD_HL_RR:
		hl := c.hl().Get()
		rr := c.getRegPairSP(instr.P)
		sum := uint32(hl) + uint32(rr)
		h := (hl&0x0FFF)+(rr&0x0FFF) > 0x0FFF
		cOut := sum > 0xFFFF
		c.hl().Set(uint16(sum))
		register.SetFlags(&c.F, flagSet(c.F, register.FlagZ), false, h, cOut)
		return 8, nil

	case kindLD_BC_A:
		bus.Write(c.bc().Get(), c.A)
		return 8, nil
	case kindLD_DE_A:
		bus.Write(c.de().Get(), c.A)
		return 8, nil
	case kindLD_A_BC:
		c.A = bus.Read(c.bc().Get())
		return 8, nil
	case kindLD_A_DE:
		c.A = bus.Read(c.de().Get())
		return 8, nil
	case kindLD_HLI_A:
		hl := c.hl()
		bus.Write(hl.Get(), c.A)
		hl.Set(hl.Get() + 1)
		return 8, nil
	case kindLD_HLD_A:
		hl := c.hl()
		bus.Write(hl.Get(), c.A)
		hl.Set(hl.Get() - 1)
		return 8, nil
	case kindLD_A_HLI:
		hl := c.hl()
		c.A = bus.Read(hl.Get())
		hl.Set(hl.Get() + 1)
		return 8, nil
	case kindLD_A_HLD:
		hl := c.hl()
		c.A = bus.Read(hl.Get())
		hl.Set(hl.Get() - 1)
		return 8, nil

	case kindINC_RR:
		c.setRegPairSP(instr.P, c.getRegPairSP(instr.P)+1)
		return 8, nil
	case kindDEC_RR:
		c.setRegPairSP(instr.P, c.getRegPairSP(instr.P)-1)
		return 8, nil

	case kindINC_R:
		v := c.reg8Get(bus, instr.Y)
		result := v + 1
		c.reg8Set(bus, instr.Y, result)
		register.SetFlags(&c.F, result == 0, false, v&0x0F == 0x0F, flagSet(c.F, register.FlagC))
		if instr.Y == 6 {
			return 12, nil
		}
		return 4, nil

	case kindDEC_R:
		v := c.reg8Get(bus, instr.Y)
		result := v - 1
		c.reg8Set(bus, instr.Y, result)
		register.SetFlags(&c.F, result == 0, true, v&0x0F == 0x00, flagSet(c.F, register.FlagC))
		if instr.Y == 6 {
			return 12, nil
		}
		return 4, nil

	case kindLD_NN_SP:
		addr := c.fetch16(bus)
		bus.Write(addr, uint8(c.SP))
		bus.Write(addr+1, uint8(c.SP>>8))
		return 20, nil

	case kindALU_R:
		v := c.reg8Get(bus, instr.Z)
		c.aluOp(instr.Y, v)
		if instr.Z == 6 {
			return 8, nil
		}
		return 4, nil

	case kindALU_N:
		v := c.fetch8(bus)
		c.aluOp(instr.Y, v)
		return 8, nil

	case kindRET_CC:
		if checkCond(c.F, instr.Y) {
			c.PC = c.pop16(bus)
			return 20, nil
		}
		return 8, nil

	case kindRET:
		c.PC = c.pop16(bus)
		return 16, nil

	case kindRETI:
		c.PC = c.pop16(bus)
		c.IME = true
		return 16, nil

	case kindPOP_RR:
		c.setRegPairAF(instr.P, c.pop16(bus))
		return 12, nil

	case kindJP_CC:
		addr := c.fetch16(bus)
		if checkCond(c.F, instr.Y) {
			c.PC = addr
			return 16, nil
		}
		return 12, nil

	case kindJP:
		c.PC = c.fetch16(bus)
		return 16, nil

	case kindJP_HL:
		c.PC = c.hl().Get()
		return 4, nil

	case kindCALL_CC:
		addr := c.fetch16(bus)
		if checkCond(c.F, instr.Y) {
			c.push16(bus, c.PC)
			c.PC = addr
			return 24, nil
		}
		return 12, nil

	case kindCALL:
		addr := c.fetch16(bus)
		c.push16(bus, c.PC)
		c.PC = addr
		return 24, nil

	case kindPUSH_RR:
		c.push16(bus, c.getRegPairAF(instr.P))
		return 16, nil

	case kindRST:
		c.push16(bus, c.PC)
		c.PC = uint16(instr.Y) * 8
		return 16, nil

	case kindDI:
		c.IME = false
		c.pendingEI = 0
		return 4, nil

	case kindEI:
		c.pendingEI = 1
		return 4, nil

	case kindLDH_N_A:
		n := c.fetch8(bus)
		bus.Write(0xFF00+uint16(n), c.A)
		return 12, nil

	case kindLDH_A_N:
		n := c.fetch8(bus)
		c.A = bus.Read(0xFF00 + uint16(n))
		return 12, nil

	case kindLDH_C_A:
		bus.Write(0xFF00+uint16(c.C), c.A)
		return 8, nil

	case kindLDH_A_C:
		c.A = bus.Read(0xFF00 + uint16(c.C))
		return 8, nil

	case kindLD_NN_A:
		addr := c.fetch16(bus)
		bus.Write(addr, c.A)
		return 16, nil

	case kindLD_A_NN:
		addr := c.fetch16(bus)
		c.A = bus.Read(addr)
		return 16, nil

	case kindADD_SP_R8:
		disp := int8(c.fetch8(bus))
		result, h, cOut := addSPSigned(c.SP, disp)
		c.SP = result
		register.SetFlags(&c.F, false, false, h, cOut)
		return 16, nil

	case kindLD_HL_SPR8:
		disp := int8(c.fetch8(bus))
		result, h, cOut := addSPSigned(c.SP, disp)
		c.hl().Set(result)
		register.SetFlags(&c.F, false, false, h, cOut)
		return 12, nil

	case kindLD_SP_HL:
		c.SP = c.hl().Get()
		return 8, nil

	case kindSTOP:
		c.fetch8(bus) // the documented (and commonly skipped) second byte
		c.Stopped = true
		return 4, nil

	default:
		return 0, c.invalidOpcodeError(opcode, false)
	}
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// aluOp implements the eight ALU operations shared by ALU r and ALU n
// forms (x=2 and x=3,z=6), grounded on the shared-helper-function shape
// from oisee-z80-optimizer's execAdd/execSub/... family, narrowed to the
// four LR35902 flags.
func (c *CPU) aluOp(op uint8, v uint8) {
	switch op {
	case aluADD:
		result, z, h, cOut := add8(c.A, v, false)
		c.A = result
		register.SetFlags(&c.F, z, false, h, cOut)
	case aluADC:
		result, z, h, cOut := add8(c.A, v, flagSet(c.F, register.FlagC))
		c.A = result
		register.SetFlags(&c.F, z, false, h, cOut)
	case aluSUB:
		result, z, h, cOut := sub8(c.A, v, false)
		c.A = result
		register.SetFlags(&c.F, z, true, h, cOut)
	case aluSBC:
		result, z, h, cOut := sub8(c.A, v, flagSet(c.F, register.FlagC))
		c.A = result
		register.SetFlags(&c.F, z, true, h, cOut)
	case aluAND:
		c.A &= v
		register.SetFlags(&c.F, c.A == 0, false, true, false)
	case aluXOR:
		c.A ^= v
		register.SetFlags(&c.F, c.A == 0, false, false, false)
	case aluOR:
		c.A |= v
		register.SetFlags(&c.F, c.A == 0, false, false, false)
	case aluCP:
		_, z, h, cOut := sub8(c.A, v, false)
		register.SetFlags(&c.F, z, true, h, cOut)
	}
}

// execDAA adjusts A after BCD add/sub, per the classic algorithm also
// found (independently re-derived) in thelolagemann-gomeboy's decoder:
// the correction depends on N, and on whether H or a >9 nibble (for add)
// indicates a decimal carry occurred.
func (c *CPU) execDAA() {
	n := flagSet(c.F, register.FlagN)
	h := flagSet(c.F, register.FlagH)
	carry := flagSet(c.F, register.FlagC)
	adjust := uint8(0)
	newCarry := carry

	if n {
		if h {
			adjust += 0x06
		}
		if carry {
			adjust += 0x60
		}
		c.A -= adjust
	} else {
		if h || c.A&0x0F > 0x09 {
			adjust += 0x06
		}
		if carry || c.A > 0x99 {
			adjust += 0x60
			newCarry = true
		}
		c.A += adjust
	}

	register.SetFlags(&c.F, c.A == 0, n, false, newCarry)
}

// executeCB dispatches the CB-prefixed page: rotates/shifts, BIT, RES, SET.
func (c *CPU) executeCB(bus Bus, instr Instruction) int {
	mem := instr.Z == 6
	switch instr.Kind {
	case kindCB_ROT:
		v := c.reg8Get(bus, instr.Z)
		result, carry := cbRotate(instr.Y, v, flagSet(c.F, register.FlagC))
		c.reg8Set(bus, instr.Z, result)
		register.SetFlags(&c.F, result == 0, false, false, carry)
	case kindCB_BIT:
		v := c.reg8Get(bus, instr.Z)
		bit := v&(1<<instr.Y) != 0
		register.SetFlags(&c.F, !bit, false, true, flagSet(c.F, register.FlagC))
		if mem {
			return 12
		}
		return 8
	case kindCB_RES:
		v := c.reg8Get(bus, instr.Z)
		c.reg8Set(bus, instr.Z, v&^(1<<instr.Y))
	case kindCB_SET:
		v := c.reg8Get(bus, instr.Z)
		c.reg8Set(bus, instr.Z, v|(1<<instr.Y))
	}
	if mem {
		return 16
	}
	return 8
}

// cbRotate implements the eight CB-page rotate/shift variants selected by
// y: RLC, RRC, RL, RR, SLA, SRA, SWAP, SRL.
func cbRotate(y uint8, v uint8, oldCarry bool) (result uint8, carry bool) {
	switch y {
	case rotRLC:
		carry = v&0x80 != 0
		result = v<<1 | b2u8(carry)
	case rotRRC:
		carry = v&0x01 != 0
		result = v>>1 | b2u8(carry)<<7
	case rotRL:
		carry = v&0x80 != 0
		result = v<<1 | b2u8(oldCarry)
	case rotRR:
		carry = v&0x01 != 0
		result = v>>1 | b2u8(oldCarry)<<7
	case rotSLA:
		carry = v&0x80 != 0
		result = v << 1
	case rotSRA:
		carry = v&0x01 != 0
		result = v&0x80 | v>>1
	case rotSWAP:
		result = v<<4 | v>>4
		carry = false
	default: // rotSRL
		carry = v&0x01 != 0
		result = v >> 1
	}
	return
}
