package cpu

// opKind names an instruction family. The fields (y, z, p, q) carried
// alongside it in Instruction select the specific registers/condition for
// that family, following the Z80 decoding convention from the published
// opcode tables: x = bits 7-6, y = bits 5-3, z = bits 2-0, p = bits 5-4,
// q = bit 3.
type opKind uint8

const (
	kindInvalid opKind = iota
	kindNOP
	kindLD_R_R
	kindLD_R_N
	kindHALT
	kindRLCA
	kindRRCA
	kindRLA
	kindRRA
	kindDAA
	kindCPL
	kindSCF
	kindCCF
	kindJR
	kindJR_CC
	kindLD_RR_NN
	kindADD_HL_RR
	kindLD_BC_A
	kindLD_DE_A
	kindLD_A_BC
	kindLD_A_DE
	kindLD_HLI_A
	kindLD_HLD_A
	kindLD_A_HLI
	kindLD_A_HLD
	kindINC_RR
	kindDEC_RR
	kindINC_R
	kindDEC_R
	kindINC_SP
	kindDEC_SP
	kindLD_NN_SP
	kindALU_R
	kindALU_N
	kindRET_CC
	kindRET
	kindRETI
	kindPOP_RR
	kindJP_CC
	kindJP
	kindJP_HL
	kindCALL_CC
	kindCALL
	kindPUSH_RR
	kindRST
	kindDI
	kindEI
	kindLDH_N_A
	kindLDH_A_N
	kindLDH_C_A
	kindLDH_A_C
	kindLD_NN_A
	kindLD_A_NN
	kindADD_SP_R8
	kindLD_HL_SPR8
	kindLD_SP_HL
	kindSTOP
	kindCB
	// CB page
	kindCB_ROT // RLC/RRC/RL/RR/SLA/SRA/SWAP/SRL, selected by y
	kindCB_BIT
	kindCB_RES
	kindCB_SET
)

// cbRot names the eight CB-page rotate/shift operations selected by y.
const (
	rotRLC = iota
	rotRRC
	rotRL
	rotRR
	rotSLA
	rotSRA
	rotSWAP
	rotSRL
)

// aluOp names the eight x=2/x=3,z=6 ALU operations selected by y.
const (
	aluADD = iota
	aluADC
	aluSUB
	aluSBC
	aluAND
	aluXOR
	aluOR
	aluCP
)

// cond names the four branch conditions selected by y&3 in conditional
// forms (NZ, Z, NC, C).
const (
	condNZ = iota
	condZ
	condNC
	condC
)

// Instruction is the decoded, precomputed form of one opcode byte. The
// decode table below is built once at package init and never mutated
// afterwards; execute dispatches on Kind with a single exhaustive switch.
type Instruction struct {
	Kind opKind
	Y, Z, P, Q uint8
}

var baseTable [256]Instruction
var cbTable [256]Instruction

func init() {
	for op := 0; op < 256; op++ {
		baseTable[op] = decodeBase(uint8(op))
		cbTable[op] = decodeCB(uint8(op))
	}
}

func fields(op uint8) (x, y, z, p, q uint8) {
	x = op >> 6
	y = (op >> 3) & 0x7
	z = op & 0x7
	p = y >> 1
	q = y & 1
	return
}

func decodeCB(op uint8) Instruction {
	x, y, z, _, _ := fields(op)
	switch x {
	case 0:
		return Instruction{Kind: kindCB_ROT, Y: y, Z: z}
	case 1:
		return Instruction{Kind: kindCB_BIT, Y: y, Z: z}
	case 2:
		return Instruction{Kind: kindCB_RES, Y: y, Z: z}
	default:
		return Instruction{Kind: kindCB_SET, Y: y, Z: z}
	}
}

func decodeBase(op uint8) Instruction {
	x, y, z, p, q := fields(op)

	switch x {
	case 0:
		switch z {
		case 0:
			switch y {
			case 0:
				return Instruction{Kind: kindNOP}
			case 1:
				return Instruction{Kind: kindLD_NN_SP}
			case 2:
				return Instruction{Kind: kindSTOP}
			case 3:
				return Instruction{Kind: kindJR}
			default:
				return Instruction{Kind: kindJR_CC, Y: y - 4}
			}
		case 1:
			if q == 0 {
				return Instruction{Kind: kindLD_RR_NN, P: p}
			}
			return Instruction{Kind: kindADD_HL_RR, P: p}
		case 2:
			switch {
			case q == 0 && p == 0:
				return Instruction{Kind: kindLD_BC_A}
			case q == 0 && p == 1:
				return Instruction{Kind: kindLD_DE_A}
			case q == 0 && p == 2:
				return Instruction{Kind: kindLD_HLI_A}
			case q == 0 && p == 3:
				return Instruction{Kind: kindLD_HLD_A}
			case q == 1 && p == 0:
				return Instruction{Kind: kindLD_A_BC}
			case q == 1 && p == 1:
				return Instruction{Kind: kindLD_A_DE}
			case q == 1 && p == 2:
				return Instruction{Kind: kindLD_A_HLI}
			default:
				return Instruction{Kind: kindLD_A_HLD}
			}
		case 3:
			if q == 0 {
				return Instruction{Kind: kindINC_RR, P: p}
			}
			return Instruction{Kind: kindDEC_RR, P: p}
		case 4:
			return Instruction{Kind: kindINC_R, Y: y}
		case 5:
			return Instruction{Kind: kindDEC_R, Y: y}
		case 6:
			return Instruction{Kind: kindLD_R_N, Y: y}
		default: // z == 7
			switch y {
			case 0:
				return Instruction{Kind: kindRLCA}
			case 1:
				return Instruction{Kind: kindRRCA}
			case 2:
				return Instruction{Kind: kindRLA}
			case 3:
				return Instruction{Kind: kindRRA}
			case 4:
				return Instruction{Kind: kindDAA}
			case 5:
				return Instruction{Kind: kindCPL}
			case 6:
				return Instruction{Kind: kindSCF}
			default:
				return Instruction{Kind: kindCCF}
			}
		}

	case 1:
		if y == 6 && z == 6 {
			return Instruction{Kind: kindHALT}
		}
		return Instruction{Kind: kindLD_R_R, Y: y, Z: z}

	case 2:
		return Instruction{Kind: kindALU_R, Y: y, Z: z}

	default: // x == 3
		switch z {
		case 0:
			switch y {
			case 0, 1, 2, 3:
				return Instruction{Kind: kindRET_CC, Y: y}
			case 4:
				return Instruction{Kind: kindLDH_N_A}
			case 5:
				return Instruction{Kind: kindADD_SP_R8}
			case 6:
				return Instruction{Kind: kindLDH_A_N}
			default:
				return Instruction{Kind: kindLD_HL_SPR8}
			}
		case 1:
			if q == 0 {
				return Instruction{Kind: kindPOP_RR, P: p}
			}
			switch p {
			case 0:
				return Instruction{Kind: kindRET}
			case 1:
				return Instruction{Kind: kindRETI}
			case 2:
				return Instruction{Kind: kindJP_HL}
			default:
				return Instruction{Kind: kindLD_SP_HL}
			}
		case 2:
			switch y {
			case 0, 1, 2, 3:
				return Instruction{Kind: kindJP_CC, Y: y}
			case 4:
				return Instruction{Kind: kindLDH_C_A}
			case 5:
				return Instruction{Kind: kindLD_NN_A}
			case 6:
				return Instruction{Kind: kindLDH_A_C}
			default:
				return Instruction{Kind: kindLD_A_NN}
			}
		case 3:
			switch y {
			case 0:
				return Instruction{Kind: kindJP}
			case 1:
				return Instruction{Kind: kindCB} // CB prefix, never reached standalone
			case 6:
				return Instruction{Kind: kindDI}
			case 7:
				return Instruction{Kind: kindEI}
			default:
				return Instruction{Kind: kindInvalid}
			}
		case 4:
			switch y {
			case 0, 1, 2, 3:
				return Instruction{Kind: kindCALL_CC, Y: y}
			default:
				return Instruction{Kind: kindInvalid}
			}
		case 5:
			if q == 0 {
				return Instruction{Kind: kindPUSH_RR, P: p}
			}
			if p == 0 {
				return Instruction{Kind: kindCALL}
			}
			return Instruction{Kind: kindInvalid}
		case 6:
			return Instruction{Kind: kindALU_N, Y: y}
		default:
			return Instruction{Kind: kindRST, Y: y}
		}
	}
}
