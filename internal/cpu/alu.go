package cpu

import "github.com/user-none/gbcore/internal/register"

// add8 returns a+b+carryIn and the resulting flags. Grounded on the
// half-carry/carry computation style from the thelolagemann-gomeboy
// decoder (direct nibble/bit arithmetic) rather than a Z80-style lookup
// table, since the LR35902 needs only H and C, not parity/overflow.
func add8(a, b uint8, carryIn bool) (result uint8, z, h, c bool) {
	var cin uint16
	if carryIn {
		cin = 1
	}
	sum := uint16(a) + uint16(b) + cin
	result = uint8(sum)
	z = result == 0
	h = (a&0xF)+(b&0xF)+uint8(cin) > 0xF
	c = sum > 0xFF
	return
}

func sub8(a, b uint8, borrowIn bool) (result uint8, z, h, c bool) {
	var bin uint16
	if borrowIn {
		bin = 1
	}
	diff := uint16(a) - uint16(b) - bin
	result = uint8(diff)
	z = result == 0
	h = (a & 0xF) < (b&0xF)+uint8(bin)
	c = diff > 0xFF // unsigned wraparound signals a borrow
	return
}

// addSPSigned implements the ADD SP,r8 / LD HL,SP+r8 carry rule: carry and
// half-carry are computed over the low byte of SP against the unsigned
// r8 byte, regardless of the displacement's sign.
func addSPSigned(sp uint16, r8 int8) (result uint16, h, c bool) {
	lo := uint8(sp)
	disp := uint8(r8)
	_, _, h, c = add8(lo, disp, false)
	result = uint16(int32(sp) + int32(r8))
	return
}

func setZNHC(f *uint8, z, n, h, c bool) {
	register.SetFlags(f, z, n, h, c)
}

func flagSet(f uint8, bit uint8) bool {
	return register.Has(f, bit)
}
