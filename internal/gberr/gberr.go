// Package gberr defines the error kinds that cross the core's boundaries,
// mirroring how the teacher emulator wraps sentinel errors with fmt.Errorf
// rather than inventing a bespoke error-code hierarchy.
package gberr

import "fmt"

// InvalidOpcode is fatal: the decoder hit a reserved byte. It carries a
// snapshot of the registers at the point of failure so the caller can dump
// them without the CPU package needing a logging dependency.
type InvalidOpcode struct {
	Opcode  uint8
	Prefix  bool // true if this followed a CB prefix
	PC      uint16
	A, F    uint8
	B, C    uint8
	D, E    uint8
	H, L    uint8
	SP      uint16
}

func (e *InvalidOpcode) Error() string {
	page := "base"
	if e.Prefix {
		page = "CB"
	}
	return fmt.Sprintf("invalid opcode 0x%02X (%s page) at PC=0x%04X", e.Opcode, page, e.PC)
}

// UnimplementedMapper is fatal at cartridge construction time: the header
// names a mapper this core has not implemented.
type UnimplementedMapper struct {
	CartridgeType uint8
}

func (e *UnimplementedMapper) Error() string {
	return fmt.Sprintf("unimplemented mapper for cartridge type 0x%02X", e.CartridgeType)
}

// MalformedRom is fatal at load time: the header fails a basic sanity check.
type MalformedRom struct {
	Reason string
}

func (e *MalformedRom) Error() string {
	return fmt.Sprintf("malformed ROM: %s", e.Reason)
}

// FrontendIO covers file-level failures. The caller decides whether a given
// occurrence is fatal (ROM load) or ignorable (save/load state).
type FrontendIO struct {
	Op  string
	Err error
}

func (e *FrontendIO) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FrontendIO) Unwrap() error {
	return e.Err
}
