package system

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/user-none/gbcore/internal/bus"
	"github.com/user-none/gbcore/internal/cpu"
	"github.com/user-none/gbcore/internal/joypad"
	"github.com/user-none/gbcore/internal/ppu"
	"github.com/user-none/gbcore/internal/timer"
)

// Save-state layout, grounded on the teacher's Serialize/Deserialize/
// VerifyState byte-offset encoding (emu/emulator.go): a fixed magic and
// version, a CRC32 of the ROM the state was captured against (so a state
// is never loaded onto the wrong cartridge), and a CRC32 of the payload
// itself to catch truncation or corruption before any field is read.
const (
	stateMagic   uint32 = 0x47424352 // "GBCR"
	stateVersion uint32 = 1
)

type stateHeader struct {
	Magic        uint32
	Version      uint32
	ROMCRC32     uint32
	PayloadCRC32 uint32
	PayloadLen   uint32
}

// snapshot is the full serializable state of every subsystem. Fields are
// plain arrays/values so binary.Write can encode them without reflection
// surprises; RAM size varies by cartridge, so it is length-prefixed.
type snapshot struct {
	CPU    cpu.State
	Bus    bus.State
	PPU    ppu.State
	Timer  timer.State
	Pad    joypad.State
	APURegs [0x17]uint8
	APUWave [0x10]uint8
}

// Serialize captures the full machine state into a self-describing,
// checksummed byte stream.
func (s *System) Serialize() ([]byte, error) {
	snap := snapshot{
		CPU:   s.CPU.Snapshot(),
		Bus:   s.Bus.Snapshot(),
		PPU:   s.PPU.Snapshot(),
		Timer: s.Timer.Snapshot(),
		Pad:   s.Pad.Snapshot(),
	}
	snap.APURegs = s.APU.Registers()
	snap.APUWave = s.APU.WaveRAM()

	var payload bytes.Buffer
	if err := binary.Write(&payload, binary.LittleEndian, &snap); err != nil {
		return nil, fmt.Errorf("serialize payload: %w", err)
	}
	ramLen := uint32(len(s.Cart.Mapper.RAM()))
	if err := binary.Write(&payload, binary.LittleEndian, ramLen); err != nil {
		return nil, fmt.Errorf("serialize cart RAM length: %w", err)
	}
	if ramLen > 0 {
		if _, err := payload.Write(s.Cart.Mapper.RAM()); err != nil {
			return nil, fmt.Errorf("serialize cart RAM: %w", err)
		}
	}

	header := stateHeader{
		Magic:        stateMagic,
		Version:      stateVersion,
		ROMCRC32:     crc32.ChecksumIEEE(s.Cart.ROM()),
		PayloadCRC32: crc32.ChecksumIEEE(payload.Bytes()),
		PayloadLen:   uint32(payload.Len()),
	}

	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("serialize header: %w", err)
	}
	out.Write(payload.Bytes())
	return out.Bytes(), nil
}

// Deserialize verifies and restores a state captured by Serialize
// against this System's currently loaded ROM, leaving the System
// unmodified if verification fails.
func (s *System) Deserialize(data []byte) error {
	if err := s.Verify(data); err != nil {
		return err
	}

	r := bytes.NewReader(data[binary.Size(stateHeader{}):])
	var snap snapshot
	if err := binary.Read(r, binary.LittleEndian, &snap); err != nil {
		return fmt.Errorf("deserialize payload: %w", err)
	}
	var ramLen uint32
	if err := binary.Read(r, binary.LittleEndian, &ramLen); err != nil {
		return fmt.Errorf("deserialize cart RAM length: %w", err)
	}
	ram := make([]uint8, ramLen)
	if ramLen > 0 {
		if _, err := r.Read(ram); err != nil {
			return fmt.Errorf("deserialize cart RAM: %w", err)
		}
	}

	s.CPU.Restore(snap.CPU)
	s.Bus.Restore(snap.Bus)
	s.PPU.Restore(snap.PPU)
	s.Timer.Restore(snap.Timer)
	s.Pad.Restore(snap.Pad)
	s.APU.RestoreRegisters(snap.APURegs)
	s.APU.RestoreWaveRAM(snap.APUWave)
	copy(s.Cart.Mapper.RAM(), ram)

	return nil
}

// Verify checks the header magic, version, ROM identity, and payload
// checksum without mutating the System, returning an error for a state
// that does not belong to the loaded ROM or fails any of these checks.
func (s *System) Verify(data []byte) error {
	headerSize := binary.Size(stateHeader{})
	if len(data) < headerSize {
		return fmt.Errorf("save state: truncated header")
	}

	var header stateHeader
	if err := binary.Read(bytes.NewReader(data[:headerSize]), binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if header.Magic != stateMagic {
		return fmt.Errorf("save state: bad magic %#08x", header.Magic)
	}
	if header.Version != stateVersion {
		return fmt.Errorf("save state: unsupported version %d", header.Version)
	}
	if want := crc32.ChecksumIEEE(s.Cart.ROM()); header.ROMCRC32 != want {
		return fmt.Errorf("save state: captured against a different ROM (crc32 %#08x, loaded %#08x)", header.ROMCRC32, want)
	}

	payload := data[headerSize:]
	if uint32(len(payload)) < header.PayloadLen {
		return fmt.Errorf("save state: truncated payload")
	}
	payload = payload[:header.PayloadLen]
	if got := crc32.ChecksumIEEE(payload); got != header.PayloadCRC32 {
		return fmt.Errorf("save state: payload checksum mismatch")
	}
	return nil
}
