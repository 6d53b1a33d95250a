// Package system wires the CPU, bus, PPU, timer, joypad, and sound
// register file into one emulation step and owns save-state
// serialization. Grounded on the teacher's EmulatorBase.RunFrame/
// runScanlines orchestration (emu/emulator.go): a single-threaded,
// synchronous Step method the caller pumps in a loop, matching the
// teacher's "step the CPU, advance the PPU by the cycles spent, poll
// for interrupts" shape, generalized to the LR35902's extra Timer
// device and narrow interrupt-sink capability.
package system

import (
	"github.com/user-none/gbcore/internal/apu"
	"github.com/user-none/gbcore/internal/bus"
	"github.com/user-none/gbcore/internal/cartridge"
	"github.com/user-none/gbcore/internal/cpu"
	"github.com/user-none/gbcore/internal/joypad"
	"github.com/user-none/gbcore/internal/ppu"
	"github.com/user-none/gbcore/internal/timer"
)

const (
	bitVBlank = 0
	bitStat   = 1
	bitTimer  = 2
	bitSerial = 3
	bitJoypad = 4
)

// System owns every subsystem and exposes the frontend contract named
// in the core's external interfaces: Step, PollInput, FrameReady,
// Framebuffer, FillAudio.
type System struct {
	CPU   *cpu.CPU
	Bus   *bus.Bus
	PPU   *ppu.PPU
	Timer *timer.Timer
	Pad   *joypad.Joypad
	APU   *apu.APU
	Cart  *cartridge.Cartridge
}

// New constructs a system from a loaded ROM image, post-bootrom.
func New(rom []uint8) (*System, error) {
	cart, err := cartridge.Load(rom)
	if err != nil {
		return nil, err
	}

	p := ppu.New()
	t := timer.New()
	pad := joypad.New()
	snd := apu.New()
	b := bus.New(cart, p, t, pad, snd)

	return &System{
		CPU: cpu.New(), Bus: b, PPU: p, Timer: t, Pad: pad, APU: snd, Cart: cart,
	}, nil
}

// Step runs exactly one CPU instruction (or one halted idle tick),
// advances every time-driven device by the cycles spent, and services
// at most one pending interrupt. It returns the total machine cycles
// consumed, including any interrupt-service overhead, per the
// step() -> cycles_elapsed contract.
func (s *System) Step() (int, error) {
	ie, iflags := s.Bus.IE(), s.Bus.IF()

	cycles, err := s.CPU.Step(s.Bus, ie, iflags)
	if err != nil {
		return cycles, err
	}

	s.Bus.Step(cycles)

	if s.Timer.Step(cycles) {
		s.Bus.RequestInterrupt(bitTimer)
	}

	if vblank, stat := s.PPU.Step(cycles); vblank || stat {
		if vblank {
			s.Bus.RequestInterrupt(bitVBlank)
		}
		if stat {
			s.Bus.RequestInterrupt(bitStat)
		}
	}

	ie, iflags = s.Bus.IE(), s.Bus.IF()
	if bit, isrCycles := s.CPU.ServiceInterrupt(s.Bus, ie, iflags); bit >= 0 {
		s.Bus.SetIF(iflags &^ (1 << uint(bit)))
		cycles += isrCycles
	}

	return cycles, nil
}

// PollInput applies a full button snapshot, setting IF bit 4 on any
// pressed<->released transition.
func (s *System) PollInput(b joypad.Buttons) {
	if s.Pad.SetButtons(b) {
		s.Bus.RequestInterrupt(bitJoypad)
	}
}

// FrameReady reports (and consumes) whether a frame completed since
// the last call.
func (s *System) FrameReady() bool { return s.PPU.FrameReady() }

// Framebuffer returns the last completed frame as 2-bit shade indices.
func (s *System) Framebuffer() *[ppu.ScreenHeight][ppu.ScreenWidth]uint8 {
	return s.PPU.Framebuffer()
}

// FillAudio implements the fill_audio(out_samples[]) contract with
// silence; the core performs no synthesis (see internal/apu).
func (s *System) FillAudio(out []int16) {
	apu.FillSilence(out)
}
