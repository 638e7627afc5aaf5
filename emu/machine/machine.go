package machine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/keyboard"
	"github.com/beanboi7/chyp8/emu/memory"
)

const maxRomSize = memory.ProgramEnd - memory.ProgramStart + 1

// State is the orchestration state layered above single CPU steps.
type State int

const (
	Running State = iota
	WaitingForKey
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingForKey:
		return "waiting for key"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Machine owns the CPU, memory and keyboard and is the only thing that
// mutates them.
type Machine struct {
	cpu      *cpu.CPU
	memory   *memory.Memory
	keyboard *keyboard.Keyboard

	state   State
	waitReg uint8

	src rand.Source
	log *log.Logger
}

type Option func(*Machine)

// WithRandSource fixes the source behind the RND instruction.
func WithRandSource(src rand.Source) Option {
	return func(m *Machine) { m.src = src }
}

// WithLogger sets where unknown opcodes are reported.
func WithLogger(l *log.Logger) Option {
	return func(m *Machine) { m.log = l }
}

func New(opts ...Option) *Machine {
	m := &Machine{
		memory:   memory.New(),
		keyboard: keyboard.New(),
		log:      log.New(os.Stderr, "chyp8: ", 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cpu = cpu.New(m.src)
	return m
}

// LoadROM copies the ROM verbatim into program space starting at 0x200. A
// ROM that runs past 0xFFF is an invalid write.
func (m *Machine) LoadROM(r io.Reader) error {
	br := bufio.NewReader(r)
	addr := uint16(memory.ProgramStart)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := m.memory.WriteByte(addr, b); err != nil {
			return fmt.Errorf("ROM too big, can't cross %d bytes: %w", maxRomSize, err)
		}
		addr++
	}
}

func (m *Machine) LoadROMFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.LoadROM(f)
}

// Advance runs one tick. While waiting for a key it only polls the
// keyboard; resolving the wait consumes the tick. Unknown opcodes are
// reported and skipped, any other error is fatal.
func (m *Machine) Advance() error {
	if m.state == WaitingForKey {
		if k, ok := m.keyboard.FirstPressedKey(); ok {
			m.cpu.V[m.waitReg] = k
			m.state = Running
		}
		return nil
	}

	sig, err := m.cpu.Step(m.memory, m.keyboard)
	if errors.Is(err, cpu.ErrUnknownOpcode) {
		m.log.Printf("error parsing opcode: %v", err)
		return nil
	}
	if err != nil {
		return err
	}

	if sig.Wait {
		m.state = WaitingForKey
		m.waitReg = sig.Register
	}
	return nil
}

// DecrementTimers is frozen while a key wait is pending.
func (m *Machine) DecrementTimers() {
	if m.state == WaitingForKey {
		return
	}
	m.cpu.DecrementTimers()
}

func (m *Machine) State() State {
	return m.state
}

// WaitingRegister returns the register that will receive the next key, if
// the machine is waiting for one.
func (m *Machine) WaitingRegister() (uint8, bool) {
	return m.waitReg, m.state == WaitingForKey
}

func (m *Machine) SetKey(code uint8, pressed bool) {
	m.keyboard.SetPressed(code, pressed)
}

func (m *Machine) ReleaseKeys() {
	m.keyboard.Reset()
}

// Display returns the framebuffer as of the last completed tick.
func (m *Machine) Display() [memory.DisplayPixels]uint32 {
	return m.memory.DisplayBuffer()
}

// SoundActive reports whether the sound timer is running.
func (m *Machine) SoundActive() bool {
	return m.cpu.SoundTimer() > 0
}

// CPU exposes the processor for inspection.
func (m *Machine) CPU() *cpu.CPU {
	return m.cpu
}

// ReadByte reads memory without side effects.
func (m *Machine) ReadByte(address uint16) uint8 {
	return m.memory.ReadByte(address)
}
