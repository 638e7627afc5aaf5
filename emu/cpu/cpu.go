package cpu

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

const (
	StartAddress = 0x200
	StackDepth   = 16
	flag         = 0xF
)

var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrUnknownOpcode  = errors.New("unknown opcode")
)

// Bus is the memory unit as seen by the CPU.
type Bus interface {
	ReadByte(address uint16) uint8
	ReadWord(address uint16) uint16
	WriteByte(address uint16, value uint8) error
	GlyphAddress(digit uint8) (uint16, error)
	ClearDisplay()
	XorPixel(x, y int) bool
}

// Keypad is the keyboard state as seen by the CPU.
type Keypad interface {
	IsPressed(code uint8) bool
}

// Signal is what a step asks of its caller. Wait is set by Fx0A: the
// caller must block until a key is pressed and store it in V[Register].
type Signal struct {
	Wait     bool
	Register uint8
}

// Continue is the signal of a step that retired normally.
var Continue = Signal{}

type CPU struct {
	opcode     uint16
	V          [16]uint8
	I          uint16 //address register
	pc         uint16
	sp         uint8
	stack      [StackDepth]uint16
	delayTimer uint8
	soundTimer uint8
	rng        *rand.Rand
}

// New returns a CPU ready to execute from 0x200. A nil source seeds from
// the clock.
func New(src rand.Source) *CPU {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &CPU{
		pc:  StartAddress,
		rng: rand.New(src),
	}
}

func (c *CPU) PC() uint16 { return c.pc }
func (c *CPU) SP() uint8 { return c.sp }
func (c *CPU) Opcode() uint16 { return c.opcode }
func (c *CPU) DelayTimer() uint8 { return c.delayTimer }
func (c *CPU) SoundTimer() uint8 { return c.soundTimer }
func (c *CPU) Stack() [StackDepth]uint16 { return c.stack }
func (c *CPU) SetPC(pc uint16) { c.pc = pc }
func (c *CPU) SetDelayTimer(v uint8) { c.delayTimer = v }
func (c *CPU) SetSoundTimer(v uint8) { c.soundTimer = v }

// Step fetches, decodes and executes a single instruction. An error
// wrapping ErrUnknownOpcode leaves the CPU as if a no-op had run; any other
// error is fatal to the program.
func (c *CPU) Step(bus Bus, keys Keypad) (Signal, error) {
	c.opcode = bus.ReadWord(c.pc)
	c.pc += 2
	return c.execute(Decode(c.opcode), bus, keys)
}

func (c *CPU) execute(in Instruction, bus Bus, keys Keypad) (Signal, error) {
	x, y := in.X, in.Y

	switch in.Op {
	case OpCLS:
		bus.ClearDisplay()
	case OpRET:
		if c.sp == 0 {
			return Continue, fmt.Errorf("%w: RET at %#04x", ErrStackUnderflow, c.pc-2)
		}
		c.pc = c.stack[c.sp]
		c.sp--
	case OpJP:
		c.pc = in.NNN
	case OpCALL:
		if c.sp == StackDepth-1 {
			return Continue, fmt.Errorf("%w: CALL %#03x at %#04x", ErrStackOverflow, in.NNN, c.pc-2)
		}
		c.sp++
		c.stack[c.sp] = c.pc
		c.pc = in.NNN
	case OpSEByte:
		c.skipIf(c.V[x] == in.KK)
	case OpSNEByte:
		c.skipIf(c.V[x] != in.KK)
	case OpSEReg:
		c.skipIf(c.V[x] == c.V[y])
	case OpLDByte:
		c.V[x] = in.KK
	case OpADDByte:
		c.V[x] += in.KK
	case OpLDReg:
		c.V[x] = c.V[y]
	case OpOR:
		c.V[x] |= c.V[y]
	case OpAND:
		c.V[x] &= c.V[y]
	case OpXOR:
		c.V[x] ^= c.V[y]
	case OpADDReg:
		sum := uint16(c.V[x]) + uint16(c.V[y])
		c.V[x] = uint8(sum)
		c.V[flag] = boolToFlag(sum > 0xFF)
	case OpSUB:
		vx, vy := c.V[x], c.V[y]
		c.V[x] = vx - vy
		c.V[flag] = boolToFlag(vx > vy)
	case OpSHR:
		vx := c.V[x]
		c.V[x] = vx >> 1
		c.V[flag] = vx & 0x01
	case OpSUBN:
		vx, vy := c.V[x], c.V[y]
		c.V[x] = vy - vx
		c.V[flag] = boolToFlag(vy > vx)
	case OpSHL:
		vx := c.V[x]
		c.V[x] = vx << 1
		c.V[flag] = boolToFlag(vx&0x80 != 0)
	case OpSNEReg:
		c.skipIf(c.V[x] != c.V[y])
	case OpLDI:
		c.I = in.NNN
	case OpJPV0:
		c.pc = in.NNN + uint16(c.V[0])
	case OpRND:
		c.V[x] = uint8(c.rng.Intn(256)) & in.KK
	case OpDRW:
		c.draw(bus, c.V[x], c.V[y], in.N)
	case OpSKP:
		c.skipIf(keys.IsPressed(c.V[x]))
	case OpSKNP:
		c.skipIf(!keys.IsPressed(c.V[x]))
	case OpLDVxDT:
		c.V[x] = c.delayTimer
	case OpLDKey:
		return Signal{Wait: true, Register: x}, nil
	case OpLDDTVx:
		c.delayTimer = c.V[x]
	case OpLDSTVx:
		c.soundTimer = c.V[x]
	case OpADDI:
		c.I += uint16(c.V[x])
	case OpLDF:
		addr, err := bus.GlyphAddress(c.V[x])
		if err != nil {
			return Continue, err
		}
		c.I = addr
	case OpBCD:
		vx := c.V[x]
		digits := [3]uint8{vx / 100, (vx % 100) / 10, vx % 10}
		for i, d := range digits {
			if err := bus.WriteByte(c.I+uint16(i), d); err != nil {
				return Continue, err
			}
		}
	case OpStore:
		for i := uint8(0); i <= x; i++ {
			if err := bus.WriteByte(c.I+uint16(i), c.V[i]); err != nil {
				return Continue, err
			}
		}
	case OpLoad:
		for i := uint8(0); i <= x; i++ {
			c.V[i] = bus.ReadByte(c.I + uint16(i))
		}
	default:
		return Continue, c.opCodeError(in.Word)
	}
	return Continue, nil
}

// draw XORs an n byte sprite read from I onto the display at (vx, vy).
func (c *CPU) draw(bus Bus, vx, vy, n uint8) {
	collision := false
	for row := uint8(0); row < n; row++ {
		sprite := bus.ReadByte(c.I + uint16(row))
		for col := 0; col < 8; col++ {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			if bus.XorPixel(int(vx)+col, int(vy)+int(row)) {
				collision = true
			}
		}
	}
	c.V[flag] = boolToFlag(collision)
}

func (c *CPU) skipIf(cond bool) {
	if cond {
		c.pc += 2
	}
}

func (c *CPU) opCodeError(opcode uint16) error {
	return fmt.Errorf("%w: %04X at %#04x", ErrUnknownOpcode, opcode, c.pc-2)
}

// DecrementTimers counts both timers down toward zero.
func (c *CPU) DecrementTimers() {
	if c.delayTimer > 0 {
		c.delayTimer--
	}
	if c.soundTimer > 0 {
		c.soundTimer--
	}
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
