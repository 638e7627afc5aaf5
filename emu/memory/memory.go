package memory

import (
	"errors"
	"fmt"
)

// memory map
// 0x000-0x04F - built in 4x5 font set (0-F), read only
// 0x050-0x1FF - unused, reads as zero, never writable
// 0x200-0xFFF - program ROM and work RAM
const (
	Size         = 4096
	FontStart    = 0x000
	FontEnd      = 0x04F
	ProgramStart = 0x200
	ProgramEnd   = 0xFFF

	glyphSize = 5
)

const (
	DisplayWidth  = 64
	DisplayHeight = 32
	DisplayPixels = DisplayWidth * DisplayHeight
)

// display-ready colour values, 0xRRGGBB
const (
	ColorOn  uint32 = 0xFFFFFF
	ColorOff uint32 = 0x000000
)

var (
	ErrInvalidWrite = errors.New("invalid memory write")
	ErrInvalidGlyph = errors.New("invalid glyph digit")
)

var fontSet = [80]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the CHIP-8 address space together with the framebuffer.
// Reads are defined over the whole 16-bit range, writes only over program
// space.
type Memory struct {
	data    [Size]uint8
	display [DisplayPixels]uint32
}

// New returns a memory unit with a cleared display and zeroed program space.
func New() *Memory {
	m := &Memory{}
	m.ClearDisplay()
	return m
}

func (m *Memory) ReadByte(address uint16) uint8 {
	switch {
	case address <= FontEnd:
		return fontSet[address-FontStart]
	case address >= ProgramStart && address <= ProgramEnd:
		return m.data[address]
	}
	return 0
}

// ReadWord reads the big endian word at address and address+1.
func (m *Memory) ReadWord(address uint16) uint16 {
	return uint16(m.ReadByte(address))<<8 | uint16(m.ReadByte(address+1))
}

func (m *Memory) WriteByte(address uint16, value uint8) error {
	if address < ProgramStart || address > ProgramEnd {
		return fmt.Errorf("%w: %#04x", ErrInvalidWrite, address)
	}
	m.data[address] = value
	return nil
}

// GlyphAddress returns the address of the 5 byte glyph for a hex digit.
func (m *Memory) GlyphAddress(digit uint8) (uint16, error) {
	if digit > 0xF {
		return 0, fmt.Errorf("%w: %#02x", ErrInvalidGlyph, digit)
	}
	return FontStart + uint16(digit)*glyphSize, nil
}

func (m *Memory) ClearDisplay() {
	for i := range m.display {
		m.display[i] = ColorOff
	}
}

// XorPixel toggles the pixel at (x, y), wrapping both coordinates. It
// reports a collision when the pixel was on before the call.
func (m *Memory) XorPixel(x, y int) bool {
	idx := pixelIndex(x, y)
	if m.display[idx] == ColorOn {
		m.display[idx] = ColorOff
		return true
	}
	m.display[idx] = ColorOn
	return false
}

func (m *Memory) Pixel(x, y int) bool {
	return m.display[pixelIndex(x, y)] == ColorOn
}

// DisplayBuffer returns a copy of the row-major framebuffer.
func (m *Memory) DisplayBuffer() [DisplayPixels]uint32 {
	return m.display
}

func pixelIndex(x, y int) int {
	x %= DisplayWidth
	if x < 0 {
		x += DisplayWidth
	}
	y %= DisplayHeight
	if y < 0 {
		y += DisplayHeight
	}
	return y*DisplayWidth + x
}
