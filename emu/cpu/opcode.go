package cpu

import "fmt"

// Op identifies a decoded CHIP-8 operation.
type Op int

const (
	OpUnknown Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1nnn
	OpCALL       // 2nnn
	OpSEByte     // 3xkk
	OpSNEByte    // 4xkk
	OpSEReg      // 5xy0
	OpLDByte     // 6xkk
	OpADDByte    // 7xkk
	OpLDReg      // 8xy0
	OpOR         // 8xy1
	OpAND        // 8xy2
	OpXOR        // 8xy3
	OpADDReg     // 8xy4
	OpSUB        // 8xy5
	OpSHR        // 8xy6
	OpSUBN       // 8xy7
	OpSHL        // 8xyE
	OpSNEReg     // 9xy0
	OpLDI        // Annn
	OpJPV0       // Bnnn
	OpRND        // Cxkk
	OpDRW        // Dxyn
	OpSKP        // Ex9E
	OpSKNP       // ExA1
	OpLDVxDT     // Fx07
	OpLDKey      // Fx0A
	OpLDDTVx     // Fx15
	OpLDSTVx     // Fx18
	OpADDI       // Fx1E
	OpLDF        // Fx29
	OpBCD        // Fx33
	OpStore      // Fx55
	OpLoad       // Fx65
)

var opNames = map[Op]string{
	OpUnknown: "???",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEByte:  "SE",
	OpSNEByte: "SNE",
	OpSEReg:   "SE",
	OpLDByte:  "LD",
	OpADDByte: "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD I",
	OpJPV0:    "JP V0",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD DT",
	OpLDKey:   "LD K",
	OpLDDTVx:  "LD DT",
	OpLDSTVx:  "LD ST",
	OpADDI:    "ADD I",
	OpLDF:     "LD F",
	OpBCD:     "LD B",
	OpStore:   "LD [I]",
	OpLoad:    "LD [I]",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Instruction is a decoded instruction word. Operand fields are always
// filled in from the word, whether or not Op uses them.
type Instruction struct {
	Op   Op
	Word uint16
	NNN  uint16 // low 12 bits, address literal
	N    uint8  // low nibble
	X    uint8  // second nibble, register index
	Y    uint8  // third nibble, register index
	KK   uint8  // low byte, immediate
}

func (in Instruction) String() string {
	return fmt.Sprintf("%04X %s", in.Word, in.Op)
}

// Decode maps an instruction word to its operation. It has no side effects.
func Decode(word uint16) Instruction {
	in := Instruction{
		Word: word,
		NNN:  word & 0x0FFF,
		N:    uint8(word & 0x000F),
		X:    uint8((word & 0x0F00) >> 8),
		Y:    uint8((word & 0x00F0) >> 4),
		KK:   uint8(word & 0x00FF),
	}

	a := (word & 0xF000) >> 12
	b := uint16(in.X)
	c := uint16(in.Y)
	d := uint16(in.N)

	switch a {
	case 0x0:
		switch {
		case b == 0x0 && c == 0xE && d == 0x0:
			in.Op = OpCLS
		case b == 0x0 && c == 0xE && d == 0xE:
			in.Op = OpRET
		}
	case 0x1:
		in.Op = OpJP
	case 0x2:
		in.Op = OpCALL
	case 0x3:
		in.Op = OpSEByte
	case 0x4:
		in.Op = OpSNEByte
	case 0x5:
		if d == 0x0 {
			in.Op = OpSEReg
		}
	case 0x6:
		in.Op = OpLDByte
	case 0x7:
		in.Op = OpADDByte
	case 0x8:
		switch d {
		case 0x0:
			in.Op = OpLDReg
		case 0x1:
			in.Op = OpOR
		case 0x2:
			in.Op = OpAND
		case 0x3:
			in.Op = OpXOR
		case 0x4:
			in.Op = OpADDReg
		case 0x5:
			in.Op = OpSUB
		case 0x6:
			in.Op = OpSHR
		case 0x7:
			in.Op = OpSUBN
		case 0xE:
			in.Op = OpSHL
		}
	case 0x9:
		if d == 0x0 {
			in.Op = OpSNEReg
		}
	case 0xA:
		in.Op = OpLDI
	case 0xB:
		in.Op = OpJPV0
	case 0xC:
		in.Op = OpRND
	case 0xD:
		in.Op = OpDRW
	case 0xE:
		switch in.KK {
		case 0x9E:
			in.Op = OpSKP
		case 0xA1:
			in.Op = OpSKNP
		}
	case 0xF:
		switch in.KK {
		case 0x07:
			in.Op = OpLDVxDT
		case 0x0A:
			in.Op = OpLDKey
		case 0x15:
			in.Op = OpLDDTVx
		case 0x18:
			in.Op = OpLDSTVx
		case 0x1E:
			in.Op = OpADDI
		case 0x29:
			in.Op = OpLDF
		case 0x33:
			in.Op = OpBCD
		case 0x55:
			in.Op = OpStore
		case 0x65:
			in.Op = OpLoad
		}
	}
	return in
}
