package program

import (
	"fmt"

	"github.com/colorfulnotion/um/bitpack"
)

// Field layout of an instruction word.
const (
	opcodeWidth = 4
	opcodeLSB   = 28

	regWidth = 3
	regALSB  = 6
	regBLSB  = 3
	regCLSB  = 0

	lvRegLSB   = 25
	lvImmWidth = 25

	// MaxImmediate is the largest value a load-value instruction can carry.
	MaxImmediate = 1<<lvImmWidth - 1
	// NumRegisters is the size of the register file addressed by a 3-bit field.
	NumRegisters = 1 << regWidth
)

// Instruction is a raw 32-bit instruction word.
type Instruction uint32

// Opcode returns bits [31:28].
func (i Instruction) Opcode() uint32 {
	return uint32(i) >> opcodeLSB
}

// A returns register field A, bits [8:6].
func (i Instruction) A() uint32 {
	return uint32(i) >> regALSB & 7
}

// B returns register field B, bits [5:3].
func (i Instruction) B() uint32 {
	return uint32(i) >> regBLSB & 7
}

// C returns register field C, bits [2:0].
func (i Instruction) C() uint32 {
	return uint32(i) & 7
}

// LoadRegister returns the destination register of a load-value instruction, bits [27:25].
func (i Instruction) LoadRegister() uint32 {
	return uint32(i) >> lvRegLSB & 7
}

// Immediate returns the zero-extended 25-bit value of a load-value instruction.
func (i Instruction) Immediate() uint32 {
	return uint32(i) & MaxImmediate
}

func (i Instruction) String() string {
	op := i.Opcode()
	switch {
	case op == LV:
		return fmt.Sprintf("LV r%d, %d", i.LoadRegister(), i.Immediate())
	case IsValidOpcode(op):
		return fmt.Sprintf("%s r%d, r%d, r%d", OpcodeName(op), i.A(), i.B(), i.C())
	default:
		return fmt.Sprintf("INVALID 0x%08x", uint32(i))
	}
}

// Encode builds a three-register instruction.
func Encode(op, a, b, c uint32) (Instruction, error) {
	if op == LV || !IsValidOpcode(op) {
		return 0, fmt.Errorf("encode %s: opcode %d is not a three-register opcode", OpcodeName(op), op)
	}
	word, err := bitpack.NewU(uint32(0), opcodeWidth, opcodeLSB, op)
	if err != nil {
		return 0, err
	}
	for _, f := range []struct {
		lsb, value uint32
	}{{regALSB, a}, {regBLSB, b}, {regCLSB, c}} {
		if word, err = bitpack.NewU(word, regWidth, uint(f.lsb), f.value); err != nil {
			return 0, fmt.Errorf("encode %s: register %d: %w", OpcodeName(op), f.value, err)
		}
	}
	return Instruction(word), nil
}

// EncodeLoadValue builds a load-value instruction placing imm in register a.
func EncodeLoadValue(a, imm uint32) (Instruction, error) {
	word, err := bitpack.NewU(uint32(0), opcodeWidth, opcodeLSB, LV)
	if err != nil {
		return 0, err
	}
	if word, err = bitpack.NewU(word, regWidth, lvRegLSB, a); err != nil {
		return 0, fmt.Errorf("encode LV: register %d: %w", a, err)
	}
	if word, err = bitpack.NewU(word, lvImmWidth, 0, imm); err != nil {
		return 0, fmt.Errorf("encode LV: immediate %d: %w", imm, err)
	}
	return Instruction(word), nil
}
