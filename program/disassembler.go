package program

import "fmt"

// InstrDef describes how one opcode renders in a listing.
type InstrDef struct {
	Name   string
	Format func(i Instruction) string
}

var instrTable = map[uint32]InstrDef{
	CMOV: {"cmov", func(i Instruction) string {
		return fmt.Sprintf("r%d = r%d if r%d != 0", i.A(), i.B(), i.C())
	}},
	SLOAD: {"sload", func(i Instruction) string {
		return fmt.Sprintf("r%d = [r%d][r%d]", i.A(), i.B(), i.C())
	}},
	SSTORE: {"sstore", func(i Instruction) string {
		return fmt.Sprintf("[r%d][r%d] = r%d", i.A(), i.B(), i.C())
	}},
	ADD: {"add", binary("+")},
	MUL: {"mul", binary("*")},
	DIV: {"div", binary("/")},
	NAND: {"nand", func(i Instruction) string {
		return fmt.Sprintf("r%d = ~(r%d & r%d)", i.A(), i.B(), i.C())
	}},
	HALT: {"halt", func(Instruction) string { return "" }},
	MAP: {"map", func(i Instruction) string {
		return fmt.Sprintf("r%d, size r%d", i.B(), i.C())
	}},
	UNMAP: {"unmap", func(i Instruction) string {
		return fmt.Sprintf("r%d", i.C())
	}},
	OUT: {"out", func(i Instruction) string {
		return fmt.Sprintf("r%d", i.C())
	}},
	IN: {"in", func(i Instruction) string {
		return fmt.Sprintf("r%d", i.C())
	}},
	LOADP: {"loadp", func(i Instruction) string {
		return fmt.Sprintf("[r%d], pc = r%d", i.B(), i.C())
	}},
	LV: {"lv", func(i Instruction) string {
		return fmt.Sprintf("r%d = %s", i.LoadRegister(), formatImmediate(i.Immediate()))
	}},
}

func binary(sym string) func(i Instruction) string {
	return func(i Instruction) string {
		return fmt.Sprintf("r%d = r%d %s r%d", i.A(), i.B(), sym, i.C())
	}
}

// formatImmediate prints small values in decimal, larger ones in hex, and
// appends the character for printable ASCII.
func formatImmediate(v uint32) string {
	s := fmt.Sprintf("%d", v)
	if v > 0xFFFF {
		s = fmt.Sprintf("0x%x", v)
	}
	if v >= 0x20 && v < 0x7F {
		s += fmt.Sprintf(" '%c'", rune(v))
	}
	return s
}

// DisassembleInstruction renders a single word, e.g. "add r1 = r2 + r3".
// Words with opcode 14 or 15 are usually data and render as unknown.
func DisassembleInstruction(i Instruction) string {
	def, ok := instrTable[i.Opcode()]
	if !ok {
		return fmt.Sprintf("unknown_0x%08x", uint32(i))
	}
	if operands := def.Format(i); operands != "" {
		return def.Name + " " + operands
	}
	return def.Name
}

// Disassemble lists every word of a program with its offset.
func Disassemble(words []uint32) []string {
	result := make([]string, 0, len(words))
	for pc, w := range words {
		result = append(result, fmt.Sprintf("0x%04x: %s", pc, DisassembleInstruction(Instruction(w))))
	}
	return result
}
