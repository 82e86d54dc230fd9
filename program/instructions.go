package program

// Opcodes occupy bits [31:28] of an instruction word.
const (
	CMOV   = 0  // conditional move
	SLOAD  = 1  // segmented load
	SSTORE = 2  // segmented store
	ADD    = 3  // addition mod 2^32
	MUL    = 4  // multiplication mod 2^32
	DIV    = 5  // unsigned division
	NAND   = 6  // bitwise not-and
	HALT   = 7  // stop the machine
	MAP    = 8  // map (activate) a segment
	UNMAP  = 9  // unmap (inactivate) a segment
	OUT    = 10 // output a byte
	IN     = 11 // input a byte
	LOADP  = 12 // load program / jump
	LV     = 13 // load 25-bit immediate value

	NumOpcodes = 14
)

var opcodeNames = map[uint32]string{
	CMOV:   "CMOV",
	SLOAD:  "SLOAD",
	SSTORE: "SSTORE",
	ADD:    "ADD",
	MUL:    "MUL",
	DIV:    "DIV",
	NAND:   "NAND",
	HALT:   "HALT",
	MAP:    "MAP",
	UNMAP:  "UNMAP",
	OUT:    "OUT",
	IN:     "IN",
	LOADP:  "LOADP",
	LV:     "LV",
}

// OpcodeName returns the mnemonic of op, or "INVALID" for opcodes 14 and 15.
func OpcodeName(op uint32) string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "INVALID"
}

// IsValidOpcode reports whether op is one of the 14 defined opcodes.
func IsValidOpcode(op uint32) bool {
	return op < NumOpcodes
}
