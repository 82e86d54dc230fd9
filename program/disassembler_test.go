package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisassembleInstruction(t *testing.T) {
	cases := []struct {
		inst Instruction
		want string
	}{
		{mustEncode(t, ADD, 1, 2, 3), "add r1 = r2 + r3"},
		{mustEncode(t, CMOV, 7, 5, 4), "cmov r7 = r5 if r4 != 0"},
		{mustEncode(t, SSTORE, 0, 1, 2), "sstore [r0][r1] = r2"},
		{mustEncode(t, MAP, 0, 1, 2), "map r1, size r2"},
		{mustEncode(t, LOADP, 0, 0, 7), "loadp [r0], pc = r7"},
		{mustEncode(t, OUT, 0, 0, 3), "out r3"},
		{mustEncode(t, HALT, 0, 0, 0), "halt"},
		{Instruction(0xF0000000), "unknown_0xf0000000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DisassembleInstruction(tc.inst))
	}
}

func TestDisassembleImmediate(t *testing.T) {
	h, err := EncodeLoadValue(0, 'H')
	assert.NoError(t, err)
	big, err := EncodeLoadValue(6, MaxImmediate)
	assert.NoError(t, err)

	got := Disassemble([]uint32{uint32(h), uint32(big)})
	assert.Equal(t, []string{
		"0x0000: lv r0 = 72 'H'",
		"0x0001: lv r6 = 0x1ffffff",
	}, got)
}
