package program

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/colorfulnotion/um/umerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEncode(t *testing.T, op, a, b, c uint32) Instruction {
	t.Helper()
	inst, err := Encode(op, a, b, c)
	require.NoError(t, err)
	return inst
}

func TestDecodeFields(t *testing.T) {
	inst := Instruction(0x300000CA) // ADD a=3 b=1 c=2
	assert.Equal(t, uint32(ADD), inst.Opcode())
	assert.Equal(t, uint32(3), inst.A())
	assert.Equal(t, uint32(1), inst.B())
	assert.Equal(t, uint32(2), inst.C())

	lv := Instruction(0xD6000005) // LV r3, 5
	assert.Equal(t, uint32(LV), lv.Opcode())
	assert.Equal(t, uint32(3), lv.LoadRegister())
	assert.Equal(t, uint32(5), lv.Immediate())
}

func TestEncodeMatchesDecode(t *testing.T) {
	for op := uint32(0); op < NumOpcodes; op++ {
		if op == LV {
			continue
		}
		for _, regs := range [][3]uint32{{0, 0, 0}, {7, 7, 7}, {1, 2, 3}, {6, 0, 5}} {
			inst := mustEncode(t, op, regs[0], regs[1], regs[2])
			assert.Equal(t, op, inst.Opcode())
			assert.Equal(t, regs[0], inst.A())
			assert.Equal(t, regs[1], inst.B())
			assert.Equal(t, regs[2], inst.C())
		}
	}

	lv, err := EncodeLoadValue(7, MaxImmediate)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), lv.LoadRegister())
	assert.Equal(t, uint32(MaxImmediate), lv.Immediate())
	assert.Equal(t, Instruction(0xDFFFFFFF), lv)
}

func TestEncodeRejectsBadFields(t *testing.T) {
	_, err := Encode(ADD, 8, 0, 0)
	assert.Error(t, err)
	_, err = Encode(LV, 0, 0, 0)
	assert.Error(t, err)
	_, err = Encode(14, 0, 0, 0)
	assert.Error(t, err)
	_, err = EncodeLoadValue(0, MaxImmediate+1)
	assert.Error(t, err)
	_, err = EncodeLoadValue(8, 1)
	assert.Error(t, err)
}

func TestInstructionString(t *testing.T) {
	assert.Equal(t, "ADD r3, r1, r2", Instruction(0x300000CA).String())
	assert.Equal(t, "LV r3, 5", Instruction(0xD6000005).String())
	assert.Equal(t, "INVALID 0xe0000000", Instruction(0xE0000000).String())
	assert.Equal(t, "INVALID", OpcodeName(15))
}

func TestDecodeBigEndian(t *testing.T) {
	words, err := Decode([]byte{0xD0, 0x00, 0x00, 0x48, 0x70, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0xD0000048, 0x70000000}, words)

	words, err = Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestDecodePartialWord(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3, 4, 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, umerrors.ErrLTruncatedProgram))
}

func TestAssembleRoundTrip(t *testing.T) {
	lv, err := EncodeLoadValue(0, 72)
	require.NoError(t, err)
	p := Assemble("hello", lv, mustEncode(t, OUT, 0, 0, 0), mustEncode(t, HALT, 0, 0, 0))

	back, err := Read("hello", bytes.NewReader(p.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, p.Words, back.Words)
	assert.Equal(t, p.Hash, back.Hash)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := Assemble("halt", mustEncode(t, HALT, 0, 0, 0))

	path := filepath.Join(dir, "halt.um")
	require.NoError(t, os.WriteFile(path, p.Bytes(), 0o644))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x70000000}, got.Words)

	_, err = Load(filepath.Join(dir, "missing.um"))
	assert.ErrorIs(t, err, umerrors.ErrLOpen)

	_, err = Load(dir)
	assert.ErrorIs(t, err, umerrors.ErrLOpen)

	bad := filepath.Join(dir, "bad.um")
	require.NoError(t, os.WriteFile(bad, []byte{0x70, 0, 0}, 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, umerrors.ErrLTruncatedProgram)
}
