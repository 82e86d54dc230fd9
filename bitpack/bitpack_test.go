package bitpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidth(t *testing.T) {
	assert.Equal(t, uint(8), Width[uint8]())
	assert.Equal(t, uint(32), Width[uint32]())
	assert.Equal(t, uint(64), Width[uint64]())
}

func TestShiftsSaturateToZero(t *testing.T) {
	assert.Equal(t, uint64(0), Shl(uint64(0xFFFF), 64))
	assert.Equal(t, uint64(0), Shr(uint64(0xFFFF), 64))
	assert.Equal(t, uint64(0), Shr(uint64(0xFFFF), 200))
	assert.Equal(t, uint32(0), Shl(uint32(1), 32))
	assert.Equal(t, uint32(0x80000000), Shl(uint32(1), 31))
	assert.Equal(t, uint64(0xFF), Shr(uint64(0xFF00), 8))
}

func TestMask(t *testing.T) {
	assert.Equal(t, uint32(0), Mask[uint32](0))
	assert.Equal(t, uint32(0x7), Mask[uint32](3))
	assert.Equal(t, uint32(0x1FFFFFF), Mask[uint32](25))
	assert.Equal(t, ^uint32(0), Mask[uint32](32))
	assert.Equal(t, ^uint64(0), Mask[uint64](64))
}

func TestFitsU(t *testing.T) {
	assert.True(t, FitsU(uint64(7), 3))
	assert.False(t, FitsU(uint64(8), 3))
	assert.True(t, FitsU(^uint64(0), 64))
	assert.True(t, FitsU(uint64(0), 0))
	assert.False(t, FitsU(uint64(1), 0))
}

func TestGetU(t *testing.T) {
	word := uint32(0xD6000000 | 0x1C5)
	assert.Equal(t, uint32(0xD), GetU(word, 4, 28))
	assert.Equal(t, uint32(0x1C5)>>6&7, GetU(word, 3, 6))
	assert.Equal(t, uint32(0x5), GetU(word, 3, 0))
	assert.Equal(t, uint32(0), GetU(word, 0, 12))
}

func TestNewU(t *testing.T) {
	word, err := NewU(uint64(0), 8, 24, 0xAB)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xAB000000), word)

	word, err = NewU(word, 8, 0, 0xCD)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xAB0000CD), word)

	// overwrite preserves neighbouring bits
	word, err = NewU(word, 8, 24, 0x01)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x010000CD), word)

	full, err := NewU(uint64(0), 64, 0, ^uint64(0))
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), full)

	top, err := NewU(uint32(0x0FFFFFFF), 4, 28, 0xF)
	require.NoError(t, err)
	assert.Equal(t, ^uint32(0), top)
}

func TestNewUOverflow(t *testing.T) {
	_, err := NewU(uint32(0), 3, 0, 8)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = NewU(uint32(0), 8, 28, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	fields := []struct{ width, lsb uint }{{4, 28}, {3, 25}, {25, 0}, {3, 6}, {3, 3}, {3, 0}}
	for _, f := range fields {
		value := Mask[uint32](f.width) >> 1
		word, err := NewU(^uint32(0), f.width, f.lsb, value)
		require.NoError(t, err)
		assert.Equal(t, value, GetU(word, f.width, f.lsb), "width=%d lsb=%d", f.width, f.lsb)
	}
}
