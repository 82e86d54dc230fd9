// Package bitpack reads and writes unsigned bit fields inside machine words.
//
// Shifts by the full word width or more produce zero rather than wrapping,
// so a field of width 0 or a field ending at the top bit is handled without
// special cases by callers.
package bitpack

import (
	"errors"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// ErrOverflow is returned when a value does not fit the requested field, or the
// field does not fit the word.
var ErrOverflow = errors.New("bitpack: overflow packing bits")

// Width returns the number of bits in T.
func Width[T constraints.Unsigned]() uint {
	return uint(bits.Len64(uint64(^T(0))))
}

// Shl shifts word left by n bits; n >= Width[T]() yields 0.
func Shl[T constraints.Unsigned](word T, n uint) T {
	if n >= Width[T]() {
		return 0
	}
	return word << n
}

// Shr shifts word right by n bits; n >= Width[T]() yields 0.
func Shr[T constraints.Unsigned](word T, n uint) T {
	if n >= Width[T]() {
		return 0
	}
	return word >> n
}

// Mask returns a value with the low width bits set.
func Mask[T constraints.Unsigned](width uint) T {
	return ^Shl(^T(0), width)
}

// FitsU reports whether n can be represented in width unsigned bits.
func FitsU[T constraints.Unsigned](n T, width uint) bool {
	return Shr(n, width) == 0
}

// GetU extracts the width-bit field whose least significant bit is lsb.
func GetU[T constraints.Unsigned](word T, width, lsb uint) T {
	return Shr(word, lsb) & Mask[T](width)
}

// NewU returns word with the width-bit field at lsb replaced by value.
func NewU[T constraints.Unsigned](word T, width, lsb uint, value T) (T, error) {
	if width+lsb > Width[T]() || !FitsU(value, width) {
		return word, ErrOverflow
	}
	hi := lsb + width
	high := Shl(Shr(word, hi), hi)
	low := Shr(Shl(word, Width[T]()-lsb), Width[T]()-lsb)
	return high | low | Shl(value, lsb), nil
}
