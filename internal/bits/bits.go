// Package bits provides small bit-level helpers shared by the ELF and
// DWARF decoders: extracting sub-byte fields (a symbol's binding/type
// nibbles, an expression operand's sign bit) and masking values down to a
// narrower width.
package bits

import "golang.org/x/exp/constraints"

const PerByte = 8

// AllOnes returns an all-ones bitmask of the given width for an unsigned
// integer type.
func AllOnes[T constraints.Unsigned](width int) T {
	if width <= 0 {
		return 0
	}
	return (T(1) << width) - T(1)
}

// View is a read-only window over an unsigned integer's bit fields, used
// for multi-bit-field bytes like ELF's st_info (binding in the high
// nibble, type in the low nibble).
type View[T constraints.Unsigned] struct {
	Value T
}

// Field extracts width bits starting at bit.
func (v View[T]) Field(bit, width int) T {
	return (v.Value >> bit) & AllOnes[T](width)
}

// Mask truncates v to the low 8*size bits, size in [0,8]. size >= 8 (or
// for types narrower than 8 bytes, size >= the type's width) returns v
// unchanged.
func Mask(v uint64, size int) uint64 {
	if size <= 0 {
		return 0
	}
	if size >= 8 {
		return v
	}
	return v & AllOnes[uint64](size*PerByte)
}

// SignExtend sign-extends the low 8*size bits of v to a full int64, size
// in [1,8].
func SignExtend(v uint64, size int) int64 {
	if size >= 8 {
		return int64(v)
	}
	shift := uint(64 - size*PerByte)
	return int64(v<<shift) >> shift
}
