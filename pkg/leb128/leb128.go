// Package leb128 decodes and encodes the variable-width integer encoding
// used throughout DWARF: seven payload bits per byte, with bit 7 acting as
// a continuation flag. It underlies every other package in this module —
// abbreviation ids, attribute forms, block lengths and expression operands
// are all ULEB or SLEB values.
package leb128

import "errors"

// ErrTruncated is returned when the input ends before a continuation bit
// is cleared.
var ErrTruncated = errors.New("leb128: truncated input")

// ErrOverflow is returned when a value does not fit the requested result
// width: more than 32 usable bits for the 32-bit readers, more than 10
// bytes for the 64-bit readers.
var ErrOverflow = errors.New("leb128: value overflows result width")

// ReadUint32 decodes an unsigned LEB128 value into a 32-bit result. It
// returns the decoded value and the number of bytes consumed. A zero-length
// buffer decodes to (0, 0, nil); callers that require a value must treat a
// zero byte count as a failure themselves.
func ReadUint32(buf []byte) (uint32, int, error) {
	v, n, err := readULEB(buf, 32)
	return uint32(v), n, err
}

// ReadUint64 decodes an unsigned LEB128 value into a 64-bit result.
func ReadUint64(buf []byte) (uint64, int, error) {
	return readULEB(buf, 64)
}

// ReadInt32 decodes a signed LEB128 value into a 32-bit result, sign
// extending from the high bit of the final payload byte.
func ReadInt32(buf []byte) (int32, int, error) {
	v, n, err := readSLEB(buf, 64)
	if err != nil {
		return 0, 0, err
	}
	// At most 5 bytes (ceil(32/7)), and the value must fit an int32.
	if n > 5 || int64(int32(v)) != v {
		return 0, 0, ErrOverflow
	}
	return int32(v), n, nil
}

// ReadInt64 decodes a signed LEB128 value into a 64-bit result.
func ReadInt64(buf []byte) (int64, int, error) {
	return readSLEB(buf, 64)
}

// readULEB implements the shared unsigned decode loop. bits bounds both
// the number of bytes tolerated (ceil(bits/7)) and the overflow check:
// once the accumulated shift exceeds bits, any further non-zero payload
// bits are reported as overflow rather than silently discarded.
func readULEB(buf []byte, bits int) (uint64, int, error) {
	if len(buf) == 0 {
		return 0, 0, nil
	}

	maxBytes := (bits + 6) / 7
	var value uint64
	var shift uint

	for i := 0; i < len(buf); i++ {
		if i >= maxBytes {
			return 0, 0, ErrOverflow
		}
		b := buf[i]
		chunk := uint64(b & 0x7f)

		if shift < 64 {
			value |= chunk << shift
		}
		if shift+7 > uint(bits) {
			var allowed uint
			if uint(bits) > shift {
				allowed = uint(bits) - shift
			}
			if allowed < 7 {
				mask := uint64(0x7f) &^ ((uint64(1) << allowed) - 1)
				if chunk&mask != 0 {
					return 0, 0, ErrOverflow
				}
			}
		}

		if b&0x80 == 0 {
			return value, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, ErrTruncated
}

// readSLEB implements the shared signed decode loop, sign-extending from
// bit 6 of the terminating byte once the value's natural width has been
// consumed.
func readSLEB(buf []byte, bits int) (int64, int, error) {
	if len(buf) == 0 {
		return 0, 0, nil
	}

	maxBytes := (bits + 6) / 7
	var result int64
	var shift uint
	var b byte
	n := 0

	for {
		if n >= len(buf) {
			return 0, 0, ErrTruncated
		}
		if n >= maxBytes {
			return 0, 0, ErrOverflow
		}
		b = buf[n]
		result |= int64(b&0x7f) << shift
		shift += 7
		n++
		if b&0x80 == 0 {
			break
		}
	}

	if shift < uint(bits) && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, n, nil
}

// AppendUint32 appends the ULEB128 encoding of v to dst and returns the
// extended slice. The Append functions invert the Read functions; the
// package tests use them to check the round-trip property
// read(append(v)) == (v, minimal-length).
func AppendUint32(dst []byte, v uint32) []byte {
	return AppendUint64(dst, uint64(v))
}

// AppendUint64 appends the ULEB128 encoding of v to dst.
func AppendUint64(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
		} else {
			dst = append(dst, b)
			return dst
		}
	}
}

// AppendInt32 appends the SLEB128 encoding of v to dst.
func AppendInt32(dst []byte, v int32) []byte {
	return AppendInt64(dst, int64(v))
}

// AppendInt64 appends the SLEB128 encoding of v to dst.
func AppendInt64(dst []byte, v int64) []byte {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}
