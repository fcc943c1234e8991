package dwarf

import "encoding/binary"

// Width is the DWARF format width signalled by a compilation unit's
// initial length field: 32-bit DWARF (the common case) or 64-bit DWARF
// (signalled by a 0xffffffff escape value followed by a 64-bit length).
// This is independent of the target's address size, which is a separate
// per-unit field.
type Width int

const (
	Width32 Width = iota
	Width64
)

// dwarf64Escape is the sentinel unitLength value that signals 64-bit
// DWARF: the real length follows as a 64-bit field.
const dwarf64Escape = 0xffffffff

// CompilationUnitHeader is the fixed-size header at the start of a
// compilation unit's entry in .debug_info.
type CompilationUnitHeader struct {
	Width             Width
	UnitLength        uint64
	Version           uint16
	DebugAbbrevOffset uint64
	AddressSize       uint8
}

// Size returns the number of bytes this header occupies on the wire: 11
// for 32-bit DWARF, 23 for 64-bit DWARF (4 escape + 8 length + 2 version
// + 8 abbrev offset + 1 address size).
func (h CompilationUnitHeader) Size() int {
	if h.Width == Width64 {
		return 23
	}
	return 11
}

// DecodeCompilationUnitHeader decodes the header at the start of data,
// detecting 32- vs 64-bit DWARF from the initial length escape value.
func DecodeCompilationUnitHeader(data []byte, order binary.ByteOrder) (*CompilationUnitHeader, error) {
	if len(data) < 4 {
		return nil, newError(ErrTruncated, len(data), nil)
	}
	initial := order.Uint32(data[0:4])

	if initial != dwarf64Escape {
		const size = 11
		if len(data) < size {
			return nil, newError(ErrTruncated, len(data), nil)
		}
		return &CompilationUnitHeader{
			Width:             Width32,
			UnitLength:        uint64(initial),
			Version:           order.Uint16(data[4:6]),
			DebugAbbrevOffset: uint64(order.Uint32(data[6:10])),
			AddressSize:       data[10],
		}, nil
	}

	const size = 23
	if len(data) < size {
		return nil, newError(ErrTruncated, len(data), nil)
	}
	return &CompilationUnitHeader{
		Width:             Width64,
		UnitLength:        order.Uint64(data[4:12]),
		Version:           order.Uint16(data[12:14]),
		DebugAbbrevOffset: order.Uint64(data[14:22]),
		AddressSize:       data[22],
	}, nil
}
