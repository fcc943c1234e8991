package elf

import "encoding/binary"

// SegmentType is the p_type field of a program header entry.
type SegmentType uint32

const (
	SegmentNull    SegmentType = 0x0
	SegmentLoad    SegmentType = 0x1
	SegmentDynamic SegmentType = 0x2
	SegmentInterp  SegmentType = 0x3
	SegmentNote    SegmentType = 0x4
	SegmentShlib   SegmentType = 0x5
	SegmentPhdr    SegmentType = 0x6
)

// SegmentFlags is the p_flags field of a program header entry: a bitmask,
// not an ordinal (the original source's SegmentFlags enum lists
// Executable/Writable/Readable as 0/1/2, which are bit positions rather
// than the masks the ABI actually uses; this is corrected here to the
// standard PF_X=0x1, PF_W=0x2, PF_R=0x4 — see DESIGN.md).
type SegmentFlags uint32

const (
	SegmentExecutable SegmentFlags = 0x1
	SegmentWritable   SegmentFlags = 0x2
	SegmentReadable   SegmentFlags = 0x4
)

// ProgramHeader is a normalized program (segment) header entry.
type ProgramHeader struct {
	Type     SegmentType
	Flags    SegmentFlags
	Offset   uint64
	VAddr    uint64
	PAddr    uint64
	FileSize uint64
	MemSize  uint64
	Align    uint64
}

// DecodeProgramHeader decodes a single program header entry. It returns
// the number of bytes consumed (32 for 32-bit, 56 for 64-bit); the two
// widths also reorder p_flags relative to p_offset.
func DecodeProgramHeader(data []byte, class Class, order binary.ByteOrder) (*ProgramHeader, int, error) {
	switch class {
	case Class64:
		const size = 56
		if len(data) < size {
			return nil, 0, newError(ErrTruncated, len(data), nil)
		}
		ph := &ProgramHeader{
			Type:     SegmentType(order.Uint32(data[0:4])),
			Flags:    SegmentFlags(order.Uint32(data[4:8])),
			Offset:   order.Uint64(data[8:16]),
			VAddr:    order.Uint64(data[16:24]),
			PAddr:    order.Uint64(data[24:32]),
			FileSize: order.Uint64(data[32:40]),
			MemSize:  order.Uint64(data[40:48]),
			Align:    order.Uint64(data[48:56]),
		}
		return ph, size, nil
	case Class32:
		const size = 32
		if len(data) < size {
			return nil, 0, newError(ErrTruncated, len(data), nil)
		}
		ph := &ProgramHeader{
			Type:     SegmentType(order.Uint32(data[0:4])),
			Offset:   uint64(order.Uint32(data[4:8])),
			VAddr:    uint64(order.Uint32(data[8:12])),
			PAddr:    uint64(order.Uint32(data[12:16])),
			FileSize: uint64(order.Uint32(data[16:20])),
			MemSize:  uint64(order.Uint32(data[20:24])),
			Flags:    SegmentFlags(order.Uint32(data[24:28])),
			Align:    uint64(order.Uint32(data[28:32])),
		}
		return ph, size, nil
	default:
		return nil, 0, newError(ErrUnsupportedClass, 0, nil)
	}
}
