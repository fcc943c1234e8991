// Package elf decodes ELF object file headers, section headers, symbol
// table entries and program headers from a raw byte buffer. It supports
// both 32-bit and 64-bit little-endian objects (DecodeHeader rejects
// big-endian ones with ErrEndianMismatch), matching the layouts in the
// System V ABI rather than relying on the host's native struct layout the
// way a straight memcpy would.
package elf

import "encoding/binary"

const identSize = 16

// Class distinguishes 32-bit from 64-bit object layouts, read from
// e_ident[EI_CLASS].
type Class uint8

const (
	Class32 Class = 1
	Class64 Class = 2
)

// Data distinguishes little-endian from big-endian encoding, read from
// e_ident[EI_DATA].
type Data uint8

const (
	DataLittleEndian Data = 1
	DataBigEndian    Data = 2
)

// Header is the normalized ELF file header: 32-bit objects are widened
// into the same fields 64-bit objects use, so callers never branch on
// Class once a Header has been decoded.
type Header struct {
	Ident     [identSize]byte
	Class     Class
	Data      Data
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	PhOff     uint64
	ShOff     uint64
	Flags     uint32
	EhSize    uint16
	PhEntSize uint16
	PhNum     uint16
	ShEntSize uint16
	ShNum     uint16
	ShStrNdx  uint16
}

func (h *Header) byteOrder() binary.ByteOrder {
	if h.Data == DataBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// DecodeHeader decodes an ELF file header from the start of data.
func DecodeHeader(data []byte) (*Header, error) {
	if len(data) < identSize {
		return nil, newError(ErrTruncated, len(data), nil)
	}
	if data[0] != 0x7f || data[1] != 'E' || data[2] != 'L' || data[3] != 'F' {
		return nil, newError(ErrNotELF, 0, nil)
	}

	h := &Header{Class: Class(data[4]), Data: Data(data[5])}
	if h.Data != DataLittleEndian {
		return nil, newError(ErrEndianMismatch, 5, nil)
	}
	copy(h.Ident[:], data[:identSize])
	order := h.byteOrder()

	switch h.Class {
	case Class64:
		const size = 64
		if len(data) < size {
			return nil, newError(ErrTruncated, len(data), nil)
		}
		h.Type = order.Uint16(data[16:18])
		h.Machine = order.Uint16(data[18:20])
		h.Version = order.Uint32(data[20:24])
		h.Entry = order.Uint64(data[24:32])
		h.PhOff = order.Uint64(data[32:40])
		h.ShOff = order.Uint64(data[40:48])
		h.Flags = order.Uint32(data[48:52])
		h.EhSize = order.Uint16(data[52:54])
		h.PhEntSize = order.Uint16(data[54:56])
		h.PhNum = order.Uint16(data[56:58])
		h.ShEntSize = order.Uint16(data[58:60])
		h.ShNum = order.Uint16(data[60:62])
		h.ShStrNdx = order.Uint16(data[62:64])
	case Class32:
		const size = 52
		if len(data) < size {
			return nil, newError(ErrTruncated, len(data), nil)
		}
		h.Type = order.Uint16(data[16:18])
		h.Machine = order.Uint16(data[18:20])
		h.Version = order.Uint32(data[20:24])
		h.Entry = uint64(order.Uint32(data[24:28]))
		h.PhOff = uint64(order.Uint32(data[28:32]))
		h.ShOff = uint64(order.Uint32(data[32:36]))
		h.Flags = order.Uint32(data[36:40])
		h.EhSize = order.Uint16(data[40:42])
		h.PhEntSize = order.Uint16(data[42:44])
		h.PhNum = order.Uint16(data[44:46])
		h.ShEntSize = order.Uint16(data[46:48])
		h.ShNum = order.Uint16(data[48:50])
		h.ShStrNdx = order.Uint16(data[50:52])
	default:
		return nil, newError(ErrUnsupportedClass, 4, nil)
	}
	return h, nil
}
