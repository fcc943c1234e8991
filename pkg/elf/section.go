package elf

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"
)

// SectionType is the sh_type field of a section header.
type SectionType uint32

const (
	SHTNull     SectionType = 0x0
	SHTProgBits SectionType = 0x1
	SHTSymTab   SectionType = 0x2
	SHTStrTab   SectionType = 0x3
	SHTRela     SectionType = 0x4
	SHTHash     SectionType = 0x5
	SHTDynamic  SectionType = 0x6
	SHTNote     SectionType = 0x7
	SHTNoBits   SectionType = 0x8
	SHTRel      SectionType = 0x9
	SHTShLib    SectionType = 0xA
	SHTDynSym   SectionType = 0xB
)

// SectionFlags is the sh_flags field of a section header.
type SectionFlags uint64

const (
	SHFWrite      SectionFlags = 0x1
	SHFAlloc      SectionFlags = 0x2
	SHFExecInstr  SectionFlags = 0x4
	SHFCompressed SectionFlags = 0x800
)

// SectionHeader is the normalized section header, 32-bit fields widened
// to match their 64-bit counterparts.
type SectionHeader struct {
	Name      uint32
	Type      SectionType
	Flags     SectionFlags
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

// DecodeSectionHeader decodes a single section header entry. It returns
// the number of bytes consumed (40 for 32-bit, 64 for 64-bit).
func DecodeSectionHeader(data []byte, class Class, order binary.ByteOrder) (*SectionHeader, int, error) {
	switch class {
	case Class64:
		const size = 64
		if len(data) < size {
			return nil, 0, newError(ErrTruncated, len(data), nil)
		}
		sh := &SectionHeader{
			Name:      order.Uint32(data[0:4]),
			Type:      SectionType(order.Uint32(data[4:8])),
			Flags:     SectionFlags(order.Uint64(data[8:16])),
			Addr:      order.Uint64(data[16:24]),
			Offset:    order.Uint64(data[24:32]),
			Size:      order.Uint64(data[32:40]),
			Link:      order.Uint32(data[40:44]),
			Info:      order.Uint32(data[44:48]),
			AddrAlign: order.Uint64(data[48:56]),
			EntSize:   order.Uint64(data[56:64]),
		}
		return sh, size, nil
	case Class32:
		const size = 40
		if len(data) < size {
			return nil, 0, newError(ErrTruncated, len(data), nil)
		}
		sh := &SectionHeader{
			Name:      order.Uint32(data[0:4]),
			Type:      SectionType(order.Uint32(data[4:8])),
			Flags:     SectionFlags(order.Uint32(data[8:12])),
			Addr:      uint64(order.Uint32(data[12:16])),
			Offset:    uint64(order.Uint32(data[16:20])),
			Size:      uint64(order.Uint32(data[20:24])),
			Link:      order.Uint32(data[24:28]),
			Info:      order.Uint32(data[28:32]),
			AddrAlign: uint64(order.Uint32(data[32:36])),
			EntSize:   uint64(order.Uint32(data[36:40])),
		}
		return sh, size, nil
	default:
		return nil, 0, newError(ErrUnsupportedClass, 0, nil)
	}
}

// Section pairs a decoded SectionHeader with its resolved name and the
// File it was read from, so callers can fetch its raw bytes on demand
// instead of the whole object being loaded eagerly.
type Section struct {
	Name   string
	Header SectionHeader
	file   *File
}

// Raw returns the section's file contents. SHT_NOBITS sections (.bss)
// occupy no file space and return (nil, nil).
func (s Section) Raw() ([]byte, error) {
	if s.Header.Type == SHTNoBits {
		return nil, nil
	}
	start := int(s.Header.Offset)
	end := start + int(s.Header.Size)
	if start < 0 || end > len(s.file.data) || end < start {
		return nil, newError(ErrTruncated, start, nil)
	}
	return s.file.data[start:end], nil
}

// Compressed reports whether SHF_COMPRESSED is set.
func (s Section) Compressed() bool {
	return s.Header.Flags&SHFCompressed != 0
}

// chdrSize returns the size of the Elf{32,64}_Chdr compression header that
// precedes a compressed section's payload.
func (s Section) chdrSize() int {
	if s.file.Header.Class == Class64 {
		return 24 // ch_type u32, reserved u32, ch_size u64, ch_addralign u64
	}
	return 12 // ch_type u32, ch_size u32, ch_addralign u32
}

// Decompress returns the section's uncompressed payload. If SHF_COMPRESSED
// is not set it behaves exactly like Raw. Otherwise it strips the
// Elf{32,64}_Chdr prefix and inflates the remaining zlib stream.
func (s Section) Decompress() ([]byte, error) {
	raw, err := s.Raw()
	if err != nil {
		return nil, err
	}
	if !s.Compressed() {
		return raw, nil
	}

	hdrSize := s.chdrSize()
	if len(raw) < hdrSize {
		return nil, newError(ErrBadCompression, int(s.Header.Offset), nil)
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw[hdrSize:]))
	if err != nil {
		return nil, newError(ErrBadCompression, int(s.Header.Offset), err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, newError(ErrBadCompression, int(s.Header.Offset), err)
	}
	return out, nil
}

func cstring(data []byte, offset int) string {
	if offset < 0 || offset >= len(data) {
		return ""
	}
	end := offset
	for end < len(data) && data[end] != 0 {
		end++
	}
	return string(data[offset:end])
}
