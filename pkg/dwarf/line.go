package dwarf

import (
	"encoding/binary"

	"github.com/jsren/godwarf/pkg/leb128"
)

// LineNumberProgramHeader is the fixed-plus-variable header that precedes
// a compilation unit's line-number program in .debug_line. Only the
// header is decoded here — the byte-code state machine that follows it
// (the opcodes driving the line-number matrix) is out of scope.
type LineNumberProgramHeader struct {
	Width                Width
	UnitLength           uint64
	Version              uint16
	HeaderLength         uint64
	MinInstructionLength uint8
	MaxOpsPerInstruction uint8 // DWARF 4+ only; 1 for DWARF 2/3
	DefaultIsStmt        bool
	LineBase             int8
	LineRange            uint8
	OpcodeBase           uint8
	StandardOpcodeLengths []uint8
	IncludeDirectories   []string
	FileEntries          []FileEntry
}

// FileEntry is one entry of a line-number program's file name table.
type FileEntry struct {
	Name                 string
	IncludeDirectoryIndex uint64
	LastModified         uint64
	Size                 uint64
}

// ProgramEnd returns the offset, relative to the start of this header's
// data, one past the last byte of the line-number program this header
// introduces.
func (h LineNumberProgramHeader) ProgramEnd() int {
	lengthFieldSize := 4
	if h.Width == Width64 {
		lengthFieldSize = 12
	}
	return lengthFieldSize + int(h.UnitLength)
}

func readCString(data []byte, pos int) (string, int) {
	start := pos
	for pos < len(data) && data[pos] != 0 {
		pos++
	}
	if pos >= len(data) {
		return string(data[start:]), pos
	}
	return string(data[start:pos]), pos + 1
}

// DecodeLineNumberProgramHeader decodes the header at the start of data.
// The version argument (typically the owning compilation unit's), not the
// header's own version field, decides whether MaxOpsPerInstruction is
// read, since the fixed part gained that field in DWARF 4. The header's
// own version field is still decoded into Version.
func DecodeLineNumberProgramHeader(data []byte, version uint16, order binary.ByteOrder) (*LineNumberProgramHeader, error) {
	if len(data) < 4 {
		return nil, newError(ErrTruncated, len(data), nil)
	}
	initial := order.Uint32(data[0:4])

	width := Width32
	pos := 4
	var unitLength uint64 = uint64(initial)
	if initial == dwarf64Escape {
		if len(data) < 12 {
			return nil, newError(ErrTruncated, len(data), nil)
		}
		width = Width64
		unitLength = order.Uint64(data[4:12])
		pos = 12
	}

	offsetSize := 4
	if width == Width64 {
		offsetSize = 8
	}

	need := pos + 2 + offsetSize + 5
	if len(data) < need {
		return nil, newError(ErrTruncated, len(data), nil)
	}

	h := &LineNumberProgramHeader{Width: width, UnitLength: unitLength}
	h.Version = order.Uint16(data[pos : pos+2])
	pos += 2

	if offsetSize == 8 {
		h.HeaderLength = order.Uint64(data[pos : pos+8])
	} else {
		h.HeaderLength = uint64(order.Uint32(data[pos : pos+4]))
	}
	pos += offsetSize

	h.MinInstructionLength = data[pos]
	pos++

	if version >= 4 {
		if len(data) < pos+1 {
			return nil, newError(ErrTruncated, pos, nil)
		}
		h.MaxOpsPerInstruction = data[pos]
		pos++
	} else {
		h.MaxOpsPerInstruction = 1
	}

	if len(data) < pos+4 {
		return nil, newError(ErrTruncated, pos, nil)
	}
	h.DefaultIsStmt = data[pos] != 0
	pos++
	h.LineBase = int8(data[pos])
	pos++
	h.LineRange = data[pos]
	pos++
	h.OpcodeBase = data[pos]
	pos++

	if h.OpcodeBase > 0 {
		n := int(h.OpcodeBase) - 1
		if len(data) < pos+n {
			return nil, newError(ErrTruncated, pos, nil)
		}
		h.StandardOpcodeLengths = append([]byte(nil), data[pos:pos+n]...)
		pos += n
	}

	for {
		if pos >= len(data) {
			return nil, newError(ErrTruncated, pos, nil)
		}
		if data[pos] == 0 {
			pos++
			break
		}
		var dir string
		dir, pos = readCString(data, pos)
		h.IncludeDirectories = append(h.IncludeDirectories, dir)
	}

	for {
		if pos >= len(data) {
			return nil, newError(ErrTruncated, pos, nil)
		}
		if data[pos] == 0 {
			pos++
			break
		}
		var name string
		name, pos = readCString(data, pos)

		dirIndex, n, err := leb128.ReadUint64(data[pos:])
		if err != nil {
			return nil, newError(ErrTruncated, pos, err)
		}
		pos += n

		modTime, n, err := leb128.ReadUint64(data[pos:])
		if err != nil {
			return nil, newError(ErrTruncated, pos, err)
		}
		pos += n

		size, n, err := leb128.ReadUint64(data[pos:])
		if err != nil {
			return nil, newError(ErrTruncated, pos, err)
		}
		pos += n

		h.FileEntries = append(h.FileEntries, FileEntry{
			Name:                  name,
			IncludeDirectoryIndex: dirIndex,
			LastModified:          modTime,
			Size:                  size,
		})
	}

	return h, nil
}
