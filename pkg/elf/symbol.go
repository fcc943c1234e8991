package elf

import (
	"encoding/binary"

	"github.com/jsren/godwarf/internal/bits"
)

// SymbolBinding is the high 4 bits of a symbol's st_info byte.
type SymbolBinding uint8

const (
	BindLocal  SymbolBinding = 0
	BindGlobal SymbolBinding = 1
	BindWeak   SymbolBinding = 2
)

// SymbolType is the low 4 bits of a symbol's st_info byte.
type SymbolType uint8

const (
	SymNone     SymbolType = 0
	SymObject   SymbolType = 1
	SymFunction SymbolType = 2
	SymSection  SymbolType = 3
	SymFile     SymbolType = 4
)

// Symbol is a normalized symbol table entry. NameIndex is the raw
// st_name string-table offset; Name is filled in once a Symbol has been
// resolved against its string table section (see File.Symbols).
type Symbol struct {
	Name      string
	NameIndex uint32
	Info      uint8
	Other     uint8
	Shndx     uint16
	Value     uint64
	Size      uint64
}

// Type extracts the symbol's type from its info byte.
func (s Symbol) Type() SymbolType {
	return SymbolType(bits.View[uint8]{Value: s.Info}.Field(0, 4))
}

// Binding extracts the symbol's binding from its info byte.
func (s Symbol) Binding() SymbolBinding {
	return SymbolBinding(bits.View[uint8]{Value: s.Info}.Field(4, 4))
}

// DecodeSymbol decodes a single symbol table entry. It returns the number
// of bytes consumed (16 for 32-bit, 24 for 64-bit). The 32-bit and 64-bit
// layouts order their fields differently, not merely widen them.
func DecodeSymbol(data []byte, class Class, order binary.ByteOrder) (*Symbol, int, error) {
	switch class {
	case Class64:
		const size = 24
		if len(data) < size {
			return nil, 0, newError(ErrTruncated, len(data), nil)
		}
		sym := &Symbol{
			NameIndex: order.Uint32(data[0:4]),
			Info:      data[4],
			Other:     data[5],
			Shndx:     order.Uint16(data[6:8]),
			Value:     order.Uint64(data[8:16]),
			Size:      order.Uint64(data[16:24]),
		}
		return sym, size, nil
	case Class32:
		const size = 16
		if len(data) < size {
			return nil, 0, newError(ErrTruncated, len(data), nil)
		}
		sym := &Symbol{
			NameIndex: order.Uint32(data[0:4]),
			Value:     uint64(order.Uint32(data[4:8])),
			Size:      uint64(order.Uint32(data[8:12])),
			Info:      data[12],
			Other:     data[13],
			Shndx:     order.Uint16(data[14:16]),
		}
		return sym, size, nil
	default:
		return nil, 0, newError(ErrUnsupportedClass, 0, nil)
	}
}
