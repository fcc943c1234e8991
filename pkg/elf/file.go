package elf

import "encoding/binary"

// File wraps a raw ELF object buffer with its decoded header and provides
// the section, symbol and program header tables. It does not copy data;
// Section.Raw returns slices into the buffer passed to NewFile, which
// callers must keep alive. File.Symbols returns decoded Symbol values
// whose names are copied out of the string table.
type File struct {
	data   []byte
	Header *Header
	order  binary.ByteOrder
}

// NewFile decodes data's ELF header and returns a File ready to answer
// Sections/ProgramHeaders/Symbols. It performs no further validation;
// malformed section or symbol tables surface as errors from those calls.
func NewFile(data []byte) (*File, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	return &File{data: data, Header: h, order: h.byteOrder()}, nil
}

func (f *File) sectionHeaderSize() int {
	if f.Header.Class == Class64 {
		return 64
	}
	return 40
}

func (f *File) programHeaderSize() int {
	if f.Header.Class == Class64 {
		return 56
	}
	return 32
}

func (f *File) symbolSize() int {
	if f.Header.Class == Class64 {
		return 24
	}
	return 16
}

// Sections decodes the section header table and resolves each section's
// name against the section named by e_shstrndx.
func (f *File) Sections() ([]Section, error) {
	entSize := f.sectionHeaderSize()
	sections := make([]Section, 0, f.Header.ShNum)

	for i := 0; i < int(f.Header.ShNum); i++ {
		off := int(f.Header.ShOff) + i*entSize
		if off < 0 || off+entSize > len(f.data) {
			return nil, newError(ErrTruncated, off, nil)
		}
		sh, _, err := DecodeSectionHeader(f.data[off:off+entSize], f.Header.Class, f.order)
		if err != nil {
			return nil, err
		}
		sections = append(sections, Section{Header: *sh, file: f})
	}

	if int(f.Header.ShStrNdx) < len(sections) {
		strtab, err := sections[f.Header.ShStrNdx].Raw()
		if err == nil {
			for i := range sections {
				sections[i].Name = cstring(strtab, int(sections[i].Header.Name))
			}
		}
	}
	return sections, nil
}

// ProgramHeaders decodes the program header (segment) table.
func (f *File) ProgramHeaders() ([]ProgramHeader, error) {
	entSize := f.programHeaderSize()
	phs := make([]ProgramHeader, 0, f.Header.PhNum)

	for i := 0; i < int(f.Header.PhNum); i++ {
		off := int(f.Header.PhOff) + i*entSize
		if off < 0 || off+entSize > len(f.data) {
			return nil, newError(ErrTruncated, off, nil)
		}
		ph, _, err := DecodeProgramHeader(f.data[off:off+entSize], f.Header.Class, f.order)
		if err != nil {
			return nil, err
		}
		phs = append(phs, *ph)
	}
	return phs, nil
}

// Symbols decodes the symbol table held by symtab, resolving each entry's
// name against strtab (the section symtab.Header.Link normally points at;
// callers that already have the full section slice can pass
// sections[symtab.Header.Link] directly).
func (f *File) Symbols(symtab Section, strtab Section) ([]Symbol, error) {
	raw, err := symtab.Raw()
	if err != nil {
		return nil, err
	}
	names, err := strtab.Raw()
	if err != nil {
		return nil, err
	}

	entSize := f.symbolSize()
	count := len(raw) / entSize
	syms := make([]Symbol, 0, count)

	for i := 0; i < count; i++ {
		off := i * entSize
		sym, _, err := DecodeSymbol(raw[off:off+entSize], f.Header.Class, f.order)
		if err != nil {
			return nil, err
		}
		sym.Name = cstring(names, int(sym.NameIndex))
		syms = append(syms, *sym)
	}
	return syms, nil
}
