package elf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sectionSpec describes one section to bake into a synthetic object built
// by buildELF64, keeping the byte-layout arithmetic in one place.
type sectionSpec struct {
	name  string
	typ   SectionType
	flags SectionFlags
	data  []byte
}

// buildELF64 assembles a minimal well-formed little-endian ELF64 object
// with the given sections (a leading null section is added automatically)
// plus a .shstrtab, returning the raw bytes and the index of each named
// section within the section header table.
func buildELF64(t *testing.T, specs []sectionSpec) ([]byte, map[string]int) {
	t.Helper()
	order := binary.LittleEndian

	all := append([]sectionSpec{{name: "", typ: SHTNull}}, specs...)
	all = append(all, sectionSpec{name: ".shstrtab", typ: SHTStrTab})

	var nameTable []byte
	nameOffsets := make([]uint32, len(all))
	for i, s := range all {
		nameOffsets[i] = uint32(len(nameTable))
		nameTable = append(nameTable, []byte(s.name)...)
		nameTable = append(nameTable, 0)
	}
	all[len(all)-1].data = nameTable

	const ehsize = 64
	const shsize = 64

	var body []byte
	offsets := make([]uint64, len(all))
	for i, s := range all {
		if s.typ == SHTNull || s.typ == SHTNoBits {
			continue
		}
		offsets[i] = uint64(ehsize + len(body))
		body = append(body, s.data...)
	}

	indexByName := make(map[string]int)
	for i, s := range all {
		if s.name != "" {
			indexByName[s.name] = i
		}
	}

	shoff := uint64(ehsize + len(body))

	var buf []byte
	buf = append(buf, 0x7f, 'E', 'L', 'F')
	buf = append(buf, byte(Class64), byte(DataLittleEndian), 1)
	buf = append(buf, make([]byte, 9)...) // pad e_ident to 16
	buf = order.AppendUint16(buf, 2)      // e_type: ET_EXEC
	buf = order.AppendUint16(buf, 0x3e)   // e_machine: EM_X86_64
	buf = order.AppendUint32(buf, 1)      // e_version
	buf = order.AppendUint64(buf, 0x1000) // e_entry
	buf = order.AppendUint64(buf, 0)      // e_phoff
	buf = order.AppendUint64(buf, shoff)  // e_shoff
	buf = order.AppendUint32(buf, 0)      // e_flags
	buf = order.AppendUint16(buf, ehsize) // e_ehsize
	buf = order.AppendUint16(buf, 0)      // e_phentsize
	buf = order.AppendUint16(buf, 0)      // e_phnum
	buf = order.AppendUint16(buf, shsize) // e_shentsize
	buf = order.AppendUint16(buf, uint16(len(all)))
	buf = order.AppendUint16(buf, uint16(len(all)-1)) // e_shstrndx

	require.Equal(t, ehsize, len(buf))
	buf = append(buf, body...)

	for i, s := range all {
		buf = order.AppendUint32(buf, nameOffsets[i])
		buf = order.AppendUint32(buf, uint32(s.typ))
		buf = order.AppendUint64(buf, uint64(s.flags))
		buf = order.AppendUint64(buf, 0) // sh_addr
		buf = order.AppendUint64(buf, offsets[i])
		buf = order.AppendUint64(buf, uint64(len(s.data)))
		buf = order.AppendUint32(buf, 0) // sh_link
		buf = order.AppendUint32(buf, 0) // sh_info
		buf = order.AppendUint64(buf, 1) // sh_addralign
		buf = order.AppendUint64(buf, 0) // sh_entsize
	}

	return buf, indexByName
}

func TestDecodeHeader(t *testing.T) {
	data, _ := buildELF64(t, nil)
	h, err := DecodeHeader(data)
	require.NoError(t, err)
	assert.Equal(t, Class64, h.Class)
	assert.Equal(t, DataLittleEndian, h.Data)
	assert.EqualValues(t, 0x3e, h.Machine)
}

func TestDecodeHeader_NotELF(t *testing.T) {
	_, err := DecodeHeader([]byte("not an elf file at all"))
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ErrNotELF, e.Kind)
}

func TestDecodeHeader_Truncated(t *testing.T) {
	_, err := DecodeHeader([]byte{0x7f, 'E', 'L'})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ErrTruncated, e.Kind)
}

func TestDecodeHeader_EndianMismatch(t *testing.T) {
	data, _ := buildELF64(t, nil)
	data[5] = byte(DataBigEndian)
	_, err := DecodeHeader(data)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ErrEndianMismatch, e.Kind)
}

func TestFileSections(t *testing.T) {
	text := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	data, idx := buildELF64(t, []sectionSpec{
		{name: ".text", typ: SHTProgBits, flags: SHFAlloc | SHFExecInstr, data: text},
	})

	f, err := NewFile(data)
	require.NoError(t, err)

	sections, err := f.Sections()
	require.NoError(t, err)
	require.Len(t, sections, 3) // null, .text, .shstrtab

	textSec := sections[idx[".text"]]
	assert.Equal(t, ".text", textSec.Name)
	raw, err := textSec.Raw()
	require.NoError(t, err)
	assert.Equal(t, text, raw)
}

func TestFileSymbols(t *testing.T) {
	strtabData := []byte{0x00}
	strtabData = append(strtabData, []byte("main\x00")...)
	nameOff := uint32(1)

	var symtabData []byte
	order := binary.LittleEndian
	// symbol 0: the mandatory null symbol
	symtabData = order.AppendUint32(symtabData, 0)
	symtabData = append(symtabData, 0, 0)
	symtabData = order.AppendUint16(symtabData, 0)
	symtabData = order.AppendUint64(symtabData, 0)
	symtabData = order.AppendUint64(symtabData, 0)
	// symbol 1: "main", a global function
	symtabData = order.AppendUint32(symtabData, nameOff)
	symtabData = append(symtabData, byte(SymFunction)|byte(BindGlobal)<<4, 0)
	symtabData = order.AppendUint16(symtabData, 1)
	symtabData = order.AppendUint64(symtabData, 0x1000)
	symtabData = order.AppendUint64(symtabData, 16)

	data, idx := buildELF64(t, []sectionSpec{
		{name: ".symtab", typ: SHTSymTab, data: symtabData},
		{name: ".strtab", typ: SHTStrTab, data: strtabData},
	})

	f, err := NewFile(data)
	require.NoError(t, err)
	sections, err := f.Sections()
	require.NoError(t, err)

	syms, err := f.Symbols(sections[idx[".symtab"]], sections[idx[".strtab"]])
	require.NoError(t, err)
	require.Len(t, syms, 2)

	main := syms[1]
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, SymFunction, main.Type())
	assert.Equal(t, BindGlobal, main.Binding())
	assert.EqualValues(t, 0x1000, main.Value)
}

func TestSectionDecompress(t *testing.T) {
	payload := []byte("line number program bytes, repeated repeated repeated")

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	order := binary.LittleEndian
	var chdr []byte
	chdr = order.AppendUint32(chdr, 1) // ch_type: ELFCOMPRESS_ZLIB
	chdr = order.AppendUint32(chdr, 0) // reserved
	chdr = order.AppendUint64(chdr, uint64(len(payload)))
	chdr = order.AppendUint64(chdr, 8)
	sectionData := append(chdr, compressed.Bytes()...)

	data, idx := buildELF64(t, []sectionSpec{
		{name: ".debug_line", typ: SHTProgBits, flags: SHFCompressed, data: sectionData},
	})

	f, err := NewFile(data)
	require.NoError(t, err)
	sections, err := f.Sections()
	require.NoError(t, err)

	sec := sections[idx[".debug_line"]]
	assert.True(t, sec.Compressed())

	out, err := sec.Decompress()
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestProgramHeaders_Empty(t *testing.T) {
	data, _ := buildELF64(t, nil)
	f, err := NewFile(data)
	require.NoError(t, err)
	phs, err := f.ProgramHeaders()
	require.NoError(t, err)
	assert.Empty(t, phs)
}
