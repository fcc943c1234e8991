package dwarf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLineNumberProgramHeader_DWARF4(t *testing.T) {
	var body []byte
	body = binary.LittleEndian.AppendUint16(body, 4) // version
	headerLengthPos := len(body)
	body = binary.LittleEndian.AppendUint32(body, 0) // header length placeholder
	afterHeaderLength := len(body)

	body = append(body, 1)    // min instruction length
	body = append(body, 1)    // max ops per instruction (DWARF4+)
	body = append(body, 1)    // default is stmt
	body = append(body, 0xFB) // line base (-5)
	body = append(body, 14)   // line range
	body = append(body, 13)   // opcode base
	body = append(body, make([]byte, 12)...)

	body = append(body, 0) // no include directories

	body = append(body, []byte("main.c\x00")...)
	body = appendULEB(body, 0) // include dir index
	body = appendULEB(body, 0) // mtime
	body = appendULEB(body, 0) // size
	body = append(body, 0)     // end of file table

	headerLength := uint32(len(body) - afterHeaderLength)
	binary.LittleEndian.PutUint32(body[headerLengthPos:], headerLength)

	var data []byte
	data = binary.LittleEndian.AppendUint32(data, uint32(len(body)))
	data = append(data, body...)

	h, err := DecodeLineNumberProgramHeader(data, 4, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, Width32, h.Width)
	assert.Equal(t, uint16(4), h.Version)
	assert.Equal(t, uint8(1), h.MaxOpsPerInstruction)
	assert.Equal(t, int8(-5), h.LineBase)
	assert.Equal(t, uint8(14), h.LineRange)
	require.Len(t, h.FileEntries, 1)
	assert.Equal(t, "main.c", h.FileEntries[0].Name)
	assert.Empty(t, h.IncludeDirectories)
}

func TestDecodeLineNumberProgramHeader_Truncated(t *testing.T) {
	_, err := DecodeLineNumberProgramHeader([]byte{1, 2}, 4, binary.LittleEndian)
	assert.Error(t, err)
}
