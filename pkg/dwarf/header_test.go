package dwarf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCompilationUnitHeader32(t *testing.T) {
	var data []byte
	data = binary.LittleEndian.AppendUint32(data, 27) // unit length
	data = binary.LittleEndian.AppendUint16(data, 4)  // version
	data = binary.LittleEndian.AppendUint32(data, 0)  // abbrev offset
	data = append(data, 8)                            // address size
	data = append(data, 0xAA, 0xBB, 0xCC)              // trailing DIE bytes

	h, err := DecodeCompilationUnitHeader(data, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, Width32, h.Width)
	assert.Equal(t, uint64(27), h.UnitLength)
	assert.Equal(t, uint16(4), h.Version)
	assert.Equal(t, uint8(8), h.AddressSize)
	assert.Equal(t, 11, h.Size())
}

func TestDecodeCompilationUnitHeader64(t *testing.T) {
	var data []byte
	data = binary.LittleEndian.AppendUint32(data, dwarf64Escape)
	data = binary.LittleEndian.AppendUint64(data, 200)
	data = binary.LittleEndian.AppendUint16(data, 3)
	data = binary.LittleEndian.AppendUint64(data, 16)
	data = append(data, 8)

	h, err := DecodeCompilationUnitHeader(data, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, Width64, h.Width)
	assert.Equal(t, uint64(200), h.UnitLength)
	assert.Equal(t, uint16(3), h.Version)
	assert.Equal(t, uint64(16), h.DebugAbbrevOffset)
	assert.Equal(t, 23, h.Size())
}

func TestDecodeCompilationUnitHeader_Truncated(t *testing.T) {
	_, err := DecodeCompilationUnitHeader([]byte{1, 2}, binary.LittleEndian)
	assert.Error(t, err)
}
