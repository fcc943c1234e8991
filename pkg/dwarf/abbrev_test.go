package dwarf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendULEB(data []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		data = append(data, b)
		if v == 0 {
			return data
		}
	}
}

func TestParseAbbrevTable(t *testing.T) {
	var data []byte
	// code 1: DW_TAG_compile_unit, has children, one attribute (DW_AT_name, DW_FORM_string)
	data = appendULEB(data, 1)
	data = appendULEB(data, uint64(TagCompileUnit))
	data = append(data, 1) // has children
	data = appendULEB(data, uint64(AttrName))
	data = appendULEB(data, uint64(FormString))
	data = appendULEB(data, 0)
	data = appendULEB(data, 0)

	// code 2: DW_TAG_base_type, no children, no attributes
	data = appendULEB(data, 2)
	data = appendULEB(data, uint64(TagBaseType))
	data = append(data, 0)
	data = appendULEB(data, 0)
	data = appendULEB(data, 0)

	// terminator
	data = appendULEB(data, 0)

	table, err := ParseAbbrevTable(data, 0)
	require.NoError(t, err)
	require.Len(t, table, 2)

	a1 := table[1]
	assert.Equal(t, TagCompileUnit, a1.Tag)
	assert.True(t, a1.HasChildren)
	require.Len(t, a1.Attributes, 1)
	assert.Equal(t, AttrName, a1.Attributes[0].Name)
	assert.Equal(t, FormString, a1.Attributes[0].Form)

	a2 := table[2]
	assert.Equal(t, TagBaseType, a2.Tag)
	assert.False(t, a2.HasChildren)
	assert.Empty(t, a2.Attributes)
}

func TestParseAbbrevTable_Truncated(t *testing.T) {
	data := []byte{1}
	_, err := ParseAbbrevTable(data, 0)
	assert.Error(t, err)
}

func TestParseAbbrevTable_OffsetOutOfRange(t *testing.T) {
	_, err := ParseAbbrevTable([]byte{0}, 5)
	assert.Error(t, err)
}

func TestParseAbbrevTable_DuplicateCode(t *testing.T) {
	var data []byte
	data = appendULEB(data, 1)
	data = appendULEB(data, uint64(TagCompileUnit))
	data = append(data, 0)
	data = appendULEB(data, 0)
	data = appendULEB(data, 0)

	// code 1 again: duplicate within the same unit's table
	data = appendULEB(data, 1)
	data = appendULEB(data, uint64(TagBaseType))
	data = append(data, 0)
	data = appendULEB(data, 0)
	data = appendULEB(data, 0)

	data = appendULEB(data, 0)

	_, err := ParseAbbrevTable(data, 0)
	require.Error(t, err)
	var dwarfErr *Error
	require.ErrorAs(t, err, &dwarfErr)
	assert.Equal(t, ErrDuplicateAbbreviation, dwarfErr.Kind)
}
