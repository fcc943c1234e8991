package dwarf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttribute_Uint64Forms(t *testing.T) {
	a := Attribute{Spec: AttributeSpec{Form: FormData4}, Data: []byte{0x2a, 0, 0, 0}}
	v, err := a.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	var uleb []byte
	uleb = appendULEB(uleb, 300)
	a = Attribute{Spec: AttributeSpec{Form: FormUData}, Data: uleb}
	v, err = a.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), v)

	a = Attribute{Spec: AttributeSpec{Form: FormFlagPresent}}
	v, err = a.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

func TestAttribute_Uint64_TypeMismatch(t *testing.T) {
	a := Attribute{Spec: AttributeSpec{Form: FormString}, Data: []byte("hi")}
	_, err := a.Uint64()
	assert.Error(t, err)
}

func TestAttribute_Int64_SData(t *testing.T) {
	var sleb []byte
	sleb = appendSLEB(sleb, -42)
	a := Attribute{Spec: AttributeSpec{Form: FormSData}, Data: sleb}
	v, err := a.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-42), v)
}

func TestAttribute_String(t *testing.T) {
	a := Attribute{Spec: AttributeSpec{Form: FormString}, Data: []byte("hello\x00")}
	s, err := a.String()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestAttribute_Bytes_Block1(t *testing.T) {
	a := Attribute{Spec: AttributeSpec{Form: FormBlock1}, Data: []byte{3, 0xAA, 0xBB, 0xCC}}
	b, err := a.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, b)
}

func TestAttribute_Address(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, 0x1000)
	a := Attribute{Spec: AttributeSpec{Form: FormAddress}, Data: data, AddressSize: 8}
	v, err := a.Address()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1000), v)
}

func TestAttributeSize_Block1(t *testing.T) {
	size, err := attributeSize(FormBlock1, 8, 4, []byte{2, 0xAA, 0xBB, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestAttributeSize_String(t *testing.T) {
	size, err := attributeSize(FormString, 8, 4, []byte("abc\x00def"))
	require.NoError(t, err)
	assert.Equal(t, 4, size)
}

func TestAttributeSize_UnknownForm(t *testing.T) {
	_, err := attributeSize(FormIndirect, 8, 4, []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestAttributeSize_String_Unterminated(t *testing.T) {
	_, err := attributeSize(FormString, 8, 4, []byte("abc"))
	require.Error(t, err)
	var dwarfErr *Error
	require.ErrorAs(t, err, &dwarfErr)
	assert.Equal(t, ErrMalformedString, dwarfErr.Kind)
}

func appendSLEB(data []byte, v int64) []byte {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		data = append(data, b)
	}
	return data
}
