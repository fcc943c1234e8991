package godwarf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsren/godwarf/pkg/dwarf"
	"github.com/jsren/godwarf/pkg/elf"
)

func TestSymbolKindName(t *testing.T) {
	cases := []struct {
		typ  elf.SymbolType
		want string
	}{
		{elf.SymFunction, "FUNC"},
		{elf.SymObject, "OBJECT"},
		{elf.SymSection, "SECTION"},
		{elf.SymFile, "FILE"},
		{elf.SymNone, "NOTYPE"},
	}
	for _, c := range cases {
		sym := elf.Symbol{Info: uint8(c.typ)}
		assert.Equal(t, c.want, symbolKindName(sym))
	}
}

func TestFormatAttributeValue_String(t *testing.T) {
	a := dwarf.Attribute{
		Spec: dwarf.AttributeSpec{Name: dwarf.AttrName, Form: dwarf.FormString},
		Data: []byte("main.c\x00"),
	}
	assert.Equal(t, `"main.c"`, formatAttributeValue(a))
}

func TestFormatAttributeValue_Address(t *testing.T) {
	a := dwarf.Attribute{
		Spec:        dwarf.AttributeSpec{Name: dwarf.AttrLowPC, Form: dwarf.FormAddress},
		Data:        []byte{0x00, 0x10, 0x00, 0x00, 0, 0, 0, 0},
		AddressSize: 8,
	}
	assert.Equal(t, "0x1000", formatAttributeValue(a))
}

func TestFormatAttributeValue_Flag(t *testing.T) {
	a := dwarf.Attribute{
		Spec: dwarf.AttributeSpec{Name: dwarf.AttrExternal, Form: dwarf.FormFlag},
		Data: []byte{1},
	}
	assert.Equal(t, "true", formatAttributeValue(a))
}

func TestFormatAttributeValue_Constant(t *testing.T) {
	a := dwarf.Attribute{
		Spec: dwarf.AttributeSpec{Name: dwarf.AttrDeclLine, Form: dwarf.FormData1},
		Data: []byte{0x2a},
	}
	assert.Equal(t, "0x2a", formatAttributeValue(a))
}

func TestTagString_KnownAndUnknown(t *testing.T) {
	assert.Equal(t, "compile_unit", dwarf.TagCompileUnit.String())
	assert.Equal(t, "none", dwarf.TagNone.String())
	assert.Equal(t, "unknown_tag_0xfff0", dwarf.Tag(0xfff0).String())
}
