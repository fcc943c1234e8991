package dwarf

import (
	"bytes"
	"encoding/binary"

	"github.com/jsren/godwarf/pkg/leb128"
)

// DIE is one decoded Debugging Information Entry: its tag, its
// abbreviation-declared attribute layout, and the values filled in at this
// particular offset.
type DIE struct {
	Offset      int
	AbbrevCode  uint64
	Tag         Tag
	HasChildren bool
	Attributes  []Attribute
}

// Attr returns the first attribute with the given name, if present.
func (d *DIE) Attr(name AttributeName) (Attribute, bool) {
	for _, a := range d.Attributes {
		if a.Spec.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Name returns the DIE's DW_AT_name value, or "" if it has none or the
// attribute's form doesn't carry text.
func (d *DIE) Name() string {
	a, ok := d.Attr(AttrName)
	if !ok {
		return ""
	}
	s, err := a.String()
	if err != nil {
		return ""
	}
	return s
}

func resolveStrp(debugStr []byte, offset uint64) []byte {
	if offset >= uint64(len(debugStr)) {
		return nil
	}
	data := debugStr[offset:]
	if idx := bytes.IndexByte(data, 0); idx >= 0 {
		return data[:idx]
	}
	return data
}

// decodeDIE decodes a single DIE starting at offset within data (the full
// .debug_info section), returning the DIE and the number of bytes it
// occupies on the wire (so callers can advance to the next sibling). A
// null entry (abbreviation code 0, the terminator DWARF writes after a
// sequence of children) decodes to a DIE with Tag TagNone and AbbrevCode
// 0 — callers use this to detect the end of a children list.
func decodeDIE(data []byte, offset int, table AbbrevTable, addressSize, offsetSize int, debugStr []byte) (*DIE, int, error) {
	pos := offset
	code, n, err := leb128.ReadUint64(data[pos:])
	if err != nil {
		return nil, 0, newError(ErrTruncated, pos, err)
	}
	if n == 0 {
		return nil, 0, newError(ErrTruncated, pos, nil)
	}
	pos += n

	if code == 0 {
		return &DIE{Offset: offset, AbbrevCode: 0, Tag: TagNone}, pos - offset, nil
	}

	abbrev, ok := table[code]
	if !ok {
		return nil, 0, newError(ErrInvalidAbbreviation, offset, nil)
	}

	die := &DIE{
		Offset:      offset,
		AbbrevCode:  code,
		Tag:         abbrev.Tag,
		HasChildren: abbrev.HasChildren,
	}

	for _, spec := range abbrev.Attributes {
		if pos > len(data) {
			return nil, 0, newError(ErrTruncated, pos, nil)
		}
		size, err := attributeSize(spec.Form, addressSize, offsetSize, data[pos:])
		if err != nil {
			return nil, 0, err
		}
		if pos+size > len(data) {
			return nil, 0, newError(ErrTruncated, pos, nil)
		}

		attr := Attribute{
			Spec:        spec,
			Data:        data[pos : pos+size],
			AddressSize: addressSize,
			OffsetSize:  offsetSize,
		}

		if spec.Form == FormStrp {
			strOffset, err := readFixedAddress(attr.Data, offsetSize, binary.LittleEndian)
			if err != nil {
				return nil, 0, newError(ErrTruncated, pos, err)
			}
			attr.Data = resolveStrp(debugStr, strOffset)
		}

		die.Attributes = append(die.Attributes, attr)
		pos += size
	}

	return die, pos - offset, nil
}

// DIEIndexEntry is one flattened, pre-order entry in a compilation unit's
// DIE tree, as produced by Context.BuildIndexes. Offset records the
// position of the abbreviation-code ULEB that starts the DIE — the
// position DIEFromID re-parses from. This is a deliberate correction: the
// reference implementation this package follows records the cursor
// *after* the DIE's last attribute has already been consumed, which
// points a later re-parse at the wrong DIE entirely for any unit with
// more than one entry.
type DIEIndexEntry struct {
	ID       uint64
	Tag      Tag
	ParentID uint64
	Name     string
	Offset   int
}
