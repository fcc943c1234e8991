package dwarf

import "github.com/jsren/godwarf/pkg/leb128"

// AttributeSpec is one (name, form) pair inside an abbreviation
// declaration.
type AttributeSpec struct {
	Name AttributeName
	Form AttributeForm
}

// Abbreviation is a single decoded .debug_abbrev declaration: the tag and
// attribute layout every DIE using this abbreviation code shares.
type Abbreviation struct {
	Code        uint64
	Tag         Tag
	HasChildren bool
	Attributes  []AttributeSpec
}

// AbbrevTable maps an abbreviation code to its declaration. Each
// compilation unit gets its own table scoped to its slice of
// .debug_abbrev (addressed by the unit header's DebugAbbrevOffset) —
// abbreviation codes are only unique within a single unit's table, not
// across the whole section, so a single process-wide index would
// silently alias unrelated abbreviations that happen to share a code.
type AbbrevTable map[uint64]Abbreviation

// ParseAbbrevTable decodes the sequence of abbreviation declarations
// starting at offset within data (the full .debug_abbrev section),
// stopping at the null (code 0) entry terminating this unit's table.
func ParseAbbrevTable(data []byte, offset int) (AbbrevTable, error) {
	if offset < 0 || offset > len(data) {
		return nil, newError(ErrTruncated, offset, nil)
	}
	table := make(AbbrevTable)
	pos := offset

	for {
		code, n, err := leb128.ReadUint64(data[pos:])
		if err != nil {
			return nil, newError(ErrInvalidAbbreviation, pos, err)
		}
		if n == 0 {
			return nil, newError(ErrTruncated, pos, nil)
		}
		pos += n
		if code == 0 {
			return table, nil
		}

		tagVal, n, err := leb128.ReadUint64(data[pos:])
		if err != nil || n == 0 {
			return nil, newError(ErrInvalidAbbreviation, pos, err)
		}
		pos += n

		if pos >= len(data) {
			return nil, newError(ErrTruncated, pos, nil)
		}
		hasChildren := data[pos] != 0
		pos++

		var attrs []AttributeSpec
		for {
			name, n1, err := leb128.ReadUint64(data[pos:])
			if err != nil || n1 == 0 {
				return nil, newError(ErrInvalidAbbreviation, pos, err)
			}
			pos += n1

			form, n2, err := leb128.ReadUint64(data[pos:])
			if err != nil || n2 == 0 {
				return nil, newError(ErrInvalidAbbreviation, pos, err)
			}
			pos += n2

			if name == 0 && form == 0 {
				break
			}
			attrs = append(attrs, AttributeSpec{Name: AttributeName(name), Form: AttributeForm(form)})
		}

		if _, exists := table[code]; exists {
			return nil, newError(ErrDuplicateAbbreviation, pos, nil)
		}
		table[code] = Abbreviation{
			Code:        code,
			Tag:         Tag(tagVal),
			HasChildren: hasChildren,
			Attributes:  attrs,
		}
	}
}
