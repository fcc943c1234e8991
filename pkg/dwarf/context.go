package dwarf

import "encoding/binary"

// Context ties one compilation unit's sections, abbreviation table and
// flattened DIE index together. Index queries (Children, Siblings) are
// answered by a linear scan over the flattened, pre-order index rather
// than by maintaining real tree pointers — the DIE count per unit is small
// enough that this is simpler and just as fast as building an actual tree.
type Context struct {
	Sections    Sections
	Width       Width
	AddressSize int

	offsetSize int
	dataOffset int
	dataEnd    int
	header     CompilationUnitHeader
	abbrev     AbbrevTable
	index      []DIEIndexEntry
}

// NewContext decodes the compilation unit header at infoOffset within the
// SectionInfo section and loads the abbreviation table it references. It
// does not walk the DIE tree yet; call BuildIndexes for that.
func NewContext(sections Sections, infoOffset int) (*Context, error) {
	info := sections.Get(SectionInfo)
	if !info.Valid() {
		return nil, newError(ErrMissingSection, infoOffset, nil)
	}
	if infoOffset < 0 || infoOffset >= len(info.Data) {
		return nil, newError(ErrTruncated, infoOffset, nil)
	}

	order := binary.LittleEndian
	header, err := DecodeCompilationUnitHeader(info.Data[infoOffset:], order)
	if err != nil {
		return nil, err
	}

	offsetSize := 4
	lengthFieldSize := 4
	if header.Width == Width64 {
		offsetSize = 8
		lengthFieldSize = 12
	}
	end := infoOffset + lengthFieldSize + int(header.UnitLength)
	if end > len(info.Data) {
		return nil, newError(ErrTruncated, infoOffset, nil)
	}

	abbrevSection := sections.Get(SectionAbbrev)
	if !abbrevSection.Valid() {
		return nil, newError(ErrMissingSection, infoOffset, nil)
	}
	abbrev, err := ParseAbbrevTable(abbrevSection.Data, int(header.DebugAbbrevOffset))
	if err != nil {
		return nil, err
	}

	return &Context{
		Sections:    sections,
		Width:       header.Width,
		AddressSize: int(header.AddressSize),
		offsetSize:  offsetSize,
		dataOffset:  infoOffset + header.Size(),
		dataEnd:     end,
		header:      *header,
		abbrev:      abbrev,
	}, nil
}

// Header returns the decoded compilation unit header.
func (c *Context) Header() CompilationUnitHeader { return c.header }

// BuildIndexes walks the unit's DIE chain in pre-order and records a flat
// DIEIndexEntry per DIE, assigning each a dense id equal to its position
// in the index. Call this once before using DIEFromID, Children or
// Siblings.
func (c *Context) BuildIndexes() error {
	info := c.Sections.Get(SectionInfo)
	debugStr := c.Sections.Get(SectionStr).Data

	c.index = c.index[:0]
	var stack []uint64
	parent := uint64(0)

	pos := c.dataOffset
	for pos < c.dataEnd {
		die, consumed, err := decodeDIE(info.Data, pos, c.abbrev, c.AddressSize, c.offsetSize, debugStr)
		if err != nil {
			return err
		}

		if die.AbbrevCode == 0 {
			pos += consumed
			if len(stack) == 0 {
				break
			}
			parent = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			continue
		}

		id := uint64(len(c.index))
		c.index = append(c.index, DIEIndexEntry{
			ID:       id,
			Tag:      die.Tag,
			ParentID: parent,
			Name:     die.Name(),
			Offset:   die.Offset,
		})

		pos += consumed
		if die.HasChildren {
			stack = append(stack, parent)
			parent = id
		}
	}
	return nil
}

// Entry returns the indexed entry for id.
func (c *Context) Entry(id uint64) (DIEIndexEntry, bool) {
	if id >= uint64(len(c.index)) {
		return DIEIndexEntry{}, false
	}
	return c.index[id], true
}

// DIEFromID re-parses and returns the full DIE (tag plus every attribute)
// for an indexed entry. BuildIndexes only records enough to answer tree
// queries; this is what callers use to get attribute values.
func (c *Context) DIEFromID(id uint64) (*DIE, error) {
	entry, ok := c.Entry(id)
	if !ok {
		return nil, newError(ErrUnresolvedReference, int(id), nil)
	}
	info := c.Sections.Get(SectionInfo)
	debugStr := c.Sections.Get(SectionStr).Data
	die, _, err := decodeDIE(info.Data, entry.Offset, c.abbrev, c.AddressSize, c.offsetSize, debugStr)
	return die, err
}

// Children returns every entry whose ParentID is id, in pre-order.
func (c *Context) Children(id uint64) []DIEIndexEntry {
	var out []DIEIndexEntry
	for _, e := range c.index {
		if e.ID != id && e.ParentID == id {
			out = append(out, e)
		}
	}
	return out
}

// Siblings returns every other entry sharing id's parent, in pre-order.
// The parent itself is never included, even though the root entry (id 0)
// also carries ParentID 0.
func (c *Context) Siblings(id uint64) []DIEIndexEntry {
	entry, ok := c.Entry(id)
	if !ok {
		return nil
	}
	var out []DIEIndexEntry
	for _, e := range c.index {
		if e.ID != id && e.ID != entry.ParentID && e.ParentID == entry.ParentID {
			out = append(out, e)
		}
	}
	return out
}

// Root returns the unit's single top-level entry (index 0), typically a
// TagCompileUnit DIE.
func (c *Context) Root() (DIEIndexEntry, bool) {
	if len(c.index) == 0 {
		return DIEIndexEntry{}, false
	}
	return c.index[0], true
}

// All returns every indexed entry in pre-order. Callers must not mutate
// the returned slice.
func (c *Context) All() []DIEIndexEntry { return c.index }

// End returns the offset in SectionInfo immediately following this unit,
// i.e. where the next compilation unit's header (if any) begins.
func (c *Context) End() int { return c.dataEnd }
