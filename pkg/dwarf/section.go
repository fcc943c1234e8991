package dwarf

// SectionKind identifies which debug section a Section holds. The
// zero value, SectionInvalid, marks a section that was never found in
// the object file it was requested from.
type SectionKind uint8

const (
	SectionInvalid SectionKind = iota
	SectionInfo
	SectionAbbrev
	SectionAranges
	SectionRanges
	SectionLine
	SectionStr
)

// SectionKindFromName maps an ELF section name (".debug_info", etc.) to
// its SectionKind, returning SectionInvalid for anything else.
func SectionKindFromName(name string) SectionKind {
	switch name {
	case ".debug_info":
		return SectionInfo
	case ".debug_abbrev":
		return SectionAbbrev
	case ".debug_aranges":
		return SectionAranges
	case ".debug_ranges":
		return SectionRanges
	case ".debug_line":
		return SectionLine
	case ".debug_str":
		return SectionStr
	default:
		return SectionInvalid
	}
}

// Section is a single DWARF debug section's bytes. Go slices already carry
// a length and alias their backing array the way the C++ original's
// DwarfSection distinguished an owning unique_ptr<uint8_t[]> from a
// borrowing raw pointer; Owned here only documents which case applies; it
// changes no decode behavior, since Go's garbage collector keeps the
// backing array alive for both cases.
type Section struct {
	Kind  SectionKind
	Data  []byte
	Owned bool
}

// NewSection wraps data as a borrowed (not copied) Section of the given
// kind.
func NewSection(kind SectionKind, data []byte) Section {
	return Section{Kind: kind, Data: data, Owned: false}
}

// NewOwnedSection copies data into a new Section, e.g. after
// elf.Section.Decompress has produced an inflated buffer that nothing
// else aliases.
func NewOwnedSection(kind SectionKind, data []byte) Section {
	owned := make([]byte, len(data))
	copy(owned, data)
	return Section{Kind: kind, Data: owned, Owned: true}
}

// Valid reports whether this Section was actually found (kind != invalid).
func (s Section) Valid() bool { return s.Kind != SectionInvalid }

// Sections indexes a set of decoded Sections by kind for the lookups
// Context performs constantly (debug_info, debug_abbrev, debug_str).
type Sections map[SectionKind]Section

// Get returns the section of the given kind, or the zero Section
// (Valid() == false) if it was never supplied.
func (s Sections) Get(kind SectionKind) Section {
	return s[kind]
}
