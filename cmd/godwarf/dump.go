package godwarf

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jsren/godwarf/pkg/dwarf"
	"github.com/jsren/godwarf/pkg/elf"
)

// Color definitions for dump output, one variable per semantic category.
var (
	colorSectionName = color.New(color.FgCyan)
	colorSectionAttr = color.New(color.FgHiBlack)
	colorSymName     = color.New(color.FgGreen)
	colorSymKind     = color.New(color.FgYellow)
	colorAddress     = color.New(color.FgMagenta)
	colorTag         = color.New(color.FgYellow, color.Bold)
	colorAttrName    = color.New(color.FgCyan)
	colorAttrValue   = color.New(color.FgWhite)
	colorHeader      = color.New(color.FgWhite, color.Bold, color.Underline)
	colorErr         = color.New(color.FgRed, color.Bold)
)

var (
	dumpSections bool
	dumpSymbols  bool
	dumpDIEs     bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Dump ELF sections, symbols and DWARF debugging information",
	Long: `Decodes an ELF object file and prints its section headers, symbol table
and DWARF compilation units.

By default all three are shown; pass --sections, --symbols or --dies to
show only a subset.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	RootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().BoolVar(&dumpSections, "sections", false, "Show only section headers")
	dumpCmd.Flags().BoolVar(&dumpSymbols, "symbols", false, "Show only the symbol table")
	dumpCmd.Flags().BoolVar(&dumpDIEs, "dies", false, "Show only DWARF debugging information entries")
}

func runDump(cmd *cobra.Command, args []string) error {
	slog.Debug("reading object file", "path", args[0])
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	file, err := elf.NewFile(data)
	if err != nil {
		return fmt.Errorf("decoding ELF header: %w", err)
	}
	sections, err := file.Sections()
	if err != nil {
		return fmt.Errorf("decoding section headers: %w", err)
	}
	slog.Debug("decoded section headers", "count", len(sections))

	showAll := !dumpSections && !dumpSymbols && !dumpDIEs

	if showAll || dumpSections {
		printSections(sections)
	}
	if showAll || dumpSymbols {
		if err := printSymbols(file, sections); err != nil {
			return err
		}
	}
	if showAll || dumpDIEs {
		if err := printDIEs(sections); err != nil {
			return err
		}
	}
	return nil
}

func printSections(sections []elf.Section) {
	colorHeader.Println("Sections:")
	for i, s := range sections {
		colorSectionAttr.Printf("  [%2d] ", i)
		colorSectionName.Printf("%-20s", s.Name)
		colorSectionAttr.Printf(" size=%#x addr=%#x", s.Header.Size, s.Header.Addr)
		if s.Compressed() {
			colorSectionAttr.Printf(" (compressed)")
		}
		fmt.Println()
	}
	fmt.Println()
}

func printSymbols(file *elf.File, sections []elf.Section) error {
	colorHeader.Println("Symbols:")
	for _, s := range sections {
		if s.Header.Type != elf.SHTSymTab && s.Header.Type != elf.SHTDynSym {
			continue
		}
		if int(s.Header.Link) >= len(sections) {
			continue
		}
		syms, err := file.Symbols(s, sections[s.Header.Link])
		if err != nil {
			return fmt.Errorf("decoding symbol table %q: %w", s.Name, err)
		}
		for _, sym := range syms {
			if sym.Name == "" {
				continue
			}
			colorAddress.Printf("  %#016x ", sym.Value)
			colorSymKind.Printf("%-10s", symbolKindName(sym))
			colorSymName.Println(sym.Name)
		}
	}
	fmt.Println()
	return nil
}

func symbolKindName(sym elf.Symbol) string {
	switch sym.Type() {
	case elf.SymFunction:
		return "FUNC"
	case elf.SymObject:
		return "OBJECT"
	case elf.SymSection:
		return "SECTION"
	case elf.SymFile:
		return "FILE"
	default:
		return "NOTYPE"
	}
}

// debugSections decompresses and indexes every section in sections whose
// name dwarf.SectionKindFromName recognises, ready to feed into
// dwarf.NewContext. Other .debug_* sections are skipped.
func debugSections(sections []elf.Section) (dwarf.Sections, error) {
	out := dwarf.Sections{}
	for _, s := range sections {
		kind := dwarf.SectionKindFromName(s.Name)
		if kind == dwarf.SectionInvalid {
			continue
		}
		raw, err := s.Decompress()
		if err != nil {
			return nil, fmt.Errorf("decompressing %q: %w", s.Name, err)
		}
		out[kind] = dwarf.NewOwnedSection(kind, raw)
	}
	return out, nil
}

func printDIEs(sections []elf.Section) error {
	secs, err := debugSections(sections)
	if err != nil {
		return err
	}
	if !secs.Get(dwarf.SectionInfo).Valid() {
		colorErr.Fprintln(os.Stderr, "no .debug_info section")
		return nil
	}

	colorHeader.Println("DWARF compilation units:")
	offset := 0
	info := secs.Get(dwarf.SectionInfo)
	for offset < len(info.Data) {
		ctx, err := dwarf.NewContext(secs, offset)
		if err != nil {
			return fmt.Errorf("decoding compilation unit at %#x: %w", offset, err)
		}
		if err := ctx.BuildIndexes(); err != nil {
			return fmt.Errorf("indexing compilation unit at %#x: %w", offset, err)
		}
		printUnit(ctx)
		offset = ctx.End()
	}
	return nil
}

func printUnit(ctx *dwarf.Context) {
	for _, entry := range ctx.All() {
		depth := indexDepth(ctx, entry.ID)
		indent := strings.Repeat("  ", depth)
		fmt.Print(indent)
		colorAddress.Printf("<%#x> ", entry.Offset)
		colorTag.Printf("%s", entry.Tag)
		if entry.Name != "" {
			fmt.Print(" ")
			colorAttrValue.Printf("%q", entry.Name)
		}
		fmt.Println()

		die, err := ctx.DIEFromID(entry.ID)
		if err != nil {
			continue
		}
		for _, attr := range die.Attributes {
			if attr.Spec.Name == dwarf.AttrName {
				continue
			}
			fmt.Print(indent, "    ")
			colorAttrName.Printf("%s", attr.Spec.Name)
			fmt.Print("=")
			colorAttrValue.Println(formatAttributeValue(attr))
		}
	}
}

// indexDepth walks ParentID links to compute an entry's nesting depth. The
// flattened index has no depth field of its own; for dump output this
// linear walk is cheap enough not to warrant caching it in the index.
func indexDepth(ctx *dwarf.Context, id uint64) int {
	depth := 0
	for {
		entry, ok := ctx.Entry(id)
		if !ok || entry.ParentID == id {
			return depth
		}
		id = entry.ParentID
		depth++
	}
}

func formatAttributeValue(a dwarf.Attribute) string {
	switch a.Class() {
	case dwarf.ClassString:
		s, err := a.String()
		if err != nil {
			return "?"
		}
		return fmt.Sprintf("%q", s)
	case dwarf.ClassAddress:
		v, err := a.Address()
		if err != nil {
			return "?"
		}
		return fmt.Sprintf("%#x", v)
	case dwarf.ClassFlag:
		v, err := a.Uint64()
		if err != nil {
			return "?"
		}
		return fmt.Sprintf("%v", v != 0)
	case dwarf.ClassBlock, dwarf.ClassExprLoc:
		b, err := a.Bytes()
		if err != nil {
			return "?"
		}
		return fmt.Sprintf("<%d bytes>", len(b))
	default:
		v, err := a.Uint64()
		if err != nil {
			return "?"
		}
		return fmt.Sprintf("%#x", v)
	}
}
