package dwarf

import "fmt"

// Tag identifies the kind of a debugging information entry (DW_TAG_*).
type Tag uint16

const (
	TagNone                Tag = 0x00
	TagArrayType           Tag = 0x01
	TagClassType           Tag = 0x02
	TagEntryPoint          Tag = 0x03
	TagEnumerationType     Tag = 0x04
	TagFormalParameter     Tag = 0x05
	TagImportedDeclaration Tag = 0x08
	TagLabel               Tag = 0x0A
	TagLexicalBlock        Tag = 0x0B
	TagMember              Tag = 0x0D
	TagPointerType         Tag = 0x0F
	TagReferenceType       Tag = 0x10
	TagCompileUnit         Tag = 0x11
	TagStringType          Tag = 0x12
	TagStructureType       Tag = 0x13
	TagSubroutineType      Tag = 0x15
	TagTypedef             Tag = 0x16
	TagUnionType           Tag = 0x17
	TagUnspecifiedParams   Tag = 0x18
	TagVariant             Tag = 0x19
	TagCommonBlock         Tag = 0x1A
	TagCommonInclusion     Tag = 0x1B
	TagInheritance         Tag = 0x1C
	TagInlinedSubroutine   Tag = 0x1D
	TagModule              Tag = 0x1E
	TagPtrToMemberType     Tag = 0x1F
	TagSetType             Tag = 0x20
	TagSubrangeType        Tag = 0x21
	TagWithStmt            Tag = 0x22
	TagAccessDeclaration   Tag = 0x23
	TagBaseType            Tag = 0x24
	TagCatchBlock          Tag = 0x25
	TagConstType           Tag = 0x26
	TagConstant            Tag = 0x27
	TagEnumerator          Tag = 0x28
	TagFileType            Tag = 0x29
	TagFriend              Tag = 0x2A
	TagNamelist            Tag = 0x2B
	TagNamelistItem        Tag = 0x2C
	TagPackedType          Tag = 0x2D
	TagSubprogram          Tag = 0x2E
	TagTemplateTypeParam   Tag = 0x2F
	TagTemplateValueParam  Tag = 0x30
	TagThrownType          Tag = 0x31
	TagTryBlock            Tag = 0x32
	TagVariantPart         Tag = 0x33
	TagVariable            Tag = 0x34
	TagVolatileType        Tag = 0x35
	TagDwarfProcedure      Tag = 0x36
	TagRestrictType        Tag = 0x37
	TagInterfaceType       Tag = 0x38
	TagNamespace           Tag = 0x39
	TagImportedModule      Tag = 0x3A
	TagUnspecifiedType     Tag = 0x3B
	TagPartialUnit         Tag = 0x3C
	TagImportedUnit        Tag = 0x3D
	TagCondition           Tag = 0x3F
	TagSharedType          Tag = 0x40
	TagTypeUnit            Tag = 0x41
	TagRValueReferenceType Tag = 0x42
	TagTemplateAlias       Tag = 0x43
)

var tagNames = map[Tag]string{
	TagArrayType: "array_type", TagClassType: "class_type",
	TagEntryPoint: "entry_point", TagEnumerationType: "enumeration_type",
	TagFormalParameter: "formal_parameter", TagImportedDeclaration: "imported_declaration",
	TagLabel: "label", TagLexicalBlock: "lexical_block", TagMember: "member",
	TagPointerType: "pointer_type", TagReferenceType: "reference_type",
	TagCompileUnit: "compile_unit", TagStringType: "string_type",
	TagStructureType: "structure_type", TagSubroutineType: "subroutine_type",
	TagTypedef: "typedef", TagUnionType: "union_type",
	TagUnspecifiedParams: "unspecified_parameters", TagVariant: "variant",
	TagCommonBlock: "common_block", TagCommonInclusion: "common_inclusion",
	TagInheritance: "inheritance", TagInlinedSubroutine: "inlined_subroutine",
	TagModule: "module", TagPtrToMemberType: "ptr_to_member_type",
	TagSetType: "set_type", TagSubrangeType: "subrange_type",
	TagWithStmt: "with_stmt", TagAccessDeclaration: "access_declaration",
	TagBaseType: "base_type", TagCatchBlock: "catch_block",
	TagConstType: "const_type", TagConstant: "constant",
	TagEnumerator: "enumerator", TagFileType: "file_type", TagFriend: "friend",
	TagNamelist: "namelist", TagNamelistItem: "namelist_item",
	TagPackedType: "packed_type", TagSubprogram: "subprogram",
	TagTemplateTypeParam: "template_type_parameter",
	TagTemplateValueParam: "template_value_parameter",
	TagThrownType: "thrown_type", TagTryBlock: "try_block",
	TagVariantPart: "variant_part", TagVariable: "variable",
	TagVolatileType: "volatile_type", TagDwarfProcedure: "dwarf_procedure",
	TagRestrictType: "restrict_type", TagInterfaceType: "interface_type",
	TagNamespace: "namespace", TagImportedModule: "imported_module",
	TagUnspecifiedType: "unspecified_type", TagPartialUnit: "partial_unit",
	TagImportedUnit: "imported_unit", TagCondition: "condition",
	TagSharedType: "shared_type", TagTypeUnit: "type_unit",
	TagRValueReferenceType: "rvalue_reference_type",
	TagTemplateAlias:       "template_alias",
}

// String returns the DW_TAG_ name (without the prefix), or a hex fallback
// for tags outside the table above.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	if t == TagNone {
		return "none"
	}
	return fmt.Sprintf("unknown_tag_%#x", uint16(t))
}

// AttributeName identifies an attribute's meaning (DW_AT_*).
type AttributeName uint16

const (
	AttrNone               AttributeName = 0x00
	AttrSibling            AttributeName = 0x01
	AttrLocation           AttributeName = 0x02
	AttrName               AttributeName = 0x03
	AttrOrdering           AttributeName = 0x09
	AttrBitOffset          AttributeName = 0x0C
	AttrBitSize            AttributeName = 0x0D
	AttrStmtList           AttributeName = 0x10
	AttrLowPC              AttributeName = 0x11
	AttrHighPC              AttributeName = 0x12
	AttrLanguage           AttributeName = 0x13
	AttrDiscr              AttributeName = 0x15
	AttrDiscrValue         AttributeName = 0x16
	AttrVisibility         AttributeName = 0x17
	AttrImport             AttributeName = 0x18
	AttrStringLength       AttributeName = 0x19
	AttrCommonReference    AttributeName = 0x1A
	AttrCompDir            AttributeName = 0x1B
	AttrConstValue         AttributeName = 0x1C
	AttrContainingType     AttributeName = 0x1D
	AttrDefaultValue       AttributeName = 0x1E
	AttrInline             AttributeName = 0x20
	AttrIsOptional         AttributeName = 0x21
	AttrLowerBound         AttributeName = 0x22
	AttrProducer           AttributeName = 0x25
	AttrPrototyped         AttributeName = 0x27
	AttrReturnAddress      AttributeName = 0x2A
	AttrStartScope         AttributeName = 0x2C
	AttrBitStride          AttributeName = 0x2E
	AttrUpperBound         AttributeName = 0x2F
	AttrAbstractOrigin     AttributeName = 0x31
	AttrAccessibility      AttributeName = 0x32
	AttrAddressClass       AttributeName = 0x33
	AttrArtificial         AttributeName = 0x34
	AttrBaseTypes          AttributeName = 0x35
	AttrCallingConvention  AttributeName = 0x36
	AttrCount              AttributeName = 0x37
	AttrDataMemberLocation AttributeName = 0x38
	AttrDeclColumn         AttributeName = 0x39
	AttrDeclFile           AttributeName = 0x3A
	AttrDeclLine           AttributeName = 0x3B
	AttrDeclaration        AttributeName = 0x3C
	AttrDiscrList          AttributeName = 0x3D
	AttrEncoding           AttributeName = 0x3E
	AttrExternal           AttributeName = 0x3F
	AttrFrameBase          AttributeName = 0x40
	AttrFriend             AttributeName = 0x41
	AttrIdentifierCase     AttributeName = 0x42
	AttrMacroInfo          AttributeName = 0x43
	AttrNamelistItem       AttributeName = 0x44
	AttrPriority           AttributeName = 0x45
	AttrSegment            AttributeName = 0x46
	AttrSpecification      AttributeName = 0x47
	AttrStaticLink         AttributeName = 0x48
	AttrType               AttributeName = 0x49
	AttrUseLocation        AttributeName = 0x4A
	AttrVariableParameter  AttributeName = 0x4B
	AttrVirtuality         AttributeName = 0x4C
	AttrVTableElemLocation AttributeName = 0x4D
	AttrAllocated          AttributeName = 0x4E
	AttrAssociated         AttributeName = 0x4F
	AttrDataLocation       AttributeName = 0x50
	AttrByteStride         AttributeName = 0x51
	AttrEntryPC            AttributeName = 0x52
	AttrUseUTF8            AttributeName = 0x53
	AttrExtension          AttributeName = 0x54
	AttrRanges             AttributeName = 0x55
	AttrTrampoline         AttributeName = 0x56
	AttrCallColumn         AttributeName = 0x57
	AttrCallFile           AttributeName = 0x58
	AttrCallLine           AttributeName = 0x59
	AttrDescription        AttributeName = 0x5A
	AttrBinaryScale        AttributeName = 0x5B
	AttrDecimalScale       AttributeName = 0x5C
	AttrSmall              AttributeName = 0x5D
	AttrDecimalSign        AttributeName = 0x5E
	AttrDigitCount         AttributeName = 0x5F
	AttrPictureString      AttributeName = 0x60
	AttrMutable            AttributeName = 0x61
	AttrThreadsScaled      AttributeName = 0x62
	AttrExplicit           AttributeName = 0x63
	AttrObjectPointer      AttributeName = 0x64
	AttrEndianity          AttributeName = 0x65
	AttrElemental          AttributeName = 0x66
	AttrPure               AttributeName = 0x67
	AttrRecursive          AttributeName = 0x68
	AttrSignature          AttributeName = 0x69
	AttrMainSubprogram     AttributeName = 0x6A
	AttrDataBitOffset      AttributeName = 0x6B
	AttrConstExpr          AttributeName = 0x6C
	AttrEnumClass          AttributeName = 0x6D
	AttrLinkageName        AttributeName = 0x6E
)

// attributeNames covers the attributes dump output actually prints;
// anything else falls back to its hex code.
var attributeNames = map[AttributeName]string{
	AttrName: "name", AttrLowPC: "low_pc", AttrHighPC: "high_pc",
	AttrType: "type", AttrLocation: "location", AttrCompDir: "comp_dir",
	AttrProducer: "producer", AttrLanguage: "language",
	AttrStmtList: "stmt_list", AttrSibling: "sibling",
	AttrDeclFile: "decl_file", AttrDeclLine: "decl_line",
	AttrExternal: "external", AttrFrameBase: "frame_base",
	AttrEncoding: "encoding",
}

// String returns the DW_AT_ name (without the prefix), or a hex fallback.
func (a AttributeName) String() string {
	if name, ok := attributeNames[a]; ok {
		return name
	}
	return fmt.Sprintf("unknown_attr_%#x", uint16(a))
}

// AttributeForm identifies how an attribute's value is encoded (DW_FORM_*).
type AttributeForm uint8

const (
	FormNone        AttributeForm = 0x00
	FormAddress     AttributeForm = 0x01
	FormBlock2      AttributeForm = 0x03
	FormBlock4      AttributeForm = 0x04
	FormData2       AttributeForm = 0x05
	FormData4       AttributeForm = 0x06
	FormData8       AttributeForm = 0x07
	FormString      AttributeForm = 0x08
	FormBlock       AttributeForm = 0x09
	FormBlock1      AttributeForm = 0x0A
	FormData1       AttributeForm = 0x0B
	FormFlag        AttributeForm = 0x0C
	FormSData       AttributeForm = 0x0D
	FormStrp        AttributeForm = 0x0E
	FormUData       AttributeForm = 0x0F
	FormRefAddr     AttributeForm = 0x10
	FormRef1        AttributeForm = 0x11
	FormRef2        AttributeForm = 0x12
	FormRef4        AttributeForm = 0x13
	FormRef8        AttributeForm = 0x14
	FormRefUData    AttributeForm = 0x15
	FormIndirect    AttributeForm = 0x16
	FormSecOffset   AttributeForm = 0x17
	FormExprLoc     AttributeForm = 0x18
	FormFlagPresent AttributeForm = 0x19
	FormRefSig8     AttributeForm = 0x20
)

// AttributeClass is the semantic category a form decodes to, independent
// of its wire encoding (e.g. both Data4 and UData are Constant).
type AttributeClass int

const (
	ClassNone AttributeClass = iota
	ClassAddress
	ClassBlock
	ClassConstant
	ClassString
	ClassFlag
	ClassReference
	ClassUnitReference
	ClassSectionPointer
	ClassExprLoc
)

// classOf returns the semantic class of an attribute form. Unknown forms
// return ClassNone; callers distinguish "form decoded fine, has no typed
// class" from "form itself is garbage" using the error returned alongside
// the size computation in attributeSize.
func classOf(form AttributeForm) AttributeClass {
	switch form {
	case FormAddress:
		return ClassAddress
	case FormBlock, FormBlock1, FormBlock2, FormBlock4:
		return ClassBlock
	case FormData1, FormData2, FormData4, FormData8, FormSData, FormUData:
		return ClassConstant
	case FormString, FormStrp:
		return ClassString
	case FormFlag, FormFlagPresent:
		return ClassFlag
	case FormRef1, FormRef2, FormRef4, FormRef8, FormRefUData:
		return ClassUnitReference
	case FormRefAddr, FormRefSig8:
		return ClassReference
	case FormSecOffset:
		return ClassSectionPointer
	case FormExprLoc:
		return ClassExprLoc
	default:
		return ClassNone
	}
}
