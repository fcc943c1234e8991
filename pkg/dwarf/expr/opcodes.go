// Package expr evaluates DWARF location expressions: the small stack
// machine encoded in DW_AT_location, DW_AT_frame_base and similar
// ExprLoc/Block attributes.
package expr

// Opcode identifies a single DWARF expression operation (DW_OP_*).
type Opcode uint8

const (
	OpAddress Opcode = 0x03
	OpDeref   Opcode = 0x06

	OpConst1U Opcode = 0x08
	OpConst1S Opcode = 0x09
	OpConst2U Opcode = 0x0A
	OpConst2S Opcode = 0x0B
	OpConst4U Opcode = 0x0C
	OpConst4S Opcode = 0x0D
	OpConst8U Opcode = 0x0E
	OpConst8S Opcode = 0x0F
	OpConstU  Opcode = 0x10
	OpConstS  Opcode = 0x11

	OpDup        Opcode = 0x12
	OpDrop       Opcode = 0x13
	OpOver       Opcode = 0x14
	OpPick       Opcode = 0x15
	OpSwap       Opcode = 0x16
	OpRot        Opcode = 0x17
	OpXDeref     Opcode = 0x18
	OpAbs        Opcode = 0x19
	OpAnd        Opcode = 0x1A
	OpDiv        Opcode = 0x1B
	OpMinus      Opcode = 0x1C
	OpMod        Opcode = 0x1D
	OpMul        Opcode = 0x1E
	OpNeg        Opcode = 0x1F
	OpNot        Opcode = 0x20
	OpOr         Opcode = 0x21
	OpPlus       Opcode = 0x22
	OpPlusUConst Opcode = 0x23
	OpShl        Opcode = 0x24
	OpShr        Opcode = 0x25
	OpShra       Opcode = 0x26
	OpXor        Opcode = 0x27
	OpBra        Opcode = 0x28
	OpEq         Opcode = 0x29
	OpGe         Opcode = 0x2A
	OpGt         Opcode = 0x2B
	OpLe         Opcode = 0x2C
	OpLt         Opcode = 0x2D
	OpNe         Opcode = 0x2E
	OpSkip       Opcode = 0x2F

	// OpLit0..OpLit31 push the literal 0..31. Only the two ends of each
	// range below are named; the opcodes in between are recognised with
	// the IsLit/IsReg/IsBreg range predicates and their N is the offset
	// from the range's first opcode.
	OpLit0  Opcode = 0x30
	OpLit31 Opcode = 0x4F

	// OpReg0..OpReg31: read register N and push its value.
	OpReg0  Opcode = 0x50
	OpReg31 Opcode = 0x6F

	// OpBreg0..OpBreg31: push register N's value plus an inline SLEB128
	// offset.
	OpBreg0  Opcode = 0x70
	OpBreg31 Opcode = 0x8F

	OpRegX       Opcode = 0x90
	OpFBReg      Opcode = 0x91
	OpBRegX      Opcode = 0x92
	OpPiece      Opcode = 0x93
	OpDerefSize  Opcode = 0x94
	OpXDerefSize Opcode = 0x95
	OpNop        Opcode = 0x96

	OpPushObjectAddress Opcode = 0x97
	OpCall2              Opcode = 0x98
	OpCall4              Opcode = 0x99
	OpCallRef            Opcode = 0x9A
	OpFormTLSAddress      Opcode = 0x9B
	OpCallFrameCFA       Opcode = 0x9C
	OpBitPiece           Opcode = 0x9D
	OpImplicitValue      Opcode = 0x9E
	OpStackValue         Opcode = 0x9F
)

// IsLit reports whether op is one of the OpLit0..OpLit31 literal opcodes.
func (op Opcode) IsLit() bool { return op >= OpLit0 && op <= OpLit31 }

// IsReg reports whether op is one of the OpReg0..OpReg31 opcodes.
func (op Opcode) IsReg() bool { return op >= OpReg0 && op <= OpReg31 }

// IsBreg reports whether op is one of the OpBreg0..OpBreg31 opcodes.
func (op Opcode) IsBreg() bool { return op >= OpBreg0 && op <= OpBreg31 }
