package expr

import (
	"encoding/binary"

	"github.com/jsren/godwarf/internal/bits"
	"github.com/jsren/godwarf/pkg/leb128"
)

// Context resolves the machine-state callbacks a DWARF expression can
// reach out for: registers, the current frame base, and memory, all of
// which live outside the expression bytes themselves.
type Context interface {
	ReadRegister(reg uint64) (uint64, error)
	FrameBase() (uint64, error)
	ReadMemory(addr uint64, size int) (uint64, error)
	ReadMemorySegmented(segment, addr uint64, size int) (uint64, error)
	ObjectAddress() (uint64, error)
	FormTLSAddress(offset uint64) (uint64, error)
	CallFrameCFA() (uint64, error)
}

// CallResolver supplies the bytes of another expression referenced by
// DW_OP_call2/call4/call_ref. Evaluate returns ErrNotImplemented for these
// opcodes when no resolver is installed.
type CallResolver interface {
	ResolveCall(ref uint64) ([]byte, error)
}

// maxCallDepth bounds DW_OP_call* nesting so a malformed or adversarial
// expression can't recurse forever.
const maxCallDepth = 8

// Evaluator runs one DWARF expression at a time against a Context,
// maintaining its own operand stack between Evaluate calls only within a
// single call (each Evaluate starts from an empty stack).
type Evaluator struct {
	ctx         Context
	calls       CallResolver
	addressSize int
	stack       []uint64
	callDepth   int
}

// NewEvaluator returns an Evaluator bound to ctx, decoding addresses as
// addressSize bytes (the owning compilation unit's address size).
func NewEvaluator(ctx Context, addressSize int) *Evaluator {
	return &Evaluator{ctx: ctx, addressSize: addressSize}
}

// WithCallResolver installs a CallResolver and returns the Evaluator for
// chaining.
func (e *Evaluator) WithCallResolver(r CallResolver) *Evaluator {
	e.calls = r
	return e
}

func (e *Evaluator) push(v uint64) { e.stack = append(e.stack, v) }

func (e *Evaluator) pop(offset int, op Opcode) (uint64, error) {
	if len(e.stack) == 0 {
		return 0, newError(ErrStackUnderflow, offset, op, nil)
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v, nil
}

// Evaluate runs the expression in data from an empty stack and returns the
// value left on top when it finishes.
func (e *Evaluator) Evaluate(data []byte) (uint64, error) {
	e.stack = e.stack[:0]
	pos := 0

	for pos < len(data) {
		op := Opcode(data[pos])
		opStart := pos
		pos++

		consumed, err := e.step(op, data[pos:], opStart)
		if err != nil {
			return 0, err
		}

		target := opStart + 1 + consumed
		if target < 0 || target > len(data) {
			return 0, newError(ErrBranchOutOfBounds, opStart, op, nil)
		}
		pos = target
	}

	if len(e.stack) == 0 {
		return 0, newError(ErrNoResult, len(data), 0, nil)
	}
	return e.stack[len(e.stack)-1], nil
}

// step executes one opcode whose operand bytes start at operand (data
// right after the opcode byte). It returns the number of operand bytes to
// advance past — for the branch opcodes this can encode a jump to an
// earlier or later position, mirroring the "2 + offset" convention the
// reference evaluator this was modeled on uses for Skip and Bra.
func (e *Evaluator) step(op Opcode, operand []byte, offset int) (int, error) {
	switch {
	case op.IsLit():
		e.push(uint64(op - OpLit0))
		return 0, nil

	case op.IsReg():
		v, err := e.ctx.ReadRegister(uint64(op - OpReg0))
		if err != nil {
			return 0, newError(ErrUnknown, offset, op, err)
		}
		e.push(v)
		return 0, nil

	case op.IsBreg():
		value, n, err := leb128.ReadInt64(operand)
		if err != nil {
			return 0, newError(ErrTruncated, offset, op, err)
		}
		regVal, err := e.ctx.ReadRegister(uint64(op - OpBreg0))
		if err != nil {
			return 0, newError(ErrUnknown, offset, op, err)
		}
		e.push(regVal + uint64(value))
		return n, nil
	}

	switch op {
	case OpAddress:
		if len(operand) < e.addressSize {
			return 0, newError(ErrTruncated, offset, op, nil)
		}
		e.push(readLittleEndian(operand[:e.addressSize]))
		return e.addressSize, nil

	case OpConst1U, OpConst1S, OpConst2U, OpConst2S, OpConst4U, OpConst4S, OpConst8U, OpConst8S:
		size := 1 << ((int(op) - int(OpConst1U)) / 2)
		if len(operand) < size {
			return 0, newError(ErrTruncated, offset, op, nil)
		}
		v := readLittleEndian(operand[:size])
		if isSignedConst(op) {
			v = uint64(bits.SignExtend(v, size))
		}
		e.push(v)
		return size, nil

	case OpConstU:
		v, n, err := leb128.ReadUint64(operand)
		if err != nil {
			return 0, newError(ErrTruncated, offset, op, err)
		}
		e.push(v)
		return n, nil

	case OpConstS:
		v, n, err := leb128.ReadInt64(operand)
		if err != nil {
			return 0, newError(ErrTruncated, offset, op, err)
		}
		e.push(uint64(v))
		return n, nil

	case OpDup:
		v, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		e.push(v)
		e.push(v)
		return 0, nil

	case OpDrop:
		_, err := e.pop(offset, op)
		return 0, err

	case OpPick:
		if len(operand) < 1 {
			return 0, newError(ErrTruncated, offset, op, nil)
		}
		n := int(operand[0])
		if n >= len(e.stack) {
			return 0, newError(ErrStackUnderflow, offset, op, nil)
		}
		e.push(e.stack[len(e.stack)-1-n])
		return 1, nil

	case OpOver:
		if len(e.stack) < 2 {
			return 0, newError(ErrStackUnderflow, offset, op, nil)
		}
		e.push(e.stack[len(e.stack)-2])
		return 0, nil

	case OpSwap:
		a, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		b, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		e.push(a)
		e.push(b)
		return 0, nil

	case OpRot:
		a, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		b, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		c, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		e.push(a)
		e.push(c)
		e.push(b)
		return 0, nil

	case OpDeref:
		addr, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		v, err := e.ctx.ReadMemory(addr, e.addressSize)
		if err != nil {
			return 0, newError(ErrUnknown, offset, op, err)
		}
		e.push(v)
		return 0, nil

	case OpXDeref:
		addr, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		segment, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		v, err := e.ctx.ReadMemorySegmented(segment, addr, e.addressSize)
		if err != nil {
			return 0, newError(ErrUnknown, offset, op, err)
		}
		e.push(v)
		return 0, nil

	case OpDerefSize:
		if len(operand) < 1 {
			return 0, newError(ErrTruncated, offset, op, nil)
		}
		size := int(operand[0])
		addr, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		v, err := e.ctx.ReadMemory(addr, size)
		if err != nil {
			return 0, newError(ErrUnknown, offset, op, err)
		}
		e.push(bits.Mask(v, size))
		return 1, nil

	case OpXDerefSize:
		if len(operand) < 1 {
			return 0, newError(ErrTruncated, offset, op, nil)
		}
		size := int(operand[0])
		addr, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		segment, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		v, err := e.ctx.ReadMemorySegmented(segment, addr, size)
		if err != nil {
			return 0, newError(ErrUnknown, offset, op, err)
		}
		e.push(bits.Mask(v, size))
		return 1, nil

	case OpAbs:
		a, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		v := int64(a)
		if v < 0 {
			v = -v
		}
		e.push(uint64(v))
		return 0, nil

	case OpAnd:
		return 0, e.binary(offset, op, func(i2, i1 uint64) uint64 { return i2 & i1 })

	case OpDiv:
		i1, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		i2, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		if i1 == 0 {
			return 0, newError(ErrDivideByZero, offset, op, nil)
		}
		e.push(uint64(int64(i2) / int64(i1)))
		return 0, nil

	case OpMinus:
		return 0, e.binary(offset, op, func(i2, i1 uint64) uint64 { return i2 - i1 })

	case OpMod:
		i1, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		i2, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		if i1 == 0 {
			return 0, newError(ErrDivideByZero, offset, op, nil)
		}
		e.push(i2 % i1)
		return 0, nil

	case OpMul:
		return 0, e.binary(offset, op, func(i2, i1 uint64) uint64 { return i2 * i1 })

	case OpNeg:
		a, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		e.push(uint64(-int64(a)))
		return 0, nil

	case OpNot:
		a, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		e.push(^a)
		return 0, nil

	case OpOr:
		return 0, e.binary(offset, op, func(i2, i1 uint64) uint64 { return i2 | i1 })

	case OpPlus:
		return 0, e.binary(offset, op, func(i2, i1 uint64) uint64 { return i2 + i1 })

	case OpPlusUConst:
		c, n, err := leb128.ReadUint64(operand)
		if err != nil {
			return 0, newError(ErrTruncated, offset, op, err)
		}
		a, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		e.push(a + c)
		return n, nil

	case OpShl:
		return 0, e.binary(offset, op, func(i2, i1 uint64) uint64 { return i2 << i1 })

	case OpShr:
		return 0, e.binary(offset, op, func(i2, i1 uint64) uint64 { return i2 >> i1 })

	case OpShra:
		// Correction: the reference evaluator this was modeled on divides
		// by 1<<i1 here, which isn't an arithmetic shift (it rounds
		// toward zero instead of toward negative infinity for negative
		// i2). This does a true arithmetic right shift instead.
		i1, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		i2, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		e.push(uint64(int64(i2) >> i1))
		return 0, nil

	case OpXor:
		return 0, e.binary(offset, op, func(i2, i1 uint64) uint64 { return i2 ^ i1 })

	case OpEq:
		return 0, e.compare(offset, op, func(i2, i1 int64) bool { return i2 == i1 })
	case OpGe:
		return 0, e.compare(offset, op, func(i2, i1 int64) bool { return i2 >= i1 })
	case OpGt:
		return 0, e.compare(offset, op, func(i2, i1 int64) bool { return i2 > i1 })
	case OpLe:
		return 0, e.compare(offset, op, func(i2, i1 int64) bool { return i2 <= i1 })
	case OpLt:
		return 0, e.compare(offset, op, func(i2, i1 int64) bool { return i2 < i1 })
	case OpNe:
		return 0, e.compare(offset, op, func(i2, i1 int64) bool { return i2 != i1 })

	case OpSkip:
		if len(operand) < 2 {
			return 0, newError(ErrTruncated, offset, op, nil)
		}
		delta := int16(binary.LittleEndian.Uint16(operand))
		return 2 + int(delta), nil

	case OpBra:
		if len(operand) < 2 {
			return 0, newError(ErrTruncated, offset, op, nil)
		}
		cond, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		if cond == 0 {
			return 2, nil
		}
		delta := int16(binary.LittleEndian.Uint16(operand))
		return 2 + int(delta), nil

	case OpFBReg:
		v, n, err := leb128.ReadInt64(operand)
		if err != nil {
			return 0, newError(ErrTruncated, offset, op, err)
		}
		base, err := e.ctx.FrameBase()
		if err != nil {
			return 0, newError(ErrUnknown, offset, op, err)
		}
		e.push(base + uint64(v))
		return n, nil

	case OpRegX:
		reg, n, err := leb128.ReadUint64(operand)
		if err != nil {
			return 0, newError(ErrTruncated, offset, op, err)
		}
		v, err := e.ctx.ReadRegister(reg)
		if err != nil {
			return 0, newError(ErrUnknown, offset, op, err)
		}
		e.push(v)
		return n, nil

	case OpBRegX:
		reg, n1, err := leb128.ReadUint64(operand)
		if err != nil {
			return 0, newError(ErrTruncated, offset, op, err)
		}
		off, n2, err := leb128.ReadInt64(operand[n1:])
		if err != nil {
			return 0, newError(ErrTruncated, offset, op, err)
		}
		v, err := e.ctx.ReadRegister(reg)
		if err != nil {
			return 0, newError(ErrUnknown, offset, op, err)
		}
		e.push(v + uint64(off))
		return n1 + n2, nil

	case OpPiece:
		_, n, err := leb128.ReadUint64(operand)
		if err != nil {
			return 0, newError(ErrTruncated, offset, op, err)
		}
		return n, nil

	case OpBitPiece:
		_, n1, err := leb128.ReadUint64(operand)
		if err != nil {
			return 0, newError(ErrTruncated, offset, op, err)
		}
		_, n2, err := leb128.ReadUint64(operand[n1:])
		if err != nil {
			return 0, newError(ErrTruncated, offset, op, err)
		}
		return n1 + n2, nil

	case OpImplicitValue:
		length, n, err := leb128.ReadUint64(operand)
		if err != nil {
			return 0, newError(ErrTruncated, offset, op, err)
		}
		if len(operand) < n+int(length) {
			return 0, newError(ErrTruncated, offset, op, nil)
		}
		size := int(length)
		if size > 8 {
			size = 8
		}
		e.push(readLittleEndian(operand[n : n+size]))
		return n + int(length), nil

	case OpStackValue:
		return 0, nil

	case OpNop:
		return 0, nil

	case OpPushObjectAddress:
		v, err := e.ctx.ObjectAddress()
		if err != nil {
			return 0, newError(ErrUnknown, offset, op, err)
		}
		e.push(v)
		return 0, nil

	case OpFormTLSAddress:
		off, err := e.pop(offset, op)
		if err != nil {
			return 0, err
		}
		v, err := e.ctx.FormTLSAddress(off)
		if err != nil {
			return 0, newError(ErrUnknown, offset, op, err)
		}
		e.push(v)
		return 0, nil

	case OpCallFrameCFA:
		v, err := e.ctx.CallFrameCFA()
		if err != nil {
			return 0, newError(ErrUnknown, offset, op, err)
		}
		e.push(v)
		return 0, nil

	case OpCall2, OpCall4, OpCallRef:
		return e.call(op, operand, offset)

	default:
		return 0, newError(ErrUnknownOpcode, offset, op, nil)
	}
}

func (e *Evaluator) binary(offset int, op Opcode, f func(i2, i1 uint64) uint64) error {
	i1, err := e.pop(offset, op)
	if err != nil {
		return err
	}
	i2, err := e.pop(offset, op)
	if err != nil {
		return err
	}
	e.push(f(i2, i1))
	return nil
}

func (e *Evaluator) compare(offset int, op Opcode, f func(i2, i1 int64) bool) error {
	i1, err := e.pop(offset, op)
	if err != nil {
		return err
	}
	i2, err := e.pop(offset, op)
	if err != nil {
		return err
	}
	if f(int64(i2), int64(i1)) {
		e.push(1)
	} else {
		e.push(0)
	}
	return nil
}

func (e *Evaluator) call(op Opcode, operand []byte, offset int) (int, error) {
	var ref uint64
	var n int
	switch op {
	case OpCall2:
		if len(operand) < 2 {
			return 0, newError(ErrTruncated, offset, op, nil)
		}
		ref = uint64(binary.LittleEndian.Uint16(operand))
		n = 2
	case OpCall4:
		if len(operand) < 4 {
			return 0, newError(ErrTruncated, offset, op, nil)
		}
		ref = uint64(binary.LittleEndian.Uint32(operand))
		n = 4
	case OpCallRef:
		if len(operand) < 8 {
			return 0, newError(ErrTruncated, offset, op, nil)
		}
		ref = binary.LittleEndian.Uint64(operand)
		n = 8
	}

	if e.calls == nil {
		return 0, newError(ErrNotImplemented, offset, op, nil)
	}
	if e.callDepth >= maxCallDepth {
		return 0, newError(ErrCallStackOverflow, offset, op, nil)
	}

	sub, err := e.calls.ResolveCall(ref)
	if err != nil {
		return 0, newError(ErrUnknown, offset, op, err)
	}

	e.callDepth++
	pos := 0
	for pos < len(sub) {
		subOp := Opcode(sub[pos])
		subStart := pos
		pos++
		consumed, err := e.step(subOp, sub[pos:], subStart)
		if err != nil {
			e.callDepth--
			return 0, err
		}
		pos = subStart + 1 + consumed
	}
	e.callDepth--

	return n, nil
}

func readLittleEndian(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func isSignedConst(op Opcode) bool {
	switch op {
	case OpConst1S, OpConst2S, OpConst4S, OpConst8S:
		return true
	default:
		return false
	}
}

