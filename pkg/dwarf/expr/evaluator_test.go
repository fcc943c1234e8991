package expr

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContext struct {
	registers map[uint64]uint64
	frameBase uint64
	memory    map[uint64]uint64
}

func (c *fakeContext) ReadRegister(reg uint64) (uint64, error) {
	v, ok := c.registers[reg]
	if !ok {
		return 0, errors.New("no such register")
	}
	return v, nil
}

func (c *fakeContext) FrameBase() (uint64, error) { return c.frameBase, nil }

func (c *fakeContext) ReadMemory(addr uint64, size int) (uint64, error) {
	v, ok := c.memory[addr]
	if !ok {
		return 0, errors.New("unmapped address")
	}
	return v, nil
}

func (c *fakeContext) ReadMemorySegmented(segment, addr uint64, size int) (uint64, error) {
	return c.ReadMemory(addr, size)
}

func (c *fakeContext) ObjectAddress() (uint64, error) { return 0x4000, nil }

func (c *fakeContext) FormTLSAddress(offset uint64) (uint64, error) { return 0x8000 + offset, nil }

func (c *fakeContext) CallFrameCFA() (uint64, error) { return 0xff00, nil }

func newFakeContext() *fakeContext {
	return &fakeContext{
		registers: map[uint64]uint64{},
		memory:    map[uint64]uint64{},
	}
}

func TestEvaluate_LiteralArithmetic(t *testing.T) {
	data := []byte{
		byte(OpLit0 + 3),
		byte(OpLit0 + 4),
		byte(OpPlus),
		byte(OpLit0 + 2),
		byte(OpMul),
	}
	e := NewEvaluator(newFakeContext(), 8)
	v, err := e.Evaluate(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(14), v)
}

func TestEvaluate_Bra_TakesBranch(t *testing.T) {
	// Lit1, Bra +1 (skip the following Lit0xFF), Lit7
	var data []byte
	data = append(data, byte(OpLit0+1))
	data = append(data, byte(OpBra))
	offsetBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(offsetBytes, uint16(int16(1)))
	data = append(data, offsetBytes...)
	data = append(data, byte(OpLit0+0xF)) // skipped
	data = append(data, byte(OpLit0+7))

	e := NewEvaluator(newFakeContext(), 8)
	v, err := e.Evaluate(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
}

func TestEvaluate_Bra_FallsThrough(t *testing.T) {
	var data []byte
	data = append(data, byte(OpLit0+0)) // condition 0 -> fall through
	data = append(data, byte(OpBra))
	offsetBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(offsetBytes, uint16(int16(10)))
	data = append(data, offsetBytes...)
	data = append(data, byte(OpLit0+9))

	e := NewEvaluator(newFakeContext(), 8)
	v, err := e.Evaluate(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), v)
}

func TestEvaluate_Skip(t *testing.T) {
	var data []byte
	data = append(data, byte(OpSkip))
	offsetBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(offsetBytes, uint16(int16(1)))
	data = append(data, offsetBytes...)
	data = append(data, byte(OpLit0+0xF)) // skipped
	data = append(data, byte(OpLit0+5))

	e := NewEvaluator(newFakeContext(), 8)
	v, err := e.Evaluate(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v)
}

func TestEvaluate_StackUnderflow(t *testing.T) {
	e := NewEvaluator(newFakeContext(), 8)
	_, err := e.Evaluate([]byte{byte(OpPlus)})
	require.Error(t, err)
	var exprErr *Error
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, ErrStackUnderflow, exprErr.Kind)
}

func TestEvaluate_DivideByZero(t *testing.T) {
	data := []byte{byte(OpLit0 + 5), byte(OpLit0 + 0), byte(OpDiv)}
	e := NewEvaluator(newFakeContext(), 8)
	_, err := e.Evaluate(data)
	require.Error(t, err)
	var exprErr *Error
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, ErrDivideByZero, exprErr.Kind)
}

func TestEvaluate_UnknownOpcode(t *testing.T) {
	e := NewEvaluator(newFakeContext(), 8)
	_, err := e.Evaluate([]byte{0x01})
	require.Error(t, err)
	var exprErr *Error
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, ErrUnknownOpcode, exprErr.Kind)
}

func TestEvaluate_NoResult(t *testing.T) {
	e := NewEvaluator(newFakeContext(), 8)
	_, err := e.Evaluate([]byte{byte(OpNop)})
	require.Error(t, err)
	var exprErr *Error
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, ErrNoResult, exprErr.Kind)
}

func TestEvaluate_BranchOutOfBounds(t *testing.T) {
	var data []byte
	data = append(data, byte(OpSkip))
	offsetBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(offsetBytes, uint16(int16(1000)))
	data = append(data, offsetBytes...)

	e := NewEvaluator(newFakeContext(), 8)
	_, err := e.Evaluate(data)
	require.Error(t, err)
	var exprErr *Error
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, ErrBranchOutOfBounds, exprErr.Kind)
}

func TestEvaluate_FBReg(t *testing.T) {
	ctx := newFakeContext()
	ctx.frameBase = 0x1000
	var data []byte
	data = append(data, byte(OpFBReg))
	data = appendSLEB(data, -16)

	e := NewEvaluator(ctx, 8)
	v, err := e.Evaluate(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1000-16), v)
}

func TestEvaluate_RegX(t *testing.T) {
	ctx := newFakeContext()
	ctx.registers[5] = 0xABCD
	var data []byte
	data = append(data, byte(OpRegX))
	data = appendULEB(data, 5)

	e := NewEvaluator(ctx, 8)
	v, err := e.Evaluate(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xABCD), v)
}

func TestEvaluate_CallWithoutResolver(t *testing.T) {
	e := NewEvaluator(newFakeContext(), 8)
	data := []byte{byte(OpCall2), 0, 0}
	_, err := e.Evaluate(data)
	require.Error(t, err)
	var exprErr *Error
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, ErrNotImplemented, exprErr.Kind)
}

func appendULEB(data []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		data = append(data, b)
		if v == 0 {
			return data
		}
	}
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
