package dwarf

import (
	"bytes"
	"encoding/binary"

	"github.com/jsren/godwarf/pkg/leb128"
)

// attributeSize returns the number of bytes an attribute value of the
// given form occupies in the buffer, including any inline length prefix
// (a Block1's length byte, a ULEB-encoded Block's length, etc.). value is
// the buffer starting at the attribute's value, not yet advanced past it.
func attributeSize(form AttributeForm, addressSize, offsetSize int, value []byte) (int, error) {
	switch form {
	case FormAddress:
		if len(value) < addressSize {
			return 0, newError(ErrTruncated, 0, nil)
		}
		return addressSize, nil

	case FormBlock1:
		if len(value) < 1 {
			return 0, newError(ErrTruncated, 0, nil)
		}
		n := int(value[0])
		if len(value) < 1+n {
			return 0, newError(ErrTruncated, 0, nil)
		}
		return 1 + n, nil

	case FormBlock2:
		if len(value) < 2 {
			return 0, newError(ErrTruncated, 0, nil)
		}
		n := int(binary.LittleEndian.Uint16(value))
		if len(value) < 2+n {
			return 0, newError(ErrTruncated, 0, nil)
		}
		return 2 + n, nil

	case FormBlock4:
		if len(value) < 4 {
			return 0, newError(ErrTruncated, 0, nil)
		}
		n := int(binary.LittleEndian.Uint32(value))
		if len(value) < 4+n {
			return 0, newError(ErrTruncated, 0, nil)
		}
		return 4 + n, nil

	case FormBlock:
		n, consumed, err := leb128.ReadUint64(value)
		if err != nil || consumed == 0 {
			return 0, newError(ErrTruncated, 0, err)
		}
		if len(value) < consumed+int(n) {
			return 0, newError(ErrTruncated, 0, nil)
		}
		return consumed + int(n), nil

	case FormData1, FormRef1, FormFlag:
		if len(value) < 1 {
			return 0, newError(ErrTruncated, 0, nil)
		}
		return 1, nil

	case FormData2, FormRef2:
		if len(value) < 2 {
			return 0, newError(ErrTruncated, 0, nil)
		}
		return 2, nil

	case FormData4, FormRef4:
		if len(value) < 4 {
			return 0, newError(ErrTruncated, 0, nil)
		}
		return 4, nil

	case FormData8, FormRef8, FormRefSig8:
		if len(value) < 8 {
			return 0, newError(ErrTruncated, 0, nil)
		}
		return 8, nil

	case FormSData:
		_, consumed, err := leb128.ReadInt64(value)
		if err != nil || consumed == 0 {
			return 0, newError(ErrTruncated, 0, err)
		}
		return consumed, nil

	case FormUData, FormRefUData:
		_, consumed, err := leb128.ReadUint64(value)
		if err != nil || consumed == 0 {
			return 0, newError(ErrTruncated, 0, err)
		}
		return consumed, nil

	case FormExprLoc:
		n, consumed, err := leb128.ReadUint64(value)
		if err != nil || consumed == 0 {
			return 0, newError(ErrTruncated, 0, err)
		}
		if len(value) < consumed+int(n) {
			return 0, newError(ErrTruncated, 0, nil)
		}
		return consumed + int(n), nil

	case FormFlagPresent:
		return 0, nil

	case FormSecOffset, FormRefAddr, FormStrp:
		if len(value) < offsetSize {
			return 0, newError(ErrTruncated, 0, nil)
		}
		return offsetSize, nil

	case FormString:
		idx := bytes.IndexByte(value, 0)
		if idx < 0 {
			return 0, newError(ErrMalformedString, 0, nil)
		}
		return idx + 1, nil

	default:
		return 0, newError(ErrUnknownForm, 0, nil)
	}
}

// Attribute is one decoded (name, form, value) triple belonging to a DIE.
// Data holds exactly the bytes attributeSize computed for this value; for
// FormStrp it instead holds the already-resolved string bytes pulled from
// .debug_str at decode time (see decodeDIE), since the raw
// .debug_info encoding is just an offset nobody wants to re-resolve on
// every access.
type Attribute struct {
	Spec        AttributeSpec
	Data        []byte
	AddressSize int
	OffsetSize  int
}

// Class reports the attribute's semantic category.
func (a Attribute) Class() AttributeClass { return classOf(a.Spec.Form) }

func readFixedAddress(data []byte, size int, order binary.ByteOrder) (uint64, error) {
	if size <= 0 || size > 8 || len(data) < size {
		return 0, newError(TypeMismatch, 0, nil)
	}
	var buf [8]byte
	copy(buf[:size], data[:size])
	return order.Uint64(buf[:]), nil
}

// Uint64 returns the attribute's value as an unsigned integer. It accepts
// the unsigned constant forms (DataN, UData), address, reference,
// section-pointer and flag forms; anything else, including SData (see
// Int64), is a TypeMismatch.
func (a Attribute) Uint64() (uint64, error) {
	order := binary.LittleEndian
	switch a.Spec.Form {
	case FormData1, FormRef1:
		if len(a.Data) < 1 {
			return 0, newError(TypeMismatch, 0, nil)
		}
		return uint64(a.Data[0]), nil
	case FormData2, FormRef2:
		if len(a.Data) < 2 {
			return 0, newError(TypeMismatch, 0, nil)
		}
		return uint64(order.Uint16(a.Data)), nil
	case FormData4, FormRef4:
		if len(a.Data) < 4 {
			return 0, newError(TypeMismatch, 0, nil)
		}
		return uint64(order.Uint32(a.Data)), nil
	case FormData8, FormRef8, FormRefSig8:
		if len(a.Data) < 8 {
			return 0, newError(TypeMismatch, 0, nil)
		}
		return order.Uint64(a.Data), nil
	case FormUData, FormRefUData:
		v, _, err := leb128.ReadUint64(a.Data)
		if err != nil {
			return 0, err
		}
		return v, nil
	case FormSecOffset, FormRefAddr:
		return readFixedAddress(a.Data, a.OffsetSize, order)
	case FormAddress:
		return readFixedAddress(a.Data, a.AddressSize, order)
	case FormFlag:
		if len(a.Data) < 1 || a.Data[0] == 0 {
			return 0, nil
		}
		return 1, nil
	case FormFlagPresent:
		return 1, nil
	default:
		return 0, newError(TypeMismatch, 0, nil)
	}
}

// Int64 returns the attribute's value as a signed integer. Only SData
// attributes carry a genuinely signed wire encoding; everything else is a
// TypeMismatch (callers with a signed DataN attribute should use Uint64
// and reinterpret, since the form alone can't say how wide the value's
// sign-bit is).
func (a Attribute) Int64() (int64, error) {
	if a.Spec.Form != FormSData {
		return 0, newError(TypeMismatch, 0, nil)
	}
	v, _, err := leb128.ReadInt64(a.Data)
	return v, err
}

// Address returns the attribute's value as a target address. Only valid
// for FormAddress.
func (a Attribute) Address() (uint64, error) {
	if a.Spec.Form != FormAddress {
		return 0, newError(TypeMismatch, 0, nil)
	}
	return readFixedAddress(a.Data, a.AddressSize, binary.LittleEndian)
}

// String returns the attribute's value as text. Valid for FormString
// (inline, NUL-terminated in .debug_info) and FormStrp (resolved from
// .debug_str at decode time).
func (a Attribute) String() (string, error) {
	switch a.Spec.Form {
	case FormString, FormStrp:
		if idx := bytes.IndexByte(a.Data, 0); idx >= 0 {
			return string(a.Data[:idx]), nil
		}
		return string(a.Data), nil
	default:
		return "", newError(TypeMismatch, 0, nil)
	}
}

// Bytes returns the attribute's payload with any inline length prefix
// stripped. Valid for the Block forms and ExprLoc.
func (a Attribute) Bytes() ([]byte, error) {
	order := binary.LittleEndian
	switch a.Spec.Form {
	case FormBlock1:
		if len(a.Data) < 1 {
			return nil, newError(TypeMismatch, 0, nil)
		}
		n := int(a.Data[0])
		if len(a.Data) < 1+n {
			return nil, newError(TypeMismatch, 0, nil)
		}
		return a.Data[1 : 1+n], nil
	case FormBlock2:
		if len(a.Data) < 2 {
			return nil, newError(TypeMismatch, 0, nil)
		}
		n := int(order.Uint16(a.Data))
		if len(a.Data) < 2+n {
			return nil, newError(TypeMismatch, 0, nil)
		}
		return a.Data[2 : 2+n], nil
	case FormBlock4:
		if len(a.Data) < 4 {
			return nil, newError(TypeMismatch, 0, nil)
		}
		n := int(order.Uint32(a.Data))
		if len(a.Data) < 4+n {
			return nil, newError(TypeMismatch, 0, nil)
		}
		return a.Data[4 : 4+n], nil
	case FormBlock, FormExprLoc:
		n, consumed, err := leb128.ReadUint64(a.Data)
		if err != nil {
			return nil, err
		}
		if len(a.Data) < consumed+int(n) {
			return nil, newError(TypeMismatch, 0, nil)
		}
		return a.Data[consumed : consumed+int(n)], nil
	default:
		return nil, newError(TypeMismatch, 0, nil)
	}
}
