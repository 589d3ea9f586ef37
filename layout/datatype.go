package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/plcmem/errors"
)

// DefaultStringLength is the capacity of a STRING declared without a length.
const DefaultStringLength = 254

// MaxStringLength is the largest STRING capacity a length byte can describe.
const MaxStringLength = 254

// Undefined is the width reported by types without a storage size.
const Undefined = -1

// Dimension is one inclusive index range of an ARRAY.
type Dimension struct {
	Lo int
	Hi int
}

// Dim returns the index range lo..hi.
func Dim(lo, hi int) Dimension {
	return Dimension{Lo: lo, Hi: hi}
}

// Count returns the number of indices in the range.
func (d Dimension) Count() int {
	return d.Hi - d.Lo + 1
}

func (d Dimension) String() string {
	return strconv.Itoa(d.Lo) + ".." + strconv.Itoa(d.Hi)
}

// DataType describes a primitive or compound type.
// A DataType is immutable once constructed and may be shared between fields.
type DataType struct {
	sub    *Struct
	elem   *DataType
	name   string
	dims   []Dimension
	number int
	strLen int
	kind   Kind
}

var (
	Void        = &DataType{kind: KindVoid}
	Bool        = &DataType{kind: KindBool}
	Byte        = &DataType{kind: KindByte}
	Char        = &DataType{kind: KindChar}
	Word        = &DataType{kind: KindWord}
	Int         = &DataType{kind: KindInt}
	DWord       = &DataType{kind: KindDWord}
	DInt        = &DataType{kind: KindDInt}
	Real        = &DataType{kind: KindReal}
	S5Time      = &DataType{kind: KindS5Time}
	Time        = &DataType{kind: KindTime}
	Date        = &DataType{kind: KindDate}
	TimeOfDay   = &DataType{kind: KindTimeOfDay}
	DateAndTime = &DataType{kind: KindDateAndTime}
	Pointer     = &DataType{kind: KindPointer}
	Any         = &DataType{kind: KindAny}
	BlockDB     = &DataType{kind: KindBlockDB}
	BlockFB     = &DataType{kind: KindBlockFB}
	BlockFC     = &DataType{kind: KindBlockFC}
	Counter     = &DataType{kind: KindCounter}
	Timer       = &DataType{kind: KindTimer}
)

// String returns a STRING type holding up to n characters.
func String(n int) (*DataType, error) {
	if n < 0 || n > MaxStringLength {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Type("STRING").
			Value(n).
			Detail("string length %d out of range 0..%d", n, MaxStringLength).
			Build()
	}
	return &DataType{kind: KindString, strLen: n}, nil
}

// FB returns the type of a multi-instance function block declaration.
func FB(number int) *DataType {
	return &DataType{kind: KindFB, number: number}
}

// SFB returns the type of a multi-instance system function block declaration.
func SFB(number int) *DataType {
	return &DataType{kind: KindSFB, number: number}
}

// Array returns an ARRAY of elem with the given dimensions.
func Array(elem *DataType, dims ...Dimension) (*DataType, error) {
	if elem == nil {
		return nil, errors.InvalidInput(errors.PhaseLayout, "array element type is nil")
	}
	if elem.kind == KindArray {
		return nil, errors.New(errors.PhaseLayout, errors.KindUnsupported).
			Type(elem.String()).
			Detail("arrays of arrays are not supported, use multiple dimensions").
			Build()
	}
	if len(dims) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLayout, "array needs at least one dimension")
	}
	for _, d := range dims {
		if d.Hi < d.Lo {
			return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
				Value(d).
				Detail("invalid array dimension %s", d).
				Build()
		}
	}
	return &DataType{
		kind: KindArray,
		elem: elem,
		dims: append([]Dimension(nil), dims...),
	}, nil
}

// StructOf returns an anonymous STRUCT type backed by s.
func StructOf(s *Struct) *DataType {
	return &DataType{kind: KindStruct, sub: s}
}

// UDT returns a user-defined type reference. s may be nil, in which case the
// backing struct is resolved by name when a field of this type is added.
func UDT(name string, s *Struct) *DataType {
	return &DataType{kind: KindUDT, name: name, sub: s}
}

func (t *DataType) Kind() Kind { return t.kind }

// Name returns the UDT name, or "" for other kinds.
func (t *DataType) Name() string { return t.name }

// Number returns the block number of FB and SFB types.
func (t *DataType) Number() int { return t.number }

// StringLength returns the character capacity of a STRING type.
func (t *DataType) StringLength() int { return t.strLen }

// Elem returns the element type of an ARRAY.
func (t *DataType) Elem() *DataType { return t.elem }

// Dimensions returns a copy of the ARRAY dimensions.
func (t *DataType) Dimensions() []Dimension {
	return append([]Dimension(nil), t.dims...)
}

// Struct returns the backing struct of STRUCT and bound UDT types.
func (t *DataType) Struct() *Struct { return t.sub }

// IsCompound reports whether the type is an ARRAY, STRUCT or UDT.
func (t *DataType) IsCompound() bool {
	return t.kind.IsCompound()
}

// Bound reports whether a UDT has its backing struct.
func (t *DataType) Bound() bool {
	return t.kind != KindUDT || t.sub != nil
}

// ElementCount returns the number of ARRAY elements, or 1 for other kinds.
func (t *DataType) ElementCount() int {
	if t.kind != KindArray {
		return 1
	}
	n := 1
	for _, d := range t.dims {
		n *= d.Count()
	}
	return n
}

// Width returns the storage width in bits, or Undefined.
func (t *DataType) Width() int {
	switch t.kind {
	case KindVoid:
		return 0
	case KindBool:
		return 1
	case KindByte, KindChar:
		return 8
	case KindWord, KindInt, KindS5Time, KindDate,
		KindBlockDB, KindBlockFB, KindBlockFC, KindCounter, KindTimer:
		return 16
	case KindDWord, KindDInt, KindReal, KindTime, KindTimeOfDay:
		return 32
	case KindPointer:
		return 48
	case KindDateAndTime:
		return 64
	case KindAny:
		return 80
	case KindString:
		return (t.strLen + 2) * 8
	case KindFB, KindSFB:
		return Undefined
	case KindArray:
		return t.arrayWidth()
	case KindStruct, KindUDT:
		if t.sub == nil {
			return Undefined
		}
		return int(t.sub.Size()) * 8
	default:
		return Undefined
	}
}

func (t *DataType) arrayWidth() int {
	ew := t.elem.Width()
	if ew < 0 {
		return Undefined
	}
	n := t.ElementCount()
	if ew == 1 {
		return bytesForBits(n) * 8
	}
	return n * t.elem.stride() * 8
}

// stride is the byte distance between consecutive ARRAY elements of this type.
func (t *DataType) stride() int {
	n := bytesForBits(t.Width())
	if t.IsCompound() {
		return int(alignTo(uint32(n), 2))
	}
	return n
}

// NaturalAlignment returns the alignment used by Builder.AddFieldNaturallyAligned.
func (t *DataType) NaturalAlignment() Alignment {
	switch t.kind {
	case KindVoid, KindBool, KindByte, KindChar:
		return AlignNone
	default:
		return AlignWord
	}
}

// String renders the type in declaration syntax.
func (t *DataType) String() string {
	switch t.kind {
	case KindString:
		return fmt.Sprintf("STRING[%d]", t.strLen)
	case KindFB, KindSFB:
		return fmt.Sprintf("%s %d", t.kind, t.number)
	case KindUDT:
		return strconv.Quote(t.name)
	case KindArray:
		parts := make([]string, len(t.dims))
		for i, d := range t.dims {
			parts[i] = d.String()
		}
		return "ARRAY [" + strings.Join(parts, ", ") + "] OF " + t.elem.String()
	default:
		return t.kind.String()
	}
}
