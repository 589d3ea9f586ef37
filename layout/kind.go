package layout

// Kind identifies a data type. The set is closed: every switch over Kind
// in this package handles all values.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindByte
	KindChar
	KindWord
	KindInt
	KindDWord
	KindDInt
	KindReal
	KindS5Time
	KindTime
	KindDate
	KindTimeOfDay
	KindDateAndTime
	KindString
	KindPointer
	KindAny
	KindBlockDB
	KindBlockFB
	KindBlockFC
	KindCounter
	KindTimer
	KindFB
	KindSFB
	KindArray
	KindStruct
	KindUDT

	kindCount
)

var kindNames = [...]string{
	KindVoid:        "VOID",
	KindBool:        "BOOL",
	KindByte:        "BYTE",
	KindChar:        "CHAR",
	KindWord:        "WORD",
	KindInt:         "INT",
	KindDWord:       "DWORD",
	KindDInt:        "DINT",
	KindReal:        "REAL",
	KindS5Time:      "S5TIME",
	KindTime:        "TIME",
	KindDate:        "DATE",
	KindTimeOfDay:   "TIME_OF_DAY",
	KindDateAndTime: "DATE_AND_TIME",
	KindString:      "STRING",
	KindPointer:     "POINTER",
	KindAny:         "ANY",
	KindBlockDB:     "BLOCK_DB",
	KindBlockFB:     "BLOCK_FB",
	KindBlockFC:     "BLOCK_FC",
	KindCounter:     "COUNTER",
	KindTimer:       "TIMER",
	KindFB:          "FB",
	KindSFB:         "SFB",
	KindArray:       "ARRAY",
	KindStruct:      "STRUCT",
	KindUDT:         "UDT",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool {
	return k < kindCount
}

// IsCompound reports whether values of this kind are composed of other types.
func (k Kind) IsCompound() bool {
	switch k {
	case KindArray, KindStruct, KindUDT:
		return true
	default:
		return false
	}
}

// Alignment is the natural start alignment of a type.
type Alignment uint8

const (
	AlignNone Alignment = iota // any byte (or bit, for BOOL)
	AlignWord                  // even byte offset
)

// Bytes returns the byte alignment used when adding a naturally aligned field.
func (a Alignment) Bytes() uint32 {
	if a == AlignWord {
		return 2
	}
	return 1
}
