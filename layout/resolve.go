package layout

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wippyai/plcmem/errors"
)

var primitiveNames = map[string]*DataType{
	"VOID":          Void,
	"BOOL":          Bool,
	"BYTE":          Byte,
	"CHAR":          Char,
	"WORD":          Word,
	"INT":           Int,
	"DWORD":         DWord,
	"DINT":          DInt,
	"REAL":          Real,
	"S5TIME":        S5Time,
	"TIME":          Time,
	"DATE":          Date,
	"TIME_OF_DAY":   TimeOfDay,
	"TOD":           TimeOfDay,
	"DATE_AND_TIME": DateAndTime,
	"DT":            DateAndTime,
	"POINTER":       Pointer,
	"ANY":           Any,
	"BLOCK_DB":      BlockDB,
	"BLOCK_FB":      BlockFB,
	"BLOCK_FC":      BlockFC,
	"COUNTER":       Counter,
	"TIMER":         Timer,
}

var (
	stringRe = regexp.MustCompile(`^STRING\s*\[\s*(\d+)\s*\]$`)
	blockRe  = regexp.MustCompile(`^(S?FB)\s*(\d+)$`)
)

// Resolve returns the type named by a primitive type name.
// Names are case-insensitive. UDT names are resolved by the loader.
func Resolve(name string) (*DataType, error) {
	key := strings.ToUpper(strings.TrimSpace(name))

	if t, ok := primitiveNames[key]; ok {
		return t, nil
	}

	if key == "STRING" {
		return String(DefaultStringLength)
	}
	if m := stringRe.FindStringSubmatch(key); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, errors.UnknownType(errors.PhaseLoad, name)
		}
		return String(n)
	}

	if m := blockRe.FindStringSubmatch(key); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, errors.UnknownType(errors.PhaseLoad, name)
		}
		if m[1] == "SFB" {
			return SFB(n), nil
		}
		return FB(n), nil
	}

	return nil, errors.UnknownType(errors.PhaseLoad, name)
}
