package instance

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/wippyai/plcmem/errors"
	"github.com/wippyai/plcmem/layout"
)

// dateEpoch is day zero of DATE values.
var dateEpoch = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

// Encode converts v to the storage bytes of dt in controller byte order.
//
// Integer kinds accept any Go integer within range. TIME and TIME_OF_DAY
// accept a time.Duration or integer milliseconds, DATE a time.Time or an
// integer day count. Arrays of primitives accept []byte of the full array
// size or an []any of elements; missing trailing elements are zero.
func Encode(dt *layout.DataType, v any) ([]byte, error) {
	if dt == nil {
		return nil, errors.InvalidInput(errors.PhaseInstance, "nil data type")
	}

	switch dt.Kind() {
	case layout.KindVoid:
		return []byte{}, nil

	case layout.KindBool:
		switch b := v.(type) {
		case bool:
			if b {
				return []byte{1}, nil
			}
			return []byte{0}, nil
		default:
			n, err := integer(dt, v, 0, 1)
			if err != nil {
				return nil, err
			}
			return []byte{byte(n)}, nil
		}

	case layout.KindByte:
		n, err := integer(dt, v, 0, math.MaxUint8)
		if err != nil {
			return nil, err
		}
		return []byte{byte(n)}, nil

	case layout.KindChar:
		if s, ok := v.(string); ok {
			if len(s) != 1 {
				return nil, mismatch(dt, v, "CHAR needs a single byte string")
			}
			return []byte{s[0]}, nil
		}
		n, err := integer(dt, v, 0, math.MaxUint8)
		if err != nil {
			return nil, err
		}
		return []byte{byte(n)}, nil

	case layout.KindWord, layout.KindS5Time, layout.KindBlockDB, layout.KindBlockFB,
		layout.KindBlockFC, layout.KindCounter, layout.KindTimer:
		n, err := integer(dt, v, 0, math.MaxUint16)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint16(nil, uint16(n)), nil

	case layout.KindDate:
		if t, ok := v.(time.Time); ok {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			v = int64(d.Sub(dateEpoch) / day)
		}
		n, err := integer(dt, v, 0, math.MaxUint16)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint16(nil, uint16(n)), nil

	case layout.KindInt:
		n, err := integer(dt, v, math.MinInt16, math.MaxInt16)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint16(nil, uint16(int16(n))), nil

	case layout.KindDWord:
		n, err := integer(dt, v, 0, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint32(nil, uint32(n)), nil

	case layout.KindDInt:
		n, err := integer(dt, v, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint32(nil, uint32(int32(n))), nil

	case layout.KindReal:
		f, err := float(dt, v)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint32(nil, math.Float32bits(f)), nil

	case layout.KindTime:
		if d, ok := v.(time.Duration); ok {
			v = int64(d / time.Millisecond)
		}
		n, err := integer(dt, v, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint32(nil, uint32(int32(n))), nil

	case layout.KindTimeOfDay:
		if d, ok := v.(time.Duration); ok {
			v = int64(d / time.Millisecond)
		}
		n, err := integer(dt, v, 0, int64(day/time.Millisecond)-1)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint32(nil, uint32(n)), nil

	case layout.KindDateAndTime:
		t, ok := v.(time.Time)
		if !ok {
			return nil, mismatch(dt, v, "DATE_AND_TIME needs a time.Time")
		}
		return encodeDT(dt, t)

	case layout.KindString:
		s, ok := v.(string)
		if !ok {
			return nil, mismatch(dt, v, "STRING needs a string")
		}
		if len(s) > dt.StringLength() {
			return nil, errors.New(errors.PhaseInstance, errors.KindOutOfRange).
				Type(dt.String()).
				Value(len(s)).
				Detail("string of %d bytes exceeds maximum length %d", len(s), dt.StringLength()).
				Build()
		}
		out := make([]byte, dt.StringLength()+2)
		out[0] = byte(dt.StringLength())
		out[1] = byte(len(s))
		copy(out[2:], s)
		return out, nil

	case layout.KindArray:
		return encodeArray(dt, v)

	case layout.KindPointer, layout.KindAny, layout.KindStruct, layout.KindUDT:
		return rawBytes(dt, v)

	case layout.KindFB, layout.KindSFB:
		return nil, errors.UndefinedWidth(errors.PhaseInstance, "", dt.String())

	default:
		return nil, errors.Unsupported(errors.PhaseInstance, dt.Kind().String())
	}
}

// Decode converts the storage bytes of dt to its Go representation.
func Decode(dt *layout.DataType, data []byte) (any, error) {
	if dt == nil {
		return nil, errors.InvalidInput(errors.PhaseInstance, "nil data type")
	}
	if dt.Width() < 0 {
		return nil, errors.UndefinedWidth(errors.PhaseInstance, "", dt.String())
	}
	if want := (dt.Width() + 7) / 8; len(data) != want {
		return nil, errors.New(errors.PhaseInstance, errors.KindInvalidInput).
			Type(dt.String()).
			Value(len(data)).
			Detail("got %d bytes, %s needs %d", len(data), dt, want).
			Build()
	}

	switch dt.Kind() {
	case layout.KindVoid:
		return nil, nil
	case layout.KindBool:
		return data[0]&1 != 0, nil
	case layout.KindByte, layout.KindChar:
		return data[0], nil
	case layout.KindWord, layout.KindS5Time, layout.KindBlockDB, layout.KindBlockFB,
		layout.KindBlockFC, layout.KindCounter, layout.KindTimer:
		return binary.BigEndian.Uint16(data), nil
	case layout.KindDate:
		return dateEpoch.Add(time.Duration(binary.BigEndian.Uint16(data)) * day), nil
	case layout.KindInt:
		return int16(binary.BigEndian.Uint16(data)), nil
	case layout.KindDWord:
		return binary.BigEndian.Uint32(data), nil
	case layout.KindDInt:
		return int32(binary.BigEndian.Uint32(data)), nil
	case layout.KindReal:
		return math.Float32frombits(binary.BigEndian.Uint32(data)), nil
	case layout.KindTime:
		return time.Duration(int32(binary.BigEndian.Uint32(data))) * time.Millisecond, nil
	case layout.KindTimeOfDay:
		return time.Duration(binary.BigEndian.Uint32(data)) * time.Millisecond, nil
	case layout.KindDateAndTime:
		return decodeDT(dt, data)
	case layout.KindString:
		n := int(data[1])
		if n > len(data)-2 {
			n = len(data) - 2
		}
		return string(data[2 : 2+n]), nil
	case layout.KindArray:
		return decodeArray(dt, data)
	case layout.KindPointer, layout.KindAny, layout.KindStruct, layout.KindUDT:
		return append([]byte(nil), data...), nil
	case layout.KindFB, layout.KindSFB:
		return nil, errors.UndefinedWidth(errors.PhaseInstance, "", dt.String())
	default:
		return nil, errors.Unsupported(errors.PhaseInstance, dt.Kind().String())
	}
}

func mismatch(dt *layout.DataType, v any, detail string) error {
	return errors.New(errors.PhaseInstance, errors.KindInvalidInput).
		Type(dt.String()).
		Value(v).
		Detail("%s, got %T", detail, v).
		Build()
}

func outOfRange(dt *layout.DataType, v any, lo, hi int64) error {
	return errors.New(errors.PhaseInstance, errors.KindOutOfRange).
		Type(dt.String()).
		Value(v).
		Detail("%v outside %d..%d", v, lo, hi).
		Build()
}

// integer converts any Go integer to int64 and checks it against lo..hi.
func integer(dt *layout.DataType, v any, lo, hi int64) (int64, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, outOfRange(dt, v, lo, hi)
		}
		n = int64(x)
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, outOfRange(dt, v, lo, hi)
		}
		n = int64(x)
	default:
		return 0, mismatch(dt, v, dt.Kind().String()+" needs an integer")
	}
	if n < lo || n > hi {
		return 0, outOfRange(dt, v, lo, hi)
	}
	return n, nil
}

func float(dt *layout.DataType, v any) (float32, error) {
	switch x := v.(type) {
	case float32:
		return x, nil
	case float64:
		if !math.IsInf(x, 0) && !math.IsNaN(x) && math.Abs(x) > math.MaxFloat32 {
			return 0, errors.New(errors.PhaseInstance, errors.KindOutOfRange).
				Type(dt.String()).
				Value(x).
				Detail("%g overflows REAL", x).
				Build()
		}
		return float32(x), nil
	default:
		n, err := integer(dt, v, math.MinInt64, math.MaxInt64)
		if err != nil {
			return 0, mismatch(dt, v, "REAL needs a number")
		}
		return float32(n), nil
	}
}

func rawBytes(dt *layout.DataType, v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, mismatch(dt, v, dt.Kind().String()+" needs []byte")
	}
	if want := (dt.Width() + 7) / 8; len(b) != want {
		return nil, errors.New(errors.PhaseInstance, errors.KindInvalidInput).
			Type(dt.String()).
			Value(len(b)).
			Detail("got %d bytes, %s needs %d", len(b), dt, want).
			Build()
	}
	return append([]byte(nil), b...), nil
}

func encodeArray(dt *layout.DataType, v any) ([]byte, error) {
	if dt.Width() < 0 {
		return nil, errors.UndefinedWidth(errors.PhaseInstance, "", dt.String())
	}
	if b, ok := v.([]byte); ok {
		return rawBytes(dt, b)
	}

	elems, ok := v.([]any)
	if !ok {
		return nil, mismatch(dt, v, "ARRAY needs []byte or []any")
	}
	elem := dt.Elem()
	if elem.IsCompound() {
		return nil, errors.Unsupported(errors.PhaseInstance, "element values for arrays of "+elem.String())
	}
	count := dt.ElementCount()
	if len(elems) > count {
		return nil, errors.New(errors.PhaseInstance, errors.KindOutOfRange).
			Type(dt.String()).
			Value(len(elems)).
			Detail("%d elements for an array of %d", len(elems), count).
			Build()
	}

	out := make([]byte, (dt.Width()+7)/8)
	stride := (elem.Width() + 7) / 8
	for i, ev := range elems {
		data, err := Encode(elem, ev)
		if err != nil {
			return nil, err
		}
		if elem.Width() == 1 {
			out[i/8] |= (data[0] & 1) << (i % 8)
			continue
		}
		copy(out[i*stride:], data)
	}
	return out, nil
}

func decodeArray(dt *layout.DataType, data []byte) (any, error) {
	elem := dt.Elem()
	if elem.IsCompound() {
		return append([]byte(nil), data...), nil
	}

	count := dt.ElementCount()
	out := make([]any, count)
	stride := (elem.Width() + 7) / 8
	for i := range count {
		var chunk []byte
		if elem.Width() == 1 {
			chunk = []byte{(data[i/8] >> (i % 8)) & 1}
		} else {
			chunk = data[i*stride : (i+1)*stride]
		}
		v, err := Decode(elem, chunk)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func toBCD(n int) byte {
	return byte(n/10)<<4 | byte(n%10)
}

func fromBCD(b byte) (int, bool) {
	hi, lo := b>>4, b&0x0f
	if hi > 9 || lo > 9 {
		return 0, false
	}
	return int(hi)*10 + int(lo), true
}

// encodeDT writes the eight BCD bytes of DATE_AND_TIME: year, month, day,
// hour, minute, second, then milliseconds in three digits followed by the
// weekday nibble (1 = Sunday). The zero time.Time encodes as all zeros.
func encodeDT(dt *layout.DataType, t time.Time) ([]byte, error) {
	if t.IsZero() {
		return make([]byte, 8), nil
	}
	if t.Year() < 1990 || t.Year() > 2089 {
		return nil, errors.New(errors.PhaseInstance, errors.KindOutOfRange).
			Type(dt.String()).
			Value(t).
			Detail("year %d outside 1990..2089", t.Year()).
			Build()
	}
	ms := t.Nanosecond() / int(time.Millisecond)
	return []byte{
		toBCD(t.Year() % 100),
		toBCD(int(t.Month())),
		toBCD(t.Day()),
		toBCD(t.Hour()),
		toBCD(t.Minute()),
		toBCD(t.Second()),
		toBCD(ms / 10),
		byte(ms%10)<<4 | byte(t.Weekday()+1),
	}, nil
}

func decodeDT(dt *layout.DataType, data []byte) (time.Time, error) {
	zero := true
	for _, b := range data {
		if b != 0 {
			zero = false
			break
		}
	}
	if zero {
		return time.Time{}, nil
	}

	var fields [7]int
	for i := range 7 {
		n, ok := fromBCD(data[i])
		if !ok {
			return time.Time{}, errors.New(errors.PhaseInstance, errors.KindInvalidInput).
				Type(dt.String()).
				Value(data[i]).
				Detail("byte %d is not BCD: %#02x", i, data[i]).
				Build()
		}
		fields[i] = n
	}
	msDigit := int(data[7] >> 4)
	if msDigit > 9 {
		return time.Time{}, errors.New(errors.PhaseInstance, errors.KindInvalidInput).
			Type(dt.String()).
			Value(data[7]).
			Detail("byte 7 is not BCD: %#02x", data[7]).
			Build()
	}

	year := 2000 + fields[0]
	if fields[0] >= 90 {
		year = 1900 + fields[0]
	}
	month, dayOfMonth := fields[1], fields[2]
	if month < 1 || month > 12 || dayOfMonth < 1 ||
		dayOfMonth > daysIn(year, time.Month(month)) ||
		fields[3] > 23 || fields[4] > 59 || fields[5] > 59 {
		return time.Time{}, errors.New(errors.PhaseInstance, errors.KindInvalidInput).
			Type(dt.String()).
			Value(data).
			Detail("% x is not a valid date and time", data).
			Build()
	}

	ms := fields[6]*10 + msDigit
	return time.Date(year, time.Month(month), dayOfMonth, fields[3], fields[4], fields[5],
		ms*int(time.Millisecond), time.UTC), nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
