package instance

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	plcerrors "github.com/wippyai/plcmem/errors"
	"github.com/wippyai/plcmem/layout"
)

func mustString(t *testing.T, n int) *layout.DataType {
	t.Helper()
	dt, err := layout.String(n)
	if err != nil {
		t.Fatal(err)
	}
	return dt
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		dt   *layout.DataType
		in   any
		want []byte
	}{
		{"bool true", layout.Bool, true, []byte{1}},
		{"bool int", layout.Bool, 0, []byte{0}},
		{"byte", layout.Byte, 0xab, []byte{0xab}},
		{"char string", layout.Char, "A", []byte{'A'}},
		{"word", layout.Word, uint16(0x1234), []byte{0x12, 0x34}},
		{"int negative", layout.Int, -2, []byte{0xff, 0xfe}},
		{"dword", layout.DWord, int64(0xdeadbeef), []byte{0xde, 0xad, 0xbe, 0xef}},
		{"dint", layout.DInt, int32(-1), []byte{0xff, 0xff, 0xff, 0xff}},
		{"real", layout.Real, 1.0, []byte{0x3f, 0x80, 0x00, 0x00}},
		{"real from int", layout.Real, 2, []byte{0x40, 0x00, 0x00, 0x00}},
		{"time", layout.Time, 2 * time.Second, []byte{0x00, 0x00, 0x07, 0xd0}},
		{"time negative ms", layout.Time, int64(-1), []byte{0xff, 0xff, 0xff, 0xff}},
		{"tod", layout.TimeOfDay, time.Hour, []byte{0x00, 0x36, 0xee, 0x80}},
		{"date", layout.Date, time.Date(1990, 1, 11, 15, 0, 0, 0, time.UTC), []byte{0x00, 0x0a}},
		{"counter", layout.Counter, 7, []byte{0x00, 0x07}},
		{"string", mustString(t, 4), "ab", []byte{4, 2, 'a', 'b', 0, 0}},
		{"pointer", layout.Pointer, []byte{1, 2, 3, 4, 5, 6}, []byte{1, 2, 3, 4, 5, 6}},
		{"void", layout.Void, nil, []byte{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Encode(tc.dt, tc.in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("got % x, want % x", got, tc.want)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name string
		dt   *layout.DataType
		in   any
		kind plcerrors.Kind
	}{
		{"byte overflow", layout.Byte, 256, plcerrors.KindOutOfRange},
		{"int overflow", layout.Int, 32768, plcerrors.KindOutOfRange},
		{"word negative", layout.Word, -1, plcerrors.KindOutOfRange},
		{"dword huge", layout.DWord, uint64(1 << 40), plcerrors.KindOutOfRange},
		{"tod past midnight", layout.TimeOfDay, 25 * time.Hour, plcerrors.KindOutOfRange},
		{"string too long", mustString(t, 2), "abc", plcerrors.KindOutOfRange},
		{"bool from string", layout.Bool, "yes", plcerrors.KindInvalidInput},
		{"char too long", layout.Char, "ab", plcerrors.KindInvalidInput},
		{"pointer size", layout.Pointer, []byte{1}, plcerrors.KindInvalidInput},
		{"dt from int", layout.DateAndTime, 5, plcerrors.KindInvalidInput},
		{"dt year", layout.DateAndTime, time.Date(1989, 1, 1, 0, 0, 0, 0, time.UTC), plcerrors.KindOutOfRange},
		{"fb", layout.FB(1), []byte{}, plcerrors.KindUndefinedWidth},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Encode(tc.dt, tc.in)
			if !isKind(err, tc.kind) {
				t.Errorf("got %v, want %s", err, tc.kind)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	dt := time.Date(2024, 2, 29, 13, 45, 7, 123*int(time.Millisecond), time.UTC)

	tests := []struct {
		name string
		dt   *layout.DataType
		in   any
	}{
		{"bool", layout.Bool, true},
		{"byte", layout.Byte, uint8(200)},
		{"char", layout.Char, uint8('z')},
		{"word", layout.Word, uint16(65535)},
		{"s5time", layout.S5Time, uint16(0x2127)},
		{"int", layout.Int, int16(-32768)},
		{"dword", layout.DWord, uint32(4000000000)},
		{"dint", layout.DInt, int32(-123456)},
		{"real", layout.Real, float32(-0.25)},
		{"time", layout.Time, -1500 * time.Millisecond},
		{"tod", layout.TimeOfDay, 13*time.Hour + 5*time.Minute},
		{"date", layout.Date, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)},
		{"date and time", layout.DateAndTime, dt},
		{"date and time 1990s", layout.DateAndTime, time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"zero date and time", layout.DateAndTime, time.Time{}},
		{"string", mustString(t, 8), "motor"},
		{"empty string", mustString(t, 8), ""},
		{"any", layout.Any, []byte{0x10, 0x02, 0, 1, 0, 0, 0x84, 0, 0, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Encode(tc.dt, tc.in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(tc.dt, data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if want, ok := tc.in.(time.Time); ok {
				if !got.(time.Time).Equal(want) {
					t.Errorf("got %v, want %v", got, want)
				}
				return
			}
			if !reflect.DeepEqual(got, tc.in) {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tc.in, tc.in)
			}
		})
	}
}

func TestDateAndTimeBCD(t *testing.T) {
	// Thursday 2024-02-29 13:45:07.123
	in := time.Date(2024, 2, 29, 13, 45, 7, 123*int(time.Millisecond), time.UTC)
	got, err := Encode(layout.DateAndTime, in)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x24, 0x02, 0x29, 0x13, 0x45, 0x07, 0x12, 0x35}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}

	invalid := []struct {
		name string
		data []byte
	}{
		{"bad BCD", []byte{0x24, 0x1a, 0x29, 0x13, 0x45, 0x07, 0x12, 0x35}},
		{"month 13", []byte{0x24, 0x13, 0x01, 0x13, 0x45, 0x07, 0x12, 0x35}},
		{"month 0", []byte{0x24, 0x00, 0x01, 0x13, 0x45, 0x07, 0x12, 0x35}},
		{"day 0", []byte{0x24, 0x02, 0x00, 0x13, 0x45, 0x07, 0x12, 0x35}},
		{"Feb 30", []byte{0x24, 0x02, 0x30, 0x13, 0x45, 0x07, 0x12, 0x35}},
		{"Feb 29 2023", []byte{0x23, 0x02, 0x29, 0x13, 0x45, 0x07, 0x12, 0x35}},
		{"hour 24", []byte{0x24, 0x02, 0x29, 0x24, 0x45, 0x07, 0x12, 0x35}},
		{"minute 60", []byte{0x24, 0x02, 0x29, 0x13, 0x60, 0x07, 0x12, 0x35}},
		{"second 60", []byte{0x24, 0x02, 0x29, 0x13, 0x45, 0x60, 0x12, 0x35}},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(layout.DateAndTime, tc.data); !isKind(err, plcerrors.KindInvalidInput) {
				t.Errorf("got %v, want invalid_input", err)
			}
		})
	}
}

func TestArrayCodec(t *testing.T) {
	ints, err := layout.Array(layout.Int, layout.Dim(1, 3))
	if err != nil {
		t.Fatal(err)
	}
	data, err := Encode(ints, []any{int64(1), int64(-1)})
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0, 1, 0xff, 0xff, 0, 0}; !bytes.Equal(data, want) {
		t.Errorf("got % x, want % x", data, want)
	}
	v, err := Decode(ints, data)
	if err != nil {
		t.Fatal(err)
	}
	if want := []any{int16(1), int16(-1), int16(0)}; !reflect.DeepEqual(v, want) {
		t.Errorf("got %v, want %v", v, want)
	}

	bools, err := layout.Array(layout.Bool, layout.Dim(0, 8))
	if err != nil {
		t.Fatal(err)
	}
	data, err = Encode(bools, []any{true, false, true, false, false, false, false, false, true})
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x05, 0x01}; !bytes.Equal(data, want) {
		t.Errorf("bools: got % x, want % x", data, want)
	}

	if _, err := Encode(ints, []any{1, 2, 3, 4}); !isKind(err, plcerrors.KindOutOfRange) {
		t.Errorf("too many elements: got %v", err)
	}
	if _, err := Encode(ints, "x"); !isKind(err, plcerrors.KindInvalidInput) {
		t.Errorf("wrong value: got %v", err)
	}
}

func TestDecodeLength(t *testing.T) {
	if _, err := Decode(layout.DInt, []byte{1, 2}); !isKind(err, plcerrors.KindInvalidInput) {
		t.Errorf("got %v, want invalid_input", err)
	}
}
