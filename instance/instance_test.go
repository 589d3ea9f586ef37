package instance

import (
	"bytes"
	"errors"
	"testing"

	plcerrors "github.com/wippyai/plcmem/errors"
	"github.com/wippyai/plcmem/layout"
	"github.com/wippyai/plcmem/memory"
)

func mustAdd(t *testing.T, b *layout.Builder, name string, dt *layout.DataType, init []byte) {
	t.Helper()
	if _, err := b.AddFieldNaturallyAligned(name, dt, init); err != nil {
		t.Fatalf("add %q: %v", name, err)
	}
}

func mustNew(t *testing.T, s *layout.Struct, opts ...Option) *Instance {
	t.Helper()
	inst, err := New(s, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return inst
}

func isKind(err error, kind plcerrors.Kind) bool {
	return errors.Is(err, &plcerrors.Error{Phase: plcerrors.PhaseInstance, Kind: kind})
}

// motor lays out:
//
//	0.0 running BOOL, 0.1 fault BOOL, 2.0 speed INT, 4.0 temp REAL,
//	8.0 sub (STRUCT a BYTE, b BYTE)
func motor(t *testing.T) *layout.Struct {
	t.Helper()

	sb := layout.NewBuilder(nil)
	mustAdd(t, sb, "a", layout.Byte, []byte{0x11})
	mustAdd(t, sb, "b", layout.Byte, nil)
	sub := sb.Finish()

	b := layout.NewNamedBuilder("Motor", nil)
	mustAdd(t, b, "running", layout.Bool, []byte{1})
	mustAdd(t, b, "fault", layout.Bool, nil)
	mustAdd(t, b, "speed", layout.Int, []byte{0x05, 0xdc})
	mustAdd(t, b, "temp", layout.Real, nil)
	mustAdd(t, b, "sub", layout.StructOf(sub), nil)
	return b.Finish()
}

func TestNewInitializes(t *testing.T) {
	s := motor(t)
	inst := mustNew(t, s)

	if inst.Name() != "Motor" {
		t.Errorf("name: got %q, want Motor", inst.Name())
	}
	if inst.Struct() != s {
		t.Error("Struct returned a different layout")
	}

	want := []byte{0x01, 0x00, 0x05, 0xdc, 0, 0, 0, 0, 0x11, 0x00}
	if got := inst.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("bytes:\n got % x\nwant % x", got, want)
	}
}

func TestWithName(t *testing.T) {
	inst := mustNew(t, motor(t), WithName("DB7"))
	if inst.Name() != "DB7" {
		t.Errorf("got %q, want DB7", inst.Name())
	}
}

func TestUniqueIDs(t *testing.T) {
	s := motor(t)
	a, b := mustNew(t, s), mustNew(t, s)
	if a.ID() == b.ID() {
		t.Errorf("instances share id %s", a.ID())
	}
}

func TestWithMemory(t *testing.T) {
	s := motor(t)

	buf := memory.NewBuffer(64)
	inst := mustNew(t, s, WithMemory(buf))
	if inst.Memory() != buf {
		t.Error("instance does not use the provided memory")
	}
	if buf.Bytes()[3] != 0xdc {
		t.Errorf("init not written to provided memory: % x", buf.Bytes()[:10])
	}

	_, err := New(s, WithMemory(memory.NewBuffer(4)))
	if !isKind(err, plcerrors.KindOutOfRange) {
		t.Errorf("small memory: got %v, want out_of_range", err)
	}
}

func TestRawFieldAccess(t *testing.T) {
	inst := mustNew(t, motor(t))

	tests := []struct {
		name string
		data []byte
	}{
		{"fault", []byte{1}},
		{"running", []byte{0}},
		{"speed", []byte{0xff, 0x38}},
		{"temp", []byte{0x41, 0x20, 0x00, 0x00}},
		{"sub.b", []byte{0x7f}},
		{"sub", []byte{0x22, 0x33}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := inst.SetFieldDataByName(tc.name, tc.data); err != nil {
				t.Fatal(err)
			}
			got, err := inst.GetFieldDataByName(tc.name)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tc.data) {
				t.Errorf("got % x, want % x", got, tc.data)
			}
		})
	}

	// bits do not disturb their neighbours
	if got := inst.Bytes()[0]; got != 0x02 {
		t.Errorf("bit byte: got %08b, want 00000010", got)
	}
	// the descriptor aliases its members
	if v, _ := inst.GetFieldDataByName("sub.a"); !bytes.Equal(v, []byte{0x22}) {
		t.Errorf("sub.a: got % x, want 22", v)
	}
}

func TestFieldAccessAtBase(t *testing.T) {
	s := motor(t)
	inst := mustNew(t, s, WithMemory(memory.NewBuffer(32)))

	speed, err := s.Field("speed")
	if err != nil {
		t.Fatal(err)
	}
	base := layout.NewOffset(12, 0)
	if err := inst.SetFieldDataAt(speed, []byte{0x12, 0x34}, base); err != nil {
		t.Fatal(err)
	}
	got, err := inst.GetFieldDataAt(speed, base)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x12, 0x34}) {
		t.Errorf("got % x, want 12 34", got)
	}
	if !bytes.Equal(inst.Memory().(*memory.Buffer).Bytes()[14:16], []byte{0x12, 0x34}) {
		t.Error("value not written at base + offset")
	}

	fault, _ := s.Field("fault")
	if err := inst.SetValueAt(fault, true, layout.NewOffset(0, 7)); err != nil {
		t.Fatal(err)
	}
	if inst.Memory().(*memory.Buffer).Bytes()[1] != 0x01 {
		t.Error("bit base did not carry into the next byte")
	}

	if _, err := inst.GetFieldDataAt(speed, layout.NewOffset(31, 0)); !isKind(err, plcerrors.KindOutOfRange) {
		t.Errorf("past end: got %v, want out_of_range", err)
	}
}

func TestFieldAccessErrors(t *testing.T) {
	inst := mustNew(t, motor(t))

	if _, err := inst.GetFieldDataByName("missing"); !isKind(err, plcerrors.KindFieldNotFound) {
		t.Errorf("missing field: got %v", err)
	}
	if err := inst.SetFieldDataByName("speed", []byte{1}); !isKind(err, plcerrors.KindInvalidInput) {
		t.Errorf("short data: got %v", err)
	}
	if err := inst.SetValueByName("speed", "fast"); !isKind(err, plcerrors.KindInvalidInput) {
		t.Errorf("wrong type: got %v", err)
	}
	if err := inst.SetValueByName("speed", 40000); !isKind(err, plcerrors.KindOutOfRange) {
		t.Errorf("overflow: got %v", err)
	}

	var perr *plcerrors.Error
	err := inst.SetValueByName("speed", 40000)
	if !errors.As(err, &perr) || perr.Path == nil || perr.Path[0] != "speed" {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestTypedAccess(t *testing.T) {
	inst := mustNew(t, motor(t))

	v, err := inst.ValueByName("speed")
	if err != nil {
		t.Fatal(err)
	}
	if v != int16(1500) {
		t.Errorf("speed: got %v (%T), want 1500", v, v)
	}

	if err := inst.SetValueByName("temp", 21.5); err != nil {
		t.Fatal(err)
	}
	if v, _ := inst.ValueByName("temp"); v != float32(21.5) {
		t.Errorf("temp: got %v", v)
	}

	if v, _ := inst.ValueByName("running"); v != true {
		t.Errorf("running: got %v, want true", v)
	}
}

func TestArrayInstance(t *testing.T) {
	flags, err := layout.Array(layout.Bool, layout.Dim(0, 9))
	if err != nil {
		t.Fatal(err)
	}
	b := layout.NewBuilder(nil)
	mustAdd(t, b, "flags", flags, []byte{0x05, 0x02})
	inst := mustNew(t, b.Finish())

	for name, want := range map[string]bool{
		"flags[0]": true, "flags[1]": false, "flags[2]": true, "flags[9]": true,
	} {
		v, err := inst.ValueByName(name)
		if err != nil {
			t.Fatal(err)
		}
		if v != want {
			t.Errorf("%s: got %v, want %v", name, v, want)
		}
	}

	if err := inst.SetValueByName("flags[8]", true); err != nil {
		t.Fatal(err)
	}
	v, err := inst.ValueByName("flags")
	if err != nil {
		t.Fatal(err)
	}
	got := v.([]any)
	if len(got) != 10 || got[8] != true || got[3] != false {
		t.Errorf("flags: got %v", got)
	}
}
