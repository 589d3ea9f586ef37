package layout

import "github.com/wippyai/plcmem/errors"

// FieldID indexes a field in the arena of the struct that owns it.
type FieldID int

// NoField marks the absence of an override.
const NoField FieldID = -1

// Field is one named, positioned slot of a Struct.
//
// A field with an override is a descriptor: it names a compound region but
// its storage is the final field of the override chain.
type Field struct {
	arena    *arena
	dataType *DataType
	init     []byte
	name     string
	offset   Offset
	id       FieldID
	override FieldID
}

func (f *Field) ID() FieldID         { return f.id }
func (f *Field) Name() string        { return f.name }
func (f *Field) Offset() Offset      { return f.offset }
func (f *Field) DataType() *DataType { return f.dataType }

// Init returns a copy of the initial value bytes, or nil.
func (f *Field) Init() []byte {
	if f.init == nil {
		return nil
	}
	return append([]byte(nil), f.init...)
}

// BitSize returns the width of the field's type in bits.
func (f *Field) BitSize() int {
	return f.dataType.Width()
}

// ByteSize returns BitSize rounded up to whole bytes.
func (f *Field) ByteSize() int {
	return bytesForBits(f.BitSize())
}

func (f *Field) IsCompound() bool {
	return f.dataType.IsCompound()
}

// IsDescriptor reports whether the field aliases another field's storage.
func (f *Field) IsDescriptor() bool {
	return f.override != NoField
}

// Override returns the field this descriptor points to, or nil.
func (f *Field) Override() *Field {
	if f.override == NoField {
		return nil
	}
	return f.arena.get(f.override)
}

// FinalOverride walks the override chain to the field that holds the storage.
// Override targets always precede their descriptor in the arena, so the walk
// is bounded by the arena length.
func (f *Field) FinalOverride() *Field {
	cur := f
	for steps := 0; cur.override != NoField && steps < len(f.arena.fields); steps++ {
		cur = f.arena.get(cur.override)
	}
	return cur
}

// FinalOffset returns the offset of the final override.
func (f *Field) FinalOffset() Offset {
	return f.FinalOverride().offset
}

// arena owns every field of a struct, including private override targets
// that are not part of the ordered field list.
type arena struct {
	fields []*Field
}

func (a *arena) get(id FieldID) *Field {
	return a.fields[id]
}

// add stores a new field. The override must already be in the arena, which
// keeps every chain acyclic.
func (a *arena) add(name string, offset Offset, dt *DataType, init []byte, override FieldID) (*Field, error) {
	id := FieldID(len(a.fields))
	if override != NoField && (override < 0 || override >= id) {
		return nil, errors.New(errors.PhaseLayout, errors.KindCycle).
			Path(errors.SplitPath(name)...).
			Value(override).
			Detail("override %d does not precede field %d", override, id).
			Build()
	}

	f := &Field{
		arena:    a,
		dataType: dt,
		name:     name,
		offset:   offset,
		id:       id,
		override: override,
	}

	if init != nil {
		if len(init) != f.ByteSize() {
			return nil, errors.New(errors.PhaseLayout, errors.KindInitMismatch).
				Path(errors.SplitPath(name)...).
				Type(dt.String()).
				Value(len(init)).
				Detail("init data has %d bytes, field needs %d", len(init), f.ByteSize()).
				Build()
		}
		f.init = append([]byte(nil), init...)
	}

	a.fields = append(a.fields, f)
	return f, nil
}
