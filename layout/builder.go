package layout

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/plcmem/errors"
)

// UDTResolver supplies the backing struct of a user-defined type by name.
type UDTResolver interface {
	UDT(name string) (*Struct, error)
}

// Builder constructs a Struct by appending fields. Fields are never moved
// once added. A Builder whose method returned an error must be discarded.
type Builder struct {
	arena    *arena
	resolver UDTResolver
	index    map[string]FieldID
	result   *Struct
	name     string
	order    []FieldID
}

// NewBuilder returns an empty builder. resolver may be nil when no unbound
// UDT fields are added.
func NewBuilder(resolver UDTResolver) *Builder {
	return NewNamedBuilder("", resolver)
}

// NewNamedBuilder returns an empty builder for the type or block called name.
// The name is used to reject UDT fields that reference the struct itself.
func NewNamedBuilder(name string, resolver UDTResolver) *Builder {
	return &Builder{
		arena:    &arena{},
		resolver: resolver,
		index:    make(map[string]FieldID),
		name:     name,
	}
}

func (b *Builder) check() error {
	if b.result != nil {
		return errors.Finished(errors.PhaseLayout)
	}
	return nil
}

// UnalignedSize returns the end of the last field in bytes, without padding.
func (b *Builder) UnalignedSize() uint32 {
	return unalignedSize(b.arena, b.order)
}

func unalignedSize(a *arena, order []FieldID) uint32 {
	if len(order) == 0 {
		return 0
	}
	last := a.get(order[len(order)-1]).FinalOverride()
	if last.BitSize() <= 0 {
		return last.offset.Byte
	}
	return last.offset.Byte + uint32(last.ByteSize())
}

func (b *Builder) register(name string, offset Offset, dt *DataType, init []byte, override FieldID) (*Field, error) {
	if name != "" {
		if _, exists := b.index[name]; exists {
			return nil, errors.DuplicateField(errors.PhaseLayout, name)
		}
	}
	f, err := b.arena.add(name, offset, dt, init, override)
	if err != nil {
		return nil, err
	}
	b.order = append(b.order, f.id)
	if name != "" {
		b.index[name] = f.id
	}
	return f, nil
}

// placeholder adds a private zero-width field for a descriptor to point to.
func (b *Builder) placeholder(name string, offset Offset) (FieldID, error) {
	f, err := b.arena.add(name, offset, Void, nil, NoField)
	if err != nil {
		return NoField, err
	}
	return f.id, nil
}

// AddDummyField appends a zero-width VOID field at the current end.
// It marks a position, typically the end of a merged substructure.
func (b *Builder) AddDummyField(name string) (*Field, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	return b.register(name, Offset{Byte: b.UnalignedSize()}, Void, nil, NoField)
}

// Merge appends the fields of other at the current end.
//
// A descriptor field called name, typed dt, is placed first. Child fields are
// registered as name + "." + child, shifted by the merge base. A guard field
// closes the region. An empty name splices the fields without descriptor or
// guard and returns nil.
func (b *Builder) Merge(other *Struct, name string, dt *DataType) (*Field, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if other == nil {
		return nil, errors.InvalidInput(errors.PhaseLayout, "merge of nil struct")
	}
	if dt == nil {
		dt = Void
	}

	base := Offset{Byte: b.UnalignedSize()}

	var desc *Field
	if name != "" {
		void, err := b.placeholder(name, base)
		if err != nil {
			return nil, err
		}
		desc, err = b.register(name, base, dt, nil, void)
		if err != nil {
			return nil, err
		}
	}

	for _, child := range other.Fields() {
		childName := child.name
		if name != "" && childName != "" {
			childName = name + "." + childName
		}

		override := NoField
		if child.override != NoField {
			var err error
			override, err = b.copyChain(child.arena.get(child.override), childName, base)
			if err != nil {
				return nil, err
			}
		}

		if _, err := b.register(childName, base.Add(child.offset), child.dataType, child.init, override); err != nil {
			return nil, err
		}
	}

	// guard at the padded end of other, matching the descriptor width
	if name != "" {
		end := Offset{Byte: base.Byte + other.Size()}
		if _, err := b.register("", end, Void, nil, NoField); err != nil {
			return nil, err
		}
	}

	return desc, nil
}

// copyChain copies an override chain from another arena, shifted by base.
func (b *Builder) copyChain(f *Field, name string, base Offset) (FieldID, error) {
	override := NoField
	if f.override != NoField {
		var err error
		override, err = b.copyChain(f.arena.get(f.override), name, base)
		if err != nil {
			return NoField, err
		}
	}
	c, err := b.arena.add(name, base.Add(f.offset), f.dataType, f.init, override)
	if err != nil {
		return NoField, err
	}
	return c.id, nil
}

// AddField appends a field of type dt at the current end.
func (b *Builder) AddField(name string, dt *DataType, init []byte) (*Field, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if dt == nil {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Path(errors.SplitPath(name)...).
			Detail("field has no data type").
			Build()
	}

	switch dt.kind {
	case KindUDT:
		return b.addUDT(name, dt, init)
	case KindStruct:
		return b.addStruct(name, dt, init)
	case KindArray:
		return b.addArray(name, dt, init)
	case KindVoid, KindBool, KindByte, KindChar, KindWord, KindInt, KindDWord,
		KindDInt, KindReal, KindS5Time, KindTime, KindDate, KindTimeOfDay,
		KindDateAndTime, KindString, KindPointer, KindAny, KindBlockDB,
		KindBlockFB, KindBlockFC, KindCounter, KindTimer, KindFB, KindSFB:
		return b.addPrimitive(name, dt, init)
	default:
		return nil, errors.New(errors.PhaseLayout, errors.KindUnsupported).
			Path(errors.SplitPath(name)...).
			Value(dt.kind).
			Detail("unsupported data type kind %d", dt.kind).
			Build()
	}
}

func compoundInit(name string, dt *DataType) error {
	return errors.New(errors.PhaseLayout, errors.KindInitMismatch).
		Path(errors.SplitPath(name)...).
		Type(dt.String()).
		Detail("init data is not accepted for %s fields, initialize the members", dt.kind).
		Build()
}

func (b *Builder) addUDT(name string, dt *DataType, init []byte) (*Field, error) {
	if init != nil {
		return nil, compoundInit(name, dt)
	}
	dt, err := b.bind(name, dt)
	if err != nil {
		return nil, err
	}
	return b.Merge(dt.sub, name, dt)
}

// bind returns dt with its backing struct resolved. Types other than unbound
// UDTs are returned unchanged.
func (b *Builder) bind(name string, dt *DataType) (*DataType, error) {
	if dt.kind != KindUDT || dt.sub != nil {
		return dt, nil
	}
	if b.name != "" && dt.name == b.name {
		return nil, errors.Cycle(errors.PhaseLayout, []string{b.name, dt.name})
	}
	if b.resolver == nil {
		return nil, errors.UnknownType(errors.PhaseLayout, dt.String())
	}
	sub, err := b.resolver.UDT(dt.name)
	if err != nil {
		return nil, errors.WithPath(err, errors.SplitPath(name)...)
	}
	return UDT(dt.name, sub), nil
}

func (b *Builder) addStruct(name string, dt *DataType, init []byte) (*Field, error) {
	if init != nil {
		return nil, compoundInit(name, dt)
	}
	if dt.sub == nil {
		return nil, errors.InvalidInput(errors.PhaseLayout, "STRUCT type without members")
	}
	return b.Merge(dt.sub, name, dt)
}

func (b *Builder) addArray(name string, dt *DataType, init []byte) (*Field, error) {
	elem, err := b.bind(name, dt.elem)
	if err != nil {
		return nil, err
	}
	if elem != dt.elem {
		dt = &DataType{kind: KindArray, elem: elem, dims: dt.dims}
	}
	if elem.Width() < 0 {
		return nil, errors.UndefinedWidth(errors.PhaseLayout, name, elem.String())
	}
	if init != nil {
		if elem.IsCompound() {
			return nil, compoundInit(name, dt)
		}
		if want := bytesForBits(dt.Width()); len(init) != want {
			return nil, errors.New(errors.PhaseLayout, errors.KindInitMismatch).
				Path(errors.SplitPath(name)...).
				Type(dt.String()).
				Value(len(init)).
				Detail("init data has %d bytes, array needs %d", len(init), want).
				Build()
		}
	}

	// compound elements start word aligned, and so does the descriptor
	if elem.IsCompound() {
		if err := b.pad(2); err != nil {
			return nil, err
		}
	}

	base := Offset{Byte: b.UnalignedSize()}
	void, err := b.placeholder(name, base)
	if err != nil {
		return nil, err
	}
	desc, err := b.register(name, base, dt, nil, void)
	if err != nil {
		return nil, err
	}

	idx := newArrayIndex(dt.dims)
	stride := elem.stride()
	for i := 0; i < dt.ElementCount(); i++ {
		elemName := name + idx.String()

		if elem.IsCompound() {
			_, err = b.AddFieldAligned(elemName, elem, 2, nil)
		} else {
			var elemInit []byte
			if init != nil {
				if elem.Width() == 1 {
					elemInit = []byte{(init[i/8] >> (i % 8)) & 1}
				} else {
					elemInit = init[i*stride : (i+1)*stride]
				}
			}
			_, err = b.AddField(elemName, elem, elemInit)
		}
		if err != nil {
			return nil, err
		}
		idx.next()
	}

	if _, err := b.AddDummyField(""); err != nil {
		return nil, err
	}
	return desc, nil
}

func (b *Builder) addPrimitive(name string, dt *DataType, init []byte) (*Field, error) {
	if dt.Width() < 0 {
		return nil, errors.UndefinedWidth(errors.PhaseLayout, name, dt.String())
	}

	var offset Offset
	prev := b.last()
	if dt.Width() == 1 && prev != nil && prev.BitSize() == 1 && prev.offset.Bit < 7 {
		offset = Offset{Byte: prev.offset.Byte, Bit: prev.offset.Bit + 1}
	} else {
		offset = Offset{Byte: b.UnalignedSize()}
	}

	return b.register(name, offset, dt, init, NoField)
}

func (b *Builder) last() *Field {
	if len(b.order) == 0 {
		return nil
	}
	return b.arena.get(b.order[len(b.order)-1])
}

// AddFieldAligned pads with unnamed BYTE fields until the current end is a
// multiple of byteAlignment, then adds the field.
func (b *Builder) AddFieldAligned(name string, dt *DataType, byteAlignment uint32, init []byte) (*Field, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if err := b.pad(byteAlignment); err != nil {
		return nil, err
	}
	return b.AddField(name, dt, init)
}

// pad appends unnamed BYTE fillers until the current end is a multiple of
// byteAlignment.
func (b *Builder) pad(byteAlignment uint32) error {
	for byteAlignment > 1 && b.UnalignedSize()%byteAlignment != 0 {
		if _, err := b.AddField("", Byte, nil); err != nil {
			return err
		}
	}
	return nil
}

// AddFieldNaturallyAligned adds the field at the alignment its type requires.
func (b *Builder) AddFieldNaturallyAligned(name string, dt *DataType, init []byte) (*Field, error) {
	if dt == nil {
		return b.AddField(name, dt, init)
	}
	return b.AddFieldAligned(name, dt, dt.NaturalAlignment().Bytes(), init)
}

// Finish freezes the builder and returns the struct. Calling Finish again
// returns the same struct; every other method fails afterwards.
func (b *Builder) Finish() *Struct {
	if b.result != nil {
		return b.result
	}

	unaligned := b.UnalignedSize()
	b.result = &Struct{
		arena:     b.arena,
		index:     b.index,
		name:      b.name,
		order:     b.order,
		unaligned: unaligned,
		size:      alignTo(unaligned, 2),
	}

	Logger().Debug("struct finished",
		zap.String("name", b.name),
		zap.Int("fields", len(b.order)),
		zap.Uint32("size", b.result.size))

	return b.result
}

// arrayIndex enumerates multi-dimensional indices in row-major order.
type arrayIndex struct {
	dims []Dimension
	cur  []int
}

func newArrayIndex(dims []Dimension) *arrayIndex {
	cur := make([]int, len(dims))
	for i, d := range dims {
		cur[i] = d.Lo
	}
	return &arrayIndex{dims: dims, cur: cur}
}

// next advances the last index first, carrying into earlier dimensions.
func (x *arrayIndex) next() {
	for i := len(x.cur) - 1; i >= 0; i-- {
		if x.cur[i] < x.dims[i].Hi {
			x.cur[i]++
			return
		}
		x.cur[i] = x.dims[i].Lo
	}
}

func (x *arrayIndex) String() string {
	parts := make([]string, len(x.cur))
	for i, v := range x.cur {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
