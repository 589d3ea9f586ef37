package instance

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	plcmem "github.com/wippyai/plcmem"
	"github.com/wippyai/plcmem/errors"
	"github.com/wippyai/plcmem/layout"
	"github.com/wippyai/plcmem/memory"
)

// Instance is the storage of one struct, typically a data block.
type Instance struct {
	layout *layout.Struct
	mem    plcmem.Memory
	name   string
	id     uuid.UUID
}

// New allocates storage for s and writes every field's initial value.
func New(s *layout.Struct, opts ...Option) (*Instance, error) {
	if s == nil {
		return nil, errors.InvalidInput(errors.PhaseInstance, "nil struct")
	}

	cfg := config{name: s.Name()}
	for _, opt := range opts {
		opt(&cfg)
	}

	mem := cfg.mem
	if mem == nil {
		mem = memory.NewBuffer(s.Size())
	} else if mem.Size() < s.Size() {
		return nil, errors.New(errors.PhaseInstance, errors.KindOutOfRange).
			Type(s.Name()).
			Value(mem.Size()).
			Detail("memory holds %d bytes, struct needs %d", mem.Size(), s.Size()).
			Build()
	}

	inst := &Instance{
		layout: s,
		mem:    mem,
		name:   cfg.name,
		id:     uuid.New(),
	}

	if err := inst.initialize(); err != nil {
		return nil, err
	}

	Logger().Debug("instance created",
		zap.String("name", inst.name),
		zap.Stringer("id", inst.id),
		zap.Uint32("size", s.Size()),
		zap.String("memory", fmt.Sprintf("%T", mem)))

	return inst, nil
}

func (inst *Instance) initialize() error {
	for _, f := range inst.layout.Fields() {
		init := f.Init()
		if init == nil {
			continue
		}
		off := f.FinalOffset()
		end := off.Byte + uint32(f.ByteSize())
		if end > inst.mem.Size() {
			return errors.OutOfRange(errors.PhaseInstance, f.Name(), end, inst.mem.Size())
		}
		if err := inst.mem.Store(off.Byte, off.Bit, accessBits(f), init); err != nil {
			return errors.WithPath(err, errors.SplitPath(f.Name())...)
		}
	}
	return nil
}

// ID returns the unique id of this storage area.
func (inst *Instance) ID() uuid.UUID { return inst.id }

func (inst *Instance) Name() string          { return inst.name }
func (inst *Instance) Struct() *layout.Struct { return inst.layout }
func (inst *Instance) Memory() plcmem.Memory  { return inst.mem }

// Bytes returns a copy of the instance storage.
func (inst *Instance) Bytes() []byte {
	data, err := inst.mem.Fetch(0, 0, int(inst.layout.Size())*8)
	if err != nil {
		return nil
	}
	return data
}

// accessBits returns the memory access width of a field: one bit for
// single-bit types, whole bytes otherwise.
func accessBits(f *layout.Field) int {
	if f.BitSize() == 1 {
		return 1
	}
	return f.ByteSize() * 8
}

func (inst *Instance) locate(f *layout.Field, base layout.Offset) (layout.Offset, error) {
	if f == nil {
		return layout.Offset{}, errors.InvalidInput(errors.PhaseInstance, "nil field")
	}
	if f.BitSize() < 0 {
		return layout.Offset{}, errors.UndefinedWidth(errors.PhaseInstance, f.Name(), f.DataType().String())
	}
	off := base.Add(f.FinalOffset())
	end := uint64(off.Byte) + uint64(f.ByteSize())
	if end > uint64(inst.mem.Size()) {
		return layout.Offset{}, errors.OutOfRange(errors.PhaseInstance, f.Name(), uint32(end), inst.mem.Size())
	}
	return off, nil
}

// GetFieldData reads the raw bytes of f.
func (inst *Instance) GetFieldData(f *layout.Field) ([]byte, error) {
	return inst.GetFieldDataAt(f, layout.Offset{})
}

// GetFieldDataAt reads the raw bytes of f relative to base.
func (inst *Instance) GetFieldDataAt(f *layout.Field, base layout.Offset) ([]byte, error) {
	off, err := inst.locate(f, base)
	if err != nil {
		return nil, err
	}
	data, err := inst.mem.Fetch(off.Byte, off.Bit, accessBits(f))
	if err != nil {
		return nil, errors.WithPath(err, errors.SplitPath(f.Name())...)
	}
	return data, nil
}

// SetFieldData writes the raw bytes of f. data must be exactly f.ByteSize()
// bytes long.
func (inst *Instance) SetFieldData(f *layout.Field, data []byte) error {
	return inst.SetFieldDataAt(f, data, layout.Offset{})
}

// SetFieldDataAt writes the raw bytes of f relative to base.
func (inst *Instance) SetFieldDataAt(f *layout.Field, data []byte, base layout.Offset) error {
	off, err := inst.locate(f, base)
	if err != nil {
		return err
	}
	if len(data) != f.ByteSize() {
		return errors.New(errors.PhaseInstance, errors.KindInvalidInput).
			Path(errors.SplitPath(f.Name())...).
			Type(f.DataType().String()).
			Value(len(data)).
			Detail("got %d bytes, field needs %d", len(data), f.ByteSize()).
			Build()
	}
	if err := inst.mem.Store(off.Byte, off.Bit, accessBits(f), data); err != nil {
		return errors.WithPath(err, errors.SplitPath(f.Name())...)
	}
	return nil
}

func (inst *Instance) field(name string) (*layout.Field, error) {
	f, err := inst.layout.Field(name)
	if err != nil {
		return nil, errors.FieldNotFound(errors.PhaseInstance, name)
	}
	return f, nil
}

// GetFieldDataByName reads the raw bytes of the named field.
func (inst *Instance) GetFieldDataByName(name string) ([]byte, error) {
	f, err := inst.field(name)
	if err != nil {
		return nil, err
	}
	return inst.GetFieldData(f)
}

// SetFieldDataByName writes the raw bytes of the named field.
func (inst *Instance) SetFieldDataByName(name string, data []byte) error {
	f, err := inst.field(name)
	if err != nil {
		return err
	}
	return inst.SetFieldData(f, data)
}

// Value reads f and decodes it to its Go representation.
func (inst *Instance) Value(f *layout.Field) (any, error) {
	return inst.ValueAt(f, layout.Offset{})
}

// ValueAt reads f relative to base and decodes it.
func (inst *Instance) ValueAt(f *layout.Field, base layout.Offset) (any, error) {
	data, err := inst.GetFieldDataAt(f, base)
	if err != nil {
		return nil, err
	}
	v, err := Decode(f.DataType(), data)
	if err != nil {
		return nil, errors.WithPath(err, errors.SplitPath(f.Name())...)
	}
	return v, nil
}

// SetValue encodes v for the type of f and writes it.
func (inst *Instance) SetValue(f *layout.Field, v any) error {
	return inst.SetValueAt(f, v, layout.Offset{})
}

// SetValueAt encodes v and writes it to f relative to base.
func (inst *Instance) SetValueAt(f *layout.Field, v any, base layout.Offset) error {
	if f == nil {
		return errors.InvalidInput(errors.PhaseInstance, "nil field")
	}
	data, err := Encode(f.DataType(), v)
	if err != nil {
		return errors.WithPath(err, errors.SplitPath(f.Name())...)
	}
	return inst.SetFieldDataAt(f, data, base)
}

// ValueByName reads and decodes the named field.
func (inst *Instance) ValueByName(name string) (any, error) {
	f, err := inst.field(name)
	if err != nil {
		return nil, err
	}
	return inst.Value(f)
}

// SetValueByName encodes v and writes the named field.
func (inst *Instance) SetValueByName(name string, v any) error {
	f, err := inst.field(name)
	if err != nil {
		return err
	}
	return inst.SetValue(f, v)
}

func (inst *Instance) String() string {
	return fmt.Sprintf("%s (%d bytes, %s)", inst.name, inst.layout.Size(), inst.id)
}
