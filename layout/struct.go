package layout

import "github.com/wippyai/plcmem/errors"

// Struct is an immutable, ordered set of positioned fields.
// It is safe for concurrent use.
type Struct struct {
	arena     *arena
	index     map[string]FieldID
	name      string
	order     []FieldID
	unaligned uint32
	size      uint32
}

// Name returns the type or block name given to the builder.
func (s *Struct) Name() string { return s.name }

// Len returns the number of registered fields.
func (s *Struct) Len() int { return len(s.order) }

// Size returns the struct size in bytes, always even.
func (s *Struct) Size() uint32 { return s.size }

// UnalignedSize returns the end of the last field without trailing padding.
func (s *Struct) UnalignedSize() uint32 { return s.unaligned }

// Fields returns the registered fields in declaration order.
func (s *Struct) Fields() []*Field {
	out := make([]*Field, len(s.order))
	for i, id := range s.order {
		out[i] = s.arena.get(id)
	}
	return out
}

// Field returns the field registered under name.
func (s *Struct) Field(name string) (*Field, error) {
	id, ok := s.index[name]
	if !ok {
		return nil, errors.FieldNotFound(errors.PhaseLayout, name)
	}
	return s.arena.get(id), nil
}

// Lookup returns any field of the struct's arena by id, including private
// override targets.
func (s *Struct) Lookup(id FieldID) (*Field, bool) {
	if id < 0 || int(id) >= len(s.arena.fields) {
		return nil, false
	}
	return s.arena.get(id), true
}
