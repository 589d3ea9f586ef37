package loader

import (
	"go.uber.org/zap"

	"github.com/wippyai/plcmem/decl"
	"github.com/wippyai/plcmem/errors"
	"github.com/wippyai/plcmem/instance"
	"github.com/wippyai/plcmem/layout"
)

type state int

const (
	unvisited state = iota
	visiting
	done
)

type entry struct {
	decl   *decl.Decl
	layout *layout.Struct
	state  state
	block  bool
}

// Registry holds declared types and data blocks and their layouts.
type Registry struct {
	types  map[string]*entry
	blocks map[string]*entry
	// typeOrder and blockOrder keep declaration order
	typeOrder  []string
	blockOrder []string
	// stack is the chain of layouts being built, for cycle reports
	stack []string
}

var _ layout.UDTResolver = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		types:  make(map[string]*entry),
		blocks: make(map[string]*entry),
	}
}

func (r *Registry) declared(name string) bool {
	_, isType := r.types[name]
	_, isBlock := r.blocks[name]
	return isType || isBlock
}

func (r *Registry) checkDecl(d *decl.Decl) error {
	if d == nil || d.Name == "" {
		return errors.InvalidInput(errors.PhaseLoad, "declaration without a name")
	}
	if r.declared(d.Name) {
		return errors.New(errors.PhaseLoad, errors.KindDuplicateField).
			Type(d.Name).
			Detail("%q is already declared", d.Name).
			Build()
	}
	return nil
}

// DeclareType registers a TYPE declaration. Its layout is built by Resolve.
func (r *Registry) DeclareType(d *decl.Decl) error {
	if err := r.checkDecl(d); err != nil {
		return err
	}
	r.types[d.Name] = &entry{decl: d}
	r.typeOrder = append(r.typeOrder, d.Name)
	return nil
}

// DeclareBlock registers a DATA_BLOCK declaration.
func (r *Registry) DeclareBlock(d *decl.Decl) error {
	if err := r.checkDecl(d); err != nil {
		return err
	}
	r.blocks[d.Name] = &entry{decl: d, block: true}
	r.blockOrder = append(r.blockOrder, d.Name)
	return nil
}

// Declare registers every type and block of a parsed file.
func (r *Registry) Declare(f *decl.File) error {
	for _, d := range f.Types {
		if err := r.DeclareType(d); err != nil {
			return err
		}
	}
	for _, d := range f.Blocks {
		if err := r.DeclareBlock(d); err != nil {
			return err
		}
	}
	return nil
}

// Resolve builds the layout of every declared type and block.
func (r *Registry) Resolve() error {
	for _, name := range r.typeOrder {
		if _, err := r.build(r.types[name]); err != nil {
			return err
		}
	}
	for _, name := range r.blockOrder {
		if _, err := r.build(r.blocks[name]); err != nil {
			return err
		}
	}
	return nil
}

// UDT returns the layout of a declared type, building it if needed.
func (r *Registry) UDT(name string) (*layout.Struct, error) {
	e, ok := r.types[name]
	if !ok {
		return nil, errors.UnknownType(errors.PhaseLoad, name)
	}
	return r.build(e)
}

// Block returns the layout of a declared data block.
func (r *Registry) Block(name string) (*layout.Struct, error) {
	e, ok := r.blocks[name]
	if !ok {
		return nil, errors.New(errors.PhaseLoad, errors.KindUnknownType).
			Type(name).
			Detail("no data block %q", name).
			Build()
	}
	return r.build(e)
}

// Types returns the declared type names in declaration order.
func (r *Registry) Types() []string {
	return append([]string(nil), r.typeOrder...)
}

// Blocks returns the declared data block names in declaration order.
func (r *Registry) Blocks() []string {
	return append([]string(nil), r.blockOrder...)
}

// NewInstance allocates storage for a data block, named after it.
func (r *Registry) NewInstance(block string, opts ...instance.Option) (*instance.Instance, error) {
	s, err := r.Block(block)
	if err != nil {
		return nil, err
	}
	return instance.New(s, append([]instance.Option{instance.WithName(block)}, opts...)...)
}

func (r *Registry) build(e *entry) (*layout.Struct, error) {
	switch e.state {
	case done:
		return e.layout, nil
	case visiting:
		chain := append(append([]string(nil), r.stack...), e.decl.Name)
		return nil, errors.Cycle(errors.PhaseLoad, chain)
	}

	e.state = visiting
	r.stack = append(r.stack, e.decl.Name)
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
	}()

	s, err := r.buildLayout(e)
	if err != nil {
		e.state = unvisited
		return nil, err
	}

	e.layout = s
	e.state = done

	msg := "UDT resolved"
	if e.block {
		msg = "data block resolved"
	}
	Logger().Debug(msg,
		zap.String("name", e.decl.Name),
		zap.Int("fields", s.Len()),
		zap.Uint32("size", s.Size()),
		zap.String("fingerprint", layout.Fingerprint(s)))

	return s, nil
}

func (r *Registry) buildLayout(e *entry) (*layout.Struct, error) {
	d := e.decl
	if d.UDT != "" {
		return r.UDT(d.UDT)
	}

	b := layout.NewNamedBuilder(d.Name, r)
	if err := r.addMembers(b, d.Members); err != nil {
		return nil, err
	}
	return b.Finish(), nil
}

func (r *Registry) addMembers(b *layout.Builder, members []*decl.Member) error {
	for _, m := range members {
		if err := r.addMember(b, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) addMember(b *layout.Builder, m *decl.Member) error {
	dt, err := r.dataType(m.Type)
	if err != nil {
		return errors.WithPath(err, m.Name)
	}

	var init []byte
	if m.Init != nil {
		if compound(dt) {
			return errors.New(errors.PhaseLoad, errors.KindInitMismatch).
				Path(m.Name).
				Type(dt.String()).
				Detail("%s cannot be initialized as a whole, initialize its members", dt).
				Build()
		}
		init, err = instance.Encode(dt, m.Init)
		if err != nil {
			return errors.WithPath(err, m.Name)
		}
	}

	// builder errors carry the member path already
	_, err = b.AddFieldNaturallyAligned(m.Name, dt, init)
	return err
}

// compound reports whether dt holds structured members rather than a
// primitive value or array of primitives.
func compound(dt *layout.DataType) bool {
	if dt.Kind() == layout.KindArray {
		return dt.Elem().IsCompound()
	}
	return dt.IsCompound()
}

func (r *Registry) dataType(t *decl.TypeRef) (*layout.DataType, error) {
	switch {
	case t.UDT != "":
		return layout.UDT(t.UDT, nil), nil
	case t.IsArray():
		elem, err := r.dataType(t.Elem)
		if err != nil {
			return nil, err
		}
		return layout.Array(elem, t.Dims...)
	case t.Name != "":
		return layout.Resolve(t.Name)
	default:
		sub := layout.NewBuilder(r)
		if err := r.addMembers(sub, t.Members); err != nil {
			return nil, err
		}
		return layout.StructOf(sub.Finish()), nil
	}
}
