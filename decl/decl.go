package decl

import (
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/wippyai/plcmem/errors"
	"github.com/wippyai/plcmem/layout"
)

// File is a parsed declaration source.
type File struct {
	Types  []*Decl
	Blocks []*Decl
}

// Decl is one TYPE or DATA_BLOCK declaration.
type Decl struct {
	Name string
	// UDT is set for a data block declared as an instance of a type.
	UDT     string
	Members []*Member
	Pos     string
}

// Member is one STRUCT member.
type Member struct {
	Name string
	Type *TypeRef
	// Init is the literal initial value: bool, int64, float64, string,
	// []any or nil.
	Init any
	Pos  string
}

// TypeRef is an unresolved member type. Exactly one of Name, UDT, Elem
// (with Dims) or Members describes it.
type TypeRef struct {
	// Name is a primitive type name in layout.Resolve syntax.
	Name    string
	UDT     string
	Dims    []layout.Dimension
	Elem    *TypeRef
	Members []*Member
}

// IsArray reports whether the reference declares an ARRAY.
func (t *TypeRef) IsArray() bool { return t.Elem != nil }

// IsStruct reports whether the reference declares an inline STRUCT.
func (t *TypeRef) IsStruct() bool {
	return t.Name == "" && t.UDT == "" && t.Elem == nil
}

func (t *TypeRef) String() string {
	switch {
	case t.UDT != "":
		return strconv.Quote(t.UDT)
	case t.Elem != nil:
		dims := make([]string, len(t.Dims))
		for i, d := range t.Dims {
			dims[i] = d.String()
		}
		return fmt.Sprintf("ARRAY [%s] OF %s", strings.Join(dims, ", "), t.Elem)
	case t.Name != "":
		return t.Name
	default:
		return "STRUCT"
	}
}

// ParseFile reads and parses the declaration file at path.
func ParseFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "read "+path)
	}
	return Parse(path, string(src))
}

// Parse parses declaration source. filename is used in positions only.
func Parse(filename, src string) (*File, error) {
	ast, err := declParser.ParseString(filename, src)
	if err != nil {
		return nil, syntaxError(err)
	}

	out := &File{}
	for _, u := range ast.Units {
		switch {
		case u.Type != nil:
			d, err := convertType(u.Type)
			if err != nil {
				return nil, err
			}
			out.Types = append(out.Types, d)
		case u.Block != nil:
			d, err := convertBlock(u.Block)
			if err != nil {
				return nil, err
			}
			out.Blocks = append(out.Blocks, d)
		}
	}
	return out, nil
}

func syntaxError(err error) error {
	var perr participle.Error
	if stderrors.As(err, &perr) {
		return errors.Syntax(position(perr.Position()), stderrors.New(perr.Message()))
	}
	return errors.Syntax("", err)
}

func position(pos lexer.Position) string {
	if pos.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Column)
	}
	return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
}

func convertType(t *typeAST) (*Decl, error) {
	members, err := convertMembers(t.Body.Members)
	if err != nil {
		return nil, err
	}
	return &Decl{Name: t.Name, Members: members, Pos: position(t.Pos)}, nil
}

func convertBlock(b *blockAST) (*Decl, error) {
	d := &Decl{Name: b.Name, Pos: position(b.Pos)}
	if b.Body.UDT != nil {
		d.UDT = *b.Body.UDT
		return d, nil
	}
	members, err := convertMembers(b.Body.Struct.Members)
	if err != nil {
		return nil, err
	}
	d.Members = members
	return d, nil
}

func convertMembers(in []*memberAST) ([]*Member, error) {
	out := make([]*Member, 0, len(in))
	for _, m := range in {
		ref, err := convertTypeRef(m.Type)
		if err != nil {
			return nil, err
		}
		member := &Member{Name: m.Name, Type: ref, Pos: position(m.Pos)}
		if m.Init != nil {
			v, err := convertLiteral(m.Init)
			if err != nil {
				return nil, err
			}
			member.Init = v
		}
		out = append(out, member)
	}
	return out, nil
}

func convertTypeRef(t *typeRefAST) (*TypeRef, error) {
	switch {
	case t.Array != nil:
		elem, err := convertTypeRef(t.Array.Elem)
		if err != nil {
			return nil, err
		}
		dims := make([]layout.Dimension, len(t.Array.Dims))
		for i, d := range t.Array.Dims {
			dims[i] = layout.Dim(d.Lo, d.Hi)
		}
		return &TypeRef{Dims: dims, Elem: elem}, nil
	case t.Struct != nil:
		members, err := convertMembers(t.Struct.Members)
		if err != nil {
			return nil, err
		}
		return &TypeRef{Members: members}, nil
	case t.UDT != nil:
		return &TypeRef{UDT: *t.UDT}, nil
	default:
		name := strings.ToUpper(t.Named.Name)
		switch {
		case t.Named.Length != nil:
			name = fmt.Sprintf("%s[%d]", name, *t.Named.Length)
		case t.Named.Number != nil:
			name = fmt.Sprintf("%s %d", name, *t.Named.Number)
		}
		return &TypeRef{Name: name}, nil
	}
}

func convertLiteral(l *literalAST) (any, error) {
	switch {
	case l.Bool != nil:
		return strings.EqualFold(*l.Bool, "TRUE"), nil
	case l.Str != nil:
		return unescape(*l.Str), nil
	case l.Num != nil:
		v, err := parseNumber(l.Num)
		if err != nil {
			return nil, errors.Syntax(position(l.Pos), err)
		}
		return v, nil
	default:
		list := make([]any, len(l.List))
		for i, item := range l.List {
			v, err := convertLiteral(item)
			if err != nil {
				return nil, err
			}
			list[i] = v
		}
		return list, nil
	}
}

func parseNumber(n *numberAST) (any, error) {
	text := n.Value
	if n.Neg {
		text = "-" + text
	}

	if base, digits, ok := strings.Cut(n.Value, "#"); ok {
		b, err := strconv.Atoi(base)
		if err != nil || (b != 2 && b != 8 && b != 10 && b != 16) {
			return nil, fmt.Errorf("unsupported base in %s", text)
		}
		v, err := strconv.ParseInt(strings.ReplaceAll(digits, "_", ""), b, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %s: %w", text, err)
		}
		if n.Neg {
			v = -v
		}
		return v, nil
	}

	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %s: %w", text, err)
		}
		return f, nil
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %s: %w", text, err)
	}
	return v, nil
}

// unescape strips the quotes of a string literal and expands $ escapes.
func unescape(lit string) string {
	s := lit[1 : len(lit)-1]
	if !strings.Contains(s, "$") {
		return s
	}

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 == len(s) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'L', 'l', 'N', 'n':
			sb.WriteByte('\n')
		case 'R', 'r':
			sb.WriteByte('\r')
		case 'T', 't':
			sb.WriteByte('\t')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
