package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // declaration source parsing
	PhaseLoad     Phase = "load"     // type registration and resolution
	PhaseLayout   Phase = "layout"   // struct construction
	PhaseInstance Phase = "instance" // instance initialization and field access
	PhaseMemory   Phase = "memory"   // backing memory access
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownType    Kind = "unknown_type"
	KindUndefinedWidth Kind = "undefined_width"
	KindFieldNotFound  Kind = "field_not_found"
	KindInitMismatch   Kind = "init_mismatch"
	KindOutOfRange     Kind = "out_of_range"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindCycle          Kind = "cycle"
	KindDuplicateField Kind = "duplicate_field"
	KindFinished       Kind = "finished"
	KindInvalidInput   Kind = "invalid_input"
	KindUnsupported    Kind = "unsupported"
	KindSyntax         Kind = "syntax"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the declared data type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// SplitPath splits a dotted field name into path segments.
func SplitPath(name string) []string {
	if name == "" {
		return nil
	}
	return strings.Split(name, ".")
}

// Convenience constructors for common error patterns

// UnknownType creates an error for a type name that cannot be resolved
func UnknownType(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownType,
		Type:   name,
		Detail: fmt.Sprintf("unknown data type %q", name),
	}
}

// UndefinedWidth creates an error for a field whose type has no defined width
func UndefinedWidth(phase Phase, field, typeName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUndefinedWidth,
		Path:   SplitPath(field),
		Type:   typeName,
		Detail: fmt.Sprintf("width of data structure field %q is undefined", field),
	}
}

// FieldNotFound creates a missing field error
func FieldNotFound(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldNotFound,
		Path:   SplitPath(name),
		Detail: fmt.Sprintf("data structure field %q not found", name),
	}
}

// InitMismatch creates an error for init bytes that do not match the field size
func InitMismatch(phase Phase, field string, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInitMismatch,
		Path:   SplitPath(field),
		Detail: fmt.Sprintf("init data has %d bytes, field needs %d", got, want),
		Value:  got,
	}
}

// OutOfRange creates an error for an access past the end of the backing memory
func OutOfRange(phase Phase, field string, end, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Path:   SplitPath(field),
		Detail: fmt.Sprintf("access ends at byte %d, memory has %d bytes", end, size),
		Value:  end,
	}
}

// OutOfBounds creates an out of bounds memory access error
func OutOfBounds(phase Phase, byteOffset uint32, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("offset %d length %d out of bounds (size %d)", byteOffset, length, size),
		Value:  byteOffset,
	}
}

// Cycle creates an error for a self-referencing type
func Cycle(phase Phase, chain []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCycle,
		Path:   chain,
		Detail: "UDT cannot reference itself",
	}
}

// DuplicateField creates an error for a field name registered twice
func DuplicateField(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateField,
		Path:   SplitPath(name),
		Detail: fmt.Sprintf("field %q already defined", name),
	}
}

// Finished creates an error for use of a builder after Finish
func Finished(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFinished,
		Detail: "struct builder already finished",
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Syntax creates a declaration source syntax error
func Syntax(pos string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindSyntax,
		Detail: pos,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithPath returns a copy of err with prefix prepended to its path.
// Non-structured errors are returned unchanged.
func WithPath(err error, prefix ...string) error {
	e, ok := err.(*Error)
	if !ok || len(prefix) == 0 {
		return err
	}
	cp := *e
	cp.Path = append(append([]string(nil), prefix...), e.Path...)
	return &cp
}
