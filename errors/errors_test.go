package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseLayout,
				Kind:   KindUndefinedWidth,
				Path:   []string{"DB1", "motor", "inst"},
				Type:   "FB 10",
				Detail: "width undefined",
			},
			contains: []string{"[layout]", "undefined_width", "DB1.motor.inst", "type FB 10", " - width undefined"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseMemory,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[memory]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseParse,
				Kind:   KindSyntax,
				Detail: "3:7",
				Cause:  errors.New("unexpected token"),
			},
			contains: []string{"[parse]", "syntax", ": 3:7", "caused by", "unexpected token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseLoad, KindInvalidInput, cause, "load source")

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause through chain")
	}
}

func TestError_Is(t *testing.T) {
	err := FieldNotFound(PhaseInstance, "motor.speed")

	if !errors.Is(err, &Error{Phase: PhaseInstance, Kind: KindFieldNotFound}) {
		t.Error("Is should match same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseLayout, Kind: KindFieldNotFound}) {
		t.Error("Is should not match different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseInstance, Kind: KindOutOfRange}) {
		t.Error("Is should not match different kind")
	}

	var target *Error
	if !errors.As(err, &target) {
		t.Fatal("errors.As failed")
	}
	if got := strings.Join(target.Path, "/"); got != "motor/speed" {
		t.Errorf("path: got %q, want %q", got, "motor/speed")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseLayout, KindInitMismatch).
		Path("a", "b").
		Type("WORD").
		Value(3).
		Detail("got %d bytes", 3).
		Build()

	if err.Phase != PhaseLayout || err.Kind != KindInitMismatch {
		t.Errorf("phase/kind: got %s/%s", err.Phase, err.Kind)
	}
	if err.Type != "WORD" {
		t.Errorf("type: got %q, want WORD", err.Type)
	}
	if err.Detail != "got 3 bytes" {
		t.Errorf("detail: got %q", err.Detail)
	}
	if err.Value != 3 {
		t.Errorf("value: got %v, want 3", err.Value)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		text string
	}{
		{"unknown type", UnknownType(PhaseLoad, "FOO"), KindUnknownType, `"FOO"`},
		{"undefined width", UndefinedWidth(PhaseLayout, "x", "FB 1"), KindUndefinedWidth, "undefined"},
		{"init mismatch", InitMismatch(PhaseLayout, "w", 1, 2), KindInitMismatch, "1 bytes"},
		{"out of range", OutOfRange(PhaseInstance, "w", 12, 10), KindOutOfRange, "byte 12"},
		{"out of bounds", OutOfBounds(PhaseMemory, 8, 4, 10), KindOutOfBounds, "offset 8"},
		{"cycle", Cycle(PhaseLoad, []string{"A", "B", "A"}), KindCycle, "reference itself"},
		{"duplicate", DuplicateField(PhaseLayout, "x"), KindDuplicateField, "already defined"},
		{"finished", Finished(PhaseLayout), KindFinished, "finished"},
		{"unsupported", Unsupported(PhaseLayout, "kind 99"), KindUnsupported, "kind 99"},
		{"invalid input", InvalidInput(PhaseInstance, "bad"), KindInvalidInput, "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("kind: got %s, want %s", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.text) {
				t.Errorf("message %q does not contain %q", tt.err.Error(), tt.text)
			}
		})
	}
}

func TestWithPath(t *testing.T) {
	base := FieldNotFound(PhaseLayout, "b")
	err := WithPath(base, "DB1", "a")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("WithPath lost structured error")
	}
	if got := strings.Join(e.Path, "."); got != "DB1.a.b" {
		t.Errorf("path: got %q, want DB1.a.b", got)
	}
	if strings.Join(base.Path, ".") != "b" {
		t.Error("WithPath mutated the original error")
	}

	plain := errors.New("plain")
	if WithPath(plain, "x") != plain {
		t.Error("plain errors should pass through")
	}
}
