// Package errors provides structured error types for the layout engine.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the field path, the declared data type and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLayout, errors.KindUndefinedWidth).
//		Path("DB1", "motor", "inst").
//		Type("FB 10").
//		Detail("width of data structure field is undefined").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FieldNotFound(errors.PhaseInstance, "motor.speed")
//	err := errors.OutOfRange(errors.PhaseInstance, path, 12, 10)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
