// Package errors provides structured error types for the narkit module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the production path, the byte offset of the failing
// field and, for incomplete input, the number of bytes still required.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTagMismatch).
//		Path("entry", "regular").
//		Offset(64).
//		Expected("contents").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Incomplete(120, 8)
//	err := errors.TagMismatch(64, "contents", "length 7")
//
// Incomplete errors are not grammar violations: they tell a streaming caller
// to supply more bytes and retry. Use IsIncomplete to tell them apart.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
