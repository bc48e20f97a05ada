package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // NAR grammar
	PhaseStream   Phase = "stream"   // incremental feeding
	PhaseValidate Phase = "validate" // canonical form checks
	PhaseLoad     Phase = "load"     // buffer acquisition
	PhaseConfig   Phase = "config"   // CLI configuration
	PhaseFS       Phase = "fs"       // io/fs view
)

// Kind categorizes the error
type Kind string

const (
	KindIncomplete        Kind = "incomplete"
	KindTagMismatch       Kind = "tag_mismatch"
	KindNoMatchingVariant Kind = "no_matching_variant"
	KindTrailingData      Kind = "trailing_data"
	KindUnsortedEntries   Kind = "unsorted_entries"
	KindDuplicateEntry    Kind = "duplicate_entry"
	KindInvalidName       Kind = "invalid_name"
	KindDepthExceeded     Kind = "depth_exceeded"
	KindInvalidData       Kind = "invalid_data"
	KindInvalidInput      Kind = "invalid_input"
	KindNotFound          Kind = "not_found"
	KindUnsupported       Kind = "unsupported"
)

// Error is the structured error type used throughout the module.
//
// Offset is the byte offset of the field that failed, or -1 when the
// error is not tied to a position in the input.
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Expected string
	Detail   string
	Path     []string
	Offset   int
	Need     int
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

	if e.Offset >= 0 {
		b.WriteString(" (offset ")
		b.WriteString(strconv.Itoa(e.Offset))
		b.WriteByte(')')
	}

	if e.Kind == KindIncomplete && e.Need > 0 {
		b.WriteString(": need ")
		b.WriteString(strconv.Itoa(e.Need))
		b.WriteString(" more bytes")
	}

	if e.Expected != "" {
		b.WriteString(": expected ")
		b.WriteString(strconv.Quote(e.Expected))
	}

	if e.Detail != "" {
		if e.Expected != "" || (e.Kind == KindIncomplete && e.Need > 0) {
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

// Incomplete reports whether the error is a request for more input
// rather than a grammar violation.
func (e *Error) Incomplete() bool {
	return e.Kind == KindIncomplete && e.Phase == PhaseDecode
}

// WithPath returns a copy of e with elem prepended to its path.
func (e *Error) WithPath(elem ...string) *Error {
	c := *e
	c.Path = make([]string, 0, len(elem)+len(e.Path))
	c.Path = append(c.Path, elem...)
	c.Path = append(c.Path, e.Path...)
	return &c
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Path sets the production path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte offset of the failing field
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Need sets the minimum number of additional bytes required
func (b *Builder) Need(n int) *Builder {
	b.err.Need = n
	return b
}

// Expected sets the literal that was expected
func (b *Builder) Expected(s string) *Builder {
	b.err.Expected = s
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

// Convenience constructors for common error patterns

// Incomplete creates a suspension signal: need more bytes are required
// before the field at offset can be decided.
func Incomplete(offset, need int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindIncomplete,
		Offset: offset,
		Need:   need,
	}
}

// TagMismatch creates a permanent framing error for the literal expected
func TagMismatch(offset int, expected, detail string) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindTagMismatch,
		Offset:   offset,
		Expected: expected,
		Detail:   detail,
	}
}

// NoMatchingVariant creates an error for an entry whose type keyword
// matched none of the known node types.
func NoMatchingVariant(offset int, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindNoMatchingVariant,
		Offset: offset,
		Detail: "expected one of regular, symlink, directory",
		Cause:  cause,
	}
}

// TrailingData creates an error for bytes left after a complete archive
func TrailingData(offset, n int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTrailingData,
		Offset: offset,
		Detail: fmt.Sprintf("%d unexpected bytes after archive", n),
		Value:  n,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Offset: -1,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Offset: -1,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}

// IsIncomplete reports whether err (or anything it wraps) is a decode
// suspension signal, and how many more bytes it asked for.
func IsIncomplete(err error) (need int, ok bool) {
	var e *Error
	if stderrors.As(err, &e) && e.Incomplete() {
		return e.Need, true
	}
	return 0, false
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
