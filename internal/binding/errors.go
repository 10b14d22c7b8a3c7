package binding

import (
	"errors"
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind classifies a property access failure.
type Kind int

const (
	_ Kind = iota // zero value is not a valid kind

	// KindNotWritable means the property does not exist or cannot be written.
	KindNotWritable
	// KindNullPath means a nested path traverses a nil segment that could not
	// be created.
	KindNullPath
	// KindValueRejected means the property was reached but the value could not
	// be applied (conversion, validation or setter failure).
	KindValueRejected
	// KindNotReadable is only produced by Target.Read.
	KindNotReadable
)

// Codes carried by PropertyError.Code.
const (
	CodeNotWritable      = "notWritable"
	CodeNullPath         = "nullPath"
	CodeTypeMismatch     = "typeMismatch"
	CodeMethodInvocation = "methodInvocation"
	CodeValidation       = "validation"
	CodeNotReadable      = "notReadable"
)

var (
	ErrNoSuchProperty  = errors.New("no such property")
	ErrReadOnly        = errors.New("property is read-only")
	ErrNilPath         = errors.New("nil value in nested path")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrTypeMismatch    = errors.New("type mismatch")
)

// PropertyError describes one failed property access.
type PropertyError struct {
	// Path is the property name or nested path as given by the caller.
	Path string
	Kind Kind
	// Code refines Kind, e.g. typeMismatch or validation for KindValueRejected.
	Code string
	// Value is the value the caller tried to write.
	Value any
	// OldValue is the value held before the write, when the target captures it.
	OldValue any
	// Suggestions lists similar property names for KindNotWritable.
	Suggestions []string
	// Err is the underlying cause.
	Err error
}

// NewPropertyError builds a PropertyError with the default code for kind.
func NewPropertyError(kind Kind, path string, value any, err error) *PropertyError {
	return &PropertyError{
		Path:  path,
		Kind:  kind,
		Code:  defaultCode(kind),
		Value: value,
		Err:   err,
	}
}

func defaultCode(kind Kind) string {
	switch kind {
	case KindNotWritable:
		return CodeNotWritable
	case KindNullPath:
		return CodeNullPath
	case KindValueRejected:
		return CodeTypeMismatch
	case KindNotReadable:
		return CodeNotReadable
	default:
		return ""
	}
}

// Error implements the error interface.
func (e *PropertyError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "property %q", e.Path)

	switch e.Kind {
	case KindNotWritable:
		b.WriteString(" is not writable")
	case KindNullPath:
		b.WriteString(" is not reachable")
	case KindValueRejected:
		fmt.Fprintf(&b, " rejected value %v", e.Value)
	case KindNotReadable:
		b.WriteString(" is not readable")
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}

	return b.String()
}

// Unwrap returns the underlying cause.
func (e *PropertyError) Unwrap() error {
	return e.Err
}

// BatchError is returned when a batch ran to completion but one or more
// values were rejected. Failures keep assignment order.
type BatchError struct {
	failures []*PropertyError
}

// Failures returns the collected failures in assignment order.
func (e *BatchError) Failures() []*PropertyError {
	out := make([]*PropertyError, len(e.failures))
	copy(out, e.failures)

	return out
}

// Len returns the number of collected failures.
func (e *BatchError) Len() int {
	return len(e.failures)
}

// Failure returns the first failure recorded for path, or nil.
func (e *BatchError) Failure(path string) *PropertyError {
	for _, f := range e.failures {
		if f.Path == path {
			return f
		}
	}

	return nil
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.failures))
	for _, f := range e.failures {
		parts = append(parts, f.Error())
	}

	return fmt.Sprintf("%d property assignment(s) failed: %s", len(e.failures), strings.Join(parts, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.failures))
	for i, f := range e.failures {
		errs[i] = f
	}

	return errs
}

// KindOf reports the Kind of err if it is or wraps a *PropertyError.
func KindOf(err error) (Kind, bool) {
	var pe *PropertyError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}

	return 0, false
}
