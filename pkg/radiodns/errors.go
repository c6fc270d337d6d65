package radiodns

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by what the caller can do about it.
type Kind uint8

const (
	// KindValidation means an identifier or name was malformed. Retrying
	// with the same input fails again.
	KindValidation Kind = iota + 1

	// KindTransient means a query failed in a way that may succeed later.
	KindTransient

	// KindFatal means the operation was aborted and all partial results
	// were discarded.
	KindFatal
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransient:
		return "transient"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Sentinel errors wrapped by *Error.
var (
	ErrFieldRange      = errors.New("field out of range")
	ErrCountryCode     = errors.New("invalid country code")
	ErrSuffixTooLong   = errors.New("suffix too long")
	ErrInvalidDomain   = errors.New("invalid domain name")
	ErrDomainTooLong   = errors.New("domain name too long")
	ErrInvalidService  = errors.New("invalid service name")
	ErrNoQuerier       = errors.New("no querier configured")
	ErrAnswerTooLarge  = errors.New("answer exceeds buffer")
	ErrRedirectLoop    = errors.New("redirect chain exceeds hop limit")
	ErrClosed          = errors.New("context closed")
	ErrQueryFailed     = errors.New("query failed")
	ErrNoAnswerMessage = errors.New("answer could not be decoded")
)

// Error is a tagged resolution failure.
type Error struct {
	// Kind tags the failure.
	Kind Kind

	// Op is the operation that failed (e.g. "fm", "resolve target", "query").
	Op string

	// Name is the domain name or field involved, if any.
	Name string

	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + " error"
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Name != "" {
		msg += " (" + e.Name + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates a KindValidation error.
func NewValidationError(op, name string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Name: name, Err: err}
}

// NewTransientError creates a KindTransient error.
func NewTransientError(op, name string, err error) *Error {
	return &Error{Kind: KindTransient, Op: op, Name: name, Err: err}
}

// NewFatalError creates a KindFatal error.
func NewFatalError(op, name string, err error) *Error {
	return &Error{Kind: KindFatal, Op: op, Name: name, Err: err}
}

// KindOf returns the kind of err. Errors that are not *Error are reported
// as transient, since nothing is known about them.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransient
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsTransient reports whether err is a transient failure.
func IsTransient(err error) bool {
	return KindOf(err) == KindTransient
}

// IsFatal reports whether err is a fatal failure.
func IsFatal(err error) bool {
	return KindOf(err) == KindFatal
}

// fieldRange builds the validation error for an out-of-range identifier.
func fieldRange(op, field string, value, limit uint32) error {
	return NewValidationError(op, field, fmt.Errorf("%w: %d > %d", ErrFieldRange, value, limit))
}
