package hcm

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind classifies bridge errors.
type Kind int

const (
	// KindInternal is a non-2xx remote response, a malformed remote payload,
	// or a required field missing from an otherwise successful response.
	KindInternal Kind = iota
	// KindInvalidParams is a caller error: empty or malformed input,
	// or a lookup that legitimately found nothing.
	KindInvalidParams
	// KindMissingConfig is a required configuration value that is absent.
	KindMissingConfig
	// KindHTTP is a network level failure reaching the remote API.
	KindHTTP
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidParams:
		return "invalid_params"
	case KindMissingConfig:
		return "missing_config"
	case KindHTTP:
		return "http"
	default:
		return "internal"
	}
}

func (k Kind) prefix() string {
	switch k {
	case KindInvalidParams:
		return "invalid parameters"
	case KindMissingConfig:
		return "missing configuration"
	case KindHTTP:
		return "HTTP request error"
	default:
		return "internal error"
	}
}

// Error is the error returned by the bridge.
type Error struct {
	Kind    Kind
	Message string
	// Variable is the name of the absent configuration value,
	// set only for KindMissingConfig.
	Variable string

	cause error
}

func (e *Error) Error() string {
	switch {
	case e.cause != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind.prefix(), e.Message, e.cause.Error())
	case e.cause != nil:
		return fmt.Sprintf("%s: %s", e.Kind.prefix(), e.cause.Error())
	default:
		return fmt.Sprintf("%s: %s", e.Kind.prefix(), e.Message)
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// InvalidParams returns KindInvalidParams error.
func InvalidParams(format string, args ...any) error {
	return &Error{Kind: KindInvalidParams, Message: fmt.Sprintf(format, args...)}
}

// MissingConfig returns KindMissingConfig error for the named variable.
func MissingConfig(variable string) error {
	return &Error{
		Kind:     KindMissingConfig,
		Message:  variable + " must be set",
		Variable: variable,
	}
}

// HTTPError returns KindHTTP error wrapping a transport failure.
func HTTPError(err error) error {
	return &Error{Kind: KindHTTP, cause: err}
}

// Internal returns KindInternal error.
func Internal(format string, args ...any) error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// WrapInternal returns KindInternal error with the cause.
func WrapInternal(err error, msg string) error {
	return &Error{Kind: KindInternal, Message: msg, cause: err}
}

// KindOf returns the kind of the first *Error in the chain.
// Errors not produced by this package are reported as KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind returns true if err is a bridge error of the kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
