package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies application errors so transport layers can map them
// to a response without inspecting messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidRequest
	KindGenerationFailed
	KindStorageFailure
	KindNotFound
)

// Code returns the wire-level error code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindGenerationFailed:
		return "generation_failed"
	case KindStorageFailure:
		return "storage_failure"
	case KindNotFound:
		return "not_found"
	default:
		return "internal_error"
	}
}

// HTTPStatus returns the HTTP status the kind maps to.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindGenerationFailed:
		return http.StatusBadGateway
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error with a kind and optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidRequest reports malformed generation parameters.
func InvalidRequest(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// GenerationFailed reports a failed or invalid LLM generation, keeping the cause.
func GenerationFailed(message string, err error) *Error {
	return &Error{Kind: KindGenerationFailed, Message: message, Err: err}
}

// StorageFailure reports a failed database operation, keeping the cause.
func StorageFailure(message string, err error) *Error {
	return &Error{Kind: KindStorageFailure, Message: message, Err: err}
}

// NotFound reports a lookup that matched nothing. Callers should treat
// it as an expected outcome, not a fault.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain, KindUnknown if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether the error chain contains a not-found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
