package api

import (
	"errors"
	"fmt"
)

// Kind classifies a normalized API error.
type Kind string

const (
	// KindAuthRequired: missing or rejected token. Surfaced as a login
	// prompt, not a generic error.
	KindAuthRequired Kind = "auth_required"

	// KindValidation: malformed arguments, rejected before any network call.
	KindValidation Kind = "validation"

	// KindBackendReported: the backend answered with success=false. The
	// message is operator-authored and must be shown verbatim.
	KindBackendReported Kind = "backend_reported"

	// KindNetworkOrUnknown: transport failure or unexpected response shape.
	KindNetworkOrUnknown Kind = "network_or_unknown"
)

// Error is the normalized error shape for all backend interactions.
type Error struct {
	Kind       Kind
	StatusCode int    // HTTP status, 0 when the request never completed
	Message    string // user-facing message
	Err        error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// kindOf extracts the Kind of err, or KindNetworkOrUnknown for foreign errors.
func kindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetworkOrUnknown
}

// IsAuthRequired reports whether err is an authentication failure.
func IsAuthRequired(err error) bool { return kindOf(err) == KindAuthRequired }

// IsValidation reports whether err was rejected before reaching the network.
func IsValidation(err error) bool { return kindOf(err) == KindValidation }

// IsBackendReported reports whether err carries a verbatim backend message.
func IsBackendReported(err error) bool { return kindOf(err) == KindBackendReported }

// validationError builds a pre-network validation error.
func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}
