package adminapi

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Kind classifies a failed admin API call. The console maps each kind to a
// distinct behavior: AuthRejected tears the session down, everything else
// is surfaced as a transient notice and leaves prior state intact.
type Kind int

const (
	KindNetwork Kind = iota
	KindTimeout
	KindAuthRejected
	KindValidation
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindAuthRejected:
		return "auth_rejected"
	case KindValidation:
		return "validation"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by every Client method.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for transport failures
	Message string // server-reported message when present
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("admin api: %s (%s)", e.Message, e.Kind)
	}
	if e.cause != nil {
		return fmt.Sprintf("admin api: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("admin api: %s failure", e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf extracts the failure kind; ok is false for non-API errors.
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsAuthRejected reports whether err is a 401/403 rejection.
func IsAuthRejected(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindAuthRejected
}

func transportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &Error{Kind: KindTimeout, cause: err}
	}
	return &Error{Kind: KindNetwork, cause: err}
}
