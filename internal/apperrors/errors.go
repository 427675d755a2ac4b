package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.mongodb.org/mongo-driver/mongo"
)

// Kind classifies a backend failure for retry and user-visibility decisions.
type Kind int

const (
	// KindUnknown is anything not otherwise classified. Treated as terminal
	// (fail closed, never retried).
	KindUnknown Kind = iota
	// KindConnectivity means the backend was unreachable or timed out. Retryable,
	// and never surfaced as a hard failure during the toggle flow.
	KindConnectivity
	// KindValidation means the request itself was malformed. Terminal.
	KindValidation
	// KindPermission means the caller is not allowed to perform the mutation.
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindValidation:
		return "validation"
	case KindPermission:
		return "permission"
	default:
		return "unknown"
	}
}

// Error is a classified backend error. Op names the failing operation
// (e.g. "ledger.mutate") for logging.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a classified error with an explicit kind.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validationf builds a terminal validation error.
func Validationf(op, format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

// Permissionf builds a terminal permission error.
func Permissionf(op, format string, args ...interface{}) error {
	return &Error{Kind: KindPermission, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap classifies err and tags it with op. Errors that already carry a
// classification pass through unchanged so the original kind survives
// repository and service boundaries.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: classify(err), Op: op, Err: err}
}

// KindOf extracts the classification from err, KindUnknown when untagged.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return classify(err)
}

// IsRetryable reports whether the retry executor may re-attempt after err.
// Only connectivity failures are retryable; unknown errors fail closed.
func IsRetryable(err error) bool {
	return KindOf(err) == KindConnectivity
}

// classify maps raw driver/transport errors onto the taxonomy by inspecting
// typed error values, never message text.
func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindConnectivity
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnectivity
	}
	if errors.Is(err, mongo.ErrClientDisconnected) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return KindConnectivity
	}
	return KindUnknown
}
