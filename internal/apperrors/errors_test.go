package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_NilPassesThrough(t *testing.T) {
	assert.NoError(t, Wrap("op", nil))
}

func TestWrap_ClassifiesDeadlineAsConnectivity(t *testing.T) {
	err := Wrap("ledger.get", context.DeadlineExceeded)
	assert.Equal(t, KindConnectivity, KindOf(err))
	assert.True(t, IsRetryable(err))
}

func TestWrap_ClassifiesNetErrorAsConnectivity(t *testing.T) {
	var netErr error = &net.DNSError{Err: "no such host", IsTimeout: true}
	err := Wrap("owners.list", fmt.Errorf("scan: %w", netErr))
	assert.Equal(t, KindConnectivity, KindOf(err))
}

func TestWrap_UnknownFailsClosed(t *testing.T) {
	err := Wrap("ledger.mutate", errors.New("schema violation"))
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.False(t, IsRetryable(err))
}

func TestWrap_PreservesExistingKind(t *testing.T) {
	inner := Validationf("ledger.toggle", "missing post id")
	err := Wrap("retry.attempt", inner)
	assert.Equal(t, KindValidation, KindOf(err))
	// Unchanged, not double-wrapped.
	assert.Equal(t, inner, err)
}

func TestPermissionf_KindAndMessage(t *testing.T) {
	err := Permissionf("likes.toggle", "must be signed in")
	assert.Equal(t, KindPermission, KindOf(err))
	assert.Contains(t, err.Error(), "likes.toggle")
	assert.Contains(t, err.Error(), "permission")
	assert.Contains(t, err.Error(), "must be signed in")
}

func TestKindOf_ClassifiesUntaggedErrors(t *testing.T) {
	assert.Equal(t, KindConnectivity, KindOf(context.Canceled))
	assert.Equal(t, KindUnknown, KindOf(errors.New("whatever")))
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := E(KindUnknown, "op", inner)
	assert.True(t, errors.Is(err, inner))
}
