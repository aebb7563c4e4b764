package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthError_Fallback(t *testing.T) {
	e := NewAuthError("", "Login failed", nil)
	assert.Equal(t, "Login failed", e.Error())

	e = NewAuthError("Invalid credentials", "Login failed", nil)
	assert.Equal(t, "Invalid credentials", e.Error())
}

func TestAuthError_UnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("login: %w", NewAuthError("", "Login failed", cause))

	require.True(t, IsAuth(err))
	require.ErrorIs(t, err, cause)
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "price: must not be negative", (&ValidationError{Field: "price", Message: "must not be negative"}).Error())
	assert.Equal(t, "field required", (&ValidationError{Message: "field required"}).Error())
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("get: %w", &NotFoundError{Resource: "product", ID: "7"})
	require.True(t, IsNotFound(err))
	assert.Equal(t, "get: product 7 not found", err.Error())
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{Op: "GET /auth/me", Err: cause}
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "GET /auth/me")
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("secret")
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
	WipeByteArray(nil)
}
