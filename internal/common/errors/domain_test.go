package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_DerivedKeepsIdentity(t *testing.T) {
	cause := errors.New("connection reset")
	derived := ErrDatabaseError.WithCause(cause)

	assert.True(t, errors.Is(derived, ErrDatabaseError))
	assert.True(t, errors.Is(derived, cause))
	assert.Equal(t, "internal server error: connection reset", derived.Error())
	assert.Equal(t, "internal server error", derived.Message())
}

func TestDomainError_SameCodeDifferentSentinel(t *testing.T) {
	first := NewDomainError("UNAUTHORIZED", CategoryUnauthorized, http.StatusUnauthorized, "nope")
	second := NewDomainError("UNAUTHORIZED", CategoryUnauthorized, http.StatusUnauthorized, "nope")

	assert.False(t, errors.Is(first, second))
	assert.False(t, errors.Is(second.WithCause(errors.New("x")), first))
}

func TestDomainError_WithMessageAndTraceID(t *testing.T) {
	derived := ErrInvalidPayload.WithMessage("title is required").WithTraceID("abc")

	assert.True(t, errors.Is(derived, ErrInvalidPayload))
	assert.Equal(t, "title is required", derived.Message())
	assert.Equal(t, "abc", derived.TraceID())
	assert.Equal(t, "", ErrInvalidPayload.TraceID())
	assert.Equal(t, "invalid json", ErrInvalidPayload.Message())
}

func TestAsDomainError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("create user: %w", ErrUsernameAlreadyExists)

	de, ok := AsDomainError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus())
	assert.Equal(t, CategoryConflict, de.Category())

	_, ok = AsDomainError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsDomainError(errors.New("plain")))
}
