package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappedError(t *testing.T) {
	err := NotFoundErr("no accounts found")

	wrapped, ok := IsWrappedError(err)
	assert.True(t, ok)
	assert.Equal(t, "no accounts found", wrapped.GetMessage())
	assert.Empty(t, wrapped.GetDetails())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		baseErr error
		message string
	}{
		{
			name:    "NotFoundErr",
			err:     NotFoundErr("resource not found"),
			baseErr: ErrNotFound,
			message: "resource not found",
		},
		{
			name:    "BadRequestErr",
			err:     BadRequestErr("invalid input"),
			baseErr: ErrBadRequest,
			message: "invalid input",
		},
		{
			name:    "NotAuthorizedErr",
			err:     NotAuthorizedErr("unauthorized"),
			baseErr: ErrNotAuthorized,
			message: "unauthorized",
		},
		{
			name:    "UnsupportedMediaTypeErr",
			err:     UnsupportedMediaTypeErr("Content-Type must be application/json"),
			baseErr: ErrUnsupportedMediaType,
			message: "Content-Type must be application/json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.baseErr))
			wrapped, ok := IsWrappedError(tt.err)
			assert.True(t, ok)
			assert.Equal(t, tt.message, wrapped.GetMessage())
		})
	}
}

func TestWithDetails(t *testing.T) {
	t.Run("wrapped error keeps kind and message", func(t *testing.T) {
		err := WithDetails(NotAuthorizedErr("Invalid LDAP Format"), "LDAP ID or Password not found")

		assert.True(t, errors.Is(err, ErrNotAuthorized))
		wrapped, ok := IsWrappedError(err)
		assert.True(t, ok)
		assert.Equal(t, "Invalid LDAP Format", wrapped.GetMessage())
		assert.Equal(t, "LDAP ID or Password not found", wrapped.GetDetails())
	})

	t.Run("wrapped deeper in a chain", func(t *testing.T) {
		err := WithDetails(fmt.Errorf("authenticate: %w", BadRequestErr("bad")), "more")

		wrapped, ok := IsWrappedError(err)
		assert.True(t, ok)
		assert.Equal(t, "more", wrapped.GetDetails())
	})

	t.Run("plain error unchanged", func(t *testing.T) {
		plain := errors.New("boom")
		assert.Equal(t, plain, WithDetails(plain, "ignored"))
	})
}
