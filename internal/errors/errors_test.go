package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns formatted string", func(t *testing.T) {
		err := New(ErrCodeInvalidCode, "Invalid or expired code")
		assert.Equal(t, "INVALID_CODE: Invalid or expired code", err.Error())
	})

	t.Run("Error with cause includes cause", func(t *testing.T) {
		cause := errors.New("open index.html: no such file")
		err := EntryUnavailable(cause)
		assert.Contains(t, err.Error(), "ENTRY_UNAVAILABLE")
		assert.Contains(t, err.Error(), "Entry document unavailable")
		assert.Contains(t, err.Error(), "no such file")
	})

	t.Run("WithCause adds cause to error", func(t *testing.T) {
		cause := errors.New("original error")
		err := New(ErrCodeInternal, "Something went wrong").WithCause(cause)
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("WithDetails adds details to error", func(t *testing.T) {
		details := map[string]string{"path": "script.js"}
		err := New(ErrCodeAssetNotFound, "missing").WithDetails(details)
		assert.Equal(t, details, err.Details)
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		constructor  func() *AppError
		expectedCode ErrorCode
	}{
		{"InvalidCode", func() *AppError { return InvalidCode("abc") }, ErrCodeInvalidCode},
		{"AssetNotFound", func() *AppError { return AssetNotFound("a.js", nil) }, ErrCodeAssetNotFound},
		{"EntryUnavailable", func() *AppError { return EntryUnavailable(nil) }, ErrCodeEntryUnavailable},
		{"RouteNotFound", func() *AppError { return RouteNotFound("/x") }, ErrCodeRouteNotFound},
		{"AccessDenied", func() *AppError { return AccessDenied() }, ErrCodeAccessDenied},
		{"Internal", func() *AppError { return Internal("test") }, ErrCodeInternal},
		{"External", func() *AppError { return External("ipinfo", errors.New("timeout")) }, ErrCodeExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constructor()
			assert.Equal(t, tt.expectedCode, err.Code)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestAsAppError(t *testing.T) {
	t.Run("unwraps wrapped AppError", func(t *testing.T) {
		wrapped := fmt.Errorf("serve entry: %w", EntryUnavailable(nil))
		appErr, ok := AsAppError(wrapped)
		assert.True(t, ok)
		assert.Equal(t, ErrCodeEntryUnavailable, appErr.Code)
	})

	t.Run("plain error is not an AppError", func(t *testing.T) {
		_, ok := AsAppError(errors.New("boom"))
		assert.False(t, ok)
		assert.False(t, IsAppError(errors.New("boom")))
		assert.Equal(t, ErrCodeInternal, GetCode(errors.New("boom")))
	})
}

func TestIsDeny(t *testing.T) {
	t.Run("gate and resource failures are deny", func(t *testing.T) {
		assert.True(t, IsDeny(InvalidCode("abc")))
		assert.True(t, IsDeny(AssetNotFound("x.js", nil)))
		assert.True(t, IsDeny(EntryUnavailable(errors.New("io"))))
		assert.True(t, IsDeny(RouteNotFound("/nope")))
		assert.True(t, IsDeny(fmt.Errorf("wrapped: %w", InvalidCode("abc"))))
	})

	t.Run("faults are not deny", func(t *testing.T) {
		assert.False(t, IsDeny(Internal("boom")))
		assert.False(t, IsDeny(External("ipinfo", nil)))
		assert.False(t, IsDeny(AccessDenied()))
		assert.False(t, IsDeny(errors.New("plain")))
		assert.False(t, IsDeny(nil))
	})
}
