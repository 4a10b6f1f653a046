package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	plain := NewValidationError(ErrCodeInvalidRequest, "resume text is required", nil)
	assert.Equal(t, "INVALID_REQUEST: resume text is required", plain.Error())

	wrapped := NewIOError(ErrCodeFileNotReadable, "cannot read resume", fmt.Errorf("permission denied"))
	assert.Equal(t, "FILE_NOT_READABLE: cannot read resume (caused by: permission denied)", wrapped.Error())
	assert.EqualError(t, wrapped.Unwrap(), "permission denied")
}

func TestTypeOfUnwrapsChain(t *testing.T) {
	inner := NewNetworkError(ErrCodeNetworkTimeout, "provider timed out", nil)
	outer := fmt.Errorf("analyze failed: %w", inner)

	assert.Equal(t, ErrorTypeNetwork, TypeOf(outer))
	assert.Equal(t, ErrorTypeInternal, TypeOf(fmt.Errorf("plain error")))
}

func TestErrorClassPredicates(t *testing.T) {
	assert.True(t, IsRetryable(NewNetworkError(ErrCodeNetworkTimeout, "timeout", nil)))
	assert.False(t, IsRetryable(NewProviderError(ErrCodeProviderRejected, "bad request", nil)))
	assert.False(t, IsRetryable(NewAuthError(ErrCodeAuthFailed, "bad key", nil)))

	assert.True(t, IsAuthError(NewAuthError(ErrCodeAuthFailed, "bad key", nil)))
	assert.True(t, IsCancelled(NewCancelledError(ErrCodeCancelled, "cancelled", nil)))
	assert.False(t, IsCancelled(NewConfigError(ErrCodeInvalidConfig, "bad config", nil)))
}

func TestWithContext(t *testing.T) {
	err := NewIOError(ErrCodeFileNotFound, "missing file", nil).
		WithContext("path", "/tmp/resume.txt").
		WithContext("operation", "analyze")

	assert.Equal(t, "/tmp/resume.txt", err.Context["path"])
	assert.Equal(t, "analyze", err.Context["operation"])
}

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(level)
		require.NoError(t, err, level)
		assert.NotNil(t, logger)
	}

	_, err := New("verbose")
	assert.ErrorContains(t, err, "invalid log level")
}
