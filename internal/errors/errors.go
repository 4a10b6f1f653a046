package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrorType classifies failures so callers can pick a retry policy or an
// HTTP status without string-matching messages.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeAuth       ErrorType = "auth"
	ErrorTypeProvider   ErrorType = "provider"
	ErrorTypeCancelled  ErrorType = "cancelled"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Stable machine-readable error codes used across the CLI and server.
const (
	ErrCodeFileNotFound        = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable     = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat       = "INVALID_FORMAT"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeMissingAPIKey       = "MISSING_API_KEY"
	ErrCodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	ErrCodeProviderRejected    = "PROVIDER_REJECTED"
	ErrCodeAuthFailed          = "AUTH_FAILED"
	ErrCodeCancelled           = "CANCELLED"
	ErrCodeNetworkTimeout      = "NETWORK_TIMEOUT"
	ErrCodeInvalidConfig       = "INVALID_CONFIG"
)

// AppError is the structured error carried through the application. Code is
// stable and machine-readable; Message is for humans; Context holds extra
// key/value detail for logs.
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair for structured logging and returns
// the same error for chaining.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{Type: typ, Code: code, Message: message, Cause: cause}
}

// One constructor per error class.

func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, cause)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

func NewNetworkError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, code, message, cause)
}

func NewAuthError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeAuth, code, message, cause)
}

func NewProviderError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeProvider, code, message, cause)
}

func NewCancelledError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeCancelled, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// TypeOf returns the AppError type found anywhere in err's chain, or
// ErrorTypeInternal when the chain holds no AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsRetryable reports whether the error represents a transient failure
// worth retrying. Only network-class failures qualify; auth, validation,
// provider rejections, config problems and cancellations never do.
func IsRetryable(err error) bool {
	return TypeOf(err) == ErrorTypeNetwork
}

// IsAuthError reports whether the error is a credential failure.
func IsAuthError(err error) bool {
	return TypeOf(err) == ErrorTypeAuth
}

// IsCancelled reports whether the error came from context cancellation.
func IsCancelled(err error) bool {
	return TypeOf(err) == ErrorTypeCancelled
}

// Logger is a thin wrapper over slog that knows how to unpack AppError
// fields into structured attributes.
type Logger struct {
	logger *slog.Logger
}

// NewLogger builds a JSON logger writing to stdout at the given level.
func NewLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &Logger{logger: slog.New(handler)}
}

// New builds a Logger from a textual level name.
func New(level string) (*Logger, error) {
	levels := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	slogLevel, ok := levels[level]
	if !ok {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}
	return NewLogger(slogLevel), nil
}

// LogError logs err at error level. AppErrors, wrapped or not, contribute
// their type, code, message and context as structured attributes.
func (l *Logger) LogError(err error, message string, args ...any) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		l.logger.Error(message, append([]any{"error", err.Error()}, args...)...)
		return
	}

	logArgs := []any{
		"error_type", appErr.Type,
		"error_code", appErr.Code,
		"error_message", appErr.Message,
	}
	for key, value := range appErr.Context {
		logArgs = append(logArgs, key, value)
	}
	logArgs = append(logArgs, args...)
	l.logger.Error(message, logArgs...)
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}
