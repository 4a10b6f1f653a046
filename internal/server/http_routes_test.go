package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"resumelens/internal/config"
	"resumelens/internal/errors"
)

func newTestServer(t *testing.T, cfg ServerConfig) *Server {
	t.Helper()
	logger := errors.NewLogger(slog.LevelError)
	return NewServer(&config.Config{}, cfg, logger)
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthMiddlewareNoKeysConfigured(t *testing.T) {
	s := newTestServer(t, ServerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	rec := httptest.NewRecorder()
	s.authMiddleware(okHandler)(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected passthrough without configured keys, got %d", rec.Code)
	}
}

func TestAuthMiddlewareMissingKey(t *testing.T) {
	s := newTestServer(t, ServerConfig{APIKeys: []string{"secret-key-123456"}})

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	rec := httptest.NewRecorder()
	s.authMiddleware(okHandler)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for missing key, got %d", rec.Code)
	}
}

func TestAuthMiddlewareInvalidKey(t *testing.T) {
	s := newTestServer(t, ServerConfig{APIKeys: []string{"secret-key-123456"}})

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	rec := httptest.NewRecorder()
	s.authMiddleware(okHandler)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for invalid key, got %d", rec.Code)
	}
}

func TestAuthMiddlewareValidKey(t *testing.T) {
	s := newTestServer(t, ServerConfig{APIKeys: []string{"secret-key-123456"}})

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.Header.Set("X-API-Key", "secret-key-123456")
	rec := httptest.NewRecorder()
	s.authMiddleware(okHandler)(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for valid key, got %d", rec.Code)
	}
}

func TestAuthMiddlewareBearerFallback(t *testing.T) {
	s := newTestServer(t, ServerConfig{APIKeys: []string{"secret-key-123456"}})

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.Header.Set("Authorization", "Bearer secret-key-123456")
	rec := httptest.NewRecorder()
	s.authMiddleware(okHandler)(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for valid bearer token, got %d", rec.Code)
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("short"); got != "****" {
		t.Errorf("Short keys should be fully masked, got %q", got)
	}
	if got := maskAPIKey("abcdefgh12345678"); got != "abcdefgh****" {
		t.Errorf("Expected prefix plus mask, got %q", got)
	}
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errors.NewValidationError(errors.ErrCodeInvalidRequest, "bad input", nil), http.StatusBadRequest},
		{"cancelled", errors.NewCancelledError(errors.ErrCodeCancelled, "cancelled", nil), http.StatusRequestTimeout},
		{"auth", errors.NewAuthError(errors.ErrCodeMissingAPIKey, "no key", nil), http.StatusBadGateway},
		{"network", errors.NewNetworkError(errors.ErrCodeNetworkTimeout, "timeout", nil), http.StatusBadGateway},
		{"provider", errors.NewProviderError(errors.ErrCodeProviderRejected, "rejected", nil), http.StatusBadGateway},
		{"io", errors.NewIOError(errors.ErrCodeFileNotReadable, "boom", nil), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusForError(tc.err); got != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestReadAPIKeysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.txt")
	content := "key-one\n\n# a comment\n  key-two  \n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write keys file: %v", err)
	}

	keys, err := readAPIKeysFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("Expected 2 keys, got %d: %v", len(keys), keys)
	}
	if keys[0] != "key-one" || keys[1] != "key-two" {
		t.Errorf("Unexpected keys: %v", keys)
	}
}

func TestLoadAPIKeysMergesFileAndConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.txt")
	if err := os.WriteFile(path, []byte("file-key\n"), 0o600); err != nil {
		t.Fatalf("Failed to write keys file: %v", err)
	}

	s := newTestServer(t, ServerConfig{
		APIKeys:     []string{"static-key"},
		APIKeysFile: path,
	})

	if !s.isValidAPIKey("static-key") {
		t.Error("Configured key should be active")
	}
	if !s.isValidAPIKey("file-key") {
		t.Error("File key should be active")
	}
	if s.apiKeyCount() != 2 {
		t.Errorf("Expected 2 active keys, got %d", s.apiKeyCount())
	}

	// Rewriting the file and reloading swaps the file keys but keeps the
	// static ones.
	if err := os.WriteFile(path, []byte("rotated-key\n"), 0o600); err != nil {
		t.Fatalf("Failed to rewrite keys file: %v", err)
	}
	if err := s.loadAPIKeys(); err != nil {
		t.Fatalf("Unexpected reload error: %v", err)
	}

	if s.isValidAPIKey("file-key") {
		t.Error("Rotated-out key should no longer be active")
	}
	if !s.isValidAPIKey("rotated-key") {
		t.Error("Rotated-in key should be active")
	}
	if !s.isValidAPIKey("static-key") {
		t.Error("Configured key should survive reloads")
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "192.0.2.10:34567"

	if got := getClientIP(req); got != "192.0.2.10" {
		t.Errorf("Expected RemoteAddr host, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 192.0.2.10")
	if got := getClientIP(req); got != "203.0.113.5" {
		t.Errorf("Expected first forwarded IP, got %q", got)
	}
}

func TestGetRateLimitKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.RemoteAddr = "192.0.2.10:34567"
	req.Header.Set("X-API-Key", "abc123")

	if got := getRateLimitKey(req, true, true); got != "api:abc123" {
		t.Errorf("API key should win when enabled, got %q", got)
	}
	if got := getRateLimitKey(req, false, true); got != "ip:192.0.2.10" {
		t.Errorf("Expected IP key, got %q", got)
	}
	if got := getRateLimitKey(req, false, false); got != "" {
		t.Errorf("Expected empty key when both modes disabled, got %q", got)
	}
}
