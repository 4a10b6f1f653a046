package server

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"time"

	"resumelens/internal/config"
	resumelensErrors "resumelens/internal/errors"
)

// AnalyzeRequest represents the request body for the analyze endpoint
// FocusRequest represents the request body for the focus endpoint
// ErrorResponse represents an error response
type AnalyzeRequest struct {
	ResumeText     string `json:"resumeText"`
	TargetRole     string `json:"targetRole,omitempty"`
	TargetIndustry string `json:"targetIndustry,omitempty"`
	Model          string `json:"model,omitempty"`
	MaxTokens      int    `json:"maxTokens,omitempty"`
}

type FocusRequest struct {
	ResumeText string   `json:"resumeText"`
	FocusAreas []string `json:"focusAreas"`
}

type CareersRequest struct {
	ResumeText  string            `json:"resumeText"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

type AtsRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// API Authentication. The key set can be swapped at runtime when an
	// API keys file is configured and changes on disk.
	APIKeysFile string
	keyMu       sync.RWMutex
	apiKeys     map[string]bool
	staticKeys  []string
	keyWatcher  *KeyWatcher

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *resumelensErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
// (Refactored to reduce long parameter list in NewServer)
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	APIKeysFile    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *resumelensErrors.Logger) *Server {
	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		APIKeysFile:    cfg.APIKeysFile,
		staticKeys:     cfg.APIKeys,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}

	if err := s.loadAPIKeys(); err != nil {
		logger.LogError(err, "Failed to load API keys file, using configured keys only",
			"file", cfg.APIKeysFile)
	}

	return s
}

// loadAPIKeys rebuilds the active key set from the static configuration
// plus the optional keys file. Called at startup and on file change.
func (s *Server) loadAPIKeys() error {
	keys := make(map[string]bool)
	for _, key := range s.staticKeys {
		if key != "" {
			keys[key] = true
		}
	}

	var readErr error
	if s.APIKeysFile != "" {
		fileKeys, err := readAPIKeysFile(s.APIKeysFile)
		if err != nil {
			readErr = err
		}
		for _, key := range fileKeys {
			keys[key] = true
		}
	}

	s.keyMu.Lock()
	s.apiKeys = keys
	s.keyMu.Unlock()

	return readErr
}

// readAPIKeysFile reads one API key per line, skipping blanks and comments.
func readAPIKeysFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var keys []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keys = append(keys, line)
	}
	return keys, scanner.Err()
}

// isValidAPIKey checks a presented key against the active key set.
func (s *Server) isValidAPIKey(key string) bool {
	s.keyMu.RLock()
	defer s.keyMu.RUnlock()
	return s.apiKeys[key]
}

// apiKeyCount returns the number of active keys.
func (s *Server) apiKeyCount() int {
	s.keyMu.RLock()
	defer s.keyMu.RUnlock()
	return len(s.apiKeys)
}
